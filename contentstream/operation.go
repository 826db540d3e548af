package contentstream

import (
	"fmt"

	"github.com/sliderx/slidepdf/core"
)

// Operation represents a single content stream operation consisting of an
// operator and its operands. Operands are PDF objects that precede the operator.
type Operation struct {
	Operator string        // The operator (e.g., "Tj", "Tm", "q")
	Operands []core.Object // The operands
}

// Append writes the operation as one line of content stream syntax:
// operands separated by spaces, then the operator.
func (op Operation) Append(dst []byte) ([]byte, error) {
	for i, operand := range op.Operands {
		var err error
		dst, err = core.AppendObject(dst, operand)
		if err != nil {
			return dst, fmt.Errorf("%s operand %d: %w", op.Operator, i, err)
		}
		dst = append(dst, ' ')
	}
	dst = append(dst, op.Operator...)
	return append(dst, '\n'), nil
}
