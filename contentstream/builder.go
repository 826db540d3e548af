package contentstream

import (
	"fmt"

	"github.com/sliderx/slidepdf/core"
)

// Builder accumulates the operations of one content stream in drawing
// order. Methods return the Builder so calls can be chained:
//
//	b := contentstream.NewBuilder()
//	b.BeginText().SetFont("F1", 28).MoveText(50, 532).ShowText(codes).EndText()
//	data, err := b.Bytes()
//
// Operands are not validated until Bytes is called.
type Builder struct {
	ops []Operation
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add appends an arbitrary operation.
func (b *Builder) Add(operator string, operands ...core.Object) *Builder {
	b.ops = append(b.ops, Operation{Operator: operator, Operands: operands})
	return b
}

// Len returns the number of operations recorded so far.
func (b *Builder) Len() int {
	return len(b.ops)
}

// Operations returns a copy of the recorded operations.
func (b *Builder) Operations() []Operation {
	ops := make([]Operation, len(b.ops))
	copy(ops, b.ops)
	return ops
}

// Bytes serializes the operations, one per line.
func (b *Builder) Bytes() ([]byte, error) {
	var out []byte
	for i, op := range b.ops {
		var err error
		out, err = op.Append(out)
		if err != nil {
			return nil, fmt.Errorf("operation %d: %w", i, err)
		}
	}
	return out, nil
}

// Graphics state

// SaveState emits q.
func (b *Builder) SaveState() *Builder {
	return b.Add("q")
}

// RestoreState emits Q.
func (b *Builder) RestoreState() *Builder {
	return b.Add("Q")
}

// SetLineWidth emits w.
func (b *Builder) SetLineWidth(width float64) *Builder {
	return b.Add("w", core.Real(width))
}

// SetFillRGB emits rg, the non-stroking DeviceRGB colour.
func (b *Builder) SetFillRGB(r, g, bl float64) *Builder {
	return b.Add("rg", core.Real(r), core.Real(g), core.Real(bl))
}

// SetStrokeRGB emits RG, the stroking DeviceRGB colour.
func (b *Builder) SetStrokeRGB(r, g, bl float64) *Builder {
	return b.Add("RG", core.Real(r), core.Real(g), core.Real(bl))
}

// Paths

// Rectangle emits re, appending a rectangle to the current path.
func (b *Builder) Rectangle(x, y, width, height float64) *Builder {
	return b.Add("re", core.Real(x), core.Real(y), core.Real(width), core.Real(height))
}

// Stroke emits S.
func (b *Builder) Stroke() *Builder {
	return b.Add("S")
}

// Fill emits f.
func (b *Builder) Fill() *Builder {
	return b.Add("f")
}

// FillStroke emits B.
func (b *Builder) FillStroke() *Builder {
	return b.Add("B")
}

// EndPath emits n, discarding the current path without painting it.
func (b *Builder) EndPath() *Builder {
	return b.Add("n")
}

// Text

// BeginText emits BT.
func (b *Builder) BeginText() *Builder {
	return b.Add("BT")
}

// EndText emits ET.
func (b *Builder) EndText() *Builder {
	return b.Add("ET")
}

// SetFont emits Tf for a font resource name such as "F1".
func (b *Builder) SetFont(resource string, size float64) *Builder {
	return b.Add("Tf", core.Name(resource), core.Real(size))
}

// SetLeading emits TL.
func (b *Builder) SetLeading(leading float64) *Builder {
	return b.Add("TL", core.Real(leading))
}

// MoveText emits Td.
func (b *Builder) MoveText(tx, ty float64) *Builder {
	return b.Add("Td", core.Real(tx), core.Real(ty))
}

// ShowText emits Tj with already-encoded character codes.
func (b *Builder) ShowText(codes []byte) *Builder {
	return b.Add("Tj", core.String(codes))
}

// NextLine emits T*, moving to the start of the next line by the leading.
func (b *Builder) NextLine() *Builder {
	return b.Add("T*")
}
