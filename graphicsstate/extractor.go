package graphicsstate

import (
	"errors"
	"fmt"

	"github.com/sliderx/slidepdf/contentstream"
	"github.com/sliderx/slidepdf/core"
	"github.com/sliderx/slidepdf/model"
)

// ShownString is one string operand of a text showing operator together
// with the state in effect when it was shown.
type ShownString struct {
	Codes    []byte
	Font     string
	Size     float64
	Position model.Point
	Fill     [3]float64

	// Kerning is the TJ adjustment just before the string, in thousandths
	// of an em. Negative values move the string right.
	Kerning float64
}

// PaintedRect is one re path together with how it was painted.
type PaintedRect struct {
	BBox        model.BBox
	Stroked     bool
	Filled      bool
	StrokeColor [3]float64
	FillColor   [3]float64
	LineWidth   float64
}

// Extractor replays content stream operations against a GraphicsState
type Extractor struct {
	gs      *GraphicsState
	strings []ShownString
	rects   []PaintedRect
	pending []model.BBox
	lenient bool
}

// NewExtractor creates an extractor starting from the default state.
func NewExtractor() *Extractor {
	return &Extractor{gs: NewGraphicsState()}
}

// NewLenientExtractor creates an extractor that skips unbalanced q/Q and
// BT/ET operators instead of failing, as viewers do for files from other
// producers.
func NewLenientExtractor() *Extractor {
	return &Extractor{gs: NewGraphicsState(), lenient: true}
}

// State returns the current graphics state.
func (e *Extractor) State() *GraphicsState {
	return e.gs
}

// Extract processes operations in order.
func (e *Extractor) Extract(operations []contentstream.Operation) error {
	for i, op := range operations {
		if err := e.processOperation(op); err != nil {
			if e.lenient && (errors.Is(err, ErrStackUnderflow) || errors.Is(err, ErrTextObject)) {
				continue
			}
			return fmt.Errorf("operation %d (%s): %w", i, op.Operator, err)
		}
	}
	return nil
}

// ExtractFromBytes parses and extracts from raw content stream data
func (e *Extractor) ExtractFromBytes(data []byte) error {
	operations, err := contentstream.NewParser(data).Parse()
	if err != nil {
		return err
	}
	return e.Extract(operations)
}

// Strings returns every string shown so far.
func (e *Extractor) Strings() []ShownString {
	return e.strings
}

// Rects returns every rectangle painted or discarded so far.
func (e *Extractor) Rects() []PaintedRect {
	return e.rects
}

func (e *Extractor) processOperation(op contentstream.Operation) error {
	gs := e.gs
	switch op.Operator {
	case "q":
		gs.Save()
	case "Q":
		return gs.Restore()
	case "w":
		if v, ok := numbers(op.Operands, 1); ok {
			gs.SetLineWidth(v[0])
		}
	case "RG":
		if v, ok := numbers(op.Operands, 3); ok {
			gs.SetStrokeColorRGB(v[0], v[1], v[2])
		}
	case "rg":
		if v, ok := numbers(op.Operands, 3); ok {
			gs.SetFillColorRGB(v[0], v[1], v[2])
		}
	case "G":
		if v, ok := numbers(op.Operands, 1); ok {
			gs.SetStrokeColorRGB(v[0], v[0], v[0])
		}
	case "g":
		if v, ok := numbers(op.Operands, 1); ok {
			gs.SetFillColorRGB(v[0], v[0], v[0])
		}

	// Paths
	case "re":
		if v, ok := numbers(op.Operands, 4); ok {
			e.pending = append(e.pending, model.NewBBox(v[0], v[1], v[2], v[3]))
		}
	case "S", "s":
		e.paint(true, false)
	case "f", "F", "f*":
		e.paint(false, true)
	case "B", "B*", "b", "b*":
		e.paint(true, true)
	case "n":
		e.paint(false, false)

	// Text
	case "BT":
		if gs.Text.InText {
			return fmt.Errorf("%w: nested BT", ErrTextObject)
		}
		gs.BeginText()
	case "ET":
		if !gs.Text.InText {
			return fmt.Errorf("%w: ET outside text object", ErrTextObject)
		}
		gs.EndText()
	case "Tf":
		if len(op.Operands) != 2 {
			return nil
		}
		name, ok := op.Operands[0].(core.Name)
		size, okSize := toFloat(op.Operands[1])
		if ok && okSize {
			gs.SetFont(string(name), size)
		}
	case "TL":
		if v, ok := numbers(op.Operands, 1); ok {
			gs.SetLeading(v[0])
		}
	case "Td":
		if v, ok := numbers(op.Operands, 2); ok {
			gs.TranslateText(v[0], v[1])
		}
	case "TD":
		if v, ok := numbers(op.Operands, 2); ok {
			gs.SetLeading(-v[1])
			gs.TranslateText(v[0], v[1])
		}
	case "Tm":
		if v, ok := numbers(op.Operands, 6); ok {
			gs.SetTextMatrix(v[0], v[1], v[2], v[3], v[4], v[5])
		}
	case "T*":
		gs.NextLine()
	case "Tj":
		if len(op.Operands) != 1 {
			return nil
		}
		if s, ok := op.Operands[0].(core.String); ok {
			e.show([]byte(s), 0)
		}
	case "TJ":
		if len(op.Operands) != 1 {
			return nil
		}
		arr, ok := op.Operands[0].(core.Array)
		if !ok {
			return nil
		}
		kerning := 0.0
		for _, item := range arr {
			if s, ok := item.(core.String); ok {
				e.show([]byte(s), kerning)
				kerning = 0
			} else if v, ok := toFloat(item); ok {
				kerning += v
			}
		}
	case "'":
		gs.NextLine()
		if len(op.Operands) == 1 {
			if s, ok := op.Operands[0].(core.String); ok {
				e.show([]byte(s), 0)
			}
		}
	case "\"":
		// Word and character spacing are not tracked.
		gs.NextLine()
		if len(op.Operands) == 3 {
			if s, ok := op.Operands[2].(core.String); ok {
				e.show([]byte(s), 0)
			}
		}
	}
	return nil
}

func (e *Extractor) show(codes []byte, kerning float64) {
	gs := e.gs
	e.strings = append(e.strings, ShownString{
		Codes:    codes,
		Font:     gs.Text.FontName,
		Size:     gs.EffectiveFontSize(),
		Position: gs.TextPosition(),
		Fill:     gs.FillColor,
		Kerning:  kerning,
	})
}

func (e *Extractor) paint(stroked, filled bool) {
	gs := e.gs
	for _, b := range e.pending {
		e.rects = append(e.rects, PaintedRect{
			BBox:        b,
			Stroked:     stroked,
			Filled:      filled,
			StrokeColor: gs.StrokeColor,
			FillColor:   gs.FillColor,
			LineWidth:   gs.LineWidth,
		})
	}
	e.pending = e.pending[:0]
}

func numbers(operands []core.Object, n int) ([]float64, bool) {
	if len(operands) != n {
		return nil, false
	}
	out := make([]float64, n)
	for i, o := range operands {
		v, ok := toFloat(o)
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// toFloat converts a numeric operand to float64
func toFloat(obj core.Object) (float64, bool) {
	switch v := obj.(type) {
	case core.Int:
		return float64(v), true
	case core.Real:
		return float64(v), true
	}
	return 0, false
}
