package graphicsstate

import (
	"errors"
	"math"

	"github.com/sliderx/slidepdf/model"
)

// ErrStackUnderflow is returned by Restore when no state has been saved.
var ErrStackUnderflow = errors.New("graphicsstate: restore without matching save")

// ErrTextObject is returned for a BT inside a text object or an ET outside one.
var ErrTextObject = errors.New("graphicsstate: unbalanced text object")

// GraphicsState represents the PDF graphics state
type GraphicsState struct {
	// Text state
	Text TextState

	// Graphics state stack (for q/Q operators)
	stack []GraphicsState

	// Line attributes
	LineWidth float64

	// DeviceRGB colours
	StrokeColor [3]float64
	FillColor   [3]float64
}

// TextState represents text-specific state
type TextState struct {
	// Font resource name as given to Tf, and size in points
	FontName string
	FontSize float64

	// Leading (line spacing) used by T*
	Leading float64

	// Origin of the current line, reset by BT
	LineOrigin model.Point

	// Scale of the text matrix set by Tm. Zero means the identity matrix.
	Scale float64

	// InText is true between BT and ET
	InText bool
}

// NewGraphicsState creates a new graphics state with default values
func NewGraphicsState() *GraphicsState {
	return &GraphicsState{LineWidth: 1.0}
}

// Save pushes a copy of the current state (q operator)
func (gs *GraphicsState) Save() {
	saved := *gs
	saved.stack = nil
	gs.stack = append(gs.stack, saved)
}

// Restore pops the most recently saved state (Q operator)
func (gs *GraphicsState) Restore() error {
	n := len(gs.stack)
	if n == 0 {
		return ErrStackUnderflow
	}
	stack := gs.stack[:n-1]
	*gs = gs.stack[n-1]
	gs.stack = stack
	return nil
}

// Depth returns the number of saved states.
func (gs *GraphicsState) Depth() int {
	return len(gs.stack)
}

// SetLineWidth sets the line width (w operator)
func (gs *GraphicsState) SetLineWidth(width float64) {
	gs.LineWidth = width
}

// SetStrokeColorRGB sets the stroke colour (RG operator)
func (gs *GraphicsState) SetStrokeColorRGB(r, g, b float64) {
	gs.StrokeColor = [3]float64{r, g, b}
}

// SetFillColorRGB sets the fill colour (rg operator)
func (gs *GraphicsState) SetFillColorRGB(r, g, b float64) {
	gs.FillColor = [3]float64{r, g, b}
}

// SetFont sets the font resource and size (Tf operator)
func (gs *GraphicsState) SetFont(name string, size float64) {
	gs.Text.FontName = name
	gs.Text.FontSize = size
}

// SetLeading sets the text leading (TL operator)
func (gs *GraphicsState) SetLeading(leading float64) {
	gs.Text.Leading = leading
}

// BeginText starts a text object (BT operator)
func (gs *GraphicsState) BeginText() {
	gs.Text.InText = true
	gs.Text.LineOrigin = model.Point{}
	gs.Text.Scale = 0
}

// EndText ends a text object (ET operator)
func (gs *GraphicsState) EndText() {
	gs.Text.InText = false
}

// TranslateText moves to the start of the next line offset by (tx, ty)
// from the start of the current one (Td operator)
func (gs *GraphicsState) TranslateText(tx, ty float64) {
	k := gs.Text.scale()
	gs.Text.LineOrigin.X += tx * k
	gs.Text.LineOrigin.Y += ty * k
}

// SetTextMatrix replaces the text matrix (Tm operator). Rotation and shear
// are dropped; the line origin moves to (e, f) and the vertical scale is
// kept for font sizes.
func (gs *GraphicsState) SetTextMatrix(a, b, c, d, e, f float64) {
	gs.Text.LineOrigin = model.Point{X: e, Y: f}
	gs.Text.Scale = math.Hypot(c, d)
}

// EffectiveFontSize returns the font size scaled by the text matrix.
func (gs *GraphicsState) EffectiveFontSize() float64 {
	return gs.Text.FontSize * gs.Text.scale()
}

func (ts TextState) scale() float64 {
	if ts.Scale == 0 {
		return 1
	}
	return ts.Scale
}

// NextLine moves to the start of the next line (T* operator)
func (gs *GraphicsState) NextLine() {
	gs.TranslateText(0, -gs.Text.Leading)
}

// TextPosition returns the origin of the current text line.
func (gs *GraphicsState) TextPosition() model.Point {
	return gs.Text.LineOrigin
}
