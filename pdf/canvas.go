package pdf

import (
	"errors"
	"fmt"
	"math"

	"github.com/sliderx/slidepdf/contentstream"
	"github.com/sliderx/slidepdf/font"
	"github.com/sliderx/slidepdf/model"
)

var (
	// ErrInvalidColor is returned when a colour component is outside 0..1.
	ErrInvalidColor = errors.New("invalid color")

	// ErrInvalidCoordinate is returned for NaN or infinite positions and
	// lengths.
	ErrInvalidCoordinate = errors.New("invalid coordinate")

	// ErrInvalidFontSize is returned for non-positive or non-finite sizes.
	ErrInvalidFontSize = errors.New("invalid font size")

	// ErrCanvasClosed is returned when drawing on a canvas that has been
	// saved.
	ErrCanvasClosed = errors.New("canvas already saved")
)

const (
	// DefaultFont and DefaultFontSize are the text state of every new page.
	DefaultFont     = "Helvetica"
	DefaultFontSize = 12

	// LeadingRatio sets the line spacing of text objects relative to the
	// font size.
	LeadingRatio = 1.2
)

// Option configures a Canvas.
type Option func(*Canvas)

// WithTitle sets the document title recorded in the info dictionary.
func WithTitle(title string) Option {
	return func(c *Canvas) {
		c.title = title
	}
}

// WithProducer overrides the producer recorded in the info dictionary.
func WithProducer(producer string) Option {
	return func(c *Canvas) {
		c.producer = producer
	}
}

// Canvas is a multi-page drawing surface that produces a PDF document.
// Drawing happens on the current page; ShowPage starts the next one and
// Save finalizes the document.
//
// The first failing call is remembered and every later call becomes a
// no-op. Err reports it, and Save returns it instead of a document, so a
// partially drawn canvas never yields bytes.
//
// A Canvas is not safe for concurrent use. Independent canvases share no
// state.
type Canvas struct {
	size     model.Size
	title    string
	producer string

	pages []*contentstream.Builder
	page  *contentstream.Builder

	// Fonts in order of first use; resource names are F1, F2, ...
	fonts     map[string]*fontResource
	fontOrder []*fontResource

	// Text state of the current page
	font     *font.Font
	fontSize float64
	leading  float64

	// Accumulated error (fail-fast)
	err   error
	saved bool
}

// fontResource is a font referenced from page resources.
type fontResource struct {
	name string
	font *font.Font
}

// NewCanvas creates a canvas whose pages all have the given size.
func NewCanvas(size model.Size, opts ...Option) *Canvas {
	c := &Canvas{
		size:     size,
		producer: "SlideRx",
		page:     contentstream.NewBuilder(),
		fonts:    make(map[string]*fontResource),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.resetState()
	return c
}

// Size returns the page size.
func (c *Canvas) Size() model.Size {
	return c.size
}

// Width returns the page width in points.
func (c *Canvas) Width() float64 {
	return c.size.Width
}

// Height returns the page height in points.
func (c *Canvas) Height() float64 {
	return c.size.Height
}

// Err returns the first error encountered, if any.
func (c *Canvas) Err() error {
	return c.err
}

// PageCount returns the number of pages started so far, including the
// current one.
func (c *Canvas) PageCount() int {
	return len(c.pages) + 1
}

// SetFont selects the font and size for subsequent strings and text objects.
// The leading becomes LeadingRatio times the size.
func (c *Canvas) SetFont(name string, size float64) {
	if !c.ready() {
		return
	}
	if size <= 0 || math.IsNaN(size) || math.IsInf(size, 0) {
		c.fail(fmt.Errorf("%w: %v", ErrInvalidFontSize, size))
		return
	}
	f, err := font.Standard(name)
	if err != nil {
		c.fail(fmt.Errorf("set font: %w", err))
		return
	}

	c.font = f
	c.fontSize = size
	c.leading = size * LeadingRatio
}

// SetFillColor sets the colour used to fill shapes and text.
func (c *Canvas) SetFillColor(col model.Color) {
	if !c.ready() {
		return
	}
	if !col.IsValid() {
		c.fail(fmt.Errorf("%w: fill %v", ErrInvalidColor, col))
		return
	}
	c.page.SetFillRGB(col.R, col.G, col.B)
}

// SetStrokeColor sets the colour used to stroke lines and outlines.
func (c *Canvas) SetStrokeColor(col model.Color) {
	if !c.ready() {
		return
	}
	if !col.IsValid() {
		c.fail(fmt.Errorf("%w: stroke %v", ErrInvalidColor, col))
		return
	}
	c.page.SetStrokeRGB(col.R, col.G, col.B)
}

// SetLineWidth sets the stroke width in points.
func (c *Canvas) SetLineWidth(width float64) {
	if !c.ready() {
		return
	}
	if width < 0 || math.IsNaN(width) || math.IsInf(width, 0) {
		c.fail(fmt.Errorf("%w: line width %v", ErrInvalidCoordinate, width))
		return
	}
	c.page.SetLineWidth(width)
}

// StringWidth measures s in the named font at the given size, in points.
func (c *Canvas) StringWidth(s, fontName string, size float64) (float64, error) {
	f, err := font.Standard(fontName)
	if err != nil {
		return 0, err
	}
	return f.StringWidth(s, size), nil
}

// DrawString draws s with its baseline starting at (x, y) in the current
// font and fill colour.
func (c *Canvas) DrawString(x, y float64, s string) {
	if !c.ready() {
		return
	}
	if !(model.Point{X: x, Y: y}).IsFinite() {
		c.fail(fmt.Errorf("%w: (%v, %v)", ErrInvalidCoordinate, x, y))
		return
	}

	codes, err := c.font.Encode(s)
	if err != nil {
		c.fail(fmt.Errorf("draw string: %w", err))
		return
	}

	res := c.useFont(c.font)
	c.page.BeginText().
		SetFont(res.name, c.fontSize).
		MoveText(x, y).
		ShowText(codes).
		EndText()
}

// DrawRightString draws s so that it ends at x.
func (c *Canvas) DrawRightString(x, y float64, s string) {
	if !c.ready() {
		return
	}
	c.DrawString(x-c.font.StringWidth(s, c.fontSize), y, s)
}

// Rect draws the rectangle b, outlined with the stroke colour when stroke is
// set and filled with the fill colour when fill is set.
func (c *Canvas) Rect(b model.BBox, stroke, fill bool) {
	if !c.ready() {
		return
	}
	if !b.IsFinite() {
		c.fail(fmt.Errorf("%w: rect %v", ErrInvalidCoordinate, b))
		return
	}

	c.page.Rectangle(b.X, b.Y, b.Width, b.Height)
	switch {
	case stroke && fill:
		c.page.FillStroke()
	case stroke:
		c.page.Stroke()
	case fill:
		c.page.Fill()
	default:
		c.page.EndPath()
	}
}

// BeginText starts a multi-line text object at (x, y) using the current font,
// size and leading. Lines are added with TextLine and drawn with DrawText.
func (c *Canvas) BeginText(x, y float64) *TextObject {
	return &TextObject{
		x:       x,
		y:       y,
		font:    c.font,
		size:    c.fontSize,
		leading: c.leading,
	}
}

// DrawText draws a text object built with BeginText.
func (c *Canvas) DrawText(t *TextObject) {
	if !c.ready() {
		return
	}
	if !(model.Point{X: t.x, Y: t.y}).IsFinite() {
		c.fail(fmt.Errorf("%w: text origin (%v, %v)", ErrInvalidCoordinate, t.x, t.y))
		return
	}

	encoded := make([][]byte, len(t.lines))
	for i, line := range t.lines {
		codes, err := t.font.Encode(line)
		if err != nil {
			c.fail(fmt.Errorf("draw text line %d: %w", i+1, err))
			return
		}
		encoded[i] = codes
	}

	res := c.useFont(t.font)
	c.page.BeginText().
		SetFont(res.name, t.size).
		SetLeading(t.leading).
		MoveText(t.x, t.y)
	for _, codes := range encoded {
		c.page.ShowText(codes).NextLine()
	}
	c.page.EndText()
}

// ShowPage ends the current page and starts a new one. The new page starts
// with the default graphics and text state.
func (c *Canvas) ShowPage() {
	if !c.ready() {
		return
	}
	c.pages = append(c.pages, c.page)
	c.page = contentstream.NewBuilder()
	c.resetState()
}

// ready reports whether drawing may proceed, recording ErrCanvasClosed when
// the canvas has already been saved.
func (c *Canvas) ready() bool {
	if c.err != nil {
		return false
	}
	if c.saved {
		c.err = ErrCanvasClosed
		return false
	}
	return true
}

// fail records the first error.
func (c *Canvas) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

// resetState restores the default text state for a new page.
func (c *Canvas) resetState() {
	f, err := font.Standard(DefaultFont)
	if err != nil {
		c.fail(err)
		return
	}
	c.font = f
	c.fontSize = DefaultFontSize
	c.leading = DefaultFontSize * LeadingRatio
}

// useFont returns the resource for f, registering it on first use.
func (c *Canvas) useFont(f *font.Font) *fontResource {
	if res, ok := c.fonts[f.BaseFont]; ok {
		return res
	}
	res := &fontResource{
		name: fmt.Sprintf("F%d", len(c.fontOrder)+1),
		font: f,
	}
	c.fonts[f.BaseFont] = res
	c.fontOrder = append(c.fontOrder, res)
	return res
}

// TextObject collects lines drawn top to bottom, each one leading below the
// previous one.
type TextObject struct {
	x, y    float64
	font    *font.Font
	size    float64
	leading float64
	lines   []string
}

// TextLine appends a line.
func (t *TextObject) TextLine(s string) {
	t.lines = append(t.lines, s)
}

// SetLeading overrides the line spacing.
func (t *TextObject) SetLeading(leading float64) {
	t.leading = leading
}

// Lines returns the number of lines added so far.
func (t *TextObject) Lines() int {
	return len(t.lines)
}
