package slides

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/sliderx/slidepdf/pdf"
)

// ErrRenderFailed wraps any failure of the drawing layer.
var ErrRenderFailed = errors.New("rendering failed")

// Document is a finished PDF. It is immutable.
type Document struct {
	data     []byte
	pages    int
	warnings []Warning
}

// Bytes returns a copy of the document.
func (d *Document) Bytes() []byte {
	return bytes.Clone(d.data)
}

// Len returns the size of the document in bytes.
func (d *Document) Len() int {
	return len(d.data)
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return d.pages
}

// Warnings returns the overflow conditions met while rendering.
func (d *Document) Warnings() []Warning {
	out := make([]Warning, len(d.warnings))
	copy(out, d.warnings)
	return out
}

// WriteTo writes the document to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(d.data)
	return int64(n), err
}

// Render draws deck with the default style.
func Render(deck Deck) (*Document, error) {
	return RenderWithStyle(deck, DefaultStyle())
}

// RenderWithStyle draws one page per slide in role order and returns the
// finished document. Text that does not fit is tolerated and reported in
// Document.Warnings; drawing failures such as a character the fonts cannot
// show are returned wrapped in ErrRenderFailed and no document is produced.
func RenderWithStyle(deck Deck, style Style) (*Document, error) {
	var opts []pdf.Option
	if style.DocumentTitle != "" {
		opts = append(opts, pdf.WithTitle(style.DocumentTitle))
	}
	c := pdf.NewCanvas(style.Page, opts...)
	geo := style.geometry()

	var warnings []Warning
	for i, slide := range deck.Slides() {
		if i > 0 {
			c.ShowPage()
		}
		r := &slideRenderer{
			canvas: c,
			style:  style,
			geo:    geo,
			role:   Role(i),
		}
		r.draw(slide)
		if err := c.Err(); err != nil {
			return nil, fmt.Errorf("%w: slide %d (%s): %w", ErrRenderFailed, i+1, Role(i), err)
		}
		warnings = append(warnings, r.warnings...)
	}

	pages := c.PageCount()
	data, err := c.Save()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}

	return &Document{
		data:     data,
		pages:    pages,
		warnings: warnings,
	}, nil
}

// slideRenderer draws a single page.
type slideRenderer struct {
	canvas   *pdf.Canvas
	style    Style
	geo      geometry
	role     Role
	warnings []Warning
}

func (r *slideRenderer) draw(slide SlideContent) {
	c, s, g := r.canvas, r.style, r.geo

	r.useText(s.Title)
	c.DrawString(g.title.X, g.title.Y, slide.Title)
	r.checkWidth(WarnTitleOverflow, slide.Title, s.Title, g.title.X, s.Page.Width-s.Margin)

	r.useText(s.LabelStyle)
	c.DrawString(g.label.X, g.label.Y, s.Label)

	c.SetStrokeColor(s.BoxStroke)
	c.Rect(g.box, true, false)

	r.drawVisual(slide.Visual)

	r.useText(s.Sentence)
	width, err := c.StringWidth(slide.Sentence, s.Sentence.Font, s.Sentence.Size)
	if err == nil {
		x := (s.Page.Width - width) / 2
		c.DrawString(x, g.sentence, slide.Sentence)
		if x < 0 {
			r.warn(WarnSentenceOverflow, "sentence is %.1fpt wide, page is %.1fpt", width, s.Page.Width)
		}
	}

	r.useText(s.Footer)
	c.DrawRightString(g.footer.X, g.footer.Y, fmt.Sprintf("Slide %d of %d", int(r.role)+1, SlideCount))
}

// drawVisual draws the wrapped description inside the box.
func (r *slideRenderer) drawVisual(visual string) {
	c, s, g := r.canvas, r.style, r.geo

	r.useText(s.Body)
	text := c.BeginText(g.body.X, g.body.Y)
	text.SetLeading(s.Body.Size * s.LeadingRatio)

	lines := WrapLines(visual, s.WrapWidth)
	kept := Wrap(visual, s.WrapWidth, s.MaxLines)
	if len(kept) < len(lines) {
		r.warn(WarnVisualTruncated, "visual wraps to %d lines, kept %d", len(lines), len(kept))
	}

	// Only lines that reach the page can overflow the box.
	for _, line := range kept {
		if n := utf8.RuneCountInString(line); n > s.WrapWidth {
			r.warn(WarnLongWord, "word of %d characters exceeds the %d character line", n, s.WrapWidth)
		}
		text.TextLine(line)
	}
	c.DrawText(text)
}

func (r *slideRenderer) useText(ts TextStyle) {
	r.canvas.SetFont(ts.Font, ts.Size)
	r.canvas.SetFillColor(ts.Color)
}

// checkWidth warns when s drawn from x would pass limit.
func (r *slideRenderer) checkWidth(kind WarningKind, s string, ts TextStyle, x, limit float64) {
	width, err := r.canvas.StringWidth(s, ts.Font, ts.Size)
	if err != nil {
		return
	}
	if x+width > limit {
		r.warn(kind, "text is %.1fpt wide, %.1fpt available", width, limit-x)
	}
}

func (r *slideRenderer) warn(kind WarningKind, format string, args ...any) {
	r.warnings = append(r.warnings, Warning{
		Slide:   int(r.role) + 1,
		Role:    r.role,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	})
}
