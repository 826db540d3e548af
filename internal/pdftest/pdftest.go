// Package pdftest reads back documents produced by this module so tests can
// assert on what a viewer would see: page count, page size, the text shown
// on each page and where it is placed.
//
// Parsing goes through the reader package but is stricter than it: the file
// must end in %%EOF, every cross-reference entry must point at the object it
// names and content streams must replay with balanced q/Q and BT/ET.
package pdftest

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/sliderx/slidepdf/contentstream"
	"github.com/sliderx/slidepdf/core"
	"github.com/sliderx/slidepdf/font"
	"github.com/sliderx/slidepdf/graphicsstate"
	"github.com/sliderx/slidepdf/pages"
	"github.com/sliderx/slidepdf/reader"
)

// ErrMalformed is returned when the input does not have the expected layout.
var ErrMalformed = errors.New("malformed document")

// Document is a parsed document.
type Document struct {
	Version string
	Pages   []*Page
	Trailer core.Dict

	r *reader.Reader
}

// Page is a single parsed page.
type Page struct {
	Number     int
	MediaBox   []float64
	Content    []byte
	Operations []contentstream.Operation

	// Font resource name to base font
	Fonts map[string]string

	replay *graphicsstate.Extractor
}

// TextRun is one string shown by a Tj operator together with the text state
// in effect at the time.
type TextRun struct {
	Text string
	Font string
	Size float64
	X, Y float64
	Fill [3]float64
}

// Rect is one rectangle path together with how it was painted.
type Rect struct {
	X, Y, Width, Height float64
	Stroked, Filled     bool
	Stroke, Fill        [3]float64
	LineWidth           float64
}

// Parse reads a complete document and checks that every cross-reference
// entry points at the object it names.
func Parse(data []byte) (*Document, error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return nil, fmt.Errorf("%w: missing header", ErrMalformed)
	}
	if !bytes.HasSuffix(data, []byte("%%EOF\n")) {
		return nil, fmt.Errorf("%w: missing %%%%EOF", ErrMalformed)
	}

	r, err := reader.New(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	doc := &Document{
		Version: r.Version().String(),
		Trailer: r.Trailer(),
		r:       r,
	}

	for num, entry := range r.XRefTable().Entries {
		if !entry.InUse {
			continue
		}
		if _, err := r.GetObject(num); err != nil {
			return nil, fmt.Errorf("%w: xref entry %d: %w", ErrMalformed, num, err)
		}
	}

	if err := doc.readPages(); err != nil {
		return nil, err
	}
	return doc, nil
}

// readPages walks the page tree and checks its /Count.
func (d *Document) readPages() error {
	catalog, err := d.r.Catalog()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if t, _ := catalog.GetName("Type"); t != "Catalog" {
		return fmt.Errorf("%w: root is not a catalog", ErrMalformed)
	}
	root, err := pages.NewCatalog(catalog, d.r).Pages()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	all, err := d.r.Pages()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if count, _ := root.GetInt("Count"); int(count) != len(all) {
		return fmt.Errorf("%w: /Count %d but %d pages", ErrMalformed, count, len(all))
	}

	for i, p := range all {
		page, err := d.readPage(p)
		if err != nil {
			return fmt.Errorf("page %d: %w", i+1, err)
		}
		page.Number = i + 1
		d.Pages = append(d.Pages, page)
	}
	return nil
}

func (d *Document) readPage(p *pages.Page) (*Page, error) {
	if t, _ := p.Dict().GetName("Type"); t != "Page" {
		return nil, fmt.Errorf("%w: leaf is not a page", ErrMalformed)
	}

	page := &Page{Fonts: make(map[string]string)}

	var err error
	if page.MediaBox, err = p.MediaBox(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if err := d.readFonts(p, page.Fonts); err != nil {
		return nil, err
	}

	if page.Content, err = d.r.PageContent(p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	page.Operations, err = contentstream.NewParser(page.Content).Parse()
	if err != nil {
		return nil, fmt.Errorf("%w: content: %w", ErrMalformed, err)
	}
	page.replay = graphicsstate.NewExtractor()
	if err := page.replay.Extract(page.Operations); err != nil {
		return nil, fmt.Errorf("%w: content: %w", ErrMalformed, err)
	}
	return page, nil
}

// readFonts maps each font resource name to its /BaseFont.
func (d *Document) readFonts(p *pages.Page, out map[string]string) error {
	resources, err := p.Resources()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	obj, err := d.r.Resolve(resources.Get("Font"))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	fonts, ok := obj.(core.Dict)
	if !ok {
		return nil
	}
	for name, ref := range fonts {
		f, err := d.r.Resolve(ref)
		if err != nil {
			return fmt.Errorf("%w: font %s: %w", ErrMalformed, name, err)
		}
		dict, ok := f.(core.Dict)
		if !ok {
			return fmt.Errorf("%w: font %s is %T", ErrMalformed, name, f)
		}
		base, ok := dict.GetName("BaseFont")
		if !ok {
			return fmt.Errorf("%w: font %s without /BaseFont", ErrMalformed, name)
		}
		out[name] = string(base)
	}
	return nil
}

// Info returns the info dictionary in PDF syntax, or "" when there is none.
func (d *Document) Info() string {
	info, err := d.r.Info()
	if err != nil || info == nil {
		return ""
	}
	out, err := core.Marshal(info)
	if err != nil {
		return ""
	}
	return string(out)
}

// Text returns the strings shown on every page, one slice per page.
func (d *Document) Text() [][]string {
	out := make([][]string, len(d.Pages))
	for i, p := range d.Pages {
		out[i] = p.Text()
	}
	return out
}

// Text returns the strings shown on the page in drawing order.
func (p *Page) Text() []string {
	runs := p.TextRuns()
	out := make([]string, len(runs))
	for i, r := range runs {
		out[i] = r.Text
	}
	return out
}

// TextRuns returns every string shown on the page with its font, size,
// position and fill colour.
func (p *Page) TextRuns() []TextRun {
	shown := p.replay.Strings()
	runs := make([]TextRun, len(shown))
	for i, s := range shown {
		base := p.Fonts[s.Font]
		runs[i] = TextRun{
			Text: decodeText(base, s.Codes),
			Font: base,
			Size: s.Size,
			X:    s.Position.X,
			Y:    s.Position.Y,
			Fill: s.Fill,
		}
	}
	return runs
}

// Rects returns every rectangle painted or discarded on the page.
func (p *Page) Rects() []Rect {
	painted := p.replay.Rects()
	rects := make([]Rect, len(painted))
	for i, r := range painted {
		rects[i] = Rect{
			X:         r.BBox.X,
			Y:         r.BBox.Y,
			Width:     r.BBox.Width,
			Height:    r.BBox.Height,
			Stroked:   r.Stroked,
			Filled:    r.Filled,
			Stroke:    r.StrokeColor,
			Fill:      r.FillColor,
			LineWidth: r.LineWidth,
		}
	}
	return rects
}

func decodeText(baseFont string, codes []byte) string {
	f, err := font.Standard(baseFont)
	if err != nil {
		return string(codes)
	}
	return f.Decode(codes)
}
