package pdf

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/sliderx/slidepdf/font"
	"github.com/sliderx/slidepdf/internal/pdftest"
	"github.com/sliderx/slidepdf/model"
)

var landscape = model.Letter.Landscape()

func mustSave(t *testing.T, c *Canvas) []byte {
	t.Helper()
	data, err := c.Save()
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	return data
}

func mustParse(t *testing.T, data []byte) *pdftest.Document {
	t.Helper()
	doc, err := pdftest.Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return doc
}

// TestCanvasEmpty tests that an untouched canvas still saves one page
func TestCanvasEmpty(t *testing.T) {
	c := NewCanvas(landscape)
	doc := mustParse(t, mustSave(t, c))

	if len(doc.Pages) != 1 {
		t.Fatalf("got %d pages, want 1", len(doc.Pages))
	}
	want := []float64{0, 0, 792, 612}
	for i, v := range doc.Pages[0].MediaBox {
		if v != want[i] {
			t.Errorf("MediaBox = %v, want %v", doc.Pages[0].MediaBox, want)
			break
		}
	}
	if doc.Version != Version {
		t.Errorf("version = %q, want %q", doc.Version, Version)
	}
}

// TestCanvasPages tests page counting and trailing empty page handling
func TestCanvasPages(t *testing.T) {
	tests := []struct {
		name  string
		draw  func(c *Canvas)
		pages int
	}{
		{"single", func(c *Canvas) { c.DrawString(10, 10, "a") }, 1},
		{"two", func(c *Canvas) {
			c.DrawString(10, 10, "a")
			c.ShowPage()
			c.DrawString(10, 10, "b")
		}, 2},
		{"trailing showpage", func(c *Canvas) {
			c.DrawString(10, 10, "a")
			c.ShowPage()
		}, 1},
		{"blank middle page", func(c *Canvas) {
			c.DrawString(10, 10, "a")
			c.ShowPage()
			c.ShowPage()
			c.DrawString(10, 10, "c")
		}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCanvas(landscape)
			tt.draw(c)
			doc := mustParse(t, mustSave(t, c))
			if len(doc.Pages) != tt.pages {
				t.Errorf("got %d pages, want %d", len(doc.Pages), tt.pages)
			}
		})
	}
}

// TestDrawString tests text placement, font and colour
func TestDrawString(t *testing.T) {
	c := NewCanvas(landscape)
	c.SetFont("Helvetica-Bold", 28)
	c.DrawString(50, 532, "THE PROBLEM")
	c.SetFillColor(model.RGB(0.15, 0.39, 0.92))
	c.SetFont("Helvetica", 10)
	c.DrawString(60, 40, "Café (draft)")

	runs := mustParse(t, mustSave(t, c)).Pages[0].TextRuns()
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}

	first := runs[0]
	if first.Text != "THE PROBLEM" || first.Font != "Helvetica-Bold" || first.Size != 28 {
		t.Errorf("first run = %+v", first)
	}
	if first.X != 50 || first.Y != 532 {
		t.Errorf("first run at (%v, %v), want (50, 532)", first.X, first.Y)
	}
	if first.Fill != [3]float64{0, 0, 0} {
		t.Errorf("first run fill = %v, want black", first.Fill)
	}

	second := runs[1]
	if second.Text != "Café (draft)" || second.Font != "Helvetica" || second.Size != 10 {
		t.Errorf("second run = %+v", second)
	}
	if second.Fill != [3]float64{0.15, 0.39, 0.92} {
		t.Errorf("second run fill = %v", second.Fill)
	}
}

// TestDrawRightString tests that text ends at the given x
func TestDrawRightString(t *testing.T) {
	c := NewCanvas(landscape)
	c.SetFont("Helvetica", 10)
	c.DrawRightString(742, 50, "Slide 1 of 3")

	runs := mustParse(t, mustSave(t, c)).Pages[0].TextRuns()
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}

	width, err := c.StringWidth("Slide 1 of 3", "Helvetica", 10)
	if err != nil {
		t.Fatalf("StringWidth: %v", err)
	}
	if got := runs[0].X + width; math.Abs(got-742) > 1e-3 {
		t.Errorf("text ends at %v, want 742", got)
	}
}

// TestDrawText tests multi-line text objects
func TestDrawText(t *testing.T) {
	c := NewCanvas(landscape)
	c.SetFont("Helvetica", 14)
	text := c.BeginText(70, 392)
	text.TextLine("first line")
	text.TextLine("second line")
	text.TextLine("third line")
	if text.Lines() != 3 {
		t.Errorf("Lines() = %d, want 3", text.Lines())
	}
	c.DrawText(text)

	runs := mustParse(t, mustSave(t, c)).Pages[0].TextRuns()
	if len(runs) != 3 {
		t.Fatalf("got %d runs, want 3", len(runs))
	}
	for i, r := range runs {
		wantY := 392 - float64(i)*14*LeadingRatio
		if r.X != 70 || math.Abs(r.Y-wantY) > 1e-3 {
			t.Errorf("line %d at (%v, %v), want (70, %v)", i, r.X, r.Y, wantY)
		}
	}
	if runs[1].Text != "second line" {
		t.Errorf("line 2 = %q", runs[1].Text)
	}
}

// TestDrawTextEmpty tests that a text object with no lines draws nothing visible
func TestDrawTextEmpty(t *testing.T) {
	c := NewCanvas(landscape)
	c.DrawText(c.BeginText(70, 392))

	page := mustParse(t, mustSave(t, c)).Pages[0]
	if runs := page.TextRuns(); len(runs) != 0 {
		t.Errorf("got %d runs, want 0", len(runs))
	}
}

// TestRect tests rectangle painting modes
func TestRect(t *testing.T) {
	c := NewCanvas(landscape)
	c.SetStrokeColor(model.Gray(0.8))
	c.Rect(model.NewBBox(50, 212, 692, 200), true, false)
	c.SetFillColor(model.Gray(0.5))
	c.Rect(model.NewBBox(0, 0, 10, 10), false, true)
	c.Rect(model.NewBBox(0, 0, 10, 10), true, true)
	c.Rect(model.NewBBox(0, 0, 10, 10), false, false)

	rects := mustParse(t, mustSave(t, c)).Pages[0].Rects()
	if len(rects) != 4 {
		t.Fatalf("got %d rects, want 4", len(rects))
	}

	box := rects[0]
	if box.X != 50 || box.Y != 212 || box.Width != 692 || box.Height != 200 {
		t.Errorf("box = %+v", box)
	}
	if !box.Stroked || box.Filled {
		t.Errorf("box should be stroke only: %+v", box)
	}
	if box.Stroke != [3]float64{0.8, 0.8, 0.8} {
		t.Errorf("box stroke = %v", box.Stroke)
	}

	modes := [][2]bool{{true, false}, {false, true}, {true, true}, {false, false}}
	for i, m := range modes {
		if rects[i].Stroked != m[0] || rects[i].Filled != m[1] {
			t.Errorf("rect %d stroked=%v filled=%v, want %v", i, rects[i].Stroked, rects[i].Filled, m)
		}
	}
}

// TestShowPageResetsState tests that each page starts with the default font
func TestShowPageResetsState(t *testing.T) {
	c := NewCanvas(landscape)
	c.SetFont("Courier", 30)
	c.SetFillColor(model.RGB(1, 0, 0))
	c.DrawString(10, 10, "first")
	c.ShowPage()
	c.DrawString(10, 10, "second")

	doc := mustParse(t, mustSave(t, c))
	runs := doc.Pages[1].TextRuns()
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	if runs[0].Font != DefaultFont || runs[0].Size != DefaultFontSize {
		t.Errorf("second page run = %+v, want %s %d", runs[0], DefaultFont, DefaultFontSize)
	}
	if runs[0].Fill != [3]float64{0, 0, 0} {
		t.Errorf("second page fill = %v, want black", runs[0].Fill)
	}
}

// TestFontResources tests that fonts are registered once in first-use order
func TestFontResources(t *testing.T) {
	c := NewCanvas(landscape)
	c.SetFont("Helvetica-Bold", 20)
	c.DrawString(0, 0, "a")
	c.SetFont("Helvetica", 12)
	c.DrawString(0, 0, "b")
	c.SetFont("Helvetica-Bold", 28)
	c.DrawString(0, 0, "c")

	page := mustParse(t, mustSave(t, c)).Pages[0]
	want := map[string]string{"F1": "Helvetica-Bold", "F2": "Helvetica"}
	if len(page.Fonts) != len(want) {
		t.Fatalf("fonts = %v, want %v", page.Fonts, want)
	}
	for name, base := range want {
		if page.Fonts[name] != base {
			t.Errorf("font %s = %q, want %q", name, page.Fonts[name], base)
		}
	}
}

// TestInfo tests the info dictionary
func TestInfo(t *testing.T) {
	tests := []struct {
		name  string
		opts  []Option
		wants []string
	}{
		{"default", nil, []string{"/Producer (SlideRx)"}},
		{"title", []Option{WithTitle("Deck 42")}, []string{"/Title (Deck 42)"}},
		{"producer", []Option{WithProducer("tests")}, []string{"/Producer (tests)"}},
		{"unicode title", []Option{WithTitle("Résumé")}, []string{"/Title (\\376\\377"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCanvas(landscape, tt.opts...)
			info := mustParse(t, mustSave(t, c)).Info()
			for _, want := range tt.wants {
				if !strings.Contains(info, want) {
					t.Errorf("info %q does not contain %q", info, want)
				}
			}
		})
	}
}

// TestCanvasErrors tests that invalid input latches an error and Save fails
func TestCanvasErrors(t *testing.T) {
	tests := []struct {
		name string
		draw func(c *Canvas)
		want error
	}{
		{"unknown font", func(c *Canvas) { c.SetFont("Comic-Sans", 12) }, font.ErrUnknownFont},
		{"zero font size", func(c *Canvas) { c.SetFont("Helvetica", 0) }, ErrInvalidFontSize},
		{"NaN font size", func(c *Canvas) { c.SetFont("Helvetica", math.NaN()) }, ErrInvalidFontSize},
		{"fill out of range", func(c *Canvas) { c.SetFillColor(model.RGB(1.5, 0, 0)) }, ErrInvalidColor},
		{"stroke NaN", func(c *Canvas) { c.SetStrokeColor(model.Gray(math.NaN())) }, ErrInvalidColor},
		{"negative line width", func(c *Canvas) { c.SetLineWidth(-1) }, ErrInvalidCoordinate},
		{"infinite x", func(c *Canvas) { c.DrawString(math.Inf(1), 0, "x") }, ErrInvalidCoordinate},
		{"NaN rect", func(c *Canvas) { c.Rect(model.NewBBox(0, math.NaN(), 1, 1), true, false) }, ErrInvalidCoordinate},
		{"NaN text origin", func(c *Canvas) { c.DrawText(c.BeginText(math.NaN(), 0)) }, ErrInvalidCoordinate},
		{"glyph outside code page", func(c *Canvas) { c.DrawString(0, 0, "日本") }, font.ErrUnsupportedGlyph},
		{"control character", func(c *Canvas) { c.DrawString(0, 0, "a\tb") }, font.ErrUnsupportedGlyph},
		{"glyph in text line", func(c *Canvas) {
			text := c.BeginText(0, 0)
			text.TextLine("fine")
			text.TextLine("☃")
			c.DrawText(text)
		}, font.ErrUnsupportedGlyph},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCanvas(landscape)
			tt.draw(c)
			if !errors.Is(c.Err(), tt.want) {
				t.Fatalf("Err() = %v, want %v", c.Err(), tt.want)
			}

			// Later calls are ignored and the first error is kept.
			c.SetFont("Comic-Sans", 12)
			c.DrawString(0, 0, "ignored")

			data, err := c.Save()
			if !errors.Is(err, tt.want) {
				t.Errorf("Save error = %v, want %v", err, tt.want)
			}
			if data != nil {
				t.Error("Save returned bytes despite error")
			}
		})
	}
}

// TestSaveTwice tests that a saved canvas is closed
func TestSaveTwice(t *testing.T) {
	c := NewCanvas(landscape)
	mustSave(t, c)

	if _, err := c.Save(); !errors.Is(err, ErrCanvasClosed) {
		t.Errorf("second Save error = %v, want ErrCanvasClosed", err)
	}

	c = NewCanvas(landscape)
	mustSave(t, c)
	c.DrawString(0, 0, "late")
	if !errors.Is(c.Err(), ErrCanvasClosed) {
		t.Errorf("Err() after drawing on saved canvas = %v", c.Err())
	}
}

// TestStringWidth tests width measurement through the canvas
func TestStringWidth(t *testing.T) {
	c := NewCanvas(landscape)

	w, err := c.StringWidth("THE ASK", "Helvetica-Bold", 20)
	if err != nil {
		t.Fatalf("StringWidth: %v", err)
	}
	if w <= 0 {
		t.Errorf("width = %v, want > 0", w)
	}

	if _, err := c.StringWidth("x", "Nope", 10); !errors.Is(err, font.ErrUnknownFont) {
		t.Errorf("error = %v, want ErrUnknownFont", err)
	}
	if c.Err() != nil {
		t.Errorf("StringWidth must not latch errors, got %v", c.Err())
	}
}

func drawSample(c *Canvas) {
	for i := 0; i < 3; i++ {
		if i > 0 {
			c.ShowPage()
		}
		c.SetFont("Helvetica-Bold", 28)
		c.DrawString(50, c.Height()-80, "Title")
		c.SetStrokeColor(model.Gray(0.8))
		c.Rect(model.NewBBox(50, c.Height()-400, c.Width()-100, 200), true, false)
		c.SetFont("Helvetica", 14)
		text := c.BeginText(70, c.Height()-220)
		text.TextLine("body")
		c.DrawText(text)
	}
}

// TestSaveDeterministic tests that identical drawing produces identical bytes
func TestSaveDeterministic(t *testing.T) {
	a := NewCanvas(landscape, WithTitle("same"))
	drawSample(a)
	b := NewCanvas(landscape, WithTitle("same"))
	drawSample(b)

	if !bytes.Equal(mustSave(t, a), mustSave(t, b)) {
		t.Error("identical canvases produced different bytes")
	}
}

// TestCanvasConcurrent tests that independent canvases can be used in parallel
func TestCanvasConcurrent(t *testing.T) {
	ref := NewCanvas(landscape)
	drawSample(ref)
	want := mustSave(t, ref)

	var wg sync.WaitGroup
	results := make([][]byte, 8)
	errs := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := NewCanvas(landscape)
			drawSample(c)
			results[i], errs[i] = c.Save()
		}(i)
	}
	wg.Wait()

	for i := range results {
		if errs[i] != nil {
			t.Errorf("canvas %d: %v", i, errs[i])
			continue
		}
		if !bytes.Equal(results[i], want) {
			t.Errorf("canvas %d produced different bytes", i)
		}
	}
}
