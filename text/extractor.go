package text

import (
	"fmt"
	"strings"

	"github.com/sliderx/slidepdf/contentstream"
	"github.com/sliderx/slidepdf/core"
	"github.com/sliderx/slidepdf/graphicsstate"
	"github.com/sliderx/slidepdf/model"
	"github.com/sliderx/slidepdf/pages"
)

// TextFragment represents a piece of extracted text with position
type TextFragment struct {
	Text     string
	X, Y     float64
	Width    float64
	Height   float64
	FontName string
	FontSize float64
}

// Extractor extracts text from content streams
type Extractor struct {
	fonts     map[string]*pageFont
	fragments []TextFragment
}

// NewExtractor creates a new text extractor
func NewExtractor() *Extractor {
	return &Extractor{
		fonts:     make(map[string]*pageFont),
		fragments: make([]TextFragment, 0),
	}
}

// RegisterFont registers a font resource by base font and encoding name.
// Fonts that are never registered decode as WinAnsiEncoding.
func (e *Extractor) RegisterFont(name, baseFont, encoding string) {
	e.fonts[name] = newPageFont(baseFont, encoding)
}

// RegisterFontsFromPage registers all fonts from a page's resources
func (e *Extractor) RegisterFontsFromPage(page *pages.Page, resolver pages.ObjectResolver) error {
	resources, err := page.Resources()
	if err != nil {
		return err
	}
	return e.RegisterFontsFromResources(resources, resolver)
}

// RegisterFontsFromResources registers all fonts from a resources dictionary
func (e *Extractor) RegisterFontsFromResources(resources core.Dict, resolver pages.ObjectResolver) error {
	fontDictObj := resources.Get("Font")
	if fontDictObj == nil {
		return nil
	}
	resolved, err := resolver.Resolve(fontDictObj)
	if err != nil {
		return fmt.Errorf("failed to resolve font dictionary: %w", err)
	}
	fontDict, ok := resolved.(core.Dict)
	if !ok {
		return fmt.Errorf("font resources are %T, not a dictionary", resolved)
	}

	for _, name := range fontDict.Keys() {
		obj, err := resolver.Resolve(fontDict.Get(name))
		if err != nil {
			return fmt.Errorf("failed to resolve font %s: %w", name, err)
		}
		dict, ok := obj.(core.Dict)
		if !ok {
			continue
		}
		e.fonts[name] = parsePageFont(dict, resolver.Resolve)
	}
	return nil
}

// Extract replays operations and appends the text they show.
func (e *Extractor) Extract(operations []contentstream.Operation) ([]TextFragment, error) {
	gs := graphicsstate.NewLenientExtractor()
	if err := gs.Extract(operations); err != nil {
		return nil, err
	}

	var (
		origin model.Point
		cursor float64
		first  = true
	)
	for _, s := range gs.Strings() {
		f := e.font(s.Font)
		decoded := f.decode(s.Codes)

		// Strings shown from the same origin continue where the last ended.
		x := s.Position.X
		if !first && s.Position == origin {
			x = cursor - s.Kerning/1000*s.Size
		}
		first = false
		origin = s.Position

		width := f.width(s.Codes, decoded, s.Size)
		cursor = x + width
		if decoded == "" {
			continue
		}
		e.fragments = append(e.fragments, TextFragment{
			Text:     decoded,
			X:        x,
			Y:        s.Position.Y,
			Width:    width,
			Height:   s.Size,
			FontName: s.Font,
			FontSize: s.Size,
		})
	}
	return e.fragments, nil
}

// ExtractFromBytes parses and extracts from raw content stream data
func (e *Extractor) ExtractFromBytes(data []byte) ([]TextFragment, error) {
	operations, err := contentstream.NewParser(data).Parse()
	if err != nil {
		return nil, fmt.Errorf("failed to parse content stream: %w", err)
	}
	return e.Extract(operations)
}

func (e *Extractor) font(name string) *pageFont {
	if f, ok := e.fonts[name]; ok {
		return f
	}
	f := newPageFont("", "")
	e.fonts[name] = f
	return f
}

// GetText returns the extracted text, one line per baseline in drawing
// order. Lines separated by more than one and a half times their height
// are joined by a blank line.
func (e *Extractor) GetText() string {
	lines := e.groupFragmentsByLine()

	var sb strings.Builder
	for i, line := range lines {
		for j, frag := range line {
			if j > 0 && needsSpace(line[j-1], frag) {
				sb.WriteByte(' ')
			}
			sb.WriteString(frag.Text)
		}

		if i < len(lines)-1 {
			if abs(lines[i+1][0].Y-line[0].Y) > line[0].Height*1.5 {
				sb.WriteString("\n\n")
			} else {
				sb.WriteString("\n")
			}
		}
	}
	return sb.String()
}

// GetFragments returns all text fragments
func (e *Extractor) GetFragments() []TextFragment {
	return e.fragments
}

// groupFragmentsByLine groups consecutive fragments whose baselines are
// within half a line height of each other.
func (e *Extractor) groupFragmentsByLine() [][]TextFragment {
	if len(e.fragments) == 0 {
		return nil
	}

	lines := make([][]TextFragment, 0)
	current := []TextFragment{e.fragments[0]}
	for i := 1; i < len(e.fragments); i++ {
		frag, prev := e.fragments[i], e.fragments[i-1]
		if abs(frag.Y-prev.Y) <= prev.Height*0.5 {
			current = append(current, frag)
			continue
		}
		lines = append(lines, current)
		current = []TextFragment{frag}
	}
	return append(lines, current)
}

// needsSpace reports whether the gap between two fragments on a line is a
// word break that the fragments do not already spell out.
func needsSpace(prev, next TextFragment) bool {
	if strings.HasSuffix(prev.Text, " ") || strings.HasPrefix(next.Text, " ") {
		return false
	}
	gap := next.X - (prev.X + prev.Width)
	return gap > prev.FontSize*0.15
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
