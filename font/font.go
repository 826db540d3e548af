package font

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sliderx/slidepdf/core"
)

// ErrUnknownFont is returned when a base font is not one of the supported
// standard fonts.
var ErrUnknownFont = errors.New("unknown standard font")

// Font represents a standard Type 1 font used with WinAnsiEncoding. Fonts
// are immutable and safe to share between goroutines.
type Font struct {
	BaseFont string
	Subtype  string
	Encoding string

	// Character width information
	widths       map[rune]float64
	defaultWidth float64
}

// Standard returns the standard font with the given base name, such as
// "Helvetica-Bold".
func Standard(baseFont string) (*Font, error) {
	m, ok := standardFonts[baseFont]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFont, baseFont)
	}

	return &Font{
		BaseFont:     baseFont,
		Subtype:      "Type1",
		Encoding:     "WinAnsiEncoding",
		widths:       m.widths,
		defaultWidth: m.defaultWidth,
	}, nil
}

// IsStandardFont reports whether baseFont names a supported standard font.
func IsStandardFont(baseFont string) bool {
	_, ok := standardFonts[baseFont]
	return ok
}

// StandardFonts returns the supported base font names in sorted order.
func StandardFonts() []string {
	names := make([]string, 0, len(standardFonts))
	for name := range standardFonts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetWidth returns the width of a character (in 1000ths of em)
func (f *Font) GetWidth(r rune) float64 {
	if w, ok := f.widths[r]; ok {
		return w
	}
	return f.defaultWidth
}

// GetStringWidth calculates the total width of a string in 1000ths of em.
// The string is NFC-normalized first, matching what Encode will show.
func (f *Font) GetStringWidth(s string) float64 {
	total := 0.0
	for _, r := range NormalizeUnicode(s) {
		total += f.GetWidth(r)
	}
	return total
}

// StringWidth returns the width of s in points when set at the given size.
func (f *Font) StringWidth(s string, size float64) float64 {
	return f.GetStringWidth(s) * size / 1000
}

// Dict returns the font dictionary to embed in a page's resources.
func (f *Font) Dict() core.Dict {
	return core.Dict{
		"Type":     core.Name("Font"),
		"Subtype":  core.Name(f.Subtype),
		"BaseFont": core.Name(f.BaseFont),
		"Encoding": core.Name(f.Encoding),
	}
}
