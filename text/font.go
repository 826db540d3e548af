package text

import (
	"github.com/sliderx/slidepdf/core"
	"github.com/sliderx/slidepdf/font"
	"golang.org/x/text/encoding/charmap"
)

// fallbackWidth is the advance, in thousandths of an em, assumed for a
// glyph with no known metrics.
const fallbackWidth = 500

// pageFont turns the codes shown with one font resource back into text and
// estimates how wide they were drawn.
type pageFont struct {
	baseFont  string
	encoding  *charmap.Charmap
	toUnicode *toUnicode
	metrics   *font.Font // standard fonts only

	firstChar int
	widths    []float64
}

// newPageFont builds a decoder from a font name and encoding name alone.
func newPageFont(baseFont, encoding string) *pageFont {
	f := &pageFont{baseFont: baseFont, encoding: charmap.Windows1252}
	if encoding == "MacRomanEncoding" {
		f.encoding = charmap.Macintosh
	}
	if std, err := font.Standard(baseFont); err == nil {
		f.metrics = std
	}
	return f
}

// parsePageFont reads a font dictionary. Fonts it cannot fully understand
// still decode with WinAnsiEncoding.
func parsePageFont(dict core.Dict, resolve func(core.Object) (core.Object, error)) *pageFont {
	baseFont, _ := dict.GetName("BaseFont")

	encoding := ""
	if encObj, err := resolve(dict.Get("Encoding")); err == nil {
		switch e := encObj.(type) {
		case core.Name:
			encoding = string(e)
		case core.Dict:
			if base, ok := e.GetName("BaseEncoding"); ok {
				encoding = string(base)
			}
		}
	}

	f := newPageFont(string(baseFont), encoding)

	if obj, err := resolve(dict.Get("ToUnicode")); err == nil {
		if s, ok := obj.(*core.Stream); ok {
			if data, err := s.Decode(); err == nil {
				f.toUnicode, _ = parseToUnicode(data)
			}
		}
	}

	if first, ok := dict.GetInt("FirstChar"); ok {
		if obj, err := resolve(dict.Get("Widths")); err == nil {
			if arr, ok := obj.(core.Array); ok {
				f.firstChar = int(first)
				f.widths = make([]float64, len(arr))
				for i, w := range arr {
					if v, err := resolve(w); err == nil {
						f.widths[i] = number(v)
					}
				}
			}
		}
	}
	return f
}

// decode converts shown codes to text.
func (f *pageFont) decode(codes []byte) string {
	single := func(b byte) string {
		return string(f.encoding.DecodeByte(b))
	}
	if f.toUnicode != nil {
		return f.toUnicode.decode(codes, single)
	}
	out := make([]rune, 0, len(codes))
	for _, b := range codes {
		out = append(out, f.encoding.DecodeByte(b))
	}
	return string(out)
}

// width estimates the advance of codes shown at size, in points.
func (f *pageFont) width(codes []byte, decoded string, size float64) float64 {
	if f.widths != nil && (f.toUnicode == nil || f.toUnicode.codeLen == 1) {
		total := 0.0
		for _, b := range codes {
			i := int(b) - f.firstChar
			if i >= 0 && i < len(f.widths) && f.widths[i] > 0 {
				total += f.widths[i]
			} else {
				total += fallbackWidth
			}
		}
		return total * size / 1000
	}
	if f.metrics != nil {
		return f.metrics.StringWidth(decoded, size)
	}
	return float64(len([]rune(decoded))) * fallbackWidth * size / 1000
}

func number(obj core.Object) float64 {
	switch v := obj.(type) {
	case core.Int:
		return float64(v)
	case core.Real:
		return float64(v)
	}
	return 0
}
