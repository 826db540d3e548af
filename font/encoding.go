package font

import (
	"errors"
	"fmt"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// ErrUnsupportedGlyph is returned when text contains a character that the
// font cannot show through WinAnsiEncoding.
var ErrUnsupportedGlyph = errors.New("unsupported glyph")

// NormalizeUnicode returns s in Unicode NFC form, so a decomposed "e" +
// combining acute is shown as the single WinAnsi glyph "é".
func NormalizeUnicode(s string) string {
	return norm.NFC.String(s)
}

// Encode converts s to the single-byte character codes shown by the font.
// WinAnsiEncoding is Windows code page 1252. Control characters have no
// glyph and are rejected along with anything outside the code page.
func (f *Font) Encode(s string) ([]byte, error) {
	s = NormalizeUnicode(s)

	out := make([]byte, 0, len(s))
	for i, r := range s {
		if r < 0x20 || r == 0x7F {
			return nil, fmt.Errorf("%w: control character %U at byte %d in %s", ErrUnsupportedGlyph, r, i, f.BaseFont)
		}
		b, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			return nil, fmt.Errorf("%w: %q (%U) at byte %d in %s", ErrUnsupportedGlyph, r, r, i, f.BaseFont)
		}
		out = append(out, b)
	}
	return out, nil
}

// Decode converts character codes shown by the font back to text.
func (f *Font) Decode(data []byte) string {
	out := make([]rune, 0, len(data))
	for _, b := range data {
		out = append(out, charmap.Windows1252.DecodeByte(b))
	}
	return string(out)
}
