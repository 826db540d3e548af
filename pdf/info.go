package pdf

import (
	"github.com/sliderx/slidepdf/core"
	"golang.org/x/text/encoding/unicode"
)

// encodeInfoString encodes a text string for the info dictionary. Plain
// ASCII is written as is; anything else becomes UTF-16BE with a byte order
// mark.
func encodeInfoString(s string) (core.String, error) {
	if isPrintableASCII(s) {
		return core.String(s), nil
	}
	enc := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder()
	out, err := enc.String(s)
	if err != nil {
		return "", err
	}
	return core.String(out), nil
}

func isPrintableASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7E {
			return false
		}
	}
	return true
}
