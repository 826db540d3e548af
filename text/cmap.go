package text

import (
	"fmt"

	"github.com/sliderx/slidepdf/core"
	"golang.org/x/text/encoding/unicode"
)

// maxRangeSize bounds a single bfrange so a hostile CMap cannot allocate
// without limit.
const maxRangeSize = 1 << 16

// toUnicode maps character codes to text, as read from a ToUnicode CMap.
type toUnicode struct {
	codeLen int // bytes per code
	chars   map[uint32]string
}

// parseToUnicode reads the bfchar and bfrange sections of a CMap.
func parseToUnicode(data []byte) (*toUnicode, error) {
	m := &toUnicode{codeLen: 1, chars: make(map[uint32]string)}
	lex := core.NewLexer(data)
	sawCodespace := false

	next := func() (*core.Token, error) {
		for {
			tok, err := lex.NextToken()
			if err != nil || tok.Type != core.TokenComment {
				return tok, err
			}
		}
	}

	for {
		tok, err := next()
		if err != nil {
			return nil, err
		}
		if tok.Type == core.TokenEOF {
			return m, nil
		}
		if tok.Type != core.TokenKeyword {
			continue
		}

		switch string(tok.Value) {
		case "begincodespacerange":
			lo, err := next()
			if err != nil {
				return nil, err
			}
			if lo.Type == core.TokenHexString && !sawCodespace {
				m.codeLen = max(1, (len(lo.Value)+1)/2)
				sawCodespace = true
			}

		case "beginbfchar":
			for {
				src, err := next()
				if err != nil {
					return nil, err
				}
				if src.Type != core.TokenHexString {
					break
				}
				dst, err := next()
				if err != nil {
					return nil, err
				}
				if dst.Type == core.TokenHexString {
					m.chars[hexCode(src.Value)] = utf16Text(hexBytes(dst.Value))
				}
			}

		case "beginbfrange":
			for {
				lo, err := next()
				if err != nil {
					return nil, err
				}
				if lo.Type != core.TokenHexString {
					break
				}
				hi, err := next()
				if err != nil {
					return nil, err
				}
				if err := m.readRange(lex, hexCode(lo.Value), hexCode(hi.Value)); err != nil {
					return nil, err
				}
			}
		}
	}
}

// readRange reads the destination of one bfrange: either a starting value
// that increments across the range, or an array with one entry per code.
func (m *toUnicode) readRange(lex *core.Lexer, lo, hi uint32) error {
	if hi < lo || hi-lo >= maxRangeSize {
		return fmt.Errorf("invalid bfrange <%X> <%X>", lo, hi)
	}

	tok, err := lex.NextToken()
	if err != nil {
		return err
	}
	switch tok.Type {
	case core.TokenHexString:
		start := hexBytes(tok.Value)
		for i := uint32(0); i <= hi-lo; i++ {
			m.chars[lo+i] = utf16Text(addToLast(start, i))
		}
	case core.TokenArrayStart:
		for i := uint32(0); ; i++ {
			tok, err := lex.NextToken()
			if err != nil {
				return err
			}
			if tok.Type != core.TokenHexString {
				break
			}
			if i <= hi-lo {
				m.chars[lo+i] = utf16Text(hexBytes(tok.Value))
			}
		}
	}
	return nil
}

// decode maps codes to text. Codes missing from the map fall back to the
// single-byte decoder when codes are one byte wide.
func (m *toUnicode) decode(codes []byte, fallback func(byte) string) string {
	var out []byte
	for i := 0; i+m.codeLen <= len(codes); i += m.codeLen {
		var code uint32
		for _, b := range codes[i : i+m.codeLen] {
			code = code<<8 | uint32(b)
		}
		if s, ok := m.chars[code]; ok {
			out = append(out, s...)
		} else if m.codeLen == 1 {
			out = append(out, fallback(codes[i])...)
		}
	}
	return string(out)
}

func hexCode(digits []byte) uint32 {
	var v uint32
	for _, b := range hexBytes(digits) {
		v = v<<8 | uint32(b)
	}
	return v
}

func hexBytes(digits []byte) []byte {
	if len(digits)%2 == 1 {
		digits = append(digits[:len(digits):len(digits)], '0')
	}
	out := make([]byte, len(digits)/2)
	for i := range out {
		out[i] = hexNibble(digits[2*i])<<4 | hexNibble(digits[2*i+1])
	}
	return out
}

func hexNibble(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

// addToLast returns b read as a big-endian number plus n, in the same
// number of bytes.
func addToLast(b []byte, n uint32) []byte {
	out := append([]byte(nil), b...)
	if len(out) == 0 {
		return out
	}
	carry := n
	for i := len(out) - 1; i >= 0 && carry > 0; i-- {
		sum := uint32(out[i]) + carry
		out[i] = byte(sum)
		carry = sum >> 8
	}
	return out
}

// utf16Text decodes UTF-16BE destination bytes.
func utf16Text(b []byte) string {
	s, err := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder().Bytes(b)
	if err != nil {
		return ""
	}
	return string(s)
}
