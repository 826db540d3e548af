package core

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrDirectStream is returned when a stream is encoded as a direct
	// object. Streams may only appear as indirect objects.
	ErrDirectStream = errors.New("stream must be an indirect object")

	// ErrNonFinite is returned when a Real is NaN or infinite.
	ErrNonFinite = errors.New("real number is not finite")
)

// Marshal returns the PDF syntax for a direct object.
func Marshal(obj Object) ([]byte, error) {
	return AppendObject(nil, obj)
}

// AppendObject appends the PDF syntax for obj to dst. Dictionary keys are
// written in sorted order so the output depends only on the object's value.
func AppendObject(dst []byte, obj Object) ([]byte, error) {
	switch o := obj.(type) {
	case nil, Null:
		return append(dst, "null"...), nil
	case Bool:
		return append(dst, o.String()...), nil
	case Int:
		return strconv.AppendInt(dst, int64(o), 10), nil
	case Real:
		if !o.IsFinite() {
			return dst, fmt.Errorf("%w: %v", ErrNonFinite, float64(o))
		}
		return append(dst, o.String()...), nil
	case String:
		return appendLiteralString(dst, string(o)), nil
	case Name:
		return appendName(dst, string(o)), nil
	case Array:
		dst = append(dst, '[')
		for i, elem := range o {
			if i > 0 {
				dst = append(dst, ' ')
			}
			var err error
			dst, err = AppendObject(dst, elem)
			if err != nil {
				return dst, fmt.Errorf("array element %d: %w", i, err)
			}
		}
		return append(dst, ']'), nil
	case Dict:
		dst = append(dst, "<<"...)
		for i, key := range o.Keys() {
			if i > 0 {
				dst = append(dst, ' ')
			}
			dst = appendName(dst, key)
			dst = append(dst, ' ')
			var err error
			dst, err = AppendObject(dst, o[key])
			if err != nil {
				return dst, fmt.Errorf("dict key /%s: %w", key, err)
			}
		}
		return append(dst, ">>"...), nil
	case IndirectRef:
		return append(dst, o.String()...), nil
	case *Stream:
		return dst, ErrDirectStream
	default:
		return dst, fmt.Errorf("unsupported object type %T", obj)
	}
}

// appendLiteralString writes s as a literal string (...). Parentheses and
// backslashes are escaped; bytes outside printable ASCII use octal escapes.
func appendLiteralString(dst []byte, s string) []byte {
	dst = append(dst, '(')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '(', ')', '\\':
			dst = append(dst, '\\', c)
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\t':
			dst = append(dst, '\\', 't')
		case '\b':
			dst = append(dst, '\\', 'b')
		case '\f':
			dst = append(dst, '\\', 'f')
		default:
			if c < 32 || c > 126 {
				dst = append(dst, '\\', '0'+(c>>6), '0'+((c>>3)&7), '0'+(c&7))
			} else {
				dst = append(dst, c)
			}
		}
	}
	return append(dst, ')')
}

// appendName writes /name, escaping delimiters, '#' and non-regular
// characters as #xx.
func appendName(dst []byte, name string) []byte {
	const hex = "0123456789ABCDEF"
	dst = append(dst, '/')
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c < '!' || c > '~' || c == '#' || isDelimiter(c) {
			dst = append(dst, '#', hex[c>>4], hex[c&0x0F])
			continue
		}
		dst = append(dst, c)
	}
	return dst
}

// isDelimiter reports whether c is a PDF delimiter character.
func isDelimiter(c byte) bool {
	return c == '(' || c == ')' || c == '<' || c == '>' ||
		c == '[' || c == ']' || c == '{' || c == '}' ||
		c == '/' || c == '%'
}
