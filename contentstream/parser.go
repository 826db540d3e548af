package contentstream

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/sliderx/slidepdf/core"
)

var (
	errUnclosedString = errors.New("unclosed string")
	errUnclosedArray  = errors.New("unclosed array")
	errUnclosedDict   = errors.New("unclosed dictionary")
	errUnclosedImage  = errors.New("inline image without EI")
)

// Parser reads a content stream back into operations.
//
// Operands accumulate until an operator (a run of letters, optionally
// followed by '*', or one of ' and ") consumes them. true, false and null
// are operands, not operators.
//
// A Parser is not safe for concurrent use; each goroutine needs its own.
type Parser struct {
	data     []byte
	pos      int
	ops      []Operation
	operands []core.Object // operands waiting for their operator
}

// NewParser creates a new content stream parser for the given data.
func NewParser(data []byte) *Parser {
	return &Parser{data: data}
}

// Parse parses the content stream and returns all operations in order.
// Operands left over at the end of the stream are dropped.
func (p *Parser) Parse() ([]Operation, error) {
	for {
		p.skipSpaceAndComments()
		if p.eof() {
			return p.ops, nil
		}

		start := p.pos
		if word, ok := p.peekWord(); ok && !isKeyword(word) {
			p.pos += len(word)
			p.emit(word)
			if word == "ID" {
				if err := p.skipInlineImage(); err != nil {
					return nil, fmt.Errorf("at position %d: %w", start, err)
				}
			}
			continue
		}

		obj, err := p.readObject()
		if err != nil {
			return nil, fmt.Errorf("at position %d: %w", start, err)
		}
		p.operands = append(p.operands, obj)
	}
}

// skipInlineImage steps over the binary data after ID and emits the EI
// that ends it. The data ends at the first EI that stands alone between
// whitespace.
func (p *Parser) skipInlineImage() error {
	if !p.eof() && isWhitespace(p.data[p.pos]) {
		p.pos++
	}
	for i := p.pos; i+1 < len(p.data); i++ {
		if p.data[i] != 'E' || p.data[i+1] != 'I' {
			continue
		}
		before := i == p.pos || isWhitespace(p.data[i-1])
		after := i+2 == len(p.data) || isWhitespace(p.data[i+2])
		if before && after {
			p.pos = i + 2
			p.emit("EI")
			return nil
		}
	}
	return errUnclosedImage
}

func (p *Parser) emit(operator string) {
	operands := make([]core.Object, len(p.operands))
	copy(operands, p.operands)
	p.ops = append(p.ops, Operation{Operator: operator, Operands: operands})
	p.operands = p.operands[:0]
}

// peekWord returns the operator-shaped token at the current position, if any.
func (p *Parser) peekWord() (string, bool) {
	c := p.data[p.pos]
	if c == '\'' || c == '"' {
		return string(c), true
	}
	if !isLetter(c) {
		return "", false
	}
	end := p.pos
	for end < len(p.data) && (isLetter(p.data[end]) || p.data[end] == '*') {
		end++
	}
	return string(p.data[p.pos:end]), true
}

func isKeyword(word string) bool {
	return word == "true" || word == "false" || word == "null"
}

// readObject reads one operand.
func (p *Parser) readObject() (core.Object, error) {
	c := p.data[p.pos]
	switch {
	case c == '-' || c == '+' || c == '.' || isDigit(c):
		return p.readNumber()
	case c == '(':
		return p.readLiteral()
	case c == '/':
		return p.readName(), nil
	case c == '[':
		return p.readArray()
	case c == '<' && p.peek(1) == '<':
		return p.readDict()
	case c == '<':
		return p.readHex()
	case isLetter(c):
		word, _ := p.peekWord()
		p.pos += len(word)
		switch word {
		case "true":
			return core.Bool(true), nil
		case "false":
			return core.Bool(false), nil
		case "null":
			return core.Null{}, nil
		}
		return nil, fmt.Errorf("unexpected keyword %q", word)
	}
	return nil, fmt.Errorf("unexpected character %q", c)
}

func (p *Parser) readNumber() (core.Object, error) {
	start := p.pos
	if c := p.data[p.pos]; c == '-' || c == '+' {
		p.pos++
	}
	isReal := false
	for !p.eof() {
		c := p.data[p.pos]
		if c == '.' && !isReal {
			isReal = true
		} else if !isDigit(c) {
			break
		}
		p.pos++
	}

	text := string(p.data[start:p.pos])
	if isReal {
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid real %q: %w", text, err)
		}
		return core.Real(v), nil
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid integer %q: %w", text, err)
	}
	return core.Int(v), nil
}

// escapes maps the single-character escapes of a literal string.
var escapes = map[byte]byte{
	'n': '\n', 'r': '\r', 't': '\t', 'b': '\b', 'f': '\f',
	'(': '(', ')': ')', '\\': '\\',
}

// readLiteral reads a (...) string with balanced parentheses.
func (p *Parser) readLiteral() (core.Object, error) {
	p.pos++
	var out []byte
	depth := 1
	for !p.eof() {
		c := p.data[p.pos]
		p.pos++
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return core.String(out), nil
			}
		case '\\':
			if p.eof() {
				return nil, errUnclosedString
			}
			out = p.readEscape(out)
			continue
		}
		out = append(out, c)
	}
	return nil, errUnclosedString
}

// readEscape decodes the escape after a backslash and appends it to out.
func (p *Parser) readEscape(out []byte) []byte {
	c := p.data[p.pos]
	p.pos++
	if b, ok := escapes[c]; ok {
		return append(out, b)
	}
	switch {
	case c == '\r':
		if p.peek(0) == '\n' {
			p.pos++
		}
		return out
	case c == '\n':
		return out
	case c >= '0' && c <= '7':
		v := int(c - '0')
		for i := 0; i < 2 && !p.eof() && p.data[p.pos] >= '0' && p.data[p.pos] <= '7'; i++ {
			v = v*8 + int(p.data[p.pos]-'0')
			p.pos++
		}
		return append(out, byte(v))
	}
	// Unknown escapes drop the backslash.
	return append(out, c)
}

// readHex reads a <...> string. Whitespace is ignored and an odd final
// digit is padded with zero.
func (p *Parser) readHex() (core.Object, error) {
	p.pos++
	var digits []byte
	for {
		if p.eof() {
			return nil, errUnclosedString
		}
		c := p.data[p.pos]
		p.pos++
		if c == '>' {
			break
		}
		if isWhitespace(c) {
			continue
		}
		if !isHexDigit(c) {
			return nil, fmt.Errorf("invalid hex digit %q", c)
		}
		digits = append(digits, c)
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, len(digits)/2)
	for i := range out {
		out[i] = hexValue(digits[2*i])<<4 | hexValue(digits[2*i+1])
	}
	return core.String(out), nil
}

// readName reads /Name, decoding #xx escapes.
func (p *Parser) readName() core.Object {
	p.pos++
	var out []byte
	for !p.eof() {
		c := p.data[p.pos]
		if isWhitespace(c) || isDelimiter(c) {
			break
		}
		if c == '#' && p.pos+2 < len(p.data) && isHexDigit(p.data[p.pos+1]) && isHexDigit(p.data[p.pos+2]) {
			out = append(out, hexValue(p.data[p.pos+1])<<4|hexValue(p.data[p.pos+2]))
			p.pos += 3
			continue
		}
		out = append(out, c)
		p.pos++
	}
	return core.Name(out)
}

func (p *Parser) readArray() (core.Object, error) {
	p.pos++
	arr := core.Array{}
	for {
		p.skipSpaceAndComments()
		if p.eof() {
			return nil, errUnclosedArray
		}
		if p.data[p.pos] == ']' {
			p.pos++
			return arr, nil
		}
		obj, err := p.readObject()
		if err != nil {
			return nil, err
		}
		arr = append(arr, obj)
	}
}

// readDict reads a <<...>> operand, as used by marked-content operators.
func (p *Parser) readDict() (core.Object, error) {
	p.pos += 2
	dict := core.Dict{}
	for {
		p.skipSpaceAndComments()
		if p.eof() {
			return nil, errUnclosedDict
		}
		if p.data[p.pos] == '>' && p.peek(1) == '>' {
			p.pos += 2
			return dict, nil
		}
		if p.data[p.pos] != '/' {
			return nil, fmt.Errorf("dictionary key must be a name")
		}
		key := p.readName().(core.Name)

		p.skipSpaceAndComments()
		if p.eof() {
			return nil, errUnclosedDict
		}
		value, err := p.readObject()
		if err != nil {
			return nil, err
		}
		dict[string(key)] = value
	}
}

func (p *Parser) skipSpaceAndComments() {
	for !p.eof() {
		switch c := p.data[p.pos]; {
		case isWhitespace(c):
			p.pos++
		case c == '%':
			for !p.eof() && p.data[p.pos] != '\n' && p.data[p.pos] != '\r' {
				p.pos++
			}
		default:
			return
		}
	}
}

func (p *Parser) eof() bool {
	return p.pos >= len(p.data)
}

// peek returns the byte n positions ahead, or 0 past the end.
func (p *Parser) peek(n int) byte {
	if p.pos+n < len(p.data) {
		return p.data[p.pos+n]
	}
	return 0
}

// isWhitespace reports whether c is a PDF whitespace character.
func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// isDelimiter reports whether c is a PDF delimiter character.
func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// hexValue returns the value of a hexadecimal digit, or 0 for other bytes.
func hexValue(c byte) byte {
	switch {
	case isDigit(c):
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}
