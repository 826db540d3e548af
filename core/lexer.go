package core

import (
	"bytes"
	"fmt"
	"io"
)

// TokenType represents the type of token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenComment
	TokenKeyword     // true, false, null, obj, endobj, stream, endstream, etc.
	TokenInteger     // 123
	TokenReal        // 3.14
	TokenString      // (hello)
	TokenHexString   // <48656C6C6F>
	TokenName        // /Type
	TokenArrayStart  // [
	TokenArrayEnd    // ]
	TokenDictStart   // <<
	TokenDictEnd     // >>
	TokenIndirectRef // R (after two numbers)
)

// String returns the token type name
func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenComment:
		return "Comment"
	case TokenKeyword:
		return "Keyword"
	case TokenInteger:
		return "Integer"
	case TokenReal:
		return "Real"
	case TokenString:
		return "String"
	case TokenHexString:
		return "HexString"
	case TokenName:
		return "Name"
	case TokenArrayStart:
		return "ArrayStart"
	case TokenArrayEnd:
		return "ArrayEnd"
	case TokenDictStart:
		return "DictStart"
	case TokenDictEnd:
		return "DictEnd"
	case TokenIndirectRef:
		return "IndirectRef"
	default:
		return fmt.Sprintf("TokenType(%d)", int(t))
	}
}

// Token represents a lexical token. Value holds decoded bytes for strings
// and names and the raw text otherwise.
type Token struct {
	Type  TokenType
	Value []byte
	Pos   int64 // Offset of the token in the input
}

// Lexer performs lexical analysis of PDF syntax over an in-memory file.
// Working on a byte slice lets the parser jump to any object offset and read
// stream data directly.
type Lexer struct {
	data []byte
	pos  int
}

// NewLexer creates a lexer positioned at the start of data
func NewLexer(data []byte) *Lexer {
	return &Lexer{data: data}
}

// Pos returns the current offset
func (l *Lexer) Pos() int64 {
	return int64(l.pos)
}

// Seek moves the lexer to an absolute offset
func (l *Lexer) Seek(offset int64) error {
	if offset < 0 || offset > int64(len(l.data)) {
		return fmt.Errorf("offset %d out of range [0, %d]", offset, len(l.data))
	}
	l.pos = int(offset)
	return nil
}

// NextToken returns the next token from the input. Whitespace is skipped.
func (l *Lexer) NextToken() (*Token, error) {
	l.skipWhitespace()

	if l.pos >= len(l.data) {
		return &Token{Type: TokenEOF, Pos: int64(l.pos)}, nil
	}

	start := l.pos
	b := l.data[l.pos]

	switch b {
	case '%':
		return l.readComment(), nil
	case '[':
		l.pos++
		return &Token{Type: TokenArrayStart, Value: []byte{'['}, Pos: int64(start)}, nil
	case ']':
		l.pos++
		return &Token{Type: TokenArrayEnd, Value: []byte{']'}, Pos: int64(start)}, nil
	case '(':
		return l.readString()
	case '<':
		if l.peekAt(1) == '<' {
			l.pos += 2
			return &Token{Type: TokenDictStart, Value: []byte("<<"), Pos: int64(start)}, nil
		}
		return l.readHexString()
	case '>':
		if l.peekAt(1) == '>' {
			l.pos += 2
			return &Token{Type: TokenDictEnd, Value: []byte(">>"), Pos: int64(start)}, nil
		}
		return nil, fmt.Errorf("unexpected '>' at position %d", start)
	case '/':
		return l.readName(), nil
	}

	if isDigit(b) || b == '-' || b == '+' || b == '.' {
		return l.readNumber()
	}

	if isRegular(b) {
		return l.readKeyword(), nil
	}

	return nil, fmt.Errorf("unexpected character %q at position %d", b, start)
}

// SkipStreamEOL skips the end-of-line marker after the stream keyword: LF,
// CR LF, or a lone CR written by some producers.
func (l *Lexer) SkipStreamEOL() error {
	// Some producers put spaces before the EOL.
	for l.pos < len(l.data) && l.data[l.pos] == ' ' {
		l.pos++
	}
	if l.pos >= len(l.data) {
		return io.ErrUnexpectedEOF
	}
	switch l.data[l.pos] {
	case '\n':
		l.pos++
	case '\r':
		l.pos++
		if l.pos < len(l.data) && l.data[l.pos] == '\n' {
			l.pos++
		}
	}
	return nil
}

// ReadBytes reads exactly n raw bytes
func (l *Lexer) ReadBytes(n int) ([]byte, error) {
	if n < 0 || l.pos+n > len(l.data) {
		return nil, fmt.Errorf("need %d bytes at position %d, have %d: %w", n, l.pos, len(l.data)-l.pos, io.ErrUnexpectedEOF)
	}
	out := l.data[l.pos : l.pos+n]
	l.pos += n
	return out, nil
}

// IndexFrom returns the offset of the first occurrence of sep at or after the
// current position, or -1.
func (l *Lexer) IndexFrom(sep []byte) int {
	i := bytes.Index(l.data[l.pos:], sep)
	if i < 0 {
		return -1
	}
	return l.pos + i
}

func (l *Lexer) peekAt(n int) byte {
	if l.pos+n < len(l.data) {
		return l.data[l.pos+n]
	}
	return 0
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.data) && isWhitespace(l.data[l.pos]) {
		l.pos++
	}
}

func (l *Lexer) readComment() *Token {
	start := l.pos
	for l.pos < len(l.data) && l.data[l.pos] != '\n' && l.data[l.pos] != '\r' {
		l.pos++
	}
	return &Token{Type: TokenComment, Value: l.data[start:l.pos], Pos: int64(start)}
}

// readNumber reads an integer or real. A lone sign or point is an error.
func (l *Lexer) readNumber() (*Token, error) {
	start := l.pos
	if c := l.data[l.pos]; c == '-' || c == '+' {
		l.pos++
	}
	isReal := false
	digits := 0
scan:
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		switch {
		case isDigit(c):
			digits++
		case c == '.' && !isReal:
			isReal = true
		default:
			break scan
		}
		l.pos++
	}
	if digits == 0 {
		return nil, fmt.Errorf("invalid number %q at position %d", l.data[start:l.pos], start)
	}
	typ := TokenInteger
	if isReal {
		typ = TokenReal
	}
	return &Token{Type: typ, Value: l.data[start:l.pos], Pos: int64(start)}, nil
}

// readKeyword reads a run of regular characters. A bare R is an indirect
// reference marker.
func (l *Lexer) readKeyword() *Token {
	start := l.pos
	for l.pos < len(l.data) && isRegular(l.data[l.pos]) {
		l.pos++
	}
	value := l.data[start:l.pos]
	if len(value) == 1 && value[0] == 'R' {
		return &Token{Type: TokenIndirectRef, Value: value, Pos: int64(start)}
	}
	return &Token{Type: TokenKeyword, Value: value, Pos: int64(start)}
}

// readName reads /Name, decoding #xx escapes.
func (l *Lexer) readName() *Token {
	start := l.pos
	l.pos++
	var out []byte
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		if !isRegular(c) {
			break
		}
		if c == '#' && l.pos+2 < len(l.data) && isHexDigit(l.data[l.pos+1]) && isHexDigit(l.data[l.pos+2]) {
			out = append(out, hexValue(l.data[l.pos+1])<<4|hexValue(l.data[l.pos+2]))
			l.pos += 3
			continue
		}
		out = append(out, c)
		l.pos++
	}
	return &Token{Type: TokenName, Value: out, Pos: int64(start)}
}

// readString reads a literal string with balanced parentheses and escapes.
func (l *Lexer) readString() (*Token, error) {
	start := l.pos
	l.pos++
	var out []byte
	depth := 1
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		l.pos++
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return &Token{Type: TokenString, Value: out, Pos: int64(start)}, nil
			}
		case '\\':
			if l.pos >= len(l.data) {
				return nil, fmt.Errorf("unterminated string at position %d", start)
			}
			out = l.readEscape(out)
			continue
		}
		out = append(out, c)
	}
	return nil, fmt.Errorf("unterminated string at position %d", start)
}

// readEscape decodes the escape after a backslash and appends it to out.
func (l *Lexer) readEscape(out []byte) []byte {
	c := l.data[l.pos]
	l.pos++
	switch c {
	case 'n':
		return append(out, '\n')
	case 'r':
		return append(out, '\r')
	case 't':
		return append(out, '\t')
	case 'b':
		return append(out, '\b')
	case 'f':
		return append(out, '\f')
	case '\r':
		// Line continuation
		if l.peekAt(0) == '\n' {
			l.pos++
		}
		return out
	case '\n':
		return out
	}
	if c >= '0' && c <= '7' {
		v := int(c - '0')
		for i := 0; i < 2 && l.pos < len(l.data) && l.data[l.pos] >= '0' && l.data[l.pos] <= '7'; i++ {
			v = v*8 + int(l.data[l.pos]-'0')
			l.pos++
		}
		return append(out, byte(v))
	}
	// \( \) \\ and unknown escapes keep the character.
	return append(out, c)
}

// readHexString reads <...>, returning the hex digits with whitespace
// removed.
func (l *Lexer) readHexString() (*Token, error) {
	start := l.pos
	l.pos++
	var digits []byte
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		l.pos++
		switch {
		case c == '>':
			return &Token{Type: TokenHexString, Value: digits, Pos: int64(start)}, nil
		case isWhitespace(c):
		case isHexDigit(c):
			digits = append(digits, c)
		default:
			return nil, fmt.Errorf("invalid hex digit %q at position %d", c, l.pos-1)
		}
	}
	return nil, fmt.Errorf("unterminated hex string at position %d", start)
}

// isWhitespace reports whether c is a PDF whitespace character.
func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}

// isRegular reports whether c is neither whitespace nor a delimiter.
func isRegular(c byte) bool {
	return !isWhitespace(c) && !isDelimiter(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

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
