package core

import (
	"errors"
	"fmt"
	"io"
	"strconv"
)

// ReferenceResolver resolves indirect references. The parser uses it for
// stream lengths given as references.
type ReferenceResolver interface {
	ResolveReference(ref IndirectRef) (Object, error)
}

// IndirectObject is an object read from "num gen obj ... endobj".
type IndirectObject struct {
	Ref    IndirectRef
	Object Object
}

// Parser parses PDF objects using a Lexer for tokenization. It keeps one
// token of lookahead to recognise "num gen R" references.
type Parser struct {
	lexer        *Lexer
	currentToken *Token
	peekToken    *Token
	resolver     ReferenceResolver
	err          error // first lexer error, reported by the next parse call
}

// NewParser creates a parser positioned at the start of data
func NewParser(data []byte) *Parser {
	p := &Parser{lexer: NewLexer(data)}
	p.reload()
	return p
}

// SetReferenceResolver sets the resolver used for indirect stream lengths.
func (p *Parser) SetReferenceResolver(resolver ReferenceResolver) {
	p.resolver = resolver
}

// Seek repositions the parser at an absolute offset.
func (p *Parser) Seek(offset int64) error {
	if err := p.lexer.Seek(offset); err != nil {
		return err
	}
	p.reload()
	return nil
}

// reload discards lookahead and reads two fresh tokens.
func (p *Parser) reload() {
	p.currentToken = nil
	p.peekToken = nil
	p.err = nil
	p.nextToken()
	p.nextToken()
}

// nextToken shifts the lookahead. Once "stream" becomes the current token
// the lexer is left in place, since the bytes that follow are raw data.
func (p *Parser) nextToken() {
	p.currentToken = p.peekToken
	if p.currentToken != nil && p.currentToken.Type == TokenKeyword && string(p.currentToken.Value) == "stream" {
		p.peekToken = nil
		return
	}

	token, err := p.lexer.NextToken()
	if err != nil {
		if p.err == nil {
			p.err = err
		}
		token = &Token{Type: TokenEOF, Pos: p.lexer.Pos()}
	}
	p.peekToken = token
}

func (p *Parser) skipComments() {
	for p.currentToken != nil && p.currentToken.Type == TokenComment {
		p.nextToken()
	}
}

// current returns the current token, failing on a pending lexer error.
func (p *Parser) current() (*Token, error) {
	p.skipComments()
	if p.currentToken == nil {
		return nil, io.ErrUnexpectedEOF
	}
	if p.currentToken.Type == TokenEOF && p.err != nil {
		return nil, p.err
	}
	return p.currentToken, nil
}

func (p *Parser) isKeyword(tok *Token, keyword string) bool {
	return tok != nil && tok.Type == TokenKeyword && string(tok.Value) == keyword
}

// ParseObject parses the next direct object or indirect reference.
func (p *Parser) ParseObject() (Object, error) {
	tok, err := p.current()
	if err != nil {
		return nil, err
	}

	switch tok.Type {
	case TokenEOF:
		return nil, io.EOF

	case TokenKeyword:
		switch string(tok.Value) {
		case "null":
			p.nextToken()
			return Null{}, nil
		case "true":
			p.nextToken()
			return Bool(true), nil
		case "false":
			p.nextToken()
			return Bool(false), nil
		}
		return nil, fmt.Errorf("unexpected keyword %q at position %d", tok.Value, tok.Pos)

	case TokenInteger:
		return p.parseNumber()

	case TokenReal:
		val, err := strconv.ParseFloat(string(tok.Value), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid real number: %w", err)
		}
		p.nextToken()
		return Real(val), nil

	case TokenString:
		p.nextToken()
		return String(tok.Value), nil

	case TokenHexString:
		digits := tok.Value
		if len(digits)%2 != 0 {
			digits = append(digits, '0')
		}
		out := make([]byte, len(digits)/2)
		for i := range out {
			out[i] = hexValue(digits[2*i])<<4 | hexValue(digits[2*i+1])
		}
		p.nextToken()
		return String(out), nil

	case TokenName:
		p.nextToken()
		return Name(tok.Value), nil

	case TokenArrayStart:
		return p.parseArray()

	case TokenDictStart:
		return p.parseDict()
	}

	return nil, fmt.Errorf("unexpected token %v at position %d", tok.Type, tok.Pos)
}

// parseNumber parses an integer or an indirect reference "num gen R".
func (p *Parser) parseNumber() (Object, error) {
	first, err := strconv.ParseInt(string(p.currentToken.Value), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid integer %q: %w", p.currentToken.Value, err)
	}

	if p.peekToken != nil && p.peekToken.Type == TokenInteger {
		second, err := strconv.ParseInt(string(p.peekToken.Value), 10, 64)
		if err == nil {
			// Look one token further without losing the second integer.
			mark := p.lexer.Pos()
			after, lexErr := p.lexer.NextToken()
			if lexErr == nil && after.Type == TokenIndirectRef {
				p.nextToken()
				p.nextToken()
				return IndirectRef{Number: int(first), Generation: int(second)}, nil
			}
			if err := p.lexer.Seek(mark); err != nil {
				return nil, err
			}
		}
	}

	p.nextToken()
	return Int(first), nil
}

// parseArray parses "[obj1 obj2 ...]".
func (p *Parser) parseArray() (Object, error) {
	p.nextToken()

	arr := Array{}
	for {
		tok, err := p.current()
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case TokenArrayEnd:
			p.nextToken()
			return arr, nil
		case TokenEOF:
			return nil, fmt.Errorf("unexpected EOF in array")
		}

		obj, err := p.ParseObject()
		if err != nil {
			return nil, fmt.Errorf("array element %d: %w", len(arr), err)
		}
		arr = append(arr, obj)
	}
}

// parseDict parses "<< /Key value ... >>".
func (p *Parser) parseDict() (Object, error) {
	p.nextToken()

	dict := make(Dict)
	for {
		tok, err := p.current()
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case TokenDictEnd:
			p.nextToken()
			return dict, nil
		case TokenEOF:
			return nil, fmt.Errorf("unexpected EOF in dictionary")
		case TokenName:
		default:
			return nil, fmt.Errorf("expected name for dictionary key, got %v at position %d", tok.Type, tok.Pos)
		}
		key := string(tok.Value)
		p.nextToken()

		value, err := p.ParseObject()
		if err != nil {
			return nil, fmt.Errorf("dictionary value for /%s: %w", key, err)
		}
		dict[key] = value
	}
}

// ParseIndirectObject parses "num gen obj <object> endobj", including stream
// objects.
func (p *Parser) ParseIndirectObject() (*IndirectObject, error) {
	num, err := p.expectInt("object number")
	if err != nil {
		return nil, err
	}
	gen, err := p.expectInt("generation number")
	if err != nil {
		return nil, err
	}
	if tok, _ := p.current(); !p.isKeyword(tok, "obj") {
		return nil, fmt.Errorf("expected 'obj' keyword after %d %d", num, gen)
	}
	p.nextToken()

	obj, err := p.ParseObject()
	if err != nil {
		return nil, fmt.Errorf("object %d %d: %w", num, gen, err)
	}

	if tok, _ := p.current(); p.isKeyword(tok, "stream") {
		dict, ok := obj.(Dict)
		if !ok {
			return nil, fmt.Errorf("object %d %d: stream must follow a dictionary", num, gen)
		}
		stream, err := p.parseStream(dict)
		if err != nil {
			return nil, fmt.Errorf("object %d %d: %w", num, gen, err)
		}
		obj = stream
	}

	if tok, _ := p.current(); !p.isKeyword(tok, "endobj") {
		return nil, fmt.Errorf("object %d %d: expected 'endobj' keyword", num, gen)
	}
	p.nextToken()

	return &IndirectObject{
		Ref:    IndirectRef{Number: num, Generation: gen},
		Object: obj,
	}, nil
}

func (p *Parser) expectInt(what string) (int, error) {
	tok, err := p.current()
	if err != nil {
		return 0, err
	}
	if tok.Type != TokenInteger {
		return 0, fmt.Errorf("expected %s, got %v at position %d", what, tok.Type, tok.Pos)
	}
	v, err := strconv.Atoi(string(tok.Value))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", what, err)
	}
	p.nextToken()
	return v, nil
}

// errBadLength marks a /Length that does not land on endstream.
var errBadLength = errors.New("stream length does not match data")

// parseStream reads the data after the "stream" keyword. /Length is
// trusted when it lands on endstream; otherwise the data runs up to the
// next endstream keyword.
func (p *Parser) parseStream(dict Dict) (*Stream, error) {
	if err := p.lexer.SkipStreamEOL(); err != nil {
		return nil, fmt.Errorf("stream keyword: %w", err)
	}
	start := p.lexer.Pos()

	data, err := p.readStreamData(dict)
	if err != nil {
		if err := p.lexer.Seek(start); err != nil {
			return nil, err
		}
		end := p.lexer.IndexFrom([]byte("endstream"))
		if end < 0 {
			return nil, fmt.Errorf("stream without endstream: %w", err)
		}
		data, _ = p.lexer.ReadBytes(end - int(start))
		data = trimEOL(data)
		if _, err := p.lexer.NextToken(); err != nil {
			return nil, err
		}
	}

	// The lexer is past endstream; resume normal lookahead.
	p.currentToken = nil
	p.peekToken = nil
	p.nextToken()
	p.nextToken()

	return &Stream{Dict: dict, Data: data}, nil
}

// readStreamData reads /Length bytes and the endstream keyword after them.
func (p *Parser) readStreamData(dict Dict) ([]byte, error) {
	length, err := p.streamLength(dict.Get("Length"))
	if err != nil {
		return nil, err
	}
	data, err := p.lexer.ReadBytes(length)
	if err != nil {
		return nil, err
	}
	tok, err := p.lexer.NextToken()
	if err != nil || !p.isKeyword(tok, "endstream") {
		return nil, errBadLength
	}
	return data, nil
}

func (p *Parser) streamLength(obj Object) (int, error) {
	switch v := obj.(type) {
	case Int:
		if v < 0 {
			return 0, fmt.Errorf("invalid stream length %d", v)
		}
		return int(v), nil
	case IndirectRef:
		if p.resolver == nil {
			return 0, fmt.Errorf("stream length %s needs a reference resolver", v)
		}
		resolved, err := p.resolver.ResolveReference(v)
		if err != nil {
			return 0, fmt.Errorf("stream length %s: %w", v, err)
		}
		return p.streamLength(resolved)
	case nil:
		return 0, fmt.Errorf("stream dictionary missing /Length")
	}
	return 0, fmt.Errorf("invalid type for stream length: %T", obj)
}

// trimEOL drops the end-of-line marker that precedes endstream.
func trimEOL(data []byte) []byte {
	n := len(data)
	if n > 0 && data[n-1] == '\n' {
		n--
	}
	if n > 0 && data[n-1] == '\r' {
		n--
	}
	return data[:n]
}
