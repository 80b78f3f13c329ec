package core

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// DefaultMaxNesting bounds how deeply arrays and dictionaries may nest
// before the parser gives up on an object.
const DefaultMaxNesting = 256

// ReferenceResolver is an interface for resolving indirect references.
// The parser uses it to look up indirect stream lengths.
type ReferenceResolver interface {
	ResolveReference(ref IndirectRef) (Object, error)
}

// Parser builds PDF objects from the token stream of a Lexer.
// Lookahead is done by checkpointing the lexer cursor and rolling it
// back, so the parser holds no buffered tokens between calls.
type Parser struct {
	lexer      *Lexer
	resolver   ReferenceResolver
	maxNesting int
}

// NewParser creates a parser positioned at the start of data
func NewParser(data []byte) *Parser {
	return NewParserAt(data, 0)
}

// NewParserAt creates a parser positioned at offset
func NewParserAt(data []byte, offset int) *Parser {
	return &Parser{
		lexer:      NewLexerAt(data, offset),
		maxNesting: DefaultMaxNesting,
	}
}

// SetReferenceResolver sets the resolver used for indirect /Length values
func (p *Parser) SetReferenceResolver(resolver ReferenceResolver) {
	p.resolver = resolver
}

// SetMaxNesting overrides the nesting bound. Values below 1 are ignored.
func (p *Parser) SetMaxNesting(n int) {
	if n > 0 {
		p.maxNesting = n
	}
}

// Pos returns the parser's byte offset
func (p *Parser) Pos() int { return p.lexer.Pos() }

// SetPos moves the parser to a byte offset
func (p *Parser) SetPos(pos int) { p.lexer.SetPos(pos) }

// ParseObject parses the next object. It returns io.EOF when no input
// remains.
func (p *Parser) ParseObject() (Object, error) {
	tok, err := p.lexer.NextToken()
	if err != nil {
		return nil, err
	}
	if tok.Type == TokenEOF {
		return nil, io.EOF
	}
	return p.parseValue(tok, 0)
}

func (p *Parser) parseValue(tok *Token, depth int) (Object, error) {
	if depth > p.maxNesting {
		return nil, fmt.Errorf("nesting deeper than %d at position %d: %w", p.maxNesting, tok.Pos, ErrMalformedObject)
	}

	switch tok.Type {
	case TokenInteger:
		return p.parseNumber(tok)

	case TokenReal:
		val, err := strconv.ParseFloat(string(tok.Value), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid real %q: %w", tok.Value, ErrMalformedObject)
		}
		return Real(val), nil

	case TokenString:
		return String(tok.Value), nil

	case TokenHexString:
		return HexString(tok.Value), nil

	case TokenName:
		return Name(tok.Value), nil

	case TokenBoolean:
		return Bool(string(tok.Value) == "true"), nil

	case TokenNull:
		return Null{}, nil

	case TokenArrayStart:
		return p.parseArray(depth)

	case TokenDictStart:
		return p.parseDict(depth)

	case TokenEOF:
		return nil, fmt.Errorf("unexpected end of input: %w", ErrMalformedObject)

	default:
		return nil, fmt.Errorf("unexpected token %s %q at position %d: %w", tok.Type, tok.Value, tok.Pos, ErrMalformedObject)
	}
}

// parseNumber handles an integer that may start an "N G R" reference.
// The cursor is rolled back unless exactly that pattern follows.
func (p *Parser) parseNumber(tok *Token) (Object, error) {
	num, err := strconv.ParseInt(string(tok.Value), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid integer %q: %w", tok.Value, ErrMalformedObject)
	}

	checkpoint := p.lexer.Pos()
	if ref, ok := p.tryReference(num); ok {
		return ref, nil
	}
	p.lexer.SetPos(checkpoint)

	return Int(num), nil
}

func (p *Parser) tryReference(num int64) (IndirectRef, bool) {
	if num < 0 {
		return IndirectRef{}, false
	}
	genTok, err := p.lexer.NextToken()
	if err != nil || genTok.Type != TokenInteger {
		return IndirectRef{}, false
	}
	gen, err := strconv.ParseInt(string(genTok.Value), 10, 64)
	if err != nil || gen < 0 {
		return IndirectRef{}, false
	}
	rTok, err := p.lexer.NextToken()
	if err != nil || !rTok.Is("R") {
		return IndirectRef{}, false
	}
	return IndirectRef{Number: int(num), Generation: int(gen)}, true
}

func (p *Parser) parseArray(depth int) (Object, error) {
	arr := Array{}
	for {
		tok, err := p.lexer.NextToken()
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case TokenArrayEnd:
			return arr, nil
		case TokenEOF:
			return nil, fmt.Errorf("unexpected end of input in array: %w", ErrMalformedObject)
		}

		obj, err := p.parseValue(tok, depth+1)
		if err != nil {
			return nil, err
		}
		arr = append(arr, obj)
	}
}

func (p *Parser) parseDict(depth int) (Object, error) {
	dict := Dict{}
	for {
		tok, err := p.lexer.NextToken()
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case TokenDictEnd:
			return dict, nil
		case TokenEOF:
			return nil, fmt.Errorf("unexpected end of input in dictionary: %w", ErrMalformedObject)
		case TokenName:
		default:
			return nil, fmt.Errorf("expected name key in dictionary, got %s at position %d: %w", tok.Type, tok.Pos, ErrMalformedObject)
		}
		key := string(tok.Value)

		valTok, err := p.lexer.NextToken()
		if err != nil {
			return nil, err
		}
		if valTok.Type == TokenDictEnd {
			// key without a value
			dict[key] = Null{}
			return dict, nil
		}
		if valTok.Type == TokenEOF {
			return nil, fmt.Errorf("unexpected end of input in dictionary: %w", ErrMalformedObject)
		}

		val, err := p.parseValue(valTok, depth+1)
		if err != nil {
			return nil, err
		}
		dict[key] = val
	}
}

// ParseIndirectObject parses "N G obj <value> endobj". A dictionary
// followed by the stream keyword becomes a *Stream. A missing endobj is
// tolerated.
func (p *Parser) ParseIndirectObject() (*IndirectObject, error) {
	numTok, err := p.lexer.NextToken()
	if err != nil {
		return nil, err
	}
	if numTok.Type != TokenInteger {
		return nil, fmt.Errorf("expected object number at position %d, got %s: %w", numTok.Pos, numTok.Type, ErrMalformedObject)
	}
	genTok, err := p.lexer.NextToken()
	if err != nil {
		return nil, err
	}
	if genTok.Type != TokenInteger {
		return nil, fmt.Errorf("expected generation number at position %d, got %s: %w", genTok.Pos, genTok.Type, ErrMalformedObject)
	}
	objTok, err := p.lexer.NextToken()
	if err != nil {
		return nil, err
	}
	if !objTok.Is("obj") {
		return nil, fmt.Errorf("expected 'obj' at position %d, got %q: %w", objTok.Pos, objTok.Value, ErrMalformedObject)
	}

	num, _ := strconv.Atoi(string(numTok.Value))
	gen, _ := strconv.Atoi(string(genTok.Value))

	obj, err := p.ParseObject()
	if err == io.EOF {
		return nil, fmt.Errorf("object %d %d has no body: %w", num, gen, ErrMalformedObject)
	}
	if err != nil {
		return nil, fmt.Errorf("object %d %d: %w", num, gen, err)
	}

	checkpoint := p.lexer.Pos()
	next, err := p.lexer.NextToken()
	if err == nil && next.Is("stream") {
		dict, ok := obj.(Dict)
		if !ok {
			return nil, fmt.Errorf("object %d %d: stream keyword after %s: %w", num, gen, obj.Type(), ErrMalformedObject)
		}
		stream, err := p.parseStream(dict)
		if err != nil {
			return nil, fmt.Errorf("object %d %d: %w", num, gen, err)
		}
		obj = stream

		checkpoint = p.lexer.Pos()
		next, err = p.lexer.NextToken()
	}
	if err != nil || !next.Is("endobj") {
		p.lexer.SetPos(checkpoint)
	}

	return &IndirectObject{
		Ref:    IndirectRef{Number: num, Generation: gen},
		Object: obj,
	}, nil
}

var endstreamKeyword = []byte("endstream")

// parseStream captures the raw payload following the stream keyword.
// The cursor sits right after "stream" on entry and after "endstream"
// on return.
func (p *Parser) parseStream(dict Dict) (*Stream, error) {
	data := p.lexer.Data()
	start := p.lexer.Pos()
	if start < len(data) && data[start] == '\r' {
		start++
	}
	if start < len(data) && data[start] == '\n' {
		start++
	}

	if length, ok := p.streamLength(dict); ok && length <= len(data)-start {
		end := start + length
		if hasEndstreamAt(data, end) {
			p.lexer.SetPos(end)
			if tok, err := p.lexer.NextToken(); err != nil || !tok.Is("endstream") {
				p.lexer.SetPos(end)
			}
			return &Stream{Dict: dict, Data: data[start:end]}, nil
		}
	}

	// Length missing, unresolved or wrong: find endstream instead.
	idx := bytes.Index(data[start:], endstreamKeyword)
	if idx < 0 {
		return nil, fmt.Errorf("stream at position %d has no endstream: %w", start, ErrMalformedObject)
	}
	end := start + idx
	payload := bytes.TrimRight(data[start:end], "\r\n")
	p.lexer.SetPos(end + len(endstreamKeyword))

	return &Stream{Dict: dict, Data: payload}, nil
}

// streamLength reads /Length directly or through the resolver
func (p *Parser) streamLength(dict Dict) (int, bool) {
	switch v := dict.Get("Length").(type) {
	case Int:
		if v >= 0 {
			return int(v), true
		}
	case IndirectRef:
		if p.resolver == nil {
			return 0, false
		}
		obj, err := p.resolver.ResolveReference(v)
		if err != nil {
			return 0, false
		}
		if n, ok := obj.(Int); ok && n >= 0 {
			return int(n), true
		}
	}
	return 0, false
}

// hasEndstreamAt reports whether endstream follows pos after optional
// whitespace.
func hasEndstreamAt(data []byte, pos int) bool {
	for pos < len(data) && isWhitespace(data[pos]) {
		pos++
	}
	return bytes.HasPrefix(data[pos:], endstreamKeyword)
}
