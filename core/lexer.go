package core

import (
	"fmt"
	"strconv"
)

// TokenType represents the type of token
type TokenType int

const (
	TokenEOF        TokenType = iota
	TokenKeyword              // obj, endobj, stream, R, or any unparseable run
	TokenInteger              // 123
	TokenReal                 // 3.14
	TokenString               // (hello)
	TokenHexString            // <48656C6C6F>
	TokenName                 // /Type
	TokenBoolean              // true, false
	TokenNull                 // null
	TokenArrayStart           // [
	TokenArrayEnd             // ]
	TokenDictStart            // <<
	TokenDictEnd              // >>
)

var tokenTypeNames = map[TokenType]string{
	TokenEOF:        "EOF",
	TokenKeyword:    "Keyword",
	TokenInteger:    "Integer",
	TokenReal:       "Real",
	TokenString:     "String",
	TokenHexString:  "HexString",
	TokenName:       "Name",
	TokenBoolean:    "Boolean",
	TokenNull:       "Null",
	TokenArrayStart: "ArrayStart",
	TokenArrayEnd:   "ArrayEnd",
	TokenDictStart:  "DictStart",
	TokenDictEnd:    "DictEnd",
}

func (t TokenType) String() string {
	if s, ok := tokenTypeNames[t]; ok {
		return s
	}
	return "Unknown"
}

// Token represents a lexical token. Value holds the decoded bytes for
// strings and names and the literal text for everything else.
type Token struct {
	Type  TokenType
	Value []byte
	Pos   int
}

// Is reports whether the token is the given keyword
func (t *Token) Is(keyword string) bool {
	return t.Type == TokenKeyword && string(t.Value) == keyword
}

// Lexer tokenizes an in-memory PDF buffer. The cursor never moves past
// len(data), so every method is safe on truncated input.
type Lexer struct {
	data []byte
	pos  int
}

// NewLexer creates a new lexer positioned at the start of data
func NewLexer(data []byte) *Lexer {
	return &Lexer{data: data}
}

// NewLexerAt creates a lexer positioned at offset
func NewLexerAt(data []byte, offset int) *Lexer {
	l := &Lexer{data: data}
	l.SetPos(offset)
	return l
}

// Pos returns the current cursor position
func (l *Lexer) Pos() int { return l.pos }

// SetPos moves the cursor, clamping it to the buffer
func (l *Lexer) SetPos(pos int) {
	switch {
	case pos < 0:
		l.pos = 0
	case pos > len(l.data):
		l.pos = len(l.data)
	default:
		l.pos = pos
	}
}

// Data returns the underlying buffer
func (l *Lexer) Data() []byte { return l.data }

// AtEOF reports whether the cursor has reached the end of the buffer
func (l *Lexer) AtEOF() bool { return l.pos >= len(l.data) }

// NextToken returns the next token from the input
func (l *Lexer) NextToken() (*Token, error) {
	l.SkipWhitespace()

	if l.pos >= len(l.data) {
		return &Token{Type: TokenEOF, Pos: l.pos}, nil
	}

	start := l.pos
	b := l.data[l.pos]

	switch b {
	case '[':
		l.pos++
		return &Token{Type: TokenArrayStart, Value: []byte{'['}, Pos: start}, nil
	case ']':
		l.pos++
		return &Token{Type: TokenArrayEnd, Value: []byte{']'}, Pos: start}, nil
	case '{', '}':
		l.pos++
		return &Token{Type: TokenKeyword, Value: []byte{b}, Pos: start}, nil
	case '(':
		return l.readString()
	case '<':
		if l.peekAt(1) == '<' {
			l.pos += 2
			return &Token{Type: TokenDictStart, Value: []byte("<<"), Pos: start}, nil
		}
		return l.readHexString()
	case '>':
		if l.peekAt(1) == '>' {
			l.pos += 2
			return &Token{Type: TokenDictEnd, Value: []byte(">>"), Pos: start}, nil
		}
		l.pos++
		return nil, fmt.Errorf("unexpected '>' at position %d: %w", start, ErrMalformedObject)
	case ')':
		l.pos++
		return nil, fmt.Errorf("unexpected ')' at position %d: %w", start, ErrMalformedObject)
	case '/':
		return l.readName()
	}

	if isDigit(b) || b == '-' || b == '+' || b == '.' {
		return l.readNumber()
	}

	return l.readKeyword()
}

// peekAt returns the byte at pos+offset or 0 past the end
func (l *Lexer) peekAt(offset int) byte {
	if l.pos+offset < len(l.data) {
		return l.data[l.pos+offset]
	}
	return 0
}

// SkipWhitespace skips whitespace and comments
func (l *Lexer) SkipWhitespace() {
	for l.pos < len(l.data) {
		b := l.data[l.pos]
		if isWhitespace(b) {
			l.pos++
			continue
		}
		if b == '%' {
			for l.pos < len(l.data) && l.data[l.pos] != '\r' && l.data[l.pos] != '\n' {
				l.pos++
			}
			continue
		}
		return
	}
}

// readString reads a literal string, balancing nested parentheses.
// An unterminated string ends at the end of the buffer.
func (l *Lexer) readString() (*Token, error) {
	start := l.pos
	l.pos++ // (

	var buf []byte
	depth := 1

	for l.pos < len(l.data) {
		b := l.data[l.pos]
		l.pos++

		switch b {
		case '(':
			depth++
			buf = append(buf, b)
		case ')':
			depth--
			if depth == 0 {
				return &Token{Type: TokenString, Value: buf, Pos: start}, nil
			}
			buf = append(buf, b)
		case '\\':
			buf = l.readEscape(buf)
		default:
			buf = append(buf, b)
		}
	}

	return &Token{Type: TokenString, Value: buf, Pos: start}, nil
}

// readEscape handles the byte sequence following a backslash
func (l *Lexer) readEscape(buf []byte) []byte {
	if l.pos >= len(l.data) {
		return buf
	}
	b := l.data[l.pos]
	l.pos++

	switch b {
	case 'n':
		return append(buf, '\n')
	case 'r':
		return append(buf, '\r')
	case 't':
		return append(buf, '\t')
	case 'b':
		return append(buf, '\b')
	case 'f':
		return append(buf, '\f')
	case '(', ')', '\\':
		return append(buf, b)
	case '\r':
		// line continuation, CRLF counts as one
		if l.pos < len(l.data) && l.data[l.pos] == '\n' {
			l.pos++
		}
		return buf
	case '\n':
		return buf
	}

	if isOctalDigit(b) {
		val := int(b - '0')
		for i := 0; i < 2 && l.pos < len(l.data) && isOctalDigit(l.data[l.pos]); i++ {
			val = val*8 + int(l.data[l.pos]-'0')
			l.pos++
		}
		return append(buf, byte(val&0xff))
	}

	return append(buf, b)
}

// readHexString reads <...>, skipping whitespace and padding an odd
// final nibble with zero.
func (l *Lexer) readHexString() (*Token, error) {
	start := l.pos
	l.pos++ // <

	var digits []byte
	for l.pos < len(l.data) {
		b := l.data[l.pos]
		l.pos++
		if b == '>' {
			break
		}
		if isWhitespace(b) {
			continue
		}
		if !isHexDigit(b) {
			return nil, fmt.Errorf("invalid hex character %q at position %d: %w", b, l.pos-1, ErrInvalidHexChar)
		}
		digits = append(digits, b)
	}

	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}

	out := make([]byte, len(digits)/2)
	for i := range out {
		out[i] = hexValue(digits[2*i])<<4 | hexValue(digits[2*i+1])
	}

	return &Token{Type: TokenHexString, Value: out, Pos: start}, nil
}

// readName reads /Name and decodes #XX escapes
func (l *Lexer) readName() (*Token, error) {
	start := l.pos
	l.pos++ // /

	var buf []byte
	for l.pos < len(l.data) {
		b := l.data[l.pos]
		if isWhitespace(b) || isDelimiter(b) {
			break
		}
		l.pos++
		if b == '#' && l.pos+1 < len(l.data) && isHexDigit(l.data[l.pos]) && isHexDigit(l.data[l.pos+1]) {
			buf = append(buf, hexValue(l.data[l.pos])<<4|hexValue(l.data[l.pos+1]))
			l.pos += 2
			continue
		}
		buf = append(buf, b)
	}

	return &Token{Type: TokenName, Value: buf, Pos: start}, nil
}

// readNumber reads a numeric run. Text that does not parse as a number
// comes back as a keyword so the caller can decide what to do with it.
func (l *Lexer) readNumber() (*Token, error) {
	start := l.pos
	run := l.readRegular()

	hasDot := false
	for _, b := range run {
		if b == '.' {
			hasDot = true
			break
		}
	}

	if hasDot {
		if _, err := strconv.ParseFloat(string(run), 64); err == nil {
			return &Token{Type: TokenReal, Value: run, Pos: start}, nil
		}
	} else if _, err := strconv.ParseInt(string(run), 10, 64); err == nil {
		return &Token{Type: TokenInteger, Value: run, Pos: start}, nil
	}

	return &Token{Type: TokenKeyword, Value: run, Pos: start}, nil
}

// readKeyword reads a run of regular characters
func (l *Lexer) readKeyword() (*Token, error) {
	start := l.pos
	run := l.readRegular()
	if len(run) == 0 {
		// A lone delimiter we have no token for; consume it so the
		// caller always makes progress.
		l.pos++
		return &Token{Type: TokenKeyword, Value: l.data[start:l.pos], Pos: start}, nil
	}

	switch string(run) {
	case "true", "false":
		return &Token{Type: TokenBoolean, Value: run, Pos: start}, nil
	case "null":
		return &Token{Type: TokenNull, Value: run, Pos: start}, nil
	}
	return &Token{Type: TokenKeyword, Value: run, Pos: start}, nil
}

func (l *Lexer) readRegular() []byte {
	start := l.pos
	for l.pos < len(l.data) {
		b := l.data[l.pos]
		if isWhitespace(b) || isDelimiter(b) {
			break
		}
		l.pos++
	}
	return l.data[start:l.pos]
}

func isWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == 0
}

func isDelimiter(b byte) bool {
	switch b {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isOctalDigit(b byte) bool {
	return b >= '0' && b <= '7'
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func hexValue(b byte) byte {
	switch {
	case b >= '0' && b <= '9':
		return b - '0'
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10
	}
	return 0
}
