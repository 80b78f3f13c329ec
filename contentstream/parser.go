package contentstream

import (
	"strconv"

	"github.com/tsawler/pdfcore/core"
)

// DefaultMaxNesting bounds how deeply operand arrays and dictionaries
// may nest. Deeper structures are dropped.
const DefaultMaxNesting = 64

// Operation represents a single content stream operation consisting of an
// operator and its operands. Operands are PDF objects that precede the operator.
type Operation struct {
	Operator string        // The operator (e.g., "Tj", "Tm", "q")
	Operands []core.Object // The operands
}

// Parser parses PDF content streams into a sequence of operations.
// Malformed input never stops the parse: unreadable tokens are skipped
// and counted.
type Parser struct {
	lexer      *core.Lexer
	maxNesting int
	skipped    int
}

// NewParser creates a new content stream parser for the given data.
func NewParser(data []byte) *Parser {
	return &Parser{
		lexer:      core.NewLexer(data),
		maxNesting: DefaultMaxNesting,
	}
}

// Parse is shorthand for NewParser(data).Parse()
func Parse(data []byte) []Operation {
	return NewParser(data).Parse()
}

// SetMaxNesting overrides the nesting bound. Values below 1 are ignored.
func (p *Parser) SetMaxNesting(n int) {
	if n > 0 {
		p.maxNesting = n
	}
}

// Skipped returns how many tokens or structures were dropped
func (p *Parser) Skipped() int {
	return p.skipped
}

// Parse parses the content stream and returns all operations in order.
// Operands left without an operator at the end are discarded.
func (p *Parser) Parse() []Operation {
	var ops []Operation
	var operands []core.Object

	for {
		tok, err := p.lexer.NextToken()
		if err != nil {
			p.skipped++
			continue
		}

		switch tok.Type {
		case core.TokenEOF:
			return ops

		case core.TokenKeyword:
			switch {
			case looksNumeric(tok.Value):
				operands = append(operands, core.Int(0))
			case tok.Is("{"), tok.Is("}"):
				p.skipped++
			case tok.Is("BI"):
				p.skipInlineImage()
				operands = operands[:0]
			default:
				args := make([]core.Object, len(operands))
				copy(args, operands)
				ops = append(ops, Operation{Operator: string(tok.Value), Operands: args})
				operands = operands[:0]
			}

		case core.TokenArrayEnd, core.TokenDictEnd:
			p.skipped++

		default:
			if obj := p.operand(tok, 0); obj != nil {
				operands = append(operands, obj)
			}
		}
	}
}

// operand converts a token that starts a value. It returns nil when the
// value was dropped.
func (p *Parser) operand(tok *core.Token, depth int) core.Object {
	switch tok.Type {
	case core.TokenInteger:
		if n, err := strconv.ParseInt(string(tok.Value), 10, 64); err == nil {
			return core.Int(n)
		}
		return core.Int(0)
	case core.TokenReal:
		if f, err := strconv.ParseFloat(string(tok.Value), 64); err == nil {
			return core.Real(f)
		}
		return core.Int(0)
	case core.TokenString:
		return core.String(tok.Value)
	case core.TokenHexString:
		return core.HexString(tok.Value)
	case core.TokenName:
		return core.Name(tok.Value)
	case core.TokenBoolean:
		return core.Bool(string(tok.Value) == "true")
	case core.TokenNull:
		return core.Null{}
	case core.TokenArrayStart:
		if depth >= p.maxNesting {
			p.skipNested(1)
			return nil
		}
		return p.array(depth + 1)
	case core.TokenDictStart:
		if depth >= p.maxNesting {
			p.skipNested(1)
			return nil
		}
		return p.dict(depth + 1)
	case core.TokenKeyword:
		if looksNumeric(tok.Value) {
			return core.Int(0)
		}
	}
	p.skipped++
	return nil
}

// array collects elements up to the closing bracket or end of input
func (p *Parser) array(depth int) core.Array {
	arr := core.Array{}
	for {
		tok, err := p.lexer.NextToken()
		if err != nil {
			p.skipped++
			continue
		}
		switch tok.Type {
		case core.TokenEOF, core.TokenArrayEnd:
			return arr
		case core.TokenDictEnd:
			p.skipped++
			continue
		}
		if obj := p.operand(tok, depth); obj != nil {
			arr = append(arr, obj)
		}
	}
}

// dict collects key/value pairs up to >> or end of input. Entries whose
// key is not a name are dropped.
func (p *Parser) dict(depth int) core.Dict {
	dict := core.Dict{}
	for {
		tok, err := p.lexer.NextToken()
		if err != nil {
			p.skipped++
			continue
		}
		switch tok.Type {
		case core.TokenEOF, core.TokenDictEnd:
			return dict
		case core.TokenName:
		default:
			p.skipped++
			continue
		}
		key := string(tok.Value)

		valTok, err := p.lexer.NextToken()
		if err != nil {
			p.skipped++
			continue
		}
		switch valTok.Type {
		case core.TokenEOF, core.TokenDictEnd:
			dict[key] = core.Null{}
			return dict
		}
		if obj := p.operand(valTok, depth); obj != nil {
			dict[key] = obj
		}
	}
}

// skipNested consumes tokens until open brackets have been closed
func (p *Parser) skipNested(open int) {
	p.skipped++
	for open > 0 {
		tok, err := p.lexer.NextToken()
		if err != nil {
			continue
		}
		switch tok.Type {
		case core.TokenEOF:
			return
		case core.TokenArrayStart, core.TokenDictStart:
			open++
		case core.TokenArrayEnd, core.TokenDictEnd:
			open--
		}
	}
}

// skipInlineImage moves past "BI <dict> ID <data> EI". The image data
// is binary, so EI is found by scanning bytes for a whitespace-delimited
// "EI" instead of tokenizing.
func (p *Parser) skipInlineImage() {
	for {
		tok, err := p.lexer.NextToken()
		if err != nil {
			continue
		}
		if tok.Type == core.TokenEOF {
			return
		}
		if tok.Is("ID") {
			break
		}
		if tok.Is("EI") {
			return
		}
	}

	data := p.lexer.Data()
	start := p.lexer.Pos() + 1
	for i := start; i+1 < len(data); i++ {
		if data[i] != 'E' || data[i+1] != 'I' {
			continue
		}
		if i > start && !isSpace(data[i-1]) {
			continue
		}
		if i+2 < len(data) && !isSpace(data[i+2]) {
			continue
		}
		p.lexer.SetPos(i + 2)
		return
	}
	p.lexer.SetPos(len(data))
}

// looksNumeric reports whether a keyword is a number that failed to parse
func looksNumeric(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	c := b[0]
	return (c >= '0' && c <= '9') || c == '+' || c == '-' || c == '.'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == 0
}
