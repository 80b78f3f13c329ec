package core

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
)

// XRefEntryType says where an object lives
type XRefEntryType int

const (
	XRefFree       XRefEntryType = iota // no object
	XRefInUse                           // uncompressed, at a byte offset
	XRefCompressed                      // inside an object stream
)

func (t XRefEntryType) String() string {
	switch t {
	case XRefFree:
		return "free"
	case XRefInUse:
		return "in-use"
	case XRefCompressed:
		return "compressed"
	}
	return "unknown"
}

// XRefEntry represents a single cross-reference entry
type XRefEntry struct {
	Type         XRefEntryType
	Offset       int64 // byte offset of an in-use object
	Generation   int
	StreamNumber int // object stream holding a compressed object
	StreamIndex  int // position of the object within that stream
}

// XRefTable maps object numbers to entries and carries the trailer.
// It is used both for one parsed section and for the merged result of
// a whole Prev chain.
type XRefTable struct {
	Entries map[int]XRefEntry
	Trailer Dict
}

// NewXRefTable creates a new empty XRef table
func NewXRefTable() *XRefTable {
	return &XRefTable{
		Entries: make(map[int]XRefEntry),
		Trailer: make(Dict),
	}
}

// Get retrieves an XRef entry by object number
func (x *XRefTable) Get(objNum int) (XRefEntry, bool) {
	entry, ok := x.Entries[objNum]
	return entry, ok
}

// Add records an entry unless the object number already has one.
// Sections are read newest first, so the first entry seen wins.
func (x *XRefTable) Add(objNum int, entry XRefEntry) bool {
	if _, ok := x.Entries[objNum]; ok {
		return false
	}
	x.Entries[objNum] = entry
	return true
}

// Size returns the number of entries in the table
func (x *XRefTable) Size() int {
	return len(x.Entries)
}

// ObjectNumbers returns the object numbers in ascending order
func (x *XRefTable) ObjectNumbers() []int {
	nums := make([]int, 0, len(x.Entries))
	for n := range x.Entries {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}

// Merge folds an older section into x. Entries and trailer keys that x
// already has are kept.
func (x *XRefTable) Merge(older *XRefTable) {
	for objNum, entry := range older.Entries {
		x.Add(objNum, entry)
	}
	x.MergeTrailer(older.Trailer)
}

// MergeTrailer copies keys from an older trailer that x does not have
func (x *XRefTable) MergeTrailer(older Dict) {
	for k, v := range older {
		if !x.Trailer.Has(k) {
			x.Trailer[k] = v
		}
	}
}

// xrefStreamTrailerKeys are lifted from an xref stream's dictionary
// into its section trailer.
var xrefStreamTrailerKeys = []string{"Root", "Info", "ID", "Size", "Encrypt", "Prev"}

// XRefParser parses cross-reference sections from an in-memory file
type XRefParser struct {
	data       []byte
	maxNesting int
}

// NewXRefParser creates a new XRef parser over the whole file
func NewXRefParser(data []byte) *XRefParser {
	return &XRefParser{data: data, maxNesting: DefaultMaxNesting}
}

// SetMaxNesting bounds object nesting while parsing trailers and xref
// stream dictionaries.
func (x *XRefParser) SetMaxNesting(n int) {
	if n > 0 {
		x.maxNesting = n
	}
}

var (
	eofMarker       = []byte("%%EOF")
	startxrefMarker = []byte("startxref")
	xrefKeyword     = []byte("xref")
	trailerKeyword  = []byte("trailer")
)

// FindStartXRef locates the offset recorded after the last startxref
// that precedes the last %%EOF.
func (x *XRefParser) FindStartXRef() (int64, error) {
	eof := bytes.LastIndex(x.data, eofMarker)
	if eof < 0 {
		return 0, fmt.Errorf("no %%%%EOF marker: %w", ErrMissingTrailer)
	}
	sx := bytes.LastIndex(x.data[:eof], startxrefMarker)
	if sx < 0 {
		return 0, fmt.Errorf("no startxref before %%%%EOF: %w", ErrMissingTrailer)
	}

	fields := bytes.Fields(x.data[sx+len(startxrefMarker) : eof])
	if len(fields) == 0 {
		return 0, fmt.Errorf("startxref has no offset: %w", ErrMissingXRef)
	}
	offset, err := strconv.ParseInt(string(fields[0]), 10, 64)
	if err != nil || offset < 0 || offset >= int64(len(x.data)) {
		return 0, fmt.Errorf("invalid startxref offset %q: %w", fields[0], ErrMissingXRef)
	}
	return offset, nil
}

// ParseXRef parses one section at offset: a classic table when the
// bytes there read "xref", an xref stream otherwise.
func (x *XRefParser) ParseXRef(offset int64) (*XRefTable, error) {
	if offset < 0 || offset >= int64(len(x.data)) {
		return nil, fmt.Errorf("xref offset %d outside file: %w", offset, ErrMissingXRef)
	}
	pos := int(offset)
	for pos < len(x.data) && isWhitespace(x.data[pos]) {
		pos++
	}
	if bytes.HasPrefix(x.data[pos:], xrefKeyword) {
		return x.parseTable(pos)
	}
	return x.parseStream(pos)
}

// parseTable reads subsections of fixed 20-byte records and the
// trailer dictionary that follows them.
func (x *XRefParser) parseTable(offset int) (*XRefTable, error) {
	table := NewXRefTable()
	lex := NewLexerAt(x.data, offset+len(xrefKeyword))

	for {
		lex.SkipWhitespace()
		if lex.AtEOF() || bytes.HasPrefix(x.data[lex.Pos():], trailerKeyword) {
			break
		}

		startTok, err := lex.NextToken()
		if err != nil || startTok.Type != TokenInteger {
			break
		}
		countTok, err := lex.NextToken()
		if err != nil || countTok.Type != TokenInteger {
			break
		}
		start, _ := strconv.Atoi(string(startTok.Value))
		count, _ := strconv.Atoi(string(countTok.Value))

		for i := 0; i < count; i++ {
			lex.SkipWhitespace()
			entry, next, ok := x.readRecord(lex.Pos())
			if !ok {
				break
			}
			lex.SetPos(next)
			table.Add(start+i, entry)
		}
	}

	lex.SkipWhitespace()
	tok, err := lex.NextToken()
	if err != nil || !tok.Is("trailer") {
		return nil, fmt.Errorf("xref table at %d has no trailer: %w", offset, ErrMissingTrailer)
	}

	parser := &Parser{lexer: lex, maxNesting: x.maxNesting}
	obj, err := parser.ParseObject()
	if err != nil {
		return nil, fmt.Errorf("xref table at %d: trailer: %v: %w", offset, err, ErrMissingTrailer)
	}
	trailer, ok := obj.(Dict)
	if !ok {
		return nil, fmt.Errorf("xref table at %d: trailer is %s: %w", offset, obj.Type(), ErrMissingTrailer)
	}
	table.Trailer = trailer

	return table, nil
}

// readRecord decodes one "oooooooooo ggggg n" record at pos. The fixed
// 20-byte layout is tried first. Malformed records fall back to
// whitespace-separated fields.
func (x *XRefParser) readRecord(pos int) (XRefEntry, int, bool) {
	if pos+18 <= len(x.data) {
		rec := x.data[pos:]
		off, errOff := strconv.ParseInt(string(bytes.TrimSpace(rec[0:10])), 10, 64)
		gen, errGen := strconv.Atoi(string(bytes.TrimSpace(rec[11:16])))
		flag := rec[17]
		if errOff == nil && errGen == nil && (flag == 'n' || flag == 'f') {
			// The two end-of-line bytes are skipped as whitespace by the
			// caller, which also copes with one-byte EOLs.
			return recordEntry(off, gen, flag), pos + 18, true
		}
	}

	lex := NewLexerAt(x.data, pos)
	offTok, err := lex.NextToken()
	if err != nil || offTok.Type != TokenInteger {
		return XRefEntry{}, pos, false
	}
	genTok, err := lex.NextToken()
	if err != nil || genTok.Type != TokenInteger {
		return XRefEntry{}, pos, false
	}
	flagTok, err := lex.NextToken()
	if err != nil || !(flagTok.Is("n") || flagTok.Is("f")) {
		return XRefEntry{}, pos, false
	}
	off, _ := strconv.ParseInt(string(offTok.Value), 10, 64)
	gen, _ := strconv.Atoi(string(genTok.Value))
	return recordEntry(off, gen, flagTok.Value[0]), lex.Pos(), true
}

func recordEntry(offset int64, gen int, flag byte) XRefEntry {
	if flag == 'n' {
		return XRefEntry{Type: XRefInUse, Offset: offset, Generation: gen}
	}
	return XRefEntry{Type: XRefFree, Generation: gen}
}

// parseStream reads a cross-reference stream object at offset
func (x *XRefParser) parseStream(offset int) (*XRefTable, error) {
	parser := NewParserAt(x.data, offset)
	parser.SetMaxNesting(x.maxNesting)
	ind, err := parser.ParseIndirectObject()
	if err != nil {
		return nil, fmt.Errorf("no xref table or stream at %d: %v: %w", offset, err, ErrMissingXRef)
	}
	stream, ok := ind.Object.(*Stream)
	if !ok {
		return nil, fmt.Errorf("object at %d is %s, not an xref stream: %w", offset, ind.Object.Type(), ErrMissingXRef)
	}
	if typ, ok := stream.Dict.GetName("Type"); ok && typ != "XRef" {
		return nil, fmt.Errorf("stream at %d has type %s, not XRef: %w", offset, typ, ErrMissingXRef)
	}

	data, err := stream.Decode()
	if err != nil {
		return nil, fmt.Errorf("xref stream at %d: %w", offset, err)
	}

	widths := [3]int{1, 2, 1}
	if w, ok := stream.Dict.GetArray("W"); ok {
		if len(w) < 3 {
			return nil, fmt.Errorf("xref stream at %d: W has %d entries: %w", offset, len(w), ErrMissingXRef)
		}
		for i := 0; i < 3; i++ {
			n, ok := w.GetInt(i)
			if !ok || n < 0 || n > 8 {
				return nil, fmt.Errorf("xref stream at %d: bad W[%d]: %w", offset, i, ErrMissingXRef)
			}
			widths[i] = int(n)
		}
	}
	entrySize := widths[0] + widths[1] + widths[2]
	if entrySize == 0 {
		return nil, fmt.Errorf("xref stream at %d: zero-width entries: %w", offset, ErrMissingXRef)
	}

	size, _ := stream.Dict.GetInt("Size")
	index := Array{Int(0), size}
	if idx, ok := stream.Dict.GetArray("Index"); ok {
		index = idx
	}

	table := NewXRefTable()
	pos := 0
	for i := 0; i+1 < len(index); i += 2 {
		start, ok1 := index.GetInt(i)
		count, ok2 := index.GetInt(i + 1)
		if !ok1 || !ok2 {
			continue
		}
		for j := 0; j < int(count); j++ {
			if pos+entrySize > len(data) {
				break
			}
			f0 := int64(1)
			if widths[0] > 0 {
				f0 = readBigEndian(data[pos : pos+widths[0]])
			}
			f1 := readBigEndian(data[pos+widths[0] : pos+widths[0]+widths[1]])
			f2 := readBigEndian(data[pos+widths[0]+widths[1] : pos+entrySize])
			pos += entrySize

			objNum := int(start) + j
			switch f0 {
			case 0:
				table.Add(objNum, XRefEntry{Type: XRefFree, Generation: int(f2)})
			case 1:
				table.Add(objNum, XRefEntry{Type: XRefInUse, Offset: f1, Generation: int(f2)})
			case 2:
				table.Add(objNum, XRefEntry{Type: XRefCompressed, StreamNumber: int(f1), StreamIndex: int(f2)})
			}
		}
	}

	for _, key := range xrefStreamTrailerKeys {
		if v, ok := stream.Dict[key]; ok {
			table.Trailer[key] = v
		}
	}

	return table, nil
}

func readBigEndian(b []byte) int64 {
	var v int64
	for _, c := range b {
		v = v<<8 | int64(c)
	}
	return v
}
