package core

import (
	"errors"
	"fmt"
	"io"
	"strconv"
)

// ObjectStreamEntry is one object stored in an object stream, in header
// order. Err is set when the body failed to parse; Object is then nil.
type ObjectStreamEntry struct {
	Number int
	Offset int // relative to First
	Object Object
	Err    error
}

// ObjectStream is a decoded /Type /ObjStm stream. The contents are kept
// as an ordered slice so that the index recorded in a compressed xref
// entry addresses the object by position.
type ObjectStream struct {
	n       int
	first   int
	entries []ObjectStreamEntry
}

// NewObjectStream decodes stream and parses every object in it once.
// maxNesting bounds the nesting of each embedded object; pass 0 for the
// default.
func NewObjectStream(stream *Stream, maxNesting int) (*ObjectStream, error) {
	if stream == nil {
		return nil, fmt.Errorf("stream is nil")
	}
	if typ, _ := stream.Dict.GetName("Type"); typ != "ObjStm" {
		return nil, fmt.Errorf("stream is not an object stream, got type %q", typ)
	}

	n, ok := stream.Dict.GetInt("N")
	if !ok || n < 0 {
		return nil, fmt.Errorf("object stream has invalid /N: %v", stream.Dict.Get("N"))
	}
	first, ok := stream.Dict.GetInt("First")
	if !ok || first < 0 {
		return nil, fmt.Errorf("object stream has invalid /First: %v", stream.Dict.Get("First"))
	}

	os := &ObjectStream{n: int(n), first: int(first)}

	decoded, err := stream.Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode object stream: %w", err)
	}
	if os.first > len(decoded) {
		return nil, fmt.Errorf("/First %d exceeds decoded length %d", os.first, len(decoded))
	}

	if err := os.parseHeader(decoded[:os.first]); err != nil {
		return nil, err
	}
	os.parseBodies(decoded[os.first:], maxNesting)

	return os, nil
}

// parseHeader reads the N "objnum offset" pairs. A short header keeps
// the pairs it could read.
func (os *ObjectStream) parseHeader(header []byte) error {
	lex := NewLexer(header)
	os.entries = make([]ObjectStreamEntry, 0, os.n)

	for i := 0; i < os.n; i++ {
		numTok, err := lex.NextToken()
		if err != nil {
			return fmt.Errorf("object stream header pair %d: %w", i, err)
		}
		offTok, err := lex.NextToken()
		if err != nil {
			return fmt.Errorf("object stream header pair %d: %w", i, err)
		}
		if numTok.Type != TokenInteger || offTok.Type != TokenInteger {
			break
		}
		num, _ := strconv.Atoi(string(numTok.Value))
		off, _ := strconv.Atoi(string(offTok.Value))
		os.entries = append(os.entries, ObjectStreamEntry{Number: num, Offset: off})
	}

	if len(os.entries) == 0 && os.n > 0 {
		return fmt.Errorf("object stream header has no object pairs: %w", ErrMalformedObject)
	}
	return nil
}

// parseBodies parses each object from its offset up to the next one
func (os *ObjectStream) parseBodies(body []byte, maxNesting int) {
	for i := range os.entries {
		start := os.entries[i].Offset
		end := len(body)
		if i+1 < len(os.entries) && os.entries[i+1].Offset >= start {
			end = os.entries[i+1].Offset
		}
		if start < 0 || start > len(body) {
			os.entries[i].Err = fmt.Errorf("object %d offset %d outside stream: %w", os.entries[i].Number, start, ErrMalformedObject)
			continue
		}
		if end > len(body) {
			end = len(body)
		}

		parser := NewParser(body[start:end])
		parser.SetMaxNesting(maxNesting)
		obj, err := parser.ParseObject()
		if errors.Is(err, io.EOF) {
			err = fmt.Errorf("object %d is empty: %w", os.entries[i].Number, ErrMalformedObject)
		}
		if err != nil {
			os.entries[i].Err = err
			continue
		}
		os.entries[i].Object = obj
	}
}

// N returns the number of objects declared by /N
func (os *ObjectStream) N() int {
	return os.n
}

// First returns the offset of the first object body in the decoded data
func (os *ObjectStream) First() int {
	return os.first
}

// Len returns the number of objects actually found in the header
func (os *ObjectStream) Len() int {
	return len(os.entries)
}

// GetObjectByIndex returns the object at position index and its object
// number.
func (os *ObjectStream) GetObjectByIndex(index int) (Object, int, error) {
	if index < 0 || index >= len(os.entries) {
		return nil, 0, fmt.Errorf("index %d out of range [0, %d)", index, len(os.entries))
	}
	e := os.entries[index]
	if e.Err != nil {
		return nil, e.Number, e.Err
	}
	return e.Object, e.Number, nil
}

// GetObjectByNumber finds an object by its object number and returns it
// with its position.
func (os *ObjectStream) GetObjectByNumber(objNum int) (Object, int, error) {
	for i, e := range os.entries {
		if e.Number == objNum {
			obj, _, err := os.GetObjectByIndex(i)
			return obj, i, err
		}
	}
	return nil, 0, fmt.Errorf("object %d not found in object stream", objNum)
}

// ObjectNumbers returns the object numbers in header order
func (os *ObjectStream) ObjectNumbers() []int {
	nums := make([]int, len(os.entries))
	for i, e := range os.entries {
		nums[i] = e.Number
	}
	return nums
}
