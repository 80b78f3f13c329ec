package reader

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"

	"github.com/tsawler/pdfcore/core"
	"github.com/tsawler/pdfcore/logger"
)

// maxHeaderJunk is how many bytes may precede %PDF-
const maxHeaderJunk = 1024

var headerPattern = regexp.MustCompile(`^%PDF-(\d+\.\d+)`)

// Parse reads a complete PDF held in memory and returns its object
// table. Structural problems abort with one of the core sentinels;
// a malformed object is skipped or fatal depending on the ParsingMode.
func Parse(data []byte, opts ...Option) (*Document, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &docParser{
		data:         data,
		cfg:          cfg,
		log:          logger.New(cfg.Logger),
		objects:      make(map[core.ObjectID]core.Object),
		objStreams:   make(map[int]*core.ObjectStream),
		brokenStream: make(map[int]error),
	}

	version, err := p.parseHeader()
	if err != nil {
		return nil, err
	}
	xref, err := p.readXRef()
	if err != nil {
		return nil, err
	}
	p.xref = xref

	if !xref.Trailer.Has("Root") {
		return nil, fmt.Errorf("trailer has no /Root: %w", core.ErrMissingTrailer)
	}
	if xref.Trailer.Has("Encrypt") {
		return nil, core.ErrEncrypted
	}

	if err := p.loadInUse(); err != nil {
		return nil, err
	}
	if err := p.loadCompressed(); err != nil {
		return nil, err
	}

	return newDocument(version, p), nil
}

// docParser holds the state of one Parse call
type docParser struct {
	data         []byte
	cfg          Config
	log          logger.Logger
	headerOffset int
	xref         *core.XRefTable
	objects      map[core.ObjectID]core.Object
	objStreams   map[int]*core.ObjectStream
	brokenStream map[int]error
}

// parseHeader finds %PDF-x.y at the start of the buffer or after a
// little leading junk.
func (p *docParser) parseHeader() (string, error) {
	if len(p.data) < 8 {
		return "", fmt.Errorf("file is %d bytes: %w", len(p.data), core.ErrMalformedHeader)
	}
	window := p.data
	if len(window) > maxHeaderJunk+8 {
		window = window[:maxHeaderJunk+8]
	}
	idx := bytes.Index(window, []byte("%PDF-"))
	if idx < 0 || idx > maxHeaderJunk {
		return "", fmt.Errorf("no %%PDF- marker: %w", core.ErrMalformedHeader)
	}
	m := headerPattern.FindSubmatch(p.data[idx:])
	if m == nil {
		return "", fmt.Errorf("invalid version after %%PDF-: %w", core.ErrMalformedHeader)
	}
	if idx > 0 {
		p.log.Debug("header preceded by junk", "bytes", idx)
	}
	p.headerOffset = idx
	return string(m[1]), nil
}

// readXRef walks the Prev chain from startxref, newest section first,
// and folds every section into one table.
func (p *docParser) readXRef() (*core.XRefTable, error) {
	xp := core.NewXRefParser(p.data)
	xp.SetMaxNesting(p.cfg.MaxNesting)

	start, err := xp.FindStartXRef()
	if err != nil {
		return nil, err
	}

	merged := core.NewXRefTable()
	visited := make(map[int64]bool)
	offset := start
	for newest := true; ; newest = false {
		if visited[offset] {
			p.log.Warn("xref chain revisits an offset", "offset", offset)
			break
		}
		visited[offset] = true

		section, err := p.parseSection(xp, offset)
		if err != nil {
			if newest {
				if !errors.Is(err, core.ErrMissingXRef) && !errors.Is(err, core.ErrMissingTrailer) {
					err = fmt.Errorf("%v: %w", err, core.ErrMissingXRef)
				}
				return nil, err
			}
			p.log.Warn("skipping unreadable xref section", "offset", offset, "error", err)
			break
		}
		merged.Merge(section)

		if stm, ok := section.Trailer.GetInt("XRefStm"); ok && !visited[int64(stm)] {
			visited[int64(stm)] = true
			hybrid, err := p.parseSection(xp, int64(stm))
			if err != nil {
				p.log.Warn("skipping unreadable XRefStm", "offset", int64(stm), "error", err)
			} else {
				p.mergeHybrid(merged, section, hybrid)
			}
		}

		prev, ok := section.Trailer.GetInt("Prev")
		if !ok || prev < 0 {
			break
		}
		offset = int64(prev)
	}

	return merged, nil
}

// mergeHybrid folds the xref stream named by a classic trailer's
// /XRefStm into merged. Objects the table itself marks free are hidden
// from pre-1.5 readers and take their entry from the stream, unless a
// newer section already replaced them.
func (p *docParser) mergeHybrid(merged, table, stream *core.XRefTable) {
	for num, entry := range stream.Entries {
		cur, ok := merged.Get(num)
		if !ok || cur.Type != core.XRefFree || entry.Type == core.XRefFree {
			continue
		}
		if own, ok := table.Get(num); ok && own == cur {
			merged.Entries[num] = entry
		}
	}
	merged.Merge(stream)
}

// parseSection reads the section at offset. When the file has leading
// junk and the offset misses, the same offset shifted by the junk
// length is tried.
func (p *docParser) parseSection(xp *core.XRefParser, offset int64) (*core.XRefTable, error) {
	section, err := xp.ParseXRef(offset)
	if err != nil && p.headerOffset > 0 {
		if shifted, err2 := xp.ParseXRef(offset + int64(p.headerOffset)); err2 == nil {
			return shifted, nil
		}
	}
	return section, err
}

// malformed applies the parsing mode to a bad object: strict mode
// returns the error, best-effort mode logs it and carries on.
func (p *docParser) malformed(num int, err error) error {
	if !errors.Is(err, core.ErrMalformedObject) {
		err = fmt.Errorf("%v: %w", err, core.ErrMalformedObject)
	}
	if p.cfg.ParsingMode == Strict {
		return fmt.Errorf("object %d: %w", num, err)
	}
	p.log.Warn("skipping malformed object", "object", num, "error", err)
	return nil
}

// loadInUse parses every uncompressed object at its recorded offset
func (p *docParser) loadInUse() error {
	for _, num := range p.xref.ObjectNumbers() {
		entry, _ := p.xref.Get(num)
		if entry.Type != core.XRefInUse {
			continue
		}
		obj, err := p.parseAt(num, entry)
		if err != nil {
			if err := p.malformed(num, err); err != nil {
				return err
			}
			continue
		}
		p.objects[core.ObjectID{Number: num, Generation: entry.Generation}] = obj
	}
	return nil
}

// parseAt parses object num at the entry's offset and checks that the
// "N G obj" header agrees with the entry.
func (p *docParser) parseAt(num int, entry core.XRefEntry) (core.Object, error) {
	matches := func(ind *core.IndirectObject) bool {
		return ind.Ref.Number == num && ind.Ref.Generation == entry.Generation
	}
	ind, err := p.parseIndirect(entry.Offset, p)
	if (err != nil || !matches(ind)) && p.headerOffset > 0 {
		if shifted, err2 := p.parseIndirect(entry.Offset+int64(p.headerOffset), p); err2 == nil && matches(shifted) {
			ind, err = shifted, nil
		}
	}
	if err != nil {
		return nil, err
	}
	if !matches(ind) {
		return nil, fmt.Errorf("xref entry %d %d points at object %s: %w",
			num, entry.Generation, ind.Ref.ID(), core.ErrMalformedObject)
	}
	return ind.Object, nil
}

func (p *docParser) parseIndirect(offset int64, resolver core.ReferenceResolver) (*core.IndirectObject, error) {
	if offset <= 0 || offset >= int64(len(p.data)) {
		return nil, fmt.Errorf("offset %d outside file: %w", offset, core.ErrMalformedObject)
	}
	parser := core.NewParserAt(p.data, int(offset))
	parser.SetMaxNesting(p.cfg.MaxNesting)
	if resolver != nil {
		parser.SetReferenceResolver(resolver)
	}
	return parser.ParseIndirectObject()
}

// ResolveReference serves indirect /Length values while pass 2 is
// still running. Objects not parsed yet are read straight from their
// offset without a resolver, so a Length chain cannot recurse.
func (p *docParser) ResolveReference(ref core.IndirectRef) (core.Object, error) {
	if obj, ok := p.objects[ref.ID()]; ok {
		return obj, nil
	}
	entry, ok := p.xref.Get(ref.Number)
	if !ok || entry.Type != core.XRefInUse || entry.Generation != ref.Generation {
		return core.Null{}, nil
	}
	ind, err := p.parseIndirect(entry.Offset, nil)
	if err != nil {
		return nil, err
	}
	return ind.Object, nil
}

// loadCompressed resolves every entry stored in an object stream
func (p *docParser) loadCompressed() error {
	for _, num := range p.xref.ObjectNumbers() {
		entry, _ := p.xref.Get(num)
		if entry.Type != core.XRefCompressed {
			continue
		}
		obj, err := p.fromObjectStream(num, entry)
		if err != nil {
			if err := p.malformed(num, err); err != nil {
				return err
			}
			continue
		}
		p.objects[core.ObjectID{Number: num}] = obj
	}
	return nil
}

// fromObjectStream reads object num by its recorded position, falling
// back to a search by number when the position is wrong.
func (p *docParser) fromObjectStream(num int, entry core.XRefEntry) (core.Object, error) {
	os, err := p.objectStream(entry.StreamNumber)
	if err != nil {
		return nil, err
	}
	obj, found, err := os.GetObjectByIndex(entry.StreamIndex)
	if err == nil && found == num {
		return obj, nil
	}
	obj, _, err = os.GetObjectByNumber(num)
	if err != nil {
		return nil, fmt.Errorf("object stream %d: %w", entry.StreamNumber, err)
	}
	return obj, nil
}

// objectStream decodes container num once. A container that fails is
// remembered so the failure is logged once.
func (p *docParser) objectStream(num int) (*core.ObjectStream, error) {
	if os, ok := p.objStreams[num]; ok {
		return os, nil
	}
	if err, ok := p.brokenStream[num]; ok {
		return nil, err
	}

	os, err := p.loadObjectStream(num)
	if err != nil {
		p.brokenStream[num] = err
		p.log.Warn("broken object stream", "object", num, "error", err)
		return nil, err
	}
	p.objStreams[num] = os
	return os, nil
}

func (p *docParser) loadObjectStream(num int) (*core.ObjectStream, error) {
	entry, ok := p.xref.Get(num)
	if !ok || entry.Type != core.XRefInUse {
		return nil, fmt.Errorf("object stream %d is not an uncompressed object: %w", num, core.ErrMalformedObject)
	}
	obj, ok := p.objects[core.ObjectID{Number: num, Generation: entry.Generation}]
	if !ok {
		return nil, fmt.Errorf("object stream %d was not loaded: %w", num, core.ErrMalformedObject)
	}
	stream, ok := obj.(*core.Stream)
	if !ok {
		return nil, fmt.Errorf("object stream %d is %s: %w", num, obj.Type(), core.ErrMalformedObject)
	}
	return core.NewObjectStream(stream, p.cfg.MaxNesting)
}
