// Package reader turns a complete PDF held in memory into a Document.
//
// [Parse] never performs I/O. It reads the header, walks the chain of
// cross-reference sections from startxref back through /Prev, and then
// loads the object table in two passes: uncompressed objects at their
// byte offsets, then objects packed inside object streams.
//
//	doc, err := reader.Parse(data, reader.WithParsingMode(reader.Strict))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(doc.Version(), doc.PageCount())
//
// # Errors
//
// Header, trailer and xref failures abort the parse with the sentinels
// from the core package, and so does an /Encrypt entry. A single bad
// object is logged and skipped in [BestEffort] mode and fails the parse
// in [Strict] mode.
//
// # Objects
//
// The table is keyed by object number and generation. A reference to
// an object that is not in the table resolves to null:
//
//	obj, _ := doc.ResolveReference(core.IndirectRef{Number: 12})
//
// # Text
//
// [Document.ExtractTextItems] runs a page's content streams through the
// text extractor and normalizes the coordinates so that Y grows down the
// page. [Document.ExtractText] assembles those items into lines, and
// [Document.ExtractAllText] does the same for every page concurrently.
package reader
