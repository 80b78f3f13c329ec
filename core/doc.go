// Package core provides low-level PDF parsing primitives and object types.
//
// Everything in this package works on a fully materialized []byte; no I/O
// happens here. Callers hand in the whole file and get back objects,
// cross-reference sections and decoded streams.
//
// # Object Types
//
// PDF objects are modelled as a closed set of types satisfying [Object]:
//
//   - [Null], [Bool], [Int], [Real]
//   - [String] and [HexString] - raw string bytes, kept apart because text
//     decoding treats hex strings differently
//   - [Name], [Array], [Dict]
//   - [Stream] - a dictionary plus its raw, still-encoded payload
//   - [IndirectRef] - a reference to an object in the document's table
//
// [Equal] compares two objects structurally, ignoring dictionary key order.
//
// # Parsing
//
// [Lexer] tokenizes a buffer from a cursor that callers can read and reset.
// [Parser] builds objects from those tokens. The "N G R" reference pattern
// is recognised by checkpointing the cursor and rolling back when the
// third token is not R.
//
// # Cross-Reference Sections
//
// [XRefParser] reads classic xref tables and xref streams. Each call to
// [XRefParser.ParseXRef] returns one section; sections from a Prev chain
// are folded together with [XRefTable.Merge], where the first entry seen
// for an object number wins.
//
// # Object Streams
//
// [ObjectStream] decodes a /Type /ObjStm stream once and keeps its objects
// in header order, so a compressed xref entry's index addresses the
// object by position.
//
// # Errors
//
// Structural failures are reported with [ErrMalformedHeader],
// [ErrMissingTrailer], [ErrMissingXRef] and [ErrEncrypted]. A single bad
// object yields [ErrMalformedObject]. Decode failures wrap
// [ErrUnsupportedFilter], [ErrInvalidLZWCode] or [ErrInvalidHexChar].
package core
