// Package graphicsstate provides the text state used while interpreting
// a content stream.
//
// [TextState] carries the registers the text operators change: the font
// name and size, the text and line matrices, character and word spacing,
// leading, horizontal scale and rise. It is a plain value, so a copy is a
// snapshot.
//
// [Stack] owns the current state and the snapshots pushed by q:
//
//	s := graphicsstate.NewStack()
//	s.Save()               // q
//	s.SetFont("F1", 12)    // Tf
//	s.Translate(100, 700)  // Td
//	s.Restore()            // Q, back to the saved snapshot
//
// An unbalanced Q is ignored.
package graphicsstate
