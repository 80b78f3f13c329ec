// Package model provides the geometric primitives shared by the page
// tree and the text interpreter.
//
//   - [Point] - a 2D point
//   - [BBox] - a page box such as /MediaBox, normalised so Width and
//     Height are never negative
//   - [Matrix] - a 2D affine transformation [a b c d e f] in the PDF row
//     vector convention
//
// Text positioning composes matrices the way the text operators do:
//
//	tlm = model.Translate(tx, ty).Multiply(tlm) // Td
//	x, y := tlm.E(), tlm.F()
package model
