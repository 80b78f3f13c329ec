// Package text interprets the text operators of PDF content streams and
// orders the result for reading.
//
// # Interpretation
//
// An [Extractor] walks parsed operations with a text state stack and a
// page's font map, emitting one [TextItem] per shown string:
//
//	fonts, _ := font.BuildFontMap(resources, doc)
//	items := text.NewExtractor(fonts).Extract(contentstream.Parse(content))
//
// Item positions are the text matrix translation when the string was
// shown. Glyph widths are not applied, so consecutive strings shown
// without a positioning operator share a position. TJ arrays produce a
// single item, with a space wherever the kerning adjustment is below
// [KerningSpaceThreshold].
//
// # Normalization
//
// [DetectYDirection] votes on whether the page's Y axis grows upward by
// looking at line-to-line steps in emission order. [Normalize] rescales
// oversized coordinate spaces and flips upward pages so Y=0 is the top,
// then sorts into reading order. The sort is a total order, so the result
// does not depend on the order of its input.
//
// # Lines
//
// [AssembleText] groups normalized items into lines and inserts spaces
// at wide horizontal gaps.
package text
