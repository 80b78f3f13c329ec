// Package contentstream provides parsing of PDF content streams.
//
// Content streams contain the instructions for rendering page content,
// including text display, graphics operations, and image placement.
//
// # Content Stream Operations
//
// PDF content streams consist of operators and their operands:
//
//	ops := contentstream.Parse(streamData)
//	for _, op := range ops {
//	    fmt.Printf("Operator: %s, Operands: %v\n", op.Operator, op.Operands)
//	}
//
// Each call keeps its own operand stack, so parsers can run on
// separate goroutines.
//
// # Operand Types
//
// Operands can be any PDF object type:
//   - Numbers (core.Int, core.Real); a malformed number reads as 0
//   - Strings (core.String, and core.HexString for <...> strings)
//   - Names (core.Name)
//   - Arrays (core.Array) and inline dictionaries (core.Dict)
//
// Inline images (BI ... ID ... EI) are skipped whole so their binary
// data is never read as operators.
package contentstream
