// Package font turns the raw bytes of PDF string operands into text.
//
// # Fonts
//
// A [FontInfo] holds what decoding needs from a font dictionary: the
// subtype, base font, encoding name and an optional ToUnicode map.
// [BuildFontMap] reads a page's /Font resources once:
//
//	fonts, err := font.BuildFontMap(resources, doc)
//	text := fonts["F1"].Decode(raw, isHex)
//
// # Decoding Order
//
//   - A non-empty ToUnicode [CMap] wins. Even-length input is read as
//     2-byte codes, otherwise bytes are looked up one at a time.
//   - Hex strings that look like UTF-16 are decoded as UTF-16.
//   - Everything else goes through the font's single-byte encoding
//     (WinAnsiEncoding, MacRomanEncoding, or Latin-1).
//
// Decoded text is normalized to NFC.
//
// # CMap Support
//
// [ParseToUnicode] reads bfchar and bfrange sections, including ranges
// with an array of destinations. Codespace ranges and CID mappings are
// not interpreted.
package font
