package font

import (
	"bytes"
	"unicode/utf16"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/unicode/norm"
)

// Encoding names recognised for single-byte decoding
const (
	WinAnsiEncoding  = "WinAnsiEncoding"
	MacRomanEncoding = "MacRomanEncoding"
	StandardEncoding = "StandardEncoding"
)

var (
	bomBE = []byte{0xFE, 0xFF}
	bomLE = []byte{0xFF, 0xFE}
)

// singleByteEncoding returns the charmap for a font encoding name.
// Anything unrecognised is read as Latin-1.
func singleByteEncoding(name string) encoding.Encoding {
	switch name {
	case WinAnsiEncoding:
		return charmap.Windows1252
	case MacRomanEncoding:
		return charmap.Macintosh
	default:
		return charmap.ISO8859_1
	}
}

// DecodeSingleByte decodes raw bytes with the named single-byte encoding
func DecodeSingleByte(raw []byte, encodingName string) string {
	out, err := singleByteEncoding(encodingName).NewDecoder().Bytes(raw)
	if err != nil {
		return latin1(raw)
	}
	return string(out)
}

func latin1(raw []byte) string {
	r := make([]rune, len(raw))
	for i, b := range raw {
		r[i] = rune(b)
	}
	return string(r)
}

// DecodeUTF16BE decodes big-endian UTF-16 with an optional byte order
// mark, which may also select little-endian. It fails on odd lengths
// and on unpaired surrogates.
func DecodeUTF16BE(raw []byte) (string, bool) {
	if len(raw)%2 != 0 || !validUTF16(raw) {
		return "", false
	}
	dec := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
	if !bytes.HasPrefix(raw, bomBE) && !bytes.HasPrefix(raw, bomLE) {
		dec = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	}
	out, err := dec.Bytes(raw)
	if err != nil {
		return "", false
	}
	return string(out), true
}

// validUTF16 checks surrogate pairing in the byte order the BOM selects
func validUTF16(raw []byte) bool {
	le := bytes.HasPrefix(raw, bomLE)
	units := make([]uint16, 0, len(raw)/2)
	for i := 0; i+1 < len(raw); i += 2 {
		if le {
			units = append(units, uint16(raw[i+1])<<8|uint16(raw[i]))
		} else {
			units = append(units, uint16(raw[i])<<8|uint16(raw[i+1]))
		}
	}
	for i := 0; i < len(units); i++ {
		u := units[i]
		switch {
		case utf16.IsSurrogate(rune(u)) && u < 0xDC00:
			if i+1 >= len(units) || units[i+1] < 0xDC00 || units[i+1] > 0xDFFF {
				return false
			}
			i++
		case u >= 0xDC00 && u <= 0xDFFF:
			return false
		}
	}
	return true
}

// DecodeTextString decodes a PDF text string such as an /Info entry.
// A UTF-16 byte order mark selects UTF-16, otherwise the bytes are
// read as PDFDocEncoding, approximated by Latin-1.
func DecodeTextString(raw []byte) string {
	if bytes.HasPrefix(raw, bomBE) || bytes.HasPrefix(raw, bomLE) {
		if s, ok := DecodeUTF16BE(raw); ok {
			return s
		}
	}
	return latin1(raw)
}

// Normalize returns s in Unicode normalization form C
func Normalize(s string) string {
	return norm.NFC.String(s)
}
