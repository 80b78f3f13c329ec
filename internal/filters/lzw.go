package filters

import "fmt"

const (
	lzwClear    = 256
	lzwEOD      = 257
	lzwFirst    = 258
	lzwMaxCodes = 4096
	lzwMinWidth = 9
	lzwMaxWidth = 12
)

// LZW decodes variable-width LZW data (9 to 12 bits, MSB first) and then
// reverses any predictor. EarlyChange defaults to 1, which widens codes
// one entry before the table fills the current width.
func LZW(data []byte, params Params) ([]byte, error) {
	earlyChange := getIntParam(params, "EarlyChange", 1)
	if earlyChange != 0 {
		earlyChange = 1
	}

	decoded, err := lzwDecode(data, earlyChange)
	if err != nil {
		return nil, err
	}
	return applyPredictor(decoded, params)
}

func lzwDecode(data []byte, earlyChange int) ([]byte, error) {
	table := newLZWTable()
	width := lzwMinWidth
	var prev []byte
	var out []byte

	var buf uint32
	var nbits int

	for _, b := range data {
		buf = buf<<8 | uint32(b)
		nbits += 8

		for nbits >= width {
			code := int(buf>>uint(nbits-width)) & (1<<uint(width) - 1)
			nbits -= width
			buf &= 1<<uint(nbits) - 1

			switch code {
			case lzwClear:
				table = table[:lzwFirst]
				width = lzwMinWidth
				prev = nil
				continue
			case lzwEOD:
				return out, nil
			}

			var entry []byte
			switch {
			case code < len(table) && table[code] != nil:
				entry = table[code]
			case code == len(table) && prev != nil:
				// the code being defined right now: prev + prev[0]
				entry = make([]byte, len(prev)+1)
				copy(entry, prev)
				entry[len(prev)] = prev[0]
			default:
				return nil, fmt.Errorf("code %d with table size %d: %w", code, len(table), ErrInvalidLZWCode)
			}

			out = append(out, entry...)

			if prev != nil && len(table) < lzwMaxCodes {
				next := make([]byte, len(prev)+1)
				copy(next, prev)
				next[len(prev)] = entry[0]
				table = append(table, next)
			}
			prev = entry

			if len(table)+earlyChange >= 1<<uint(width) && width < lzwMaxWidth {
				width++
			}
		}
	}

	return out, nil
}

func newLZWTable() [][]byte {
	table := make([][]byte, lzwFirst, lzwMaxCodes)
	for i := 0; i < 256; i++ {
		table[i] = []byte{byte(i)}
	}
	return table
}
