package filters

import (
	"bytes"
	"fmt"
)

// ASCIIHex decodes ASCII hexadecimal encoded data. Whitespace is
// ignored, > marks the end of data and an odd final digit is padded
// with zero.
func ASCIIHex(data []byte) ([]byte, error) {
	out := make([]byte, 0, len(data)/2)
	var hi byte
	odd := false

	for i, c := range data {
		if isWhitespace(c) {
			continue
		}
		if c == '>' {
			break
		}
		v, ok := hexDigit(c)
		if !ok {
			return nil, fmt.Errorf("%q at offset %d: %w", c, i, ErrInvalidHexChar)
		}
		if odd {
			out = append(out, hi<<4|v)
		} else {
			hi = v
		}
		odd = !odd
	}

	if odd {
		out = append(out, hi<<4)
	}
	return out, nil
}

// ASCIIHexEncode encodes data as upper-case hex terminated by >
func ASCIIHexEncode(data []byte) []byte {
	const digits = "0123456789ABCDEF"
	out := make([]byte, 0, len(data)*2+1)
	for _, b := range data {
		out = append(out, digits[b>>4], digits[b&0x0f])
	}
	return append(out, '>')
}

// ASCII85 decodes ASCII base-85 data. Each group of 5 characters in
// ! through u encodes 4 bytes, z stands for four zero bytes and ~> ends
// the data. A final partial group of n characters is padded with u and
// yields n-1 bytes.
func ASCII85(data []byte) ([]byte, error) {
	data = bytes.TrimLeft(data, " \t\r\n\f\x00")
	data = bytes.TrimPrefix(data, []byte("<~"))

	out := make([]byte, 0, len(data)*4/5+4)
	var group [5]byte
	n := 0

	for i := 0; i < len(data); i++ {
		c := data[i]
		switch {
		case isWhitespace(c):
			continue
		case c == '~':
			// ~> or a stray ~ both end the data
			i = len(data)
			continue
		case c == 'z' && n == 0:
			out = append(out, 0, 0, 0, 0)
			continue
		case c < '!' || c > 'u':
			return nil, fmt.Errorf("invalid ASCII85 character %q at offset %d", c, i)
		}

		group[n] = c - '!'
		n++
		if n == 5 {
			v := base85Value(group)
			if v > 0xFFFFFFFF {
				return nil, fmt.Errorf("ASCII85 group ending at offset %d overflows", i)
			}
			out = append(out, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
			n = 0
		}
	}

	if n == 1 {
		return nil, fmt.Errorf("ASCII85 data ends with a single-character group")
	}
	if n > 1 {
		for j := n; j < 5; j++ {
			group[j] = 'u' - '!'
		}
		v := base85Value(group)
		for j := 0; j < n-1; j++ {
			out = append(out, byte(v>>(24-8*uint(j))))
		}
	}

	return out, nil
}

func base85Value(group [5]byte) uint64 {
	var v uint64
	for _, d := range group {
		v = v*85 + uint64(d)
	}
	return v
}

// ASCII85Encode encodes data as base-85 terminated by ~>
func ASCII85Encode(data []byte) []byte {
	out := make([]byte, 0, len(data)*5/4+7)
	for i := 0; i < len(data); i += 4 {
		var chunk [4]byte
		n := copy(chunk[:], data[i:])
		v := uint32(chunk[0])<<24 | uint32(chunk[1])<<16 | uint32(chunk[2])<<8 | uint32(chunk[3])

		if v == 0 && n == 4 {
			out = append(out, 'z')
			continue
		}

		var enc [5]byte
		for j := 4; j >= 0; j-- {
			enc[j] = byte(v%85) + '!'
			v /= 85
		}
		out = append(out, enc[:n+1]...)
	}
	return append(out, '~', '>')
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	}
	return 0, false
}
