package filters

import (
	"fmt"
	"math"
)

// applyPredictor reverses the predictor named in params. Predictor 1 or
// absent leaves data alone, 2 is TIFF horizontal differencing and 10 to
// 15 are the PNG row filters.
func applyPredictor(data []byte, params Params) ([]byte, error) {
	predictor := getIntParam(params, "Predictor", 1)
	columns := getIntParam(params, "Columns", 1)
	colors := getIntParam(params, "Colors", 1)
	bpc := getIntParam(params, "BitsPerComponent", 8)

	if columns < 1 || colors < 1 || bpc < 1 {
		return data, nil
	}
	if predictor != 2 && predictor < 10 {
		return data, nil
	}

	rowLen, err := rowLength(columns, colors, bpc)
	if err != nil {
		return nil, err
	}
	if predictor == 2 {
		return tiffPredictor(data, rowLen, columns, colors, bpc), nil
	}
	return pngPredictor(data, rowLen, colors, bpc), nil
}

// rowLength returns the byte length of one row of samples. Products
// that do not fit in an int are rejected.
func rowLength(columns, colors, bpc int) (int, error) {
	if colors > math.MaxInt/bpc {
		return 0, fmt.Errorf("%d colors of %d bits: %w", colors, bpc, ErrInvalidParams)
	}
	pixelBits := colors * bpc
	if columns > (math.MaxInt-7)/pixelBits {
		return 0, fmt.Errorf("%d columns of %d bits: %w", columns, pixelBits, ErrInvalidParams)
	}
	return (columns*pixelBits + 7) / 8, nil
}

// tiffPredictor undoes TIFF Predictor 2: each sample was stored as the
// difference from the same component of the pixel to its left.
func tiffPredictor(data []byte, rowLen, columns, colors, bpc int) []byte {
	result := make([]byte, len(data))
	copy(result, data)

	if bpc == 8 {
		for start := 0; start < len(result); start += rowLen {
			end := start + rowLen
			if end > len(result) {
				end = len(result)
			}
			for i := start + colors; i < end; i++ {
				result[i] += result[i-colors]
			}
		}
		return result
	}

	mask := uint32(1)<<uint(bpc) - 1
	samples := columns * colors
	for start := 0; start+rowLen <= len(result); start += rowLen {
		row := result[start : start+rowLen]
		for i := colors; i < samples; i++ {
			v := (getSample(row, i, bpc) + getSample(row, i-colors, bpc)) & mask
			setSample(row, i, bpc, v)
		}
	}
	return result
}

// getSample reads sample i of a packed, big-endian row
func getSample(row []byte, i, bpc int) uint32 {
	if bpc == 16 {
		return uint32(row[2*i])<<8 | uint32(row[2*i+1])
	}
	bit := i * bpc
	var v uint32
	for b := 0; b < bpc; b++ {
		pos := bit + b
		v = v<<1 | uint32(row[pos/8]>>(7-uint(pos%8))&1)
	}
	return v
}

func setSample(row []byte, i, bpc int, v uint32) {
	if bpc == 16 {
		row[2*i] = byte(v >> 8)
		row[2*i+1] = byte(v)
		return
	}
	bit := i * bpc
	for b := bpc - 1; b >= 0; b-- {
		pos := bit + b
		shift := 7 - uint(pos%8)
		row[pos/8] = row[pos/8]&^(1<<shift) | byte(v&1)<<shift
		v >>= 1
	}
}

// pngPredictor strips the per-row filter byte and reverses the PNG
// filter it names. An unknown filter byte leaves the row as stored and
// a short final row is decoded as far as it goes. No row is longer
// than the input.
func pngPredictor(data []byte, rowLen, colors, bpc int) []byte {
	if rowLen > len(data) {
		rowLen = len(data)
	}
	bpp := colors * bpc / 8
	if bpp < 1 {
		bpp = 1
	}

	result := make([]byte, 0, len(data))
	prev := make([]byte, rowLen)
	row := make([]byte, rowLen)

	for i := 0; i < len(data); {
		filterType := data[i]
		i++
		n := copy(row, data[i:])
		i += n
		cur := row[:n]

		switch filterType {
		case 1: // Sub
			for j := bpp; j < n; j++ {
				cur[j] += cur[j-bpp]
			}
		case 2: // Up
			for j := 0; j < n; j++ {
				cur[j] += prev[j]
			}
		case 3: // Average
			for j := 0; j < n; j++ {
				var left byte
				if j >= bpp {
					left = cur[j-bpp]
				}
				cur[j] += byte((int(left) + int(prev[j])) / 2)
			}
		case 4: // Paeth
			for j := 0; j < n; j++ {
				var left, upLeft byte
				if j >= bpp {
					left = cur[j-bpp]
					upLeft = prev[j-bpp]
				}
				cur[j] += paethPredictor(left, prev[j], upLeft)
			}
		}

		result = append(result, cur...)
		copy(prev, cur)
	}

	return result
}

// paethPredictor implements the Paeth predictor algorithm from the PNG specification.
// It selects the neighbor (left, above, or upper-left) closest to a linear prediction.
func paethPredictor(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa := abs(p - int(a))
	pb := abs(p - int(b))
	pc := abs(p - int(c))

	if pa <= pb && pa <= pc {
		return a
	} else if pb <= pc {
		return b
	}
	return c
}

// abs returns the absolute value of an integer.
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
