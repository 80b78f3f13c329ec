package filters

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/flate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// zlibCompress compresses data for testing
func zlibCompress(t *testing.T, data []byte) []byte {
	t.Helper()
	out, err := FlateEncode(data)
	require.NoError(t, err)
	return out
}

// rawDeflate compresses data without the zlib wrapper
func rawDeflate(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestFlateRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"text", []byte("Hello, World! This is test data for FlateDecode.")},
		{"binary", []byte{0, 1, 2, 255, 254, 0, 0, 0, 7}},
		{"repetitive", bytes.Repeat([]byte("BT /F1 12 Tf (x) Tj ET\n"), 500)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := Flate(zlibCompress(t, tt.data), nil)
			require.NoError(t, err)
			assert.Equal(t, len(tt.data), len(decoded))
			assert.True(t, bytes.Equal(tt.data, decoded))
		})
	}
}

func TestFlateRawDeflateFallback(t *testing.T) {
	original := []byte("stream written without a zlib header")

	decoded, err := Flate(rawDeflate(t, original), nil)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestFlateTruncatedKeepsOutput(t *testing.T) {
	original := bytes.Repeat([]byte("partial content "), 200)
	compressed := zlibCompress(t, original)

	// drop the adler32 checksum
	decoded, err := Flate(compressed[:len(compressed)-4], nil)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestFlateGarbage(t *testing.T) {
	_, err := Flate([]byte{0xde, 0xad, 0xbe, 0xef, 0x00, 0x11}, nil)
	assert.Error(t, err)
}

func TestFlatePaethPredictor(t *testing.T) {
	// three rows of three pixels, each row Paeth-filtered
	filtered := []byte{
		4, 10, 10, 10,
		4, 30, 10, 10,
		4, 5, 253, 140,
	}
	params := Params{
		"Predictor":        15,
		"Columns":          3,
		"Colors":           1,
		"BitsPerComponent": 8,
	}

	decoded, err := Flate(zlibCompress(t, filtered), params)
	require.NoError(t, err)
	assert.Equal(t, []byte{10, 20, 30, 40, 50, 60, 45, 47, 200}, decoded)
}
