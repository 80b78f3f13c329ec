package filters

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPNGPredictorRowTypes(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		params Params
		want   []byte
	}{
		{
			name:   "none",
			data:   []byte{0, 1, 2, 3, 0, 4, 5, 6},
			params: Params{"Predictor": 10, "Columns": 3},
			want:   []byte{1, 2, 3, 4, 5, 6},
		},
		{
			name: "sub up average none",
			data: []byte{
				1, 1, 1, 1,
				2, 3, 3, 3,
				3, 5, 2, 2,
				0, 10, 11, 12,
			},
			params: Params{"Predictor": 12, "Columns": 3},
			want:   []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12},
		},
		{
			name:   "paeth",
			data:   []byte{4, 10, 10, 10, 4, 30, 10, 10, 4, 5, 253, 140},
			params: Params{"Predictor": 15, "Columns": 3, "Colors": 1, "BitsPerComponent": 8},
			want:   []byte{10, 20, 30, 40, 50, 60, 45, 47, 200},
		},
		{
			name:   "sub with three colors",
			data:   []byte{1, 10, 20, 30, 5, 5, 5},
			params: Params{"Predictor": 11, "Columns": 2, "Colors": 3},
			want:   []byte{10, 20, 30, 15, 25, 35},
		},
		{
			name:   "unknown row filter left as stored",
			data:   []byte{9, 7, 8, 9},
			params: Params{"Predictor": 10, "Columns": 3},
			want:   []byte{7, 8, 9},
		},
		{
			name:   "short final row",
			data:   []byte{0, 1, 2, 3, 2, 1},
			params: Params{"Predictor": 10, "Columns": 3},
			want:   []byte{1, 2, 3, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := applyPredictor(tt.data, tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTIFFPredictor(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		params Params
		want   []byte
	}{
		{
			name:   "8 bit gray",
			data:   []byte{10, 1, 1, 1, 20, 2, 2, 2},
			params: Params{"Predictor": 2, "Columns": 4},
			want:   []byte{10, 11, 12, 13, 20, 22, 24, 26},
		},
		{
			name:   "8 bit rgb",
			data:   []byte{10, 20, 30, 1, 2, 3},
			params: Params{"Predictor": 2, "Columns": 2, "Colors": 3},
			want:   []byte{10, 20, 30, 11, 22, 33},
		},
		{
			name:   "16 bit gray",
			data:   []byte{0x01, 0x00, 0x00, 0x10},
			params: Params{"Predictor": 2, "Columns": 2, "BitsPerComponent": 16},
			want:   []byte{0x01, 0x00, 0x01, 0x10},
		},
		{
			name: "4 bit gray",
			// samples 3, 1, 1, 1 -> 3, 4, 5, 6
			data:   []byte{0x31, 0x11},
			params: Params{"Predictor": 2, "Columns": 4, "BitsPerComponent": 4},
			want:   []byte{0x34, 0x56},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := applyPredictor(tt.data, tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPredictorIdentity(t *testing.T) {
	data := []byte{1, 2, 3}
	for _, p := range []Params{nil, {"Predictor": 1}, {"Predictor": 1, "Columns": 0}} {
		got, err := applyPredictor(data, p)
		require.NoError(t, err)
		assert.Equal(t, data, got)
	}
}

func TestPredictorOversizedRows(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		params Params
		want   []byte
	}{
		{
			name:   "png row wider than the input",
			data:   []byte{0, 1, 2, 3},
			params: Params{"Predictor": 12, "Columns": int64(1) << 40},
			want:   []byte{1, 2, 3},
		},
		{
			name:   "png sub row wider than the input",
			data:   []byte{1, 1, 1, 1},
			params: Params{"Predictor": 11, "Columns": int64(1) << 40, "Colors": 1},
			want:   []byte{1, 2, 3},
		},
		{
			name:   "tiff row wider than the input",
			data:   []byte{1, 1, 1},
			params: Params{"Predictor": 2, "Columns": int64(1) << 40},
			want:   []byte{1, 2, 3},
		},
		{
			name:   "tiff wide samples without a full row",
			data:   []byte{1, 1, 1},
			params: Params{"Predictor": 2, "Columns": 1, "BitsPerComponent": 1 << 20},
			want:   []byte{1, 1, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := applyPredictor(tt.data, tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPredictorRowOverflow(t *testing.T) {
	for _, p := range []Params{
		{"Predictor": 12, "Columns": math.MaxInt / 2, "Colors": 8},
		{"Predictor": 2, "Columns": 2, "Colors": math.MaxInt / 4, "BitsPerComponent": 8},
	} {
		_, err := applyPredictor([]byte{0, 1, 2}, p)
		assert.ErrorIs(t, err, ErrInvalidParams)
	}
}

func TestFlateWithOversizedPredictorRow(t *testing.T) {
	encoded, err := FlateEncode([]byte{0, 10, 20, 30})
	require.NoError(t, err)

	got, err := Flate(encoded, Params{"Predictor": 12, "Columns": int64(1) << 40, "Colors": 1, "BitsPerComponent": 8})
	require.NoError(t, err)
	assert.Equal(t, []byte{10, 20, 30}, got)
}

func TestPaethPredictor(t *testing.T) {
	tests := []struct {
		a, b, c byte
		want    byte
	}{
		{0, 0, 0, 0},
		{10, 0, 0, 10},
		{0, 10, 0, 10},
		{10, 20, 10, 20},
		{20, 10, 10, 20},
		{5, 7, 9, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, paethPredictor(tt.a, tt.b, tt.c), "paeth(%d,%d,%d)", tt.a, tt.b, tt.c)
	}
}
