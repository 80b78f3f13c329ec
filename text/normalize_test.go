package text

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itemsAtY(ys ...float64) []TextItem {
	items := make([]TextItem, len(ys))
	for i, y := range ys {
		items[i] = TextItem{Text: "x", Y: y, FontSize: 12}
	}
	return items
}

func TestDetectYDirection(t *testing.T) {
	tests := []struct {
		name   string
		ys     []float64
		cfg    NormalizeConfig
		upward bool
	}{
		{"empty", nil, NormalizeConfig{}, true},
		{"single item", []float64{700}, NormalizeConfig{}, true},
		{"descending lines", []float64{700, 686, 672, 658}, NormalizeConfig{}, true},
		{"ascending lines", []float64{100, 114, 128}, NormalizeConfig{}, false},
		{"same line only", []float64{100, 103, 98, 100}, NormalizeConfig{}, false},
		{"tie", []float64{100, 120, 100}, NormalizeConfig{}, false},
		{"majority up", []float64{700, 680, 690, 670, 650}, NormalizeConfig{}, true},
		{"majority down", []float64{100, 120, 140, 120}, NormalizeConfig{}, false},
		{"gap of exactly tolerance ignored", []float64{100, 105, 110}, NormalizeConfig{}, false},
		{"vote window", []float64{100, 200, 300, 0, -100, -200}, NormalizeConfig{VoteSamples: 2, SameLineTolerance: 5}, false},
		{"full window", []float64{100, 200, 300, 0, -100, -200}, NormalizeConfig{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.upward, DetectYDirection(itemsAtY(tt.ys...), tt.cfg))
		})
	}
}

func TestDetectYDirectionSampleLimit(t *testing.T) {
	var ys []float64
	for i := 0; i < 51; i++ {
		ys = append(ys, float64(i*20))
	}
	for i := 0; i < 100; i++ {
		ys = append(ys, float64(1000-i*20))
	}

	assert.False(t, DetectYDirection(itemsAtY(ys...), DefaultNormalizeConfig()))
}

func TestNormalizeFlipsAgainstPageHeight(t *testing.T) {
	items := []TextItem{{Text: "Hi", X: 100, Y: 700, FontName: "F1", FontSize: 12}}

	got := Normalize(items, true, 792, DefaultNormalizeConfig())

	require.Len(t, got, 1)
	assert.Equal(t, TextItem{Text: "Hi", X: 100, Y: 92, FontName: "F1", FontSize: 12}, got[0])
}

func TestNormalizeFlipsAgainstMaxY(t *testing.T) {
	items := []TextItem{
		{Text: "b", X: 0, Y: 600},
		{Text: "a", X: 0, Y: 700},
	}

	got := Normalize(items, true, 0, DefaultNormalizeConfig())

	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Text)
	assert.Equal(t, 0.0, got[0].Y)
	assert.Equal(t, "b", got[1].Text)
	assert.Equal(t, 100.0, got[1].Y)
}

func TestNormalizeTopDownKeepsY(t *testing.T) {
	items := []TextItem{
		{Text: "second", X: 10, Y: 40},
		{Text: "right", X: 90, Y: 20},
		{Text: "left", X: 10, Y: 20},
	}

	got := Normalize(items, false, 792, DefaultNormalizeConfig())

	texts := make([]string, len(got))
	for i, it := range got {
		texts[i] = it.Text
	}
	assert.Equal(t, []string{"left", "right", "second"}, texts)
	assert.Equal(t, 20.0, got[0].Y)
}

func TestNormalizeOversizedSpace(t *testing.T) {
	items := []TextItem{
		{Text: "top", X: 300, Y: 3000, FontSize: 36},
		{Text: "middle", X: 300, Y: 1500, FontSize: 36},
	}
	scale := 842.0 / 3000.0

	got := Normalize(items, true, 0, DefaultNormalizeConfig())

	require.Len(t, got, 2)
	assert.Equal(t, "top", got[0].Text)
	assert.InDelta(t, 0, got[0].Y, 1e-9)
	assert.InDelta(t, 300*scale, got[0].X, 1e-9)
	assert.InDelta(t, 36*scale, got[0].FontSize, 1e-9)
	assert.Equal(t, "middle", got[1].Text)
	assert.InDelta(t, 421, got[1].Y, 1e-9)
}

func TestNormalizeOversizedWithPageHeight(t *testing.T) {
	items := []TextItem{{Text: "x", X: 0, Y: 2000}}
	scale := 842.0 / 2000.0

	got := Normalize(items, true, 2400, DefaultNormalizeConfig())

	require.Len(t, got, 1)
	assert.InDelta(t, 400*scale, got[0].Y, 1e-9)
}

func TestNormalizeBelowThresholdNotScaled(t *testing.T) {
	items := []TextItem{{Text: "x", X: 10, Y: 1500, FontSize: 10}}

	got := Normalize(items, false, 0, DefaultNormalizeConfig())

	assert.Equal(t, items, got)
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	items := []TextItem{
		{Text: "b", X: 5, Y: 100},
		{Text: "a", X: 1, Y: 200},
	}
	before := make([]TextItem, len(items))
	copy(before, items)

	Normalize(items, true, 792, DefaultNormalizeConfig())

	assert.Equal(t, before, items)
}

func TestNormalizeEmpty(t *testing.T) {
	assert.Empty(t, Normalize(nil, true, 792, NormalizeConfig{}))
}

func TestNormalizePermutationInvariant(t *testing.T) {
	items := []TextItem{
		{Text: "a", X: 10, Y: 700, FontName: "F1", FontSize: 12},
		{Text: "b", X: 10, Y: 700, FontName: "F1", FontSize: 12},
		{Text: "a", X: 10, Y: 700, FontName: "F2", FontSize: 12},
		{Text: "a", X: 10, Y: 700, FontName: "F1", FontSize: 10},
		{Text: "a", X: 10, Y: 700, FontName: "F1", FontSize: 12, CharSpacing: 1},
		{Text: "a", X: 10, Y: 700, FontName: "F1", FontSize: 12, WordSpacing: 1},
		{Text: "c", X: 50, Y: 700},
		{Text: "d", X: 0, Y: 650},
		{Text: "e", X: 0, Y: 3000},
	}
	want := Normalize(items, true, 0, DefaultNormalizeConfig())

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 25; i++ {
		shuffled := make([]TextItem, len(items))
		copy(shuffled, items)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		assert.Equal(t, want, Normalize(shuffled, true, 0, DefaultNormalizeConfig()))
	}
}

func TestNormalizeItems(t *testing.T) {
	items := []TextItem{
		{Text: "first", X: 72, Y: 720, FontSize: 12},
		{Text: "second", X: 72, Y: 700, FontSize: 12},
		{Text: "third", X: 72, Y: 680, FontSize: 12},
	}

	got := NormalizeItems(items, 792, NormalizeConfig{})

	require.Len(t, got, 3)
	assert.Equal(t, "first", got[0].Text)
	assert.Equal(t, 72.0, got[0].Y)
	assert.Equal(t, "third", got[2].Text)
}

func TestNormalizeConfigDefaults(t *testing.T) {
	assert.Equal(t, DefaultNormalizeConfig(), NormalizeConfig{}.withDefaults())

	partial := NormalizeConfig{VoteSamples: 3}.withDefaults()
	assert.Equal(t, 3, partial.VoteSamples)
	assert.Equal(t, 1500.0, partial.OversizeThreshold)
	assert.Equal(t, 0.0, partial.SameLineTolerance)
}
