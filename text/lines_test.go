package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleText(t *testing.T) {
	tests := []struct {
		name  string
		items []TextItem
		want  string
	}{
		{
			name:  "empty",
			items: nil,
			want:  "",
		},
		{
			name: "fragments and words",
			items: []TextItem{
				{Text: "World", X: 30, Y: 100, FontSize: 12},
				{Text: "Hel", X: 0, Y: 100, FontSize: 12},
				{Text: "lo", X: 8, Y: 100, FontSize: 12},
				{Text: "Next", X: 0, Y: 120, FontSize: 12},
			},
			want: "Hello World\nNext",
		},
		{
			name: "line anchored on first item",
			items: []TextItem{
				{Text: "a", X: 0, Y: 100, FontSize: 12},
				{Text: "b", X: 1, Y: 104, FontSize: 12},
				{Text: "c", X: 0, Y: 108, FontSize: 12},
			},
			want: "ab\nc",
		},
		{
			name: "line sorted by x",
			items: []TextItem{
				{Text: "b", X: 50, Y: 100, FontSize: 12},
				{Text: "a", X: 0, Y: 101, FontSize: 12},
			},
			want: "a b",
		},
		{
			name: "blank lines dropped",
			items: []TextItem{
				{Text: "top", X: 0, Y: 10, FontSize: 12},
				{Text: " ", X: 0, Y: 50, FontSize: 12},
				{Text: "bottom", X: 0, Y: 90, FontSize: 12},
			},
			want: "top\nbottom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AssembleText(tt.items, 5))
		})
	}
}

func TestGroupLines(t *testing.T) {
	items := []TextItem{
		{Text: "c", X: 0, Y: 30},
		{Text: "b", X: 20, Y: 10},
		{Text: "a", X: 0, Y: 12},
	}

	lines := GroupLines(items, 5)

	require.Len(t, lines, 2)
	require.Len(t, lines[0], 2)
	assert.Equal(t, "a", lines[0][0].Text)
	assert.Equal(t, "b", lines[0][1].Text)
	assert.Equal(t, "c", lines[1][0].Text)
	assert.Equal(t, "c", items[0].Text)
}

func TestLineTextGapThreshold(t *testing.T) {
	// 10pt: a character is 6 wide and a word break needs a gap over 9
	joined := []TextItem{{Text: "a", X: 0, FontSize: 10}, {Text: "b", X: 15, FontSize: 10}}
	split := []TextItem{{Text: "a", X: 0, FontSize: 10}, {Text: "b", X: 15.5, FontSize: 10}}

	assert.Equal(t, "ab", LineText(joined))
	assert.Equal(t, "a b", LineText(split))
}
