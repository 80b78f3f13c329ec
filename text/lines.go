package text

import (
	"math"
	"sort"
	"strings"
)

// Width estimates used when splitting a line into words. No glyph
// metrics are read, so a character is taken as 0.6 em wide and a word
// break is a gap wider than 1.5 characters.
const (
	charWidthFactor = 0.6
	wordGapFactor   = 1.5
)

// GroupLines sorts normalized items into lines. An item belongs to the
// current line when its Y is within tolerance of the line's first item.
// Each line is ordered by X.
func GroupLines(items []TextItem, tolerance float64) [][]TextItem {
	sorted := make([]TextItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })

	var lines [][]TextItem
	var lineY float64
	for _, it := range sorted {
		if len(lines) == 0 || math.Abs(it.Y-lineY) > tolerance {
			lines = append(lines, []TextItem{it})
			lineY = it.Y
			continue
		}
		lines[len(lines)-1] = append(lines[len(lines)-1], it)
	}

	for _, line := range lines {
		sort.SliceStable(line, func(i, j int) bool { return line[i].X < line[j].X })
	}
	return lines
}

// LineText joins the items of one line. Runs closer than the word gap
// are concatenated, wider gaps become a single space.
func LineText(line []TextItem) string {
	var words []string
	var current strings.Builder
	var prevEnd float64
	started := false

	flush := func() {
		if strings.TrimSpace(current.String()) != "" {
			words = append(words, current.String())
		}
		current.Reset()
	}

	for _, it := range line {
		if it.Text == "" {
			continue
		}
		charWidth := it.FontSize * charWidthFactor
		if started && it.X-prevEnd > charWidth*wordGapFactor {
			flush()
		}
		current.WriteString(it.Text)
		started = true
		prevEnd = it.X + charWidth
	}
	flush()

	return strings.Join(words, " ")
}

// AssembleText renders normalized items as plain text, one line per
// output line. Blank lines are dropped.
func AssembleText(items []TextItem, tolerance float64) string {
	var out []string
	for _, line := range GroupLines(items, tolerance) {
		if s := LineText(line); strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "\n")
}
