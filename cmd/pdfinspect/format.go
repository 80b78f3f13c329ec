package main

import (
	"fmt"
	"sort"

	"github.com/tsawler/pdfcore/core"
	"github.com/tsawler/pdfcore/model"
)

// maxSummary bounds how much of an object the objects command prints
const maxSummary = 80

// summarize renders obj on one line, cut to maxSummary characters
func summarize(obj core.Object) string {
	var s string
	switch o := obj.(type) {
	case *core.Stream:
		s = fmt.Sprintf("stream %s (%d bytes)", o.Dict, len(o.Data))
	case nil:
		s = "null"
	default:
		s = o.String()
	}
	if r := []rune(s); len(r) > maxSummary {
		s = string(r[:maxSummary-3]) + "..."
	}
	return s
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// formatBox prints a box as its lower-left and upper-right corners
func formatBox(b model.BBox) string {
	return fmt.Sprintf("[%g %g %g %g]", b.X, b.Y, b.X+b.Width, b.Y+b.Height)
}
