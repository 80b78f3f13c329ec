package text

import "fmt"

// TextItem is one run of text shown by Tj, TJ, ' or ". X and Y are the
// text matrix translation at the time the run was shown.
type TextItem struct {
	Text        string
	X, Y        float64
	FontName    string
	FontSize    float64
	CharSpacing float64
	WordSpacing float64
}

func (t TextItem) String() string {
	return fmt.Sprintf("%q at (%.2f, %.2f) %s %.1fpt", t.Text, t.X, t.Y, t.FontName, t.FontSize)
}

// less orders items by Y, then X, then every remaining field, so any
// permutation of the same items sorts identically.
func less(a, b TextItem) bool {
	switch {
	case a.Y != b.Y:
		return a.Y < b.Y
	case a.X != b.X:
		return a.X < b.X
	case a.Text != b.Text:
		return a.Text < b.Text
	case a.FontName != b.FontName:
		return a.FontName < b.FontName
	case a.FontSize != b.FontSize:
		return a.FontSize < b.FontSize
	case a.CharSpacing != b.CharSpacing:
		return a.CharSpacing < b.CharSpacing
	}
	return a.WordSpacing < b.WordSpacing
}
