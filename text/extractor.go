package text

import (
	"strings"

	"github.com/tsawler/pdfcore/contentstream"
	"github.com/tsawler/pdfcore/core"
	"github.com/tsawler/pdfcore/font"
	"github.com/tsawler/pdfcore/graphicsstate"
	"github.com/tsawler/pdfcore/model"
)

// KerningSpaceThreshold is the TJ adjustment below which a space is
// inserted between two string fragments. Adjustments are in thousandths
// of text space, so -100 is a tenth of the font size.
const KerningSpaceThreshold = -100

// Extractor runs text operators over content stream operations
type Extractor struct {
	fonts map[string]*font.FontInfo
	state *graphicsstate.Stack

	items   []TextItem
	ignored int
}

// NewExtractor creates an extractor that decodes text with fonts, keyed
// by resource name. A font missing from the map decodes as Latin-1.
func NewExtractor(fonts map[string]*font.FontInfo) *Extractor {
	if fonts == nil {
		fonts = map[string]*font.FontInfo{}
	}
	return &Extractor{
		fonts: fonts,
		state: graphicsstate.NewStack(),
	}
}

// Extract interprets operations from a fresh text state and returns the
// items in emission order.
func (e *Extractor) Extract(operations []contentstream.Operation) []TextItem {
	e.state = graphicsstate.NewStack()
	e.items = nil
	e.ignored = 0

	for _, op := range operations {
		if !e.processOperation(op) {
			e.ignored++
		}
	}

	return e.items
}

// Ignored returns how many operations in the last Extract call were
// dropped for missing or mistyped operands.
func (e *Extractor) Ignored() int {
	return e.ignored
}

// processOperation applies one operation. It returns false when a known
// operator had unusable operands.
func (e *Extractor) processOperation(op contentstream.Operation) bool {
	args := op.Operands

	switch op.Operator {
	// Graphics state
	case "q":
		e.state.Save()
	case "Q":
		e.state.Restore()

	// Text object
	case "BT":
		e.state.BeginText()
	case "ET":

	// Text state
	case "Tf":
		args, ok := last(args, 2)
		if !ok {
			return false
		}
		name, ok := args[0].(core.Name)
		if !ok {
			return false
		}
		size, ok := core.ToFloat(args[1])
		if !ok {
			return false
		}
		e.state.SetFont(string(name), size)
	case "Tc":
		return e.setNumber(args, e.state.SetCharSpacing)
	case "Tw":
		return e.setNumber(args, e.state.SetWordSpacing)
	case "TL":
		return e.setNumber(args, e.state.SetLeading)
	case "Tz":
		return e.setNumber(args, e.state.SetHorizontalScale)
	case "Ts":
		return e.setNumber(args, e.state.SetRise)

	// Text positioning
	case "Td", "TD":
		nums, ok := numbers(args, 2)
		if !ok {
			return false
		}
		if op.Operator == "TD" {
			e.state.TranslateSetLeading(nums[0], nums[1])
		} else {
			e.state.Translate(nums[0], nums[1])
		}
	case "Tm":
		nums, ok := numbers(args, 6)
		if !ok {
			return false
		}
		e.state.SetMatrix(model.Matrix{nums[0], nums[1], nums[2], nums[3], nums[4], nums[5]})
	case "T*":
		e.state.NextLine()

	// Text showing
	case "Tj":
		args, ok := last(args, 1)
		if !ok {
			return false
		}
		return e.showText(args[0])
	case "TJ":
		args, ok := last(args, 1)
		if !ok {
			return false
		}
		arr, ok := args[0].(core.Array)
		if !ok {
			return false
		}
		e.showTextArray(arr)
	case "'":
		args, ok := last(args, 1)
		if !ok {
			return false
		}
		if _, _, ok := core.StringBytes(args[0]); !ok {
			return false
		}
		e.state.NextLine()
		e.showText(args[0])
	case "\"":
		args, ok := last(args, 3)
		if !ok {
			return false
		}
		nums, ok := numbers(args[:2], 2)
		if !ok {
			return false
		}
		if _, _, ok := core.StringBytes(args[2]); !ok {
			return false
		}
		e.state.SetWordSpacing(nums[0])
		e.state.SetCharSpacing(nums[1])
		e.state.NextLine()
		e.showText(args[2])
	}

	return true
}

func (e *Extractor) setNumber(args []core.Object, set func(float64)) bool {
	nums, ok := numbers(args, 1)
	if !ok {
		return false
	}
	set(nums[0])
	return true
}

// decode converts a string operand with the current font
func (e *Extractor) decode(obj core.Object) (string, bool) {
	raw, isHex, ok := core.StringBytes(obj)
	if !ok {
		return "", false
	}
	f := e.fonts[e.state.Current().FontName]
	return f.Decode(raw, isHex), true
}

// showText emits one item for a Tj string operand
func (e *Extractor) showText(obj core.Object) bool {
	s, ok := e.decode(obj)
	if !ok {
		return false
	}
	e.emit(s)
	return true
}

// showTextArray joins the strings of a TJ array into one item. A
// kerning adjustment below KerningSpaceThreshold becomes a space.
func (e *Extractor) showTextArray(arr core.Array) {
	var sb strings.Builder
	for _, elem := range arr {
		if n, ok := core.ToFloat(elem); ok {
			if n < KerningSpaceThreshold {
				sb.WriteByte(' ')
			}
			continue
		}
		if s, ok := e.decode(elem); ok {
			sb.WriteString(s)
		}
	}
	e.emit(sb.String())
}

func (e *Extractor) emit(s string) {
	if s == "" {
		return
	}
	ts := e.state.Current()
	x, y := ts.Position()
	e.items = append(e.items, TextItem{
		Text:        s,
		X:           x,
		Y:           y,
		FontName:    ts.FontName,
		FontSize:    ts.FontSize,
		CharSpacing: ts.CharSpacing,
		WordSpacing: ts.WordSpacing,
	})
}

// last returns the final n operands
func last(args []core.Object, n int) ([]core.Object, bool) {
	if len(args) < n {
		return nil, false
	}
	return args[len(args)-n:], true
}

// numbers converts the final n operands to floats
func numbers(args []core.Object, n int) ([]float64, bool) {
	args, ok := last(args, n)
	if !ok {
		return nil, false
	}
	out := make([]float64, n)
	for i, obj := range args {
		f, ok := core.ToFloat(obj)
		if !ok {
			return nil, false
		}
		out[i] = f
	}
	return out, true
}
