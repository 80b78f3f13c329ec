package graphicsstate

import "github.com/tsawler/pdfcore/model"

// Default text state values
const (
	DefaultFontSize        = 12.0
	DefaultHorizontalScale = 100.0
)

// TextState represents text-specific state. It is a value type: copying
// it takes a snapshot.
type TextState struct {
	// Font and size
	FontName string
	FontSize float64

	// Text matrix and text line matrix
	Tm  model.Matrix
	Tlm model.Matrix

	// Character and word spacing
	CharSpacing float64
	WordSpacing float64

	// Leading (line spacing)
	Leading float64

	// Horizontal scaling (percentage)
	HorizontalScale float64

	// Text rise
	Rise float64
}

// NewTextState returns the state in effect at the start of a content
// stream.
func NewTextState() TextState {
	return TextState{
		FontSize:        DefaultFontSize,
		HorizontalScale: DefaultHorizontalScale,
		Tm:              model.Identity(),
		Tlm:             model.Identity(),
	}
}

// Position returns the current text position (the translation part of
// the text matrix).
func (ts TextState) Position() (x, y float64) {
	return ts.Tm.E(), ts.Tm.F()
}

// Stack holds the current text state and the snapshots saved by q.
// Each Save pushes a copy, each Restore replaces the current state with
// the most recent copy, so saved states are never shared.
type Stack struct {
	current TextState
	saved   []TextState
}

// NewStack creates a stack holding the default text state
func NewStack() *Stack {
	return &Stack{current: NewTextState()}
}

// Current returns a copy of the current state
func (s *Stack) Current() TextState {
	return s.current
}

// Save pushes the current state onto the stack (q operator)
func (s *Stack) Save() {
	s.saved = append(s.saved, s.current)
}

// Restore pops the most recent saved state (Q operator). A Q without a
// matching q leaves the state alone and reports false.
func (s *Stack) Restore() bool {
	if len(s.saved) == 0 {
		return false
	}
	s.current = s.saved[len(s.saved)-1]
	s.saved = s.saved[:len(s.saved)-1]
	return true
}

// BeginText resets the text and line matrices (BT operator)
func (s *Stack) BeginText() {
	s.current.Tm = model.Identity()
	s.current.Tlm = model.Identity()
}

// SetFont sets the current font (Tf operator)
func (s *Stack) SetFont(name string, size float64) {
	s.current.FontName = name
	s.current.FontSize = size
}

// Translate moves to the start of the next line, offset by (tx, ty) in
// the line matrix's own space (Td operator).
func (s *Stack) Translate(tx, ty float64) {
	s.current.Tlm = model.Translate(tx, ty).Multiply(s.current.Tlm)
	s.current.Tm = s.current.Tlm
}

// TranslateSetLeading sets the leading to -ty and translates (TD operator)
func (s *Stack) TranslateSetLeading(tx, ty float64) {
	s.current.Leading = -ty
	s.Translate(tx, ty)
}

// SetMatrix sets both the text and line matrices (Tm operator)
func (s *Stack) SetMatrix(m model.Matrix) {
	s.current.Tm = m
	s.current.Tlm = m
}

// NextLine moves down by the leading (T* operator)
func (s *Stack) NextLine() {
	s.Translate(0, -s.current.Leading)
}

// SetCharSpacing sets character spacing (Tc operator)
func (s *Stack) SetCharSpacing(spacing float64) {
	s.current.CharSpacing = spacing
}

// SetWordSpacing sets word spacing (Tw operator)
func (s *Stack) SetWordSpacing(spacing float64) {
	s.current.WordSpacing = spacing
}

// SetLeading sets text leading (TL operator)
func (s *Stack) SetLeading(leading float64) {
	s.current.Leading = leading
}

// SetHorizontalScale sets horizontal scaling (Tz operator)
func (s *Stack) SetHorizontalScale(scale float64) {
	s.current.HorizontalScale = scale
}

// SetRise sets text rise (Ts operator)
func (s *Stack) SetRise(rise float64) {
	s.current.Rise = rise
}
