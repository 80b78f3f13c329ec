package graphicsstate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tsawler/pdfcore/model"
)

func TestNewTextState(t *testing.T) {
	ts := NewTextState()
	assert.Equal(t, 12.0, ts.FontSize)
	assert.Equal(t, 100.0, ts.HorizontalScale)
	assert.Equal(t, model.Identity(), ts.Tm)
	assert.Equal(t, model.Identity(), ts.Tlm)
	assert.Empty(t, ts.FontName)
}

func TestSaveRestore(t *testing.T) {
	s := NewStack()
	s.SetFont("Helvetica", 14)
	s.Translate(10, 20)

	s.Save()
	s.SetFont("Times", 18)
	s.Translate(5, 5)
	s.SetCharSpacing(2)
	assert.Equal(t, "Times", s.Current().FontName)

	assert.True(t, s.Restore())
	cur := s.Current()
	assert.Equal(t, "Helvetica", cur.FontName)
	assert.Equal(t, 14.0, cur.FontSize)
	assert.Equal(t, 0.0, cur.CharSpacing)
	x, y := cur.Position()
	assert.Equal(t, 10.0, x)
	assert.Equal(t, 20.0, y)
	assert.False(t, s.Restore(), "stack is empty again")
}

func TestUnbalancedRestore(t *testing.T) {
	s := NewStack()
	s.SetFont("F1", 9)
	assert.False(t, s.Restore())
	assert.Equal(t, "F1", s.Current().FontName)
}

func TestSnapshotsAreIndependent(t *testing.T) {
	s := NewStack()
	s.Save()
	snapshot := s.Current()
	s.SetMatrix(model.Matrix{2, 0, 0, 2, 50, 50})
	assert.Equal(t, model.Identity(), snapshot.Tm)

	s.Restore()
	assert.Equal(t, model.Identity(), s.Current().Tm)
}

func TestTextPositioning(t *testing.T) {
	tests := []struct {
		name  string
		run   func(s *Stack)
		wantX float64
		wantY float64
	}{
		{
			name:  "Td",
			run:   func(s *Stack) { s.Translate(100, 700) },
			wantX: 100, wantY: 700,
		},
		{
			name: "Td accumulates",
			run: func(s *Stack) {
				s.Translate(100, 700)
				s.Translate(0, -20)
			},
			wantX: 100, wantY: 680,
		},
		{
			name: "Td in scaled line space",
			run: func(s *Stack) {
				s.SetMatrix(model.Matrix{2, 0, 0, 2, 10, 10})
				s.Translate(5, 5)
			},
			wantX: 20, wantY: 20,
		},
		{
			name: "TD sets leading",
			run: func(s *Stack) {
				s.Translate(72, 720)
				s.TranslateSetLeading(0, -14)
				s.NextLine()
			},
			wantX: 72, wantY: 692,
		},
		{
			name: "T* with TL",
			run: func(s *Stack) {
				s.SetMatrix(model.Matrix{1, 0, 0, 1, 50, 500})
				s.SetLeading(12)
				s.NextLine()
				s.NextLine()
			},
			wantX: 50, wantY: 476,
		},
		{
			name: "BT resets",
			run: func(s *Stack) {
				s.Translate(100, 100)
				s.BeginText()
			},
			wantX: 0, wantY: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStack()
			tt.run(s)
			x, y := s.Current().Position()
			assert.InDelta(t, tt.wantX, x, 1e-9)
			assert.InDelta(t, tt.wantY, y, 1e-9)
			assert.Equal(t, s.Current().Tm, s.Current().Tlm)
		})
	}
}

func TestSetters(t *testing.T) {
	s := NewStack()
	s.SetCharSpacing(1.5)
	s.SetWordSpacing(3)
	s.SetLeading(14)
	s.SetHorizontalScale(80)
	s.SetRise(2)

	cur := s.Current()
	assert.Equal(t, 1.5, cur.CharSpacing)
	assert.Equal(t, 3.0, cur.WordSpacing)
	assert.Equal(t, 14.0, cur.Leading)
	assert.Equal(t, 80.0, cur.HorizontalScale)
	assert.Equal(t, 2.0, cur.Rise)
}
