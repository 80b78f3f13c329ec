package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBBoxFromPoints(t *testing.T) {
	tests := []struct {
		name   string
		p1, p2 Point
		want   BBox
	}{
		{"ordered", Point{0, 0}, Point{612, 792}, BBox{0, 0, 612, 792}},
		{"reversed", Point{612, 792}, Point{0, 0}, BBox{0, 0, 612, 792}},
		{"offset", Point{10, 20}, Point{110, 220}, BBox{10, 20, 100, 200}},
		{"mixed corners", Point{0, 792}, Point{612, 0}, BBox{0, 0, 612, 792}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewBBoxFromPoints(tt.p1, tt.p2)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.IsValid())
		})
	}
}

func TestBBoxIsValid(t *testing.T) {
	assert.True(t, BBox{X: 10, Y: 20, Width: 100, Height: 50}.IsValid())
	assert.False(t, BBox{}.IsValid())
	assert.False(t, BBox{Width: 612}.IsValid())
}

func TestMatrixMultiply(t *testing.T) {
	scale := Matrix{2, 0, 0, 3, 0, 0}
	tests := []struct {
		name string
		a, b Matrix
		want Matrix
	}{
		{"identity", Identity(), Translate(3, 4), Translate(3, 4)},
		{"translations add", Translate(1, 2), Translate(3, 4), Translate(4, 6)},
		{"translate then scale", Translate(10, 10), scale, Matrix{2, 0, 0, 3, 20, 30}},
		{"scale then translate", scale, Translate(10, 10), Matrix{2, 0, 0, 3, 10, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Multiply(tt.b))
		})
	}
}

func TestMatrixAccessors(t *testing.T) {
	m := Matrix{2, 0, 0, 2, 100, 700}
	assert.Equal(t, 100.0, m.E())
	assert.Equal(t, 700.0, m.F())
	assert.Equal(t, Matrix{1, 0, 0, 1, 0, 0}, Identity())
}

func TestTranslateInLineSpace(t *testing.T) {
	// Td moves in the line matrix's own space: e' = e + tx*a + ty*c
	tlm := Matrix{2, 0, 0, 3, 50, 60}
	got := Translate(10, -5).Multiply(tlm)
	assert.Equal(t, 70.0, got.E())
	assert.Equal(t, 45.0, got.F())
}
