package model

import "math"

// Point is a position in user space
type Point struct {
	X, Y float64
}

// BBox is a page box with its origin at the lower-left corner
type BBox struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// NewBBoxFromPoints creates a box from two opposite corners given in
// either order, as a /MediaBox array may list them.
func NewBBoxFromPoints(p1, p2 Point) BBox {
	return BBox{
		X:      math.Min(p1.X, p2.X),
		Y:      math.Min(p1.Y, p2.Y),
		Width:  math.Abs(p2.X - p1.X),
		Height: math.Abs(p2.Y - p1.Y),
	}
}

// IsValid reports whether the box has a positive area
func (b BBox) IsValid() bool {
	return b.Width > 0 && b.Height > 0
}

// Matrix is an affine transform [a b c d e f]. Points are row vectors,
// so a point p maps to p × M.
type Matrix [6]float64

// Identity returns the identity transform
func Identity() Matrix {
	return Matrix{1, 0, 0, 1, 0, 0}
}

// Translate returns a pure translation
func Translate(tx, ty float64) Matrix {
	return Matrix{1, 0, 0, 1, tx, ty}
}

// Multiply returns m × other: m applied first, then other
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		m[0]*other[0] + m[1]*other[2],
		m[0]*other[1] + m[1]*other[3],
		m[2]*other[0] + m[3]*other[2],
		m[2]*other[1] + m[3]*other[3],
		m[4]*other[0] + m[5]*other[2] + other[4],
		m[4]*other[1] + m[5]*other[3] + other[5],
	}
}

// E is the horizontal translation
func (m Matrix) E() float64 { return m[4] }

// F is the vertical translation
func (m Matrix) F() float64 { return m[5] }
