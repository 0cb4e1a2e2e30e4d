// Package screen maps decoded sensor imagery into display viewports.
//
// The mapping is a fixed four-stage affine pipeline: normalize sensor pixels
// to the unit square, flip for portrait orientations, apply the host's
// sensor-to-screen display transform, and scale up to viewport pixels.
// Orientation and viewport size are always passed in explicitly.
package screen

import "math"

// Point is a 2D position.
type Point struct {
	X, Y float64
}

// Size is a 2D extent.
type Size struct {
	W, H float64
}

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// Size returns the rectangle's extent.
func (r Rect) Size() Size { return Size{W: r.W, H: r.H} }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point { return Point{X: r.X + r.W/2, Y: r.Y + r.H/2} }

// Affine is a 2D affine transform stored as the top two rows of a 3x3
// matrix:
//
//	| A  B  C |
//	| D  E  F |
//
// mapping x' = A*x + B*y + C and y' = D*x + E*y + F.
type Affine struct {
	A, B, C float64
	D, E, F float64
}

// Identity returns the identity transform.
func Identity() Affine {
	return Affine{A: 1, E: 1}
}

// Scale returns a scaling transform.
func Scale(sx, sy float64) Affine {
	return Affine{A: sx, E: sy}
}

// Translate returns a translation.
func Translate(tx, ty float64) Affine {
	return Affine{A: 1, C: tx, E: 1, F: ty}
}

// Then returns the transform that applies m first and next second.
func (m Affine) Then(next Affine) Affine {
	return Affine{
		A: next.A*m.A + next.B*m.D,
		B: next.A*m.B + next.B*m.E,
		C: next.A*m.C + next.B*m.F + next.C,
		D: next.D*m.A + next.E*m.D,
		E: next.D*m.B + next.E*m.E,
		F: next.D*m.C + next.E*m.F + next.F,
	}
}

// Apply maps a point through the transform.
func (m Affine) Apply(p Point) Point {
	return Point{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
	}
}

// Invert returns the inverse transform. ok is false when the matrix is
// singular or not finite.
func (m Affine) Invert() (inv Affine, ok bool) {
	det := m.A*m.E - m.B*m.D
	if math.Abs(det) < 1e-12 || math.IsNaN(det) || math.IsInf(det, 0) {
		return Identity(), false
	}
	d := 1 / det
	return Affine{
		A: m.E * d,
		B: -m.B * d,
		C: (m.B*m.F - m.C*m.E) * d,
		D: -m.D * d,
		E: m.A * d,
		F: (m.C*m.D - m.A*m.F) * d,
	}, true
}

// IsIdentity reports whether m is exactly the identity.
func (m Affine) IsIdentity() bool {
	return m == Identity()
}
