// SPDX-License-Identifier: Unlicense OR MIT

package f32

import "math"

// Affine2D is a 2D affine transformation matrix, in row-major order:
//
//	[ a1 a2 a3 ]
//	[ b1 b2 b3 ]
//	[ 0  0  1  ]
//
// Affine2D values are immutable, and every method returns a new,
// independent value; composing transformations is done through Mul.
type Affine2D struct {
	a1, a2, a3 float32
	b1, b2, b3 float32
}

// NewAffine2D creates a new Affine2D transform from the matrix elements
// in row-major order.
func NewAffine2D(a1, a2, a3, b1, b2, b3 float32) Affine2D {
	return Affine2D{a1: a1, a2: a2, a3: a3, b1: b1, b2: b2, b3: b3}
}

func identityAffine2D() Affine2D {
	return Affine2D{a1: 1, b2: 1}
}

func (a Affine2D) isZero() bool {
	return a == Affine2D{}
}

// Offset the transformation by the vector p. Offset composes after any
// transform already accumulated in a, so p is applied in a's post-transform
// coordinates.
func (a Affine2D) Offset(p Point) Affine2D {
	return Affine2D{a1: 1, a2: 0, a3: p.X, b1: 0, b2: 1, b3: p.Y}.Mul(a)
}

// Scale the transformation around the fixed point p, composing after a.
func (a Affine2D) Scale(p Point, s Point) Affine2D {
	return Affine2D{
		a1: s.X, a2: 0, a3: p.X - s.X*p.X,
		b1: 0, b2: s.Y, b3: p.Y - s.Y*p.Y,
	}.Mul(a)
}

// Rotate the transformation around the fixed point p by angle radians
// clockwise, composing after a.
func (a Affine2D) Rotate(p Point, angle float32) Affine2D {
	sin, cos := float32(math.Sin(float64(angle))), float32(math.Cos(float64(angle)))
	return Affine2D{
		a1: cos, a2: -sin, a3: p.X - cos*p.X + sin*p.Y,
		b1: sin, b2: cos, b3: p.Y - sin*p.X - cos*p.Y,
	}.Mul(a)
}

// Shear the transformation around the fixed point p, with angles in
// radians, composing after a.
func (a Affine2D) Shear(p Point, sx, sy float32) Affine2D {
	tx, ty := float32(math.Tan(float64(sx))), float32(math.Tan(float64(sy)))
	return Affine2D{
		a1: 1, a2: tx, a3: -tx * p.Y,
		b1: ty, b2: 1, b3: -ty * p.X,
	}.Mul(a)
}

// Mul returns the transform equivalent to applying a2 first, then a: for
// a point p, a.Mul(a2).Transform(p) == a.Transform(a2.Transform(p)).
func (a Affine2D) Mul(a2 Affine2D) Affine2D {
	if a.isZero() {
		a = identityAffine2D()
	}
	if a2.isZero() {
		a2 = identityAffine2D()
	}
	return Affine2D{
		a1: a.a1*a2.a1 + a.a2*a2.b1,
		a2: a.a1*a2.a2 + a.a2*a2.b2,
		a3: a.a1*a2.a3 + a.a2*a2.b3 + a.a3,
		b1: a.b1*a2.a1 + a.b2*a2.b1,
		b2: a.b1*a2.a2 + a.b2*a2.b2,
		b3: a.b1*a2.a3 + a.b2*a2.b3 + a.b3,
	}
}

// Transform p by a.
func (a Affine2D) Transform(p Point) Point {
	if a.isZero() {
		return p
	}
	return Point{
		X: a.a1*p.X + a.a2*p.Y + a.a3,
		Y: a.b1*p.X + a.b2*p.Y + a.b3,
	}
}

// Invert returns the inverse of a. Invert panics if a is singular.
func (a Affine2D) Invert() Affine2D {
	if a.isZero() {
		return a
	}
	det := a.a1*a.b2 - a.a2*a.b1
	if det == 0 {
		panic("f32: cannot invert a singular Affine2D")
	}
	invDet := 1 / det
	ia1 := a.b2 * invDet
	ia2 := -a.a2 * invDet
	ib1 := -a.b1 * invDet
	ib2 := a.a1 * invDet
	return Affine2D{
		a1: ia1, a2: ia2, a3: -(ia1*a.a3 + ia2*a.b3),
		b1: ib1, b2: ib2, b3: -(ib1*a.a3 + ib2*a.b3),
	}
}

// Elems decomposes a into its raw matrix elements, in row-major order.
func (a Affine2D) Elems() (a1, a2, a3, b1, b2, b3 float32) {
	if a.isZero() {
		a = identityAffine2D()
	}
	return a.a1, a.a2, a.a3, a.b1, a.b2, a.b3
}

// ScaleFactor returns the uniform scale factor implied by a, under the
// assumption that a carries no independent x/y scaling or shear — true
// for every transform built purely from Offset, Rotate and uniform
// Scale calls, which is the only composition the selection transform
// produces.
func (a Affine2D) ScaleFactor() float32 {
	if a.isZero() {
		return 1
	}
	return float32(math.Hypot(float64(a.a1), float64(a.b1)))
}
