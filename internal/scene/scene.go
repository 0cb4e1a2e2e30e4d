// Package scene provides a small analytic ray-casting world: bounded planes
// and axis-aligned boxes viewed through a pinhole camera. It stands in for
// a device's reconstructed mesh when replaying or testing height scans.
package scene

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/depthkit/internal/measure"
)

// Shape is anything a ray can hit.
type Shape interface {
	// Intersect returns the ray parameter t > 0 of the first hit along
	// origin + t*direction.
	Intersect(origin, direction r3.Vec) (t float64, ok bool)
}

// Plane is a rectangle facing the Z axis at depth Z.
type Plane struct {
	Z          float64
	MinX, MaxX float64
	MinY, MaxY float64
}

// Intersect implements Shape. Bounds are inclusive.
func (p Plane) Intersect(o, d r3.Vec) (float64, bool) {
	if d.Z == 0 {
		return 0, false
	}
	t := (p.Z - o.Z) / d.Z
	if !(t > 0) {
		return 0, false
	}
	x := o.X + t*d.X
	y := o.Y + t*d.Y
	if x < p.MinX || x > p.MaxX || y < p.MinY || y > p.MaxY {
		return 0, false
	}
	return t, true
}

// Box is an axis-aligned box between Min and Max.
type Box struct {
	Min, Max r3.Vec
}

// Intersect implements Shape with the slab method. A ray starting inside
// the box hits its exit face.
func (b Box) Intersect(o, d r3.Vec) (float64, bool) {
	tmin, tmax := math.Inf(-1), math.Inf(1)
	for _, ax := range [3]struct{ o, d, lo, hi float64 }{
		{o.X, d.X, b.Min.X, b.Max.X},
		{o.Y, d.Y, b.Min.Y, b.Max.Y},
		{o.Z, d.Z, b.Min.Z, b.Max.Z},
	} {
		if ax.d == 0 {
			if ax.o < ax.lo || ax.o > ax.hi {
				return 0, false
			}
			continue
		}
		t1 := (ax.lo - ax.o) / ax.d
		t2 := (ax.hi - ax.o) / ax.d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	switch {
	case tmin > 0:
		return tmin, true
	case tmax > 0:
		return tmax, true
	}
	return 0, false
}

// Scene is a set of shapes. It implements measure.RayCaster.
type Scene struct {
	Shapes []Shape
}

// New returns a scene holding shapes.
func New(shapes ...Shape) *Scene {
	return &Scene{Shapes: shapes}
}

// Add appends a shape.
func (s *Scene) Add(sh Shape) {
	s.Shapes = append(s.Shapes, sh)
}

// Cast returns the nearest hit along the ray. Direction need not be unit
// length; Distance is always in world units.
func (s *Scene) Cast(origin, direction r3.Vec) (measure.Hit, bool) {
	length := r3.Norm(direction)
	if length == 0 || math.IsNaN(length) || math.IsInf(length, 0) {
		return measure.Hit{}, false
	}
	best := math.Inf(1)
	for _, sh := range s.Shapes {
		if t, ok := sh.Intersect(origin, direction); ok && t < best {
			best = t
		}
	}
	if math.IsInf(best, 1) {
		return measure.Hit{}, false
	}
	return measure.Hit{
		Position: r3.Add(origin, r3.Scale(best, direction)),
		Distance: best * length,
	}, true
}
