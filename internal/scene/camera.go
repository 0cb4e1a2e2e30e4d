package scene

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/depthkit/internal/measure"
	"github.com/banshee-data/depthkit/internal/screen"
)

// Pinhole is a camera at Eye looking down -Z with +Y up. Viewport is the
// size of the view in pixels, FovY the vertical field of view in radians.
// It implements measure.Camera.
type Pinhole struct {
	Eye      r3.Vec
	Viewport screen.Size
	FovY     float64
}

// RayThrough unprojects a viewport pixel position. The viewport centre
// maps to the optical axis.
func (c Pinhole) RayThrough(p screen.Point) (measure.Ray, bool) {
	if c.Viewport.W <= 0 || c.Viewport.H <= 0 || !(c.FovY > 0 && c.FovY < math.Pi) {
		return measure.Ray{}, false
	}
	half := math.Tan(c.FovY / 2)
	aspect := c.Viewport.W / c.Viewport.H
	nx := (2*p.X/c.Viewport.W - 1) * half * aspect
	ny := (1 - 2*p.Y/c.Viewport.H) * half
	return measure.Ray{
		Origin:    c.Eye,
		Direction: r3.Unit(r3.Vec{X: nx, Y: ny, Z: -1}),
	}, true
}
