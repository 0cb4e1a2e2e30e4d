package screen

import "github.com/banshee-data/depthkit/internal/depth"

// TapToCoord maps a viewport tap back through t into a normalized buffer
// coordinate, for tap-to-sample. ok is false when t is singular or the
// capture size is degenerate.
func TapToCoord(t Affine, tap Point, capture Size) (c depth.Coord, ok bool) {
	if capture.W <= 0 || capture.H <= 0 {
		return depth.Coord{}, false
	}
	inv, ok := t.Invert()
	if !ok {
		return depth.Coord{}, false
	}
	p := inv.Apply(tap)
	return depth.Coord{X: float32(p.X / capture.W), Y: float32(p.Y / capture.H)}, true
}

// NormalizeTap divides a tap position by the view bounds, the direct path
// used when the depth overlay is stretched over the whole view. Degenerate
// bounds give the origin.
func NormalizeTap(tap Point, bounds Size) depth.Coord {
	if bounds.W <= 0 || bounds.H <= 0 {
		return depth.Coord{}
	}
	return depth.Coord{X: float32(tap.X / bounds.W), Y: float32(tap.Y / bounds.H)}
}
