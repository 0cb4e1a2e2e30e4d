package screen

// Stage indexes into the array returned by Stages.
const (
	StageNormalize = iota
	StageFlip
	StageDisplay
	StageViewport
)

// Stages returns the four transforms of the screen pipeline in application
// order: normalize capture pixels to the unit square, flip for portrait
// orientations, apply the display transform, scale to viewport pixels.
//
// A non-positive capture dimension yields a collapsed normalize stage, so
// the composed transform is not invertible.
func Stages(o Orientation, viewport, capture Size, display DisplayTransformer) [4]Affine {
	var st [4]Affine

	normalize := Scale(0, 0)
	if capture.W > 0 && capture.H > 0 {
		normalize = Scale(1/capture.W, 1/capture.H)
	}
	st[StageNormalize] = normalize

	st[StageFlip] = Identity()
	if o.IsPortrait() {
		// (x, y) -> (1-x, 1-y): a half turn about the unit square's centre.
		st[StageFlip] = Translate(-1, -1).Then(Scale(-1, -1))
	}

	st[StageDisplay] = Identity()
	if display != nil {
		st[StageDisplay] = display.DisplayTransform(o, viewport)
	}

	st[StageViewport] = Scale(viewport.W, viewport.H)
	return st
}

// BuildTransform composes Stages into a single matrix mapping capture
// pixel coordinates to viewport pixels.
func BuildTransform(o Orientation, viewport, capture Size, display DisplayTransformer) Affine {
	st := Stages(o, viewport, capture, display)
	m := st[0]
	for _, s := range st[1:] {
		m = m.Then(s)
	}
	return m
}
