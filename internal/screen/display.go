package screen

// DisplayTransformer supplies the host platform's sensor-to-screen mapping
// for an orientation and viewport size. The matrix operates in unit-square
// coordinates and is treated as opaque.
type DisplayTransformer interface {
	DisplayTransform(o Orientation, viewport Size) Affine
}

// DisplayFunc adapts a function to DisplayTransformer.
type DisplayFunc func(o Orientation, viewport Size) Affine

func (f DisplayFunc) DisplayTransform(o Orientation, viewport Size) Affine {
	return f(o, viewport)
}

// DisplayTable returns a fixed matrix per orientation, ignoring the
// viewport. Missing orientations map to the identity.
type DisplayTable map[Orientation]Affine

func (t DisplayTable) DisplayTransform(o Orientation, _ Size) Affine {
	if m, ok := t[o]; ok {
		return m
	}
	return Identity()
}

// QuarterTurnDisplay models a sensor that delivers landscape-right images:
// every orientation is a rotation about the unit square's centre. It does
// not crop for aspect-fill, so it only approximates a real device.
var QuarterTurnDisplay = DisplayTable{
	Portrait:           {A: 0, B: 1, C: 0, D: -1, E: 0, F: 1},
	PortraitUpsideDown: {A: 0, B: -1, C: 1, D: 1, E: 0, F: 0},
	LandscapeLeft:      {A: -1, B: 0, C: 1, D: 0, E: -1, F: 1},
	LandscapeRight:     Identity(),
}
