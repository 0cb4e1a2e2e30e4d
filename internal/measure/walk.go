package measure

import "gonum.org/v1/gonum/spatial/r3"

// Direction is the state of the serpentine silhouette walk: horizontal
// heading combined with vertical pass.
type Direction uint8

const (
	RightUp Direction = iota
	LeftUp
	RightDown
	LeftDown
	// Done is terminal: the downward pass crossed the lower bound.
	Done
)

func (d Direction) String() string {
	switch d {
	case RightUp:
		return "right-up"
	case LeftUp:
		return "left-up"
	case RightDown:
		return "right-down"
	case LeftDown:
		return "left-down"
	case Done:
		return "done"
	}
	return "invalid"
}

// walk traces a rectangle centred on an anchor point, one probe per step.
// Each row is covered from the anchor outward to the right, then from the
// anchor outward to the left, before moving one step vertically. The
// upward pass runs until the row passes anchor.Y+halfHeight; the downward
// pass then restarts just below the anchor and ends once the row passes
// anchor.Y-halfHeight.
//
// Vertical bounds are only checked while heading left, so the first row
// beyond the upper bound is still probed on its right side.
type walk struct {
	anchor     r3.Vec
	probe      r3.Vec
	dir        Direction
	step       float64
	halfWidth  float64
	halfHeight float64
}

func newWalk(anchor r3.Vec, step, halfWidth, halfHeight float64) *walk {
	return &walk{
		anchor:     anchor,
		probe:      anchor,
		dir:        RightUp,
		step:       step,
		halfWidth:  halfWidth,
		halfHeight: halfHeight,
	}
}

// next advances the probe by one transition. It returns false once the
// walk reaches Done, in which case the probe must not be cast.
func (w *walk) next() bool {
	a := w.anchor
	switch w.dir {
	case RightUp, RightDown:
		w.probe.X += w.step
		if w.probe.X > a.X+w.halfWidth {
			w.dir = w.dir.turn()
			w.probe.X = a.X
		}
	case LeftUp:
		w.probe.X -= w.step
		switch {
		case w.probe.Y > a.Y+w.halfHeight:
			w.dir = RightDown
			w.probe.X = a.X
			w.probe.Y = a.Y - w.step
		case w.probe.X < a.X-w.halfWidth:
			w.dir = RightUp
			w.probe.X = a.X
			w.probe.Y += w.step
		}
	case LeftDown:
		w.probe.X -= w.step
		switch {
		case w.probe.Y < a.Y-w.halfHeight:
			w.dir = Done
		case w.probe.X < a.X-w.halfWidth:
			w.dir = RightDown
			w.probe.X = a.X
			w.probe.Y -= w.step
		}
	}
	return w.dir != Done
}

// turn flips the horizontal heading and keeps the vertical pass.
func (d Direction) turn() Direction {
	switch d {
	case RightUp:
		return LeftUp
	case LeftUp:
		return RightUp
	case RightDown:
		return LeftDown
	case LeftDown:
		return RightDown
	}
	return d
}
