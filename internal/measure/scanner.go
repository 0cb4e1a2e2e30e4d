// Package measure estimates the vertical extent of the object in front of
// the camera by probing a live 3D scene with rays.
//
// The scan has two phases. A horizontal sweep through the middle of the
// view finds the closest surface. A serpentine walk around that point then
// collects every hit lying in the same depth band, and the height is the
// vertical spread of those hits plus a fixed compensation.
package measure

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/depthkit/internal/config"
	"github.com/banshee-data/depthkit/internal/depth"
	"github.com/banshee-data/depthkit/internal/monitoring"
	"github.com/banshee-data/depthkit/internal/screen"
	"github.com/banshee-data/depthkit/internal/timeutil"
)

// HeightCompensation is added to every measured extent to offset the bias
// of the reconstructed scene geometry.
const HeightCompensation = 0.03

// clockCheckInterval is how many casts pass between wall-clock and
// context checks.
const clockCheckInterval = 64

var (
	// ErrNoSurface means the phase 1 sweep produced no hit at all.
	ErrNoSurface = fmt.Errorf("%w: no surface under the sweep line", depth.ErrNoValue)
	// ErrNoSilhouette means the walk accepted no hit in the depth band.
	ErrNoSilhouette = fmt.Errorf("%w: no hits in the closest surface's depth band", depth.ErrNoValue)
	// ErrSweepStalled means the sweep step is too small to move across the
	// view at its scale.
	ErrSweepStalled = errors.New("measure: sweep step does not advance across the view")
)

// Ray is a half-line in scene coordinates.
type Ray struct {
	Origin    r3.Vec
	Direction r3.Vec
}

// Hit is the nearest intersection of a ray with the scene.
type Hit struct {
	Position r3.Vec
	Distance float64
}

// RayCaster answers nearest-hit queries against a scene.
type RayCaster interface {
	Cast(origin, direction r3.Vec) (Hit, bool)
}

// Camera unprojects a viewport point into a scene ray.
type Camera interface {
	RayThrough(p screen.Point) (Ray, bool)
}

// Measurement is the result of one height scan.
type Measurement struct {
	Height          float64
	Closest         r3.Vec
	ClosestDistance float64
	// SweepCasts counts phase 1 casts. Probes counts phase 2 casts and
	// Accepted those in the depth band. MaxProbes bounds the sum.
	SweepCasts int
	Probes     int
	Accepted   int
	// Truncated is set when a probe or time budget stopped the scan early.
	Truncated bool
}

// Scanner runs height scans. It holds no per-scan state and may be shared.
type Scanner struct {
	params config.ScanParams
	clock  timeutil.Clock
}

// NewScanner creates a Scanner. A nil clock uses the real clock.
// Non-positive geometric parameters, and a sweep step below
// config.MinSweepStepPx, are replaced by their defaults. MaxProbes and
// MaxDuration keep zero as "disabled".
func NewScanner(params config.ScanParams, clock timeutil.Clock) *Scanner {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	d := config.DefaultScanParams()
	for _, f := range []struct{ v, def *float64 }{
		{&params.SweepFraction, &d.SweepFraction},
		{&params.SweepStepPx, &d.SweepStepPx},
		{&params.WalkStep, &d.WalkStep},
		{&params.HalfWidth, &d.HalfWidth},
		{&params.HalfHeight, &d.HalfHeight},
		{&params.DepthBand, &d.DepthBand},
	} {
		if !(*f.v > 0) {
			*f.v = *f.def
		}
	}
	if params.SweepStepPx < config.MinSweepStepPx {
		params.SweepStepPx = d.SweepStepPx
	}
	return &Scanner{params: params, clock: clock}
}

// Params returns the resolved parameters the scanner runs with.
func (s *Scanner) Params() config.ScanParams { return s.params }

// budget meters casts across both phases. Every cast is charged against
// MaxProbes; the context and the deadline are polled every
// clockCheckInterval casts.
type budget struct {
	ctx      context.Context
	clock    timeutil.Clock
	max      int
	window   time.Duration
	deadline time.Time
	casts    int
	// exhausted names the budget that ran out, for logging.
	exhausted string
}

// spend charges one cast. It returns false when a budget is exhausted and
// a non-nil error when ctx is done.
func (b *budget) spend() (bool, error) {
	if b.max > 0 && b.casts >= b.max {
		b.exhausted = fmt.Sprintf("probe budget %d", b.max)
		return false, nil
	}
	if b.casts > 0 && b.casts%clockCheckInterval == 0 {
		if err := b.ctx.Err(); err != nil {
			return false, err
		}
		if !b.deadline.IsZero() && !b.clock.Now().Before(b.deadline) {
			b.exhausted = "time budget " + b.window.String()
			return false, nil
		}
	}
	b.casts++
	return true, nil
}

// MeasureHeight scans the scene around center, where bounds is the size of
// the view the camera renders into.
//
// It returns an error wrapping depth.ErrNoValue when the sweep finds no
// surface or the walk accepts nothing, ErrSweepStalled when the sweep step
// cannot move across bounds, and ctx.Err() if ctx is cancelled.
// Exhausting the probe or time budget is not an error by itself: the
// partial result comes back with Truncated set.
func (s *Scanner) MeasureHeight(ctx context.Context, cam Camera, rc RayCaster, center screen.Point, bounds screen.Size) (Measurement, error) {
	if err := ctx.Err(); err != nil {
		return Measurement{}, err
	}
	b := &budget{ctx: ctx, clock: s.clock, max: s.params.MaxProbes, window: s.params.MaxDuration}
	if s.params.MaxDuration > 0 {
		b.deadline = s.clock.Now().Add(s.params.MaxDuration)
	}

	var m Measurement
	closest, origin, dist, err := s.closestSurface(b, cam, rc, center, bounds, &m)
	if err != nil {
		return m, err
	}
	m.Closest, m.ClosestDistance = closest, dist

	ys, err := s.walkSilhouette(b, rc, origin, closest, &m)
	if err != nil {
		return Measurement{}, err
	}
	if len(ys) == 0 {
		return m, ErrNoSilhouette
	}
	m.Height = floats.Max(ys) - floats.Min(ys) + HeightCompensation
	return m, nil
}

// closestSurface sweeps a horizontal line of rays through center and
// returns the nearest hit and the origin of the ray that produced it.
func (s *Scanner) closestSurface(b *budget, cam Camera, rc RayCaster, center screen.Point, bounds screen.Size, m *Measurement) (closest, origin r3.Vec, dist float64, err error) {
	offset := bounds.W * s.params.SweepFraction
	step := s.params.SweepStepPx
	start, end := center.X-offset, center.X+offset
	if start < end && !(start+step > start) {
		return r3.Vec{}, r3.Vec{}, 0, fmt.Errorf("%w: step %g at x=%g", ErrSweepStalled, step, start)
	}

	dist = math.Inf(1)
	found := false
	// x is derived from the index so rounding cannot pin it in place.
	for i := 0; ; i++ {
		x := start + float64(i)*step
		if !(x < end) {
			break
		}
		ok, err := b.spend()
		if err != nil {
			return r3.Vec{}, r3.Vec{}, 0, err
		}
		if !ok {
			m.Truncated = true
			monitoring.Logf("height scan: %s exhausted during the sweep at x=%.1f", b.exhausted, x)
			break
		}
		m.SweepCasts++
		ray, ok := cam.RayThrough(screen.Point{X: x, Y: center.Y})
		if !ok {
			continue
		}
		hit, ok := rc.Cast(ray.Origin, ray.Direction)
		if !ok {
			continue
		}
		if hit.Distance < dist {
			dist = hit.Distance
			closest = hit.Position
			origin = ray.Origin
			found = true
		}
	}
	if !found {
		return r3.Vec{}, r3.Vec{}, 0, ErrNoSurface
	}
	monitoring.Debugf("height scan: closest surface %.3f at (%.3f, %.3f, %.3f)", dist, closest.X, closest.Y, closest.Z)
	return closest, origin, dist, nil
}

// walkSilhouette probes around the closest point and returns the vertical
// positions of every hit inside the depth band. The slice lives only for
// this scan.
func (s *Scanner) walkSilhouette(b *budget, rc RayCaster, origin, closest r3.Vec, m *Measurement) ([]float64, error) {
	p := s.params
	w := newWalk(closest, p.WalkStep, p.HalfWidth, p.HalfHeight)

	var ys []float64
	for !m.Truncated && w.next() {
		ok, err := b.spend()
		if err != nil {
			return nil, err
		}
		if !ok {
			m.Truncated = true
			monitoring.Logf("height scan: %s exhausted after %d probes at %s, y=%.3f", b.exhausted, m.Probes, w.dir, w.probe.Y)
			break
		}

		m.Probes++
		hit, ok := rc.Cast(origin, r3.Sub(w.probe, origin))
		if !ok {
			continue
		}
		if math.Abs(hit.Position.Z-closest.Z) < p.DepthBand {
			ys = append(ys, hit.Position.Y)
		}
	}
	m.Accepted = len(ys)
	return ys, nil
}
