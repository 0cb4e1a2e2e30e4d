package measure_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/depthkit/internal/config"
	"github.com/banshee-data/depthkit/internal/depth"
	"github.com/banshee-data/depthkit/internal/measure"
	"github.com/banshee-data/depthkit/internal/scene"
	"github.com/banshee-data/depthkit/internal/screen"
	"github.com/banshee-data/depthkit/internal/timeutil"
)

var (
	viewport = screen.Size{W: 600, H: 400}
	center   = screen.Point{X: 300, Y: 200}
	camera   = scene.Pinhole{Eye: r3.Vec{Z: 1}, Viewport: viewport, FovY: math.Pi / 3}

	// A one-unit-tall board facing the camera.
	board = scene.Plane{Z: 0, MinX: -0.3, MaxX: 0.3, MinY: -0.5, MaxY: 0.5}
	wall  = scene.Plane{Z: -3, MinX: -10, MaxX: 10, MinY: -10, MaxY: 10}
)

// exactParams walks on a binary-exact grid that lands on the board's edges.
func exactParams() config.ScanParams {
	p := config.DefaultScanParams()
	p.WalkStep = 0.0625
	p.HalfHeight = 0.5
	return p
}

func newScanner(p config.ScanParams) *measure.Scanner {
	return measure.NewScanner(p, timeutil.NewMockClock(time.Unix(0, 0)))
}

func TestMeasureHeight_Board(t *testing.T) {
	s := newScanner(exactParams())

	m, err := s.MeasureHeight(context.Background(), camera, scene.New(board), center, viewport)
	require.NoError(t, err)
	assert.InDelta(t, 1.03, m.Height, 1e-9)
	assert.Equal(t, r3.Vec{}, m.Closest)
	assert.Equal(t, 1.0, m.ClosestDistance)
	assert.False(t, m.Truncated)
	assert.Positive(t, m.Accepted)
	assert.Less(t, m.Accepted, m.Probes, "probes beyond the board's sides miss")
}

func TestMeasureHeight_IgnoresBackground(t *testing.T) {
	s := newScanner(exactParams())

	alone, err := s.MeasureHeight(context.Background(), camera, scene.New(board), center, viewport)
	require.NoError(t, err)
	withWall, err := s.MeasureHeight(context.Background(), camera, scene.New(board, wall), center, viewport)
	require.NoError(t, err)

	assert.Equal(t, alone.Height, withWall.Height)
	assert.Equal(t, alone.Accepted, withWall.Accepted)
	assert.Equal(t, alone.Probes, withWall.Probes)
}

func TestMeasureHeight_DefaultStep(t *testing.T) {
	s := newScanner(config.DefaultScanParams())

	m, err := s.MeasureHeight(context.Background(), camera, scene.New(board, wall), center, viewport)
	require.NoError(t, err)
	// 0.03 steps reach +/-0.48 on a board that ends at +/-0.5.
	assert.InDelta(t, 0.99, m.Height, 1e-9)
	assert.False(t, m.Truncated)
}

func TestMeasureHeight_NoSurface(t *testing.T) {
	s := newScanner(exactParams())

	_, err := s.MeasureHeight(context.Background(), camera, scene.New(), center, viewport)
	require.Error(t, err)
	assert.ErrorIs(t, err, measure.ErrNoSurface)
	assert.ErrorIs(t, err, depth.ErrNoValue)
}

// sweepOnly hits a surface for its first n casts and misses afterwards, so
// the sweep finds something and the walk does not.
type sweepOnly struct{ n int }

func (c *sweepOnly) Cast(origin, direction r3.Vec) (measure.Hit, bool) {
	if c.n <= 0 {
		return measure.Hit{}, false
	}
	c.n--
	return measure.Hit{Position: r3.Vec{}, Distance: 1}, true
}

func TestMeasureHeight_NoSilhouette(t *testing.T) {
	s := newScanner(exactParams())
	// The sweep covers [200, 400) one pixel at a time.
	rc := &sweepOnly{n: 200}

	m, err := s.MeasureHeight(context.Background(), camera, rc, center, viewport)
	require.Error(t, err)
	assert.ErrorIs(t, err, measure.ErrNoSilhouette)
	assert.ErrorIs(t, err, depth.ErrNoValue)
	assert.Zero(t, m.Accepted)
	assert.Positive(t, m.Probes)
}

func TestMeasureHeight_ProbeBudget(t *testing.T) {
	p := exactParams()
	// 200 sweep casts leave 100 for the walk.
	p.MaxProbes = 300
	s := newScanner(p)

	m, err := s.MeasureHeight(context.Background(), camera, scene.New(board), center, viewport)
	require.NoError(t, err)
	assert.True(t, m.Truncated)
	assert.Equal(t, 200, m.SweepCasts)
	assert.Equal(t, 100, m.Probes)
}

func TestMeasureHeight_TimeBudget(t *testing.T) {
	p := config.DefaultScanParams()
	p.MaxProbes = 0
	p.MaxDuration = 10 * time.Millisecond
	clock := timeutil.NewMockClock(time.Unix(0, 0))
	clock.SetAutoAdvance(time.Millisecond)
	s := measure.NewScanner(p, clock)

	m, err := s.MeasureHeight(context.Background(), camera, scene.New(board), center, viewport)
	require.NoError(t, err)
	assert.True(t, m.Truncated)
	// The deadline is read once, then checked every 64 casts across both
	// phases; each check advances the clock by a millisecond.
	assert.Equal(t, 200, m.SweepCasts)
	assert.Equal(t, 640-200, m.Probes)
}

// straightAhead sends every viewport point down the -Z axis, so sweeps of
// any width stay cheap to cast.
type straightAhead struct{}

func (straightAhead) RayThrough(screen.Point) (measure.Ray, bool) {
	return measure.Ray{Origin: r3.Vec{Z: 1}, Direction: r3.Vec{Z: -1}}, true
}

// A view this wide asks for 2e12 sweep casts at the default step.
var wideView = screen.Size{W: 6e12, H: 400}

func TestMeasureHeight_SweepHonoursProbeBudget(t *testing.T) {
	p := config.DefaultScanParams()
	p.MaxProbes = 50
	s := newScanner(p)

	m, err := s.MeasureHeight(context.Background(), straightAhead{}, scene.New(board), center, wideView)
	assert.ErrorIs(t, err, measure.ErrNoSilhouette)
	assert.True(t, m.Truncated)
	assert.Equal(t, 50, m.SweepCasts)
	assert.Zero(t, m.Probes)
}

func TestMeasureHeight_SweepHonoursTimeBudget(t *testing.T) {
	p := config.DefaultScanParams()
	p.MaxProbes = 0
	p.MaxDuration = 10 * time.Millisecond
	clock := timeutil.NewMockClock(time.Unix(0, 0))
	clock.SetAutoAdvance(time.Millisecond)
	s := measure.NewScanner(p, clock)

	m, err := s.MeasureHeight(context.Background(), straightAhead{}, scene.New(board), center, wideView)
	assert.ErrorIs(t, err, measure.ErrNoSilhouette)
	assert.True(t, m.Truncated)
	assert.Equal(t, 640, m.SweepCasts)
}

func TestMeasureHeight_CancelledMidSweep(t *testing.T) {
	p := config.DefaultScanParams()
	p.MaxProbes = 0
	p.MaxDuration = 0
	s := newScanner(p)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rc := &cancelAfter{scene: scene.New(board), n: 1000, cancel: cancel}

	_, err := s.MeasureHeight(ctx, straightAhead{}, rc, center, wideView)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMeasureHeight_SweepDeadline(t *testing.T) {
	p := config.DefaultScanParams()
	p.MaxProbes = 0
	p.MaxDuration = 0
	s := measure.NewScanner(p, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := s.MeasureHeight(ctx, straightAhead{}, scene.New(board), center, wideView)
		done <- err
	}()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(5 * time.Second):
		t.Fatal("MeasureHeight ignored its context deadline")
	}
}

func TestMeasureHeight_SweepStalled(t *testing.T) {
	s := newScanner(config.DefaultScanParams())
	// At this scale a one-pixel step is lost to rounding.
	huge := screen.Size{W: 1e300, H: 400}

	_, err := s.MeasureHeight(context.Background(), straightAhead{}, scene.New(board), center, huge)
	assert.ErrorIs(t, err, measure.ErrSweepStalled)
}

func TestMeasureHeight_Cancelled(t *testing.T) {
	s := newScanner(exactParams())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.MeasureHeight(ctx, camera, scene.New(board), center, viewport)
	assert.True(t, errors.Is(err, context.Canceled))
}

// cancelAfter cancels its context after a number of casts.
type cancelAfter struct {
	scene  *scene.Scene
	n      int
	cancel context.CancelFunc
}

func (c *cancelAfter) Cast(origin, direction r3.Vec) (measure.Hit, bool) {
	c.n--
	if c.n == 0 {
		c.cancel()
	}
	return c.scene.Cast(origin, direction)
}

func TestMeasureHeight_CancelledMidWalk(t *testing.T) {
	s := newScanner(config.DefaultScanParams())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rc := &cancelAfter{scene: scene.New(board), n: 500, cancel: cancel}

	_, err := s.MeasureHeight(ctx, camera, rc, center, viewport)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMeasureHeight_Idempotent(t *testing.T) {
	s := newScanner(exactParams())
	sc := scene.New(board, wall)

	first, err := s.MeasureHeight(context.Background(), camera, sc, center, viewport)
	require.NoError(t, err)
	for range 3 {
		again, err := s.MeasureHeight(context.Background(), camera, sc, center, viewport)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestNewScanner_Sanitizes(t *testing.T) {
	s := measure.NewScanner(config.ScanParams{WalkStep: -1, MaxProbes: 5}, nil)
	p := s.Params()
	d := config.DefaultScanParams()

	assert.Equal(t, d.WalkStep, p.WalkStep)
	assert.Equal(t, d.SweepStepPx, p.SweepStepPx)
	assert.Equal(t, d.DepthBand, p.DepthBand)
	assert.Equal(t, 5, p.MaxProbes)
	assert.Zero(t, p.MaxDuration)

	tiny := config.DefaultScanParams()
	tiny.SweepStepPx = 1e-14
	assert.Equal(t, d.SweepStepPx, measure.NewScanner(tiny, nil).Params().SweepStepPx)
}
