// Package testutil provides shared test utilities and fixtures.
//
// Fixtures build small in-memory frame buffers with predictable contents so
// tests in different packages agree on what a given pixel should hold.
package testutil

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/banshee-data/depthkit/internal/depth"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t testing.TB, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// RampValues returns width*height row-major values where the pixel at
// (col, row) holds row*10 + col.
func RampValues(width, height int) []float32 {
	v := make([]float32, width*height)
	for y := range height {
		for x := range width {
			v[y*width+x] = float32(y*10 + x)
		}
	}
	return v
}

// RampDepth returns a depth buffer filled by RampValues with padding bytes
// after every row.
func RampDepth(t testing.TB, width, height, padding int) *depth.MemBuffer {
	t.Helper()
	buf, err := depth.NewDepthBuffer(width, height, padding, RampValues(width, height))
	AssertNoError(t, err)
	return buf
}

// RampGrid returns the Grid equivalent of RampValues.
func RampGrid(width, height int) *depth.Grid {
	return &depth.Grid{Width: width, Height: height, Pix: RampValues(width, height)}
}

// ConfidencePattern returns a confidence buffer cycling through levels
// 0, 1, 2 and one out-of-range level.
func ConfidencePattern(t testing.TB, width, height int) *depth.MemBuffer {
	t.Helper()
	levels := make([]byte, width*height)
	for i := range levels {
		levels[i] = []byte{0, 1, 2, 7}[i%4]
	}
	buf, err := depth.NewConfidenceBuffer(width, height, 0, levels)
	AssertNoError(t, err)
	return buf
}

// Float32sEqual reports a diff between two float slices, treating NaNs as
// equal and allowing an absolute tolerance.
func Float32sEqual(t testing.TB, want, got []float32, tolerance float64) {
	t.Helper()
	opts := cmp.Options{
		cmp.Comparer(func(a, b float32) bool {
			if math.IsNaN(float64(a)) || math.IsNaN(float64(b)) {
				return math.IsNaN(float64(a)) && math.IsNaN(float64(b))
			}
			return math.Abs(float64(a)-float64(b)) <= tolerance
		}),
		cmpopts.EquateEmpty(),
	}
	if diff := cmp.Diff(want, got, opts); diff != "" {
		t.Errorf("float slice mismatch (-want +got):\n%s", diff)
	}
}
