package depth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/depthkit/internal/depth"
	"github.com/banshee-data/depthkit/internal/testutil"
)

func TestExtract_PaddedRamp(t *testing.T) {
	buf := testutil.RampDepth(t, 5, 4, 12)

	all, err := depth.ExtractAll(buf)
	require.NoError(t, err)
	testutil.Float32sEqual(t, testutil.RampValues(5, 4), all, 0)

	legacy, err := depth.ExtractLegacy(buf)
	require.NoError(t, err)
	want := []float32{
		11, 12, 13, 14,
		21, 22, 23, 24,
		31, 32, 33, 34,
	}
	testutil.Float32sEqual(t, want, legacy, 0)
}

func TestConfidenceGrid_Pattern(t *testing.T) {
	buf := testutil.ConfidencePattern(t, 4, 2)

	plane, err := depth.RemapConfidence(buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 127, 255, 0, 0, 127, 255, 0}, plane)

	g, err := depth.ConfidenceGrid(buf)
	require.NoError(t, err)
	testutil.Float32sEqual(t, []float32{0, 127.0 / 255, 1, 0, 0, 127.0 / 255, 1, 0}, g.Pix, 1e-6)
}
