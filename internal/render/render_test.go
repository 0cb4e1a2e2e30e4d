package render

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/depthkit/internal/depth"
	"github.com/banshee-data/depthkit/internal/testutil"
)

func TestHeatmapPNG(t *testing.T) {
	g := testutil.RampGrid(8, 6)
	g.Set(2, 3, float32(math.NaN()))

	var buf bytes.Buffer
	require.NoError(t, HeatmapPNG(&buf, g, "ramp"))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")))
}

func TestHeatmapPNG_Constant(t *testing.T) {
	g := depth.NewGrid(3, 3)
	var buf bytes.Buffer
	require.NoError(t, HeatmapPNG(&buf, g, "flat"))
	assert.NotZero(t, buf.Len())
}

func TestHeatmapPNG_NoData(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, HeatmapPNG(&buf, depth.NewGrid(0, 4), "empty"), ErrNoData)

	g := depth.NewGrid(2, 2)
	for i := range g.Pix {
		g.Pix[i] = float32(math.NaN())
	}
	assert.ErrorIs(t, HeatmapPNG(&buf, g, "nan"), ErrNoData)
	assert.Zero(t, buf.Len())
}

func TestGridXYZ_Orientation(t *testing.T) {
	xyz, err := newGridXYZ(testutil.RampGrid(3, 2))
	require.NoError(t, err)
	c, r := xyz.Dims()
	assert.Equal(t, 3, c)
	assert.Equal(t, 2, r)
	assert.Equal(t, 1.0, xyz.Y(0), "row 0 at the top")
	assert.Equal(t, 12.0, xyz.Z(2, 1))
	assert.Equal(t, 0.0, xyz.Min())
	assert.Equal(t, 12.0, xyz.Max())
}

func TestBins(t *testing.T) {
	nan := float32(math.NaN())
	labels, counts, err := Bins([]float32{3, 0, nan, 1, 2, float32(math.Inf(1))}, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"0.000", "1.000", "2.000"}, labels)
	assert.Equal(t, []float64{1, 1, 2}, counts, "the maximum lands in the last bin")

	_, counts, err = Bins([]float32{5, 5, 5}, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 0}, counts)

	_, _, err = Bins([]float32{nan}, 4)
	assert.ErrorIs(t, err, ErrNoData)
	_, _, err = Bins([]float32{1}, 0)
	assert.Error(t, err)
}

func TestHistogramHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HistogramHTML(&buf, testutil.RampValues(4, 4), 5, "ramp depth"))
	out := buf.String()
	assert.True(t, strings.Contains(out, "ramp depth"))
	assert.Contains(t, out, "samples=16 bins=5")

	buf.Reset()
	assert.ErrorIs(t, HistogramHTML(&buf, nil, 5, "none"), ErrNoData)
}
