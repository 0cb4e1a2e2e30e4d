// Package render draws depth grids and sample distributions for offline
// inspection: PNG heat maps with gonum/plot and HTML histograms with
// go-echarts.
package render

import (
	"errors"
	"fmt"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/depthkit/internal/depth"
)

// ErrNoData is returned when there is nothing finite to draw.
var ErrNoData = errors.New("render: no finite samples")

// HeatmapSize is the edge length of the square heat map image.
var HeatmapSize = 6 * vg.Inch

// gridXYZ adapts a depth.Grid to plotter.GridXYZ. Row 0 is drawn at the
// top, matching image orientation.
type gridXYZ struct {
	g        *depth.Grid
	min, max float64
}

func newGridXYZ(g *depth.Grid) (*gridXYZ, error) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range g.Pix {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		lo = math.Min(lo, f)
		hi = math.Max(hi, f)
	}
	if lo > hi {
		return nil, ErrNoData
	}
	if lo == hi {
		hi = lo + 1
	}
	return &gridXYZ{g: g, min: lo, max: hi}, nil
}

func (x *gridXYZ) Dims() (c, r int)   { return x.g.Width, x.g.Height }
func (x *gridXYZ) X(c int) float64    { return float64(c) }
func (x *gridXYZ) Y(r int) float64    { return float64(x.g.Height - 1 - r) }
func (x *gridXYZ) Z(c, r int) float64 { return float64(x.g.At(c, r)) }
func (x *gridXYZ) Min() float64       { return x.min }
func (x *gridXYZ) Max() float64       { return x.max }

// HeatmapPNG writes grid as a PNG heat map. NaN and infinite cells are
// left blank.
func HeatmapPNG(w io.Writer, grid *depth.Grid, title string) error {
	if grid.Empty() {
		return ErrNoData
	}
	xyz, err := newGridXYZ(grid)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "column"
	p.Y.Label.Text = "row (flipped)"

	hm := plotter.NewHeatMap(xyz, palette.Heat(64, 1))
	p.Add(hm)

	wt, err := p.WriterTo(HeatmapSize, HeatmapSize, "png")
	if err != nil {
		return fmt.Errorf("create png canvas: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}
