package screen

import (
	"math"

	"github.com/banshee-data/depthkit/internal/depth"
)

// Apply renders img through t and crops the result to exactly the viewport
// rectangle. The output is floor(W) x floor(H) pixels; each destination
// pixel centre is mapped back into the source and nearest-sampled. Pixels
// that fall outside the source are NaN, meaning transparent; the image is
// clipped, never resized to fit.
//
// An empty viewport or image yields an empty grid. A singular transform
// yields a fully transparent grid.
func Apply(t Affine, img *depth.Grid, viewport Rect) *depth.Grid {
	w, h := int(math.Floor(viewport.W)), int(math.Floor(viewport.H))
	if w <= 0 || h <= 0 || img.Empty() {
		return depth.NewGrid(0, 0)
	}

	out := depth.NewGrid(w, h)
	nan := float32(math.NaN())
	inv, ok := t.Invert()
	if !ok {
		for i := range out.Pix {
			out.Pix[i] = nan
		}
		return out
	}

	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			src := inv.Apply(Point{
				X: viewport.X + float64(i) + 0.5,
				Y: viewport.Y + float64(j) + 0.5,
			})
			sx, sy := math.Floor(src.X), math.Floor(src.Y)
			if sx < 0 || sy < 0 || sx >= float64(img.Width) || sy >= float64(img.Height) {
				out.Set(i, j, nan)
				continue
			}
			out.Set(i, j, img.At(int(sx), int(sy)))
		}
	}
	return out
}
