package main

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/banshee-data/depthkit/internal/depth"
	"github.com/banshee-data/depthkit/internal/render"
	"github.com/banshee-data/depthkit/internal/screen"
)

type viewportOpts struct {
	orientation *string
	width       *float64
	height      *float64
}

func viewportFlags(fs *flag.FlagSet) viewportOpts {
	return viewportOpts{
		orientation: fs.String("orientation", "portrait", "Interface orientation: portrait, portrait-upside-down, landscape-left, landscape-right"),
		width:       fs.Float64("view-w", 390, "Viewport width in pixels"),
		height:      fs.Float64("view-h", 844, "Viewport height in pixels"),
	}
}

func (v viewportOpts) resolve() (screen.Orientation, screen.Size, error) {
	o, err := screen.ParseOrientation(*v.orientation)
	if err != nil {
		return screen.OrientationUnknown, screen.Size{}, fmt.Errorf("%w: %v", errUsage, err)
	}
	if !(*v.width > 0 && *v.height > 0) {
		return o, screen.Size{}, fmt.Errorf("%w: viewport %gx%g must be positive", errUsage, *v.width, *v.height)
	}
	return o, screen.Size{W: *v.width, H: *v.height}, nil
}

// parsePoint parses "x,y".
func parsePoint(s string) (screen.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return screen.Point{}, fmt.Errorf("%w: point %q must be x,y", errUsage, s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return screen.Point{}, fmt.Errorf("%w: point %q: %v", errUsage, s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return screen.Point{}, fmt.Errorf("%w: point %q: %v", errUsage, s, err)
	}
	return screen.Point{X: x, Y: y}, nil
}

func printAffine(w io.Writer, name string, m screen.Affine) {
	fmt.Fprintf(w, "%-10s [%9.4f %9.4f %9.4f]\n", name, m.A, m.B, m.C)
	fmt.Fprintf(w, "%-10s [%9.4f %9.4f %9.4f]\n", "", m.D, m.E, m.F)
}

func (c *cli) transform(args []string) error {
	fs := c.newFlagSet("transform")
	view := viewportFlags(fs)
	capW := fs.Float64("cap-w", 256, "Capture width in pixels")
	capH := fs.Float64("cap-h", 192, "Capture height in pixels")
	if err := fs.Parse(args); err != nil {
		return err
	}
	o, vp, err := view.resolve()
	if err != nil {
		return err
	}
	capture := screen.Size{W: *capW, H: *capH}

	st := screen.Stages(o, vp, capture, screen.QuarterTurnDisplay)
	for i, name := range []string{"normalize", "flip", "display", "viewport"} {
		printAffine(c.out, name, st[i])
	}
	t := screen.BuildTransform(o, vp, capture, screen.QuarterTurnDisplay)
	printAffine(c.out, "composite", t)
	if _, ok := t.Invert(); !ok {
		fmt.Fprintln(c.out, "composite is singular")
	}
	return nil
}

func (c *cli) overlay(args []string) error {
	fs := c.newFlagSet("overlay")
	in := fs.String("in", "", "Dump to overlay")
	out := fs.String("out", "", "PNG output path")
	view := viewportFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "in", "out"); err != nil {
		return err
	}
	o, vp, err := view.resolve()
	if err != nil {
		return err
	}
	buf, err := c.readDumpFile(*in)
	if err != nil {
		return err
	}
	g, err := gridOf(buf)
	if err != nil {
		return err
	}

	shown := overlayGrid(g, o, vp)
	title := fmt.Sprintf("%s %s %gx%g", *in, o, vp.W, vp.H)
	return c.writeFile(*out, func(w io.Writer) error { return render.HeatmapPNG(w, shown, title) })
}

// overlayGrid resamples a capture-space grid into viewport pixels.
func overlayGrid(g *depth.Grid, o screen.Orientation, vp screen.Size) *depth.Grid {
	capture := screen.Size{W: float64(g.Width), H: float64(g.Height)}
	t := screen.BuildTransform(o, vp, capture, screen.QuarterTurnDisplay)
	return screen.Apply(t, g, screen.Rect{W: vp.W, H: vp.H})
}
