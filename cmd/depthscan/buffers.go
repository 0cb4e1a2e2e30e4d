package main

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"

	"github.com/banshee-data/depthkit/internal/depth"
	"github.com/banshee-data/depthkit/internal/render"
	"github.com/banshee-data/depthkit/internal/screen"
	"github.com/banshee-data/depthkit/internal/storage/sqlite"
)

func (c *cli) readDumpFile(path string) (*depth.MemBuffer, error) {
	f, err := c.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	buf, err := depth.ReadDump(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return buf, nil
}

// writeFile creates path and streams fn's output into it.
func (c *cli) writeFile(path string, fn func(w io.Writer) error) error {
	if c.checkOutput != nil {
		if err := c.checkOutput(path); err != nil {
			return err
		}
	}
	f, err := c.fs.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err := fn(bw); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// openStore opens a measurement log that the command will write to. The
// database file is vetted like any other output.
func (c *cli) openStore(path string) (*sqlite.Store, error) {
	if c.checkOutput != nil {
		if err := c.checkOutput(path); err != nil {
			return nil, err
		}
	}
	return sqlite.Open(path)
}

// gridOf decodes buf into a renderable grid; confidence buffers are
// remapped to [0,1] first.
func gridOf(buf depth.Buffer) (*depth.Grid, error) {
	if buf.PixelFormat() == depth.FormatOneComponent8 {
		return depth.ConfidenceGrid(buf)
	}
	return depth.ExtractGrid(buf)
}

func (c *cli) synth(args []string) error {
	fs := c.newFlagSet("synth")
	out := fs.String("out", "", "Depth dump output path")
	confOut := fs.String("confidence", "", "Optional confidence dump output path")
	w := fs.Int("w", 64, "Capture width in pixels")
	h := fs.Int("h", 48, "Capture height in pixels")
	box := boxFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "out"); err != nil {
		return err
	}
	if *w <= 0 || *h <= 0 {
		return fmt.Errorf("%w: capture size %dx%d must be positive", errUsage, *w, *h)
	}

	dist, conf := box.render(*w, *h)
	dbuf, err := depth.NewDepthBuffer(*w, *h, 0, dist)
	if err != nil {
		return err
	}
	if err := c.writeFile(*out, func(w io.Writer) error { return depth.WriteDump(w, dbuf) }); err != nil {
		return err
	}
	if *confOut != "" {
		cbuf, err := depth.NewConfidenceBuffer(*w, *h, 0, conf)
		if err != nil {
			return err
		}
		if err := c.writeFile(*confOut, func(w io.Writer) error { return depth.WriteDump(w, cbuf) }); err != nil {
			return err
		}
	}
	fmt.Fprintf(c.out, "wrote %dx%d synthetic capture to %s\n", *w, *h, *out)
	return nil
}

func (c *cli) sample(args []string) error {
	fs := c.newFlagSet("sample")
	in := fs.String("in", "", "Dump to sample")
	x := fs.Float64("x", 0.5, "Normalized x coordinate")
	y := fs.Float64("y", 0.5, "Normalized y coordinate")
	tap := fs.String("tap", "", "Viewport tap as x,y; overrides -x/-y")
	view := viewportFlags(fs)
	dbPath := fs.String("db", "", "Optional measurement log to record the sample in")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "in"); err != nil {
		return err
	}
	buf, err := c.readDumpFile(*in)
	if err != nil {
		return err
	}

	coord := depth.Coord{X: float32(*x), Y: float32(*y)}
	if *tap != "" {
		p, err := parsePoint(*tap)
		if err != nil {
			return err
		}
		o, vp, err := view.resolve()
		if err != nil {
			return err
		}
		capture := screen.Size{W: float64(buf.Width()), H: float64(buf.Height())}
		t := screen.BuildTransform(o, vp, capture, screen.QuarterTurnDisplay)
		var ok bool
		if coord, ok = screen.TapToCoord(t, p, capture); !ok {
			return fmt.Errorf("tap %s cannot be mapped back into the capture", *tap)
		}
	}

	v, err := depth.Sample(buf, coord)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%g\n", v)

	if *dbPath == "" {
		return nil
	}
	store, err := c.openStore(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.InsertSample(&sqlite.Sample{
		X:           coord.X,
		Y:           coord.Y,
		Value:       v,
		PixelFormat: buf.PixelFormat().String(),
	})
}

func (c *cli) extract(args []string) error {
	fs := c.newFlagSet("extract")
	in := fs.String("in", "", "Dump to export")
	out := fs.String("out", "", "Raw float32 output path")
	legacy := fs.Bool("legacy", false, "Skip the first row and column like the original exporter")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "in", "out"); err != nil {
		return err
	}
	buf, err := c.readDumpFile(*in)
	if err != nil {
		return err
	}

	extractFn := depth.ExtractAll
	if *legacy {
		extractFn = depth.ExtractLegacy
	}
	samples, err := extractFn(buf)
	if err != nil {
		return err
	}
	if err := c.writeFile(*out, func(w io.Writer) error {
		_, err := w.Write(depth.EncodeFloat32LE(samples))
		return err
	}); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "wrote %d samples to %s\n", len(samples), *out)
	return nil
}

func (c *cli) confidence(args []string) error {
	fs := c.newFlagSet("confidence")
	in := fs.String("in", "", "Confidence dump")
	out := fs.String("out", "", "Raw 8-bit intensity output path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "in", "out"); err != nil {
		return err
	}
	buf, err := c.readDumpFile(*in)
	if err != nil {
		return err
	}
	plane, err := depth.RemapConfidence(buf)
	if err != nil {
		return err
	}
	return c.writeFile(*out, func(w io.Writer) error {
		_, err := w.Write(plane)
		return err
	})
}

func (c *cli) stats(args []string) error {
	fs := c.newFlagSet("stats")
	in := fs.String("in", "", "Dump to summarise")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "in"); err != nil {
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
	return c.encodeJSON(depth.Summarize(g.Pix))
}

func (c *cli) heatmap(args []string) error {
	fs := c.newFlagSet("heatmap")
	in := fs.String("in", "", "Dump to render")
	out := fs.String("out", "", "PNG output path")
	title := fs.String("title", "", "Plot title (defaults to the input name)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "in", "out"); err != nil {
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
	if *title == "" {
		*title = filepath.Base(*in)
	}
	return c.writeFile(*out, func(w io.Writer) error { return render.HeatmapPNG(w, g, *title) })
}

func (c *cli) histogram(args []string) error {
	fs := c.newFlagSet("histogram")
	in := fs.String("in", "", "Dump to bin")
	out := fs.String("out", "", "HTML output path")
	bins := fs.Int("bins", 32, "Number of bins")
	title := fs.String("title", "", "Chart title (defaults to the input name)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "in", "out"); err != nil {
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
	if *title == "" {
		*title = filepath.Base(*in)
	}
	return c.writeFile(*out, func(w io.Writer) error { return render.HistogramHTML(w, g.Pix, *bins, *title) })
}
