package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/depthkit/internal/config"
	"github.com/banshee-data/depthkit/internal/measure"
	"github.com/banshee-data/depthkit/internal/monitoring"
	"github.com/banshee-data/depthkit/internal/scene"
	"github.com/banshee-data/depthkit/internal/screen"
	"github.com/banshee-data/depthkit/internal/storage/sqlite"
	"github.com/banshee-data/depthkit/internal/units"
)

// boxOpts describes the synthetic scene: a box standing in front of the
// camera with a wall behind it.
type boxOpts struct {
	height   *float64
	width    *float64
	distance *float64
	fovDeg   *float64
}

func boxFlags(fs *flag.FlagSet) boxOpts {
	return boxOpts{
		height:   fs.Float64("box-height", 1.0, "Box height in metres"),
		width:    fs.Float64("box-width", 0.6, "Box width in metres"),
		distance: fs.Float64("distance", 1.5, "Distance from the camera to the box front face"),
		fovDeg:   fs.Float64("fov", 60, "Vertical field of view in degrees"),
	}
}

func (b boxOpts) validate() error {
	if !(*b.height > 0 && *b.width > 0 && *b.distance > 0) {
		return fmt.Errorf("%w: box dimensions and distance must be positive", errUsage)
	}
	if !(*b.fovDeg > 0 && *b.fovDeg < 180) {
		return fmt.Errorf("%w: fov %g must be within (0, 180)", errUsage, *b.fovDeg)
	}
	return nil
}

func (b boxOpts) scene() *scene.Scene {
	hw, hh, d := *b.width/2, *b.height/2, *b.distance
	return scene.New(
		scene.Box{
			Min: r3.Vec{X: -hw, Y: -hh, Z: -d - *b.width},
			Max: r3.Vec{X: hw, Y: hh, Z: -d},
		},
		scene.Plane{Z: -d - 3, MinX: -50, MaxX: 50, MinY: -50, MaxY: 50},
	)
}

func (b boxOpts) camera(viewport screen.Size) scene.Pinhole {
	return scene.Pinhole{Viewport: viewport, FovY: *b.fovDeg * math.Pi / 180}
}

// render casts one ray per capture pixel and returns row-major hit
// distances and confidence levels. Misses have zero depth and confidence.
func (b boxOpts) render(w, h int) ([]float32, []byte) {
	sc := b.scene()
	cam := b.camera(screen.Size{W: float64(w), H: float64(h)})
	dist := make([]float32, w*h)
	conf := make([]byte, w*h)
	for row := range h {
		for col := range w {
			ray, ok := cam.RayThrough(screen.Point{X: float64(col) + 0.5, Y: float64(row) + 0.5})
			if !ok {
				continue
			}
			hit, ok := sc.Cast(ray.Origin, ray.Direction)
			if !ok {
				continue
			}
			i := row*w + col
			dist[i] = float32(hit.Distance)
			switch {
			case hit.Distance < 2:
				conf[i] = 2
			case hit.Distance < 4:
				conf[i] = 1
			}
		}
	}
	return dist, conf
}

func loadScanParams(path string) (config.ScanParams, error) {
	if path == "" {
		return config.DefaultScanParams(), nil
	}
	cfg, err := config.LoadScanConfig(path)
	if err != nil {
		return config.ScanParams{}, err
	}
	return cfg.ScanParams(), nil
}

func (c *cli) measure(args []string) error {
	fs := c.newFlagSet("measure")
	cfgPath := fs.String("config", "", "Scan config JSON (defaults are built in)")
	dbPath := fs.String("db", "", "Optional measurement log")
	label := fs.String("label", "", "Label stored with the measurement")
	unit := fs.String("units", units.M, "Display units for the summary line: "+units.GetValidUnitsString())
	box := boxFlags(fs)
	view := viewportFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := box.validate(); err != nil {
		return err
	}
	if !units.IsValid(*unit) {
		return fmt.Errorf("%w: units %q must be one of %s", errUsage, *unit, units.GetValidUnitsString())
	}
	_, vp, err := view.resolve()
	if err != nil {
		return err
	}
	params, err := loadScanParams(*cfgPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	scanner := measure.NewScanner(params, nil)
	center := screen.Point{X: vp.W / 2, Y: vp.H / 2}
	m, err := scanner.MeasureHeight(ctx, box.camera(vp), box.scene(), center, vp)
	if err != nil {
		return err
	}
	monitoring.Debugf("measured %.3f m from %d probes (%d accepted)", m.Height, m.Probes, m.Accepted)
	summary := fmt.Sprintf("height %s", units.FormatLength(m.Height, *unit))
	if m.Truncated {
		summary += " (truncated)"
	}
	fmt.Fprintln(c.errOut, summary)

	rec := &sqlite.Measurement{
		Label:           *label,
		Height:          m.Height,
		ClosestX:        m.Closest.X,
		ClosestY:        m.Closest.Y,
		ClosestZ:        m.Closest.Z,
		ClosestDistance: m.ClosestDistance,
		Probes:          m.Probes,
		Accepted:        m.Accepted,
		Truncated:       m.Truncated,
	}
	if *dbPath != "" {
		store, err := c.openStore(*dbPath)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.InsertMeasurement(rec); err != nil {
			return err
		}
	}
	return c.encodeJSON(rec)
}

func (c *cli) history(args []string) error {
	fs := c.newFlagSet("history")
	dbPath := fs.String("db", "", "Measurement log")
	limit := fs.Int("limit", 20, "Maximum rows to list; 0 lists all")
	samples := fs.Bool("samples", false, "List tap samples instead of measurements")
	table := fs.Bool("table", false, "Print a text table instead of JSON")
	unit := fs.String("units", units.M, "Height units for -table: "+units.GetValidUnitsString())
	tz := fs.String("tz", "UTC", "Timezone for -table timestamps")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "db"); err != nil {
		return err
	}
	if *table {
		if !units.IsValid(*unit) {
			return fmt.Errorf("%w: units %q must be one of %s", errUsage, *unit, units.GetValidUnitsString())
		}
		if *tz != "UTC" && !units.IsTimezoneValid(*tz) {
			return fmt.Errorf("%w: unknown timezone %q", errUsage, *tz)
		}
	}
	store, err := sqlite.Open(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if *samples {
		rows, err := store.ListSamples(*limit)
		if err != nil {
			return err
		}
		if !*table {
			return c.encodeJSON(rows)
		}
		for _, r := range rows {
			ts, err := units.FromUnixNano(r.CreatedAt, *tz)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "%s  %-7s (%.3f, %.3f)  %g\n", ts.Format(tableTime), r.PixelFormat, r.X, r.Y, r.Value)
		}
		return nil
	}

	rows, err := store.ListMeasurements(*limit)
	if err != nil {
		return err
	}
	if !*table {
		return c.encodeJSON(rows)
	}
	for _, r := range rows {
		ts, err := units.FromUnixNano(r.CreatedAt, *tz)
		if err != nil {
			return err
		}
		note := ""
		if r.Truncated {
			note = "  truncated"
		}
		fmt.Fprintf(c.out, "%s  %-12s %10s  %5d probes%s\n", ts.Format(tableTime), r.Label, units.FormatLength(r.Height, *unit), r.Probes, note)
	}
	return nil
}

const tableTime = "2006-01-02 15:04:05 MST"

func (c *cli) encodeJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
