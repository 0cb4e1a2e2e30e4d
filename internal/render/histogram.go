package render

import (
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Bins splits the finite samples into n equal-width bins spanning their
// range. It returns the bin labels (lower edges) and counts.
func Bins(samples []float32, n int) ([]string, []float64, error) {
	if n < 1 {
		return nil, nil, fmt.Errorf("render: bin count %d must be positive", n)
	}
	x := make([]float64, 0, len(samples))
	for _, v := range samples {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		x = append(x, f)
	}
	if len(x) == 0 {
		return nil, nil, ErrNoData
	}
	slices.Sort(x)

	lo, hi := x[0], x[len(x)-1]
	if lo == hi {
		hi = lo + 1
	}
	dividers := make([]float64, n+1)
	floats.Span(dividers, lo, hi)
	// The last divider is exclusive; nudge it so the maximum is counted.
	dividers[n] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, x, nil)
	labels := make([]string, n)
	for i := range labels {
		labels[i] = fmt.Sprintf("%.3f", dividers[i])
	}
	return labels, counts, nil
}

// HistogramHTML writes a standalone HTML page with a bar chart of the
// sample distribution.
func HistogramHTML(w io.Writer, samples []float32, bins int, title string) error {
	labels, counts, err := Bins(samples, bins)
	if err != nil {
		return err
	}
	data := make([]opts.BarData, len(counts))
	for i, c := range counts {
		data[i] = opts.BarData{Value: c}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "100%", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("samples=%d bins=%d", int(floats.Sum(counts)), bins)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "value", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "count"}),
	)
	bar.SetXAxis(labels).AddSeries("samples", data)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("render histogram: %w", err)
	}
	return nil
}
