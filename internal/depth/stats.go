package depth

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarises a set of decoded samples. Non-finite samples are
// counted in Invalid and excluded from every other field.
type Stats struct {
	Count   int     `json:"count"`
	Invalid int     `json:"invalid"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"stddev"`
	Median  float64 `json:"median"`
}

// Summarize computes Stats over samples.
func Summarize(samples []float32) Stats {
	values := make([]float64, 0, len(samples))
	var st Stats
	for _, s := range samples {
		f := float64(s)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			st.Invalid++
			continue
		}
		values = append(values, f)
	}
	st.Count = len(values)
	if st.Count == 0 {
		return st
	}

	sort.Float64s(values)
	st.Min = floats.Min(values)
	st.Max = floats.Max(values)
	st.Mean, st.StdDev = stat.MeanStdDev(values, nil)
	if st.Count == 1 {
		st.StdDev = 0
	}
	st.Median = stat.Quantile(0.5, stat.Empirical, values, nil)
	return st
}
