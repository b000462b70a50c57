package panel

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// SeriesProfile summarizes the observed (non-missing) portion of one joined
// group column. Purely diagnostic: profiles are logged, never fed back into
// the classification.
type SeriesProfile struct {
	Rows     int
	Observed int
	Coverage float64
	Mean     float64
	StdDev   float64
	Median   float64
	Max      float64
}

// ProfileSeries computes coverage and dispersion diagnostics for a joined
// column. All moments are over observed values only; a column with no
// observed values reports NaN moments.
func ProfileSeries(values []float64) SeriesProfile {
	observed := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			observed = append(observed, v)
		}
	}

	p := SeriesProfile{
		Rows:     len(values),
		Observed: len(observed),
		Mean:     math.NaN(),
		StdDev:   math.NaN(),
		Median:   math.NaN(),
		Max:      math.NaN(),
	}
	if len(values) > 0 {
		p.Coverage = float64(len(observed)) / float64(len(values))
	}
	if len(observed) == 0 {
		return p
	}

	p.Mean = stat.Mean(observed, nil)
	p.StdDev = stat.StdDev(observed, nil)
	if median, err := stats.Median(observed); err == nil {
		p.Median = median
	}
	if max, err := stats.Max(observed); err == nil {
		p.Max = max
	}
	return p
}
