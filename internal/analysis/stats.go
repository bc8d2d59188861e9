package analysis

import (
	"sort"

	"bess-degradation/internal/lifetime"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// TrajectoryStats summarises a lifetime trajectory. Fractions are 0..1.
// Annual figures cover operating years only (year 0 is excluded).
type TrajectoryStats struct {
	Years int

	FirstYearFade    float64
	MeanAnnualFade   float64
	StdAnnualFade    float64
	MaxAnnualFade    float64
	MedianAnnualFade float64

	// FadePer1000Cycles is operating fade (excluding pre-storage) per
	// thousand equivalent full cycles.
	FadePer1000Cycles float64

	// CyclicShare and CalendarShare split operating fade at the final year.
	CyclicShare   float64
	CalendarShare float64
}

// ComputeStats derives trajectory statistics from a simulation result.
func ComputeStats(res *lifetime.Result) TrajectoryStats {
	var s TrajectoryStats
	if res == nil || len(res.Records) < 2 {
		return s
	}
	ops := res.Records[1:]
	s.Years = len(ops)

	annual := make([]float64, len(ops))
	for i, r := range ops {
		annual[i] = r.AnnualDegradation
	}
	s.FirstYearFade = annual[0]
	s.MeanAnnualFade = stat.Mean(annual, nil)
	if len(annual) > 1 {
		s.StdAnnualFade = stat.StdDev(annual, nil)
	}
	s.MaxAnnualFade = floats.Max(annual)

	sorted := append([]float64(nil), annual...)
	sort.Float64s(sorted)
	s.MedianAnnualFade = stat.Quantile(0.5, stat.Empirical, sorted, nil)

	last := ops[len(ops)-1]
	operating := last.CyclicFade + last.CalendarFade
	if last.CumulativeCycles > 0 {
		s.FadePer1000Cycles = operating / last.CumulativeCycles * 1000
	}
	if operating > 0 {
		s.CyclicShare = last.CyclicFade / operating
		s.CalendarShare = last.CalendarFade / operating
	}
	return s
}
