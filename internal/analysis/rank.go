package analysis

import (
	"sort"

	"bess-degradation/internal/lifetime"
)

// Scenario is a named simulation result, e.g. one entry of a comparison.
type Scenario struct {
	Name   string
	Result *lifetime.Result
}

type RankedScenario struct {
	Scenario
	Rank  int
	Stats TrajectoryStats
}

// RankByLifetime orders scenarios from longest to shortest life.
// A scenario that never reaches EOL within the horizon outlives any that
// does; ties are broken by final SOH, then by name.
func RankByLifetime(scenarios []Scenario) []RankedScenario {
	out := make([]RankedScenario, 0, len(scenarios))
	for _, sc := range scenarios {
		if sc.Result == nil {
			continue
		}
		out = append(out, RankedScenario{Scenario: sc, Stats: ComputeStats(sc.Result)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Result, out[j].Result
		if a.EOLReached != b.EOLReached {
			return !a.EOLReached
		}
		if a.YearsToEOL != b.YearsToEOL {
			return a.YearsToEOL > b.YearsToEOL
		}
		if fa, fb := a.Final().SOH, b.Final().SOH; fa != fb {
			return fa > fb
		}
		return out[i].Name < out[j].Name
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
