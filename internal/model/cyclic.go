package model

import "math"

// Bifasic cyclic-aging constants. Calibrated empirically; do not derive.
const (
	// ReferenceCyclesPerYear normalizes equivalent full cycles into
	// equivalent years. It is fixed, so a system cycling twice a day ages
	// through the curve twice as fast.
	ReferenceCyclesPerYear = 365.0

	Phase1Rate          = 0.0545 // per equivalent year, SEI-dominated
	Phase2Rate          = 0.0038 // per equivalent year, steady state
	PhaseTransitionYear = 3.0

	ReferenceDoD = 0.95
	DoDExponent  = 0.9

	// MaxCyclicFade caps nominal cyclic fade.
	MaxCyclicFade = 0.95
)

// EquivalentYears converts cumulative equivalent full cycles into years on
// the bifasic curve.
func EquivalentYears(cycles float64) float64 {
	if cycles <= 0 {
		return 0
	}
	return cycles / ReferenceCyclesPerYear
}

// DoDMultiplier scales cyclic fade relative to the 95% DoD reference.
// It is below 1 for shallower cycling and above 1 for deeper.
func DoDMultiplier(dod float64) float64 {
	return math.Pow(dod, DoDExponent) / math.Pow(ReferenceDoD, DoDExponent)
}

func phaseOneFade(years float64) float64 {
	return Phase1Rate * years
}

func phaseTwoFade(years float64) float64 {
	return Phase1Rate*PhaseTransitionYear + (years-PhaseTransitionYear)*Phase2Rate
}

// bifasicFade is the uncapped two-phase curve.
func bifasicFade(cycles, dod float64) float64 {
	years := EquivalentYears(cycles)
	mult := DoDMultiplier(dod)
	if years <= PhaseTransitionYear {
		return phaseOneFade(years) * mult
	}
	return phaseTwoFade(years) * mult
}

// CyclicFadeNominal returns cyclic capacity fade (fraction) after the given
// cumulative equivalent full cycles at depth of discharge dod (fraction).
func CyclicFadeNominal(cycles, dod float64) float64 {
	return math.Min(bifasicFade(cycles, dod), MaxCyclicFade)
}

// CyclicFadeExtreme applies the mechanistic factor stack on top of the
// bifasic base. The result is clamped to [0, 1].
func CyclicFadeExtreme(cycles float64, c SystemConfig) float64 {
	base := bifasicFade(cycles, c.DoD)
	f := FactorsFor(c, cycles)
	return clamp(base*f.Product(), 0, 1)
}
