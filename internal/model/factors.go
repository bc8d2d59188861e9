package model

import "math"

// Mechanistic factor parameters.
const (
	ActivationEnergy = 40000.0 // J/mol
	GasConstant      = 8.314   // J/(mol·K)
	ReferenceTempC   = 25.0
	kelvinOffset     = 273.15

	SEIGrowthCoeff       = 0.001
	ImpedanceGrowthCoeff = 0.0001
	maxFactorCycles      = 20000.0

	ReferenceCRate    = 0.5
	CRateExponent     = 0.4
	minFactorCRate    = 0.1
	maxFactorCRate    = 2.0
	minFactorTempC    = -10.0
	maxFactorTempC    = 50.0
	minFactorDCEff    = 0.85
	maxFactorDCEff    = 1.0
	heatLossPerStep   = 0.05
	heatFactorPerStep = 0.1
)

// Factors holds the inputs of the extreme-condition correction stack. Each
// factor is clamped to its own range before the product is taken.
type Factors struct {
	TemperatureC  float64
	Cycles        float64
	CRate         float64
	SoCMinPercent float64
	SoCMaxPercent float64
	DCEfficiency  float64
}

// FactorsFor builds the factor inputs for a configuration at a given
// cumulative cycle count.
func FactorsFor(c SystemConfig, cycles float64) Factors {
	return Factors{
		TemperatureC:  c.TemperatureC,
		Cycles:        cycles,
		CRate:         c.CRate,
		SoCMinPercent: c.SoCMin * 100,
		SoCMaxPercent: c.SoCMax * 100,
		DCEfficiency:  c.DCEfficiency,
	}
}

// Product multiplies the six factors.
func (f Factors) Product() float64 {
	return ArrheniusFactor(f.TemperatureC) *
		SEIGrowthFactor(f.Cycles) *
		CRateFactor(f.CRate) *
		SoCWindowFactor(f.SoCMinPercent, f.SoCMaxPercent) *
		ImpedanceGrowthFactor(f.Cycles) *
		EfficiencyHeatFactor(f.DCEfficiency)
}

// ArrheniusFactor is the thermal acceleration relative to 25°C. The
// temperature is clamped to [-10, 50]°C and the factor to [0.1, 10].
func ArrheniusFactor(tempC float64) float64 {
	tK := clamp(tempC, minFactorTempC, maxFactorTempC) + kelvinOffset
	refK := ReferenceTempC + kelvinOffset
	f := math.Exp(ActivationEnergy / GasConstant * (1/tK - 1/refK))
	return clamp(f, 0.1, 10.0)
}

// SEIGrowthFactor grows with the square root of cycles, in [1, 2].
func SEIGrowthFactor(cycles float64) float64 {
	f := 1 + SEIGrowthCoeff*math.Sqrt(clamp(cycles, 0, maxFactorCycles))
	return clamp(f, 1.0, 2.0)
}

// CRateFactor penalizes rates above 0.5C, in [0.5, 2].
func CRateFactor(crate float64) float64 {
	c := clamp(crate, minFactorCRate, maxFactorCRate)
	f := math.Pow(c/ReferenceCRate, CRateExponent)
	return clamp(f, 0.5, 2.0)
}

// SoCWindowFactor penalizes operating windows reaching below 10% or above
// 95% SoC, with an extra 1.5x when the window spans below 5% and above 95%.
// Inputs are percentages. Result in [1, 3].
func SoCWindowFactor(minPct, maxPct float64) float64 {
	minPct = clamp(minPct, 0, 100)
	maxPct = clamp(maxPct, 0, 100)
	f := 1.0
	if minPct < 10 {
		f *= 1 + 0.08*(10-minPct)
	}
	if maxPct > 95 {
		f *= 1 + 0.05*(maxPct-95)
	}
	if minPct < 5 && maxPct > 95 {
		f *= 1.5
	}
	return clamp(f, 1.0, 3.0)
}

// ImpedanceGrowthFactor grows linearly with cycles, in [1, 2].
func ImpedanceGrowthFactor(cycles float64) float64 {
	f := 1 + ImpedanceGrowthCoeff*clamp(cycles, 0, maxFactorCycles)
	return clamp(f, 1.0, 2.0)
}

// EfficiencyHeatFactor maps DC round-trip losses to self-heating stress:
// every 5 points of loss adds 0.1. Efficiency is clamped to [0.85, 1] and
// the factor to [0.9, 1.3].
func EfficiencyHeatFactor(dcEfficiency float64) float64 {
	loss := 1 - clamp(dcEfficiency, minFactorDCEff, maxFactorDCEff)
	f := 1 + (loss/heatLossPerStep)*heatFactorPerStep
	return clamp(f, 0.9, 1.3)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
