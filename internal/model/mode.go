package model

// Mode is the operating regime applied to a simulated year.
// Keep these values stable; they are written to CSV and API output.
type Mode string

const (
	ModeNominal Mode = "nominal"
	ModeExtreme Mode = "extreme"
)

// Nominal operating envelope.
const (
	NominalMinTempC = 20.0
	NominalMaxTempC = 35.0
	NominalMinDoD   = 0.70
	NominalMaxDoD   = 1.00
	NominalMaxCRate = 0.8
)

// Classify reports ModeNominal when temperature, DoD (fraction) and C-rate
// all sit inside the nominal envelope, ModeExtreme otherwise.
func Classify(tempC, dod, crate float64) Mode {
	switch {
	case tempC < NominalMinTempC || tempC > NominalMaxTempC:
		return ModeExtreme
	case dod < NominalMinDoD || dod > NominalMaxDoD:
		return ModeExtreme
	case crate > NominalMaxCRate:
		return ModeExtreme
	default:
		return ModeNominal
	}
}
