package model

// Band is a discrete operating-temperature band. All table-driven lookups
// (calendar rates, pre-storage rates) are keyed by Band.
type Band int

const (
	BandUpTo15 Band = iota
	Band16To25
	Band26To35
	Band36To45
)

// Bands lists every band from coldest to hottest.
var Bands = []Band{BandUpTo15, Band16To25, Band26To35, Band36To45}

func (b Band) String() string {
	switch b {
	case BandUpTo15:
		return "≤15°C"
	case Band16To25:
		return "16-25°C"
	case Band26To35:
		return "26-35°C"
	case Band36To45:
		return "36-45°C"
	default:
		return "unknown"
	}
}

// BandFor maps a temperature in °C to its band.
//
// Anything above 45°C is assigned to Band36To45. There is no hotter table;
// SystemConfig caps the operating temperature at 50°C so the top band covers
// (35, 50] in practice.
func BandFor(tempC float64) Band {
	switch {
	case tempC <= 15:
		return BandUpTo15
	case tempC <= 25:
		return Band16To25
	case tempC <= 35:
		return Band26To35
	default:
		return Band36To45
	}
}
