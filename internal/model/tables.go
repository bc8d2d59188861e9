package model

// CalendarTableYears is the number of tabulated years per band.
const CalendarTableYears = 10

// Annual calendar fade (fraction of rated capacity lost per year) for LFP,
// indexed by Band and then by operating year minus one.
// Read through CalendarRate only.
var calendarRates = [...][CalendarTableYears]float64{
	BandUpTo15: {0.0079, 0.0027, 0.0020, 0.0016, 0.0014, 0.0013, 0.0012, 0.0011, 0.0010, 0.0010},
	Band16To25: {0.0123, 0.0041, 0.0031, 0.0025, 0.0022, 0.0020, 0.0019, 0.0018, 0.0017, 0.0016},
	Band26To35: {0.0187, 0.0063, 0.0047, 0.0039, 0.0035, 0.0032, 0.0030, 0.0029, 0.0028, 0.0027},
	Band36To45: {0.0275, 0.0093, 0.0070, 0.0059, 0.0054, 0.0050, 0.0049, 0.0048, 0.0048, 0.0047},
}

// First-month FAT-SAT storage loss per band.
var prestorageRates = [...]float64{
	BandUpTo15: 0.0079,
	Band16To25: 0.0123,
	Band26To35: 0.0187,
	Band36To45: 0.0275,
}

// CalendarRate returns the tabulated calendar fade for the given operating
// year (1-based). Years past the table hold the year-10 rate; year <= 0 is 0.
func CalendarRate(b Band, year int) float64 {
	if year <= 0 {
		return 0
	}
	row := calendarRates[validBand(b)]
	if year > CalendarTableYears {
		return row[CalendarTableYears-1]
	}
	return row[year-1]
}

// PreStorageRate returns the band's first-month pre-storage loss.
func PreStorageRate(b Band) float64 {
	return prestorageRates[validBand(b)]
}

func validBand(b Band) Band {
	if b < BandUpTo15 {
		return BandUpTo15
	}
	if b > Band36To45 {
		return Band36To45
	}
	return b
}
