package model

// MaxTotalDegradation keeps total fade below 100%.
const MaxTotalDegradation = 0.99

// Breakdown is the loss composition at one point of a system's life.
// All values are fractions of rated capacity.
type Breakdown struct {
	PreStorage float64
	Cyclic     float64
	Calendar   float64
	Total      float64
	Mode       Mode
}

// Combine merges pre-storage, cyclic and calendar losses.
//
// Cyclic and calendar losses compound as independent survivals,
// 1-(1-c)(1-l). Pre-storage is taken first and the combined loss acts on
// what is left. The total is capped at MaxTotalDegradation.
func Combine(prestorage, cyclic, calendar float64) float64 {
	combined := 1 - (1-cyclic)*(1-calendar)
	total := prestorage + combined*(1-prestorage)
	if total > MaxTotalDegradation {
		return MaxTotalDegradation
	}
	return total
}

// PreStorageLoss is the one-time FAT-SAT loss of this configuration.
func (c SystemConfig) PreStorageLoss() float64 {
	return PreStorageLoss(c.StorageDays, c.Band())
}

// Mode classifies the configuration's operating conditions, honoring the
// variant: the bifasic variant always runs nominal.
func (c SystemConfig) Mode() Mode {
	if c.Variant == VariantBifasic {
		return ModeNominal
	}
	return Classify(c.TemperatureC, c.DoD, c.CRate)
}

// CyclicFade returns cyclic fade after cumulative cycles in the given mode.
func (c SystemConfig) CyclicFade(cycles float64, mode Mode) float64 {
	if mode == ModeExtreme {
		return CyclicFadeExtreme(cycles, c)
	}
	return CyclicFadeNominal(cycles, c.DoD)
}

// CalendarFade returns calendar fade after elapsed days using the
// configured calendar model.
func (c SystemConfig) CalendarFade(days float64) float64 {
	if c.Calendar == CalendarBanded {
		return BandedCalendarFade(days, c.Band())
	}
	return CalendarFade(days)
}

// Degradation composes the total loss after cumulative cycles and elapsed
// days under the given mode.
func (c SystemConfig) Degradation(cycles, days float64, mode Mode) Breakdown {
	b := Breakdown{
		PreStorage: c.PreStorageLoss(),
		Cyclic:     c.CyclicFade(cycles, mode),
		Calendar:   c.CalendarFade(days),
		Mode:       mode,
	}
	b.Total = Combine(b.PreStorage, b.Cyclic, b.Calendar)
	return b
}
