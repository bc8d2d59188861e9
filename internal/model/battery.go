package model

import "fmt"

// Variant selects how cyclic fade is computed.
type Variant string

const (
	// VariantBifasic always applies the nominal two-phase curve.
	VariantBifasic Variant = "bifasic"
	// VariantMechanistic classifies every year and adds the factor stack
	// outside the nominal envelope.
	VariantMechanistic Variant = "mechanistic"
)

// CalendarModel selects how calendar fade is computed.
type CalendarModel string

const (
	// CalendarUniversal is the temperature-independent LFP curve.
	CalendarUniversal CalendarModel = "universal"
	// CalendarBanded sums the per-band calendar table.
	CalendarBanded CalendarModel = "banded"
)

// SystemConfig describes an LFP storage system and how it is operated.
// It is immutable once built by NewSystemConfig.
//
// Units:
// - CapacityKWh: DC nominal kWh
// - PowerKW: kW, 0 means not specified
// - TemperatureC: °C, typical operating temperature
// - DoD, efficiencies, SoCMin/SoCMax, EOLThreshold: fraction 0..1
// - StorageDays: days between factory and site acceptance
// - CRate: 1/h
type SystemConfig struct {
	Name         string `json:"name"`
	Manufacturer string `json:"manufacturer,omitempty"`

	CapacityKWh  float64 `json:"capacity_kwh"`
	PowerKW      float64 `json:"power_kw"`
	TemperatureC float64 `json:"temperature_c"`
	DoD          float64 `json:"dod"`
	StorageDays  int     `json:"storage_days"`
	ACEfficiency float64 `json:"ac_efficiency"`
	DCEfficiency float64 `json:"dc_efficiency"`
	CyclesPerDay float64 `json:"cycles_per_day"`
	CRate        float64 `json:"c_rate"`
	SoCMin       float64 `json:"soc_min"`
	SoCMax       float64 `json:"soc_max"`
	EOLThreshold float64 `json:"eol_threshold"`

	Variant  Variant       `json:"variant"`
	Calendar CalendarModel `json:"calendar"`
}

// DefaultSystemConfig returns the reference system: 1 MWh at 25°C, 95% DoD,
// one cycle per day, 180 days of FAT-SAT storage, 80% EOL.
func DefaultSystemConfig() SystemConfig {
	return SystemConfig{
		Name:         "BESS LFP System",
		CapacityKWh:  1000,
		PowerKW:      500,
		TemperatureC: 25,
		DoD:          0.95,
		StorageDays:  180,
		ACEfficiency: 0.835,
		DCEfficiency: 0.95,
		CyclesPerDay: 1.0,
		CRate:        0.5,
		SoCMin:       0.10,
		SoCMax:       0.95,
		EOLThreshold: 0.80,
		Variant:      VariantMechanistic,
		Calendar:     CalendarUniversal,
	}
}

// NewSystemConfig fills unset optional fields with their defaults, then
// validates c. Unset means zero: CRate, EOLThreshold, SoCMax (SoCMin too
// when both are zero), Variant and Calendar. Required fields are never
// defaulted.
func NewSystemConfig(c SystemConfig) (SystemConfig, error) {
	d := DefaultSystemConfig()
	if c.CRate == 0 {
		c.CRate = d.CRate
	}
	if c.EOLThreshold == 0 {
		c.EOLThreshold = d.EOLThreshold
	}
	if c.SoCMax == 0 {
		if c.SoCMin == 0 {
			c.SoCMin = d.SoCMin
		}
		c.SoCMax = d.SoCMax
	}
	if c.Variant == "" {
		c.Variant = VariantMechanistic
	}
	if c.Calendar == "" {
		c.Calendar = CalendarUniversal
	}
	if err := c.Validate(); err != nil {
		return SystemConfig{}, err
	}
	return c, nil
}

// Validate checks every field against its documented range.
func (c SystemConfig) Validate() error {
	checks := []error{
		checkRange("capacity_kwh", c.CapacityKWh, 100, 10000),
		checkOptionalRange("power_kw", c.PowerKW, 50, 5000),
		checkRange("temperature_c", c.TemperatureC, -10, 50),
		checkFraction("dod", c.DoD, 0.5, 1.0),
		checkRange("storage_days", float64(c.StorageDays), 0, float64(maxStorageDays)),
		checkFraction("ac_efficiency", c.ACEfficiency, 0.80, 0.95),
		checkFraction("dc_efficiency", c.DCEfficiency, 0.80, 0.95),
		checkRange("cycles_per_day", c.CyclesPerDay, 0.5, 3.0),
		checkRange("c_rate", c.CRate, 0.1, 2.0),
		checkFraction("soc_min", c.SoCMin, 0, 1),
		checkFraction("soc_max", c.SoCMax, 0, 1),
		checkFraction("eol_threshold", c.EOLThreshold, 0.10, 0.99),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	if c.SoCMin >= c.SoCMax {
		return &ValidationError{Field: "soc_max", Value: c.SoCMax, Min: c.SoCMin, Max: 1,
			Hint: "soc_max must be greater than soc_min"}
	}
	switch c.Variant {
	case VariantBifasic, VariantMechanistic:
	default:
		return fmt.Errorf("%w: unknown variant %q", ErrValidation, c.Variant)
	}
	switch c.Calendar {
	case CalendarUniversal, CalendarBanded:
	default:
		return fmt.Errorf("%w: unknown calendar model %q", ErrValidation, c.Calendar)
	}
	return nil
}

// Band returns the temperature band of the operating temperature.
func (c SystemConfig) Band() Band { return BandFor(c.TemperatureC) }

// CyclesPerYear is the number of equivalent full cycles per operating year.
func (c SystemConfig) CyclesPerYear() float64 { return c.CyclesPerDay * 365 }

// ACCapacityKWh is the nominal capacity seen at the AC side.
func (c SystemConfig) ACCapacityKWh() float64 { return c.CapacityKWh * c.ACEfficiency }

// Percent converts a percentage into the fraction the engine works with.
func Percent(p float64) float64 { return p / 100 }

// maxStorageDays bounds the integer domain only; the loss itself saturates
// at MaxPreStorageLoss long before.
const maxStorageDays = 100 * 365

func checkRange(field string, v, lo, hi float64) error {
	if !(v >= lo && v <= hi) {
		return &ValidationError{Field: field, Value: v, Min: lo, Max: hi}
	}
	return nil
}

func checkOptionalRange(field string, v, lo, hi float64) error {
	if v == 0 {
		return nil
	}
	return checkRange(field, v, lo, hi)
}

// percentSpelled lists fraction fields that also accept a <field>_percent key.
var percentSpelled = map[string]bool{
	"dod":           true,
	"eol_threshold": true,
}

// checkFraction rejects values that look like percentages instead of
// guessing the unit.
func checkFraction(field string, v, lo, hi float64) error {
	if v > 1 && v <= 100 {
		return &ValidationError{Field: field, Value: v, Min: lo, Max: hi, Hint: fractionHint(field)}
	}
	return checkRange(field, v, lo, hi)
}

func fractionHint(field string) string {
	if percentSpelled[field] {
		return fmt.Sprintf("%s is a fraction; pass percentages as %s_percent", field, field)
	}
	return fmt.Sprintf("%s is a fraction between 0 and 1; divide percentages by 100", field)
}
