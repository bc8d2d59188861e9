package lifetime

import "bess-degradation/internal/model"

// Degradation sources. Keep these values stable; they are intended for CSV output.
const (
	SourcePreStorage = "FAT-SAT Pre-storage"
	SourceOperation  = "Cyclic + Calendar"
)

// YearRecord is one row of the lifetime trajectory.
// Year 0 is the post-storage snapshot; years 1..N are operating years.
// All fractions are 0..1.
type YearRecord struct {
	Year             int     `json:"year"`
	CumulativeCycles float64 `json:"cumulative_cycles"`

	SOH           float64 `json:"soh"`
	DCCapacityKWh float64 `json:"dc_capacity_kwh"`
	ACCapacityKWh float64 `json:"ac_capacity_kwh"`

	// AnnualDegradation is the SOH drop relative to the previous year's SOH.
	AnnualDegradation     float64 `json:"annual_degradation"`
	CumulativeDegradation float64 `json:"cumulative_degradation"`

	PreStorageLoss float64 `json:"prestorage_loss"`
	CyclicFade     float64 `json:"cyclic_fade"`
	CalendarFade   float64 `json:"calendar_fade"`

	Source string `json:"source"`
	// Mode is empty for year 0.
	Mode model.Mode `json:"mode,omitempty"`
}

type Result struct {
	Config       model.SystemConfig `json:"config"`
	ModelVersion string             `json:"model_version"`
	// OperationMode is the classification at commissioning.
	OperationMode model.Mode `json:"operation_mode"`

	Records []YearRecord `json:"records"`

	// YearsToEOL is 0 when the threshold is not crossed within the horizon.
	YearsToEOL       int     `json:"years_to_eol"`
	TotalCyclesToEOL float64 `json:"total_cycles_to_eol"`
	EOLReached       bool    `json:"eol_reached"`
}

// Final returns the last simulated year.
func (r *Result) Final() YearRecord {
	if r == nil || len(r.Records) == 0 {
		return YearRecord{}
	}
	return r.Records[len(r.Records)-1]
}

// Record returns the row for a given year, if it was simulated.
func (r *Result) Record(year int) (YearRecord, bool) {
	if r == nil || year < 0 || year >= len(r.Records) {
		return YearRecord{}, false
	}
	return r.Records[year], true
}

// SOHSeries returns the SOH of every simulated year in order.
func (r *Result) SOHSeries() []float64 {
	out := make([]float64, len(r.Records))
	for i, rec := range r.Records {
		out[i] = rec.SOH
	}
	return out
}
