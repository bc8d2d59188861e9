package report

import (
	"fmt"
	"io"
	"strings"

	"bess-degradation/internal/lifetime"

	"github.com/shopspring/decimal"
)

// Summary is the headline view of a simulation, rounded for display.
// Percentages are 0..100.
type Summary struct {
	SystemName            string  `json:"system_name"`
	YearsToEOL            int     `json:"years_to_eol"`
	EOLReached            bool    `json:"eol_reached"`
	TotalCyclesToEOL      float64 `json:"total_cycles_to_eol"`
	FinalSOHPercent       float64 `json:"final_soh_percent"`
	ResidualCapacityKWh   float64 `json:"residual_capacity_kwh"`
	ResidualACCapacityKWh float64 `json:"residual_ac_capacity_kwh"`
	OperationMode         string  `json:"operation_mode"`
	Year1SOHPercent       float64 `json:"year1_soh_percent"`
	PreStorageLossPercent float64 `json:"prestorage_loss_percent"`
	ModelVersion          string  `json:"model_version"`
}

// Round returns x rounded half away from zero to places decimals.
func Round(x float64, places int32) float64 {
	return decimal.NewFromFloat(x).Round(places).InexactFloat64()
}

func percent(x float64) float64 { return Round(x*100, 2) }

func NewSummary(res *lifetime.Result) Summary {
	final := res.Final()
	s := Summary{
		SystemName:            res.Config.Name,
		YearsToEOL:            res.YearsToEOL,
		EOLReached:            res.EOLReached,
		TotalCyclesToEOL:      Round(res.TotalCyclesToEOL, 0),
		FinalSOHPercent:       percent(final.SOH),
		ResidualCapacityKWh:   Round(final.DCCapacityKWh, 1),
		ResidualACCapacityKWh: Round(final.ACCapacityKWh, 1),
		OperationMode:         string(res.OperationMode),
		ModelVersion:          res.ModelVersion,
	}
	if y0, ok := res.Record(0); ok {
		s.PreStorageLossPercent = percent(y0.PreStorageLoss)
	}
	if y1, ok := res.Record(1); ok {
		s.Year1SOHPercent = percent(y1.SOH)
	}
	return s
}

// PrintSummary writes the console summary block for a run.
func PrintSummary(w io.Writer, res *lifetime.Result) error {
	rule := strings.Repeat("=", 70)
	c := res.Config
	s := NewSummary(res)

	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\nBESS Degradation Model %s\n%s\n", rule, res.ModelVersion, rule)
	fmt.Fprintf(&b, "System:         %s\n", c.Name)
	if c.Manufacturer != "" {
		fmt.Fprintf(&b, "Manufacturer:   %s\n", c.Manufacturer)
	}
	fmt.Fprintf(&b, "Capacity:       %s kWh DC / %s kWh AC\n",
		decimal.NewFromFloat(c.CapacityKWh).StringFixed(0),
		decimal.NewFromFloat(c.ACCapacityKWh()).StringFixed(0))
	fmt.Fprintf(&b, "Temperature:    %s°C (band %s)\n", decimal.NewFromFloat(c.TemperatureC).String(), c.Band())
	fmt.Fprintf(&b, "DoD:            %s%%\n", decimal.NewFromFloat(c.DoD*100).StringFixed(1))
	fmt.Fprintf(&b, "Cycles/day:     %s (%s/year)\n",
		decimal.NewFromFloat(c.CyclesPerDay).String(),
		decimal.NewFromFloat(c.CyclesPerYear()).StringFixed(0))
	fmt.Fprintf(&b, "FAT-SAT days:   %d (pre-storage loss %.2f%%)\n", c.StorageDays, s.PreStorageLossPercent)
	fmt.Fprintf(&b, "Operation mode: %s\n", strings.ToUpper(s.OperationMode))

	b.WriteString("\nLifetime results:\n")
	if s.EOLReached {
		fmt.Fprintf(&b, "  Years to EOL (%.0f%%):   %d\n", c.EOLThreshold*100, s.YearsToEOL)
		fmt.Fprintf(&b, "  Total cycles to EOL:  %.0f\n", s.TotalCyclesToEOL)
	} else {
		fmt.Fprintf(&b, "  EOL (%.0f%%) not reached within %d years\n", c.EOLThreshold*100, lifetime.HorizonYears)
	}
	if y1, ok := res.Record(1); ok {
		fmt.Fprintf(&b, "  Year 1 SOH:           %.2f%%\n", s.Year1SOHPercent)
		fmt.Fprintf(&b, "  Year 1 AC capacity:   %.0f kWh\n", y1.ACCapacityKWh)
	}
	fmt.Fprintf(&b, "  Final SOH:            %.2f%%\n", s.FinalSOHPercent)
	fmt.Fprintf(&b, "  Residual capacity:    %.1f kWh DC / %.1f kWh AC\n", s.ResidualCapacityKWh, s.ResidualACCapacityKWh)
	fmt.Fprintf(&b, "%s\n", rule)

	_, err := io.WriteString(w, b.String())
	return err
}
