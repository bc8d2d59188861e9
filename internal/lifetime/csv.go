package lifetime

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

var csvHeader = []string{
	"year",
	"cumulative_cycles",
	"soh_percent",
	"annual_degradation_percent",
	"cumulative_degradation_percent",
	"dc_capacity_kwh",
	"ac_capacity_kwh",
	"prestorage_loss_percent",
	"cyclic_fade_percent",
	"calendar_fade_percent",
	"degradation_source",
	"operation_mode",
}

// WriteCSV writes one row per simulated year.
func WriteCSV(w io.Writer, records []YearRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			strconv.Itoa(r.Year),
			fmtFloat(r.CumulativeCycles),
			fmtPercent(r.SOH),
			fmtPercent(r.AnnualDegradation),
			fmtPercent(r.CumulativeDegradation),
			fmtFloat(r.DCCapacityKWh),
			fmtFloat(r.ACCapacityKWh),
			fmtPercent(r.PreStorageLoss),
			fmtPercent(r.CyclicFade),
			fmtPercent(r.CalendarFade),
			r.Source,
			string(r.Mode),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the trajectory to path, creating parent directories.
func WriteCSVFile(path string, records []YearRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteCSV(f, records)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}

func fmtPercent(x float64) string {
	return fmtFloat(x * 100)
}
