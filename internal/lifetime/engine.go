package lifetime

import (
	"math"

	"bess-degradation/internal/model"
)

const (
	// HorizonYears bounds the simulation.
	HorizonYears = 100

	ModelVersion = "v4.0-universal-lfp"
)

type Engine struct{}

func New() *Engine { return &Engine{} }

// Run simulates the system year by year until SOH falls to the EOL
// threshold or the horizon is exhausted.
//
// The configuration is validated before the first step; an invalid one
// yields no result. Run is a pure function of cfg.
func (e *Engine) Run(cfg model.SystemConfig) (*Result, error) {
	cfg, err := model.NewSystemConfig(cfg)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Config:        cfg,
		ModelVersion:  ModelVersion,
		OperationMode: cfg.Mode(),
		Records:       make([]YearRecord, 0, 16),
	}

	pre := cfg.PreStorageLoss()
	soh := 1 - pre
	res.Records = append(res.Records, e.record(cfg, 0, 0, soh, pre, model.Breakdown{
		PreStorage: pre,
		Total:      pre,
	}, SourcePreStorage))

	cyclesPerYear := cfg.CyclesPerYear()
	var cycles, days float64

	for year := 1; year <= HorizonYears; year++ {
		cycles += cyclesPerYear
		days += model.DaysPerYear

		// Mode is re-evaluated every year.
		mode := cfg.Mode()
		b := cfg.Degradation(cycles, days, mode)
		if err := checkFinite(year, b); err != nil {
			return nil, err
		}

		newSOH := math.Max(1-b.Total, 0)
		annual := 0.0
		if soh > 0 {
			annual = (soh - newSOH) / soh
		}
		res.Records = append(res.Records, e.record(cfg, year, cycles, newSOH, annual, b, SourceOperation))

		if newSOH <= cfg.EOLThreshold {
			res.YearsToEOL = year
			res.TotalCyclesToEOL = cycles
			res.EOLReached = true
			break
		}
		soh = newSOH
	}
	return res, nil
}

func (e *Engine) record(cfg model.SystemConfig, year int, cycles, soh, annual float64, b model.Breakdown, source string) YearRecord {
	return YearRecord{
		Year:                  year,
		CumulativeCycles:      cycles,
		SOH:                   soh,
		DCCapacityKWh:         cfg.CapacityKWh * soh,
		ACCapacityKWh:         cfg.ACCapacityKWh() * soh,
		AnnualDegradation:     annual,
		CumulativeDegradation: b.Total,
		PreStorageLoss:        b.PreStorage,
		CyclicFade:            b.Cyclic,
		CalendarFade:          b.Calendar,
		Source:                source,
		Mode:                  b.Mode,
	}
}

func checkFinite(year int, b model.Breakdown) error {
	for _, q := range []struct {
		name string
		v    float64
	}{
		{"pre-storage loss", b.PreStorage},
		{"cyclic fade", b.Cyclic},
		{"calendar fade", b.Calendar},
		{"total degradation", b.Total},
	} {
		if math.IsNaN(q.v) || math.IsInf(q.v, 0) {
			return &model.ComputationError{Year: year, Quantity: q.name, Value: q.v}
		}
	}
	return nil
}
