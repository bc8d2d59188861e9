package models

import (
	"bess-degradation/internal/analysis"
	"bess-degradation/internal/lifetime"
	"bess-degradation/internal/presets"
	"bess-degradation/internal/report"
)

// SimulationResponse represents the response from a simulation run
type SimulationResponse struct {
	ID        string         `json:"id,omitempty"`
	Status    string         `json:"status"`
	Summary   report.Summary `json:"summary"`
	Breakdown []YearRow      `json:"breakdown,omitempty"`
}

// YearRow is one year of the trajectory. Percentages are 0..100.
type YearRow struct {
	Year                         int     `json:"year"`
	CumulativeCycles             float64 `json:"cumulative_cycles"`
	SOHPercent                   float64 `json:"soh_percent"`
	AnnualDegradationPercent     float64 `json:"annual_degradation_percent"`
	CumulativeDegradationPercent float64 `json:"cumulative_degradation_percent"`
	PreStoragePercent            float64 `json:"prestorage_percent"`
	CyclicPercent                float64 `json:"cyclic_percent"`
	CalendarPercent              float64 `json:"calendar_percent"`
	DCCapacityKWh                float64 `json:"dc_capacity_kwh"`
	ACCapacityKWh                float64 `json:"ac_capacity_kwh"`
	Source                       string  `json:"degradation_source"`
	Mode                         string  `json:"operation_mode,omitempty"`
}

// NewSimulationResponse builds the response for a stored run.
func NewSimulationResponse(id string, res *lifetime.Result, includeBreakdown bool) SimulationResponse {
	out := SimulationResponse{
		ID:      id,
		Status:  "completed",
		Summary: report.NewSummary(res),
	}
	if includeBreakdown {
		out.Breakdown = make([]YearRow, len(res.Records))
		for i, r := range res.Records {
			out.Breakdown[i] = NewYearRow(r)
		}
	}
	return out
}

func NewYearRow(r lifetime.YearRecord) YearRow {
	pct := func(x float64) float64 { return report.Round(x*100, 4) }
	return YearRow{
		Year:                         r.Year,
		CumulativeCycles:             report.Round(r.CumulativeCycles, 1),
		SOHPercent:                   pct(r.SOH),
		AnnualDegradationPercent:     pct(r.AnnualDegradation),
		CumulativeDegradationPercent: pct(r.CumulativeDegradation),
		PreStoragePercent:            pct(r.PreStorageLoss),
		CyclicPercent:                pct(r.CyclicFade),
		CalendarPercent:              pct(r.CalendarFade),
		DCCapacityKWh:                report.Round(r.DCCapacityKWh, 2),
		ACCapacityKWh:                report.Round(r.ACCapacityKWh, 2),
		Source:                       r.Source,
		Mode:                         string(r.Mode),
	}
}

// CompareResponse represents the response from a comparison
type CompareResponse struct {
	Comparison []ComparisonResult `json:"comparison"`
	ChartURL   string             `json:"chart_url,omitempty"`
}

// ComparisonResult contains results for one variation
type ComparisonResult struct {
	Rank    int            `json:"rank"`
	Name    string         `json:"name"`
	ID      string         `json:"id"`
	Summary report.Summary `json:"summary"`
	Stats   StatsView      `json:"stats"`
}

// StatsView is analysis.TrajectoryStats in percent.
type StatsView struct {
	MeanAnnualFadePercent    float64 `json:"mean_annual_fade_percent"`
	StdAnnualFadePercent     float64 `json:"std_annual_fade_percent"`
	MaxAnnualFadePercent     float64 `json:"max_annual_fade_percent"`
	FadePer1000CyclesPercent float64 `json:"fade_per_1000_cycles_percent"`
	CyclicSharePercent       float64 `json:"cyclic_share_percent"`
	CalendarSharePercent     float64 `json:"calendar_share_percent"`
}

func NewStatsView(s analysis.TrajectoryStats) StatsView {
	pct := func(x float64) float64 { return report.Round(x*100, 3) }
	return StatsView{
		MeanAnnualFadePercent:    pct(s.MeanAnnualFade),
		StdAnnualFadePercent:     pct(s.StdAnnualFade),
		MaxAnnualFadePercent:     pct(s.MaxAnnualFade),
		FadePer1000CyclesPercent: pct(s.FadePer1000Cycles),
		CyclicSharePercent:       pct(s.CyclicShare),
		CalendarSharePercent:     pct(s.CalendarShare),
	}
}

// PresetsResponse lists manufacturer presets.
type PresetsResponse struct {
	Presets []presets.Preset `json:"presets"`
}

// SimulationListResponse lists stored runs, newest first.
type SimulationListResponse struct {
	Simulations []SimulationListItem `json:"simulations"`
}

type SimulationListItem struct {
	ID         string  `json:"id"`
	CreatedAt  string  `json:"created_at"`
	SystemName string  `json:"system_name"`
	YearsToEOL int     `json:"years_to_eol"`
	EOLReached bool    `json:"eol_reached"`
	FinalSOH   float64 `json:"final_soh_percent"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
