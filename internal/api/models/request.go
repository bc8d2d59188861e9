package models

import "bess-degradation/internal/config"

// DefaultTemperatureC is the operating temperature assumed by the API when
// a request leaves it unset. Every other default matches the model's.
const DefaultTemperatureC = 30.0

// SimulateRequest is the body of POST /api/v1/simulate.
// System fields are flattened into the request; unset fields take the
// preset's defaults, then the model defaults.
type SimulateRequest struct {
	Preset string `json:"preset,omitempty"`
	config.SystemSpec
	config.SimulationConfig
	IncludeBreakdown bool `json:"include_breakdown,omitempty"`
}

// Config converts the request into a system file equivalent.
func (r SimulateRequest) Config() *config.Config {
	spec := r.SystemSpec
	if spec.TemperatureC == nil {
		t := DefaultTemperatureC
		spec.TemperatureC = &t
	}
	return &config.Config{
		Preset:     r.Preset,
		System:     spec,
		Simulation: r.SimulationConfig,
	}
}

// Merge returns r with every field set in o applied on top.
func (r SimulateRequest) Merge(o SimulateRequest) SimulateRequest {
	out := r
	if o.Preset != "" {
		out.Preset = o.Preset
	}
	out.SystemSpec = config.MergeSystem(r.SystemSpec, o.SystemSpec)
	out.SimulationConfig = config.MergeSimulation(r.SimulationConfig, o.SimulationConfig)
	return out
}

// CompareRequest is the body of POST /api/v1/simulate/compare.
type CompareRequest struct {
	Base       SimulateRequest `json:"base"`
	Variations []Variation     `json:"variations" binding:"required,min=1,dive"`
	// Chart requests a chart_url overlaying every ranked run.
	Chart bool `json:"chart,omitempty"`
}

// Variation overrides the base request for one named scenario.
type Variation struct {
	Name      string          `json:"name" binding:"required"`
	Overrides SimulateRequest `json:"overrides"`
}
