package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"bess-degradation/internal/model"
	"bess-degradation/internal/presets"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk system description (YAML).
type Config struct {
	// Optional: manufacturer preset ID supplying defaults (see internal/presets).
	Preset string `yaml:"preset"`
	// Optional: load system parameters from a separate YAML (e.g. examples/systems/*.yaml).
	// If both SystemFile and System are provided, System overrides SystemFile.
	SystemFile string           `yaml:"system_file"`
	System     SystemSpec       `yaml:"system"`
	Simulation SimulationConfig `yaml:"simulation"`
}

// SystemSpec mirrors model.SystemConfig with optional fields, so an explicit
// zero (e.g. storage_days: 0) is distinguishable from "not set".
// Fraction fields accept a *_percent spelling; setting both is an error.
type SystemSpec struct {
	Name         *string  `yaml:"name" json:"name,omitempty"`
	CapacityKWh  *float64 `yaml:"capacity_kwh" json:"capacity_kwh,omitempty"`
	PowerKW      *float64 `yaml:"power_kw" json:"power_kw,omitempty"`
	TemperatureC *float64 `yaml:"temperature_c" json:"temperature_c,omitempty"`
	DoD          *float64 `yaml:"dod" json:"dod,omitempty"`
	DoDPercent   *float64 `yaml:"dod_percent" json:"dod_percent,omitempty"`
	StorageDays  *int     `yaml:"storage_days" json:"storage_days,omitempty"`
	ACEfficiency *float64 `yaml:"ac_efficiency" json:"ac_efficiency,omitempty"`
	DCEfficiency *float64 `yaml:"dc_efficiency" json:"dc_efficiency,omitempty"`
	CyclesPerDay *float64 `yaml:"cycles_per_day" json:"cycles_per_day,omitempty"`
	CRate        *float64 `yaml:"c_rate" json:"c_rate,omitempty"`
	SoCMin       *float64 `yaml:"soc_min" json:"soc_min,omitempty"`
	SoCMax       *float64 `yaml:"soc_max" json:"soc_max,omitempty"`
}

type SimulationConfig struct {
	EOLThreshold        *float64 `yaml:"eol_threshold" json:"eol_threshold,omitempty"`
	EOLThresholdPercent *float64 `yaml:"eol_threshold_percent" json:"eol_threshold_percent,omitempty"`
	Variant             string   `yaml:"variant" json:"variant,omitempty"`
	Calendar            string   `yaml:"calendar" json:"calendar,omitempty"`
}

// MergeSimulation overlays set fields from override onto base.
func MergeSimulation(base, override SimulationConfig) SimulationConfig {
	out := base
	if override.EOLThreshold != nil || override.EOLThresholdPercent != nil {
		out.EOLThreshold = override.EOLThreshold
		out.EOLThresholdPercent = override.EOLThresholdPercent
	}
	if override.Variant != "" {
		out.Variant = override.Variant
	}
	if override.Calendar != "" {
		out.Calendar = override.Calendar
	}
	return out
}

// Load reads, merges and validates a system file.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	// If system_file is set, load it and merge in any explicit overrides from c.System.
	if c.SystemFile != "" {
		systemPath := c.SystemFile
		if !filepath.IsAbs(systemPath) {
			// Prefer interpreting relative paths as relative to the config file directory,
			// but fall back to the provided path (relative to cwd) if that doesn't exist.
			cand := filepath.Join(filepath.Dir(path), systemPath)
			if _, err := os.Stat(cand); err == nil {
				systemPath = cand
			}
		}
		loaded, err := loadSystemFile(systemPath)
		if err != nil {
			return nil, err
		}
		if c.Preset == "" {
			c.Preset = loaded.Preset
		}
		c.System = MergeSystem(loaded.System, c.System)
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if _, err := c.SystemConfig(presets.Default()); err != nil {
		return fmt.Errorf("system config invalid: %w", err)
	}
	return nil
}

// SystemConfig resolves the file into a validated model configuration:
// defaults, then preset defaults, then explicit values.
func (c *Config) SystemConfig(cat *presets.Catalogue) (model.SystemConfig, error) {
	out := model.DefaultSystemConfig()

	var preset *presets.Preset
	if c.Preset != "" {
		p, err := cat.Lookup(c.Preset)
		if err != nil {
			return model.SystemConfig{}, err
		}
		preset = &p
		out = p.Apply(out)
	}

	out, err := c.System.Overlay(out)
	if err != nil {
		return model.SystemConfig{}, err
	}
	if c.System.Name == nil && preset != nil {
		out.Name = preset.SystemName(out.CapacityKWh)
	}

	eol, err := model.ResolveFraction("eol_threshold", c.Simulation.EOLThreshold, c.Simulation.EOLThresholdPercent, out.EOLThreshold)
	if err != nil {
		return model.SystemConfig{}, err
	}
	out.EOLThreshold = eol
	if c.Simulation.Variant != "" {
		out.Variant = model.Variant(c.Simulation.Variant)
	}
	if c.Simulation.Calendar != "" {
		out.Calendar = model.CalendarModel(c.Simulation.Calendar)
	}
	return model.NewSystemConfig(out)
}

// Overlay applies every set field of s onto base.
func (s SystemSpec) Overlay(base model.SystemConfig) (model.SystemConfig, error) {
	out := base
	if s.Name != nil {
		out.Name = *s.Name
	}
	setFloat(&out.CapacityKWh, s.CapacityKWh)
	setFloat(&out.PowerKW, s.PowerKW)
	setFloat(&out.TemperatureC, s.TemperatureC)
	if s.StorageDays != nil {
		out.StorageDays = *s.StorageDays
	}
	setFloat(&out.ACEfficiency, s.ACEfficiency)
	setFloat(&out.DCEfficiency, s.DCEfficiency)
	setFloat(&out.CyclesPerDay, s.CyclesPerDay)
	setFloat(&out.CRate, s.CRate)
	setFloat(&out.SoCMin, s.SoCMin)
	setFloat(&out.SoCMax, s.SoCMax)

	dod, err := model.ResolveFraction("dod", s.DoD, s.DoDPercent, out.DoD)
	if err != nil {
		return model.SystemConfig{}, err
	}
	out.DoD = dod
	return out, nil
}

type systemFileWrapper struct {
	Preset string     `yaml:"preset"`
	System SystemSpec `yaml:"system"`
}

func loadSystemFile(path string) (systemFileWrapper, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return systemFileWrapper{}, err
	}
	var w systemFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return systemFileWrapper{}, err
	}
	return w, nil
}

// MergeSystem overlays set fields from override onto base.
// This is used when loading a system file and then applying overrides from the request.
func MergeSystem(base, override SystemSpec) SystemSpec {
	out := base
	if override.Name != nil {
		out.Name = override.Name
	}
	pick(&out.CapacityKWh, override.CapacityKWh)
	pick(&out.PowerKW, override.PowerKW)
	pick(&out.TemperatureC, override.TemperatureC)
	// A unit given in the override replaces both spellings from the base.
	if override.DoD != nil || override.DoDPercent != nil {
		out.DoD = override.DoD
		out.DoDPercent = override.DoDPercent
	}
	if override.StorageDays != nil {
		out.StorageDays = override.StorageDays
	}
	pick(&out.ACEfficiency, override.ACEfficiency)
	pick(&out.DCEfficiency, override.DCEfficiency)
	pick(&out.CyclesPerDay, override.CyclesPerDay)
	pick(&out.CRate, override.CRate)
	pick(&out.SoCMin, override.SoCMin)
	pick(&out.SoCMax, override.SoCMax)
	return out
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func pick(dst **float64, v *float64) {
	if v != nil {
		*dst = v
	}
}
