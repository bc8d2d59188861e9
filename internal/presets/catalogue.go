package presets

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"bess-degradation/internal/model"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var builtin []byte

// ErrUnknownPreset is returned by Lookup for IDs not in the catalogue.
var ErrUnknownPreset = errors.New("unknown manufacturer preset")

// Preset is manufacturer metadata. It never changes the degradation math;
// it only supplies defaults for a system configuration.
type Preset struct {
	ID                  string  `yaml:"id" json:"id"`
	Name                string  `yaml:"name" json:"name"`
	Chemistry           string  `yaml:"chemistry" json:"chemistry"`
	TypicalCycleLife    int     `yaml:"typical_cycle_life_90dod" json:"typical_cycle_life_90dod"`
	WarrantyYears       int     `yaml:"warranty_years" json:"warranty_years"`
	ACEfficiencyTypical float64 `yaml:"ac_efficiency_typical" json:"ac_efficiency_typical"`
	Notes               string  `yaml:"notes" json:"notes,omitempty"`
}

// Catalogue is a read-only set of presets keyed by lower-case ID.
type Catalogue struct {
	byID map[string]Preset
}

type presetFile struct {
	Presets []Preset `yaml:"presets"`
}

// Default returns the built-in catalogue.
func Default() *Catalogue {
	c, err := parse(builtin)
	if err != nil {
		panic(fmt.Errorf("builtin presets: %w", err))
	}
	return c
}

// Load returns the built-in catalogue extended by every *.yaml file in dir.
// Entries from dir replace built-ins with the same ID. An empty dir is allowed.
func Load(dir string) (*Catalogue, error) {
	c := Default()
	if dir == "" {
		return c, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read preset file %s: %w", e.Name(), err)
		}
		extra, err := parse(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse preset file %s: %w", e.Name(), err)
		}
		for id, p := range extra.byID {
			c.byID[id] = p
		}
	}
	return c, nil
}

func parse(raw []byte) (*Catalogue, error) {
	var f presetFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	c := &Catalogue{byID: make(map[string]Preset, len(f.Presets))}
	for _, p := range f.Presets {
		id := strings.ToLower(strings.TrimSpace(p.ID))
		if id == "" {
			return nil, fmt.Errorf("preset %q has no id", p.Name)
		}
		p.ID = id
		c.byID[id] = p
	}
	return c, nil
}

// Lookup finds a preset by case-insensitive ID.
func (c *Catalogue) Lookup(id string) (Preset, error) {
	p, ok := c.byID[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, id)
	}
	return p, nil
}

// List returns every preset sorted by ID.
func (c *Catalogue) List() []Preset {
	out := make([]Preset, 0, len(c.byID))
	for _, p := range c.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Apply sets the preset's defaults on c: manufacturer and typical AC
// efficiency. Explicit settings are applied by the caller afterwards.
func (p Preset) Apply(c model.SystemConfig) model.SystemConfig {
	c.Manufacturer = p.Name
	if p.ACEfficiencyTypical > 0 {
		c.ACEfficiency = p.ACEfficiencyTypical
	}
	return c
}

// SystemName is the display name used when a preset system is not named
// explicitly, e.g. "Gotion High-Tech Co., Ltd. 2028 kWh".
func (p Preset) SystemName(capacityKWh float64) string {
	return fmt.Sprintf("%s %.0f kWh", p.Name, capacityKWh)
}
