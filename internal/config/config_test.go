package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"bess-degradation/internal/model"
	"bess-degradation/internal/presets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoad_PresetAndOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "system.yaml", `preset: gotion
system:
  capacity_kwh: 2028
  power_kw: 500
  temperature_c: 30
  dod_percent: 95
  storage_days: 0
simulation:
  eol_threshold_percent: 70
  variant: bifasic
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	sc, err := cfg.SystemConfig(presets.Default())
	require.NoError(t, err)
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"name", sc.Name, "Gotion High-Tech Co., Ltd. 2028 kWh"},
		{"manufacturer", sc.Manufacturer, "Gotion High-Tech Co., Ltd."},
		{"capacity", sc.CapacityKWh, 2028.0},
		{"temperature", sc.TemperatureC, 30.0},
		{"dod", sc.DoD, 0.95},
		{"storage_days", sc.StorageDays, 0},
		{"ac_efficiency", sc.ACEfficiency, 0.835},
		{"eol", sc.EOLThreshold, 0.70},
		{"variant", sc.Variant, model.VariantBifasic},
		{"calendar", sc.Calendar, model.CalendarUniversal},
		{"cycles_default", sc.CyclesPerDay, 1.0},
	}
	for _, c := range checks {
		assert.Equal(t, c.want, c.got, c.name)
	}
}

func TestLoad_SystemFileMerge(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", `preset: catl
system:
  name: Site A
  capacity_kwh: 500
  temperature_c: 25
  dod: 0.9
`)
	path := writeFile(t, dir, "run.yaml", `system_file: base.yaml
system:
  dod_percent: 80
  cycles_per_day: 1.5
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "catl", cfg.Preset)

	sc, err := cfg.SystemConfig(presets.Default())
	require.NoError(t, err)
	assert.Equal(t, "Site A", sc.Name)
	assert.Equal(t, 500.0, sc.CapacityKWh)
	assert.InDelta(t, 0.80, sc.DoD, 1e-12)
	assert.Equal(t, 1.5, sc.CyclesPerDay)
	assert.Equal(t, 0.85, sc.ACEfficiency)
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()

	both := writeFile(t, dir, "both.yaml", `system:
  capacity_kwh: 1000
  dod: 0.9
  dod_percent: 90
`)
	_, err := Load(both)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrValidation))

	percent := writeFile(t, dir, "percent.yaml", `system:
  capacity_kwh: 1000
  dod: 90
`)
	_, err = Load(percent)
	require.Error(t, err)
	var ve *model.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "dod", ve.Field)

	unknown := writeFile(t, dir, "unknown.yaml", `preset: acme
`)
	_, err = Load(unknown)
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestMergeSystem(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	base := SystemSpec{CapacityKWh: f(1000), DoD: f(0.9), CRate: f(0.5)}
	over := SystemSpec{DoDPercent: f(80), CRate: f(1)}
	got := MergeSystem(base, over)
	assert.Equal(t, 1000.0, *got.CapacityKWh)
	assert.Nil(t, got.DoD)
	assert.Equal(t, 80.0, *got.DoDPercent)
	assert.Equal(t, 1.0, *got.CRate)
}

func TestLoadServer(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "server.yaml", `port: "9090"
env: production
store:
  kind: sqlite
  sqlite_path: /tmp/runs.db
  ttl: 30m
cors_origins:
  - https://dash.example.com
`)
	t.Setenv("BESS_LOG_LEVEL", "debug")
	t.Setenv("BESS_STORE__SQLITE_PATH", "/var/lib/bess/runs.db")

	cfg, err := LoadServer(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "sqlite", cfg.Store.Kind)
	assert.Equal(t, "/var/lib/bess/runs.db", cfg.Store.SQLitePath)
	assert.Equal(t, 30*time.Minute, cfg.Store.TTL)
	assert.Equal(t, "./web/dist", cfg.StaticDir)
	assert.Equal(t, []string{"https://dash.example.com"}, cfg.CORSOrigins)

	t.Setenv("BESS_CORS_ORIGINS", "https://a.example.com, https://b.example.com")
	cfg, err = LoadServer(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
}

func TestLoadServer_DefaultsAndErrors(t *testing.T) {
	cfg, err := LoadServer("")
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "memory", cfg.Store.Kind)
	assert.Equal(t, time.Hour, cfg.Store.TTL)
	assert.Empty(t, cfg.CORSOrigins)

	dir := t.TempDir()
	_, err = LoadServer(writeFile(t, dir, "server.toml", "port = 1"))
	assert.Error(t, err)

	t.Setenv("BESS_STORE__KIND", "redis")
	_, err = LoadServer("")
	assert.Error(t, err)
}

func TestMergeSimulation(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	base := SimulationConfig{EOLThresholdPercent: f(80), Variant: "mechanistic"}
	got := MergeSimulation(base, SimulationConfig{EOLThreshold: f(0.7), Calendar: "banded"})
	assert.Nil(t, got.EOLThresholdPercent)
	assert.Equal(t, 0.7, *got.EOLThreshold)
	assert.Equal(t, "mechanistic", got.Variant)
	assert.Equal(t, "banded", got.Calendar)
}
