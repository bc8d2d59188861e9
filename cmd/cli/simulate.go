package main

import (
	"fmt"

	"bess-degradation/internal/analysis"
	"bess-degradation/internal/config"
	"bess-degradation/internal/lifetime"
	"bess-degradation/internal/logger"
	"bess-degradation/internal/report"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// systemFlags are the command-line overrides of a system file. Only flags
// the user actually set are applied.
type systemFlags struct {
	preset       string
	name         string
	capacity     float64
	power        float64
	temperature  float64
	dodPercent   float64
	storageDays  int
	cyclesPerDay float64
	cRate        float64
	acEfficiency float64
	eolPercent   float64
	variant      string
	calendar     string
}

func (f *systemFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.preset, "preset", "", "manufacturer preset (gotion, catl, byd, pylontech)")
	fs.StringVar(&f.name, "name", "", "system name")
	fs.Float64Var(&f.capacity, "capacity", 0, "nominal DC capacity in kWh")
	fs.Float64Var(&f.power, "power", 0, "rated power in kW")
	fs.Float64Var(&f.temperature, "temperature", 0, "operating temperature in °C")
	fs.Float64Var(&f.dodPercent, "dod-percent", 0, "depth of discharge in percent")
	fs.IntVar(&f.storageDays, "storage-days", 0, "FAT-SAT storage days")
	fs.Float64Var(&f.cyclesPerDay, "cycles", 0, "equivalent full cycles per day")
	fs.Float64Var(&f.cRate, "c-rate", 0, "C-rate in 1/h")
	fs.Float64Var(&f.acEfficiency, "ac-efficiency", 0, "AC round-trip efficiency (fraction)")
	fs.Float64Var(&f.eolPercent, "eol-percent", 0, "end-of-life SOH threshold in percent")
	fs.StringVar(&f.variant, "variant", "", "cyclic model: bifasic or mechanistic")
	fs.StringVar(&f.calendar, "calendar", "", "calendar model: universal or banded")
}

// apply overlays the flags that were set onto cfg.
func (f *systemFlags) apply(fs *pflag.FlagSet, cfg *config.Config) {
	set := func(name string) bool { return fs.Changed(name) }
	ptr := func(v float64) *float64 { return &v }

	var over config.SystemSpec
	if set("name") {
		name := f.name
		over.Name = &name
	}
	if set("capacity") {
		over.CapacityKWh = ptr(f.capacity)
	}
	if set("power") {
		over.PowerKW = ptr(f.power)
	}
	if set("temperature") {
		over.TemperatureC = ptr(f.temperature)
	}
	if set("dod-percent") {
		over.DoDPercent = ptr(f.dodPercent)
	}
	if set("storage-days") {
		days := f.storageDays
		over.StorageDays = &days
	}
	if set("cycles") {
		over.CyclesPerDay = ptr(f.cyclesPerDay)
	}
	if set("c-rate") {
		over.CRate = ptr(f.cRate)
	}
	if set("ac-efficiency") {
		over.ACEfficiency = ptr(f.acEfficiency)
	}
	cfg.System = config.MergeSystem(cfg.System, over)

	var sim config.SimulationConfig
	if set("eol-percent") {
		sim.EOLThresholdPercent = ptr(f.eolPercent)
	}
	sim.Variant = f.variant
	sim.Calendar = f.calendar
	cfg.Simulation = config.MergeSimulation(cfg.Simulation, sim)

	if set("preset") {
		cfg.Preset = f.preset
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return &config.Config{}, nil
	}
	cfg, err := config.LoadUnchecked(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func newSimulateCmd(root *rootOptions) *cobra.Command {
	var (
		cfgPath   string
		outPath   string
		chartPath string
		flags     systemFlags
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate one system until end of life",
		Example: `  cli simulate --config examples/systems/gotion_2028.yaml --out results/lifetime.csv
  cli simulate --preset catl --capacity 500 --temperature 35 --dod-percent 80`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.New("cli")
			cat, err := root.catalogue()
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}
			flags.apply(cmd.Flags(), cfg)

			sc, err := cfg.SystemConfig(cat)
			if err != nil {
				return err
			}
			res, err := lifetime.New().Run(sc)
			if err != nil {
				return err
			}
			log.Debugw("simulation finished", map[string]any{"years": len(res.Records) - 1, "mode": res.OperationMode})

			if err := report.PrintSummary(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			if outPath != "" {
				if err := lifetime.WriteCSVFile(outPath, res.Records); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)
			}
			if chartPath != "" {
				scenarios := []analysis.Scenario{{Name: res.Config.Name, Result: res}}
				if err := report.SaveChart(chartPath, "State of Health", scenarios, res.Config.EOLThreshold); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", chartPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "system YAML file")
	cmd.Flags().StringVar(&outPath, "out", "", "write the yearly trajectory CSV to this path")
	cmd.Flags().StringVar(&chartPath, "chart", "", "write an SOH chart PNG to this path")
	flags.register(cmd.Flags())
	return cmd
}
