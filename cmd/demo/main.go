package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"bess-degradation/internal/analysis"
	"bess-degradation/internal/config"
	"bess-degradation/internal/lifetime"
	"bess-degradation/internal/logger"
	"bess-degradation/internal/presets"
	"bess-degradation/internal/report"
)

// Demo:
// - Build the three reference systems (two presets, one custom hot-climate site)
// - Print each summary and simulate to 80% SOH
// - Write one CSV per system and a comparison chart
func main() {
	outDir := flag.String("out", "output", "directory for CSV files and the comparison chart")
	flag.Parse()

	log := logger.New("demo")
	if err := run(*outDir); err != nil {
		log.Errorf("demo failed: %v", err)
		os.Exit(1)
	}
}

func run(outDir string) error {
	ptr := func(v float64) *float64 { return &v }
	name := "Remote Site - Tropical"
	systems := []struct {
		label string
		cfg   config.Config
	}{
		{"Gotion 2028 kWh", config.Config{
			Preset: "gotion",
			System: config.SystemSpec{CapacityKWh: ptr(2028), PowerKW: ptr(500), TemperatureC: ptr(30)},
		}},
		{"CATL 500 kWh", config.Config{
			Preset: "catl",
			System: config.SystemSpec{CapacityKWh: ptr(500), PowerKW: ptr(250), TemperatureC: ptr(25),
				DoD: ptr(0.90), CyclesPerDay: ptr(1.0)},
		}},
		{"Custom 150 kWh", config.Config{
			System: config.SystemSpec{Name: &name, CapacityKWh: ptr(150), PowerKW: ptr(75), TemperatureC: ptr(40),
				DoD: ptr(0.85), CyclesPerDay: ptr(1.5), ACEfficiency: ptr(0.88)},
		}},
	}

	cat := presets.Default()
	engine := lifetime.New()
	scenarios := make([]analysis.Scenario, 0, len(systems))
	for _, s := range systems {
		sc, err := s.cfg.SystemConfig(cat)
		if err != nil {
			return fmt.Errorf("%s: %w", s.label, err)
		}
		res, err := engine.Run(sc)
		if err != nil {
			return fmt.Errorf("%s: %w", s.label, err)
		}
		if err := report.PrintSummary(os.Stdout, res); err != nil {
			return err
		}
		csvPath := filepath.Join(outDir, fmt.Sprintf("lifetime_%d.csv", len(scenarios)+1))
		if err := lifetime.WriteCSVFile(csvPath, res.Records); err != nil {
			return err
		}
		scenarios = append(scenarios, analysis.Scenario{Name: s.label, Result: res})
	}

	fmt.Println("Lifetime to 80% SOH")
	for _, sc := range scenarios {
		res := sc.Result
		if res.EOLReached {
			fmt.Printf("\n%s: %d years\n", sc.Name, res.YearsToEOL)
		} else {
			fmt.Printf("\n%s: beyond %d years\n", sc.Name, lifetime.HorizonYears)
		}
		for _, year := range []int{1, 5} {
			if r, ok := res.Record(year); ok {
				fmt.Printf("  Year %d SOH: %.2f%%\n", year, r.SOH*100)
			}
		}
	}

	chartPath := filepath.Join(outDir, "bess_lfp_comparison.png")
	if err := report.SaveChart(chartPath, "BESS LFP degradation comparison", scenarios, 0.80); err != nil {
		return err
	}
	fmt.Printf("\nWrote %s\n", chartPath)
	return nil
}
