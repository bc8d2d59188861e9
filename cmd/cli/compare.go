package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"bess-degradation/internal/analysis"
	"bess-degradation/internal/lifetime"
	"bess-degradation/internal/report"

	"github.com/spf13/cobra"
)

func newCompareCmd(root *rootOptions) *cobra.Command {
	var (
		cfgPaths  []string
		chartPath string
	)
	cmd := &cobra.Command{
		Use:     "compare",
		Short:   "Simulate several systems and rank them by lifetime",
		Example: `  cli compare --config a.yaml --config b.yaml --chart results/compare.png`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(cfgPaths) < 2 {
				return fmt.Errorf("compare needs at least two --config files")
			}
			cat, err := root.catalogue()
			if err != nil {
				return err
			}
			engine := lifetime.New()
			scenarios := make([]analysis.Scenario, 0, len(cfgPaths))
			eol := 0.0
			for _, p := range cfgPaths {
				cfg, err := loadConfig(p)
				if err != nil {
					return err
				}
				sc, err := cfg.SystemConfig(cat)
				if err != nil {
					return fmt.Errorf("%s: %w", p, err)
				}
				res, err := engine.Run(sc)
				if err != nil {
					return fmt.Errorf("%s: %w", p, err)
				}
				name := sc.Name
				if cfg.System.Name == nil && cfg.Preset == "" {
					name = strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
				}
				if eol == 0 {
					eol = sc.EOLThreshold
				}
				scenarios = append(scenarios, analysis.Scenario{Name: name, Result: res})
			}

			ranked := analysis.RankByLifetime(scenarios)
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "RANK\tSYSTEM\tMODE\tYEARS TO EOL\tCYCLES\tFINAL SOH\tMEAN FADE/YR")
			for _, r := range ranked {
				s := report.NewSummary(r.Result)
				years := fmt.Sprintf("%d", s.YearsToEOL)
				if !s.EOLReached {
					years = fmt.Sprintf(">%d", lifetime.HorizonYears)
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%.0f\t%.2f%%\t%.2f%%\n",
					r.Rank, r.Name, s.OperationMode, years, s.TotalCyclesToEOL, s.FinalSOHPercent,
					report.Round(r.Stats.MeanAnnualFade*100, 2))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if chartPath != "" {
				if err := report.SaveChart(chartPath, "State of Health comparison", scenarios, eol); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", chartPath)
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&cfgPaths, "config", "c", nil, "system YAML file (repeat for each system)")
	cmd.Flags().StringVar(&chartPath, "chart", "", "write a comparison chart PNG to this path")
	return cmd
}
