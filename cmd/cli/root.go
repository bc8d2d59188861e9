package main

import (
	"bess-degradation/internal/logger"
	"bess-degradation/internal/presets"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	presetDir string
	logLevel  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "cli",
		Short:         "LFP battery storage degradation simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetLevel(opts.logLevel)
		},
	}
	cmd.PersistentFlags().StringVar(&opts.presetDir, "preset-dir", "", "directory with extra preset YAML files")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	cmd.AddCommand(newSimulateCmd(opts), newCompareCmd(opts), newPresetsCmd(opts))
	return cmd
}

func (o *rootOptions) catalogue() (*presets.Catalogue, error) {
	return presets.Load(o.presetDir)
}
