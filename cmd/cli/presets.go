package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newPresetsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List manufacturer presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := root.catalogue()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tMANUFACTURER\tCHEMISTRY\tAC EFF\tCYCLE LIFE\tWARRANTY")
			for _, p := range cat.List() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%.1f%%\t%d\t%d y\n",
					p.ID, p.Name, p.Chemistry, p.ACEfficiencyTypical*100, p.TypicalCycleLife, p.WarrantyYears)
			}
			return tw.Flush()
		},
	}
}
