package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// unitsCmd prints the configured directory in report order.
var unitsCmd = &cobra.Command{
	Use:   "units",
	Short: "List configured bureaus and expert panels",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := cfg.Units.Directory()
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tKIND\tLABEL")
		for _, u := range dir.All() {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", u, u.Kind, u.Label())
		}
		return tw.Flush()
	},
}
