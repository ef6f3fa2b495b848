package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kolkov/fdrtracer/fdr"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "fdrtracer version %s (runtime %s)\n", version, fdr.Version)
		},
	}
}
