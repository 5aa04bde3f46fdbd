package main

import (
	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/biomectl/internal/biome"
)

func newCICmd(a *app) *cobra.Command {
	opts := biome.DefaultCIOptions()

	cmd := &cobra.Command{
		Use:   "ci <path>...",
		Short: "Run formatter, linter and import sorting read-only, for CI pipelines",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Paths = args
			return a.runTool(cmd, func(inv *biome.Invoker) (biome.Invocation, error) {
				return inv.CI(cmd.Context(), opts)
			})
		},
	}

	triadFlags(cmd, &opts.FormatterEnabled, &opts.LinterEnabled, &opts.OrganizeImportsEnabled)
	cmd.Flags().BoolVar(&opts.Changed, "changed", false, "Only check files changed compared to the default branch")
	cmd.Flags().StringVar(&opts.Since, "since", "", "Base branch to compare against with --changed")

	return cmd
}
