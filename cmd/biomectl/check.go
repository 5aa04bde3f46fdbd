package main

import (
	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/biomectl/internal/biome"
)

// triadFlags registers the three enable flags shared by check and ci.
func triadFlags(cmd *cobra.Command, formatter, linter, organizeImports *bool) {
	cmd.Flags().BoolVar(formatter, "formatter-enabled", true, "Allow enabling or disabling the formatter check")
	cmd.Flags().BoolVar(linter, "linter-enabled", true, "Allow enabling or disabling the linter check")
	cmd.Flags().BoolVar(organizeImports, "organize-imports-enabled", true, "Allow enabling or disabling the organize imports")
}

func newCheckCmd(a *app) *cobra.Command {
	opts := biome.DefaultCheckOptions()
	var apply, applyUnsafe bool

	cmd := &cobra.Command{
		Use:   "check <path>...",
		Short: "Run formatter, linter and import sorting on the requested files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if apply {
				opts.Write = true
			}
			if applyUnsafe {
				opts.Write = true
				opts.Unsafe = true
			}
			opts.Paths = args

			return a.runTool(cmd, func(inv *biome.Invoker) (biome.Invocation, error) {
				return inv.Check(cmd.Context(), opts)
			})
		},
	}

	cmd.Flags().BoolVar(&opts.Write, "write", false, "Writes safe fixes, formatting and import sorting")
	cmd.Flags().BoolVar(&opts.Unsafe, "unsafe", false, "Allow to also apply unsafe fixes, together with --write")
	triadFlags(cmd, &opts.FormatterEnabled, &opts.LinterEnabled, &opts.OrganizeImportsEnabled)
	cmd.Flags().BoolVar(&opts.Staged, "staged", false, "Only check files staged for commit")
	cmd.Flags().BoolVar(&opts.Changed, "changed", false, "Only check files changed compared to the default branch")
	cmd.Flags().StringVar(&opts.Since, "since", "", "Base branch to compare against with --changed")

	cmd.Flags().BoolVar(&apply, "apply", false, "Alias of --write")
	cmd.Flags().BoolVar(&applyUnsafe, "apply-unsafe", false, "Alias of --write --unsafe")
	// MarkDeprecated only fails for an unregistered flag name.
	_ = cmd.Flags().MarkDeprecated("apply", "use --write instead")
	_ = cmd.Flags().MarkDeprecated("apply-unsafe", "use --write --unsafe instead")

	return cmd
}
