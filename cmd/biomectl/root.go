package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "biomectl",
		Short:         "Run the Biome.js linter and formatter without Node.js",
		Long:          "biomectl downloads the standalone Biome binary for this machine on first use and runs it.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to the Lua config file (default ./biomectl.lua)")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Show debug output and the executed command line")
	cmd.PersistentFlags().BoolVar(&a.noCache, "no-cache", false, "Do not read or write the resolved-version cache")

	cmd.AddCommand(newCheckCmd(a))
	cmd.AddCommand(newCICmd(a))
	cmd.AddCommand(newDownloadCmd(a))

	return cmd
}
