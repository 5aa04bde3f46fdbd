package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/biomectl/internal/binary"
)

func newDownloadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "download [destination]",
		Short: "Copy the configured Biome binary into a directory (default ./bin)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest := "bin"
			if len(args) == 1 {
				dest = args[0]
			}

			s, err := a.load(cmd.Context())
			if err != nil {
				return err
			}

			installer := binary.NewInstaller(s.acquirer, nil, s.logger)
			result, err := installer.InstallTo(cmd.Context(), s.spec, a.resolvePath(dest))
			s.progress.Finish()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case result.AlreadyInstalled:
				fmt.Fprintf(out, "Biome %s is already installed at %s\n", binary.Tag(result.Version), result.Path)
			case result.Replaced != "":
				fmt.Fprintf(out, "Replaced Biome %s with %s at %s\n", binary.Tag(result.Replaced), binary.Tag(result.Version), result.Path)
			default:
				fmt.Fprintf(out, "Biome %s installed at %s\n", binary.Tag(result.Version), result.Path)
			}
			return nil
		},
	}
}
