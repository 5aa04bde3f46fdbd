package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/biomectl/internal/biome"
	"github.com/ZebulonRouseFrantzich/biomectl/internal/git"
)

// runTool acquires the binary through build, runs it, and turns a nonzero
// tool exit into an exitCodeError.
func (a *app) runTool(cmd *cobra.Command, build func(*biome.Invoker) (biome.Invocation, error)) error {
	ctx := cmd.Context()

	s, err := a.load(ctx)
	if err != nil {
		return err
	}

	b := biome.NewAcquiredBinary(s.acquirer, s.spec)
	invoker := biome.NewInvoker(b, git.NewClient(a.workDir), s.logger)

	inv, err := build(invoker)
	s.progress.Finish()
	if err != nil {
		return err
	}

	code, err := biome.Run(ctx, inv, a.workDir, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("run biome: %w", err)
	}
	if code != 0 {
		return &exitCodeError{code: code}
	}
	return nil
}
