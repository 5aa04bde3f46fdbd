package biome

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
)

// Run spawns inv and streams its output. A nonzero exit from the tool is
// reported through exitCode with a nil error; err is only set when the
// process could not be started or waited on.
func Run(ctx context.Context, inv Invocation, dir string, stdout, stderr io.Writer) (int, error) {
	cmd := exec.CommandContext(ctx, inv.Path, inv.Args...)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ctx.Err() != nil {
			return exitErr.ExitCode(), fmt.Errorf("run %s: %w", inv.Path, ctx.Err())
		}
		return exitErr.ExitCode(), nil
	}
	return -1, fmt.Errorf("run %s: %w", inv.Path, err)
}
