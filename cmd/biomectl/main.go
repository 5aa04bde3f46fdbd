package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/ZebulonRouseFrantzich/biomectl/internal/config"
)

// Version will be set at build time via -ldflags
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, newApp(), os.Args[1:])
	stop()
	os.Exit(code)
}

// exitCodeError carries the tool's exit status out of a command without
// printing anything; the tool has already reported its findings.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("biome exited with status %d", e.code)
}

// execute runs the CLI and returns the process exit code.
func execute(ctx context.Context, a *app, args []string) int {
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var exitErr *exitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}

	fmt.Fprintf(a.stderr, "Error: %s\n", config.FormatError(err, a.verbose))
	return 1
}
