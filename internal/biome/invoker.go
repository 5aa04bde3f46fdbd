package biome

import (
	"context"
	"errors"
	"fmt"

	"github.com/ZebulonRouseFrantzich/biomectl/internal/binary"
	"github.com/ZebulonRouseFrantzich/biomectl/internal/git"
)

var (
	// ErrNoPaths is returned when an operation is given no paths.
	ErrNoPaths = errors.New("at least one path is required")
	// ErrVCS is returned when VCS filters are used outside a usable repository.
	ErrVCS = errors.New("vcs filter unusable")
)

// Invoker builds check and ci invocations.
type Invoker struct {
	binary Binary
	git    git.Git
	logger binary.Logger
}

// NewInvoker creates an invoker. repo may be nil to skip the VCS preflight
// and let the tool report problems itself.
func NewInvoker(b Binary, repo git.Git, logger binary.Logger) *Invoker {
	if logger == nil {
		logger = binary.NopLogger{}
	}
	return &Invoker{binary: b, git: repo, logger: logger}
}

// Check prepares "biome check". The binary is acquired before returning.
func (i *Invoker) Check(ctx context.Context, opts CheckOptions) (Invocation, error) {
	if len(opts.Paths) == 0 {
		return Invocation{}, ErrNoPaths
	}
	if err := i.preflight(ctx, opts.Staged || opts.Changed, opts.Since); err != nil {
		return Invocation{}, err
	}
	return i.invocation(ctx, "check", opts.Args())
}

// CI prepares "biome ci". The binary is acquired before returning.
func (i *Invoker) CI(ctx context.Context, opts CIOptions) (Invocation, error) {
	if len(opts.Paths) == 0 {
		return Invocation{}, ErrNoPaths
	}
	if err := i.preflight(ctx, opts.Changed, opts.Since); err != nil {
		return Invocation{}, err
	}
	return i.invocation(ctx, "ci", opts.Args())
}

func (i *Invoker) invocation(ctx context.Context, op string, args []string) (Invocation, error) {
	inv, err := i.binary.Invocation(ctx, args)
	if err != nil {
		return Invocation{}, err
	}
	i.logger.Info("executing biome", "operation", op, "version", inv.Version)
	i.logger.Debug("command", "line", inv.CommandLine())
	return inv, nil
}

// preflight fails early when VCS filters cannot work, instead of leaving the
// tool to print a less specific error after acquisition.
func (i *Invoker) preflight(ctx context.Context, needsRepo bool, since string) error {
	if i.git == nil || (!needsRepo && since == "") {
		return nil
	}

	ok, err := i.git.IsGitRepo(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrVCS, err)
	}
	if !ok {
		return fmt.Errorf("%w: --staged, --changed and --since require a git repository", ErrVCS)
	}

	if since != "" {
		if _, err := i.git.ResolveRef(ctx, since); err != nil {
			return fmt.Errorf("%w: --since=%s: %w", ErrVCS, since, err)
		}
	}
	return nil
}
