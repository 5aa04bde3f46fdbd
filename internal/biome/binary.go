package biome

import (
	"context"
	"strings"

	"github.com/ZebulonRouseFrantzich/biomectl/internal/binary"
)

// Invocation is a ready-to-spawn command line.
type Invocation struct {
	Path    string
	Args    []string
	Version string
}

// CommandLine renders the invocation for logs. It is not shell-quoted.
func (i Invocation) CommandLine() string {
	return strings.Join(append([]string{i.Path}, i.Args...), " ")
}

// Binary turns an argument vector into an Invocation, acquiring whatever it
// needs first. Implementations compose by wrapping, see WithArgs.
type Binary interface {
	Invocation(ctx context.Context, args []string) (Invocation, error)
}

// Acquirer is the part of *binary.Acquirer used here.
type Acquirer interface {
	EnsureBinary(ctx context.Context, spec binary.VersionSpec) (binary.Location, error)
}

// AcquiredBinary resolves spec through an Acquirer on every call. The
// acquirer's existence check keeps repeated calls cheap.
type AcquiredBinary struct {
	acquirer Acquirer
	spec     binary.VersionSpec
}

// NewAcquiredBinary creates a Binary backed by acquirer.
func NewAcquiredBinary(acquirer Acquirer, spec binary.VersionSpec) *AcquiredBinary {
	return &AcquiredBinary{acquirer: acquirer, spec: spec}
}

// Invocation implements Binary.
func (b *AcquiredBinary) Invocation(ctx context.Context, args []string) (Invocation, error) {
	loc, err := b.acquirer.EnsureBinary(ctx, b.spec)
	if err != nil {
		return Invocation{}, err
	}
	return Invocation{
		Path:    loc.Path,
		Args:    append([]string(nil), args...),
		Version: loc.Version,
	}, nil
}

type argsDecorator struct {
	inner Binary
	extra []string
}

// WithArgs wraps inner so every invocation gets extra appended, e.g.
// WithArgs(b, "--colors=off") for output that is compared in tests.
func WithArgs(inner Binary, extra ...string) Binary {
	return &argsDecorator{inner: inner, extra: extra}
}

func (d *argsDecorator) Invocation(ctx context.Context, args []string) (Invocation, error) {
	merged := make([]string, 0, len(args)+len(d.extra))
	merged = append(merged, args...)
	merged = append(merged, d.extra...)
	return d.inner.Invocation(ctx, merged)
}
