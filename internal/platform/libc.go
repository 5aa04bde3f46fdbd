package platform

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v4/host"
)

// HostLibcDetector detects musl by looking for the musl dynamic loader, and
// falls back to the distribution family reported by gopsutil.
type HostLibcDetector struct {
	// Root is prepended to loader paths. Empty means "/".
	Root string
	// PlatformInfo overrides gopsutil lookups. Used by tests.
	PlatformInfo func(ctx context.Context) (platform, family, version string, err error)
}

// IsMusl reports whether the host uses musl libc.
func (d HostLibcDetector) IsMusl(ctx context.Context) bool {
	root := d.Root
	if root == "" {
		root = "/"
	}

	for _, pattern := range []string{"lib/ld-musl-*.so.1", "usr/lib/ld-musl-*.so.1"} {
		matches, err := filepath.Glob(filepath.Join(root, pattern))
		if err == nil && len(matches) > 0 {
			return true
		}
	}

	lookup := d.PlatformInfo
	if lookup == nil {
		lookup = host.PlatformInformationWithContext
	}
	platform, family, _, err := lookup(ctx)
	if err != nil {
		return false
	}
	return mapFamily(family) == FamilyAlpine || strings.EqualFold(platform, "alpine")
}

// StaticLibcDetector always returns the configured answer.
type StaticLibcDetector bool

// IsMusl returns the static value.
func (s StaticLibcDetector) IsMusl(context.Context) bool {
	return bool(s)
}
