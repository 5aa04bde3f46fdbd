// Package testutil provides utilities for testing biomectl in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SetupTestEnv points every user-level location biomectl reads (home, cache
// dir, GitHub token) at a fresh temp directory and returns that directory.
// Cleanup is handled by t.TempDir and t.Setenv.
func SetupTestEnv(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()

	t.Setenv("HOME", filepath.Join(tmpDir, "home"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(tmpDir, "cache"))
	t.Setenv("LOCALAPPDATA", filepath.Join(tmpDir, "cache"))
	t.Setenv("GITHUB_TOKEN", "")

	for _, dir := range []string{
		filepath.Join(tmpDir, "home"),
		filepath.Join(tmpDir, "cache"),
	} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("failed to create test directory %s: %v", dir, err)
		}
	}

	return tmpDir
}
