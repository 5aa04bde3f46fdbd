package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ZebulonRouseFrantzich/biomectl/internal/binary"
	"github.com/ZebulonRouseFrantzich/biomectl/internal/platform"
)

// staticDetector returns fixed platform info.
type staticDetector struct {
	info *platform.Info
}

func (d staticDetector) Detect(context.Context) (*platform.Info, error) {
	return d.info, nil
}

// recordingLogger captures warnings.
type recordingLogger struct {
	binary.NopLogger
	warnings []string
}

func (r *recordingLogger) Warn(msg string, keysAndValues ...interface{}) {
	r.warnings = append(r.warnings, msg)
}

func TestParser_ParseString(t *testing.T) {
	tests := []struct {
		name    string
		lua     string
		check   func(t *testing.T, c *Config)
		wantErr string
	}{
		{
			name: "explicit version",
			lua:  `biome = { binary_version = "v1.8.3" }`,
			check: func(t *testing.T, c *Config) {
				if c.BinaryVersion != "v1.8.3" {
					t.Errorf("BinaryVersion = %q", c.BinaryVersion)
				}
				if c.DownloadDir != DefaultDownloadDir {
					t.Errorf("DownloadDir = %q, want default", c.DownloadDir)
				}
				if c.DownloadScheme != "legacy" {
					t.Errorf("DownloadScheme = %q, want legacy", c.DownloadScheme)
				}
			},
		},
		{
			name: "all fields",
			lua: `
biome = {
  binary_version = "latest_nightly",
  download_dir = "/opt/biome",
  cache_dir = "/var/cache/biomectl",
  download_scheme = "auto",
  scheme_threshold = "2.0.0",
  releases_url = "https://ghe.example.com/api/v3/repos/biomejs/biome/releases",
  download_base_url = "https://mirror.example.com/biome",
  keyring = "keys/biome.asc",
  signature_suffix = ".sig",
  checksums = {
    ["biome-linux-x64"] = "` + strings.Repeat("ab", 32) + `",
  },
}`,
			check: func(t *testing.T, c *Config) {
				if c.BinaryVersion != "latest_nightly" || c.DownloadDir != "/opt/biome" || c.CacheDir != "/var/cache/biomectl" {
					t.Errorf("unexpected config: %+v", c)
				}
				if c.DownloadScheme != "auto" || c.SchemeThreshold != "2.0.0" {
					t.Errorf("scheme = %q/%q", c.DownloadScheme, c.SchemeThreshold)
				}
				if c.ReleasesURL == "" || c.DownloadBaseURL != "https://mirror.example.com/biome" {
					t.Errorf("urls = %q, %q", c.ReleasesURL, c.DownloadBaseURL)
				}
				if c.Keyring != "keys/biome.asc" || c.SignatureSuffix != ".sig" {
					t.Errorf("keyring = %q, suffix = %q", c.Keyring, c.SignatureSuffix)
				}
				if len(c.Checksums) != 1 || c.Checksums["biome-linux-x64"] != strings.Repeat("ab", 32) {
					t.Errorf("checksums = %v", c.Checksums)
				}
			},
		},
		{
			name: "empty table keeps defaults",
			lua:  `biome = {}`,
			check: func(t *testing.T, c *Config) {
				if c.BinaryVersion != "" || c.DownloadDir != DefaultDownloadDir {
					t.Errorf("unexpected config: %+v", c)
				}
			},
		},
		{
			name: "lua expressions",
			lua:  `local major = 1; biome = { binary_version = string.format("%d.%d.%d", major, 9, 4) }`,
			check: func(t *testing.T, c *Config) {
				if c.BinaryVersion != "1.9.4" {
					t.Errorf("BinaryVersion = %q", c.BinaryVersion)
				}
			},
		},
		{
			name:    "missing table",
			lua:     `other = {}`,
			wantErr: "missing or invalid 'biome' table",
		},
		{
			name:    "syntax error",
			lua:     `biome = {`,
			wantErr: "Lua syntax error",
		},
		{
			name:    "invalid version",
			lua:     `biome = { binary_version = "1.8" }`,
			wantErr: "binary_version",
		},
		{
			name:    "invalid scheme",
			lua:     `biome = { download_scheme = "npm" }`,
			wantErr: "download_scheme",
		},
		{
			name:    "wrong field type",
			lua:     `biome = { download_dir = 42 }`,
			wantErr: "invalid 'download_dir'",
		},
		{
			name:    "invalid checksum",
			lua:     `biome = { checksums = { ["biome-linux-x64"] = "abc" } }`,
			wantErr: "expected 64 hex characters",
		},
		{
			name:    "checksums not a table",
			lua:     `biome = { checksums = "abc" }`,
			wantErr: "invalid 'checksums'",
		},
		{
			name:    "non-http url",
			lua:     `biome = { releases_url = "file:///etc/passwd" }`,
			wantErr: "releases_url",
		},
	}

	parser := NewParser(nil, nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := parser.ParseString(context.Background(), tt.lua)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error containing %q", tt.wantErr)
				}
				var parseErr *ParseError
				if !errors.As(err, &parseErr) {
					t.Errorf("expected *ParseError, got %T", err)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error = %v, want substring %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseString() error = %v", err)
			}
			tt.check(t, config)
		})
	}
}

func TestParser_PlatformTable(t *testing.T) {
	detector := staticDetector{info: &platform.Info{OS: "linux", ArchRaw: "aarch64", Libc: platform.LibcMusl, Platform: "alpine", Family: "alpine"}}
	parser := NewParser(detector, nil)

	lua := `
biome = {
  download_dir = platform.is_musl and "var/biomejs-musl" or "var/biomejs",
  download_scheme = platform.when(platform.is_arm64, "package"),
}`

	config, err := parser.ParseString(context.Background(), lua)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	if config.DownloadDir != "var/biomejs-musl" {
		t.Errorf("DownloadDir = %q", config.DownloadDir)
	}
	if config.DownloadScheme != "package" {
		t.Errorf("DownloadScheme = %q", config.DownloadScheme)
	}
}

func TestParser_Timeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := NewParser(nil, nil).ParseString(ctx, `while true do end`)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("error = %v", err)
	}
}

func TestParser_ParseFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file uses defaults", func(t *testing.T) {
		config, err := NewParser(nil, nil).ParseFile(context.Background(), filepath.Join(dir, "missing.lua"))
		if err != nil {
			t.Fatalf("ParseFile() error = %v", err)
		}
		if config.DownloadDir != DefaultDownloadDir || config.BinaryVersion != "" {
			t.Errorf("unexpected config: %+v", config)
		}
	})

	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(dir, DefaultFileName)
		os.WriteFile(path, []byte(`biome = { binary_version = "latest_stable" }`), 0o644)

		config, err := NewParser(nil, nil).ParseFile(context.Background(), path)
		if err != nil {
			t.Fatalf("ParseFile() error = %v", err)
		}
		if config.BinaryVersion != "latest_stable" {
			t.Errorf("BinaryVersion = %q", config.BinaryVersion)
		}
	})

	t.Run("warns about tokens", func(t *testing.T) {
		path := filepath.Join(dir, "token.lua")
		os.WriteFile(path, []byte("local token = \"ghp_"+strings.Repeat("a", 36)+"\"\nbiome = {}\n"), 0o644)

		logger := &recordingLogger{}
		if _, err := NewParser(nil, logger).ParseFile(context.Background(), path); err != nil {
			t.Fatalf("ParseFile() error = %v", err)
		}
		if len(logger.warnings) != 1 {
			t.Errorf("warnings = %v, want 1", logger.warnings)
		}
	})

	t.Run("too large", func(t *testing.T) {
		path := filepath.Join(dir, "large.lua")
		os.WriteFile(path, []byte("-- "+strings.Repeat("x", MaxConfigSize)), 0o644)

		if _, err := NewParser(nil, nil).ParseFile(context.Background(), path); err == nil {
			t.Error("expected error for oversized config")
		}
	})
}

func TestFormatError(t *testing.T) {
	err := &ParseError{Message: "Lua syntax error", Detail: "line 1: unexpected EOF\nstack traceback:\n\t[G]: ?"}

	if got := FormatError(err, false); got != "Lua syntax error: line 1: unexpected EOF" {
		t.Errorf("FormatError(false) = %q", got)
	}
	if got := FormatError(err, true); !strings.Contains(got, "stack traceback") {
		t.Errorf("FormatError(true) = %q", got)
	}
	if got := FormatError(errors.New("plain"), false); got != "plain" {
		t.Errorf("FormatError(plain) = %q", got)
	}
}
