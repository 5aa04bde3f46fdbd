package binary

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type fakeProbe struct {
	version string
	calls   int
}

func (f *fakeProbe) Version(context.Context, string) (string, error) {
	f.calls++
	return f.version, nil
}

func TestInstallerInstallTo(t *testing.T) {
	spec, _ := ExplicitVersion("1.8.3")

	tests := []struct {
		name          string
		existing      string
		installed     string
		wantAlready   bool
		wantReplaced  string
		wantDownloads int
	}{
		{name: "fresh_install", wantDownloads: 1},
		{name: "same_version", existing: "old", installed: "1.8.3", wantAlready: true},
		{name: "different_version", existing: "old", installed: "1.7.0", wantReplaced: "1.7.0", wantDownloads: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newBinaryServer(t, "new binary")
			a := newTestAcquirer(t, t.TempDir(), server, staticNamer{name: "biome-linux-x64"}, nil)
			probe := &fakeProbe{version: tt.installed}
			installer := NewInstaller(a, probe, nil)

			destDir := t.TempDir()
			dest := filepath.Join(destDir, InstalledName(Biome))
			if tt.existing != "" {
				os.WriteFile(dest, []byte(tt.existing), 0o755)
			}

			result, err := installer.InstallTo(context.Background(), spec, destDir)
			if err != nil {
				t.Fatalf("InstallTo() failed: %v", err)
			}

			if result.Path != dest {
				t.Errorf("Path = %s, want %s", result.Path, dest)
			}
			if result.Version != "1.8.3" {
				t.Errorf("Version = %s", result.Version)
			}
			if result.AlreadyInstalled != tt.wantAlready {
				t.Errorf("AlreadyInstalled = %v, want %v", result.AlreadyInstalled, tt.wantAlready)
			}
			if result.Replaced != tt.wantReplaced {
				t.Errorf("Replaced = %q, want %q", result.Replaced, tt.wantReplaced)
			}
			if n := len(server.requests()); n != tt.wantDownloads {
				t.Errorf("downloads = %d, want %d", n, tt.wantDownloads)
			}

			content, _ := os.ReadFile(dest)
			want := "new binary"
			if tt.wantAlready {
				want = tt.existing
			}
			if string(content) != want {
				t.Errorf("content = %q, want %q", content, want)
			}
			assertNoTempFiles(t, destDir)
		})
	}
}

func TestInstallerMissingDestination(t *testing.T) {
	server := newBinaryServer(t, "binary")
	a := newTestAcquirer(t, t.TempDir(), server, staticNamer{name: "biome-linux-x64"}, nil)
	installer := NewInstaller(a, &fakeProbe{}, nil)

	spec, _ := ExplicitVersion("1.8.3")
	_, err := installer.InstallTo(context.Background(), spec, filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, ErrFileSystem) {
		t.Errorf("expected ErrFileSystem, got %v", err)
	}
	if n := len(server.requests()); n != 0 {
		t.Errorf("expected no downloads, got %d", n)
	}
}

func TestExtractVersion(t *testing.T) {
	tests := []struct {
		output  string
		want    string
		wantErr bool
	}{
		{output: "Version: 1.8.3\n", want: "1.8.3"},
		{output: "Version:    2.0.0", want: "2.0.0"},
		{output: "Version: 1.8.4-nightly.bd1d0c6", want: "1.8.4-nightly.bd1d0c6"},
		{output: "biome 1.8.3", wantErr: true},
		{output: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ExtractVersion(tt.output)
		if (err != nil) != tt.wantErr {
			t.Errorf("ExtractVersion(%q) error = %v, wantErr %v", tt.output, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ExtractVersion(%q) = %q, want %q", tt.output, got, tt.want)
		}
	}
}
