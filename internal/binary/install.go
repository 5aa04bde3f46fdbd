package binary

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"

	"github.com/google/uuid"
)

var installedVersionRegex = regexp.MustCompile(`Version:\s*(\d+\.\d+\.\d+(?:-[0-9A-Za-z.]+)?)`)

// VersionProbe reports the version of an installed binary.
type VersionProbe interface {
	Version(ctx context.Context, path string) (string, error)
}

// ExecProbe runs "<binary> --version" and parses "Version: x.y.z".
type ExecProbe struct{}

// Version implements VersionProbe.
func (ExecProbe) Version(ctx context.Context, path string) (string, error) {
	out, err := exec.CommandContext(ctx, path, "--version").CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("get version from %s: %w: %s", path, err, out)
	}
	return ExtractVersion(string(out))
}

// ExtractVersion extracts the version from "biome --version" output.
func ExtractVersion(output string) (string, error) {
	m := installedVersionRegex.FindStringSubmatch(output)
	if m == nil {
		return "", fmt.Errorf("could not extract version from binary output: %q", output)
	}
	return m[1], nil
}

// InstallResult describes what InstallTo did.
type InstallResult struct {
	Path    string
	Version string
	// AlreadyInstalled is true when the destination already had Version.
	AlreadyInstalled bool
	// Replaced holds the previous version when a different one was replaced.
	Replaced string
}

// Installer places a copy of the binary in a user-chosen directory, e.g. a
// project's ./bin, so it can be run without biomectl.
type Installer struct {
	acquirer *Acquirer
	probe    VersionProbe
	logger   Logger
}

// NewInstaller creates an installer. probe defaults to ExecProbe.
func NewInstaller(acquirer *Acquirer, probe VersionProbe, logger Logger) *Installer {
	if probe == nil {
		probe = ExecProbe{}
	}
	if logger == nil {
		logger = defaultLogger()
	}
	return &Installer{acquirer: acquirer, probe: probe, logger: logger}
}

// InstalledName is the binary name inside a destination directory.
func InstalledName(tool Tool) string {
	if runtime.GOOS == "windows" {
		return tool.Name + ".exe"
	}
	return tool.Name
}

// InstallTo ensures destDir contains the binary for spec. destDir must exist.
// An installed binary with a different version is replaced.
func (i *Installer) InstallTo(ctx context.Context, spec VersionSpec, destDir string) (*InstallResult, error) {
	info, err := os.Stat(destDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: the directory %q does not exist", ErrFileSystem, destDir)
	}

	version, _, err := i.acquirer.Resolve(ctx, spec)
	if err != nil {
		return nil, err
	}

	dest := filepath.Join(destDir, InstalledName(Biome))
	result := &InstallResult{Path: dest, Version: version}

	if fileExists(dest) {
		installed, err := i.probe.Version(ctx, dest)
		if err != nil {
			return nil, err
		}
		if installed == version {
			result.AlreadyInstalled = true
			return result, nil
		}
		i.logger.Warn("replacing installed binary", "installed", installed, "requested", version)
		result.Replaced = installed
	}

	loc, err := i.acquirer.EnsureBinary(ctx, spec)
	if err != nil {
		return nil, err
	}

	if err := copyExecutable(loc.Path, dest); err != nil {
		return nil, err
	}

	return result, nil
}

// copyExecutable copies src over dst through a temp file and rename.
func copyExecutable(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", ErrFileSystem, src, err)
	}
	defer in.Close()

	tmpPath := dst + "." + uuid.NewString() + ".tmp"
	out, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o755)
	if err != nil {
		return fmt.Errorf("%w: cannot open file %q for writing: %w", ErrFileSystem, tmpPath, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: copy binary: %w", ErrFileSystem, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: close %s: %w", ErrFileSystem, tmpPath, err)
	}
	if err := SetExecutable(tmpPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %w", ErrFileSystem, err)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: rename into place: %w", ErrFileSystem, err)
	}
	return nil
}
