package binary

import (
	"errors"
	"time"
)

// Error taxonomy. Every failure returned by this package wraps one of these.
var (
	// ErrInvalidVersion is returned for a version that is neither x.y.z nor a channel.
	ErrInvalidVersion = errors.New("invalid version")
	// ErrVersionResolution is returned when a channel cannot be resolved.
	ErrVersionResolution = errors.New("version resolution failed")
	// ErrDownload is returned for non-2xx responses and transport errors.
	ErrDownload = errors.New("download failed")
	// ErrFileSystem is returned when a directory or file cannot be created or written.
	ErrFileSystem = errors.New("filesystem error")
	// ErrVerification is returned when a downloaded binary fails a checksum or signature check.
	ErrVerification = errors.New("verification failed")
)

// Tool describes the external CLI managed by this package.
type Tool struct {
	// Name is the artifact prefix, e.g. "biome".
	Name string
	// Repo is the GitHub owner/name, e.g. "biomejs/biome".
	Repo string
	// Package is the npm package name used by the package URL scheme.
	Package string
	// TagPrefix marks CLI releases in the release index.
	TagPrefix string
}

// Biome is the Biome.js CLI.
var Biome = Tool{
	Name:      "biome",
	Repo:      "biomejs/biome",
	Package:   "@biomejs/biome",
	TagPrefix: "cli/v",
}

// ReleasesURL returns the GitHub API URL listing the tool's releases.
func (t Tool) ReleasesURL() string {
	return "https://api.github.com/repos/" + t.Repo + "/releases"
}

// DownloadBaseURL returns the GitHub release download base URL.
func (t Tool) DownloadBaseURL() string {
	return "https://github.com/" + t.Repo + "/releases/download"
}

// ProgressFunc receives download progress. total is always > 0; when the
// transport does not report a size the callback is not invoked at all.
type ProgressFunc func(downloaded, total int64)

func noProgress(int64, int64) {}

// Location is where a resolved binary lives on disk.
type Location struct {
	Path string
	// Version is bare ("1.8.3") and names the version directory, so the
	// layout is <root>/1.8.3/<artifact>, not the v-prefixed directory used
	// by the original PHP bundle.
	Version  string
	Artifact string
	// Downloaded is true when this call fetched the binary.
	Downloaded bool
}

// DownloadResult contains information about a completed download
type DownloadResult struct {
	URL          string
	Path         string
	Bytes        int64
	Verified     VerificationMethod
	DownloadTime time.Duration
}

// VerificationMethod indicates how a binary was verified
type VerificationMethod int

const (
	// VerificationNone indicates no verification was configured
	VerificationNone VerificationMethod = iota
	// VerificationSHA256 indicates a pinned SHA256 checksum matched
	VerificationSHA256
	// VerificationGPG indicates an OpenPGP detached signature was checked
	VerificationGPG
)

// String returns the string representation of the verification method
func (v VerificationMethod) String() string {
	switch v {
	case VerificationGPG:
		return "GPG"
	case VerificationSHA256:
		return "SHA256"
	case VerificationNone:
		return "None"
	default:
		return "Unknown"
	}
}
