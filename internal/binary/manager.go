package binary

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/ZebulonRouseFrantzich/biomectl/internal/cache"
)

// ArtifactNamer resolves the artifact name for the current machine.
// *platform.Identifier implements it.
type ArtifactNamer interface {
	ArtifactName(ctx context.Context) (string, error)
}

// Acquirer guarantees a runnable binary exists for a version spec,
// downloading it on demand.
type Acquirer struct {
	downloadDir string
	platform    ArtifactNamer
	resolver    *Resolver
	urls        DownloadURLs
	downloader  *Downloader
	verifier    *Verifier
	progress    ProgressFunc
	logger      Logger
}

// Config holds configuration for the acquirer
type Config struct {
	// DownloadDir is the root of the <version>/<artifact> layout
	DownloadDir string
	// Platform resolves the artifact name
	Platform ArtifactNamer
	// Tool defaults to Biome
	Tool Tool
	// Releases defaults to the tool's GitHub release index
	Releases ReleaseLister
	// Cache stores resolved channel versions across processes; may be nil
	Cache cache.Store
	// URLs defaults to the legacy scheme on the tool's download base URL
	URLs *DownloadURLs
	// HTTPClient is shared by the release index and the downloader
	HTTPClient *http.Client
	// Verifier is optional
	Verifier *Verifier
	// Progress receives download progress; may be nil
	Progress ProgressFunc
	// Logger may be nil
	Logger Logger
}

// NewAcquirer creates a new acquirer
func NewAcquirer(config Config) (*Acquirer, error) {
	if config.DownloadDir == "" {
		return nil, fmt.Errorf("DownloadDir is required")
	}

	if config.Platform == nil {
		return nil, fmt.Errorf("Platform is required")
	}

	tool := config.Tool
	if tool.Name == "" {
		tool = Biome
	}

	logger := config.Logger
	if logger == nil {
		logger = defaultLogger()
	}

	client := config.HTTPClient
	if client == nil {
		client = NewHTTPClient()
	}

	releases := config.Releases
	if releases == nil {
		releases = NewGitHubReleases(client, tool.ReleasesURL(), "")
	}

	var urls DownloadURLs
	if config.URLs != nil {
		urls = *config.URLs
	} else {
		var err error
		urls, err = NewDownloadURLs(tool, "", SchemeLegacy, "")
		if err != nil {
			return nil, err
		}
	}

	progress := config.Progress
	if progress == nil {
		progress = noProgress
	}

	return &Acquirer{
		downloadDir: config.DownloadDir,
		platform:    config.Platform,
		resolver:    NewResolver(tool, releases, config.Cache, logger),
		urls:        urls,
		downloader:  NewDownloader(client),
		verifier:    config.Verifier,
		progress:    progress,
		logger:      logger,
	}, nil
}

// BinaryPath returns <downloadDir>/<version>/<artifact> without touching disk.
func (a *Acquirer) BinaryPath(version, artifact string) string {
	return filepath.Join(a.downloadDir, version, artifact)
}

// Resolve resolves spec for the current platform without downloading.
func (a *Acquirer) Resolve(ctx context.Context, spec VersionSpec) (version, artifact string, err error) {
	artifact, err = a.platform.ArtifactName(ctx)
	if err != nil {
		return "", "", err
	}

	version, err = a.resolver.Resolve(ctx, spec, artifact)
	if err != nil {
		return "", "", err
	}
	return version, artifact, nil
}

// EnsureBinary returns the location of the binary for spec, downloading it
// when it is not on disk yet. Calling it again with unchanged disk state
// performs no download.
func (a *Acquirer) EnsureBinary(ctx context.Context, spec VersionSpec) (Location, error) {
	version, artifact, err := a.Resolve(ctx, spec)
	if err != nil {
		return Location{}, err
	}

	loc := Location{
		Path:     a.BinaryPath(version, artifact),
		Version:  version,
		Artifact: artifact,
	}

	if fileExists(loc.Path) {
		a.logger.Debug("binary already present", "path", loc.Path)
		return loc, nil
	}

	dir := filepath.Dir(loc.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Location{}, fmt.Errorf("%w: create download dir: %w", ErrFileSystem, err)
	}

	lock, err := AcquireLock(ctx, loc.Path+".lock")
	if err != nil {
		return Location{}, fmt.Errorf("%w: lock %s: %w", ErrFileSystem, loc.Path, err)
	}
	defer lock.Release()

	// Another process may have finished the download while we waited
	if fileExists(loc.Path) {
		return loc, nil
	}

	if err := a.download(ctx, loc); err != nil {
		return Location{}, err
	}

	loc.Downloaded = true
	return loc, nil
}

func (a *Acquirer) download(ctx context.Context, loc Location) error {
	url, err := a.urls.BinaryURL(loc.Version, loc.Artifact)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDownload, err)
	}

	a.logger.Info("downloading binary", "url", url, "version", loc.Version)

	opts := DownloadOptions{Progress: a.progress}
	if a.verifier.Enabled(loc.Artifact) {
		opts.Verify = func(path string) (VerificationMethod, error) {
			return a.verifier.VerifyFile(ctx, path, loc.Artifact, url)
		}
	}

	result, err := a.downloader.DownloadToFile(ctx, url, loc.Path, opts)
	if err != nil {
		return err
	}

	a.logger.Debug("binary downloaded",
		"path", result.Path,
		"bytes", result.Bytes,
		"verified", result.Verified.String(),
		"duration", result.DownloadTime.String(),
	)
	return nil
}
