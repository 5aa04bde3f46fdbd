package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/ZebulonRouseFrantzich/biomectl/internal/binary"
	"github.com/ZebulonRouseFrantzich/biomectl/internal/cache"
	"github.com/ZebulonRouseFrantzich/biomectl/internal/config"
	"github.com/ZebulonRouseFrantzich/biomectl/internal/console"
	"github.com/ZebulonRouseFrantzich/biomectl/internal/platform"
)

// app holds process-wide dependencies and global flag values. Tests replace
// the fields that touch the host.
type app struct {
	configPath string
	verbose    bool
	noCache    bool

	stdout   io.Writer
	stderr   io.Writer
	workDir  string
	getenv   func(string) string
	detector platform.Detector
	client   *http.Client
	clock    cache.Clock
}

func newApp() *app {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return &app{
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		workDir:  wd,
		getenv:   os.Getenv,
		detector: platform.NewDetector(),
		client:   binary.NewHTTPClient(),
		clock:    cache.RealClock{},
	}
}

// session is everything a command needs after config has been loaded.
type session struct {
	logger   *console.Logger
	config   *config.Config
	spec     binary.VersionSpec
	acquirer *binary.Acquirer
	progress *console.Progress
}

// load reads the config file and wires the acquisition stack.
func (a *app) load(ctx context.Context) (*session, error) {
	logger := console.NewLogger(a.stderr, a.verbose)

	path := a.configPath
	if path == "" {
		path = filepath.Join(a.workDir, config.DefaultFileName)
	}

	cfg, err := config.NewParser(a.detector, logger).ParseFile(ctx, path)
	if err != nil {
		return nil, err
	}

	spec, err := cfg.VersionSpec(logger)
	if err != nil {
		return nil, err
	}

	acquirer, progress, err := a.newAcquirer(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &session{
		logger:   logger,
		config:   cfg,
		spec:     spec,
		acquirer: acquirer,
		progress: progress,
	}, nil
}

func (a *app) newAcquirer(cfg *config.Config, logger *console.Logger) (*binary.Acquirer, *console.Progress, error) {
	tool := binary.Biome

	scheme, err := cfg.Scheme()
	if err != nil {
		return nil, nil, err
	}
	urls, err := binary.NewDownloadURLs(tool, cfg.DownloadBaseURL, scheme, cfg.SchemeThreshold)
	if err != nil {
		return nil, nil, err
	}

	releasesURL := cfg.ReleasesURL
	if releasesURL == "" {
		releasesURL = tool.ReleasesURL()
	}
	releases := binary.NewGitHubReleases(a.client, releasesURL, a.getenv("GITHUB_TOKEN"))

	verifier, err := a.newVerifier(cfg)
	if err != nil {
		return nil, nil, err
	}

	progress := console.NewProgress(a.stderr, "Downloading "+tool.Name)

	acquirer, err := binary.NewAcquirer(binary.Config{
		DownloadDir: a.resolvePath(cfg.DownloadDir),
		Platform:    platform.NewIdentifier(tool.Name, a.detector),
		Tool:        tool,
		Releases:    releases,
		Cache:       a.newCache(cfg, logger),
		URLs:        &urls,
		HTTPClient:  a.client,
		Verifier:    verifier,
		Progress:    progress.Update,
		Logger:      logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return acquirer, progress, nil
}

// newCache returns nil when caching is disabled or the directory is unusable;
// resolution then always asks the release index.
func (a *app) newCache(cfg *config.Config, logger *console.Logger) cache.Store {
	if a.noCache {
		return nil
	}
	store, err := cache.NewFileStore(a.resolvePath(cfg.CacheDir), a.clock)
	if err != nil {
		logger.Warn("version cache disabled", "dir", cfg.CacheDir, "error", err)
		return nil
	}
	return store
}

func (a *app) newVerifier(cfg *config.Config) (*binary.Verifier, error) {
	if len(cfg.Checksums) == 0 && cfg.Keyring == "" {
		return nil, nil
	}

	vc := binary.VerifierConfig{
		Checksums:       cfg.Checksums,
		SignatureSuffix: cfg.SignatureSuffix,
		Client:          a.client,
	}
	if cfg.Keyring != "" {
		keyring, err := binary.LoadKeyring(a.resolvePath(cfg.Keyring))
		if err != nil {
			return nil, fmt.Errorf("load keyring %s: %w", cfg.Keyring, err)
		}
		vc.Keyring = keyring
	}
	return binary.NewVerifier(vc), nil
}

// resolvePath makes config-relative paths relative to the working directory.
func (a *app) resolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(a.workDir, p)
}
