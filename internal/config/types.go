package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/ZebulonRouseFrantzich/biomectl/internal/binary"
)

// Config is the biomectl configuration, read from the global "biome" table.
type Config struct {
	// BinaryVersion is "x.y.z", "vx.y.z", "latest_stable" or "latest_nightly".
	// Empty means latest_stable and is deprecated.
	BinaryVersion string `json:"binary_version,omitempty"`

	// DownloadDir holds <version>/<artifact> binaries.
	DownloadDir string `json:"download_dir"`

	// CacheDir holds resolved channel versions.
	CacheDir string `json:"cache_dir"`

	// DownloadScheme is "legacy", "package" or "auto".
	DownloadScheme string `json:"download_scheme"`

	// SchemeThreshold is the first version served by the package scheme.
	SchemeThreshold string `json:"scheme_threshold"`

	// ReleasesURL overrides the GitHub release index endpoint.
	ReleasesURL string `json:"releases_url,omitempty"`

	// DownloadBaseURL overrides the release download base.
	DownloadBaseURL string `json:"download_base_url,omitempty"`

	// Checksums pins SHA256 digests per artifact name.
	Checksums map[string]string `json:"checksums,omitempty"`

	// Keyring is an OpenPGP keyring file; setting it requires signatures.
	Keyring string `json:"keyring,omitempty"`

	// SignatureSuffix locates detached signatures next to binaries.
	SignatureSuffix string `json:"signature_suffix,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		DownloadDir:     DefaultDownloadDir,
		CacheDir:        defaultCacheDir(),
		DownloadScheme:  string(binary.SchemeLegacy),
		SchemeThreshold: binary.DefaultSchemeThreshold,
	}
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "biomectl")
	}
	return filepath.Join(dir, "biomectl")
}

// Validate performs basic validation on a Config.
func (c *Config) Validate() error {
	if _, err := binary.ParseVersionSpec(c.BinaryVersion); err != nil {
		return &ValidationError{Field: luaFieldBinaryVersion, Message: err.Error()}
	}

	if c.DownloadDir == "" {
		return &ValidationError{Field: luaFieldDownloadDir, Message: "cannot be empty"}
	}

	if _, err := binary.ParseURLScheme(c.DownloadScheme); err != nil {
		return &ValidationError{Field: luaFieldDownloadScheme, Message: err.Error()}
	}

	if c.SchemeThreshold != "" {
		if _, err := semver.StrictNewVersion(strings.TrimPrefix(c.SchemeThreshold, "v")); err != nil {
			return &ValidationError{Field: luaFieldSchemeThreshold, Message: fmt.Sprintf("invalid version %q: %s", c.SchemeThreshold, err)}
		}
	}

	for field, raw := range map[string]string{
		luaFieldReleasesURL:     c.ReleasesURL,
		luaFieldDownloadBaseURL: c.DownloadBaseURL,
	} {
		if raw == "" {
			continue
		}
		if err := validateHTTPURL(raw); err != nil {
			return &ValidationError{Field: field, Message: err.Error()}
		}
	}

	if len(c.Checksums) > MaxChecksumCount {
		return &ValidationError{
			Field:   luaFieldChecksums,
			Message: fmt.Sprintf("too many checksums (%d), maximum is %d", len(c.Checksums), MaxChecksumCount),
		}
	}

	for _, artifact := range c.checksumArtifacts() {
		if !sha256Pattern.MatchString(c.Checksums[artifact]) {
			return &ValidationError{
				Field:   fmt.Sprintf("%s[%q]", luaFieldChecksums, artifact),
				Message: "expected 64 hex characters",
			}
		}
	}

	return nil
}

// VersionSpec parses BinaryVersion. An empty version logs a deprecation
// warning and falls back to latest_stable.
func (c *Config) VersionSpec(logger Logger) (binary.VersionSpec, error) {
	spec, err := binary.ParseVersionSpec(c.BinaryVersion)
	if err != nil {
		return binary.VersionSpec{}, err
	}
	if spec.Implicit() {
		if logger == nil {
			logger = defaultLogger()
		}
		logger.Warn(`binary_version is not set; defaulting to "latest_stable". Pin a version such as "v1.8.3" or set "latest_stable" explicitly`)
	}
	return spec, nil
}

// Scheme returns the parsed download scheme.
func (c *Config) Scheme() (binary.URLScheme, error) {
	return binary.ParseURLScheme(c.DownloadScheme)
}

// checksumArtifacts returns artifact names in a stable order.
func (c *Config) checksumArtifacts() []string {
	names := make([]string, 0, len(c.Checksums))
	for name := range c.Checksums {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidationError represents a config validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "config validation failed for " + e.Field + ": " + e.Message
	}
	return "config validation failed: " + e.Message
}

var sha256Pattern = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)

// validateHTTPURL requires an absolute http(s) URL.
func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("URL must use https:// or http:// scheme (got: %s)", u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("URL has no host: %s", raw)
	}

	return nil
}
