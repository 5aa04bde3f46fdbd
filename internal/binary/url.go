package binary

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// URLScheme selects how release download URLs are built. Biome changed its
// release tag convention at 2.0.0, so the scheme is configuration rather
// than something this package guesses.
type URLScheme string

const (
	// SchemeLegacy: <base>/cli/v<version>/<artifact>
	SchemeLegacy URLScheme = "legacy"
	// SchemePackage: <base>/<package>@<version>/<artifact>
	SchemePackage URLScheme = "package"
	// SchemeAuto picks legacy below Threshold and package at or above it.
	// Channel resolution only sees Tool.TagPrefix ("cli/v") releases, so
	// latest_stable and latest_nightly never yield a package-scheme version;
	// the switch matters for explicit versions only.
	SchemeAuto URLScheme = "auto"
)

// DefaultSchemeThreshold is the first version published under the package scheme.
const DefaultSchemeThreshold = "2.0.0"

// ParseURLScheme validates a scheme name. Empty means legacy.
func ParseURLScheme(s string) (URLScheme, error) {
	switch URLScheme(strings.ToLower(strings.TrimSpace(s))) {
	case "", SchemeLegacy:
		return SchemeLegacy, nil
	case SchemePackage:
		return SchemePackage, nil
	case SchemeAuto:
		return SchemeAuto, nil
	default:
		return "", fmt.Errorf("unknown download scheme %q (want legacy, package or auto)", s)
	}
}

// DownloadURLs builds binary download URLs.
type DownloadURLs struct {
	BaseURL   string
	Package   string
	Scheme    URLScheme
	Threshold *semver.Version
}

// NewDownloadURLs creates a URL builder for tool. threshold is only used by
// SchemeAuto and defaults to DefaultSchemeThreshold.
func NewDownloadURLs(tool Tool, baseURL string, scheme URLScheme, threshold string) (DownloadURLs, error) {
	if baseURL == "" {
		baseURL = tool.DownloadBaseURL()
	}
	if threshold == "" {
		threshold = DefaultSchemeThreshold
	}
	th, err := semver.NewVersion(threshold)
	if err != nil {
		return DownloadURLs{}, fmt.Errorf("parse scheme threshold %q: %w", threshold, err)
	}
	if scheme == "" {
		scheme = SchemeLegacy
	}
	return DownloadURLs{
		BaseURL:   strings.TrimSuffix(baseURL, "/"),
		Package:   tool.Package,
		Scheme:    scheme,
		Threshold: th,
	}, nil
}

// BinaryURL returns the download URL of artifact at version.
func (u DownloadURLs) BinaryURL(version, artifact string) (string, error) {
	scheme := u.Scheme
	if scheme == SchemeAuto {
		v, err := semver.NewVersion(version)
		if err != nil {
			return "", fmt.Errorf("parse version %q: %w", version, err)
		}
		scheme = SchemePackage
		if u.Threshold != nil && v.LessThan(u.Threshold) {
			scheme = SchemeLegacy
		}
	}

	switch scheme {
	case SchemePackage:
		return fmt.Sprintf("%s/%s@%s/%s", u.BaseURL, u.Package, strings.TrimPrefix(version, "v"), artifact), nil
	case SchemeLegacy, "":
		return fmt.Sprintf("%s/cli/%s/%s", u.BaseURL, Tag(version), artifact), nil
	default:
		return "", fmt.Errorf("unknown download scheme %q", scheme)
	}
}
