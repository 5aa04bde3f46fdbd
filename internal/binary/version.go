package binary

import (
	"fmt"
	"regexp"
	"strings"
)

// Channel is a symbolic version request.
type Channel string

const (
	// ChannelStable resolves to the newest non-prerelease CLI release.
	ChannelStable Channel = "latest_stable"
	// ChannelNightly resolves to the newest prerelease CLI release.
	ChannelNightly Channel = "latest_nightly"
)

var explicitVersionRegex = regexp.MustCompile(`^v?\d+\.\d+\.\d+$`)

// VersionSpec is an immutable version request: either an explicit version or
// a channel. The zero value is invalid; use ParseVersionSpec or the
// constructors.
type VersionSpec struct {
	version  string
	channel  Channel
	implicit bool
}

// ExplicitVersion returns a spec for a fixed x.y.z version. A leading "v" is
// accepted and stripped.
func ExplicitVersion(v string) (VersionSpec, error) {
	if !explicitVersionRegex.MatchString(v) {
		return VersionSpec{}, fmt.Errorf("%w %q: expected format \"v1.9.4\" or \"1.9.4\"", ErrInvalidVersion, v)
	}
	return VersionSpec{version: strings.TrimPrefix(v, "v")}, nil
}

// LatestStable returns the stable channel spec.
func LatestStable() VersionSpec {
	return VersionSpec{channel: ChannelStable}
}

// LatestNightly returns the nightly channel spec.
func LatestNightly() VersionSpec {
	return VersionSpec{channel: ChannelNightly}
}

// ParseVersionSpec parses user input. An empty string yields the stable
// channel flagged as implicit so callers can warn about it.
func ParseVersionSpec(s string) (VersionSpec, error) {
	s = strings.TrimSpace(s)
	switch Channel(s) {
	case "":
		return VersionSpec{channel: ChannelStable, implicit: true}, nil
	case ChannelStable:
		return LatestStable(), nil
	case ChannelNightly:
		return LatestNightly(), nil
	}
	return ExplicitVersion(s)
}

// IsChannel reports whether the spec needs remote resolution.
func (s VersionSpec) IsChannel() bool {
	return s.channel != ""
}

// Channel returns the channel, or "" for explicit versions.
func (s VersionSpec) Channel() Channel {
	return s.channel
}

// Version returns the explicit version without leading "v", or "" for channels.
func (s VersionSpec) Version() string {
	return s.version
}

// Implicit reports whether the spec came from an empty version setting.
func (s VersionSpec) Implicit() bool {
	return s.implicit
}

// String returns the channel name or the explicit version.
func (s VersionSpec) String() string {
	if s.IsChannel() {
		return string(s.channel)
	}
	return s.version
}

// Tag renders a resolved version the way release tags spell it ("v1.8.3").
func Tag(version string) string {
	return "v" + strings.TrimPrefix(version, "v")
}
