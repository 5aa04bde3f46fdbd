package platform

import (
	"fmt"
	"strings"
)

// familyMap maps distribution names to their canonical family names.
// This is used to normalize variations of family strings from gopsutil.
var familyMap = map[string]string{
	"debian":   FamilyDebian,
	"ubuntu":   FamilyDebian, // gopsutil might return ubuntu as family
	"rhel":     FamilyRHEL,
	"centos":   FamilyRHEL,
	"rocky":    FamilyRHEL,
	"fedora":   FamilyFedora,
	"suse":     FamilySUSE,
	"opensuse": FamilySUSE,
	"arch":     FamilyArch,
	"manjaro":  FamilyArch,
	"alpine":   FamilyAlpine,
	"gentoo":   FamilyGentoo,
}

// ParseKey classifies an OS token and a machine token into a Key.
//
// The OS token is matched by substring, so "Darwin", "linux-gnu" and "win"
// (or "windows") are all accepted. "darwin" is tested before "win" because it
// contains it. isMusl is only called for Linux and may be nil.
func ParseKey(osToken, machine string, isMusl func() bool) (Key, error) {
	osName, err := classifyOS(osToken)
	if err != nil {
		return Key{}, err
	}

	arch, err := normalizeArch(machine)
	if err != nil {
		return Key{}, fmt.Errorf("%w: no artifact for %s on %s", ErrUnsupportedPlatform, machine, osName)
	}

	key := Key{OS: osName, Arch: arch, Libc: LibcNone}
	if osName == OSLinux {
		key.Libc = LibcGlibc
		if isMusl != nil && isMusl() {
			key.Libc = LibcMusl
		}
	}
	return key, nil
}

// classifyOS maps an OS token to one of the three supported families.
func classifyOS(token string) (string, error) {
	os := strings.ToLower(strings.TrimSpace(token))
	switch {
	case strings.Contains(os, "darwin"):
		return OSDarwin, nil
	case strings.Contains(os, "linux"):
		return OSLinux, nil
	case strings.Contains(os, "win"):
		return OSWindows, nil
	default:
		return "", fmt.Errorf("%w: unknown OS %q", ErrUnsupportedPlatform, token)
	}
}

// normalizeArch converts GOARCH and uname -m spellings to artifact names.
func normalizeArch(arch string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(arch)) {
	case "amd64", "x86_64", "x64":
		return ArchX64, nil
	case "arm64", "aarch64":
		return ArchARM64, nil
	default:
		return "", fmt.Errorf("unsupported architecture: %s", arch)
	}
}

// normalizePlatform converts platform IDs to lowercase for consistency.
func normalizePlatform(platform string) string {
	return strings.ToLower(strings.TrimSpace(platform))
}

// mapFamily maps distribution family strings to canonical family names.
func mapFamily(family string) string {
	normalized := strings.ToLower(strings.TrimSpace(family))
	if canonical, ok := familyMap[normalized]; ok {
		return canonical
	}
	return FamilyUnknown
}
