// Package platform identifies the machine biomectl runs on and maps it to the
// name of the Biome release artifact built for it.
//
// Detection uses runtime.GOOS and runtime.GOARCH for the OS and CPU, gopsutil
// for Linux distribution details, and a narrow LibcDetector for the glibc/musl
// split. Everything except OS/arch classification is best effort: when
// detection fails the package falls back to glibc and empty distro fields.
package platform

import (
	"context"
	"errors"
)

// ErrUnsupportedPlatform is returned when no Biome artifact exists for the
// OS family or CPU architecture of the machine.
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// Canonical OS families.
const (
	OSDarwin  = "darwin"
	OSLinux   = "linux"
	OSWindows = "windows"
)

// Canonical architectures, spelled the way Biome artifact names spell them.
const (
	ArchX64   = "x64"
	ArchARM64 = "arm64"
)

// Libc flavors. LibcNone is used on non-Linux systems.
const (
	LibcGlibc = "glibc"
	LibcMusl  = "musl"
	LibcNone  = ""
)

// Linux distribution family constants.
const (
	FamilyDebian  = "debian"  // Debian, Ubuntu, Linux Mint
	FamilyRHEL    = "rhel"    // RHEL, CentOS, Rocky Linux, AlmaLinux
	FamilyFedora  = "fedora"  // Fedora
	FamilySUSE    = "suse"    // openSUSE, SLES
	FamilyArch    = "arch"    // Arch Linux, Manjaro
	FamilyAlpine  = "alpine"  // Alpine Linux
	FamilyGentoo  = "gentoo"  // Gentoo
	FamilyUnknown = "unknown" // Unrecognized distributions
)

// Info contains platform detection information.
type Info struct {
	OS       string // raw OS token, usually runtime.GOOS
	ArchRaw  string // raw machine token, e.g. "amd64", "aarch64"
	Libc     string // LibcGlibc or LibcMusl on Linux, LibcNone elsewhere
	Platform string // distro ID (Linux only, e.g., "ubuntu", "alpine")
	Family   string // canonical family (e.g., "debian", "alpine")
	Version  string // distro version (Linux only, e.g., "22.04")
}

// Key returns the canonical platform key for the detected machine.
func (i *Info) Key() (Key, error) {
	return ParseKey(i.OS, i.ArchRaw, func() bool { return i.Libc == LibcMusl })
}

// IsMusl returns true if the detected Linux system uses musl libc.
func (i *Info) IsMusl() bool {
	return i.Libc == LibcMusl
}

// IsAlpine returns true if the Linux distribution is Alpine.
func (i *Info) IsAlpine() bool {
	return i.Family == FamilyAlpine
}

// Key identifies the artifact flavor a machine needs. It is derived once per
// process and never mutated.
type Key struct {
	OS   string
	Arch string
	Libc string
}

// String returns a compact form such as "linux-arm64-musl".
func (k Key) String() string {
	s := k.OS + "-" + k.Arch
	if k.Libc == LibcMusl {
		s += "-" + LibcMusl
	}
	return s
}

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}

// LibcDetector reports whether the host uses musl libc. Implementations must
// never fail; when in doubt they report false.
type LibcDetector interface {
	IsMusl(ctx context.Context) bool
}
