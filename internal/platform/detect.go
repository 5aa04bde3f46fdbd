package platform

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/shirou/gopsutil/v4/host"
)

// RealDetector implements Detector using actual platform detection.
// The first successful result is kept for the lifetime of the detector, so
// the libc probe and the distro lookup run once per process.
type RealDetector struct {
	libc LibcDetector

	mu   sync.Mutex
	info *Info
}

// NewDetector creates a new platform detector using the host libc detector.
func NewDetector() Detector {
	return &RealDetector{libc: HostLibcDetector{}}
}

// NewDetectorWithLibc creates a detector with a custom libc detector.
func NewDetectorWithLibc(libc LibcDetector) Detector {
	return &RealDetector{libc: libc}
}

// Detect performs platform detection and returns platform information.
// It uses runtime.GOOS and runtime.GOARCH for OS and architecture,
// gopsutil for Linux distribution details and the libc detector for the
// musl/glibc split.
//
// On Linux, if gopsutil fails to detect the distribution, distro fields are
// left empty and detection continues. Only context cancellation is fatal,
// and a failed attempt is not remembered.
//
// Each call returns its own copy of the cached Info.
func (d *RealDetector) Detect(ctx context.Context) (*Info, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.info == nil {
		info, err := d.detect(ctx)
		if err != nil {
			return nil, err
		}
		d.info = info
	}

	info := *d.info
	return &info, nil
}

func (d *RealDetector) detect(ctx context.Context) (*Info, error) {
	info := &Info{
		OS:      runtime.GOOS,
		ArchRaw: runtime.GOARCH,
		Libc:    LibcNone,
	}

	if runtime.GOOS != "linux" {
		return info, nil
	}

	platform, family, version, err := host.PlatformInformationWithContext(ctx)
	if err != nil && ctx.Err() != nil {
		return nil, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
	}
	if err == nil {
		platform = normalizePlatform(platform)
		if platform != "" {
			info.Platform = platform
			info.Family = mapFamily(family)
			info.Version = normalizePlatform(version)
		}
	}

	info.Libc = LibcGlibc
	if d.libc != nil && d.libc.IsMusl(ctx) {
		info.Libc = LibcMusl
	}

	return info, nil
}
