// Package binary resolves, downloads and places the Biome CLI binary that
// biomectl wraps.
//
// # Layout
//
// Binaries live at <downloadRoot>/<version>/<artifact>, one immutable file per
// (version, platform) pair. A binary is only written on a cache miss and is
// never deleted by this package.
//
// # Versions
//
// A VersionSpec is either an explicit version ("v1.9.4", "1.9.4") or one of
// the latest_stable / latest_nightly channels. Channels are resolved against
// the GitHub release index and remembered in an external cache for a week.
//
// # Usage
//
//	acq, err := binary.NewAcquirer(binary.Config{
//	    DownloadDir: "var/biomejs",
//	    Platform:    platform.NewIdentifier("biome", platform.NewDetector()),
//	    Cache:       store,
//	})
//	if err != nil {
//	    return err
//	}
//
//	loc, err := acq.EnsureBinary(ctx, binary.LatestStable())
//
// # Architecture
//
//   - Resolver: version specifier to concrete version, with cache and memo
//   - Acquirer: high-level orchestration of resolve, download, verify, place
//   - Downloader: streaming HTTP download with progress and atomic rename
//   - RetryTransport: retry policy for the HTTP layer
//   - Verifier: optional SHA256 pins and OpenPGP signatures
//   - Installer: copies a binary to a user-chosen directory
package binary
