package config

import "time"

// Lua schema field names and globals
const (
	luaGlobalBiome          = "biome"
	luaFieldBinaryVersion   = "binary_version"
	luaFieldDownloadDir     = "download_dir"
	luaFieldCacheDir        = "cache_dir"
	luaFieldDownloadScheme  = "download_scheme"
	luaFieldSchemeThreshold = "scheme_threshold"
	luaFieldReleasesURL     = "releases_url"
	luaFieldDownloadBaseURL = "download_base_url"
	luaFieldChecksums       = "checksums"
	luaFieldKeyring         = "keyring"
	luaFieldSignatureSuffix = "signature_suffix"
)

// Resource limits
const (
	// MaxConfigSize is the largest config file ParseFile will read.
	MaxConfigSize = 1 << 20
	// MaxChecksumCount bounds the checksums table.
	MaxChecksumCount = 64
	// DefaultParseTimeout bounds Lua execution when ctx has no deadline.
	DefaultParseTimeout = 5 * time.Second
)

// DefaultFileName is the config file looked up in the working directory.
const DefaultFileName = "biomectl.lua"

// DefaultDownloadDir is relative to the working directory.
const DefaultDownloadDir = "var/biomejs"
