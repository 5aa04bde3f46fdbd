// Package config loads biomectl's Lua configuration.
//
// A config file sets fields on a global "biome" table:
//
//	biome = {
//	  binary_version = "v1.8.3",
//	  download_dir = "var/biomejs",
//	  download_scheme = platform.is_windows and "package" or "legacy",
//	  checksums = {
//	    ["biome-linux-x64"] = "4f2c...",
//	  },
//	}
//
// The file runs in a gopher-lua VM with only the base, string, table and math
// libraries; os, io, debug and the module loaders are unavailable. The
// read-only platform table from the platform package is injected first, so a
// config can branch on platform.os, platform.arch or platform.is_musl.
//
// Unset fields keep the values from Default. A missing file is not an error.
// Leaving binary_version unset is deprecated: it resolves to latest_stable
// and Config.VersionSpec logs a warning.
package config
