// Package config loads, normalizes, and validates moviefmt configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the TMDB_API_TOKEN environment
// fallback. Command-line flags are applied by the caller on top of the loaded
// values, after which Validate reports the first unusable setting.
package config
