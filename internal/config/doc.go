// Package config loads, normalizes, and validates rowpool configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// ROWPOOL_POOL_SIZE. The Config type centralizes the scheduler, contrast,
// monitor, codec, and logging knobs so the CLI and the library callers agree on
// one set of values.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical strategy and renderer names, and clear validation
// errors.
package config
