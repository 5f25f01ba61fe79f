// Package config loads, normalizes, and validates openingaudit configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the OPENINGAUDIT_DB environment
// fallback. Table names are validated here so storage code can interpolate
// them into SQL safely.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
