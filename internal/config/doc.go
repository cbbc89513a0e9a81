// Package config loads, normalizes, and validates dvkarchive configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the DVK_ARCHIVE_DIR environment
// override. Commands obtain the archive root, state directory, search defaults
// and logging settings through this package so they receive sanitized paths
// and clear validation errors.
package config
