// Package config loads, normalizes, and validates boxart configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the CLI needs: catalog and output locations, the remote image source and
// its retry policy, worker counts, catalog index settings, and log output.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical match modes, and clear validation errors.
package config
