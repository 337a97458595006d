// Package config loads, normalizes, and validates nasflow configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// NASFLOW_WEBHOOK_URL. The Config type centralizes every knob the workflow and
// CLI need so the source, upload, and completed directories are discovered in
// one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
