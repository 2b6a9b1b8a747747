// Package config loads, normalizes, and validates expctl configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// EXPCTL_HOME. The Config type centralizes every knob the CLI needs: where the
// experiment registry lives, how experiment REST servers are addressed, and
// how long the stop workflow waits before signalling processes.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
