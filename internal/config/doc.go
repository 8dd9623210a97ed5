// Package config loads, normalizes, and validates Long View configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, loads secrets from .env files and the
// environment (LONGVIEW_SMTP_PASSWORD, LONGVIEW_NTFY_TOKEN), and resolves the
// data files a timeline is built from. The Config type centralizes every knob
// the build pipeline and CLI need.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical log formats, and clear validation errors that
// name the offending key.
package config
