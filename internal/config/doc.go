// Package config loads, normalizes and validates the TOML configuration
// file. Provider credentials left empty in the file resolve from the
// environment, and their absence disables the provider rather than failing
// startup.
package config
