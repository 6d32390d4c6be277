// Package config loads and validates the TOML configuration used by
// the ocrguard CLI and server. The library packages take their
// parameters directly and never read configuration or environment
// variables themselves.
package config
