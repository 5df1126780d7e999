// Package config handles loading and parsing of configuration from YAML files
// and environment variables. It defines the application configuration structure
// including the candidate endpoint list, monitoring intervals and thresholds,
// server settings, and logging levels.
package config
