// Package config loads CLI configuration from file, environment, and flags.
package config

// Config holds the resolved CLI configuration.
type Config struct {
	// Workers caps the parsing pool; 0 means the pipeline default.
	Workers int `koanf:"workers"`
	// Exclude lists glob patterns matched against file base names.
	Exclude []string `koanf:"exclude"`
	// Output selects the analyze output format: text or json.
	Output string `koanf:"output"`
	// Verbose enables debug logging to stderr.
	Verbose bool `koanf:"verbose"`
}

// Default configuration values.
const (
	DefaultOutput = "text"
)
