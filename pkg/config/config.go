// Package config loads and validates the system configuration: database
// connection parameters, orchestrator worker-pool/budget defaults, and the
// lens-resolution fallback policy. It is distinct from the domain lens
// contract, which lives in pkg/lens.
package config

// Config is the umbrella configuration object returned by Initialize and
// used throughout the application.
type Config struct {
	configDir string

	Database     *DatabaseConfig
	Orchestrator *OrchestratorConfig
	Lens         *LensConfig
}

// ConfigDir returns the configuration directory path this Config was loaded from.
func (c *Config) ConfigDir() string {
	return c.configDir
}

// DatabaseConfig holds the connection parameters for the canonical entity store.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

// LensConfig holds the application-level lens resolution policy (spec §4.2:
// CLI argument → environment variable → application config → dev fallback).
type LensConfig struct {
	DefaultLensID    string `yaml:"default_lens_id,omitempty"`
	AllowDefaultLens bool   `yaml:"allow_default_lens,omitempty"`
	LensDir          string `yaml:"lens_dir,omitempty"`
}
