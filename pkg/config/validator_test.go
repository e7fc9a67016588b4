package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Database: &DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			Name:    "edinburghfinds",
			SSLMode: "disable",
		},
		Orchestrator: &OrchestratorConfig{
			WorkerCount:              8,
			DefaultConnectorTimeout:  10 * time.Second,
			CancellationGracePeriod:  2 * time.Second,
			DefaultBudgetUSD:         1.5,
			DefaultMinConfidence:     0.7,
			DefaultTargetEntityCount: 5,
		},
		Lens: &LensConfig{
			LensDir: "lenses",
		},
	}
}

func TestValidator_ValidateAll_Valid(t *testing.T) {
	v := NewValidator(validConfig())
	assert.NoError(t, v.ValidateAll())
}

func TestValidator_ValidateDatabase(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"missing host", func(c *Config) { c.Database.Host = "" }, true},
		{"bad port", func(c *Config) { c.Database.Port = 0 }, true},
		{"missing name", func(c *Config) { c.Database.Name = "" }, true},
		{"bad sslmode", func(c *Config) { c.Database.SSLMode = "yolo" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := NewValidator(cfg).ValidateAll()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidator_ValidateOrchestrator(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"zero worker count", func(c *Config) { c.Orchestrator.WorkerCount = 0 }, true},
		{"too many workers", func(c *Config) { c.Orchestrator.WorkerCount = 1000 }, true},
		{"zero timeout", func(c *Config) { c.Orchestrator.DefaultConnectorTimeout = 0 }, true},
		{"zero grace period", func(c *Config) { c.Orchestrator.CancellationGracePeriod = 0 }, true},
		{"negative budget", func(c *Config) { c.Orchestrator.DefaultBudgetUSD = -1 }, true},
		{"confidence out of range", func(c *Config) { c.Orchestrator.DefaultMinConfidence = 1.5 }, true},
		{"zero target count", func(c *Config) { c.Orchestrator.DefaultTargetEntityCount = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := NewValidator(cfg).ValidateAll()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidator_ValidateLens(t *testing.T) {
	cfg := validConfig()
	cfg.Lens.LensDir = ""
	assert.Error(t, NewValidator(cfg).ValidateAll())

	cfg = validConfig()
	cfg.Lens.AllowDefaultLens = true
	cfg.Lens.DefaultLensID = ""
	assert.Error(t, NewValidator(cfg).ValidateAll())

	cfg = validConfig()
	cfg.Lens.AllowDefaultLens = true
	cfg.Lens.DefaultLensID = "edinburgh-finds"
	assert.NoError(t, NewValidator(cfg).ValidateAll())
}
