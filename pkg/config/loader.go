package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// YAMLConfig represents the complete config.yaml file structure.
type YAMLConfig struct {
	Database     *DatabaseConfig     `yaml:"database"`
	Orchestrator *OrchestratorConfig `yaml:"orchestrator"`
	Lens         *LensConfig         `yaml:"lens"`
}

// Initialize loads, validates, and returns ready-to-use configuration.
// This is the primary entry point for configuration loading.
//
// Steps performed:
//  1. Load config.yaml from configDir
//  2. Expand environment variables
//  3. Parse YAML into structs
//  4. Merge user-defined sections onto built-in defaults
//  5. Validate all configuration
//  6. Return Config ready for use
func Initialize(ctx context.Context, configDir string) (*Config, error) {
	log := slog.With("config_dir", configDir)
	log.Info("initializing configuration")

	cfg, err := load(ctx, configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	log.Info("configuration initialized successfully",
		"db_host", cfg.Database.Host,
		"worker_count", cfg.Orchestrator.WorkerCount,
		"lens_dir", cfg.Lens.LensDir)

	return cfg, nil
}

func load(_ context.Context, configDir string) (*Config, error) {
	loader := &configLoader{configDir: configDir}

	yamlCfg, err := loader.loadConfigYAML()
	if err != nil {
		return nil, NewLoadError("config.yaml", err)
	}

	database := DefaultDatabaseConfig()
	if yamlCfg.Database != nil {
		if err := mergo.Merge(database, yamlCfg.Database, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge database config: %w", err)
		}
	}

	orchestrator := DefaultOrchestratorConfig()
	if yamlCfg.Orchestrator != nil {
		if err := mergo.Merge(orchestrator, yamlCfg.Orchestrator, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge orchestrator config: %w", err)
		}
	}

	lens := DefaultLensConfig()
	if yamlCfg.Lens != nil {
		if err := mergo.Merge(lens, yamlCfg.Lens, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge lens config: %w", err)
		}
	}

	return &Config{
		configDir:    configDir,
		Database:     database,
		Orchestrator: orchestrator,
		Lens:         lens,
	}, nil
}

// validate performs comprehensive validation on loaded configuration.
func validate(cfg *Config) error {
	validator := NewValidator(cfg)
	return validator.ValidateAll()
}

type configLoader struct {
	configDir string
}

func (l *configLoader) loadYAML(filename string, target any) error {
	path := filepath.Join(l.configDir, filename)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return err
	}

	// Missing variables expand to empty string; validation below catches
	// required fields left empty by the expansion.
	data = ExpandEnv(data)

	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	return nil
}

func (l *configLoader) loadConfigYAML() (*YAMLConfig, error) {
	var cfg YAMLConfig
	if err := l.loadYAML("config.yaml", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
