package config

import "time"

// OrchestratorConfig controls the Orchestrator's worker pool sizing,
// default budget/timeout knobs, and cancellation grace period. A partial
// OrchestratorConfig loaded from YAML is merged onto DefaultOrchestratorConfig
// with dario.cat/mergo (non-zero fields override defaults).
type OrchestratorConfig struct {
	// WorkerCount bounds concurrent connector invocations per phase.
	WorkerCount int `yaml:"worker_count,omitempty"`

	// DefaultConnectorTimeout is used when a ConnectorSpec omits timeout_ms.
	DefaultConnectorTimeout time.Duration `yaml:"default_connector_timeout,omitempty"`

	// CancellationGracePeriod bounds how long in-flight connector work is
	// awaited after the run-level cancellation token fires.
	CancellationGracePeriod time.Duration `yaml:"cancellation_grace_period,omitempty"`

	// DefaultBudgetUSD is used when an IngestRequest omits budget_usd
	// (applied by orchestrator.Run).
	DefaultBudgetUSD float64 `yaml:"default_budget_usd,omitempty"`

	// DefaultMinConfidence is used when an IngestRequest omits min_confidence.
	DefaultMinConfidence float64 `yaml:"default_min_confidence,omitempty"`

	// DefaultTargetEntityCount is used when an IngestRequest omits target_entity_count.
	DefaultTargetEntityCount int `yaml:"default_target_entity_count,omitempty"`
}

// DefaultOrchestratorConfig returns the built-in orchestrator defaults.
func DefaultOrchestratorConfig() *OrchestratorConfig {
	return &OrchestratorConfig{
		WorkerCount:              8,
		DefaultConnectorTimeout:  10 * time.Second,
		CancellationGracePeriod:  2 * time.Second,
		DefaultBudgetUSD:         0,
		DefaultMinConfidence:     0.7,
		DefaultTargetEntityCount: 1,
	}
}

// DefaultDatabaseConfig returns the built-in database connection defaults.
func DefaultDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Host:    "localhost",
		Port:    5432,
		User:    "edinburghfinds",
		Name:    "edinburghfinds",
		SSLMode: "disable",
	}
}

// DefaultLensConfig returns the built-in lens resolution defaults.
func DefaultLensConfig() *LensConfig {
	return &LensConfig{
		AllowDefaultLens: false,
		LensDir:          "lenses",
	}
}
