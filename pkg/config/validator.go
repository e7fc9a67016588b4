package config

import "fmt"

// Validator validates configuration comprehensively with clear error messages.
type Validator struct {
	cfg *Config
}

// NewValidator creates a validator for the given configuration.
func NewValidator(cfg *Config) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateAll performs comprehensive validation (fail-fast — stops at first error).
func (v *Validator) ValidateAll() error {
	if err := v.validateDatabase(); err != nil {
		return fmt.Errorf("database validation failed: %w", err)
	}
	if err := v.validateOrchestrator(); err != nil {
		return fmt.Errorf("orchestrator validation failed: %w", err)
	}
	if err := v.validateLens(); err != nil {
		return fmt.Errorf("lens validation failed: %w", err)
	}
	return nil
}

func (v *Validator) validateDatabase() error {
	db := v.cfg.Database
	if db == nil {
		return NewValidationError("database", "", fmt.Errorf("section is nil"))
	}
	if db.Host == "" {
		return NewValidationError("database", "host", ErrMissingRequiredField)
	}
	if db.Port < 1 || db.Port > 65535 {
		return NewValidationError("database", "port", fmt.Errorf("must be between 1 and 65535, got %d", db.Port))
	}
	if db.Name == "" {
		return NewValidationError("database", "name", ErrMissingRequiredField)
	}
	switch db.SSLMode {
	case "disable", "require", "verify-ca", "verify-full", "prefer", "allow":
	default:
		return NewValidationError("database", "sslmode", fmt.Errorf("invalid sslmode: %s", db.SSLMode))
	}
	return nil
}

func (v *Validator) validateOrchestrator() error {
	o := v.cfg.Orchestrator
	if o == nil {
		return NewValidationError("orchestrator", "", fmt.Errorf("section is nil"))
	}
	if o.WorkerCount < 1 || o.WorkerCount > 256 {
		return NewValidationError("orchestrator", "worker_count", fmt.Errorf("must be between 1 and 256, got %d", o.WorkerCount))
	}
	if o.DefaultConnectorTimeout <= 0 {
		return NewValidationError("orchestrator", "default_connector_timeout", fmt.Errorf("must be positive"))
	}
	if o.CancellationGracePeriod <= 0 {
		return NewValidationError("orchestrator", "cancellation_grace_period", fmt.Errorf("must be positive"))
	}
	if o.DefaultBudgetUSD < 0 {
		return NewValidationError("orchestrator", "default_budget_usd", fmt.Errorf("must be non-negative"))
	}
	if o.DefaultMinConfidence < 0 || o.DefaultMinConfidence > 1 {
		return NewValidationError("orchestrator", "default_min_confidence", fmt.Errorf("must be in [0,1], got %v", o.DefaultMinConfidence))
	}
	if o.DefaultTargetEntityCount < 1 {
		return NewValidationError("orchestrator", "default_target_entity_count", fmt.Errorf("must be at least 1"))
	}
	return nil
}

func (v *Validator) validateLens() error {
	l := v.cfg.Lens
	if l == nil {
		return NewValidationError("lens", "", fmt.Errorf("section is nil"))
	}
	if l.LensDir == "" {
		return NewValidationError("lens", "lens_dir", ErrMissingRequiredField)
	}
	if l.AllowDefaultLens && l.DefaultLensID == "" {
		return NewValidationError("lens", "default_lens_id", fmt.Errorf("required when allow_default_lens is true"))
	}
	return nil
}
