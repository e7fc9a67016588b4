// Package execctx resolves which lens a run uses and builds the immutable
// model.ExecutionContext that the rest of the pipeline carries by handle.
package execctx

import (
	"os"
	"path/filepath"

	"github.com/larjgit/edinburgh-finds/pkg/config"
	"github.com/larjgit/edinburgh-finds/pkg/lens"
	"github.com/larjgit/edinburgh-finds/pkg/model"
)

// DevFallbackLensID is the identity used when no other source resolves a
// lens and the app config has opted in via allow_default_lens.
const DevFallbackLensID = "dev"

// DefaultEnvVar is the environment variable checked when no CLI flag is set.
const DefaultEnvVar = "EDINBURGHFINDS_LENS_ID"

// Options carries every source consulted during resolution, in priority
// order: CLI flag, environment variable, application config default, dev
// fallback.
type Options struct {
	CLILensID string
	EnvVar    string
	AppConfig *config.LensConfig
	Registry  lens.ConnectorRegistry
}

// Resolve determines the lens identity per spec §4.2's resolution order,
// loads and validates the corresponding lens file, and returns the run's
// ExecutionContext.
func Resolve(opts Options) (*model.ExecutionContext, error) {
	id, err := resolveLensID(opts)
	if err != nil {
		return nil, err
	}

	lensDir := "lenses"
	if opts.AppConfig != nil && opts.AppConfig.LensDir != "" {
		lensDir = opts.AppConfig.LensDir
	}
	path := filepath.Join(lensDir, id+".yaml")

	contract, err := lens.LoadFile(path, opts.Registry)
	if err != nil {
		return nil, &ResolutionError{Reason: "lens " + id + " failed validation: " + err.Error()}
	}

	return &model.ExecutionContext{
		LensID:       id,
		LensContract: contract,
		LensHash:     contract.ContentHash,
	}, nil
}

func resolveLensID(opts Options) (string, error) {
	if opts.CLILensID != "" {
		return opts.CLILensID, nil
	}

	envVar := opts.EnvVar
	if envVar == "" {
		envVar = DefaultEnvVar
	}
	if v := os.Getenv(envVar); v != "" {
		return v, nil
	}

	if opts.AppConfig != nil && opts.AppConfig.DefaultLensID != "" {
		return opts.AppConfig.DefaultLensID, nil
	}

	if opts.AppConfig != nil && opts.AppConfig.AllowDefaultLens {
		return DevFallbackLensID, nil
	}

	return "", &ResolutionError{Reason: "no lens identity resolved from CLI flag, " + envVar + ", app config default, or dev fallback"}
}
