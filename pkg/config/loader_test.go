package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigYAML(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))
}

func TestInitialize_AppliesDefaultsOnPartialYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfigYAML(t, dir, `
database:
  host: db.internal
  name: edinburgh
orchestrator:
  worker_count: 16
lens:
  lens_dir: lenses
`)

	cfg, err := Initialize(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "edinburgh", cfg.Database.Name)
	assert.Equal(t, 5432, cfg.Database.Port, "unset port falls back to the built-in default")
	assert.Equal(t, 16, cfg.Orchestrator.WorkerCount)
	assert.Equal(t, DefaultOrchestratorConfig().DefaultConnectorTimeout, cfg.Orchestrator.DefaultConnectorTimeout)
}

func TestInitialize_MissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := Initialize(context.Background(), dir)
	require.Error(t, err)
}

func TestInitialize_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfigYAML(t, dir, "database: [this is not valid")
	_, err := Initialize(context.Background(), dir)
	require.Error(t, err)
}

func TestInitialize_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "s3cret")
	dir := t.TempDir()
	writeConfigYAML(t, dir, `
database:
  host: localhost
  name: edinburgh
  password: ${TEST_DB_PASSWORD}
lens:
  lens_dir: lenses
`)

	cfg, err := Initialize(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Database.Password)
}

func TestInitialize_FailsValidation(t *testing.T) {
	dir := t.TempDir()
	writeConfigYAML(t, dir, `
database:
  host: localhost
  name: edinburgh
orchestrator:
  worker_count: -1
lens:
  lens_dir: lenses
`)
	_, err := Initialize(context.Background(), dir)
	require.Error(t, err)
}
