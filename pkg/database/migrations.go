package database

import (
	"context"
	stdsql "database/sql"
	"fmt"
)

// CreateDimensionIndexes creates GIN indexes over the four canonical dimension
// arrays and the modules document, enabling has/hasSome/hasEvery queries at
// the query boundary (spec §6).
func CreateDimensionIndexes(ctx context.Context, db *stdsql.DB) error {
	statements := []string{
		`CREATE INDEX IF NOT EXISTS idx_entities_canonical_activities_gin
			ON entities USING gin(canonical_activities)`,
		`CREATE INDEX IF NOT EXISTS idx_entities_canonical_roles_gin
			ON entities USING gin(canonical_roles)`,
		`CREATE INDEX IF NOT EXISTS idx_entities_canonical_place_types_gin
			ON entities USING gin(canonical_place_types)`,
		`CREATE INDEX IF NOT EXISTS idx_entities_canonical_access_gin
			ON entities USING gin(canonical_access)`,
		`CREATE INDEX IF NOT EXISTS idx_entities_modules_gin
			ON entities USING gin(modules)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create dimension index: %w", err)
		}
	}

	return nil
}
