// Package persistence is the Persistence Coordinator (C10): idempotent
// upsert of canonical entities by slug, plus the merge-conflict and
// failed-extraction quarantine tables (spec §4.10).
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/larjgit/edinburgh-finds/pkg/model"
)

// Store wraps the shared *sql.DB connection pool (pkg/database.Client.DB())
// with the domain-specific writes the harmonization pipeline needs.
type Store struct {
	db *sql.DB
}

// NewStore wraps an already-connected, already-migrated *sql.DB.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const upsertEntitySQL = `
INSERT INTO entities (
	id, slug, entity_class, entity_name,
	street_address, city, postcode, latitude, longitude, phone, email, website_url,
	canonical_activities, canonical_roles, canonical_place_types, canonical_access,
	modules, field_confidence, source_info, external_ids,
	created_at, updated_at
) VALUES (
	$1, $2, $3, $4,
	$5, $6, $7, $8, $9, $10, $11, $12,
	$13, $14, $15, $16,
	$17, $18, $19, $20,
	$21, $21
)
ON CONFLICT (slug) DO UPDATE SET
	entity_class = EXCLUDED.entity_class,
	entity_name = EXCLUDED.entity_name,
	street_address = EXCLUDED.street_address,
	city = EXCLUDED.city,
	postcode = EXCLUDED.postcode,
	latitude = EXCLUDED.latitude,
	longitude = EXCLUDED.longitude,
	phone = EXCLUDED.phone,
	email = EXCLUDED.email,
	website_url = EXCLUDED.website_url,
	canonical_activities = EXCLUDED.canonical_activities,
	canonical_roles = EXCLUDED.canonical_roles,
	canonical_place_types = EXCLUDED.canonical_place_types,
	canonical_access = EXCLUDED.canonical_access,
	modules = EXCLUDED.modules,
	field_confidence = EXCLUDED.field_confidence,
	source_info = EXCLUDED.source_info,
	external_ids = EXCLUDED.external_ids,
	updated_at = EXCLUDED.updated_at
`

// UpsertEntity writes e idempotently keyed on slug: a second run with the
// same slug updates the row in place rather than duplicating it (spec
// §4.10). The entity's own ID is preserved only on first insert; on update
// ID is left untouched (EXCLUDED never includes it).
func (s *Store) UpsertEntity(ctx context.Context, e model.Entity) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}

	modulesJSON, err := json.Marshal(e.Modules)
	if err != nil {
		return &Error{Op: "marshal modules", Err: err}
	}
	confidenceJSON, err := json.Marshal(e.FieldConfidence)
	if err != nil {
		return &Error{Op: "marshal field_confidence", Err: err}
	}
	sourceInfoJSON, err := json.Marshal(e.SourceInfo)
	if err != nil {
		return &Error{Op: "marshal source_info", Err: err}
	}
	externalIDsJSON, err := json.Marshal(e.ExternalIDs)
	if err != nil {
		return &Error{Op: "marshal external_ids", Err: err}
	}

	_, err = s.db.ExecContext(ctx, upsertEntitySQL,
		e.ID, e.Slug, e.EntityClass, e.EntityName,
		nullableString(e.StreetAddress), nullableString(e.City), nullableString(e.Postcode),
		e.Latitude, e.Longitude,
		nullableString(e.Phone), nullableString(e.Email), nullableString(e.WebsiteURL),
		pq.Array(e.CanonicalActivities), pq.Array(e.CanonicalRoles),
		pq.Array(e.CanonicalPlaceTypes), pq.Array(e.CanonicalAccess),
		modulesJSON, confidenceJSON, sourceInfoJSON, externalIDsJSON,
		time.Now().UTC(),
	)
	if err != nil {
		return &Error{Op: "upsert entity", Err: err}
	}
	return nil
}

const insertMergeConflictSQL = `
INSERT INTO merge_conflicts (id, entity_a_slug, entity_b_slug, similarity, distance_meters, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
`

// InsertMergeConflict records an ambiguous near-match for out-of-band
// review rather than an automatic merge (spec §4.9).
func (s *Store) InsertMergeConflict(ctx context.Context, c model.MergeConflict) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	_, err := s.db.ExecContext(ctx, insertMergeConflictSQL,
		c.ID, c.EntityASlug, c.EntityBSlug, c.Similarity, c.DistanceMeters, time.Now().UTC())
	if err != nil {
		return &Error{Op: "insert merge conflict", Err: err}
	}
	return nil
}

const insertFailedExtractionSQL = `
INSERT INTO failed_extractions (id, entity_snapshot, error, retry_count, created_at)
VALUES ($1, $2, $3, $4, $5)
`

// Quarantine persists a snapshot of an entity that failed extraction,
// mapping, or persistence, so it can be retried out-of-band (spec §4.10).
func (s *Store) Quarantine(ctx context.Context, f model.FailedExtraction) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	snapshotJSON, err := json.Marshal(f.EntitySnapshot)
	if err != nil {
		return &Error{Op: "marshal entity snapshot", Err: err}
	}
	_, err = s.db.ExecContext(ctx, insertFailedExtractionSQL,
		f.ID, snapshotJSON, f.Error, f.RetryCount, time.Now().UTC())
	if err != nil {
		return &Error{Op: "insert failed extraction", Err: err}
	}
	return nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
