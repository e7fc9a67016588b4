package model

import (
	"time"

	"github.com/google/uuid"
)

// Entity is the canonical, persisted record for one real-world thing.
type Entity struct {
	ID         uuid.UUID
	Slug       string
	EntityClass string
	EntityName string

	StreetAddress string
	City          string
	Postcode      string
	Latitude      *float64
	Longitude     *float64
	Phone         string
	Email         string
	WebsiteURL    string

	CanonicalActivities []string
	CanonicalRoles      []string
	CanonicalPlaceTypes []string
	CanonicalAccess     []string

	Modules         map[string]map[string]any
	FieldConfidence map[string]float64
	SourceInfo      map[string]string
	ExternalIDs     map[string]string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MergeConflict records two candidate entities whose match was ambiguous
// (spec §4.9), left for out-of-band review rather than merged.
type MergeConflict struct {
	ID             uuid.UUID
	EntityASlug    string
	EntityBSlug    string
	Similarity     float64
	DistanceMeters *float64
	CreatedAt      time.Time
}

// FailedExtraction quarantines an entity that failed extraction, mapping,
// or persistence so it can be retried out-of-band (spec §4.10).
type FailedExtraction struct {
	ID              uuid.UUID
	EntitySnapshot  map[string]any
	Error           string
	RetryCount      int
	CreatedAt       time.Time
}
