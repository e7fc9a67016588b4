package model

import "time"

// RawPayload is opaque connector-native data plus fetch provenance.
type RawPayload struct {
	Source     string
	SourceURL  string
	FetchedAt  time.Time
	Hash       string
	Data       map[string]any
}

// Primitives is the output of an Extractor: universal schema primitives,
// raw_observations, and structural counts only — no canonical dimensions,
// no modules (spec §4.6 purity rule).
type Primitives struct {
	EntityName     string
	StreetAddress  string
	City           string
	Postcode       string
	Latitude       *float64
	Longitude      *float64
	Phone          string
	Email          string
	WebsiteURL     string

	// GivenName and FamilyName are universal person-name structure: their
	// presence, not their value, signals a person-shaped record (spec §4.8).
	GivenName  string
	FamilyName string

	// OrganizationName is universal organization-name structure: its
	// presence signals an organization-shaped record (spec §4.8).
	OrganizationName string

	// EventStartTime and EventEndTime are the universal time-range
	// primitive: their presence signals an event-shaped record (spec §4.8).
	EventStartTime *time.Time
	EventEndTime   *time.Time

	RawObservations map[string]any
	ExternalIDs     map[string]string
	StructuralCounts map[string]int

	SourceName string
}

// PrimitiveFieldNames lists every field of the universal primitive set.
var PrimitiveFieldNames = []string{
	"entity_name", "street_address", "city", "postcode",
	"latitude", "longitude", "phone", "email", "website_url",
	"given_name", "family_name", "organization_name",
	"event_start_time", "event_end_time",
}

// ExtractedEntity is Primitives enriched by the Mapping Engine with canonical
// dimensions and module data.
type ExtractedEntity struct {
	Primitives

	CanonicalActivities []string
	CanonicalRoles      []string
	CanonicalPlaceTypes []string
	CanonicalAccess     []string

	EntityClass string

	Modules         map[string]map[string]any
	FieldConfidence map[string]float64
	SourceInfo      map[string]string
}

// DimensionSlice returns a pointer to the named canonical dimension slice so
// callers can read/write generically by DimensionSource.
func (e *ExtractedEntity) DimensionSlice(d DimensionSource) *[]string {
	switch d {
	case DimensionActivities:
		return &e.CanonicalActivities
	case DimensionRoles:
		return &e.CanonicalRoles
	case DimensionPlaceTypes:
		return &e.CanonicalPlaceTypes
	case DimensionAccess:
		return &e.CanonicalAccess
	default:
		return nil
	}
}
