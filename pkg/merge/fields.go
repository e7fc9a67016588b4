package merge

import (
	"sort"

	"dario.cat/mergo"

	"github.com/larjgit/edinburgh-finds/pkg/model"
)

// trustOf looks up a source's trust level, defaulting to 0 for unknown
// sources so they never win a tie-break by omission.
func trustOf(trustLevels map[string]int, source string) int {
	if trustLevels == nil {
		return 0
	}
	return trustLevels[source]
}

// mergeGroup trust-weight-resolves one cluster of matched candidates into a
// single canonical Entity (spec §4.9 field-merge rules).
func mergeGroup(group []model.ExtractedEntity, trustLevels map[string]int) model.Entity {
	sorted := make([]model.ExtractedEntity, len(group))
	copy(sorted, group)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].SourceName < sorted[j].SourceName })

	out := model.Entity{
		ExternalIDs:     make(map[string]string),
		Modules:         make(map[string]map[string]any),
		FieldConfidence: make(map[string]float64),
		SourceInfo:      make(map[string]string),
	}

	for _, e := range sorted {
		mergeScalarField(&out.EntityName, e.EntityName, "entity_name", e, trustLevels, out.FieldConfidence, out.SourceInfo)
		mergeScalarField(&out.StreetAddress, e.StreetAddress, "street_address", e, trustLevels, out.FieldConfidence, out.SourceInfo)
		mergeScalarField(&out.City, e.City, "city", e, trustLevels, out.FieldConfidence, out.SourceInfo)
		mergeScalarField(&out.Postcode, e.Postcode, "postcode", e, trustLevels, out.FieldConfidence, out.SourceInfo)
		mergeScalarField(&out.Phone, e.Phone, "phone", e, trustLevels, out.FieldConfidence, out.SourceInfo)
		mergeScalarField(&out.Email, e.Email, "email", e, trustLevels, out.FieldConfidence, out.SourceInfo)
		mergeScalarField(&out.WebsiteURL, e.WebsiteURL, "website_url", e, trustLevels, out.FieldConfidence, out.SourceInfo)

		if e.Latitude != nil && shouldTakeScalar(out.Latitude != nil, "latitude", e, trustLevels, out.FieldConfidence, out.SourceInfo) {
			out.Latitude = e.Latitude
		}
		if e.Longitude != nil && shouldTakeScalar(out.Longitude != nil, "longitude", e, trustLevels, out.FieldConfidence, out.SourceInfo) {
			out.Longitude = e.Longitude
		}

		if out.EntityClass == "" {
			out.EntityClass = e.EntityClass
		}

		out.CanonicalActivities = unionSorted(out.CanonicalActivities, e.CanonicalActivities)
		out.CanonicalRoles = unionSorted(out.CanonicalRoles, e.CanonicalRoles)
		out.CanonicalPlaceTypes = unionSorted(out.CanonicalPlaceTypes, e.CanonicalPlaceTypes)
		out.CanonicalAccess = unionSorted(out.CanonicalAccess, e.CanonicalAccess)

		for k, v := range e.ExternalIDs {
			out.ExternalIDs[k] = v
		}

		_ = mergo.Merge(&out.Modules, e.Modules, mergo.WithOverride)
	}

	out.Slug = slugify(out.EntityName)
	return out
}

// mergeScalarField applies the three-level tie-break of spec §4.9: the
// field's own extraction confidence decides first, trust_level breaks a
// confidence tie, and the alphabetically-last source breaks a trust tie.
// Sources are iterated in alphabetical order and ">=" always prefers the
// current candidate on an exact tie, which gives the later source the win.
func mergeScalarField(target *string, candidate, fieldName string, e model.ExtractedEntity, trustLevels map[string]int, confidence map[string]float64, sourceInfo map[string]string) {
	if candidate == "" {
		return
	}
	if !shouldTakeScalar(*target != "", fieldName, e, trustLevels, confidence, sourceInfo) {
		return
	}
	*target = candidate
}

// fieldOwnConfidence returns the extraction-time confidence mapping engine
// assigned this field on this candidate, defaulting to 1.0 for primitive
// scalar fields the mapping engine never scores (address, phone, email,
// ...), so those fall straight through to the trust_level/source tie-break.
func fieldOwnConfidence(e model.ExtractedEntity, fieldName string) float64 {
	if c, ok := e.FieldConfidence[fieldName]; ok {
		return c
	}
	return 1.0
}

func shouldTakeScalar(hasIncumbent bool, fieldName string, e model.ExtractedEntity, trustLevels map[string]int, confidence map[string]float64, sourceInfo map[string]string) bool {
	if !hasIncumbent {
		confidence[fieldName] = fieldOwnConfidence(e, fieldName)
		sourceInfo[fieldName] = e.SourceName
		return true
	}

	incumbentConfidence := confidence[fieldName]
	candidateConfidence := fieldOwnConfidence(e, fieldName)

	take := candidateConfidence > incumbentConfidence
	if candidateConfidence == incumbentConfidence {
		incumbentTrust := trustLevels[sourceInfo[fieldName]]
		candidateTrust := trustOf(trustLevels, e.SourceName)
		take = candidateTrust >= incumbentTrust
	}

	if take {
		confidence[fieldName] = candidateConfidence
		sourceInfo[fieldName] = e.SourceName
	}
	return take
}

func unionSorted(existing, incoming []string) []string {
	seen := make(map[string]bool, len(existing)+len(incoming))
	var out []string
	for _, v := range existing {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	for _, v := range incoming {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
