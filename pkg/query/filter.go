package query

import "github.com/larjgit/edinburgh-finds/pkg/model"

// Criteria is one filter request: a set of requested keys per canonical
// dimension. An empty slice for a dimension means "no constraint".
type Criteria struct {
	Activities []string
	Roles      []string
	PlaceTypes []string
	Access     []string

	// FullContainment requires every requested key for a facet to be present
	// on the entity (hasEvery) instead of the default overlap (hasSome).
	FullContainment bool
}

// Filter applies the default query semantics of spec §6: OR within a facet
// (overlap/hasSome), AND across facets (intersection), with full-containment
// (hasEvery) available per Criteria.FullContainment but not the default.
func Filter(entities []model.Entity, c Criteria) []model.Entity {
	out := make([]model.Entity, 0, len(entities))
	for _, e := range entities {
		if matchesDimension(e.CanonicalActivities, c.Activities, c.FullContainment) &&
			matchesDimension(e.CanonicalRoles, c.Roles, c.FullContainment) &&
			matchesDimension(e.CanonicalPlaceTypes, c.PlaceTypes, c.FullContainment) &&
			matchesDimension(e.CanonicalAccess, c.Access, c.FullContainment) {
			out = append(out, e)
		}
	}
	return out
}

// matchesDimension reports whether entity's dimension values satisfy the
// requested keys under overlap (any match) or full-containment (every
// requested key present) semantics. No requested keys means unconstrained.
func matchesDimension(have, want []string, fullContainment bool) bool {
	if len(want) == 0 {
		return true
	}
	haveSet := make(map[string]bool, len(have))
	for _, v := range have {
		haveSet[v] = true
	}

	if fullContainment {
		for _, w := range want {
			if !haveSet[w] {
				return false
			}
		}
		return true
	}

	for _, w := range want {
		if haveSet[w] {
			return true
		}
	}
	return false
}
