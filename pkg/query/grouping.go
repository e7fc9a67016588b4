// Package query implements the read-side boundary described in spec §6:
// derived grouping and facet filtering over persisted entities. Nothing
// here is persisted; grouping is recomputed on every call from entity_class
// and canonical_roles plus the lens's own value metadata.
package query

import (
	"sort"
	"strings"

	"github.com/larjgit/edinburgh-finds/pkg/model"
)

// ComputeGrouping derives the view-time grouping label for e under contract.
// It never reads or writes a persisted grouping column (spec §3 Glossary
// "Grouping (derived)"): the same (entity, contract) pair always yields the
// same label, satisfying invariant 9 (grouping derivability).
func ComputeGrouping(e model.Entity, contract *model.LensContract) string {
	if len(e.CanonicalRoles) == 0 {
		return titleCase(e.EntityClass)
	}

	roles := make([]string, len(e.CanonicalRoles))
	copy(roles, e.CanonicalRoles)
	sort.Strings(roles)

	labels := make([]string, 0, len(roles))
	for _, key := range roles {
		if v, ok := contract.ValueByKey(key); ok && v.DisplayName != "" {
			labels = append(labels, v.DisplayName)
			continue
		}
		labels = append(labels, key)
	}

	return titleCase(e.EntityClass) + ": " + strings.Join(labels, ", ")
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
