// Package merge performs cross-source dedup and trust-weighted field merge
// over the mapping engine's per-source ExtractedEntity candidates (spec
// §4.9), emitting MergeConflict records for ambiguous near-matches instead
// of guessing.
package merge

import (
	"sort"

	"github.com/larjgit/edinburgh-finds/pkg/model"
)

// Dedup groups candidates into same-entity clusters, merges each cluster
// into one canonical model.Entity, and records every ambiguous near-match as
// a MergeConflict rather than merging it. trustLevels maps connector/source
// name to its registered trust_level, used for scalar-field tie-breaks.
func Dedup(candidates []model.ExtractedEntity, trustLevels map[string]int) ([]model.Entity, []model.MergeConflict) {
	n := len(candidates)
	if n == 0 {
		return nil, nil
	}

	dsu := newDisjointSet(n)
	var conflicts []model.MergeConflict

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			switch classifyPair(candidates[i], candidates[j]) {
			case relationMatch:
				dsu.union(i, j)
			case relationConflict:
				conflicts = append(conflicts, buildConflict(candidates[i], candidates[j]))
			}
		}
	}

	groups := make(map[int][]model.ExtractedEntity)
	for i, c := range candidates {
		root := dsu.find(i)
		groups[root] = append(groups[root], c)
	}

	merged := make([]model.Entity, 0, len(groups))
	for _, group := range groups {
		merged = append(merged, mergeGroup(group, trustLevels))
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Slug < merged[j].Slug })

	conflicts = dedupeConflicts(conflicts)
	return merged, conflicts
}

func buildConflict(a, b model.ExtractedEntity) model.MergeConflict {
	slugA, slugB := slugify(a.EntityName), slugify(b.EntityName)
	if slugB < slugA {
		slugA, slugB = slugB, slugA
		a, b = b, a
	}

	conflict := model.MergeConflict{
		EntityASlug: slugA,
		EntityBSlug: slugB,
		Similarity:  tokenSetSimilarity(a.EntityName, b.EntityName),
	}
	if dist, ok := distanceBetween(a, b); ok {
		conflict.DistanceMeters = &dist
	}
	return conflict
}

func dedupeConflicts(conflicts []model.MergeConflict) []model.MergeConflict {
	seen := make(map[string]bool, len(conflicts))
	var out []model.MergeConflict
	for _, c := range conflicts {
		key := c.EntityASlug + "|" + c.EntityBSlug
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EntityASlug != out[j].EntityASlug {
			return out[i].EntityASlug < out[j].EntityASlug
		}
		return out[i].EntityBSlug < out[j].EntityBSlug
	})
	return out
}
