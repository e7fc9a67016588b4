package mapping

import (
	"sort"

	"github.com/larjgit/edinburgh-finds/pkg/model"
)

// dimensionHit is one mapping_rule's match against one field, pending
// stabilization.
type dimensionHit struct {
	canonical  string
	confidence float64
	source     string
}

// runMappingRules is Step A: execute every declared mapping_rule, in
// declaration order, against its (possibly default) source_fields. A rule
// fires at most once per field but may fire against several fields.
func runMappingRules(p *model.Primitives, contract *model.LensContract) map[model.DimensionSource][]dimensionHit {
	hits := make(map[model.DimensionSource][]dimensionHit)

	for _, rule := range contract.MappingRules {
		if rule.Compiled == nil {
			continue
		}
		for _, field := range sourceFieldsOrDefault(rule.SourceFields) {
			text, ok := fieldText(p, field)
			if !ok {
				continue
			}
			if rule.Compiled.MatchString(text) {
				hits[rule.Dimension] = append(hits[rule.Dimension], dimensionHit{
					canonical:  rule.Canonical,
					confidence: rule.Confidence,
					source:     p.SourceName,
				})
			}
		}
	}

	return hits
}

// stabilize is Step B: within each dimension, dedupe canonical keys
// preserving the confidence of the first occurrence, then sort the
// resulting key list lexicographically so output order never depends on
// mapping_rule declaration order or field iteration order.
func stabilize(hits map[model.DimensionSource][]dimensionHit) (map[model.DimensionSource][]string, map[string]float64) {
	dims := make(map[model.DimensionSource][]string, len(hits))
	confidence := make(map[string]float64)

	for dim, entries := range hits {
		seen := make(map[string]bool, len(entries))
		var keys []string
		for _, e := range entries {
			if seen[e.canonical] {
				continue
			}
			seen[e.canonical] = true
			keys = append(keys, e.canonical)
			if existing, ok := confidence[e.canonical]; !ok || e.confidence > existing {
				confidence[e.canonical] = e.confidence
			}
		}
		sort.Strings(keys)
		dims[dim] = keys
	}

	return dims, confidence
}
