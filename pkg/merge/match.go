package merge

import "github.com/larjgit/edinburgh-finds/pkg/model"

const (
	matchSimilarityThreshold    = 0.85
	matchDistanceMetersThreshold = 500.0

	conflictSimilarityLow  = 0.70
	conflictDistanceHighM  = 1000.0
)

type relation int

const (
	relationDistinct relation = iota
	relationMatch
	relationConflict
)

// classifyPair decides whether two candidates are the same entity (match),
// an ambiguous near-match (conflict, left for review per spec §4.9), or
// unrelated. Canonical-key precedence: external_ids match, then slug match,
// then fuzzy name+location similarity.
func classifyPair(a, b model.ExtractedEntity) relation {
	if sharedExternalID(a.ExternalIDs, b.ExternalIDs) {
		return relationMatch
	}

	slugA, slugB := slugify(a.EntityName), slugify(b.EntityName)
	if slugA != "" && slugA == slugB {
		return relationMatch
	}

	similarity := tokenSetSimilarity(a.EntityName, b.EntityName)
	distance, haveDistance := distanceBetween(a, b)

	switch {
	case similarity >= matchSimilarityThreshold && haveDistance && distance <= matchDistanceMetersThreshold:
		return relationMatch
	case similarity >= matchSimilarityThreshold && !haveDistance:
		// Name match strong enough on its own when neither candidate carries
		// coordinates to corroborate or contradict it.
		return relationMatch
	case similarity >= conflictSimilarityLow && similarity < matchSimilarityThreshold:
		return relationConflict
	case haveDistance && distance >= matchDistanceMetersThreshold && distance < conflictDistanceHighM:
		return relationConflict
	default:
		return relationDistinct
	}
}

func distanceBetween(a, b model.ExtractedEntity) (float64, bool) {
	if a.Latitude == nil || a.Longitude == nil || b.Latitude == nil || b.Longitude == nil {
		return 0, false
	}
	return haversineDistanceMeters(*a.Latitude, *a.Longitude, *b.Latitude, *b.Longitude), true
}
