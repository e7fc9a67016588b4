package plan

import (
	"strings"

	"github.com/larjgit/edinburgh-finds/pkg/model"
)

// sportsVocabulary flags query tokens that mark a query as
// sports/activity-shaped rather than a plain place or person lookup.
// IsSportsLike is set from this fixed list alone; the lens vocabulary does
// not contribute to it. Kept small and structural; it never names lens
// canonical values.
var sportsVocabulary = map[string]bool{
	"club": true, "team": true, "league": true, "session": true,
	"class": true, "lesson": true, "coach": true, "training": true,
}

var geoHintWords = map[string]bool{
	"near": true, "nearby": true, "in": true, "around": true, "close": true,
}

// DeriveQueryFeatures normalizes the free-text query once per run and
// intersects it against the lens vocabulary and a small structural keyword
// set, per spec §4.3.
func DeriveQueryFeatures(req model.IngestRequest, contract *model.LensContract) model.QueryFeatures {
	normalized := strings.ToLower(strings.TrimSpace(req.Query))
	tokens := strings.Fields(normalized)

	vocab := make(map[string]bool, len(contract.Vocabulary))
	for _, v := range contract.Vocabulary {
		vocab[strings.ToLower(v)] = true
	}

	var detected []string
	var geoHints []string
	isSportsLike := false

	for _, tok := range tokens {
		clean := strings.Trim(tok, ".,!?;:()\"'")
		if clean == "" {
			continue
		}
		if vocab[clean] {
			detected = append(detected, clean)
		}
		if sportsVocabulary[clean] {
			isSportsLike = true
		}
		if geoHintWords[clean] {
			geoHints = append(geoHints, clean)
		}
	}

	looksLikeCategorySearch := len(detected) > 0 && len(tokens) <= 4

	return model.QueryFeatures{
		NormalizedQuery:        normalized,
		DetectedKeywords:       detected,
		GeographicHints:        geoHints,
		LooksLikeCategorySearch: looksLikeCategorySearch,
		IsSportsLike:           isSportsLike,
	}
}
