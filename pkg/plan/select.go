package plan

import (
	"github.com/larjgit/edinburgh-finds/pkg/model"
)

// selectConnectors evaluates every connector_rule declared in the lens
// against the run's query features and request, returning the specs of
// connectors with at least one firing trigger (OR across a connector's
// triggers — spec §4.3).
func selectConnectors(req model.IngestRequest, features model.QueryFeatures, contract *model.LensContract, catalog ConnectorCatalog) ([]model.ConnectorSpec, error) {
	var selected []model.ConnectorSpec

	for name, rule := range contract.ConnectorRules {
		spec, ok := catalog.Get(name)
		if !ok {
			return nil, newError("connector_rules references unregistered connector %q", name)
		}
		if connectorFires(rule, req, features) {
			selected = append(selected, spec)
		}
	}

	if len(selected) == 0 {
		return nil, newError("no connector triggers fired for query %q", req.Query)
	}

	return selected, nil
}

func connectorFires(rule model.ConnectorRule, req model.IngestRequest, features model.QueryFeatures) bool {
	for _, t := range rule.Triggers {
		if triggerFires(t, req, features) {
			return true
		}
	}
	return false
}

func triggerFires(t model.ConnectorTrigger, req model.IngestRequest, features model.QueryFeatures) bool {
	switch t.Kind {
	case "any_keyword_match":
		for _, kw := range t.Keywords {
			if containsKeyword(features.DetectedKeywords, kw) {
				return true
			}
		}
		return false
	case "all_keyword_match":
		if len(t.Keywords) == 0 {
			return false
		}
		for _, kw := range t.Keywords {
			if !containsKeyword(features.DetectedKeywords, kw) {
				return false
			}
		}
		return true
	case "geographic_match":
		return len(features.GeographicHints) > 0
	case "category_search":
		return features.LooksLikeCategorySearch
	case "mode_is":
		return string(req.Mode) == t.Mode
	default:
		return false
	}
}

func containsKeyword(detected []string, kw string) bool {
	for _, d := range detected {
		if d == kw {
			return true
		}
	}
	return false
}
