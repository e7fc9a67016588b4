package lens

import (
	"fmt"
	"regexp"

	"github.com/larjgit/edinburgh-finds/pkg/model"
)

// gateSchemaShape is validation gate 1: every required top-level section is
// present and structurally sane (non-empty lens_id/schema_version, at least
// one facet and one value, dimension_source names are one of the four fixed
// universal dimensions).
func gateSchemaShape(path string, doc *document) error {
	if doc.LensID == "" {
		return newConfigError(path, "schema-shape: lens_id is required")
	}
	if doc.SchemaVersion == "" {
		return newConfigError(path, "schema-shape: schema_version is required")
	}
	if len(doc.Facets) == 0 {
		return newConfigError(path, "schema-shape: at least one facet is required")
	}
	if len(doc.Values) == 0 {
		return newConfigError(path, "schema-shape: at least one value is required")
	}
	for key, f := range doc.Facets {
		if !model.DimensionSource(f.DimensionSource).Valid() {
			return newConfigError(path, "schema-shape: facet has invalid dimension_source",
				fmt.Sprintf("facet=%s dimension_source=%s", key, f.DimensionSource))
		}
	}
	for _, r := range doc.MappingRules {
		if r.ID == "" || r.Pattern == "" || r.Canonical == "" || r.Dimension == "" {
			return newConfigError(path, "schema-shape: mapping_rule missing required field",
				fmt.Sprintf("id=%q", r.ID))
		}
	}
	return nil
}

// gateReferenceIntegrity is gate 2: every value's facet exists, every mapping
// rule's dimension is valid and its canonical is a declared value key in the
// matching facet, and every module_trigger's add_modules entries exist.
// field_rule applicability values are not checked by this gate.
func gateReferenceIntegrity(path string, doc *document) error {
	for _, v := range doc.Values {
		if _, ok := doc.Facets[v.Facet]; !ok {
			return newConfigError(path, "reference-integrity: value references unknown facet",
				fmt.Sprintf("value=%s facet=%s", v.Key, v.Facet))
		}
	}

	valueKeys := make(map[string]string, len(doc.Values)) // key -> facet
	for _, v := range doc.Values {
		valueKeys[v.Key] = v.Facet
	}

	for _, r := range doc.MappingRules {
		if !model.DimensionSource(r.Dimension).Valid() {
			return newConfigError(path, "reference-integrity: mapping_rule has invalid dimension",
				fmt.Sprintf("id=%s dimension=%s", r.ID, r.Dimension))
		}
		facet, ok := valueKeys[r.Canonical]
		if !ok {
			return newConfigError(path, "reference-integrity: mapping_rule canonical is not a declared value",
				fmt.Sprintf("id=%s canonical=%s", r.ID, r.Canonical))
		}
		if model.DimensionSource(doc.Facets[facet].DimensionSource) != model.DimensionSource(r.Dimension) {
			return newConfigError(path, "reference-integrity: mapping_rule dimension does not match its canonical value's facet",
				fmt.Sprintf("id=%s canonical=%s", r.ID, r.Canonical))
		}
	}

	for _, t := range doc.ModuleTriggers {
		for _, m := range t.AddModules {
			if _, ok := doc.Modules[m]; !ok {
				return newConfigError(path, "reference-integrity: module_trigger references unknown module",
					fmt.Sprintf("module=%s", m))
			}
		}
	}

	return nil
}

// gateConnectorRegistry is gate 3: every connector named in connector_rules
// is present in the supplied registry. A nil registry skips this gate (used
// for offline lens linting where no connector set is available yet).
func gateConnectorRegistry(path string, doc *document, registry ConnectorRegistry) error {
	if registry == nil {
		return nil
	}
	for name := range doc.ConnectorRules {
		if !registry.Has(name) {
			return newConfigError(path, "connector-registry: connector_rules references unregistered connector",
				fmt.Sprintf("connector=%s", name))
		}
	}
	return nil
}

// gateIdentifierUniqueness is gate 4: value keys, mapping rule ids, module
// keys, and field_rule ids-within-module are each unique.
func gateIdentifierUniqueness(path string, doc *document) error {
	seenValues := make(map[string]bool, len(doc.Values))
	for _, v := range doc.Values {
		if seenValues[v.Key] {
			return newConfigError(path, "identifier-uniqueness: duplicate value key", v.Key)
		}
		seenValues[v.Key] = true
	}

	seenRules := make(map[string]bool, len(doc.MappingRules))
	for _, r := range doc.MappingRules {
		if seenRules[r.ID] {
			return newConfigError(path, "identifier-uniqueness: duplicate mapping_rule id", r.ID)
		}
		seenRules[r.ID] = true
	}

	for key, m := range doc.Modules {
		seenFieldRules := make(map[string]bool, len(m.FieldRules))
		for _, fr := range m.FieldRules {
			if seenFieldRules[fr.RuleID] {
				return newConfigError(path, "identifier-uniqueness: duplicate field_rule id within module",
					fmt.Sprintf("module=%s rule_id=%s", key, fr.RuleID))
			}
			seenFieldRules[fr.RuleID] = true
		}
	}

	return nil
}

// gateRegexCompilability is gate 5: every mapping_rule.pattern and
// field_rule.pattern compiles. Returns the compiled regexes keyed for
// buildContract to attach, so compilation happens exactly once.
func gateRegexCompilability(path string, doc *document) (map[string]*regexp.Regexp, map[string]*regexp.Regexp, error) {
	mappingCompiled := make(map[string]*regexp.Regexp, len(doc.MappingRules))
	for _, r := range doc.MappingRules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, nil, newConfigError(path, "regex-compilability: mapping_rule pattern does not compile",
				fmt.Sprintf("id=%s pattern=%q err=%v", r.ID, r.Pattern, err))
		}
		mappingCompiled[r.ID] = re
	}

	fieldCompiled := make(map[string]*regexp.Regexp)
	for moduleKey, m := range doc.Modules {
		for _, fr := range m.FieldRules {
			if fr.Extractor != "regex_capture" {
				continue
			}
			re, err := regexp.Compile(fr.Pattern)
			if err != nil {
				return nil, nil, newConfigError(path, "regex-compilability: field_rule pattern does not compile",
					fmt.Sprintf("module=%s rule_id=%s pattern=%q err=%v", moduleKey, fr.RuleID, fr.Pattern, err))
			}
			fieldCompiled[fmt.Sprintf("%s/%s", moduleKey, fr.RuleID)] = re
		}
	}

	return mappingCompiled, fieldCompiled, nil
}

// gateSmokeCoverage is gate 6: every declared facet has at least one mapping
// rule targeting one of its values, and every declared value is reachable by
// at least one mapping rule's canonical — catching dead facets/values before
// they ever reach a run.
func gateSmokeCoverage(path string, doc *document) error {
	coveredValues := make(map[string]bool, len(doc.Values))
	for _, r := range doc.MappingRules {
		coveredValues[r.Canonical] = true
	}

	facetHasCoverage := make(map[string]bool, len(doc.Facets))
	for _, v := range doc.Values {
		if coveredValues[v.Key] {
			facetHasCoverage[v.Facet] = true
		}
	}

	for key := range doc.Facets {
		if !facetHasCoverage[key] {
			return newConfigError(path, "smoke-coverage: facet has no reachable mapping rule", key)
		}
	}

	for _, v := range doc.Values {
		if !coveredValues[v.Key] {
			return newConfigError(path, "smoke-coverage: value is not targeted by any mapping rule", v.Key)
		}
	}

	return nil
}
