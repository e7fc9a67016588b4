package mapping

import (
	"sort"
	"strconv"
	"strings"

	"github.com/larjgit/edinburgh-finds/pkg/model"
)

// activeModules is Step C: a module_trigger fires when its facet/value pair
// is present among the entity's stabilized canonical dimension values. A
// trigger's Conditions are not evaluated.
func activeModules(dims map[model.DimensionSource][]string, contract *model.LensContract) map[string]bool {
	active := make(map[string]bool)

	hasValue := func(facetKey, valueKey string) bool {
		facet, ok := contract.Facets[facetKey]
		if !ok {
			return false
		}
		for _, v := range dims[facet.DimensionSource] {
			if v == valueKey {
				return true
			}
		}
		return false
	}

	for _, t := range contract.ModuleTriggers {
		if !hasValue(t.When.Facet, t.When.Value) {
			continue
		}
		for _, name := range t.AddModules {
			active[name] = true
		}
	}

	return active
}

// applyModuleFieldRules is Step D: for each active module, run its
// field_rules against the entity's primitives, respecting applicability
// restrictions and normalizers, writing results into the namespaced module
// map by dot-notation target_path. A target_path that already has a value
// from an earlier-applied rule is never overwritten (declaration order is
// the tie-break, matching the mapping rules' own determinism).
func applyModuleFieldRules(p *model.Primitives, entityClass string, active map[string]bool, contract *model.LensContract) (map[string]map[string]any, map[string]float64, map[string]string) {
	modules := make(map[string]map[string]any)
	fieldConfidence := make(map[string]float64)
	sourceInfo := make(map[string]string)

	moduleKeys := make([]string, 0, len(active))
	for k := range active {
		moduleKeys = append(moduleKeys, k)
	}
	sort.Strings(moduleKeys)

	for _, moduleKey := range moduleKeys {
		module, ok := contract.Modules[moduleKey]
		if !ok {
			continue
		}
		for _, fr := range module.FieldRules {
			if !ruleApplies(fr.Applicability, p.SourceName, entityClass) {
				continue
			}
			value, ok := evaluateFieldRule(p, fr)
			if !ok {
				continue
			}
			if writeModuleField(modules, fr.TargetPath, value) {
				fieldConfidence[fr.TargetPath] = fr.Confidence
				sourceInfo[fr.TargetPath] = p.SourceName
			}
		}
	}

	return modules, fieldConfidence, sourceInfo
}

func ruleApplies(app model.FieldRuleApplicability, source, entityClass string) bool {
	if len(app.Source) > 0 && !containsString(app.Source, source) {
		return false
	}
	if len(app.EntityClass) > 0 && !containsString(app.EntityClass, entityClass) {
		return false
	}
	return true
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func evaluateFieldRule(p *model.Primitives, fr model.FieldRule) (any, bool) {
	for _, field := range sourceFieldsOrDefault(fr.SourceFields) {
		switch fr.Extractor {
		case "regex_capture":
			text, ok := fieldText(p, field)
			if !ok || fr.Compiled == nil {
				continue
			}
			match := fr.Compiled.FindStringSubmatch(text)
			if match == nil {
				continue
			}
			captured := match[0]
			if len(match) > 1 {
				captured = match[1]
			}
			return applyNormalizers(captured, fr.Normalizers), true

		case "numeric_parser":
			raw, ok := rawFieldValue(p, field)
			if !ok {
				continue
			}
			if n, ok := parseNumeric(raw); ok {
				return applyNumericNormalizers(n, fr.Normalizers), true
			}
		}
	}
	return nil, false
}

func parseNumeric(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		digits := extractDigits(v)
		if digits == "" {
			return 0, false
		}
		n, err := strconv.ParseFloat(digits, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func extractDigits(s string) string {
	var b strings.Builder
	seenDot := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' && !seenDot && b.Len() > 0:
			seenDot = true
			b.WriteRune(r)
		}
	}
	return b.String()
}

func applyNormalizers(value string, normalizers []string) any {
	out := value
	for _, n := range normalizers {
		switch n {
		case "trim":
			out = strings.TrimSpace(out)
		case "lowercase":
			out = strings.ToLower(out)
		}
	}
	return out
}

func applyNumericNormalizers(value float64, normalizers []string) any {
	for _, n := range normalizers {
		if n == "round_integer" {
			return int(value + 0.5)
		}
	}
	return value
}

// writeModuleField writes value at dot-notation path into modules, creating
// intermediate module maps as needed. Returns false (no-op) if the leaf
// already holds a value from an earlier rule.
func writeModuleField(modules map[string]map[string]any, targetPath string, value any) bool {
	parts := strings.SplitN(targetPath, ".", 2)
	if len(parts) != 2 {
		return false
	}
	moduleKey, field := parts[0], parts[1]

	m, ok := modules[moduleKey]
	if !ok {
		m = make(map[string]any)
		modules[moduleKey] = m
	}

	if _, exists := m[field]; exists {
		return false
	}
	m[field] = value
	return true
}
