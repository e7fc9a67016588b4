// Package model defines the plain, immutable-by-convention records that
// flow through the harmonization pipeline: lens contracts, execution
// context, requests, primitives, and the canonical entity.
package model

import "regexp"

// DimensionSource is one of the four fixed universal canonical dimensions.
// The engine knows these four names; it knows no values.
type DimensionSource string

const (
	DimensionActivities DimensionSource = "canonical_activities"
	DimensionRoles      DimensionSource = "canonical_roles"
	DimensionPlaceTypes DimensionSource = "canonical_place_types"
	DimensionAccess     DimensionSource = "canonical_access"
)

// Valid reports whether d is one of the four fixed dimension names.
func (d DimensionSource) Valid() bool {
	switch d {
	case DimensionActivities, DimensionRoles, DimensionPlaceTypes, DimensionAccess:
		return true
	default:
		return false
	}
}

// Facet is a user-visible grouping of canonical values bound to one of the
// four universal dimensions.
type Facet struct {
	Key               string
	DimensionSource   DimensionSource `yaml:"dimension_source"`
	UILabel           string          `yaml:"ui_label"`
	DisplayMode       string          `yaml:"display_mode"`
	Order             int             `yaml:"order"`
	ShowInFilters     bool            `yaml:"show_in_filters"`
	ShowInNavigation  bool            `yaml:"show_in_navigation"`
	Icon              string          `yaml:"icon"`
}

// Value is a globally unique canonical identifier declared in the lens,
// opaque to the engine, carrying display metadata.
type Value struct {
	Key            string   `yaml:"key"`
	Facet          string   `yaml:"facet"`
	DisplayName    string   `yaml:"display_name"`
	Description    string   `yaml:"description"`
	SEOSlug        string   `yaml:"seo_slug"`
	SearchKeywords []string `yaml:"search_keywords"`
	IconURL        string   `yaml:"icon_url"`
	Color          string   `yaml:"color"`
}

// MappingRule maps a regex pattern over selected primitive fields to a
// canonical dimension value with a confidence weight.
type MappingRule struct {
	ID           string   `yaml:"id"`
	Pattern      string   `yaml:"pattern"`
	Compiled     *regexp.Regexp
	Canonical    string   `yaml:"canonical"`
	Dimension    DimensionSource
	Confidence   float64  `yaml:"confidence"`
	SourceFields []string `yaml:"source_fields"`
}

// FieldRuleApplicability restricts a field rule to a subset of sources/classes.
type FieldRuleApplicability struct {
	Source      []string `yaml:"source"`
	EntityClass []string `yaml:"entity_class"`
}

// FieldRule extracts a value into a module's namespaced field map.
type FieldRule struct {
	RuleID        string   `yaml:"rule_id"`
	TargetPath    string   `yaml:"target_path"`
	Extractor     string   `yaml:"extractor"` // "regex_capture" | "numeric_parser"
	Pattern       string   `yaml:"pattern"`
	Compiled      *regexp.Regexp
	SourceFields  []string                `yaml:"source_fields"`
	Confidence    float64                 `yaml:"confidence"`
	Applicability FieldRuleApplicability  `yaml:"applicability"`
	Normalizers   []string                `yaml:"normalizers"`
}

// Module is a namespaced bag of fields attached to an entity when a trigger fires.
type Module struct {
	Key         string
	Description string      `yaml:"description"`
	FieldRules  []FieldRule `yaml:"field_rules"`
}

// TriggerCondition is a simple field-equality condition on structural entity
// attributes (e.g. entity_class). It is parsed from the lens document but not
// evaluated: the mapping engine fires a ModuleTrigger on its facet/value pair
// alone.
type TriggerCondition struct {
	Field string `yaml:"field"`
	Value string `yaml:"value"`
}

// ModuleTrigger activates a set of modules when a facet/value condition holds.
type ModuleTrigger struct {
	When struct {
		Facet string `yaml:"facet"`
		Value string `yaml:"value"`
	} `yaml:"when"`
	AddModules []string           `yaml:"add_modules"`
	Conditions []TriggerCondition `yaml:"conditions"`
}

// ConnectorTrigger is a single selection rule evaluated against QueryFeatures
// and the IngestRequest at planning time.
type ConnectorTrigger struct {
	Kind     string   `yaml:"kind"` // any_keyword_match | all_keyword_match | geographic_match | category_search | mode_is
	Keywords []string `yaml:"keywords,omitempty"`
	Mode     string   `yaml:"mode,omitempty"`
}

// ConnectorRule declares a connector's selection priority and triggers.
type ConnectorRule struct {
	Priority int                `yaml:"priority"`
	Triggers []ConnectorTrigger `yaml:"triggers"`
}

// LensContract is the deep-frozen, read-only domain contract constructed
// once at bootstrap and shared through the entire pipeline.
type LensContract struct {
	ID            string
	ContentHash   string
	SchemaVersion string
	Facets        map[string]Facet
	Values        []Value
	MappingRules  []MappingRule
	Modules       map[string]Module
	ModuleTriggers []ModuleTrigger
	ConnectorRules map[string]ConnectorRule
	Vocabulary    []string

	valueIndex map[string]Value
}

// ValueByKey returns the declared Value for a canonical key, and whether it exists.
func (c *LensContract) ValueByKey(key string) (Value, bool) {
	if c.valueIndex == nil {
		return Value{}, false
	}
	v, ok := c.valueIndex[key]
	return v, ok
}

// BuildValueIndex populates the lookup index used by ValueByKey. Called once
// during Lens Loader construction, never mutated afterward.
func (c *LensContract) BuildValueIndex() {
	c.valueIndex = make(map[string]Value, len(c.Values))
	for _, v := range c.Values {
		c.valueIndex[v.Key] = v
	}
}
