package lens

import "github.com/larjgit/edinburgh-finds/pkg/model"

// document is the on-disk YAML shape of a lens file. Loader unmarshals into
// this, validates it, then projects it into the engine-facing model.LensContract.
type document struct {
	LensID        string                    `yaml:"lens_id"`
	SchemaVersion string                    `yaml:"schema_version"`
	Facets        map[string]facetDoc       `yaml:"facets"`
	Values        []model.Value             `yaml:"values"`
	MappingRules  []mappingRuleDoc          `yaml:"mapping_rules"`
	Modules       map[string]moduleDoc      `yaml:"modules"`
	ModuleTriggers []model.ModuleTrigger    `yaml:"module_triggers"`
	ConnectorRules map[string]model.ConnectorRule `yaml:"connector_rules"`
	Vocabulary    []string                  `yaml:"vocabulary"`
}

type facetDoc struct {
	DimensionSource  string `yaml:"dimension_source"`
	UILabel          string `yaml:"ui_label"`
	DisplayMode      string `yaml:"display_mode"`
	Order            int    `yaml:"order"`
	ShowInFilters    bool   `yaml:"show_in_filters"`
	ShowInNavigation bool   `yaml:"show_in_navigation"`
	Icon             string `yaml:"icon"`
}

type mappingRuleDoc struct {
	ID           string   `yaml:"id"`
	Pattern      string   `yaml:"pattern"`
	Canonical    string   `yaml:"canonical"`
	Dimension    string   `yaml:"dimension"`
	Confidence   float64  `yaml:"confidence"`
	SourceFields []string `yaml:"source_fields"`
}

type moduleDoc struct {
	Description string               `yaml:"description"`
	FieldRules  []model.FieldRule    `yaml:"field_rules"`
}
