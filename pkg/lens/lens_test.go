package lens

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validLensYAML = `
lens_id: edinburgh_finds_v1
schema_version: "1.0"
facets:
  activities:
    dimension_source: canonical_activities
    ui_label: Activities
    display_mode: chips
    order: 1
    show_in_filters: true
    show_in_navigation: true
values:
  - key: climbing
    facet: activities
    display_name: Climbing
mapping_rules:
  - id: climbing_keyword
    pattern: "(?i)climb"
    canonical: climbing
    dimension: canonical_activities
    confidence: 0.8
    source_fields: ["entity_name", "description"]
modules:
  climbing_wall:
    description: climbing wall specific fields
    field_rules:
      - rule_id: height_m
        target_path: climbing_wall.height_meters
        extractor: numeric_parser
        source_fields: ["description"]
        confidence: 0.6
module_triggers:
  - when:
      facet: activities
      value: climbing
    add_modules: ["climbing_wall"]
connector_rules:
  osm_overpass:
    priority: 1
    triggers:
      - kind: any_keyword_match
        keywords: ["climb", "wall"]
vocabulary: ["climb", "wall"]
`

type fakeRegistry struct{ names map[string]bool }

func (f fakeRegistry) Has(name string) bool { return f.names[name] }

func validRegistry() fakeRegistry {
	return fakeRegistry{names: map[string]bool{"osm_overpass": true}}
}

func TestLoad_Valid(t *testing.T) {
	contract, err := Load([]byte(validLensYAML), "valid.yaml", validRegistry())
	require.NoError(t, err)
	assert.Equal(t, "edinburgh_finds_v1", contract.ID)
	assert.NotEmpty(t, contract.ContentHash)
	assert.Len(t, contract.MappingRules, 1)
	require.NotNil(t, contract.MappingRules[0].Compiled)
	assert.True(t, contract.MappingRules[0].Compiled.MatchString("Climbing Wall"))
	v, ok := contract.ValueByKey("climbing")
	require.True(t, ok)
	assert.Equal(t, "Climbing", v.DisplayName)
}

func TestLoad_ContentHashStableAcrossKeyOrder(t *testing.T) {
	reordered := `
schema_version: "1.0"
lens_id: edinburgh_finds_v1
facets:
  activities:
    ui_label: Activities
    dimension_source: canonical_activities
    display_mode: chips
    order: 1
    show_in_filters: true
    show_in_navigation: true
values:
  - key: climbing
    facet: activities
    display_name: Climbing
mapping_rules:
  - id: climbing_keyword
    dimension: canonical_activities
    pattern: "(?i)climb"
    canonical: climbing
    confidence: 0.8
    source_fields: ["entity_name", "description"]
modules:
  climbing_wall:
    description: climbing wall specific fields
    field_rules:
      - rule_id: height_m
        target_path: climbing_wall.height_meters
        extractor: numeric_parser
        source_fields: ["description"]
        confidence: 0.6
module_triggers:
  - when:
      facet: activities
      value: climbing
    add_modules: ["climbing_wall"]
connector_rules:
  osm_overpass:
    priority: 1
    triggers:
      - kind: any_keyword_match
        keywords: ["climb", "wall"]
vocabulary: ["climb", "wall"]
`
	a, err := Load([]byte(validLensYAML), "a.yaml", validRegistry())
	require.NoError(t, err)
	b, err := Load([]byte(reordered), "b.yaml", validRegistry())
	require.NoError(t, err)
	assert.Equal(t, a.ContentHash, b.ContentHash)
}

func TestLoad_Gates(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(string) string
		wantErr string
	}{
		{
			name: "missing lens_id fails schema-shape",
			mutate: func(s string) string {
				return `
schema_version: "1.0"
facets:
  activities:
    dimension_source: canonical_activities
values: []
`
			},
			wantErr: "schema-shape",
		},
		{
			name: "unregistered connector fails connector-registry",
			mutate: func(s string) string {
				return strings.Replace(s, "  osm_overpass:", "  unknown_connector:", 1)
			},
			wantErr: "connector-registry",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := tt.mutate(validLensYAML)
			_, err := Load([]byte(src), "t.yaml", validRegistry())
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_UnregisteredConnectorFails(t *testing.T) {
	empty := fakeRegistry{names: map[string]bool{}}
	_, err := Load([]byte(validLensYAML), "t.yaml", empty)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connector-registry")
}

func TestLoad_DuplicateValueKeyFailsIdentifierUniqueness(t *testing.T) {
	src := `
lens_id: x
schema_version: "1.0"
facets:
  activities:
    dimension_source: canonical_activities
values:
  - key: climbing
    facet: activities
    display_name: Climbing
  - key: climbing
    facet: activities
    display_name: Climbing Again
mapping_rules:
  - id: r1
    pattern: "climb"
    canonical: climbing
    dimension: canonical_activities
    confidence: 0.5
`
	_, err := Load([]byte(src), "t.yaml", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "identifier-uniqueness")
}

func TestLoad_BadRegexFailsCompilability(t *testing.T) {
	src := `
lens_id: x
schema_version: "1.0"
facets:
  activities:
    dimension_source: canonical_activities
values:
  - key: climbing
    facet: activities
    display_name: Climbing
mapping_rules:
  - id: r1
    pattern: "("
    canonical: climbing
    dimension: canonical_activities
    confidence: 0.5
`
	_, err := Load([]byte(src), "t.yaml", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "regex-compilability")
}

func TestLoad_UncoveredValueFailsSmokeCoverage(t *testing.T) {
	src := `
lens_id: x
schema_version: "1.0"
facets:
  activities:
    dimension_source: canonical_activities
values:
  - key: climbing
    facet: activities
    display_name: Climbing
  - key: swimming
    facet: activities
    display_name: Swimming
mapping_rules:
  - id: r1
    pattern: "climb"
    canonical: climbing
    dimension: canonical_activities
    confidence: 0.5
`
	_, err := Load([]byte(src), "t.yaml", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smoke-coverage")
}
