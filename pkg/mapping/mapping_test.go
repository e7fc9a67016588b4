package mapping

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/larjgit/edinburgh-finds/pkg/model"
)

func testContract() *model.LensContract {
	trigger := model.ModuleTrigger{AddModules: []string{"climbing_wall"}}
	trigger.When.Facet = "activities"
	trigger.When.Value = "climbing"

	c := &model.LensContract{
		Facets: map[string]model.Facet{
			"activities": {Key: "activities", DimensionSource: model.DimensionActivities},
		},
		MappingRules: []model.MappingRule{
			{
				ID: "climbing_kw", Pattern: "(?i)climb", Canonical: "climbing",
				Dimension: model.DimensionActivities, Confidence: 0.8,
				SourceFields: []string{"entity_name"}, Compiled: regexp.MustCompile(`(?i)climb`),
			},
		},
		Modules: map[string]model.Module{
			"climbing_wall": {
				Key: "climbing_wall",
				FieldRules: []model.FieldRule{
					{
						RuleID:       "height",
						TargetPath:   "climbing_wall.height_meters",
						Extractor:    "numeric_parser",
						SourceFields: []string{"height_raw"},
						Normalizers:  []string{"round_integer"},
						Confidence:   0.6,
					},
				},
			},
		},
		ModuleTriggers: []model.ModuleTrigger{trigger},
	}
	c.BuildValueIndex()
	return c
}

func TestMap_PopulatesCanonicalDimensionAndTriggersModule(t *testing.T) {
	p := model.Primitives{
		EntityName:      "City Climbing Wall",
		SourceName:      "osm_overpass",
		RawObservations: map[string]any{"height_raw": "18 meters"},
	}

	entity := Map(p, testContract())

	assert.Equal(t, []string{"climbing"}, entity.CanonicalActivities)
	require.Contains(t, entity.Modules, "climbing_wall")
	assert.Equal(t, 18, entity.Modules["climbing_wall"]["height_meters"])
	assert.Equal(t, 0.8, entity.FieldConfidence["climbing"])
}

func TestMap_IsDeterministic(t *testing.T) {
	p := model.Primitives{EntityName: "City Climbing Wall", SourceName: "osm_overpass"}
	contract := testContract()

	a := Map(p, contract)
	b := Map(p, contract)

	assert.Equal(t, a.CanonicalActivities, b.CanonicalActivities)
	assert.Equal(t, a.EntityClass, b.EntityClass)
}

func TestMap_NoMatchLeavesDimensionsEmpty(t *testing.T) {
	p := model.Primitives{EntityName: "Unrelated Place"}
	entity := Map(p, testContract())
	assert.Empty(t, entity.CanonicalActivities)
	assert.Empty(t, entity.Modules)
}
