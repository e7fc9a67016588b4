// Package mapping applies a lens's declarative rules to one source's
// Primitives, producing an ExtractedEntity with canonical dimensions and
// module fields populated deterministically (spec §4.7).
package mapping

import (
	"github.com/larjgit/edinburgh-finds/pkg/classify"
	"github.com/larjgit/edinburgh-finds/pkg/model"
)

// Map runs Steps A-E of the mapping engine over one source's primitives.
func Map(p model.Primitives, contract *model.LensContract) model.ExtractedEntity {
	entityClass := classify.Classify(p)

	hits := runMappingRules(&p, contract)
	dims, mappingConfidence := stabilize(hits)

	active := activeModules(dims, contract)
	modules, fieldConfidence, sourceInfo := applyModuleFieldRules(&p, entityClass, active, contract)

	for canonical, conf := range mappingConfidence {
		fieldConfidence[canonical] = conf
		sourceInfo[canonical] = p.SourceName
	}

	entity := model.ExtractedEntity{
		Primitives:          p,
		CanonicalActivities: dims[model.DimensionActivities],
		CanonicalRoles:      dims[model.DimensionRoles],
		CanonicalPlaceTypes: dims[model.DimensionPlaceTypes],
		CanonicalAccess:     dims[model.DimensionAccess],
		EntityClass:         entityClass,
		Modules:             modules,
		FieldConfidence:     fieldConfidence,
		SourceInfo:          sourceInfo,
	}

	return entity
}
