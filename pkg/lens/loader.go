// Package lens loads, validates, and freezes a lens YAML document into the
// read-only model.LensContract shared through the rest of the pipeline.
package lens

import (
	"fmt"
	"io"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/larjgit/edinburgh-finds/pkg/model"
)

// ConnectorRegistry is the subset of the connector registry the loader needs
// for Gate 3 (connector_rules reference registered connectors). Defined here
// rather than imported from pkg/connector to avoid a loader->connector
// dependency; pkg/connector's Registry satisfies this interface.
type ConnectorRegistry interface {
	Has(name string) bool
}

func yamlToGeneric(raw []byte, out *any) error {
	return yaml.Unmarshal(raw, out)
}

// LoadFile reads and validates a lens document from path against registry,
// returning a fully built, read-only model.LensContract.
func LoadFile(path string, registry ConnectorRegistry) (*model.LensContract, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, newConfigError(path, "cannot read lens file", err)
	}
	return Load(raw, path, registry)
}

// Load parses and validates raw lens YAML. path is used only for error
// messages (pass the source name when not loading from disk).
func Load(raw []byte, path string, registry ConnectorRegistry) (*model.LensContract, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, newConfigError(path, "malformed YAML", err)
	}

	if err := gateSchemaShape(path, &doc); err != nil {
		return nil, err
	}
	if err := gateReferenceIntegrity(path, &doc); err != nil {
		return nil, err
	}
	if err := gateConnectorRegistry(path, &doc, registry); err != nil {
		return nil, err
	}
	if err := gateIdentifierUniqueness(path, &doc); err != nil {
		return nil, err
	}
	compiledMapping, compiledField, err := gateRegexCompilability(path, &doc)
	if err != nil {
		return nil, err
	}
	if err := gateSmokeCoverage(path, &doc); err != nil {
		return nil, err
	}

	hash, err := contentHash(raw)
	if err != nil {
		return nil, newConfigError(path, "failed to compute content hash", err)
	}

	contract := buildContract(&doc, hash, compiledMapping, compiledField)
	return contract, nil
}

// LoadReader is a convenience wrapper for sources that aren't files (e.g.
// embedded lenses, test fixtures).
func LoadReader(r io.Reader, name string, registry ConnectorRegistry) (*model.LensContract, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, newConfigError(name, "cannot read lens source", err)
	}
	return Load(raw, name, registry)
}

func buildContract(doc *document, hash string, mappingRegex, fieldRegex map[string]*regexp.Regexp) *model.LensContract {
	facets := make(map[string]model.Facet, len(doc.Facets))
	for key, f := range doc.Facets {
		facets[key] = model.Facet{
			Key:              key,
			DimensionSource:  model.DimensionSource(f.DimensionSource),
			UILabel:          f.UILabel,
			DisplayMode:      f.DisplayMode,
			Order:            f.Order,
			ShowInFilters:    f.ShowInFilters,
			ShowInNavigation: f.ShowInNavigation,
			Icon:             f.Icon,
		}
	}

	mappingRules := make([]model.MappingRule, 0, len(doc.MappingRules))
	for _, r := range doc.MappingRules {
		mappingRules = append(mappingRules, model.MappingRule{
			ID:           r.ID,
			Pattern:      r.Pattern,
			Compiled:     mappingRegex[r.ID],
			Canonical:    r.Canonical,
			Dimension:    model.DimensionSource(r.Dimension),
			Confidence:   r.Confidence,
			SourceFields: r.SourceFields,
		})
	}

	modules := make(map[string]model.Module, len(doc.Modules))
	for key, m := range doc.Modules {
		rules := make([]model.FieldRule, len(m.FieldRules))
		for i, fr := range m.FieldRules {
			fr.Compiled = fieldRegex[fmt.Sprintf("%s/%s", key, fr.RuleID)]
			rules[i] = fr
		}
		modules[key] = model.Module{Key: key, Description: m.Description, FieldRules: rules}
	}

	connectorRules := make(map[string]model.ConnectorRule, len(doc.ConnectorRules))
	for name, cr := range doc.ConnectorRules {
		connectorRules[name] = cr
	}

	contract := &model.LensContract{
		ID:             doc.LensID,
		ContentHash:    hash,
		SchemaVersion:  doc.SchemaVersion,
		Facets:         facets,
		Values:         doc.Values,
		MappingRules:   mappingRules,
		Modules:        modules,
		ModuleTriggers: doc.ModuleTriggers,
		ConnectorRules: connectorRules,
		Vocabulary:     doc.Vocabulary,
	}
	contract.BuildValueIndex()
	return contract
}
