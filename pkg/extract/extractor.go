// Package extract turns connector-native RawPayloads into the universal
// Primitives schema, enforcing the purity rule that extractors may only
// populate primitive fields, raw_observations, external_ids, and
// structural_counts — never canonical dimensions or modules (spec §4.6).
package extract

import (
	"strings"

	"github.com/larjgit/edinburgh-finds/pkg/model"
)

// reservedRawObservationPrefixes are prefixes an extractor's raw_observations
// map must never contain: they belong to the Mapping Engine's output, not
// the extractor's.
var reservedRawObservationPrefixes = []string{"canonical_", "module.", "modules."}

// Extractor turns one connector's raw payload into Primitives.
type Extractor interface {
	Extract(payload model.RawPayload) (model.Primitives, error)
}

// ExtractFunc adapts a plain function to the Extractor interface.
type ExtractFunc func(model.RawPayload) (model.Primitives, error)

func (f ExtractFunc) Extract(payload model.RawPayload) (model.Primitives, error) {
	return f(payload)
}

// Registry is a name -> Extractor store, keyed by connector source name.
// Register is not synchronized; Run is safe for concurrent use once all
// extractors are registered.
type Registry struct {
	extractors map[string]Extractor
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{extractors: make(map[string]Extractor)}
}

// Register adds an extractor for the given source name.
func (r *Registry) Register(source string, e Extractor) {
	r.extractors[source] = e
}

// Run looks up the extractor for payload.Source, runs it, normalizes the
// result, and enforces the purity rule before returning.
func (r *Registry) Run(payload model.RawPayload) (model.Primitives, error) {
	e, ok := r.extractors[payload.Source]
	if !ok {
		return model.Primitives{}, &Error{Source: payload.Source, Reason: "no extractor registered for source"}
	}

	primitives, err := e.Extract(payload)
	if err != nil {
		return model.Primitives{}, &Error{Source: payload.Source, Reason: err.Error()}
	}
	primitives.SourceName = payload.Source

	if err := validate(&primitives); err != nil {
		return model.Primitives{}, err
	}
	normalize(&primitives)

	return primitives, nil
}

// validate enforces the purity rule: raw_observations may not smuggle
// canonical-dimension or module data through its schema-free bag.
func validate(p *model.Primitives) error {
	for key := range p.RawObservations {
		lower := strings.ToLower(key)
		for _, prefix := range reservedRawObservationPrefixes {
			if strings.HasPrefix(lower, prefix) {
				return &PurityViolation{Source: p.SourceName, Field: key}
			}
		}
	}
	return nil
}
