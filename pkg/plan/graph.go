package plan

import (
	"sort"
	"strings"

	"github.com/larjgit/edinburgh-finds/pkg/model"
)

// ambientRequirePrefixes are requirements always satisfied by the run's own
// request/query-features data, so they never become edges in the connector
// dependency graph. A "context." requirement is NOT ambient: it creates a
// dependency edge to whichever selected connector's provides[] lists the
// same key (spec §4.3).
var ambientRequirePrefixes = []string{"request.", "query_features."}

func isAmbientRequirement(req string) bool {
	for _, p := range ambientRequirePrefixes {
		if strings.HasPrefix(req, p) {
			return true
		}
	}
	return false
}

// assignPhases groups connector names by their declared phase, sorted
// alphabetically within each phase for deterministic draining.
func assignPhases(specs []model.ConnectorSpec) map[model.Phase][]string {
	out := make(map[model.Phase][]string)
	for _, s := range specs {
		out[s.Phase] = append(out[s.Phase], s.Name)
	}
	for phase := range out {
		sort.Strings(out[phase])
	}
	return out
}

// buildDepGraph resolves each connector's non-ambient requirements against
// the other selected connectors' provided names. A requirement that names
// a selected connector's provided capability becomes a dependency edge; a
// requirement that resolves to nothing selected is a planning error.
func buildDepGraph(specs []model.ConnectorSpec) (map[string][]string, error) {
	providers := make(map[string][]string) // provided capability -> connector names
	for _, s := range specs {
		for _, p := range s.Provides {
			providers[p] = append(providers[p], s.Name)
		}
	}

	graph := make(map[string][]string, len(specs))
	for _, s := range specs {
		var deps []string
		for _, req := range s.Requires {
			if isAmbientRequirement(req) {
				continue
			}
			names, ok := providers[req]
			if !ok {
				return nil, newError("connector %q requires %q, provided by no selected connector", s.Name, req)
			}
			deps = append(deps, names...)
		}
		sort.Strings(deps)
		graph[s.Name] = deps
	}
	return graph, nil
}
