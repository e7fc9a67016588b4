// Package plan turns an IngestRequest and ExecutionContext into a concrete,
// budget-bounded ExecutionPlan: which connectors run, in which phase, and in
// what dependency order.
package plan

import "github.com/larjgit/edinburgh-finds/pkg/model"

// ExecutionPlan is the Planner's (C3) output, consumed by the Orchestrator.
type ExecutionPlan struct {
	Connectors   []model.ConnectorSpec
	PhaseMap     map[model.Phase][]string
	DepGraph     map[string][]string
	EstBudgetUSD float64
}

// Build derives query features, selects and budget-filters connectors, and
// assembles the phase map and dependency graph for one run.
func Build(req model.IngestRequest, execCtx *model.ExecutionContext, catalog ConnectorCatalog) (*ExecutionPlan, model.QueryFeatures, error) {
	features := DeriveQueryFeatures(req, execCtx.LensContract)

	selected, err := selectConnectors(req, features, execCtx.LensContract, catalog)
	if err != nil {
		return nil, features, err
	}

	filtered := filterByBudget(selected, req.BudgetUSD)
	if len(filtered) == 0 {
		return nil, features, newError("budget %.2f leaves no connector affordable", req.BudgetUSD)
	}

	depGraph, err := buildDepGraph(filtered)
	if err != nil {
		return nil, features, err
	}

	return &ExecutionPlan{
		Connectors:   filtered,
		PhaseMap:     assignPhases(filtered),
		DepGraph:     depGraph,
		EstBudgetUSD: estimatedBudget(filtered),
	}, features, nil
}
