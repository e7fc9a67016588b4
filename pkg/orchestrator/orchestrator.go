// Package orchestrator runs a phase-barriered, budget-bounded harmonization
// pipeline: DISCOVERY, then STRUCTURED, then ENRICHMENT, draining each
// phase's connectors deterministically before the next phase starts (spec
// §4.4, §5).
package orchestrator

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/larjgit/edinburgh-finds/pkg/config"
	"github.com/larjgit/edinburgh-finds/pkg/connector"
	"github.com/larjgit/edinburgh-finds/pkg/extract"
	"github.com/larjgit/edinburgh-finds/pkg/mapping"
	"github.com/larjgit/edinburgh-finds/pkg/merge"
	"github.com/larjgit/edinburgh-finds/pkg/model"
	"github.com/larjgit/edinburgh-finds/pkg/plan"
)

// Orchestrator wires the registries needed to turn an ExecutionPlan into a
// completed ExecutionState: connectors, their extractors, and the
// orchestrator's own concurrency/budget configuration.
type Orchestrator struct {
	Connectors *connector.Registry
	Extractors *extract.Registry
	Config     *config.OrchestratorConfig
	Logger     *slog.Logger
}

// connectorOutcome is one connector's contribution to a phase, collected
// back on the main goroutine after the phase's worker pool drains.
type connectorOutcome struct {
	connector   string
	entities    []model.ExtractedEntity
	runErr      *model.RunError
	quarantined []model.FailedExtraction
	costUSD     float64
}

// Run builds the plan, then executes phases in strict order, applying the
// budget and early-stopping rules of spec §4.4.
func (o *Orchestrator) Run(ctx context.Context, req model.IngestRequest, execCtx *model.ExecutionContext) (*model.ExecutionState, *plan.ExecutionPlan, error) {
	if req.BudgetUSD <= 0 {
		req.BudgetUSD = o.Config.DefaultBudgetUSD
	}
	if req.MinConfidence <= 0 {
		req.MinConfidence = o.Config.DefaultMinConfidence
	}
	if req.TargetEntityCount <= 0 {
		req.TargetEntityCount = o.Config.DefaultTargetEntityCount
	}

	p, features, err := plan.Build(req, execCtx, o.Connectors)
	if err != nil {
		return nil, nil, err
	}

	trustLevels := make(map[string]int, len(p.Connectors))
	for _, spec := range p.Connectors {
		trustLevels[spec.Name] = spec.TrustLevel
	}

	state := model.NewExecutionState()

	for _, phase := range model.Phases {
		names := p.PhaseMap[phase]
		if len(names) == 0 {
			continue
		}

		if req.BudgetUSD > 0 && state.BudgetSpentUSD+o.forecastPhaseCost(names) > req.BudgetUSD {
			state.BudgetSkips = append(state.BudgetSkips, model.BudgetSkipped{Phase: phase})
			state.PhaseResults[phase] = &model.PhaseResult{
				Phase: phase, Skipped: true,
				SkipReason: (&BudgetExceededError{Phase: phase, SpentUSD: state.BudgetSpentUSD, BudgetUSD: req.BudgetUSD}).Error(),
			}
			o.logf("phase skipped on budget", "phase", phase, "spent_usd", state.BudgetSpentUSD)
			continue
		}

		outcomes := o.runPhase(ctx, phase, names, req, features, execCtx)

		found := 0
		for _, oc := range outcomes {
			if oc.runErr != nil {
				state.Errors = append(state.Errors, *oc.runErr)
			}
			state.BudgetSpentUSD += oc.costUSD
			state.Candidates = append(state.Candidates, oc.entities...)
			state.Quarantined = append(state.Quarantined, oc.quarantined...)
			found += len(oc.entities)
		}

		state.PhaseResults[phase] = &model.PhaseResult{
			Phase: phase, ConnectorsRun: names, CandidatesFound: found,
		}

		merged, conflicts := merge.Dedup(state.Candidates, trustLevels)
		state.AcceptedEntities = merged
		state.MergeConflicts = appendNewConflicts(state.MergeConflicts, conflicts)

		o.logf("phase complete", "phase", phase, "candidates_found", found, "accepted_total", len(merged))

		if earlyStop(req, merged) {
			o.logf("early stop satisfied", "phase", phase, "mode", req.Mode)
			break
		}

		if req.BudgetUSD > 0 && state.BudgetSpentUSD >= req.BudgetUSD {
			o.logf("budget exhausted after phase", "phase", phase, "spent_usd", state.BudgetSpentUSD)
			break
		}
	}

	return state, p, nil
}

// runPhase drains all of a phase's connectors through a bounded worker
// pool, honoring run-level cancellation with a grace period before
// abandoning stragglers, then returns outcomes sorted alphabetically by
// connector name for deterministic downstream processing.
func (o *Orchestrator) runPhase(ctx context.Context, phase model.Phase, names []string, req model.IngestRequest, features model.QueryFeatures, execCtx *model.ExecutionContext) []connectorOutcome {
	workers := o.Config.WorkerCount
	if workers <= 0 {
		workers = 1
	}

	sem := make(chan struct{}, workers)
	results := make(chan connectorOutcome, len(names))
	var wg sync.WaitGroup

	for _, name := range names {
		name := name
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results <- o.runConnector(ctx, name, req, features, execCtx)
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	grace := o.Config.CancellationGracePeriod
	if grace <= 0 {
		grace = 2 * time.Second
	}

	select {
	case <-done:
	case <-ctx.Done():
		select {
		case <-done:
		case <-time.After(grace):
			o.logf("grace period elapsed, abandoning in-flight connectors", "phase", phase)
		}
	}

	// results is buffered to len(names), so abandoned stragglers can still
	// send without blocking; it is never closed, and only outcomes already
	// delivered are collected.
	outcomes := make([]connectorOutcome, 0, len(names))
drain:
	for {
		select {
		case oc := <-results:
			outcomes = append(outcomes, oc)
		default:
			break drain
		}
	}
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].connector < outcomes[j].connector })
	return outcomes
}

func (o *Orchestrator) runConnector(ctx context.Context, name string, req model.IngestRequest, features model.QueryFeatures, execCtx *model.ExecutionContext) connectorOutcome {
	spec, ok := o.Connectors.Get(name)
	if !ok {
		return connectorOutcome{connector: name, runErr: &model.RunError{Connector: name, Kind: "unregistered", Message: "connector not found in registry"}}
	}
	impl, ok := o.Connectors.Impl(name)
	if !ok {
		return connectorOutcome{connector: name, runErr: &model.RunError{Connector: name, Kind: "unimplemented", Message: "no adapter registered for this connector"}}
	}

	timeout := time.Duration(spec.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = o.Config.DefaultConnectorTimeout
	}
	connCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	deadline, _ := connCtx.Deadline()

	payloads, errs := impl.Execute(connCtx, req, features, execCtx, deadline)

	var entities []model.ExtractedEntity
	var quarantined []model.FailedExtraction
	var firstErr error

	for payloads != nil || errs != nil {
		select {
		case payload, ok := <-payloads:
			if !ok {
				payloads = nil
				continue
			}
			primitives, err := o.Extractors.Run(payload)
			if err != nil {
				// Per-payload extraction and purity failures are quarantined
				// individually; the connector's remaining payloads still run.
				quarantined = append(quarantined, model.FailedExtraction{
					EntitySnapshot: map[string]any{"source": payload.Source, "source_url": payload.SourceURL},
					Error:          err.Error(),
				})
				continue
			}
			entities = append(entities, mapping.Map(primitives, execCtx.LensContract))
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if firstErr == nil {
				firstErr = err
			}
		case <-connCtx.Done():
			if firstErr == nil {
				firstErr = connCtx.Err()
			}
			payloads, errs = nil, nil
		}
	}

	outcome := connectorOutcome{connector: name, entities: entities, quarantined: quarantined, costUSD: spec.CostPerCallUSD}
	if firstErr != nil {
		outcome.runErr = &model.RunError{Connector: name, Kind: "connector_error", Message: (&ConnectorError{Connector: name, Err: firstErr}).Error()}
	}
	return outcome
}

// earlyStop applies spec §4.4's stopping rules: RESOLVE_ONE stops as soon
// as any accepted entity clears min_confidence; DISCOVER_MANY stops once
// the accepted count reaches target_entity_count.
func earlyStop(req model.IngestRequest, accepted []model.Entity) bool {
	if len(accepted) == 0 {
		return false
	}
	switch req.Mode {
	case model.ModeResolveOne:
		for _, e := range accepted {
			if topConfidence(e) >= req.MinConfidence {
				return true
			}
		}
		return false
	case model.ModeDiscoverMany:
		return req.TargetEntityCount > 0 && len(accepted) >= req.TargetEntityCount
	default:
		return false
	}
}

func topConfidence(e model.Entity) float64 {
	var max float64
	for _, c := range e.FieldConfidence {
		if c > max {
			max = c
		}
	}
	return max
}

func appendNewConflicts(existing []model.MergeConflict, fresh []model.MergeConflict) []model.MergeConflict {
	seen := make(map[string]bool, len(existing))
	for _, c := range existing {
		seen[c.EntityASlug+"|"+c.EntityBSlug] = true
	}
	out := existing
	for _, c := range fresh {
		key := c.EntityASlug + "|" + c.EntityBSlug
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

// forecastPhaseCost sums the known per-call cost of every connector about
// to run in a phase, letting the budget pre-check skip a phase before
// spending rather than only after overrunning (spec §8 Scenario D).
func (o *Orchestrator) forecastPhaseCost(names []string) float64 {
	var total float64
	for _, name := range names {
		if spec, ok := o.Connectors.Get(name); ok {
			total += spec.CostPerCallUSD
		}
	}
	return total
}

func (o *Orchestrator) logf(msg string, args ...any) {
	if o.Logger == nil {
		return
	}
	o.Logger.Info(msg, args...)
}
