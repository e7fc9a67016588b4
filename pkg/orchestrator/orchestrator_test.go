package orchestrator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/larjgit/edinburgh-finds/pkg/config"
	"github.com/larjgit/edinburgh-finds/pkg/connector"
	"github.com/larjgit/edinburgh-finds/pkg/extract"
	"github.com/larjgit/edinburgh-finds/pkg/model"
)

type fakeConnector struct {
	payloads []model.RawPayload
	err      error
}

func (f fakeConnector) Execute(ctx context.Context, req model.IngestRequest, features model.QueryFeatures, execCtx *model.ExecutionContext, deadline time.Time) (<-chan model.RawPayload, <-chan error) {
	payloadCh := make(chan model.RawPayload, len(f.payloads))
	errCh := make(chan error, 1)
	for _, p := range f.payloads {
		payloadCh <- p
	}
	close(payloadCh)
	if f.err != nil {
		errCh <- f.err
	}
	close(errCh)
	return payloadCh, errCh
}

func testLensContract() *model.LensContract {
	c := &model.LensContract{
		Vocabulary: []string{"climbing"},
		Facets: map[string]model.Facet{
			"activities": {Key: "activities", DimensionSource: model.DimensionActivities},
		},
		ConnectorRules: map[string]model.ConnectorRule{
			"osm_overpass": {
				Triggers: []model.ConnectorTrigger{{Kind: "any_keyword_match", Keywords: []string{"climbing"}}},
			},
		},
	}
	c.BuildValueIndex()
	return c
}

func TestOrchestrator_Run_DiscoversAndAcceptsEntities(t *testing.T) {
	registry := connector.NewRegistry()
	registry.Register(model.ConnectorSpec{
		Name: "osm_overpass", Phase: model.PhaseDiscovery,
		TrustLevel: 60, CostPerCallUSD: 0.01, TimeoutMS: 1000,
	}, fakeConnector{payloads: []model.RawPayload{
		{Source: "osm_overpass", Data: map[string]any{}},
	}})

	extractors := extract.NewRegistry()
	extractors.Register("osm_overpass", extract.ExtractFunc(func(p model.RawPayload) (model.Primitives, error) {
		return model.Primitives{EntityName: "Edinburgh Climbing Arena"}, nil
	}))

	o := &Orchestrator{
		Connectors: registry,
		Extractors: extractors,
		Config:     config.DefaultOrchestratorConfig(),
	}

	execCtx := &model.ExecutionContext{LensContract: testLensContract()}
	req := model.IngestRequest{Query: "climbing", Mode: model.ModeDiscoverMany, TargetEntityCount: 1}

	state, p, err := o.Run(context.Background(), req, execCtx)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Len(t, state.AcceptedEntities, 1)
	assert.Equal(t, "Edinburgh Climbing Arena", state.AcceptedEntities[0].EntityName)
	assert.Empty(t, state.Errors)
}

func TestOrchestrator_Run_RecordsConnectorErrorWithoutFailingRun(t *testing.T) {
	registry := connector.NewRegistry()
	registry.Register(model.ConnectorSpec{
		Name: "osm_overpass", Phase: model.PhaseDiscovery,
		TrustLevel: 60, CostPerCallUSD: 0.01, TimeoutMS: 1000,
	}, fakeConnector{err: assertError("boom")})

	o := &Orchestrator{
		Connectors: registry,
		Extractors: extract.NewRegistry(),
		Config:     config.DefaultOrchestratorConfig(),
	}

	execCtx := &model.ExecutionContext{LensContract: testLensContract()}
	req := model.IngestRequest{Query: "climbing", Mode: model.ModeDiscoverMany, TargetEntityCount: 5}

	state, _, err := o.Run(context.Background(), req, execCtx)
	require.NoError(t, err)
	assert.NotEmpty(t, state.Errors)
}

type assertError string

func (e assertError) Error() string { return string(e) }

// phaseOrderConnector calls onStart when it starts and then blocks until
// release is closed, letting a test prove one phase's
// connectors never overlap with the next phase's.
type phaseOrderConnector struct {
	onStart func()
	release <-chan struct{}
}

func (c phaseOrderConnector) Execute(ctx context.Context, req model.IngestRequest, features model.QueryFeatures, execCtx *model.ExecutionContext, deadline time.Time) (<-chan model.RawPayload, <-chan error) {
	payloadCh := make(chan model.RawPayload, 1)
	errCh := make(chan error)
	go func() {
		c.onStart()
		<-c.release
		close(payloadCh)
		close(errCh)
	}()
	return payloadCh, errCh
}

func TestOrchestrator_Run_StructuredNeverStartsBeforeDiscoveryTerminates(t *testing.T) {
	registry := connector.NewRegistry()

	var mu sync.Mutex
	var order []string
	discoveryRelease := make(chan struct{})
	close(discoveryRelease)

	structuredStarted := make(chan struct{})

	registry.Register(model.ConnectorSpec{Name: "discovery_one", Phase: model.PhaseDiscovery, TrustLevel: 50, CostPerCallUSD: 0.01, TimeoutMS: 1000},
		phaseOrderConnector{onStart: func() {
			mu.Lock()
			order = append(order, "discovery_start")
			mu.Unlock()
		}, release: discoveryRelease})

	registry.Register(model.ConnectorSpec{Name: "structured_one", Phase: model.PhaseStructured, TrustLevel: 50, CostPerCallUSD: 0.01, TimeoutMS: 1000},
		phaseOrderConnector{onStart: func() {
			mu.Lock()
			order = append(order, "structured_start")
			mu.Unlock()
			close(structuredStarted)
		}, release: discoveryRelease})

	contract := testLensContract()
	contract.ConnectorRules["discovery_one"] = model.ConnectorRule{Triggers: []model.ConnectorTrigger{{Kind: "any_keyword_match", Keywords: []string{"climbing"}}}}
	contract.ConnectorRules["structured_one"] = model.ConnectorRule{Triggers: []model.ConnectorTrigger{{Kind: "any_keyword_match", Keywords: []string{"climbing"}}}}
	delete(contract.ConnectorRules, "osm_overpass")

	o := &Orchestrator{Connectors: registry, Extractors: extract.NewRegistry(), Config: config.DefaultOrchestratorConfig()}
	execCtx := &model.ExecutionContext{LensContract: contract}
	req := model.IngestRequest{Query: "climbing", Mode: model.ModeDiscoverMany, TargetEntityCount: 100}

	_, _, err := o.Run(context.Background(), req, execCtx)
	require.NoError(t, err)

	select {
	case <-structuredStarted:
	case <-time.After(time.Second):
		t.Fatal("structured connector never started")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, order, 2)
	assert.Equal(t, "discovery_start", order[0])
	assert.Equal(t, "structured_start", order[1])
}

func TestOrchestrator_Run_QuarantinesPurityViolationAndContinues(t *testing.T) {
	registry := connector.NewRegistry()
	registry.Register(model.ConnectorSpec{
		Name: "osm_overpass", Phase: model.PhaseDiscovery,
		TrustLevel: 60, CostPerCallUSD: 0.01, TimeoutMS: 1000,
	}, fakeConnector{payloads: []model.RawPayload{
		{Source: "osm_overpass", SourceURL: "bad"},
		{Source: "osm_overpass", SourceURL: "good"},
	}})

	extractors := extract.NewRegistry()
	extractors.Register("osm_overpass", extract.ExtractFunc(func(p model.RawPayload) (model.Primitives, error) {
		if p.SourceURL == "bad" {
			return model.Primitives{
				SourceName:      "osm_overpass",
				RawObservations: map[string]any{"canonical_activities": []string{"climbing"}},
			}, nil
		}
		return model.Primitives{EntityName: "Edinburgh Climbing Arena"}, nil
	}))

	o := &Orchestrator{Connectors: registry, Extractors: extractors, Config: config.DefaultOrchestratorConfig()}
	execCtx := &model.ExecutionContext{LensContract: testLensContract()}
	req := model.IngestRequest{Query: "climbing", Mode: model.ModeDiscoverMany, TargetEntityCount: 1}

	state, _, err := o.Run(context.Background(), req, execCtx)
	require.NoError(t, err)
	require.Len(t, state.Quarantined, 1)
	assert.Contains(t, state.Quarantined[0].Error, "non-primitive field")
	assert.Len(t, state.AcceptedEntities, 1)
	assert.Equal(t, "Edinburgh Climbing Arena", state.AcceptedEntities[0].EntityName)
}

// TestOrchestrator_Run_SkipsPhaseWhenBudgetExhausted mirrors spec.md §8
// Scenario D: DISCOVERY runs within budget, the STRUCTURED pre-check
// forecasts overrun and skips the phase rather than overrunning it, and a
// BudgetSkipped note is recorded for the skipped phase.
func TestOrchestrator_Run_SkipsPhaseWhenBudgetExhausted(t *testing.T) {
	registry := connector.NewRegistry()
	registry.Register(model.ConnectorSpec{
		Name: "discovery_cheap", Phase: model.PhaseDiscovery,
		TrustLevel: 60, CostPerCallUSD: 0.01, TimeoutMS: 1000,
	}, fakeConnector{payloads: []model.RawPayload{{Source: "discovery_cheap"}}})
	registry.Register(model.ConnectorSpec{
		Name: "structured_expensive", Phase: model.PhaseStructured,
		TrustLevel: 60, CostPerCallUSD: 0.05, TimeoutMS: 1000,
	}, fakeConnector{payloads: []model.RawPayload{{Source: "structured_expensive"}}})

	extractors := extract.NewRegistry()
	extractors.Register("discovery_cheap", extract.ExtractFunc(func(p model.RawPayload) (model.Primitives, error) {
		return model.Primitives{EntityName: "X"}, nil
	}))
	extractors.Register("structured_expensive", extract.ExtractFunc(func(p model.RawPayload) (model.Primitives, error) {
		return model.Primitives{EntityName: "Y"}, nil
	}))

	contract := testLensContract()
	contract.ConnectorRules["discovery_cheap"] = model.ConnectorRule{Triggers: []model.ConnectorTrigger{{Kind: "any_keyword_match", Keywords: []string{"climbing"}}}}
	contract.ConnectorRules["structured_expensive"] = model.ConnectorRule{Triggers: []model.ConnectorTrigger{{Kind: "any_keyword_match", Keywords: []string{"climbing"}}}}
	delete(contract.ConnectorRules, "osm_overpass")

	o := &Orchestrator{Connectors: registry, Extractors: extractors, Config: config.DefaultOrchestratorConfig()}
	execCtx := &model.ExecutionContext{LensContract: contract}
	req := model.IngestRequest{Query: "climbing", Mode: model.ModeDiscoverMany, TargetEntityCount: 100, BudgetUSD: 0.03}

	state, _, err := o.Run(context.Background(), req, execCtx)
	require.NoError(t, err)
	assert.InDelta(t, 0.01, state.BudgetSpentUSD, 0.0001)
	assert.Empty(t, state.Errors)
	require.Len(t, state.BudgetSkips, 1)
	assert.Equal(t, model.PhaseStructured, state.BudgetSkips[0].Phase)
	assert.Len(t, state.AcceptedEntities, 1, "only the discovery entity should have been accepted")
}
