// Package connector defines the contract every external data source
// implements (spec §4.5) and the registry the Planner and Orchestrator
// resolve connector specs through. No concrete connectors live here —
// wiring real sources is out of scope for this engine.
package connector

import (
	"context"
	"time"

	"github.com/larjgit/edinburgh-finds/pkg/model"
)

// Connector fetches RawPayloads from one external source. Execute must
// respect deadline and ctx cancellation, closing both returned channels when
// done or when context is done, whichever comes first.
type Connector interface {
	Execute(ctx context.Context, req model.IngestRequest, features model.QueryFeatures, execCtx *model.ExecutionContext, deadline time.Time) (<-chan model.RawPayload, <-chan error)
}

