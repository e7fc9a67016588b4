package model

// Mode selects the orchestrator's run strategy.
type Mode string

const (
	ModeResolveOne    Mode = "resolve_one"
	ModeDiscoverMany  Mode = "discover_many"
)

// IngestRequest is the immutable description of one run.
type IngestRequest struct {
	Mode               Mode
	Query              string
	TargetEntityCount  int
	MinConfidence      float64
	BudgetUSD          float64
	Persist            bool
	LensID             string
}

// QueryFeatures is derived once per run from an IngestRequest and LensContract.
type QueryFeatures struct {
	NormalizedQuery        string
	DetectedKeywords       []string
	GeographicHints        []string
	LooksLikeCategorySearch bool
	IsSportsLike           bool
}

// Phase is one of the three strictly-ordered execution phases.
type Phase string

const (
	PhaseDiscovery  Phase = "DISCOVERY"
	PhaseStructured Phase = "STRUCTURED"
	PhaseEnrichment Phase = "ENRICHMENT"
)

// Phases lists the three phases in their strict execution order.
var Phases = []Phase{PhaseDiscovery, PhaseStructured, PhaseEnrichment}

// ConnectorSpec is the registered metadata for one connector.
type ConnectorSpec struct {
	Name          string
	Phase         Phase
	TrustLevel    int // [0,100]
	CostPerCallUSD float64
	AvgLatencyMS  int
	TimeoutMS     int
	Requires      []string
	Provides      []string
}
