package model

// RunError is one entry in ExecutionState.Errors — a recovered, non-fatal
// failure recorded during a run (spec §4.4 failure semantics).
type RunError struct {
	Connector string
	Kind      string
	Message   string
}

// BudgetSkipped notes a phase skipped by the pre-phase budget check.
type BudgetSkipped struct {
	Phase Phase
}

// PhaseResult summarizes one phase's execution for reporting.
type PhaseResult struct {
	Phase            Phase
	ConnectorsRun    []string
	CandidatesFound  int
	Skipped          bool
	SkipReason       string
}

// ExecutionState is the Orchestrator's mutable, run-confined bookkeeping. It
// is owned exclusively by the Orchestrator main loop for the lifetime of one
// run; worker tasks return values to it rather than mutate it directly.
type ExecutionState struct {
	Candidates       []ExtractedEntity
	AcceptedEntities []Entity
	BudgetSpentUSD   float64
	PhaseResults     map[Phase]*PhaseResult
	Errors           []RunError
	BudgetSkips      []BudgetSkipped
	MergeConflicts   []MergeConflict
	Quarantined      []FailedExtraction
}

// NewExecutionState returns a zero-valued ExecutionState ready for one run.
func NewExecutionState() *ExecutionState {
	return &ExecutionState{
		PhaseResults: make(map[Phase]*PhaseResult),
	}
}
