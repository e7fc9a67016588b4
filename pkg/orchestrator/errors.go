package orchestrator

import (
	"fmt"

	"github.com/larjgit/edinburgh-finds/pkg/model"
)

// ConnectorError is spec §7's ConnectorError: a connector failed or timed
// out during a phase. Recorded on ExecutionState.Errors, never fatal to the
// run as a whole.
type ConnectorError struct {
	Connector string
	Err       error
}

func (e *ConnectorError) Error() string {
	return fmt.Sprintf("connector %q failed: %v", e.Connector, e.Err)
}

func (e *ConnectorError) Unwrap() error { return e.Err }

// BudgetExceededError is spec §7's BudgetExceeded: the pre-phase budget
// check forecast that the amount already spent plus the phase's connector
// costs would exceed the budget, and the phase was skipped entirely.
type BudgetExceededError struct {
	Phase        model.Phase
	SpentUSD     float64
	BudgetUSD    float64
}

func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("budget exceeded before phase %s: spent %.4f of %.4f", e.Phase, e.SpentUSD, e.BudgetUSD)
}
