package merge

import "fmt"

// Error wraps any failure in the dedup/merge step itself (not a
// MergeConflict, which is a normal ambiguous-match outcome, not an error).
type Error struct {
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("merge error: %s", e.Reason)
}
