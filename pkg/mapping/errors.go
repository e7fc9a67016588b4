package mapping

import "fmt"

// Error describes a mapping failure for one rule. Map itself returns no
// error: a field rule with a malformed target_path is skipped and an
// unknown normalizer is ignored.
type Error struct {
	RuleID string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("mapping error [%s]: %s", e.RuleID, e.Reason)
}
