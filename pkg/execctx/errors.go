package execctx

import "fmt"

// ResolutionError is the LensResolutionError of spec §7: no lens identity
// could be resolved from any source, or the resolved lens failed to load or
// validate. Fatal at bootstrap.
type ResolutionError struct {
	Reason string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("lens resolution error: %s", e.Reason)
}
