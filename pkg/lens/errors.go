package lens

import "fmt"

// ConfigError is the LensConfigError of spec §7: any lens validation gate
// failure, fatal at bootstrap.
type ConfigError struct {
	Reason  string
	Path    string
	Snippet string
}

func (e *ConfigError) Error() string {
	if e.Snippet != "" {
		return fmt.Sprintf("lens config error at %s: %s (%s)", e.Path, e.Reason, e.Snippet)
	}
	return fmt.Sprintf("lens config error at %s: %s", e.Path, e.Reason)
}

func newConfigError(path, reason string, snippetArgs ...any) *ConfigError {
	snippet := ""
	if len(snippetArgs) > 0 {
		snippet = fmt.Sprint(snippetArgs...)
	}
	return &ConfigError{Reason: reason, Path: path, Snippet: snippet}
}
