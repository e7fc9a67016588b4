package model

// ExecutionContext is the immutable, run-scoped carrier of lens identity and
// contract. It is constructed once per run and passed by read-only handle
// through the pipeline — no loaders or registries embedded, safe to log,
// persist, and replay.
type ExecutionContext struct {
	LensID       string
	LensContract *LensContract
	LensHash     string
}
