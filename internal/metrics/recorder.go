package metrics

import "time"

// RunOutcome enumerates final run results for counters.
type RunOutcome string

const (
	OutcomeSuccess RunOutcome = "success"
	OutcomeWarning RunOutcome = "warning" // completed with WARNING/ERROR diagnostics
	OutcomeFailed  RunOutcome = "failed"
)

// ResolveResult enumerates source link resolution results.
type ResolveResult string

const (
	ResolveLinked ResolveResult = "linked" // rewritten to a public URL
	ResolveRaw    ResolveResult = "raw"    // fell back to the marker location
	ResolveAbsent ResolveResult = "absent" // no location on the marker
	ResolveFailed ResolveResult = "failed" // location could not be normalized
)

// Recorder defines observability hooks for generation runs. Implementations
// must be safe for concurrent use: pages render in parallel.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveRunDuration(d time.Duration)
	IncRunOutcome(outcome RunOutcome)
	IncPagesWritten(n int)
	IncDiagnostics(status string)
	IncSourceResolve(result ResolveResult)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveRunDuration(time.Duration)           {}
func (NoopRecorder) IncRunOutcome(RunOutcome)                   {}
func (NoopRecorder) IncPagesWritten(int)                        {}
func (NoopRecorder) IncDiagnostics(string)                      {}
func (NoopRecorder) IncSourceResolve(ResolveResult)             {}
