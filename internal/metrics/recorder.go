package metrics

import "time"

// Recorder defines observability hooks for one preview run.
type Recorder interface {
	ObserveStepDuration(step string, d time.Duration)
	ObserveRunDuration(d time.Duration)
	IncOutcome(outcome string)
	IncBuildAttempt(strategy, status string)
	SetArtifacts(n int)
	IncCloneResult(success bool)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStepDuration(string, time.Duration) {}
func (NoopRecorder) ObserveRunDuration(time.Duration)          {}
func (NoopRecorder) IncOutcome(string)                         {}
func (NoopRecorder) IncBuildAttempt(string, string)            {}
func (NoopRecorder) SetArtifacts(int)                          {}
func (NoopRecorder) IncCloneResult(bool)                       {}
