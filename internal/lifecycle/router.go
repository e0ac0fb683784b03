package lifecycle

import "git.home.luguber.info/inful/prpreview/internal/event"

// Flow is the work an action requires.
type Flow string

const (
	FlowGenerate Flow = "generate"
	FlowCleanup  Flow = "cleanup"
	FlowNone     Flow = "none"
)

// Route dispatches an action to its flow.
func Route(a event.Action) Flow {
	switch a {
	case event.ActionOpened, event.ActionSynchronize:
		return FlowGenerate
	case event.ActionClosed, event.ActionMerged:
		return FlowCleanup
	default:
		return FlowNone
	}
}

// Outcome is the benign result of a run.
type Outcome string

const (
	OutcomePublished          Outcome = "published"
	OutcomeUnchanged          Outcome = "unchanged"
	OutcomeRemoved            Outcome = "removed"
	OutcomeNothingToRemove    Outcome = "nothing-to-remove"
	OutcomeSkippedUnmonitored Outcome = "skipped-unmonitored"
	OutcomeSkippedAction      Outcome = "skipped-action"
	// OutcomeFailed is only recorded in metrics; failed runs return an error.
	OutcomeFailed Outcome = "failed"
)

// Report summarises a run.
type Report struct {
	Outcome     Outcome
	PreviewPath string
	// Strategy is the build strategy that succeeded, empty when none did.
	Strategy string
	Files    int
	Commit   string
	URL      string
}
