package build

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/prpreview/internal/logfields"
	"git.home.luguber.info/inful/prpreview/internal/runner"
)

// AttemptStatus is the outcome of one strategy.
type AttemptStatus string

const (
	StatusSucceeded AttemptStatus = "succeeded"
	StatusFailed    AttemptStatus = "failed"
	StatusSkipped   AttemptStatus = "skipped"
)

// Attempt records one strategy evaluation.
type Attempt struct {
	Strategy string
	Status   AttemptStatus
	Err      error
	Duration time.Duration
}

// Report summarises a discovery run.
type Report struct {
	Attempts []Attempt
	// Strategy names the strategy that succeeded; empty when none did.
	Strategy string
}

// Built reports whether any strategy succeeded.
func (r Report) Built() bool { return r.Strategy != "" }

// Discovery evaluates strategies in order until one succeeds.
type Discovery struct {
	runner     runner.Runner
	strategies []Strategy
}

// NewDiscovery creates a Discovery over strategies. Nil strategies means the defaults.
func NewDiscovery(r runner.Runner, strategies []Strategy) *Discovery {
	if strategies == nil {
		strategies = Strategies(nil, nil)
	}
	return &Discovery{runner: r, strategies: strategies}
}

// Run tries each strategy in dir. It never returns an error: failures are recorded
// in the report and the next candidate is tried. Cancellation stops the walk.
func (d *Discovery) Run(ctx context.Context, dir string) Report {
	var rep Report
	for _, s := range d.strategies {
		if ctx.Err() != nil {
			slog.Warn("Build discovery interrupted", logfields.Error(ctx.Err()))
			return rep
		}
		t0 := time.Now()
		err := s.Attempt(ctx, d.runner, dir)
		a := Attempt{Strategy: s.Name(), Err: err, Duration: time.Since(t0)}
		switch {
		case err == nil:
			a.Status = StatusSucceeded
			rep.Attempts = append(rep.Attempts, a)
			rep.Strategy = s.Name()
			slog.Info("Build strategy succeeded", logfields.Strategy(s.Name()), logfields.DurationMS(float64(a.Duration.Milliseconds())))
			return rep
		case errors.Is(err, ErrNotApplicable):
			a.Status = StatusSkipped
			slog.Debug("Build strategy not applicable", logfields.Strategy(s.Name()))
		default:
			a.Status = StatusFailed
			slog.Info("Build strategy failed, trying next", logfields.Strategy(s.Name()), logfields.Error(err))
		}
		rep.Attempts = append(rep.Attempts, a)
	}
	slog.Warn("No build strategy succeeded; continuing with existing tree", logfields.Count(len(rep.Attempts)))
	return rep
}
