package lifecycle

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/prpreview/internal/artifacts"
	"git.home.luguber.info/inful/prpreview/internal/build"
	"git.home.luguber.info/inful/prpreview/internal/config"
	"git.home.luguber.info/inful/prpreview/internal/event"
	"git.home.luguber.info/inful/prpreview/internal/foundation/errors"
	"git.home.luguber.info/inful/prpreview/internal/git"
	"git.home.luguber.info/inful/prpreview/internal/logfields"
	"git.home.luguber.info/inful/prpreview/internal/metrics"
	"git.home.luguber.info/inful/prpreview/internal/notify"
	"git.home.luguber.info/inful/prpreview/internal/preview"
	"git.home.luguber.info/inful/prpreview/internal/publish"
	"git.home.luguber.info/inful/prpreview/internal/runner"
	"git.home.luguber.info/inful/prpreview/internal/workspace"
)

// Step names used in logs, metrics and error context.
const (
	StepFilter   = "filter"
	StepClone    = "clone"
	StepBuild    = "build"
	StepLocate   = "locate"
	StepCheckout = "checkout"
	StepPublish  = "publish"
	StepRemove   = "remove"
	StepNotify   = "notify"
)

// Orchestrator runs one event through the preview lifecycle.
type Orchestrator struct {
	cfg       *config.Config
	vcs       VCS
	runner    runner.Runner
	workDir   string
	newID     func() string
	recorder  metrics.Recorder
	notifier  notify.Notifier
	publisher *publish.Publisher
	remover   *publish.Remover
}

// New creates an orchestrator. cfg must already be defaulted and validated.
func New(cfg *config.Config, vcs VCS, r runner.Runner) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg,
		vcs:       vcs,
		runner:    r,
		recorder:  metrics.NoopRecorder{},
		notifier:  notify.NoopNotifier{},
		publisher: publish.NewPublisher(),
		remover:   publish.NewRemover(),
	}
}

// WithRecorder sets the metrics recorder (fluent helper).
func (o *Orchestrator) WithRecorder(r metrics.Recorder) *Orchestrator { o.recorder = r; return o }

// WithNotifier sets the notifier used after a publish (fluent helper).
func (o *Orchestrator) WithNotifier(n notify.Notifier) *Orchestrator { o.notifier = n; return o }

// WithWorkDir sets the parent of the scratch directories (os.TempDir by default).
func (o *Orchestrator) WithWorkDir(dir string) *Orchestrator { o.workDir = dir; return o }

// WithIDGenerator sets the unique suffix source of scratch directory names.
func (o *Orchestrator) WithIDGenerator(gen func() string) *Orchestrator { o.newID = gen; return o }

// run carries the state of one Handle call.
type run struct {
	ev   *event.Event
	slot preview.Path
	log  *slog.Logger
	ws   *workspace.Manager
}

// Handle processes ev. Unmonitored repositories and unhandled actions return a
// skipped outcome without touching the network or the filesystem.
func (o *Orchestrator) Handle(ctx context.Context, ev *event.Event) (rep Report, err error) {
	start := time.Now()
	log := slog.With(
		logfields.Repository(ev.Repository.Name),
		logfields.PR(ev.PullRequest.Number),
		logfields.Action(ev.RawAction))
	defer func() {
		outcome := rep.Outcome
		if err != nil {
			outcome = OutcomeFailed
		}
		o.recorder.IncOutcome(string(outcome))
		o.recorder.ObserveRunDuration(time.Since(start))
	}()

	if !o.cfg.IsMonitored(ev.Repository.Name) {
		log.Info("Repository is not monitored, skipping", logfields.Step(StepFilter))
		return Report{Outcome: OutcomeSkippedUnmonitored}, nil
	}

	flow := Route(ev.Action)
	if flow == FlowNone {
		log.Info("Action does not affect previews, skipping")
		return Report{Outcome: OutcomeSkippedAction}, nil
	}

	slot, perr := preview.NewPath(ev.Repository.Name, ev.PullRequest.Number)
	if perr != nil {
		return Report{}, errors.MalformedEvent("cannot derive preview path").WithCause(perr).Build()
	}
	log = log.With(logfields.PreviewPath(slot.String()))

	ws := workspace.NewManager(o.workDir)
	if o.newID != nil {
		ws.WithIDGenerator(o.newID)
	}
	defer func() {
		if cerr := ws.Cleanup(); cerr != nil {
			log.Warn("Failed to remove scratch directories", logfields.Error(cerr))
		}
	}()

	r := &run{ev: ev, slot: slot, log: log, ws: ws}
	if flow == FlowGenerate {
		rep, err = o.generate(ctx, r)
	} else {
		rep, err = o.cleanup(ctx, r)
	}
	if err == nil {
		log.Info("Preview run finished",
			logfields.Outcome(string(rep.Outcome)),
			logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	}
	return rep, err
}

func (o *Orchestrator) generate(ctx context.Context, r *run) (Report, error) {
	ev := r.ev
	if ev.PullRequest.HeadSHA == "" {
		return Report{}, o.fail(r, StepClone, errors.MalformedEvent("pull_request.head.sha is required to build a preview").Build())
	}
	r.log = r.log.With(logfields.SHA(ev.ShortSHA()))

	srcDir, err := r.ws.Create("source")
	if err != nil {
		return Report{}, o.fail(r, StepClone, errors.FileSystemError("failed to create scratch directory").WithCause(err).Build())
	}
	spec := git.SourceSpec{
		URL:      o.cfg.SourceCloneURL(ev.Repository.Owner, ev.Repository.Name, ev.Repository.FullName),
		SHA:      ev.PullRequest.HeadSHA,
		PRNumber: ev.PullRequest.Number,
	}
	err = o.step(r, StepClone, func() error { return o.vcs.CloneSource(ctx, spec, srcDir) })
	o.recorder.IncCloneResult(err == nil)
	if err != nil {
		return Report{}, o.fail(r, StepClone, err)
	}

	buildRep := o.runBuild(ctx, r, srcDir)
	for _, a := range buildRep.Attempts {
		o.recorder.IncBuildAttempt(a.Strategy, string(a.Status))
	}

	var set *artifacts.Set
	err = o.step(r, StepLocate, func() error {
		var lerr error
		set, lerr = artifacts.NewLocator(o.cfg.Build.OutputDirs, o.cfg.Build.IncludeAssets).Locate(srcDir)
		return lerr
	})
	if err != nil {
		return Report{}, o.fail(r, StepLocate, err)
	}
	o.recorder.SetArtifacts(len(set.Files))

	co, err := o.openPreview(ctx, r)
	if err != nil {
		return Report{}, err
	}

	var res publish.Result
	err = o.step(r, StepPublish, func() error {
		var perr error
		res, perr = o.publisher.Publish(ctx, co, set, r.slot, ev.ShortSHA())
		return perr
	})
	if err != nil {
		return Report{}, o.fail(r, StepPublish, err)
	}

	rep := Report{
		Outcome:     OutcomeUnchanged,
		PreviewPath: r.slot.String(),
		Strategy:    buildRep.Strategy,
		Files:       res.Files,
		Commit:      res.Commit,
	}
	if res.Changed {
		rep.Outcome = OutcomePublished
	}
	if o.cfg.Notify.Enabled {
		rep.URL = o.cfg.PreviewURL(r.slot.String())
		o.notify(ctx, r, rep.URL)
	}
	return rep, nil
}

// runBuild runs discovery. Its outcome never fails the flow; missing output is
// reported by the locate step.
func (o *Orchestrator) runBuild(ctx context.Context, r *run, srcDir string) build.Report {
	t0 := time.Now()
	d := build.NewDiscovery(o.runner, build.Strategies(o.cfg.Build.Scripts, o.cfg.Build.Commands))
	rep := d.Run(ctx, srcDir)
	o.recorder.ObserveStepDuration(StepBuild, time.Since(t0))
	r.log.Debug("Step finished", logfields.Step(StepBuild), logfields.Strategy(rep.Strategy))
	return rep
}

func (o *Orchestrator) cleanup(ctx context.Context, r *run) (Report, error) {
	co, err := o.openPreview(ctx, r)
	if err != nil {
		return Report{}, err
	}

	var res publish.Result
	err = o.step(r, StepRemove, func() error {
		var rerr error
		res, rerr = o.remover.Remove(ctx, co, r.slot)
		return rerr
	})
	if err != nil {
		return Report{}, o.fail(r, StepRemove, err)
	}

	rep := Report{Outcome: OutcomeNothingToRemove, PreviewPath: r.slot.String(), Commit: res.Commit}
	if res.Changed {
		rep.Outcome = OutcomeRemoved
	}
	return rep, nil
}

func (o *Orchestrator) openPreview(ctx context.Context, r *run) (publish.Checkout, error) {
	dir, err := r.ws.Create("preview")
	if err != nil {
		return nil, o.fail(r, StepCheckout, errors.FileSystemError("failed to create scratch directory").WithCause(err).Build())
	}
	spec := git.PreviewSpec{URL: o.cfg.PreviewCloneURL(), Branch: o.cfg.PreviewRepository.Branch}
	var co publish.Checkout
	err = o.step(r, StepCheckout, func() error {
		var oerr error
		co, oerr = o.vcs.OpenPreview(ctx, spec, dir)
		return oerr
	})
	if err != nil {
		return nil, o.fail(r, StepCheckout, err)
	}
	return co, nil
}

func (o *Orchestrator) notify(ctx context.Context, r *run, url string) {
	ev := r.ev
	err := o.step(r, StepNotify, func() error {
		return o.notifier.Notify(ctx, notify.Target{
			Owner:    ev.Repository.Owner,
			Repo:     ev.Repository.Name,
			Number:   ev.PullRequest.Number,
			URL:      url,
			ShortSHA: ev.ShortSHA(),
		})
	})
	if err != nil {
		r.log.Warn("Failed to notify pull request", logfields.Step(StepNotify), logfields.Error(err))
	}
}

// step times fn and records its duration.
func (o *Orchestrator) step(r *run, name string, fn func() error) error {
	t0 := time.Now()
	r.log.Debug("Step started", logfields.Step(name))
	err := fn()
	d := time.Since(t0)
	o.recorder.ObserveStepDuration(name, d)
	r.log.Debug("Step finished", logfields.Step(name), logfields.DurationMS(float64(d.Milliseconds())))
	return err
}

// fail attaches repository, pull request and step context to a fatal error and logs it.
func (o *Orchestrator) fail(r *run, step string, err error) error {
	ce, ok := errors.AsClassified(err)
	if !ok {
		ce = errors.WrapError(err, errors.CategoryInternal, "preview run failed").Fatal().Build()
	}
	ce = ce.WithContext("repository", r.ev.Repository.Name).
		WithContext("pr", r.ev.PullRequest.Number).
		WithContext("step", step)
	r.log.Error("Preview run failed",
		logfields.Step(step),
		slog.String("category", string(ce.Category())),
		logfields.Error(err))
	return ce
}
