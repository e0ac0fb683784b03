package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/prpreview/internal/config"
	"git.home.luguber.info/inful/prpreview/internal/event"
	"git.home.luguber.info/inful/prpreview/internal/git"
	"git.home.luguber.info/inful/prpreview/internal/lifecycle"
	"git.home.luguber.info/inful/prpreview/internal/logfields"
	"git.home.luguber.info/inful/prpreview/internal/metrics"
	"git.home.luguber.info/inful/prpreview/internal/notify"
	"git.home.luguber.info/inful/prpreview/internal/retry"
	"git.home.luguber.info/inful/prpreview/internal/runner"
)

// RunCmd implements the 'run' command.
type RunCmd struct {
	Payload   string `arg:"" optional:"" help:"Event payload as JSON"`
	Event     string `help:"Event payload as JSON (takes precedence over the positional payload)"`
	EventFile string `name:"event-file" type:"path" help:"Read the event payload from a file (e.g. $GITHUB_EVENT_PATH)"`
	WorkDir   string `name:"work-dir" type:"path" help:"Parent directory for scratch clones (defaults to the system temp dir)"`
}

func (r *RunCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}

	arg := r.Event
	if arg == "" {
		arg = r.Payload
	}
	ev, err := event.Source{Arg: arg, File: r.EventFile, EnvVar: config.EnvEvent, Getenv: os.Getenv}.Load()
	if err != nil {
		return err
	}
	slog.Debug("Event received",
		logfields.FullName(ev.Repository.FullName),
		logfields.PR(ev.PullRequest.Number),
		logfields.Action(ev.RawAction))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	token := config.ResolveToken(os.Getenv)
	client := git.NewClient(token).
		WithIdentity(cfg.Committer.Name, cfg.Committer.Email).
		WithRetryPolicy(retry.FromClone(cfg.Clone))
	cmdRunner := &runner.ExecRunner{Timeout: cfg.CommandTimeout()}
	if root.Verbose {
		cmdRunner.Stream = os.Stderr
	}
	orch := lifecycle.New(cfg, lifecycle.GitVCS{Client: client}, cmdRunner).WithWorkDir(r.WorkDir)

	var recorder *metrics.PrometheusRecorder
	if cfg.Metrics.PushgatewayURL != "" {
		recorder = metrics.NewPrometheusRecorder(nil)
		orch.WithRecorder(recorder)
	}
	if cfg.Notify.Enabled {
		n, nerr := notify.NewGitHubNotifier(ctx, token, cfg.Notify.APIBaseURL)
		if nerr != nil {
			return nerr
		}
		orch.WithNotifier(n)
	}

	rep, err := orch.Handle(ctx, ev)
	if recorder != nil {
		pushMetrics(recorder, cfg.Metrics)
	}
	if err != nil {
		return err
	}

	if rep.PreviewPath != "" {
		_, _ = fmt.Fprintf(g.out(), "%s %s\n", rep.Outcome, rep.PreviewPath)
	} else {
		_, _ = fmt.Fprintln(g.out(), rep.Outcome)
	}
	return nil
}

// pushMetrics delivers run metrics; a failed push never fails the run.
func pushMetrics(rec *metrics.PrometheusRecorder, cfg config.MetricsConfig) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := rec.Push(ctx, cfg.PushgatewayURL, cfg.Job); err != nil {
		slog.Warn("Failed to push metrics", logfields.URL(cfg.PushgatewayURL), logfields.Error(err))
	}
}
