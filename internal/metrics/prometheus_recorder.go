package metrics

import (
	"context"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "prpreview"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg           *prom.Registry
	stepDuration  *prom.HistogramVec
	runDuration   prom.Histogram
	outcomes      *prom.CounterVec
	buildAttempts *prom.CounterVec
	artifacts     prom.Gauge
	cloneResults  *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers the run metrics on reg (a fresh registry when nil).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{reg: reg}
	pr.stepDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "step_duration_seconds",
		Help:      "Duration of individual lifecycle steps",
		Buckets:   prom.DefBuckets,
	}, []string{"step"})
	pr.runDuration = prom.NewHistogram(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Total duration of a preview run",
		Buckets:   prom.DefBuckets,
	})
	pr.outcomes = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "outcomes_total",
		Help:      "Run outcomes by final status",
	}, []string{"outcome"})
	pr.buildAttempts = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "build_attempts_total",
		Help:      "Build strategy attempts by strategy and status",
	}, []string{"strategy", "status"})
	pr.artifacts = prom.NewGauge(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "artifacts",
		Help:      "Number of files published by the last run",
	})
	pr.cloneResults = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "clone_results_total",
		Help:      "Source clone results by success/failure",
	}, []string{"result"})
	reg.MustRegister(pr.stepDuration, pr.runDuration, pr.outcomes, pr.buildAttempts, pr.artifacts, pr.cloneResults)
	return pr
}

// Registry returns the registry the metrics are registered on.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.reg }

func (p *PrometheusRecorder) ObserveStepDuration(step string, d time.Duration) {
	if p == nil || p.stepDuration == nil {
		return
	}
	p.stepDuration.WithLabelValues(step).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil || p.runDuration == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncOutcome(outcome string) {
	if p == nil || p.outcomes == nil {
		return
	}
	p.outcomes.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) IncBuildAttempt(strategy, status string) {
	if p == nil || p.buildAttempts == nil {
		return
	}
	p.buildAttempts.WithLabelValues(strategy, status).Inc()
}

func (p *PrometheusRecorder) SetArtifacts(n int) {
	if p == nil || p.artifacts == nil {
		return
	}
	p.artifacts.Set(float64(n))
}

func (p *PrometheusRecorder) IncCloneResult(success bool) {
	if p == nil || p.cloneResults == nil {
		return
	}
	res := "failed"
	if success {
		res = "success"
	}
	p.cloneResults.WithLabelValues(res).Inc()
}

// Push sends the registry to the Pushgateway at url under job, replacing the job's previous metrics.
func (p *PrometheusRecorder) Push(ctx context.Context, url, job string) error {
	return push.New(url, job).Gatherer(p.reg).PushContext(ctx)
}
