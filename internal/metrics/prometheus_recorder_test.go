package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStepDuration("clone", 150*time.Millisecond)
	pr.ObserveRunDuration(500 * time.Millisecond)
	pr.IncOutcome("published")
	pr.IncOutcome("published")
	pr.IncBuildAttempt("command:npm run build", "succeeded")
	pr.SetArtifacts(3)
	pr.IncCloneResult(true)

	require.InDelta(t, 2, counterValue(t, pr.outcomes.WithLabelValues("published")), 0)
	require.InDelta(t, 1, counterValue(t, pr.cloneResults.WithLabelValues("success")), 0)
	var m dto.Metric
	require.NoError(t, pr.artifacts.Write(&m))
	require.InDelta(t, 3, m.GetGauge().GetValue(), 0)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, mfs)
	for _, mf := range mfs {
		require.True(t, strings.HasPrefix(mf.GetName(), "prpreview_"), mf.GetName())
	}
}

func counterValue(t *testing.T, c prom.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestPrometheusRecorderNilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	require.NotPanics(t, func() {
		pr.IncOutcome("published")
		pr.ObserveStepDuration("build", time.Second)
		pr.SetArtifacts(1)
	})
}

func TestPush(t *testing.T) {
	var (
		mu     sync.Mutex
		method string
		path   string
		body   string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		method, path, body = r.Method, r.URL.Path, string(b)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	pr := NewPrometheusRecorder(nil)
	pr.IncOutcome("removed")
	require.NoError(t, pr.Push(context.Background(), srv.URL, "prpreview"))

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, http.MethodPut, method)
	require.Equal(t, "/metrics/job/prpreview", path)
	require.NotEmpty(t, body)
}

func TestNoopRecorderSatisfiesInterface(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.IncOutcome("published")
	r = NewPrometheusRecorder(nil)
	r.IncOutcome("published")
}
