package errors

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "malformed event", err: MalformedEvent("missing action").Build(), expected: 1},
		{name: "artifacts not found", err: ArtifactsNotFound("no html").Build(), expected: 1},
		{name: "publish failed", err: PublishFailed("push rejected").Build(), expected: 1},
		{name: "unclassified error", err: errors.New("boom"), expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adapter.ExitCodeFor(tt.err); got != tt.expected {
				t.Errorf("ExitCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var logs, out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	adapter := NewCLIErrorAdapter(false, logger)
	adapter.out = &out
	code := -1
	adapter.exit = func(c int) { code = c }

	err := CleanupFailed("push rejected").
		WithCause(errors.New("non-fast-forward")).
		WithContext("repository", "docs-site").
		WithContext("pr", 42).
		WithContext("step", "push").
		Build()
	adapter.HandleError(err)

	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	for _, want := range []string{"category=cleanup", "repository=docs-site", "pr=42", "step=push", "non-fast-forward"} {
		if !strings.Contains(logs.String(), want) {
			t.Errorf("expected log to contain %q, got %s", want, logs.String())
		}
	}
	if !strings.Contains(out.String(), "Error (cleanup): push rejected") {
		t.Errorf("unexpected user message %q", out.String())
	}
}

func TestCLIErrorAdapter_HandleNil(t *testing.T) {
	adapter := NewCLIErrorAdapter(true, nil)
	called := false
	adapter.exit = func(int) { called = true }
	adapter.HandleError(nil)
	if called {
		t.Fatal("nil error must not exit")
	}
}
