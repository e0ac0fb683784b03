package helpers

import (
	"context"
	"strings"
	"sync"

	"git.home.luguber.info/inful/prpreview/internal/runner"
)

// FakeRunner records commands and answers with scripted results.
// A command succeeds when one of Succeed is a substring of its command line,
// optionally running OnSuccess (e.g. to write build output). Everything else fails with exit 1.
type FakeRunner struct {
	mu        sync.Mutex
	Succeed   []string
	OnSuccess func(cmd runner.Command)
	Calls     []runner.Command
}

// Run implements runner.Runner.
func (f *FakeRunner) Run(_ context.Context, cmd runner.Command) (runner.Result, error) {
	f.mu.Lock()
	f.Calls = append(f.Calls, cmd)
	f.mu.Unlock()

	line := cmd.String()
	for _, s := range f.Succeed {
		if strings.Contains(line, s) {
			if f.OnSuccess != nil {
				f.OnSuccess(cmd)
			}
			return runner.Result{ExitCode: 0}, nil
		}
	}
	return runner.Result{ExitCode: 1}, &runner.ExitError{Command: line, ExitCode: 1}
}

// Commands returns the recorded command lines.
func (f *FakeRunner) Commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.Calls))
	for _, c := range f.Calls {
		out = append(out, c.String())
	}
	return out
}
