// Package runner is the single collaborator through which external processes are started.
//
// Build strategies never call os/exec directly: they describe a Command and hand it
// to a Runner, which reports the exit status and the captured output. Tests substitute
// a scripted Runner and assert on the recorded commands.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Command describes one process invocation.
type Command struct {
	Dir  string
	Name string
	Args []string
	Env  []string // appended to the inherited environment
}

// String renders the command line for logs.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Shell wraps a shell snippet as `sh -c <script>`.
func Shell(dir, script string) Command {
	return Command{Dir: dir, Name: "sh", Args: []string{"-c", script}}
}

// Result is the observable outcome of a command.
type Result struct {
	ExitCode int // -1 when the process did not exit on its own
	Output   []byte
	Duration time.Duration
}

// Runner runs a command to completion.
// err is non-nil when the process could not start, was killed, or exited non-zero.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ExitError reports a non-zero exit.
type ExitError struct {
	Command  string
	ExitCode int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Command, e.ExitCode)
}

// ExecRunner starts real processes with os/exec.
type ExecRunner struct {
	// Timeout bounds each command; zero means no limit.
	Timeout time.Duration
	// Stream receives a copy of the combined output as it is produced (optional).
	Stream io.Writer
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, c Command) (Result, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	cmd.WaitDelay = 5 * time.Second

	var buf bytes.Buffer
	var out io.Writer = &buf
	if r.Stream != nil {
		out = io.MultiWriter(&buf, r.Stream)
	}
	cmd.Stdout = out
	cmd.Stderr = out

	slog.Debug("Running command", slog.String("command", c.String()), slog.String("dir", c.Dir))
	start := time.Now()
	err := cmd.Run()
	res := Result{ExitCode: -1, Output: buf.Bytes(), Duration: time.Since(start)}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}
	if err == nil {
		return res, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, fmt.Errorf("%s: %w", c.String(), ctxErr)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && res.ExitCode > 0 {
		return res, &ExitError{Command: c.String(), ExitCode: res.ExitCode}
	}
	return res, fmt.Errorf("%s: %w", c.String(), err)
}
