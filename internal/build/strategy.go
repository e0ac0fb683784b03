package build

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/prpreview/internal/runner"
)

// ErrNotApplicable is returned by a strategy that cannot run in the given tree.
var ErrNotApplicable = errors.New("strategy not applicable")

// Strategy is one candidate way of producing documentation output.
type Strategy interface {
	Name() string
	// Attempt runs the strategy in dir. A nil error means the build succeeded.
	Attempt(ctx context.Context, r runner.Runner, dir string) error
}

// ScriptStrategy runs a script expected at a path relative to the working tree.
type ScriptStrategy struct {
	Path string
}

func (s ScriptStrategy) Name() string { return "script:" + s.Path }

// Attempt implements Strategy. Missing scripts yield ErrNotApplicable.
func (s ScriptStrategy) Attempt(ctx context.Context, r runner.Runner, dir string) error {
	full := filepath.Join(dir, filepath.FromSlash(s.Path))
	info, err := os.Stat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotApplicable
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", s.Path, err)
	}
	if !info.Mode().IsRegular() {
		return ErrNotApplicable
	}
	if err := os.Chmod(full, info.Mode().Perm()|0o111); err != nil {
		return fmt.Errorf("chmod %s: %w", s.Path, err)
	}
	_, err = r.Run(ctx, runner.Command{Dir: dir, Name: full})
	return err
}

// CommandStrategy runs a tooling command through the shell.
type CommandStrategy struct {
	Script string
}

func (c CommandStrategy) Name() string { return "command:" + c.Script }

// Attempt implements Strategy.
func (c CommandStrategy) Attempt(ctx context.Context, r runner.Runner, dir string) error {
	_, err := r.Run(ctx, runner.Shell(dir, c.Script))
	return err
}

// DefaultScripts are tried first, in order.
var DefaultScripts = []string{
	"build-docs.sh",
	"scripts/build-docs.sh",
	"docs/build.sh",
	"build.sh",
}

// DefaultCommands are tried after the scripts, in order.
var DefaultCommands = []string{
	"npm ci && npm run build:docs",
	"npm run docs:build",
	"npm run build",
	"make docs",
	"mkdocs build",
	"hugo --minify",
}

// Strategies builds the ordered candidate list: scripts first, then commands.
// An empty list keeps the corresponding defaults.
func Strategies(scripts, commands []string) []Strategy {
	if len(scripts) == 0 {
		scripts = DefaultScripts
	}
	if len(commands) == 0 {
		commands = DefaultCommands
	}
	out := make([]Strategy, 0, len(scripts)+len(commands))
	for _, s := range scripts {
		out = append(out, ScriptStrategy{Path: s})
	}
	for _, c := range commands {
		out = append(out, CommandStrategy{Script: c})
	}
	return out
}
