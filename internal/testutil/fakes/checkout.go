// Package fakes provides recording stand-ins for the preview checkout.
package fakes

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/prpreview/internal/git"
)

// Checkout is an in-directory stand-in for a preview repository checkout.
// Commits and pushes are recorded instead of performed.
type Checkout struct {
	Dir string
	// Unchanged makes CommitPath report git.ErrNothingToCommit.
	Unchanged bool
	CommitErr error
	PushErr   error

	Commits []Commit
	Pushes  int
}

// Commit records one CommitPath call.
type Commit struct {
	Path    string
	Message string
}

func (f *Checkout) Root() string { return f.Dir }

func (f *Checkout) Exists(rel string) (bool, error) {
	_, err := os.Stat(filepath.Join(f.Dir, filepath.FromSlash(rel)))
	if os.IsNotExist(err) {
		return false, nil
	}
	return err == nil, err
}

func (f *Checkout) CommitPath(rel, msg string) (string, error) {
	if f.CommitErr != nil {
		return "", f.CommitErr
	}
	if f.Unchanged {
		return "", git.ErrNothingToCommit
	}
	f.Commits = append(f.Commits, Commit{Path: rel, Message: msg})
	return fmt.Sprintf("fake%036d", len(f.Commits)), nil
}

func (f *Checkout) Push(context.Context) error {
	if f.PushErr != nil {
		return f.PushErr
	}
	f.Pushes++
	return nil
}
