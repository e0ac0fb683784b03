package publish

import (
	"context"
	"fmt"
)

// Checkout is the preview repository working copy used by Publisher and Remover.
type Checkout interface {
	Root() string
	Exists(rel string) (bool, error)
	// CommitPath stages every change under rel and commits it, returning the commit id.
	// It returns git.ErrNothingToCommit when rel has no changes.
	CommitPath(rel, msg string) (string, error)
	Push(ctx context.Context) error
}

// Result describes what a publish or removal did to the preview repository.
type Result struct {
	// Changed is false when nothing was committed or pushed.
	Changed bool
	Commit  string
	Files   int
}

// DeployMessage is the commit message of a published preview.
func DeployMessage(repo string, pr int, shortSHA string) string {
	return fmt.Sprintf("Deploy preview for %s PR #%d (%s)", repo, pr, shortSHA)
}

// RemoveMessage is the commit message of a removed preview.
func RemoveMessage(repo string, pr int) string {
	return fmt.Sprintf("Remove preview for %s PR #%d", repo, pr)
}
