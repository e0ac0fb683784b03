package git

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/go-git/go-git/v5"
	ggitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"

	"git.home.luguber.info/inful/prpreview/internal/foundation/errors"
	"git.home.luguber.info/inful/prpreview/internal/logfields"
)

// SourceSpec identifies the pull request head to check out.
type SourceSpec struct {
	URL string
	SHA string
	// PRNumber enables fetching refs/pull/<n>/head when SHA is not reachable
	// from the cloned branches (forks). Zero disables the fallback.
	PRNumber int
}

// CloneSource clones spec.URL into dir and checks out spec.SHA (detached).
func (c *Client) CloneSource(ctx context.Context, spec SourceSpec, dir string) error {
	if spec.SHA == "" {
		return errors.GitError("missing commit to check out").
			WithContext("url", spec.URL).
			Build()
	}
	slog.Debug("Cloning source repository", logfields.URL(spec.URL), logfields.Path(dir))

	var repo *git.Repository
	err := c.clone(ctx, "clone", spec.URL, dir, func() error {
		r, err := plainClone(ctx, dir, &git.CloneOptions{URL: spec.URL, Auth: c.authFor(spec.URL)})
		if err != nil {
			return err
		}
		repo = r
		return nil
	})
	if err != nil {
		return ClassifyGitError(err, "clone", spec.URL)
	}

	hash, err := c.resolveCommit(ctx, repo, spec)
	if err != nil {
		return err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return ClassifyGitError(err, "checkout", spec.URL)
	}
	if err := wt.Checkout(&git.CheckoutOptions{Hash: hash, Force: true}); err != nil {
		return ClassifyGitError(err, "checkout", spec.URL)
	}
	slog.Info("Source repository checked out",
		logfields.URL(spec.URL),
		logfields.SHA(hash.String()),
		logfields.Path(dir))
	return nil
}

func (c *Client) resolveCommit(ctx context.Context, repo *git.Repository, spec SourceSpec) (plumbing.Hash, error) {
	h, err := repo.ResolveRevision(plumbing.Revision(spec.SHA))
	if err == nil {
		return *h, nil
	}
	if spec.PRNumber <= 0 {
		return plumbing.ZeroHash, commitNotFound(spec, err)
	}

	refspec := ggitcfg.RefSpec(fmt.Sprintf("+refs/pull/%d/head:refs/remotes/origin/pr/%d", spec.PRNumber, spec.PRNumber))
	slog.Debug("Commit not on cloned branches, fetching pull request head",
		logfields.SHA(spec.SHA),
		logfields.PR(spec.PRNumber))
	ferr := repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: "origin",
		RefSpecs:   []ggitcfg.RefSpec{refspec},
		Auth:       c.authFor(spec.URL),
	})
	if ferr != nil && !stderrors.Is(ferr, git.NoErrAlreadyUpToDate) {
		return plumbing.ZeroHash, ClassifyGitError(ferr, "fetch", spec.URL)
	}
	h, err = repo.ResolveRevision(plumbing.Revision(spec.SHA))
	if err != nil {
		return plumbing.ZeroHash, commitNotFound(spec, err)
	}
	return *h, nil
}

func commitNotFound(spec SourceSpec, err error) error {
	return errors.GitError("commit not found in source repository").
		WithCause(err).
		WithContext("url", spec.URL).
		WithContext("sha", spec.SHA).
		UserAction().
		Build()
}
