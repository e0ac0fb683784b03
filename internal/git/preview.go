package git

import (
	"context"
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	ggitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"

	"git.home.luguber.info/inful/prpreview/internal/logfields"
)

// PreviewSpec addresses the publishing branch of the preview repository.
type PreviewSpec struct {
	URL    string
	Branch string
}

// PreviewCheckout is a working copy of the preview repository's publishing branch.
type PreviewCheckout struct {
	repo     *git.Repository
	dir      string
	url      string
	branch   string
	auth     transport.AuthMethod
	identity Identity
}

// OpenPreview clones the publishing branch of the preview repository into dir.
// An empty remote, or one without the branch yet, yields a fresh repository whose
// first push creates the branch.
func (c *Client) OpenPreview(ctx context.Context, spec PreviewSpec, dir string) (*PreviewCheckout, error) {
	branch := plumbing.NewBranchReferenceName(spec.Branch)
	auth := c.authFor(spec.URL)

	var repo *git.Repository
	err := c.clone(ctx, "clone", spec.URL, dir, func() error {
		r, err := plainClone(ctx, dir, &git.CloneOptions{
			URL:           spec.URL,
			Auth:          auth,
			ReferenceName: branch,
			SingleBranch:  true,
		})
		if err != nil {
			return err
		}
		repo = r
		return nil
	})
	switch {
	case err == nil:
	case isMissingBranch(err):
		slog.Info("Preview branch does not exist yet, starting a new one",
			logfields.URL(spec.URL),
			logfields.Name(spec.Branch))
		repo, err = initPreview(dir, spec.URL, branch)
		if err != nil {
			return nil, ClassifyGitError(err, "init", spec.URL)
		}
	default:
		return nil, ClassifyGitError(err, "clone", spec.URL)
	}

	return &PreviewCheckout{
		repo:     repo,
		dir:      dir,
		url:      spec.URL,
		branch:   spec.Branch,
		auth:     auth,
		identity: c.identity,
	}, nil
}

func isMissingBranch(err error) bool {
	return stderrors.Is(err, transport.ErrEmptyRemoteRepository) ||
		stderrors.Is(err, plumbing.ErrReferenceNotFound) ||
		strings.Contains(err.Error(), "couldn't find remote ref")
}

func initPreview(dir, url string, branch plumbing.ReferenceName) (*git.Repository, error) {
	if err := os.RemoveAll(dir); err != nil {
		return nil, err
	}
	repo, err := git.PlainInitWithOptions(dir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{DefaultBranch: branch},
	})
	if err != nil {
		return nil, err
	}
	if _, err := repo.CreateRemote(&ggitcfg.RemoteConfig{Name: "origin", URLs: []string{url}}); err != nil {
		return nil, err
	}
	return repo, nil
}

// Root returns the working copy directory.
func (p *PreviewCheckout) Root() string { return p.dir }

// Exists reports whether rel (slash separated) is present in the working copy.
func (p *PreviewCheckout) Exists(rel string) (bool, error) {
	_, err := os.Stat(filepath.Join(p.dir, filepath.FromSlash(rel)))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// CommitPath stages every addition, modification and deletion under rel and commits
// it. It returns ErrNothingToCommit when the worktree under rel matches HEAD.
func (p *PreviewCheckout) CommitPath(rel, msg string) (string, error) {
	wt, err := p.repo.Worktree()
	if err != nil {
		return "", ClassifyGitError(err, "status", p.url)
	}
	status, err := wt.Status()
	if err != nil {
		return "", ClassifyGitError(err, "status", p.url)
	}

	prefix := strings.TrimSuffix(filepath.ToSlash(rel), "/")
	staged := 0
	for name, st := range status {
		if name != prefix && !strings.HasPrefix(name, prefix+"/") {
			continue
		}
		if st.Worktree == git.Unmodified && st.Staging == git.Unmodified {
			continue
		}
		if st.Worktree == git.Deleted {
			_, err = wt.Remove(name)
		} else {
			_, err = wt.Add(name)
		}
		if err != nil {
			return "", ClassifyGitError(err, "add", p.url)
		}
		staged++
	}
	if staged == 0 {
		return "", ErrNothingToCommit
	}

	sig := &object.Signature{Name: p.identity.Name, Email: p.identity.Email, When: time.Now()}
	hash, err := wt.Commit(msg, &git.CommitOptions{Author: sig, Committer: sig})
	if err != nil {
		return "", ClassifyGitError(err, "commit", p.url)
	}
	slog.Debug("Committed preview changes",
		logfields.PreviewPath(prefix),
		logfields.Count(staged),
		logfields.SHA(hash.String()))
	return hash.String(), nil
}

// Push publishes the branch to origin. An up-to-date remote is success.
func (p *PreviewCheckout) Push(ctx context.Context) error {
	ref := plumbing.NewBranchReferenceName(p.branch)
	err := p.repo.PushContext(ctx, &git.PushOptions{
		RemoteName: "origin",
		RefSpecs:   []ggitcfg.RefSpec{ggitcfg.RefSpec(ref.String() + ":" + ref.String())},
		Auth:       p.auth,
	})
	if err != nil && !stderrors.Is(err, git.NoErrAlreadyUpToDate) {
		return ClassifyGitError(err, "push", p.url)
	}
	return nil
}
