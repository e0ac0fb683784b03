package helpers

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	ggitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// MainBranch is the default branch of every repository created by these helpers.
const MainBranch = "main"

func initOptions(bare bool) *git.PlainInitOptions {
	return &git.PlainInitOptions{
		Bare:        bare,
		InitOptions: git.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName(MainBranch)},
	}
}

// SetupTestGitRepo initializes a temporary git repository for testing.
// Returns the repository, its worktree, and the absolute path to the temporary directory.
func SetupTestGitRepo(t *testing.T) (*git.Repository, *git.Worktree, string) {
	t.Helper()

	tempDir := t.TempDir()
	repo, err := git.PlainInitWithOptions(tempDir, initOptions(false))
	if err != nil {
		t.Fatalf("failed to initialize git repo: %v", err)
	}
	w, err := repo.Worktree()
	if err != nil {
		t.Fatalf("failed to get worktree: %v", err)
	}
	return repo, w, tempDir
}

// CommitFiles writes files into the worktree at dir, stages everything and commits.
func CommitFiles(t *testing.T, repo *git.Repository, dir string, files map[string]string, msg string) plumbing.Hash {
	t.Helper()
	WriteFiles(t, dir, files)
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		t.Fatalf("add: %v", err)
	}
	hash, err := wt.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{Name: "tester", Email: "t@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	return hash
}

// NewRemote creates a bare repository seeded with files on the main branch and
// returns its path, usable as a clone URL, together with the seed commit.
func NewRemote(t *testing.T, files map[string]string) (string, plumbing.Hash) {
	t.Helper()
	tmp := t.TempDir()
	barePath := filepath.Join(tmp, "remote.git")
	if _, err := git.PlainInitWithOptions(barePath, initOptions(true)); err != nil {
		t.Fatalf("init bare: %v", err)
	}

	seedPath := filepath.Join(tmp, "seed")
	seed, err := git.PlainInitWithOptions(seedPath, initOptions(false))
	if err != nil {
		t.Fatalf("init seed: %v", err)
	}
	if _, err := seed.CreateRemote(&ggitcfg.RemoteConfig{Name: "origin", URLs: []string{barePath}}); err != nil {
		t.Fatalf("create remote: %v", err)
	}
	if len(files) == 0 {
		files = map[string]string{"README.md": "# seed\n"}
	}
	hash := CommitFiles(t, seed, seedPath, files, "seed")
	if err := seed.Push(&git.PushOptions{RemoteName: "origin"}); err != nil {
		t.Fatalf("push seed: %v", err)
	}
	return barePath, hash
}

// CloneRemote clones url into a fresh temporary directory for inspection.
func CloneRemote(t *testing.T, url string) (*git.Repository, string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainClone(dir, false, &git.CloneOptions{URL: url})
	if err != nil {
		t.Fatalf("clone %s: %v", url, err)
	}
	return repo, dir
}

// CommitCount returns the number of commits reachable from HEAD of the repository at url.
func CommitCount(t *testing.T, url string) int {
	t.Helper()
	repo, _ := CloneRemote(t, url)
	head, err := repo.Head()
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	iter, err := repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	n := 0
	_ = iter.ForEach(func(*object.Commit) error { n++; return nil })
	return n
}

// HeadMessage returns the message of the latest commit of the repository at url.
func HeadMessage(t *testing.T, url string) string {
	t.Helper()
	repo, _ := CloneRemote(t, url)
	head, err := repo.Head()
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	c, err := repo.CommitObject(head.Hash())
	if err != nil {
		t.Fatalf("commit object: %v", err)
	}
	return c.Message
}
