// Package preview derives the deterministic slot a pull request occupies in the preview repository.
package preview

import (
	"fmt"
	"path"
	"path/filepath"
	"strconv"
	"strings"
)

// Path is the {repoName}/{prNumber} slot for one pull request's preview artifacts.
// Publisher and Remover derive it identically so a close always targets what an open created.
type Path struct {
	Repo   string
	Number int
}

// NewPath builds the slot for repo and pull request number.
func NewPath(repo string, number int) (Path, error) {
	if repo == "" || repo == "." || repo == ".." || strings.ContainsAny(repo, `/\`) {
		return Path{}, fmt.Errorf("invalid repository name %q", repo)
	}
	if number <= 0 {
		return Path{}, fmt.Errorf("invalid pull request number %d", number)
	}
	return Path{Repo: repo, Number: number}, nil
}

// String returns the slash-separated slot, e.g. "docs-site/42".
func (p Path) String() string {
	return path.Join(p.Repo, strconv.Itoa(p.Number))
}

// In returns the slot's directory inside a checkout rooted at root.
func (p Path) In(root string) string {
	return filepath.Join(root, p.Repo, strconv.Itoa(p.Number))
}
