package artifacts

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/prpreview/internal/foundation/errors"
	"git.home.luguber.info/inful/prpreview/internal/logfields"
)

// MarkupExt is the extension that marks a candidate directory as built output.
const MarkupExt = ".html"

// DefaultCandidates is the built-in output directory preference order.
var DefaultCandidates = []string{
	"dist",
	"build",
	"_site",
	"site",
	"public",
	"out",
	"docs/_build/html",
	"docs/build",
	"docs",
}

// Set is the located output: files relative to Root in walk order.
type Set struct {
	// Candidate is the winning candidate as configured (slash separated, relative to the source tree).
	Candidate string
	Root      string
	Files     []string
	// Markup counts the HTML files in Files.
	Markup int
}

// Locator finds the first non-empty candidate directory.
type Locator struct {
	Candidates []string
	// IncludeAssets publishes every regular file under the winning root, not only HTML.
	IncludeAssets bool
}

// NewLocator returns a locator using candidates, or DefaultCandidates when empty.
func NewLocator(candidates []string, includeAssets bool) *Locator {
	if len(candidates) == 0 {
		candidates = DefaultCandidates
	}
	return &Locator{Candidates: candidates, IncludeAssets: includeAssets}
}

// Locate searches srcDir. It returns an ArtifactsNotFound error when no candidate yields HTML.
func (l *Locator) Locate(srcDir string) (*Set, error) {
	base, err := filepath.EvalSymlinks(srcDir)
	if err != nil {
		return nil, errors.FileSystemError("failed to resolve source directory").
			WithCause(err).
			WithContext("path", srcDir).
			Build()
	}
	for _, cand := range l.Candidates {
		rel := filepath.FromSlash(cand)
		if !filepath.IsLocal(rel) {
			slog.Warn("Ignoring output directory outside the source tree", logfields.Path(cand))
			continue
		}
		// WalkDir does not descend into a symlinked root, so walk its target.
		root, err := filepath.EvalSymlinks(filepath.Join(base, rel))
		if err != nil {
			continue
		}
		if inside, _ := filepath.Rel(base, root); !filepath.IsLocal(inside) && inside != "." {
			slog.Warn("Ignoring output directory linked outside the source tree", logfields.Path(cand))
			continue
		}
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			continue
		}

		set, err := l.collect(root)
		if err != nil {
			return nil, errors.FileSystemError("failed to scan output directory").
				WithCause(err).
				WithContext("path", cand).
				Build()
		}
		if set.Markup == 0 {
			slog.Debug("Output directory has no HTML files", logfields.Path(cand))
			continue
		}
		set.Candidate = cand
		slog.Info("Located build output",
			logfields.Path(cand),
			logfields.Count(len(set.Files)))
		return set, nil
	}
	return nil, errors.ArtifactsNotFound("no HTML files found in any output directory").
		WithContext("candidates", strings.Join(l.Candidates, ",")).
		Build()
}

func (l *Locator) collect(root string) (*Set, error) {
	set := &Set{Root: root}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		markup := isMarkup(d.Name())
		if !markup && !l.IncludeAssets {
			return nil
		}
		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		set.Files = append(set.Files, filepath.ToSlash(relPath))
		if markup {
			set.Markup++
		}
		return nil
	})
	return set, err
}

func isMarkup(name string) bool {
	return strings.EqualFold(filepath.Ext(name), MarkupExt)
}
