package artifacts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/prpreview/internal/foundation/errors"
	helpers "git.home.luguber.info/inful/prpreview/internal/testutil/testutils"
)

func TestLocateFirstNonEmptyCandidateWins(t *testing.T) {
	src := t.TempDir()
	helpers.WriteFiles(t, src, map[string]string{
		// A exists but holds no HTML.
		"a/readme.txt": "nothing",
		// B has 3 files.
		"b/index.html":        "1",
		"b/guide/intro.html":  "2",
		"b/guide/z/deep.html": "3",
		// C has more, but must never be consulted.
		"c/1.html": "", "c/2.html": "", "c/3.html": "", "c/4.html": "", "c/5.html": "",
	})

	set, err := NewLocator([]string{"a", "b", "c"}, false).Locate(src)
	require.NoError(t, err)
	require.Equal(t, "b", set.Candidate)
	require.Len(t, set.Files, 3)
	require.Equal(t, 3, set.Markup)
	require.ElementsMatch(t, []string{"index.html", "guide/intro.html", "guide/z/deep.html"}, set.Files)
}

func TestLocateMissingCandidatesSkipped(t *testing.T) {
	src := t.TempDir()
	helpers.WriteFiles(t, src, map[string]string{"public/index.html": "x"})

	set, err := NewLocator(nil, false).Locate(src)
	require.NoError(t, err)
	require.Equal(t, "public", set.Candidate)
	require.Equal(t, []string{"index.html"}, set.Files)
}

func TestLocateDefaultOrder(t *testing.T) {
	src := t.TempDir()
	helpers.WriteFiles(t, src, map[string]string{
		"docs/index.html": "docs",
		"dist/index.html": "dist",
	})

	set, err := NewLocator(nil, false).Locate(src)
	require.NoError(t, err)
	require.Equal(t, "dist", set.Candidate)
}

func TestLocateNestedCandidate(t *testing.T) {
	src := t.TempDir()
	helpers.WriteFiles(t, src, map[string]string{"docs/_build/html/index.html": "sphinx"})

	set, err := NewLocator(nil, false).Locate(src)
	require.NoError(t, err)
	require.Equal(t, "docs/_build/html", set.Candidate)
	require.Equal(t, []string{"index.html"}, set.Files)
}

func TestLocateNoArtifacts(t *testing.T) {
	src := t.TempDir()
	helpers.WriteFiles(t, src, map[string]string{"dist/app.js": "x", "README.md": "y"})

	_, err := NewLocator(nil, false).Locate(src)
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryArtifacts))
}

func TestLocateIncludeAssets(t *testing.T) {
	src := t.TempDir()
	helpers.WriteFiles(t, src, map[string]string{
		"dist/index.html":     "x",
		"dist/css/site.css":   "body{}",
		"dist/img/logo.svg":   "<svg/>",
		"assets-only/app.css": "ignored",
	})

	set, err := NewLocator([]string{"assets-only", "dist"}, true).Locate(src)
	require.NoError(t, err)
	require.Equal(t, "dist", set.Candidate)
	require.Equal(t, 1, set.Markup)
	require.Equal(t, []string{"css/site.css", "img/logo.svg", "index.html"}, set.Files)
}

func TestLocateRejectsEscapingCandidate(t *testing.T) {
	parent := t.TempDir()
	helpers.WriteFiles(t, parent, map[string]string{"outside/index.html": "x"})
	src := filepath.Join(parent, "src")
	helpers.WriteFiles(t, src, map[string]string{"keep.txt": ""})

	_, err := NewLocator([]string{"../outside"}, false).Locate(src)
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryArtifacts))
}

func TestLocateFollowsSymlinkedCandidate(t *testing.T) {
	src := t.TempDir()
	helpers.WriteFiles(t, src, map[string]string{
		"_out/html/index.html":       "linked",
		"_out/html/guide/intro.html": "linked",
		"public/index.html":          "later candidate",
	})
	require.NoError(t, os.Symlink(filepath.Join("_out", "html"), filepath.Join(src, "dist")))

	set, err := NewLocator(nil, false).Locate(src)
	require.NoError(t, err)
	require.Equal(t, "dist", set.Candidate)
	require.ElementsMatch(t, []string{"index.html", "guide/intro.html"}, set.Files)
}

func TestLocateIgnoresSymlinkLeavingSourceTree(t *testing.T) {
	parent := t.TempDir()
	helpers.WriteFiles(t, parent, map[string]string{"outside/index.html": "host file"})
	src := filepath.Join(parent, "src")
	helpers.WriteFiles(t, src, map[string]string{"public/index.html": "x"})
	require.NoError(t, os.Symlink(filepath.Join(parent, "outside"), filepath.Join(src, "dist")))

	set, err := NewLocator(nil, false).Locate(src)
	require.NoError(t, err)
	require.Equal(t, "public", set.Candidate)
}
