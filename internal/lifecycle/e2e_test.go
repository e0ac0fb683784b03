package lifecycle

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/prpreview/internal/git"
	helpers "git.home.luguber.info/inful/prpreview/internal/testutil/testutils"
)

// End-to-end through real repositories: open, re-sync, close, close again.
func TestPreviewLifecycleWithGit(t *testing.T) {
	srcURL, head := helpers.NewRemote(t, map[string]string{"README.md": "# docs-site\n"})
	previewURL, _ := helpers.NewRemote(t, map[string]string{"README.md": "previews\n"})

	cfg := newConfig("docs-site")
	cfg.SourceURLTemplate = srcURL
	cfg.PreviewRepository.URL = previewURL

	vcs := GitVCS{Client: git.NewClient("").WithIdentity(cfg.Committer.Name, cfg.Committer.Email)}
	fr := buildingRunner(t, map[string]string{"dist/index.html": "<h1>docs-site #42</h1>"})
	work := t.TempDir()
	o := New(cfg, vcs, fr).WithWorkDir(work)
	ctx := context.Background()
	sha := head.String()

	rep, err := o.Handle(ctx, newEvent(t, "opened", "docs-site", 42, sha))
	require.NoError(t, err)
	require.Equal(t, OutcomePublished, rep.Outcome)
	require.Equal(t, 2, helpers.CommitCount(t, previewURL))
	require.Equal(t, "Deploy preview for docs-site PR #42 ("+sha[:7]+")", helpers.HeadMessage(t, previewURL))
	_, clone := helpers.CloneRemote(t, previewURL)
	helpers.NewFileAssertions(t, clone).
		AssertFileContains("docs-site/42/index.html", "docs-site #42").
		AssertFileExists("README.md")

	// Same output again: no new commit.
	rep, err = o.Handle(ctx, newEvent(t, "synchronize", "docs-site", 42, sha))
	require.NoError(t, err)
	require.Equal(t, OutcomeUnchanged, rep.Outcome)
	require.Equal(t, 2, helpers.CommitCount(t, previewURL))

	rep, err = o.Handle(ctx, newEvent(t, "closed", "docs-site", 42, sha))
	require.NoError(t, err)
	require.Equal(t, OutcomeRemoved, rep.Outcome)
	require.Equal(t, 3, helpers.CommitCount(t, previewURL))
	require.Equal(t, "Remove preview for docs-site PR #42", helpers.HeadMessage(t, previewURL))
	_, clone = helpers.CloneRemote(t, previewURL)
	helpers.NewFileAssertions(t, clone).
		AssertNotExists("docs-site/42").
		AssertFileExists("README.md")

	rep, err = o.Handle(ctx, newEvent(t, "closed", "docs-site", 42, sha))
	require.NoError(t, err)
	require.Equal(t, OutcomeNothingToRemove, rep.Outcome)
	require.Equal(t, 3, helpers.CommitCount(t, previewURL))

	requireEmptyDir(t, work)
}

func TestUnmonitoredRepositoryWithGitMakesNoCalls(t *testing.T) {
	cfg := newConfig("docs-site")
	missing := filepath.Join(t.TempDir(), "does-not-exist.git")
	cfg.SourceURLTemplate = missing
	cfg.PreviewRepository.URL = missing

	fr := &helpers.FakeRunner{}
	work := t.TempDir()
	o := New(cfg, GitVCS{Client: git.NewClient("")}, fr).WithWorkDir(work)

	rep, err := o.Handle(context.Background(), newEvent(t, "opened", "random-repo", 1, headSHA))
	require.NoError(t, err)
	require.Equal(t, OutcomeSkippedUnmonitored, rep.Outcome)
	require.Empty(t, fr.Calls)
	requireEmptyDir(t, work)
	require.NoDirExists(t, missing)
}
