package event

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/prpreview/internal/foundation/errors"
)

const openedPayload = `{
	"action": "opened",
	"number": 42,
	"repository": {"name": "docs-site", "full_name": "acme/docs-site", "owner": {"login": "acme"}},
	"pull_request": {"number": 42, "head": {"sha": "abc1234def5678"}}
}`

func TestParseOpened(t *testing.T) {
	ev, err := Parse([]byte(openedPayload))
	require.NoError(t, err)
	require.Equal(t, ActionOpened, ev.Action)
	require.Equal(t, "docs-site", ev.Repository.Name)
	require.Equal(t, "acme/docs-site", ev.Repository.FullName)
	require.Equal(t, "acme", ev.Repository.Owner)
	require.Equal(t, 42, ev.PullRequest.Number)
	require.Equal(t, "abc1234def5678", ev.PullRequest.HeadSHA)
	require.Equal(t, "abc1234", ev.ShortSHA())
}

func TestParseMissingFields(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		missing string
	}{
		{"no action", `{"repository": {"name": "r"}, "pull_request": {"number": 1}}`, "action"},
		{"no repository", `{"action": "opened", "pull_request": {"number": 1}}`, "repository"},
		{"no pull request", `{"action": "opened", "repository": {"name": "r"}}`, "pull_request"},
		{"nothing", `{}`, "action,repository,pull_request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.payload))
			require.Error(t, err)
			ce, ok := errors.AsClassified(err)
			require.True(t, ok)
			require.Equal(t, errors.CategoryEvent, ce.Category())
			missing, _ := ce.Context().GetString("missing")
			require.Equal(t, tt.missing, missing)
		})
	}
}

func TestParseRejectsInvalidPayloads(t *testing.T) {
	for name, payload := range map[string]string{
		"not json":         `action=opened`,
		"zero number":      `{"action": "opened", "repository": {"name": "r"}, "pull_request": {}}`,
		"nested repo name": `{"action": "opened", "repository": {"name": "../etc"}, "pull_request": {"number": 1}}`,
		"dot repo name":    `{"action": "opened", "repository": {"name": ".."}, "pull_request": {"number": 1}}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(payload))
			require.True(t, errors.HasCategory(err, errors.CategoryEvent), "got %v", err)
		})
	}
}

func TestParseFallsBackToTopLevelNumberAndFullName(t *testing.T) {
	ev, err := Parse([]byte(`{"action": "closed", "number": 9, "repository": {"name": "docs-site", "full_name": "acme/docs-site"}, "pull_request": {"merged": true}}`))
	require.NoError(t, err)
	require.Equal(t, 9, ev.PullRequest.Number)
	require.Equal(t, "acme", ev.Repository.Owner)
	require.True(t, ev.PullRequest.Merged)
	require.Equal(t, ActionClosed, ev.Action)
}

func TestParseAction(t *testing.T) {
	cases := map[string]Action{
		"opened":      ActionOpened,
		"reopened":    ActionOpened,
		"synchronize": ActionSynchronize,
		"closed":      ActionClosed,
		"merged":      ActionMerged,
		"labeled":     ActionOther,
		"":            ActionOther,
	}
	for raw, want := range cases {
		require.Equal(t, want, ParseAction(raw), raw)
	}
}

func TestSourcePrecedence(t *testing.T) {
	file := filepath.Join(t.TempDir(), "event.json")
	require.NoError(t, os.WriteFile(file, []byte(openedPayload), 0o600))
	env := map[string]string{"PREVIEW_EVENT": `{"action": "closed"}`}
	getenv := func(k string) string { return env[k] }

	data, err := Source{Arg: `{"from": "arg"}`, File: file, EnvVar: "PREVIEW_EVENT", Getenv: getenv}.Read()
	require.NoError(t, err)
	require.JSONEq(t, `{"from": "arg"}`, string(data))

	ev, err := Source{File: file, EnvVar: "PREVIEW_EVENT", Getenv: getenv}.Load()
	require.NoError(t, err)
	require.Equal(t, ActionOpened, ev.Action)

	data, err = Source{EnvVar: "PREVIEW_EVENT", Getenv: getenv}.Read()
	require.NoError(t, err)
	require.JSONEq(t, `{"action": "closed"}`, string(data))
}

func TestSourceEmpty(t *testing.T) {
	_, err := Source{EnvVar: "PREVIEW_EVENT", Getenv: func(string) string { return "" }}.Read()
	require.True(t, errors.HasCategory(err, errors.CategoryEvent))

	_, err = Source{File: filepath.Join(t.TempDir(), "missing.json")}.Read()
	require.True(t, errors.HasCategory(err, errors.CategoryEvent))
}
