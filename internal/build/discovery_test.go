package build

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/prpreview/internal/runner"
	helpers "git.home.luguber.info/inful/prpreview/internal/testutil/testutils"
)

func TestStrategiesDefaultOrder(t *testing.T) {
	names := make([]string, 0)
	for _, s := range Strategies(nil, nil) {
		names = append(names, s.Name())
	}
	require.Equal(t, []string{
		"script:build-docs.sh",
		"script:scripts/build-docs.sh",
		"script:docs/build.sh",
		"script:build.sh",
		"command:npm ci && npm run build:docs",
		"command:npm run docs:build",
		"command:npm run build",
		"command:make docs",
		"command:mkdocs build",
		"command:hugo --minify",
	}, names)
}

func TestStrategiesOverrides(t *testing.T) {
	got := Strategies([]string{"ci/docs.sh"}, []string{"task docs"})
	require.Len(t, got, 2)
	require.Equal(t, "script:ci/docs.sh", got[0].Name())
	require.Equal(t, "command:task docs", got[1].Name())
}

func TestDiscoveryMissingScriptsNeverRun(t *testing.T) {
	fr := &helpers.FakeRunner{Succeed: []string{"make docs"}}
	rep := NewDiscovery(fr, nil).Run(context.Background(), t.TempDir())

	require.True(t, rep.Built())
	require.Equal(t, "command:make docs", rep.Strategy)
	// No script existed, so only commands reached the runner, in order, up to the first success.
	require.Equal(t, []string{
		"sh -c npm ci && npm run build:docs",
		"sh -c npm run docs:build",
		"sh -c npm run build",
		"sh -c make docs",
	}, fr.Commands())

	statuses := map[AttemptStatus]int{}
	for _, a := range rep.Attempts {
		statuses[a.Status]++
	}
	require.Equal(t, 4, statuses[StatusSkipped])
	require.Equal(t, 3, statuses[StatusFailed])
	require.Equal(t, 1, statuses[StatusSucceeded])
}

func TestDiscoveryScriptMadeExecutable(t *testing.T) {
	dir := t.TempDir()
	helpers.WriteFiles(t, dir, map[string]string{"docs/build.sh": "#!/bin/sh\necho hi\n"})
	script := filepath.Join(dir, "docs", "build.sh")

	fr := &helpers.FakeRunner{Succeed: []string{script}}
	rep := NewDiscovery(fr, nil).Run(context.Background(), dir)

	require.Equal(t, "script:docs/build.sh", rep.Strategy)
	require.Equal(t, []string{script}, fr.Commands())
	require.Equal(t, dir, fr.Calls[0].Dir)

	info, err := os.Stat(script)
	require.NoError(t, err)
	require.NotZero(t, info.Mode().Perm()&0o100)
}

func TestDiscoveryAllFailIsNotAnError(t *testing.T) {
	fr := &helpers.FakeRunner{}
	rep := NewDiscovery(fr, Strategies([]string{"none.sh"}, []string{"false", "also-false"})).Run(context.Background(), t.TempDir())

	require.False(t, rep.Built())
	require.Len(t, rep.Attempts, 3)
	require.Equal(t, StatusSkipped, rep.Attempts[0].Status)
	require.Equal(t, StatusFailed, rep.Attempts[1].Status)
	require.Error(t, rep.Attempts[1].Err)
	require.Len(t, fr.Calls, 2)
}

func TestDiscoveryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fr := &helpers.FakeRunner{}
	rep := NewDiscovery(fr, nil).Run(ctx, t.TempDir())
	require.False(t, rep.Built())
	require.Empty(t, fr.Calls)
}

func TestDiscoveryWithExecRunner(t *testing.T) {
	dir := t.TempDir()
	helpers.WriteFiles(t, dir, map[string]string{
		"build.sh": "#!/bin/sh\nmkdir -p dist && echo '<h1>ok</h1>' > dist/index.html\n",
	})

	rep := NewDiscovery(&runner.ExecRunner{}, Strategies(nil, []string{"exit 3"})).Run(context.Background(), dir)
	require.Equal(t, "script:build.sh", rep.Strategy)
	require.FileExists(t, filepath.Join(dir, "dist", "index.html"))
}
