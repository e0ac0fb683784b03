package publish

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/prpreview/internal/artifacts"
	"git.home.luguber.info/inful/prpreview/internal/foundation/errors"
	"git.home.luguber.info/inful/prpreview/internal/git"
	"git.home.luguber.info/inful/prpreview/internal/logfields"
	"git.home.luguber.info/inful/prpreview/internal/preview"
)

// Publisher mirrors an artifact set into a preview slot and pushes it.
type Publisher struct{}

// NewPublisher creates a Publisher.
func NewPublisher() *Publisher { return &Publisher{} }

// Publish replaces the slot's content with set, commits with a message naming the
// source repository, pull request and short SHA, and pushes.
func (p *Publisher) Publish(ctx context.Context, co Checkout, set *artifacts.Set, slot preview.Path, shortSHA string) (Result, error) {
	dest := slot.In(co.Root())
	fail := func(msg string, err error) (Result, error) {
		return Result{}, errors.PublishFailed(msg).
			WithCause(err).
			WithContext("preview_path", slot.String()).
			Build()
	}

	// Files dropped from the new build must not linger in the slot.
	if err := os.RemoveAll(dest); err != nil {
		return fail("failed to clear preview path", err)
	}
	if err := os.MkdirAll(dest, 0o750); err != nil {
		return fail("failed to create preview path", err)
	}
	for _, rel := range set.Files {
		if err := copyFile(filepath.Join(set.Root, filepath.FromSlash(rel)), filepath.Join(dest, filepath.FromSlash(rel))); err != nil {
			return fail("failed to copy artifact", err)
		}
	}
	slog.Info("Copied artifacts into preview path",
		logfields.PreviewPath(slot.String()),
		logfields.Count(len(set.Files)))

	commit, err := co.CommitPath(slot.String(), DeployMessage(slot.Repo, slot.Number, shortSHA))
	if stderrors.Is(err, git.ErrNothingToCommit) {
		slog.Info("Preview unchanged, nothing to push", logfields.PreviewPath(slot.String()))
		return Result{Files: len(set.Files)}, nil
	}
	if err != nil {
		return fail("failed to commit preview", err)
	}
	if err := co.Push(ctx); err != nil {
		return fail("failed to push preview", err)
	}
	slog.Info("Published preview",
		logfields.PreviewPath(slot.String()),
		logfields.SHA(commit))
	return Result{Changed: true, Commit: commit, Files: len(set.Files)}, nil
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return err
	}
	// #nosec G304 -- src comes from the artifact walk of our own scratch clone
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
