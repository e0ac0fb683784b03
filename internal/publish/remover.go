package publish

import (
	"context"
	stderrors "errors"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/prpreview/internal/foundation/errors"
	"git.home.luguber.info/inful/prpreview/internal/git"
	"git.home.luguber.info/inful/prpreview/internal/logfields"
	"git.home.luguber.info/inful/prpreview/internal/preview"
)

// Remover deletes a preview slot and pushes the removal.
type Remover struct{}

// NewRemover creates a Remover.
func NewRemover() *Remover { return &Remover{} }

// Remove deletes slot from the checkout. A slot that does not exist is a no-op.
func (r *Remover) Remove(ctx context.Context, co Checkout, slot preview.Path) (Result, error) {
	fail := func(msg string, err error) (Result, error) {
		return Result{}, errors.CleanupFailed(msg).
			WithCause(err).
			WithContext("preview_path", slot.String()).
			Build()
	}

	exists, err := co.Exists(slot.String())
	if err != nil {
		return fail("failed to inspect preview path", err)
	}
	if !exists {
		slog.Info("No preview to remove", logfields.PreviewPath(slot.String()))
		return Result{}, nil
	}

	if err := os.RemoveAll(slot.In(co.Root())); err != nil {
		return fail("failed to delete preview path", err)
	}
	commit, err := co.CommitPath(slot.String(), RemoveMessage(slot.Repo, slot.Number))
	if stderrors.Is(err, git.ErrNothingToCommit) {
		slog.Info("Preview path held no tracked files, nothing to push", logfields.PreviewPath(slot.String()))
		return Result{}, nil
	}
	if err != nil {
		return fail("failed to commit preview removal", err)
	}
	if err := co.Push(ctx); err != nil {
		return fail("failed to push preview removal", err)
	}
	slog.Info("Removed preview",
		logfields.PreviewPath(slot.String()),
		logfields.SHA(commit))
	return Result{Changed: true, Commit: commit}, nil
}
