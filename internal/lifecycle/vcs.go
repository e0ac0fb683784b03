package lifecycle

import (
	"context"

	"git.home.luguber.info/inful/prpreview/internal/git"
	"git.home.luguber.info/inful/prpreview/internal/publish"
)

// VCS is the version-control collaborator of the flows.
type VCS interface {
	CloneSource(ctx context.Context, spec git.SourceSpec, dir string) error
	OpenPreview(ctx context.Context, spec git.PreviewSpec, dir string) (publish.Checkout, error)
}

// GitVCS adapts a git.Client to VCS.
type GitVCS struct {
	Client *git.Client
}

func (g GitVCS) CloneSource(ctx context.Context, spec git.SourceSpec, dir string) error {
	return g.Client.CloneSource(ctx, spec, dir)
}

func (g GitVCS) OpenPreview(ctx context.Context, spec git.PreviewSpec, dir string) (publish.Checkout, error) {
	co, err := g.Client.OpenPreview(ctx, spec, dir)
	if err != nil {
		return nil, err
	}
	return co, nil
}
