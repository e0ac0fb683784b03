package commands

import (
	"fmt"

	"git.home.luguber.info/inful/prpreview/internal/foundation/errors"
	"git.home.luguber.info/inful/prpreview/internal/preview"
)

// PathCmd implements the 'path' command.
type PathCmd struct {
	Repo   string `arg:"" help:"Source repository name"`
	Number int    `arg:"" help:"Pull request number"`
}

func (p *PathCmd) Run(g *Global, _ *CLI) error {
	slot, err := preview.NewPath(p.Repo, p.Number)
	if err != nil {
		return errors.NewError(errors.CategoryValidation, "invalid preview path").WithCause(err).Build()
	}
	_, _ = fmt.Fprintln(g.out(), slot.String())
	return nil
}
