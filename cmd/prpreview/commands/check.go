package commands

import (
	"fmt"

	"git.home.luguber.info/inful/prpreview/internal/config"
	"git.home.luguber.info/inful/prpreview/internal/util/sets"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct{}

func (c *CheckCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	w := g.out()
	_, _ = fmt.Fprintf(w, "preview repository: %s (branch %s)\n", cfg.PreviewRepository.FullName(), cfg.PreviewRepository.Branch)
	monitored := sets.Sorted(cfg.Monitored())
	_, _ = fmt.Fprintf(w, "monitored repositories (%d):\n", len(monitored))
	for _, name := range monitored {
		_, _ = fmt.Fprintf(w, "  %s\n", name)
	}
	return nil
}
