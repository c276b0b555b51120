package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/healthydesk/internal/cli"
	"github.com/julianstephens/healthydesk/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	// Back up on startup, after a successful load
	ctx.PerformAutomaticBackup()

	var opts []tui.Option
	if ctx.Config != nil {
		opts = append(opts, tui.WithRecentLimit(ctx.Config.Stats.RecentLimit))
	}
	opts = append(opts, tui.WithClock(ctx.Clock))

	p := tea.NewProgram(tui.NewModel(ctx.Entries, ctx.Stats, opts...), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui failed: %w", err)
	}
	return nil
}
