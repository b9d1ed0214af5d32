package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cucharita-app/cucharita/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	model := tui.NewModel(ctx.Store, ctx.Catalog, ctx.Engine)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
