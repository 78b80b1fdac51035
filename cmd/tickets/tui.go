package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/baiirun/tickets/internal/tui"
)

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse and edit tickets interactively",
		Long: `Open the interactive ticket browser. Set TICKETS_LOG_FILE to keep log
output from drawing over the screen.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := tea.NewProgram(tui.New(a.tracker, a.cfg.PageSize), tea.WithAltScreen())
			_, err := p.Run()
			return err
		},
	}
}
