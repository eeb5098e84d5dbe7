package cmd

import (
	"fmt"

	"github.com/theirongolddev/mb/internal/config"
	"github.com/theirongolddev/mb/internal/tui"
	"github.com/theirongolddev/mb/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:     "browse",
	Aliases: []string{"tui"},
	Short:   "Interactive transaction browser with allocation preview",
	RunE:    runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(_ *cobra.Command, _ []string) error {
	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	lipgloss.SetColorProfile(termenv.TrueColor)

	opts := tui.Options{
		MoneyDir:   moneyDir(),
		Allocation: cfg.Allocation(),
		Symbol:     symbol(),
	}
	if !flagNoCache && !cfg.Money.NoCache {
		opts.CachePath = config.CachePath()
	}

	p := tea.NewProgram(tui.NewApp(opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
