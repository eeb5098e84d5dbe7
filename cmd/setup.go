package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/mb/internal/config"
	"github.com/theirongolddev/mb/internal/tui"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive configuration of budgets and appearance",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	updated, err := tui.RunSetup(cfg)
	if errors.Is(err, tui.ErrSetupCancelled) {
		fmt.Println("\n  Setup cancelled, nothing saved.")
		return nil
	}
	if err != nil {
		return err
	}

	if err := config.Save(updated); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `mb setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
