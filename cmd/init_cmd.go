package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/mb/internal/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config and create the money directory",
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(_ *cobra.Command, _ []string) error {
	if config.Exists() {
		fmt.Printf("  Config already exists at %s\n", config.Path())
	} else {
		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Printf("  Wrote %s\n", config.Path())
	}

	for _, dir := range []string{moneyDir(), cfg.ContactsDir()} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		log.Debug("directory ready", zap.String("dir", dir))
	}
	fmt.Printf("  Transactions go to %s\n", moneyDir())
	fmt.Println("  Run `mb setup` to configure budget targets.")
	return nil
}
