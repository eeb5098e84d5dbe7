package cmd

import (
	"fmt"

	"github.com/theirongolddev/mb/internal/cli"
	"github.com/theirongolddev/mb/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [Money]")
	fmt.Printf("    Directory: %s\n", moneyDir())
	fmt.Printf("    Currency:  %s (%s)\n", cfg.Money.Currency, symbol())
	if cfg.Money.NoCache {
		fmt.Println("    Cache:     disabled")
	} else {
		fmt.Printf("    Cache:     %s\n", config.CachePath())
	}
	fmt.Println()

	fmt.Println("  [Budgets]")
	fmt.Printf("    Unallocated: %s\n", cfg.Budgets.Unallocated)
	if len(cfg.Budgets.Targets) == 0 {
		fmt.Println("    Targets:     none")
	} else {
		rows := make([][]string, len(cfg.Budgets.Targets))
		for i, t := range cfg.Budgets.Targets {
			rows[i] = []string{fmt.Sprintf("%d", i+1), t.Name, t.Monthly.Format(symbol())}
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Headers:  []string{"#", "Target", "Monthly"},
			Rows:     rows,
			LeftCols: 2,
		}))
	}
	if err := cfg.Allocation().Validate(); err != nil {
		fmt.Println(cli.RenderWarning(err.Error()))
	}
	fmt.Println()

	fmt.Println("  [Import]")
	fmt.Printf("    Account: %s\n", cfg.Import.Account)
	fmt.Println()

	fmt.Println("  [Contacts]")
	fmt.Printf("    Directory: %s\n", cfg.ContactsDir())
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `mb setup` to reconfigure.")
	return nil
}
