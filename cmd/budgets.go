package cmd

import (
	"fmt"

	"github.com/theirongolddev/mb/internal/cli"
	"github.com/theirongolddev/mb/internal/pipeline"

	"github.com/spf13/cobra"
)

var budgetsCmd = &cobra.Command{
	Use:   "budgets",
	Short: "Account balances and budget funding",
	RunE:  runBudgets,
}

func init() {
	rootCmd.AddCommand(budgetsCmd)
}

func runBudgets(_ *cobra.Command, _ []string) error {
	j, err := loadJournal(false)
	if err != nil {
		return err
	}
	txs := j.Transactions()
	if txs.Len() == 0 {
		fmt.Printf("\n  No transactions found in %s.\n", moneyDir())
		fmt.Println("  Run `mb import <file.csv>` to get started.")
		return nil
	}

	fmt.Println()
	fmt.Print(cli.RenderBudgets(pipeline.Summarize(txs, cfg.Allocation()), symbol()))
	return nil
}
