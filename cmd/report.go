package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/mb/internal/cli"
	"github.com/theirongolddev/mb/internal/pipeline"

	"github.com/spf13/cobra"
)

var flagDays int

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Transaction table with account and budget columns",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().IntVarP(&flagDays, "days", "n", 0, "Only the last n days (0 for all)")
	rootCmd.AddCommand(reportCmd)
}

func runReport(_ *cobra.Command, _ []string) error {
	j, err := loadJournal(false)
	if err != nil {
		return err
	}

	txs := j.Transactions()
	if flagDays > 0 {
		now := time.Now()
		txs = pipeline.FilterByTime(txs, now.AddDate(0, 0, -flagDays), now)
	}
	if txs.Len() == 0 {
		fmt.Println("\n  No transactions in the selected time range.")
		return nil
	}

	fmt.Println()
	fmt.Print(cli.RenderReport(txs, symbol()))
	warnUnbalanced(j)
	return nil
}
