package cmd

import (
	"fmt"

	"github.com/theirongolddev/mb/internal/cli"
	"github.com/theirongolddev/mb/internal/importer"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagAccount      string
	flagImportDryRun bool
)

var importCmd = &cobra.Command{
	Use:   "import <file.csv>...",
	Short: "Import bank statement CSV exports",
	Long: "Reads online-banking CSV exports (ISO-8859-1, semicolon separated) and\n" +
		"writes one transaction file per new booking. Bookings already in the\n" +
		"ledger are skipped.",
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVarP(&flagAccount, "account", "a", "", "Account to book to (default from config)")
	importCmd.Flags().BoolVarP(&flagImportDryRun, "dry-run", "n", false, "Show what would be imported")
	rootCmd.AddCommand(importCmd)
}

func runImport(_ *cobra.Command, args []string) error {
	opts := importer.Options{
		Account:     cfg.Import.Account,
		Unallocated: cfg.Budgets.Unallocated,
	}
	if flagAccount != "" {
		opts.Account = flagAccount
	}

	j, err := loadJournal(true)
	if err != nil {
		return err
	}

	total := 0
	for _, path := range args {
		imported, err := importer.ImportFile(path, opts)
		if err != nil {
			return fmt.Errorf("importing %s: %w", path, err)
		}
		fresh, skipped := importer.Dedupe(j.Transactions(), imported)
		log.Info("read statement",
			zap.String("file", path),
			zap.Int("bookings", len(imported)),
			zap.Int("new", len(fresh)),
			zap.Int("skipped", skipped))
		j.Add(fresh...)
		total += len(fresh)
	}

	if total == 0 {
		fmt.Println("\n  Nothing new to import.")
		return nil
	}

	if flagImportDryRun {
		fmt.Println()
		fmt.Print(cli.RenderReport(j.Transactions(), symbol()))
		fmt.Printf("  %d new transactions, nothing written.\n", total)
		return nil
	}

	n, err := j.Save()
	if err != nil {
		return fmt.Errorf("saving transactions: %w", err)
	}
	fmt.Printf("\n  Imported %d transactions into %s (%d files written).\n", total, moneyDir(), n)
	return nil
}
