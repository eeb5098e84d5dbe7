package cmd

import (
	"fmt"

	"github.com/theirongolddev/mb/internal/budget"
	"github.com/theirongolddev/mb/internal/cli"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var flagDryRun bool

var allocateCmd = &cobra.Command{
	Use:   "allocate",
	Short: "Move unallocated money into budget targets",
	Long: "Distributes each transaction's unallocated money, oldest first, to the\n" +
		"target with the fewest funded months. Changed transaction files are\n" +
		"rewritten unless --dry-run is given.",
	RunE: runAllocate,
}

func init() {
	allocateCmd.Flags().BoolVarP(&flagDryRun, "dry-run", "n", false, "Show transfers without writing files")
	rootCmd.AddCommand(allocateCmd)
}

func runAllocate(_ *cobra.Command, _ []string) error {
	alloc := cfg.Allocation()
	if len(alloc.Targets) == 0 {
		fmt.Println("\n  No budget targets configured.")
		fmt.Println("  Run `mb setup` to add some.")
		return nil
	}
	if err := alloc.Validate(); err != nil {
		return fmt.Errorf("budget configuration: %w", err)
	}

	j, err := loadJournal(true)
	if err != nil {
		return err
	}

	transfers, err := budget.Allocate(j.Transactions(), alloc)
	if err != nil {
		return err
	}
	log.Debug("allocation done", zap.Int("transfers", len(transfers)))

	fmt.Println()
	fmt.Print(cli.RenderTransfers(transfers, symbol()))
	if len(transfers) == 0 {
		return nil
	}

	if flagDryRun {
		fmt.Println("  " + cli.RenderMuted("Dry run, nothing written."))
		return nil
	}
	n, err := j.Save()
	if err != nil {
		return fmt.Errorf("saving transactions: %w", err)
	}
	fmt.Printf("  Updated %d transaction files.\n", n)
	return nil
}
