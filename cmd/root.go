// Package cmd implements the mb CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/mb/internal/cli"
	"github.com/theirongolddev/mb/internal/config"
	"github.com/theirongolddev/mb/internal/ledger"
	"github.com/theirongolddev/mb/internal/logging"
	"github.com/theirongolddev/mb/internal/money"
	"github.com/theirongolddev/mb/internal/pipeline"
	"github.com/theirongolddev/mb/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagDir     string
	flagNoCache bool
	flagQuiet   bool
	flagVerbose bool
)

// Set up by the root command before any subcommand runs.
var (
	cfg config.Config
	log = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "mb",
	Short: "Money and budgets",
	Long: "mb keeps a ledger of plain TOML transaction files and distributes\n" +
		"unallocated money into budgets, month by month.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runBudgets,
}

// Execute is the main entry point called from main.go.
func Execute() {
	err := rootCmd.Execute()
	_ = log.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDir, "dir", "d", "", "Money directory (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Skip SQLite cache, reparse everything")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")
}

func setup(_ *cobra.Command, _ []string) error {
	logger, err := logging.New(logging.Options{Verbose: flagVerbose, Quiet: flagQuiet})
	if err != nil {
		return err
	}
	log = logger

	cfg, err = config.Load()
	if err != nil {
		return err
	}
	log.Debug("config loaded", zap.String("path", config.Path()), zap.Bool("exists", config.Exists()))
	return nil
}

func moneyDir() string {
	if flagDir != "" {
		return flagDir
	}
	return cfg.MoneyDir()
}

func symbol() string {
	return money.Symbol(cfg.Money.Currency)
}

// loadJournal is the shared data loading path used by all commands.
// Uses the SQLite cache when available for fast subsequent runs. With
// strict set, any file that failed to parse is an error; otherwise it is
// reported and skipped.
func loadJournal(strict bool) (*pipeline.Journal, error) {
	dir := moneyDir()
	log.Debug("loading transactions", zap.String("dir", dir))

	progressFn := func(current, total int) {
		if flagQuiet {
			return
		}
		if current%100 == 0 || current == total {
			fmt.Fprintf(os.Stderr, "\r  Parsing [%d/%d]", current, total)
		}
	}

	result, err := load(dir, progressFn)
	if err != nil {
		return nil, err
	}

	for _, e := range result.Errors {
		log.Warn("skipping file", zap.Error(e))
	}
	if strict {
		if err := result.Err(); err != nil {
			return nil, fmt.Errorf("%d transaction files failed to parse: %w", result.FileErrors, err)
		}
	}

	return pipeline.NewJournal(dir, result.Records), nil
}

func load(dir string, progressFn pipeline.ProgressFunc) (*pipeline.LoadResult, error) {
	if !flagNoCache && !cfg.Money.NoCache {
		cache, err := store.Open(config.CachePath())
		if err != nil {
			log.Info("cache unavailable, doing full parse", zap.Error(err))
		} else {
			defer func() { _ = cache.Close() }()

			cr, err := pipeline.LoadWithCache(dir, cache, progressFn)
			if err != nil {
				log.Warn("cache error, falling back to full parse", zap.Error(err))
			} else {
				if !flagQuiet && cr.Reparsed > 0 {
					fmt.Fprintf(os.Stderr, "\r  %s cached + %d reparsed    \n",
						cli.FormatNumber(int64(cr.CacheHits)), cr.Reparsed)
				}
				log.Debug("loaded through cache",
					zap.Int("hits", cr.CacheHits),
					zap.Int("reparsed", cr.Reparsed),
					zap.Int("removed", cr.Removed))
				return &cr.LoadResult, nil
			}
		}
	}

	result, err := pipeline.Load(dir, progressFn)
	if err != nil {
		return nil, err
	}
	if !flagQuiet && result.TotalFiles > 0 {
		fmt.Fprintf(os.Stderr, "\r  Parsed %s transactions    \n", cli.FormatNumber(int64(result.ParsedFiles)))
	}
	return result, nil
}

// warnUnbalanced prints transactions whose budgets don't add up.
func warnUnbalanced(j *pipeline.Journal) {
	for _, tx := range j.Unbalanced() {
		fmt.Println(cli.RenderWarning(fmt.Sprintf("%s %q: budgets sum to %s, amount is %s (%s)",
			tx.Date.Format(ledger.DateLayout), tx.Description,
			tx.Budgets.Sum().Format(symbol()), tx.Amount.Format(symbol()), j.Path(tx))))
	}
}
