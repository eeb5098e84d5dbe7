package tui

import (
	"time"

	"github.com/theirongolddev/mb/internal/pipeline"
	"github.com/theirongolddev/mb/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

// loadDataCmd loads the money directory in the background, streaming
// progress messages on sub before the final DataLoadedMsg.
func loadDataCmd(opts Options, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			start := time.Now()

			// Non-blocking send so workers aren't stalled; the next update
			// catches up.
			progressFn := func(current, total int) {
				select {
				case sub <- ProgressMsg{Current: current, Total: total}:
				default:
				}
			}

			result, err := load(opts, progressFn)
			if err != nil {
				sub <- DataLoadedMsg{Errors: []error{err}, LoadTime: time.Since(start)}
				return
			}
			sub <- DataLoadedMsg{
				Transactions: pipeline.NewJournal(opts.MoneyDir, result.Records).Transactions(),
				Errors:       result.Errors,
				LoadTime:     time.Since(start),
			}
		}()

		// Block until the first message (either ProgressMsg or DataLoadedMsg)
		return <-sub
	}
}

func load(opts Options, progressFn pipeline.ProgressFunc) (*pipeline.LoadResult, error) {
	if opts.CachePath != "" {
		if cache, err := store.Open(opts.CachePath); err == nil {
			cr, loadErr := pipeline.LoadWithCache(opts.MoneyDir, cache, progressFn)
			_ = cache.Close()
			if loadErr == nil {
				return &cr.LoadResult, nil
			}
		}
	}
	return pipeline.Load(opts.MoneyDir, progressFn)
}

// waitForLoadMsg blocks until the next message arrives from the loader goroutine.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}
