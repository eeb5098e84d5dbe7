package pipeline

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/theirongolddev/mb/internal/source"
	"github.com/theirongolddev/mb/internal/store"
)

// LoadResult holds the output of the full data loading pipeline.
type LoadResult struct {
	Records     []store.Record
	TotalFiles  int
	ParsedFiles int
	FileErrors  int
	Errors      []error
}

// Err returns the first file error, if any.
func (r *LoadResult) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	if len(r.Errors) == 1 {
		return r.Errors[0]
	}
	return fmt.Errorf("%w (and %d more)", r.Errors[0], len(r.Errors)-1)
}

// ProgressFunc is called during loading to report progress.
// current is the number of files processed so far, total is the total count.
type ProgressFunc func(current, total int)

// Load discovers and parses all transaction files below moneyDir.
// It uses a bounded worker pool for parallel parsing.
func Load(moneyDir string, progressFn ProgressFunc) (*LoadResult, error) {
	files, err := source.ScanDir(moneyDir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", moneyDir, err)
	}

	result := &LoadResult{TotalFiles: len(files)}
	if len(files) == 0 {
		return result, nil
	}

	results := parseAll(files, func(n int) {
		if progressFn != nil {
			progressFn(n, len(files))
		}
	})

	for _, pr := range results {
		result.collect(pr)
	}
	return result, nil
}

func (r *LoadResult) collect(pr source.ParseResult) bool {
	if pr.Err != nil {
		r.FileErrors++
		r.Errors = append(r.Errors, pr.Err)
		return false
	}
	r.ParsedFiles++
	r.Records = append(r.Records, store.Record{Path: pr.File.Path, Transaction: pr.Transaction})
	return true
}

// parseAll parses files with a bounded worker pool. Results keep the
// order of files.
func parseAll(files []source.DiscoveredFile, progress func(processed int)) []source.ParseResult {
	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	results := make([]source.ParseResult, len(files))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range files {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = source.ParseFile(files[idx])
				n := processed.Add(1)
				if progress != nil {
					progress(int(n))
				}
			}
		}()
	}

	wg.Wait()
	return results
}
