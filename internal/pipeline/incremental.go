package pipeline

import (
	"fmt"
	"os"

	"github.com/theirongolddev/mb/internal/source"
	"github.com/theirongolddev/mb/internal/store"
)

// CachedLoadResult extends LoadResult with cache metadata.
type CachedLoadResult struct {
	LoadResult
	CacheHits int
	Reparsed  int
	Removed   int
}

// LoadWithCache discovers, diffs against cache, parses only changed files,
// and returns the combined result set. Files that disappeared from disk
// are dropped from the cache.
func LoadWithCache(moneyDir string, cache *store.Cache, progressFn ProgressFunc) (*CachedLoadResult, error) {
	files, err := source.ScanDir(moneyDir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", moneyDir, err)
	}

	tracked, err := cache.GetTrackedFiles()
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}

	result := &CachedLoadResult{
		LoadResult: LoadResult{TotalFiles: len(files)},
	}

	// Diff: partition into changed and unchanged
	var toReparse []source.DiscoveredFile
	stats := make(map[string]os.FileInfo, len(files))
	unchanged := make(map[string]struct{})

	for _, f := range files {
		info, err := os.Stat(f.Path)
		if err != nil {
			toReparse = append(toReparse, f)
			continue
		}
		stats[f.Path] = info

		cached, ok := tracked[f.Path]
		if ok && cached.MtimeNs == info.ModTime().UnixNano() && cached.SizeBytes == info.Size() {
			unchanged[f.Path] = struct{}{}
		} else {
			toReparse = append(toReparse, f)
		}
	}

	for path := range tracked {
		if _, ok := stats[path]; ok {
			continue
		}
		if err := cache.DeleteFile(path); err != nil {
			return nil, fmt.Errorf("pruning cache: %w", err)
		}
		result.Removed++
	}

	result.CacheHits = len(unchanged)
	result.Reparsed = len(toReparse)

	if len(unchanged) > 0 {
		cached, err := cache.LoadAllTransactions()
		if err != nil {
			return nil, fmt.Errorf("loading cached transactions: %w", err)
		}
		for _, r := range cached {
			if _, ok := unchanged[r.Path]; ok {
				result.Records = append(result.Records, r)
				result.ParsedFiles++
			}
		}
	}

	if len(toReparse) > 0 {
		results := parseAll(toReparse, func(n int) {
			if progressFn != nil {
				progressFn(n+result.CacheHits, result.TotalFiles)
			}
		})

		for _, pr := range results {
			if !result.collect(pr) {
				continue
			}
			if info, ok := stats[pr.File.Path]; ok {
				_ = cache.SaveTransaction(pr.File.Path, pr.Transaction, info.ModTime().UnixNano(), info.Size())
			}
		}
	}

	return result, nil
}
