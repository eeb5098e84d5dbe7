package source

import "github.com/theirongolddev/mb/internal/ledger"

// DiscoveredFile represents a transaction file found during directory scanning.
type DiscoveredFile struct {
	Path string
	Name string // base name, e.g. "2021-07-18_0.toml"
}

// ParseResult holds the output of parsing a single transaction file.
type ParseResult struct {
	File        DiscoveredFile
	Transaction *ledger.Transaction
	Err         error
}
