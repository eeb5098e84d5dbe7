// Package store provides a SQLite-backed cache for parsed transaction files.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/mb/internal/ledger"
	"github.com/theirongolddev/mb/internal/money"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Cache provides SQLite-backed transaction caching.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// FileInfo holds the tracked mtime and size for a file.
type FileInfo struct {
	MtimeNs   int64
	SizeBytes int64
}

// Record is a cached transaction together with the file it came from.
type Record struct {
	Path        string
	Transaction *ledger.Transaction
}

// GetTrackedFiles returns a map of file_path -> FileInfo for all tracked files.
func (c *Cache) GetTrackedFiles() (map[string]FileInfo, error) {
	rows, err := c.db.Query("SELECT file_path, mtime_ns, size_bytes FROM file_tracker")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]FileInfo)
	for rows.Next() {
		var path string
		var fi FileInfo
		if err := rows.Scan(&path, &fi.MtimeNs, &fi.SizeBytes); err != nil {
			return nil, err
		}
		result[path] = fi
	}
	return result, rows.Err()
}

// SaveTransaction stores a parsed transaction and its file tracking info.
func (c *Cache) SaveTransaction(path string, t *ledger.Transaction, mtimeNs, sizeBytes int64) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)

	_, err = tx.Exec(`INSERT OR REPLACE INTO transactions
		(file_path, date, description, amount_cents, parsed_at)
		VALUES (?, ?, ?, ?, ?)`,
		path, t.Date.Format(ledger.DateLayout), t.Description, t.Amount.Cents(), now,
	)
	if err != nil {
		return err
	}

	// Replace old entries for this file
	_, err = tx.Exec("DELETE FROM entries WHERE file_path = ?", path)
	if err != nil {
		return err
	}

	for kind, entries := range map[string]*ledger.Entries{"account": t.Accounts, "budget": t.Budgets} {
		pos := 0
		for name, amount := range entries.All() {
			_, err = tx.Exec(`INSERT INTO entries (file_path, kind, position, name, amount_cents)
				VALUES (?, ?, ?, ?, ?)`, path, kind, pos, name, amount.Cents())
			if err != nil {
				return err
			}
			pos++
		}
	}

	// Update file tracker
	_, err = tx.Exec(`INSERT OR REPLACE INTO file_tracker (file_path, mtime_ns, size_bytes)
		VALUES (?, ?, ?)`, path, mtimeNs, sizeBytes)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// LoadAllTransactions reads all cached transactions, in date then path order.
func (c *Cache) LoadAllTransactions() ([]Record, error) {
	rows, err := c.db.Query(`SELECT file_path, date, description, amount_cents
		FROM transactions ORDER BY date, file_path`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []Record
	for rows.Next() {
		var path, date, description string
		var amount int64
		if err := rows.Scan(&path, &date, &description, &amount); err != nil {
			return nil, err
		}
		d, err := time.Parse(ledger.DateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("cached date for %s: %w", path, err)
		}
		records = append(records, Record{
			Path:        path,
			Transaction: ledger.NewTransaction(d, description, money.FromCents(amount)),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Batch-load entries
	entryRows, err := c.db.Query(`SELECT file_path, kind, name, amount_cents
		FROM entries ORDER BY file_path, kind, position`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = entryRows.Close() }()

	// Build record index for fast lookup
	recordIdx := make(map[string]int, len(records))
	for i, r := range records {
		recordIdx[r.Path] = i
	}

	for entryRows.Next() {
		var path, kind, name string
		var amount int64
		if err := entryRows.Scan(&path, &kind, &name, &amount); err != nil {
			return nil, err
		}
		idx, ok := recordIdx[path]
		if !ok {
			continue
		}
		t := records[idx].Transaction
		switch kind {
		case "account":
			t.Accounts.Insert(name, money.FromCents(amount))
		case "budget":
			t.Budgets.Insert(name, money.FromCents(amount))
		}
	}

	return records, entryRows.Err()
}

// DeleteFile removes a cached transaction and its tracking entry.
func (c *Cache) DeleteFile(path string) error {
	if _, err := c.db.Exec("DELETE FROM transactions WHERE file_path = ?", path); err != nil {
		return err
	}
	_, err := c.db.Exec("DELETE FROM file_tracker WHERE file_path = ?", path)
	return err
}

// TransactionCount returns the number of cached transactions.
func (c *Cache) TransactionCount() (int, error) {
	var count int
	err := c.db.QueryRow("SELECT COUNT(*) FROM transactions").Scan(&count)
	return count, err
}
