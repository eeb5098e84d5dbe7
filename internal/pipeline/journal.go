package pipeline

import (
	"bytes"
	"fmt"
	"os"
	"slices"

	"github.com/theirongolddev/mb/internal/ledger"
	"github.com/theirongolddev/mb/internal/source"
	"github.com/theirongolddev/mb/internal/store"
)

// Journal is the set of transactions in a money directory together with
// the files they were read from. Changes made to its transactions are
// written back by Save.
type Journal struct {
	dir     string
	txs     *ledger.Transactions
	paths   map[*ledger.Transaction]string
	written map[*ledger.Transaction][]byte
}

// NewJournal builds a journal from loaded records, sorted by date. Records
// on the same day keep file order (sequence number, not plain string order).
func NewJournal(dir string, records []store.Record) *Journal {
	sorted := slices.Clone(records)
	slices.SortFunc(sorted, func(a, b store.Record) int {
		if c := a.Transaction.Date.Compare(b.Transaction.Date); c != 0 {
			return c
		}
		return source.ComparePaths(a.Path, b.Path)
	})

	j := &Journal{
		dir:     dir,
		txs:     ledger.NewTransactions(),
		paths:   make(map[*ledger.Transaction]string, len(sorted)),
		written: make(map[*ledger.Transaction][]byte, len(sorted)),
	}
	for _, r := range sorted {
		j.txs.Append(r.Transaction)
		j.paths[r.Transaction] = r.Path
		if data, err := source.Encode(r.Transaction); err == nil {
			j.written[r.Transaction] = data
		}
	}
	return j
}

// Transactions returns the journal's transactions, oldest first.
func (j *Journal) Transactions() *ledger.Transactions {
	return j.txs
}

// Path returns the file a transaction is stored in, or "" if it has not
// been saved yet.
func (j *Journal) Path(tx *ledger.Transaction) string {
	return j.paths[tx]
}

// Add inserts new transactions. They get a file on the next Save.
func (j *Journal) Add(txs ...*ledger.Transaction) {
	j.txs.Append(txs...)
	j.txs.Sort()
}

// Unbalanced returns the transactions whose account or budget entries do
// not add up to their amount.
func (j *Journal) Unbalanced() []*ledger.Transaction {
	var out []*ledger.Transaction
	for _, tx := range j.txs.All() {
		accountsOff := tx.Accounts.Len() > 0 && tx.Accounts.Sum() != tx.Amount
		if !tx.Balanced() || accountsOff {
			out = append(out, tx)
		}
	}
	return out
}

// Save writes every new or modified transaction and returns how many files
// it wrote. Unchanged transactions are not touched.
func (j *Journal) Save() (int, error) {
	written := 0
	for _, tx := range j.txs.All() {
		data, err := source.Encode(tx)
		if err != nil {
			return written, err
		}

		path, known := j.paths[tx]
		if known && bytes.Equal(data, j.written[tx]) {
			continue
		}
		if !known {
			if err := os.MkdirAll(j.dir, 0o750); err != nil {
				return written, fmt.Errorf("creating money dir: %w", err)
			}
			path = source.NextFileName(j.dir, tx.Date)
		}

		if err := os.WriteFile(path, data, 0o600); err != nil {
			return written, fmt.Errorf("writing %s: %w", path, err)
		}
		j.paths[tx] = path
		j.written[tx] = data
		written++
	}
	return written, nil
}
