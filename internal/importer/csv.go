// Package importer turns bank CSV exports into transactions.
//
// The supported format is the account statement export of German online
// banking: ISO-8859-1 encoded, semicolon separated, with a block of
// metadata before the "Buchungstag" header and three summary lines after
// the data.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/theirongolddev/mb/internal/ledger"
	"github.com/theirongolddev/mb/internal/money"

	"golang.org/x/text/encoding/charmap"
)

// ErrNoData is returned when the export has no "Buchungstag" header.
var ErrNoData = errors.New("no transaction data found")

const (
	headerMarker   = "\n\"Buchungstag\""
	trailerLines   = 3
	dateLayout     = "02.01.2006"
	colDate        = 0
	colText        = 3
	colAmount      = 11
	colDebitCredit = 12
)

// Options controls which entries imported transactions get.
type Options struct {
	// Account receives the full amount of every transaction.
	Account string
	// Unallocated is the budget the amount is booked to until allocated.
	Unallocated string
}

// ImportFile reads a bank export from path.
func ImportFile(path string, opts Options) ([]*ledger.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return Import(f, opts)
}

// Import decodes a bank export into balanced transactions, in file order.
func Import(r io.Reader, opts Options) ([]*ledger.Transaction, error) {
	raw, err := io.ReadAll(charmap.ISO8859_1.NewDecoder().Reader(r))
	if err != nil {
		return nil, fmt.Errorf("decoding CSV file: %w", err)
	}
	text := strings.ReplaceAll(string(raw), "\r\n", "\n")

	start := strings.Index(text, headerMarker)
	if start < 0 {
		return nil, ErrNoData
	}
	lines := strings.Split(strings.TrimRight(text[start+1:], "\n"), "\n")
	if len(lines) <= trailerLines {
		return nil, nil
	}
	// header row first, summary lines last
	body := strings.Join(lines[1:len(lines)-trailerLines], "\n")

	reader := csv.NewReader(strings.NewReader(body))
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var txs []*ledger.Transaction
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV: %w", err)
		}
		line, _ := reader.FieldPos(0)

		tx, err := parseRecord(record, opts)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func parseRecord(record []string, opts Options) (*ledger.Transaction, error) {
	if len(record) <= colDebitCredit {
		return nil, fmt.Errorf("expected at least %d columns, got %d", colDebitCredit+1, len(record))
	}

	date, err := time.Parse(dateLayout, strings.TrimSpace(record[colDate]))
	if err != nil {
		return nil, fmt.Errorf("invalid date %q", record[colDate])
	}

	amount, err := ParseGermanAmount(record[colAmount])
	if err != nil {
		return nil, err
	}
	switch strings.TrimSpace(record[colDebitCredit]) {
	case "S":
		amount = amount.Neg()
	case "H":
	default:
		return nil, fmt.Errorf("invalid debit/credit marker %q", record[colDebitCredit])
	}

	description := strings.Join(strings.Fields(record[colText]), " ")

	tx := ledger.NewTransaction(date, description, amount)
	tx.Accounts.Insert(opts.Account, amount)
	tx.Budgets.Insert(opts.Unallocated, amount)
	return tx, nil
}

// ParseGermanAmount parses amounts like "1.234,56", where "." groups
// thousands and "," separates the cents.
func ParseGermanAmount(s string) (money.Amount, error) {
	return money.Parse(strings.ReplaceAll(strings.TrimSpace(s), ".", ""))
}

// Dedupe drops imported transactions that already exist, matched by date,
// description and amount. Repeated rows within imported are kept as long as
// existing doesn't hold as many copies.
func Dedupe(existing *ledger.Transactions, imported []*ledger.Transaction) (fresh []*ledger.Transaction, skipped int) {
	type key struct {
		date        string
		description string
		amount      money.Amount
	}
	keyOf := func(tx *ledger.Transaction) key {
		return key{tx.Date.Format(ledger.DateLayout), tx.Description, tx.Amount}
	}

	known := make(map[key]int)
	for _, tx := range existing.All() {
		known[keyOf(tx)]++
	}
	for _, tx := range imported {
		k := keyOf(tx)
		if known[k] > 0 {
			known[k]--
			skipped++
			continue
		}
		fresh = append(fresh, tx)
	}
	return fresh, skipped
}
