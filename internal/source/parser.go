// Package source discovers, parses and encodes transaction files.
//
// Each transaction lives in its own TOML file:
//
//	date = 2021-07-18
//	description = "Groceries"
//	amount = "-23.40"
//	accounts = {Giro = "-23.40"}
//	budgets = {Unallocated = "-23.40"}
//
// Entry tables are written inline so their order survives a round trip.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/theirongolddev/mb/internal/ledger"
	"github.com/theirongolddev/mb/internal/money"

	"github.com/BurntSushi/toml"
)

// ErrInvalidKeys is returned for files carrying keys mb does not know.
var ErrInvalidKeys = errors.New("invalid keys")

// fileDate is a calendar date stored as a TOML local date.
type fileDate struct {
	t time.Time
}

func (d fileDate) MarshalTOML() ([]byte, error) {
	return []byte(d.t.Format(ledger.DateLayout)), nil
}

func (d *fileDate) UnmarshalTOML(value any) error {
	switch v := value.(type) {
	case time.Time:
		d.t = time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC)
		return nil
	case string:
		t, err := time.Parse(ledger.DateLayout, strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", v, err)
		}
		d.t = t
		return nil
	default:
		return fmt.Errorf("invalid date: unsupported TOML value %T", value)
	}
}

// inlineEntries writes an ordered entry mapping as a TOML inline table.
type inlineEntries struct {
	e *ledger.Entries
}

var bareKey = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func (t inlineEntries) MarshalTOML() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	i := 0
	for name, amount := range t.e.All() {
		if i > 0 {
			b.WriteString(", ")
		}
		i++
		b.WriteString(tomlKey(name))
		b.WriteString(" = ")
		b.WriteString(quote(mustText(amount)))
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

func mustText(a money.Amount) string {
	text, _ := a.MarshalText()
	return string(text)
}

func tomlKey(name string) string {
	if bareKey.MatchString(name) {
		return name
	}
	return quote(name)
}

// quote renders s as a TOML basic string.
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"':
			b.WriteString(`\"`)
		case r == '\\':
			b.WriteString(`\\`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\u%04X`, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

type encodedFile struct {
	Date        fileDate      `toml:"date"`
	Description string        `toml:"description"`
	Amount      money.Amount  `toml:"amount"`
	Accounts    inlineEntries `toml:"accounts"`
	Budgets     inlineEntries `toml:"budgets"`
}

type decodedFile struct {
	Date        fileDate                `toml:"date"`
	Description string                  `toml:"description"`
	Amount      money.Amount            `toml:"amount"`
	Accounts    map[string]money.Amount `toml:"accounts"`
	Budgets     map[string]money.Amount `toml:"budgets"`
}

// Encode renders a transaction in the on-disk format.
func Encode(tx *ledger.Transaction) ([]byte, error) {
	var buf bytes.Buffer
	err := toml.NewEncoder(&buf).Encode(encodedFile{
		Date:        fileDate{tx.Date},
		Description: tx.Description,
		Amount:      tx.Amount,
		Accounts:    inlineEntries{orEmpty(tx.Accounts)},
		Budgets:     inlineEntries{orEmpty(tx.Budgets)},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding transaction: %w", err)
	}
	return buf.Bytes(), nil
}

func orEmpty(e *ledger.Entries) *ledger.Entries {
	if e == nil {
		return ledger.NewEntries()
	}
	return e
}

// Decode parses a transaction from its on-disk format. Unknown keys are
// rejected so that a typo never silently drops data on the next save.
func Decode(data []byte) (*ledger.Transaction, error) {
	var doc decodedFile
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidKeys, strings.Join(keys, ", "))
	}
	if !md.IsDefined("date") {
		return nil, errors.New("missing date")
	}

	tx := ledger.NewTransaction(doc.Date.t, doc.Description, doc.Amount)
	fill(tx.Accounts, "accounts", doc.Accounts, md)
	fill(tx.Budgets, "budgets", doc.Budgets, md)
	return tx, nil
}

// fill inserts values into e in the order their keys appear in the
// document. Names the metadata doesn't order are appended sorted.
func fill(e *ledger.Entries, table string, values map[string]money.Amount, md toml.MetaData) {
	for _, key := range md.Keys() {
		if len(key) != 2 || key[0] != table {
			continue
		}
		if a, ok := values[key[1]]; ok && !e.Has(key[1]) {
			e.Insert(key[1], a)
		}
	}

	var rest []string
	for name := range values {
		if !e.Has(name) {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		e.Insert(name, values[name])
	}
}

// ParseFile reads and decodes one transaction file.
func ParseFile(df DiscoveredFile) ParseResult {
	data, err := os.ReadFile(df.Path)
	if err != nil {
		return ParseResult{File: df, Err: err}
	}
	tx, err := Decode(data)
	if err != nil {
		return ParseResult{File: df, Err: fmt.Errorf("%s: %w", df.Path, err)}
	}
	return ParseResult{File: df, Transaction: tx}
}
