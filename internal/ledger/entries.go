// Package ledger holds the transaction data model: named entry mappings,
// transactions and the chronological transaction sequence.
package ledger

import (
	"fmt"
	"iter"

	"github.com/theirongolddev/mb/internal/money"
)

// Entries maps account or budget names to amounts, preserving insertion
// order. Iteration order is the order in which names were first inserted;
// it drives display order and, for budget targets, allocation priority.
//
// The zero value is an empty mapping ready to use.
type Entries struct {
	names   []string
	amounts []money.Amount
	index   map[string]int
}

// NewEntries returns an empty mapping.
func NewEntries() *Entries {
	return &Entries{}
}

// Insert sets the amount for name. An existing entry keeps its position.
func (e *Entries) Insert(name string, amount money.Amount) {
	if i, ok := e.index[name]; ok {
		e.amounts[i] = amount
		return
	}
	if e.index == nil {
		e.index = make(map[string]int)
	}
	e.index[name] = len(e.names)
	e.names = append(e.names, name)
	e.amounts = append(e.amounts, amount)
}

// With inserts name and returns e, for building mappings in one expression.
func (e *Entries) With(name string, amount money.Amount) *Entries {
	e.Insert(name, amount)
	return e
}

// AmountFor returns the amount stored under name.
func (e *Entries) AmountFor(name string) (money.Amount, bool) {
	if e == nil {
		return money.Zero, false
	}
	i, ok := e.index[name]
	if !ok {
		return money.Zero, false
	}
	return e.amounts[i], true
}

// Has reports whether name has an entry.
func (e *Entries) Has(name string) bool {
	_, ok := e.AmountFor(name)
	return ok
}

// Names returns the entry names in insertion order.
func (e *Entries) Names() []string {
	if e == nil {
		return nil
	}
	out := make([]string, len(e.names))
	copy(out, e.names)
	return out
}

// All iterates over the entries in insertion order.
func (e *Entries) All() iter.Seq2[string, money.Amount] {
	return func(yield func(string, money.Amount) bool) {
		if e == nil {
			return
		}
		for i, name := range e.names {
			if !yield(name, e.amounts[i]) {
				return
			}
		}
	}
}

// Len returns the number of entries.
func (e *Entries) Len() int {
	if e == nil {
		return 0
	}
	return len(e.names)
}

// Sum returns the total of all entries.
func (e *Entries) Sum() money.Amount {
	total := money.Zero
	if e == nil {
		return total
	}
	for _, a := range e.amounts {
		total = total.Add(a)
	}
	return total
}

// Transfer moves amount from one entry to another. The destination is
// created at zero when missing. The sum of the mapping is unchanged.
//
// from must already have an entry; calling Transfer without one is a
// programming error and panics.
func (e *Entries) Transfer(amount money.Amount, from, to string) {
	i, ok := e.index[from]
	if !ok {
		panic(fmt.Sprintf("ledger: transfer from missing entry %q", from))
	}
	e.amounts[i] = e.amounts[i].Sub(amount)

	if _, ok := e.index[to]; !ok {
		e.Insert(to, money.Zero)
	}
	j := e.index[to]
	e.amounts[j] = e.amounts[j].Add(amount)
}

// Clone returns a deep copy.
func (e *Entries) Clone() *Entries {
	c := NewEntries()
	for name, a := range e.All() {
		c.Insert(name, a)
	}
	return c
}

// Equal reports whether both mappings hold the same entries in the same
// order.
func (e *Entries) Equal(o *Entries) bool {
	if e.Len() != o.Len() {
		return false
	}
	for i := 0; i < e.Len(); i++ {
		if e.names[i] != o.names[i] || e.amounts[i] != o.amounts[i] {
			return false
		}
	}
	return true
}
