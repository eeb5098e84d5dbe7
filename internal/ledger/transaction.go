package ledger

import (
	"iter"
	"slices"
	"time"

	"github.com/theirongolddev/mb/internal/money"
)

// DateLayout is the canonical textual form of a transaction date.
const DateLayout = "2006-01-02"

// Transaction is one dated financial event.
//
// Budgets breaks Amount down by budget and is expected to sum to Amount;
// the allocation engine only moves money between its entries. Accounts
// records which bank accounts the money moved through.
type Transaction struct {
	Date        time.Time
	Description string
	Amount      money.Amount
	Accounts    *Entries
	Budgets     *Entries
}

// NewTransaction returns a transaction with empty breakdowns.
func NewTransaction(date time.Time, description string, amount money.Amount) *Transaction {
	return &Transaction{
		Date:        date,
		Description: description,
		Amount:      amount,
		Accounts:    NewEntries(),
		Budgets:     NewEntries(),
	}
}

// Balanced reports whether the budget breakdown sums to the total amount.
func (t *Transaction) Balanced() bool {
	return t.Budgets.Sum() == t.Amount
}

// Clone returns a deep copy of t.
func (t *Transaction) Clone() *Transaction {
	c := *t
	c.Accounts = t.Accounts.Clone()
	c.Budgets = t.Budgets.Clone()
	return &c
}

// Transactions is an ordered sequence of transactions, oldest first once
// sorted.
type Transactions struct {
	items []*Transaction
}

// NewTransactions wraps the given transactions in their current order.
func NewTransactions(txs ...*Transaction) *Transactions {
	return &Transactions{items: txs}
}

// Append adds transactions at the end of the sequence.
func (s *Transactions) Append(txs ...*Transaction) {
	s.items = append(s.items, txs...)
}

// Len returns the number of transactions.
func (s *Transactions) Len() int { return len(s.items) }

// At returns the i-th transaction.
func (s *Transactions) At(i int) *Transaction { return s.items[i] }

// All iterates over the transactions in sequence order.
func (s *Transactions) All() iter.Seq2[int, *Transaction] {
	return slices.All(s.items)
}

// Total sums the amount of every transaction.
func (s *Transactions) Total() money.Amount {
	total := money.Zero
	for _, t := range s.items {
		total = total.Add(t.Amount)
	}
	return total
}

// BudgetTotal sums the named budget entry over all transactions. Absent
// entries count as zero.
func (s *Transactions) BudgetTotal(name string) money.Amount {
	total := money.Zero
	for _, t := range s.items {
		if a, ok := t.Budgets.AmountFor(name); ok {
			total = total.Add(a)
		}
	}
	return total
}

// AccountTotal sums the named account entry over all transactions.
func (s *Transactions) AccountTotal(name string) money.Amount {
	total := money.Zero
	for _, t := range s.items {
		if a, ok := t.Accounts.AmountFor(name); ok {
			total = total.Add(a)
		}
	}
	return total
}

// BudgetNames returns every budget name in order of first appearance.
func (s *Transactions) BudgetNames() []string {
	return s.collectNames(func(t *Transaction) *Entries { return t.Budgets })
}

// AccountNames returns every account name in order of first appearance.
func (s *Transactions) AccountNames() []string {
	return s.collectNames(func(t *Transaction) *Entries { return t.Accounts })
}

func (s *Transactions) collectNames(pick func(*Transaction) *Entries) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, t := range s.items {
		for name := range pick(t).All() {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	return names
}

// Sort orders the sequence by date. Transactions on the same day keep their
// relative order.
func (s *Transactions) Sort() {
	slices.SortStableFunc(s.items, func(a, b *Transaction) int {
		return a.Date.Compare(b.Date)
	})
}

// IsSorted reports whether the sequence is in ascending date order.
func (s *Transactions) IsSorted() bool {
	return slices.IsSortedFunc(s.items, func(a, b *Transaction) int {
		return a.Date.Compare(b.Date)
	})
}

// Clone returns a deep copy of the sequence.
func (s *Transactions) Clone() *Transactions {
	c := &Transactions{items: make([]*Transaction, len(s.items))}
	for i, t := range s.items {
		c.items[i] = t.Clone()
	}
	return c
}
