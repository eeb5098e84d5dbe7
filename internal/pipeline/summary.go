// Package pipeline orchestrates transaction loading, caching, and
// aggregation.
package pipeline

import (
	"time"

	"github.com/theirongolddev/mb/internal/budget"
	"github.com/theirongolddev/mb/internal/ledger"
	"github.com/theirongolddev/mb/internal/money"
)

// Balance is a named running total.
type Balance struct {
	Name  string
	Total money.Amount
}

// BudgetBalance is a budget's running total plus its funding status when
// the budget is an allocation target.
type BudgetBalance struct {
	Balance
	Target *budget.TargetStatus
}

// Summary is the aggregate view rendered by reports.
type Summary struct {
	Transactions int
	First, Last  time.Time
	Total        money.Amount
	Unallocated  money.Amount
	Unbalanced   int
	Accounts     []Balance
	Budgets      []BudgetBalance
}

// Summarize aggregates txs. Allocation targets are listed first in
// priority order, followed by every other budget in order of first use.
func Summarize(txs *ledger.Transactions, cfg budget.Config) Summary {
	s := Summary{
		Transactions: txs.Len(),
		Total:        txs.Total(),
		Unallocated:  txs.BudgetTotal(cfg.Unallocated),
	}

	for _, tx := range txs.All() {
		if s.First.IsZero() || tx.Date.Before(s.First) {
			s.First = tx.Date
		}
		if tx.Date.After(s.Last) {
			s.Last = tx.Date
		}
		if !tx.Balanced() {
			s.Unbalanced++
		}
	}

	for _, name := range txs.AccountNames() {
		s.Accounts = append(s.Accounts, Balance{Name: name, Total: txs.AccountTotal(name)})
	}

	listed := make(map[string]struct{}, len(cfg.Targets))
	for _, st := range budget.Status(txs, cfg) {
		listed[st.Name] = struct{}{}
		s.Budgets = append(s.Budgets, BudgetBalance{
			Balance: Balance{Name: st.Name, Total: st.Total},
			Target:  &st,
		})
	}
	for _, name := range txs.BudgetNames() {
		if _, ok := listed[name]; ok {
			continue
		}
		s.Budgets = append(s.Budgets, BudgetBalance{
			Balance: Balance{Name: name, Total: txs.BudgetTotal(name)},
		})
	}
	return s
}

// FilterByTime returns the transactions dated within [since, until).
// Zero bounds are open.
func FilterByTime(txs *ledger.Transactions, since, until time.Time) *ledger.Transactions {
	if since.IsZero() && until.IsZero() {
		return txs
	}

	result := ledger.NewTransactions()
	for _, tx := range txs.All() {
		if !since.IsZero() && tx.Date.Before(since) {
			continue
		}
		if !until.IsZero() && !tx.Date.Before(until) {
			continue
		}
		result.Append(tx)
	}
	return result
}

// MonthTotal is the money that came in and went out in one calendar month.
type MonthTotal struct {
	Month time.Time
	In    money.Amount
	Out   money.Amount
}

// Net returns In plus Out.
func (m MonthTotal) Net() money.Amount {
	return m.In.Add(m.Out)
}

// Monthly groups txs by calendar month, oldest first. Months without
// transactions between the first and last are included with zero totals.
func Monthly(txs *ledger.Transactions) []MonthTotal {
	byMonth := make(map[time.Time]*MonthTotal)
	var first, last time.Time
	for _, tx := range txs.All() {
		m := time.Date(tx.Date.Year(), tx.Date.Month(), 1, 0, 0, 0, 0, time.UTC)
		if first.IsZero() || m.Before(first) {
			first = m
		}
		if m.After(last) {
			last = m
		}
		mt, ok := byMonth[m]
		if !ok {
			mt = &MonthTotal{Month: m}
			byMonth[m] = mt
		}
		if tx.Amount.IsNegative() {
			mt.Out = mt.Out.Add(tx.Amount)
		} else {
			mt.In = mt.In.Add(tx.Amount)
		}
	}
	if first.IsZero() {
		return nil
	}

	var out []MonthTotal
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		if mt, ok := byMonth[m]; ok {
			out = append(out, *mt)
		} else {
			out = append(out, MonthTotal{Month: m})
		}
	}
	return out
}
