// Package budget distributes unallocated money into prioritized budgets.
//
// Each target has a monthly rate. Money is taken from a transaction's
// unallocated pool and given to whichever target has the fewest whole months
// funded, so that all targets advance month by month. Targets listed earlier
// win ties.
package budget

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/mb/internal/ledger"
	"github.com/theirongolddev/mb/internal/money"
)

var (
	ErrNonPositiveRate = errors.New("monthly rate must be positive")
	ErrDuplicateTarget = errors.New("target listed more than once")
	ErrEmptyName       = errors.New("name must not be empty")
	ErrTargetIsPool    = errors.New("target is the unallocated pool")
)

// Target is a budget that receives money at a monthly rate.
type Target struct {
	Name    string
	Monthly money.Amount
}

// Config names the pool money is taken from and the targets it goes to.
// Target order is priority order.
type Config struct {
	Unallocated string
	Targets     []Target
}

// Validate rejects configurations the allocation loop cannot make progress
// on. Errors name the offending target.
func (c Config) Validate() error {
	if c.Unallocated == "" {
		return fmt.Errorf("unallocated pool: %w", ErrEmptyName)
	}
	seen := make(map[string]struct{}, len(c.Targets))
	for i, t := range c.Targets {
		switch {
		case t.Name == "":
			return fmt.Errorf("target #%d: %w", i+1, ErrEmptyName)
		case t.Name == c.Unallocated:
			return fmt.Errorf("target %q: %w", t.Name, ErrTargetIsPool)
		case !t.Monthly.IsPositive():
			return fmt.Errorf("target %q: monthly rate %s: %w", t.Name, t.Monthly, ErrNonPositiveRate)
		}
		if _, dup := seen[t.Name]; dup {
			return fmt.Errorf("target %q: %w", t.Name, ErrDuplicateTarget)
		}
		seen[t.Name] = struct{}{}
	}
	return nil
}

// Transfer records one movement performed by Allocate.
type Transfer struct {
	Transaction *ledger.Transaction
	Target      string
	Amount      money.Amount
}

// Allocate moves money out of every transaction's unallocated entry into the
// configured targets, oldest transaction first, and returns the transfers it
// made.
//
// txs must be sorted by date; running totals are only meaningful when
// transactions are processed oldest first. Money already allocated anywhere
// in txs counts towards its target, so running Allocate again on the same
// sequence moves nothing.
//
// An empty target list leaves txs untouched. An invalid configuration is
// rejected before anything is moved.
func Allocate(txs *ledger.Transactions, cfg Config) ([]Transfer, error) {
	if len(cfg.Targets) == 0 {
		return nil, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	totals := make([]money.Amount, len(cfg.Targets))
	for i, t := range cfg.Targets {
		totals[i] = txs.BudgetTotal(t.Name)
	}

	var transfers []Transfer
	for _, tx := range txs.All() {
		for {
			pool, ok := tx.Budgets.AmountFor(cfg.Unallocated)
			if !ok || !pool.IsPositive() {
				break
			}

			i, filled := mostBehind(cfg.Targets, totals)
			target := cfg.Targets[i]

			quota := target.Monthly.Times(filled + 1)
			missing := quota.Sub(totals[i])
			amount := money.Min(missing, pool)

			tx.Budgets.Transfer(amount, cfg.Unallocated, target.Name)
			totals[i] = totals[i].Add(amount)

			transfers = append(transfers, Transfer{
				Transaction: tx,
				Target:      target.Name,
				Amount:      amount,
			})
		}
	}
	return transfers, nil
}

// mostBehind returns the index of the target with the fewest whole months
// funded and that month count. The earliest target wins ties.
func mostBehind(targets []Target, totals []money.Amount) (int, int64) {
	best, bestFilled := 0, totals[0].FloorDiv(targets[0].Monthly)
	for i := 1; i < len(targets); i++ {
		filled := totals[i].FloorDiv(targets[i].Monthly)
		if filled < bestFilled {
			best, bestFilled = i, filled
		}
	}
	return best, bestFilled
}

// TargetStatus describes how far a target is funded.
type TargetStatus struct {
	Target
	Total        money.Amount
	MonthsFilled int64
	// Missing is what the target still needs to complete its next month.
	Missing money.Amount
}

// Status reports the funding of every configured target across txs.
func Status(txs *ledger.Transactions, cfg Config) []TargetStatus {
	out := make([]TargetStatus, 0, len(cfg.Targets))
	for _, t := range cfg.Targets {
		s := TargetStatus{Target: t, Total: txs.BudgetTotal(t.Name)}
		if t.Monthly.IsPositive() {
			s.MonthsFilled = s.Total.FloorDiv(t.Monthly)
			s.Missing = t.Monthly.Times(s.MonthsFilled + 1).Sub(s.Total)
		}
		out = append(out, s)
	}
	return out
}
