package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/mb/internal/budget"
	"github.com/theirongolddev/mb/internal/ledger"
	"github.com/theirongolddev/mb/internal/money"
	"github.com/theirongolddev/mb/internal/source"
	"github.com/theirongolddev/mb/internal/store"
)

func day(d int) time.Time {
	return time.Date(2021, 7, d, 0, 0, 0, 0, time.UTC)
}

func income(d int, cents int64) *ledger.Transaction {
	tx := ledger.NewTransaction(day(d), "Salary", money.FromCents(cents))
	tx.Accounts.Insert("Giro", money.FromCents(cents))
	tx.Budgets.Insert("Unallocated", money.FromCents(cents))
	return tx
}

func writeTx(t *testing.T, path string, tx *ledger.Transaction) {
	t.Helper()
	data, err := source.Encode(tx)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeTx(t, filepath.Join(dir, "2021-07-02_0.toml"), income(2, 100_00))
	writeTx(t, filepath.Join(dir, "2021-07-01_0.toml"), income(1, 50_00))
	if err := os.WriteFile(filepath.Join(dir, "broken.toml"), []byte("date = "), 0o600); err != nil {
		t.Fatal(err)
	}

	var lastProgress int
	result, err := Load(dir, func(current, total int) {
		if current > lastProgress {
			lastProgress = current
		}
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if result.TotalFiles != 3 || result.ParsedFiles != 2 || result.FileErrors != 1 {
		t.Fatalf("result = %+v", result)
	}
	if result.Err() == nil {
		t.Fatal("expected Err() to report the broken file")
	}
	if lastProgress != 3 {
		t.Errorf("progress reached %d, want 3", lastProgress)
	}
}

func TestLoadWithCache(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "2021-07-01_0.toml")
	b := filepath.Join(dir, "2021-07-02_0.toml")
	writeTx(t, a, income(1, 50_00))
	writeTx(t, b, income(2, 100_00))

	cache, err := store.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = cache.Close() }()

	first, err := LoadWithCache(dir, cache, nil)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	if first.Reparsed != 2 || first.CacheHits != 0 {
		t.Fatalf("first = %+v", first)
	}

	second, err := LoadWithCache(dir, cache, nil)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if second.CacheHits != 2 || second.Reparsed != 0 || len(second.Records) != 2 {
		t.Fatalf("second = %+v", second)
	}

	writeTx(t, b, income(2, 1234_00))
	if err := os.Remove(a); err != nil {
		t.Fatal(err)
	}

	third, err := LoadWithCache(dir, cache, nil)
	if err != nil {
		t.Fatalf("third load: %v", err)
	}
	if third.Reparsed != 1 || third.Removed != 1 || len(third.Records) != 1 {
		t.Fatalf("third = %+v", third)
	}
	if got := third.Records[0].Transaction.Amount; got != money.FromCents(1234_00) {
		t.Fatalf("amount = %s, want the rewritten value", got)
	}
}

func TestJournalSaveWritesOnlyChanges(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "2021-07-01_0.toml")
	b := filepath.Join(dir, "2021-07-02_0.toml")
	writeTx(t, a, income(1, 50_00))
	writeTx(t, b, income(2, 100_00))

	result, err := Load(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	j := NewJournal(dir, result.Records)
	if j.Transactions().Len() != 2 || j.Transactions().At(0).Date != day(1) {
		t.Fatal("journal not sorted by date")
	}

	if n, err := j.Save(); err != nil || n != 0 {
		t.Fatalf("Save() on untouched journal = %d, %v", n, err)
	}

	j.Transactions().At(1).Budgets.Transfer(money.FromCents(40_00), "Unallocated", "Food")
	j.Add(income(2, 10_00))

	n, err := j.Save()
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if n != 2 {
		t.Fatalf("Save wrote %d files, want 2", n)
	}
	if _, err := os.Stat(filepath.Join(dir, "2021-07-02_1.toml")); err != nil {
		t.Fatalf("new transaction not written: %v", err)
	}

	reloaded, err := Load(dir, nil)
	if err != nil || reloaded.ParsedFiles != 3 {
		t.Fatalf("reload = %+v, %v", reloaded, err)
	}
	txs := NewJournal(dir, reloaded.Records).Transactions()
	if got := txs.BudgetTotal("Food"); got != money.FromCents(40_00) {
		t.Fatalf("Food = %s, want 40.00€", got)
	}
}

func TestJournalUnbalanced(t *testing.T) {
	badAccounts := income(3, 10_00)
	badAccounts.Accounts.Insert("Giro", money.FromCents(9_00))

	badBudgets := income(4, 10_00)
	badBudgets.Budgets.Insert("Unallocated", money.FromCents(11_00))

	// No account entries at all is not an error.
	noAccounts := ledger.NewTransaction(day(5), "Cash gift", money.FromCents(5_00))
	noAccounts.Budgets.Insert("Unallocated", money.FromCents(5_00))

	j := NewJournal(t.TempDir(), []store.Record{
		{Path: "a.toml", Transaction: income(1, 10_00)},
		{Path: "b.toml", Transaction: badAccounts},
		{Path: "c.toml", Transaction: badBudgets},
		{Path: "d.toml", Transaction: noAccounts},
	})
	got := j.Unbalanced()
	if len(got) != 2 || got[0] != badAccounts || got[1] != badBudgets {
		t.Fatalf("Unbalanced = %v, want the account and the budget mismatch", got)
	}
}

func TestJournalSameDayOrderSurvivesReload(t *testing.T) {
	dir := t.TempDir()

	const n = 12
	j := NewJournal(dir, nil)
	for i := range n {
		j.Add(income(1, int64(i+1)))
	}
	if written, err := j.Save(); err != nil || written != n {
		t.Fatalf("Save = %d, %v", written, err)
	}

	loaded, err := Load(dir, nil)
	if err != nil || loaded.ParsedFiles != n {
		t.Fatalf("Load = %+v, %v", loaded, err)
	}
	reloaded := NewJournal(dir, loaded.Records)
	for i, tx := range reloaded.Transactions().All() {
		if want := money.FromCents(int64(i + 1)); tx.Amount != want {
			t.Fatalf("position %d: got %s from %s, want %s",
				i, tx.Amount, filepath.Base(reloaded.Path(tx)), want)
		}
	}
}

func TestSummarize(t *testing.T) {
	tx := income(1, 300_00)
	tx.Budgets.Transfer(money.FromCents(150_00), "Unallocated", "Rent")
	spend := ledger.NewTransaction(day(2), "Pizza", money.FromCents(-20_00))
	spend.Accounts.Insert("Cash", money.FromCents(-20_00))
	spend.Budgets.Insert("Dining", money.FromCents(-20_00))

	cfg := budget.Config{
		Unallocated: "Unallocated",
		Targets:     []budget.Target{{Name: "Food", Monthly: money.FromCents(100_00)}, {Name: "Rent", Monthly: money.FromCents(100_00)}},
	}
	s := Summarize(ledger.NewTransactions(tx, spend), cfg)

	if s.Transactions != 2 || s.Total != money.FromCents(280_00) || s.Unallocated != money.FromCents(150_00) {
		t.Fatalf("summary = %+v", s)
	}
	if s.First != day(1) || s.Last != day(2) {
		t.Errorf("range = %v..%v", s.First, s.Last)
	}

	var names []string
	for _, b := range s.Budgets {
		names = append(names, b.Name)
	}
	want := []string{"Food", "Rent", "Unallocated", "Dining"}
	if len(names) != len(want) {
		t.Fatalf("budgets = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("budgets = %v, want %v", names, want)
		}
	}
	if rent := s.Budgets[1].Target; rent == nil || rent.MonthsFilled != 1 || rent.Missing != money.FromCents(50_00) {
		t.Fatalf("rent status = %+v", rent)
	}
	if s.Budgets[2].Target != nil {
		t.Error("non-target budget should carry no status")
	}
}

func TestFilterByTime(t *testing.T) {
	txs := ledger.NewTransactions(income(1, 1), income(5, 2), income(9, 3))
	got := FilterByTime(txs, day(2), day(9))
	if got.Len() != 1 || got.At(0).Date != day(5) {
		t.Fatalf("FilterByTime kept %d transactions", got.Len())
	}
	if FilterByTime(txs, time.Time{}, time.Time{}) != txs {
		t.Fatal("open bounds should return the input")
	}
}

func TestMonthly(t *testing.T) {
	spend := ledger.NewTransaction(time.Date(2021, 9, 3, 0, 0, 0, 0, time.UTC), "Rent", money.FromCents(-40_00))
	txs := ledger.NewTransactions(income(1, 100_00), income(20, 50_00), spend)

	months := Monthly(txs)
	if len(months) != 3 {
		t.Fatalf("got %d months, want July to September", len(months))
	}
	if months[0].In != money.FromCents(150_00) || months[0].Out != money.Zero {
		t.Errorf("July = %+v", months[0])
	}
	if months[1].Net() != money.Zero {
		t.Errorf("August should be empty, got %+v", months[1])
	}
	if months[2].Net() != money.FromCents(-40_00) {
		t.Errorf("September net = %s", months[2].Net())
	}
	if Monthly(ledger.NewTransactions()) != nil {
		t.Error("no transactions should give no months")
	}
}
