package store

import (
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/theirongolddev/mb/internal/ledger"
	"github.com/theirongolddev/mb/internal/money"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache", "transactions.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestSaveAndLoadTransaction(t *testing.T) {
	c := openTestCache(t)

	tx := ledger.NewTransaction(time.Date(2021, 7, 18, 0, 0, 0, 0, time.UTC), "Salary", money.FromCents(1500_00))
	tx.Accounts.Insert("Giro", money.FromCents(1500_00))
	tx.Budgets.Insert("Zeta", money.FromCents(500_00))
	tx.Budgets.Insert("Alpha", money.FromCents(1000_00))

	if err := c.SaveTransaction("/money/a.toml", tx, 42, 128); err != nil {
		t.Fatalf("SaveTransaction: %v", err)
	}

	tracked, err := c.GetTrackedFiles()
	if err != nil {
		t.Fatalf("GetTrackedFiles: %v", err)
	}
	if fi := tracked["/money/a.toml"]; fi.MtimeNs != 42 || fi.SizeBytes != 128 {
		t.Fatalf("tracked = %+v", fi)
	}

	records, err := c.LoadAllTransactions()
	if err != nil {
		t.Fatalf("LoadAllTransactions: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	got := records[0].Transaction
	if records[0].Path != "/money/a.toml" || got.Description != "Salary" || got.Amount != tx.Amount {
		t.Fatalf("record = %+v", records[0])
	}
	if !got.Date.Equal(tx.Date) {
		t.Errorf("Date = %v, want %v", got.Date, tx.Date)
	}
	if names := got.Budgets.Names(); !slices.Equal(names, []string{"Zeta", "Alpha"}) {
		t.Errorf("budget order = %v, want [Zeta Alpha]", names)
	}
	if !got.Accounts.Equal(tx.Accounts) {
		t.Errorf("accounts differ")
	}
}

func TestSaveTransactionReplacesEntries(t *testing.T) {
	c := openTestCache(t)
	day := time.Date(2021, 7, 18, 0, 0, 0, 0, time.UTC)

	first := ledger.NewTransaction(day, "x", money.FromCents(-5_00))
	first.Budgets.Insert("Food", money.FromCents(-5_00))
	first.Budgets.Insert("Fun", money.FromCents(0))
	if err := c.SaveTransaction("/money/a.toml", first, 1, 1); err != nil {
		t.Fatal(err)
	}

	second := ledger.NewTransaction(day, "x", money.FromCents(-5_00))
	second.Budgets.Insert("Food", money.FromCents(-5_00))
	if err := c.SaveTransaction("/money/a.toml", second, 2, 1); err != nil {
		t.Fatal(err)
	}

	records, err := c.LoadAllTransactions()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Transaction.Budgets.Len() != 1 {
		t.Fatalf("stale entries survived: %+v", records)
	}
}

func TestDeleteFile(t *testing.T) {
	c := openTestCache(t)
	day := time.Date(2021, 7, 18, 0, 0, 0, 0, time.UTC)

	for _, p := range []string{"/money/a.toml", "/money/b.toml"} {
		if err := c.SaveTransaction(p, ledger.NewTransaction(day, p, money.Zero), 1, 1); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.DeleteFile("/money/a.toml"); err != nil {
		t.Fatalf("DeleteFile: %v", err)
	}

	n, err := c.TransactionCount()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("TransactionCount = %d, want 1", n)
	}
	tracked, _ := c.GetTrackedFiles()
	if _, ok := tracked["/money/a.toml"]; ok {
		t.Fatal("deleted file still tracked")
	}
}
