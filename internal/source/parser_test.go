package source

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/mb/internal/ledger"
	"github.com/theirongolddev/mb/internal/money"
)

// writeFile creates a transaction file in dir and returns a DiscoveredFile for it.
func writeFile(t *testing.T, dir, name, content string) DiscoveredFile {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return DiscoveredFile{Path: path, Name: name}
}

func TestParseFile_InlineTablesKeepOrder(t *testing.T) {
	df := writeFile(t, t.TempDir(), "2021-07-18_0.toml", `
date = 2021-07-18
description = "Salary"
amount = "1500.00"
accounts = {Giro = "1500.00"}
budgets = {Unallocated = "1000.00", "Rent & Bills" = "300.00", Food = 20000}
`)

	result := ParseFile(df)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	tx := result.Transaction

	if got := tx.Date.Format(ledger.DateLayout); got != "2021-07-18" {
		t.Errorf("Date = %s, want 2021-07-18", got)
	}
	if tx.Amount != money.FromCents(1500_00) {
		t.Errorf("Amount = %s, want 1500.00€", tx.Amount)
	}
	want := []string{"Unallocated", "Rent & Bills", "Food"}
	if got := tx.Budgets.Names(); !slices.Equal(got, want) {
		t.Errorf("budget order = %v, want %v", got, want)
	}
	if a, _ := tx.Budgets.AmountFor("Food"); a != money.FromCents(200_00) {
		t.Errorf("Food = %s, want 200.00€ from integer cents", a)
	}
	if !tx.Balanced() {
		t.Error("transaction should be balanced")
	}
}

func TestParseFile_StandardTables(t *testing.T) {
	df := writeFile(t, t.TempDir(), "a.toml", `
date = "2021-07-19"
description = "Groceries"
amount = "-23.40"

[accounts]
Cash = "-23.40"

[budgets]
Zeta = "-3.40"
Alpha = "-20.00"
`)

	result := ParseFile(df)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if got := result.Transaction.Budgets.Names(); !slices.Equal(got, []string{"Zeta", "Alpha"}) {
		t.Errorf("budget order = %v, want document order", got)
	}
}

func TestParseFile_RejectsUnknownKeys(t *testing.T) {
	df := writeFile(t, t.TempDir(), "a.toml", `
date = 2021-07-19
description = "Groceries"
amount = "-23.40"
budget = {Food = "-23.40"}
`)

	result := ParseFile(df)
	if !errors.Is(result.Err, ErrInvalidKeys) {
		t.Fatalf("err = %v, want ErrInvalidKeys", result.Err)
	}
	if !strings.Contains(result.Err.Error(), "budget") {
		t.Errorf("err = %v, want it to name the key", result.Err)
	}
}

func TestParseFile_MissingDate(t *testing.T) {
	df := writeFile(t, t.TempDir(), "a.toml", "description = \"x\"\namount = \"1.00\"\n")
	if result := ParseFile(df); result.Err == nil {
		t.Fatal("expected an error for a file without date")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tx := ledger.NewTransaction(time.Date(2021, 7, 18, 0, 0, 0, 0, time.UTC), `Quote "me" \ now`, money.FromCents(-12_05))
	tx.Accounts.Insert("Giro", money.FromCents(-12_05))
	tx.Budgets.Insert("Zeta", money.FromCents(-2_05))
	tx.Budgets.Insert("Dining out", money.FromCents(-10_00))

	data, err := Encode(tx)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(string(data), "date = 2021-07-18") {
		t.Errorf("date not written as a local date:\n%s", data)
	}
	if !strings.Contains(string(data), `budgets = {Zeta = "-2.05", "Dining out" = "-10.00"}`) {
		t.Errorf("budgets not written inline in order:\n%s", data)
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v\n%s", err, data)
	}
	if !got.Date.Equal(tx.Date) || got.Description != tx.Description || got.Amount != tx.Amount {
		t.Fatalf("decoded %+v, want %+v", got, tx)
	}
	if !got.Budgets.Equal(tx.Budgets) || !got.Accounts.Equal(tx.Accounts) {
		t.Fatalf("entries changed across round trip:\n%s", data)
	}

	again, err := Encode(got)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(again) != string(data) {
		t.Fatalf("re-encoding differs:\n%s\nvs\n%s", data, again)
	}
}

func TestScanDirAndNextFileName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "2021-07-18_0.toml", "")
	writeFile(t, dir, "notes.txt", "")
	if err := os.MkdirAll(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, ".git"), "config.toml", "")

	files, err := ScanDir(dir)
	if err != nil {
		t.Fatalf("ScanDir: %v", err)
	}
	if len(files) != 1 || files[0].Name != "2021-07-18_0.toml" {
		t.Fatalf("files = %+v", files)
	}

	next := NextFileName(dir, time.Date(2021, 7, 18, 0, 0, 0, 0, time.UTC))
	if filepath.Base(next) != "2021-07-18_1.toml" {
		t.Fatalf("NextFileName = %s, want 2021-07-18_1.toml", next)
	}

	missing, err := ScanDir(filepath.Join(dir, "missing"))
	if err != nil || missing != nil {
		t.Fatalf("ScanDir(missing) = %v, %v", missing, err)
	}
}

func TestNextFileNameContinuesAfterHighest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "2021-07-18_0.toml", "")
	writeFile(t, dir, "2021-07-18_11.toml", "")
	writeFile(t, dir, "2021-07-19_40.toml", "")

	next := NextFileName(dir, time.Date(2021, 7, 18, 0, 0, 0, 0, time.UTC))
	if filepath.Base(next) != "2021-07-18_12.toml" {
		t.Fatalf("NextFileName = %s, want 2021-07-18_12.toml", next)
	}

	empty := NextFileName(filepath.Join(dir, "missing"), time.Date(2021, 7, 18, 0, 0, 0, 0, time.UTC))
	if filepath.Base(empty) != "2021-07-18_0.toml" {
		t.Fatalf("NextFileName(missing dir) = %s", empty)
	}
}

func TestComparePathsUsesSequenceNumber(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"m/2021-07-01_2.toml", "m/2021-07-01_10.toml", -1},
		{"m/2021-07-01_10.toml", "m/2021-07-01_9.toml", 1},
		{"m/2021-07-01_3.toml", "m/2021-07-01_3.toml", 0},
		{"m/2021-07-01_10.toml", "m/2021-07-02_0.toml", -1},
		{"m/a/2021-07-02_0.toml", "m/b/2021-07-01_0.toml", -1},
		{"m/notes.toml", "m/other.toml", -1},
	}
	for _, tt := range tests {
		if got := ComparePaths(tt.a, tt.b); got != tt.want {
			t.Errorf("ComparePaths(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestScanDirSortsBySequenceNumber(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"2021-07-01_10.toml", "2021-07-01_2.toml", "2021-07-01_0.toml"} {
		writeFile(t, dir, name, "")
	}
	files, err := ScanDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, f := range files {
		names = append(names, f.Name)
	}
	want := []string{"2021-07-01_0.toml", "2021-07-01_2.toml", "2021-07-01_10.toml"}
	if !slices.Equal(names, want) {
		t.Fatalf("ScanDir order = %v, want %v", names, want)
	}
}
