package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/mb/internal/budget"
	"github.com/theirongolddev/mb/internal/ledger"
	"github.com/theirongolddev/mb/internal/money"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func testApp(t *testing.T) App {
	t.Helper()

	salary := ledger.NewTransaction(time.Date(2021, 7, 1, 0, 0, 0, 0, time.UTC), "Salary", money.FromCents(300_00))
	salary.Accounts.Insert("Giro", money.FromCents(300_00))
	salary.Budgets.Insert("Unallocated", money.FromCents(300_00))

	lunch := ledger.NewTransaction(time.Date(2021, 7, 2, 0, 0, 0, 0, time.UTC), "Lunch", money.FromCents(-12_50))
	lunch.Accounts.Insert("Giro", money.FromCents(-12_50))
	lunch.Budgets.Insert("Food", money.FromCents(-12_50))

	app := NewApp(Options{
		MoneyDir: "/money",
		Allocation: budget.Config{
			Unallocated: "Unallocated",
			Targets:     []budget.Target{{Name: "Food", Monthly: money.FromCents(100_00)}},
		},
	})
	app = update(t, app, tea.WindowSizeMsg{Width: 140, Height: 40})
	return update(t, app, DataLoadedMsg{Transactions: ledger.NewTransactions(salary, lunch)})
}

func update(t *testing.T, a App, msg tea.Msg) App {
	t.Helper()
	m, _ := a.Update(msg)
	app, ok := m.(App)
	if !ok {
		t.Fatalf("Update returned %T", m)
	}
	return app
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestDataLoaded(t *testing.T) {
	app := testApp(t)
	if !app.loaded {
		t.Fatal("app not marked loaded")
	}
	rows := app.table.Rows()
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0][1] != "Lunch" {
		t.Fatalf("first row = %v, want newest transaction first", rows[0])
	}
	if i, ok := app.selected(); !ok || app.txs.At(i).Description != "Lunch" {
		t.Fatalf("selected = %d, %v", i, ok)
	}
}

func TestPreviewLeavesStoredTransactionsAlone(t *testing.T) {
	app := testApp(t)
	app = update(t, app, runeKey('a'))
	if !app.previewing {
		t.Fatalf("preview not active (err %v)", app.previewErr)
	}

	stored := app.txs.At(0)
	if got, _ := stored.Budgets.AmountFor("Unallocated"); got != money.FromCents(300_00) {
		t.Fatalf("stored pool = %s, want 300.00", got)
	}
	if stored.Budgets.Has("Food") {
		t.Fatal("stored transaction was allocated")
	}

	previewed := app.current().At(0)
	if got, _ := previewed.Budgets.AmountFor("Food"); got != money.FromCents(300_00) {
		t.Fatalf("previewed Food = %s, want 300.00", got)
	}
	if len(app.transfers[0]) == 0 {
		t.Fatal("no transfers recorded for the salary")
	}

	// Salary is the second row.
	if flag := app.table.Rows()[1][4]; !strings.HasPrefix(flag, "+") {
		t.Fatalf("salary flag = %q, want transfer count", flag)
	}

	app = update(t, app, runeKey('a'))
	if app.previewing || app.current() != app.txs {
		t.Fatal("second toggle did not leave preview")
	}
}

func TestPreviewInvalidConfig(t *testing.T) {
	app := testApp(t)
	app.opts.Allocation.Targets = append(app.opts.Allocation.Targets, app.opts.Allocation.Targets[0])
	app = update(t, app, runeKey('a'))
	if app.previewing || app.previewErr == nil {
		t.Fatalf("previewing = %v, err = %v", app.previewing, app.previewErr)
	}
}

func TestTabKeys(t *testing.T) {
	app := testApp(t)

	app = update(t, app, runeKey('b'))
	if app.activeTab != tabBudgets {
		t.Fatalf("activeTab = %d after 'b'", app.activeTab)
	}
	app = update(t, app, tea.KeyMsg{Type: tea.KeyRight})
	if app.activeTab != tabTransactions {
		t.Fatalf("activeTab = %d after right, want wrap to transactions", app.activeTab)
	}
	app = update(t, app, tea.KeyMsg{Type: tea.KeyLeft})
	if app.activeTab != tabBudgets {
		t.Fatalf("activeTab = %d after left", app.activeTab)
	}
	app = update(t, app, runeKey('t'))
	if app.activeTab != tabTransactions {
		t.Fatalf("activeTab = %d after 't'", app.activeTab)
	}
}

func TestHelpSwallowsNextKey(t *testing.T) {
	app := testApp(t)
	app = update(t, app, runeKey('?'))
	if !app.showHelp {
		t.Fatal("help not shown")
	}
	app = update(t, app, runeKey('b'))
	if app.showHelp || app.activeTab != tabTransactions {
		t.Fatalf("showHelp = %v, activeTab = %d", app.showHelp, app.activeTab)
	}
}

func TestKeysIgnoredWhileLoading(t *testing.T) {
	app := NewApp(Options{})
	app = update(t, app, runeKey('b'))
	if app.activeTab != tabTransactions {
		t.Fatal("tab switched before data loaded")
	}
}

func TestViewTooNarrow(t *testing.T) {
	app := testApp(t)
	app = update(t, app, tea.WindowSizeMsg{Width: 60, Height: 20})
	if !strings.Contains(app.View(), "Terminal too narrow") {
		t.Fatal("narrow terminal not reported")
	}
}

func TestViewsRender(t *testing.T) {
	app := testApp(t)
	if v := app.View(); !strings.Contains(v, "Lunch") {
		t.Fatal("transactions view does not list Lunch")
	}
	app = update(t, app, runeKey('b'))
	if v := app.View(); !strings.Contains(v, "Food") {
		t.Fatal("budgets view does not list the Food target")
	}
}
