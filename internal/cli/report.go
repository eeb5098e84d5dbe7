package cli

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/mb/internal/budget"
	"github.com/theirongolddev/mb/internal/ledger"
	"github.com/theirongolddev/mb/internal/money"
	"github.com/theirongolddev/mb/internal/pipeline"
)

// RenderReport renders one row per transaction with a column for every
// account and every budget, followed by a totals row.
func RenderReport(txs *ledger.Transactions, symbol string) string {
	accounts := txs.AccountNames()
	budgets := txs.BudgetNames()

	headers := []string{"Date", "Description"}
	for _, name := range accounts {
		headers = append(headers, "A: "+name)
	}
	for _, name := range budgets {
		headers = append(headers, "B: "+name)
	}

	cell := func(e *ledger.Entries, name string) string {
		if a, ok := e.AmountFor(name); ok {
			return FormatAmount(a, symbol)
		}
		return ""
	}

	rows := make([][]string, 0, txs.Len()+2)
	for _, tx := range txs.All() {
		description := tx.Description
		if !tx.Balanced() {
			description = warnStyle.Render(description + " (unbalanced)")
		}
		row := []string{tx.Date.Format(ledger.DateLayout), description}
		for _, name := range accounts {
			row = append(row, cell(tx.Accounts, name))
		}
		for _, name := range budgets {
			row = append(row, cell(tx.Budgets, name))
		}
		rows = append(rows, row)
	}

	totals := []string{"", "Total"}
	for _, name := range accounts {
		totals = append(totals, FormatAmount(txs.AccountTotal(name), symbol))
	}
	for _, name := range budgets {
		totals = append(totals, FormatAmount(txs.BudgetTotal(name), symbol))
	}
	rows = append(rows, []string{Separator}, totals)

	return RenderTable(Table{
		Title:    "Transactions",
		Headers:  headers,
		Rows:     rows,
		LeftCols: 2,
	})
}

// RenderBudgets renders account balances and budget funding from a
// summary.
func RenderBudgets(s pipeline.Summary, symbol string) string {
	var b strings.Builder

	period := "no transactions"
	if s.Transactions > 0 {
		period = fmt.Sprintf("%s transactions, %s to %s",
			FormatNumber(int64(s.Transactions)),
			s.First.Format(ledger.DateLayout),
			s.Last.Format(ledger.DateLayout),
		)
	}
	b.WriteString(RenderTitle("Budgets"))
	b.WriteString("\n  ")
	b.WriteString(RenderMuted(period))
	b.WriteString("\n\n")

	accountRows := make([][]string, 0, len(s.Accounts)+2)
	for _, a := range s.Accounts {
		accountRows = append(accountRows, []string{a.Name, FormatAmount(a.Total, symbol)})
	}
	accountRows = append(accountRows, []string{Separator}, []string{"Total", FormatAmount(s.Total, symbol)})
	b.WriteString(RenderTable(Table{
		Title:   "Accounts",
		Headers: []string{"Account", "Balance"},
		Rows:    accountRows,
	}))
	b.WriteString("\n")

	budgetRows := make([][]string, 0, len(s.Budgets))
	for _, bb := range s.Budgets {
		row := []string{bb.Name, FormatAmount(bb.Total, symbol), "", "", "", ""}
		if st := bb.Target; st != nil {
			row[2] = st.Monthly.Format(symbol)
			row[3] = FormatMonths(st.MonthsFilled)
			row[4] = FormatAmount(st.Missing, symbol)
			row[5] = RenderProgressBar(nextMonthProgress(*st), 12)
		}
		budgetRows = append(budgetRows, row)
	}
	b.WriteString(RenderTable(Table{
		Title:   "Budgets",
		Headers: []string{"Budget", "Balance", "Monthly", "Funded", "Missing", "Next month"},
		Rows:    budgetRows,
	}))

	if s.Unbalanced > 0 {
		b.WriteString(RenderWarning(fmt.Sprintf("%d unbalanced transactions", s.Unbalanced)))
		b.WriteString("\n")
	}
	return b.String()
}

// nextMonthProgress is the fraction of the next month already funded.
func nextMonthProgress(st budget.TargetStatus) float64 {
	if !st.Monthly.IsPositive() {
		return 0
	}
	return st.Monthly.Sub(st.Missing).Ratio(st.Monthly)
}

// RenderTransfers lists allocation transfers grouped under their
// transaction.
func RenderTransfers(transfers []budget.Transfer, symbol string) string {
	if len(transfers) == 0 {
		return "  " + RenderMuted("Nothing to allocate.") + "\n"
	}

	rows := make([][]string, 0, len(transfers)+2)
	total := money.Zero
	var last *ledger.Transaction
	for _, t := range transfers {
		date, description := "", ""
		if t.Transaction != last {
			date = t.Transaction.Date.Format(ledger.DateLayout)
			description = t.Transaction.Description
			last = t.Transaction
		}
		rows = append(rows, []string{date, description, t.Target, FormatAmount(t.Amount, symbol)})
		total = total.Add(t.Amount)
	}
	rows = append(rows, []string{Separator}, []string{"", "Total", "", FormatAmount(total, symbol)})

	return RenderTable(Table{
		Title:    "Allocations",
		Headers:  []string{"Date", "Description", "Budget", "Amount"},
		Rows:     rows,
		LeftCols: 3,
	})
}
