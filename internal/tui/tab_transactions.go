package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/mb/internal/ledger"
	"github.com/theirongolddev/mb/internal/money"
	"github.com/theirongolddev/mb/internal/tui/components"
	"github.com/theirongolddev/mb/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) viewTransactions(w int) string {
	if a.txs.Len() == 0 {
		return lipgloss.NewStyle().Foreground(theme.Active.TextMuted).
			Render(fmt.Sprintf("  No transactions in %s", a.opts.MoneyDir))
	}

	tbl := a.table.View()
	if a.isCompactLayout() {
		return lipgloss.JoinVertical(lipgloss.Left, tbl, a.viewDetail(w))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tbl, a.viewDetail(detailWidth))
}

// selected returns the index of the transaction under the cursor.
func (a App) selected() (int, bool) {
	if a.txs.Len() == 0 {
		return 0, false
	}
	i := a.txIndex(a.table.Cursor())
	if i < 0 || i >= a.txs.Len() {
		return 0, false
	}
	return i, true
}

func (a App) viewDetail(outerWidth int) string {
	i, ok := a.selected()
	if !ok {
		return ""
	}
	t := theme.Active
	tx := a.current().At(i)
	stored := a.txs.At(i)
	inner := components.CardInnerWidth(outerWidth)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	headStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)

	var b strings.Builder
	b.WriteString(valueStyle.Render(lipgloss.NewStyle().Width(inner).Render(tx.Description)))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(tx.Date.Format("Monday, 2 January 2006")))
	b.WriteString("\n")
	b.WriteString(a.amountLine("Amount", tx.Amount, inner))
	if !tx.Balanced() {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(t.Warning).Render("Entries do not add up to the amount"))
	}

	b.WriteString("\n\n")
	b.WriteString(headStyle.Render("Accounts"))
	b.WriteString("\n")
	b.WriteString(a.entryLines(tx.Accounts, nil, inner))

	b.WriteString("\n\n")
	b.WriteString(headStyle.Render("Budgets"))
	b.WriteString("\n")
	var before *ledger.Entries
	if a.previewing {
		before = stored.Budgets
	}
	b.WriteString(a.entryLines(tx.Budgets, before, inner))

	if transfers := a.transfers[i]; a.previewing && len(transfers) > 0 {
		b.WriteString("\n\n")
		b.WriteString(headStyle.Render("Allocation"))
		for _, tr := range transfers {
			b.WriteString("\n")
			b.WriteString(a.amountLine("→ "+tr.Target, tr.Amount, inner))
		}
	}

	return components.ContentCard("Details", b.String(), outerWidth, a.previewing)
}

// entryLines lists entries with their amounts. When before is given,
// entries that differ from it are marked.
func (a App) entryLines(e, before *ledger.Entries, width int) string {
	if e.Len() == 0 {
		return lipgloss.NewStyle().Foreground(theme.Active.TextDim).Render("none")
	}
	var lines []string
	for name, amount := range e.All() {
		label := name
		if before != nil {
			if old, ok := before.AmountFor(name); !ok || old != amount {
				label = lipgloss.NewStyle().Foreground(theme.Active.Preview).Render("* " + name)
			}
		}
		lines = append(lines, a.amountLine(label, amount, width))
	}
	return strings.Join(lines, "\n")
}

// amountLine renders label left and a colored amount right-aligned to width.
func (a App) amountLine(label string, amount money.Amount, width int) string {
	t := theme.Active
	value := lipgloss.NewStyle().Foreground(t.AmountColor(amount.IsNegative())).
		Render(amount.Format(a.opts.Symbol))
	gap := max(width-lipgloss.Width(label)-lipgloss.Width(value), 1)
	return lipgloss.NewStyle().Foreground(t.TextMuted).Render(label) + strings.Repeat(" ", gap) + value
}
