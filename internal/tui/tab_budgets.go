package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/mb/internal/cli"
	"github.com/theirongolddev/mb/internal/ledger"
	"github.com/theirongolddev/mb/internal/pipeline"
	"github.com/theirongolddev/mb/internal/tui/components"
	"github.com/theirongolddev/mb/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) viewBudgets(w int) string {
	t := theme.Active
	txs := a.current()
	s := pipeline.Summarize(txs, a.opts.Allocation)

	unbalanced := cli.FormatNumber(int64(s.Unbalanced))
	metrics := []components.Metric{
		{Label: "Balance", Value: s.Total.Format(a.opts.Symbol), Note: fmt.Sprintf("%d accounts", len(s.Accounts))},
		{Label: "Unallocated", Value: s.Unallocated.Format(a.opts.Symbol), Note: a.opts.Allocation.Unallocated},
		{Label: "Transactions", Value: cli.FormatNumber(int64(s.Transactions)), Note: dateRange(s)},
		{Label: "Unbalanced", Value: unbalanced},
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow(metrics, w))
	b.WriteString("\n")

	inner := components.CardInnerWidth(w)
	labelW := 18
	detailW := 28
	barW := max(inner-labelW-detailW-8, 10)

	var targets []string
	var others []string
	for _, bb := range s.Budgets {
		if st := bb.Target; st != nil {
			pct := 0.0
			if st.Monthly.IsPositive() {
				pct = st.Monthly.Sub(st.Missing).Ratio(st.Monthly)
			}
			detail := fmt.Sprintf("%s funded, %s missing", cli.FormatMonths(st.MonthsFilled), st.Missing.Format(a.opts.Symbol))
			targets = append(targets, components.FundingBar(bb.Name, pct, detail, labelW, barW))
			continue
		}
		others = append(others, a.amountLine(bb.Name, bb.Total, min(inner, 40)))
	}

	title := "Targets"
	if a.previewing {
		title += " (after allocation)"
	}
	if len(targets) == 0 {
		targets = []string{lipgloss.NewStyle().Foreground(t.TextDim).Render("No targets configured")}
	}
	b.WriteString(components.ContentCard(title, strings.Join(targets, "\n"), w, a.previewing))
	b.WriteString("\n")

	widths := components.LayoutRow(w, 2)
	if len(others) == 0 {
		others = []string{lipgloss.NewStyle().Foreground(t.TextDim).Render("none")}
	}
	left := components.ContentCard("Other budgets", strings.Join(others, "\n"), widths[0], false)
	right := components.ContentCard("Monthly net", a.monthlyChart(txs, components.CardInnerWidth(widths[1])), widths[1], false)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))

	return b.String()
}

func dateRange(s pipeline.Summary) string {
	if s.Transactions == 0 {
		return ""
	}
	return s.First.Format("Jan 2006") + " to " + s.Last.Format("Jan 2006")
}

// monthlyChart renders a sparkline of monthly net flow over the last
// width months.
func (a App) monthlyChart(txs *ledger.Transactions, width int) string {
	months := pipeline.Monthly(txs)
	if len(months) == 0 {
		return ""
	}
	if len(months) > width {
		months = months[len(months)-width:]
	}

	values := make([]float64, len(months))
	for i, m := range months {
		values[i] = float64(m.Net().Cents())
	}
	last := months[len(months)-1]

	t := theme.Active
	return components.Sparkline(values, t.Accent) + "\n" +
		a.amountLine(last.Month.Format("Jan 2006"), last.Net(), min(width, 40))
}
