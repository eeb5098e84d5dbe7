// Package tui provides the interactive Bubble Tea browser for mb.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/mb/internal/budget"
	"github.com/theirongolddev/mb/internal/cli"
	"github.com/theirongolddev/mb/internal/ledger"
	"github.com/theirongolddev/mb/internal/money"
	"github.com/theirongolddev/mb/internal/tui/components"
	"github.com/theirongolddev/mb/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Options configures the browser.
type Options struct {
	MoneyDir string
	// CachePath is the SQLite cache to load through. Empty disables it.
	CachePath  string
	Allocation budget.Config
	Symbol     string
}

// DataLoadedMsg is sent when the data pipeline finishes.
type DataLoadedMsg struct {
	Transactions *ledger.Transactions
	Errors       []error
	LoadTime     time.Duration
}

// ProgressMsg reports file parsing progress.
type ProgressMsg struct {
	Current int
	Total   int
}

// App is the root Bubble Tea model.
type App struct {
	opts Options

	// Data
	txs      *ledger.Transactions
	loadErrs []error
	loaded   bool
	loadTime time.Duration

	// Allocation preview, computed on a clone of txs
	previewing bool
	preview    *ledger.Transactions
	transfers  map[int][]budget.Transfer // by transaction index
	previewErr error

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	table     table.Model

	// Loading
	spinner     spinner.Model
	progress    int
	progressMax int
	loadSub     chan tea.Msg
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180

	chromeHeight = 4 // tab bar, spacer, status bar, spacer
	detailWidth  = 44

	tabTransactions = 0
	tabBudgets      = 1
)

// NewApp creates the browser model.
func NewApp(opts Options) App {
	if opts.Symbol == "" {
		opts.Symbol = money.DefaultSymbol
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	return App{
		opts:    opts,
		txs:     ledger.NewTransactions(),
		table:   newTable(),
		spinner: sp,
		loadSub: make(chan tea.Msg, 1),
	}
}

func newTable() table.Model {
	t := theme.Active
	tbl := table.New(table.WithFocused(true))

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.Border).
		BorderBottom(true).
		Foreground(t.Accent).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(t.TextPrimary).
		Background(t.SurfaceHover).
		Bold(false)
	tbl.SetStyles(s)
	return tbl
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.opts, a.loadSub),
		a.spinner.Tick,
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layoutTable()
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if a.activeTab == tabTransactions {
				a.table.MoveUp(1)
			}
		case tea.MouseButtonWheelDown:
			if a.activeTab == tabTransactions {
				a.table.MoveDown(1)
			}
		case tea.MouseButtonLeft:
			if msg.Action == tea.MouseActionPress && msg.Y == 0 {
				if tab := components.TabAtX(msg.X, a.activeTab); tab >= 0 {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return a, tea.Quit
		}
		if !a.loaded {
			return a, nil
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		switch key {
		case "q", "esc":
			return a, tea.Quit
		case "a":
			a.togglePreview()
			return a, nil
		case "left", "shift+tab":
			a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
			return a, nil
		case "right", "tab":
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)
			return a, nil
		}
		if len(msg.Runes) == 1 {
			if tab := components.TabIdxByKey(msg.Runes[0]); tab >= 0 {
				a.activeTab = tab
				return a, nil
			}
		}

		if a.activeTab == tabTransactions {
			var cmd tea.Cmd
			a.table, cmd = a.table.Update(msg)
			return a, cmd
		}
		return a, nil

	case DataLoadedMsg:
		a.txs = msg.Transactions
		if a.txs == nil {
			a.txs = ledger.NewTransactions()
		}
		a.loadErrs = msg.Errors
		a.loadTime = msg.LoadTime
		a.loaded = true
		a.previewing = false
		a.preview = nil
		a.refreshRows()
		a.table.GotoTop()
		return a, nil

	case ProgressMsg:
		a.progress = msg.Current
		a.progressMax = msg.Total
		return a, waitForLoadMsg(a.loadSub)

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	return a, nil
}

// togglePreview switches between the ledger as stored and the ledger as
// it would look after allocation. The stored transactions are never
// modified.
func (a *App) togglePreview() {
	if a.previewing {
		a.previewing = false
		a.refreshRows()
		return
	}

	preview := a.txs.Clone()
	transfers, err := budget.Allocate(preview, a.opts.Allocation)
	a.previewErr = err
	if err != nil {
		return
	}

	index := make(map[*ledger.Transaction]int, preview.Len())
	for i, tx := range preview.All() {
		index[tx] = i
	}
	a.transfers = make(map[int][]budget.Transfer)
	for _, t := range transfers {
		i := index[t.Transaction]
		a.transfers[i] = append(a.transfers[i], t)
	}

	a.preview = preview
	a.previewing = true
	a.refreshRows()
}

// current returns the transactions on display.
func (a App) current() *ledger.Transactions {
	if a.previewing && a.preview != nil {
		return a.preview
	}
	return a.txs
}

// txIndex maps a table row to a transaction index. Rows list the newest
// transaction first.
func (a App) txIndex(row int) int {
	return a.txs.Len() - 1 - row
}

func (a *App) layoutTable() {
	w := a.contentWidth()
	if !a.isCompactLayout() {
		w -= detailWidth
	}
	descW := max(w-10-14-18-6-8, 12)
	a.table.SetColumns([]table.Column{
		{Title: "Date", Width: 10},
		{Title: "Description", Width: descW},
		{Title: "Amount", Width: 14},
		{Title: "Accounts", Width: 18},
		{Title: "", Width: 6},
	})
	a.table.SetWidth(w)

	h := max(a.height-chromeHeight, 3)
	if a.isCompactLayout() {
		h = max(h/2, 3)
	}
	a.table.SetHeight(h)
}

func (a *App) refreshRows() {
	txs := a.current()
	rows := make([]table.Row, 0, txs.Len())
	for row := range txs.Len() {
		i := a.txIndex(row)
		tx := txs.At(i)

		flag := ""
		switch {
		case !tx.Balanced():
			flag = "!"
		case a.previewing && len(a.transfers[i]) > 0:
			flag = fmt.Sprintf("+%d", len(a.transfers[i]))
		}
		rows = append(rows, table.Row{
			tx.Date.Format(ledger.DateLayout),
			tx.Description,
			tx.Amount.Format(a.opts.Symbol),
			strings.Join(tx.Accounts.Names(), ", "),
			flag,
		})
	}
	a.table.SetRows(rows)
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	return fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  mb needs at least %d columns.\n",
		a.width, minTerminalWidth)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	countStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ mb"))
	b.WriteString(subtitleStyle.Render(" · money & budgets"))
	b.WriteString("\n\n")

	if a.progressMax > 0 {
		barW := min(max(a.width-30, 20), 40)
		b.WriteString(a.spinner.View())
		b.WriteString(subtitleStyle.Render(" Parsing transactions\n\n"))
		b.WriteString(components.ProgressBar(float64(a.progress)/float64(a.progressMax), barW))
		b.WriteString("\n")
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progress))))
		b.WriteString(subtitleStyle.Render(" / "))
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progressMax))))
	} else {
		b.WriteString(a.spinner.View())
		b.WriteString(subtitleStyle.Render(" Discovering transactions..."))
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()))
}

func (a App) viewHelp() string {
	t := theme.Active
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	keys := []struct{ key, desc string }{
		{"t / b", "transactions / budgets tab"},
		{"← →", "previous / next tab"},
		{"j k ↑ ↓", "move selection"},
		{"g / G", "newest / oldest transaction"},
		{"a", "toggle allocation preview"},
		{"?", "toggle this help"},
		{"q", "quit"},
	}

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(keyStyle.Render(fmt.Sprintf("%-10s", k.key)))
		b.WriteString(descStyle.Render(k.desc))
		b.WriteString("\n")
	}
	card := components.ContentCard("Keys", strings.TrimSuffix(b.String(), "\n"), 48, true)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

func (a App) viewMain() string {
	w := a.contentWidth()

	var body string
	switch a.activeTab {
	case tabBudgets:
		body = a.viewBudgets(w)
	default:
		body = a.viewTransactions(w)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		components.RenderTabBar(a.activeTab, w),
		"",
		body,
		"",
		components.RenderStatusBar(w, "[?]help  [a]llocate preview  [q]uit", a.statusText()),
	)
}

func (a App) statusText() string {
	t := theme.Active
	switch {
	case a.previewErr != nil:
		return lipgloss.NewStyle().Foreground(t.Warning).Render("allocation: " + a.previewErr.Error())
	case len(a.loadErrs) > 0:
		return lipgloss.NewStyle().Foreground(t.Warning).Render(fmt.Sprintf("%d files failed to load", len(a.loadErrs)))
	case a.previewing:
		return lipgloss.NewStyle().Foreground(t.Preview).Render("PREVIEW (not saved)")
	}
	return fmt.Sprintf("%s transactions · loaded in %s",
		cli.FormatNumber(int64(a.txs.Len())), a.loadTime.Round(time.Millisecond))
}
