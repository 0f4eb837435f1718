package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/the-budget-must-balance/internal/insights"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
	"github.com/Veraticus/the-budget-must-balance/internal/service"
	"github.com/Veraticus/the-budget-must-balance/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrNoLedger is returned when the dashboard is built without a record store.
var ErrNoLedger = errors.New("ledger is required")

const (
	meterWidth = 40
	// Rows taken by everything above and below the expense table.
	chromeHeight = 26
	minTableRows = 3
)

// Model holds the dashboard state. Everything shown is recomputed from the
// ledger whenever the month changes or a mutation lands.
type Model struct {
	theme         themes.Theme
	lastError     error
	ledger        service.Ledger
	now           func() time.Time
	currency      model.Currency
	notice        string
	userName      string
	pendingDelete string
	expenses      []model.Expense
	trend         []insights.TrendPoint
	insights      insights.Insights
	keymap        KeyMap
	help          help.Model
	meter         progress.Model
	table         table.Model
	budget        float64
	year          int
	month         time.Month
	width         int
	height        int
	ready         bool
	quitting      bool
}

// New creates a dashboard model.
func New(opts ...Option) (Model, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Ledger == nil {
		return Model{}, ErrNoLedger
	}
	return newModel(cfg), nil
}

// newModel creates a new model with the given configuration.
func newModel(cfg Config) Model {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	year, month := cfg.Year, cfg.Month
	if year == 0 || month == 0 {
		today := now()
		year, month = today.Year(), today.Month()
	}

	meter := progress.New(
		progress.WithSolidFill(string(themes.Light.Success)),
		progress.WithoutPercentage(),
		progress.WithWidth(meterWidth),
	)

	t := table.New(
		table.WithColumns(expenseColumns()),
		table.WithFocused(true),
		table.WithHeight(minTableRows),
	)

	m := Model{
		ledger:   cfg.Ledger,
		now:      now,
		year:     year,
		month:    month,
		keymap:   DefaultKeyMap(),
		help:     help.New(),
		meter:    meter,
		table:    t,
		currency: model.DefaultCurrency(),
		width:    cfg.Width,
		height:   cfg.Height,
	}
	m.applyTheme(themes.GetTheme(cfg.Theme))
	m.handleResize()

	return m
}

func expenseColumns() []table.Column {
	return []table.Column{
		{Title: "Date", Width: 10},
		{Title: "Category", Width: 20},
		{Title: "Description", Width: 34},
		{Title: "Amount", Width: 12},
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return m.loadMonth()
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.handleResize()
		return m, nil

	case monthLoadedMsg:
		if msg.year != m.year || msg.month != m.month {
			// A newer navigation superseded this load.
			return m, nil
		}
		m.handleMonthLoaded(msg)
		return m, nil

	case themeSavedMsg:
		if msg.err != nil {
			m.lastError = msg.err
			return m, nil
		}
		m.applyTheme(themes.GetTheme(msg.theme))
		m.notice = fmt.Sprintf("%s Switched to %s theme", msg.theme.Emoji(), msg.theme)
		return m, nil

	case expenseDeletedMsg:
		if msg.err != nil {
			m.lastError = msg.err
			return m, nil
		}
		if msg.deleted {
			m.notice = "Expense deleted"
		} else {
			m.notice = "Expense no longer exists"
		}
		return m, m.loadMonth()
	}

	return m, nil
}

// handleKey handles keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	confirming := m.pendingDelete
	m.pendingDelete = ""

	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keymap.PrevMonth):
		m.shiftMonth(-1)
		return m, m.loadMonth()

	case key.Matches(msg, m.keymap.NextMonth):
		m.shiftMonth(1)
		return m, m.loadMonth()

	case key.Matches(msg, m.keymap.ThisMonth):
		today := m.now()
		m.year, m.month = today.Year(), today.Month()
		m.clearMessages()
		return m, m.loadMonth()

	case key.Matches(msg, m.keymap.Refresh):
		m.clearMessages()
		return m, m.loadMonth()

	case key.Matches(msg, m.keymap.ToggleTheme):
		return m, m.saveTheme(m.theme.Name.Toggle())

	case key.Matches(msg, m.keymap.Delete):
		return m.handleDelete(confirming)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// handleDelete asks for a second press before removing the selected expense.
func (m Model) handleDelete(confirming string) (tea.Model, tea.Cmd) {
	selected, ok := m.SelectedExpense()
	if !ok {
		m.notice = "Nothing to delete"
		return m, nil
	}
	if confirming == selected.ID {
		m.notice = ""
		return m, m.deleteExpense(selected.ID)
	}
	m.pendingDelete = selected.ID
	m.notice = fmt.Sprintf("Press d again to delete %q", selected.Description)
	return m, nil
}

// handleMonthLoaded recomputes everything derived from a fresh load.
func (m *Model) handleMonthLoaded(msg monthLoadedMsg) {
	m.ready = true
	if msg.err != nil {
		m.lastError = msg.err
		return
	}
	m.lastError = nil

	m.budget = msg.budget
	m.currency = msg.currency
	m.userName = msg.userName
	if msg.theme != m.theme.Name {
		m.applyTheme(themes.GetTheme(msg.theme))
	}

	m.expenses = insights.SortByDateDescending(msg.expenses)
	m.insights = insights.Compute(m.budget, m.expenses, insights.MonthReference(m.year, m.month, m.now()))
	m.trend = insights.TrendSeries(m.expenses)
	m.meter.FullColor = string(m.theme.StatusColor(m.insights.Status))

	cursor := m.table.Cursor()
	m.table.SetRows(m.expenseRows())
	if cursor >= len(m.expenses) {
		cursor = len(m.expenses) - 1
	}
	m.table.SetCursor(max(cursor, 0))
}

func (m Model) expenseRows() []table.Row {
	rows := make([]table.Row, 0, len(m.expenses))
	for _, e := range m.expenses {
		category, _ := model.CategoryByID(e.CategoryID())
		rows = append(rows, table.Row{
			string(e.Date),
			category.Emoji + " " + category.Name,
			e.Description,
			insights.FormatCurrency(e.Amount.Float64(), m.currency.Symbol),
		})
	}
	return rows
}

// shiftMonth moves the viewed month by delta months.
func (m *Model) shiftMonth(delta int) {
	first := time.Date(m.year, m.month+time.Month(delta), 1, 0, 0, 0, 0, time.UTC)
	m.year, m.month = first.Year(), first.Month()
	m.clearMessages()
}

func (m *Model) clearMessages() {
	m.notice = ""
	m.lastError = nil
}

// applyTheme restyles every component for theme.
func (m *Model) applyTheme(theme themes.Theme) {
	m.theme = theme

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Bold(true).
		Foreground(theme.Foreground)
	s.Cell = s.Cell.Foreground(theme.Foreground)
	s.Selected = theme.Selected
	m.table.SetStyles(s)

	m.meter.EmptyColor = string(theme.Track)
	if m.ready {
		m.meter.FullColor = string(theme.StatusColor(m.insights.Status))
	}
}

// handleResize adjusts component sizes when terminal resizes.
func (m *Model) handleResize() {
	m.help.Width = m.width
	m.table.SetHeight(max(m.height-chromeHeight, minTableRows))
	m.meter.Width = min(meterWidth, max(m.width-20, 10))
}

// SelectedExpense returns the expense under the table cursor.
func (m Model) SelectedExpense() (model.Expense, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.expenses) {
		return model.Expense{}, false
	}
	return m.expenses[i], true
}

// Month returns the month being viewed.
func (m Model) Month() (int, time.Month) {
	return m.year, m.month
}

// Insights returns the snapshot for the month being viewed.
func (m Model) Insights() insights.Insights {
	return m.insights
}

// Theme returns the active theme.
func (m Model) Theme() model.Theme {
	return m.theme.Name
}

// Err returns the last storage failure, if any.
func (m Model) Err() error {
	return m.lastError
}
