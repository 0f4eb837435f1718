package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Veraticus/the-budget-must-balance/internal/insights"
	"github.com/charmbracelet/lipgloss"
)

const (
	barWidth     = 20
	sideBySideAt = 100
)

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return m.renderLoading()
	}

	sections := []string{
		m.renderHeader(),
		m.renderSummary(),
	}

	breakdown := m.renderCategories()
	trend := m.renderTrend()
	if m.width >= sideBySideAt {
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, breakdown, " ", trend))
	} else {
		sections = append(sections, breakdown, trend)
	}

	sections = append(sections,
		m.renderExpenses(),
		m.renderStatusLine(),
		m.help.View(m.keymap),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderLoading renders the loading screen.
func (m Model) renderLoading() string {
	content := lipgloss.JoinVertical(
		lipgloss.Center,
		m.theme.Title.Render("💰 Budget Tracker"),
		"",
		m.theme.Muted.Render("Loading "+monthTitle(m.year, m.month)+"..."),
	)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) renderHeader() string {
	left := m.theme.Title.Render("💰 Budget Tracker")
	if m.userName != "" {
		left += m.theme.Muted.Render("  Hi, " + m.userName + "!")
	}
	right := m.theme.Subtitle.Render("◀ " + monthTitle(m.year, m.month) + " ▶")

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 2)
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) renderSummary() string {
	ins := m.insights
	status := m.theme.Status(ins.Status)

	remainingStyle := m.theme.StatusSuccess
	if ins.Remaining < 0 {
		remainingStyle = m.theme.StatusError
	}

	figures := lipgloss.JoinHorizontal(lipgloss.Top,
		m.figure("Budget", m.theme.Bold.Render(m.money(m.budget))),
		m.figure("Spent", m.theme.Bold.Render(m.money(ins.Total))),
		m.figure("Remaining", remainingStyle.Render(m.money(ins.Remaining))),
	)

	meter := fmt.Sprintf("%s %s", m.meter.ViewAs(math.Min(ins.Percentage, 100)/100),
		status.Render(fmt.Sprintf("%.0f%%", ins.Percentage)))

	projected := m.theme.StatusSuccess.Render(m.money(ins.Projected))
	if !ins.CanAffordProjected {
		projected = m.theme.StatusWarning.Render(m.money(ins.Projected) + " (over budget)")
	}

	lines := []string{
		figures,
		meter,
		fmt.Sprintf("%s %s  %s", ins.Status.Emoji, status.Render(ins.Status.Label), m.theme.Muted.Render(ins.Status.Message)),
		fmt.Sprintf("Daily average %s   Projected %s   Left per day %s over %d days",
			m.theme.Bold.Render(m.money(ins.DailyAverage)), projected,
			m.theme.Bold.Render(m.money(ins.BudgetPerDay)), ins.DaysRemaining),
	}

	return m.theme.RoundedBox.Render(strings.Join(lines, "\n"))
}

func (m Model) figure(label, value string) string {
	return lipgloss.NewStyle().Width(22).Render(m.theme.Muted.Render(label) + "\n" + value)
}

func (m Model) renderCategories() string {
	title := m.theme.Subtitle.Render("By category")
	if len(m.insights.CategoryTotals) == 0 {
		return m.theme.RoundedBox.Render(title + "\n" + m.theme.Muted.Render("No expenses this month"))
	}

	lines := []string{title}
	for _, ct := range m.insights.CategoryTotals {
		share := 0.0
		if m.insights.Total > 0 {
			share = ct.Total / m.insights.Total
		}
		filled := int(math.Round(share * barWidth))
		bar := lipgloss.NewStyle().Foreground(m.theme.CategoryColor(ct.Category)).Render(strings.Repeat("█", filled)) +
			lipgloss.NewStyle().Foreground(m.theme.Track).Render(strings.Repeat("░", barWidth-filled))

		lines = append(lines, fmt.Sprintf("%s %-17s %s %10s %3.0f%%",
			ct.Emoji, truncate(ct.Name, 17), bar, m.money(ct.Total), share*100))
	}

	return m.theme.RoundedBox.Render(strings.Join(lines, "\n"))
}

func (m Model) renderTrend() string {
	title := m.theme.Subtitle.Render("Daily trend")
	if len(m.trend) == 0 {
		return m.theme.RoundedBox.Render(title + "\n" + m.theme.Muted.Render("No spending yet"))
	}

	first, last := m.trend[0], m.trend[len(m.trend)-1]
	lines := []string{
		title,
		lipgloss.NewStyle().Foreground(m.theme.Primary).Render(Sparkline(m.trend)),
		m.theme.Muted.Render(fmt.Sprintf("%s → %s", first.Label, last.Label)),
		fmt.Sprintf("Latest %s (3-day avg %s)", m.money(last.Amount), m.money(last.Trend)),
	}

	return m.theme.RoundedBox.Render(strings.Join(lines, "\n"))
}

func (m Model) renderExpenses() string {
	title := m.theme.Subtitle.Render(fmt.Sprintf("Expenses (%d)", len(m.expenses)))
	if len(m.expenses) == 0 {
		return title + "\n" + m.theme.Muted.Render("Nothing logged for this month. Add one with `budget add`.")
	}
	return title + "\n" + m.table.View()
}

func (m Model) renderStatusLine() string {
	switch {
	case m.lastError != nil:
		return m.theme.StatusError.Render("✗ " + m.lastError.Error())
	case m.notice != "":
		return m.theme.StatusInfo.Render(m.notice)
	default:
		return ""
	}
}

func (m Model) money(v float64) string {
	return insights.FormatCurrency(v, m.currency.Symbol)
}

// Sparkline renders the smoothed trend as one block character per day.
func Sparkline(points []insights.TrendPoint) string {
	peak := 0.0
	for _, p := range points {
		peak = math.Max(peak, p.Trend)
	}

	var b strings.Builder
	for _, p := range points {
		level := 0
		if peak > 0 && p.Trend > 0 {
			level = int(math.Round(p.Trend / peak * float64(len(sparkLevels)-1)))
		}
		b.WriteRune(sparkLevels[level])
	}
	return b.String()
}

func monthTitle(year int, month time.Month) string {
	return fmt.Sprintf("%s %d", month, year)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
