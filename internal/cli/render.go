package cli

import (
	"fmt"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/Veraticus/the-budget-must-balance/internal/insights"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
	"github.com/charmbracelet/lipgloss"
)

const meterWidth = 30

// Meter draws a bar filled to percentage, capped at full.
func Meter(percentage float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(math.Round(math.Max(0, math.Min(percentage, 100)) / 100 * float64(width)))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// RenderSummary renders the budget cards, meter and status message for a month.
func RenderSummary(title string, budget float64, ins insights.Insights, currency model.Currency) string {
	money := func(v float64) string { return insights.FormatCurrency(v, currency.Symbol) }
	status := StatusStyle(ins.Status)

	remainingIcon := "✨"
	remainingStyle := SuccessStyle
	if ins.Remaining < 0 {
		remainingIcon = "⚠️"
		remainingStyle = ErrorStyle
	}

	lines := []string{
		fmt.Sprintf("💰 Monthly Budget   %s", BoldStyle.Render(money(budget))),
		fmt.Sprintf("💸 Total Spent      %s  %s", BoldStyle.Render(money(ins.Total)),
			SubtleStyle.Render(fmt.Sprintf("%.0f%% of budget", ins.Percentage))),
		fmt.Sprintf("%s Remaining        %s", remainingIcon, remainingStyle.Render(money(ins.Remaining))),
		"",
		status.Render(Meter(ins.Percentage, meterWidth)),
		SubtleStyle.Render(fmt.Sprintf("%-*s%s", meterWidth-4, "0%", "100%")),
		"",
		fmt.Sprintf("%s %s  %s", ins.Status.Emoji, status.Render(ins.Status.Label), ins.Status.Message),
		"",
		fmt.Sprintf("Daily average     %s", money(ins.DailyAverage)),
		fmt.Sprintf("Projected         %s", projectionText(ins, money)),
		fmt.Sprintf("Left per day      %s over %d days", money(ins.BudgetPerDay), ins.DaysRemaining),
	}

	if ins.TopCategory != nil {
		top := ins.TopCategory
		lines = append(lines, fmt.Sprintf("Top category      %s %s (%s)",
			top.Emoji, CategoryStyle(top.Category).Render(top.Name), money(top.Total)))
	}

	return RenderBox(title, strings.Join(lines, "\n"))
}

func projectionText(ins insights.Insights, money func(float64) string) string {
	if ins.CanAffordProjected {
		return SuccessStyle.Render(money(ins.Projected))
	}
	return WarningStyle.Render(money(ins.Projected) + " (over budget)")
}

// RenderCategoryBreakdown renders each category's spend and share of the total.
func RenderCategoryBreakdown(totals []insights.CategoryTotal, currency model.Currency) string {
	if len(totals) == 0 {
		return SubtleStyle.Render("No spending recorded yet.")
	}

	var grand float64
	for _, c := range totals {
		grand += c.Total
	}

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	for _, c := range totals {
		share := 0.0
		if grand > 0 {
			share = c.Total / grand * 100
		}
		fmt.Fprintf(w, "%s %s\t%s\t%3.0f%%\t%s\t%d\n",
			c.Emoji, c.Name,
			insights.FormatCurrency(c.Total, currency.Symbol),
			share,
			CategoryStyle(c.Category).Render(Meter(share, 20)),
			c.Count)
	}
	_ = w.Flush()

	return strings.TrimRight(b.String(), "\n")
}

// RenderExpenses renders expenses as a table in the order given.
func RenderExpenses(expenses []model.Expense, currency model.Currency) string {
	if len(expenses) == 0 {
		return SubtleStyle.Render("No expenses found.")
	}

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, BoldStyle.Render("DATE")+"\t"+
		BoldStyle.Render("CATEGORY")+"\t"+
		BoldStyle.Render("DESCRIPTION")+"\t"+
		BoldStyle.Render("AMOUNT")+"\t"+
		BoldStyle.Render("ID"))

	for _, e := range expenses {
		category, _ := model.CategoryByID(e.CategoryID())
		fmt.Fprintf(w, "%s\t%s %s\t%s\t%s\t%s\n",
			e.Date,
			category.Emoji, category.Name,
			truncate(e.Description, 40),
			insights.FormatCurrency(e.Amount.Float64(), currency.Symbol),
			SubtleStyle.Render(e.ID))
	}
	_ = w.Flush()

	return strings.TrimRight(b.String(), "\n")
}

// RenderTrend renders daily spending with its smoothed trend.
func RenderTrend(points []insights.TrendPoint, currency model.Currency) string {
	if len(points) == 0 {
		return SubtleStyle.Render("Not enough data for a trend yet.")
	}

	peak := 0.0
	for _, p := range points {
		peak = math.Max(peak, math.Max(p.Amount, p.Trend))
	}

	barStyle := lipgloss.NewStyle().Foreground(PrimaryColor)
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DAY\tSPENT\tTREND\t")
	for _, p := range points {
		share := 0.0
		if peak > 0 {
			share = p.Amount / peak * 100
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			p.Label,
			insights.FormatCurrency(p.Amount, currency.Symbol),
			insights.FormatCurrency(p.Trend, currency.Symbol),
			barStyle.Render(Meter(share, 24)))
	}
	_ = w.Flush()

	return strings.TrimRight(b.String(), "\n")
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
