package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Veraticus/the-budget-must-balance/internal/cli"
	"github.com/Veraticus/the-budget-must-balance/internal/insights"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
	"github.com/spf13/cobra"
)

// monthView is everything the summary and trend commands show for a month.
type monthView struct {
	Month    string                `json:"month"`
	Currency model.Currency        `json:"currency"`
	Budget   float64               `json:"budget"`
	Insights insights.Insights     `json:"insights"`
	Trend    []insights.TrendPoint `json:"trend,omitempty"`
	expenses []model.Expense
}

func (a *app) loadMonthView(ctx context.Context, year int, month time.Month) (*monthView, error) {
	l, cleanup, err := a.openLedger(ctx)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	expenses, err := l.GetExpensesByMonth(ctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}
	budget, err := l.LoadBudget(ctx)
	if err != nil {
		return nil, err
	}
	currency, err := l.LoadCurrency(ctx)
	if err != nil {
		return nil, err
	}

	return &monthView{
		Month:    time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format(monthLayout),
		Currency: currency,
		Budget:   budget,
		Insights: insights.Compute(budget, expenses, insights.MonthReference(year, month, a.now())),
		expenses: expenses,
	}, nil
}

func summaryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "summary",
		Aliases: []string{"status"},
		Short:   "Show how a month stands against the budget",
		Long: `Show spending against the monthly budget: totals, status, projection
and a breakdown by category.

Examples:
  budget summary
  budget summary --month 2024-02
  budget summary --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			year, month, err := monthFlag(cmd, a.now())
			if err != nil {
				return err
			}

			view, err := a.loadMonthView(cmd.Context(), year, month)
			if err != nil {
				return err
			}

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return writeJSON(cmd, view)
			}

			w := cmd.OutOrStdout()
			out(w, "%s\n\n", cli.RenderSummary(fmt.Sprintf("%s %s %d", cli.CalendarIcon, month, year),
				view.Budget, view.Insights, view.Currency))
			out(w, "%s\n\n", cli.FormatTitle("Spending by category"))
			out(w, "%s\n", cli.RenderCategoryBreakdown(view.Insights.CategoryTotals, view.Currency))
			return nil
		},
	}

	addMonthFlag(cmd)
	cmd.Flags().Bool("json", false, "print the summary as JSON")
	return cmd
}

func trendCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Show daily spending with a 3-day moving average",
		Long: `Show the most recent days with spending in a month, each with the
trailing three-day average.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			year, month, err := monthFlag(cmd, a.now())
			if err != nil {
				return err
			}

			view, err := a.loadMonthView(cmd.Context(), year, month)
			if err != nil {
				return err
			}
			view.Trend = insights.TrendSeries(view.expenses)

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return writeJSON(cmd, view.Trend)
			}

			w := cmd.OutOrStdout()
			out(w, "%s\n\n", cli.FormatTitle(fmt.Sprintf("%s Daily trend for %s %d", cli.TrendIcon, month, year)))
			out(w, "%s\n", cli.RenderTrend(view.Trend, view.Currency))
			return nil
		},
	}

	addMonthFlag(cmd)
	cmd.Flags().Bool("json", false, "print the series as JSON")
	return cmd
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}
