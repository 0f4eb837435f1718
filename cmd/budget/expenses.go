package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/the-budget-must-balance/internal/cli"
	"github.com/Veraticus/the-budget-must-balance/internal/common"
	"github.com/Veraticus/the-budget-must-balance/internal/insights"
	"github.com/Veraticus/the-budget-must-balance/internal/ledger"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
	"github.com/spf13/cobra"
)

func addCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Log an expense",
		Long: `Log an expense. Any value not given as a flag is asked for interactively.

Examples:
  budget add --amount 12.50 --category food --description "Lunch"
  budget add --amount 30 --category transport -m "Train ticket" --date 2024-03-02
  budget add`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			draft, err := readDraft(ctx, cmd, a.now())
			if err != nil {
				return err
			}

			l, cleanup, err := a.openLedger(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			expense, err := l.AddExpense(ctx, draft)
			if err != nil {
				return expenseError("Could not add expense", err)
			}

			currency, err := l.LoadCurrency(ctx)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			out(w, "%s\n", cli.FormatSuccess(fmt.Sprintf("Added %s", describeExpense(expense, currency))))
			out(w, "%s\n", cli.SubtleStyle.Render("id: "+expense.ID))

			return printMonthStanding(ctx, cmd, a, l, expense.Date, currency)
		},
	}

	addExpenseFlags(cmd)
	return cmd
}

func editCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change an expense",
		Long: `Change one or more fields of an expense. Only the flags you pass are changed.

Example:
  budget edit exp_1710498600000_k3j9x0a1b --amount 14 --category food`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			patch, err := readPatch(cmd)
			if err != nil {
				return err
			}

			l, cleanup, err := a.openLedger(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			expense, err := l.UpdateExpense(ctx, args[0], patch)
			if err != nil {
				return expenseError("Could not update expense", err)
			}

			currency, err := l.LoadCurrency(ctx)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			out(w, "%s\n", cli.FormatSuccess("Updated "+describeExpense(expense, currency)))
			out(w, "%s\n", cli.SubtleStyle.Render(expenseHistory(expense)))
			return nil
		},
	}

	addExpenseFlags(cmd)
	return cmd
}

func deleteCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an expense",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			l, cleanup, err := a.openLedger(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			expense, err := l.GetExpense(ctx, args[0])
			if err != nil {
				return expenseError("Could not delete expense", err)
			}
			currency, err := l.LoadCurrency(ctx)
			if err != nil {
				return err
			}

			ok, err := confirm(cmd, force, fmt.Sprintf("Delete %s?", describeExpense(expense, currency)))
			if err != nil {
				return err
			}
			if !ok {
				out(cmd.OutOrStdout(), "%s\n", cli.FormatInfo("Delete canceled."))
				return nil
			}

			deleted, err := l.DeleteExpense(ctx, expense.ID)
			if err != nil {
				return fmt.Errorf("failed to delete expense: %w", err)
			}
			if !deleted {
				return notFound(expense.ID)
			}

			out(cmd.OutOrStdout(), "%s\n", cli.FormatSuccess("Deleted "+describeExpense(expense, currency)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")
	return cmd
}

func listCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List expenses, newest first",
		Long: `List the expenses of a month, newest first.

Examples:
  budget list
  budget list --month 2024-02 --category food
  budget list --all --search coffee
  budget list --from 2024-01-15 --to 2024-02-15 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			filter, err := readListFilter(cmd, a.now())
			if err != nil {
				return err
			}

			l, cleanup, err := a.openLedger(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			var expenses []model.Expense
			if filter.wholeLedger() {
				expenses, err = l.LoadExpenses(ctx)
			} else {
				expenses, err = l.GetExpensesByMonth(ctx, filter.year, filter.month)
			}
			if err != nil {
				return fmt.Errorf("failed to load expenses: %w", err)
			}
			expenses = insights.SortByDateDescending(filter.apply(expenses))

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return writeJSON(cmd, expenses)
			}

			currency, err := l.LoadCurrency(ctx)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			out(w, "%s\n\n", cli.FormatTitle(filter.title()))
			out(w, "%s\n", cli.RenderExpenses(expenses, currency))
			if len(expenses) > 0 {
				out(w, "\n%s %s\n", cli.SubtleStyle.Render(fmt.Sprintf("%d expenses, total", len(expenses))),
					cli.BoldStyle.Render(insights.FormatCurrency(insights.Total(expenses), currency.Symbol)))
			}
			return nil
		},
	}

	addMonthFlag(cmd)
	cmd.Flags().Bool("all", false, "list every month")
	cmd.Flags().String("from", "", "earliest date to include (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "latest date to include (YYYY-MM-DD)")
	cmd.Flags().StringP("category", "c", "", "only this category id")
	cmd.Flags().StringP("search", "s", "", "only descriptions containing this text")
	cmd.Flags().Bool("json", false, "print the expenses as JSON")
	return cmd
}

// listFilter narrows the expense list.
type listFilter struct {
	from, to time.Time
	category string
	search   string
	year     int
	month    time.Month
	all      bool
	ranged   bool
}

func readListFilter(cmd *cobra.Command, now time.Time) (listFilter, error) {
	var f listFilter
	var err error

	if f.year, f.month, err = monthFlag(cmd, now); err != nil {
		return f, err
	}
	f.all, _ = cmd.Flags().GetBool("all")
	f.search, _ = cmd.Flags().GetString("search")

	f.from = time.Time{}
	f.to = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)
	for _, bound := range []struct {
		name   string
		target *time.Time
	}{{"from", &f.from}, {"to", &f.to}} {
		value, _ := cmd.Flags().GetString(bound.name)
		if value == "" {
			continue
		}
		date, err := model.ParseDate(value)
		if err != nil {
			return f, common.NewUserError(fmt.Sprintf("Invalid --%s date %q, use YYYY-MM-DD", bound.name, value), err)
		}
		*bound.target, _ = date.Time()
		f.ranged = true
	}

	if category, _ := cmd.Flags().GetString("category"); category != "" {
		if f.category, err = parseCategory(category); err != nil {
			return f, err
		}
	}
	return f, nil
}

func (f listFilter) wholeLedger() bool {
	return f.all || f.ranged
}

func (f listFilter) apply(expenses []model.Expense) []model.Expense {
	if f.ranged {
		expenses = insights.FilterByDateRange(expenses, f.from, f.to)
	}
	if f.category != "" {
		grouped := insights.GroupByCategory(expenses)
		expenses = grouped[f.category]
	}
	return insights.Search(expenses, f.search)
}

func (f listFilter) title() string {
	switch {
	case f.ranged:
		return "Expenses in range"
	case f.all:
		return "All expenses"
	default:
		return fmt.Sprintf("Expenses for %s %d", f.month, f.year)
	}
}

func addExpenseFlags(cmd *cobra.Command) {
	cmd.Flags().Float64P("amount", "a", 0, "amount spent")
	cmd.Flags().StringP("category", "c", "", "category id (see 'budget categories')")
	cmd.Flags().StringP("description", "m", "", "what it was for")
	cmd.Flags().StringP("date", "d", "", "date as YYYY-MM-DD (default: today)")
}

// readDraft takes values from flags and asks for the rest.
func readDraft(ctx context.Context, cmd *cobra.Command, now time.Time) (model.ExpenseDraft, error) {
	var draft model.ExpenseDraft
	var err error
	p := prompter(cmd)
	flags := cmd.Flags()

	if flags.Changed("amount") {
		draft.Amount, _ = flags.GetFloat64("amount")
	} else if draft.Amount, err = p.AskAmount(ctx); err != nil {
		return draft, promptError(err)
	}

	if flags.Changed("category") {
		value, _ := flags.GetString("category")
		if draft.Category, err = parseCategory(value); err != nil {
			return draft, err
		}
	} else if draft.Category, err = p.AskCategory(ctx); err != nil {
		return draft, promptError(err)
	}

	if flags.Changed("description") {
		draft.Description, _ = flags.GetString("description")
	} else if draft.Description, err = p.AskDescription(ctx); err != nil {
		return draft, promptError(err)
	}

	if flags.Changed("date") {
		value, _ := flags.GetString("date")
		if draft.Date, err = parseDateFlag(value); err != nil {
			return draft, err
		}
	} else {
		draft.Date = model.NewDate(now)
	}

	return draft, nil
}

// readPatch builds an update from the flags that were set.
func readPatch(cmd *cobra.Command) (model.ExpensePatch, error) {
	var patch model.ExpensePatch
	flags := cmd.Flags()

	if flags.Changed("amount") {
		amount, _ := flags.GetFloat64("amount")
		patch.Amount = &amount
	}
	if flags.Changed("category") {
		value, _ := flags.GetString("category")
		category, err := parseCategory(value)
		if err != nil {
			return patch, err
		}
		patch.Category = &category
	}
	if flags.Changed("description") {
		description, _ := flags.GetString("description")
		patch.Description = &description
	}
	if flags.Changed("date") {
		value, _ := flags.GetString("date")
		date, err := parseDateFlag(value)
		if err != nil {
			return patch, err
		}
		patch.Date = &date
	}

	if patch == (model.ExpensePatch{}) {
		return patch, common.NewUserError("Nothing to change: pass --amount, --category, --description or --date", nil)
	}
	return patch, nil
}

func parseCategory(value string) (string, error) {
	id := strings.ToLower(strings.TrimSpace(value))
	if !model.IsValidCategory(id) {
		return "", common.NewUserError(
			fmt.Sprintf("Unknown category %q (choose from %s)", value, strings.Join(model.CategoryIDs(), ", ")), nil)
	}
	return id, nil
}

func parseDateFlag(value string) (model.Date, error) {
	date, err := model.ParseDate(value)
	if err != nil {
		return "", common.NewUserError(fmt.Sprintf("Invalid date %q, use YYYY-MM-DD", value), err)
	}
	return date, nil
}

// printMonthStanding shows how the month of date stands against the budget.
func printMonthStanding(ctx context.Context, cmd *cobra.Command, a *app, l *ledger.Store, date model.Date, currency model.Currency) error {
	t, ok := date.Time()
	if !ok {
		return nil
	}

	expenses, err := l.GetExpensesByMonth(ctx, t.Year(), t.Month())
	if err != nil {
		return fmt.Errorf("failed to load expenses: %w", err)
	}
	budget, err := l.LoadBudget(ctx)
	if err != nil {
		return err
	}

	ins := insights.Compute(budget, expenses, insights.MonthReference(t.Year(), t.Month(), a.now()))
	remaining := insights.FormatCurrency(ins.Remaining, currency.Symbol)
	style := cli.StatusStyle(ins.Status)

	out(cmd.OutOrStdout(), "%s %s\n", ins.Status.Emoji,
		style.Render(fmt.Sprintf("%s left of %s for %s %d (%.0f%% spent)",
			remaining, insights.FormatCurrency(budget, currency.Symbol), t.Month(), t.Year(), ins.Percentage)))
	return nil
}

const historyLayout = "2006-01-02 15:04"

// expenseHistory reports when e was created and last edited, in local time.
func expenseHistory(e model.Expense) string {
	history := "created " + e.CreatedAt().Local().Format(historyLayout)
	if updated, ok := e.LastUpdated(); ok {
		history += ", edited " + updated.Local().Format(historyLayout)
	}
	return history
}

func describeExpense(e model.Expense, currency model.Currency) string {
	category, _ := model.CategoryByID(e.CategoryID())
	return fmt.Sprintf("%s · %s %s · %s (%s)",
		insights.FormatCurrency(e.Amount.Float64(), currency.Symbol),
		category.Emoji, category.Name, e.Description, e.Date)
}

func notFound(id string) error {
	return common.NewUserError(fmt.Sprintf("No expense with id %s", id), common.ErrNotFound)
}

// expenseError turns ledger failures into messages for the user.
func expenseError(action string, err error) error {
	switch {
	case errors.Is(err, ledger.ErrInvalidExpense):
		return common.NewUserError(fmt.Sprintf("%s: %s", action, strings.TrimPrefix(err.Error(), ledger.ErrInvalidExpense.Error()+": ")), err)
	case errors.Is(err, common.ErrNotFound):
		return common.NewUserError(fmt.Sprintf("%s: no such expense", action), err)
	default:
		return fmt.Errorf("%s: %w", strings.ToLower(action), err)
	}
}

// promptError reports input that ran out before every value was given.
func promptError(err error) error {
	if errors.Is(err, cli.ErrInputCancelled) || errors.Is(err, context.Canceled) {
		return err
	}
	return common.NewUserError("Input ended before every value was given; pass them as flags instead", err)
}
