package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/the-budget-must-balance/internal/cli"
	"github.com/Veraticus/the-budget-must-balance/internal/common"
	"github.com/Veraticus/the-budget-must-balance/internal/insights"
	"github.com/Veraticus/the-budget-must-balance/internal/ledger"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
	"github.com/spf13/cobra"
)

func initCmd(a *app) *cobra.Command {
	var name string
	var budget float64

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Set your name and monthly budget",
		Long: `Welcome! Set the name you want to be greeted by and your monthly budget.
Values not given as flags are asked for interactively.

Example:
  budget init --name Sam --budget 650`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			l, cleanup, err := a.openLedger(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			done, err := l.IsOnboardingComplete(ctx)
			if err != nil {
				return err
			}
			if done {
				slog.Debug("onboarding already complete, updating details")
			}

			p := prompter(cmd)
			if !cmd.Flags().Changed("name") {
				current, _, err := l.LoadUserName(ctx)
				if err != nil {
					return err
				}
				out(cmd.OutOrStdout(), "%s\n\n", cli.FormatTitle("Welcome to your budget tracker"))
				if name, err = p.AskString(ctx, "What should we call you?", current); err != nil {
					return promptError(err)
				}
			}
			if !cmd.Flags().Changed("budget") {
				current, err := l.LoadBudget(ctx)
				if err != nil {
					return err
				}
				if budget, err = p.AskBudget(ctx, current); err != nil {
					return promptError(err)
				}
			}

			if err := l.SaveUserName(ctx, name); err != nil {
				if errors.Is(err, ledger.ErrInvalidUserName) {
					return common.NewUserError("Please enter your name", err)
				}
				return err
			}
			if err := saveBudget(cmd, l, budget); err != nil {
				return err
			}
			if err := l.CompleteOnboarding(ctx); err != nil {
				return err
			}

			currency, err := l.LoadCurrency(ctx)
			if err != nil {
				return err
			}

			saved, _, err := l.LoadUserName(ctx)
			if err != nil {
				return err
			}
			out(cmd.OutOrStdout(), "%s\n", cli.FormatSuccess(fmt.Sprintf("All set, %s! Your monthly budget is %s.",
				saved, insights.FormatCurrency(budget, currency.Symbol))))
			out(cmd.OutOrStdout(), "%s\n", cli.SubtleStyle.Render("Log your first expense with 'budget add'."))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "your name")
	cmd.Flags().Float64Var(&budget, "budget", 0, "monthly budget")
	return cmd
}

func budgetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Show or change the monthly budget",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showBudget(cmd, a)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the monthly budget",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showBudget(cmd, a)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "set <amount>",
		Short:   "Change the monthly budget",
		Example: "  budget budget set 750",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			l, cleanup, err := a.openLedger(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := saveBudget(cmd, l, args[0]); err != nil {
				return err
			}

			budget, err := l.LoadBudget(ctx)
			if err != nil {
				return err
			}
			currency, err := l.LoadCurrency(ctx)
			if err != nil {
				return err
			}
			out(cmd.OutOrStdout(), "%s\n", cli.FormatSuccess("Monthly budget set to "+insights.FormatCurrency(budget, currency.Symbol)))
			return nil
		},
	})

	return cmd
}

func showBudget(cmd *cobra.Command, a *app) error {
	ctx := cmd.Context()

	l, cleanup, err := a.openLedger(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	budget, err := l.LoadBudget(ctx)
	if err != nil {
		return err
	}
	currency, err := l.LoadCurrency(ctx)
	if err != nil {
		return err
	}
	out(cmd.OutOrStdout(), "Monthly budget: %s\n", cli.BoldStyle.Render(insights.FormatCurrency(budget, currency.Symbol)))
	return nil
}

func saveBudget(cmd *cobra.Command, l *ledger.Store, amount any) error {
	err := l.SaveBudget(cmd.Context(), amount)
	if errors.Is(err, ledger.ErrInvalidBudget) {
		return common.NewUserError("Budget must be a positive number", err)
	}
	return err
}

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the spending categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			for _, c := range model.Categories {
				out(w, "%s %-14s %s\n", c.Emoji, c.ID, cli.CategoryStyle(c).Render(c.Name))
			}
			return nil
		},
	}
}

func currencyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "currency",
		Short: "Show or change the display currency",
		Long: `Show or change the currency symbol used when printing amounts.
Changing it never converts stored amounts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showCurrency(cmd, a)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the display currency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showCurrency(cmd, a)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:       "set <code>",
		Short:     "Change the display currency",
		Example:   "  budget currency set EUR",
		Args:      cobra.ExactArgs(1),
		ValidArgs: currencyCodes(),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			l, cleanup, err := a.openLedger(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := l.SaveCurrency(ctx, args[0]); err != nil {
				if errors.Is(err, ledger.ErrInvalidCurrency) {
					return common.NewUserError(fmt.Sprintf("Unknown currency %q (choose from %s)",
						args[0], strings.Join(currencyCodes(), ", ")), err)
				}
				return err
			}

			currency, err := l.LoadCurrency(ctx)
			if err != nil {
				return err
			}
			out(cmd.OutOrStdout(), "%s\n", cli.FormatSuccess(fmt.Sprintf("Currency set to %s (%s)", currency.Name, currency.Symbol)))
			return nil
		},
	})

	return cmd
}

func showCurrency(cmd *cobra.Command, a *app) error {
	ctx := cmd.Context()

	l, cleanup, err := a.openLedger(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	current, err := l.LoadCurrency(ctx)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	for _, c := range model.Currencies {
		marker := " "
		if c.Code == current.Code {
			marker = cli.SuccessStyle.Render("●")
		}
		out(w, "%s %s %s %s\n", marker, c.Code, c.Symbol, cli.SubtleStyle.Render(c.Name))
	}
	return nil
}

func currencyCodes() []string {
	codes := make([]string, len(model.Currencies))
	for i, c := range model.Currencies {
		codes[i] = c.Code
	}
	return codes
}

func themeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show or change the dashboard theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			l, cleanup, err := a.openLedger(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			theme, err := l.LoadTheme(ctx)
			if err != nil {
				return err
			}
			out(cmd.OutOrStdout(), "%s %s\n", theme.Emoji(), theme)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:       "set <light|dark>",
		Short:     "Choose the light or dark theme",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(model.ThemeLight), string(model.ThemeDark)},
		RunE: func(cmd *cobra.Command, args []string) error {
			return setTheme(cmd, a, func(model.Theme) model.Theme {
				return model.Theme(strings.ToLower(strings.TrimSpace(args[0])))
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle",
		Short: "Switch between light and dark",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return setTheme(cmd, a, model.Theme.Toggle)
		},
	})

	return cmd
}

// setTheme stores the theme next derives from the current one.
func setTheme(cmd *cobra.Command, a *app, next func(model.Theme) model.Theme) error {
	ctx := cmd.Context()

	l, cleanup, err := a.openLedger(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	current, err := l.LoadTheme(ctx)
	if err != nil {
		return err
	}

	theme := next(current)
	if err := l.SaveTheme(ctx, theme); err != nil {
		if errors.Is(err, ledger.ErrInvalidTheme) {
			return common.NewUserError(fmt.Sprintf("Unknown theme %q, use light or dark", theme), err)
		}
		return err
	}

	out(cmd.OutOrStdout(), "%s\n", cli.FormatSuccess(fmt.Sprintf("%s Switched to %s theme", theme.Emoji(), theme)))
	return nil
}
