package main

import (
	"context"
	"errors"

	"github.com/Veraticus/the-budget-must-balance/internal/tui"
	"github.com/spf13/cobra"
)

func dashboardCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"ui"},
		Short:   "Open the interactive budget dashboard",
		Long: `Open a full-screen dashboard for a month: budget meter, category
breakdown, daily trend and the expense list.

Keys: ←/→ change month, g jumps to this month, d d deletes the selected
expense, t toggles the theme, ? shows all keys, q quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			year, month, err := monthFlag(cmd, a.now())
			if err != nil {
				return err
			}

			l, cleanup, err := a.openLedger(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			theme, err := l.LoadTheme(ctx)
			if err != nil {
				return err
			}

			err = tui.Run(ctx,
				tui.WithLedger(l),
				tui.WithClock(a.now),
				tui.WithMonth(year, month),
				tui.WithTheme(theme),
				tui.WithIO(cmd.InOrStdin(), cmd.OutOrStdout()),
			)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	addMonthFlag(cmd)
	return cmd
}
