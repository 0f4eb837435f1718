package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Veraticus/the-budget-must-balance/internal/cli"
	"github.com/Veraticus/the-budget-must-balance/internal/common"
	"github.com/Veraticus/the-budget-must-balance/internal/ledger"
	"github.com/Veraticus/the-budget-must-balance/internal/storage"
	"github.com/spf13/cobra"
)

// monthLayout is the --month flag format.
const monthLayout = "2006-01"

// stdoutPath selects standard output for commands that write files.
const stdoutPath = "-"

// openLedger opens the configured database, migrating it if needed.
// The returned cleanup closes the store.
func (a *app) openLedger(ctx context.Context) (*ledger.Store, func(), error) {
	store, err := storage.NewSQLiteStorage(a.settings.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	opts := []ledger.Option{
		ledger.WithClock(a.now),
		ledger.WithDefaultTheme(a.settings.Theme),
	}
	if a.settings.RejectFutureDates {
		opts = append(opts, ledger.WithFutureDatesRejected())
	}
	opts = append(opts, a.ledgerOpts...)

	cleanup := func() {
		if err := store.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}
	return ledger.New(store, opts...), cleanup, nil
}

// parseMonth reads a YYYY-MM flag value; empty means the month containing now.
func parseMonth(value string, now time.Time) (int, time.Month, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return now.Year(), now.Month(), nil
	}
	t, err := time.Parse(monthLayout, value)
	if err != nil {
		return 0, 0, common.NewUserError(fmt.Sprintf("Invalid month %q, use YYYY-MM", value), err)
	}
	return t.Year(), t.Month(), nil
}

func addMonthFlag(cmd *cobra.Command) {
	cmd.Flags().String("month", "", "month to show as YYYY-MM (default: current month)")
}

func monthFlag(cmd *cobra.Command, now time.Time) (int, time.Month, error) {
	value, _ := cmd.Flags().GetString("month")
	return parseMonth(value, now)
}

// out writes formatted output, logging rather than failing on write errors.
func out(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		slog.Error("failed to write output", "error", err)
	}
}

// prompter reads answers from the command's input.
func prompter(cmd *cobra.Command) *cli.Prompter {
	return cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
}

// confirm asks before a destructive action unless force is set.
func confirm(cmd *cobra.Command, force bool, question string) (bool, error) {
	if force {
		return true, nil
	}
	ok, err := prompter(cmd).Confirm(cmd.Context(), question)
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	return ok, err
}

// createOutput opens path for writing, or returns the command's stdout for "-".
func createOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == stdoutPath {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path) // #nosec G304 - path is chosen by the user
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f, f.Close, nil
}
