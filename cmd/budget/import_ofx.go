package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/the-budget-must-balance/internal/cli"
	"github.com/Veraticus/the-budget-must-balance/internal/common"
	"github.com/Veraticus/the-budget-must-balance/internal/insights"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
	"github.com/Veraticus/the-budget-must-balance/internal/ofx"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// maxParallelParses bounds how many statement files are parsed at once.
const maxParallelParses = 4

func importOFXCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import expenses from OFX/QFX bank statements",
		Long: `Import debits from OFX or QFX statements exported from your bank as expenses.
Credits are skipped, categories are guessed from the merchant name, and
transactions already in the ledger are not added twice.

Examples:
  # Import single file
  budget import-ofx ~/Downloads/statement_mar_2024.qfx

  # Import every statement in a directory
  budget import-ofx ~/Downloads/*.qfx

  # See what would be imported
  budget import-ofx --dry-run ~/Downloads/*.ofx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImportOFX(cmd, a, args)
		},
	}

	cmd.Flags().Bool("dry-run", false, "Preview import without saving")
	cmd.Flags().BoolP("verbose", "v", false, "List every transaction to import")
	return cmd
}

// parsedFile is the outcome of parsing one statement.
type parsedFile struct {
	err  error
	stmt *ofx.Statement
	path string
}

func runImportOFX(cmd *cobra.Command, a *app, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	verbose, _ := cmd.Flags().GetBool("verbose")

	files, err := expandFiles(args)
	if err != nil {
		return err
	}

	handler := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx := handler.HandleInterrupts(cmd.Context(), "OFX import")
	defer handler.Stop()

	slog.Info("Importing OFX files", "file_count", len(files), "dry_run", dryRun)

	results, err := parseFiles(ctx, cmd, files)
	if err != nil {
		if handler.WasInterrupted() {
			return nil
		}
		return err
	}

	var txns []ofx.Transaction
	w := cmd.OutOrStdout()
	out(w, "\n📁 File import summary:\n")
	for _, r := range results {
		name := filepath.Base(r.path)
		if r.err != nil {
			out(w, "  %s %s: %s\n", cli.ErrorStyle.Render(cli.ErrorIcon), name, r.err)
			continue
		}
		out(w, "  - %s: %d debits, %d credits skipped\n", name, len(r.stmt.Transactions), r.stmt.Skipped)
		txns = append(txns, r.stmt.Transactions...)
	}

	unique := ofx.Dedupe(txns)

	l, cleanup, err := a.openLedger(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	existing, err := l.LoadExpenses(ctx)
	if err != nil {
		return fmt.Errorf("failed to load expenses: %w", err)
	}
	fresh := withoutExisting(unique, existing)

	currency, err := l.LoadCurrency(ctx)
	if err != nil {
		return err
	}

	out(w, "\n%d transactions found, %d duplicates across files, %d already in the ledger\n",
		len(txns), len(txns)-len(unique), len(unique)-len(fresh))

	if len(fresh) == 0 {
		out(w, "%s\n", cli.FormatInfo("Nothing new to import."))
		return nil
	}

	drafts := make([]model.ExpenseDraft, len(fresh))
	for i, tx := range fresh {
		drafts[i] = tx.ExpenseDraft
		if verbose || dryRun {
			category, _ := model.CategoryByID(tx.Category)
			out(w, "  %s  %-10s  %s %-40s  %s\n", tx.Date,
				insights.FormatCurrency(tx.Amount, currency.Symbol),
				category.Emoji, tx.Description, cli.SubtleStyle.Render(tx.Account))
		}
	}

	if dryRun {
		out(w, "%s\n", cli.FormatInfo(fmt.Sprintf("Dry run: %d expenses would be imported.", len(drafts))))
		return nil
	}

	added, err := l.AddExpenses(ctx, drafts)
	if err != nil {
		if handler.WasInterrupted() {
			return nil
		}
		return expenseError("Could not import statements", err)
	}

	out(w, "%s\n", cli.FormatSuccess(fmt.Sprintf("Imported %d expenses", len(added))))
	return nil
}

// expandFiles resolves glob patterns, keeping literal paths that exist.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, common.NewUserError(fmt.Sprintf("Invalid pattern %s", pattern), err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				files = append(files, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
			continue
		}
		files = append(files, matches...)
	}

	if len(files) == 0 {
		return nil, common.NewUserError("No files found to import", nil)
	}
	return files, nil
}

// parseFiles parses every file concurrently. A file that fails to parse is
// reported in its result; only cancellation fails the whole batch.
func parseFiles(ctx context.Context, cmd *cobra.Command, files []string) ([]parsedFile, error) {
	results := make([]parsedFile, len(files))
	bar := cli.NewProgressBar(cmd.ErrOrStderr(), len(files), "Parsing")
	parser := ofx.NewParser()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelParses)

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			results[i] = parseFile(ctx, parser, path)
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := bar.Add(1); err != nil {
				slog.Debug("Failed to update progress bar", "error", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func parseFile(ctx context.Context, parser *ofx.Parser, path string) parsedFile {
	result := parsedFile{path: path}

	f, err := os.Open(path) // #nosec G304 - path is chosen by the user
	if err != nil {
		slog.Error("Failed to open file", "file", path, "error", err)
		result.err = err
		return result
	}
	defer func() { _ = f.Close() }()

	result.stmt, result.err = parser.ParseFile(ctx, f)
	if result.err != nil {
		slog.Error("Failed to parse OFX file", "file", path, "error", result.err)
	}
	return result
}

// withoutExisting drops transactions that match a stored expense on date,
// amount and description.
func withoutExisting(txns []ofx.Transaction, existing []model.Expense) []ofx.Transaction {
	stored := make(map[string]bool, len(existing))
	for _, e := range existing {
		stored[matchKey(e.Date, e.Amount.Float64(), e.Description)] = true
	}

	fresh := make([]ofx.Transaction, 0, len(txns))
	for _, tx := range txns {
		if stored[matchKey(tx.Date, tx.Amount, tx.Description)] {
			continue
		}
		fresh = append(fresh, tx)
	}
	return fresh
}

func matchKey(date model.Date, amount float64, description string) string {
	cents := int64(math.Round(amount * 100))
	return fmt.Sprintf("%s|%d|%s", date, cents, strings.ToLower(strings.TrimSpace(description)))
}
