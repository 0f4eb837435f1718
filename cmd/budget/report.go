package main

import (
	"fmt"

	"github.com/Veraticus/the-budget-must-balance/internal/cli"
	"github.com/Veraticus/the-budget-must-balance/internal/common"
	"github.com/Veraticus/the-budget-must-balance/internal/report"
	"github.com/spf13/cobra"
)

func reportCmd(a *app) *cobra.Command {
	var output, format string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export a month as a spreadsheet",
		Long: `Write a month's expenses and summary to an XLSX workbook or a CSV file.

Examples:
  budget report
  budget report --month 2024-02 --format csv
  budget report --format csv --output -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			f, err := report.ParseFormat(format)
			if err != nil {
				return common.NewUserError(err.Error(), err)
			}
			year, month, err := monthFlag(cmd, a.now())
			if err != nil {
				return err
			}

			l, cleanup, err := a.openLedger(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			expenses, err := l.GetExpensesByMonth(ctx, year, month)
			if err != nil {
				return fmt.Errorf("failed to load expenses: %w", err)
			}
			budget, err := l.LoadBudget(ctx)
			if err != nil {
				return err
			}
			currency, err := l.LoadCurrency(ctx)
			if err != nil {
				return err
			}

			r := report.NewMonthReport(year, month, budget, currency, expenses, a.now())
			if output == "" {
				output = r.FileName(f)
			}

			w, closeOutput, err := createOutput(cmd, output)
			if err != nil {
				return err
			}
			if err := report.Write(w, r, f); err != nil {
				_ = closeOutput()
				return fmt.Errorf("failed to write report: %w", err)
			}
			if err := closeOutput(); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}

			if output != stdoutPath {
				out(cmd.OutOrStdout(), "%s\n", cli.FormatSuccess(
					fmt.Sprintf("Wrote %s report (%d expenses) to %s", r.Title(), len(r.Expenses), output)))
			}
			return nil
		},
	}

	addMonthFlag(cmd)
	cmd.Flags().StringVarP(&format, "format", "F", string(report.FormatXLSX), "xlsx or csv")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: budget-report-YYYY-MM.<format>, - for stdout)")
	return cmd
}
