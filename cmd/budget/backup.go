package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Veraticus/the-budget-must-balance/internal/backup"
	"github.com/Veraticus/the-budget-must-balance/internal/cli"
	"github.com/Veraticus/the-budget-must-balance/internal/common"
	"github.com/Veraticus/the-budget-must-balance/internal/ledger"
	"github.com/spf13/cobra"
)

func exportCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Back up all data to a JSON file",
		Long: `Write expenses, budget, theme and name to a JSON backup file.

Examples:
  budget export
  budget export --output ~/backups/budget.json
  budget export --output -   # print to stdout`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			l, cleanup, err := a.openLedger(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			snapshot, err := l.ExportData(ctx)
			if err != nil {
				return fmt.Errorf("failed to read data: %w", err)
			}

			if output == "" {
				output = backup.FileName(a.now())
			}
			w, closeOutput, err := createOutput(cmd, output)
			if err != nil {
				return err
			}
			if err := backup.Encode(w, snapshot); err != nil {
				_ = closeOutput()
				return err
			}
			if err := closeOutput(); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}

			if output != stdoutPath {
				out(cmd.OutOrStdout(), "%s\n", cli.FormatSuccess(
					fmt.Sprintf("Exported %d expenses to %s", len(snapshot.Expenses), output)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "backup file (default: budget-backup-YYYY-MM-DD.json, - for stdout)")
	return cmd
}

func importCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Restore data from a JSON backup",
		Long: `Restore data from a backup written by 'budget export'.

Fields present in the backup replace what is stored; fields it lacks are
left as they are. The expense list is replaced as a whole.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0]) // #nosec G304 - path is chosen by the user
			if err != nil {
				return common.NewUserError(fmt.Sprintf("Cannot open %s", args[0]), err)
			}
			defer func() { _ = f.Close() }()

			snapshot, err := backup.Decode(f)
			if err != nil {
				return err
			}

			if snapshot.Expenses != nil {
				question := fmt.Sprintf("Replace all stored expenses with the %d in %s?", len(snapshot.Expenses), args[0])
				ok, err := confirm(cmd, force, question)
				if err != nil {
					return err
				}
				if !ok {
					out(cmd.OutOrStdout(), "%s\n", cli.FormatInfo("Import canceled."))
					return nil
				}
			}

			handler := cli.NewInterruptHandler(cmd.ErrOrStderr())
			ctx := handler.HandleInterrupts(cmd.Context(), "Import")
			defer handler.Stop()

			l, cleanup, err := a.openLedger(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := l.ImportData(ctx, *snapshot); err != nil {
				if handler.WasInterrupted() {
					return nil
				}
				if errors.Is(err, ledger.ErrInvalidSnapshot) {
					return common.NewUserError(backup.ImportFailedMessage, err)
				}
				return err
			}

			out(cmd.OutOrStdout(), "%s\n", cli.FormatSuccess("Data imported successfully!"))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")
	return cmd
}

func resetCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every expense and setting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			ok, err := confirm(cmd, force, "Delete all expenses and settings? This cannot be undone")
			if err != nil {
				return err
			}
			if !ok {
				out(cmd.OutOrStdout(), "%s\n", cli.FormatInfo("Reset canceled."))
				return nil
			}

			l, cleanup, err := a.openLedger(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := l.ClearAllData(ctx); err != nil {
				return fmt.Errorf("failed to clear data: %w", err)
			}

			out(cmd.OutOrStdout(), "%s\n", cli.FormatSuccess("All data cleared."))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")
	return cmd
}
