package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Veraticus/the-budget-must-balance/internal/cli"
	"github.com/Veraticus/the-budget-must-balance/internal/common"
	"github.com/Veraticus/the-budget-must-balance/internal/config"
	"github.com/Veraticus/the-budget-must-balance/internal/ledger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

// app carries what every command needs: resolved settings and the clock.
type app struct {
	v          *viper.Viper
	settings   *config.Settings
	now        func() time.Time
	cfgFile    string
	ledgerOpts []ledger.Option
}

func newApp() *app {
	return &app{
		v:   viper.New(),
		now: time.Now,
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "budget",
		Short: "💰 Personal monthly budget tracker",
		Long: `budget: log what you spend, see where it goes, and stay inside a monthly budget.

Expenses, your budget and display preferences live in a local SQLite database.
Back them up with 'budget export' and restore them with 'budget import'.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.initConfig,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: $HOME/.config/budget/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().String("db", "", "database path (default: $HOME/.local/share/budget/budget.db, :memory: for a throwaway ledger)")

	// Bind flags to viper
	_ = a.v.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
	_ = a.v.BindPFlag(config.KeyLogFormat, rootCmd.PersistentFlags().Lookup("log-format"))
	_ = a.v.BindPFlag(config.KeyDatabasePath, rootCmd.PersistentFlags().Lookup("db"))

	// Add commands
	rootCmd.AddCommand(initCmd(a))
	rootCmd.AddCommand(addCmd(a))
	rootCmd.AddCommand(editCmd(a))
	rootCmd.AddCommand(deleteCmd(a))
	rootCmd.AddCommand(listCmd(a))
	rootCmd.AddCommand(summaryCmd(a))
	rootCmd.AddCommand(trendCmd(a))
	rootCmd.AddCommand(budgetCmd(a))
	rootCmd.AddCommand(categoriesCmd())
	rootCmd.AddCommand(currencyCmd(a))
	rootCmd.AddCommand(themeCmd(a))
	rootCmd.AddCommand(exportCmd(a))
	rootCmd.AddCommand(importCmd(a))
	rootCmd.AddCommand(importOFXCmd(a))
	rootCmd.AddCommand(reportCmd(a))
	rootCmd.AddCommand(dashboardCmd(a))
	rootCmd.AddCommand(resetCmd(a))
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func main() {
	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := newRootCmd(newApp()).ExecuteContext(ctx)
	cancel() // Always cleanup

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(common.UserMessage(err, err.Error())))
		os.Exit(1)
	}
}

func (a *app) initConfig(cmd *cobra.Command, _ []string) error {
	// A .env file is optional.
	_ = godotenv.Load()

	if err := config.ReadConfig(a.v, a.cfgFile); err != nil {
		return err
	}

	settings, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.settings = settings

	if err := setupLogging(cmd.ErrOrStderr(), settings); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	slog.Debug("configuration loaded",
		"config_file", a.v.ConfigFileUsed(),
		"database", settings.DatabasePath)
	if settings.InMemory() {
		slog.Warn("using an in-memory database, nothing will be kept after this command")
	}
	return nil
}

func setupLogging(w io.Writer, settings *config.Settings) error {
	level, err := common.ParseLevel(settings.LogLevel)
	if err != nil {
		return err
	}
	return common.SetupLoggerTo(w, level, settings.LogFormat)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			out(cmd.OutOrStdout(), "budget version %s\n", version)
		},
	}
}
