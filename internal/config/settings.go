package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/the-budget-must-balance/internal/common"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
	"github.com/spf13/viper"
)

// Configuration keys.
const (
	KeyDatabasePath      = "database.path"
	KeyLogLevel          = "logging.level"
	KeyLogFormat         = "logging.format"
	KeyTheme             = "display.theme"
	KeyRejectFutureDates = "ledger.reject_future_dates"
)

// EnvPrefix namespaces environment overrides, e.g. BUDGET_DATABASE_PATH.
const EnvPrefix = "BUDGET"

// DefaultDatabasePath is used when database.path is unset.
const DefaultDatabasePath = "$HOME/.local/share/budget/budget.db"

// MemoryDatabase selects a throwaway in-memory store.
const MemoryDatabase = ":memory:"

// Settings is the resolved application configuration.
type Settings struct {
	DatabasePath      string
	LogLevel          string
	LogFormat         string
	Theme             model.Theme
	RejectFutureDates bool
}

// SetDefaults registers the default for every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDatabasePath, DefaultDatabasePath)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyTheme, string(model.ThemeLight))
	v.SetDefault(KeyRejectFutureDates, false)
}

// ReadConfig points v at cfgFile, or at config.yaml in SearchPaths when
// cfgFile is empty, and enables BUDGET_* environment overrides. A missing
// config file is not an error.
func ReadConfig(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		for _, dir := range SearchPaths() {
			v.AddConfigPath(dir)
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

// Load resolves Settings from v and validates them.
func Load(v *viper.Viper) (*Settings, error) {
	s := &Settings{
		DatabasePath:      ExpandPath(strings.TrimSpace(v.GetString(KeyDatabasePath))),
		LogLevel:          strings.ToLower(v.GetString(KeyLogLevel)),
		LogFormat:         strings.ToLower(v.GetString(KeyLogFormat)),
		Theme:             model.Theme(strings.ToLower(v.GetString(KeyTheme))),
		RejectFutureDates: v.GetBool(KeyRejectFutureDates),
	}
	if s.DatabasePath == "" {
		s.DatabasePath = ExpandPath(DefaultDatabasePath)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate reports every invalid setting at once.
func (s *Settings) Validate() error {
	var problems []string

	if _, err := common.ParseLevel(s.LogLevel); err != nil {
		problems = append(problems, fmt.Sprintf("%s must be one of debug, info, warn, error (got %q)", KeyLogLevel, s.LogLevel))
	}
	if s.LogFormat != "console" && s.LogFormat != "json" {
		problems = append(problems, fmt.Sprintf("%s must be console or json (got %q)", KeyLogFormat, s.LogFormat))
	}
	if s.Theme != "" && !s.Theme.IsValid() {
		problems = append(problems, fmt.Sprintf("%s must be light or dark (got %q)", KeyTheme, s.Theme))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", common.ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// InMemory reports whether the database lives only for this process.
func (s *Settings) InMemory() bool {
	return s.DatabasePath == MemoryDatabase
}
