// Package ledger is the record store adapter: expense CRUD, scalar settings and
// backup snapshots layered over a service.KeyValueStore.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/the-budget-must-balance/internal/common"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
	"github.com/Veraticus/the-budget-must-balance/internal/service"
)

// Persisted keys. The names are shared with existing data and must not change.
const (
	KeyExpenses   = "student_budget_expenses"
	KeyBudget     = "student_budget_monthly"
	KeyTheme      = "student_budget_theme"
	KeyOnboarding = "student_budget_onboarding"
	KeyUserName   = "student_budget_username"
	KeyCurrency   = "student_budget_currency"
)

// AllKeys lists every key the ledger owns.
var AllKeys = []string{KeyExpenses, KeyBudget, KeyTheme, KeyOnboarding, KeyUserName, KeyCurrency}

// Validation errors.
var (
	ErrInvalidExpense  = errors.New("invalid expense")
	ErrInvalidBudget   = errors.New("invalid budget")
	ErrInvalidTheme    = errors.New("invalid theme")
	ErrInvalidCurrency = errors.New("invalid currency")
	ErrInvalidUserName = errors.New("invalid user name")
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)

// Store implements the ledger over an injected key/value store.
type Store struct {
	kv                service.KeyValueStore
	now               func() time.Time
	newID             func(time.Time) string
	defaultTheme      model.Theme
	rejectFutureDates bool
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDGenerator replaces the expense id source.
func WithIDGenerator(newID func(time.Time) string) Option {
	return func(s *Store) {
		s.newID = newID
	}
}

// WithDefaultTheme sets the theme reported when none has been saved.
func WithDefaultTheme(theme model.Theme) Option {
	return func(s *Store) {
		if theme.IsValid() {
			s.defaultTheme = theme
		}
	}
}

// WithFutureDatesRejected makes AddExpense and UpdateExpense refuse dates after today.
func WithFutureDatesRejected() Option {
	return func(s *Store) {
		s.rejectFutureDates = true
	}
}

// New creates a Store backed by kv.
func New(kv service.KeyValueStore, opts ...Option) *Store {
	s := &Store{
		kv:           kv,
		now:          time.Now,
		newID:        NewExpenseID,
		defaultTheme: model.ThemeLight,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// getJSON decodes the value at key into v. found is false when the key is
// absent or holds a value that does not decode; corrupt values are logged.
func (s *Store) getJSON(ctx context.Context, key string, v any) (found bool, err error) {
	data, err := s.kv.Get(ctx, key)
	if errors.Is(err, common.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		common.LogError(ctx, err, "failed to read ledger entry", common.Fields{"key": key})
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		slog.WarnContext(ctx, "ignoring corrupt ledger entry", "key", key, "error", err)
		return false, nil
	}
	return true, nil
}

func (s *Store) setJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, data); err != nil {
		common.LogError(ctx, err, "failed to write ledger entry", common.Fields{"key": key})
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// ClearAllData removes every ledger key.
func (s *Store) ClearAllData(ctx context.Context) error {
	for _, key := range AllKeys {
		if err := s.kv.Delete(ctx, key); err != nil {
			return fmt.Errorf("failed to clear %s: %w", key, err)
		}
	}
	slog.InfoContext(ctx, "cleared all ledger data")
	return nil
}
