package ledger

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
	"github.com/spf13/cast"
)

// LoadBudget returns the monthly budget, or model.DefaultMonthlyBudget when
// none is saved or the saved value is unusable.
func (s *Store) LoadBudget(ctx context.Context) (float64, error) {
	var budget float64
	found, err := s.getJSON(ctx, KeyBudget, &budget)
	if err != nil {
		return 0, err
	}
	if !found || budget <= 0 {
		return model.DefaultMonthlyBudget, nil
	}
	return budget, nil
}

// SaveBudget stores amount as the monthly budget. amount may be a number or a
// numeric string; anything non-numeric or not positive is rejected with
// ErrInvalidBudget and the stored budget is left unchanged.
func (s *Store) SaveBudget(ctx context.Context, amount any) error {
	budget, err := ParseBudget(amount)
	if err != nil {
		return err
	}
	return s.setJSON(ctx, KeyBudget, budget)
}

// ParseBudget coerces amount to a positive finite budget.
func ParseBudget(amount any) (float64, error) {
	if str, ok := amount.(string); ok {
		amount = strings.TrimSpace(str)
	}
	budget, err := cast.ToFloat64E(amount)
	if err != nil {
		return 0, fmt.Errorf("%w: %v is not a number", ErrInvalidBudget, amount)
	}
	if math.IsNaN(budget) || math.IsInf(budget, 0) || budget <= 0 {
		return 0, fmt.Errorf("%w: %v must be greater than zero", ErrInvalidBudget, amount)
	}
	return budget, nil
}

// LoadCurrency returns the display currency, defaulting to the first known one.
func (s *Store) LoadCurrency(ctx context.Context) (model.Currency, error) {
	var currency model.Currency
	found, err := s.getJSON(ctx, KeyCurrency, &currency)
	if err != nil {
		return model.Currency{}, err
	}
	if !found || currency.Code == "" {
		return model.DefaultCurrency(), nil
	}
	return currency, nil
}

// SaveCurrency stores the currency identified by code.
func (s *Store) SaveCurrency(ctx context.Context, code string) error {
	currency, ok := model.CurrencyByCode(strings.ToUpper(strings.TrimSpace(code)))
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidCurrency, code)
	}
	return s.setJSON(ctx, KeyCurrency, currency)
}

// LoadTheme returns the saved theme or the configured default.
func (s *Store) LoadTheme(ctx context.Context) (model.Theme, error) {
	var theme model.Theme
	found, err := s.getJSON(ctx, KeyTheme, &theme)
	if err != nil {
		return "", err
	}
	if !found || !theme.IsValid() {
		return s.defaultTheme, nil
	}
	return theme, nil
}

// SaveTheme stores theme. Only light and dark are accepted.
func (s *Store) SaveTheme(ctx context.Context, theme model.Theme) error {
	if !theme.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, theme)
	}
	return s.setJSON(ctx, KeyTheme, theme)
}

// LoadUserName returns the saved user name; ok is false when none is saved.
func (s *Store) LoadUserName(ctx context.Context) (name string, ok bool, err error) {
	found, err := s.getJSON(ctx, KeyUserName, &name)
	if err != nil {
		return "", false, err
	}
	if !found || name == "" {
		return "", false, nil
	}
	return name, true, nil
}

// SaveUserName stores the trimmed name.
func (s *Store) SaveUserName(ctx context.Context, name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidUserName)
	}
	return s.setJSON(ctx, KeyUserName, trimmed)
}

// IsOnboardingComplete reports whether CompleteOnboarding has run.
func (s *Store) IsOnboardingComplete(ctx context.Context) (bool, error) {
	var complete bool
	found, err := s.getJSON(ctx, KeyOnboarding, &complete)
	if err != nil {
		return false, err
	}
	return found && complete, nil
}

// CompleteOnboarding marks onboarding done.
func (s *Store) CompleteOnboarding(ctx context.Context) error {
	return s.setJSON(ctx, KeyOnboarding, true)
}
