// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

// KeyValueStore is the persistence boundary: a flat namespace of named JSON values.
// Get returns common.ErrNotFound for absent keys.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetMany writes every entry or none of them.
	SetMany(ctx context.Context, entries map[string][]byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// Ledger is the slice of the record store the dashboard reads and mutates.
type Ledger interface {
	GetExpensesByMonth(ctx context.Context, year int, month time.Month) ([]model.Expense, error)
	DeleteExpense(ctx context.Context, id string) (bool, error)
	LoadBudget(ctx context.Context) (float64, error)
	LoadCurrency(ctx context.Context) (model.Currency, error)
	LoadTheme(ctx context.Context) (model.Theme, error)
	SaveTheme(ctx context.Context, theme model.Theme) error
	LoadUserName(ctx context.Context) (name string, ok bool, err error)
}
