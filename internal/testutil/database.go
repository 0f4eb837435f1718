// Package testutil provides test fixtures for ledger-backed code: migrated
// stores, fixed clocks and seeded expenses.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Veraticus/the-budget-must-balance/internal/ledger"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
	"github.com/Veraticus/the-budget-must-balance/internal/service"
	"github.com/Veraticus/the-budget-must-balance/internal/storage"
)

// FixedNow is the instant returned by the clock of every test ledger.
var FixedNow = time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)

// TestLedger bundles a ledger with the store beneath it.
type TestLedger struct {
	Ledger *ledger.Store
	Store  service.KeyValueStore
	t      *testing.T
}

// SetupTestDB creates a migrated in-memory SQLite store that is closed when
// the test ends.
func SetupTestDB(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(storage.MemoryPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

// NewLedger returns a ledger over a fresh SQLite store with the clock pinned
// to FixedNow and sequential expense ids.
func NewLedger(t *testing.T, opts ...ledger.Option) *TestLedger {
	t.Helper()
	return NewLedgerWithStore(t, SetupTestDB(t), opts...)
}

// NewMemoryLedger is NewLedger over storage.MemoryStorage.
func NewMemoryLedger(t *testing.T, opts ...ledger.Option) *TestLedger {
	t.Helper()
	return NewLedgerWithStore(t, storage.NewMemoryStorage(), opts...)
}

// NewLedgerWithStore wires a test ledger to store.
func NewLedgerWithStore(t *testing.T, store service.KeyValueStore, opts ...ledger.Option) *TestLedger {
	t.Helper()

	defaults := []ledger.Option{
		ledger.WithClock(func() time.Time { return FixedNow }),
		ledger.WithIDGenerator(SequentialIDs()),
	}

	return &TestLedger{
		Ledger: ledger.New(store, append(defaults, opts...)...),
		Store:  store,
		t:      t,
	}
}

// SequentialIDs returns an id source yielding exp_test_1, exp_test_2, ...
func SequentialIDs() func(time.Time) string {
	n := 0
	return func(time.Time) string {
		n++
		return fmt.Sprintf("exp_test_%d", n)
	}
}

// MustAdd adds an expense or fails the test.
func (tl *TestLedger) MustAdd(amount float64, category, description string, date model.Date) model.Expense {
	tl.t.Helper()

	expense, err := tl.Ledger.AddExpense(context.Background(), model.ExpenseDraft{
		Amount:      amount,
		Category:    category,
		Description: description,
		Date:        date,
	})
	if err != nil {
		tl.t.Fatalf("failed to add expense %q: %v", description, err)
	}
	return expense
}

// MustLoad returns every stored expense or fails the test.
func (tl *TestLedger) MustLoad() []model.Expense {
	tl.t.Helper()

	expenses, err := tl.Ledger.LoadExpenses(context.Background())
	if err != nil {
		tl.t.Fatalf("failed to load expenses: %v", err)
	}
	return expenses
}

// SeedMarch adds a small spread of March 2024 expenses.
func (tl *TestLedger) SeedMarch() []model.Expense {
	tl.t.Helper()

	return []model.Expense{
		tl.MustAdd(50, "food", "Weekly groceries", "2024-03-02"),
		tl.MustAdd(30, "food", "Takeaway", "2024-03-09"),
		tl.MustAdd(20, "transport", "Bus pass", "2024-03-11"),
	}
}
