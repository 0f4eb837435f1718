package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Veraticus/the-budget-must-balance/internal/common"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

// LoadExpenses returns the persisted collection. A missing or corrupt
// collection yields an empty slice.
func (s *Store) LoadExpenses(ctx context.Context) ([]model.Expense, error) {
	var expenses []model.Expense
	found, err := s.getJSON(ctx, KeyExpenses, &expenses)
	if err != nil {
		return nil, err
	}
	if !found || expenses == nil {
		return []model.Expense{}, nil
	}
	return expenses, nil
}

// SaveExpenses replaces the persisted collection.
func (s *Store) SaveExpenses(ctx context.Context, expenses []model.Expense) error {
	if expenses == nil {
		expenses = []model.Expense{}
	}
	return s.setJSON(ctx, KeyExpenses, expenses)
}

// AddExpense validates draft, assigns an id and creation timestamp, and appends it.
func (s *Store) AddExpense(ctx context.Context, draft model.ExpenseDraft) (model.Expense, error) {
	now := s.now()
	expense := s.newExpense(draft, now)

	if err := s.validateEntry(expense, now); err != nil {
		return model.Expense{}, err
	}

	expenses, err := s.LoadExpenses(ctx)
	if err != nil {
		return model.Expense{}, err
	}

	expenses = append(expenses, expense)
	if err := s.SaveExpenses(ctx, expenses); err != nil {
		return model.Expense{}, err
	}

	slog.DebugContext(ctx, "added expense",
		"id", expense.ID,
		"category", expense.Category,
		"amount", expense.Amount.Float64())
	return expense, nil
}

// AddExpenses appends every draft in a single write. Nothing is stored
// unless all drafts are valid.
func (s *Store) AddExpenses(ctx context.Context, drafts []model.ExpenseDraft) ([]model.Expense, error) {
	now := s.now()
	added := make([]model.Expense, 0, len(drafts))
	for i, draft := range drafts {
		expense := s.newExpense(draft, now)
		if err := s.validateEntry(expense, now); err != nil {
			return nil, fmt.Errorf("expense %d of %d: %w", i+1, len(drafts), err)
		}
		added = append(added, expense)
	}
	if len(added) == 0 {
		return added, nil
	}

	expenses, err := s.LoadExpenses(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.SaveExpenses(ctx, append(expenses, added...)); err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "added expenses", "count", len(added))
	return added, nil
}

func (s *Store) newExpense(draft model.ExpenseDraft, now time.Time) model.Expense {
	return model.Expense{
		ID:          s.newID(now),
		Amount:      model.Amount(draft.Amount),
		Category:    draft.Category,
		Description: strings.TrimSpace(draft.Description),
		Date:        draft.Date,
		Timestamp:   now.UnixMilli(),
	}
}

// UpdateExpense merges patch into the expense with id and stamps updatedAt.
// It returns common.ErrNotFound when no expense has that id.
func (s *Store) UpdateExpense(ctx context.Context, id string, patch model.ExpensePatch) (model.Expense, error) {
	expenses, err := s.LoadExpenses(ctx)
	if err != nil {
		return model.Expense{}, err
	}

	index := indexOf(expenses, id)
	if index < 0 {
		return model.Expense{}, fmt.Errorf("expense %s: %w", id, common.ErrNotFound)
	}

	now := s.now()
	updated := expenses[index]
	if patch.Amount != nil {
		updated.Amount = model.Amount(*patch.Amount)
	}
	if patch.Category != nil {
		updated.Category = *patch.Category
	}
	if patch.Description != nil {
		updated.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Date != nil {
		updated.Date = *patch.Date
	}
	stamp := now.UnixMilli()
	updated.UpdatedAt = &stamp

	if err := s.validateEntry(updated, now); err != nil {
		return model.Expense{}, err
	}

	expenses[index] = updated
	if err := s.SaveExpenses(ctx, expenses); err != nil {
		return model.Expense{}, err
	}

	slog.DebugContext(ctx, "updated expense", "id", id)
	return updated, nil
}

// DeleteExpense removes the expense with id. It reports false, without
// writing, when no such expense exists.
func (s *Store) DeleteExpense(ctx context.Context, id string) (bool, error) {
	expenses, err := s.LoadExpenses(ctx)
	if err != nil {
		return false, err
	}

	filtered := make([]model.Expense, 0, len(expenses))
	for _, e := range expenses {
		if e.ID != id {
			filtered = append(filtered, e)
		}
	}

	if len(filtered) == len(expenses) {
		return false, nil
	}

	if err := s.SaveExpenses(ctx, filtered); err != nil {
		return false, err
	}

	slog.DebugContext(ctx, "deleted expense", "id", id)
	return true, nil
}

// GetExpense returns the expense with id, or common.ErrNotFound.
func (s *Store) GetExpense(ctx context.Context, id string) (model.Expense, error) {
	expenses, err := s.LoadExpenses(ctx)
	if err != nil {
		return model.Expense{}, err
	}
	if i := indexOf(expenses, id); i >= 0 {
		return expenses[i], nil
	}
	return model.Expense{}, fmt.Errorf("expense %s: %w", id, common.ErrNotFound)
}

// GetExpensesByMonth returns the expenses dated in the given month.
func (s *Store) GetExpensesByMonth(ctx context.Context, year int, month time.Month) ([]model.Expense, error) {
	expenses, err := s.LoadExpenses(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]model.Expense, 0, len(expenses))
	for _, e := range expenses {
		if e.Date.InMonth(year, month) {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

// GetExpensesByCategory returns the expenses stored under categoryID.
func (s *Store) GetExpensesByCategory(ctx context.Context, categoryID string) ([]model.Expense, error) {
	expenses, err := s.LoadExpenses(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]model.Expense, 0, len(expenses))
	for _, e := range expenses {
		if e.Category == categoryID {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

func indexOf(expenses []model.Expense, id string) int {
	for i, e := range expenses {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// validateEntry applies the record invariants plus the optional future-date rule.
func (s *Store) validateEntry(e model.Expense, now time.Time) error {
	if err := ValidateExpense(e); err != nil {
		return err
	}
	if s.rejectFutureDates && e.Date.After(now) {
		return fmt.Errorf("%w: date %s is in the future", ErrInvalidExpense, e.Date)
	}
	return nil
}

// ValidateExpense checks the record invariants every stored expense satisfies.
func ValidateExpense(e model.Expense) error {
	if e.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidExpense)
	}
	if !e.Amount.IsValid() || e.Amount <= 0 {
		return fmt.Errorf("%w: amount must be greater than zero", ErrInvalidExpense)
	}
	if e.Amount > model.MaxAmount {
		return fmt.Errorf("%w: amount must not exceed %.0f", ErrInvalidExpense, model.MaxAmount)
	}
	if !model.IsValidCategory(e.Category) {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidExpense, e.Category)
	}
	description := strings.TrimSpace(e.Description)
	if description == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidExpense)
	}
	if utf8.RuneCountInString(description) > model.MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidExpense, model.MaxDescriptionLength)
	}
	if !e.Date.IsValid() {
		return fmt.Errorf("%w: invalid date %q", ErrInvalidExpense, e.Date)
	}
	return nil
}
