package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/the-budget-must-balance/internal/common"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

// ExportData captures every persisted value for backup.
func (s *Store) ExportData(ctx context.Context) (model.Snapshot, error) {
	expenses, err := s.LoadExpenses(ctx)
	if err != nil {
		return model.Snapshot{}, err
	}
	budget, err := s.LoadBudget(ctx)
	if err != nil {
		return model.Snapshot{}, err
	}
	theme, err := s.LoadTheme(ctx)
	if err != nil {
		return model.Snapshot{}, err
	}

	snapshot := model.Snapshot{
		Expenses:   expenses,
		Budget:     &budget,
		Theme:      &theme,
		ExportDate: model.FormatExportDate(s.now()),
	}

	name, ok, err := s.LoadUserName(ctx)
	if err != nil {
		return model.Snapshot{}, err
	}
	if ok {
		snapshot.UserName = &name
	}

	return snapshot, nil
}

// ImportData writes each field present in snapshot and leaves absent fields
// untouched. Zero-valued scalars (budget 0, empty theme or user name) count as
// absent, and an invalid budget or theme is skipped with a warning. The
// expense list is validated first; if any record is invalid nothing is written.
func (s *Store) ImportData(ctx context.Context, snapshot model.Snapshot) error {
	entries, err := snapshotEntries(ctx, snapshot)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		slog.InfoContext(ctx, "backup contained no data to import")
		return nil
	}

	if err := s.kv.SetMany(ctx, entries); err != nil {
		common.LogError(ctx, err, "failed to import backup", common.Fields{"entries": len(entries)})
		return fmt.Errorf("failed to import backup: %w", err)
	}

	slog.InfoContext(ctx, "imported backup",
		"expenses", len(snapshot.Expenses),
		"fields", len(entries))
	return nil
}

func snapshotEntries(ctx context.Context, snapshot model.Snapshot) (map[string][]byte, error) {
	values := make(map[string]any)

	if snapshot.Expenses != nil {
		seen := make(map[string]struct{}, len(snapshot.Expenses))
		for i, e := range snapshot.Expenses {
			if err := ValidateExpense(e); err != nil {
				return nil, fmt.Errorf("%w: expense %d: %w", ErrInvalidSnapshot, i, err)
			}
			if _, dup := seen[e.ID]; dup {
				return nil, fmt.Errorf("%w: duplicate expense id %s", ErrInvalidSnapshot, e.ID)
			}
			seen[e.ID] = struct{}{}
		}
		values[KeyExpenses] = snapshot.Expenses
	}

	if snapshot.Budget != nil && *snapshot.Budget != 0 {
		if budget, err := ParseBudget(*snapshot.Budget); err != nil {
			slog.WarnContext(ctx, "skipping invalid budget in backup", "budget", *snapshot.Budget, "error", err)
		} else {
			values[KeyBudget] = budget
		}
	}

	if snapshot.Theme != nil && *snapshot.Theme != "" {
		if snapshot.Theme.IsValid() {
			values[KeyTheme] = *snapshot.Theme
		} else {
			slog.WarnContext(ctx, "skipping unknown theme in backup", "theme", string(*snapshot.Theme))
		}
	}

	if snapshot.UserName != nil {
		if name := strings.TrimSpace(*snapshot.UserName); name != "" {
			values[KeyUserName] = name
		}
	}

	entries := make(map[string][]byte, len(values))
	for key, v := range values {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", key, err)
		}
		entries[key] = data
	}
	return entries, nil
}
