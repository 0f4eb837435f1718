// Package backup reads and writes the JSON backup file format.
package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Veraticus/the-budget-must-balance/internal/common"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

// User-facing messages for failed imports.
const (
	InvalidFormatMessage = "Invalid file format. Please upload a valid backup file."
	ImportFailedMessage  = "Failed to import data. Please check the file."
)

// ErrInvalidBackup marks input that is not a structurally valid backup.
var ErrInvalidBackup = errors.New("invalid backup")

// FileName returns the conventional backup file name for the given day.
func FileName(now time.Time) string {
	return fmt.Sprintf("budget-backup-%s.json", now.Format(model.DateLayout))
}

// Encode writes snapshot as indented JSON.
func Encode(w io.Writer, snapshot model.Snapshot) error {
	if snapshot.Expenses == nil {
		snapshot.Expenses = []model.Expense{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshot); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	return nil
}

// rawSnapshot defers decoding of each field so its shape can be checked.
type rawSnapshot struct {
	Expenses   json.RawMessage `json:"expenses"`
	Budget     json.RawMessage `json:"budget"`
	Theme      json.RawMessage `json:"theme"`
	UserName   json.RawMessage `json:"userName"`
	ExportDate json.RawMessage `json:"exportDate"`
}

// Decode parses a backup. Input that is not a JSON object, or whose fields
// have the wrong shape, is rejected with ErrInvalidBackup wrapped in a
// common.UserError. Absent and null fields decode to nil.
func Decode(r io.Reader) (*model.Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, common.NewUserError(ImportFailedMessage, fmt.Errorf("failed to read backup: %w", err))
	}

	var raw rawSnapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, invalid("not a JSON object: %v", err)
	}
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return nil, invalid("not a JSON object")
	}

	snapshot := &model.Snapshot{}

	if present(raw.Expenses) {
		var items []json.RawMessage
		if err := json.Unmarshal(raw.Expenses, &items); err != nil {
			return nil, invalid("expenses must be an array")
		}
		snapshot.Expenses = make([]model.Expense, 0, len(items))
		for i, item := range items {
			if !bytes.HasPrefix(bytes.TrimSpace(item), []byte("{")) {
				return nil, invalid("expense %d is not an object", i)
			}
			var e model.Expense
			if err := json.Unmarshal(item, &e); err != nil {
				return nil, invalid("expense %d: %v", i, err)
			}
			snapshot.Expenses = append(snapshot.Expenses, e)
		}
	}

	if present(raw.Budget) {
		var budget float64
		if err := json.Unmarshal(raw.Budget, &budget); err != nil {
			return nil, invalid("budget must be a number")
		}
		snapshot.Budget = &budget
	}

	if present(raw.Theme) {
		var theme model.Theme
		if err := json.Unmarshal(raw.Theme, &theme); err != nil {
			return nil, invalid("theme must be a string")
		}
		snapshot.Theme = &theme
	}

	if present(raw.UserName) {
		var name string
		if err := json.Unmarshal(raw.UserName, &name); err != nil {
			return nil, invalid("userName must be a string")
		}
		snapshot.UserName = &name
	}

	if present(raw.ExportDate) {
		// exportDate is informational; a malformed one does not invalidate the backup.
		_ = json.Unmarshal(raw.ExportDate, &snapshot.ExportDate)
	}

	return snapshot, nil
}

func present(field json.RawMessage) bool {
	return len(field) > 0 && !bytes.Equal(bytes.TrimSpace(field), []byte("null"))
}

func invalid(format string, args ...any) error {
	return common.NewUserError(InvalidFormatMessage,
		fmt.Errorf("%w: %s", ErrInvalidBackup, fmt.Sprintf(format, args...)))
}
