package model

import "time"

// ExportDateLayout is ISO 8601 in UTC with millisecond precision.
const ExportDateLayout = "2006-01-02T15:04:05.000Z"

// Snapshot is the backup payload capturing all persisted user state.
// Pointer fields distinguish absent values from zero values on import.
type Snapshot struct {
	Expenses   []Expense `json:"expenses"`
	Budget     *float64  `json:"budget"`
	Theme      *Theme    `json:"theme"`
	UserName   *string   `json:"userName"`
	ExportDate string    `json:"exportDate"`
}

// FormatExportDate renders t in the backup timestamp format.
func FormatExportDate(t time.Time) string {
	return t.UTC().Format(ExportDateLayout)
}
