// Package model defines the core domain models used throughout the application.
package model

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// DateLayout is the calendar date encoding used in stored records and backups.
const DateLayout = "2006-01-02"

// MaxDescriptionLength bounds expense descriptions, counted in runes.
const MaxDescriptionLength = 100

// MaxAmount bounds a single expense so that month totals and projections stay finite.
const MaxAmount = 1_000_000_000.0

// Expense is one logged spending event. Field names are the persisted wire format.
type Expense struct {
	ID          string `json:"id"`
	Amount      Amount `json:"amount"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Date        Date   `json:"date"`
	Timestamp   int64  `json:"timestamp"`
	UpdatedAt   *int64 `json:"updatedAt,omitempty"`
}

// CreatedAt returns the creation instant.
func (e Expense) CreatedAt() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// LastUpdated returns the last modification instant, if any.
func (e Expense) LastUpdated() (time.Time, bool) {
	if e.UpdatedAt == nil {
		return time.Time{}, false
	}
	return time.UnixMilli(*e.UpdatedAt), true
}

// CategoryID returns the category, falling back to other when unset or unknown.
func (e Expense) CategoryID() string {
	if IsValidCategory(e.Category) {
		return e.Category
	}
	return CategoryOther
}

// ExpenseDraft holds the user-supplied fields of a new expense.
type ExpenseDraft struct {
	Category    string
	Description string
	Date        Date
	Amount      float64
}

// ExpensePatch holds the fields of an update. Nil fields are left unchanged.
type ExpensePatch struct {
	Amount      *float64
	Category    *string
	Description *string
	Date        *Date
}

// Amount is a currency amount. Decoding tolerates malformed input: numbers and
// numeric strings are accepted, anything else decodes to zero.
type Amount float64

// Float64 returns the amount, or zero if it is not a finite number.
func (a Amount) Float64() float64 {
	f := float64(a)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// IsValid reports whether the amount is finite.
func (a Amount) IsValid() bool {
	f := float64(a)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		*a = 0
		return nil //nolint:nilerr // malformed amounts count as zero
	}

	switch v := raw.(type) {
	case float64:
		*a = Amount(v)
	case string:
		f, err := cast.ToFloat64E(strings.TrimSpace(v))
		if err != nil {
			f = 0
		}
		*a = Amount(f)
	default:
		*a = 0
	}
	return nil
}

// Date is a calendar date kept in its stored textual form so that records
// round-trip unchanged. Use Time to interpret it.
type Date string

// NewDate returns the date of t in its own location.
func NewDate(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return "", err
	}
	return NewDate(t), nil
}

// Time interprets the date as midnight UTC. RFC 3339 timestamps are accepted
// and reduced to their own calendar date. ok is false for unparseable values.
func (d Date) Time() (t time.Time, ok bool) {
	s := strings.TrimSpace(string(d))
	if s == "" {
		return time.Time{}, false
	}
	if parsed, err := time.Parse(DateLayout, s); err == nil {
		return parsed, true
	}
	if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil {
		y, m, day := parsed.Date()
		return time.Date(y, m, day, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// UnmarshalJSON implements json.Unmarshaler. Non-string values decode to an
// empty date rather than failing the enclosing record.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*d = ""
		return nil //nolint:nilerr // malformed dates never match a month
	}
	*d = Date(s)
	return nil
}

// IsValid reports whether the date can be interpreted.
func (d Date) IsValid() bool {
	_, ok := d.Time()
	return ok
}

// InMonth reports whether the date falls in the given calendar month.
func (d Date) InMonth(year int, month time.Month) bool {
	t, ok := d.Time()
	if !ok {
		return false
	}
	return t.Year() == year && t.Month() == month
}

// After reports whether d is a later calendar day than t's date.
func (d Date) After(t time.Time) bool {
	dt, ok := d.Time()
	if !ok {
		return false
	}
	y, m, day := t.Date()
	return dt.After(time.Date(y, m, day, 0, 0, 0, 0, time.UTC))
}
