package insights

import (
	"sort"
	"strings"
	"time"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

// SortByDateDescending returns a copy of expenses ordered newest first.
// Records with equal dates keep their relative order; undated records sort last.
func SortByDateDescending(expenses []model.Expense) []model.Expense {
	sorted := make([]model.Expense, len(expenses))
	copy(sorted, expenses)

	sort.SliceStable(sorted, func(i, j int) bool {
		ti, okI := sorted[i].Date.Time()
		tj, okJ := sorted[j].Date.Time()
		if okI != okJ {
			return okI
		}
		return ti.After(tj)
	})

	return sorted
}

// FilterByDateRange keeps expenses dated within [start, end], compared by calendar day.
func FilterByDateRange(expenses []model.Expense, start, end time.Time) []model.Expense {
	from := calendarDay(start)
	to := calendarDay(end)

	filtered := make([]model.Expense, 0, len(expenses))
	for _, e := range expenses {
		d, ok := e.Date.Time()
		if !ok {
			continue
		}
		if !d.Before(from) && !d.After(to) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// Search matches term case-insensitively against descriptions.
// An empty term returns expenses unchanged.
func Search(expenses []model.Expense, term string) []model.Expense {
	if term == "" {
		return expenses
	}

	needle := strings.ToLower(strings.TrimSpace(term))
	matches := make([]model.Expense, 0, len(expenses))
	for _, e := range expenses {
		if strings.Contains(strings.ToLower(e.Description), needle) {
			matches = append(matches, e)
		}
	}
	return matches
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
