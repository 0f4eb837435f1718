package tui

import (
	"time"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

// Data loading messages.
type monthLoadedMsg struct {
	err      error
	currency model.Currency
	theme    model.Theme
	userName string
	expenses []model.Expense
	budget   float64
	year     int
	month    time.Month
}

// Async operation messages.
type themeSavedMsg struct {
	err   error
	theme model.Theme
}

type expenseDeletedMsg struct {
	err     error
	id      string
	deleted bool
}
