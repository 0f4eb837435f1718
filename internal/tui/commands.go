package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
	tea "github.com/charmbracelet/bubbletea"
)

const storageTimeout = 10 * time.Second

// loadMonth reads the viewed month's expenses and every display setting.
func (m Model) loadMonth() tea.Cmd {
	l := m.ledger
	year, month := m.year, m.month

	return func() tea.Msg {
		msg := monthLoadedMsg{year: year, month: month}

		ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
		defer cancel()

		expenses, err := l.GetExpensesByMonth(ctx, year, month)
		if err != nil {
			msg.err = fmt.Errorf("failed to load expenses: %w", err)
			return msg
		}
		msg.expenses = expenses

		if msg.budget, err = l.LoadBudget(ctx); err != nil {
			msg.err = fmt.Errorf("failed to load budget: %w", err)
			return msg
		}
		if msg.currency, err = l.LoadCurrency(ctx); err != nil {
			msg.err = fmt.Errorf("failed to load currency: %w", err)
			return msg
		}
		if msg.theme, err = l.LoadTheme(ctx); err != nil {
			msg.err = fmt.Errorf("failed to load theme: %w", err)
			return msg
		}
		if name, ok, nameErr := l.LoadUserName(ctx); nameErr != nil {
			msg.err = fmt.Errorf("failed to load user name: %w", nameErr)
			return msg
		} else if ok {
			msg.userName = name
		}

		return msg
	}
}

// saveTheme persists the theme preference.
func (m Model) saveTheme(theme model.Theme) tea.Cmd {
	l := m.ledger

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
		defer cancel()

		if err := l.SaveTheme(ctx, theme); err != nil {
			return themeSavedMsg{theme: theme, err: fmt.Errorf("failed to save theme: %w", err)}
		}
		return themeSavedMsg{theme: theme}
	}
}

// deleteExpense removes one expense by id.
func (m Model) deleteExpense(id string) tea.Cmd {
	l := m.ledger

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
		defer cancel()

		deleted, err := l.DeleteExpense(ctx, id)
		if err != nil {
			return expenseDeletedMsg{id: id, err: fmt.Errorf("failed to delete expense: %w", err)}
		}
		return expenseDeletedMsg{id: id, deleted: deleted}
	}
}
