package insights

import (
	"testing"
	"time"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
	"github.com/stretchr/testify/assert"
)

func dated(id string, date model.Date) model.Expense {
	return model.Expense{ID: id, Amount: 1, Category: "food", Description: id, Date: date}
}

func ids(expenses []model.Expense) []string {
	out := make([]string, len(expenses))
	for i, e := range expenses {
		out[i] = e.ID
	}
	return out
}

func TestSortByDateDescending(t *testing.T) {
	input := []model.Expense{
		dated("a", "2024-03-01"),
		dated("b", "2024-03-05"),
		dated("c", "2024-03-01"),
		dated("d", "garbage"),
		dated("e", "2024-02-28"),
	}
	original := append([]model.Expense(nil), input...)

	sorted := SortByDateDescending(input)

	assert.Equal(t, []string{"b", "a", "c", "e", "d"}, ids(sorted))
	assert.Equal(t, original, input, "input must not be mutated")
	assert.Empty(t, SortByDateDescending(nil))
}

func TestFilterByDateRange(t *testing.T) {
	input := []model.Expense{
		dated("before", "2024-02-29"),
		dated("start", "2024-03-01"),
		dated("middle", "2024-03-15"),
		dated("end", "2024-03-31"),
		dated("after", "2024-04-01"),
		dated("invalid", ""),
	}

	start := time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 6, 0, 0, 0, time.UTC)

	assert.Equal(t, []string{"start", "middle", "end"}, ids(FilterByDateRange(input, start, end)))
}

func TestSearch(t *testing.T) {
	input := []model.Expense{
		{ID: "1", Description: "Weekly Groceries"},
		{ID: "2", Description: "Bus pass"},
		{ID: "3", Description: "grocery top-up"},
	}

	assert.Equal(t, []string{"1", "3"}, ids(Search(input, "  GROCER ")))
	assert.Equal(t, input, Search(input, ""))
	assert.Empty(t, Search(input, "cinema"))
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "£12.30", FormatCurrency(12.3, "£"))
	assert.Equal(t, "-$50.00", FormatCurrency(-50, "$"))
	assert.Equal(t, "€0.00", FormatCurrency(0, "€"))
	assert.Equal(t, "£1234.57", FormatCurrency(1234.567, "£"))
}
