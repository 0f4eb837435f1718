// Package insights turns a month of expense records and a budget into the
// derived figures the display layer shows. Every function is pure and total:
// malformed amounts count as zero and nil collections behave as empty ones.
package insights

import (
	"math"
	"sort"
	"time"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
	"github.com/shopspring/decimal"
)

// CategoryTotal is one category's share of spending.
type CategoryTotal struct {
	model.Category
	Expenses []model.Expense `json:"expenses"`
	Total    float64         `json:"total"`
	Count    int             `json:"count"`
}

// Insights is the derived snapshot for a month. It is never persisted.
type Insights struct {
	TopCategory        *CategoryTotal     `json:"topCategory"`
	Status             model.BudgetStatus `json:"status"`
	CategoryTotals     []CategoryTotal    `json:"categoryTotals"`
	Total              float64            `json:"total"`
	Remaining          float64            `json:"remaining"`
	Percentage         float64            `json:"percentage"`
	Projected          float64            `json:"projected"`
	DailyAverage       float64            `json:"dailyAverage"`
	BudgetPerDay       float64            `json:"budgetPerDay"`
	DaysRemaining      int                `json:"daysRemaining"`
	IsOverBudget       bool               `json:"isOverBudget"`
	CanAffordProjected bool               `json:"canAffordProjected"`
}

// Total sums the amounts of expenses. The sum is computed in decimal so that
// currency amounts such as 0.1 + 0.2 add up exactly.
func Total(expenses []model.Expense) float64 {
	sum := decimal.Zero
	for _, e := range expenses {
		if !e.Amount.IsValid() {
			continue
		}
		sum = sum.Add(decimal.NewFromFloat(e.Amount.Float64()))
	}
	return finite(sum.InexactFloat64())
}

// Remaining is budget minus total; negative when over budget.
func Remaining(budget, total float64) float64 {
	return budget - total
}

// Percentage is the share of budget spent, unclamped. A zero budget yields 0.
func Percentage(budget, total float64) float64 {
	if budget == 0 {
		return 0
	}
	return finite((total / budget) * 100)
}

// Status classifies total/budget: at or past the full budget is DANGER, from
// 0.85 of it is WARNING, anything lower is SAFE. A budget of zero or less with
// any spending is DANGER.
func Status(budget, total float64) model.BudgetStatus {
	if budget <= 0 {
		if total > 0 {
			return model.StatusDangerTier
		}
		return model.StatusSafeTier
	}

	ratio := total / budget
	switch {
	case ratio >= model.StatusDangerTier.Threshold:
		return model.StatusDangerTier
	case ratio >= model.StatusWarningTier.Threshold:
		return model.StatusWarningTier
	default:
		return model.StatusSafeTier
	}
}

// GroupByCategory buckets expenses by category id. Missing or unknown
// categories are filed under other.
func GroupByCategory(expenses []model.Expense) map[string][]model.Expense {
	groups := make(map[string][]model.Expense)
	for _, e := range expenses {
		id := e.CategoryID()
		groups[id] = append(groups[id], e)
	}
	return groups
}

// CategoryTotals rolls spending up per category, omits categories with no
// spending, and orders the rest by total descending. Equal totals keep the
// fixed category declaration order.
func CategoryTotals(expenses []model.Expense) []CategoryTotal {
	grouped := GroupByCategory(expenses)

	totals := make([]CategoryTotal, 0, len(grouped))
	for _, cat := range model.Categories {
		members := grouped[cat.ID]
		total := Total(members)
		if total <= 0 {
			continue
		}
		totals = append(totals, CategoryTotal{
			Category: cat,
			Total:    total,
			Count:    len(members),
			Expenses: members,
		})
	}

	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Total > totals[j].Total
	})

	return totals
}

// DailyAverage spreads the total over daysElapsed.
func DailyAverage(expenses []model.Expense, daysElapsed int) float64 {
	if daysElapsed == 0 {
		return 0
	}
	return Total(expenses) / float64(daysElapsed)
}

// ProjectedSpending extrapolates the daily average over the whole month.
func ProjectedSpending(expenses []model.Expense, daysElapsed, daysRemaining int) float64 {
	if daysElapsed == 0 {
		return 0
	}
	return finite(DailyAverage(expenses, daysElapsed) * float64(daysElapsed+daysRemaining))
}

// DaysElapsedInMonth counts today as elapsed.
func DaysElapsedInMonth(now time.Time) int {
	return now.Day()
}

// DaysRemainingInMonth returns the days left after today.
func DaysRemainingInMonth(now time.Time) int {
	return DaysInMonth(now.Year(), now.Month()) - now.Day()
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Compute builds the full snapshot. now drives the elapsed/remaining day
// counts used by the average and the projection.
func Compute(budget float64, expenses []model.Expense, now time.Time) Insights {
	total := Total(expenses)
	remaining := Remaining(budget, total)
	categoryTotals := CategoryTotals(expenses)
	daysElapsed := DaysElapsedInMonth(now)
	daysRemaining := DaysRemainingInMonth(now)
	projected := ProjectedSpending(expenses, daysElapsed, daysRemaining)

	var top *CategoryTotal
	if len(categoryTotals) > 0 {
		top = &categoryTotals[0]
	}

	perDayDivisor := daysRemaining
	if perDayDivisor == 0 {
		perDayDivisor = 1
	}

	return Insights{
		Total:              total,
		Remaining:          finite(remaining),
		Percentage:         roundHalfUp(Percentage(budget, total)),
		Status:             Status(budget, total),
		CategoryTotals:     categoryTotals,
		TopCategory:        top,
		Projected:          projected,
		DaysRemaining:      daysRemaining,
		DailyAverage:       DailyAverage(expenses, daysElapsed),
		BudgetPerDay:       finite(remaining / float64(perDayDivisor)),
		IsOverBudget:       total > budget,
		CanAffordProjected: projected <= budget,
	}
}

// finite maps NaN and the infinities to 0.
func finite(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

// roundHalfUp rounds to the nearest integer with halves rounded toward +Inf.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

// MonthReference picks the instant used for month day arithmetic: now inside
// the month being viewed, the last day for past months, the first for future ones.
func MonthReference(year int, month time.Month, now time.Time) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, now.Location())
	if now.Year() == year && now.Month() == month {
		return now
	}
	if now.Before(first) {
		return first
	}
	return time.Date(year, month, DaysInMonth(year, month), 0, 0, 0, 0, now.Location())
}
