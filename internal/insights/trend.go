package insights

import (
	"sort"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

// TrendWindow is the number of most recent days kept in a trend series.
const TrendWindow = 14

// TrendPoint is one day of spending with its smoothed value.
type TrendPoint struct {
	Date   model.Date `json:"fullDate"`
	Label  string     `json:"date"`
	Amount float64    `json:"amount"`
	Trend  float64    `json:"trend"`
	Count  int        `json:"count"`
}

// TrendSeries buckets expenses per calendar day, keeps the most recent
// TrendWindow days in chronological order and smooths them with a trailing
// three-day mean. The first two points have no full window and carry their
// own amount as the trend.
func TrendSeries(expenses []model.Expense) []TrendPoint {
	byDay := make(map[model.Date][]model.Expense)
	for _, e := range expenses {
		t, ok := e.Date.Time()
		if !ok {
			continue
		}
		day := model.NewDate(t)
		byDay[day] = append(byDay[day], e)
	}

	days := make([]model.Date, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	// YYYY-MM-DD sorts chronologically as text.
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	if len(days) > TrendWindow {
		days = days[len(days)-TrendWindow:]
	}

	points := make([]TrendPoint, len(days))
	for i, day := range days {
		t, _ := day.Time()
		points[i] = TrendPoint{
			Date:   day,
			Label:  t.Format("Jan 02"),
			Amount: Total(byDay[day]),
			Count:  len(byDay[day]),
		}
	}

	for i := range points {
		if i < 2 {
			points[i].Trend = points[i].Amount
			continue
		}
		points[i].Trend = (points[i].Amount + points[i-1].Amount + points[i-2].Amount) / 3
	}

	return points
}
