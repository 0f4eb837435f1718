package insights

import (
	"fmt"
	"testing"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func onDay(date model.Date, amount float64) model.Expense {
	return model.Expense{Amount: model.Amount(amount), Category: "food", Description: "x", Date: date}
}

func TestTrendSeries_SingleDayPassthrough(t *testing.T) {
	points := TrendSeries([]model.Expense{onDay("2024-03-04", 12), onDay("2024-03-04", 8)})

	require.Len(t, points, 1)
	assert.Equal(t, 20.0, points[0].Amount)
	assert.Equal(t, 20.0, points[0].Trend)
	assert.Equal(t, 2, points[0].Count)
	assert.Equal(t, "Mar 04", points[0].Label)
	assert.Equal(t, model.Date("2024-03-04"), points[0].Date)
}

func TestTrendSeries_MovingAverage(t *testing.T) {
	points := TrendSeries([]model.Expense{
		onDay("2024-03-03", 30),
		onDay("2024-03-01", 10),
		onDay("2024-03-02", 20),
		onDay("2024-03-04", 60),
	})

	require.Len(t, points, 4)
	assert.Equal(t, []float64{10, 20, 30, 60}, []float64{points[0].Amount, points[1].Amount, points[2].Amount, points[3].Amount})
	assert.Equal(t, 10.0, points[0].Trend, "first point passes through")
	assert.Equal(t, 20.0, points[1].Trend, "second point passes through")
	assert.Equal(t, 20.0, points[2].Trend)
	assert.InDelta(t, 110.0/3.0, points[3].Trend, 1e-9)
}

func TestTrendSeries_KeepsMostRecentWindow(t *testing.T) {
	var expenses []model.Expense
	for day := 1; day <= 20; day++ {
		expenses = append(expenses, onDay(model.Date(fmt.Sprintf("2024-03-%02d", day)), float64(day)))
	}

	points := TrendSeries(expenses)

	require.Len(t, points, TrendWindow)
	assert.Equal(t, model.Date("2024-03-07"), points[0].Date)
	assert.Equal(t, model.Date("2024-03-20"), points[len(points)-1].Date)
	assert.Equal(t, 7.0, points[0].Trend, "window start passes through after trimming")
	assert.Equal(t, 8.0, points[1].Trend)
	assert.Equal(t, 8.0, points[2].Trend)
}

func TestTrendSeries_SeparatesYears(t *testing.T) {
	points := TrendSeries([]model.Expense{onDay("2023-03-04", 5), onDay("2024-03-04", 7)})

	require.Len(t, points, 2)
	assert.Equal(t, model.Date("2023-03-04"), points[0].Date)
	assert.Equal(t, model.Date("2024-03-04"), points[1].Date)
}

func TestTrendSeries_Empty(t *testing.T) {
	assert.Empty(t, TrendSeries(nil))
	assert.Empty(t, TrendSeries([]model.Expense{onDay("bogus", 5)}))
}
