package insights

import (
	"github.com/shopspring/decimal"
)

// FormatCurrency renders amount with two decimals, e.g. -£12.30. Non-finite
// amounts render as zero.
func FormatCurrency(amount float64, symbol string) string {
	amount = finite(amount)
	sign := ""
	if amount < 0 {
		sign = "-"
	}
	return sign + symbol + decimal.NewFromFloat(amount).Abs().StringFixed(2)
}
