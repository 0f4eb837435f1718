package model

// Currency is a display currency. It never affects stored amounts.
type Currency struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// Currencies is the closed set of selectable currencies. The first entry is the default.
var Currencies = []Currency{
	{Code: "GBP", Symbol: "£", Name: "British Pound"},
	{Code: "USD", Symbol: "$", Name: "US Dollar"},
	{Code: "EUR", Symbol: "€", Name: "Euro"},
}

// DefaultCurrency returns the currency used when none is saved.
func DefaultCurrency() Currency {
	return Currencies[0]
}

// CurrencyByCode looks up a currency by its ISO code.
func CurrencyByCode(code string) (Currency, bool) {
	for _, c := range Currencies {
		if c.Code == code {
			return c, true
		}
	}
	return Currency{}, false
}
