package ofx

import (
	"strings"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

// Rule maps merchant keywords to a category.
type Rule struct {
	Category string
	Keywords []string
}

// DefaultRules are checked in order; the first rule with a matching keyword wins.
var DefaultRules = []Rule{
	{Category: "food", Keywords: []string{
		"UBER EATS", "DELIVEROO", "JUST EAT", "STARBUCKS", "COFFEE", "CAFE", "RESTAURANT",
		"PIZZA", "MCDONALD", "BURGER", "WHOLE FOODS", "GROCER", "SUPERMARKET", "MARKET",
		"TESCO", "SAINSBURY", "ALDI", "LIDL", "WAITROSE",
	}},
	{Category: "transport", Keywords: []string{
		"UBER", "LYFT", "TAXI", "TRANSIT", "RAIL", "TRAIN", "BUS ", "TFL", "METRO",
		"PARKING", "FUEL", "SHELL", "CHEVRON", "AIRLINE",
	}},
	{Category: "study", Keywords: []string{
		"BOOKSTORE", "BOOKS", "UNIVERSITY", "COLLEGE", "TUITION", "COURSERA", "UDEMY", "CHEGG",
	}},
	{Category: "accommodation", Keywords: []string{
		"RENT", "LETTING", "HOUSING", "HOTEL", "AIRBNB", "HOSTEL",
	}},
	{Category: "entertainment", Keywords: []string{
		"NETFLIX", "SPOTIFY", "DISNEY", "HULU", "CINEMA", "THEATRE", "THEATER", "STEAM", "TICKETMASTER",
	}},
	{Category: "health", Keywords: []string{
		"PHARMACY", "CVS", "WALGREENS", "BOOTS", "GYM", "FITNESS", "DENTAL", "DOCTOR", "CLINIC",
	}},
	{Category: "shopping", Keywords: []string{
		"AMAZON", "AMZN", "EBAY", "ETSY", "IKEA", "ARGOS", "TARGET", "WALMART", "ZARA",
	}},
}

// Categorizer guesses a category from transaction text.
type Categorizer struct {
	rules []Rule
}

// NewCategorizer returns a categorizer over rules. Rules naming an unknown
// category are ignored.
func NewCategorizer(rules []Rule) *Categorizer {
	valid := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if model.IsValidCategory(r.Category) {
			valid = append(valid, r)
		}
	}
	return &Categorizer{rules: valid}
}

// Categorize returns the first matching category, or other.
func (c *Categorizer) Categorize(text string) string {
	upper := strings.ToUpper(text)
	for _, r := range c.rules {
		for _, kw := range r.Keywords {
			if strings.Contains(upper, kw) {
				return r.Category
			}
		}
	}
	return model.CategoryOther
}
