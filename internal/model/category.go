package model

// CategoryOther is the fallback category for missing or unknown ids.
const CategoryOther = "other"

// Category is one of the fixed spending classifications.
type Category struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Emoji      string `json:"emoji"`
	Color      string `json:"color"`
	LightColor string `json:"lightColor"`
	DarkColor  string `json:"darkColor"`
}

// Categories is the closed category set in declaration order.
// Tie-breaking in category rollups depends on this order.
var Categories = []Category{
	{ID: "food", Name: "Food & Groceries", Emoji: "🍔", Color: "#ef4444", LightColor: "#fee2e2", DarkColor: "#dc2626"},
	{ID: "transport", Name: "Transport", Emoji: "🚌", Color: "#06b6d4", LightColor: "#cffafe", DarkColor: "#0891b2"},
	{ID: "study", Name: "Study Materials", Emoji: "📚", Color: "#3b82f6", LightColor: "#dbeafe", DarkColor: "#2563eb"},
	{ID: "accommodation", Name: "Accommodation", Emoji: "🏠", Color: "#f97316", LightColor: "#ffedd5", DarkColor: "#ea580c"},
	{ID: "entertainment", Name: "Entertainment", Emoji: "🎉", Color: "#a855f7", LightColor: "#f3e8ff", DarkColor: "#9333ea"},
	{ID: "health", Name: "Health & Fitness", Emoji: "💪", Color: "#22c55e", LightColor: "#dcfce7", DarkColor: "#16a34a"},
	{ID: "shopping", Name: "Shopping", Emoji: "🛍️", Color: "#ec4899", LightColor: "#fce7f3", DarkColor: "#db2777"},
	{ID: CategoryOther, Name: "Other", Emoji: "💰", Color: "#eab308", LightColor: "#fef9c3", DarkColor: "#ca8a04"},
}

// CategoryByID looks up a category definition.
func CategoryByID(id string) (Category, bool) {
	for _, c := range Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// IsValidCategory reports whether id belongs to the closed category set.
func IsValidCategory(id string) bool {
	_, ok := CategoryByID(id)
	return ok
}

// CategoryIDs returns the ids in declaration order.
func CategoryIDs() []string {
	ids := make([]string, len(Categories))
	for i, c := range Categories {
		ids[i] = c.ID
	}
	return ids
}
