package model

// Theme is the display theme preference.
type Theme string

// Supported themes.
const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// IsValid reports whether t is one of the supported themes.
func (t Theme) IsValid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Emoji returns the toggle icon for the theme.
func (t Theme) Emoji() string {
	if t == ThemeDark {
		return "🌙"
	}
	return "☀️"
}
