// Package themes holds the dashboard color schemes.
package themes

import (
	"github.com/Veraticus/the-budget-must-balance/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the visual style for the TUI.
type Theme struct {
	Name          model.Theme
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Muted         lipgloss.Style
	Selected      lipgloss.Style
	RoundedBox    lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusWarning lipgloss.Style
	StatusError   lipgloss.Style
	StatusInfo    lipgloss.Style
	Primary       lipgloss.Color
	Success       lipgloss.Color
	Warning       lipgloss.Color
	Error         lipgloss.Color
	Info          lipgloss.Color
	Border        lipgloss.Color
	Foreground    lipgloss.Color
	Background    lipgloss.Color
	MutedColor    lipgloss.Color
	Track         lipgloss.Color
}

// Light is the default theme.
var Light = build(model.ThemeLight, palette{
	primary:    "#6366f1",
	success:    "#10b981",
	warning:    "#f59e0b",
	errorColor: "#ef4444",
	info:       "#06b6d4",
	border:     "#e5e7eb",
	foreground: "#111827",
	background: "#f9fafb",
	muted:      "#6b7280",
	track:      "#e5e7eb",
})

// Dark mirrors Light on a dark background.
var Dark = build(model.ThemeDark, palette{
	primary:    "#818cf8",
	success:    "#34d399",
	warning:    "#fbbf24",
	errorColor: "#f87171",
	info:       "#22d3ee",
	border:     "#374151",
	foreground: "#f9fafb",
	background: "#111827",
	muted:      "#9ca3af",
	track:      "#374151",
})

type palette struct {
	primary, success, warning, errorColor, info string
	border, foreground, background, muted, track string
}

func build(name model.Theme, p palette) Theme {
	fg := lipgloss.Color(p.foreground)

	return Theme{
		Name:       name,
		Primary:    lipgloss.Color(p.primary),
		Success:    lipgloss.Color(p.success),
		Warning:    lipgloss.Color(p.warning),
		Error:      lipgloss.Color(p.errorColor),
		Info:       lipgloss.Color(p.info),
		Border:     lipgloss.Color(p.border),
		Foreground: fg,
		Background: lipgloss.Color(p.background),
		MutedColor: lipgloss.Color(p.muted),
		Track:      lipgloss.Color(p.track),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.primary)),
		Subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(fg),
		Normal: lipgloss.NewStyle().
			Foreground(fg),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(fg),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.muted)),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(p.primary)).
			Foreground(lipgloss.Color(p.background)).
			Bold(true),
		RoundedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.border)).
			Padding(0, 1),

		StatusSuccess: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.success)).
			Bold(true),
		StatusWarning: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.warning)).
			Bold(true),
		StatusError: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.errorColor)).
			Bold(true),
		StatusInfo: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.info)).
			Bold(true),
	}
}

// GetTheme returns the theme for a stored preference, Light for anything unknown.
func GetTheme(name model.Theme) Theme {
	if name == model.ThemeDark {
		return Dark
	}
	return Light
}

// Status returns the style for a budget status tier.
func (t Theme) Status(status model.BudgetStatus) lipgloss.Style {
	switch status.Level {
	case model.StatusWarning:
		return t.StatusWarning
	case model.StatusDanger:
		return t.StatusError
	default:
		return t.StatusSuccess
	}
}

// StatusColor returns the accent color for a budget status tier.
func (t Theme) StatusColor(status model.BudgetStatus) lipgloss.Color {
	switch status.Level {
	case model.StatusWarning:
		return t.Warning
	case model.StatusDanger:
		return t.Error
	default:
		return t.Success
	}
}

// CategoryColor picks the category's accent shade for this theme.
func (t Theme) CategoryColor(c model.Category) lipgloss.Color {
	if t.Name == model.ThemeDark {
		return lipgloss.Color(c.DarkColor)
	}
	return lipgloss.Color(c.Color)
}
