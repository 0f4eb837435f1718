package model

// DefaultMonthlyBudget is used when no budget has been saved.
const DefaultMonthlyBudget = 500.0

// StatusLevel identifies a budget status tier.
type StatusLevel string

// Budget status tiers, in ascending order of severity.
const (
	StatusSafe    StatusLevel = "SAFE"
	StatusWarning StatusLevel = "WARNING"
	StatusDanger  StatusLevel = "DANGER"
)

// BudgetStatus describes a spending tier. The display layer uses the
// color, emoji, message and label verbatim.
type BudgetStatus struct {
	Level     StatusLevel `json:"level"`
	Color     string      `json:"color"`
	Emoji     string      `json:"emoji"`
	Message   string      `json:"message"`
	Label     string      `json:"label"`
	Threshold float64     `json:"threshold"`
}

// Budget status definitions. A tier's Threshold is the spend ratio at which
// it begins; SAFE's threshold is nominal.
var (
	StatusSafeTier = BudgetStatus{
		Level:     StatusSafe,
		Threshold: 0.70,
		Color:     "#10B981",
		Emoji:     "✅",
		Message:   "You're doing great! Keep it up! 🎯",
		Label:     "On Track",
	}
	StatusWarningTier = BudgetStatus{
		Level:     StatusWarning,
		Threshold: 0.85,
		Color:     "#F59E0B",
		Emoji:     "⚠️",
		Message:   "Careful! You're getting close to your limit.",
		Label:     "Caution",
	}
	StatusDangerTier = BudgetStatus{
		Level:     StatusDanger,
		Threshold: 1.00,
		Color:     "#EF4444",
		Emoji:     "🚨",
		Message:   "Warning! You've exceeded your budget!",
		Label:     "Over Budget",
	}
)

// Severity orders tiers for comparisons: SAFE < WARNING < DANGER.
func (s BudgetStatus) Severity() int {
	switch s.Level {
	case StatusWarning:
		return 1
	case StatusDanger:
		return 2
	default:
		return 0
	}
}
