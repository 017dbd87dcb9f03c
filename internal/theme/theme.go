package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/edupulse/inbox/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// DetailPanelStyle wraps the detail view content area.
var DetailPanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// DimmedStyle de-emphasizes expired or archived records.
var DimmedStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// UnreadStyle emphasizes records the user has not seen.
var UnreadStyle = lipgloss.NewStyle().
	Bold(true)

// BadgeStyle renders the unread-count badge in the header.
var BadgeStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorRed).
	Padding(0, 1)

// ErrorStyle renders user-visible error messages in the status bar.
var ErrorStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorRed)

// ConfirmStyle renders transient confirmations in the status bar.
var ConfirmStyle = lipgloss.NewStyle().
	Foreground(ColorGreen)

// ActiveTabStyle highlights the selected inbox tab.
var ActiveTabStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// InactiveTabStyle renders unselected inbox tabs.
var InactiveTabStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Padding(0, 1)

// PriorityStyle returns a color-coded style for the given priority.
func PriorityStyle(p model.Priority) lipgloss.Style {
	switch p {
	case model.PriorityUrgent:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorRed)
	case model.PriorityHigh:
		return lipgloss.NewStyle().Foreground(ColorOrange)
	case model.PriorityNormal:
		return lipgloss.NewStyle().Foreground(ColorBlue)
	case model.PriorityLow:
		return lipgloss.NewStyle().Foreground(ColorGray)
	default:
		return lipgloss.NewStyle().Foreground(ColorGray)
	}
}

// StatusStyle returns a color-coded style for the given status.
func StatusStyle(s model.Status) lipgloss.Style {
	switch s {
	case model.StatusUnread:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case model.StatusRead:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case model.StatusArchived:
		return lipgloss.NewStyle().Foreground(ColorGray)
	default:
		return lipgloss.NewStyle().Foreground(ColorGray)
	}
}

// TypeLabelStyle returns a color-coded style for a notification type badge.
func TypeLabelStyle(t model.NotificationType) lipgloss.Style {
	switch t {
	case model.TypeSystem:
		return lipgloss.NewStyle().Foreground(ColorGray)
	case model.TypeAssignment:
		return lipgloss.NewStyle().Foreground(ColorBlue)
	case model.TypeGrade:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case model.TypeDeadline:
		return lipgloss.NewStyle().Foreground(ColorRed)
	case model.TypeReminder:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case model.TypeFeedback:
		return lipgloss.NewStyle().Foreground(ColorMagenta)
	case model.TypeSchedule:
		return lipgloss.NewStyle().Foreground(ColorOrange)
	case model.TypeAnnouncement:
		return lipgloss.NewStyle().Foreground(ColorWhite)
	default:
		return lipgloss.NewStyle().Foreground(ColorGray)
	}
}
