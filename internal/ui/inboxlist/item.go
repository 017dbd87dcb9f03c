package inboxlist

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/edupulse/inbox/internal/model"
	"github.com/edupulse/inbox/internal/theme"
)

// Item wraps a notification record for display, along with transient
// per-row UI state: bulk-selection marks and the pending flag that
// disables actions while a request is in flight.
type Item struct {
	N       model.Notification
	Marked  bool
	Pending bool
}

// FilterValue returns the string used for fuzzy filtering.
func (i Item) FilterValue() string { return i.N.Title }

// Delegate renders notification rows.
type Delegate struct{}

// Height returns the number of lines each item takes.
func (d Delegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d Delegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d Delegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single notification line.
func (d Delegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(Item)
	if !ok {
		return
	}

	n := it.N
	isSelected := index == m.Index()

	mark := " "
	if it.Marked {
		mark = "▪"
	}

	prefix := " "
	if n.IsUnread() {
		prefix = "●"
	}

	typeBadge := theme.TypeLabelStyle(n.Type).
		Render(strings.ToUpper(string(n.Type))[:min(3, len(n.Type))])

	priBadge := theme.PriorityStyle(n.Priority).Render(priorityLabel(n.Priority))

	statusBadge := theme.StatusStyle(n.Status).Render(string(n.Status))

	title := n.Title
	if n.IsUnread() {
		title = theme.UnreadStyle.Render(title)
	}

	expiredStr := ""
	if n.IsExpired(time.Now()) {
		expiredStr = theme.DimmedStyle.Render(" EXPIRED")
	}

	pendingStr := ""
	if it.Pending {
		pendingStr = lipgloss.NewStyle().
			Foreground(theme.ColorYellow).
			Render(" …")
	}

	timeStr := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(relativeTime(n.CreatedAt))

	line := fmt.Sprintf(
		"%s%s %s %s %s %s%s%s  %s",
		mark, prefix, typeBadge, priBadge, statusBadge, title,
		expiredStr, pendingStr, timeStr,
	)

	if n.IsExpired(time.Now()) && !isSelected {
		line = theme.DimmedStyle.Render(line)
	}

	if isSelected {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// relativeTime returns a human-friendly relative time string.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		mins := int(d.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	case d < 24*time.Hour:
		hrs := int(d.Hours())
		if hrs == 1 {
			return "1h ago"
		}
		return fmt.Sprintf("%dh ago", hrs)
	case d < 7*24*time.Hour:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1d ago"
		}
		return fmt.Sprintf("%dd ago", days)
	default:
		weeks := int(d.Hours() / 24 / 7)
		if weeks == 1 {
			return "1w ago"
		}
		return fmt.Sprintf("%dw ago", weeks)
	}
}

// priorityLabel returns a short marker for the given priority.
func priorityLabel(p model.Priority) string {
	switch p {
	case model.PriorityUrgent:
		return "!!"
	case model.PriorityHigh:
		return " !"
	case model.PriorityNormal:
		return "  "
	case model.PriorityLow:
		return "  "
	default:
		return "  "
	}
}
