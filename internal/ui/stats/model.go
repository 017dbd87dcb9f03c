package stats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/edupulse/inbox/internal/inbox"
	"github.com/edupulse/inbox/internal/keys"
	"github.com/edupulse/inbox/internal/theme"
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// Model renders the notification history summary.
type Model struct {
	store  *inbox.Store
	keys   *keys.KeyMap
	width  int
	height int
}

// New creates the stats view.
func New(store *inbox.Store, k *keys.KeyMap, width, height int) Model {
	return Model{
		store:  store,
		keys:   k,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the stats view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(keyMsg, m.keys.Back) {
			return m, func() tea.Msg { return BackMsg{} }
		}
	}
	return m, nil
}

// View renders the stats panel.
func (m Model) View() string {
	st := m.store.Stats()
	if st == nil {
		return theme.DetailPanelStyle.
			Width(m.width - 4).
			Render("Stats not available yet")
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		Render("Notification stats")

	lines := []string{
		fmt.Sprintf("total     %d", st.TotalNotifications),
		fmt.Sprintf("unread    %d", st.UnreadCount),
		fmt.Sprintf("read      %d", st.ReadCount),
		fmt.Sprintf("archived  %d", st.ArchivedCount),
	}

	sections := []string{title, "", strings.Join(lines, "\n")}

	if len(st.ByType) > 0 {
		sections = append(sections, "", theme.HelpStyle.Render("by type"), countTable(st.ByType))
	}
	if len(st.ByPriority) > 0 {
		sections = append(sections, "", theme.HelpStyle.Render("by priority"), countTable(st.ByPriority))
	}

	body := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return theme.DetailPanelStyle.Width(m.width - 4).Render(body)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// countTable renders a name-to-count map sorted by name.
func countTable(counts map[string]int) string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	var lines []string
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("  %-14s %d", name, counts[name]))
	}
	return strings.Join(lines, "\n")
}
