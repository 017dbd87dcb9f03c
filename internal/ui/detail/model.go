package detail

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/edupulse/inbox/internal/keys"
	"github.com/edupulse/inbox/internal/model"
	"github.com/edupulse/inbox/internal/theme"
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// ActionMsg signals the parent to execute an action on the open record.
type ActionMsg struct {
	Action string
	ID     int64
}

// Model is the notification detail view.
type Model struct {
	record   *model.Notification
	viewport viewport.Model
	keys     *keys.KeyMap
	width    int
	height   int
}

// New creates a new detail view model.
func New(k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     k,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command for the detail view.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetRecord loads a record into the view.
func (m *Model) SetRecord(n model.Notification) {
	m.record = &n
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(keyMsg, m.keys.Back):
		return m, func() tea.Msg {
			return BackMsg{}
		}

	case key.Matches(keyMsg, m.keys.Archive):
		if m.record != nil {
			id := m.record.ID
			return m, func() tea.Msg {
				return ActionMsg{Action: "archive", ID: id}
			}
		}

	case key.Matches(keyMsg, m.keys.Delete):
		if m.record != nil {
			id := m.record.ID
			return m, func() tea.Msg {
				return ActionMsg{Action: "delete", ID: id}
			}
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail panel.
func (m Model) View() string {
	if m.record == nil {
		return theme.DetailPanelStyle.
			Width(m.width - 4).
			Render("Nothing selected")
	}
	return m.viewport.View()
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
}

// renderContent builds the full detail text for the viewport.
func (m Model) renderContent() string {
	n := m.record

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		Render(n.Title)

	meta := []string{
		fmt.Sprintf("type: %s", theme.TypeLabelStyle(n.Type).Render(string(n.Type))),
		fmt.Sprintf("priority: %s", theme.PriorityStyle(n.Priority).Render(string(n.Priority))),
		fmt.Sprintf("status: %s", theme.StatusStyle(n.Status).Render(string(n.Status))),
		fmt.Sprintf("created: %s", n.CreatedAt.Local().Format("Jan 02 15:04")),
	}
	if n.ReadAt != nil {
		meta = append(meta, fmt.Sprintf("read: %s", n.ReadAt.Local().Format("Jan 02 15:04")))
	}
	if n.ArchivedAt != nil {
		meta = append(meta, fmt.Sprintf("archived: %s", n.ArchivedAt.Local().Format("Jan 02 15:04")))
	}
	if n.ExpiresAt != nil {
		label := "expires"
		if n.IsExpired(time.Now()) {
			label = "expired"
		}
		meta = append(meta, fmt.Sprintf("%s: %s", label, n.ExpiresAt.Local().Format("Jan 02 15:04")))
	}

	sections := []string{
		title,
		theme.HelpStyle.Render(strings.Join(meta, " · ")),
		"",
		n.Message,
	}

	if n.ActionURL != "" {
		sections = append(sections, "",
			lipgloss.NewStyle().Foreground(theme.ColorBlue).Render("↗ "+n.ActionURL))
	}

	if len(n.Metadata) > 0 {
		keyNames := make([]string, 0, len(n.Metadata))
		for k := range n.Metadata {
			keyNames = append(keyNames, k)
		}
		sort.Strings(keyNames)

		var kv []string
		for _, k := range keyNames {
			kv = append(kv, fmt.Sprintf("  %s: %v", k, n.Metadata[k]))
		}
		sections = append(sections, "",
			theme.HelpStyle.Render("metadata"),
			strings.Join(kv, "\n"))
	}

	body := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return theme.DetailPanelStyle.Width(m.width - 4).Render(body)
}
