package inboxlist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/edupulse/inbox/internal/api"
	"github.com/edupulse/inbox/internal/inbox"
	"github.com/edupulse/inbox/internal/keys"
	"github.com/edupulse/inbox/internal/model"
	"github.com/edupulse/inbox/internal/theme"
)

// OpenDetailMsg signals the parent to open the detail view for a record.
type OpenDetailMsg struct {
	ID int64
}

// Model is the inbox list view: tabs, filter state, the paged record
// list, and bulk selection.
type Model struct {
	list    list.Model
	session *inbox.Session
	keys    *keys.KeyMap
	marked  map[int64]bool
	width   int
	height  int
}

// New creates the inbox list view.
func New(sess *inbox.Session, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, Delegate{}, width, height-4)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)

	return Model{
		list:    l,
		session: sess,
		keys:    k,
		marked:  make(map[int64]bool),
		width:   width,
		height:  height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Refresh rebuilds the visible rows from the store. Called by the parent
// whenever the store changes.
func (m *Model) Refresh() {
	records := m.session.Store.Records()

	// Drop marks for records evicted by the refresh.
	present := make(map[int64]bool, len(records))
	for _, n := range records {
		present[n.ID] = true
	}
	for id := range m.marked {
		if !present[id] {
			delete(m.marked, id)
		}
	}

	items := make([]list.Item, len(records))
	for i, n := range records {
		items[i] = Item{
			N:       n,
			Marked:  m.marked[n.ID],
			Pending: m.session.Actions.IsPending(n.ID),
		}
	}

	idx := m.list.Index()
	m.list.SetItems(items)
	if idx >= len(items) {
		idx = len(items) - 1
	}
	if idx >= 0 {
		m.list.Select(idx)
	}
}

// ClearMarks drops the bulk selection, used after a bulk action settles.
func (m *Model) ClearMarks() {
	m.marked = make(map[int64]bool)
	m.Refresh()
}

// selected returns the record under the cursor.
func (m *Model) selected() (model.Notification, bool) {
	item, ok := m.list.SelectedItem().(Item)
	if !ok {
		return model.Notification{}, false
	}
	return item.N, true
}

// markedIDs returns the bulk-selected ids in page order.
func (m *Model) markedIDs() []int64 {
	var ids []int64
	for _, n := range m.session.Store.Records() {
		if m.marked[n.ID] {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// Update handles messages for the inbox list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(keyMsg, m.keys.NextTab):
		m.session.Filters.SetTab(nextTab(m.session.Filters.Tab()))
		m.marked = make(map[int64]bool)
		return m, m.session.Sync.FetchPage()

	case key.Matches(keyMsg, m.keys.CycleType):
		m.session.Filters.SetType(nextType(m.session.Filters))
		return m, m.session.Sync.FetchPage()

	case key.Matches(keyMsg, m.keys.CyclePriority):
		m.session.Filters.SetPriority(nextPriority(m.session.Filters))
		return m, m.session.Sync.FetchPage()

	case key.Matches(keyMsg, m.keys.ToggleExpired):
		desc, _ := m.session.Filters.Current()
		m.session.Filters.SetIncludeExpired(!desc.IncludeExpired)
		return m, m.session.Sync.FetchPage()

	case key.Matches(keyMsg, m.keys.NextPage):
		pg := m.session.Store.Pagination()
		if pg.HasNext {
			m.session.Filters.SetPage(pg.Page + 1)
			return m, m.session.Sync.FetchPage()
		}
		return m, nil

	case key.Matches(keyMsg, m.keys.PrevPage):
		pg := m.session.Store.Pagination()
		if pg.HasPrev {
			m.session.Filters.SetPage(pg.Page - 1)
			return m, m.session.Sync.FetchPage()
		}
		return m, nil

	case key.Matches(keyMsg, m.keys.Mark):
		if n, ok := m.selected(); ok {
			m.marked[n.ID] = !m.marked[n.ID]
			m.Refresh()
			m.list.CursorDown()
		}
		return m, nil

	case key.Matches(keyMsg, m.keys.ToggleRead):
		if ids := m.markedIDs(); len(ids) > 0 {
			return m, m.session.Actions.Bulk(ids, api.BulkMarkRead)
		}
		if n, ok := m.selected(); ok {
			switch n.Status {
			case model.StatusUnread:
				return m, m.session.Actions.MarkRead(n.ID)
			case model.StatusRead:
				return m, m.session.Actions.MarkUnread(n.ID)
			}
			// Archived records have no read toggle.
		}
		return m, nil

	case key.Matches(keyMsg, m.keys.Archive):
		if ids := m.markedIDs(); len(ids) > 0 {
			return m, m.session.Actions.Bulk(ids, api.BulkArchive)
		}
		if n, ok := m.selected(); ok {
			return m, m.session.Actions.Archive(n.ID)
		}
		return m, nil

	case key.Matches(keyMsg, m.keys.Delete):
		if ids := m.markedIDs(); len(ids) > 0 {
			return m, m.session.Actions.Bulk(ids, api.BulkDelete)
		}
		if n, ok := m.selected(); ok {
			return m, m.session.Actions.Delete(n.ID)
		}
		return m, nil

	case key.Matches(keyMsg, m.keys.MarkAllRead):
		return m, m.session.Actions.MarkAllRead()

	case key.Matches(keyMsg, m.keys.Refresh):
		return m, tea.Batch(
			m.session.Sync.FetchPage(),
			m.session.Sync.PollUnreadCount(),
		)

	case key.Matches(keyMsg, m.keys.Select):
		if n, ok := m.selected(); ok {
			id := n.ID
			return m, func() tea.Msg {
				return OpenDetailMsg{ID: id}
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the tab row, filter summary, record list, and page line.
func (m Model) View() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTabs(),
		m.renderFilterLine(),
		m.list.View(),
		m.renderPageLine(),
	)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-4)
}

func (m Model) renderTabs() string {
	var parts []string
	for _, t := range inbox.Tabs {
		label := string(t)
		if t == inbox.TabUnread {
			if count := m.session.Store.UnreadCount(); count > 0 {
				label = fmt.Sprintf("%s (%d)", label, count)
			}
		}
		if t == m.session.Filters.Tab() {
			parts = append(parts, theme.ActiveTabStyle.Render(label))
		} else {
			parts = append(parts, theme.InactiveTabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) renderFilterLine() string {
	desc, _ := m.session.Filters.Current()

	var parts []string
	if desc.Type != nil {
		parts = append(parts, "type="+string(*desc.Type))
	}
	if desc.Priority != nil {
		parts = append(parts, "priority="+string(*desc.Priority))
	}
	if desc.IncludeExpired {
		parts = append(parts, "expired shown")
	}
	if len(m.marked) > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", len(m.marked)))
	}
	if len(parts) == 0 {
		return theme.HelpStyle.Render(" no filters")
	}
	return theme.HelpStyle.Render(" " + strings.Join(parts, " · "))
}

func (m Model) renderPageLine() string {
	pg := m.session.Store.Pagination()
	if pg.Total == 0 {
		return theme.HelpStyle.Render(" no notifications")
	}

	line := fmt.Sprintf(" page %d · %d total", pg.Page, pg.Total)
	if pg.HasPrev {
		line += " · ← prev"
	}
	if pg.HasNext {
		line += " · next →"
	}
	return theme.HelpStyle.Render(line)
}

// nextTab cycles all → unread → archived → all.
func nextTab(t inbox.Tab) inbox.Tab {
	for i, tab := range inbox.Tabs {
		if tab == t {
			return inbox.Tabs[(i+1)%len(inbox.Tabs)]
		}
	}
	return inbox.TabAll
}

// nextType cycles the type filter through nil and every known type.
func nextType(f *inbox.FilterEngine) *model.NotificationType {
	desc, _ := f.Current()
	if desc.Type == nil {
		t := model.NotificationTypes[0]
		return &t
	}
	for i, t := range model.NotificationTypes {
		if t == *desc.Type {
			if i == len(model.NotificationTypes)-1 {
				return nil
			}
			next := model.NotificationTypes[i+1]
			return &next
		}
	}
	return nil
}

// nextPriority cycles the priority filter through nil and every priority.
func nextPriority(f *inbox.FilterEngine) *model.Priority {
	desc, _ := f.Current()
	if desc.Priority == nil {
		p := model.Priorities[0]
		return &p
	}
	for i, p := range model.Priorities {
		if p == *desc.Priority {
			if i == len(model.Priorities)-1 {
				return nil
			}
			next := model.Priorities[i+1]
			return &next
		}
	}
	return nil
}
