package app

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/edupulse/inbox/internal/api"
	"github.com/edupulse/inbox/internal/inbox"
	"github.com/edupulse/inbox/internal/keys"
	"github.com/edupulse/inbox/internal/theme"
	"github.com/edupulse/inbox/internal/ui"
	"github.com/edupulse/inbox/internal/ui/detail"
	helpview "github.com/edupulse/inbox/internal/ui/help"
	"github.com/edupulse/inbox/internal/ui/inboxlist"
	"github.com/edupulse/inbox/internal/ui/prefsform"
	statsview "github.com/edupulse/inbox/internal/ui/stats"
)

// storeChangedMsg tells the app a store mutation happened and the
// visible rows need rebuilding.
type storeChangedMsg struct{}

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewInbox ViewState = iota
	ViewDetail
	ViewPrefs
	ViewStats
	ViewHelp
)

// Model is the root Bubble Tea model that manages view routing, layout,
// and the inbox session lifecycle.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	session      *inbox.Session
	keys         *keys.KeyMap

	inboxList inboxlist.Model
	detail    detail.Model
	prefsView prefsform.Model
	statsView statsview.Model
	helpView  helpview.Model

	storeCh     chan struct{}
	unsubscribe func()

	statusMsg   string
	statusIsErr bool
	ready       bool
	authExpired bool
}

// New creates the root application model around an inbox session.
func New(sess *inbox.Session) Model {
	k := keys.DefaultKeyMap()

	m := Model{
		currentView: ViewInbox,
		session:     sess,
		keys:        k,
		inboxList:   inboxlist.New(sess, k, 80, 24),
		detail:      detail.New(k, 80, 24),
		prefsView:   prefsform.New(sess.Prefs, k, 80, 24),
		statsView:   statsview.New(sess.Store, k, 80, 24),
		helpView:    helpview.New(k, 80, 24),
		storeCh:     make(chan struct{}, 1),
	}

	m.unsubscribe = sess.Store.Subscribe(func() {
		select {
		case m.storeCh <- struct{}{}:
		default:
		}
	})

	return m
}

// Init starts the poll loop and loads the first page and stats.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.session.Sync.Start(),
		m.session.Sync.FetchPage(),
		m.session.Sync.FetchStats(),
		m.session.Sync.PollUnreadCount(),
		m.waitStoreChange(),
	)
}

// waitStoreChange returns a command that blocks until the next store
// mutation.
func (m Model) waitStoreChange() tea.Cmd {
	ch := m.storeCh
	return func() tea.Msg {
		<-ch
		return storeChangedMsg{}
	}
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w := m.layout.ContentWidth()
		h := m.layout.ContentHeight()
		m.inboxList.SetSize(w, h)
		m.detail.SetSize(w, h)
		m.prefsView.SetSize(w, h)
		m.statsView.SetSize(w, h)
		m.helpView.SetSize(w, h)
		return m.updateActiveView(msg)

	case storeChangedMsg:
		m.inboxList.Refresh()
		return m, m.waitStoreChange()

	case inbox.PageFetchedMsg:
		if msg.Stale {
			return m, nil
		}
		if msg.Err != nil {
			if api.IsAuthError(msg.Err) {
				return m.expireSession()
			}
			// Keep the last-known-good page; offer a retry.
			m.setStatus(fmt.Sprintf("refresh failed: %v (R to retry)", msg.Err), true)
			return m, nil
		}
		m.clearStatus()
		return m, nil

	case inbox.UnreadPolledMsg:
		// Poll failures are silent; the next tick retries.
		return m, nil

	case inbox.StatsFetchedMsg:
		// Best-effort; nothing to surface.
		return m, nil

	case inbox.AuthExpiredMsg:
		return m.expireSession()

	case inbox.ActionDoneMsg:
		if msg.Err != nil {
			if api.IsAuthError(msg.Err) {
				return m.expireSession()
			}
			m.setStatus(fmt.Sprintf("action failed: %v", msg.Err), true)
		} else {
			m.clearStatus()
		}
		m.inboxList.Refresh()
		return m, nil

	case inbox.BulkDoneMsg:
		if msg.Err != nil {
			if api.IsAuthError(msg.Err) {
				return m.expireSession()
			}
			m.setStatus(fmt.Sprintf("bulk %s failed: %v", msg.Action, msg.Err), true)
			return m, nil
		}
		// Bulk correctness comes from re-synchronizing, not from
		// speculative local mutation.
		m.clearStatus()
		m.inboxList.ClearMarks()
		return m, tea.Batch(
			m.session.Sync.FetchPage(),
			m.session.Sync.PollUnreadCount(),
		)

	case inbox.AllReadMsg:
		if msg.Err != nil {
			if api.IsAuthError(msg.Err) {
				return m.expireSession()
			}
			m.setStatus(fmt.Sprintf("mark all read failed: %v", msg.Err), true)
			return m, nil
		}
		m.clearStatus()
		return m, tea.Batch(
			m.session.Sync.FetchPage(),
			m.session.Sync.PollUnreadCount(),
		)

	case inboxlist.OpenDetailMsg:
		return m.openDetail(msg.ID)

	case detail.BackMsg, statsview.BackMsg, prefsform.DoneMsg:
		m.currentView = ViewInbox
		return m, nil

	case detail.ActionMsg:
		m.currentView = ViewInbox
		switch msg.Action {
		case "archive":
			return m, m.session.Actions.Archive(msg.ID)
		case "delete":
			return m, m.session.Actions.Delete(msg.ID)
		}
		return m, nil

	case tea.KeyMsg:
		if m.authExpired {
			return m, tea.Quit
		}
		if handled, model, cmd := m.handleGlobalKeys(msg); handled {
			return model, cmd
		}
	}

	return m.updateActiveView(msg)
}

// expireSession drops to the re-authentication screen. The session is
// closed; any key exits.
func (m Model) expireSession() (tea.Model, tea.Cmd) {
	if !m.authExpired {
		m.authExpired = true
		m.session.Close()
	}
	return m, nil
}

// handleGlobalKeys processes keys that work from any view.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	// The preferences form owns its keystrokes while editing.
	if m.currentView == ViewPrefs {
		return false, m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit) && m.currentView == ViewInbox:
		m.unsubscribe()
		m.session.Close()
		return true, m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
		} else {
			m.previousView = m.currentView
			m.currentView = ViewHelp
		}
		return true, m, nil

	case key.Matches(msg, m.keys.Preferences) && m.currentView == ViewInbox:
		m.previousView = m.currentView
		m.currentView = ViewPrefs
		m.prefsView = prefsform.New(m.session.Prefs, m.keys, m.layout.ContentWidth(), m.layout.ContentHeight())
		return true, m, m.prefsView.Init()

	case key.Matches(msg, m.keys.Stats) && m.currentView == ViewInbox:
		m.previousView = m.currentView
		m.currentView = ViewStats
		return true, m, m.session.Sync.FetchStats()
	}

	return false, m, nil
}

// openDetail switches to the detail view. Opening an unread record
// implicitly marks it read before anything else happens to it.
func (m Model) openDetail(id int64) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if rec, ok := m.session.Store.Get(id); ok && rec.IsUnread() {
		cmd = m.session.Actions.MarkRead(id)
	}

	rec, ok := m.session.Store.Get(id)
	if !ok {
		return m, cmd
	}

	m.detail.SetRecord(rec)
	m.previousView = m.currentView
	m.currentView = ViewDetail
	return m, cmd
}

// updateActiveView routes a message to the currently visible view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentView {
	case ViewInbox:
		m.inboxList, cmd = m.inboxList.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewPrefs:
		m.prefsView, cmd = m.prefsView.Update(msg)
	case ViewStats:
		m.statsView, cmd = m.statsView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}
	return m, cmd
}

// View renders the full frame.
func (m Model) View() string {
	if !m.ready {
		return "Loading…"
	}

	if m.authExpired {
		body := lipgloss.JoinVertical(
			lipgloss.Left,
			theme.ErrorStyle.Render("Session expired."),
			"",
			"Sign in again with `inbox auth <token>`, then restart.",
			"",
			theme.HelpStyle.Render("press any key to exit"),
		)
		return theme.DetailPanelStyle.Width(m.layout.Width - 4).Render(body)
	}

	header := m.layout.RenderHeader("Inbox", m.headerStatus())

	var content string
	switch m.currentView {
	case ViewDetail:
		content = m.detail.View()
	case ViewPrefs:
		content = m.prefsView.View()
	case ViewStats:
		content = m.statsView.View()
	case ViewHelp:
		content = m.helpView.View()
	default:
		content = m.inboxList.View()
	}

	return m.layout.RenderWithFrame(header, content, m.layout.RenderStatusBar(m.statusLine()))
}

// headerStatus renders the right side of the header: the unread badge.
func (m Model) headerStatus() string {
	count := m.session.Store.UnreadCount()
	if count == 0 {
		return "no unread"
	}
	return theme.BadgeStyle.Render(fmt.Sprintf("%d unread", count))
}

// statusLine picks the status bar content: an error, a message, or
// keyboard hints.
func (m Model) statusLine() string {
	if m.statusMsg != "" {
		if m.statusIsErr {
			return theme.ErrorStyle.Render(m.statusMsg)
		}
		return m.statusMsg
	}
	return "tab: switch · r: read · a: archive · d: delete · A: all read · ?: help"
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.statusMsg = msg
	m.statusIsErr = isErr
}

func (m *Model) clearStatus() {
	m.statusMsg = ""
	m.statusIsErr = false
}
