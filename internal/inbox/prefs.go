package inbox

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/edupulse/inbox/internal/api"
	"github.com/edupulse/inbox/internal/model"
)

// PrefsLoadedMsg is a tea.Msg sent when a preference load completes. On
// failure the form shows a retry affordance; no client-side defaults are
// synthesized, the server is the single source of defaults.
type PrefsLoadedMsg struct {
	Err error
}

// PrefsSavedMsg is a tea.Msg sent when a preference save completes.
type PrefsSavedMsg struct {
	Err error
}

// PreferencesManager loads, edits, and persists the notification
// preference object. Edits are local until Save, so several toggles
// batch into one request. There is no conflict detection against other
// sessions; the last write wins server-side.
type PreferencesManager struct {
	client *api.Client
	logger *zap.Logger

	mu    sync.Mutex
	prefs *model.Preferences
	dirty bool
}

// NewPreferencesManager creates a manager with nothing loaded yet.
func NewPreferencesManager(client *api.Client, logger *zap.Logger) *PreferencesManager {
	return &PreferencesManager{
		client: client,
		logger: logger,
	}
}

// Loaded reports whether a preference object has been fetched.
func (m *PreferencesManager) Loaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prefs != nil
}

// Dirty reports whether local edits are waiting to be saved.
func (m *PreferencesManager) Dirty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dirty
}

// Current returns a copy of the working preference object.
func (m *PreferencesManager) Current() (model.Preferences, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.prefs == nil {
		return model.Preferences{}, false
	}
	return *m.prefs, true
}

// Load returns a command that fetches the preference object, discarding
// any unsaved local edits.
func (m *PreferencesManager) Load() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		prefs, err := m.client.Preferences(ctx)
		if err != nil {
			m.logger.Warn("preferences load failed", zap.Error(err))
			return PrefsLoadedMsg{Err: err}
		}

		m.mu.Lock()
		m.prefs = prefs
		m.dirty = false
		m.mu.Unlock()

		return PrefsLoadedMsg{}
	}
}

// Toggle flips the boolean flag named by key locally. It reports whether
// the key was known and preferences were loaded. Nothing is sent to the
// server until Save.
func (m *PreferencesManager) Toggle(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.prefs == nil {
		return false
	}
	flag := m.prefs.Flag(key)
	if flag == nil {
		return false
	}

	*flag = !*flag
	m.dirty = true
	return true
}

// SetQuietHour sets one end of the quiet-hours window. Accepted input is
// an HH:MM 24-hour string, or the empty string to clear the bound.
// Malformed input is rejected at this boundary, leaving the prior value
// unchanged, and is never sent to the server.
func (m *PreferencesManager) SetQuietHour(edge model.QuietHourEdge, value string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.prefs == nil {
		return false
	}

	var target **string
	switch edge {
	case model.QuietHourStart:
		target = &m.prefs.QuietHoursStart
	case model.QuietHourEnd:
		target = &m.prefs.QuietHoursEnd
	default:
		return false
	}

	if value == "" {
		*target = nil
		m.dirty = true
		return true
	}
	if !model.ValidQuietHour(value) {
		return false
	}

	v := value
	*target = &v
	m.dirty = true
	return true
}

// Save returns a command that PUTs the full preference object. On
// success the working copy is replaced by the server's echo.
func (m *PreferencesManager) Save() tea.Cmd {
	m.mu.Lock()
	if m.prefs == nil {
		m.mu.Unlock()
		return nil
	}
	payload := *m.prefs
	m.mu.Unlock()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		updated, err := m.client.UpdatePreferences(ctx, payload)
		if err != nil {
			m.logger.Warn("preferences save failed", zap.Error(err))
			return PrefsSavedMsg{Err: err}
		}

		m.mu.Lock()
		m.prefs = updated
		m.dirty = false
		m.mu.Unlock()

		return PrefsSavedMsg{}
	}
}
