package inbox

import (
	"time"

	"go.uber.org/zap"

	"github.com/edupulse/inbox/internal/api"
)

// Session ties the inbox components to one authenticated session. It is
// constructed when the inbox opens and disposed on logout or quit; the
// store is rebuilt from scratch on the next open, never persisted.
type Session struct {
	Store   *Store
	Filters *FilterEngine
	Sync    *SyncEngine
	Actions *ActionCoordinator
	Prefs   *PreferencesManager
}

// SessionOptions carries tunables for a new session.
type SessionOptions struct {
	// PollInterval is the unread-count poll cadence. Defaults to 30s.
	PollInterval time.Duration

	// PerPage is the default page size for list fetches.
	PerPage int
}

// NewSession builds the store and engines around an authenticated client.
func NewSession(client *api.Client, logger *zap.Logger, opts SessionOptions) *Session {
	store := NewStore()
	filters := NewFilterEngine(opts.PerPage)

	return &Session{
		Store:   store,
		Filters: filters,
		Sync:    NewSyncEngine(client, store, filters, logger, opts.PollInterval),
		Actions: NewActionCoordinator(client, store, logger),
		Prefs:   NewPreferencesManager(client, logger),
	}
}

// Close tears down the session's background work deterministically.
func (s *Session) Close() {
	s.Sync.Stop()
}
