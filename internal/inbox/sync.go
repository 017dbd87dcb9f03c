package inbox

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/edupulse/inbox/internal/api"
)

// fetchTimeout is the maximum time allowed for a single sync round-trip.
const fetchTimeout = 30 * time.Second

// PageFetchedMsg is a tea.Msg sent when a page fetch completes. Stale
// responses (a newer filter superseded the request while it was in
// flight) are marked and never reach the store.
type PageFetchedMsg struct {
	Desc  Descriptor
	Seq   uint64
	Stale bool
	Err   error
}

// UnreadPolledMsg is a tea.Msg sent when an explicit unread-count poll
// completes.
type UnreadPolledMsg struct {
	Count int
	Err   error
}

// StatsFetchedMsg is a tea.Msg sent when a stats fetch completes. Stats
// are supplementary; the error is logged and otherwise ignored.
type StatsFetchedMsg struct {
	Err error
}

// AuthExpiredMsg is a tea.Msg sent when the background poll hits a 401.
// The session cannot recover locally; the app drops to re-authentication.
type AuthExpiredMsg struct {
	Err error
}

// SyncEngine keeps the store reasonably fresh without the UI ever
// blocking on a network round-trip. Page fetches run as tea commands;
// the unread-count poll runs on its own goroutine owned by the session
// lifecycle so it can be torn down deterministically.
type SyncEngine struct {
	client  *api.Client
	store   *Store
	filters *FilterEngine
	logger  *zap.Logger

	interval time.Duration
	stopCh   chan struct{}
	pollCh   chan struct{}
	events   chan tea.Msg
	running  bool
}

// NewSyncEngine creates a sync engine polling at the given interval.
func NewSyncEngine(
	client *api.Client,
	store *Store,
	filters *FilterEngine,
	logger *zap.Logger,
	interval time.Duration,
) *SyncEngine {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &SyncEngine{
		client:   client,
		store:    store,
		filters:  filters,
		logger:   logger,
		interval: interval,
		stopCh:   make(chan struct{}),
		pollCh:   make(chan struct{}, 1),
		events:   make(chan tea.Msg, 16),
	}
}

// Start launches the unread-count poll loop and returns a command that
// subscribes to background sync events.
func (e *SyncEngine) Start() tea.Cmd {
	if e.running {
		return e.waitForEvent()
	}
	e.running = true

	go e.pollLoop()

	return e.waitForEvent()
}

// Stop halts the poll loop. Responses already in flight are discarded
// rather than aborted at the transport level.
func (e *SyncEngine) Stop() {
	if !e.running {
		return
	}
	close(e.stopCh)
	e.running = false
}

// PollNow requests an immediate unread-count poll, used after
// mark-all-read instead of waiting for the next tick.
func (e *SyncEngine) PollNow() {
	select {
	case e.pollCh <- struct{}{}:
	default:
	}
}

// WaitForNext returns a command that waits for the next background sync
// event. Call again after each received event to keep listening.
func (e *SyncEngine) WaitForNext() tea.Cmd {
	return e.waitForEvent()
}

// FetchPage returns a command that fetches the current page. The active
// descriptor and sequence number are captured at issue time; a response
// whose sequence has been superseded on arrival is discarded, so a fast
// filter toggle can never be overwritten by an out-of-order response.
// On failure the store is left untouched: stale-but-valid data beats a
// blanked view.
func (e *SyncEngine) FetchPage() tea.Cmd {
	desc, seq := e.filters.Current()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		resp, err := e.client.List(ctx, desc.ListOptions())
		if err != nil {
			e.logger.Warn("page fetch failed", zap.Error(err))
			return PageFetchedMsg{Desc: desc, Seq: seq, Err: err}
		}

		if current := e.filters.Seq(); current != seq {
			e.logger.Debug("discarding stale page response",
				zap.Uint64("seq", seq),
				zap.Uint64("current", current),
			)
			return PageFetchedMsg{Desc: desc, Seq: seq, Stale: true}
		}

		e.store.ReplacePage(resp.Notifications, resp.Pagination(), resp.UnreadCount)
		return PageFetchedMsg{Desc: desc, Seq: seq}
	}
}

// FetchStats returns a command that fetches the stats summary.
// Best-effort: failures are logged and swallowed.
func (e *SyncEngine) FetchStats() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		stats, err := e.client.Stats(ctx)
		if err != nil {
			e.logger.Warn("stats fetch failed", zap.Error(err))
			return StatsFetchedMsg{Err: err}
		}

		e.store.SetStats(stats)
		return StatsFetchedMsg{}
	}
}

// PollUnreadCount returns a command that polls the unread count once.
func (e *SyncEngine) PollUnreadCount() tea.Cmd {
	return func() tea.Msg {
		count, err := e.pollOnce()
		return UnreadPolledMsg{Count: count, Err: err}
	}
}

// pollLoop fires the unread-count poll on a fixed interval regardless of
// which view is open. Failures are silent: log and retry next tick, no
// backoff, no user-visible error. Count staleness is tolerable.
func (e *SyncEngine) pollLoop() {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-e.stopCh:
			return
		case <-ticker.C:
		case <-e.pollCh:
		}

		if _, err := e.pollOnce(); err != nil {
			if api.IsAuthError(err) {
				e.sendEvent(AuthExpiredMsg{Err: err})
				return
			}
			e.logger.Warn("unread poll failed", zap.Error(err))
		}
	}
}

// pollOnce fetches the unread count and updates only that facet of the
// store; page contents are never touched by this path.
func (e *SyncEngine) pollOnce() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	count, err := e.client.UnreadCount(ctx)
	if err != nil {
		return 0, err
	}

	e.store.SetUnreadCount(count)
	return count, nil
}

// sendEvent delivers a background event without blocking the poll loop.
func (e *SyncEngine) sendEvent(msg tea.Msg) {
	select {
	case e.events <- msg:
	default:
	}
}

// waitForEvent returns a command that blocks on the event channel.
func (e *SyncEngine) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-e.events
		if !ok {
			return nil
		}
		return msg
	}
}
