package inbox

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/edupulse/inbox/internal/api"
	"github.com/edupulse/inbox/internal/model"
)

// ActionDoneMsg is a tea.Msg sent when a single-item action settles,
// either committed or rolled back.
type ActionDoneMsg struct {
	ID     int64
	Action api.BulkAction
	Err    error
}

// BulkDoneMsg is a tea.Msg sent when a bulk action settles. On success
// the app re-synchronizes (page refetch plus unread poll) instead of
// reconciling per-item outcomes locally.
type BulkDoneMsg struct {
	IDs     []int64
	Action  api.BulkAction
	Updated int
	Err     error
}

// AllReadMsg is a tea.Msg sent when mark-all-read settles.
type AllReadMsg struct {
	Err error
}

// pendingAction snapshots a record before its optimistic patch so a
// failed request can restore it exactly, regardless of how many fields
// the patch touched.
type pendingAction struct {
	snapshot model.Notification
	existed  bool
	index    int
	removed  bool
}

// ActionCoordinator executes state-changing operations with optimistic
// local mutation, server confirmation, and rollback on failure. Each
// action moves idle -> pending -> committed or rolled back; while an
// action for an id is pending, further actions on that id are refused,
// which is what disables the per-item UI controls.
type ActionCoordinator struct {
	client *api.Client
	store  *Store
	logger *zap.Logger

	mu          sync.Mutex
	pending     map[int64]pendingAction
	bulkPending map[int64]struct{}
}

// NewActionCoordinator creates a coordinator writing to store.
func NewActionCoordinator(client *api.Client, store *Store, logger *zap.Logger) *ActionCoordinator {
	return &ActionCoordinator{
		client:      client,
		store:       store,
		logger:      logger,
		pending:     make(map[int64]pendingAction),
		bulkPending: make(map[int64]struct{}),
	}
}

// IsPending reports whether id has an unsettled single-item or bulk
// action against it.
func (c *ActionCoordinator) IsPending(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.pending[id]; ok {
		return true
	}
	_, ok := c.bulkPending[id]
	return ok
}

// begin snapshots the record and registers the pending action. It
// returns false when an action for id is already pending.
func (c *ActionCoordinator) begin(id int64) (pendingAction, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.pending[id]; ok {
		return pendingAction{}, false
	}
	if _, ok := c.bulkPending[id]; ok {
		return pendingAction{}, false
	}

	snapshot, existed := c.store.Get(id)
	pa := pendingAction{snapshot: snapshot, existed: existed}
	c.pending[id] = pa
	return pa, true
}

// settle clears the pending state. When rollback is requested the prior
// snapshot is restored; restoration is a no-op if a concurrent refresh
// evicted the record meanwhile.
func (c *ActionCoordinator) settle(id int64, rollback bool) {
	c.mu.Lock()
	pa, ok := c.pending[id]
	delete(c.pending, id)
	c.mu.Unlock()

	if !ok || !rollback || !pa.existed {
		return
	}
	if pa.removed {
		c.store.Restore(pa.snapshot, pa.index)
		return
	}
	c.store.ReplaceRecord(pa.snapshot)
}

// MarkRead marks a notification read: optimistic patch now, server
// confirmation in the returned command. Returns nil when the id already
// has a pending action.
func (c *ActionCoordinator) MarkRead(id int64) tea.Cmd {
	if _, ok := c.begin(id); !ok {
		return nil
	}

	now := time.Now().UTC()
	status := model.StatusRead
	c.store.ApplyMutation(id, Patch{Status: &status, ReadAt: &now})

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		rec, err := c.client.MarkRead(ctx, id)
		if err != nil {
			c.logger.Warn("mark read failed", zap.Int64("id", id), zap.Error(err))
			c.settle(id, true)
			return ActionDoneMsg{ID: id, Action: api.BulkMarkRead, Err: err}
		}

		c.store.ReplaceRecord(*rec)
		c.settle(id, false)
		return ActionDoneMsg{ID: id, Action: api.BulkMarkRead}
	}
}

// MarkUnread toggles a read notification back to unread. The service
// returns no updated record for this path, so on success the optimistic
// patch stands until the next refetch.
func (c *ActionCoordinator) MarkUnread(id int64) tea.Cmd {
	if _, ok := c.begin(id); !ok {
		return nil
	}

	status := model.StatusUnread
	c.store.ApplyMutation(id, Patch{Status: &status})

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		if err := c.client.MarkUnread(ctx, id); err != nil {
			c.logger.Warn("mark unread failed", zap.Int64("id", id), zap.Error(err))
			c.settle(id, true)
			return ActionDoneMsg{ID: id, Action: api.BulkMarkUnread, Err: err}
		}

		c.settle(id, false)
		return ActionDoneMsg{ID: id, Action: api.BulkMarkUnread}
	}
}

// Archive archives a notification.
func (c *ActionCoordinator) Archive(id int64) tea.Cmd {
	if _, ok := c.begin(id); !ok {
		return nil
	}

	now := time.Now().UTC()
	status := model.StatusArchived
	c.store.ApplyMutation(id, Patch{Status: &status, ArchivedAt: &now})

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		rec, err := c.client.Archive(ctx, id)
		if err != nil {
			c.logger.Warn("archive failed", zap.Int64("id", id), zap.Error(err))
			c.settle(id, true)
			return ActionDoneMsg{ID: id, Action: api.BulkArchive, Err: err}
		}

		c.store.ReplaceRecord(*rec)
		c.settle(id, false)
		return ActionDoneMsg{ID: id, Action: api.BulkArchive}
	}
}

// Delete removes a notification. The optimistic removal already adjusted
// the unread count; success only confirms it. Failure restores the
// record at its original position.
func (c *ActionCoordinator) Delete(id int64) tea.Cmd {
	pa, ok := c.begin(id)
	if !ok {
		return nil
	}

	removed, index := c.store.Remove(id)
	pa.removed = removed
	pa.index = index
	c.mu.Lock()
	c.pending[id] = pa
	c.mu.Unlock()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		if err := c.client.Delete(ctx, id); err != nil {
			c.logger.Warn("delete failed", zap.Int64("id", id), zap.Error(err))
			c.settle(id, true)
			return ActionDoneMsg{ID: id, Action: api.BulkDelete, Err: err}
		}

		c.settle(id, false)
		return ActionDoneMsg{ID: id, Action: api.BulkDelete}
	}
}

// Bulk applies one action to a set of ids in a single request. No
// per-item optimistic patches: the server may accept some ids and
// reject others, and the client resolves that by refetching after the
// response rather than reconciling locally. While the bulk action is
// pending, per-item actions on the same ids are refused.
func (c *ActionCoordinator) Bulk(ids []int64, action api.BulkAction) tea.Cmd {
	if len(ids) == 0 {
		return nil
	}

	c.mu.Lock()
	for _, id := range ids {
		c.bulkPending[id] = struct{}{}
	}
	c.mu.Unlock()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		resp, err := c.client.BulkAction(ctx, ids, action)

		c.mu.Lock()
		for _, id := range ids {
			delete(c.bulkPending, id)
		}
		c.mu.Unlock()

		if err != nil {
			c.logger.Warn("bulk action failed",
				zap.String("action", string(action)),
				zap.Int("count", len(ids)),
				zap.Error(err),
			)
			return BulkDoneMsg{IDs: ids, Action: action, Err: err}
		}

		return BulkDoneMsg{IDs: ids, Action: action, Updated: resp.Updated}
	}
}

// MarkAllRead marks every unread notification read. On success the app
// polls the unread count immediately instead of waiting for the next
// timer tick.
func (c *ActionCoordinator) MarkAllRead() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		if err := c.client.MarkAllRead(ctx); err != nil {
			c.logger.Warn("mark all read failed", zap.Error(err))
			return AllReadMsg{Err: err}
		}
		return AllReadMsg{}
	}
}
