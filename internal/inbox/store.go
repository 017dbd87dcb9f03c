// Package inbox implements the client-side notification inbox: a store
// holding the current page of records, a filter engine producing query
// descriptors, a sync engine keeping the store fresh, an action
// coordinator applying optimistic mutations, and a preferences manager.
package inbox

import (
	"sync"
	"time"

	"github.com/edupulse/inbox/internal/api"
	"github.com/edupulse/inbox/internal/model"
)

// Patch is a partial update applied optimistically to a single record.
// Nil fields are left untouched. ReadAt and ArchivedAt are monotonic:
// a patch can set them when unset but never clears an existing value.
type Patch struct {
	Status     *model.Status
	ReadAt     *time.Time
	ArchivedAt *time.Time
}

// Store is the canonical client-side collection of notification records
// for the active filter, plus the derived unread count and pagination
// metadata. It is the single mutable resource of the subsystem: only the
// SyncEngine (wholesale replace) and the ActionCoordinator (patch and
// remove) write to it.
//
// The store never invents data; every field traces to a server response
// or to an optimistic patch explicitly issued by the coordinator.
type Store struct {
	mu          sync.Mutex
	records     []model.Notification
	pagination  model.Pagination
	unreadCount int
	stats       *api.Stats

	subscribers map[int]func()
	nextSubID   int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		subscribers: make(map[int]func()),
	}
}

// Subscribe registers fn to run after every store mutation and returns
// an unsubscribe function. Callbacks run outside the store lock and must
// not block.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// notify runs subscriber callbacks. Called without the lock held.
func (s *Store) notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// ReplacePage atomically swaps the visible page, pagination metadata,
// and unread count from a fresh server response.
func (s *Store) ReplacePage(records []model.Notification, pg model.Pagination, unreadCount int) {
	s.mu.Lock()
	s.records = make([]model.Notification, len(records))
	copy(s.records, records)
	s.pagination = pg
	s.unreadCount = unreadCount
	s.mu.Unlock()

	s.notify()
}

// ApplyMutation merges a partial update into the record with the given
// id. It is a no-op when the id is absent (already evicted by a
// concurrent refresh). The unread count is adjusted by the delta implied
// by an unread to non-unread crossing, or the reverse.
func (s *Store) ApplyMutation(id int64, patch Patch) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return
	}

	rec := &s.records[idx]
	wasUnread := rec.IsUnread()

	if patch.Status != nil {
		rec.Status = *patch.Status
	}
	if patch.ReadAt != nil && rec.ReadAt == nil {
		rec.ReadAt = patch.ReadAt
	}
	if patch.ArchivedAt != nil && rec.ArchivedAt == nil {
		rec.ArchivedAt = patch.ArchivedAt
	}

	s.adjustUnread(wasUnread, rec.IsUnread())
	s.mu.Unlock()

	s.notify()
}

// ReplaceRecord swaps in a full record returned by the server,
// superseding any optimistic patch. No-op when the id is absent.
func (s *Store) ReplaceRecord(rec model.Notification) {
	s.mu.Lock()
	idx := s.indexOf(rec.ID)
	if idx < 0 {
		s.mu.Unlock()
		return
	}

	wasUnread := s.records[idx].IsUnread()
	s.records[idx] = rec
	s.adjustUnread(wasUnread, rec.IsUnread())
	s.mu.Unlock()

	s.notify()
}

// Remove deletes a record from the current page, decrementing the unread
// count if the record was unread. Removing an absent id is a no-op, not
// an error. It reports whether a record was removed and at which index,
// so a failed delete can restore it in place.
func (s *Store) Remove(id int64) (removed bool, index int) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return false, -1
	}

	if s.records[idx].IsUnread() && s.unreadCount > 0 {
		s.unreadCount--
	}
	s.records = append(s.records[:idx], s.records[idx+1:]...)
	s.mu.Unlock()

	s.notify()
	return true, idx
}

// Restore re-inserts a previously removed record at index, used to roll
// back a failed delete. The index is clamped to the current page bounds.
func (s *Store) Restore(rec model.Notification, index int) {
	s.mu.Lock()
	if index < 0 {
		index = 0
	}
	if index > len(s.records) {
		index = len(s.records)
	}
	s.records = append(s.records[:index], append([]model.Notification{rec}, s.records[index:]...)...)
	if rec.IsUnread() {
		s.unreadCount++
	}
	s.mu.Unlock()

	s.notify()
}

// SetUnreadCount updates only the unread-count facet, the poll's write
// path. Page contents are untouched.
func (s *Store) SetUnreadCount(n int) {
	s.mu.Lock()
	s.unreadCount = n
	s.mu.Unlock()

	s.notify()
}

// SetStats stores the latest stats snapshot.
func (s *Store) SetStats(st *api.Stats) {
	s.mu.Lock()
	s.stats = st
	s.mu.Unlock()

	s.notify()
}

// Records returns a copy of the current page.
func (s *Store) Records() []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Notification, len(s.records))
	copy(out, s.records)
	return out
}

// Get returns a copy of the record with the given id.
func (s *Store) Get(id int64) (model.Notification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return model.Notification{}, false
	}
	return s.records[idx], true
}

// Pagination returns the current paging metadata.
func (s *Store) Pagination() model.Pagination {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pagination
}

// UnreadCount returns the derived unread counter.
func (s *Store) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unreadCount
}

// Stats returns the latest stats snapshot, or nil when none was fetched.
func (s *Store) Stats() *api.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// indexOf returns the position of id in the current page, or -1.
// Callers must hold the lock.
func (s *Store) indexOf(id int64) int {
	for i := range s.records {
		if s.records[i].ID == id {
			return i
		}
	}
	return -1
}

// adjustUnread applies the +1/-1/0 unread delta for a state crossing.
// Callers must hold the lock.
func (s *Store) adjustUnread(wasUnread, isUnread bool) {
	switch {
	case wasUnread && !isUnread:
		if s.unreadCount > 0 {
			s.unreadCount--
		}
	case !wasUnread && isUnread:
		s.unreadCount++
	}
}
