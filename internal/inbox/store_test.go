package inbox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupulse/inbox/internal/api"
	"github.com/edupulse/inbox/internal/model"
)

func record(id int64, status model.Status) model.Notification {
	return model.Notification{
		ID:       id,
		Type:     model.TypeAssignment,
		Priority: model.PriorityNormal,
		Status:   status,
		Title:    "Assignment posted",
	}
}

func seededStore(t *testing.T) *Store {
	t.Helper()

	s := NewStore()
	s.ReplacePage([]model.Notification{
		record(1, model.StatusUnread),
		record(2, model.StatusUnread),
		record(3, model.StatusUnread),
		record(4, model.StatusRead),
		record(5, model.StatusRead),
	}, model.Pagination{Page: 1, PerPage: 20, Total: 5}, 3)
	return s
}

func TestStoreReplacePage(t *testing.T) {
	s := seededStore(t)

	assert.Len(t, s.Records(), 5)
	assert.Equal(t, 3, s.UnreadCount())
	assert.Equal(t, model.Pagination{Page: 1, PerPage: 20, Total: 5}, s.Pagination())

	s.ReplacePage([]model.Notification{record(9, model.StatusRead)},
		model.Pagination{Page: 2, PerPage: 20, Total: 21, HasPrev: true}, 0)

	records := s.Records()
	require.Len(t, records, 1)
	assert.Equal(t, int64(9), records[0].ID)
	assert.Zero(t, s.UnreadCount())
}

func TestStoreApplyMutationUnreadDelta(t *testing.T) {
	s := seededStore(t)

	now := time.Now().UTC()
	status := model.StatusRead
	s.ApplyMutation(2, Patch{Status: &status, ReadAt: &now})

	rec, ok := s.Get(2)
	require.True(t, ok)
	assert.Equal(t, model.StatusRead, rec.Status)
	require.NotNil(t, rec.ReadAt)
	assert.Equal(t, 2, s.UnreadCount())

	// Back to unread restores the count.
	unread := model.StatusUnread
	s.ApplyMutation(2, Patch{Status: &unread})
	assert.Equal(t, 3, s.UnreadCount())

	// ReadAt is monotonic and survives the unread toggle.
	rec, _ = s.Get(2)
	require.NotNil(t, rec.ReadAt)
}

func TestStoreApplyMutationKeepsEarlierTimestamps(t *testing.T) {
	s := NewStore()
	first := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	n := record(1, model.StatusRead)
	n.ReadAt = &first
	s.ReplacePage([]model.Notification{n}, model.Pagination{}, 0)

	later := first.Add(time.Hour)
	status := model.StatusRead
	s.ApplyMutation(1, Patch{Status: &status, ReadAt: &later})

	rec, _ := s.Get(1)
	require.NotNil(t, rec.ReadAt)
	assert.Equal(t, first, *rec.ReadAt)
}

func TestStoreApplyMutationAbsentID(t *testing.T) {
	s := seededStore(t)

	status := model.StatusRead
	s.ApplyMutation(999, Patch{Status: &status})

	assert.Len(t, s.Records(), 5)
	assert.Equal(t, 3, s.UnreadCount())
}

func TestStoreRemoveAndRestore(t *testing.T) {
	s := seededStore(t)

	removed, index := s.Remove(2)
	assert.True(t, removed)
	assert.Equal(t, 1, index)
	assert.Len(t, s.Records(), 4)
	assert.Equal(t, 2, s.UnreadCount())

	removed, index = s.Remove(999)
	assert.False(t, removed)
	assert.Equal(t, -1, index)

	s.Restore(record(2, model.StatusUnread), 1)
	records := s.Records()
	require.Len(t, records, 5)
	assert.Equal(t, int64(2), records[1].ID)
	assert.Equal(t, 3, s.UnreadCount())
}

func TestStoreRestoreClampsIndex(t *testing.T) {
	s := NewStore()
	s.ReplacePage([]model.Notification{record(1, model.StatusRead)}, model.Pagination{}, 0)

	s.Restore(record(2, model.StatusRead), 99)
	records := s.Records()
	require.Len(t, records, 2)
	assert.Equal(t, int64(2), records[1].ID)
}

func TestStoreSetUnreadCountLeavesPage(t *testing.T) {
	s := seededStore(t)

	s.SetUnreadCount(42)
	assert.Equal(t, 42, s.UnreadCount())
	assert.Len(t, s.Records(), 5)
}

func TestStoreSubscribe(t *testing.T) {
	s := NewStore()

	calls := 0
	unsubscribe := s.Subscribe(func() { calls++ })

	s.SetUnreadCount(1)
	s.ReplacePage(nil, model.Pagination{}, 0)
	assert.Equal(t, 2, calls)

	unsubscribe()
	s.SetUnreadCount(2)
	assert.Equal(t, 2, calls)
}

func TestStoreStats(t *testing.T) {
	s := NewStore()
	assert.Nil(t, s.Stats())

	s.SetStats(&api.Stats{TotalNotifications: 10, UnreadCount: 4})
	st := s.Stats()
	require.NotNil(t, st)
	assert.Equal(t, 10, st.TotalNotifications)
}

func TestStoreRecordsReturnsCopy(t *testing.T) {
	s := seededStore(t)

	records := s.Records()
	records[0].Title = "mutated"

	fresh, _ := s.Get(records[0].ID)
	assert.Equal(t, "Assignment posted", fresh.Title)
}
