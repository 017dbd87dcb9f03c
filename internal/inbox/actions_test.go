package inbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupulse/inbox/internal/api"
	"github.com/edupulse/inbox/internal/model"
	"github.com/edupulse/inbox/tests/testutil"
)

// seedSession loads five records (three unread) into the service and
// pulls the first page into the store.
func seedSession(t *testing.T) (*Session, *testutil.FakeService) {
	t.Helper()

	svc := testutil.NewService()
	svc.Seed(
		testutil.Record(1, model.StatusUnread),
		testutil.Record(2, model.StatusUnread),
		testutil.Record(3, model.StatusUnread),
		testutil.Record(4, model.StatusRead),
		testutil.Record(5, model.StatusRead),
	)
	sess := newTestSession(t, svc)

	msg := sess.Sync.FetchPage()()
	require.NoError(t, msg.(PageFetchedMsg).Err)
	require.Equal(t, 3, sess.Store.UnreadCount())
	return sess, svc
}

func TestMarkReadOptimisticThenConfirmed(t *testing.T) {
	sess, svc := seedSession(t)

	cmd := sess.Actions.MarkRead(2)
	require.NotNil(t, cmd)

	// Optimistic patch landed before the request settled.
	rec, _ := sess.Store.Get(2)
	assert.Equal(t, model.StatusRead, rec.Status)
	require.NotNil(t, rec.ReadAt)
	assert.Equal(t, 2, sess.Store.UnreadCount())
	assert.True(t, sess.Actions.IsPending(2))

	msg := cmd()
	done, ok := msg.(ActionDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.Err)
	assert.Equal(t, int64(2), done.ID)

	// Server record superseded the patch; pending state cleared.
	rec, _ = sess.Store.Get(2)
	assert.Equal(t, model.StatusRead, rec.Status)
	assert.False(t, sess.Actions.IsPending(2))

	stored, _ := svc.Get(2)
	assert.Equal(t, model.StatusRead, stored.Status)
}

func TestMarkReadRollbackOnFailure(t *testing.T) {
	sess, svc := seedSession(t)
	before, _ := sess.Store.Get(2)

	svc.Fail("read")
	cmd := sess.Actions.MarkRead(2)
	require.NotNil(t, cmd)

	msg := cmd()
	require.Error(t, msg.(ActionDoneMsg).Err)

	// Rolled back to the exact prior state, count included.
	after, _ := sess.Store.Get(2)
	assert.Equal(t, before, after)
	assert.Equal(t, 3, sess.Store.UnreadCount())
	assert.False(t, sess.Actions.IsPending(2))
}

func TestMarkUnread(t *testing.T) {
	sess, svc := seedSession(t)

	cmd := sess.Actions.MarkUnread(4)
	require.NotNil(t, cmd)
	assert.Equal(t, 4, sess.Store.UnreadCount())

	msg := cmd()
	require.NoError(t, msg.(ActionDoneMsg).Err)

	rec, _ := sess.Store.Get(4)
	assert.Equal(t, model.StatusUnread, rec.Status)

	stored, _ := svc.Get(4)
	assert.Equal(t, model.StatusUnread, stored.Status)
}

func TestMarkUnreadRollbackOnFailure(t *testing.T) {
	sess, svc := seedSession(t)

	svc.Fail("bulk")
	cmd := sess.Actions.MarkUnread(4)
	require.NotNil(t, cmd)

	msg := cmd()
	require.Error(t, msg.(ActionDoneMsg).Err)

	rec, _ := sess.Store.Get(4)
	assert.Equal(t, model.StatusRead, rec.Status)
	assert.Equal(t, 3, sess.Store.UnreadCount())
}

func TestArchiveRollbackOnFailure(t *testing.T) {
	sess, svc := seedSession(t)

	svc.Fail("archive")
	cmd := sess.Actions.Archive(1)
	require.NotNil(t, cmd)

	rec, _ := sess.Store.Get(1)
	assert.Equal(t, model.StatusArchived, rec.Status)
	assert.Equal(t, 2, sess.Store.UnreadCount())

	msg := cmd()
	require.Error(t, msg.(ActionDoneMsg).Err)

	rec, _ = sess.Store.Get(1)
	assert.Equal(t, model.StatusUnread, rec.Status)
	assert.Nil(t, rec.ArchivedAt)
	assert.Equal(t, 3, sess.Store.UnreadCount())
}

func TestDeleteRemovesImmediately(t *testing.T) {
	sess, svc := seedSession(t)

	cmd := sess.Actions.Delete(2)
	require.NotNil(t, cmd)

	_, ok := sess.Store.Get(2)
	assert.False(t, ok)
	assert.Equal(t, 2, sess.Store.UnreadCount())

	msg := cmd()
	require.NoError(t, msg.(ActionDoneMsg).Err)

	_, ok = svc.Get(2)
	assert.False(t, ok)
}

func TestDeleteRestoresOnFailure(t *testing.T) {
	sess, svc := seedSession(t)

	svc.Fail("delete")
	cmd := sess.Actions.Delete(2)
	require.NotNil(t, cmd)
	require.Len(t, sess.Store.Records(), 4)

	msg := cmd()
	require.Error(t, msg.(ActionDoneMsg).Err)

	// Restored at its original position with the count put back.
	records := sess.Store.Records()
	require.Len(t, records, 5)
	assert.Equal(t, int64(2), records[1].ID)
	assert.Equal(t, 3, sess.Store.UnreadCount())
}

func TestDeleteEvictedIDIsNoOp(t *testing.T) {
	sess, _ := seedSession(t)

	cmd := sess.Actions.Delete(999)
	require.NotNil(t, cmd)
	assert.Len(t, sess.Store.Records(), 5)
	assert.Equal(t, 3, sess.Store.UnreadCount())
}

func TestPendingActionRefusesSecond(t *testing.T) {
	sess, _ := seedSession(t)

	first := sess.Actions.MarkRead(1)
	require.NotNil(t, first)

	assert.Nil(t, sess.Actions.MarkRead(1))
	assert.Nil(t, sess.Actions.Archive(1))
	assert.Nil(t, sess.Actions.Delete(1))

	first()
	assert.NotNil(t, sess.Actions.Archive(1))
}

func TestBulkActionNoOptimisticPatch(t *testing.T) {
	sess, svc := seedSession(t)

	cmd := sess.Actions.Bulk([]int64{1, 2}, api.BulkMarkRead)
	require.NotNil(t, cmd)

	// No local patching while the bulk request is pending, but the ids
	// are locked against per-item actions.
	rec, _ := sess.Store.Get(1)
	assert.Equal(t, model.StatusUnread, rec.Status)
	assert.True(t, sess.Actions.IsPending(1))
	assert.True(t, sess.Actions.IsPending(2))
	assert.Nil(t, sess.Actions.MarkRead(1))

	msg := cmd()
	done, ok := msg.(BulkDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.Err)
	assert.Equal(t, 2, done.Updated)
	assert.False(t, sess.Actions.IsPending(1))

	stored, _ := svc.Get(1)
	assert.Equal(t, model.StatusRead, stored.Status)
}

func TestBulkFailureLeavesStoreUnchanged(t *testing.T) {
	sess, svc := seedSession(t)
	before := sess.Store.Records()

	svc.Fail("bulk")
	cmd := sess.Actions.Bulk([]int64{1, 2, 3}, api.BulkArchive)
	require.NotNil(t, cmd)

	msg := cmd()
	require.Error(t, msg.(BulkDoneMsg).Err)

	assert.Equal(t, before, sess.Store.Records())
	assert.Equal(t, 3, sess.Store.UnreadCount())
	assert.False(t, sess.Actions.IsPending(1))
}

func TestBulkEmptySelection(t *testing.T) {
	sess, _ := seedSession(t)
	assert.Nil(t, sess.Actions.Bulk(nil, api.BulkMarkRead))
}

func TestMarkAllRead(t *testing.T) {
	sess, svc := seedSession(t)

	msg := sess.Actions.MarkAllRead()()
	require.NoError(t, msg.(AllReadMsg).Err)
	assert.Zero(t, svc.UnreadCount())

	svc.Fail("read-all")
	msg = sess.Actions.MarkAllRead()()
	require.Error(t, msg.(AllReadMsg).Err)
}
