package inbox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edupulse/inbox/internal/api"
	"github.com/edupulse/inbox/internal/model"
	"github.com/edupulse/inbox/tests/testutil"
)

func newTestSession(t *testing.T, svc *testutil.FakeService) *Session {
	t.Helper()

	client := testutil.NewClient(t, svc)
	sess := NewSession(client, zap.NewNop(), SessionOptions{
		PollInterval: time.Hour, // ticks never fire during a test
		PerPage:      20,
	})
	t.Cleanup(sess.Close)
	return sess
}

func TestFetchPageReplacesStore(t *testing.T) {
	svc := testutil.NewService()
	svc.Seed(
		testutil.Record(1, model.StatusUnread),
		testutil.Record(2, model.StatusRead),
	)
	sess := newTestSession(t, svc)

	msg := sess.Sync.FetchPage()()

	fetched, ok := msg.(PageFetchedMsg)
	require.True(t, ok)
	require.NoError(t, fetched.Err)
	assert.False(t, fetched.Stale)

	assert.Len(t, sess.Store.Records(), 2)
	assert.Equal(t, 1, sess.Store.UnreadCount())
	assert.Equal(t, 2, sess.Store.Pagination().Total)
}

func TestFetchPageDiscardsStaleResponse(t *testing.T) {
	svc := testutil.NewService()
	svc.Seed(testutil.Record(1, model.StatusUnread))
	sess := newTestSession(t, svc)

	// Issue a fetch, then change the filter before the response lands.
	cmd := sess.Sync.FetchPage()
	sess.Filters.SetTab(TabArchived)

	msg := cmd()
	fetched, ok := msg.(PageFetchedMsg)
	require.True(t, ok)
	assert.True(t, fetched.Stale)
	require.NoError(t, fetched.Err)

	// The superseded response never reached the store.
	assert.Empty(t, sess.Store.Records())
	assert.Zero(t, sess.Store.UnreadCount())
}

func TestFetchPageErrorLeavesStore(t *testing.T) {
	svc := testutil.NewService()
	svc.Seed(testutil.Record(1, model.StatusUnread))
	sess := newTestSession(t, svc)

	require.IsType(t, PageFetchedMsg{}, sess.Sync.FetchPage()())
	require.Len(t, sess.Store.Records(), 1)

	svc.Fail("list")
	msg := sess.Sync.FetchPage()()

	fetched := msg.(PageFetchedMsg)
	require.Error(t, fetched.Err)
	assert.False(t, fetched.Stale)

	// Stale-but-valid data beats a blanked view.
	assert.Len(t, sess.Store.Records(), 1)
}

func TestFetchPageUsesCurrentDescriptor(t *testing.T) {
	svc := testutil.NewService()
	sess := newTestSession(t, svc)

	nt := model.TypeGrade
	sess.Filters.SetType(&nt)
	sess.Filters.SetPage(2)

	sess.Sync.FetchPage()()

	q := svc.LastListQuery
	assert.Equal(t, "grade", q.Get("notification_type"))
	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "20", q.Get("per_page"))
}

func TestPollUnreadCountTouchesOnlyCounter(t *testing.T) {
	svc := testutil.NewService()
	svc.Seed(
		testutil.Record(1, model.StatusUnread),
		testutil.Record(2, model.StatusUnread),
	)
	sess := newTestSession(t, svc)

	// A page is on screen; the poll must not disturb it.
	sess.Store.ReplacePage([]model.Notification{testutil.Record(9, model.StatusRead)},
		model.Pagination{Page: 1, Total: 1}, 0)

	msg := sess.Sync.PollUnreadCount()()

	polled, ok := msg.(UnreadPolledMsg)
	require.True(t, ok)
	require.NoError(t, polled.Err)
	assert.Equal(t, 2, polled.Count)

	assert.Equal(t, 2, sess.Store.UnreadCount())
	records := sess.Store.Records()
	require.Len(t, records, 1)
	assert.Equal(t, int64(9), records[0].ID)
}

func TestFetchStats(t *testing.T) {
	svc := testutil.NewService()
	svc.Seed(
		testutil.Record(1, model.StatusUnread),
		testutil.Record(2, model.StatusArchived),
	)
	sess := newTestSession(t, svc)

	msg := sess.Sync.FetchStats()()
	require.NoError(t, msg.(StatsFetchedMsg).Err)

	st := sess.Store.Stats()
	require.NotNil(t, st)
	assert.Equal(t, 2, st.TotalNotifications)
	assert.Equal(t, 1, st.UnreadCount)
	assert.Equal(t, 1, st.ArchivedCount)

	svc.Fail("stats")
	msg = sess.Sync.FetchStats()()
	require.Error(t, msg.(StatsFetchedMsg).Err)
	assert.NotNil(t, sess.Store.Stats())
}

func TestPollLoopReportsAuthExpiry(t *testing.T) {
	svc := testutil.NewService()
	sess := newTestSession(t, svc)

	wait := sess.Sync.Start()
	// Revoke the token, then force a poll.
	svc.RequireToken = "rotated"
	sess.Sync.PollNow()

	msg := wait()
	expired, ok := msg.(AuthExpiredMsg)
	require.True(t, ok)
	assert.True(t, api.IsAuthError(expired.Err))
}
