package api_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupulse/inbox/internal/api"
	"github.com/edupulse/inbox/internal/model"
	"github.com/edupulse/inbox/tests/testutil"
)

func TestListQueryEncoding(t *testing.T) {
	svc := testutil.NewService()
	svc.Seed(
		testutil.Record(1, model.StatusUnread),
		testutil.Record(2, model.StatusRead),
	)
	client := testutil.NewClient(t, svc)

	resp, err := client.List(context.Background(), api.ListOptions{
		Status:         string(model.StatusUnread),
		Type:           string(model.TypeAssignment),
		Priority:       string(model.PriorityNormal),
		Page:           2,
		PerPage:        10,
		IncludeExpired: true,
	})
	require.NoError(t, err)

	q := svc.LastListQuery
	assert.Equal(t, "unread", q.Get("status"))
	assert.Equal(t, "assignment", q.Get("notification_type"))
	assert.Equal(t, "normal", q.Get("priority"))
	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "10", q.Get("per_page"))
	assert.Equal(t, "true", q.Get("include_expired"))

	// One unread record matches but page 2 is past it.
	assert.Equal(t, 1, resp.Total)
	assert.Empty(t, resp.Notifications)
	assert.True(t, resp.HasPrev)
}

func TestListOmitsZeroOptions(t *testing.T) {
	svc := testutil.NewService()
	client := testutil.NewClient(t, svc)

	_, err := client.List(context.Background(), api.ListOptions{})
	require.NoError(t, err)

	q := svc.LastListQuery
	assert.False(t, q.Has("status"))
	assert.False(t, q.Has("notification_type"))
	assert.False(t, q.Has("priority"))
	assert.False(t, q.Has("page"))
	assert.False(t, q.Has("per_page"))
	assert.False(t, q.Has("include_expired"))
}

func TestListResponsePagination(t *testing.T) {
	resp := api.ListResponse{Total: 45, Page: 2, PerPage: 20, HasNext: true, HasPrev: true}
	p := resp.Pagination()
	assert.Equal(t, model.Pagination{Page: 2, PerPage: 20, Total: 45, HasNext: true, HasPrev: true}, p)
}

func TestMarkReadReturnsRecord(t *testing.T) {
	svc := testutil.NewService()
	svc.Seed(testutil.Record(7, model.StatusUnread))
	client := testutil.NewClient(t, svc)

	rec, err := client.MarkRead(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRead, rec.Status)
	require.NotNil(t, rec.ReadAt)

	stored, ok := svc.Get(7)
	require.True(t, ok)
	assert.Equal(t, model.StatusRead, stored.Status)
}

func TestMarkUnreadUsesBulkAction(t *testing.T) {
	svc := testutil.NewService()
	svc.Seed(testutil.Record(3, model.StatusRead))
	client := testutil.NewClient(t, svc)

	require.NoError(t, client.MarkUnread(context.Background(), 3))

	require.NotNil(t, svc.LastBulk)
	assert.Equal(t, api.BulkMarkUnread, svc.LastBulk.Action)
	assert.Equal(t, []int64{3}, svc.LastBulk.NotificationIDs)

	stored, _ := svc.Get(3)
	assert.Equal(t, model.StatusUnread, stored.Status)
}

func TestBulkActionBody(t *testing.T) {
	svc := testutil.NewService()
	svc.Seed(
		testutil.Record(1, model.StatusUnread),
		testutil.Record(2, model.StatusUnread),
		testutil.Record(9, model.StatusRead),
	)
	client := testutil.NewClient(t, svc)

	resp, err := client.BulkAction(context.Background(), []int64{1, 2}, api.BulkArchive)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Updated)

	require.NotNil(t, svc.LastBulk)
	assert.Equal(t, api.BulkArchive, svc.LastBulk.Action)
	assert.Equal(t, []int64{1, 2}, svc.LastBulk.NotificationIDs)
}

func TestDeleteAndGetNotFound(t *testing.T) {
	svc := testutil.NewService()
	svc.Seed(testutil.Record(4, model.StatusRead))
	client := testutil.NewClient(t, svc)

	require.NoError(t, client.Delete(context.Background(), 4))

	_, err := client.Get(context.Background(), 4)
	require.Error(t, err)
	var statusErr *api.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 404, statusErr.Code)
}

func TestMarkAllRead(t *testing.T) {
	svc := testutil.NewService()
	svc.Seed(
		testutil.Record(1, model.StatusUnread),
		testutil.Record(2, model.StatusUnread),
		testutil.Record(3, model.StatusArchived),
	)
	client := testutil.NewClient(t, svc)

	require.NoError(t, client.MarkAllRead(context.Background()))
	assert.Zero(t, svc.UnreadCount())
}

func TestPreferencesRoundTrip(t *testing.T) {
	svc := testutil.NewService()
	start := "22:00"
	svc.SeedPrefs(model.Preferences{
		Types:           model.TypeFlags{Assignment: true},
		Channels:        model.ChannelFlags{InApp: true},
		QuietHoursStart: &start,
	})
	client := testutil.NewClient(t, svc)

	p, err := client.Preferences(context.Background())
	require.NoError(t, err)
	assert.True(t, p.Types.Assignment)
	require.NotNil(t, p.QuietHoursStart)
	assert.Equal(t, "22:00", *p.QuietHoursStart)

	p.Channels.Email = true
	updated, err := client.UpdatePreferences(context.Background(), *p)
	require.NoError(t, err)
	assert.True(t, updated.Channels.Email)

	require.NotNil(t, svc.LastPrefsPut)
	assert.True(t, svc.LastPrefsPut.Channels.Email)
}
