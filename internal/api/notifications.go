package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/edupulse/inbox/internal/model"
)

const basePath = "/notifications/in-app"

// List fetches a page of notifications matching opts.
func (c *Client) List(ctx context.Context, opts ListOptions) (*ListResponse, error) {
	q := url.Values{}
	if opts.Status != "" {
		q.Set("status", opts.Status)
	}
	if opts.Type != "" {
		q.Set("notification_type", opts.Type)
	}
	if opts.Priority != "" {
		q.Set("priority", opts.Priority)
	}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.PerPage != 0 {
		q.Set("per_page", strconv.Itoa(opts.PerPage))
	}
	if opts.IncludeExpired {
		q.Set("include_expired", "true")
	}

	path := basePath + "/"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var resp ListResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UnreadCount fetches only the unread counter.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var resp UnreadCountResponse
	if err := c.get(ctx, basePath+"/unread/count", &resp); err != nil {
		return 0, err
	}
	return resp.UnreadCount, nil
}

// Stats fetches the notification history summary.
func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var resp Stats
	if err := c.get(ctx, basePath+"/stats", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Get fetches a single notification by id.
func (c *Client) Get(ctx context.Context, id int64) (*model.Notification, error) {
	var n model.Notification
	if err := c.get(ctx, fmt.Sprintf("%s/%d", basePath, id), &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// MarkRead marks a notification read and returns the updated record.
func (c *Client) MarkRead(ctx context.Context, id int64) (*model.Notification, error) {
	var n model.Notification
	if err := c.patch(ctx, fmt.Sprintf("%s/%d/read", basePath, id), nil, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// MarkUnread marks a notification unread. The service exposes no
// single-item unread endpoint, so this goes through the bulk action with
// a one-element id set; no updated record comes back.
func (c *Client) MarkUnread(ctx context.Context, id int64) error {
	_, err := c.BulkAction(ctx, []int64{id}, BulkMarkUnread)
	return err
}

// MarkAllRead marks every unread notification read.
func (c *Client) MarkAllRead(ctx context.Context) error {
	return c.patch(ctx, basePath+"/read-all", nil, nil)
}

// Archive archives a notification and returns the updated record.
func (c *Client) Archive(ctx context.Context, id int64) (*model.Notification, error) {
	var n model.Notification
	if err := c.patch(ctx, fmt.Sprintf("%s/%d/archive", basePath, id), nil, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// Delete permanently removes a notification.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("%s/%d", basePath, id))
}

// BulkAction applies one action to a set of notification ids in a single
// request.
func (c *Client) BulkAction(ctx context.Context, ids []int64, action BulkAction) (*BulkActionResponse, error) {
	req := BulkActionRequest{NotificationIDs: ids, Action: action}
	var resp BulkActionResponse
	if err := c.post(ctx, basePath+"/bulk-action", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Preferences fetches the user's notification preference object.
func (c *Client) Preferences(ctx context.Context) (*model.Preferences, error) {
	var p model.Preferences
	if err := c.get(ctx, basePath+"/preferences", &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePreferences replaces the preference object wholesale.
func (c *Client) UpdatePreferences(ctx context.Context, p model.Preferences) (*model.Preferences, error) {
	var updated model.Preferences
	if err := c.put(ctx, basePath+"/preferences", p, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
