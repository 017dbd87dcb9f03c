package api

import "github.com/edupulse/inbox/internal/model"

// ListOptions carries the query parameters for a list fetch. Zero-valued
// fields are omitted from the query string; the server applies its own
// defaults and bounds.
type ListOptions struct {
	Status         string
	Type           string
	Priority       string
	Page           int
	PerPage        int
	IncludeExpired bool
}

// ListResponse is the paged list envelope returned by the service.
type ListResponse struct {
	Notifications []model.Notification `json:"notifications"`
	Total         int                  `json:"total"`
	Page          int                  `json:"page"`
	PerPage       int                  `json:"per_page"`
	HasNext       bool                 `json:"has_next"`
	HasPrev       bool                 `json:"has_prev"`
	UnreadCount   int                  `json:"unread_count"`
}

// Pagination extracts the paging envelope from a list response.
func (r *ListResponse) Pagination() model.Pagination {
	return model.Pagination{
		Page:    r.Page,
		PerPage: r.PerPage,
		Total:   r.Total,
		HasNext: r.HasNext,
		HasPrev: r.HasPrev,
	}
}

// UnreadCountResponse is the lightweight polling payload.
type UnreadCountResponse struct {
	UnreadCount int `json:"unread_count"`
}

// Stats summarizes the user's notification history by status and type.
type Stats struct {
	TotalNotifications int            `json:"total_notifications"`
	UnreadCount        int            `json:"unread_count"`
	ReadCount          int            `json:"read_count"`
	ArchivedCount      int            `json:"archived_count"`
	ByType             map[string]int `json:"by_type,omitempty"`
	ByPriority         map[string]int `json:"by_priority,omitempty"`
}

// BulkAction names an operation applied to a set of notification ids.
type BulkAction string

const (
	BulkMarkRead   BulkAction = "mark_read"
	BulkMarkUnread BulkAction = "mark_unread"
	BulkArchive    BulkAction = "archive"
	BulkDelete     BulkAction = "delete"
)

// BulkActionRequest is the bulk-action request body. The server applies
// the action to every id it accepts; the client never reconciles which
// ids were rejected and instead re-synchronizes afterwards.
type BulkActionRequest struct {
	NotificationIDs []int64    `json:"notification_ids"`
	Action          BulkAction `json:"action"`
}

// BulkActionResponse reports how many records the server updated.
type BulkActionResponse struct {
	Updated int `json:"updated"`
}
