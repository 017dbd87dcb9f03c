package model

import "time"

// NotificationType identifies the kind of event that produced a notification.
type NotificationType string

const (
	TypeSystem       NotificationType = "system"
	TypeAssignment   NotificationType = "assignment"
	TypeGrade        NotificationType = "grade"
	TypeDeadline     NotificationType = "deadline"
	TypeReminder     NotificationType = "reminder"
	TypeFeedback     NotificationType = "feedback"
	TypeSchedule     NotificationType = "schedule"
	TypeAnnouncement NotificationType = "announcement"
)

// NotificationTypes lists all known types in display order.
var NotificationTypes = []NotificationType{
	TypeSystem,
	TypeAssignment,
	TypeGrade,
	TypeDeadline,
	TypeReminder,
	TypeFeedback,
	TypeSchedule,
	TypeAnnouncement,
}

// Priority expresses display urgency. It never drives transition logic.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Priorities lists all priorities ordered from least to most urgent.
var Priorities = []Priority{
	PriorityLow,
	PriorityNormal,
	PriorityHigh,
	PriorityUrgent,
}

// Rank returns the urgency rank of a priority, higher is more urgent.
// Unknown priorities rank below low.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 4
	case PriorityHigh:
		return 3
	case PriorityNormal:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Status is the read/archive state of a notification. Deletion removes
// the record entirely rather than adding a status.
type Status string

const (
	StatusUnread   Status = "unread"
	StatusRead     Status = "read"
	StatusArchived Status = "archived"
)

// Notification is a single in-app notification record as held by the
// client. Records are created server-side only; the client never
// originates one.
type Notification struct {
	// ID is the server-assigned identifier. Unique, immutable.
	ID int64 `json:"id"`

	Type     NotificationType `json:"type"`
	Priority Priority         `json:"priority"`
	Status   Status           `json:"status"`

	Title   string `json:"title"`
	Message string `json:"message"`

	// Metadata carries arbitrary key-value payload, opaque to the client.
	Metadata map[string]any `json:"metadata,omitempty"`

	// ActionURL is an optional deep link into the dashboard.
	ActionURL string `json:"action_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	// ReadAt and ArchivedAt are set exactly once and never cleared.
	ReadAt     *time.Time `json:"read_at,omitempty"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`

	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// IsUnread reports whether the record still counts toward the unread badge.
func (n Notification) IsUnread() bool {
	return n.Status == StatusUnread
}

// IsExpired reports whether the record has passed its expiry. Expiry is
// derived, never stored.
func (n Notification) IsExpired(now time.Time) bool {
	return n.ExpiresAt != nil && now.After(*n.ExpiresAt)
}

// Pagination mirrors the server's paging envelope. It is always replaced
// wholesale from the latest response, never inferred locally, so the
// client cannot drift from the server's idea of the page.
type Pagination struct {
	Page    int  `json:"page"`
	PerPage int  `json:"per_page"`
	Total   int  `json:"total"`
	HasNext bool `json:"has_next"`
	HasPrev bool `json:"has_prev"`
}
