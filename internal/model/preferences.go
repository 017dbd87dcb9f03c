package model

import "regexp"

// quietHourPattern matches 24-hour HH:MM strings (00:00 through 23:59).
var quietHourPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidQuietHour reports whether s is a well-formed 24-hour HH:MM string.
func ValidQuietHour(s string) bool {
	return quietHourPattern.MatchString(s)
}

// TypeFlags holds the per-type delivery toggles, one per notification type.
type TypeFlags struct {
	System       bool `json:"system"`
	Assignment   bool `json:"assignment"`
	Grade        bool `json:"grade"`
	Deadline     bool `json:"deadline"`
	Reminder     bool `json:"reminder"`
	Feedback     bool `json:"feedback"`
	Schedule     bool `json:"schedule"`
	Announcement bool `json:"announcement"`
}

// ChannelFlags holds the per-channel delivery toggles.
type ChannelFlags struct {
	InApp bool `json:"in_app"`
	Email bool `json:"email"`
	Push  bool `json:"push"`
}

// Preferences is the user's notification preference object. It is loaded
// from and saved to the server as a whole; the client never synthesizes
// defaults (the server is the single source of defaults).
type Preferences struct {
	Types    TypeFlags    `json:"types"`
	Channels ChannelFlags `json:"channels"`

	// Quiet hours are stored as HH:MM strings, nil when unset. Enforcement
	// is server-side; the client only stores the window.
	QuietHoursStart *string `json:"quiet_hours_start"`
	QuietHoursEnd   *string `json:"quiet_hours_end"`
}

// Flag keys accepted by Flag and the preferences form. Type keys match
// NotificationType values; channel keys are prefixed to avoid colliding
// with a hypothetical future type of the same name.
const (
	FlagChannelInApp = "channel:in_app"
	FlagChannelEmail = "channel:email"
	FlagChannelPush  = "channel:push"
)

// Flag returns a pointer to the boolean flag named by key, or nil when
// the key is unknown.
func (p *Preferences) Flag(key string) *bool {
	switch key {
	case string(TypeSystem):
		return &p.Types.System
	case string(TypeAssignment):
		return &p.Types.Assignment
	case string(TypeGrade):
		return &p.Types.Grade
	case string(TypeDeadline):
		return &p.Types.Deadline
	case string(TypeReminder):
		return &p.Types.Reminder
	case string(TypeFeedback):
		return &p.Types.Feedback
	case string(TypeSchedule):
		return &p.Types.Schedule
	case string(TypeAnnouncement):
		return &p.Types.Announcement
	case FlagChannelInApp:
		return &p.Channels.InApp
	case FlagChannelEmail:
		return &p.Channels.Email
	case FlagChannelPush:
		return &p.Channels.Push
	}
	return nil
}

// QuietHourEdge selects which end of the quiet-hours window an edit targets.
type QuietHourEdge string

const (
	QuietHourStart QuietHourEdge = "start"
	QuietHourEnd   QuietHourEdge = "end"
)
