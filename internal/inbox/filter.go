package inbox

import (
	"strconv"
	"sync"

	"github.com/edupulse/inbox/internal/api"
	"github.com/edupulse/inbox/internal/model"
)

// Tab is the coarse inbox view selection. Tabs and the explicit status
// filter share one descriptor field; selecting a tab overwrites any
// independently chosen status filter.
type Tab string

const (
	TabAll      Tab = "all"
	TabUnread   Tab = "unread"
	TabArchived Tab = "archived"
)

// Tabs lists the tabs in display order.
var Tabs = []Tab{TabAll, TabUnread, TabArchived}

// Descriptor is the canonical query descriptor consumed by the sync
// engine. Nil pointer fields mean "no filter".
type Descriptor struct {
	Status         *model.Status
	Type           *model.NotificationType
	Priority       *model.Priority
	IncludeExpired bool
	Page           int
	PerPage        int
}

// ListOptions translates the descriptor into API query options.
func (d Descriptor) ListOptions() api.ListOptions {
	opts := api.ListOptions{
		Page:           d.Page,
		PerPage:        d.PerPage,
		IncludeExpired: d.IncludeExpired,
	}
	if d.Status != nil {
		opts.Status = string(*d.Status)
	}
	if d.Type != nil {
		opts.Type = string(*d.Type)
	}
	if d.Priority != nil {
		opts.Priority = string(*d.Priority)
	}
	return opts
}

// FilterEngine composes the current query descriptor from UI filter
// state. Every change to a field other than Page resets Page to 1, and
// every change bumps a monotonically increasing sequence number used to
// discard stale fetch responses.
type FilterEngine struct {
	mu   sync.Mutex
	desc Descriptor
	tab  Tab
	seq  uint64
}

// NewFilterEngine creates a filter engine with the given default page size.
func NewFilterEngine(perPage int) *FilterEngine {
	if perPage <= 0 {
		perPage = 20
	}
	return &FilterEngine{
		desc: Descriptor{Page: 1, PerPage: perPage},
		tab:  TabAll,
		seq:  1,
	}
}

// Current returns the active descriptor and its sequence number.
func (f *FilterEngine) Current() (Descriptor, uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.desc, f.seq
}

// Seq returns the current sequence number.
func (f *FilterEngine) Seq() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seq
}

// Tab returns the active tab.
func (f *FilterEngine) Tab() Tab {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tab
}

// SetTab selects an inbox tab, overwriting any explicit status filter.
func (f *FilterEngine) SetTab(t Tab) (Descriptor, uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.tab = t
	switch t {
	case TabUnread:
		status := model.StatusUnread
		f.desc.Status = &status
	case TabArchived:
		status := model.StatusArchived
		f.desc.Status = &status
	default:
		f.desc.Status = nil
	}
	return f.changedLocked()
}

// SetStatus applies an explicit status filter. A later tab selection
// overwrites it.
func (f *FilterEngine) SetStatus(status *model.Status) (Descriptor, uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.desc.Status = status
	return f.changedLocked()
}

// SetType filters by notification type; nil clears the filter.
func (f *FilterEngine) SetType(t *model.NotificationType) (Descriptor, uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.desc.Type = t
	return f.changedLocked()
}

// SetPriority filters by priority; nil clears the filter.
func (f *FilterEngine) SetPriority(p *model.Priority) (Descriptor, uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.desc.Priority = p
	return f.changedLocked()
}

// SetIncludeExpired toggles expired-record visibility.
func (f *FilterEngine) SetIncludeExpired(include bool) (Descriptor, uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.desc.IncludeExpired = include
	return f.changedLocked()
}

// SetPage moves to another page of the same filter. Unlike every other
// setter it does not reset pagination.
func (f *FilterEngine) SetPage(page int) (Descriptor, uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if page < 1 {
		page = 1
	}
	f.desc.Page = page
	f.seq++
	return f.desc, f.seq
}

// SetPerPage changes the page size. The value is coerced, not validated;
// the server is the source of truth for bounds.
func (f *FilterEngine) SetPerPage(perPage int) (Descriptor, uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.desc.PerPage = perPage
	return f.changedLocked()
}

// changedLocked resets the page and bumps the sequence after any
// non-page field change. Callers must hold the lock.
func (f *FilterEngine) changedLocked() (Descriptor, uint64) {
	f.desc.Page = 1
	f.seq++
	return f.desc, f.seq
}

// CoercePerPage converts raw per-page input to an integer. Out-of-range
// values pass through uncorrected; only unparseable input falls back to
// the current value.
func CoercePerPage(raw string, current int) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return current
	}
	return n
}
