// Package testutil provides an in-memory fake of the notification
// service for tests, served over httptest.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/edupulse/inbox/internal/api"
	"github.com/edupulse/inbox/internal/model"
)

// FakeService is an in-memory notification store with the same REST
// surface as the real service. Zero value is not usable; use NewService.
type FakeService struct {
	mu      sync.Mutex
	records []model.Notification
	prefs   model.Preferences

	// RequireToken, when non-empty, makes every request without the
	// matching bearer token fail with 401.
	RequireToken string

	failOps map[string]bool

	// Captured request state for assertions.
	LastListQuery url.Values
	LastBulk      *api.BulkActionRequest
	LastPrefsPut  *model.Preferences
	ListCalls     int
}

// NewService creates an empty fake service.
func NewService() *FakeService {
	return &FakeService{
		failOps: make(map[string]bool),
	}
}

// NewClient starts an httptest server around svc and returns an API
// client pointed at it. The server is closed when the test completes.
func NewClient(t *testing.T, svc *FakeService) *api.Client {
	t.Helper()

	srv := httptest.NewServer(svc.Handler())
	t.Cleanup(srv.Close)

	token := svc.RequireToken
	if token == "" {
		token = "test-token"
	}
	return api.NewClient(srv.URL, token, 5*time.Second)
}

// Seed replaces the service's records.
func (s *FakeService) Seed(records ...model.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append([]model.Notification(nil), records...)
}

// SeedPrefs sets the stored preference object.
func (s *FakeService) SeedPrefs(p model.Preferences) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs = p
}

// Fail makes the named operations return 500 until cleared. Known ops:
// list, unread, stats, get, read, read-all, archive, delete, bulk,
// prefs-get, prefs-put.
func (s *FakeService) Fail(ops ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, op := range ops {
		s.failOps[op] = true
	}
}

// Recover clears all failure injection.
func (s *FakeService) Recover() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failOps = make(map[string]bool)
}

// Get returns a copy of the stored record with the given id.
func (s *FakeService) Get(id int64) (model.Notification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return model.Notification{}, false
	}
	return s.records[idx], true
}

// UnreadCount returns the number of unread records across all pages.
func (s *FakeService) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unreadCount()
}

// Handler returns the HTTP handler implementing the service surface.
func (s *FakeService) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.RequireToken != "" &&
			r.Header.Get("Authorization") != "Bearer "+s.RequireToken {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "invalid token"})
			return
		}

		rest, ok := strings.CutPrefix(r.URL.Path, "/notifications/in-app")
		if !ok {
			http.NotFound(w, r)
			return
		}
		rest = strings.Trim(rest, "/")

		switch {
		case rest == "" && r.Method == http.MethodGet:
			s.handleList(w, r)
		case rest == "unread/count" && r.Method == http.MethodGet:
			s.handleUnread(w)
		case rest == "stats" && r.Method == http.MethodGet:
			s.handleStats(w)
		case rest == "read-all" && r.Method == http.MethodPatch:
			s.handleReadAll(w)
		case rest == "bulk-action" && r.Method == http.MethodPost:
			s.handleBulk(w, r)
		case rest == "preferences" && r.Method == http.MethodGet:
			s.handlePrefsGet(w)
		case rest == "preferences" && r.Method == http.MethodPut:
			s.handlePrefsPut(w, r)
		default:
			s.handleItem(w, r, rest)
		}
	})
}

func (s *FakeService) handleList(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ListCalls++
	q := r.URL.Query()
	s.LastListQuery = q

	if s.failOps["list"] {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "boom"})
		return
	}

	var matched []model.Notification
	now := time.Now()
	for _, n := range s.records {
		if v := q.Get("status"); v != "" && string(n.Status) != v {
			continue
		}
		if v := q.Get("notification_type"); v != "" && string(n.Type) != v {
			continue
		}
		if v := q.Get("priority"); v != "" && string(n.Priority) != v {
			continue
		}
		if q.Get("include_expired") != "true" && n.IsExpired(now) {
			continue
		}
		matched = append(matched, n)
	}

	page := intParam(q, "page", 1)
	perPage := intParam(q, "per_page", 20)

	total := len(matched)
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	writeJSON(w, http.StatusOK, api.ListResponse{
		Notifications: matched[start:end],
		Total:         total,
		Page:          page,
		PerPage:       perPage,
		HasNext:       end < total,
		HasPrev:       page > 1,
		UnreadCount:   s.unreadCount(),
	})
}

func (s *FakeService) handleUnread(w http.ResponseWriter) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failOps["unread"] {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "boom"})
		return
	}
	writeJSON(w, http.StatusOK, api.UnreadCountResponse{UnreadCount: s.unreadCount()})
}

func (s *FakeService) handleStats(w http.ResponseWriter) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failOps["stats"] {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "boom"})
		return
	}

	st := api.Stats{
		TotalNotifications: len(s.records),
		ByType:             make(map[string]int),
		ByPriority:         make(map[string]int),
	}
	for _, n := range s.records {
		switch n.Status {
		case model.StatusUnread:
			st.UnreadCount++
		case model.StatusRead:
			st.ReadCount++
		case model.StatusArchived:
			st.ArchivedCount++
		}
		st.ByType[string(n.Type)]++
		st.ByPriority[string(n.Priority)]++
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *FakeService) handleReadAll(w http.ResponseWriter) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failOps["read-all"] {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "boom"})
		return
	}

	now := time.Now().UTC()
	for i := range s.records {
		if s.records[i].Status == model.StatusUnread {
			s.markReadLocked(&s.records[i], now)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *FakeService) handleBulk(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var req api.BulkActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "bad body"})
		return
	}
	s.LastBulk = &req

	if s.failOps["bulk"] {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "boom"})
		return
	}

	now := time.Now().UTC()
	updated := 0
	for _, id := range req.NotificationIDs {
		idx := s.indexOf(id)
		if idx < 0 {
			continue
		}
		switch req.Action {
		case api.BulkMarkRead:
			if s.records[idx].Status == model.StatusUnread {
				s.markReadLocked(&s.records[idx], now)
			}
		case api.BulkMarkUnread:
			s.records[idx].Status = model.StatusUnread
		case api.BulkArchive:
			s.records[idx].Status = model.StatusArchived
			if s.records[idx].ArchivedAt == nil {
				t := now
				s.records[idx].ArchivedAt = &t
			}
		case api.BulkDelete:
			s.records = append(s.records[:idx], s.records[idx+1:]...)
		}
		updated++
	}
	writeJSON(w, http.StatusOK, api.BulkActionResponse{Updated: updated})
}

func (s *FakeService) handlePrefsGet(w http.ResponseWriter) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failOps["prefs-get"] {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "boom"})
		return
	}
	writeJSON(w, http.StatusOK, s.prefs)
}

func (s *FakeService) handlePrefsPut(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var p model.Preferences
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "bad body"})
		return
	}
	s.LastPrefsPut = &p

	if s.failOps["prefs-put"] {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "boom"})
		return
	}

	s.prefs = p
	writeJSON(w, http.StatusOK, s.prefs)
}

// handleItem routes /{id}, /{id}/read, and /{id}/archive.
func (s *FakeService) handleItem(w http.ResponseWriter, r *http.Request, rest string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parts := strings.Split(rest, "/")
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	idx := s.indexOf(id)
	if idx < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "not found"})
		return
	}

	now := time.Now().UTC()
	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		if s.failOps["get"] {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "boom"})
			return
		}
		writeJSON(w, http.StatusOK, s.records[idx])

	case len(parts) == 1 && r.Method == http.MethodDelete:
		if s.failOps["delete"] {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "boom"})
			return
		}
		s.records = append(s.records[:idx], s.records[idx+1:]...)
		w.WriteHeader(http.StatusNoContent)

	case len(parts) == 2 && parts[1] == "read" && r.Method == http.MethodPatch:
		if s.failOps["read"] {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "boom"})
			return
		}
		s.markReadLocked(&s.records[idx], now)
		writeJSON(w, http.StatusOK, s.records[idx])

	case len(parts) == 2 && parts[1] == "archive" && r.Method == http.MethodPatch:
		if s.failOps["archive"] {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "boom"})
			return
		}
		s.records[idx].Status = model.StatusArchived
		if s.records[idx].ArchivedAt == nil {
			t := now
			s.records[idx].ArchivedAt = &t
		}
		writeJSON(w, http.StatusOK, s.records[idx])

	default:
		http.NotFound(w, r)
	}
}

func (s *FakeService) markReadLocked(n *model.Notification, now time.Time) {
	n.Status = model.StatusRead
	if n.ReadAt == nil {
		t := now
		n.ReadAt = &t
	}
}

func (s *FakeService) indexOf(id int64) int {
	for i := range s.records {
		if s.records[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *FakeService) unreadCount() int {
	count := 0
	for _, n := range s.records {
		if n.Status == model.StatusUnread {
			count++
		}
	}
	return count
}

func intParam(q url.Values, name string, fallback int) int {
	v := q.Get(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// Record builds a notification with sane defaults for tests.
func Record(id int64, status model.Status) model.Notification {
	return model.Notification{
		ID:        id,
		Type:      model.TypeAssignment,
		Priority:  model.PriorityNormal,
		Status:    status,
		Title:     "Assignment posted",
		Message:   "A new assignment is available.",
		CreatedAt: time.Now().UTC().Add(-time.Hour),
	}
}
