package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-threads-autoreply/internal/domain"
	"github.com/tbourn/go-threads-autoreply/internal/repo"
	"github.com/tbourn/go-threads-autoreply/internal/services"
)

func historyRouter(h *Handlers) *gin.Engine {
	r := gin.New()
	r.GET("/history", h.ListHistory)
	r.GET("/stats", h.GetStats)
	return r
}

func TestListHistory(t *testing.T) {
	s := newStubSet()
	s.history.rows = []domain.ReplyHistory{
		{ID: "h-1", OriginalPostID: "p-1", Status: domain.StatusSent},
	}
	s.history.total = 45
	r := historyRouter(newTestHandlers(s))

	w := perform(r, http.MethodGet, "/history?status=sent&page=2&page_size=20", "", map[string]string{"X-User-ID": "u1"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if s.history.gotUser != "u1" || s.history.gotStatus != "sent" || s.history.gotPage != 2 || s.history.gotPageSize != 20 {
		t.Fatalf("query not forwarded: %+v", s.history)
	}

	var resp ListHistoryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	p := resp.Pagination
	if p.Page != 2 || p.PageSize != 20 || p.Total != 45 || p.TotalPages != 3 || !p.HasNext {
		t.Fatalf("pagination math: %+v", p)
	}
	if len(resp.History) != 1 || resp.History[0].OriginalPostID != "p-1" {
		t.Fatalf("unexpected rows: %+v", resp.History)
	}
}

func TestListHistory_LastPageHasNoNext(t *testing.T) {
	s := newStubSet()
	s.history.total = 45
	r := historyRouter(newTestHandlers(s))

	w := perform(r, http.MethodGet, "/history?page=3&page_size=20", "", nil)
	var resp ListHistoryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Pagination.HasNext {
		t.Fatalf("page 3 of 3 must not have a next page: %+v", resp.Pagination)
	}
	mustContain(t, w.Body.String(), `"history":[]`)
}

func TestListHistory_PaginationClamping(t *testing.T) {
	cases := []struct {
		name         string
		query        string
		wantPage     int
		wantPageSize int
	}{
		{"defaults", "", 1, 20},
		{"zero and negative", "?page=0&page_size=-5", 1, 1},
		{"oversized page size", "?page_size=500", 1, 100},
		{"garbage values", "?page=two&page_size=many", 1, 20},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newStubSet()
			r := historyRouter(newTestHandlers(s))
			w := perform(r, http.MethodGet, "/history"+tc.query, "", nil)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d", w.Code)
			}
			if s.history.gotPage != tc.wantPage || s.history.gotPageSize != tc.wantPageSize {
				t.Fatalf("clamped to page=%d size=%d, want page=%d size=%d",
					s.history.gotPage, s.history.gotPageSize, tc.wantPage, tc.wantPageSize)
			}
		})
	}
}

func TestListHistory_InvalidStatus(t *testing.T) {
	s := newStubSet()
	s.history.listErr = services.ErrInvalidStatus
	r := historyRouter(newTestHandlers(s))

	w := perform(r, http.MethodGet, "/history?status=bogus", "", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	mustContain(t, w.Body.String(), "status must be one of: pending, sent, failed, all")
}

func TestListHistory_StorageFailure(t *testing.T) {
	s := newStubSet()
	s.history.listErr = errors.New("db down")
	r := historyRouter(newTestHandlers(s))

	w := perform(r, http.MethodGet, "/history", "", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	mustContain(t, w.Body.String(), ErrCodeListFailed)
}

func TestGetStats(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		s := newStubSet()
		s.history.stats = &repo.DashboardStats{
			ConnectedAccounts: 2,
			ActiveRules:       3,
			SentReplies:       10,
			SentToday:         1,
		}
		r := historyRouter(newTestHandlers(s))

		w := perform(r, http.MethodGet, "/stats", "", map[string]string{"X-User-ID": "u1"})
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		if s.history.gotUser != "u1" {
			t.Fatalf("user = %q", s.history.gotUser)
		}
		var got repo.DashboardStats
		if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got != *s.history.stats {
			t.Fatalf("stats = %+v", got)
		}
	})

	t.Run("storage failure", func(t *testing.T) {
		s := newStubSet()
		s.history.statsErr = errors.New("db down")
		r := historyRouter(newTestHandlers(s))
		w := perform(r, http.MethodGet, "/stats", "", nil)
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d", w.Code)
		}
	})
}
