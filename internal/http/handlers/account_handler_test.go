package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-threads-autoreply/internal/domain"
	"github.com/tbourn/go-threads-autoreply/internal/services"
)

const testUUID = "0b9f0bde-46b6-4ec1-a2d4-1c2c53d1ab2f"

func accountRouter(h *Handlers) *gin.Engine {
	r := gin.New()
	r.GET("/accounts", h.ListAccounts)
	r.DELETE("/accounts/:id", h.DisconnectAccount)
	r.POST("/accounts/:id/refresh", h.RefreshAccountToken)
	return r
}

func TestListAccounts(t *testing.T) {
	s := newStubSet()
	s.accounts.accounts = []domain.ThreadsAccount{
		{ID: "a-1", UserID: "u1", Username: "acme", IsActive: true},
	}
	r := accountRouter(newTestHandlers(s))

	w := perform(r, http.MethodGet, "/accounts", "", map[string]string{"X-User-ID": "u1"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if s.accounts.gotUser != "u1" {
		t.Fatalf("user id not taken from header: %q", s.accounts.gotUser)
	}

	var resp ListAccountsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Accounts) != 1 || resp.Accounts[0].Username != "acme" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	// The access token never leaves the API.
	mustNotContain(t, w.Body.String(), "access_token")
}

func TestListAccounts_EmptyIsArrayNotNull(t *testing.T) {
	s := newStubSet()
	r := accountRouter(newTestHandlers(s))

	w := perform(r, http.MethodGet, "/accounts", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	mustContain(t, w.Body.String(), `"accounts":[]`)
	if s.accounts.gotUser != "demo-user" {
		t.Fatalf("expected demo-user fallback, got %q", s.accounts.gotUser)
	}
}

func TestDisconnectAccount(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		s := newStubSet()
		r := accountRouter(newTestHandlers(s))
		w := perform(r, http.MethodDelete, "/accounts/"+testUUID, "", nil)
		if w.Code != http.StatusNoContent {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		if s.accounts.gotAccountID != testUUID {
			t.Fatalf("account id not forwarded: %q", s.accounts.gotAccountID)
		}
	})

	t.Run("malformed id", func(t *testing.T) {
		s := newStubSet()
		r := accountRouter(newTestHandlers(s))
		w := perform(r, http.MethodDelete, "/accounts/not-a-uuid", "", nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", w.Code)
		}
		mustContain(t, w.Body.String(), ErrCodeBadRequest)
	})

	t.Run("not found", func(t *testing.T) {
		s := newStubSet()
		s.accounts.disconnectErr = services.ErrAccountNotFound
		r := accountRouter(newTestHandlers(s))
		w := perform(r, http.MethodDelete, "/accounts/"+testUUID, "", nil)
		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d", w.Code)
		}
	})

	t.Run("internal error", func(t *testing.T) {
		s := newStubSet()
		s.accounts.disconnectErr = errors.New("db down")
		r := accountRouter(newTestHandlers(s))
		w := perform(r, http.MethodDelete, "/accounts/"+testUUID, "", nil)
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d", w.Code)
		}
	})
}

func TestRefreshAccountToken(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		s := newStubSet()
		s.accounts.refreshed = &domain.ThreadsAccount{
			ID: testUUID, Username: "acme",
			TokenExpiresAt: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		}
		r := accountRouter(newTestHandlers(s))
		w := perform(r, http.MethodPost, "/accounts/"+testUUID+"/refresh", "", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		var acc domain.ThreadsAccount
		if err := json.Unmarshal(w.Body.Bytes(), &acc); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if acc.ID != testUUID || acc.Username != "acme" {
			t.Fatalf("unexpected account: %+v", acc)
		}
	})

	t.Run("expired token conflicts", func(t *testing.T) {
		s := newStubSet()
		s.accounts.refreshErr = services.ErrTokenExpired
		r := accountRouter(newTestHandlers(s))
		w := perform(r, http.MethodPost, "/accounts/"+testUUID+"/refresh", "", nil)
		if w.Code != http.StatusConflict {
			t.Fatalf("status = %d", w.Code)
		}
		mustContain(t, w.Body.String(), ErrCodeTokenExpired)
	})

	t.Run("not found", func(t *testing.T) {
		s := newStubSet()
		s.accounts.refreshErr = services.ErrAccountNotFound
		r := accountRouter(newTestHandlers(s))
		w := perform(r, http.MethodPost, "/accounts/"+testUUID+"/refresh", "", nil)
		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d", w.Code)
		}
	})

	t.Run("malformed id", func(t *testing.T) {
		s := newStubSet()
		r := accountRouter(newTestHandlers(s))
		w := perform(r, http.MethodPost, "/accounts/xyz/refresh", "", nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", w.Code)
		}
	})
}
