package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-threads-autoreply/internal/domain"
	"github.com/tbourn/go-threads-autoreply/internal/services"
	"github.com/tbourn/go-threads-autoreply/internal/threads"
)

func oauthRouter(h *Handlers) *gin.Engine {
	r := gin.New()
	r.GET("/auth/threads", h.ThreadsAuthRedirect)
	r.GET("/auth/threads/callback", h.ThreadsAuthCallback)
	return r
}

func TestThreadsAuthRedirect(t *testing.T) {
	s := newStubSet()
	s.accounts.authorize = "https://threads.net/oauth/authorize?client_id=x&state=u1"
	r := oauthRouter(newTestHandlers(s))

	w := perform(r, http.MethodGet, "/auth/threads", "", map[string]string{"X-User-ID": "u1"})
	if w.Code != http.StatusFound {
		t.Fatalf("status = %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != s.accounts.authorize {
		t.Fatalf("Location = %q", loc)
	}
	if s.accounts.gotUser != "u1" {
		t.Fatalf("state user = %q", s.accounts.gotUser)
	}
}

func TestThreadsAuthCallback(t *testing.T) {
	cases := []struct {
		name       string
		target     string
		connectErr error
		want       string
	}{
		{"provider denial", "/auth/threads/callback?error=access_denied", nil, "http://app.local/?error=threads_auth_failed"},
		{"missing code", "/auth/threads/callback?state=u1", nil, "http://app.local/?error=missing_code"},
		{"missing state", "/auth/threads/callback?code=abc", nil, "http://app.local/?error=unauthorized"},
		{"success", "/auth/threads/callback?code=abc&state=u1", nil, "http://app.local/?success=threads_connected"},
		{"blank code rejected downstream", "/auth/threads/callback?code=abc&state=u1", services.ErrMissingCode, "http://app.local/?error=missing_code"},
		{"graph api rejection", "/auth/threads/callback?code=abc&state=u1", &threads.APIError{StatusCode: 400, Status: "400 Bad Request", Body: "bad code"}, "http://app.local/?error=oauth_failed"},
		{"storage failure", "/auth/threads/callback?code=abc&state=u1", errors.New("db down"), "http://app.local/?error=database_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newStubSet()
			s.accounts.connectErr = tc.connectErr
			if tc.connectErr == nil {
				s.accounts.connected = &domain.ThreadsAccount{ID: testUUID, UserID: "u1"}
			}
			r := oauthRouter(newTestHandlers(s))

			w := perform(r, http.MethodGet, tc.target, "", nil)
			if w.Code != http.StatusFound {
				t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
			}
			if loc := w.Header().Get("Location"); loc != tc.want {
				t.Fatalf("Location = %q, want %q", loc, tc.want)
			}
		})
	}
}

func TestThreadsAuthCallback_ForwardsCodeAndState(t *testing.T) {
	s := newStubSet()
	s.accounts.connected = &domain.ThreadsAccount{ID: testUUID, UserID: "u1"}
	r := oauthRouter(newTestHandlers(s))

	perform(r, http.MethodGet, "/auth/threads/callback?code=the-code&state=u-42", "", nil)
	if s.accounts.gotUser != "u-42" || s.accounts.gotCode != "the-code" {
		t.Fatalf("exchange inputs: user=%q code=%q", s.accounts.gotUser, s.accounts.gotCode)
	}
}
