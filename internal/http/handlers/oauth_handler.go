// Threads OAuth HTTP handlers.
//
// This file exposes the two endpoints of the account-connection flow:
//   - GET /auth/threads           (redirect the browser to the Threads consent page)
//   - GET /auth/threads/callback  (complete the code exchange, then bounce back to the app)
//
// The callback never renders JSON: whatever happens, the browser is redirected
// back to the frontend with a success or error flag in the query string. The
// initiating user id rides in the OAuth state parameter.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-threads-autoreply/internal/services"
	"github.com/tbourn/go-threads-autoreply/internal/threads"
)

// Callback redirect flags appended to the frontend URL.
const (
	callbackSuccess       = "threads_connected"
	callbackErrAuthFailed = "threads_auth_failed"
	callbackErrNoCode     = "missing_code"
	callbackErrNoUser     = "unauthorized"
	callbackErrOAuth      = "oauth_failed"
	callbackErrDatabase   = "database_error"
)

// ThreadsAuthRedirect godoc
// @ID          threadsAuthRedirect
// @Summary     Start the Threads OAuth flow
// @Description Redirects the browser to the Threads authorization page. The current user id is carried in the OAuth state parameter.
// @Tags        Auth
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
//
// @Success     302  {string} string "Redirect to threads.net"
// @Router      /auth/threads [get]
func (h *Handlers) ThreadsAuthRedirect(c *gin.Context) {
	c.Redirect(http.StatusFound, h.accountSvc.AuthorizeURL(userID(c)))
}

// ThreadsAuthCallback godoc
// @ID          threadsAuthCallback
// @Summary     Threads OAuth callback
// @Description Completes the authorization-code exchange and redirects back to the frontend with a success or error flag.
// @Tags        Auth
//
// @Param       code   query  string  false "Authorization code"
// @Param       state  query  string  false "User ID from the authorize redirect"
// @Param       error  query  string  false "Provider-reported denial"
//
// @Success     302  {string} string "Redirect to the frontend"
// @Router      /auth/threads/callback [get]
func (h *Handlers) ThreadsAuthCallback(c *gin.Context) {
	if c.Query("error") != "" {
		h.redirectBack(c, "error", callbackErrAuthFailed)
		return
	}
	code := c.Query("code")
	if code == "" {
		h.redirectBack(c, "error", callbackErrNoCode)
		return
	}
	uid := c.Query("state")
	if uid == "" {
		h.redirectBack(c, "error", callbackErrNoUser)
		return
	}

	_, err := h.accountSvc.Connect(c.Request.Context(), uid, code)
	switch {
	case err == nil:
		h.redirectBack(c, "success", callbackSuccess)
	case errors.Is(err, services.ErrMissingCode):
		h.redirectBack(c, "error", callbackErrNoCode)
	case isThreadsAPIError(err):
		h.redirectBack(c, "error", callbackErrOAuth)
	default:
		h.redirectBack(c, "error", callbackErrDatabase)
	}
}

// redirectBack sends the browser to the frontend with one query flag set.
func (h *Handlers) redirectBack(c *gin.Context, key, value string) {
	c.Redirect(http.StatusFound, h.appURL+"/?"+key+"="+value)
}

// isThreadsAPIError reports whether err originated as a graph API rejection
// (as opposed to a local persistence failure).
func isThreadsAPIError(err error) bool {
	var apiErr *threads.APIError
	return errors.As(err, &apiErr)
}
