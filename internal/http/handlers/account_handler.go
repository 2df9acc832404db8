// Connected-account HTTP handlers.
//
// This file exposes REST endpoints for Threads account resources:
//   - GET    /accounts                    (list connected accounts)
//   - DELETE /accounts/{id}               (disconnect)
//   - POST   /accounts/{id}/refresh       (refresh long-lived token)
//
// It also hosts the service contracts consumed by every handler in this
// package, plus the shared Handlers wiring. Handlers are transport-thin: they
// validate input, call application services, and translate results into HTTP
// responses.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tbourn/go-threads-autoreply/internal/domain"
	"github.com/tbourn/go-threads-autoreply/internal/repo"
	"github.com/tbourn/go-threads-autoreply/internal/services"
	"github.com/tbourn/go-threads-autoreply/internal/utils"
)

//
// Service contracts (context-aware)
//

// AccountService defines connected-account lifecycle operations consumed by
// HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type AccountService interface {
	// AuthorizeURL returns the OAuth redirect target carrying userID as state.
	AuthorizeURL(userID string) string
	// Connect completes the OAuth code exchange and upserts the account.
	Connect(ctx context.Context, userID, code string) (*domain.ThreadsAccount, error)
	// List returns the user's connected accounts.
	List(ctx context.Context, userID string) ([]domain.ThreadsAccount, error)
	// Disconnect soft-removes an owned account.
	Disconnect(ctx context.Context, userID, accountID string) error
	// RefreshToken refreshes an account's long-lived token.
	RefreshToken(ctx context.Context, userID, accountID string) (*domain.ThreadsAccount, error)
}

// RuleService defines auto-reply rule operations consumed by HTTP handlers.
type RuleService interface {
	// Create validates and persists a new rule owned by userID.
	Create(ctx context.Context, userID string, in services.CreateRuleInput) (*domain.AutoReplyRule, error)
	// List returns the user's rules with associations preloaded.
	List(ctx context.Context, userID string) ([]domain.AutoReplyRule, error)
	// Update applies partial field changes to an owned rule.
	Update(ctx context.Context, userID, ruleID string, in services.UpdateRuleInput) error
	// Delete removes an owned rule.
	Delete(ctx context.Context, userID, ruleID string) error
}

// TemplateService defines reply-template operations consumed by HTTP handlers.
type TemplateService interface {
	// Create persists a new template owned by userID.
	Create(ctx context.Context, userID, name, content string) (*domain.ReplyTemplate, error)
	// List returns the user's templates.
	List(ctx context.Context, userID string) ([]domain.ReplyTemplate, error)
	// Update rewrites an owned template's name and content.
	Update(ctx context.Context, userID, templateID, name, content string) error
	// Delete removes an owned template.
	Delete(ctx context.Context, userID, templateID string) error
}

// HistoryService defines the read surface over reply history.
type HistoryService interface {
	// ListPage returns a page of history rows and the total count.
	ListPage(ctx context.Context, userID, status string, page, pageSize int) ([]domain.ReplyHistory, int64, error)
	// Stats returns the dashboard aggregate snapshot.
	Stats(ctx context.Context, userID string) (*repo.DashboardStats, error)
}

// ReplyService defines the manual-reply operation consumed by HTTP handlers.
type ReplyService interface {
	// Send delivers a reply immediately and logs it to history.
	Send(ctx context.Context, userID, accountID, postID, replyText string) (*domain.ReplyHistory, error)
	// Replay returns the previously recorded reply for an idempotency key.
	Replay(ctx context.Context, userID, accountID, key string) (*domain.ReplyHistory, int, error)
	// RecordIdempotency persists a replay record for a completed send.
	RecordIdempotency(ctx context.Context, userID, accountID, key, replyID string, status int, ttl time.Duration) error
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for accounts, rules, templates, history, and
// manual replies. It depends on abstract service interfaces to keep transport
// concerns separate from business logic.
type Handlers struct {
	accountSvc  AccountService
	ruleSvc     RuleService
	templateSvc TemplateService
	historySvc  HistoryService
	replySvc    ReplyService

	// appURL is the frontend base the OAuth callback redirects back to.
	appURL string
	// idempotencyTTL bounds how long a recorded manual-reply key is replayable.
	idempotencyTTL time.Duration
}

// New constructs and returns a Handlers instance bound to the given services.
// appURL is the frontend base URL used for OAuth callback redirects, and
// idempotencyTTL the validity window of manual-reply idempotency keys.
func New(accountSvc AccountService, ruleSvc RuleService, templateSvc TemplateService, historySvc HistoryService, replySvc ReplyService, appURL string, idempotencyTTL time.Duration) *Handlers {
	return &Handlers{
		accountSvc:     accountSvc,
		ruleSvc:        ruleSvc,
		templateSvc:    templateSvc,
		historySvc:     historySvc,
		replySvc:       replySvc,
		appURL:         strings.TrimRight(appURL, "/"),
		idempotencyTTL: idempotencyTTL,
	}
}

// userID extracts the authenticated user id from Gin context (set by upstream
// middleware). If absent, it falls back to "X-User-ID" header (tests use it),
// and finally to "demo-user". It never touches c.Request if it's nil.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return "demo-user"
}

//
// DTOs
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListAccountsResponse wraps the user's connected accounts.
type ListAccountsResponse struct {
	Accounts []domain.ThreadsAccount `json:"accounts"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.ClampPage(c.Query("page"))
	pageSize = utils.ClampPageSize(c.Query("page_size"), defaultPageSize, maxPageSize)
	return
}

//
// Handlers
//

// ListAccounts godoc
// @ID          listAccounts
// @Summary     List connected Threads accounts
// @Description Returns the current user's connected Threads accounts, newest first.
// @Tags        Accounts
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
//
// @Success     200  {object}  handlers.ListAccountsResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /accounts [get]
func (h *Handlers) ListAccounts(c *gin.Context) {
	accounts, err := h.accountSvc.List(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	if accounts == nil {
		accounts = []domain.ThreadsAccount{}
	}
	ok(c, http.StatusOK, ListAccountsResponse{Accounts: accounts})
}

// DisconnectAccount godoc
// @ID          disconnectAccount
// @Summary     Disconnect a Threads account
// @Description Soft-removes a connected account. Rules referencing it stop matching; history is kept.
// @Tags        Accounts
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Account ID (UUID)"      format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Account not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /accounts/{id} [delete]
func (h *Handlers) DisconnectAccount(c *gin.Context) {
	accountID := c.Param("id")
	if _, err := uuid.Parse(accountID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "account id must be a UUID")
		return
	}

	err := h.accountSvc.Disconnect(c.Request.Context(), userID(c), accountID)
	switch {
	case err == nil:
		noContent(c)
	case errors.Is(err, services.ErrAccountNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "account not found")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}

// RefreshAccountToken godoc
// @ID          refreshAccountToken
// @Summary     Refresh an account's access token
// @Description Refreshes the long-lived Threads token, restarting its 60-day validity window. An already-expired token cannot be refreshed; reconnect instead.
// @Tags        Accounts
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Account ID (UUID)"      format(uuid)
//
// @Success     200  {object} domain.ThreadsAccount
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Account not found"
// @Failure     409  {object} handlers.ErrorResponse "Token already expired"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /accounts/{id}/refresh [post]
func (h *Handlers) RefreshAccountToken(c *gin.Context) {
	accountID := c.Param("id")
	if _, err := uuid.Parse(accountID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "account id must be a UUID")
		return
	}

	account, err := h.accountSvc.RefreshToken(c.Request.Context(), userID(c), accountID)
	switch {
	case err == nil:
		ok(c, http.StatusOK, account)
	case errors.Is(err, services.ErrAccountNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "account not found")
	case errors.Is(err, services.ErrTokenExpired):
		fail(c, http.StatusConflict, ErrCodeTokenExpired, "access token already expired; reconnect the account")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}
