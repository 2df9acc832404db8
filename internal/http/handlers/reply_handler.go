// Manual-reply HTTP handler.
//
// This file exposes the immediate-send path:
//   - POST /replies    (reply to a post right now, bypassing rules and quotas)
//
// The endpoint supports Idempotency-Key: when the middleware flags a replay,
// the previously logged reply is returned instead of delivering a second one.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tbourn/go-threads-autoreply/internal/http/middleware"
	"github.com/tbourn/go-threads-autoreply/internal/services"
)

// SendReplyRequest is the JSON payload for sending a manual reply.
type SendReplyRequest struct {
	// ThreadsAccountID is the connected account to reply from.
	ThreadsAccountID string `json:"threads_account_id" binding:"required" format:"uuid"`
	// PostID is the Threads post being replied to.
	PostID string `json:"post_id" binding:"required" example:"17912345678901234"`
	// ReplyText is the reply body.
	ReplyText string `json:"reply_text" binding:"required" example:"Thanks for your message!"`
}

// SendReply godoc
// @ID          sendReply
// @Summary     Send a reply immediately
// @Description Delivers a reply to a post from a connected account and logs it to history. Supports Idempotency-Key for safe retries.
// @Tags        Replies
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  false "User ID (demo header)"            example(user123)
// @Param       Idempotency-Key  header  string  false "Safe-retry key for this request"
// @Param       body             body    handlers.SendReplyRequest  true  "Reply payload"
//
// @Success     200  {object}  domain.ReplyHistory  "Replayed previous result"
// @Success     201  {object}  domain.ReplyHistory
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Account not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Token expired"
// @Failure     502  {object}  handlers.ErrorResponse  "Threads API rejected the reply"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /replies [post]
func (h *Handlers) SendReply(c *gin.Context) {
	var req SendReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if _, err := uuid.Parse(req.ThreadsAccountID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "threads_account_id must be a UUID")
		return
	}

	ctx := c.Request.Context()
	uid := userID(c)
	key, hasKey := middleware.GetIdempotencyKey(c)

	// Serve a prior result when one was recorded for this key. The account id
	// rides in the body, so the lookup lives here rather than in middleware; a
	// failed lookup falls through to a fresh send rather than blocking.
	if hasKey {
		if row, status, err := h.replySvc.Replay(ctx, uid, req.ThreadsAccountID, key); err == nil {
			if status < 200 || status > 299 {
				status = http.StatusOK
			}
			ok(c, status, row)
			return
		}
	}

	rec, err := h.replySvc.Send(ctx, uid, req.ThreadsAccountID, req.PostID, req.ReplyText)
	switch {
	case err == nil:
		// Best effort: a lost idempotency record only costs replay detection.
		if hasKey {
			_ = h.replySvc.RecordIdempotency(ctx, uid, req.ThreadsAccountID, key, rec.ID, http.StatusCreated, h.idempotencyTTL)
		}
		ok(c, http.StatusCreated, rec)
	case errors.Is(err, services.ErrPostRequired), errors.Is(err, services.ErrEmptyReply):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrAccountNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "account not found")
	case errors.Is(err, services.ErrTokenExpired):
		fail(c, http.StatusConflict, ErrCodeTokenExpired, "access token expired; reconnect the account")
	case isThreadsAPIError(err):
		fail(c, http.StatusBadGateway, ErrCodeReplyFailed, err.Error())
	default:
		fail(c, http.StatusInternalServerError, ErrCodeReplyFailed, err.Error())
	}
}
