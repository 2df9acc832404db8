// Auto-reply rule HTTP handlers.
//
// This file exposes REST endpoints for rule resources:
//   - POST   /rules          (create)
//   - GET    /rules          (list)
//   - PUT    /rules/{id}     (partial update)
//   - DELETE /rules/{id}     (delete)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tbourn/go-threads-autoreply/internal/domain"
	"github.com/tbourn/go-threads-autoreply/internal/services"
)

//
// DTOs
//

// CreateRuleRequest is the JSON payload for creating an auto-reply rule.
// Exactly one of reply_template_id and custom_reply_text must be set.
type CreateRuleRequest struct {
	// Name labels the rule (1–255 chars).
	Name string `json:"name" binding:"required" example:"Pricing questions"`
	// TriggerKeywords are matched case-insensitively against post text.
	TriggerKeywords []string `json:"trigger_keywords" binding:"required" example:"price,cost"`
	// ReplyTemplateID references an owned template.
	ReplyTemplateID *string `json:"reply_template_id,omitempty"`
	// CustomReplyText is an inline reply body.
	CustomReplyText *string `json:"custom_reply_text,omitempty"`
	// DelayMinutes postpones the reply after a match (>= 0).
	DelayMinutes int `json:"delay_minutes" example:"5"`
	// MaxRepliesPerDay caps rule sends per local day (default 50).
	MaxRepliesPerDay int `json:"max_replies_per_day" example:"50"`
	// ThreadsAccountID is the connected account the rule watches.
	ThreadsAccountID string `json:"threads_account_id" binding:"required" format:"uuid"`
}

// UpdateRuleRequest is the JSON payload for partially updating a rule.
// Absent fields are left untouched; the reply source cannot be changed.
type UpdateRuleRequest struct {
	Name             *string  `json:"name,omitempty"`
	TriggerKeywords  []string `json:"trigger_keywords,omitempty"`
	DelayMinutes     *int     `json:"delay_minutes,omitempty"`
	MaxRepliesPerDay *int     `json:"max_replies_per_day,omitempty"`
	IsActive         *bool    `json:"is_active,omitempty"`
}

// ListRulesResponse wraps the user's rules.
type ListRulesResponse struct {
	Rules []domain.AutoReplyRule `json:"rules"`
}

//
// Handlers
//

// CreateRule godoc
// @ID          createRule
// @Summary     Create an auto-reply rule
// @Description Creates a keyword-triggered rule bound to a connected account. Exactly one of reply_template_id and custom_reply_text must be set.
// @Tags        Rules
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.CreateRuleRequest  true  "Create rule payload"
//
// @Success     201  {object}  domain.AutoReplyRule
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Account or template not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /rules [post]
func (h *Handlers) CreateRule(c *gin.Context) {
	var req CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	rule, err := h.ruleSvc.Create(c.Request.Context(), userID(c), services.CreateRuleInput{
		Name:             req.Name,
		TriggerKeywords:  req.TriggerKeywords,
		ReplyTemplateID:  req.ReplyTemplateID,
		CustomReplyText:  req.CustomReplyText,
		DelayMinutes:     req.DelayMinutes,
		MaxRepliesPerDay: req.MaxRepliesPerDay,
		ThreadsAccountID: req.ThreadsAccountID,
	})
	switch {
	case err == nil:
		ok(c, http.StatusCreated, rule)
	case errors.Is(err, services.ErrEmptyName),
		errors.Is(err, services.ErrNoKeywords),
		errors.Is(err, services.ErrInvalidReplySource),
		errors.Is(err, services.ErrInvalidDelay),
		errors.Is(err, services.ErrInvalidDailyCap):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrAccountNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "account not found")
	case errors.Is(err, services.ErrTemplateNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "template not found")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
	}
}

// ListRules godoc
// @ID          listRules
// @Summary     List auto-reply rules
// @Description Returns the user's rules with account and template preloaded.
// @Tags        Rules
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
//
// @Success     200  {object} handlers.ListRulesResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /rules [get]
func (h *Handlers) ListRules(c *gin.Context) {
	rules, err := h.ruleSvc.List(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	if rules == nil {
		rules = []domain.AutoReplyRule{}
	}
	ok(c, http.StatusOK, ListRulesResponse{Rules: rules})
}

// UpdateRule godoc
// @ID          updateRule
// @Summary     Update an auto-reply rule
// @Description Partially updates an owned rule. Absent fields are untouched; the reply source cannot be changed after creation.
// @Tags        Rules
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Rule ID (UUID)"         format(uuid)
// @Param       body       body    handlers.UpdateRuleRequest  true  "Field changes"
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Rule not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /rules/{id} [put]
func (h *Handlers) UpdateRule(c *gin.Context) {
	ruleID := c.Param("id")
	if _, err := uuid.Parse(ruleID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "rule id must be a UUID")
		return
	}

	var req UpdateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	err := h.ruleSvc.Update(c.Request.Context(), userID(c), ruleID, services.UpdateRuleInput{
		Name:             req.Name,
		TriggerKeywords:  req.TriggerKeywords,
		DelayMinutes:     req.DelayMinutes,
		MaxRepliesPerDay: req.MaxRepliesPerDay,
		IsActive:         req.IsActive,
	})
	switch {
	case err == nil:
		noContent(c)
	case errors.Is(err, services.ErrEmptyName),
		errors.Is(err, services.ErrNoKeywords),
		errors.Is(err, services.ErrInvalidDelay),
		errors.Is(err, services.ErrInvalidDailyCap):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrRuleNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "rule not found")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}

// DeleteRule godoc
// @ID          deleteRule
// @Summary     Delete an auto-reply rule
// @Description Removes an owned rule. History rows keep their rule reference for audit.
// @Tags        Rules
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Rule ID (UUID)"         format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Rule not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /rules/{id} [delete]
func (h *Handlers) DeleteRule(c *gin.Context) {
	ruleID := c.Param("id")
	if _, err := uuid.Parse(ruleID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "rule id must be a UUID")
		return
	}

	err := h.ruleSvc.Delete(c.Request.Context(), userID(c), ruleID)
	switch {
	case err == nil:
		noContent(c)
	case errors.Is(err, services.ErrRuleNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "rule not found")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}
