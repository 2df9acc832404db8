// Reply-template HTTP handlers.
//
// This file exposes REST endpoints for template resources:
//   - POST   /templates          (create)
//   - GET    /templates          (list)
//   - PUT    /templates/{id}     (rewrite)
//   - DELETE /templates/{id}     (delete)
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

// TemplateRequest is the JSON payload for creating or updating a template.
type TemplateRequest struct {
	// Name labels the template (1–255 chars).
	Name string `json:"name" binding:"required" example:"Thanks"`
	// Content is the reply body the template expands to.
	Content string `json:"content" binding:"required" example:"Thanks for reaching out!"`
}

// ListTemplatesResponse wraps the user's templates.
type ListTemplatesResponse struct {
	Templates []domain.ReplyTemplate `json:"templates"`
}

//
// Handlers
//

// CreateTemplate godoc
// @ID          createTemplate
// @Summary     Create a reply template
// @Description Creates a reusable reply body for the current user.
// @Tags        Templates
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.TemplateRequest  true  "Template payload"
//
// @Success     201  {object}  domain.ReplyTemplate
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /templates [post]
func (h *Handlers) CreateTemplate(c *gin.Context) {
	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	tpl, err := h.templateSvc.Create(c.Request.Context(), userID(c), req.Name, req.Content)
	switch {
	case err == nil:
		ok(c, http.StatusCreated, tpl)
	case errors.Is(err, services.ErrEmptyName), errors.Is(err, services.ErrEmptyContent):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	default:
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
	}
}

// ListTemplates godoc
// @ID          listTemplates
// @Summary     List reply templates
// @Description Returns the user's templates, newest first.
// @Tags        Templates
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
//
// @Success     200  {object} handlers.ListTemplatesResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /templates [get]
func (h *Handlers) ListTemplates(c *gin.Context) {
	templates, err := h.templateSvc.List(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	if templates == nil {
		templates = []domain.ReplyTemplate{}
	}
	ok(c, http.StatusOK, ListTemplatesResponse{Templates: templates})
}

// UpdateTemplate godoc
// @ID          updateTemplate
// @Summary     Update a reply template
// @Description Rewrites an owned template's name and content.
// @Tags        Templates
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Template ID (UUID)"     format(uuid)
// @Param       body       body    handlers.TemplateRequest  true  "Template payload"
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Template not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /templates/{id} [put]
func (h *Handlers) UpdateTemplate(c *gin.Context) {
	templateID := c.Param("id")
	if _, err := uuid.Parse(templateID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "template id must be a UUID")
		return
	}

	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	err := h.templateSvc.Update(c.Request.Context(), userID(c), templateID, req.Name, req.Content)
	switch {
	case err == nil:
		noContent(c)
	case errors.Is(err, services.ErrEmptyName), errors.Is(err, services.ErrEmptyContent):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrTemplateNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "template not found")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}

// DeleteTemplate godoc
// @ID          deleteTemplate
// @Summary     Delete a reply template
// @Description Removes an owned template. Rules referencing it stay in place and fall back to their custom text or the default reply.
// @Tags        Templates
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Template ID (UUID)"     format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Template not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /templates/{id} [delete]
func (h *Handlers) DeleteTemplate(c *gin.Context) {
	templateID := c.Param("id")
	if _, err := uuid.Parse(templateID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "template id must be a UUID")
		return
	}

	err := h.templateSvc.Delete(c.Request.Context(), userID(c), templateID)
	switch {
	case err == nil:
		noContent(c)
	case errors.Is(err, services.ErrTemplateNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "template not found")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}
