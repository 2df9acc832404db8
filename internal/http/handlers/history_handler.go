// Reply-history HTTP handlers.
//
// This file exposes the read surface over the reply log:
//   - GET /history    (list, paginated, status-filterable)
//   - GET /stats      (dashboard aggregate snapshot)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-threads-autoreply/internal/domain"
	"github.com/tbourn/go-threads-autoreply/internal/services"
	"github.com/tbourn/go-threads-autoreply/internal/utils"
)

// ListHistoryResponse wraps a page of history rows and pagination information.
type ListHistoryResponse struct {
	History    []domain.ReplyHistory `json:"history"`
	Pagination Pagination            `json:"pagination"`
}

// ListHistory godoc
// @ID          listHistory
// @Summary     List reply history (paginated)
// @Description Returns a page of the user's reply history, newest first. The status filter accepts pending, sent, failed, or all.
// @Tags        History
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"          example(user123)
// @Param       status     query   string  false "Status filter"                   Enums(pending, sent, failed, all)
// @Param       page       query   int     false "Page number"                     minimum(1) default(1)
// @Param       page_size  query   int     false "Items per page"                  minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListHistoryResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /history [get]
func (h *Handlers) ListHistory(c *gin.Context) {
	page, pageSize := clampPagination(c)

	rows, total, err := h.historySvc.ListPage(c.Request.Context(), userID(c), c.Query("status"), page, pageSize)
	if err != nil {
		if errors.Is(err, services.ErrInvalidStatus) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "status must be one of: pending, sent, failed, all")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	if rows == nil {
		rows = []domain.ReplyHistory{}
	}

	totalPages := utils.TotalPages(total, pageSize)
	ok(c, http.StatusOK, ListHistoryResponse{
		History: rows,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// GetStats godoc
// @ID          getStats
// @Summary     Dashboard statistics
// @Description Returns aggregate counts for the current user: connected accounts, active rules, replies by status, and replies sent today (local midnight boundary).
// @Tags        History
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
//
// @Success     200  {object} repo.DashboardStats
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /stats [get]
func (h *Handlers) GetStats(c *gin.Context) {
	stats, err := h.historySvc.Stats(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, stats)
}
