// Background-job trigger HTTP handlers.
//
// This file exposes the endpoints an external scheduler (cron, Cloud
// Scheduler, a Vercel cron) hits to drive the pipeline:
//   - GET|POST /jobs/monitor    (scan posts, schedule pending replies)
//   - GET|POST /jobs/process    (send due pending replies)
//   - GET|POST /jobs/cleanup    (retire old history rows)
//
// Both verbs are accepted because schedulers differ in what they can emit.
// When a job token is configured, requests must carry it as a bearer token.
package handlers

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-threads-autoreply/internal/services"
)

//
// Job contracts
//

// MonitorRunner executes one monitoring sweep.
type MonitorRunner interface {
	Run(ctx context.Context) error
}

// ProcessorRunner executes one send sweep over due pending replies.
type ProcessorRunner interface {
	Run(ctx context.Context) error
}

// CleanupRunner executes one retention sweep over reply history.
type CleanupRunner interface {
	Run(ctx context.Context) (services.CleanupResult, error)
}

// JobHandlers groups the scheduler-facing trigger endpoints. Token is the
// optional shared secret; when empty the endpoints are open (development).
type JobHandlers struct {
	Monitor   MonitorRunner
	Processor ProcessorRunner
	Cleanup   CleanupRunner
	Token     string
}

// JobResponse is the envelope returned by every job trigger.
type JobResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// authorized checks the bearer token when one is configured.
func (h *JobHandlers) authorized(c *gin.Context) bool {
	if h.Token == "" {
		return true
	}
	auth := c.GetHeader("Authorization")
	got := strings.TrimPrefix(auth, "Bearer ")
	if got == auth || subtle.ConstantTimeCompare([]byte(got), []byte(h.Token)) != 1 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, JobResponse{Success: false, Error: "unauthorized"})
		return false
	}
	return true
}

// RunMonitor godoc
// @ID          runMonitor
// @Summary     Trigger the post monitor
// @Description Scans each active rule's account for recent posts and schedules pending replies for keyword matches.
// @Tags        Jobs
// @Produce     json
//
// @Param       Authorization  header  string  false "Bearer job token (when configured)"
//
// @Success     200  {object}  handlers.JobResponse
// @Failure     401  {object}  handlers.JobResponse  "Missing or wrong job token"
// @Failure     500  {object}  handlers.JobResponse  "Sweep could not start"
// @Router      /jobs/monitor [post]
func (h *JobHandlers) RunMonitor(c *gin.Context) {
	if !h.authorized(c) {
		return
	}
	if err := h.Monitor.Run(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, JobResponse{Success: false, Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, JobResponse{Success: true, Message: "monitoring completed"})
}

// RunProcessor godoc
// @ID          runProcessor
// @Summary     Trigger the reply processor
// @Description Sends pending replies whose scheduled time has arrived, marking each row sent or failed.
// @Tags        Jobs
// @Produce     json
//
// @Param       Authorization  header  string  false "Bearer job token (when configured)"
//
// @Success     200  {object}  handlers.JobResponse
// @Failure     401  {object}  handlers.JobResponse  "Missing or wrong job token"
// @Failure     500  {object}  handlers.JobResponse  "Sweep could not start"
// @Router      /jobs/process [post]
func (h *JobHandlers) RunProcessor(c *gin.Context) {
	if !h.authorized(c) {
		return
	}
	if err := h.Processor.Run(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, JobResponse{Success: false, Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, JobResponse{Success: true, Message: "processing completed"})
}

// RunCleanup godoc
// @ID          runCleanup
// @Summary     Trigger the history cleanup
// @Description Purges sent history past retention and fails pending rows stuck past their send window.
// @Tags        Jobs
// @Produce     json
//
// @Param       Authorization  header  string  false "Bearer job token (when configured)"
//
// @Success     200  {object}  handlers.JobResponse
// @Failure     401  {object}  handlers.JobResponse  "Missing or wrong job token"
// @Failure     500  {object}  handlers.JobResponse  "Sweep failed"
// @Router      /jobs/cleanup [post]
func (h *JobHandlers) RunCleanup(c *gin.Context) {
	if !h.authorized(c) {
		return
	}
	res, err := h.Cleanup.Run(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, JobResponse{Success: false, Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, JobResponse{
		Success: true,
		Message: fmt.Sprintf("cleanup completed: removed %d sent, expired %d pending", res.RemovedSent, res.ExpiredPending),
	})
}
