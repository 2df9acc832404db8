// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, idempotency, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/go-threads-autoreply/internal/config"
	"github.com/tbourn/go-threads-autoreply/internal/http/handlers"
	"github.com/tbourn/go-threads-autoreply/internal/http/middleware"
	"github.com/tbourn/go-threads-autoreply/internal/repo"
	"github.com/tbourn/go-threads-autoreply/internal/services"
	"github.com/tbourn/go-threads-autoreply/internal/threads"
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), idempotency and rate
// limiting, CORS and security headers, health and metrics endpoints, and then
// mounts the public API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Idempotency validator (before rate limiter to allow bypass on replay)
//  8. Rate limiter (per user/IP, bypass on replay)
//  9. CORS and Security headers
//  10. Gzip response compression
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction. The OAuth callback arrives as
	// ?code=...&state=...; the code is a credential and must never hit the
	// access log. Header and token masking are built into the middleware.
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{
			"Authorization",
		},
		MaskQueryParams: []string{
			"state",
		},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Idempotency validation (before rate limiting)
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{
			MaxLen: 200,
		},
		func(ctx context.Context, userID, scopeID, key string, now time.Time) (bool, error) {
			rec, err := repo.GetIdempotency(ctx, db, userID, scopeID, key, now)
			if err != nil || rec == nil {
				return false, nil
			}
			return true, nil
		},
	))

	// 8) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 9) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID", middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID", middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS).
	// Account payloads carry token metadata and the OAuth flow redirects with
	// credentials, so those surfaces are marked no-store.
	base := cfg.APIBasePath
	if base == "/" {
		base = ""
	}
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS: cfg.Security.EnableHSTS,
		HSTSMaxAge: cfg.Security.HSTSMaxAge,
		NoStorePaths: []string{
			base + "/accounts",
			base + "/auth",
		},
		EnablePolicy: true,
	}))

	// 10) Compress responses (history pages and rule lists benefit most)
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Swagger UI (off by default; gate behind SWAGGER_ENABLED)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← repo/db/graph API
	clients := services.NewClientFactory()
	oauth := &threads.OAuth{
		ClientID:     cfg.Threads.ClientID,
		ClientSecret: cfg.Threads.ClientSecret,
		RedirectURI:  cfg.Threads.RedirectURI,
	}

	accountSvc := &services.AccountService{DB: db, OAuth: oauth, Clients: clients}
	ruleSvc := &services.RuleService{DB: db}
	templateSvc := &services.TemplateService{DB: db}
	historySvc := &services.HistoryService{DB: db}
	replySvc := &services.ReplyService{DB: db, Clients: clients}

	processorSvc := &services.ProcessorService{DB: db, Clients: clients, BatchSize: cfg.Jobs.BatchSize}
	monitorSvc := &services.MonitorService{
		DB:           db,
		Clients:      clients,
		Quota:        processorSvc,
		PostLimit:    cfg.Jobs.PostLimit,
		DefaultReply: cfg.Jobs.DefaultReply,
	}
	cleanupSvc := &services.CleanupService{
		DB:            db,
		SentRetention: cfg.Jobs.SentRetention,
		PendingMaxAge: cfg.Jobs.PendingMaxAge,
	}

	h := handlers.New(accountSvc, ruleSvc, templateSvc, historySvc, replySvc, cfg.AppURL, cfg.IdempotencyTTL)
	jobs := &handlers.JobHandlers{
		Monitor:   monitorSvc,
		Processor: processorSvc,
		Cleanup:   cleanupSvc,
		Token:     cfg.Jobs.Token,
	}

	// Public API
	apiBase := cfg.APIBasePath // e.g. "/api"
	api := groupWithPrefix(r, apiBase)
	{
		// OAuth account connection
		api.GET("/auth/threads", h.ThreadsAuthRedirect)
		api.GET("/auth/threads/callback", h.ThreadsAuthCallback)

		// Connected accounts
		api.GET("/accounts", h.ListAccounts)
		api.DELETE("/accounts/:id", h.DisconnectAccount)
		api.POST("/accounts/:id/refresh", h.RefreshAccountToken)

		// Auto-reply rules
		api.POST("/rules", h.CreateRule)
		api.GET("/rules", h.ListRules)
		api.PUT("/rules/:id", h.UpdateRule)
		api.DELETE("/rules/:id", h.DeleteRule)

		// Reply templates
		api.POST("/templates", h.CreateTemplate)
		api.GET("/templates", h.ListTemplates)
		api.PUT("/templates/:id", h.UpdateTemplate)
		api.DELETE("/templates/:id", h.DeleteTemplate)

		// History and dashboard stats
		api.GET("/history", h.ListHistory)
		api.GET("/stats", h.GetStats)

		// Manual replies
		api.POST("/replies", h.SendReply)

		// Scheduler-facing job triggers. GET is accepted alongside POST because
		// bare-bones cron integrations can only issue GETs.
		api.POST("/jobs/monitor", jobs.RunMonitor)
		api.GET("/jobs/monitor", jobs.RunMonitor)
		api.POST("/jobs/process", jobs.RunProcessor)
		api.GET("/jobs/process", jobs.RunProcessor)
		api.POST("/jobs/cleanup", jobs.RunCleanup)
		api.GET("/jobs/cleanup", jobs.RunCleanup)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
