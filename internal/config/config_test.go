package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.GinMode != "release" {
		t.Errorf("GinMode = %q", cfg.GinMode)
	}
	if cfg.LogLevel != "info" || cfg.LogPretty {
		t.Errorf("logging defaults: level=%q pretty=%v", cfg.LogLevel, cfg.LogPretty)
	}
	if cfg.APIBasePath != "/api" {
		t.Errorf("APIBasePath = %q", cfg.APIBasePath)
	}
	if cfg.AppURL != "http://localhost:3000" {
		t.Errorf("AppURL = %q", cfg.AppURL)
	}
	if cfg.Threads.RedirectURI != "http://localhost:3000/api/auth/threads/callback" {
		t.Errorf("Threads.RedirectURI = %q", cfg.Threads.RedirectURI)
	}
	if cfg.Jobs.PostLimit != 25 || cfg.Jobs.BatchSize != 50 {
		t.Errorf("job sizing defaults: %+v", cfg.Jobs)
	}
	if cfg.Jobs.SentRetention != 30*24*time.Hour || cfg.Jobs.PendingMaxAge != 24*time.Hour {
		t.Errorf("job window defaults: %+v", cfg.Jobs)
	}
	if cfg.IdempotencyTTL != 24*time.Hour {
		t.Errorf("IdempotencyTTL = %v", cfg.IdempotencyTTL)
	}
	if cfg.OTEL.ServiceName != "threads-autoreply" || cfg.OTEL.SampleRatio != 1.0 {
		t.Errorf("OTEL defaults: %+v", cfg.OTEL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_URL", "https://app.example.com/")
	t.Setenv("THREADS_CLIENT_ID", "app-1")
	t.Setenv("THREADS_CLIENT_SECRET", "sec-1")
	t.Setenv("JOB_TOKEN", "job-secret")
	t.Setenv("MONITOR_POST_LIMIT", "10")
	t.Setenv("PROCESSOR_BATCH_SIZE", "5")
	t.Setenv("CLEANUP_SENT_RETENTION", "168h")
	t.Setenv("CLEANUP_PENDING_MAX_AGE", "2h")
	t.Setenv("DEFAULT_REPLY_TEXT", "Thanks!")
	t.Setenv("API_BASE_PATH", "v1/")
	t.Setenv("LOG_LEVEL", "WARNING")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.AppURL != "https://app.example.com" {
		t.Errorf("trailing slash not trimmed: %q", cfg.AppURL)
	}
	// The redirect default follows the overridden app URL.
	if cfg.Threads.RedirectURI != "https://app.example.com/api/auth/threads/callback" {
		t.Errorf("Threads.RedirectURI = %q", cfg.Threads.RedirectURI)
	}
	if cfg.Threads.ClientID != "app-1" || cfg.Threads.ClientSecret != "sec-1" {
		t.Errorf("credentials not read: %+v", cfg.Threads)
	}
	if cfg.Jobs.Token != "job-secret" || cfg.Jobs.PostLimit != 10 || cfg.Jobs.BatchSize != 5 {
		t.Errorf("job overrides: %+v", cfg.Jobs)
	}
	if cfg.Jobs.SentRetention != 7*24*time.Hour || cfg.Jobs.PendingMaxAge != 2*time.Hour {
		t.Errorf("job windows: %+v", cfg.Jobs)
	}
	if cfg.Jobs.DefaultReply != "Thanks!" {
		t.Errorf("DefaultReply = %q", cfg.Jobs.DefaultReply)
	}
	if cfg.APIBasePath != "/v1" {
		t.Errorf("base path not normalized: %q", cfg.APIBasePath)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("warning alias not applied: %q", cfg.LogLevel)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("CSV origins: %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoad_ExplicitRedirectURIWins(t *testing.T) {
	t.Setenv("APP_URL", "https://app.example.com")
	t.Setenv("THREADS_REDIRECT_URI", "https://api.example.com/oauth/cb")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Threads.RedirectURI != "https://api.example.com/oauth/cb" {
		t.Errorf("explicit redirect must win: %q", cfg.Threads.RedirectURI)
	}
}

func TestLoad_Validation(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"bad log level", map[string]string{"LOG_LEVEL": "verbose"}, "LOG_LEVEL"},
		{"zero post limit", map[string]string{"MONITOR_POST_LIMIT": "0"}, "MONITOR_POST_LIMIT"},
		{"zero batch size", map[string]string{"PROCESSOR_BATCH_SIZE": "0"}, "PROCESSOR_BATCH_SIZE"},
		{"negative retention", map[string]string{"CLEANUP_SENT_RETENTION": "-1h"}, "CLEANUP_SENT_RETENTION"},
		{"negative pending age", map[string]string{"CLEANUP_PENDING_MAX_AGE": "-1h"}, "CLEANUP_PENDING_MAX_AGE"},
		{"negative rps", map[string]string{"RATE_RPS": "-1"}, "RATE_RPS"},
		{"zero burst", map[string]string{"RATE_BURST": "0"}, "RATE_BURST"},
		{"sample ratio out of range", map[string]string{"OTEL_TRACES_SAMPLER_ARG": "1.5"}, "OTEL_TRACES_SAMPLER_ARG"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %s, got %v", tc.want, err)
			}
		})
	}
}

func TestLoad_BadValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("MONITOR_POST_LIMIT", "lots")
	t.Setenv("CLEANUP_SENT_RETENTION", "soon")
	t.Setenv("LOG_PRETTY", "maybe")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Jobs.PostLimit != 25 || cfg.Jobs.SentRetention != 30*24*time.Hour || cfg.LogPretty {
		t.Fatalf("unparseable values must keep defaults: %+v", cfg.Jobs)
	}
}

func TestNormalizeBasePath(t *testing.T) {
	cases := map[string]string{
		"":       "/",
		"/":      "/",
		"api":    "/api",
		"/api":   "/api",
		"/api/":  "/api",
		"v1/x/":  "/v1/x",
		"  /v2 ": "/v2",
	}
	for in, want := range cases {
		if got := normalizeBasePath(in); got != want {
			t.Errorf("normalizeBasePath(%q) = %q, want %q", in, got, want)
		}
	}
}
