// Package services – CleanupService
//
// This file implements the retirement sweep over reply history: sent rows
// past the retention window are purged, and pending rows stranded past their
// send window (a crashed or missed processor run) are failed so they cannot
// sit pending forever.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tbourn/go-threads-autoreply/internal/repo"
)

// expiredPendingMessage is recorded on pending rows aged out by cleanup.
const expiredPendingMessage = "Reply expired - too old to process"

// CleanupResult reports what one sweep touched.
type CleanupResult struct {
	// RemovedSent is the number of sent rows purged by retention.
	RemovedSent int64 `json:"removed_sent"`
	// ExpiredPending is the number of stuck pending rows flipped to failed.
	ExpiredPending int64 `json:"expired_pending"`
}

// CleanupService retires old reply history rows.
type CleanupService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// SentRetention is how long sent rows are kept (default 30 days).
	SentRetention time.Duration
	// PendingMaxAge is how far past scheduled_for a pending row may sit
	// before it is failed (default 24 hours).
	PendingMaxAge time.Duration
	// Now returns the current time; nil means time.Now.
	Now func() time.Time
}

func (s *CleanupService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *CleanupService) sentRetention() time.Duration {
	if s.SentRetention > 0 {
		return s.SentRetention
	}
	return 30 * 24 * time.Hour
}

func (s *CleanupService) pendingMaxAge() time.Duration {
	if s.PendingMaxAge > 0 {
		return s.PendingMaxAge
	}
	return 24 * time.Hour
}

// Run executes one cleanup sweep. Both halves are attempted even when the
// first fails; any errors are joined and returned after the sweep.
func (s *CleanupService) Run(ctx context.Context) (CleanupResult, error) {
	tr := otel.Tracer("services/CleanupService")
	ctx, span := tr.Start(ctx, "Run")
	defer span.End()

	// Cutoffs are compared as text against UTC-stored timestamps.
	now := s.now().UTC()
	var res CleanupResult
	var errs []error

	removed, err := repo.DeleteSentOlderThan(ctx, s.DB, now.Add(-s.sentRetention()))
	if err != nil {
		log.Error().Err(err).Msg("cleanup: purging sent history failed")
		errs = append(errs, err)
	}
	res.RemovedSent = removed

	expired, err := repo.ExpirePendingOlderThan(ctx, s.DB, now.Add(-s.pendingMaxAge()), expiredPendingMessage)
	if err != nil {
		log.Error().Err(err).Msg("cleanup: expiring stuck pending replies failed")
		errs = append(errs, err)
	}
	res.ExpiredPending = expired

	span.SetAttributes(
		attribute.Int64("cleanup.removed_sent", res.RemovedSent),
		attribute.Int64("cleanup.expired_pending", res.ExpiredPending),
	)
	if len(errs) > 0 {
		return res, errors.Join(errs...)
	}
	log.Info().
		Int64("removed_sent", res.RemovedSent).
		Int64("expired_pending", res.ExpiredPending).
		Msg("cleanup: sweep completed")
	return res, nil
}
