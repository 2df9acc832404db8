// Package services – ProcessorService
//
// This file implements the sending half of the auto-reply pipeline: it
// drains due pending history rows (scheduled_for <= now, capped per run) and
// delivers each via the Threads API, transitioning the row to sent or
// failed. Rows are processed independently; one failure never blocks the
// rest of the batch, and a failed send is terminal — the next run picks up
// only rows still pending.
//
// The service also owns the daily-quota check the monitor consults, keeping
// both halves of the cap (read here, enforced there) against one query.
package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tbourn/go-threads-autoreply/internal/domain"
	"github.com/tbourn/go-threads-autoreply/internal/repo"
)

// tokenExpiredMessage is the fixed failure message recorded when a pending
// reply's account token has expired. There is no retry path: a fresh token
// requires the user to re-authorize.
const tokenExpiredMessage = "Access token expired"

// ProcessorService sends due pending replies.
type ProcessorService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Clients builds a Threads client per account token.
	Clients ClientFactory

	// BatchSize caps rows per run (default 50) as a back-pressure valve.
	BatchSize int
	// Now returns the current time; nil means time.Now.
	Now func() time.Time
}

func (s *ProcessorService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *ProcessorService) batchSize() int {
	if s.BatchSize > 0 {
		return s.BatchSize
	}
	return 50
}

// Run executes one processing sweep. It returns an error only when the due
// pending rows cannot be loaded; every per-row failure is recorded on the
// row itself and contained.
func (s *ProcessorService) Run(ctx context.Context) error {
	tr := otel.Tracer("services/ProcessorService")
	ctx, span := tr.Start(ctx, "Run")
	defer span.End()

	rows, err := repo.ListDuePendingReplies(ctx, s.DB, s.now().UTC(), s.batchSize())
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		log.Debug().Msg("processor: no pending replies due")
		return nil
	}
	span.SetAttributes(attribute.Int("replies.due", len(rows)))
	log.Info().Int("replies", len(rows)).Msg("processor: sweep started")

	for i := range rows {
		s.processReply(ctx, &rows[i])
	}
	return nil
}

// processReply delivers one pending row and records the terminal outcome.
func (s *ProcessorService) processReply(ctx context.Context, row *domain.ReplyHistory) {
	if row.ThreadsAccount.TokenExpired(s.now()) {
		s.markFailed(ctx, row.ID, tokenExpiredMessage)
		return
	}

	replyPostID, err := s.Clients(row.ThreadsAccount.AccessToken).Reply(ctx, row.OriginalPostID, row.ReplyContent)
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = "Unknown error"
		}
		log.Error().Err(err).Str("reply_id", row.ID).Str("post_id", row.OriginalPostID).Msg("processor: send failed")
		s.markFailed(ctx, row.ID, msg)
		return
	}

	if err := repo.MarkReplySent(ctx, s.DB, row.ID, replyPostID, s.now()); err != nil {
		// The reply went out but the row could not be transitioned; surface
		// loudly, the row will be retried and may double-post.
		log.Error().Err(err).Str("reply_id", row.ID).Msg("processor: marking reply sent failed")
		return
	}
	log.Info().
		Str("reply_id", row.ID).
		Str("post_id", row.OriginalPostID).
		Str("reply_post_id", replyPostID).
		Msg("processor: reply sent")
}

func (s *ProcessorService) markFailed(ctx context.Context, id, message string) {
	if err := repo.MarkReplyFailed(ctx, s.DB, id, message); err != nil {
		log.Error().Err(err).Str("reply_id", id).Msg("processor: marking reply failed failed")
	}
}

// CheckDailyLimit reports whether (userID, ruleID) has replies left under
// its daily cap. The window starts at local midnight of the service clock.
// Any query error denies (fail closed): with no cache backing this repeated
// count, a conservative default is the only safe answer.
func (s *ProcessorService) CheckDailyLimit(ctx context.Context, userID, ruleID string) (bool, error) {
	// Rows are stored with UTC timestamps; the local-midnight boundary must be
	// converted before it reaches SQLite's text comparison.
	since := localMidnight(s.now()).UTC()

	n, err := repo.CountRepliesSince(ctx, s.DB, userID, ruleID, since)
	if err != nil {
		return false, err
	}
	dailyCap, err := repo.GetRuleDailyCap(ctx, s.DB, ruleID)
	if err != nil {
		return false, err
	}
	return n < int64(dailyCap), nil
}
