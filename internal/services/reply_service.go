// Package services – ReplyService
//
// This file implements the manually triggered reply path: the user picks a
// post and sends a reply immediately through a connected account, bypassing
// rules, scheduling, and quotas. The delivery is logged to reply history
// with a null rule reference so the audit trail distinguishes manual sends
// from rule-driven ones.
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-threads-autoreply/internal/domain"
	"github.com/tbourn/go-threads-autoreply/internal/repo"
)

// ReplyService sends user-triggered replies synchronously.
type ReplyService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Clients builds a Threads client per account token.
	Clients ClientFactory
	// Now returns the current time; nil means time.Now.
	Now func() time.Time
}

func (s *ReplyService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Send delivers a reply to postID from the given account and logs it.
//
// Validation and errors:
//   - postID and replyText must be non-blank (ErrPostRequired, ErrEmptyReply).
//   - The account must exist, be owned by userID, and be active
//     (ErrAccountNotFound).
//   - An expired token yields ErrTokenExpired before any API call.
//   - API failures propagate to the caller; nothing is logged to history for
//     a failed manual send (the user retries interactively).
func (s *ReplyService) Send(ctx context.Context, userID, accountID, postID, replyText string) (*domain.ReplyHistory, error) {
	tr := otel.Tracer("services/ReplyService")
	ctx, span := tr.Start(ctx, "Send",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("account.id", accountID),
		),
	)
	defer span.End()

	if postID == "" {
		return nil, ErrPostRequired
	}
	if replyText == "" {
		return nil, ErrEmptyReply
	}

	account, err := repo.GetActiveAccount(ctx, s.DB, accountID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	now := s.now()
	if account.TokenExpired(now) {
		return nil, ErrTokenExpired
	}

	replyPostID, err := s.Clients(account.AccessToken).Reply(ctx, postID, replyText)
	if err != nil {
		return nil, err
	}

	rec := &domain.ReplyHistory{
		UserID:           userID,
		ThreadsAccountID: accountID,
		OriginalPostID:   postID,
		ReplyContent:     replyText,
		ScheduledFor:     now.UTC(),
	}
	logged, err := repo.CreateSentReply(ctx, s.DB, rec, replyPostID, now)
	if err != nil {
		// The reply was delivered; a history write failure must not hide that.
		return &domain.ReplyHistory{
			UserID:           userID,
			ThreadsAccountID: accountID,
			OriginalPostID:   postID,
			ReplyContent:     replyText,
			ReplyPostID:      &replyPostID,
			Status:           domain.StatusSent,
		}, nil
	}
	return logged, nil
}

// Replay returns the reply previously recorded for (userID, accountID, key)
// along with the HTTP status that was served, for replaying an idempotent
// request without a second delivery. Returns repo.ErrNotFound when no valid
// record exists.
func (s *ReplyService) Replay(ctx context.Context, userID, accountID, key string) (*domain.ReplyHistory, int, error) {
	rec, err := repo.GetIdempotency(ctx, s.DB, userID, accountID, key, s.now())
	if err != nil {
		return nil, 0, err
	}
	row, err := repo.GetReply(ctx, s.DB, rec.ReplyID, userID)
	if err != nil {
		return nil, 0, err
	}
	return row, rec.Status, nil
}

// RecordIdempotency persists a replay record for the manual-reply endpoint.
// A duplicate key means a concurrent identical request already recorded one;
// callers may ignore it.
func (s *ReplyService) RecordIdempotency(ctx context.Context, userID, accountID, key, replyID string, status int, ttl time.Duration) error {
	_, err := repo.CreateIdempotency(ctx, s.DB, userID, accountID, key, replyID, status, ttl)
	if errors.Is(err, repo.ErrDuplicate) {
		return nil
	}
	return err
}
