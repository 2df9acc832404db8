// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// ReplyHistory model — the pipeline's core entity.
//
// Status discipline: MarkReplySent and MarkReplyFailed are conditional on the
// row still being pending, so a terminal row can never be rewritten even when
// processor runs overlap. CreatePendingReply maps the unique
// (original_post_id, auto_reply_rule_id) violation to ErrDuplicate so the
// monitor can treat a lost insert race as "already replied".
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-threads-autoreply/internal/domain"
)

// CreatePendingReply inserts a pending history row scheduled at scheduledFor.
// Returns ErrDuplicate when a row for (postID, ruleID) already exists.
func CreatePendingReply(ctx context.Context, db *gorm.DB, rec *domain.ReplyHistory) (*domain.ReplyHistory, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.Status = domain.StatusPending
	// Timestamps are stored in UTC without exception: SQLite compares them as
	// text, so a zoned value would sort against UTC rows by its offset digits.
	rec.ScheduledFor = rec.ScheduledFor.UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	} else {
		rec.CreatedAt = rec.CreatedAt.UTC()
	}
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return rec, nil
}

// CreateSentReply logs an already-delivered reply (the manual-reply path,
// which sends synchronously and records the outcome after the fact).
func CreateSentReply(ctx context.Context, db *gorm.DB, rec *domain.ReplyHistory, replyPostID string, sentAt time.Time) (*domain.ReplyHistory, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.Status = domain.StatusSent
	rec.ReplyPostID = &replyPostID
	at := sentAt.UTC()
	rec.SentAt = &at
	if rec.ScheduledFor.IsZero() {
		rec.ScheduledFor = at
	} else {
		rec.ScheduledFor = rec.ScheduledFor.UTC()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = at
	} else {
		rec.CreatedAt = rec.CreatedAt.UTC()
	}
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return rec, nil
}

// ReplyExists reports whether any history row exists for (postID, ruleID).
// This is the monitor's de-duplication guard; the unique index backs it up
// under concurrent runs.
func ReplyExists(ctx context.Context, db *gorm.DB, postID, ruleID string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.ReplyHistory{}).
		Where("original_post_id = ? AND auto_reply_rule_id = ?", postID, ruleID).
		Count(&n).Error
	return n > 0, err
}

// CountRepliesSince counts history rows for (userID, ruleID) created at or
// after since. The quota check calls this with local midnight converted to
// UTC, matching how created_at is stored.
func CountRepliesSince(ctx context.Context, db *gorm.DB, userID, ruleID string, since time.Time) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.ReplyHistory{}).
		Where("user_id = ? AND auto_reply_rule_id = ? AND created_at >= ?", userID, ruleID, since).
		Count(&n).Error
	return n, err
}

// ListDuePendingReplies returns pending rows whose scheduled_for has passed,
// oldest first, with account credentials preloaded, capped at limit rows.
// The cap is the processor's back-pressure valve against a large backlog.
func ListDuePendingReplies(ctx context.Context, db *gorm.DB, now time.Time, limit int) ([]domain.ReplyHistory, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []domain.ReplyHistory
	err := db.WithContext(ctx).
		Preload("ThreadsAccount").
		Where("status = ? AND scheduled_for <= ?", domain.StatusPending, now).
		Order("scheduled_for ASC, id ASC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// MarkReplySent transitions a pending row to sent, recording the created
// reply post id and delivery time. Returns ErrNotFound when the row is
// missing or already terminal.
func MarkReplySent(ctx context.Context, db *gorm.DB, id, replyPostID string, sentAt time.Time) error {
	res := db.WithContext(ctx).
		Model(&domain.ReplyHistory{}).
		Where("id = ? AND status = ?", id, domain.StatusPending).
		Updates(map[string]any{
			"status":        domain.StatusSent,
			"reply_post_id": replyPostID,
			"sent_at":       sentAt.UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkReplyFailed transitions a pending row to failed with a message.
// Returns ErrNotFound when the row is missing or already terminal.
func MarkReplyFailed(ctx context.Context, db *gorm.DB, id, errorMessage string) error {
	res := db.WithContext(ctx).
		Model(&domain.ReplyHistory{}).
		Where("id = ? AND status = ?", id, domain.StatusPending).
		Updates(map[string]any{
			"status":        domain.StatusFailed,
			"error_message": errorMessage,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetReply returns one of the user's history rows by id.
func GetReply(ctx context.Context, db *gorm.DB, id, userID string) (*domain.ReplyHistory, error) {
	var rec domain.ReplyHistory
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// CountHistory returns the number of a user's history rows, optionally
// filtered by status ("" means all).
func CountHistory(ctx context.Context, db *gorm.DB, userID, status string) (int64, error) {
	q := db.WithContext(ctx).Model(&domain.ReplyHistory{}).Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

// ListHistoryPage returns a page of a user's history rows, newest first,
// optionally filtered by status, with rule and account preloaded for display.
func ListHistoryPage(ctx context.Context, db *gorm.DB, userID, status string, offset, limit int) ([]domain.ReplyHistory, error) {
	q := db.WithContext(ctx).
		Preload("AutoReplyRule").
		Preload("ThreadsAccount").
		Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []domain.ReplyHistory
	err := q.Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// DeleteSentOlderThan hard-deletes sent rows created before cutoff (retention
// sweep). Returns the number of rows removed.
func DeleteSentOlderThan(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Unscoped().
		Where("status = ? AND created_at < ?", domain.StatusSent, cutoff).
		Delete(&domain.ReplyHistory{})
	return res.RowsAffected, res.Error
}

// ExpirePendingOlderThan fails pending rows whose scheduled_for is before
// cutoff, preventing rows stranded by a crashed processor from pending
// forever. Returns the number of rows flipped.
func ExpirePendingOlderThan(ctx context.Context, db *gorm.DB, cutoff time.Time, message string) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.ReplyHistory{}).
		Where("status = ? AND scheduled_for < ?", domain.StatusPending, cutoff).
		Updates(map[string]any{
			"status":        domain.StatusFailed,
			"error_message": message,
		})
	return res.RowsAffected, res.Error
}
