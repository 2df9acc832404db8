// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// by the dashboard stats endpoint. Each function is context-aware and safe
// to call from services or handlers.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-threads-autoreply/internal/domain"
)

// DashboardStats is the per-user aggregate snapshot rendered on the
// dashboard overview.
type DashboardStats struct {
	ConnectedAccounts int64 `json:"connected_accounts"`
	ActiveRules       int64 `json:"active_rules"`
	PendingReplies    int64 `json:"pending_replies"`
	SentReplies       int64 `json:"sent_replies"`
	FailedReplies     int64 `json:"failed_replies"`
	SentToday         int64 `json:"sent_today"`
}

// UserStats computes DashboardStats for userID. sinceMidnight is the start
// of "today" in the caller's chosen timezone; SentToday counts sent rows
// delivered at or after that instant.
func UserStats(ctx context.Context, db *gorm.DB, userID string, sinceMidnight time.Time) (*DashboardStats, error) {
	var s DashboardStats

	if err := db.WithContext(ctx).
		Model(&domain.ThreadsAccount{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Count(&s.ConnectedAccounts).Error; err != nil {
		return nil, err
	}

	if err := db.WithContext(ctx).
		Model(&domain.AutoReplyRule{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Count(&s.ActiveRules).Error; err != nil {
		return nil, err
	}

	byStatus := map[string]*int64{
		domain.StatusPending: &s.PendingReplies,
		domain.StatusSent:    &s.SentReplies,
		domain.StatusFailed:  &s.FailedReplies,
	}
	for status, dst := range byStatus {
		if err := db.WithContext(ctx).
			Model(&domain.ReplyHistory{}).
			Where("user_id = ? AND status = ?", userID, status).
			Count(dst).Error; err != nil {
			return nil, err
		}
	}

	if err := db.WithContext(ctx).
		Model(&domain.ReplyHistory{}).
		Where("user_id = ? AND status = ? AND sent_at >= ?", userID, domain.StatusSent, sinceMidnight).
		Count(&s.SentToday).Error; err != nil {
		return nil, err
	}

	return &s, nil
}
