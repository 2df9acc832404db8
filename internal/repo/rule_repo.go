// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// AutoReplyRule model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-threads-autoreply/internal/domain"
)

// CreateRule inserts a new AutoReplyRule row. Validation of the reply-source
// union and keyword list happens in the service layer; the repository only
// persists what it is given.
func CreateRule(ctx context.Context, db *gorm.DB, r *domain.AutoReplyRule) (*domain.AutoReplyRule, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// ListRules returns a user's rules, newest first, with the connected account
// and optional template preloaded for display.
func ListRules(ctx context.Context, db *gorm.DB, userID string) ([]domain.AutoReplyRule, error) {
	var out []domain.AutoReplyRule
	err := db.WithContext(ctx).
		Preload("ThreadsAccount").
		Preload("ReplyTemplate").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

// ListActiveRules returns every active rule across all users with the
// account credentials and optional template preloaded. This is the monitor's
// working set; grouping by account happens in the service.
func ListActiveRules(ctx context.Context, db *gorm.DB) ([]domain.AutoReplyRule, error) {
	var out []domain.AutoReplyRule
	err := db.WithContext(ctx).
		Preload("ThreadsAccount").
		Preload("ReplyTemplate").
		Where("is_active = ?", true).
		Find(&out).Error
	return out, err
}

// GetRule fetches a rule by ID ensuring it belongs to the user.
func GetRule(ctx context.Context, db *gorm.DB, id, userID string) (*domain.AutoReplyRule, error) {
	var r domain.AutoReplyRule
	if err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// UpdateRule applies the given column updates to an owned rule.
// Returns ErrNotFound if no row matched.
func UpdateRule(ctx context.Context, db *gorm.DB, id, userID string, updates map[string]any) error {
	res := db.WithContext(ctx).
		Model(&domain.AutoReplyRule{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteRule removes an owned rule. Returns ErrNotFound if no row matched.
func DeleteRule(ctx context.Context, db *gorm.DB, id, userID string) error {
	res := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.AutoReplyRule{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetRuleDailyCap returns max_replies_per_day for a rule without loading the
// whole row. Used by the quota check.
func GetRuleDailyCap(ctx context.Context, db *gorm.DB, ruleID string) (int, error) {
	var row struct {
		MaxRepliesPerDay int
	}
	err := db.WithContext(ctx).
		Model(&domain.AutoReplyRule{}).
		Select("max_replies_per_day").
		Where("id = ?", ruleID).
		First(&row).Error
	if err != nil {
		return 0, err
	}
	return row.MaxRepliesPerDay, nil
}
