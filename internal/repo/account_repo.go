// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// ThreadsAccount model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When an account is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-threads-autoreply/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for consistency across the service
// layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// UpsertAccount inserts or refreshes a connected account keyed by
// (user_id, threads_user_id). Re-authorizing an already-connected account
// replaces the token, expiry, and username and reactivates the row.
func UpsertAccount(ctx context.Context, db *gorm.DB, userID, threadsUserID, username, accessToken string, expiresAt time.Time) (*domain.ThreadsAccount, error) {
	a := &domain.ThreadsAccount{
		ID:             uuid.NewString(),
		UserID:         userID,
		ThreadsUserID:  threadsUserID,
		Username:       username,
		AccessToken:    accessToken,
		TokenExpiresAt: expiresAt.UTC(),
		IsActive:       true,
		CreatedAt:      time.Now().UTC(),
	}
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "threads_user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"username", "access_token", "token_expires_at", "is_active", "updated_at",
		}),
	}).Create(a).Error
	if err != nil {
		return nil, err
	}
	// Re-read so callers see the surviving row's ID after a conflict update.
	var out domain.ThreadsAccount
	if err := db.WithContext(ctx).
		Where("user_id = ? AND threads_user_id = ?", userID, threadsUserID).
		First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAccounts returns all of a user's connected accounts, newest first.
// Disconnected (inactive) accounts are included so the dashboard can offer
// reconnection.
func ListAccounts(ctx context.Context, db *gorm.DB, userID string) ([]domain.ThreadsAccount, error) {
	var out []domain.ThreadsAccount
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

// GetAccount fetches an account by ID ensuring it belongs to the user.
func GetAccount(ctx context.Context, db *gorm.DB, id, userID string) (*domain.ThreadsAccount, error) {
	var a domain.ThreadsAccount
	if err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// GetActiveAccount fetches an active account by ID scoped to the user.
func GetActiveAccount(ctx context.Context, db *gorm.DB, id, userID string) (*domain.ThreadsAccount, error) {
	var a domain.ThreadsAccount
	if err := db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND is_active = ?", id, userID, true).
		First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// DeactivateAccount soft-disconnects an account by clearing is_active.
// Returns ErrNotFound if no owned row matched.
func DeactivateAccount(ctx context.Context, db *gorm.DB, id, userID string) error {
	res := db.WithContext(ctx).
		Model(&domain.ThreadsAccount{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateAccountToken replaces the access token and expiry for an owned
// account (token refresh path). Returns ErrNotFound if no row matched.
func UpdateAccountToken(ctx context.Context, db *gorm.DB, id, userID, accessToken string, expiresAt time.Time) error {
	res := db.WithContext(ctx).
		Model(&domain.ThreadsAccount{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{
			"access_token":     accessToken,
			"token_expires_at": expiresAt.UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
