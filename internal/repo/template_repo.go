// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// ReplyTemplate model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-threads-autoreply/internal/domain"
)

// CreateTemplate inserts a new ReplyTemplate row owned by userID.
func CreateTemplate(ctx context.Context, db *gorm.DB, userID, name, content string) (*domain.ReplyTemplate, error) {
	t := &domain.ReplyTemplate{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

// ListTemplates returns all templates for a user, newest first.
func ListTemplates(ctx context.Context, db *gorm.DB, userID string) ([]domain.ReplyTemplate, error) {
	var out []domain.ReplyTemplate
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

// GetTemplate fetches a template by ID ensuring it belongs to the user.
func GetTemplate(ctx context.Context, db *gorm.DB, id, userID string) (*domain.ReplyTemplate, error) {
	var t domain.ReplyTemplate
	if err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateTemplate renames and/or rewrites an owned template.
// Returns ErrNotFound if no row matched.
func UpdateTemplate(ctx context.Context, db *gorm.DB, id, userID, name, content string) error {
	res := db.WithContext(ctx).
		Model(&domain.ReplyTemplate{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{"name": name, "content": content})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTemplate removes an owned template. Rules referencing it keep their
// dangling reference; the monitor falls back to custom text or the default
// reply. Returns ErrNotFound if no row matched.
func DeleteTemplate(ctx context.Context, db *gorm.DB, id, userID string) error {
	res := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.ReplyTemplate{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
