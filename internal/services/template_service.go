// Package services – TemplateService
//
// This file implements the TemplateService, plain CRUD over reusable reply
// bodies. Templates are independent of rules: deleting a template leaves any
// referencing rule in place, and the monitor falls back to the rule's custom
// text or the default reply when it resolves reply content.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/go-threads-autoreply/internal/domain"
	"github.com/tbourn/go-threads-autoreply/internal/repo"
)

// TemplateService provides template CRUD scoped to the owning user.
type TemplateService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// Create persists a new template owned by userID.
func (s *TemplateService) Create(ctx context.Context, userID, name, content string) (*domain.ReplyTemplate, error) {
	name = clipName(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	return repo.CreateTemplate(ctx, s.DB, userID, name, content)
}

// List returns the user's templates, newest first.
func (s *TemplateService) List(ctx context.Context, userID string) ([]domain.ReplyTemplate, error) {
	return repo.ListTemplates(ctx, s.DB, userID)
}

// Update rewrites an owned template's name and content.
func (s *TemplateService) Update(ctx context.Context, userID, templateID, name, content string) error {
	name = clipName(name)
	if name == "" {
		return ErrEmptyName
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return ErrEmptyContent
	}
	err := repo.UpdateTemplate(ctx, s.DB, templateID, userID, name, content)
	if errors.Is(err, repo.ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrTemplateNotFound
	}
	return err
}

// Delete removes an owned template.
func (s *TemplateService) Delete(ctx context.Context, userID, templateID string) error {
	err := repo.DeleteTemplate(ctx, s.DB, templateID, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrTemplateNotFound
	}
	return err
}
