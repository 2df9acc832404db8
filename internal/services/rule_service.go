// Package services – RuleService
//
// This file implements the RuleService, which manages keyword-triggered
// auto-reply rules. It validates and normalizes trigger keywords, enforces
// the reply-source union (exactly one of template reference or inline text),
// checks account/template ownership, and coordinates repository operations
// for creating, listing, updating, and deleting rules.
package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tbourn/go-threads-autoreply/internal/domain"
	"github.com/tbourn/go-threads-autoreply/internal/repo"
)

const (
	// ruleNameMaxLen caps stored rule names by rune length.
	ruleNameMaxLen = 255
	// defaultDailyCap is applied when a rule is created without a cap.
	defaultDailyCap = 50
)

// CreateRuleInput carries the caller-supplied fields for a new rule.
// Exactly one of ReplyTemplateID and CustomReplyText must be set.
type CreateRuleInput struct {
	Name             string
	TriggerKeywords  []string
	ReplyTemplateID  *string
	CustomReplyText  *string
	DelayMinutes     int
	MaxRepliesPerDay int
	ThreadsAccountID string
}

// UpdateRuleInput carries optional field updates; nil fields are untouched.
type UpdateRuleInput struct {
	Name             *string
	TriggerKeywords  []string
	DelayMinutes     *int
	MaxRepliesPerDay *int
	IsActive         *bool
}

// RuleService provides rule-level operations. It enforces the creation-time
// invariants so the monitor can trust every active rule it loads.
type RuleService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// lowerCaser folds keywords to their canonical lowercase form at creation
// time so the matcher compares like against like.
var lowerCaser = cases.Lower(language.Und)

// normalizeKeywords trims, lowercases, and deduplicates keywords, dropping
// blanks. Returns nil when nothing usable remains.
func normalizeKeywords(keywords []string) domain.StringList {
	seen := make(map[string]struct{}, len(keywords))
	out := make(domain.StringList, 0, len(keywords))
	for _, kw := range keywords {
		k := lowerCaser.String(strings.TrimSpace(kw))
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// clipName trims a name and caps it by rune length.
func clipName(name string) string {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > ruleNameMaxLen {
		name = string([]rune(name)[:ruleNameMaxLen])
	}
	return name
}

// Create validates and persists a new rule owned by userID.
//
// Validation:
//   - Name must be non-blank.
//   - At least one trigger keyword must survive normalization.
//   - Exactly one reply source must be set; a referenced template must exist
//     and belong to the user.
//   - DelayMinutes must be >= 0; MaxRepliesPerDay must be > 0 (0 selects the
//     default of 50).
//   - The target account must exist, belong to the user, and be active.
func (s *RuleService) Create(ctx context.Context, userID string, in CreateRuleInput) (*domain.AutoReplyRule, error) {
	name := clipName(in.Name)
	if name == "" {
		return nil, ErrEmptyName
	}

	keywords := normalizeKeywords(in.TriggerKeywords)
	if keywords == nil {
		return nil, ErrNoKeywords
	}

	templateID := trimmedPtr(in.ReplyTemplateID)
	customText := trimmedPtr(in.CustomReplyText)
	if (templateID == nil) == (customText == nil) {
		return nil, ErrInvalidReplySource
	}
	if templateID != nil {
		if _, err := repo.GetTemplate(ctx, s.DB, *templateID, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTemplateNotFound
			}
			return nil, err
		}
	}

	if in.DelayMinutes < 0 {
		return nil, ErrInvalidDelay
	}
	dailyCap := in.MaxRepliesPerDay
	if dailyCap == 0 {
		dailyCap = defaultDailyCap
	}
	if dailyCap < 0 {
		return nil, ErrInvalidDailyCap
	}

	if _, err := repo.GetActiveAccount(ctx, s.DB, in.ThreadsAccountID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	return repo.CreateRule(ctx, s.DB, &domain.AutoReplyRule{
		UserID:           userID,
		Name:             name,
		TriggerKeywords:  keywords,
		ReplyTemplateID:  templateID,
		CustomReplyText:  customText,
		DelayMinutes:     in.DelayMinutes,
		MaxRepliesPerDay: dailyCap,
		IsActive:         true,
		ThreadsAccountID: in.ThreadsAccountID,
	})
}

// List returns the user's rules with account and template preloaded.
func (s *RuleService) List(ctx context.Context, userID string) ([]domain.AutoReplyRule, error) {
	return repo.ListRules(ctx, s.DB, userID)
}

// Update applies the provided field changes to an owned rule. The reply
// source cannot be changed after creation; recreate the rule instead.
func (s *RuleService) Update(ctx context.Context, userID, ruleID string, in UpdateRuleInput) error {
	updates := map[string]any{}

	if in.Name != nil {
		name := clipName(*in.Name)
		if name == "" {
			return ErrEmptyName
		}
		updates["name"] = name
	}
	if in.TriggerKeywords != nil {
		keywords := normalizeKeywords(in.TriggerKeywords)
		if keywords == nil {
			return ErrNoKeywords
		}
		updates["trigger_keywords"] = keywords
	}
	if in.DelayMinutes != nil {
		if *in.DelayMinutes < 0 {
			return ErrInvalidDelay
		}
		updates["delay_minutes"] = *in.DelayMinutes
	}
	if in.MaxRepliesPerDay != nil {
		if *in.MaxRepliesPerDay <= 0 {
			return ErrInvalidDailyCap
		}
		updates["max_replies_per_day"] = *in.MaxRepliesPerDay
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	if len(updates) == 0 {
		return nil
	}

	err := repo.UpdateRule(ctx, s.DB, ruleID, userID, updates)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrRuleNotFound
	}
	return err
}

// Delete removes an owned rule. History rows keep their (now dangling) rule
// reference for audit.
func (s *RuleService) Delete(ctx context.Context, userID, ruleID string) error {
	err := repo.DeleteRule(ctx, s.DB, ruleID, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrRuleNotFound
	}
	return err
}

// trimmedPtr returns nil for nil or blank strings, else a pointer to the
// trimmed value.
func trimmedPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}
