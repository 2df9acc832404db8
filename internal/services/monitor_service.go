// Package services – MonitorService
//
// This file implements the monitoring half of the auto-reply pipeline: for
// every active rule it fetches the associated account's recent posts (once
// per account, regardless of how many rules share it), tests each post
// against each rule's trigger keywords, and schedules a pending reply when a
// match survives the de-duplication and daily-quota guards.
//
// Failure containment is the defining property of Run: a broken account, a
// failed fetch, or a lost insert never aborts the rest of the sweep. Only a
// failure to load the rule working set itself is returned to the trigger.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tbourn/go-threads-autoreply/internal/domain"
	"github.com/tbourn/go-threads-autoreply/internal/match"
	"github.com/tbourn/go-threads-autoreply/internal/repo"
	"github.com/tbourn/go-threads-autoreply/internal/threads"
)

// DefaultReplyText is the last-resort reply body, used when a rule's
// template has been deleted and no custom text is set.
const DefaultReplyText = "Thanks for your message!"

// QuotaChecker answers whether a rule may still reply today. The processor
// service implements it; the indirection keeps the quota query in one place
// and lets monitor tests pin the answer.
type QuotaChecker interface {
	// CheckDailyLimit reports whether (userID, ruleID) is under its daily
	// cap. Implementations fail closed: on a query error they return false.
	CheckDailyLimit(ctx context.Context, userID, ruleID string) (bool, error)
}

// MonitorService discovers matching posts and schedules pending replies.
type MonitorService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Clients builds a Threads client per account token.
	Clients ClientFactory
	// Quota guards the per-rule daily cap.
	Quota QuotaChecker

	// PostLimit is how many recent posts are fetched per account (default 25).
	PostLimit int
	// DefaultReply overrides DefaultReplyText when set.
	DefaultReply string
	// Now returns the current time; nil means time.Now.
	Now func() time.Time
}

func (s *MonitorService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *MonitorService) postLimit() int {
	if s.PostLimit > 0 {
		return s.PostLimit
	}
	return 25
}

func (s *MonitorService) defaultReply() string {
	if s.DefaultReply != "" {
		return s.DefaultReply
	}
	return DefaultReplyText
}

// Run executes one monitoring sweep. It returns an error only when the
// active-rule working set cannot be loaded; every per-account and per-rule
// failure is logged and contained.
func (s *MonitorService) Run(ctx context.Context) error {
	tr := otel.Tracer("services/MonitorService")
	ctx, span := tr.Start(ctx, "Run")
	defer span.End()

	rules, err := repo.ListActiveRules(ctx, s.DB)
	if err != nil {
		return err
	}
	if len(rules) == 0 {
		log.Debug().Msg("monitor: no active auto-reply rules")
		return nil
	}
	span.SetAttributes(attribute.Int("rules.active", len(rules)))

	// Group rules by account so each account's posts are fetched once.
	groups := make(map[string][]domain.AutoReplyRule)
	for _, r := range rules {
		groups[r.ThreadsAccountID] = append(groups[r.ThreadsAccountID], r)
	}
	log.Info().
		Int("rules", len(rules)).
		Int("accounts", len(groups)).
		Msg("monitor: sweep started")

	for _, group := range groups {
		s.processAccountRules(ctx, group)
	}
	return nil
}

// processAccountRules fetches one account's recent posts and runs every rule
// in the group against them. Any failure here is contained to the group.
func (s *MonitorService) processAccountRules(ctx context.Context, rules []domain.AutoReplyRule) {
	if len(rules) == 0 {
		return
	}
	account := rules[0].ThreadsAccount

	if !account.IsActive {
		log.Debug().Str("username", account.Username).Msg("monitor: account disconnected, skipping")
		return
	}
	if account.TokenExpired(s.now()) {
		log.Warn().Str("username", account.Username).Msg("monitor: access token expired, skipping account")
		return
	}

	posts, err := s.Clients(account.AccessToken).RecentPosts(ctx, "me", s.postLimit())
	if err != nil {
		log.Error().Err(err).Str("username", account.Username).Msg("monitor: fetching recent posts failed")
		return
	}
	if len(posts) == 0 {
		log.Debug().Str("username", account.Username).Msg("monitor: no recent posts")
		return
	}

	// Compile each rule's matcher once per group, not once per post.
	matchers := make(map[string]*match.Matcher, len(rules))
	for _, r := range rules {
		matchers[r.ID] = match.New(r.TriggerKeywords)
	}

	for _, post := range posts {
		for i := range rules {
			s.processPostAgainstRule(ctx, post, &rules[i], matchers[rules[i].ID])
		}
	}
}

// processPostAgainstRule schedules a pending reply for (post, rule) when the
// keyword match, de-duplication guard, and daily quota all allow it.
func (s *MonitorService) processPostAgainstRule(ctx context.Context, post threads.Post, rule *domain.AutoReplyRule, m *match.Matcher) {
	keyword, ok := m.Matched(post.Text)
	if !ok {
		return
	}

	exists, err := repo.ReplyExists(ctx, s.DB, post.ID, rule.ID)
	if err != nil {
		log.Error().Err(err).Str("rule", rule.Name).Str("post_id", post.ID).Msg("monitor: dedup lookup failed")
		return
	}
	if exists {
		log.Debug().Str("rule", rule.Name).Str("post_id", post.ID).Msg("monitor: already replied")
		return
	}

	// Re-checked before every insert, so inserts earlier in this run count
	// against the cap.
	allowed, err := s.Quota.CheckDailyLimit(ctx, rule.UserID, rule.ID)
	if err != nil {
		log.Error().Err(err).Str("rule", rule.Name).Msg("monitor: quota check failed")
		return
	}
	if !allowed {
		log.Info().Str("rule", rule.Name).Msg("monitor: daily limit reached")
		return
	}

	// Timestamps are stored as UTC so the text comparisons SQLite performs
	// against them are zone-independent.
	now := s.now().UTC()
	text := post.Text
	rec := &domain.ReplyHistory{
		UserID:              rule.UserID,
		ThreadsAccountID:    rule.ThreadsAccountID,
		AutoReplyRuleID:     &rule.ID,
		OriginalPostID:      post.ID,
		OriginalPostContent: &text,
		ReplyContent:        s.resolveReplyContent(rule),
		ScheduledFor:        now.Add(time.Duration(rule.DelayMinutes) * time.Minute),
		CreatedAt:           now,
	}
	if _, err := repo.CreatePendingReply(ctx, s.DB, rec); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			// Lost an insert race with an overlapping run; the reply exists.
			log.Debug().Str("rule", rule.Name).Str("post_id", post.ID).Msg("monitor: duplicate insert, skipping")
			return
		}
		log.Error().Err(err).Str("rule", rule.Name).Str("post_id", post.ID).Msg("monitor: scheduling reply failed")
		return
	}

	log.Info().
		Str("rule", rule.Name).
		Str("post_id", post.ID).
		Str("keyword", keyword).
		Int("delay_minutes", rule.DelayMinutes).
		Msg("monitor: reply scheduled")
}

// resolveReplyContent picks the reply body: template content when the
// referenced template still exists, else the rule's custom text, else the
// default reply. The dangling-template case is deliberate — see
// TemplateService.Delete.
func (s *MonitorService) resolveReplyContent(rule *domain.AutoReplyRule) string {
	if rule.ReplyTemplate != nil && rule.ReplyTemplate.Content != "" {
		return rule.ReplyTemplate.Content
	}
	if rule.CustomReplyText != nil && *rule.CustomReplyText != "" {
		return *rule.CustomReplyText
	}
	return s.defaultReply()
}
