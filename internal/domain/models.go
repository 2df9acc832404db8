// Package domain defines the persistence models for connected Threads
// accounts, auto-reply rules, reply templates, and the reply history log.
// These types are mapped with GORM and form the core data layer of the
// auto-reply application.
package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Reply history statuses. A history row starts as pending and transitions
// exactly once, to either sent or failed. Terminal states are never revisited.
const (
	StatusPending = "pending"
	StatusSent    = "sent"
	StatusFailed  = "failed"
)

// StringList stores a slice of strings as a JSON-encoded TEXT column.
// It exists so trigger keyword lists survive SQLite without a join table.
type StringList []string

// Value implements driver.Valuer by JSON-encoding the list.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner, accepting TEXT or BLOB representations.
func (l *StringList) Scan(src any) error {
	if src == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("stringlist: unsupported source type %T", src)
	}
	if len(data) == 0 {
		*l = nil
		return nil
	}
	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*l = out
	return nil
}

// GormDataType tells GORM to map StringList onto a plain text column.
func (StringList) GormDataType() string { return "text" }

// ThreadsAccount represents a connected Threads (Meta) account. Accounts are
// created by completing the OAuth authorization-code exchange and are never
// hard-removed: disconnecting clears IsActive so history rows keep a valid
// reference.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - UserID: identifier of the owning user; indexed for tenant scoping.
//   - ThreadsUserID: the external Threads account id.
//   - Username: display handle at connect time (refreshed on re-auth).
//   - AccessToken: long-lived OAuth token (~60-day validity). Never serialized.
//   - TokenExpiresAt: expiry checked before every API call; an expired
//     account is skipped by the pipeline, never an error.
//   - IsActive: cleared on disconnect (soft delete at the domain level).
type ThreadsAccount struct {
	ID             string         `json:"id"               gorm:"type:char(36);primaryKey"`
	UserID         string         `json:"user_id"          gorm:"type:varchar(64);not null;index:idx_user_accounts;uniqueIndex:ux_user_threads_account,priority:1"`
	ThreadsUserID  string         `json:"threads_user_id"  gorm:"type:varchar(64);not null;uniqueIndex:ux_user_threads_account,priority:2"`
	Username       string         `json:"username"         gorm:"type:varchar(255);not null"`
	AccessToken    string         `json:"-"                gorm:"type:text;not null"`
	TokenExpiresAt time.Time      `json:"token_expires_at" gorm:"not null"`
	IsActive       bool           `json:"is_active"        gorm:"not null;default:true"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-"                gorm:"index"`
}

// TableName returns the database table name for ThreadsAccount.
func (ThreadsAccount) TableName() string { return "threads_accounts" }

// TokenExpired reports whether the account's access token has expired at t.
func (a *ThreadsAccount) TokenExpired(t time.Time) bool {
	return !t.Before(a.TokenExpiresAt)
}

// AutoReplyRule is a keyword-triggered auto-reply policy bound to exactly one
// connected account. The reply source is a tagged union validated at creation
// time: either ReplyTemplateID or CustomReplyText is set, never both and
// never neither.
//
// Fields:
//   - TriggerKeywords: matched case-insensitively as substrings of post text.
//   - DelayMinutes: wait applied between discovery and send (>= 0).
//   - MaxRepliesPerDay: per-calendar-day cap on history rows for this rule.
//   - IsActive: inactive rules are invisible to the monitor.
type AutoReplyRule struct {
	ID               string         `json:"id"                  gorm:"type:char(36);primaryKey"`
	UserID           string         `json:"user_id"             gorm:"type:varchar(64);not null;index:idx_user_rules"`
	Name             string         `json:"name"                gorm:"type:varchar(255);not null"`
	TriggerKeywords  StringList     `json:"trigger_keywords"    gorm:"type:text;not null"`
	ReplyTemplateID  *string        `json:"reply_template_id"   gorm:"type:char(36);index"`
	CustomReplyText  *string        `json:"custom_reply_text"   gorm:"type:text"`
	DelayMinutes     int            `json:"delay_minutes"       gorm:"not null;default:0;check:delay_minutes >= 0"`
	MaxRepliesPerDay int            `json:"max_replies_per_day" gorm:"not null;default:50;check:max_replies_per_day > 0"`
	IsActive         bool           `json:"is_active"           gorm:"not null;default:true"`
	ThreadsAccountID string         `json:"threads_account_id"  gorm:"type:char(36);not null;index"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"-"                   gorm:"index"`

	// ThreadsAccount is the connected account this rule replies from.
	ThreadsAccount ThreadsAccount `json:"threads_account,omitempty" gorm:"foreignKey:ThreadsAccountID;references:ID"`
	// ReplyTemplate is the optional reusable reply body. The association is
	// deliberately not cascading: a rule may outlive its template, in which
	// case the monitor falls back to CustomReplyText or the default reply.
	ReplyTemplate *ReplyTemplate `json:"reply_template,omitempty" gorm:"foreignKey:ReplyTemplateID;references:ID"`
}

// TableName returns the database table name for AutoReplyRule.
func (AutoReplyRule) TableName() string { return "auto_reply_rules" }

// ReplyTemplate is a reusable reply body owned by a user. Plain CRUD,
// independent of rules.
type ReplyTemplate struct {
	ID        string         `json:"id"         gorm:"type:char(36);primaryKey"`
	UserID    string         `json:"user_id"    gorm:"type:varchar(64);not null;index:idx_user_templates"`
	Name      string         `json:"name"       gorm:"type:varchar(255);not null"`
	Content   string         `json:"content"    gorm:"type:text;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"          gorm:"index"`
}

// TableName returns the database table name for ReplyTemplate.
func (ReplyTemplate) TableName() string { return "reply_templates" }

// ReplyHistory is one row per candidate/sent/failed reply and the unit of
// both idempotency and audit.
//
// Invariants:
//   - (OriginalPostID, AutoReplyRuleID) is unique: the monitor cannot create
//     a second row for the same post under the same rule, even across
//     overlapping runs. AutoReplyRuleID is nullable — a null rule id marks a
//     manually triggered reply, and SQLite keeps NULLs outside the unique
//     constraint.
//   - Status transitions only pending→sent or pending→failed; updates are
//     conditional on status = pending so terminal states stay terminal.
type ReplyHistory struct {
	ID                  string         `json:"id"                    gorm:"type:char(36);primaryKey"`
	UserID              string         `json:"user_id"               gorm:"type:varchar(64);not null;index:idx_user_history"`
	ThreadsAccountID    string         `json:"threads_account_id"    gorm:"type:char(36);not null;index"`
	AutoReplyRuleID     *string        `json:"auto_reply_rule_id"    gorm:"type:char(36);uniqueIndex:ux_post_rule,priority:2"`
	OriginalPostID      string         `json:"original_post_id"      gorm:"type:varchar(128);not null;uniqueIndex:ux_post_rule,priority:1"`
	OriginalPostContent *string        `json:"original_post_content" gorm:"type:text"`
	ReplyContent        string         `json:"reply_content"         gorm:"type:text;not null"`
	ReplyPostID         *string        `json:"reply_post_id"         gorm:"type:varchar(128)"`
	Status              string         `json:"status"                gorm:"type:varchar(16);not null;default:'pending';index;check:status IN ('pending','sent','failed')"`
	ErrorMessage        *string        `json:"error_message"         gorm:"type:text"`
	ScheduledFor        time.Time      `json:"scheduled_for"         gorm:"not null;index"`
	SentAt              *time.Time     `json:"sent_at"`
	CreatedAt           time.Time      `json:"created_at"            gorm:"index"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `json:"-"                     gorm:"index"`

	// ThreadsAccount carries the credentials the processor needs; preloaded
	// by the pending-reply query.
	ThreadsAccount ThreadsAccount `json:"-" gorm:"foreignKey:ThreadsAccountID;references:ID"`
	// AutoReplyRule is kept for display in history views; nil for manual replies.
	AutoReplyRule *AutoReplyRule `json:"auto_reply_rule,omitempty" gorm:"foreignKey:AutoReplyRuleID;references:ID"`
}

// TableName returns the database table name for ReplyHistory.
func (ReplyHistory) TableName() string { return "reply_history" }
