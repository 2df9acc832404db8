// Package services defines the business logic for connected accounts,
// auto-reply rules, templates, reply history, and the monitor/processor/
// cleanup pipeline. This file centralizes common service-level error values
// so that they can be consistently returned by service methods and checked
// by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler layer.
package services

import "errors"

// Account-related errors.
var (
	// ErrAccountNotFound indicates that the requested Threads account does
	// not exist, is disconnected, or is not accessible to the current user.
	ErrAccountNotFound = errors.New("threads account not found")

	// ErrTokenExpired is returned when an operation requires a live access
	// token but the account's token has passed its expiry. Recovery requires
	// the user to re-authorize; there is no refresh path for a dead token.
	ErrTokenExpired = errors.New("access token expired")

	// ErrMissingCode is returned when the OAuth callback is invoked without
	// an authorization code.
	ErrMissingCode = errors.New("authorization code is required")
)

// Rule-related errors.
var (
	// ErrRuleNotFound indicates that the requested rule does not exist or is
	// not accessible to the current user.
	ErrRuleNotFound = errors.New("rule not found")

	// ErrEmptyName is returned when a rule or template is created or renamed
	// with a blank name.
	ErrEmptyName = errors.New("name is required")

	// ErrNoKeywords is returned when a rule has no usable trigger keywords
	// after normalization.
	ErrNoKeywords = errors.New("at least one trigger keyword is required")

	// ErrInvalidReplySource is returned when a rule does not set exactly one
	// reply source (template reference or inline custom text).
	ErrInvalidReplySource = errors.New("exactly one of template or custom text is required")

	// ErrInvalidDelay is returned for a negative send delay.
	ErrInvalidDelay = errors.New("delay must be zero or more minutes")

	// ErrInvalidDailyCap is returned for a non-positive daily reply cap.
	ErrInvalidDailyCap = errors.New("daily reply cap must be positive")
)

// Template-related errors.
var (
	// ErrTemplateNotFound indicates that the referenced template does not
	// exist or is not accessible to the current user.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrEmptyContent is returned when a template is created or updated with
	// blank content.
	ErrEmptyContent = errors.New("content is required")
)

// Reply/history-related errors.
var (
	// ErrEmptyReply is returned when a manual reply has no text.
	ErrEmptyReply = errors.New("reply text is required")

	// ErrPostRequired is returned when a manual reply names no target post.
	ErrPostRequired = errors.New("post id is required")

	// ErrInvalidStatus is returned for a history filter outside
	// pending/sent/failed.
	ErrInvalidStatus = errors.New("status must be pending, sent, or failed")
)
