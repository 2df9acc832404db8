// Package services – AccountService
//
// This file implements the AccountService, which owns the lifecycle of
// connected Threads accounts: completing the OAuth authorization-code flow
// (code → short-lived token → long-lived token → profile → upsert), listing
// accounts, soft-disconnecting them, and refreshing long-lived tokens before
// their ~60-day expiry.
//
// Service-level errors (e.g. ErrAccountNotFound, ErrTokenExpired) are
// returned for predictable cases so handlers can map them to HTTP results
// consistently.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-threads-autoreply/internal/domain"
	"github.com/tbourn/go-threads-autoreply/internal/repo"
)

// defaultTokenTTL is the documented validity window of a long-lived Threads
// token. Used when the token endpoint does not report expires_in.
const defaultTokenTTL = 60 * 24 * time.Hour

// AccountService provides connected-account operations. It enforces
// ownership constraints and keeps token expiry bookkeeping in one place.
type AccountService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// OAuth performs the token-lifecycle calls against the graph API.
	OAuth OAuthProvider
	// Clients builds an API client bound to an account token (profile fetch).
	Clients ClientFactory

	// TokenTTL overrides the 60-day default expiry window (tests).
	TokenTTL time.Duration
	// Now returns the current time; nil means time.Now.
	Now func() time.Time
}

func (s *AccountService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *AccountService) tokenTTL(expiresIn int64) time.Duration {
	if expiresIn > 0 {
		return time.Duration(expiresIn) * time.Second
	}
	if s.TokenTTL > 0 {
		return s.TokenTTL
	}
	return defaultTokenTTL
}

// AuthorizeURL returns the OAuth redirect target for userID. The user id
// rides in the state parameter so the callback can bind the code to the
// initiating user.
func (s *AccountService) AuthorizeURL(userID string) string {
	return s.OAuth.AuthorizeURL(userID)
}

// Connect completes the OAuth flow for userID: exchanges the callback code
// for a short-lived token, upgrades it to a long-lived one, fetches the
// Threads profile, and upserts the account. Re-connecting an existing
// account replaces its token and reactivates it.
func (s *AccountService) Connect(ctx context.Context, userID, code string) (*domain.ThreadsAccount, error) {
	tr := otel.Tracer("services/AccountService")
	ctx, span := tr.Start(ctx, "Connect",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	if strings.TrimSpace(code) == "" {
		return nil, ErrMissingCode
	}

	short, err := s.OAuth.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}
	long, err := s.OAuth.ExchangeLongLived(ctx, short.AccessToken)
	if err != nil {
		return nil, err
	}

	profile, err := s.Clients(long.AccessToken).Profile(ctx, "me")
	if err != nil {
		return nil, err
	}

	expiresAt := s.now().Add(s.tokenTTL(long.ExpiresIn))
	return repo.UpsertAccount(ctx, s.DB, userID, profile.ID, profile.Username, long.AccessToken, expiresAt)
}

// List returns all of the user's connected accounts, newest first.
func (s *AccountService) List(ctx context.Context, userID string) ([]domain.ThreadsAccount, error) {
	return repo.ListAccounts(ctx, s.DB, userID)
}

// Disconnect soft-removes an account by clearing its active flag. History
// and rules keep their references; the monitor simply skips the account.
func (s *AccountService) Disconnect(ctx context.Context, userID, accountID string) error {
	err := repo.DeactivateAccount(ctx, s.DB, accountID, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrAccountNotFound
	}
	return err
}

// RefreshToken refreshes an account's long-lived token, restarting its
// validity window. An already-expired token cannot be refreshed — the graph
// API requires re-authorization — so ErrTokenExpired is returned instead of
// an API round-trip.
func (s *AccountService) RefreshToken(ctx context.Context, userID, accountID string) (*domain.ThreadsAccount, error) {
	tr := otel.Tracer("services/AccountService")
	ctx, span := tr.Start(ctx, "RefreshToken",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("account.id", accountID),
		),
	)
	defer span.End()

	account, err := repo.GetActiveAccount(ctx, s.DB, accountID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	now := s.now()
	if account.TokenExpired(now) {
		return nil, ErrTokenExpired
	}

	tok, err := s.OAuth.RefreshLongLived(ctx, account.AccessToken)
	if err != nil {
		return nil, err
	}

	expiresAt := now.Add(s.tokenTTL(tok.ExpiresIn))
	if err := repo.UpdateAccountToken(ctx, s.DB, accountID, userID, tok.AccessToken, expiresAt); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	account.AccessToken = tok.AccessToken
	account.TokenExpiresAt = expiresAt.UTC()
	return account, nil
}
