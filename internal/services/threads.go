// Package services – Threads API contracts
//
// The pipeline never talks to the graph API through the concrete
// threads.Client directly; it goes through the narrow interfaces below so
// tests can substitute stubs and so a future transport change stays local
// to the factory wiring.
package services

import (
	"context"

	"github.com/tbourn/go-threads-autoreply/internal/threads"
)

// ThreadsClient is the subset of the Threads graph API consumed by the
// monitor, processor, and manual-reply services. Implementations are bound
// to a single account's access token.
type ThreadsClient interface {
	// Profile fetches the token owner's profile ("me").
	Profile(ctx context.Context, userID string) (*threads.User, error)
	// RecentPosts returns up to limit recent posts for the token owner.
	RecentPosts(ctx context.Context, userID string, limit int) ([]threads.Post, error)
	// Reply publishes a text reply under parentID and returns the reply id.
	Reply(ctx context.Context, parentID, text string) (string, error)
}

// ClientFactory builds a ThreadsClient bound to accessToken. Job services
// construct one client per account group per run.
type ClientFactory func(accessToken string) ThreadsClient

// NewClientFactory returns the production factory backed by threads.Client
// with the given options (base URL, shared http.Client).
func NewClientFactory(opts ...threads.Option) ClientFactory {
	return func(accessToken string) ThreadsClient {
		return threads.NewClient(accessToken, opts...)
	}
}

// OAuthProvider is the token-lifecycle surface of the Threads API used by
// the account service. *threads.OAuth satisfies it.
type OAuthProvider interface {
	AuthorizeURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*threads.TokenResponse, error)
	ExchangeLongLived(ctx context.Context, shortLivedToken string) (*threads.TokenResponse, error)
	RefreshLongLived(ctx context.Context, accessToken string) (*threads.TokenResponse, error)
}
