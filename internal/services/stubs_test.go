package services

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-threads-autoreply/internal/domain"
	"github.com/tbourn/go-threads-autoreply/internal/threads"
)

func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("services_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := db.AutoMigrate(
		&domain.ThreadsAccount{},
		&domain.ReplyTemplate{},
		&domain.AutoReplyRule{},
		&domain.ReplyHistory{},
		&domain.Idempotency{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func fixedNow(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func seedSvcAccount(t *testing.T, db *gorm.DB, id, userID string, active bool, expiresAt time.Time) domain.ThreadsAccount {
	t.Helper()
	a := domain.ThreadsAccount{
		ID: id, UserID: userID, ThreadsUserID: "th-" + id, Username: "acct-" + id,
		AccessToken: "tok-" + id, TokenExpiresAt: expiresAt, IsActive: active,
	}
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("seed account %s: %v", id, err)
	}
	return a
}

type replyCall struct {
	parentID string
	text     string
}

// stubThreadsClient is a canned ThreadsClient shared across factory calls; the
// factory records the last token it was asked to bind.
type stubThreadsClient struct {
	profile    *threads.User
	profileErr error
	posts      []threads.Post
	postsErr   error
	replyID    string
	replyErr   error

	postsCalls int
	replyCalls []replyCall
	lastToken  string
}

func (c *stubThreadsClient) Profile(_ context.Context, _ string) (*threads.User, error) {
	if c.profileErr != nil {
		return nil, c.profileErr
	}
	return c.profile, nil
}

func (c *stubThreadsClient) RecentPosts(_ context.Context, _ string, _ int) ([]threads.Post, error) {
	c.postsCalls++
	if c.postsErr != nil {
		return nil, c.postsErr
	}
	return c.posts, nil
}

func (c *stubThreadsClient) Reply(_ context.Context, parentID, text string) (string, error) {
	c.replyCalls = append(c.replyCalls, replyCall{parentID: parentID, text: text})
	if c.replyErr != nil {
		return "", c.replyErr
	}
	return c.replyID, nil
}

func stubFactory(c *stubThreadsClient) ClientFactory {
	return func(token string) ThreadsClient {
		c.lastToken = token
		return c
	}
}

// threadsClientFunc adapts a reply function to ThreadsClient for tests that
// need per-call behavior.
type threadsClientFunc func(ctx context.Context, parentID, text string) (string, error)

func (f threadsClientFunc) Profile(context.Context, string) (*threads.User, error) {
	return nil, nil
}

func (f threadsClientFunc) RecentPosts(context.Context, string, int) ([]threads.Post, error) {
	return nil, nil
}

func (f threadsClientFunc) Reply(ctx context.Context, parentID, text string) (string, error) {
	return f(ctx, parentID, text)
}

// stubOAuth is a canned OAuthProvider recording its inputs.
type stubOAuth struct {
	authorizeURL string

	short       *threads.TokenResponse
	long        *threads.TokenResponse
	refreshed   *threads.TokenResponse
	exchangeErr error
	longErr     error
	refreshErr  error

	exchangedCode string
	longInput     string
	refreshInput  string
}

func (o *stubOAuth) AuthorizeURL(string) string { return o.authorizeURL }

func (o *stubOAuth) ExchangeCode(_ context.Context, code string) (*threads.TokenResponse, error) {
	o.exchangedCode = code
	if o.exchangeErr != nil {
		return nil, o.exchangeErr
	}
	return o.short, nil
}

func (o *stubOAuth) ExchangeLongLived(_ context.Context, token string) (*threads.TokenResponse, error) {
	o.longInput = token
	if o.longErr != nil {
		return nil, o.longErr
	}
	return o.long, nil
}

func (o *stubOAuth) RefreshLongLived(_ context.Context, token string) (*threads.TokenResponse, error) {
	o.refreshInput = token
	if o.refreshErr != nil {
		return nil, o.refreshErr
	}
	return o.refreshed, nil
}

// quotaStub pins the daily-limit answer for monitor tests.
type quotaStub struct {
	allowed bool
	err     error
}

func (q quotaStub) CheckDailyLimit(context.Context, string, string) (bool, error) {
	return q.allowed, q.err
}
