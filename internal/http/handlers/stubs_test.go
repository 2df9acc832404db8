package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-threads-autoreply/internal/domain"
	"github.com/tbourn/go-threads-autoreply/internal/repo"
	"github.com/tbourn/go-threads-autoreply/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

//
// Service stubs
//

type stubAccounts struct {
	authorize     string
	connected     *domain.ThreadsAccount
	connectErr    error
	accounts      []domain.ThreadsAccount
	listErr       error
	disconnectErr error
	refreshed     *domain.ThreadsAccount
	refreshErr    error

	gotUser      string
	gotCode      string
	gotAccountID string
}

func (s *stubAccounts) AuthorizeURL(userID string) string {
	s.gotUser = userID
	return s.authorize
}

func (s *stubAccounts) Connect(_ context.Context, userID, code string) (*domain.ThreadsAccount, error) {
	s.gotUser, s.gotCode = userID, code
	return s.connected, s.connectErr
}

func (s *stubAccounts) List(_ context.Context, userID string) ([]domain.ThreadsAccount, error) {
	s.gotUser = userID
	return s.accounts, s.listErr
}

func (s *stubAccounts) Disconnect(_ context.Context, userID, accountID string) error {
	s.gotUser, s.gotAccountID = userID, accountID
	return s.disconnectErr
}

func (s *stubAccounts) RefreshToken(_ context.Context, userID, accountID string) (*domain.ThreadsAccount, error) {
	s.gotUser, s.gotAccountID = userID, accountID
	return s.refreshed, s.refreshErr
}

type stubRules struct {
	created   *domain.AutoReplyRule
	createErr error
	rules     []domain.AutoReplyRule
	listErr   error
	updateErr error
	deleteErr error

	gotUser   string
	gotRuleID string
	gotCreate services.CreateRuleInput
	gotUpdate services.UpdateRuleInput
}

func (s *stubRules) Create(_ context.Context, userID string, in services.CreateRuleInput) (*domain.AutoReplyRule, error) {
	s.gotUser, s.gotCreate = userID, in
	return s.created, s.createErr
}

func (s *stubRules) List(_ context.Context, userID string) ([]domain.AutoReplyRule, error) {
	s.gotUser = userID
	return s.rules, s.listErr
}

func (s *stubRules) Update(_ context.Context, userID, ruleID string, in services.UpdateRuleInput) error {
	s.gotUser, s.gotRuleID, s.gotUpdate = userID, ruleID, in
	return s.updateErr
}

func (s *stubRules) Delete(_ context.Context, userID, ruleID string) error {
	s.gotUser, s.gotRuleID = userID, ruleID
	return s.deleteErr
}

type stubTemplates struct {
	created   *domain.ReplyTemplate
	createErr error
	templates []domain.ReplyTemplate
	listErr   error
	updateErr error
	deleteErr error

	gotUser       string
	gotTemplateID string
	gotName       string
	gotContent    string
}

func (s *stubTemplates) Create(_ context.Context, userID, name, content string) (*domain.ReplyTemplate, error) {
	s.gotUser, s.gotName, s.gotContent = userID, name, content
	return s.created, s.createErr
}

func (s *stubTemplates) List(_ context.Context, userID string) ([]domain.ReplyTemplate, error) {
	s.gotUser = userID
	return s.templates, s.listErr
}

func (s *stubTemplates) Update(_ context.Context, userID, templateID, name, content string) error {
	s.gotUser, s.gotTemplateID, s.gotName, s.gotContent = userID, templateID, name, content
	return s.updateErr
}

func (s *stubTemplates) Delete(_ context.Context, userID, templateID string) error {
	s.gotUser, s.gotTemplateID = userID, templateID
	return s.deleteErr
}

type stubHistory struct {
	rows     []domain.ReplyHistory
	total    int64
	listErr  error
	stats    *repo.DashboardStats
	statsErr error

	gotUser     string
	gotStatus   string
	gotPage     int
	gotPageSize int
}

func (s *stubHistory) ListPage(_ context.Context, userID, status string, page, pageSize int) ([]domain.ReplyHistory, int64, error) {
	s.gotUser, s.gotStatus, s.gotPage, s.gotPageSize = userID, status, page, pageSize
	return s.rows, s.total, s.listErr
}

func (s *stubHistory) Stats(_ context.Context, userID string) (*repo.DashboardStats, error) {
	s.gotUser = userID
	return s.stats, s.statsErr
}

type idemRecord struct {
	key     string
	replyID string
	status  int
	ttl     time.Duration
}

type stubReplies struct {
	sent         *domain.ReplyHistory
	sendErr      error
	replayRow    *domain.ReplyHistory
	replayStatus int
	replayErr    error
	recordErr    error

	gotSend  []string
	replays  []string
	recorded []idemRecord
}

func (s *stubReplies) Send(_ context.Context, userID, accountID, postID, replyText string) (*domain.ReplyHistory, error) {
	s.gotSend = []string{userID, accountID, postID, replyText}
	return s.sent, s.sendErr
}

func (s *stubReplies) Replay(_ context.Context, userID, accountID, key string) (*domain.ReplyHistory, int, error) {
	s.replays = append(s.replays, key)
	if s.replayErr != nil {
		return nil, 0, s.replayErr
	}
	return s.replayRow, s.replayStatus, nil
}

func (s *stubReplies) RecordIdempotency(_ context.Context, userID, accountID, key, replyID string, status int, ttl time.Duration) error {
	s.recorded = append(s.recorded, idemRecord{key: key, replyID: replyID, status: status, ttl: ttl})
	return s.recordErr
}

//
// Harness
//

type stubSet struct {
	accounts  *stubAccounts
	rules     *stubRules
	templates *stubTemplates
	history   *stubHistory
	replies   *stubReplies
}

func newStubSet() *stubSet {
	return &stubSet{
		accounts:  &stubAccounts{},
		rules:     &stubRules{},
		templates: &stubTemplates{},
		history:   &stubHistory{},
		replies:   &stubReplies{},
	}
}

func newTestHandlers(s *stubSet) *Handlers {
	return New(s.accounts, s.rules, s.templates, s.history, s.replies, "http://app.local", time.Hour)
}

func perform(r http.Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func mustContain(t *testing.T, body, want string) {
	t.Helper()
	if !strings.Contains(body, want) {
		t.Fatalf("body %q does not contain %q", body, want)
	}
}

func mustNotContain(t *testing.T, body, ban string) {
	t.Helper()
	if strings.Contains(body, ban) {
		t.Fatalf("body %q must not contain %q", body, ban)
	}
}
