// Package threads is a thin client for the Threads (Meta) graph API. It
// covers the operations the auto-reply pipeline needs: profile lookup, recent
// post listing, publishing replies, and the two token-lifecycle calls
// (short-lived → long-lived exchange, long-lived refresh).
//
// Design notes:
//   - A Client is bound to one access token (one connected account); the
//     base URL and http.Client are injectable so tests can point it at an
//     httptest server.
//   - Non-2xx responses surface as *APIError carrying the HTTP status and a
//     bounded slice of the response body, so callers can record a useful
//     failure message without parsing graph API error payloads.
//   - No retries or backoff: callers decide what a failed call means (the
//     reply pipeline records it as a failed history row and moves on).
package threads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the production Threads graph API endpoint.
const DefaultBaseURL = "https://graph.threads.net"

// maxErrBody caps how much of an error response body is retained in APIError.
const maxErrBody = 512

// User is a Threads profile as returned by the graph API.
type User struct {
	ID                       string `json:"id"`
	Username                 string `json:"username"`
	Name                     string `json:"name,omitempty"`
	ThreadsProfilePictureURL string `json:"threads_profile_picture_url,omitempty"`
	ThreadsBiography         string `json:"threads_biography,omitempty"`
}

// Post is a single thread/post. Text is optional: media-only posts carry no
// text and can never match a keyword rule.
type Post struct {
	ID               string `json:"id"`
	MediaProductType string `json:"media_product_type"`
	MediaType        string `json:"media_type"`
	Text             string `json:"text,omitempty"`
	Timestamp        string `json:"timestamp"`
	Username         string `json:"username"`
	Permalink        string `json:"permalink"`
}

// TokenResponse is the payload of the token exchange and refresh endpoints.
// UserID is only present on the short-lived code exchange.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in,omitempty"`
	UserID      string `json:"user_id,omitempty"`
}

// APIError is a structured failure for a non-2xx graph API response.
type APIError struct {
	// StatusCode is the HTTP status code of the failed response.
	StatusCode int
	// Status is the HTTP status text (e.g. "403 Forbidden").
	Status string
	// Body holds up to maxErrBody bytes of the response body.
	Body string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("threads api: %s", e.Status)
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the graph API base URL (tests, proxies).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithHTTPClient supplies the http.Client used for all calls.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// Client calls the Threads graph API on behalf of one access token.
// It is safe for concurrent use.
type Client struct {
	baseURL     string
	accessToken string
	http        *http.Client
}

// NewClient returns a Client bound to accessToken.
func NewClient(accessToken string, opts ...Option) *Client {
	c := &Client{
		baseURL:     DefaultBaseURL,
		accessToken: accessToken,
		http:        &http.Client{Timeout: 15 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Profile fetches profile information for userID ("me" for the token owner).
func (c *Client) Profile(ctx context.Context, userID string) (*User, error) {
	if userID == "" {
		userID = "me"
	}
	q := url.Values{}
	q.Set("fields", "id,username,name,threads_profile_picture_url,threads_biography")
	q.Set("access_token", c.accessToken)

	var u User
	if err := c.getJSON(ctx, fmt.Sprintf("%s/%s?%s", c.baseURL, url.PathEscape(userID), q.Encode()), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// RecentPosts returns up to limit of the account's most recent posts,
// newest first. limit values <= 0 default to 25.
func (c *Client) RecentPosts(ctx context.Context, userID string, limit int) ([]Post, error) {
	if userID == "" {
		userID = "me"
	}
	if limit <= 0 {
		limit = 25
	}
	q := url.Values{}
	q.Set("fields", "id,media_product_type,media_type,text,timestamp,username,permalink")
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("access_token", c.accessToken)

	var out struct {
		Data []Post `json:"data"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("%s/%s/threads?%s", c.baseURL, url.PathEscape(userID), q.Encode()), &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// CreatePost publishes a new text post and returns the created post id.
func (c *Client) CreatePost(ctx context.Context, text string) (string, error) {
	return c.publish(ctx, map[string]string{
		"media_type":   "TEXT",
		"text":         text,
		"access_token": c.accessToken,
	})
}

// Reply publishes a text reply under parentID and returns the reply post id.
func (c *Client) Reply(ctx context.Context, parentID, text string) (string, error) {
	return c.publish(ctx, map[string]string{
		"media_type":   "TEXT",
		"text":         text,
		"reply_to_id":  parentID,
		"access_token": c.accessToken,
	})
}

func (c *Client) publish(ctx context.Context, body map[string]string) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/me/threads", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	var out struct {
		ID string `json:"id"`
	}
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// ExchangeLongLived trades a short-lived token for a long-lived (~60 day) one.
func ExchangeLongLived(ctx context.Context, shortLivedToken, clientSecret string, opts ...Option) (*TokenResponse, error) {
	c := NewClient("", opts...)
	q := url.Values{}
	q.Set("grant_type", "th_exchange_token")
	q.Set("client_secret", clientSecret)
	q.Set("access_token", shortLivedToken)

	var tok TokenResponse
	if err := c.getJSON(ctx, c.baseURL+"/access_token?"+q.Encode(), &tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

// RefreshLongLived refreshes an unexpired long-lived token, restarting its
// ~60-day validity window.
func RefreshLongLived(ctx context.Context, accessToken, clientSecret string, opts ...Option) (*TokenResponse, error) {
	c := NewClient("", opts...)
	q := url.Values{}
	q.Set("grant_type", "th_refresh_token")
	q.Set("access_token", accessToken)
	q.Set("client_secret", clientSecret)

	var tok TokenResponse
	if err := c.getJSON(ctx, c.baseURL+"/refresh_access_token?"+q.Encode(), &tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// do executes req, maps non-2xx responses to *APIError, and decodes the body
// into out when out is non-nil.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
		return &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
