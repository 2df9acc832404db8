// OAuth helpers for the Threads authorization-code flow.
//
// The flow is: redirect the user to AuthorizeURL → Threads calls back with a
// code → ExchangeCode trades the code for a short-lived token →
// ExchangeLongLived (client.go) trades that for the ~60-day token stored on
// the account.
package threads

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// AuthorizeHost is the browser-facing Threads OAuth endpoint.
const AuthorizeHost = "https://threads.net"

// Scopes requested for connected accounts. Publishing and insights are both
// needed: replies are publishes, and the dashboard reads account insights.
const OAuthScopes = "threads_basic,threads_content_publish,threads_manage_insights"

// AuthorizeURL builds the OAuth authorize redirect target. state is round-
// tripped by Threads and is used to bind the callback to the initiating user.
func AuthorizeURL(clientID, redirectURI, state string) string {
	q := url.Values{}
	q.Set("client_id", clientID)
	q.Set("redirect_uri", redirectURI)
	q.Set("scope", OAuthScopes)
	q.Set("response_type", "code")
	if state != "" {
		q.Set("state", state)
	}
	return AuthorizeHost + "/oauth/authorize?" + q.Encode()
}

// OAuth bundles the app credentials for the authorization-code flow so that
// callers (the account service) hold one configured value instead of passing
// client id/secret/redirect through every call.
type OAuth struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	// Options are applied to every underlying client (base URL, http.Client).
	Options []Option
}

// AuthorizeURL builds the authorize redirect for this app with state.
func (o *OAuth) AuthorizeURL(state string) string {
	return AuthorizeURL(o.ClientID, o.RedirectURI, state)
}

// ExchangeCode trades a callback code for a short-lived token.
func (o *OAuth) ExchangeCode(ctx context.Context, code string) (*TokenResponse, error) {
	return ExchangeCode(ctx, code, o.ClientID, o.ClientSecret, o.RedirectURI, o.Options...)
}

// ExchangeLongLived trades a short-lived token for the ~60-day token.
func (o *OAuth) ExchangeLongLived(ctx context.Context, shortLivedToken string) (*TokenResponse, error) {
	return ExchangeLongLived(ctx, shortLivedToken, o.ClientSecret, o.Options...)
}

// RefreshLongLived refreshes an unexpired long-lived token.
func (o *OAuth) RefreshLongLived(ctx context.Context, accessToken string) (*TokenResponse, error) {
	return RefreshLongLived(ctx, accessToken, o.ClientSecret, o.Options...)
}

// ExchangeCode trades an authorization code for a short-lived access token
// via a form-encoded POST to the graph API.
func ExchangeCode(ctx context.Context, code, clientID, clientSecret, redirectURI string, opts ...Option) (*TokenResponse, error) {
	c := NewClient("", opts...)

	form := url.Values{}
	form.Set("client_id", clientID)
	form.Set("client_secret", clientSecret)
	form.Set("code", code)
	form.Set("grant_type", "authorization_code")
	form.Set("redirect_uri", redirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/oauth/access_token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
		return nil, &APIError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(body)}
	}

	var tok TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return nil, err
	}
	return &tok, nil
}
