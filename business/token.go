package business

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/revolut-cli/revolut-cli/api"
	"github.com/revolut-cli/revolut-cli/internal/debug"
)

const (
	clientAssertionType = "urn:ietf:params:oauth:client-assertion-type:jwt-bearer"

	// loginTimeout bounds a shared login once no caller can cancel it.
	loginTimeout = api.DefaultTimeout
)

// TokenResponse is returned by the token endpoint for a refresh token grant.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// AuthorizationCodeResponse is returned for an authorization code grant and
// carries the refresh token to use from then on.
type AuthorizationCodeResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}

type cachedToken struct {
	accessToken string
	expiresAt   time.Time
}

// tokenManager owns the access token of one Client. The cache is replaced as a
// whole under mu; concurrent callers that find it stale share a single login.
type tokenManager struct {
	endpoint api.Endpoint
	http     *http.Client
	auth     Authentication
	now      func() time.Time
	metrics  *api.Metrics

	mu    sync.Mutex
	token *cachedToken
	// issuedRefreshToken is set by an authorization code exchange and takes
	// precedence over the configured refresh token.
	issuedRefreshToken string

	group singleflight.Group
}

func (m *tokenManager) fresh() (cachedToken, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == nil || !m.token.expiresAt.After(m.now()) {
		return cachedToken{}, false
	}
	return *m.token, true
}

func (m *tokenManager) store(accessToken string, expiresIn int64) {
	token := &cachedToken{
		accessToken: accessToken,
		expiresAt:   m.now().Add(time.Duration(expiresIn) * time.Second),
	}
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
}

// BearerToken implements api.Authorizer.
func (m *tokenManager) BearerToken(ctx context.Context) (string, error) {
	return m.ensureToken(ctx)
}

func (m *tokenManager) ensureLoggedIn(ctx context.Context) error {
	_, err := m.ensureToken(ctx)
	return err
}

// ensureToken returns the cached access token, logging in first when it is
// stale. The shared login is detached from the cancellation of whichever
// caller started it; every caller stops waiting when its own ctx is done.
func (m *tokenManager) ensureToken(ctx context.Context) (string, error) {
	if token, ok := m.fresh(); ok {
		return token.accessToken, nil
	}
	ch := m.group.DoChan("login", func() (any, error) {
		// Another caller may have finished a login while we queued.
		if token, ok := m.fresh(); ok {
			return token.accessToken, nil
		}
		loginCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loginTimeout)
		defer cancel()
		return m.login(loginCtx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", api.NewClientError(api.CannotLogIn, "gave up waiting for login", ctx.Err())
	}
}

// login refreshes the access token and returns the one it cached. A token
// that is already expired is still returned; the next call refreshes again.
func (m *tokenManager) login(ctx context.Context) (string, error) {
	resp, err := m.loginWithRefreshToken(ctx)
	if err != nil {
		return "", err
	}
	m.store(resp.AccessToken, resp.ExpiresIn)
	slog.Info("refreshed business access token", "expires_in", resp.ExpiresIn)
	return resp.AccessToken, nil
}

func (m *tokenManager) refreshToken() (string, bool) {
	m.mu.Lock()
	issued := m.issuedRefreshToken
	m.mu.Unlock()
	if issued != "" {
		return issued, true
	}
	return m.auth.RefreshToken()
}

func (m *tokenManager) loginWithRefreshToken(ctx context.Context) (TokenResponse, error) {
	refreshToken, ok := m.refreshToken()
	if !ok {
		return TokenResponse{}, api.NewClientError(api.CannotLogIn, "missing refresh token", nil)
	}
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	form.Set("client_assertion_type", clientAssertionType)
	form.Set("client_assertion", m.auth.ClientAssertion())

	var out TokenResponse
	err := m.exchange(ctx, form, &out)
	m.metrics.ObserveLogin(err)
	return out, err
}

func (m *tokenManager) loginWithAuthorizationCode(ctx context.Context) (AuthorizationCodeResponse, error) {
	code, ok := m.auth.AuthorizationCode()
	if !ok {
		return AuthorizationCodeResponse{}, api.NewClientError(api.CannotLogIn, "missing authorization code", nil)
	}
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_assertion_type", clientAssertionType)
	form.Set("client_assertion", m.auth.ClientAssertion())

	var out AuthorizationCodeResponse
	err := m.exchange(ctx, form, &out)
	m.metrics.ObserveLogin(err)
	if err != nil {
		return out, err
	}

	m.store(out.AccessToken, out.ExpiresIn)
	if out.RefreshToken != "" {
		m.mu.Lock()
		m.issuedRefreshToken = out.RefreshToken
		m.mu.Unlock()
	}
	return out, nil
}

// exchange posts a grant to the token endpoint. Every failure is CannotLogIn.
func (m *tokenManager) exchange(ctx context.Context, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint.String(), strings.NewReader(form.Encode()))
	if err != nil {
		return api.NewClientError(api.CannotLogIn, "failed to create token request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := m.http.Do(req)
	if err != nil {
		return api.NewClientError(api.CannotLogIn, "token request failed", err)
	}
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return api.NewClientError(api.CannotLogIn, "failed to read token response", err)
	}
	if debug.IsEnabled(ctx) {
		slog.Debug("token exchange complete", "grant", form.Get("grant_type"), "status", resp.StatusCode, "duration", time.Since(start))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return api.NewClientError(api.CannotLogIn,
			fmt.Sprintf("token endpoint returned status %d", resp.StatusCode),
			api.DecodeBackendError(resp.StatusCode, body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return api.NewClientError(api.CannotLogIn, "failed to decode token response", err)
	}
	return nil
}
