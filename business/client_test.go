package business

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revolut-cli/revolut-cli/api"
	"github.com/revolut-cli/revolut-cli/internal/revolutest"
)

const sandboxHost = "sandbox-b2b.revolut.com"

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func refreshAuth(t *testing.T) Authentication {
	t.Helper()
	auth, err := NewAuthenticationBuilder().WithClientAssertion("jwt").WithRefreshToken("rt").Build()
	require.NoError(t, err)
	return auth
}

func newSandboxClient(t *testing.T, srv *revolutest.Server, auth Authentication, clock *fakeClock) *Client {
	t.Helper()
	client, err := NewClientBuilder().
		WithSandboxEnvironment().
		WithAuthentication(auth).
		WithOptions(api.WithHTTPClient(srv.Client()), api.WithClock(clock.Now)).
		Build()
	require.NoError(t, err)
	return client
}

func newProductionClient(t *testing.T, srv *revolutest.Server) *Client {
	t.Helper()
	client, err := NewClientBuilder().
		WithProductionEnvironment().
		WithAuthentication(refreshAuth(t)).
		WithOptions(api.WithHTTPClient(srv.Client())).
		Build()
	require.NoError(t, err)
	return client
}

// apiRequests drops token exchanges from the recorded requests.
func apiRequests(srv *revolutest.Server) []revolutest.Request {
	var out []revolutest.Request
	for _, r := range srv.Requests() {
		if r.Path != "/api/1.0/auth/token" {
			out = append(out, r)
		}
	}
	return out
}

func TestClientBuilderRequiresEnvironmentAndAuthentication(t *testing.T) {
	_, err := NewClientBuilder().WithAuthentication(refreshAuth(t)).Build()
	require.Error(t, err)
	assert.True(t, api.IsClientBuilderError(err))
	assert.Contains(t, err.Error(), "no environment selected")

	_, err = NewClientBuilder().WithSandboxEnvironment().Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no authentication set")
}

func TestClientBuilderRejectsSecondEnvironment(t *testing.T) {
	_, err := NewClientBuilder().
		WithSandboxEnvironment().
		WithProductionEnvironment().
		WithAuthentication(refreshAuth(t)).
		Build()
	require.Error(t, err)

	var builderErr *api.ClientBuilderError
	require.ErrorAs(t, err, &builderErr)
	assert.Equal(t, api.IncompleteBuilder, builderErr.Kind)
}

func TestClientBuilderRejectsSecondAuthentication(t *testing.T) {
	_, err := NewClientBuilder().
		WithSandboxEnvironment().
		WithAuthentication(refreshAuth(t)).
		WithAuthentication(refreshAuth(t)).
		Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authentication already set")
}

func TestClientBuilderRejectsZeroAuthentication(t *testing.T) {
	_, err := NewClientBuilder().WithSandboxEnvironment().WithAuthentication(Authentication{}).Build()
	require.Error(t, err)
}

func TestClientBuilderInvalidProxy(t *testing.T) {
	_, err := NewClientBuilder().
		WithSandboxEnvironment().
		WithAuthentication(refreshAuth(t)).
		WithOptions(api.WithProxy("not a url")).
		Build()
	require.Error(t, err)

	var builderErr *api.ClientBuilderError
	require.ErrorAs(t, err, &builderErr)
	assert.Equal(t, api.CannotInstantiateClient, builderErr.Kind)
}

func TestClientEnvironment(t *testing.T) {
	srv := revolutest.NewServer(t)
	client := newSandboxClient(t, srv, refreshAuth(t), newFakeClock())

	assert.Equal(t, api.ProductBusiness, client.Environment().Product())
	assert.True(t, client.Environment().IsSandbox())
	assert.NotNil(t, client.HTTPClient())
}

func TestLoginSendsRefreshTokenForm(t *testing.T) {
	srv := revolutest.NewServer(t)
	var form url.Values
	srv.HandleToken(func(f url.Values) (int, any) {
		form = f
		return http.StatusOK, map[string]any{"access_token": "at", "token_type": "bearer", "expires_in": 2399}
	})
	client := newSandboxClient(t, srv, refreshAuth(t), newFakeClock())

	resp, err := client.LoginWithRefreshToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "at", resp.AccessToken)
	assert.Equal(t, int64(2399), resp.ExpiresIn)

	assert.Equal(t, "refresh_token", form.Get("grant_type"))
	assert.Equal(t, "rt", form.Get("refresh_token"))
	assert.Equal(t, "urn:ietf:params:oauth:client-assertion-type:jwt-bearer", form.Get("client_assertion_type"))
	assert.Equal(t, "jwt", form.Get("client_assertion"))

	req, ok := srv.LastRequest()
	require.True(t, ok)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, sandboxHost, req.Host)
	assert.Equal(t, "application/x-www-form-urlencoded", req.Header.Get("Content-Type"))
}

func TestFreshTokenIsReused(t *testing.T) {
	srv := revolutest.NewServer(t)
	srv.HandleToken(revolutest.IssueToken("at", 1))
	srv.Router.Get("/api/1.0/accounts", revolutest.Reply(http.StatusOK, []any{}))
	clock := newFakeClock()
	client := newSandboxClient(t, srv, refreshAuth(t), clock)
	ctx := context.Background()

	_, err := client.ListAccounts(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, srv.Logins())

	// expires_at = now + 1s is still in the future.
	_, err = client.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, srv.Logins())

	clock.Advance(time.Second)
	_, err = client.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, srv.Logins())

	for _, req := range apiRequests(srv) {
		assert.Equal(t, "Bearer at", req.Header.Get("Authorization"))
	}
}

func TestEnsureLoggedInSkipsFreshToken(t *testing.T) {
	srv := revolutest.NewServer(t)
	srv.HandleToken(revolutest.IssueToken("at", 60))
	client := newSandboxClient(t, srv, refreshAuth(t), newFakeClock())
	ctx := context.Background()

	require.NoError(t, client.EnsureLoggedIn(ctx))
	require.NoError(t, client.EnsureLoggedIn(ctx))
	assert.Equal(t, 1, srv.Logins())
}

func TestConcurrentStaleCallersShareOneLogin(t *testing.T) {
	srv := revolutest.NewServer(t)
	release := make(chan struct{})
	srv.HandleToken(func(url.Values) (int, any) {
		<-release
		return http.StatusOK, map[string]any{"access_token": "at", "token_type": "bearer", "expires_in": 60}
	})
	srv.Router.Get("/api/1.0/accounts", revolutest.Reply(http.StatusOK, []any{}))
	client := newSandboxClient(t, srv, refreshAuth(t), newFakeClock())

	const callers = 8
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.ListAccounts(context.Background())
			errs <- err
		}()
	}
	// Give the callers time to queue behind the in-flight login.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 1, srv.Logins())
	assert.Len(t, apiRequests(srv), callers)
}

func TestCancelledCallerDoesNotFailSharedLogin(t *testing.T) {
	srv := revolutest.NewServer(t)
	release := make(chan struct{})
	srv.HandleToken(func(url.Values) (int, any) {
		<-release
		return http.StatusOK, map[string]any{"access_token": "at", "token_type": "bearer", "expires_in": 60}
	})
	srv.Router.Get("/api/1.0/accounts", revolutest.Reply(http.StatusOK, []any{}))
	client := newSandboxClient(t, srv, refreshAuth(t), newFakeClock())

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	defer cancelFirst()
	firstErr := make(chan error, 1)
	go func() {
		_, err := client.ListAccounts(firstCtx)
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return srv.Logins() == 1 }, time.Second, 5*time.Millisecond)

	secondErr := make(chan error, 1)
	go func() {
		_, err := client.ListAccounts(context.Background())
		secondErr <- err
	}()
	// Let the second caller join the in-flight login.
	time.Sleep(50 * time.Millisecond)

	cancelFirst()
	select {
	case err := <-firstErr:
		require.Error(t, err)
		assert.True(t, api.IsCannotLogIn(err))
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled caller kept waiting for the login")
	}

	close(release)
	select {
	case err := <-secondErr:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("second caller never finished")
	}

	assert.Equal(t, 1, srv.Logins())
	reqs := apiRequests(srv)
	require.Len(t, reqs, 1)
	assert.Equal(t, "Bearer at", reqs[0].Header.Get("Authorization"))
}

func TestTokenIssuedAlreadyExpiredIsStillUsed(t *testing.T) {
	srv := revolutest.NewServer(t)
	srv.HandleToken(revolutest.IssueToken("at", 0))
	srv.Router.Get("/api/1.0/accounts", revolutest.Reply(http.StatusOK, []any{}))
	client := newSandboxClient(t, srv, refreshAuth(t), newFakeClock())
	ctx := context.Background()

	_, err := client.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, srv.Logins())
	reqs := apiRequests(srv)
	require.Len(t, reqs, 1)
	assert.Equal(t, "Bearer at", reqs[0].Header.Get("Authorization"))

	// The cached token is stale, so the next request logs in again.
	_, err = client.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, srv.Logins())
}

func TestRejectedLoginSendsNoRequest(t *testing.T) {
	srv := revolutest.NewServer(t)
	srv.HandleToken(func(url.Values) (int, any) {
		return http.StatusUnauthorized, map[string]any{"error": "invalid_grant", "message": "refresh token expired"}
	})
	srv.Router.Get("/api/1.0/accounts", revolutest.Reply(http.StatusOK, []any{}))
	client := newSandboxClient(t, srv, refreshAuth(t), newFakeClock())

	_, err := client.ListAccounts(context.Background())
	require.Error(t, err)
	assert.True(t, api.IsCannotLogIn(err))
	assert.Contains(t, err.Error(), "status 401")
	assert.Empty(t, apiRequests(srv))
}

func TestRefreshWithoutRefreshToken(t *testing.T) {
	srv := revolutest.NewServer(t)
	srv.HandleToken(revolutest.IssueToken("at", 60))
	auth, err := NewAuthenticationBuilder().WithClientAssertion("jwt").WithAuthorizationCode("code").Build()
	require.NoError(t, err)
	client := newSandboxClient(t, srv, auth, newFakeClock())

	_, err = client.LoginWithRefreshToken(context.Background())
	require.Error(t, err)
	assert.True(t, api.IsCannotLogIn(err))
	assert.Zero(t, srv.Logins())
}

func TestAuthorizationCodeFlow(t *testing.T) {
	srv := revolutest.NewServer(t)
	var forms []url.Values
	srv.HandleToken(func(f url.Values) (int, any) {
		forms = append(forms, f)
		if f.Get("grant_type") == "authorization_code" {
			return http.StatusOK, map[string]any{
				"access_token":  "first",
				"token_type":    "bearer",
				"expires_in":    60,
				"refresh_token": "issued-rt",
			}
		}
		return http.StatusOK, map[string]any{"access_token": "second", "token_type": "bearer", "expires_in": 60}
	})
	srv.Router.Get("/api/1.0/accounts", revolutest.Reply(http.StatusOK, []any{}))

	auth, err := NewAuthenticationBuilder().WithClientAssertion("jwt").WithAuthorizationCode("code").Build()
	require.NoError(t, err)
	clock := newFakeClock()
	client := newSandboxClient(t, srv, auth, clock)
	ctx := context.Background()

	resp, err := client.LoginWithAuthorizationCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, "issued-rt", resp.RefreshToken)
	require.Len(t, forms, 1)
	assert.Equal(t, "code", forms[0].Get("code"))

	// The exchanged token is cached.
	_, err = client.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, srv.Logins())

	// Once it expires the issued refresh token is used.
	clock.Advance(time.Minute)
	_, err = client.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, forms, 2)
	assert.Equal(t, "refresh_token", forms[1].Get("grant_type"))
	assert.Equal(t, "issued-rt", forms[1].Get("refresh_token"))

	reqs := apiRequests(srv)
	require.Len(t, reqs, 2)
	assert.Equal(t, "Bearer first", reqs[0].Header.Get("Authorization"))
	assert.Equal(t, "Bearer second", reqs[1].Header.Get("Authorization"))
}
