// Package business is a client for the Revolut Business API.
//
// A Client is built from an environment and an Authentication:
//
//	auth, err := business.NewAuthenticationBuilder().
//		WithClientAssertion(assertion).
//		WithRefreshToken(refreshToken).
//		Build()
//	client, err := business.NewClientBuilder().
//		WithSandboxEnvironment().
//		WithAuthentication(auth).
//		Build()
//
// Access tokens are obtained and refreshed on demand; a Client is safe for
// concurrent use.
package business

import (
	"context"
	"net/http"

	"github.com/revolut-cli/revolut-cli/api"
)

// ClientBuilder assembles a Client. Selecting the environment or the
// authentication twice is an error reported by Build.
type ClientBuilder struct {
	env     api.Environment
	auth    Authentication
	hasAuth bool
	opts    []api.Option
	err     error
}

func NewClientBuilder() *ClientBuilder {
	return &ClientBuilder{}
}

func (b *ClientBuilder) WithSandboxEnvironment() *ClientBuilder {
	return b.withEnvironment(api.SandboxEnvironment(api.ProductBusiness))
}

func (b *ClientBuilder) WithProductionEnvironment() *ClientBuilder {
	return b.withEnvironment(api.ProductionEnvironment(api.ProductBusiness))
}

func (b *ClientBuilder) withEnvironment(env api.Environment) *ClientBuilder {
	if b.err != nil {
		return b
	}
	if !b.env.IsZero() {
		b.err = api.NewIncompleteBuilder("environment already selected (%s)", b.env)
		return b
	}
	b.env = env
	return b
}

func (b *ClientBuilder) WithAuthentication(auth Authentication) *ClientBuilder {
	if b.err != nil {
		return b
	}
	if b.hasAuth {
		b.err = api.NewIncompleteBuilder("authentication already set")
		return b
	}
	b.auth = auth
	b.hasAuth = true
	return b
}

// WithOptions customizes the HTTP layer.
func (b *ClientBuilder) WithOptions(opts ...api.Option) *ClientBuilder {
	b.opts = append(b.opts, opts...)
	return b
}

// Build returns a Client with an empty token cache.
func (b *ClientBuilder) Build() (*Client, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.env.IsZero() {
		return nil, api.NewIncompleteBuilder("no environment selected")
	}
	if !b.hasAuth || b.auth.isZero() {
		return nil, api.NewIncompleteBuilder("no authentication set")
	}

	options := api.ApplyOptions(b.opts...)
	httpClient, err := api.NewHTTPClient(options)
	if err != nil {
		return nil, err
	}

	tokens := &tokenManager{
		endpoint: b.env.URI("1.0", "/auth/token"),
		http:     httpClient,
		auth:     b.auth,
		now:      options.Clock,
		metrics:  options.Metrics,
	}
	return &Client{
		env:    b.env,
		tokens: tokens,
		dispatcher: api.NewDispatcher(api.DispatcherConfig{
			Product:   api.ProductBusiness,
			HTTP:      httpClient,
			Auth:      tokens,
			UserAgent: options.UserAgent,
			Metrics:   options.Metrics,
		}),
	}, nil
}

// Client is an authenticated Business API client.
type Client struct {
	env        api.Environment
	tokens     *tokenManager
	dispatcher *api.Dispatcher
}

var _ api.Requester = (*Client)(nil)

func (c *Client) Environment() api.Environment { return c.env }

func (c *Client) HTTPClient() *http.Client { return c.dispatcher.HTTPClient() }

// Do issues an authenticated request, logging in first when the cached token
// is missing or expired.
func (c *Client) Do(ctx context.Context, method api.HTTPMethod, uri api.Endpoint, result any) error {
	return c.dispatcher.Do(ctx, method, uri, result)
}

// DoRaw is Do without response decoding.
func (c *Client) DoRaw(ctx context.Context, method api.HTTPMethod, uri api.Endpoint) ([]byte, error) {
	return c.dispatcher.DoRaw(ctx, method, uri)
}

// EnsureLoggedIn logs in unless a cached token is still valid.
func (c *Client) EnsureLoggedIn(ctx context.Context) error {
	return c.tokens.ensureLoggedIn(ctx)
}

// LoginWithRefreshToken exchanges the refresh token for an access token. It
// does not touch the token cache; use EnsureLoggedIn for that.
func (c *Client) LoginWithRefreshToken(ctx context.Context) (TokenResponse, error) {
	return c.tokens.loginWithRefreshToken(ctx)
}

// LoginWithAuthorizationCode exchanges the authorization code. The issued
// access token is cached and the issued refresh token is used for later
// refreshes.
func (c *Client) LoginWithAuthorizationCode(ctx context.Context) (AuthorizationCodeResponse, error) {
	return c.tokens.loginWithAuthorizationCode(ctx)
}

func (c *Client) uri(version, path string) api.Endpoint {
	return c.env.URI(version, path)
}
