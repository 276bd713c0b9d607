// Package openbanking selects the Open Banking product. Its consent and token
// flows are not implemented yet: a Client resolves endpoints and carries a
// configured HTTP client, but every request fails with CannotLogIn.
package openbanking

import (
	"context"
	"net/http"

	"github.com/revolut-cli/revolut-cli/api"
)

// Authentication is a placeholder credential.
type Authentication struct{}

// placeholder rejects every request before it reaches the network.
type placeholder struct{}

func (placeholder) BearerToken(context.Context) (string, error) {
	return "", api.NewClientError(api.CannotLogIn, "open banking authentication is not supported", nil)
}

type ClientBuilder struct {
	env     api.Environment
	hasAuth bool
	opts    []api.Option
	err     error
}

func NewClientBuilder() *ClientBuilder {
	return &ClientBuilder{}
}

func (b *ClientBuilder) WithSandboxEnvironment() *ClientBuilder {
	return b.withEnvironment(api.SandboxEnvironment(api.ProductOpenBanking))
}

func (b *ClientBuilder) WithProductionEnvironment() *ClientBuilder {
	return b.withEnvironment(api.ProductionEnvironment(api.ProductOpenBanking))
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

func (b *ClientBuilder) WithAuthentication(Authentication) *ClientBuilder {
	if b.err != nil {
		return b
	}
	if b.hasAuth {
		b.err = api.NewIncompleteBuilder("authentication already set")
		return b
	}
	b.hasAuth = true
	return b
}

func (b *ClientBuilder) WithOptions(opts ...api.Option) *ClientBuilder {
	b.opts = append(b.opts, opts...)
	return b
}

func (b *ClientBuilder) Build() (*Client, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.env.IsZero() {
		return nil, api.NewIncompleteBuilder("no environment selected")
	}
	if !b.hasAuth {
		return nil, api.NewIncompleteBuilder("no authentication set")
	}
	options := api.ApplyOptions(b.opts...)
	httpClient, err := api.NewHTTPClient(options)
	if err != nil {
		return nil, err
	}
	return &Client{
		env: b.env,
		dispatcher: api.NewDispatcher(api.DispatcherConfig{
			Product:   api.ProductOpenBanking,
			HTTP:      httpClient,
			Auth:      placeholder{},
			UserAgent: options.UserAgent,
			Metrics:   options.Metrics,
		}),
	}, nil
}

type Client struct {
	env        api.Environment
	dispatcher *api.Dispatcher
}

var _ api.Requester = (*Client)(nil)

func (c *Client) Environment() api.Environment { return c.env }

func (c *Client) HTTPClient() *http.Client { return c.dispatcher.HTTPClient() }

// URI resolves a versioned Open Banking endpoint.
func (c *Client) URI(version, path string) api.Endpoint { return c.env.URI(version, path) }

func (c *Client) Do(ctx context.Context, method api.HTTPMethod, uri api.Endpoint, result any) error {
	return c.dispatcher.Do(ctx, method, uri, result)
}

func (c *Client) DoRaw(ctx context.Context, method api.HTTPMethod, uri api.Endpoint) ([]byte, error) {
	return c.dispatcher.DoRaw(ctx, method, uri)
}
