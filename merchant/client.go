// Package merchant is a client for the Revolut Merchant API.
//
// Requests are authorized with the merchant secret key and pinned to API
// version 2024-09-01 through the Revolut-Api-Version header.
package merchant

import (
	"context"
	"net/http"

	"github.com/revolut-cli/revolut-cli/api"
)

// APIVersion is sent as Revolut-Api-Version on every request.
const APIVersion = "2024-09-01"

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
	return b.withEnvironment(api.SandboxEnvironment(api.ProductMerchant))
}

func (b *ClientBuilder) WithProductionEnvironment() *ClientBuilder {
	return b.withEnvironment(api.ProductionEnvironment(api.ProductMerchant))
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
	if !b.hasAuth || b.auth.isZero() {
		return nil, api.NewIncompleteBuilder("no authentication set")
	}

	options := api.ApplyOptions(b.opts...)
	httpClient, err := api.NewHTTPClient(options)
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	header.Set("Revolut-Api-Version", APIVersion)
	return &Client{
		env: b.env,
		dispatcher: api.NewDispatcher(api.DispatcherConfig{
			Product:   api.ProductMerchant,
			HTTP:      httpClient,
			Auth:      api.StaticToken(b.auth.SecretKey()),
			Header:    header,
			UserAgent: options.UserAgent,
			Metrics:   options.Metrics,
		}),
	}, nil
}

// Client is a Merchant API client. It is safe for concurrent use.
type Client struct {
	env        api.Environment
	dispatcher *api.Dispatcher
}

var _ api.Requester = (*Client)(nil)

func (c *Client) Environment() api.Environment { return c.env }

func (c *Client) HTTPClient() *http.Client { return c.dispatcher.HTTPClient() }

func (c *Client) Do(ctx context.Context, method api.HTTPMethod, uri api.Endpoint, result any) error {
	return c.dispatcher.Do(ctx, method, uri, result)
}

func (c *Client) DoRaw(ctx context.Context, method api.HTTPMethod, uri api.Endpoint) ([]byte, error) {
	return c.dispatcher.DoRaw(ctx, method, uri)
}

func (c *Client) uri(version, path string) api.Endpoint {
	return c.env.URI(version, path)
}

func (c *Client) unversioned(path string) api.Endpoint {
	return c.env.UnversionedURI(path)
}

// request decodes into a fresh T and returns a pointer to it.
func request[T any](ctx context.Context, c *Client, method api.HTTPMethod, uri api.Endpoint) (*T, error) {
	out, err := api.Request[T](ctx, c, method, uri)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
