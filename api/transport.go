package api

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "revolut-go"
)

// Options configures the HTTP layer of a client. Build it with Option values.
type Options struct {
	HTTPClient *http.Client
	Timeout    time.Duration
	RootCAs    []byte
	Proxy      string
	UserAgent  string
	Metrics    *Metrics
	Clock      func() time.Time
}

// Option customizes Options.
type Option func(*Options)

// WithHTTPClient uses c as-is; Timeout, RootCAs and Proxy are then ignored.
func WithHTTPClient(c *http.Client) Option {
	return func(o *Options) { o.HTTPClient = c }
}

func WithTimeout(d time.Duration) Option {
	return func(o *Options) { o.Timeout = d }
}

// WithRootCAs replaces the system roots with the PEM encoded certificates.
func WithRootCAs(pem []byte) Option {
	return func(o *Options) { o.RootCAs = pem }
}

func WithProxy(rawURL string) Option {
	return func(o *Options) { o.Proxy = rawURL }
}

func WithUserAgent(ua string) Option {
	return func(o *Options) { o.UserAgent = ua }
}

// WithMetrics records request and login metrics on m.
func WithMetrics(m *Metrics) Option {
	return func(o *Options) { o.Metrics = m }
}

// WithClock replaces time.Now for token expiry bookkeeping.
func WithClock(now func() time.Time) Option {
	return func(o *Options) { o.Clock = now }
}

// ApplyOptions returns Options with defaults filled in.
func ApplyOptions(opts ...Option) Options {
	o := Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
		Clock:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	return o
}

// NewHTTPClient builds the HTTP client described by o. Failures are reported
// as CannotInstantiateClient.
func NewHTTPClient(o Options) (*http.Client, error) {
	if o.HTTPClient != nil {
		return o.HTTPClient, nil
	}

	baseTransport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		baseTransport = &http.Transport{}
	}
	transport := baseTransport.Clone()
	if transport.TLSClientConfig == nil {
		transport.TLSClientConfig = &tls.Config{}
	} else {
		transport.TLSClientConfig = transport.TLSClientConfig.Clone()
	}
	transport.TLSClientConfig.MinVersion = tls.VersionTLS12

	if len(o.RootCAs) > 0 {
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(o.RootCAs) {
			return nil, &ClientBuilderError{Kind: CannotInstantiateClient, Detail: "no certificates found in root CA bundle"}
		}
		transport.TLSClientConfig.RootCAs = pool
	}

	if o.Proxy != "" {
		proxyURL, err := url.Parse(o.Proxy)
		if err != nil || proxyURL.Scheme == "" || proxyURL.Host == "" {
			return nil, &ClientBuilderError{Kind: CannotInstantiateClient, Detail: fmt.Sprintf("invalid proxy URL %q", o.Proxy), Err: err}
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	timeout := o.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout, Transport: transport}, nil
}
