package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/revolut-cli/revolut-cli/internal/debug"
)

const maxRenderedBody = 512

// Authorizer supplies the bearer credential for each request.
type Authorizer interface {
	BearerToken(ctx context.Context) (string, error)
}

// StaticToken authorizes every request with the same credential.
type StaticToken string

func (t StaticToken) BearerToken(context.Context) (string, error) {
	if t == "" {
		return "", NewClientError(CannotLogIn, "no secret key configured", nil)
	}
	return string(t), nil
}

// Requester is implemented by every product client.
type Requester interface {
	Do(ctx context.Context, method HTTPMethod, uri Endpoint, result any) error
	DoRaw(ctx context.Context, method HTTPMethod, uri Endpoint) ([]byte, error)
}

// Request issues method against uri and decodes the response into a T.
func Request[T any](ctx context.Context, r Requester, method HTTPMethod, uri Endpoint) (T, error) {
	var out T
	if err := r.Do(ctx, method, uri, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// RequestRaw issues method against uri and returns the undecoded payload.
func RequestRaw(ctx context.Context, r Requester, method HTTPMethod, uri Endpoint) ([]byte, error) {
	return r.DoRaw(ctx, method, uri)
}

// DispatcherConfig wires a Dispatcher.
type DispatcherConfig struct {
	Product Product
	HTTP    *http.Client
	Auth    Authorizer
	// Header is sent on every request, after the authorization headers.
	Header    http.Header
	UserAgent string
	Metrics   *Metrics
}

// Dispatcher turns a logical operation into an authenticated HTTP exchange and
// classifies the outcome.
type Dispatcher struct {
	product   Product
	http      *http.Client
	auth      Authorizer
	header    http.Header
	userAgent string
	metrics   *Metrics
}

var _ Requester = (*Dispatcher)(nil)

func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Dispatcher{
		product:   cfg.Product,
		http:      httpClient,
		auth:      cfg.Auth,
		header:    cfg.Header.Clone(),
		userAgent: cfg.UserAgent,
		metrics:   cfg.Metrics,
	}
}

// HTTPClient returns the underlying transport handle.
func (d *Dispatcher) HTTPClient() *http.Client { return d.http }

// Do performs the request and decodes a 2xx body into result. A nil result
// discards the body.
func (d *Dispatcher) Do(ctx context.Context, method HTTPMethod, uri Endpoint, result any) (err error) {
	decodeFailed := false
	defer func() { d.metrics.observeRequest(d.product, method.Verb(), requestOutcome(err, decodeFailed)) }()

	status, respBody, err := d.execute(ctx, method, uri)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		decodeFailed = true
		return NewClientError(RequestError,
			fmt.Sprintf("failed to decode response (status %d): %s", status, renderBody(respBody)), err)
	}
	return nil
}

// DoRaw performs the request and returns the 2xx body undecoded. Non-2xx
// responses are classified exactly like Do.
func (d *Dispatcher) DoRaw(ctx context.Context, method HTTPMethod, uri Endpoint) (body []byte, err error) {
	defer func() { d.metrics.observeRequest(d.product, method.Verb(), requestOutcome(err, false)) }()

	_, body, err = d.execute(ctx, method, uri)
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (d *Dispatcher) execute(ctx context.Context, method HTTPMethod, uri Endpoint) (int, []byte, error) {
	token, err := d.bearerToken(ctx)
	if err != nil {
		return 0, nil, err
	}

	req, err := method.newRequest(ctx, uri)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	for key, values := range d.header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if d.userAgent != "" {
		req.Header.Set("User-Agent", d.userAgent)
	}

	start := time.Now()
	timer := d.metrics.timer(d.product, method.Verb())
	resp, err := d.http.Do(req)
	if timer != nil {
		timer.ObserveDuration()
	}
	if err != nil {
		if debug.IsEnabled(ctx) {
			slog.Debug("request failed", "product", d.product, "method", req.Method, "url", req.URL.Redacted(), "error", err)
		}
		return 0, nil, NewClientError(RequestError, "request failed", err)
	}

	respBody, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return resp.StatusCode, nil, NewClientError(RequestError, "failed to read response", err)
	}
	if debug.IsEnabled(ctx) {
		slog.Debug("request complete", "product", d.product, "method", req.Method, "url", req.URL.Redacted(), "status", resp.StatusCode, "duration", time.Since(start))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, respBody, DecodeBackendError(resp.StatusCode, respBody)
	}
	return resp.StatusCode, respBody, nil
}

func (d *Dispatcher) bearerToken(ctx context.Context) (string, error) {
	if d.auth == nil {
		return "", NewClientError(CannotLogIn, "no credentials configured", nil)
	}
	token, err := d.auth.BearerToken(ctx)
	if err != nil {
		if IsCannotLogIn(err) {
			return "", err
		}
		return "", NewClientError(CannotLogIn, "", err)
	}
	if token == "" {
		return "", NewClientError(CannotLogIn, "no access token available", nil)
	}
	return token, nil
}

// DecodeBackendError surfaces the error envelope of a non-2xx response.
func DecodeBackendError(status int, body []byte) error {
	backendErr := &BackendError{}
	if err := json.Unmarshal(body, backendErr); err != nil {
		return NewClientError(SerializationError,
			fmt.Sprintf("failed to decode error response (status %d): %s", status, renderBody(body)), err)
	}
	backendErr.StatusCode = status
	return backendErr
}

func renderBody(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return "<empty body>"
	}
	if len(body) > maxRenderedBody {
		return string(body[:maxRenderedBody]) + "..."
	}
	return string(body)
}
