// Package revolutest runs a fake Revolut backend for tests.
//
// The server listens on a local TLS socket; Client returns an *http.Client that
// sends every request there while leaving the request URL and Host header
// untouched, so the production hosts baked into the api package are exercised
// as-is.
package revolutest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Request is a request received by the server.
type Request struct {
	Method   string
	Host     string
	Path     string
	RawQuery string
	Header   http.Header
	Body     []byte
}

// Server is a fake backend. Register handlers on Router before issuing requests.
type Server struct {
	Router chi.Router

	tls *httptest.Server

	mu       sync.Mutex
	requests []Request
	logins   atomic.Int32
}

// NewServer starts a server that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{}
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(s.record)
	s.Router = r
	s.tls = httptest.NewTLSServer(r)
	t.Cleanup(s.tls.Close)
	return s
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:   r.Method,
			Host:     r.Host,
			Path:     r.URL.Path,
			RawQuery: r.URL.RawQuery,
			Header:   r.Header.Clone(),
			Body:     body,
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// URL is the address the server actually listens on.
func (s *Server) URL() string { return s.tls.URL }

// Client returns an HTTP client that trusts the server certificate and routes
// every request to it.
func (s *Server) Client() *http.Client {
	target, _ := url.Parse(s.tls.URL)
	base := s.tls.Client()
	return &http.Client{
		Transport: &rewriteTransport{host: target.Host, next: base.Transport},
	}
}

// Requests returns a copy of everything received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent request, or false when none arrived.
func (s *Server) LastRequest() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}, false
	}
	return s.requests[len(s.requests)-1], true
}

// Logins counts the token exchanges served by HandleToken.
func (s *Server) Logins() int { return int(s.logins.Load()) }

// TokenFunc answers a token request with a status and a JSON body.
type TokenFunc func(form url.Values) (int, any)

// HandleToken serves the Business token endpoint.
func (s *Server) HandleToken(fn TokenFunc) {
	s.Router.Post("/api/1.0/auth/token", func(w http.ResponseWriter, r *http.Request) {
		s.logins.Add(1)
		if err := r.ParseForm(); err != nil {
			JSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
			return
		}
		status, body := fn(r.PostForm)
		JSON(w, status, body)
	})
}

// IssueToken is a TokenFunc that always issues accessToken for expiresIn seconds.
func IssueToken(accessToken string, expiresIn int64) TokenFunc {
	return func(url.Values) (int, any) {
		return http.StatusOK, map[string]any{
			"access_token": accessToken,
			"token_type":   "bearer",
			"expires_in":   expiresIn,
		}
	}
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// Reply returns a handler that always answers with status and v.
func Reply(status int, v any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		JSON(w, status, v)
	}
}

type rewriteTransport struct {
	host string
	next http.RoundTripper
}

func (t *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	if out.Host == "" {
		out.Host = req.URL.Host
	}
	out.URL.Scheme = "https"
	out.URL.Host = t.host
	return t.next.RoundTrip(out)
}
