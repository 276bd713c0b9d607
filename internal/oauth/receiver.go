// Package oauth runs the local half of the Revolut Business consent flow. It
// builds the consent URL, listens on the registered redirect URI and hands the
// authorization code back to the caller.
package oauth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/revolut-cli/revolut-cli/internal/validation"
)

const (
	productionConsentURL = "https://business.revolut.com/app-confirm"
	sandboxConsentURL    = "https://sandbox-business.revolut.com/app-confirm"

	// DefaultWait bounds how long 'auth login --browser' waits for consent.
	DefaultWait = 5 * time.Minute
)

// ErrConsentDenied is returned when the redirect carries an error instead of a code.
var ErrConsentDenied = errors.New("consent was not granted")

type result struct {
	code string
	err  error
}

// Receiver waits for the consent redirect on a loopback address.
type Receiver struct {
	redirect *url.URL
	state    string

	once   sync.Once
	result chan result
	server *http.Server
}

// NewReceiver validates redirectURI and prepares a receiver for it. A port of
// 0 picks a free port when Start is called.
func NewReceiver(redirectURI string) (*Receiver, error) {
	u, err := validation.ValidateRedirectURI(redirectURI)
	if err != nil {
		return nil, err
	}
	if u.Path == "" {
		u.Path = "/"
	}
	state := make([]byte, 16)
	if _, err := rand.Read(state); err != nil {
		return nil, fmt.Errorf("failed to generate state: %w", err)
	}
	return &Receiver{
		redirect: u,
		state:    hex.EncodeToString(state),
		result:   make(chan result, 1),
	}, nil
}

// Start begins listening on the redirect URI's host and port.
func (r *Receiver) Start() error {
	listener, err := net.Listen("tcp", r.redirect.Host)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", r.redirect.Host, err)
	}
	if r.redirect.Port() == "0" {
		port := listener.Addr().(*net.TCPAddr).Port
		r.redirect.Host = net.JoinHostPort(r.redirect.Hostname(), fmt.Sprint(port))
	}

	mux := http.NewServeMux()
	mux.HandleFunc(r.redirect.Path, r.handleRedirect)
	r.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	go func() {
		_ = r.server.Serve(listener)
	}()
	return nil
}

// RedirectURI is the URI Revolut redirects to, with the resolved port.
func (r *Receiver) RedirectURI() string { return r.redirect.String() }

// State is the anti-forgery value sent with the consent request.
func (r *Receiver) State() string { return r.state }

// ConsentURL is the page the user opens to grant the application access.
func (r *Receiver) ConsentURL(sandbox bool, clientID string, scopes []string) string {
	base := productionConsentURL
	if sandbox {
		base = sandboxConsentURL
	}
	q := url.Values{}
	q.Set("client_id", clientID)
	q.Set("redirect_uri", r.RedirectURI())
	q.Set("response_type", "code")
	q.Set("state", r.state)
	if len(scopes) > 0 {
		q.Set("scope", strings.Join(scopes, ","))
	}
	return base + "?" + q.Encode()
}

// Wait blocks until the redirect delivers a code or ctx is done, then stops
// the listener.
func (r *Receiver) Wait(ctx context.Context) (string, error) {
	defer r.shutdown()
	select {
	case res := <-r.result:
		return res.code, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (r *Receiver) shutdown() {
	if r.server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.server.Shutdown(ctx); err != nil {
		_ = r.server.Close()
	}
}

func (r *Receiver) deliver(res result) {
	r.once.Do(func() { r.result <- res })
}

func (r *Receiver) handleRedirect(w http.ResponseWriter, req *http.Request) {
	if req.URL.Path != r.redirect.Path {
		http.NotFound(w, req)
		return
	}
	q := req.URL.Query()

	// The state is echoed back when Revolut supports it; a different one is forged.
	if state := q.Get("state"); state != "" && state != r.state {
		renderPage(w, http.StatusBadRequest, "Login failed", "The request did not originate from this CLI session.")
		return
	}
	if e := q.Get("error"); e != "" {
		detail := e
		if d := q.Get("error_description"); d != "" {
			detail = e + ": " + d
		}
		r.deliver(result{err: fmt.Errorf("%w: %s", ErrConsentDenied, detail)})
		renderPage(w, http.StatusOK, "Login cancelled", "You can close this window and return to the terminal.")
		return
	}
	code := q.Get("code")
	if code == "" {
		renderPage(w, http.StatusBadRequest, "Login failed", "The redirect did not include an authorization code.")
		return
	}

	r.deliver(result{code: code})
	renderPage(w, http.StatusOK, "Revolut CLI authorized", "You can close this window and return to the terminal.")
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Title}}</title>
<style>body{font-family:-apple-system,BlinkMacSystemFont,"Segoe UI",sans-serif;background:#f7f7f8;color:#191c1f;display:flex;align-items:center;justify-content:center;height:100vh;margin:0}main{background:#fff;border-radius:16px;padding:40px 48px;box-shadow:0 4px 24px rgba(0,0,0,.08);text-align:center}h1{font-size:22px;margin:0 0 12px}p{color:#5c6670;margin:0}</style>
</head>
<body><main><h1>{{.Title}}</h1><p>{{.Message}}</p></main></body>
</html>`))

func renderPage(w http.ResponseWriter, status int, title, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = pageTemplate.Execute(w, map[string]string{"Title": title, "Message": message})
}

// OpenBrowser opens url in the default browser. It is a no-op under go test
// and when REVOLUT_NO_BROWSER is set.
func OpenBrowser(url string) error {
	if shouldSkipBrowser() {
		return nil
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform")
	}
	return cmd.Start()
}

func shouldSkipBrowser() bool {
	if flag.Lookup("test.v") != nil {
		return true
	}
	v := strings.TrimSpace(strings.ToLower(os.Getenv("REVOLUT_NO_BROWSER")))
	return v == "1" || v == "true" || v == "yes"
}
