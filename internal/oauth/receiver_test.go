package oauth

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startReceiver(t *testing.T) *Receiver {
	t.Helper()
	r, err := NewReceiver("http://127.0.0.1:0/callback")
	require.NoError(t, err)
	require.NoError(t, r.Start())
	t.Cleanup(r.shutdown)
	return r
}

func get(t *testing.T, rawURL string) (int, string) {
	t.Helper()
	resp, err := http.Get(rawURL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestNewReceiverRejectsNonLoopback(t *testing.T) {
	_, err := NewReceiver("https://example.com/callback")
	require.Error(t, err)
}

func TestReceiverStateIsRandom(t *testing.T) {
	a, err := NewReceiver("http://127.0.0.1:0/cb")
	require.NoError(t, err)
	b, err := NewReceiver("http://127.0.0.1:0/cb")
	require.NoError(t, err)

	assert.Len(t, a.State(), 32)
	assert.NotEqual(t, a.State(), b.State())
}

func TestConsentURL(t *testing.T) {
	r := startReceiver(t)
	assert.NotContains(t, r.RedirectURI(), ":0/")

	for _, tt := range []struct {
		sandbox bool
		base    string
	}{
		{true, "https://sandbox-business.revolut.com/app-confirm"},
		{false, "https://business.revolut.com/app-confirm"},
	} {
		raw := r.ConsentURL(tt.sandbox, "client-1", []string{"READ", "WRITE"})
		u, err := url.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, tt.base, u.Scheme+"://"+u.Host+u.Path)

		q := u.Query()
		assert.Equal(t, "client-1", q.Get("client_id"))
		assert.Equal(t, r.RedirectURI(), q.Get("redirect_uri"))
		assert.Equal(t, "code", q.Get("response_type"))
		assert.Equal(t, r.State(), q.Get("state"))
		assert.Equal(t, "READ,WRITE", q.Get("scope"))
	}
}

func TestReceiverDeliversCode(t *testing.T) {
	r := startReceiver(t)

	status, body := get(t, r.RedirectURI()+"?code=oa_sand_abc&state="+r.State())
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Revolut CLI authorized")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	code, err := r.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, "oa_sand_abc", code)
}

func TestReceiverAcceptsRedirectWithoutState(t *testing.T) {
	r := startReceiver(t)

	status, _ := get(t, r.RedirectURI()+"?code=oa_prod_1")
	assert.Equal(t, http.StatusOK, status)

	code, err := r.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "oa_prod_1", code)
}

func TestReceiverIgnoresForgedAndIncompleteRedirects(t *testing.T) {
	r := startReceiver(t)

	status, body := get(t, r.RedirectURI()+"?code=evil&state=wrong")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body, "did not originate")

	status, _ = get(t, r.RedirectURI())
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = get(t, strings.TrimSuffix(r.RedirectURI(), "/callback")+"/other?code=x")
	assert.Equal(t, http.StatusNotFound, status)

	// Still waiting for a genuine redirect.
	get(t, r.RedirectURI()+"?code=good&state="+r.State())
	code, err := r.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "good", code)
}

func TestReceiverReportsDenial(t *testing.T) {
	r := startReceiver(t)

	status, body := get(t, r.RedirectURI()+"?error=access_denied&error_description=user+declined")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Login cancelled")

	_, err := r.Wait(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConsentDenied))
	assert.Contains(t, err.Error(), "access_denied: user declined")
}

func TestReceiverWaitHonorsContext(t *testing.T) {
	r := startReceiver(t)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := r.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestOpenBrowserSkippedUnderTest(t *testing.T) {
	assert.True(t, shouldSkipBrowser())
	assert.NoError(t, OpenBrowser("https://example.com"))
}
