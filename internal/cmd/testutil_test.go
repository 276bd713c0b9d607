package cmd

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/99designs/keyring"
	"github.com/go-chi/chi/v5"

	"github.com/revolut-cli/revolut-cli/api"
	"github.com/revolut-cli/revolut-cli/internal/config"
	"github.com/revolut-cli/revolut-cli/internal/revolutest"
)

// credentialEnv lists every variable the CLI reads credentials from.
var credentialEnv = []string{
	config.EnvClientAssertion,
	config.EnvRefreshToken,
	config.EnvSecretKey,
	config.EnvSandbox,
	config.EnvProfile,
}

// setupTestEnv isolates a test from the host: credentials come only from what
// the test sets, the keyring is in memory and every client talks to srv.
func setupTestEnv(t *testing.T) *revolutest.Server {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, name := range credentialEnv {
		t.Setenv(name, "")
	}
	withPersistentKeyring(t)

	srv := revolutest.NewServer(t)
	orig := clientOptions
	clientOptions = func() []api.Option {
		return append(orig(), api.WithHTTPClient(srv.Client()))
	}
	t.Cleanup(func() { clientOptions = orig })
	return srv
}

// withBusinessEnv configures sandbox Business credentials and a token endpoint.
func withBusinessEnv(t *testing.T, srv *revolutest.Server) {
	t.Helper()
	t.Setenv(config.EnvClientAssertion, "jwt")
	t.Setenv(config.EnvRefreshToken, "rt")
	t.Setenv(config.EnvSandbox, "true")
	srv.HandleToken(revolutest.IssueToken("access", 2400))
}

func withMerchantEnv(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvSecretKey, "sk_test_1234")
	t.Setenv(config.EnvSandbox, "true")
}

func withPersistentKeyring(t *testing.T) *keyring.ArrayKeyring {
	t.Helper()
	ring := keyring.NewArrayKeyring(nil)
	t.Cleanup(config.SetOpenKeyring(func(keyring.Config) (keyring.Keyring, error) {
		return ring, nil
	}))
	return ring
}

// runCmd executes the CLI with args and returns what it wrote.
func runCmd(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	ctx := WithStreams(context.Background(), &Streams{Out: &out, ErrOut: &errOut, In: &bytes.Buffer{}})
	err = Execute(ctx, args)
	return out.String(), errOut.String(), err
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

var testAccounts = []map[string]any{
	{"id": "acc-gbp", "name": "Main GBP", "balance": 1520.5, "currency": "GBP", "state": "active", "public": false, "created_at": "2024-01-01T00:00:00Z", "updated_at": "2024-01-01T00:00:00Z"},
	{"id": "acc-eur", "name": "Main EUR", "balance": 80, "currency": "EUR", "state": "active", "public": false, "created_at": "2024-01-01T00:00:00Z", "updated_at": "2024-01-01T00:00:00Z"},
	{"id": "acc-usd", "name": "Savings USD", "balance": 0, "currency": "USD", "state": "inactive", "public": true, "created_at": "2024-01-01T00:00:00Z", "updated_at": "2024-01-01T00:00:00Z"},
}

func accountByID(id string) map[string]any {
	for _, a := range testAccounts {
		if a["id"] == id {
			return a
		}
	}
	return nil
}

func serveAccounts(srv *revolutest.Server) {
	srv.Router.Get("/api/1.0/accounts", revolutest.Reply(http.StatusOK, testAccounts))
	srv.Router.Get("/api/1.0/accounts/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if a := accountByID(id); a != nil {
			revolutest.JSON(w, http.StatusOK, a)
			return
		}
		revolutest.JSON(w, http.StatusNotFound, map[string]any{"code": 3000, "message": "Not found"})
	})
}
