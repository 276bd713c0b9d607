package cmd

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revolut-cli/revolut-cli/internal/revolutest"
)

func bankDetailsFor(id string) []map[string]any {
	return []map[string]any{{
		"iban":        "GB00REVO" + strings.ToUpper(id),
		"bic":         "REVOGB21",
		"beneficiary": "Acme Ltd",
		"beneficiary_address": map[string]any{
			"street_line1": "1 High St",
			"city":         "London",
			"country":      "GB",
			"postcode":     "E1 1AA",
		},
		"schemes":        []string{"faster_payments"},
		"estimated_time": map[string]any{"unit": "hours", "max": 2},
	}}
}

func TestAccountsList(t *testing.T) {
	srv := setupTestEnv(t)
	withBusinessEnv(t, srv)
	serveAccounts(srv)

	out, _, err := runCmd(t, "accounts", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "Main GBP")
	assert.Contains(t, out, "1520.50")
	assert.Contains(t, out, "Savings USD")

	reqs := apiRequests(srv)
	require.Len(t, reqs, 1)
	assert.Equal(t, "Bearer access", reqs[0].Header.Get("Authorization"))
	assert.Equal(t, "sandbox-b2b.revolut.com", reqs[0].Host)
}

func TestAccountsListJSONWithJQ(t *testing.T) {
	srv := setupTestEnv(t)
	withBusinessEnv(t, srv)
	serveAccounts(srv)

	out, _, err := runCmd(t, "accounts", "list", "--jq", "[.[] | .currency]")
	require.NoError(t, err)

	var currencies []string
	require.NoError(t, json.Unmarshal([]byte(out), &currencies))
	assert.Equal(t, []string{"GBP", "EUR", "USD"}, currencies)
}

func TestAccountsGetByFuzzyName(t *testing.T) {
	srv := setupTestEnv(t)
	withBusinessEnv(t, srv)
	serveAccounts(srv)

	out, _, err := runCmd(t, "accounts", "get", "main eur", "-o", "json")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "acc-eur", got["id"])

	reqs := apiRequests(srv)
	require.Len(t, reqs, 2)
	assert.Equal(t, "/api/1.0/accounts/acc-eur", reqs[1].Path)
}

func TestAccountsGetByID(t *testing.T) {
	srv := setupTestEnv(t)
	withBusinessEnv(t, srv)
	serveAccounts(srv)

	out, _, err := runCmd(t, "accounts", "get", "acc-usd")
	require.NoError(t, err)
	assert.Contains(t, out, "Savings USD")
	assert.Contains(t, out, "inactive")
}

func TestAccountsGetNoMatch(t *testing.T) {
	srv := setupTestEnv(t)
	withBusinessEnv(t, srv)
	serveAccounts(srv)

	_, stderr, err := runCmd(t, "accounts", "get", "zzzz")
	require.Error(t, err)
	assert.Equal(t, exitNotFound, ExitCode(err))
	assert.Contains(t, stderr, `no match found for "zzzz"`)
}

func TestAccountsBankDetailsSingle(t *testing.T) {
	srv := setupTestEnv(t)
	withBusinessEnv(t, srv)
	serveAccounts(srv)
	srv.Router.Get("/api/1.0/accounts/{id}/bank-details", func(w http.ResponseWriter, r *http.Request) {
		revolutest.JSON(w, http.StatusOK, bankDetailsFor(chi.URLParam(r, "id")))
	})

	out, _, err := runCmd(t, "accounts", "bank-details", "Main GBP", "-o", "json")
	require.NoError(t, err)

	var got accountBankDetails
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "acc-gbp", got.AccountID)
	assert.Equal(t, "Main GBP", got.AccountName)
	require.NotNil(t, got.BankDetails)
	require.NotNil(t, got.BankDetails.IBAN)
	assert.Equal(t, "GB00REVOACC-GBP", *got.BankDetails.IBAN)
}

func TestAccountsBankDetailsAllKeepsOrder(t *testing.T) {
	srv := setupTestEnv(t)
	withBusinessEnv(t, srv)
	serveAccounts(srv)

	var inFlight, peak atomic.Int32
	srv.Router.Get("/api/1.0/accounts/{id}/bank-details", func(w http.ResponseWriter, r *http.Request) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		// The first account answers last.
		if chi.URLParam(r, "id") == "acc-gbp" {
			time.Sleep(20 * time.Millisecond)
		}
		revolutest.JSON(w, http.StatusOK, bankDetailsFor(chi.URLParam(r, "id")))
	})

	out, _, err := runCmd(t, "accounts", "bank-details", "--all", "-o", "json")
	require.NoError(t, err)

	var got []accountBankDetails
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 3)
	assert.Equal(t, "acc-gbp", got[0].AccountID)
	assert.Equal(t, "acc-eur", got[1].AccountID)
	assert.Equal(t, "acc-usd", got[2].AccountID)
	assert.LessOrEqual(t, int(peak.Load()), maxConcurrentBankDetails)
}

func TestAccountsBankDetailsAllFailsOnError(t *testing.T) {
	srv := setupTestEnv(t)
	withBusinessEnv(t, srv)
	serveAccounts(srv)
	srv.Router.Get("/api/1.0/accounts/{id}/bank-details", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "id") == "acc-eur" {
			revolutest.JSON(w, http.StatusInternalServerError, map[string]any{"code": 9000, "message": "boom"})
			return
		}
		revolutest.JSON(w, http.StatusOK, bankDetailsFor(chi.URLParam(r, "id")))
	})

	out, _, err := runCmd(t, "accounts", "bank-details", "--all")
	require.Error(t, err)
	assert.Empty(t, out)
	assert.Equal(t, exitServer, ExitCode(err))
	assert.Contains(t, err.Error(), "Main EUR")
}

func TestAccountsBankDetailsArgs(t *testing.T) {
	srv := setupTestEnv(t)
	withBusinessEnv(t, srv)

	_, _, err := runCmd(t, "accounts", "bank-details")
	require.Error(t, err)
	assert.Equal(t, exitUsage, ExitCode(err))

	_, _, err = runCmd(t, "accounts", "bank-details", "acc-gbp", "--all")
	require.Error(t, err)
	assert.Equal(t, exitUsage, ExitCode(err))
	assert.Empty(t, apiRequests(srv))
}

func TestAccountsRequireBusinessCredentials(t *testing.T) {
	setupTestEnv(t)
	withMerchantEnv(t)

	_, stderr, err := runCmd(t, "accounts", "list")
	require.Error(t, err)
	assert.Equal(t, exitUsage, ExitCode(err))
	assert.Contains(t, stderr, "revolut auth login")
}
