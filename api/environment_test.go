package api

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvironmentURI(t *testing.T) {
	tests := []struct {
		name    string
		env     Environment
		version string
		path    string
		want    Endpoint
	}{
		{"business sandbox", SandboxEnvironment(ProductBusiness), "1.0", "/accounts", "https://sandbox-b2b.revolut.com/api/1.0/accounts"},
		{"business production", ProductionEnvironment(ProductBusiness), "2.0", "/webhooks", "https://b2b.revolut.com/api/2.0/webhooks"},
		{"business relative path", SandboxEnvironment(ProductBusiness), "1.0", "accounts", "https://sandbox-b2b.revolut.com/api/1.0/accounts"},
		{"merchant sandbox", SandboxEnvironment(ProductMerchant), "1.0", "/orders", "https://sandbox-merchant.revolut.com/api/1.0/orders"},
		{"merchant production", ProductionEnvironment(ProductMerchant), "1.0", "/customers", "https://merchant.revolut.com/api/1.0/customers"},
		{"open banking", SandboxEnvironment(ProductOpenBanking), "v1", "/accounts", "https://sandbox-oba.revolut.com/v1/accounts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.env.URI(tt.version, tt.path))
		})
	}
}

func TestEnvironmentUnversionedURI(t *testing.T) {
	assert.Equal(t, Endpoint("https://sandbox-merchant.revolut.com/api/orders"),
		SandboxEnvironment(ProductMerchant).UnversionedURI("/orders"))
	assert.Equal(t, Endpoint("https://merchant.revolut.com/api/disputes/d-1/accept"),
		ProductionEnvironment(ProductMerchant).UnversionedURI("disputes/d-1/accept"))

	// Merchant versioned URIs are unversioned URIs with a version prefix.
	env := ProductionEnvironment(ProductMerchant)
	assert.Equal(t, env.UnversionedURI("/1.0/orders"), env.URI("1.0", "/orders"))
}

func TestEnvironmentUnversionedURIPanicsForBusiness(t *testing.T) {
	assert.Panics(t, func() {
		SandboxEnvironment(ProductBusiness).UnversionedURI("/accounts")
	})
}

func TestEnvironmentQueryOnlyPath(t *testing.T) {
	env := SandboxEnvironment(ProductBusiness)
	assert.Equal(t, Endpoint("https://sandbox-b2b.revolut.com/api/1.0/payout-links?state=created"),
		env.URI("1.0", "/payout-links"+"?state=created"))
}

func TestEnvironmentCapabilities(t *testing.T) {
	tests := []struct {
		env  Environment
		cap  Capability
		want bool
	}{
		{ProductionEnvironment(ProductBusiness), CapabilityCards, true},
		{SandboxEnvironment(ProductBusiness), CapabilityCards, false},
		{ProductionEnvironment(ProductBusiness), CapabilityExpenses, true},
		{ProductionEnvironment(ProductBusiness), CapabilityTeamMembers, true},
		{SandboxEnvironment(ProductBusiness), CapabilitySimulations, true},
		{ProductionEnvironment(ProductBusiness), CapabilitySimulations, false},
		{ProductionEnvironment(ProductMerchant), CapabilityDisputes, true},
		{SandboxEnvironment(ProductMerchant), CapabilityDisputes, false},
		{ProductionEnvironment(ProductMerchant), CapabilityApplePay, true},
		{SandboxEnvironment(ProductMerchant), CapabilityApplePay, false},
		{ProductionEnvironment(ProductMerchant), CapabilityFastCheckout, true},
		{SandboxEnvironment(ProductMerchant), CapabilityFastCheckout, false},
		{SandboxEnvironment(ProductOpenBanking), CapabilityCards, false},
	}
	for _, tt := range tests {
		if got := tt.env.Supports(tt.cap); got != tt.want {
			t.Errorf("%s.Supports(%s) = %v, want %v", tt.env, tt.cap, got, tt.want)
		}
	}
}

func TestEnvironmentRequire(t *testing.T) {
	require.NoError(t, ProductionEnvironment(ProductBusiness).Require(CapabilityCards))

	err := SandboxEnvironment(ProductBusiness).Require(CapabilityCards)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedEnvironment))
	assert.True(t, IsClientError(err, GenericError))
	assert.Contains(t, err.Error(), "business/sandbox")
}

func TestEnvironmentZero(t *testing.T) {
	var env Environment
	assert.True(t, env.IsZero())
	assert.False(t, SandboxEnvironment(ProductMerchant).IsZero())
	assert.True(t, SandboxEnvironment(ProductMerchant).IsSandbox())
	assert.False(t, ProductionEnvironment(ProductMerchant).IsSandbox())
}
