package config

import (
	"errors"
	"fmt"

	"github.com/revolut-cli/revolut-cli/api"
	"github.com/revolut-cli/revolut-cli/business"
	"github.com/revolut-cli/revolut-cli/merchant"
)

var (
	// ErrNoBusinessCredentials is returned when the resolved profile lacks Business credentials.
	ErrNoBusinessCredentials = errors.New("no business credentials configured - run 'revolut auth login --product business'")
	// ErrNoMerchantCredentials is returned when the resolved profile lacks a Merchant secret key.
	ErrNoMerchantCredentials = errors.New("no merchant credentials configured - run 'revolut auth login --product merchant'")
)

// BusinessClient builds a Business client from the profile's refresh-token
// credentials.
func BusinessClient(p Profile, opts ...api.Option) (*business.Client, error) {
	if p.Business == nil {
		return nil, ErrNoBusinessCredentials
	}
	auth, err := business.NewAuthenticationBuilder().
		WithClientAssertion(p.Business.ClientAssertion).
		WithRefreshToken(p.Business.RefreshToken).
		Build()
	if err != nil {
		return nil, fmt.Errorf("invalid business credentials: %w", err)
	}

	b := business.NewClientBuilder()
	if p.Sandbox {
		b.WithSandboxEnvironment()
	} else {
		b.WithProductionEnvironment()
	}
	return b.WithAuthentication(auth).WithOptions(opts...).Build()
}

// AuthorizationCodeClient builds a Business client that exchanges a one-time
// authorization code. It is used by 'auth login' to obtain a refresh token.
func AuthorizationCodeClient(sandbox bool, clientAssertion, code string, opts ...api.Option) (*business.Client, error) {
	auth, err := business.NewAuthenticationBuilder().
		WithClientAssertion(clientAssertion).
		WithAuthorizationCode(code).
		Build()
	if err != nil {
		return nil, err
	}
	b := business.NewClientBuilder()
	if sandbox {
		b.WithSandboxEnvironment()
	} else {
		b.WithProductionEnvironment()
	}
	return b.WithAuthentication(auth).WithOptions(opts...).Build()
}

// MerchantClient builds a Merchant client from the profile's secret key.
func MerchantClient(p Profile, opts ...api.Option) (*merchant.Client, error) {
	if p.Merchant == nil {
		return nil, ErrNoMerchantCredentials
	}
	auth, err := merchant.NewAuthenticationBuilder().WithSecretKey(p.Merchant.SecretKey).Build()
	if err != nil {
		return nil, fmt.Errorf("invalid merchant credentials: %w", err)
	}

	b := merchant.NewClientBuilder()
	if p.Sandbox {
		b.WithSandboxEnvironment()
	} else {
		b.WithProductionEnvironment()
	}
	return b.WithAuthentication(auth).WithOptions(opts...).Build()
}
