package business

import (
	"os"

	"github.com/revolut-cli/revolut-cli/api"
)

// Grant is the OAuth grant a Business authentication exchanges for an access token.
type Grant int

const (
	GrantRefreshToken Grant = iota + 1
	GrantAuthorizationCode
)

func (g Grant) String() string {
	switch g {
	case GrantRefreshToken:
		return "refresh_token"
	case GrantAuthorizationCode:
		return "authorization_code"
	default:
		return "unknown"
	}
}

// Authentication holds Business API credentials. Exactly one of the
// authorization code and the refresh token is present; build it with an
// AuthenticationBuilder.
type Authentication struct {
	clientAssertion   string
	authorizationCode string
	refreshToken      string
	grant             Grant
}

func (a Authentication) ClientAssertion() string { return a.clientAssertion }

func (a Authentication) AuthorizationCode() (string, bool) {
	return a.authorizationCode, a.grant == GrantAuthorizationCode
}

func (a Authentication) RefreshToken() (string, bool) {
	return a.refreshToken, a.grant == GrantRefreshToken
}

// Grant reports which grant the authentication was built with.
func (a Authentication) Grant() Grant { return a.grant }

func (a Authentication) isZero() bool { return a.grant == 0 }

// AuthenticationBuilder accumulates Business credentials. Each method returns
// a new builder; the receiver is never modified, so a failed call leaves the
// caller's builder as it was.
type AuthenticationBuilder struct {
	clientAssertion   *string
	authorizationCode *string
	refreshToken      *string
}

func NewAuthenticationBuilder() AuthenticationBuilder {
	return AuthenticationBuilder{}
}

func (b AuthenticationBuilder) WithClientAssertion(assertion string) AuthenticationBuilder {
	b.clientAssertion = &assertion
	return b
}

// WithEnvironmentInheritedClientAssertion reads the client assertion from the
// named environment variable.
func (b AuthenticationBuilder) WithEnvironmentInheritedClientAssertion(name string) (AuthenticationBuilder, error) {
	value, err := lookupEnv(name)
	if err != nil {
		return b, err
	}
	return b.WithClientAssertion(value), nil
}

func (b AuthenticationBuilder) WithAuthorizationCode(code string) AuthenticationBuilder {
	b.authorizationCode = &code
	return b
}

func (b AuthenticationBuilder) WithEnvironmentInheritedAuthorizationCode(name string) (AuthenticationBuilder, error) {
	value, err := lookupEnv(name)
	if err != nil {
		return b, err
	}
	return b.WithAuthorizationCode(value), nil
}

func (b AuthenticationBuilder) WithRefreshToken(token string) AuthenticationBuilder {
	b.refreshToken = &token
	return b
}

func (b AuthenticationBuilder) WithEnvironmentInheritedRefreshToken(name string) (AuthenticationBuilder, error) {
	value, err := lookupEnv(name)
	if err != nil {
		return b, err
	}
	return b.WithRefreshToken(value), nil
}

// Build returns the Authentication once the client assertion and exactly one
// grant are set.
func (b AuthenticationBuilder) Build() (Authentication, error) {
	if b.clientAssertion == nil {
		return Authentication{}, api.NewIncompleteBuilder("client assertion is not set")
	}
	switch {
	case b.authorizationCode != nil && b.refreshToken != nil:
		return Authentication{}, api.NewIncompleteBuilder("authorization code and refresh token are mutually exclusive")
	case b.refreshToken != nil:
		return Authentication{
			clientAssertion: *b.clientAssertion,
			refreshToken:    *b.refreshToken,
			grant:           GrantRefreshToken,
		}, nil
	case b.authorizationCode != nil:
		return Authentication{
			clientAssertion:   *b.clientAssertion,
			authorizationCode: *b.authorizationCode,
			grant:             GrantAuthorizationCode,
		}, nil
	default:
		return Authentication{}, api.NewIncompleteBuilder("one of authorization code or refresh token must be set")
	}
}

func lookupEnv(name string) (string, error) {
	value, ok := os.LookupEnv(name)
	if !ok {
		return "", api.NewMissingEnvironmentVariable(name)
	}
	return value, nil
}
