package merchant

import (
	"os"

	"github.com/revolut-cli/revolut-cli/api"
)

// Authentication holds the Merchant API secret key.
type Authentication struct {
	secretKey string
	set       bool
}

// SecretKey returns the configured secret key.
func (a Authentication) SecretKey() string { return a.secretKey }

func (a Authentication) isZero() bool { return !a.set }

// AuthenticationBuilder accumulates Merchant credentials. Methods return a new
// builder and leave the receiver untouched.
type AuthenticationBuilder struct {
	secretKey *string
}

func NewAuthenticationBuilder() AuthenticationBuilder {
	return AuthenticationBuilder{}
}

func (b AuthenticationBuilder) WithSecretKey(secretKey string) AuthenticationBuilder {
	b.secretKey = &secretKey
	return b
}

// WithEnvironmentInheritedSecretKey reads the secret key from the named
// environment variable. On error the returned builder equals the receiver.
func (b AuthenticationBuilder) WithEnvironmentInheritedSecretKey(name string) (AuthenticationBuilder, error) {
	value, ok := os.LookupEnv(name)
	if !ok {
		return b, api.NewMissingEnvironmentVariable(name)
	}
	return b.WithSecretKey(value), nil
}

func (b AuthenticationBuilder) Build() (Authentication, error) {
	if b.secretKey == nil {
		return Authentication{}, api.NewIncompleteBuilder("secret key is not set")
	}
	return Authentication{secretKey: *b.secretKey, set: true}, nil
}
