package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/spf13/pflag"

	"github.com/revolut-cli/revolut-cli/api"
	"github.com/revolut-cli/revolut-cli/internal/config"
	"github.com/revolut-cli/revolut-cli/internal/resolve"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitOK},
		{"help", pflag.ErrHelp, exitOK},
		{"generic", errors.New("boom"), exitGeneric},
		{"backend 401", &api.BackendError{StatusCode: 401}, exitAuth},
		{"backend 404", &api.BackendError{StatusCode: 404}, exitNotFound},
		{"backend 422", &api.BackendError{StatusCode: 422}, exitGeneric},
		{"backend 503", &api.BackendError{StatusCode: 503}, exitServer},
		{"wrapped backend", fmt.Errorf("account x: %w", &api.BackendError{StatusCode: 500}), exitServer},
		{"cannot log in", api.NewClientError(api.CannotLogIn, "", nil), exitAuth},
		{"login rejected by backend", api.NewClientError(api.CannotLogIn, "token endpoint returned status 400", &api.BackendError{StatusCode: 400}), exitAuth},
		{"request error", api.NewClientError(api.RequestError, "request failed", nil), exitNetwork},
		{"unsupported environment", &api.ClientError{Kind: api.GenericError, Err: api.ErrUnsupportedEnvironment}, exitUsage},
		{"serialization", api.NewClientError(api.SerializationError, "bad json", nil), exitGeneric},
		{"builder", &api.ClientBuilderError{Kind: api.IncompleteBuilder, Detail: "no environment"}, exitUsage},
		{"not configured", config.ErrNotConfigured, exitUsage},
		{"no business credentials", config.ErrNoBusinessCredentials, exitUsage},
		{"no merchant credentials", config.ErrNoMerchantCredentials, exitUsage},
		{"no match", &resolve.NoMatchError{Query: "x"}, exitNotFound},
		{"ambiguous", &resolve.AmbiguousError{Query: "main"}, exitUsage},
		{"unknown flag", errors.New("unknown flag: --nope"), exitUsage},
		{"required flag", errors.New(`required flag(s) "product" not set`), exitUsage},
		{"deadline", context.DeadlineExceeded, exitNetwork},
		{"net error", &net.OpError{Op: "dial", Err: errors.New("refused")}, exitNetwork},
		{"handled keeps code", &handledError{err: errors.New("x"), exitCode: exitServer}, exitServer},
		{"handled without code", &handledError{err: config.ErrNotConfigured}, exitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
