package cmd

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/spf13/pflag"

	"github.com/revolut-cli/revolut-cli/api"
	"github.com/revolut-cli/revolut-cli/internal/config"
	"github.com/revolut-cli/revolut-cli/internal/resolve"
)

const (
	exitOK       = 0
	exitGeneric  = 1
	exitUsage    = 2
	exitAuth     = 3
	exitNotFound = 4
	exitServer   = 7
	exitNetwork  = 8
)

// ExitCode maps an error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return exitOK
	}
	if errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}
	var handled *handledError
	if errors.As(err, &handled) {
		if handled.exitCode != 0 {
			return handled.exitCode
		}
		err = handled.err
	}

	if code := exitCodeFromAPI(err); code != 0 {
		return code
	}
	if isConfigError(err) || isUsageError(err) {
		return exitUsage
	}
	if isNetworkError(err) {
		return exitNetwork
	}
	return exitGeneric
}

func exitCodeFromAPI(err error) int {
	// Login failures wrap the token endpoint's response; classify them first.
	var clientErr *api.ClientError
	if errors.As(err, &clientErr) {
		switch {
		case clientErr.Kind == api.CannotLogIn:
			return exitAuth
		case clientErr.Kind == api.RequestError:
			return exitNetwork
		case errors.Is(err, api.ErrUnsupportedEnvironment):
			return exitUsage
		}
	}

	var backendErr *api.BackendError
	if errors.As(err, &backendErr) {
		switch {
		case backendErr.StatusCode == 401:
			return exitAuth
		case backendErr.StatusCode == 404:
			return exitNotFound
		case backendErr.StatusCode >= 500:
			return exitServer
		default:
			return exitGeneric
		}
	}

	var noMatch *resolve.NoMatchError
	if errors.As(err, &noMatch) {
		return exitNotFound
	}
	return 0
}

func isConfigError(err error) bool {
	var ambiguous *resolve.AmbiguousError
	return api.IsClientBuilderError(err) ||
		errors.Is(err, config.ErrNotConfigured) ||
		errors.Is(err, config.ErrNoBusinessCredentials) ||
		errors.Is(err, config.ErrNoMerchantCredentials) ||
		errors.As(err, &ambiguous)
}

func isNetworkError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func isUsageError(err error) bool {
	msg := strings.ToLower(err.Error())
	indicators := []string{
		"unknown command",
		"unknown flag",
		"unknown shorthand flag",
		"flag needs an argument",
		"requires at least",
		"requires exactly",
		"accepts ",
		"invalid argument",
		"must be",
		"is required",
		"required flag",
	}
	for _, indicator := range indicators {
		if strings.Contains(msg, indicator) {
			return true
		}
	}
	return false
}
