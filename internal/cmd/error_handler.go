package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/revolut-cli/revolut-cli/api"
	"github.com/revolut-cli/revolut-cli/internal/config"
)

// HandleError processes an error and returns a user-friendly message with suggestions
func HandleError(err error) string {
	if err == nil {
		return ""
	}

	var msg strings.Builder
	var backendErr *api.BackendError
	var builderErr *api.ClientBuilderError

	switch {
	case errors.Is(err, config.ErrNotConfigured),
		errors.Is(err, config.ErrNoBusinessCredentials),
		errors.Is(err, config.ErrNoMerchantCredentials):
		fmt.Fprintf(&msg, "Error: %s\n\n", err)
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Run: revolut auth login --product business|merchant\n")
		msg.WriteString("  - Or export REVOLUT_CLIENT_ASSERTION and REVOLUT_REFRESH_TOKEN, or REVOLUT_SECRET_KEY\n")

	case errors.Is(err, api.ErrUnsupportedEnvironment):
		fmt.Fprintf(&msg, "Error: %s\n\n", err)
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Toggle --sandbox; some operations exist only in production or only in sandbox\n")

	case api.IsCannotLogIn(err):
		fmt.Fprintf(&msg, "Authentication failed: %s\n\n", err)
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Check that the client assertion has not expired\n")
		msg.WriteString("  - Obtain a new refresh token with: revolut auth login --authorization-code CODE\n")
		msg.WriteString("  - Make sure --sandbox matches the environment the credentials were issued for\n")

	case errors.As(err, &backendErr):
		fmt.Fprintf(&msg, "API error: %s\n\n", backendErr)
		msg.WriteString(suggestionsForStatusCode(backendErr.StatusCode))
		if backendErr.ErrorID != nil {
			fmt.Fprintf(&msg, "\nError ID: %s\n", *backendErr.ErrorID)
		}

	case errors.As(err, &builderErr):
		fmt.Fprintf(&msg, "Configuration error: %s\n", err)

	case api.IsRequestError(err):
		fmt.Fprintf(&msg, "Request failed: %s\n\n", err)
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Check your network connection\n")
		msg.WriteString("  - Increase --timeout for slow endpoints\n")
		msg.WriteString("  - Use --debug to see the request\n")

	default:
		fmt.Fprintf(&msg, "Error: %s\n", err.Error())
	}

	return msg.String()
}

func suggestionsForStatusCode(code int) string {
	var suggestions strings.Builder
	suggestions.WriteString("Suggestions:\n")

	switch {
	case code == 400 || code == 422:
		suggestions.WriteString("  - Check your request parameters\n")
		suggestions.WriteString("  - Use --debug to see the full request\n")
	case code == 401:
		suggestions.WriteString("  - Your credentials may be invalid or revoked\n")
		suggestions.WriteString("  - Run: revolut auth login\n")
	case code == 403:
		suggestions.WriteString("  - The API certificate or key lacks the required scope\n")
	case code == 404:
		suggestions.WriteString("  - The resource doesn't exist\n")
		suggestions.WriteString("  - Check the ID, and that --sandbox matches where it was created\n")
	case code == 429:
		suggestions.WriteString("  - Too many requests; wait and retry\n")
	case code >= 500:
		suggestions.WriteString("  - Revolut returned a server error; wait and retry\n")
	default:
		suggestions.WriteString("  - Use --debug for more details\n")
	}

	return suggestions.String()
}
