package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/revolut-cli/revolut-cli/internal/config"
	"github.com/revolut-cli/revolut-cli/internal/debug"
	"github.com/revolut-cli/revolut-cli/internal/oauth"
)

const (
	productBusiness = "business"
	productMerchant = "merchant"

	defaultRedirectURI = "http://127.0.0.1:8765/callback"
)

// openURL is replaced in tests.
var openURL = oauth.OpenBrowser

// newAuthCmd returns the auth command with subcommands
func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage authentication credentials",
		Long:  "Configure and manage Revolut API credentials stored securely in your OS keychain.",
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthLogoutCmd())

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var (
		product           string
		clientAssertion   string
		refreshToken      string
		authorizationCode string
		secretKey         string
		skipVerify        bool
		browser           bool
		clientID          string
		redirectURI       string
		scopes            []string
		wait              time.Duration
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store credentials for a product",
		Long: strings.TrimSpace(`
Save Revolut API credentials to your OS keychain.

Business credentials are a client assertion (signed JWT) plus either a
refresh token or a one-time authorization code. An authorization code is
exchanged immediately and the issued refresh token is stored. With --browser
the CLI opens the consent page and receives the code on --redirect-uri, which
must match the redirect URI registered for the API certificate.

Merchant credentials are the API secret key.

Values not given as flags are read from REVOLUT_CLIENT_ASSERTION,
REVOLUT_REFRESH_TOKEN and REVOLUT_SECRET_KEY.
`),
		Example: strings.TrimSpace(`
  # Grant consent in the browser and store the issued refresh token
  revolut auth login --product business --browser --client-id "$CLIENT_ID" --client-assertion "$JWT"

  # Exchange an authorization code from the consent redirect
  revolut auth login --product business --sandbox --client-assertion "$JWT" --authorization-code oa_sand_xxx

  # Store a merchant secret key under a named profile
  revolut auth login --product merchant --profile shop --secret-key sk_xxx
`),
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			name := profileName()

			var creds config.Profile
			creds.Sandbox = flags.Sandbox

			switch strings.ToLower(strings.TrimSpace(product)) {
			case productBusiness:
				clientAssertion = firstNonEmpty(clientAssertion, os.Getenv(config.EnvClientAssertion))
				if clientAssertion == "" {
					return fmt.Errorf("--client-assertion is required for business")
				}
				if browser {
					if authorizationCode != "" || refreshToken != "" {
						return fmt.Errorf("--browser cannot be combined with --authorization-code or --refresh-token")
					}
					if strings.TrimSpace(clientID) == "" {
						return fmt.Errorf("--client-id is required with --browser")
					}
					code, err := receiveAuthorizationCode(cmd, clientID, redirectURI, scopes, wait)
					if err != nil {
						return err
					}
					authorizationCode = code
				}
				if authorizationCode != "" && refreshToken != "" {
					return fmt.Errorf("--authorization-code and --refresh-token must not be combined")
				}
				if authorizationCode != "" {
					client, err := config.AuthorizationCodeClient(flags.Sandbox, clientAssertion, authorizationCode, clientOptions()...)
					if err != nil {
						return err
					}
					resp, err := client.LoginWithAuthorizationCode(ctx)
					if err != nil {
						return err
					}
					refreshToken = resp.RefreshToken
				} else {
					refreshToken = firstNonEmpty(refreshToken, os.Getenv(config.EnvRefreshToken))
				}
				if refreshToken == "" {
					return fmt.Errorf("--refresh-token or --authorization-code is required for business")
				}
				creds.Business = &config.BusinessCredentials{ClientAssertion: clientAssertion, RefreshToken: refreshToken}

				if authorizationCode == "" && !skipVerify {
					client, err := config.BusinessClient(creds, clientOptions()...)
					if err != nil {
						return err
					}
					if err := client.EnsureLoggedIn(ctx); err != nil {
						return err
					}
				}

			case productMerchant:
				secretKey = firstNonEmpty(secretKey, os.Getenv(config.EnvSecretKey))
				if secretKey == "" {
					return fmt.Errorf("--secret-key is required for merchant")
				}
				creds.Merchant = &config.MerchantCredentials{SecretKey: secretKey}

			default:
				return fmt.Errorf("--product must be %s or %s", productBusiness, productMerchant)
			}

			existing, err := config.LoadProfile(name)
			if err != nil && !errors.Is(err, config.ErrNotConfigured) {
				return err
			}
			if err := config.SaveProfile(name, existing.Merge(creds)); err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{
					"profile": name,
					"product": product,
					"sandbox": creds.Sandbox,
				})
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved %s credentials to profile %q (%s)\n", product, name, environmentLabel(creds.Sandbox))
			return nil
		}),
	}

	cmd.Flags().StringVar(&product, "product", "", "Product to configure: business|merchant")
	cmd.Flags().StringVar(&clientAssertion, "client-assertion", "", "Business client assertion JWT")
	cmd.Flags().StringVar(&refreshToken, "refresh-token", "", "Business refresh token")
	cmd.Flags().StringVar(&authorizationCode, "authorization-code", "", "Business one-time authorization code")
	cmd.Flags().StringVar(&secretKey, "secret-key", "", "Merchant API secret key")
	cmd.Flags().BoolVar(&skipVerify, "skip-verify", false, "Store business credentials without a test login")
	cmd.Flags().BoolVar(&browser, "browser", false, "Obtain the business authorization code through the browser consent page")
	cmd.Flags().StringVar(&clientID, "client-id", "", "Business API client ID (with --browser)")
	cmd.Flags().StringVar(&redirectURI, "redirect-uri", defaultRedirectURI, "Loopback redirect URI registered for the API certificate (with --browser)")
	cmd.Flags().StringSliceVar(&scopes, "scope", nil, "Requested scopes, e.g. READ,WRITE,PAY (with --browser)")
	cmd.Flags().DurationVar(&wait, "wait", oauth.DefaultWait, "How long to wait for consent (with --browser)")
	_ = cmd.MarkFlagRequired("product")
	_ = cmd.RegisterFlagCompletionFunc("product", cobra.FixedCompletions([]string{productBusiness, productMerchant}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// receiveAuthorizationCode prints the consent URL, tries to open it and waits
// for Revolut to redirect back with a code.
func receiveAuthorizationCode(cmd *cobra.Command, clientID, redirectURI string, scopes []string, wait time.Duration) (string, error) {
	receiver, err := oauth.NewReceiver(redirectURI)
	if err != nil {
		return "", err
	}
	if err := receiver.Start(); err != nil {
		return "", err
	}

	consent := receiver.ConsentURL(flags.Sandbox, strings.TrimSpace(clientID), scopes)
	errOut := cmd.ErrOrStderr()
	_, _ = fmt.Fprintf(errOut, "Open this URL in your browser to authorize the CLI:\n  %s\n", consent)
	if err := openURL(consent); err != nil {
		_, _ = fmt.Fprintf(errOut, "Could not open browser automatically: %v\n", err)
	}
	_, _ = fmt.Fprintf(errOut, "Waiting for the redirect to %s\n", receiver.RedirectURI())

	ctx, cancel := context.WithTimeout(cmd.Context(), wait)
	defer cancel()
	code, err := receiver.Wait(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		return "", fmt.Errorf("no consent received within %s", wait)
	}
	return code, err
}

type authStatus struct {
	Profile  string `json:"profile"`
	Source   string `json:"source"`
	Sandbox  bool   `json:"sandbox"`
	Business bool   `json:"business"`
	Merchant bool   `json:"merchant"`
	Secret   string `json:"merchant_secret_key,omitempty"`
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which credentials are configured",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			status := authStatus{Source: "environment"}

			p, fromEnv, err := config.ProfileFromEnv()
			if err != nil {
				return err
			}
			if !fromEnv {
				status.Source = "keyring"
				status.Profile = profileName()
				if p, err = config.LoadProfile(status.Profile); err != nil {
					return err
				}
			}
			if flagChanged(cmd, "sandbox") {
				p.Sandbox = flags.Sandbox
			}

			status.Sandbox = p.Sandbox
			status.Business = p.Business != nil
			status.Merchant = p.Merchant != nil
			if p.Merchant != nil {
				status.Secret = debug.Redact(p.Merchant.SecretKey)
			}

			if isJSON(cmd) {
				return printJSON(cmd, status)
			}

			w := newTabWriterFromCmd(cmd)
			if status.Profile != "" {
				_, _ = fmt.Fprintf(w, "Profile:\t%s\n", status.Profile)
			}
			_, _ = fmt.Fprintf(w, "Source:\t%s\n", status.Source)
			_, _ = fmt.Fprintf(w, "Environment:\t%s\n", environmentLabel(status.Sandbox))
			_, _ = fmt.Fprintf(w, "Business:\t%s\n", configuredLabel(status.Business))
			_, _ = fmt.Fprintf(w, "Merchant:\t%s\n", configuredLabel(status.Merchant))
			if status.Secret != "" {
				_, _ = fmt.Fprintf(w, "Secret key:\t%s\n", status.Secret)
			}
			return w.Flush()
		}),
	}
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove a stored profile",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			name := profileName()
			if err := config.DeleteProfile(name); err != nil {
				return err
			}
			printIfNotJSON(cmd, "Removed profile %q\n", name)
			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"profile": name, "removed": true})
			}
			return nil
		}),
	}
}

// profileName resolves --profile, then REVOLUT_PROFILE, then the current profile.
func profileName() string {
	if flags.Profile != "" {
		return flags.Profile
	}
	if env := strings.TrimSpace(os.Getenv(config.EnvProfile)); env != "" {
		return env
	}
	if current, err := config.CurrentProfile(); err == nil {
		return current
	}
	return "default"
}

func environmentLabel(sandbox bool) string {
	if sandbox {
		return "sandbox"
	}
	return "production"
}

func configuredLabel(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
