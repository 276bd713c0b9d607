package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/revolut-cli/revolut-cli/api"
	"github.com/revolut-cli/revolut-cli/internal/config"
	"github.com/revolut-cli/revolut-cli/internal/debug"
	"github.com/revolut-cli/revolut-cli/internal/dryrun"
)

const (
	outputText = "text"
	outputJSON = "json"
)

// rootFlags holds global CLI flags
type rootFlags struct {
	Output  string
	Debug   bool
	DryRun  bool
	JQ      string
	Timeout time.Duration
	Sandbox bool
	Profile string
	EnvFile string
}

// flags holds the global command flags. It is reset at the start of every
// Execute call; reading it outside a command's RunE sees the previous run.
var flags rootFlags

func defaultFlags() rootFlags {
	return rootFlags{
		Output:  outputText,
		Timeout: api.DefaultTimeout,
	}
}

// Execute runs the root command
func Execute(ctx context.Context, args []string) error {
	flags = defaultFlags()
	streams := streamsFrom(ctx)

	root := &cobra.Command{
		Use:           "revolut",
		Short:         "CLI for the Revolut Business and Merchant APIs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if err := config.LoadEnvFile(flags.EnvFile); err != nil {
				return err
			}

			flags.Output = strings.ToLower(strings.TrimSpace(flags.Output))
			if flags.JQ != "" {
				if cmd.Flags().Changed("output") && flags.Output != outputJSON {
					return fmt.Errorf("--jq must be used with --output json")
				}
				flags.Output = outputJSON
			}
			if flags.Output != outputText && flags.Output != outputJSON {
				return fmt.Errorf("invalid --output %q: must be text or json", flags.Output)
			}
			if flags.Timeout <= 0 {
				return fmt.Errorf("--timeout must be positive")
			}

			debug.SetupLoggerTo(cmd.ErrOrStderr(), flags.Debug)
			ctx = debug.WithDebug(ctx, flags.Debug)
			ctx = dryrun.WithDryRun(ctx, flags.DryRun)

			cmd.SetContext(ctx)
			return nil
		},
	}

	root.SetContext(ctx)
	root.SetArgs(args)
	root.SetOut(streams.Out)
	root.SetErr(streams.ErrOut)
	root.SetIn(streams.In)

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.Output, "output", "o", flags.Output, "Output format: text|json")
	pf.BoolVar(&flags.Debug, "debug", false, "Enable debug logging")
	pf.BoolVar(&flags.DryRun, "dry-run", false, "Preview changes without executing")
	pf.StringVar(&flags.JQ, "jq", "", "jq expression to filter JSON output (implies --output json)")
	pf.DurationVar(&flags.Timeout, "timeout", flags.Timeout, "HTTP request timeout (e.g., 30s, 2m)")
	pf.BoolVar(&flags.Sandbox, "sandbox", false, "Use the sandbox environment (overrides the profile)")
	pf.StringVar(&flags.Profile, "profile", "", "Credential profile (env REVOLUT_PROFILE)")
	pf.StringVar(&flags.EnvFile, "env-file", "", "Load environment variables from this file (default ~/.config/revolut-cli/.env)")

	root.AddCommand(newAuthCmd())
	root.AddCommand(newAccountsCmd())
	root.AddCommand(newOrdersCmd())
	root.AddCommand(newReportsCmd())
	root.AddCommand(newWebhooksCmd())
	root.AddCommand(newVersionCmd())

	if err := root.Execute(); err != nil {
		if !errors.Is(err, errAlreadyHandled) {
			_, _ = fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		}
		return err
	}
	return nil
}
