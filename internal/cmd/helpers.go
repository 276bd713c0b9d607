package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/revolut-cli/revolut-cli/api"
	"github.com/revolut-cli/revolut-cli/business"
	"github.com/revolut-cli/revolut-cli/internal/config"
	"github.com/revolut-cli/revolut-cli/internal/dryrun"
	"github.com/revolut-cli/revolut-cli/internal/filter"
	"github.com/revolut-cli/revolut-cli/merchant"
)

// Streams holds the input/output streams of a command run.
type Streams struct {
	Out    io.Writer
	ErrOut io.Writer
	In     io.Reader
}

type streamsKey struct{}

// WithStreams makes Execute write to s instead of the process streams.
func WithStreams(ctx context.Context, s *Streams) context.Context {
	return context.WithValue(ctx, streamsKey{}, s)
}

func streamsFrom(ctx context.Context) *Streams {
	if s, ok := ctx.Value(streamsKey{}).(*Streams); ok && s != nil {
		return s
	}
	return &Streams{Out: os.Stdout, ErrOut: os.Stderr, In: os.Stdin}
}

// clientOptions is extended in tests to route clients to a fake backend.
var clientOptions = func() []api.Option {
	return []api.Option{
		api.WithTimeout(flags.Timeout),
		api.WithUserAgent("revolut-cli/" + version),
	}
}

// loadProfile resolves credentials, applying --sandbox when given.
func loadProfile(cmd *cobra.Command) (config.Profile, error) {
	p, err := config.Load(flags.Profile)
	if err != nil {
		return config.Profile{}, err
	}
	if flagChanged(cmd, "sandbox") {
		p.Sandbox = flags.Sandbox
	}
	return p, nil
}

func getBusinessClient(cmd *cobra.Command) (*business.Client, error) {
	p, err := loadProfile(cmd)
	if err != nil {
		return nil, err
	}
	return config.BusinessClient(p, clientOptions()...)
}

func getMerchantClient(cmd *cobra.Command) (*merchant.Client, error) {
	p, err := loadProfile(cmd)
	if err != nil {
		return nil, err
	}
	return config.MerchantClient(p, clientOptions()...)
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if f := cmd.Flags().Lookup(name); f != nil {
		return f.Changed
	}
	return false
}

// newTabWriter creates a tabwriter for text output
func newTabWriter(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
}

func newTabWriterFromCmd(cmd *cobra.Command) *tabwriter.Writer {
	return newTabWriter(cmd.OutOrStdout())
}

func isJSON(_ *cobra.Command) bool {
	return flags.Output == outputJSON
}

// printJSON outputs data as indented JSON, filtered through --jq when set.
func printJSON(cmd *cobra.Command, v any) error {
	if flags.JQ != "" {
		filtered, err := filter.ApplyToValue(v, flags.JQ)
		if err != nil {
			return err
		}
		v = filtered
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printIfNotJSON(cmd *cobra.Command, format string, args ...any) {
	if isJSON(cmd) {
		return
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}

// maybeDryRun prints preview and reports true when --dry-run is set.
func maybeDryRun(cmd *cobra.Command, preview *dryrun.Preview) (bool, error) {
	if !dryrun.IsEnabled(cmd.Context()) {
		return false, nil
	}
	if isJSON(cmd) {
		return true, printJSON(cmd, preview)
	}
	preview.Write(cmd.OutOrStdout())
	return true, nil
}

func ptr[T any](v T) *T { return &v }

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// errAlreadyHandled is a sentinel error indicating the error was already printed to stderr.
// Commands using RunE return this to signal Cobra that an error occurred (for exit code)
// without Cobra printing it again (since SilenceErrors is true on root command).
var errAlreadyHandled = errors.New("error already handled")

type handledError struct {
	err      error
	exitCode int
}

func (e *handledError) Error() string {
	return e.err.Error()
}

func (e *handledError) Unwrap() []error {
	return []error{errAlreadyHandled, e.err}
}

func (e *handledError) ExitCode() int {
	return e.exitCode
}

// RunE wraps a command function with enhanced error handling
func RunE(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if err != nil {
			if isJSON(cmd) {
				_ = printJSONErr(cmd, err)
			} else {
				_, _ = fmt.Fprint(cmd.ErrOrStderr(), HandleError(err))
			}
			return &handledError{err: err, exitCode: ExitCode(err)}
		}
		return nil
	}
}

func printJSONErr(cmd *cobra.Command, err error) error {
	payload := map[string]any{
		"error":     err.Error(),
		"exit_code": ExitCode(err),
	}
	var backendErr *api.BackendError
	if errors.As(err, &backendErr) {
		payload["status"] = backendErr.StatusCode
		payload["backend"] = backendErr
	}
	enc := json.NewEncoder(cmd.ErrOrStderr())
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
