// Package dryrun previews mutating requests without sending them.
package dryrun

import (
	"context"
	"fmt"
	"io"
	"sort"
)

type contextKey string

const dryRunKey contextKey = "revolut_dry_run"

// WithDryRun returns a context with dry-run mode enabled/disabled.
func WithDryRun(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, dryRunKey, enabled)
}

// IsEnabled returns true if dry-run mode is enabled.
func IsEnabled(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	if v, ok := ctx.Value(dryRunKey).(bool); ok {
		return v
	}
	return false
}

// Preview describes the request a mutating command would send.
type Preview struct {
	Operation string         `json:"operation"`
	Resource  string         `json:"resource"`
	Method    string         `json:"method,omitempty"`
	URL       string         `json:"url,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	Warnings  []string       `json:"warnings,omitempty"`
	DryRun    bool           `json:"dry_run"`
}

// New returns a preview for method against url.
func New(operation, resource, method, url string) *Preview {
	return &Preview{
		Operation: operation,
		Resource:  resource,
		Method:    method,
		URL:       url,
		DryRun:    true,
	}
}

// With records a detail shown in the preview.
func (p *Preview) With(key string, value any) *Preview {
	if p.Details == nil {
		p.Details = make(map[string]any)
	}
	p.Details[key] = value
	return p
}

// Warn appends a warning line.
func (p *Preview) Warn(msg string) *Preview {
	p.Warnings = append(p.Warnings, msg)
	return p
}

// Write outputs the preview to the writer
func (p *Preview) Write(w io.Writer) {
	_, _ = fmt.Fprintf(w, "\n[DRY-RUN] Would %s %s\n", p.Operation, p.Resource)
	_, _ = fmt.Fprintf(w, "───────────────────────────────────────\n")

	if p.Method != "" {
		_, _ = fmt.Fprintf(w, "%s %s\n\n", p.Method, p.URL)
	}

	if len(p.Details) > 0 {
		keys := make([]string, 0, len(p.Details))
		for k := range p.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			_, _ = fmt.Fprintf(w, "  %s: %v\n", k, p.Details[k])
		}
		_, _ = fmt.Fprintln(w)
	}

	if len(p.Warnings) > 0 {
		_, _ = fmt.Fprintln(w, "Warnings:")
		for _, warning := range p.Warnings {
			_, _ = fmt.Fprintf(w, "  ! %s\n", warning)
		}
		_, _ = fmt.Fprintln(w)
	}

	_, _ = fmt.Fprintf(w, "───────────────────────────────────────\n")
	_, _ = fmt.Fprintln(w, "No changes made (dry-run mode)")
}
