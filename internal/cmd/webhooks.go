package cmd

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/revolut-cli/revolut-cli/internal/dryrun"
	"github.com/revolut-cli/revolut-cli/internal/validation"
	"github.com/revolut-cli/revolut-cli/merchant"
)

var webhookEvents = []string{
	string(merchant.WebhookOrderCompleted),
	string(merchant.WebhookOrderAuthorised),
	string(merchant.WebhookOrderCancelled),
	string(merchant.WebhookOrderPaymentAuthenticated),
	string(merchant.WebhookOrderPaymentDeclined),
	string(merchant.WebhookOrderPaymentFailed),
	string(merchant.WebhookPayoutInitiated),
	string(merchant.WebhookPayoutCompleted),
	string(merchant.WebhookPayoutFailed),
	string(merchant.WebhookDisputeActionRequired),
	string(merchant.WebhookDisputeUnderReview),
	string(merchant.WebhookDisputeWon),
	string(merchant.WebhookDisputeLost),
}

func newWebhooksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "webhooks",
		Aliases: []string{"webhook"},
		Short:   "Manage Merchant webhooks",
	}

	cmd.AddCommand(newWebhooksListCmd())
	cmd.AddCommand(newWebhooksCreateCmd())
	cmd.AddCommand(newWebhooksDeleteCmd())

	return cmd
}

func newWebhooksListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List webhooks",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getMerchantClient(cmd)
			if err != nil {
				return err
			}
			hooks, err := client.ListWebhooks(cmd.Context())
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, hooks)
			}
			w := newTabWriterFromCmd(cmd)
			_, _ = fmt.Fprintln(w, "ID\tURL\tEVENTS")
			for _, h := range hooks {
				events := make([]string, len(h.Events))
				for i, e := range h.Events {
					events[i] = string(e)
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", h.ID, orDash(deref(h.URL)), orDash(strings.Join(events, ",")))
			}
			return w.Flush()
		}),
	}
}

func newWebhooksCreateCmd() *cobra.Command {
	var (
		hookURL string
		events  []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a webhook URL",
		Long:  "Register a URL that Revolut calls for the given events. Honors --dry-run.",
		Args:  cobra.NoArgs,
		Example: strings.TrimSpace(`
  revolut webhooks create --url https://shop.example.com/revolut --event ORDER_COMPLETED --event ORDER_AUTHORISED
`),
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if len(events) == 0 {
				return fmt.Errorf("at least one --event is required")
			}
			req := merchant.WebhookRequest{URL: strings.TrimSpace(hookURL)}
			names := make([]string, 0, len(events))
			for _, e := range events {
				event, err := normalizeEvent(e)
				if err != nil {
					return err
				}
				names = append(names, event)
				req.Events = append(req.Events, merchant.WebhookEvent(event))
			}

			client, err := getMerchantClient(cmd)
			if err != nil {
				return err
			}
			sandbox := client.Environment().IsSandbox()
			if err := validation.ValidateWebhookURL(req.URL, sandbox); err != nil {
				return err
			}

			preview := dryrun.New("create", "webhook", "POST", client.Environment().URI("1.0", "/webhooks").String()).
				With("url", req.URL).
				With("events", strings.Join(names, ","))
			if handled, err := maybeDryRun(cmd, preview); handled {
				return err
			}

			hook, err := client.CreateWebhook(cmd.Context(), req)
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, hook)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created webhook %s\n", hook.ID)
			if hook.SigningSecret != nil {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Signing secret: %s\n", *hook.SigningSecret)
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&hookURL, "url", "", "URL Revolut delivers events to")
	cmd.Flags().StringSliceVar(&events, "event", nil, "Event to subscribe to (repeatable): "+strings.Join(webhookEvents, "|"))
	_ = cmd.MarkFlagRequired("url")
	_ = cmd.RegisterFlagCompletionFunc("event", cobra.FixedCompletions(webhookEvents, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

func newWebhooksDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <webhook-id>",
		Short: "Delete a webhook",
		Long:  "Delete a webhook. Honors --dry-run.",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id := args[0]
			client, err := getMerchantClient(cmd)
			if err != nil {
				return err
			}

			preview := dryrun.New("delete", "webhook", "DELETE", client.Environment().URI("1.0", "/webhooks/"+url.PathEscape(id)).String()).
				With("webhook_id", id)
			if handled, err := maybeDryRun(cmd, preview); handled {
				return err
			}

			if err := client.DeleteWebhook(cmd.Context(), id); err != nil {
				return err
			}
			printIfNotJSON(cmd, "Deleted webhook %s\n", id)
			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"id": id, "deleted": true})
			}
			return nil
		}),
	}
}

// normalizeEvent uppercases input and checks it against the known events.
func normalizeEvent(input string) (string, error) {
	value := strings.ToUpper(strings.TrimSpace(input))
	for _, e := range webhookEvents {
		if e == value {
			return value, nil
		}
	}
	return "", fmt.Errorf("invalid --event %q: must be one of %s", input, strings.Join(webhookEvents, ", "))
}
