package cmd

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/revolut-cli/revolut-cli/internal/dryrun"
	"github.com/revolut-cli/revolut-cli/internal/timeexpr"
	"github.com/revolut-cli/revolut-cli/merchant"
)

// timeNow is replaced in tests.
var timeNow = time.Now

var orderStates = []string{
	string(merchant.OrderStatePending),
	string(merchant.OrderStateProcessing),
	string(merchant.OrderStateAuthorised),
	string(merchant.OrderStateCompleted),
	string(merchant.OrderStateCancelled),
	string(merchant.OrderStateFailed),
}

func newOrdersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "orders",
		Aliases: []string{"order"},
		Short:   "Manage Merchant orders",
	}

	cmd.AddCommand(newOrdersListCmd())
	cmd.AddCommand(newOrdersGetCmd())
	cmd.AddCommand(newOrdersCancelCmd())

	return cmd
}

func newOrdersListCmd() *cobra.Command {
	var (
		limit  int
		states []string
		since  string
		until  string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List orders",
		Args:    cobra.NoArgs,
		Example: strings.TrimSpace(`
  revolut orders list --limit 20 --state completed --state authorised
  revolut orders list --since 7d --until yesterday
`),
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			var params merchant.OrderListParams
			if cmd.Flags().Changed("limit") {
				if limit < 1 || limit > 1000 {
					return fmt.Errorf("--limit must be between 1 and 1000")
				}
				params.Limit = &limit
			}
			for _, s := range states {
				state, err := normalizeEnum("state", s, orderStates)
				if err != nil {
					return err
				}
				params.State = append(params.State, merchant.OrderState(state))
			}
			now := timeNow()
			var from, to time.Time
			if since != "" {
				t, err := timeexpr.ParsePast(since, now)
				if err != nil {
					return fmt.Errorf("invalid --since: %w", err)
				}
				from = t
				params.FromCreatedDate = ptr(timeexpr.Format(t))
			}
			if until != "" {
				t, err := timeexpr.ParsePast(until, now)
				if err != nil {
					return fmt.Errorf("invalid --until: %w", err)
				}
				to = t
				params.ToCreatedDate = ptr(timeexpr.Format(t))
			}
			if !from.IsZero() && !to.IsZero() && !from.Before(to) {
				return fmt.Errorf("--since must be before --until")
			}

			client, err := getMerchantClient(cmd)
			if err != nil {
				return err
			}
			orders, err := client.ListOrders(cmd.Context(), params)
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, orders)
			}
			w := newTabWriterFromCmd(cmd)
			_, _ = fmt.Fprintln(w, "ID\tSTATE\tAMOUNT\tCURRENCY\tCREATED\tDESCRIPTION")
			for _, o := range orders {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					o.ID, orDash(string(deref(o.State))), formatMinorUnits(o.Amount), orDash(deref(o.Currency)),
					orDash(deref(o.CreatedAt)), orDash(deref(o.Description)))
			}
			return w.Flush()
		}),
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of orders to return (1-1000)")
	cmd.Flags().StringVar(&since, "since", "", "Only orders created at or after this time (e.g. 7d, yesterday, 2024-03-01)")
	cmd.Flags().StringVar(&until, "until", "", "Only orders created before this time")
	cmd.Flags().StringSliceVar(&states, "state", nil, "Filter by state (repeatable): "+strings.Join(orderStates, "|"))
	_ = cmd.RegisterFlagCompletionFunc("state", cobra.FixedCompletions(orderStates, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func newOrdersGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <order-id>",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getMerchantClient(cmd)
			if err != nil {
				return err
			}
			order, err := client.GetOrder(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, order)
			}
			w := newTabWriterFromCmd(cmd)
			_, _ = fmt.Fprintf(w, "ID:\t%s\n", order.ID)
			_, _ = fmt.Fprintf(w, "State:\t%s\n", orDash(string(deref(order.State))))
			_, _ = fmt.Fprintf(w, "Amount:\t%s %s\n", formatMinorUnits(order.Amount), deref(order.Currency))
			_, _ = fmt.Fprintf(w, "Outstanding:\t%s\n", formatMinorUnits(order.OutstandingAmount))
			_, _ = fmt.Fprintf(w, "Refunded:\t%s\n", formatMinorUnits(order.RefundedAmount))
			_, _ = fmt.Fprintf(w, "Created:\t%s\n", orDash(deref(order.CreatedAt)))
			_, _ = fmt.Fprintf(w, "Payments:\t%d\n", len(order.Payments))
			if order.CheckoutURL != nil {
				_, _ = fmt.Fprintf(w, "Checkout:\t%s\n", *order.CheckoutURL)
			}
			return w.Flush()
		}),
	}
}

func newOrdersCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <order-id>",
		Short: "Cancel an order",
		Long:  "Cancel an uncaptured order. Honors --dry-run.",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			orderID := args[0]
			client, err := getMerchantClient(cmd)
			if err != nil {
				return err
			}

			uri := client.Environment().UnversionedURI("/orders/" + url.PathEscape(orderID) + "/cancel")
			preview := dryrun.New("cancel", "order", "POST", uri.String()).
				With("order_id", orderID).
				With("environment", client.Environment().String())
			if handled, err := maybeDryRun(cmd, preview); handled {
				return err
			}

			order, err := client.CancelOrder(cmd.Context(), orderID)
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, order)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Cancelled order %s (state: %s)\n", order.ID, orDash(string(deref(order.State))))
			return nil
		}),
	}
}

// normalizeEnum lowercases input and checks it against valid.
func normalizeEnum(flagName, input string, valid []string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(input))
	for _, v := range valid {
		if v == value {
			return value, nil
		}
	}
	return "", fmt.Errorf("invalid --%s %q: must be one of %s", flagName, input, strings.Join(valid, ", "))
}

// formatMinorUnits renders an amount in minor units as a decimal with two places.
func formatMinorUnits(amount *int64) string {
	if amount == nil {
		return "-"
	}
	v := *amount
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
