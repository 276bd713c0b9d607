package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/revolut-cli/revolut-cli/business"
	"github.com/revolut-cli/revolut-cli/internal/resolve"
)

// maxConcurrentBankDetails bounds the requests issued by 'bank-details --all'.
const maxConcurrentBankDetails = 4

func newAccountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "accounts",
		Aliases: []string{"account", "acc"},
		Short:   "Inspect Business accounts",
	}

	cmd.AddCommand(newAccountsListCmd())
	cmd.AddCommand(newAccountsGetCmd())
	cmd.AddCommand(newAccountsBankDetailsCmd())

	return cmd
}

func newAccountsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List accounts",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getBusinessClient(cmd)
			if err != nil {
				return err
			}
			accounts, err := client.ListAccounts(cmd.Context())
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, accounts)
			}
			w := newTabWriterFromCmd(cmd)
			_, _ = fmt.Fprintln(w, "ID\tNAME\tBALANCE\tCURRENCY\tSTATE\tPUBLIC")
			for _, a := range accounts {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%s\t%t\n", a.ID, a.DisplayName(), a.Balance, a.Currency, a.State, a.Public)
			}
			return w.Flush()
		}),
	}
}

func newAccountsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id|name>",
		Short: "Show one account",
		Long:  "Show one account. The argument is an account ID or a (fuzzy) account name.",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := getBusinessClient(cmd)
			if err != nil {
				return err
			}
			id, err := resolveAccountID(ctx, client, args[0])
			if err != nil {
				return err
			}
			account, err := client.GetAccount(ctx, id)
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, account)
			}
			w := newTabWriterFromCmd(cmd)
			_, _ = fmt.Fprintf(w, "ID:\t%s\n", account.ID)
			_, _ = fmt.Fprintf(w, "Name:\t%s\n", account.DisplayName())
			_, _ = fmt.Fprintf(w, "Balance:\t%.2f %s\n", account.Balance, account.Currency)
			_, _ = fmt.Fprintf(w, "State:\t%s\n", account.State)
			_, _ = fmt.Fprintf(w, "Public:\t%t\n", account.Public)
			_, _ = fmt.Fprintf(w, "Created:\t%s\n", account.CreatedAt)
			return w.Flush()
		}),
	}
}

// accountBankDetails pairs an account with its bank details.
type accountBankDetails struct {
	AccountID   string                `json:"account_id"`
	AccountName string                `json:"account_name"`
	Currency    string                `json:"currency"`
	BankDetails *business.BankDetails `json:"bank_details"`
}

func newAccountsBankDetailsCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "bank-details [id|name]",
		Short: "Show bank details of an account",
		Example: strings.TrimSpace(`
  revolut accounts bank-details "Main GBP"
  revolut accounts bank-details --all --output json
`),
		Args: func(cmd *cobra.Command, args []string) error {
			if all && len(args) > 0 {
				return fmt.Errorf("accepts no account argument when --all is set")
			}
			if !all && len(args) != 1 {
				return fmt.Errorf("an account ID or name is required (or use --all)")
			}
			return nil
		},
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := getBusinessClient(cmd)
			if err != nil {
				return err
			}

			var results []accountBankDetails
			if all {
				accounts, err := client.ListAccounts(ctx)
				if err != nil {
					return err
				}
				if results, err = fetchAllBankDetails(ctx, client, accounts); err != nil {
					return err
				}
			} else {
				id, err := resolveAccountID(ctx, client, args[0])
				if err != nil {
					return err
				}
				account, err := client.GetAccount(ctx, id)
				if err != nil {
					return err
				}
				details, err := client.GetBankDetails(ctx, id)
				if err != nil {
					return err
				}
				results = []accountBankDetails{{
					AccountID:   account.ID,
					AccountName: account.DisplayName(),
					Currency:    account.Currency,
					BankDetails: details,
				}}
			}

			if isJSON(cmd) {
				if !all {
					return printJSON(cmd, results[0])
				}
				return printJSON(cmd, results)
			}
			w := newTabWriterFromCmd(cmd)
			_, _ = fmt.Fprintln(w, "ACCOUNT\tCURRENCY\tBENEFICIARY\tIBAN\tBIC\tACCOUNT NO\tSORT CODE")
			for _, r := range results {
				d := r.BankDetails
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					r.AccountName, r.Currency, d.Beneficiary,
					orDash(deref(d.IBAN)), orDash(deref(d.BIC)), orDash(deref(d.AccountNo)), orDash(deref(d.SortCode)))
			}
			return w.Flush()
		}),
	}

	cmd.Flags().BoolVar(&all, "all", false, "Show bank details of every account")
	return cmd
}

// fetchAllBankDetails fetches bank details for every account with bounded
// concurrency. Results keep the order of accounts; the first error cancels
// the remaining requests.
func fetchAllBankDetails(ctx context.Context, client *business.Client, accounts []business.Account) ([]accountBankDetails, error) {
	results := make([]accountBankDetails, len(accounts))
	sem := semaphore.NewWeighted(maxConcurrentBankDetails)
	g, gctx := errgroup.WithContext(ctx)

	for i, account := range accounts {
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			details, err := client.GetBankDetails(gctx, account.ID)
			if err != nil {
				return fmt.Errorf("account %s: %w", account.DisplayName(), err)
			}
			results[i] = accountBankDetails{
				AccountID:   account.ID,
				AccountName: account.DisplayName(),
				Currency:    account.Currency,
				BankDetails: details,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// resolveAccountID accepts an account ID or a fuzzy account name.
func resolveAccountID(ctx context.Context, client *business.Client, ref string) (string, error) {
	accounts, err := client.ListAccounts(ctx)
	if err != nil {
		return "", err
	}
	items := make([]resolve.Named, len(accounts))
	for i, a := range accounts {
		items[i] = resolve.Named{ID: a.ID, Name: a.DisplayName()}
	}
	return resolve.Resolve(ref, items)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
