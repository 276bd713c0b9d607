package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newReportsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reports",
		Aliases: []string{"report"},
		Short:   "Work with Merchant report runs",
	}

	cmd.AddCommand(newReportsGetCmd())
	cmd.AddCommand(newReportsDownloadCmd())

	return cmd
}

func newReportsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <report-run-id>",
		Short: "Show the status of a report run",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getMerchantClient(cmd)
			if err != nil {
				return err
			}
			run, err := client.GetReportRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, run)
			}
			w := newTabWriterFromCmd(cmd)
			_, _ = fmt.Fprintf(w, "ID:\t%s\n", run.ReportRunID)
			_, _ = fmt.Fprintf(w, "Status:\t%s\n", run.Status)
			_, _ = fmt.Fprintf(w, "File:\t%s\n", orDash(deref(run.FileURL)))
			return w.Flush()
		}),
	}
}

func newReportsDownloadCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "download <report-run-id>",
		Short: "Download the file of a completed report run",
		Args:  cobra.ExactArgs(1),
		Example: strings.TrimSpace(`
  revolut reports download 3f2a... --out settlement.csv
  revolut reports download 3f2a... --out - > settlement.csv
`),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getMerchantClient(cmd)
			if err != nil {
				return err
			}
			data, err := client.DownloadReport(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if out == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0o600); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"report_run_id": args[0], "path": out, "bytes": len(data)})
			}
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d bytes to %s\n", len(data), out)
			return nil
		}),
	}

	cmd.Flags().StringVar(&out, "out", "", "Destination file ('-' for stdout)")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
