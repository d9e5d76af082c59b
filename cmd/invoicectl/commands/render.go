package commands

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/evcomfg/invoice-backend/internal/services"
)

func renderCmd(a *app) *cobra.Command {
	var (
		orderPath      string
		outPath        string
		rejectNegative bool
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render an order to an invoice PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, order, err := a.readOrder(cmd, orderPath, a.decodeOptions(rejectNegative))
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			result, err := a.container.Services.Invoices.Render(ctx, order, &buf)
			if err != nil {
				return err
			}

			if outPath == stdinPath {
				_, err = cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (render %s, total %s)\n",
				outPath, result.RenderID, services.NewBreakdownView(result.Breakdown).Total)
			return nil
		},
	}
	cmd.Flags().StringVar(&orderPath, "order", "", "order JSON file, or - for stdin")
	cmd.Flags().StringVar(&outPath, "out", "invoice.pdf", "destination PDF, or - for stdout")
	cmd.Flags().BoolVar(&rejectNegative, "reject-negative", false, "reject negative prices")
	_ = cmd.MarkFlagRequired("order")
	return cmd
}
