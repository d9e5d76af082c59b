package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/evcomfg/invoice-backend/internal/services"
)

func quoteCmd(a *app) *cobra.Command {
	var (
		orderPath      string
		rejectNegative bool
	)
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Print the price breakdown of an order as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, order, err := a.readOrder(cmd, orderPath, a.decodeOptions(rejectNegative))
			if err != nil {
				return err
			}
			view := services.NewBreakdownView(a.container.Services.Invoices.Quote(ctx, order))

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(view)
		},
	}
	cmd.Flags().StringVar(&orderPath, "order", "", "order JSON file, or - for stdin")
	cmd.Flags().BoolVar(&rejectNegative, "reject-negative", false, "reject negative prices")
	_ = cmd.MarkFlagRequired("order")
	return cmd
}
