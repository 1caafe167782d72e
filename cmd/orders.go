package main

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var ordersLimit int

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List recently saved orders",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		orders, err := st.ListOrders(ctx, ordersLimit)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(orders), "encode orders")
	},
}

func init() {
	ordersCmd.Flags().IntVar(&ordersLimit, "limit", 20, "maximum number of orders to list")
	rootCmd.AddCommand(ordersCmd)
}
