package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	accountsCmd := &cobra.Command{Use: "accounts", Short: "Ledger account operations"}

	getCmd := &cobra.Command{
		Use:   "get ADDRESS",
		Short: "Show an account balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet(fmt.Sprintf("%s/api/accounts/%s", apiFlag, args[0]))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	accountsCmd.AddCommand(getCmd)

	var amount uint64
	depositCmd := &cobra.Command{
		Use:   "deposit ADDRESS",
		Short: "Credit an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]interface{}{"amount": amount}
			data, err := doPostJSON(fmt.Sprintf("%s/api/accounts/%s/deposit", apiFlag, args[0]), payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	depositCmd.Flags().Uint64VarP(&amount, "amount", "m", 0, "Amount to credit")
	_ = depositCmd.MarkFlagRequired("amount")
	accountsCmd.AddCommand(depositCmd)

	rootCmd.AddCommand(accountsCmd)
}
