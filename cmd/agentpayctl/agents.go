package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	agentsCmd := &cobra.Command{Use: "agents", Short: "Agent operations"}

	// register
	var operator string
	var dailyLimit uint64
	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Register an agent (caller becomes owner)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if operator == "" {
				return fmt.Errorf("--operator required")
			}
			payload := map[string]interface{}{"operator": operator, "dailyLimit": dailyLimit}
			data, err := doPostJSON(fmt.Sprintf("%s/api/agents", apiFlag), payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	registerCmd.Flags().StringVarP(&operator, "operator", "o", "", "Operator hotkey address (required)")
	registerCmd.Flags().Uint64VarP(&dailyLimit, "limit", "l", 0, "Daily spending limit")
	_ = registerCmd.MarkFlagRequired("operator")
	agentsCmd.AddCommand(registerCmd)

	// get
	getCmd := &cobra.Command{
		Use:   "get AGENT_ID",
		Short: "Get agent by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet(fmt.Sprintf("%s/api/agents/%s", apiFlag, args[0]))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	agentsCmd.AddCommand(getCmd)

	// list by owner
	listCmd := &cobra.Command{
		Use:   "list OWNER",
		Short: "List agents owned by an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet(fmt.Sprintf("%s/api/owners/%s/agents", apiFlag, args[0]))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	agentsCmd.AddCommand(listCmd)

	// set-limit
	var newLimit uint64
	limitCmd := &cobra.Command{
		Use:   "set-limit AGENT_ID",
		Short: "Update an agent's daily limit (owner only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]interface{}{"dailyLimit": newLimit}
			data, err := doPatchJSON(fmt.Sprintf("%s/api/agents/%s/limit", apiFlag, args[0]), payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	limitCmd.Flags().Uint64VarP(&newLimit, "limit", "l", 0, "New daily limit")
	_ = limitCmd.MarkFlagRequired("limit")
	agentsCmd.AddCommand(limitCmd)

	// deactivate
	deactivateCmd := &cobra.Command{
		Use:   "deactivate AGENT_ID",
		Short: "Permanently deactivate an agent (owner only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doPostJSON(fmt.Sprintf("%s/api/agents/%s/deactivate", apiFlag, args[0]), nil)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	agentsCmd.AddCommand(deactivateCmd)

	// spend
	var recipient string
	var amount uint64
	spendCmd := &cobra.Command{
		Use:   "spend AGENT_ID",
		Short: "Autonomous payment within the daily limit (operator only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if recipient == "" {
				return fmt.Errorf("--recipient required")
			}
			payload := map[string]interface{}{"recipient": recipient, "amount": amount}
			data, err := doPostJSON(fmt.Sprintf("%s/api/agents/%s/spend", apiFlag, args[0]), payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	spendCmd.Flags().StringVarP(&recipient, "recipient", "r", "", "Recipient address (required)")
	spendCmd.Flags().Uint64VarP(&amount, "amount", "m", 0, "Amount to send")
	_ = spendCmd.MarkFlagRequired("recipient")
	agentsCmd.AddCommand(spendCmd)

	// pay
	var payAmount uint64
	payCmd := &cobra.Command{
		Use:   "pay AGENT_ID",
		Short: "Pay an agent (funds settle to its owner)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]interface{}{"amount": payAmount}
			data, err := doPostJSON(fmt.Sprintf("%s/api/agents/%s/payments", apiFlag, args[0]), payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	payCmd.Flags().Uint64VarP(&payAmount, "amount", "m", 0, "Amount to pay")
	_ = payCmd.MarkFlagRequired("amount")
	agentsCmd.AddCommand(payCmd)

	rootCmd.AddCommand(agentsCmd)
}
