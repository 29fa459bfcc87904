package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	requestsCmd := &cobra.Command{Use: "requests", Short: "Payment request operations"}

	// create
	var agentID, recipient, purpose string
	var amount uint64
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Escalate an over-limit payment for owner approval (operator only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if agentID == "" || recipient == "" {
				return fmt.Errorf("--agent and --recipient required")
			}
			payload := map[string]interface{}{
				"recipient": recipient,
				"amount":    amount,
				"purpose":   purpose,
			}
			data, err := doPostJSON(fmt.Sprintf("%s/api/agents/%s/requests", apiFlag, agentID), payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	createCmd.Flags().StringVarP(&agentID, "agent", "g", "", "Agent ID (required)")
	createCmd.Flags().StringVarP(&recipient, "recipient", "r", "", "Recipient address (required)")
	createCmd.Flags().Uint64VarP(&amount, "amount", "m", 0, "Amount to request")
	createCmd.Flags().StringVarP(&purpose, "purpose", "p", "", "Purpose, max 200 characters")
	_ = createCmd.MarkFlagRequired("agent")
	_ = createCmd.MarkFlagRequired("recipient")
	requestsCmd.AddCommand(createCmd)

	// get
	getCmd := &cobra.Command{
		Use:   "get REQUEST_ID",
		Short: "Get payment request by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet(fmt.Sprintf("%s/api/requests/%s", apiFlag, args[0]))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	requestsCmd.AddCommand(getCmd)

	// list by agent
	listCmd := &cobra.Command{
		Use:   "list AGENT_ID",
		Short: "List payment requests for an agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet(fmt.Sprintf("%s/api/agents/%s/requests", apiFlag, args[0]))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	requestsCmd.AddCommand(listCmd)

	// pending by owner
	pendingCmd := &cobra.Command{
		Use:   "pending OWNER",
		Short: "List pending requests awaiting an owner's decision",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet(fmt.Sprintf("%s/api/owners/%s/requests/pending", apiFlag, args[0]))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	requestsCmd.AddCommand(pendingCmd)

	// approve
	approveCmd := &cobra.Command{
		Use:   "approve REQUEST_ID",
		Short: "Approve a pending request and execute the payment (owner only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doPostJSON(fmt.Sprintf("%s/api/requests/%s/approve", apiFlag, args[0]), nil)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	requestsCmd.AddCommand(approveCmd)

	// reject
	rejectCmd := &cobra.Command{
		Use:   "reject REQUEST_ID",
		Short: "Reject a pending request (owner only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doPostJSON(fmt.Sprintf("%s/api/requests/%s/reject", apiFlag, args[0]), nil)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	requestsCmd.AddCommand(rejectCmd)

	rootCmd.AddCommand(requestsCmd)
}
