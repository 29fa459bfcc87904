package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	registryCmd := &cobra.Command{Use: "registry", Short: "Registry operations"}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the registry (caller becomes authority)",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doPostJSON(fmt.Sprintf("%s/api/registry", apiFlag), nil)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	registryCmd.AddCommand(initCmd)

	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Show registry aggregates",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet(fmt.Sprintf("%s/api/registry", apiFlag))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	registryCmd.AddCommand(getCmd)

	rootCmd.AddCommand(registryCmd)
}
