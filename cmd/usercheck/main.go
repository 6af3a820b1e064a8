package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "usercheck",
		Short: "Validate access tokens and user records",
		Long: `usercheck validates access token requests and user records, and serves
the same checks over HTTP together with a cached proxy to the users API.

Configuration is read from USERCHECK_* environment variables and an
optional .env file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(),
		newValidateCmd(),
		newFetchCmd(),
	)

	return root
}
