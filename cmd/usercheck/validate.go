package main

import (
	"fmt"
	"io"
	"os"

	"github.com/deppfellow/usercheck/internal/lib/utils"
	"github.com/deppfellow/usercheck/internal/model"
	"github.com/spf13/cobra"
)

const (
	kindUsers = "users"
	kindToken = "token"
)

func newValidateCmd() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "validate [file|-]",
		Short: "Validate a JSON document and print the typed result",
		Long: `Validate reads JSON from a file, or from stdin when the argument is "-" or
missing, and prints the validated record.

  --kind users   a JSON array of user objects
  --kind token   a single access token request object`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			var result any
			switch kind {
			case kindUsers:
				result, err = model.ParseUsers(data)
			case kindToken:
				result, err = model.ParseAccessTokenRequest(data)
			default:
				return fmt.Errorf("unknown kind %q, expected %q or %q", kind, kindUsers, kindToken)
			}
			if err != nil {
				return err
			}

			return utils.PrintJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&kind, "kind", kindUsers, "record kind: users or token")

	return cmd
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return data, nil
}
