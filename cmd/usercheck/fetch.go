package main

import (
	"fmt"

	"github.com/deppfellow/usercheck/internal/config"
	"github.com/deppfellow/usercheck/internal/lib/utils"
	"github.com/deppfellow/usercheck/internal/logger"
	"github.com/deppfellow/usercheck/internal/model"
	"github.com/deppfellow/usercheck/internal/service"
	"github.com/deppfellow/usercheck/internal/upstream"
	"github.com/spf13/cobra"
)

func newFetchCmd() *cobra.Command {
	var (
		token string
		ids   []int
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch users from the upstream API and print them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input := map[string]any{}
			if cmd.Flags().Changed("token") {
				input["access_token"] = token
			}
			req, err := model.NewAccessTokenRequest(input)
			if err != nil {
				return err
			}

			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}

			// stdout carries the result, logs go to stderr.
			log := logger.NewWithWriter(cfg.Observability, cmd.ErrOrStderr())

			client, err := upstream.NewClient(cfg.Upstream, &log)
			if err != nil {
				return fmt.Errorf("failed to create upstream client: %w", err)
			}

			users, err := service.NewUserService(client, nil, &log).Lookup(cmd.Context(), req, ids)
			if err != nil {
				return err
			}

			return utils.PrintJSON(cmd.OutOrStdout(), users)
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "access token for the users API")
	cmd.Flags().IntSliceVar(&ids, "ids", nil, "comma separated user ids")
	_ = cmd.MarkFlagRequired("ids")

	return cmd
}
