package main

import (
	"errors"
	"urlscan/internal/config"

	"github.com/spf13/cobra"
)

func resultCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "result <scan-id>",
		Short: "Fetches the report of a previously submitted scan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client := getClient(ctx, cfg)

			resp := client.Result(ctx, args[0])
			if resp == nil {
				return errors.New("could not fetch scan result")
			}

			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	return cmd
}
