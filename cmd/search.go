package main

import (
	"errors"
	"urlscan/internal/config"
	"urlscan/pkg/urlscanio"

	"github.com/spf13/cobra"
)

func searchCommand(cfg *config.Config) *cobra.Command {
	var opts urlscanio.SearchOptions

	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Searches prior scans with an Elasticsearch-style query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client := getClient(ctx, cfg)

			resp, err := client.Search(ctx, args[0], &opts)
			if err != nil {
				return err
			}
			if resp == nil {
				return errors.New("search failed")
			}

			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().IntVar(&opts.Size, "size", 0, "Maximum number of results to return")
	cmd.Flags().StringVar(&opts.SearchAfter, "search-after", "",
		"Pagination cursor from a previous response")

	return cmd
}
