package main

import (
	"errors"
	"urlscan/internal/config"
	"urlscan/pkg/urlscanio"

	"github.com/spf13/cobra"
)

func submitCommand(cfg *config.Config) *cobra.Command {
	var (
		opts       urlscanio.SubmitOptions
		visibility string
	)

	cmd := &cobra.Command{
		Use:   "submit <url>",
		Short: "Submits a URL to urlscan.io for scanning",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client := getClient(ctx, cfg)

			opts.Visibility = urlscanio.Visibility(visibility)

			resp := client.Submit(ctx, args[0], &opts)
			if resp == nil {
				// the failure itself has already been written to stderr
				return errors.New("scan submission failed")
			}

			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVar(&visibility, "visibility", "", "Scan visibility (public, unlisted or private)")
	cmd.Flags().StringSliceVar(&opts.Tags, "tag", nil, "Tag to attach to the scan (repeatable)")
	cmd.Flags().StringVar(&opts.CustomAgent, "useragent", "", "Custom User-Agent used during the scan")
	cmd.Flags().StringVar(&opts.Referer, "referer", "", "HTTP referer sent while scanning")
	cmd.Flags().StringVar(&opts.Country, "country", "", "Two-letter code of the country to scan from")
	cmd.Flags().StringVar(&opts.OverrideSafety, "override-safety", "",
		"Disable reclassification of the submitted URL")

	return cmd
}
