// Package main provides the urlscan CLI. It wires subcommands (submit,
// result, search), loads configuration, and initializes logging.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log"
	"net/http"
	"os"
	"urlscan/internal/config"
	"urlscan/pkg/logger"
	"urlscan/pkg/urlscanio"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// getClient creates a urlscan.io client from configuration values.
func getClient(ctx context.Context, cfg *config.Config) *urlscanio.Client {
	client, err := urlscanio.New(cfg.APIKey, urlscanio.Options{
		HTTPClient: &http.Client{Timeout: cfg.HTTP.Timeout},
	})
	if err != nil {
		logger.Fatal(ctx, "could not create urlscan.io client", zap.Error(err))
	}

	return client
}

// printJSON writes v to w as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

// main sets up the root Cobra command, loads configuration and logging, and
// registers subcommands before executing the CLI.
func main() {
	rootCmd := &cobra.Command{
		Use:          "urlscan",
		Short:        "Submit, fetch and search urlscan.io scans",
		SilenceUsage: true,
	}

	// there is no way to access flags before command execution in cobra.
	// configPath here is parsed using the standard flags package.
	// following line is just added to prevent errors when Cobra is parsing the flags.
	rootCmd.PersistentFlags().StringP("config", "c", "config.yml", "Config File Path")

	configPath := flag.String("c", "config.yml", "The config file path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("could not load config file", err)
	}

	logger.Setup(cfg.Environment)

	ctx := context.Background()

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			_ = logger.Get(ctx).Sync()

			panic(p)
		}
	}()

	rootCmd.AddCommand(
		submitCommand(cfg),
		resultCommand(cfg),
		searchCommand(cfg),
	)

	err = rootCmd.ExecuteContext(ctx)
	_ = logger.Get(ctx).Sync()
	if err != nil {
		os.Exit(1) //nolint: gocritic
	}
}
