package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config represents the CLI configuration. It covers the environment the tool
// runs in, the urlscan.io API key and the outbound HTTP behavior. The client
// library itself takes its key as a constructor argument; this struct only
// feeds the CLI wiring.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`

	// APIKey is the urlscan.io API key sent with every request
	APIKey string `env:"URLSCAN_API_KEY" yaml:"apiKey"`

	// HTTP contains outbound HTTP client configuration
	HTTP struct {
		// Timeout bounds a whole request including reading the response body
		Timeout time.Duration `env:"HTTP_TIMEOUT" env-default:"30s" yaml:"timeout"`
	} `yaml:"http"`
}

// Load receives the path of a yaml config file and returns a filled Config
// struct. A missing file is not an error: the tool is commonly configured
// through environment variables alone, so in that case only the environment
// is read.
func Load(configPath string) (*Config, error) {
	var cfg Config

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("could not read environment: %w", err)
		}

		return &cfg, nil
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	return &cfg, nil
}
