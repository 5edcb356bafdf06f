package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	// APIBaseURL is the trading API origin, including the /api prefix.
	APIBaseURL string `env:"CRYPTODSS_API_URL, default=http://localhost:2401/api"`
	// StateFile overrides the default state location under the user config dir.
	StateFile string `env:"CRYPTODSS_STATE_FILE"`
	LogLevel  string `env:"CRYPTODSS_LOG_LEVEL, default=warn"`
}

// Load reads client configuration from environment variables.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.StateFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir = "."
		}
		cfg.StateFile = filepath.Join(dir, "cryptodss", "state.json")
	}
	return &cfg, nil
}
