// Package config loads the API server configuration from the environment.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=2401"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	RecorderWorkers int `env:"RECORDER_WORKERS, default=4"`

	Mongo  MongoConfig
	Redis  RedisConfig
	Market MarketConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=crypto_dss"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type MarketConfig struct {
	FuturesBaseURL string        `env:"MARKET_FUTURES_URL, default=https://fapi.binance.com"`
	SpotBaseURL    string        `env:"MARKET_SPOT_URL,    default=https://api.binance.com"`
	Retries        int           `env:"MARKET_RETRIES,     default=3"`
	RetryDelay     time.Duration `env:"MARKET_RETRY_DELAY, default=1s"`
}

// Load reads the configuration from environment variables. The JWT secret is
// the only mandatory setting.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}
	return &cfg, nil
}
