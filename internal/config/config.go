package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

type Config struct {
	StoreBackend string `envconfig:"STORE_BACKEND" default:"postgres"`
	DBSource     string `envconfig:"DB_SOURCE"`

	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
	RedisPoolSize int    `envconfig:"REDIS_POOL_SIZE" default:"10"`

	Port     string `envconfig:"SERVER_PORT" default:"8080"`
	Env      string `envconfig:"ENVIRONMENT" default:"development"`
	Timezone string `envconfig:"TIMEZONE" default:"America/Argentina/Buenos_Aires"`

	// Optional YAML tariff overriding the built-in court prices.
	PriceTableFile string `envconfig:"PRICE_TABLE_FILE"`

	// Events are published only when RabbitURL is set.
	RabbitURL      string `envconfig:"RABBIT_URL"`
	EventsExchange string `envconfig:"EVENTS_EXCHANGE" default:"courtledger.events"`

	// Function selects the handler a serverless binary serves.
	Function string `envconfig:"FUNCTION" default:"router"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case BackendPostgres:
		if c.DBSource == "" {
			return fmt.Errorf("DB_SOURCE environment variable is required")
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR environment variable is required")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	return nil
}

// IsProduction reports whether the service runs with production defaults.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
