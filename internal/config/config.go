// Package config loads runtime settings from the environment and an optional
// gudang.yaml file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Snapshot store drivers.
const (
	DriverJSON     = "json"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all configuration for the application.
type Config struct {
	AppPort           string
	StoreDriver       string
	DataFile          string
	DatabaseDSN       string
	RabbitMQURL       string // empty disables event publishing
	JWTSecret         string
	AdminUsername     string
	AdminPasswordHash string
	TokenTTL          time.Duration
	LoadOnStart       bool
	SeedDemo          bool
}

// Load reads configuration with v, applying defaults first. Environment variables
// override gudang.yaml, which overrides the defaults.
func Load(v *viper.Viper) (*Config, error) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("STORE_DRIVER", DriverJSON)
	v.SetDefault("DATA_FILE", "inventory.json")
	v.SetDefault("DATABASE_DSN", "")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_PASSWORD_HASH", "")
	v.SetDefault("TOKEN_TTL", 24*time.Hour)
	v.SetDefault("LOAD_ON_START", true)
	v.SetDefault("SEED_DEMO", false)
	v.AutomaticEnv()

	v.SetConfigName("gudang")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		AppPort:           v.GetString("APP_PORT"),
		StoreDriver:       strings.ToLower(v.GetString("STORE_DRIVER")),
		DataFile:          v.GetString("DATA_FILE"),
		DatabaseDSN:       v.GetString("DATABASE_DSN"),
		RabbitMQURL:       v.GetString("RABBITMQ_URL"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		AdminUsername:     v.GetString("ADMIN_USERNAME"),
		AdminPasswordHash: v.GetString("ADMIN_PASSWORD_HASH"),
		TokenTTL:          v.GetDuration("TOKEN_TTL"),
		LoadOnStart:       v.GetBool("LOAD_ON_START"),
		SeedDemo:          v.GetBool("SEED_DEMO"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverJSON:
		if c.DataFile == "" {
			return fmt.Errorf("DATA_FILE is required for the %s driver", c.StoreDriver)
		}
	case DriverSQLite, DriverPostgres:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("DATABASE_DSN is required for the %s driver", c.StoreDriver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (must be json, sqlite, postgres or memory)", c.StoreDriver)
	}

	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.AdminUsername == "" {
		return fmt.Errorf("ADMIN_USERNAME is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	return nil
}
