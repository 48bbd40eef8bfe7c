package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"storefront/internal/logger"
)

const (
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

type Config struct {
	Env  string `envconfig:"APP_ENV" default:"development"`
	Port string `envconfig:"PORT" default:"8080"`

	MongoURI string `envconfig:"MONGO_URI"`
	MongoDB  string `envconfig:"MONGO_DB" default:"storefront"`

	Catalog CatalogConfig
	Chat    ChatConfig
	Admin   AdminConfig
}

type CatalogConfig struct {
	Backend            string        `envconfig:"CATALOG_BACKEND" default:"mongo"`
	Collection         string        `envconfig:"CATALOG_COLLECTION" default:"products"`
	RevertFailedWrites bool          `envconfig:"CATALOG_REVERT_FAILED_WRITES" default:"true"`
	WriteTimeout       time.Duration `envconfig:"CATALOG_WRITE_TIMEOUT" default:"5s"`
}

type ChatConfig struct {
	SessionTTL time.Duration `envconfig:"CHAT_SESSION_TTL" default:"30m"`
}

type AdminConfig struct {
	Email        string        `envconfig:"ADMIN_EMAIL"`
	PasswordHash string        `envconfig:"ADMIN_PASSWORD_HASH"`
	JWTSecret    string        `envconfig:"JWT_SECRET"`
	TokenTTL     time.Duration `envconfig:"JWT_TTL" default:"12h"`
}

// IsProduction reports whether the service runs with production defaults
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// LoadConfig reads .env when present and then the process environment
func LoadConfig() (*Config, error) {
	// .env is only expected on developer machines
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			logger.Warn().Err(err).Msg("error loading .env file")
		} else {
			logger.Info().Msg(".env file loaded")
		}
	} else {
		logger.Info().Msg("using system environment variables")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects combinations the service cannot start with
func (c *Config) Validate() error {
	switch c.Catalog.Backend {
	case BackendMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required for the %q catalog backend", BackendMongo)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown CATALOG_BACKEND %q", c.Catalog.Backend)
	}
	if c.Catalog.WriteTimeout <= 0 {
		return fmt.Errorf("CATALOG_WRITE_TIMEOUT must be positive")
	}
	if c.Admin.JWTSecret == "" && c.IsProduction() {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	return nil
}
