// Package config loads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment variable the service reads.
const EnvPrefix = "BREWCART"

// Store drivers understood by the API.
const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is the full service configuration.
type Config struct {
	App     AppConfig
	Store   StoreConfig
	Redis   RedisConfig
	Session SessionConfig
	Tracing TracingConfig
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// AppConfig holds listener and logging settings.
type AppConfig struct {
	Env      string `envconfig:"BREWCART_APP_ENV" default:"dev"`
	Addr     string `envconfig:"BREWCART_APP_ADDR" default:":8443"`
	LogLevel string `envconfig:"BREWCART_LOG_LEVEL" default:"info"`
	TLSCert  string `envconfig:"BREWCART_TLS_CERT"`
	TLSKey   string `envconfig:"BREWCART_TLS_KEY"`
}

// TLSEnabled reports whether both the certificate and key are configured.
func (a AppConfig) TLSEnabled() bool {
	return a.TLSCert != "" && a.TLSKey != ""
}

// StoreConfig selects the key-value backend.
type StoreConfig struct {
	Driver     string `envconfig:"BREWCART_STORE_DRIVER" default:"memory"`
	DSN        string `envconfig:"BREWCART_STORE_DSN"`
	SQLitePath string `envconfig:"BREWCART_SQLITE_PATH" default:"brewcart.db"`
}

// RedisConfig describes the Redis connection used by the redis driver and
// the session registry.
type RedisConfig struct {
	URL          string        `envconfig:"BREWCART_REDIS_URL"`
	Address      string        `envconfig:"BREWCART_REDIS_ADDR"`
	Password     string        `envconfig:"BREWCART_REDIS_PASSWORD"`
	DB           int           `envconfig:"BREWCART_REDIS_DB" default:"0"`
	Namespace    string        `envconfig:"BREWCART_REDIS_NAMESPACE" default:"brewcart"`
	PoolSize     int           `envconfig:"BREWCART_REDIS_POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"BREWCART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BREWCART_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"BREWCART_REDIS_WRITE_TIMEOUT" default:"3s"`
}

// Configured reports whether a Redis endpoint was supplied.
func (r RedisConfig) Configured() bool {
	return r.URL != "" || r.Address != ""
}

// SessionConfig controls the session cookie.
type SessionConfig struct {
	TTL        time.Duration `envconfig:"BREWCART_SESSION_TTL" default:"24h"`
	CookieName string        `envconfig:"BREWCART_SESSION_COOKIE" default:"session_id"`
}

// TracingConfig points traces at an OTLP collector. An empty Host disables
// export.
type TracingConfig struct {
	Host        string  `envconfig:"BREWCART_OTEL_HOST"`
	Probability float64 `envconfig:"BREWCART_OTEL_PROBABILITY" default:"1.0"`
}

func (c *Config) validate() error {
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	switch c.Store.Driver {
	case DriverMemory, DriverSQLite:
	case DriverRedis:
		if !c.Redis.Configured() {
			return fmt.Errorf("%s_REDIS_URL or %s_REDIS_ADDR is required for the redis driver", EnvPrefix, EnvPrefix)
		}
	case DriverPostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("%s_STORE_DSN is required for the postgres driver", EnvPrefix)
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Tracing.Probability < 0 || c.Tracing.Probability > 1 {
		return fmt.Errorf("%s_OTEL_PROBABILITY must be within [0,1]", EnvPrefix)
	}
	return nil
}
