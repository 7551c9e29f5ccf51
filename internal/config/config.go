package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

type Config struct {
	HTTP          HTTPConfig          `yaml:"http"`
	Store         StoreConfig         `yaml:"store"`
	Relay         RelayConfig         `yaml:"relay"`
	Observability ObservabilityConfig `yaml:"observability"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type StoreConfig struct {
	// Backend is memory or postgres. Left empty, a DSN selects postgres.
	Backend string `yaml:"backend"`
	DSN     string `yaml:"dsn"`
}

type RelayConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

type ObservabilityConfig struct {
	ServiceName  string `yaml:"service_name"`
	LogLevel     string `yaml:"log_level"`
	MetricsAddr  string `yaml:"metrics_addr"`
	OTLPEndpoint string `yaml:"otlp_endpoint"`
}

func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Addr:            ":5000",
			ShutdownTimeout: 10 * time.Second,
		},
		Relay: RelayConfig{
			Timeout: 30 * time.Second,
		},
		Observability: ObservabilityConfig{
			ServiceName: "api-relay",
			LogLevel:    "info",
			MetricsAddr: ":9090",
		},
	}
}

// Load layers defaults, the optional YAML file at path, a .env file in the
// working directory and finally the process environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.HTTP.Addr, "HTTP_ADDR")
	setString(&cfg.Store.Backend, "STORE_BACKEND")
	setString(&cfg.Store.DSN, "DATABASE_DSN")
	setString(&cfg.Observability.ServiceName, "SERVICE_NAME")
	setString(&cfg.Observability.LogLevel, "LOG_LEVEL")
	setString(&cfg.Observability.MetricsAddr, "METRICS_ADDR")
	setString(&cfg.Observability.OTLPEndpoint, "OTLP_ENDPOINT")

	if err := setDuration(&cfg.Relay.Timeout, "RELAY_TIMEOUT"); err != nil {
		return err
	}
	return setDuration(&cfg.HTTP.ShutdownTimeout, "SHUTDOWN_TIMEOUT")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

func (c *Config) normalize() error {
	switch c.Store.Backend {
	case "":
		if c.Store.DSN != "" {
			c.Store.Backend = BackendPostgres
		} else {
			c.Store.Backend = BackendMemory
		}
	case BackendMemory:
	case BackendPostgres:
		if c.Store.DSN == "" {
			return errors.New("DATABASE_DSN is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}

	if c.Relay.Timeout <= 0 {
		return fmt.Errorf("relay timeout must be positive, got %s", c.Relay.Timeout)
	}
	if c.HTTP.Addr == "" {
		return errors.New("http address is required")
	}
	return nil
}
