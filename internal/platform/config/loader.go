package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up relative to the working directory.
const DefaultConfigFile = ".config.yaml"

// Loader reads configuration from an optional yaml file layered over the
// defaults, with the signing secret overridable from the environment.
type Loader struct {
	path      string
	useDotEnv bool
}

// NewLoader creates a loader reading the default config file.
func NewLoader() *Loader {
	return &Loader{
		path:      DefaultConfigFile,
		useDotEnv: true,
	}
}

// WithPath overrides the config file location.
func (l *Loader) WithPath(path string) *Loader {
	if path != "" {
		l.path = path
	}
	return l
}

// WithDotEnv toggles loading variables from a .env file before reading config.
func (l *Loader) WithDotEnv(enabled bool) *Loader {
	l.useDotEnv = enabled
	return l
}

// Load builds the effective configuration: defaults, then the yaml file when
// present, then environment overrides. The result is immutable by convention;
// callers pass it by reference and never write to it after startup.
func (l *Loader) Load() (*Config, error) {
	if l.useDotEnv {
		if err := godotenv.Load(); err != nil {
			fmt.Println("no .env file found, using process environment")
		}
	}

	cfg := DefaultConfig()

	if data, err := os.ReadFile(l.path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", l.path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config file %s: %w", l.path, err)
	}

	applyEnvOverrides(cfg)

	if err := l.validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GAMESHELF_AUTH_SECRET"); v != "" {
		cfg.Auth.Secret = v
	}
	if v := os.Getenv("GAMESHELF_DB_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("GAMESHELF_REDIS_ADDR"); v != "" {
		cfg.Notify.Store.Redis.Addr = v
	}
}

func (l *Loader) validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}
	if cfg.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth token ttl must be positive")
	}
	if cfg.Auth.Secret == "" {
		return fmt.Errorf("auth secret is required (set auth.secret or GAMESHELF_AUTH_SECRET)")
	}
	return nil
}
