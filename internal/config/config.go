// Package config provides YAML configuration loading and validation for the
// augerd HTTP server.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration structure for augerd.
type Config struct {
	// ListenAddr is the HTTP listen address (e.g. ":8443"). Required.
	ListenAddr string `yaml:"listen_addr"`

	// APIKeys is the set of keys accepted in the x-api-key header. Required,
	// at least one. Normally supplied via the API_KEYS environment variable
	// (comma-separated, per spec.md §6); the YAML field is a fallback for
	// local development and is overridden by API_KEYS when both are set.
	APIKeys []string `yaml:"api_keys"`

	// PostgresDSN is the connection string for the report archive. Required.
	PostgresDSN string `yaml:"postgres_dsn"`

	// SolanaRPCEndpoint is the JSON-RPC endpoint used to fetch program
	// bytes. Required.
	SolanaRPCEndpoint string `yaml:"solana_rpc_endpoint"`

	// FetchCachePath is the path to the SQLite program-bytes cache.
	// Defaults to "./fetchcache.db" when omitted.
	FetchCachePath string `yaml:"fetch_cache_path"`

	// AuditLogPath is the path to the append-only audit log. Defaults to
	// "./audit.log" when omitted.
	AuditLogPath string `yaml:"audit_log_path"`

	// LogLevel sets the minimum log severity: "debug", "info", "warn", or
	// "error". Defaults to "info" when omitted.
	LogLevel string `yaml:"log_level"`
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// LoadConfig reads the YAML file at path, unmarshals it into Config, applies
// defaults, and validates all required fields. It returns a typed error
// describing every validation failure encountered.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: cannot read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: cannot parse %q: %w", path, err)
	}

	applyDefaults(&cfg)
	applyAPIKeysFromEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config: validation failed for %q: %w", path, err)
	}

	return &cfg, nil
}

// applyAPIKeysFromEnv overrides cfg.APIKeys with the API_KEYS environment
// variable when set, per spec.md §6's "x-api-key matching a value from the
// API_KEYS env list" contract. The list is comma-separated; empty entries
// are dropped.
func applyAPIKeysFromEnv(cfg *Config) {
	raw, ok := os.LookupEnv("API_KEYS")
	if !ok {
		return
	}

	var keys []string
	for _, k := range strings.Split(raw, ",") {
		k = strings.TrimSpace(k)
		if k != "" {
			keys = append(keys, k)
		}
	}
	cfg.APIKeys = keys
}

func applyDefaults(cfg *Config) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.FetchCachePath == "" {
		cfg.FetchCachePath = "./fetchcache.db"
	}
	if cfg.AuditLogPath == "" {
		cfg.AuditLogPath = "./audit.log"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.ListenAddr == "" {
		errs = append(errs, errors.New("listen_addr is required"))
	}
	if len(cfg.APIKeys) == 0 {
		errs = append(errs, errors.New("api_keys must contain at least one key"))
	}
	if cfg.PostgresDSN == "" {
		errs = append(errs, errors.New("postgres_dsn is required"))
	}
	if cfg.SolanaRPCEndpoint == "" {
		errs = append(errs, errors.New("solana_rpc_endpoint is required"))
	}
	if !validLogLevels[cfg.LogLevel] {
		errs = append(errs, fmt.Errorf("log_level %q must be one of: debug, info, warn, error", cfg.LogLevel))
	}

	return errors.Join(errs...)
}
