// Package config loads the gateway's own configuration: the service base
// path, listen address, optional settings-store database URL, and the
// defaults applied to settings the settings store would otherwise not
// have an override for.
package config

import (
	"fmt"
	"net"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the gateway's top-level configuration, loaded from YAML with
// environment-variable overrides for deployment.
type Config struct {
	ServiceBase string `yaml:"serviceBase"`
	ListenAddr  string `yaml:"listenAddr"`

	// DatabaseURL, when set, selects the Postgres-backed settings store
	// (internal/settingsstore); when empty the gateway runs with the
	// in-memory settings store instead.
	DatabaseURL string `yaml:"databaseUrl"`

	// RunResultTimeoutSeconds is the default value for the
	// "run_result_timeout" setting when the settings store has no
	// override recorded.
	RunResultTimeoutSeconds int `yaml:"runResultTimeoutSeconds"`

	// MaxConcurrentRuns is the run registry's soft cap; the check is
	// racy by construction, so this is an intended soft limit, not a
	// hard one.
	MaxConcurrentRuns int `yaml:"maxConcurrentRuns"`

	// AllowUnauthenticatedScanDevices is the default for the
	// "allow_unauthenticated_requests_for_scan_devices" setting.
	AllowUnauthenticatedScanDevices bool `yaml:"allowUnauthenticatedScanDevices"`
}

// Defaults applied when a field is absent both from the YAML file and from
// its environment-variable override.
const (
	DefaultServiceBase             = "/wda"
	DefaultListenAddr              = ":8080"
	DefaultRunResultTimeoutSeconds = 30
	DefaultMaxConcurrentRuns       = 1000
)

// DefaultConfig returns the gateway's zero-config defaults: no database, a
// generous run-result timeout, and a permissive soft run cap.
func DefaultConfig() *Config {
	return &Config{
		ServiceBase:             DefaultServiceBase,
		ListenAddr:              DefaultListenAddr,
		RunResultTimeoutSeconds: DefaultRunResultTimeoutSeconds,
		MaxConcurrentRuns:       DefaultMaxConcurrentRuns,
	}
}

// Load parses a gateway config YAML file and validates it, applying
// defaults for any field the file leaves zero. If path is empty, Load
// returns DefaultConfig() with environment overrides still applied.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.ServiceBase == "" {
		cfg.ServiceBase = DefaultServiceBase
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultListenAddr
	}
	if cfg.RunResultTimeoutSeconds == 0 {
		cfg.RunResultTimeoutSeconds = DefaultRunResultTimeoutSeconds
	}
	if cfg.MaxConcurrentRuns == 0 {
		cfg.MaxConcurrentRuns = DefaultMaxConcurrentRuns
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("WDX_GATEWAY_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("WDX_GATEWAY_SERVICE_BASE"); v != "" {
		cfg.ServiceBase = v
	}
	if v := os.Getenv("WDX_GATEWAY_DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
}

// ResolvePath finds the gateway config file path.
// Priority: WDX_GATEWAY_CONFIG env var > ./wdx-gateway.yaml > "" (no config).
func ResolvePath() string {
	if p := os.Getenv("WDX_GATEWAY_CONFIG"); p != "" {
		return p
	}
	if _, err := os.Stat("wdx-gateway.yaml"); err == nil {
		return "wdx-gateway.yaml"
	}
	return ""
}

// validate rejects malformed listen addresses, a service base that doesn't
// start with "/", and non-positive timeouts/caps at load time rather than
// at first use.
func (c *Config) validate() error {
	if _, _, err := net.SplitHostPort(c.ListenAddr); err != nil {
		return fmt.Errorf("listenAddr %q: %w", c.ListenAddr, err)
	}
	if c.ServiceBase == "" || c.ServiceBase[0] != '/' {
		return fmt.Errorf("serviceBase %q: must start with \"/\"", c.ServiceBase)
	}
	if len(c.ServiceBase) > 1 && c.ServiceBase[len(c.ServiceBase)-1] == '/' {
		return fmt.Errorf("serviceBase %q: must not end with \"/\"", c.ServiceBase)
	}
	if c.RunResultTimeoutSeconds <= 0 {
		return fmt.Errorf("runResultTimeoutSeconds must be positive, got %d", c.RunResultTimeoutSeconds)
	}
	if c.MaxConcurrentRuns <= 0 {
		return fmt.Errorf("maxConcurrentRuns must be positive, got %d", c.MaxConcurrentRuns)
	}
	return nil
}
