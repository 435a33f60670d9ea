// Package config loads pipeline configuration from YAML files.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pagesift/pagesift"
	"gopkg.in/yaml.v3"
)

// Extraction engine names accepted by Config.Engine.
const (
	EngineCascade     = "cascade"
	EngineTrafilatura = "trafilatura"
)

// Config holds the full pipeline configuration. Durations are expressed in
// seconds so config files stay plain YAML scalars.
type Config struct {
	DBPath         string `yaml:"db_path"`
	DiagnosticsDir string `yaml:"diagnostics_dir"`

	// Engine selects the extraction backend: cascade or trafilatura.
	Engine    string `yaml:"engine"`
	UserAgent string `yaml:"user_agent"`

	StaticTimeoutSeconds int     `yaml:"static_timeout_seconds"`
	RenderTimeoutSeconds int     `yaml:"render_timeout_seconds"`
	PoolSize             int     `yaml:"pool_size"`
	PoolAcquireSeconds   int     `yaml:"pool_acquire_seconds"`
	Concurrency          int     `yaml:"concurrency"`
	IntervalSeconds      int     `yaml:"interval_seconds"`
	CooldownSeconds      int     `yaml:"cooldown_seconds"`
	DomainRate           float64 `yaml:"domain_rate"`
	MinRawTextLen        int     `yaml:"min_raw_text_len"`
	ForceDiagnostics     bool    `yaml:"force_diagnostics"`
}

// Default returns the configuration used when no file is provided.
func Default() *Config {
	return &Config{
		DBPath:               "pagesift.db",
		DiagnosticsDir:       "diagnostics",
		Engine:               EngineCascade,
		StaticTimeoutSeconds: 10,
		RenderTimeoutSeconds: 30,
		PoolSize:             2,
		PoolAcquireSeconds:   15,
		Concurrency:          4,
		IntervalSeconds:      0,
		CooldownSeconds:      0,
		DomainRate:           1,
		MinRawTextLen:        100,
	}
}

// Load reads a YAML config file over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

// Validate checks that required fields are present and values are sane.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return pagesift.Errorf(pagesift.EINVALID, "db_path is required")
	}
	if c.Engine != EngineCascade && c.Engine != EngineTrafilatura {
		return pagesift.Errorf(pagesift.EINVALID, "unsupported engine %q (use cascade or trafilatura)", c.Engine)
	}
	if c.StaticTimeoutSeconds <= 0 || c.RenderTimeoutSeconds <= 0 {
		return pagesift.Errorf(pagesift.EINVALID, "fetch timeouts must be positive")
	}
	if c.PoolSize <= 0 {
		return pagesift.Errorf(pagesift.EINVALID, "pool_size must be positive")
	}
	if c.Concurrency <= 0 {
		return pagesift.Errorf(pagesift.EINVALID, "concurrency must be positive")
	}
	if c.CooldownSeconds < 0 {
		return pagesift.Errorf(pagesift.EINVALID, "cooldown_seconds must not be negative")
	}
	if c.DomainRate <= 0 {
		return pagesift.Errorf(pagesift.EINVALID, "domain_rate must be positive")
	}
	return nil
}

// StaticTimeout returns the static fetch budget.
func (c *Config) StaticTimeout() time.Duration {
	return time.Duration(c.StaticTimeoutSeconds) * time.Second
}

// RenderTimeout returns the headless render budget.
func (c *Config) RenderTimeout() time.Duration {
	return time.Duration(c.RenderTimeoutSeconds) * time.Second
}

// PoolAcquireTimeout returns how long a render waits for a free slot.
func (c *Config) PoolAcquireTimeout() time.Duration {
	return time.Duration(c.PoolAcquireSeconds) * time.Second
}

// Interval returns the pause between continuous-run sweeps. Zero keeps a
// run to a single sweep.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// Cooldown returns the per-source re-ingestion window; zero disables it.
func (c *Config) Cooldown() time.Duration {
	return time.Duration(c.CooldownSeconds) * time.Second
}
