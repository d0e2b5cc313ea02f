// Package config holds runtime configuration for the status dashboard.
// Values load from an optional YAML file and are overridden by the
// environment, which is how deployments configure the source lists.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// weeklySourcesEnvPrefix names the per-year env variables, e.g.
// WEEKLY_SOURCES_2026=src-w1,src-w2,... where week N is the Nth entry.
const weeklySourcesEnvPrefix = "WEEKLY_SOURCES_"

// Config is the full runtime configuration.
type Config struct {
	// Sources is the ordered list of configured source identifiers.
	// The first entry is the master source.
	Sources []string `yaml:"sources"`

	// WeeklySources maps a year to its ordered weekly source list;
	// week N of that year resolves to entry N-1.
	WeeklySources map[int][]string `yaml:"weekly_sources"`

	// DataDir is the directory holding the workbook files.
	DataDir string `yaml:"data_dir"`

	// ListenAddr is the HTTP listen address.
	ListenAddr string `yaml:"listen_addr"`

	// CacheTTL bounds how long parsed record sets are memoized.
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		WeeklySources: make(map[int][]string),
		DataDir:       "data",
		ListenAddr:    ":4000",
		CacheTTL:      5 * time.Minute,
	}
}

// Load reads configuration from an optional YAML file, then applies
// environment overrides. An empty path skips the file entirely.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
		if cfg.WeeklySources == nil {
			cfg.WeeklySources = make(map[int][]string)
		}
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SOURCES"); v != "" {
		c.Sources = splitList(v)
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.CacheTTL = d
		}
	}
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, weeklySourcesEnvPrefix) {
			continue
		}
		year, err := strconv.Atoi(strings.TrimPrefix(name, weeklySourcesEnvPrefix))
		if err != nil || value == "" {
			continue
		}
		c.WeeklySources[year] = splitList(value)
	}
}

// Master returns the master source identifier, or "" when no sources
// are configured.
func (c *Config) Master() string {
	if len(c.Sources) == 0 {
		return ""
	}
	return c.Sources[0]
}

// Validate checks the invariants the engine depends on.
func (c *Config) Validate() error {
	if c.Master() == "" {
		return fmt.Errorf("no master source configured; set SOURCES")
	}
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}
