package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, ":4000", cfg.ListenAddr)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Empty(t, cfg.Sources)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
sources:
  - master-src
  - wk1-src
weekly_sources:
  2026:
    - wk1-src
    - wk2-src
data_dir: /var/lib/statusboard
listen_addr: ":8080"
cache_ttl: 10m
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"master-src", "wk1-src"}, cfg.Sources)
	assert.Equal(t, []string{"wk1-src", "wk2-src"}, cfg.WeeklySources[2026])
	assert.Equal(t, "/var/lib/statusboard", cfg.DataDir)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "master-src", cfg.Master())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SOURCES", "master-src, wk1-src")
	t.Setenv("DATA_DIR", "/tmp/boards")
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("WEEKLY_SOURCES_2026", "wk1-src,wk2-src")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"master-src", "wk1-src"}, cfg.Sources)
	assert.Equal(t, "/tmp/boards", cfg.DataDir)
	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, []string{"wk1-src", "wk2-src"}, cfg.WeeklySources[2026])
}

func TestEnvIgnoresMalformedWeeklyYears(t *testing.T) {
	t.Setenv("WEEKLY_SOURCES_NOTAYEAR", "a,b")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.WeeklySources)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.Validate())

	cfg.Sources = []string{"master-src"}
	assert.NoError(t, cfg.Validate())
}
