package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 30, cfg.RequestTimeoutSeconds)
	assert.Equal(t, 60, cfg.MaxRequestsPerMin)
	assert.Equal(t, 900, cfg.CacheTTLSeconds)
	assert.NoError(t, cfg.Validate())
}

func TestDefaultPatternCatalog(t *testing.T) {
	cfg := New()
	require.Len(t, cfg.Patterns, 24, "catalog must cover every rank ordering")

	factors := map[string]bool{
		"Precision":  true,
		"Resolve":    true,
		"Innovation": true,
		"Harmony":    true,
	}

	seenIDs := make(map[int]bool)
	seenNames := make(map[string]bool)
	seenOrders := make(map[string]bool)
	for i, p := range cfg.Patterns {
		assert.Equal(t, i+1, p.ID, "ids are sequential from 1")
		assert.False(t, seenIDs[p.ID], "duplicate id %d", p.ID)
		seenIDs[p.ID] = true

		assert.NotEmpty(t, p.Name)
		assert.False(t, seenNames[p.Name], "duplicate name %q", p.Name)
		seenNames[p.Name] = true

		require.Len(t, p.Order, 4, "pattern %d", p.ID)
		inOrder := make(map[string]bool, 4)
		for _, f := range p.Order {
			assert.True(t, factors[f], "pattern %d has unknown factor %q", p.ID, f)
			inOrder[f] = true
		}
		assert.Len(t, inOrder, 4, "pattern %d repeats a factor", p.ID)

		key := fmt.Sprint(p.Order)
		assert.False(t, seenOrders[key], "pattern %d duplicates ordering %v", p.ID, p.Order)
		seenOrders[key] = true
	}
}

func TestDefaultTables(t *testing.T) {
	cfg := New()

	require.Len(t, cfg.Multipliers, 4)
	assert.Equal(t, 1.0, cfg.Multipliers["primary"])
	assert.Equal(t, 0.8, cfg.Multipliers["secondary"])
	assert.Equal(t, 0.6, cfg.Multipliers["tertiary"])
	assert.Equal(t, 0.4, cfg.Multipliers["quaternary"])

	require.Len(t, cfg.Weights, 10)
	for metricName, row := range cfg.Weights {
		sum := 0.0
		for _, w := range row {
			sum += w
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "weight row for %s", metricName)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:    "empty addr",
			mutate:  func(c *Config) { c.Addr = "" },
			wantErr: "addr",
		},
		{
			name:    "non-positive timeout",
			mutate:  func(c *Config) { c.RequestTimeoutSeconds = 0 },
			wantErr: "request_timeout_seconds",
		},
		{
			name:    "non-positive rate limit",
			mutate:  func(c *Config) { c.MaxRequestsPerMin = -1 },
			wantErr: "max_requests_per_min",
		},
		{
			name:    "empty catalog",
			mutate:  func(c *Config) { c.Patterns = nil },
			wantErr: "pattern catalog",
		},
		{
			name:    "empty weight table",
			mutate:  func(c *Config) { c.Weights = nil },
			wantErr: "weight table",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadDefaultsWithoutOverrides(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Len(t, cfg.Patterns, 24)
}

func TestLoadFileOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "log_level: debug\naddr: \":9090\"\ncache_ttl_seconds: 0\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("BCAT_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 0, cfg.CacheTTLSeconds)
	assert.Len(t, cfg.Patterns, 24, "untouched tables keep their defaults")
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":9090\"\n"), 0o644))
	t.Setenv("BCAT_CONFIG", path)
	t.Setenv("BCAT_ADDR", ":7070")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Addr)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("BCAT_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsInvalidOverride(t *testing.T) {
	t.Setenv("BCAT_MAX_REQUESTS_PER_MIN", "0")

	_, err := Load()
	assert.Error(t, err)
}
