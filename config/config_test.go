package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "pk_", cfg.TablePrefix)
	assert.Equal(t, "domain_events", cfg.EventTable)
	assert.Equal(t, 1024, cfg.CacheMaxSize)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PRESSKIT_DB_DSN", ":memory:")
	t.Setenv("PRESSKIT_TABLE_PREFIX", "cms_")
	t.Setenv("PRESSKIT_CACHE_TTL", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":memory:", cfg.DBDSN)
	assert.Equal(t, "cms_", cfg.TablePrefix)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
}
