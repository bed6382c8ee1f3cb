package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, "data/users.db", cfg.Database.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Production())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("USERDIR_SERVER_ADDR", "127.0.0.1:9090")
	t.Setenv("USERDIR_SERVER_ENV", "production")
	t.Setenv("USERDIR_DATABASE_PATH", "/tmp/test-users.db")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
	assert.Equal(t, "/tmp/test-users.db", cfg.Database.Path)
	assert.True(t, cfg.Production())
}

func TestProduction_CaseInsensitive(t *testing.T) {
	var cfg Config
	cfg.Server.Env = "Production"
	assert.True(t, cfg.Production())

	cfg.Server.Env = "development"
	assert.False(t, cfg.Production())
}
