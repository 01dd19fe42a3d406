package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alejandrodnm/bingobot/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")

	cfg, err := config.Load(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	assert.Equal(t, time.Minute, cfg.RefreshInterval())
	assert.Equal(t, 5*time.Second, cfg.APITimeout())
	assert.Equal(t, 15*time.Minute, cfg.SessionTTL())
	assert.Equal(t, "https://sky.coflnet.com/api/auctions/tag", cfg.API.BaseURL)
	assert.Equal(t, 10.0, cfg.API.RequestsPerSecond)
	require.NotNil(t, cfg.API.MaxRetries)
	assert.Equal(t, 1, *cfg.API.MaxRetries)
	assert.Equal(t, "bingobot.db", cfg.Storage.DSN)
	assert.Equal(t, "!", cfg.Discord.Prefix)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Empty(t, cfg.HTTP.Addr)
}

func TestLoad_FileValues(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")

	cfg, err := config.Load(writeConfig(t, `
refresh:
  interval_seconds: 120
api:
  max_retries: 0
discord:
  token: "from-file"
  prefix: "?"
http:
  addr: ":8080"
`))
	require.NoError(t, err)

	assert.Equal(t, 2*time.Minute, cfg.RefreshInterval())
	assert.Equal(t, 0, *cfg.API.MaxRetries, "0 explícito desactiva reintentos")
	assert.Equal(t, "from-file", cfg.Discord.Token)
	assert.Equal(t, "?", cfg.Discord.Prefix)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "from-env")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := config.Load(writeConfig(t, "discord:\n  token: from-file\n"))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Discord.Token)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestValidate_MissingToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")

	cfg, err := config.Load(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrMissingToken))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := config.Load(writeConfig(t, "refresh: [unclosed\n"))
	assert.Error(t, err)
}
