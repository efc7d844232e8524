package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadClientConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadClientConfig(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)

	assert.Equal(t, "ws://localhost:8080/ws", cfg.Server.URL)
	assert.Equal(t, 10, cfg.Player.DefaultBet)
	assert.Equal(t, "info", cfg.UI.LogLevel)
}

func TestLoadClientConfigParsesHCL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tourney-client.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
server {
  url = "ws://play.example.com:9090/ws"
}

player {
  name        = "Alice"
  default_bet = 25
}

ui {
  log_level = "debug"
  no_color  = true
}
`), 0o644))

	cfg, err := LoadClientConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "ws://play.example.com:9090/ws", cfg.Server.URL)
	assert.Equal(t, "Alice", cfg.Player.Name)
	assert.Equal(t, 25, cfg.Player.DefaultBet)
	assert.Equal(t, "debug", cfg.UI.LogLevel)
	assert.True(t, cfg.UI.NoColor)
	// Unset log_file falls back to the default
	assert.Equal(t, "tourney-client.log", cfg.UI.LogFile)
}

func TestClientConfigValidate(t *testing.T) {
	cfg := DefaultClientConfig()
	require.NoError(t, cfg.Validate())

	cfg.Player.DefaultBet = -1
	assert.Error(t, cfg.Validate())

	cfg = DefaultClientConfig()
	cfg.Server.URL = ""
	assert.Error(t, cfg.Validate())
}
