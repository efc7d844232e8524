package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tourney-server.hcl")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadServerConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadServerConfig(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", cfg.Addr())
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 1000, cfg.Tournament.StartingChips)
	assert.Equal(t, 10, cfg.Tournament.MinBet)
	assert.Equal(t, 500, cfg.Tournament.MaxBet)
	assert.Equal(t, 6, cfg.Tournament.Decks)
}

func TestLoadServerConfigParsesHCL(t *testing.T) {
	path := writeConfigFile(t, `
server {
  address   = "0.0.0.0"
  port      = 9090
  log_level = "debug"
}

tournament {
  join_period_seconds = 30
  duration_seconds    = 300
  starting_chips      = 500
  min_bet             = 5
  max_bet             = 100
  decks               = 4
}
`)

	cfg, err := LoadServerConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "0.0.0.0:9090", cfg.Addr())
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	// Unset log_file falls back to the default
	assert.Equal(t, "tourney-server.log", cfg.Server.LogFile)

	opts := cfg.Options()
	assert.Equal(t, 30*time.Second, opts.JoinPeriod)
	assert.Equal(t, 5*time.Minute, opts.Duration)
	assert.Equal(t, 500, opts.StartingChips)
	assert.Equal(t, 5, opts.MinBet)
	assert.Equal(t, 100, opts.MaxBet)
	assert.Equal(t, 4, opts.NumDecks)
}

func TestLoadServerConfigInvalidHCL(t *testing.T) {
	path := writeConfigFile(t, `server { address = `)

	_, err := LoadServerConfig(path)
	require.Error(t, err)
}

func TestServerConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ServerConfig)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(c *ServerConfig) {}},
		{
			name:    "port out of range",
			mutate:  func(c *ServerConfig) { c.Server.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "negative min bet",
			mutate:  func(c *ServerConfig) { c.Tournament.MinBet = -1 },
			wantErr: true,
		},
		{
			name: "min bet above max bet",
			mutate: func(c *ServerConfig) {
				c.Tournament.MinBet = 200
				c.Tournament.MaxBet = 100
			},
			wantErr: true,
		},
		{
			name:    "negative starting chips",
			mutate:  func(c *ServerConfig) { c.Tournament.StartingChips = -5 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultServerConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
