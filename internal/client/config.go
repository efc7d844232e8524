package client

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// ClientConfig represents the complete client configuration
type ClientConfig struct {
	Server ServerConnection `hcl:"server,block"`
	Player PlayerSettings   `hcl:"player,block"`
	UI     UISettings       `hcl:"ui,block"`
}

// ServerConnection contains server connection settings
type ServerConnection struct {
	URL string `hcl:"url,optional"`
}

// PlayerSettings contains player-specific settings
type PlayerSettings struct {
	Name       string `hcl:"name,optional"`
	DefaultBet int    `hcl:"default_bet,optional"`
}

// UISettings contains user interface settings
type UISettings struct {
	LogLevel string `hcl:"log_level,optional"`
	LogFile  string `hcl:"log_file,optional"`
	NoColor  bool   `hcl:"no_color,optional"`
}

// DefaultClientConfig returns default client configuration
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		Server: ServerConnection{
			URL: "ws://localhost:8080/ws",
		},
		Player: PlayerSettings{
			DefaultBet: 10,
		},
		UI: UISettings{
			LogLevel: "info",
			LogFile:  "tourney-client.log",
		},
	}
}

// LoadClientConfig loads client configuration from an HCL file, returning
// defaults when the file does not exist
func LoadClientConfig(filename string) (*ClientConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultClientConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config ClientConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	defaults := DefaultClientConfig()
	if config.Server.URL == "" {
		config.Server.URL = defaults.Server.URL
	}
	if config.Player.DefaultBet == 0 {
		config.Player.DefaultBet = defaults.Player.DefaultBet
	}
	if config.UI.LogLevel == "" {
		config.UI.LogLevel = defaults.UI.LogLevel
	}
	if config.UI.LogFile == "" {
		config.UI.LogFile = defaults.UI.LogFile
	}

	return &config, nil
}

// Validate checks the configuration for inconsistencies
func (c *ClientConfig) Validate() error {
	if c.Server.URL == "" {
		return fmt.Errorf("server url must not be empty")
	}
	if c.Player.DefaultBet < 0 {
		return fmt.Errorf("default_bet must not be negative")
	}
	return nil
}
