package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/tourney21/internal/tournament"
)

// ServerConfig represents the complete server configuration
type ServerConfig struct {
	Server     ServerSettings   `hcl:"server,block"`
	Tournament TournamentConfig `hcl:"tournament,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address     string `hcl:"address,optional"`
	Port        int    `hcl:"port,optional"`
	LogLevel    string `hcl:"log_level,optional"`
	LogFile     string `hcl:"log_file,optional"`
	ResultsFile string `hcl:"results_file,optional"` // final standings JSON, empty disables
}

// TournamentConfig defines the tournament parameters, fixed for the
// lifetime of the process
type TournamentConfig struct {
	JoinPeriodSeconds int `hcl:"join_period_seconds,optional"`
	DurationSeconds   int `hcl:"duration_seconds,optional"`
	StartingChips     int `hcl:"starting_chips,optional"`
	MinBet            int `hcl:"min_bet,optional"`
	MaxBet            int `hcl:"max_bet,optional"`
	Decks             int `hcl:"decks,optional"`
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() *ServerConfig {
	opts := tournament.DefaultOptions()

	return &ServerConfig{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
			LogFile:  "tourney-server.log",
		},
		Tournament: TournamentConfig{
			JoinPeriodSeconds: int(opts.JoinPeriod.Seconds()),
			DurationSeconds:   int(opts.Duration.Seconds()),
			StartingChips:     opts.StartingChips,
			MinBet:            opts.MinBet,
			MaxBet:            opts.MaxBet,
			Decks:             opts.NumDecks,
		},
	}
}

// LoadServerConfig loads server configuration from HCL file
func LoadServerConfig(filename string) (*ServerConfig, error) {
	// Check if file exists
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultServerConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config ServerConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	defaults := DefaultServerConfig()
	if config.Server.Address == "" {
		config.Server.Address = defaults.Server.Address
	}
	if config.Server.Port == 0 {
		config.Server.Port = defaults.Server.Port
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = defaults.Server.LogLevel
	}
	if config.Server.LogFile == "" {
		config.Server.LogFile = defaults.Server.LogFile
	}

	return &config, nil
}

// Validate checks the configuration for inconsistencies
func (c *ServerConfig) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Tournament.MinBet < 0 || c.Tournament.MaxBet < 0 {
		return fmt.Errorf("bet limits must not be negative")
	}
	if c.Tournament.MinBet > 0 && c.Tournament.MaxBet > 0 && c.Tournament.MinBet > c.Tournament.MaxBet {
		return fmt.Errorf("min_bet %d exceeds max_bet %d", c.Tournament.MinBet, c.Tournament.MaxBet)
	}
	if c.Tournament.StartingChips < 0 {
		return fmt.Errorf("starting_chips must not be negative")
	}
	if c.Tournament.Decks < 0 {
		return fmt.Errorf("decks must not be negative")
	}
	return nil
}

// Options converts the tournament block into engine options, falling back
// to defaults for anything unset
func (c *ServerConfig) Options() tournament.Options {
	return tournament.Options{
		JoinPeriod:    time.Duration(c.Tournament.JoinPeriodSeconds) * time.Second,
		Duration:      time.Duration(c.Tournament.DurationSeconds) * time.Second,
		StartingChips: c.Tournament.StartingChips,
		MinBet:        c.Tournament.MinBet,
		MaxBet:        c.Tournament.MaxBet,
		NumDecks:      c.Tournament.Decks,
	}
}

// Addr returns the listen address in host:port form
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
