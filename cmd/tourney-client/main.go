package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/lox/tourney21/internal/client"
	"github.com/lox/tourney21/internal/tui"
)

var CLI struct {
	Config  string `short:"c" long:"config" default:"tourney-client.hcl" help:"Path to HCL configuration file"`
	Server  string `short:"s" long:"server" help:"WebSocket server URL (overrides config)"`
	Name    string `short:"n" long:"name" help:"Display name (overrides config, defaults to $USER)"`
	Bet     int    `short:"b" long:"bet" help:"Default bet amount (overrides config)"`
	NoColor bool   `long:"no-color" help:"Disable colored output"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("tourney-client"),
		kong.Description("Interactive TUI client for the blackjack tournament server"),
		kong.UsageOnError(),
	)

	cfg, err := client.LoadClientConfig(CLI.Config)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		ctx.Exit(1)
	}

	// Apply command line overrides
	if CLI.Server != "" {
		cfg.Server.URL = CLI.Server
	}
	if CLI.Name != "" {
		cfg.Player.Name = CLI.Name
	}
	if CLI.Bet != 0 {
		cfg.Player.DefaultBet = CLI.Bet
	}
	if CLI.NoColor {
		cfg.UI.NoColor = true
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		ctx.Exit(1)
	}

	if cfg.UI.NoColor || termenv.EnvNoColor() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	name := strings.TrimSpace(cfg.Player.Name)
	if name == "" {
		name = os.Getenv("USER")
	}
	if name == "" {
		name = "Player"
	}

	// The TUI owns the terminal, so logs go to a file
	logger := log.New(os.Stderr)
	if cfg.UI.LogFile != "" {
		f, err := os.OpenFile(cfg.UI.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Printf("Error opening log file: %v\n", err)
			ctx.Exit(1)
		}
		defer f.Close()
		logger = log.New(f)
	}
	if cfg.UI.LogLevel == "debug" {
		logger.SetLevel(log.DebugLevel)
	}

	c := client.NewClient(cfg.Server.URL, logger)
	model := tui.NewModel(c, cfg.Player.DefaultBet, logger)
	program := tea.NewProgram(model, tea.WithAltScreen())
	bridge := tui.NewBridge(c, program, logger)

	if err := c.Connect(); err != nil {
		fmt.Printf("Error connecting to %s: %v\n", cfg.Server.URL, err)
		ctx.Exit(1)
	}
	defer c.Disconnect()

	if err := c.Join(name); err != nil {
		fmt.Printf("Error joining tournament: %v\n", err)
		ctx.Exit(1)
	}

	go func() {
		<-c.Done()
		bridge.NotifyDisconnected()
	}()

	if _, err := program.Run(); err != nil {
		fmt.Printf("Error running client: %v\n", err)
		ctx.Exit(1)
	}
}
