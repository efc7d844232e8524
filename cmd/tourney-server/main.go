package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/tourney21/internal/display"
	"github.com/lox/tourney21/internal/server"
)

var CLI struct {
	Config   string `short:"c" long:"config" default:"tourney-server.hcl" help:"Path to HCL configuration file"`
	Addr     string `short:"a" long:"addr" help:"Server address to bind to (overrides config)"`
	Port     int    `short:"p" long:"port" help:"Server port (overrides config)"`
	LogLevel string `short:"l" long:"log-level" help:"Log level (overrides config)"`
	Quiet    bool   `short:"q" long:"quiet" help:"Disable the console standings monitor"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("tourney-server"),
		kong.Description("Timed blackjack tournament server"),
		kong.UsageOnError(),
	)

	cfg, err := server.LoadServerConfig(CLI.Config)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		ctx.Exit(1)
	}

	// Apply command line overrides
	if CLI.Addr != "" {
		cfg.Server.Address = CLI.Addr
	}
	if CLI.Port != 0 {
		cfg.Server.Port = CLI.Port
	}
	if CLI.LogLevel != "" {
		cfg.Server.LogLevel = CLI.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		ctx.Exit(1)
	}

	// Setup logging
	logger := log.New(os.Stderr)
	switch cfg.Server.LogLevel {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info":
		logger.SetLevel(log.InfoLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	opts := cfg.Options()
	logger.Info("Starting tournament server",
		"addr", cfg.Addr(),
		"startingChips", opts.StartingChips,
		"minBet", opts.MinBet,
		"maxBet", opts.MaxBet)

	srv := server.NewServer(cfg.Addr(), logger)
	svc := server.NewTournamentService(srv, opts, logger, quartz.NewReal())
	srv.SetService(svc)
	svc.SetResultsFile(cfg.Server.ResultsFile)

	if !CLI.Quiet {
		monitor := display.NewStandingsMonitor(os.Stdout)
		svc.Tournament().Subscribe(monitor)
		svc.Scheduler().Subscribe(monitor)
	}

	// Open the lobby so the join countdown is stamped
	svc.Tournament().StartLobby()

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, runCtx := errgroup.WithContext(runCtx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-runCtx.Done()
		logger.Info("Shutting down")
		return srv.Stop()
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		ctx.Exit(1)
	}
}
