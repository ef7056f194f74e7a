package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	flag "github.com/spf13/pflag"

	mcpadapter "studybuddy/internal/adapters/mcp"
	"studybuddy/internal/adapters/sqlite"
	"studybuddy/internal/clustering"
	"studybuddy/internal/config"
	"studybuddy/internal/logging"
)

const version = "0.1.0"

func main() {
	configFlag := flag.String("config", "", "config file (default $XDG_CONFIG_HOME/studybuddy/config.yaml)")
	dbFlag := flag.String("db", "", "path to the local cache")
	flag.Parse()

	if err := run(*configFlag, *dbFlag); err != nil {
		fmt.Fprintf(os.Stderr, "studybuddy-mcp: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, dbPath string) error {
	cfg, err := config.Load(config.LoadOptions{Path: configPath})
	if err != nil {
		return err
	}
	if dbPath != "" {
		if err := cfg.Set("db_path", dbPath, config.SourceFlag, "--db"); err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// stdout carries the protocol
	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Log.Level
	logCfg.Format = "json"
	logCfg.Output = os.Stderr
	logging.Init(logCfg)

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer store.Close()

	mcpServer := server.NewMCPServer(
		"studybuddy-mcp",
		version,
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	defaults := clustering.Options{
		MinClusterSize:   cfg.Clustering.MinClusterSize,
		MinLineageDepth:  cfg.Clustering.MinLineageDepth,
		ExcludedBranches: cfg.Clustering.ExcludedBranches,
	}
	mcpadapter.RegisterReadTools(mcpServer, store, cfg.Clustering.ExcludedBranches)
	mcpadapter.RegisterWriteTools(mcpServer, store, defaults, logging.New("clustering"))

	log := logging.Logger()
	log.Info().Str("db", cfg.DBPath).Msg("serving on stdio")
	return server.ServeStdio(mcpServer)
}
