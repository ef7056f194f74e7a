package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	flag "github.com/spf13/pflag"

	"studybuddy/internal/adapters/launcher"
	"studybuddy/internal/adapters/sqlite"
	"studybuddy/internal/adapters/tui"
	"studybuddy/internal/config"
	"studybuddy/internal/logging"
)

func main() {
	configFlag := flag.String("config", "", "config file (default $XDG_CONFIG_HOME/studybuddy/config.yaml)")
	runFlag := flag.String("run", "", "run to browse (default latest run)")
	flag.Parse()

	if err := run(*configFlag, *runFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, runID string) error {
	cfg, err := config.Load(config.LoadOptions{Path: configPath})
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// The alt screen owns the terminal.
	logCfg := logging.DefaultConfig()
	logCfg.Output = io.Discard
	logging.Init(logCfg)

	// Initialize adapters
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer store.Close()

	// Create and run TUI app
	app := tui.NewApp(store, runID, launcher.NewBrowser())

	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
