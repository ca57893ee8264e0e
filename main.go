package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"wellness/internal/battery"
	"wellness/internal/config"
	"wellness/internal/service"
	"wellness/internal/store"
	"wellness/internal/tui"
	"wellness/internal/wellness"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if errors.Is(err, config.ErrNoConfig) {
		fmt.Println("No config file found. Creating example config...")
		if err := config.CreateExample(); err != nil {
			return fmt.Errorf("creating example config: %w", err)
		}
		configDir, _ := config.GetConfigDir()
		fmt.Printf("\nWrote defaults to:\n  %s/config.json\n\n", configDir)
		fmt.Println("Set backend.base_url to your wellness server, or export WELLNESS_API_URL.")
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return fmt.Errorf("applying environment: %w", err)
	}

	// Validate config
	if err := cfg.Validate(); err != nil {
		configDir, _ := config.GetConfigDir()
		fmt.Printf("Config validation failed: %v\n\n", err)
		fmt.Printf("Please edit the config file at:\n  %s/config.json\n", configDir)
		return nil
	}

	// Keep log output out of the alt screen
	configDir, err := config.GetConfigDir()
	if err != nil {
		return err
	}
	logFile, err := tea.LogToFile(filepath.Join(configDir, "debug.log"), "wellness")
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()

	// Open database
	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	client := wellness.NewClient(
		cfg.Backend.BaseURL,
		wellness.StaticToken(cfg.Backend.APIToken),
		cfg.Backend.Timeout(),
		cfg.Backend.RequestsPerMinute,
	)

	opts := service.Options{
		Sync:        cfg.Sync,
		ChartPoints: cfg.Display.ChartPoints,
	}
	if src, err := battery.Detect(battery.DefaultRoot); err == nil {
		opts.Battery = src
	} else if !errors.Is(err, battery.ErrNoBattery) {
		log.Printf("battery: %v", err)
	}

	sessions := service.NewSessionService(client, db, opts)
	defer sessions.Close()
	coach := service.NewCoachService(client)

	// Resume the last user if there is one
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Backend.Timeout()+5*time.Second)
	sess, err := sessions.Restore(ctx)
	cancel()
	if err != nil && !errors.Is(err, service.ErrNoSession) {
		log.Printf("session: restore failed: %v", err)
	}

	// Launch TUI
	app := tui.NewApp(sessions, coach, sess)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}
