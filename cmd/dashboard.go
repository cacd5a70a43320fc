package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"ghforecast/internal/eventbus"
	"ghforecast/internal/history"
	"ghforecast/internal/ui"
)

// runDashboard runs the terminal dashboard until the user quits
func runDashboard(ctx context.Context) error {
	// Logs go to a file so they do not corrupt the alt screen
	if cfg.LogFile != "" {
		logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			log.Printf("Could not open log file: %v", err)
		} else {
			defer logFile.Close()
			log.SetOutput(logFile)
		}
	}

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cat, err := newCatalog()
	if err != nil {
		return err
	}

	bus := eventbus.New()

	store, err := openHistory(false)
	if err != nil {
		return err
	}
	defer store.Close()

	var recorder *history.Recorder
	if store.Enabled() {
		recorder = history.NewRecorder(store, bus)
		log.Printf("Recording fetch history to %s (session %s)", store.Backend(), recorder.SessionID())
	}

	model := ui.NewModel(ui.Deps{
		Bus:     bus,
		Config:  cfg,
		Catalog: cat,
		Fetcher: newClient(),
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.SetProgram(p)

	log.Printf("Starting UI...")
	_, runErr := p.Run()
	model.Close()

	// Drain queued history events before the store closes
	bus.Close()
	if recorder != nil {
		recorder.Stop()
	}

	if runErr != nil && ctx.Err() == nil {
		log.Printf("Error running program: %v", runErr)
		return fmt.Errorf("error running program: %w", runErr)
	}
	log.Printf("UI exited normally")
	return nil
}
