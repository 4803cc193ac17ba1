//go:build !js

package main

import (
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/johnwakley/hn/internal/config"
	"github.com/johnwakley/hn/internal/hn"
	"github.com/johnwakley/hn/internal/logging"
	"github.com/johnwakley/hn/internal/transport"
	"github.com/johnwakley/hn/internal/ui"
)

func main() {
	if err := logging.Init(); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.Close()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	client := hn.New(transport.New(cfg.RequestTimeout()), hn.Options{
		BaseURL:       cfg.BaseURL,
		Concurrency:   cfg.Concurrency,
		RatePerSecond: cfg.RatePerSecond,
	})

	app := ui.New(client, cfg)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logging.Error("UI exited with error", "err", err)
		log.Fatalf("Error: %v", err)
	}
}
