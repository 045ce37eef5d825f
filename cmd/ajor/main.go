// Command ajor is the terminal client for the Ajo rotating-savings
// backend.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ajorhq/ajor/internal/api"
	"github.com/ajorhq/ajor/internal/app"
	"github.com/ajorhq/ajor/internal/credential"
	"github.com/ajorhq/ajor/internal/model"
	"github.com/ajorhq/ajor/internal/session"
	"github.com/ajorhq/ajor/internal/store"
	"github.com/ajorhq/ajor/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "ajor:", err)
		os.Exit(1)
	}
}

func run() error {
	dataDir := model.DefaultDataDir()

	// The TUI owns the terminal, so logs go to a file.
	logCloser, err := logging.Setup(filepath.Join(dataDir, "ajor.log"))
	if err != nil {
		return err
	}
	if logCloser != nil {
		defer logCloser.Close()
	}

	cfg, err := model.LoadConfig(model.DefaultConfigPath())
	if err != nil {
		return err
	}

	ring, err := credential.Open()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	cache, err := store.NewSQLiteStore(filepath.Join(dataDir, "ajor.db"))
	if err != nil {
		return err
	}
	defer cache.Close()

	sess := session.New(ring, cache)
	client := api.NewClient(
		cfg.Backend.BaseURL,
		sess,
		time.Duration(cfg.Backend.TimeoutSec)*time.Second,
	)

	slog.Info("starting ajor", "backend", cfg.Backend.BaseURL)

	program := tea.NewProgram(
		app.New(cfg, client, sess, cache),
		tea.WithAltScreen(),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}
