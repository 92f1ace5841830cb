package cmd

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"reqwestur/internal/config"
	"reqwestur/internal/engine"
	"reqwestur/internal/format"
	"reqwestur/internal/logger"
	"reqwestur/internal/storage"
)

// app bundles what every command needs: configuration, logging, the
// persisted state and the session wrapping it.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   storage.Storage
	session *engine.Session
}

// openApp loads config and state. It exits the process on failure, like the
// rest of the command handlers.
func openApp() *app {
	dir := dataDir
	if dir == "" {
		var err error
		dir, err = config.DefaultDir()
		if err != nil {
			fail("Failed to resolve data directory", err)
		}
	}

	a, err := loadApp(dir, logLevel)
	if err != nil {
		fail("Failed to open", err)
	}
	return a
}

// loadApp reads the config in dir, opens its storage and restores the session
func loadApp(dir, level string) (*app, error) {
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if level != "" {
		cfg.Log.Level = level
	}

	log := logger.New(cfg.Log)

	store, err := storage.Open(cfg.DataDir, cfg.Storage, log.Named("storage"))
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	state, err := store.LoadState()
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("load state: %w", err)
	}

	return &app{
		cfg:    cfg,
		logger: log,
		store:  store,
		session: engine.NewSession(state, engine.Options{
			Timeout:         cfg.HTTP.Timeout,
			MaxResponseSize: cfg.HTTP.MaxResponseSize,
			Logger:          log.Named("engine"),
		}),
	}, nil
}

// save persists the session state, reporting but not exiting on failure
func (a *app) save() {
	if err := a.store.SaveState(a.session.Snapshot()); err != nil {
		format.PrintError(fmt.Sprintf("Failed to save state: %v", err))
	}
}

func (a *app) close() {
	a.store.Close()
	_ = a.logger.Sync()
}

func fail(msg string, err error) {
	format.PrintError(fmt.Sprintf("%s: %v", msg, err))
	os.Exit(1)
}
