package app

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"benchboard/internal/catalog"
	"benchboard/internal/config"
	"benchboard/internal/sandbox"
	"benchboard/internal/service"
	"benchboard/internal/storage"
)

// Runtime is everything a host needs to drive an open bench: the store,
// the live session and the services around it.
type Runtime struct {
	Config  config.Config
	DB      *storage.DB
	Session *sandbox.Session
	Benches *service.BenchService
	Window  *service.WindowSettingsService

	logger *log.Logger
}

// Boot opens storage, builds a session and opens benchID into it (the most
// recent bench when empty). Events from the session and services go to
// emitter; ctx is the context they are emitted with.
func Boot(ctx context.Context, cfg config.Config, benchID string, emitter service.EventEmitter, logger *log.Logger) (*Runtime, error) {
	if logger == nil {
		logger = log.Default()
	}
	db, err := storage.Open(cfg.Storage.Driver, cfg.Storage.DSN, cfg.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	scroll := cfg.Scroll()
	sess := sandbox.New(sandbox.Options{
		Context: ctx,
		Grid:    cfg.Surface.Grid,
		Scroll:  &scroll,
		Catalog: catalog.New(catalog.Options{FPGAInputs: cfg.FPGA.Inputs}),
		Emitter: emitter,
		Logger:  logger.WithPrefix("session"),
	})
	benches := service.NewBenchService(
		storage.NewBenchStore(db),
		storage.NewBlockStore(db),
		sess,
		emitter,
		logger.WithPrefix("bench"),
	)
	rt := &Runtime{
		Config:  cfg,
		DB:      db,
		Session: sess,
		Benches: benches,
		Window: service.NewWindowSettingsService(storage.NewSettingsStore(db), service.WindowSize{
			Width:  cfg.Surface.Width,
			Height: cfg.Surface.Height,
		}),
		logger: logger,
	}

	if cfg.Template.Path != "" {
		if err := benches.WatchTemplate(ctx, cfg.Template.Path, cfg.Template.Watch); err != nil {
			logger.Warn("template not loaded, using built-in layout", "path", cfg.Template.Path, "err", err)
		}
	}
	if _, err := benches.Open(ctx, benchID); err != nil {
		rt.Close(ctx)
		return nil, fmt.Errorf("open bench: %w", err)
	}
	return rt, nil
}

// StartAutosave schedules saves per the config.
func (r *Runtime) StartAutosave(ctx context.Context) error {
	return r.Benches.StartAutosave(ctx, r.Config.Autosave.Schedule)
}

// Close saves the bench, tears down the session and closes storage.
func (r *Runtime) Close(ctx context.Context) {
	if err := r.Benches.Close(ctx); err != nil {
		r.logger.Error("final save failed", "err", err)
	}
	r.Session.Close()
	if err := r.DB.Close(); err != nil {
		r.logger.Error("close storage", "err", err)
	}
}
