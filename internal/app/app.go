package app

import (
	"context"

	"github.com/charmbracelet/log"
	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"benchboard/internal/config"
	"benchboard/internal/service"
)

// App is the main Wails application struct.
// All exported methods are available as Wails bindings.
type App struct {
	ctx     context.Context
	cfg     config.Config
	benchID string
	logger  *log.Logger
	rt      *Runtime
}

// New creates a new App opening benchID, or the most recent bench when empty.
func New(cfg config.Config, benchID string, logger *log.Logger) *App {
	if logger == nil {
		logger = log.Default()
	}
	return &App{cfg: cfg, benchID: benchID, logger: logger}
}

// Startup is called when the app starts.
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx

	// session and service events → frontend
	emitter := service.EmitterFunc(func(ctx context.Context, event string, data any) {
		wailsRuntime.EventsEmit(ctx, event, data)
	})

	rt, err := Boot(ctx, a.cfg, a.benchID, emitter, a.logger)
	if err != nil {
		wailsRuntime.LogFatalf(ctx, "Failed to open bench: %v", err)
		return
	}
	a.rt = rt

	if err := rt.StartAutosave(ctx); err != nil {
		wailsRuntime.LogErrorf(ctx, "Autosave disabled: %v", err)
	}

	size := rt.Window.LoadWindowSize()
	wailsRuntime.WindowSetSize(ctx, size.Width, size.Height)
	wailsRuntime.LogInfof(ctx, "[Startup] bench %s ready", rt.Session.BenchID())
}

// Shutdown is called when the app is closing.
func (a *App) Shutdown(ctx context.Context) {
	if a.rt == nil {
		return
	}
	w, h := wailsRuntime.WindowGetSize(ctx)
	if err := a.rt.Window.SaveWindowSize(w, h); err != nil {
		wailsRuntime.LogErrorf(ctx, "Failed to save window size: %v", err)
	}
	a.rt.Close(ctx)
}
