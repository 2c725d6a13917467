package app

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"benchboard/internal/config"
	mcpserver "benchboard/internal/mcp"
)

// noopEmitter is a no-op EventEmitter used in MCP-only mode (no frontend).
type noopEmitter struct{}

func (noopEmitter) Emit(_ context.Context, _ string, _ any) {}

// ServeMCP runs a bench as a standalone MCP server on stdin/stdout with no
// GUI. The bench is saved on exit. Logs must not go to stdout.
func ServeMCP(ctx context.Context, cfg config.Config, benchID, version string, logger *log.Logger) error {
	if logger == nil {
		logger = log.Default()
	}
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rt, err := Boot(ctx, cfg, benchID, noopEmitter{}, logger)
	if err != nil {
		return err
	}
	defer rt.Close(context.Background())

	if err := rt.StartAutosave(ctx); err != nil {
		logger.Warn("autosave disabled", "err", err)
	}

	srv := mcpserver.New(ctx, mcpserver.Deps{
		Session: rt.Session,
		Benches: rt.Benches,
		Logger:  logger,
		Version: version,
	})
	return srv.ServeStdio()
}
