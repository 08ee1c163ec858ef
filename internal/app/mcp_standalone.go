package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cardeditor/internal/config"
	mcpserver "cardeditor/internal/mcp"
)

// noopEmitter is a no-op EventEmitter used in MCP-only mode (no Wails frontend).
type noopEmitter struct{}

func (noopEmitter) Emit(_ context.Context, _ string, _ any) {}

// ServeMCP runs the editor as a standalone MCP server on stdin/stdout with no
// GUI. It restores the saved session, serves until interrupted and saves the
// session on exit.
func ServeMCP() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	// stdout carries the protocol; logs go to stderr.
	log := cfg.NewLogger(os.Stderr)

	st, err := openStack(ctx, cfg, noopEmitter{}, log)
	if err != nil {
		return err
	}
	defer st.close(context.Background())

	// Nobody is around to approve destructive tools without a window.
	mcpSrv := mcpserver.New(ctx, mcpserver.Deps{
		Emitter: noopEmitter{},
		Editor:  st.editor,
		Files:   st.files,
		Logger:  log,
	})

	errCh := make(chan error, 1)
	go func() { errCh <- mcpSrv.ServeStdio() }()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("mcp server: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}
	return nil
}
