package app

import (
	"context"
	"log/slog"
	"os"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"cardeditor/internal/config"
	mcpserver "cardeditor/internal/mcp"
	"cardeditor/internal/service"
)

// App is the main Wails application struct.
// All exported methods are available as Wails bindings.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc
	log    *slog.Logger

	*stack
	window *service.WindowSettingsService
	mcp    *mcpserver.Server
}

// New creates a new App.
func New() *App {
	return &App{}
}

// wailsEmitter forwards service events to the frontend.
type wailsEmitter struct{}

func (wailsEmitter) Emit(ctx context.Context, event string, data any) {
	wailsRuntime.EventsEmit(ctx, event, data)
}

// Startup is called when the app starts.
func (a *App) Startup(ctx context.Context) {
	a.ctx, a.cancel = context.WithCancel(ctx)

	cfg, err := config.Load()
	if err != nil {
		wailsRuntime.LogFatalf(ctx, "Failed to load config: %v", err)
		return
	}
	a.log = cfg.NewLogger(os.Stderr)

	st, err := openStack(a.ctx, cfg, wailsEmitter{}, a.log)
	if err != nil {
		wailsRuntime.LogFatalf(ctx, "Failed to open workspace: %v", err)
		return
	}
	a.stack = st
	a.window = service.NewWindowSettingsService(st.settings)

	size := a.window.LoadWindowSize()
	wailsRuntime.WindowSetSize(ctx, size.Width, size.Height)

	a.mcp = mcpserver.New(a.ctx, mcpserver.Deps{
		Emitter:         wailsEmitter{},
		Editor:          st.editor,
		Files:           st.files,
		Logger:          a.log,
		RequireApproval: true,
	})
	if cfg.MCPAddr != "" {
		go func() {
			if err := a.mcp.ServeHTTP(a.ctx, cfg.MCPAddr); err != nil {
				wailsRuntime.LogErrorf(ctx, "MCP server stopped: %v", err)
			}
		}()
	}

	wailsRuntime.LogInfof(ctx, "Workspace ready with %d tabs", len(st.editor.Tabs()))
}

// Shutdown is called when the app is closing.
func (a *App) Shutdown(ctx context.Context) {
	if a.stack != nil {
		w, h := wailsRuntime.WindowGetSize(ctx)
		if err := a.window.SaveWindowSize(w, h); err != nil {
			a.log.Warn("save window size", "error", err)
		}
	}
	if a.cancel != nil {
		a.cancel()
	}
	if a.stack != nil {
		a.stack.close(context.Background())
	}
}

// ============================================================
// MCP approvals
// ============================================================

// ApproveMCPAction approves a pending destructive MCP tool call.
func (a *App) ApproveMCPAction(actionID string) {
	a.mcp.Approve(actionID)
}

// RejectMCPAction rejects a pending destructive MCP tool call.
func (a *App) RejectMCPAction(actionID string) {
	a.mcp.Reject(actionID)
}

// ============================================================
// Window
// ============================================================

func (a *App) GetWindowSize() service.WindowSize {
	return a.window.LoadWindowSize()
}
