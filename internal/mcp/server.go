package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/1broseidon/backdrop/internal/ipc"
)

const (
	ServerName    = "backdrop"
	ServerVersion = "0.1.0"
)

// Daemon is the part of the IPC client the tools use.
type Daemon interface {
	Embed(target ipc.WindowPayload) (*ipc.WindowData, error)
	Unembed(target ipc.WindowPayload) (*ipc.WindowData, error)
	GetStatus() (*ipc.StatusData, error)
	GetMonitors() (*ipc.MonitorsData, error)
}

// Server exposes the wallpaper daemon as MCP tools.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
	logger    *zap.Logger
}

// NewServer creates an MCP server forwarding to daemon.
func NewServer(daemon Daemon, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		daemon: daemon,
		logger: logger,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "embed_window",
		Description: "Put a window into wallpaper mode: it is reparented behind the desktop icons, stripped of its frame and stretched over every display. Select the window by hwnd, exact title, or foreground. Fails if a window is already embedded.",
	}, s.handleEmbedWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "unembed_window",
		Description: "Restore the embedded window to its original parent, style and position. With no selector, restores whatever window is embedded.",
	}, s.handleUnembedWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "wallpaper_status",
		Description: "Report whether a window is in wallpaper mode, which window and host, and whether the daemon's platform supports wallpaper mode.",
	}, s.handleWallpaperStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_monitors",
		Description: "List displays with their origin and size. The primary display is always index 0.",
	}, s.handleListMonitors)
}
