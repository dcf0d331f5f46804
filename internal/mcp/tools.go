package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/1broseidon/backdrop/internal/ipc"
	"github.com/1broseidon/backdrop/internal/platform"
	"github.com/1broseidon/backdrop/internal/wallpaper"
)

func (s *Server) handleEmbedWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args EmbedWindowInput) (*mcpsdk.CallToolResult, EmbedWindowOutput, error) {
	target, err := toPayload(args.HWND, args.Title, args.Foreground)
	if err != nil {
		return nil, EmbedWindowOutput{}, err
	}
	if target == (ipc.WindowPayload{}) {
		return nil, EmbedWindowOutput{}, fmt.Errorf("one of hwnd, title or foreground is required")
	}

	data, err := s.daemon.Embed(target)
	if err != nil {
		s.logToolError("embed_window", err)
		return nil, EmbedWindowOutput{}, err
	}
	s.logger.Info("embed_window", zap.String("window", data.Window), zap.String("host", data.Host))
	return nil, EmbedWindowOutput{Window: data.Window, Host: data.Host}, nil
}

func (s *Server) handleUnembedWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args UnembedWindowInput) (*mcpsdk.CallToolResult, UnembedWindowOutput, error) {
	target, err := toPayload(args.HWND, args.Title, false)
	if err != nil {
		return nil, UnembedWindowOutput{}, err
	}

	data, err := s.daemon.Unembed(target)
	if err != nil {
		s.logToolError("unembed_window", err)
		return nil, UnembedWindowOutput{}, err
	}
	s.logger.Info("unembed_window", zap.String("window", data.Window))
	return nil, UnembedWindowOutput{Window: data.Window}, nil
}

func (s *Server) handleWallpaperStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ WallpaperStatusInput) (*mcpsdk.CallToolResult, WallpaperStatusOutput, error) {
	st, err := s.daemon.GetStatus()
	if err != nil {
		s.logToolError("wallpaper_status", err)
		return nil, WallpaperStatusOutput{}, err
	}
	return nil, WallpaperStatusOutput{
		Embedded:      st.Embedded,
		Window:        st.Window,
		Host:          st.Host,
		Platform:      st.Platform,
		Supported:     st.Supported,
		UptimeSeconds: st.UptimeSeconds,
	}, nil
}

func (s *Server) handleListMonitors(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListMonitorsInput) (*mcpsdk.CallToolResult, ListMonitorsOutput, error) {
	data, err := s.daemon.GetMonitors()
	if err != nil {
		s.logToolError("list_monitors", err)
		return nil, ListMonitorsOutput{}, err
	}
	monitors := data.Monitors
	if monitors == nil {
		monitors = []wallpaper.MonitorInfo{}
	}
	return nil, ListMonitorsOutput{Monitors: monitors}, nil
}

func (s *Server) logToolError(tool string, err error) {
	s.logger.Warn("tool failed",
		zap.String("tool", tool),
		zap.String("code", wallpaper.Code(err)),
		zap.Error(err),
	)
}

func toPayload(hwndText, title string, foreground bool) (ipc.WindowPayload, error) {
	p := ipc.WindowPayload{Title: title, Foreground: foreground}
	if hwndText != "" {
		hwnd, err := platform.ParseWindowHandle(hwndText)
		if err != nil {
			return ipc.WindowPayload{}, err
		}
		p.HWND = uint64(hwnd)
	}
	return p, nil
}
