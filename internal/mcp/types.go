package mcp

import "github.com/1broseidon/backdrop/internal/wallpaper"

// EmbedWindowInput is the input for the embed_window tool. Exactly one
// selector is expected.
type EmbedWindowInput struct {
	HWND       string `json:"hwnd,omitempty" jsonschema:"Window handle in decimal or 0x-prefixed hex"`
	Title      string `json:"title,omitempty" jsonschema:"Exact title of a top-level window"`
	Foreground bool   `json:"foreground,omitempty" jsonschema:"When true, use the current foreground window"`
}

// EmbedWindowOutput is the output for the embed_window tool.
type EmbedWindowOutput struct {
	Window string `json:"window"`
	Host   string `json:"host"`
}

// UnembedWindowInput is the input for the unembed_window tool. All fields
// are optional.
type UnembedWindowInput struct {
	HWND  string `json:"hwnd,omitempty" jsonschema:"Handle of the embedded window in decimal or 0x-prefixed hex"`
	Title string `json:"title,omitempty" jsonschema:"Exact title of the embedded window"`
}

// UnembedWindowOutput is the output for the unembed_window tool.
type UnembedWindowOutput struct {
	Window string `json:"window"`
}

// WallpaperStatusInput is the input for the wallpaper_status tool.
type WallpaperStatusInput struct{}

// WallpaperStatusOutput is the output for the wallpaper_status tool.
type WallpaperStatusOutput struct {
	Embedded      bool   `json:"embedded"`
	Window        string `json:"window,omitempty"`
	Host          string `json:"host,omitempty"`
	Platform      string `json:"platform"`
	Supported     bool   `json:"supported"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// ListMonitorsInput is the input for the list_monitors tool.
type ListMonitorsInput struct{}

// ListMonitorsOutput is the output for the list_monitors tool.
type ListMonitorsOutput struct {
	Monitors []wallpaper.MonitorInfo `json:"monitors"`
}
