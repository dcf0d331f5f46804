package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/backdrop/internal/wallpaper"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandEmbed       CommandType = "EMBED"
	CommandUnembed     CommandType = "UNEMBED"
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandGetMonitors CommandType = "GET_MONITORS"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
	// Code carries the engine error code so clients can match sentinels.
	Code string `json:"code,omitempty"`
}

// WindowPayload selects the target window of EMBED and UNEMBED. At most one
// selector is expected; HWND wins over Title, Title over Foreground.
type WindowPayload struct {
	HWND       uint64 `json:"hwnd,omitempty"`
	Title      string `json:"title,omitempty"`
	Foreground bool   `json:"foreground,omitempty"`
}

// WindowData is returned by EMBED and UNEMBED.
type WindowData struct {
	Window string `json:"window"`
	Host   string `json:"host,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Embedded      bool   `json:"embedded"`
	Window        string `json:"window"`
	Host          string `json:"host"`
	Platform      string `json:"platform"`
	Supported     bool   `json:"supported"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	DaemonRunning bool   `json:"daemon_running"`
}

// MonitorsData represents the data returned by GET_MONITORS
type MonitorsData struct {
	Monitors []wallpaper.MonitorInfo `json:"monitors"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// NewEngineErrorResponse creates an error response that keeps the engine
// error code of err, if any.
func NewEngineErrorResponse(err error) *Response {
	resp := NewErrorResponse(err.Error())
	resp.Code = wallpaper.Code(err)
	return resp
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

// RemoteError is a daemon-side failure. It unwraps to the matching engine
// sentinel when the daemon sent a known code, so errors.Is works across the
// socket.
type RemoteError struct {
	Code    string
	Message string
}

func (e *RemoteError) Error() string {
	return "daemon error: " + e.Message
}

func (e *RemoteError) Unwrap() error {
	if sentinel := wallpaper.FromCode(e.Code); sentinel != nil {
		return sentinel
	}
	return nil
}
