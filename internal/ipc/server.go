package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/1broseidon/backdrop/internal/platform"
	"github.com/1broseidon/backdrop/internal/wallpaper"
)

// Engine is the wallpaper engine served over IPC. *wallpaper.Session
// implements it.
type Engine interface {
	Embed(ctx context.Context, hwnd platform.WindowHandle) error
	Unembed(hwnd platform.WindowHandle) error
	Status() wallpaper.Status
	Monitors() []wallpaper.MonitorInfo
	WindowByTitle(title string) platform.WindowHandle
	ForegroundWindow() platform.WindowHandle
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	engine       Engine
	supported    bool
	logger       *zap.Logger
	startTime    time.Time
	ctx          context.Context
	cancel       context.CancelFunc
	shuttingDown bool
	shutdownMu   sync.Mutex
	// handlers tracks connections being served so Stop can wait for them.
	handlers sync.WaitGroup
}

// requestReadTimeout bounds how long a client may take to send its request.
const requestReadTimeout = 5 * time.Second

// NewServer creates a new IPC server bound to socketPath. supported reports
// whether the engine runs on a platform with wallpaper support.
func NewServer(engine Engine, socketPath string, supported bool, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		socketPath: socketPath,
		engine:     engine,
		supported:  supported,
		logger:     logger,
		startTime:  time.Now(),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Windows has no meaningful mode bits for socket files.
	if runtime.GOOS != "windows" {
		if err := os.Chmod(s.socketPath, 0600); err != nil {
			listener.Close()
			return fmt.Errorf("failed to set socket permissions: %w", err)
		}
	}

	s.logger.Info("IPC server listening", zap.String("socket", s.socketPath))

	go s.acceptLoop()

	return nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			s.logger.Warn("IPC accept error", zap.Error(err))
			continue
		}

		s.shutdownMu.Lock()
		if s.shuttingDown {
			s.shutdownMu.Unlock()
			conn.Close()
			return
		}
		s.handlers.Add(1)
		s.shutdownMu.Unlock()

		go func() {
			defer s.handlers.Done()
			s.handleConnection(conn)
		}()
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(requestReadTimeout))
	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", zap.Error(err))
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal response", zap.Error(err))
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("failed to send response", zap.Error(err))
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	s.logger.Debug("IPC command", zap.String("command", string(req.Command)))

	switch req.Command {
	case CommandEmbed:
		return s.handleEmbed(req.Payload)
	case CommandUnembed:
		return s.handleUnembed(req.Payload)
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandGetMonitors:
		return s.handleGetMonitors()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleEmbed(payload json.RawMessage) *Response {
	var req WindowPayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid embed payload: %v", err))
	}

	hwnd, resp := s.resolveWindow(req)
	if resp != nil {
		return resp
	}
	if err := s.engine.Embed(s.ctx, hwnd); err != nil {
		return NewEngineErrorResponse(err)
	}

	st := s.engine.Status()
	resp, _ = NewOKResponse(WindowData{Window: hwnd.String(), Host: st.Host.String()})
	return resp
}

// handleUnembed restores the selected window. With no selector it restores
// whatever is embedded.
func (s *Server) handleUnembed(payload json.RawMessage) *Response {
	var req WindowPayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid unembed payload: %v", err))
	}

	var hwnd platform.WindowHandle
	if req == (WindowPayload{}) {
		hwnd = s.engine.Status().Window
	} else {
		var resp *Response
		if hwnd, resp = s.resolveWindow(req); resp != nil {
			return resp
		}
	}

	if err := s.engine.Unembed(hwnd); err != nil {
		return NewEngineErrorResponse(err)
	}

	resp, _ := NewOKResponse(WindowData{Window: hwnd.String()})
	return resp
}

// resolveWindow maps a payload onto a handle. Title lookups that match
// nothing fail here; other handles are validated by the engine.
func (s *Server) resolveWindow(req WindowPayload) (platform.WindowHandle, *Response) {
	switch {
	case req.HWND != 0:
		return platform.WindowHandle(req.HWND), nil
	case req.Title != "":
		hwnd := s.engine.WindowByTitle(req.Title)
		if hwnd == 0 {
			return 0, NewEngineErrorResponse(fmt.Errorf("%w: no window titled %q", wallpaper.ErrInvalidHandle, req.Title))
		}
		return hwnd, nil
	case req.Foreground:
		return s.engine.ForegroundWindow(), nil
	}
	return 0, nil
}

// handleGetStatus returns current daemon status
func (s *Server) handleGetStatus() *Response {
	st := s.engine.Status()

	status := StatusData{
		Embedded:      st.Embedded,
		Platform:      runtime.GOOS,
		Supported:     s.supported,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		DaemonRunning: true,
	}
	if st.Embedded {
		status.Window = st.Window.String()
		status.Host = st.Host.String()
	}

	resp, _ := NewOKResponse(status)
	return resp
}

// handleGetMonitors returns information about all monitors
func (s *Server) handleGetMonitors() *Response {
	data := MonitorsData{
		Monitors: s.engine.Monitors(),
	}

	resp, _ := NewOKResponse(data)
	return resp
}

func decodePayload(payload json.RawMessage, v interface{}) error {
	if len(payload) == 0 {
		return nil
	}
	return json.Unmarshal(payload, v)
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server. In-flight embeds are cancelled
// and Stop returns only after every accepted request has been answered, so
// the engine is idle afterwards.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	s.cancel()
	if s.listener != nil {
		s.listener.Close()
	}
	s.handlers.Wait()
	os.Remove(s.socketPath)
}
