package wallpaper

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/1broseidon/backdrop/internal/config"
	"github.com/1broseidon/backdrop/internal/platform"
)

// Window style bits removed while a window is embedded.
const (
	wsCaption     uint32 = 0x00C00000
	wsThickFrame  uint32 = 0x00040000
	wsMinimizeBox uint32 = 0x00020000
	wsMaximizeBox uint32 = 0x00010000
	wsSysMenu     uint32 = 0x00080000

	wsExDlgModalFrame uint32 = 0x00000001
	wsExClientEdge    uint32 = 0x00000200
	wsExStaticEdge    uint32 = 0x00020000

	chromeStyleMask   = wsCaption | wsThickFrame | wsMinimizeBox | wsMaximizeBox | wsSysMenu
	chromeExStyleMask = wsExDlgModalFrame | wsExClientEdge | wsExStaticEdge
)

// Options configure a Session.
type Options struct {
	Locator     LocatorOptions
	MonitorMode config.MonitorMode
	Logger      *zap.Logger
}

// OptionsFromConfig maps the effective configuration onto session options.
func OptionsFromConfig(cfg *config.Config, logger *zap.Logger) Options {
	return Options{
		Locator: LocatorOptions{
			TriggerTimeout: cfg.Locator.TriggerTimeout(),
			SettleDelay:    cfg.Locator.SettleDelay(),
			PollInterval:   cfg.Locator.PollInterval(),
			MaxWait:        cfg.Locator.MaxWait(),
		},
		MonitorMode: cfg.Monitors.Mode,
		Logger:      logger,
	}
}

// snapshot holds what is needed to put a window back exactly as it was.
type snapshot struct {
	parent  platform.WindowHandle
	style   uint32
	exStyle uint32
	rect    platform.Rect
}

// embeddingState is inactive when active is false; every other field is then
// zero.
type embeddingState struct {
	active   bool
	target   platform.WindowHandle
	original *snapshot
	host     platform.WindowHandle
}

// Status is a point-in-time view of a Session.
type Status struct {
	Embedded bool
	Window   platform.WindowHandle
	Host     platform.WindowHandle
}

// Session owns the wallpaper-mode lifecycle of a single window. A process
// should hold exactly one Session; Embed and Unembed serialize on its lock for
// their whole duration, OS calls included.
type Session struct {
	desktop  platform.Desktop
	locator  *Locator
	geometry *Geometry
	logger   *zap.Logger

	mu    sync.Mutex
	state embeddingState
}

// NewSession returns an idle session driving desktop.
func NewSession(desktop platform.Desktop, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		desktop:  desktop,
		locator:  NewLocator(desktop, opts.Locator, logger.Named("locator")),
		geometry: NewGeometry(desktop, opts.MonitorMode, logger.Named("geometry")),
		logger:   logger,
	}
}

// Embed moves hwnd into the desktop background layer: it is reparented under
// the shell's WorkerW host, stripped of its frame and stretched over the
// virtual screen. The host is located before anything is changed, so a
// missing host or a cancelled ctx leaves the window untouched. Once mutation
// starts, OS failures are logged and the transition still completes.
func (s *Session) Embed(ctx context.Context, hwnd platform.WindowHandle) error {
	if !s.desktop.Supported() {
		return ErrPlatformUnsupported
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if s.state.active {
		return ErrAlreadyEmbedded
	}
	if err := s.validateTarget(hwnd); err != nil {
		return err
	}

	host, err := s.locator.Locate(ctx)
	if err != nil {
		return err
	}
	// Last point at which a cancelled caller leaves the window untouched.
	if err := ctx.Err(); err != nil {
		return err
	}

	snap, err := s.capture(hwnd)
	if err != nil {
		return err
	}

	log := s.logger.With(zap.Stringer("window", hwnd), zap.Stringer("host", host))

	s.applyStyle(log, hwnd, platform.StyleBase, snap.style&^chromeStyleMask)
	s.applyStyle(log, hwnd, platform.StyleExtended, snap.exStyle&^chromeExStyleMask)

	if err := s.desktop.SetParent(hwnd, host); err != nil {
		log.Warn("failed to reparent window under background host", zap.Error(err))
	}

	bounds := s.geometry.VirtualScreenBounds()
	if err := s.desktop.Place(hwnd, bounds); err != nil {
		log.Warn("failed to stretch window over virtual screen", zap.Stringer("bounds", bounds), zap.Error(err))
	}

	s.state = embeddingState{
		active:   true,
		target:   hwnd,
		original: snap,
		host:     host,
	}
	log.Info("window embedded",
		zap.Stringer("bounds", bounds),
		zap.Stringer("original_rect", snap.rect),
		zap.String("original_style", fmt.Sprintf("0x%08X", snap.style)),
	)
	return nil
}

// Unembed returns the embedded window to its original parent, style,
// extended style and position. hwnd must be the window passed to Embed.
func (s *Session) Unembed(hwnd platform.WindowHandle) error {
	if !s.desktop.Supported() {
		return ErrPlatformUnsupported
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.active {
		return ErrNotEmbedded
	}
	if hwnd == 0 {
		return fmt.Errorf("%w: null handle", ErrInvalidHandle)
	}
	if hwnd != s.state.target {
		return fmt.Errorf("%w: %s is not the embedded window (%s)", ErrInvalidHandle, hwnd, s.state.target)
	}

	s.restoreLocked()
	return nil
}

// Release restores the embedded window, if any. It reports whether a window
// was restored.
func (s *Session) Release() bool {
	if !s.desktop.Supported() {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.active {
		return false
	}
	s.restoreLocked()
	return true
}

// IsEmbedded reports whether a window is currently embedded.
func (s *Session) IsEmbedded() bool {
	if !s.desktop.Supported() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.active
}

// Status reports the embedded window and its host, if any.
func (s *Session) Status() Status {
	if !s.desktop.Supported() {
		return Status{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		Embedded: s.state.active,
		Window:   s.state.target,
		Host:     s.state.host,
	}
}

// Monitors returns the monitor inventory.
func (s *Session) Monitors() []MonitorInfo {
	return s.geometry.AllMonitors()
}

// Geometry returns the display reader the session stretches windows with.
func (s *Session) Geometry() *Geometry {
	return s.geometry
}

// WindowByTitle returns the top-level window with exactly this title, or 0.
func (s *Session) WindowByTitle(title string) platform.WindowHandle {
	return s.desktop.FindWindowByTitle(title)
}

// ForegroundWindow returns the window the user is working in, or 0.
func (s *Session) ForegroundWindow() platform.WindowHandle {
	return s.desktop.ForegroundWindow()
}

func (s *Session) restoreLocked() {
	if s.state.original == nil {
		panic("wallpaper: embedded session has no snapshot to restore")
	}
	hwnd := s.state.target
	snap := s.state.original
	log := s.logger.With(zap.Stringer("window", hwnd))

	if err := s.desktop.SetParent(hwnd, snap.parent); err != nil {
		log.Warn("failed to restore window parent", zap.Stringer("parent", snap.parent), zap.Error(err))
	}

	s.applyStyle(log, hwnd, platform.StyleBase, snap.style)
	s.applyStyle(log, hwnd, platform.StyleExtended, snap.exStyle)

	if err := s.desktop.Place(hwnd, snap.rect); err != nil {
		log.Warn("failed to restore window position", zap.Stringer("rect", snap.rect), zap.Error(err))
	}

	s.state = embeddingState{}
	log.Info("window restored", zap.Stringer("rect", snap.rect))
}

func (s *Session) validateTarget(hwnd platform.WindowHandle) error {
	if hwnd == 0 {
		return fmt.Errorf("%w: null handle", ErrInvalidHandle)
	}
	if !s.desktop.IsWindow(hwnd) {
		return fmt.Errorf("%w: %s is not a window", ErrInvalidHandle, hwnd)
	}
	if isShellWindow(s.desktop, hwnd) {
		return fmt.Errorf("%w: %s belongs to the desktop shell", ErrInvalidHandle, hwnd)
	}
	return nil
}

// capture reads everything needed to restore hwnd. It runs before any
// mutation, so a failure here still leaves the window untouched.
func (s *Session) capture(hwnd platform.WindowHandle) (*snapshot, error) {
	style, err := s.desktop.Style(hwnd, platform.StyleBase)
	if err != nil {
		return nil, fmt.Errorf("%w: read style of %s: %v", ErrInvalidHandle, hwnd, err)
	}
	exStyle, err := s.desktop.Style(hwnd, platform.StyleExtended)
	if err != nil {
		return nil, fmt.Errorf("%w: read extended style of %s: %v", ErrInvalidHandle, hwnd, err)
	}
	rect, err := s.desktop.WindowRect(hwnd)
	if err != nil {
		return nil, fmt.Errorf("%w: read rect of %s: %v", ErrInvalidHandle, hwnd, err)
	}
	return &snapshot{
		parent:  s.desktop.Parent(hwnd),
		style:   style,
		exStyle: exStyle,
		rect:    rect,
	}, nil
}

func (s *Session) applyStyle(log *zap.Logger, hwnd platform.WindowHandle, kind platform.StyleKind, value uint32) {
	if err := s.desktop.SetStyle(hwnd, kind, value); err != nil {
		log.Warn("failed to set window "+kind.String(), zap.String("value", fmt.Sprintf("0x%08X", value)), zap.Error(err))
	}
}
