package platform

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnsupported is returned by desktops that have no shell background layer.
var ErrUnsupported = errors.New("desktop embedding is only supported on Windows")

// WindowHandle is a platform-neutral native window handle (an HWND on Windows).
// The zero value means "no window".
type WindowHandle uintptr

// String formats the handle in the hex notation Win32 tooling uses.
func (h WindowHandle) String() string {
	return fmt.Sprintf("0x%X", uintptr(h))
}

// Rect describes a rectangular region by its edges in screen coordinates.
type Rect struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// RectFromBounds builds a Rect from an origin and a size.
func RectFromBounds(x, y, width, height int) Rect {
	return Rect{Left: x, Top: y, Right: x + width, Bottom: y + height}
}

func (r Rect) Width() int  { return r.Right - r.Left }
func (r Rect) Height() int { return r.Bottom - r.Top }

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d,%d,%d)", r.Left, r.Top, r.Right, r.Bottom)
}

// Monitor describes a physical display.
type Monitor struct {
	Bounds  Rect
	Primary bool
}

// StyleKind selects which style bitmask of a window is read or written.
type StyleKind int

const (
	// StyleBase is the GWL_STYLE bitmask.
	StyleBase StyleKind = iota
	// StyleExtended is the GWL_EXSTYLE bitmask.
	StyleExtended
)

func (k StyleKind) String() string {
	if k == StyleExtended {
		return "extended style"
	}
	return "style"
}

// Desktop abstracts the window-system primitives needed to host a window in
// the shell's background layer.
type Desktop interface {
	// Supported reports whether the desktop has a shell background layer.
	Supported() bool

	// FindWindow returns the first top-level window of the given class, or 0.
	FindWindow(class string) WindowHandle
	// FindWindowEx returns the next window of the given class among the children
	// of parent (0 = top-level windows) following after (0 = from the start).
	FindWindowEx(parent, after WindowHandle, class string) WindowHandle
	// FindWindowByTitle returns the first top-level window with the exact title, or 0.
	FindWindowByTitle(title string) WindowHandle
	// ForegroundWindow returns the window the user is currently working in.
	ForegroundWindow() WindowHandle
	// SendMessageTimeout sends msg and waits at most timeout for it to be processed.
	SendMessageTimeout(hwnd WindowHandle, msg uint32, wParam, lParam uintptr, timeout time.Duration) error

	IsWindow(hwnd WindowHandle) bool
	ClassName(hwnd WindowHandle) string

	// Parent returns the window's parent, or 0 when it is a top-level window.
	Parent(hwnd WindowHandle) WindowHandle
	// SetParent reparents hwnd; a zero parent makes it top-level again.
	SetParent(hwnd, parent WindowHandle) error
	Style(hwnd WindowHandle, kind StyleKind) (uint32, error)
	SetStyle(hwnd WindowHandle, kind StyleKind, style uint32) error
	WindowRect(hwnd WindowHandle) (Rect, error)
	// Place moves hwnd to the top of its z-order at bounds, re-evaluates its
	// frame and shows it.
	Place(hwnd WindowHandle, bounds Rect) error

	// VirtualScreen returns the rectangle spanning all attached displays.
	VirtualScreen() Rect
	// PrimaryMonitor returns the bounds of the primary display.
	PrimaryMonitor() (Rect, error)
	// Monitors enumerates every attached display.
	Monitors() ([]Monitor, error)
}

// Unsupported returns a Desktop for platforms without a shell background layer.
// Queries return empty results and mutations fail with ErrUnsupported.
func Unsupported() Desktop {
	return unsupportedDesktop{}
}

type unsupportedDesktop struct{}

var _ Desktop = unsupportedDesktop{}

func (unsupportedDesktop) Supported() bool { return false }

func (unsupportedDesktop) FindWindow(string) WindowHandle { return 0 }

func (unsupportedDesktop) FindWindowEx(WindowHandle, WindowHandle, string) WindowHandle { return 0 }

func (unsupportedDesktop) FindWindowByTitle(string) WindowHandle { return 0 }

func (unsupportedDesktop) ForegroundWindow() WindowHandle { return 0 }

func (unsupportedDesktop) IsWindow(WindowHandle) bool { return false }

func (unsupportedDesktop) ClassName(WindowHandle) string { return "" }

func (unsupportedDesktop) Parent(WindowHandle) WindowHandle { return 0 }

func (unsupportedDesktop) VirtualScreen() Rect { return Rect{} }

func (unsupportedDesktop) SendMessageTimeout(WindowHandle, uint32, uintptr, uintptr, time.Duration) error {
	return ErrUnsupported
}

func (unsupportedDesktop) SetParent(WindowHandle, WindowHandle) error { return ErrUnsupported }

func (unsupportedDesktop) Style(WindowHandle, StyleKind) (uint32, error) { return 0, ErrUnsupported }

func (unsupportedDesktop) SetStyle(WindowHandle, StyleKind, uint32) error { return ErrUnsupported }

func (unsupportedDesktop) WindowRect(WindowHandle) (Rect, error) { return Rect{}, ErrUnsupported }

func (unsupportedDesktop) Place(WindowHandle, Rect) error { return ErrUnsupported }

func (unsupportedDesktop) PrimaryMonitor() (Rect, error) { return Rect{}, ErrUnsupported }

func (unsupportedDesktop) Monitors() ([]Monitor, error) { return nil, ErrUnsupported }
