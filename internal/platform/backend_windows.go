//go:build windows

package platform

import (
	"time"

	"github.com/1broseidon/backdrop/internal/win32"
	"golang.org/x/sys/windows"
)

// WindowsBackend implements Desktop on top of user32.
type WindowsBackend struct{}

var _ Desktop = (*WindowsBackend)(nil)

// New returns the desktop for the running platform.
func New() Desktop {
	return &WindowsBackend{}
}

func (b *WindowsBackend) Supported() bool { return true }

func (b *WindowsBackend) FindWindow(class string) WindowHandle {
	return WindowHandle(win32.FindWindow(class, ""))
}

func (b *WindowsBackend) FindWindowEx(parent, after WindowHandle, class string) WindowHandle {
	return WindowHandle(win32.FindWindowEx(windows.HWND(parent), windows.HWND(after), class))
}

func (b *WindowsBackend) FindWindowByTitle(title string) WindowHandle {
	if title == "" {
		return 0
	}
	return WindowHandle(win32.FindWindow("", title))
}

func (b *WindowsBackend) ForegroundWindow() WindowHandle {
	return WindowHandle(win32.ForegroundWindow())
}

func (b *WindowsBackend) SendMessageTimeout(hwnd WindowHandle, msg uint32, wParam, lParam uintptr, timeout time.Duration) error {
	return win32.SendMessageTimeout(windows.HWND(hwnd), msg, wParam, lParam, timeout)
}

func (b *WindowsBackend) IsWindow(hwnd WindowHandle) bool {
	return hwnd != 0 && win32.IsWindow(windows.HWND(hwnd))
}

func (b *WindowsBackend) ClassName(hwnd WindowHandle) string {
	return win32.ClassName(windows.HWND(hwnd))
}

func (b *WindowsBackend) Parent(hwnd WindowHandle) WindowHandle {
	return WindowHandle(win32.Parent(windows.HWND(hwnd)))
}

func (b *WindowsBackend) SetParent(hwnd, parent WindowHandle) error {
	return win32.SetParent(windows.HWND(hwnd), windows.HWND(parent))
}

func (b *WindowsBackend) Style(hwnd WindowHandle, kind StyleKind) (uint32, error) {
	return win32.GetWindowLong(windows.HWND(hwnd), kind == StyleExtended)
}

func (b *WindowsBackend) SetStyle(hwnd WindowHandle, kind StyleKind, style uint32) error {
	return win32.SetWindowLong(windows.HWND(hwnd), kind == StyleExtended, style)
}

func (b *WindowsBackend) WindowRect(hwnd WindowHandle) (Rect, error) {
	r, err := win32.GetWindowRect(windows.HWND(hwnd))
	if err != nil {
		return Rect{}, err
	}
	return rectFromWin32(r), nil
}

func (b *WindowsBackend) Place(hwnd WindowHandle, bounds Rect) error {
	return win32.PlaceTop(
		windows.HWND(hwnd),
		int32(bounds.Left),
		int32(bounds.Top),
		int32(bounds.Width()),
		int32(bounds.Height()),
	)
}

func (b *WindowsBackend) VirtualScreen() Rect {
	x, y, w, h := win32.VirtualScreen()
	return RectFromBounds(int(x), int(y), int(w), int(h))
}

func (b *WindowsBackend) PrimaryMonitor() (Rect, error) {
	r, err := win32.PrimaryMonitor()
	if err != nil {
		return Rect{}, err
	}
	return rectFromWin32(r), nil
}

func (b *WindowsBackend) Monitors() ([]Monitor, error) {
	raw, err := win32.EnumMonitors()
	if err != nil {
		return nil, err
	}
	monitors := make([]Monitor, 0, len(raw))
	for _, m := range raw {
		monitors = append(monitors, Monitor{
			Bounds:  rectFromWin32(m.Bounds),
			Primary: m.Primary,
		})
	}
	return monitors, nil
}

func rectFromWin32(r windows.Rect) Rect {
	return Rect{
		Left:   int(r.Left),
		Top:    int(r.Top),
		Right:  int(r.Right),
		Bottom: int(r.Bottom),
	}
}
