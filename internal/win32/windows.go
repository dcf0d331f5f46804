//go:build windows

package win32

import (
	"fmt"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

// FindWindow returns the first top-level window matching class and/or title.
// Empty strings match any value.
func FindWindow(class, title string) windows.HWND {
	classPtr, err := optionalUTF16(class)
	if err != nil {
		return 0
	}
	titlePtr, err := optionalUTF16(title)
	if err != nil {
		return 0
	}
	ret, _, _ := procFindWindowW.Call(uintptr(unsafe.Pointer(classPtr)), uintptr(unsafe.Pointer(titlePtr)))
	return windows.HWND(ret)
}

// FindWindowEx walks the children of parent (0 = top-level windows) starting
// after childAfter and returns the next one of the given class.
func FindWindowEx(parent, childAfter windows.HWND, class string) windows.HWND {
	classPtr, err := optionalUTF16(class)
	if err != nil {
		return 0
	}
	ret, _, _ := procFindWindowExW.Call(
		uintptr(parent),
		uintptr(childAfter),
		uintptr(unsafe.Pointer(classPtr)),
		0,
	)
	return windows.HWND(ret)
}

// SendMessageTimeout sends msg with SMTO_NORMAL and fails when the receiver
// does not process it within timeout.
func SendMessageTimeout(hwnd windows.HWND, msg uint32, wParam, lParam uintptr, timeout time.Duration) error {
	var result uintptr
	ret, _, err := procSendMessageTimeoutW.Call(
		uintptr(hwnd),
		uintptr(msg),
		wParam,
		lParam,
		smtoNormal,
		uintptr(timeout.Milliseconds()),
		uintptr(unsafe.Pointer(&result)),
	)
	if ret == 0 {
		return fmt.Errorf("SendMessageTimeout(0x%04X): %w", msg, lastError(err))
	}
	return nil
}

func IsWindow(hwnd windows.HWND) bool {
	ret, _, _ := procIsWindow.Call(uintptr(hwnd))
	return ret != 0
}

func ClassName(hwnd windows.HWND) string {
	buf := make([]uint16, maxClassName)
	n, _, _ := procGetClassNameW.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if n == 0 {
		return ""
	}
	return windows.UTF16ToString(buf[:n])
}

func ForegroundWindow() windows.HWND {
	ret, _, _ := procGetForegroundWindow.Call()
	return windows.HWND(ret)
}

// Parent returns the real parent of hwnd, or 0 for top-level windows. Owners
// of popup windows are not reported.
func Parent(hwnd windows.HWND) windows.HWND {
	parent, _, _ := procGetAncestor.Call(uintptr(hwnd), gaParent)
	desktop, _, _ := procGetDesktopWindow.Call()
	if parent == desktop {
		return 0
	}
	return windows.HWND(parent)
}

func SetParent(hwnd, parent windows.HWND) error {
	clearLastError()
	ret, _, err := procSetParent.Call(uintptr(hwnd), uintptr(parent))
	if ret == 0 {
		// A window without a previous parent legitimately returns NULL.
		if errno, ok := err.(windows.Errno); ok && errno == 0 {
			return nil
		}
		return fmt.Errorf("SetParent: %w", lastError(err))
	}
	return nil
}

// GetWindowLong reads the style (extended=false) or extended style bitmask.
func GetWindowLong(hwnd windows.HWND, extended bool) (uint32, error) {
	index := styleIndex(extended)
	clearLastError()
	ret, _, err := procGetWindowLongW.Call(uintptr(hwnd), uintptr(index))
	if ret == 0 {
		if errno, ok := err.(windows.Errno); ok && errno == 0 {
			return 0, nil
		}
		return 0, fmt.Errorf("GetWindowLong: %w", lastError(err))
	}
	return uint32(ret), nil
}

func SetWindowLong(hwnd windows.HWND, extended bool, value uint32) error {
	index := styleIndex(extended)
	clearLastError()
	ret, _, err := procSetWindowLongW.Call(uintptr(hwnd), uintptr(index), uintptr(value))
	if ret == 0 {
		// The previous value may have been zero.
		if errno, ok := err.(windows.Errno); ok && errno == 0 {
			return nil
		}
		return fmt.Errorf("SetWindowLong: %w", lastError(err))
	}
	return nil
}

func GetWindowRect(hwnd windows.HWND) (windows.Rect, error) {
	var r windows.Rect
	ret, _, err := procGetWindowRect.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&r)))
	if ret == 0 {
		return windows.Rect{}, fmt.Errorf("GetWindowRect: %w", lastError(err))
	}
	return r, nil
}

// PlaceTop calls SetWindowPos with HWND_TOP, SWP_FRAMECHANGED and SWP_SHOWWINDOW.
func PlaceTop(hwnd windows.HWND, x, y, width, height int32) error {
	ret, _, err := procSetWindowPos.Call(
		uintptr(hwnd),
		0, // HWND_TOP
		uintptr(x),
		uintptr(y),
		uintptr(width),
		uintptr(height),
		swpFrameChanged|swpShowWindow,
	)
	if ret == 0 {
		return fmt.Errorf("SetWindowPos: %w", lastError(err))
	}
	return nil
}

func styleIndex(extended bool) int32 {
	if extended {
		return gwlExStyle
	}
	return gwlStyle
}

func optionalUTF16(s string) (*uint16, error) {
	if s == "" {
		return nil, nil
	}
	return windows.UTF16PtrFromString(s)
}
