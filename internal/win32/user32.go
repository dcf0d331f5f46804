//go:build windows

package win32

import (
	"errors"

	"golang.org/x/sys/windows"
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procFindWindowW         = user32.NewProc("FindWindowW")
	procFindWindowExW       = user32.NewProc("FindWindowExW")
	procSendMessageTimeoutW = user32.NewProc("SendMessageTimeoutW")
	procIsWindow            = user32.NewProc("IsWindow")
	procGetClassNameW       = user32.NewProc("GetClassNameW")
	procGetAncestor         = user32.NewProc("GetAncestor")
	procGetDesktopWindow    = user32.NewProc("GetDesktopWindow")
	procGetForegroundWindow = user32.NewProc("GetForegroundWindow")
	procSetParent           = user32.NewProc("SetParent")
	procGetWindowLongW      = user32.NewProc("GetWindowLongW")
	procSetWindowLongW      = user32.NewProc("SetWindowLongW")
	procGetWindowRect       = user32.NewProc("GetWindowRect")
	procSetWindowPos        = user32.NewProc("SetWindowPos")
	procGetSystemMetrics    = user32.NewProc("GetSystemMetrics")
	procMonitorFromWindow   = user32.NewProc("MonitorFromWindow")
	procGetMonitorInfoW     = user32.NewProc("GetMonitorInfoW")
	procEnumDisplayMonitors = user32.NewProc("EnumDisplayMonitors")

	procSetLastError = kernel32.NewProc("SetLastError")
)

const (
	gwlStyle   int32 = -16
	gwlExStyle int32 = -20

	gaParent = 1

	smtoNormal = 0x0000

	swpFrameChanged = 0x0020
	swpShowWindow   = 0x0040

	smXVirtualScreen  = 76
	smYVirtualScreen  = 77
	smCXVirtualScreen = 78
	smCYVirtualScreen = 79

	monitorDefaultToPrimary = 0x00000001
	monitorInfoFPrimary     = 0x00000001

	maxClassName = 256
)

// errCallFailed is returned when a call reports failure without setting a
// last-error code.
var errCallFailed = errors.New("win32 call failed")

// lastError converts the error returned by LazyProc.Call into a useful error.
// Call always returns a non-nil Errno, including ERROR_SUCCESS.
func lastError(err error) error {
	var errno windows.Errno
	if errors.As(err, &errno) {
		if errno == 0 {
			return errCallFailed
		}
		return errno
	}
	if err == nil {
		return errCallFailed
	}
	return err
}

func clearLastError() {
	procSetLastError.Call(0)
}
