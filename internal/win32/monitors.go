//go:build windows

package win32

import (
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Monitor is a display rectangle as reported by GetMonitorInfo.
type Monitor struct {
	Bounds  windows.Rect
	Primary bool
}

type monitorInfo struct {
	CbSize    uint32
	RcMonitor windows.Rect
	RcWork    windows.Rect
	DwFlags   uint32
}

// VirtualScreen returns the origin and size of the rectangle spanning every
// attached display. The origin is negative when a display sits left of or
// above the primary one.
func VirtualScreen() (x, y, width, height int32) {
	return systemMetric(smXVirtualScreen),
		systemMetric(smYVirtualScreen),
		systemMetric(smCXVirtualScreen),
		systemMetric(smCYVirtualScreen)
}

// PrimaryMonitor returns the bounds of the monitor hosting the desktop window.
func PrimaryMonitor() (windows.Rect, error) {
	desktop, _, _ := procGetDesktopWindow.Call()
	hmon, _, _ := procMonitorFromWindow.Call(desktop, monitorDefaultToPrimary)
	if hmon == 0 {
		return windows.Rect{}, fmt.Errorf("MonitorFromWindow: no primary monitor")
	}
	info, err := getMonitorInfo(hmon)
	if err != nil {
		return windows.Rect{}, err
	}
	return info.RcMonitor, nil
}

var (
	enumMu       sync.Mutex
	enumResults  []Monitor
	enumCallback = windows.NewCallback(func(hmon, hdc, rect, data uintptr) uintptr {
		info, err := getMonitorInfo(hmon)
		if err != nil {
			return 1
		}
		enumResults = append(enumResults, Monitor{
			Bounds:  info.RcMonitor,
			Primary: info.DwFlags&monitorInfoFPrimary != 0,
		})
		return 1
	})
)

// EnumMonitors lists every display in the order EnumDisplayMonitors reports them.
func EnumMonitors() ([]Monitor, error) {
	enumMu.Lock()
	defer enumMu.Unlock()

	enumResults = nil
	ret, _, err := procEnumDisplayMonitors.Call(0, 0, enumCallback, 0)
	monitors := enumResults
	enumResults = nil
	if ret == 0 {
		return nil, fmt.Errorf("EnumDisplayMonitors: %w", lastError(err))
	}
	return monitors, nil
}

func getMonitorInfo(hmon uintptr) (monitorInfo, error) {
	var info monitorInfo
	info.CbSize = uint32(unsafe.Sizeof(info))
	ret, _, err := procGetMonitorInfoW.Call(hmon, uintptr(unsafe.Pointer(&info)))
	if ret == 0 {
		return monitorInfo{}, fmt.Errorf("GetMonitorInfo: %w", lastError(err))
	}
	return info, nil
}

func systemMetric(index uintptr) int32 {
	ret, _, _ := procGetSystemMetrics.Call(index)
	return int32(ret)
}
