package wallpaper

import (
	"sort"

	"go.uber.org/zap"

	"github.com/1broseidon/backdrop/internal/config"
	"github.com/1broseidon/backdrop/internal/platform"
)

// MonitorInfo describes one entry of the monitor inventory.
type MonitorInfo struct {
	Index     int  `json:"index"`
	X         int  `json:"x"`
	Y         int  `json:"y"`
	Width     int  `json:"width"`
	Height    int  `json:"height"`
	IsPrimary bool `json:"is_primary"`
}

func monitorFromRect(index int, r platform.Rect, primary bool) MonitorInfo {
	return MonitorInfo{
		Index:     index,
		X:         r.Left,
		Y:         r.Top,
		Width:     r.Width(),
		Height:    r.Height(),
		IsPrimary: primary,
	}
}

// Geometry reads display bounds from the desktop.
type Geometry struct {
	desktop platform.Desktop
	mode    config.MonitorMode
	logger  *zap.Logger
}

func NewGeometry(desktop platform.Desktop, mode config.MonitorMode, logger *zap.Logger) *Geometry {
	if logger == nil {
		logger = zap.NewNop()
	}
	if mode == "" {
		mode = config.MonitorModeEnumerate
	}
	return &Geometry{desktop: desktop, mode: mode, logger: logger}
}

// VirtualScreenBounds returns the rectangle spanning every display. Its
// origin is negative when a display extends left of or above the primary.
func (g *Geometry) VirtualScreenBounds() platform.Rect {
	return g.desktop.VirtualScreen()
}

func (g *Geometry) PrimaryMonitorBounds() (platform.Rect, error) {
	return g.desktop.PrimaryMonitor()
}

// AllMonitors returns the monitor inventory, primary first. The result is
// empty, never nil, on platforms without display information.
func (g *Geometry) AllMonitors() []MonitorInfo {
	if !g.desktop.Supported() {
		return []MonitorInfo{}
	}
	if g.mode == config.MonitorModeEnumerate {
		if monitors := g.enumerated(); len(monitors) > 0 {
			return monitors
		}
	}
	return g.virtual()
}

// virtual reports the primary monitor alone, or the whole virtual screen as a
// single primary entry once the virtual screen is larger than the primary.
func (g *Geometry) virtual() []MonitorInfo {
	primary, err := g.desktop.PrimaryMonitor()
	if err != nil {
		g.logger.Warn("failed to read primary monitor", zap.Error(err))
		return []MonitorInfo{}
	}

	vs := g.desktop.VirtualScreen()
	if vs.Width() > primary.Width() || vs.Height() > primary.Height() || vs.Left < 0 || vs.Top < 0 {
		return []MonitorInfo{monitorFromRect(0, vs, true)}
	}
	return []MonitorInfo{monitorFromRect(0, primary, true)}
}

// enumerated reports every display: the primary at index 0, the rest ordered
// left to right, then top to bottom.
func (g *Geometry) enumerated() []MonitorInfo {
	raw, err := g.desktop.Monitors()
	if err != nil {
		g.logger.Warn("monitor enumeration failed, falling back to virtual screen", zap.Error(err))
		return nil
	}
	if len(raw) == 0 {
		return nil
	}

	primaryIdx := -1
	for i, m := range raw {
		if m.Primary {
			primaryIdx = i
			break
		}
	}
	if primaryIdx < 0 {
		// Some drivers report no primary flag; the display at the origin is primary.
		primaryIdx = 0
		for i, m := range raw {
			if m.Bounds.Left == 0 && m.Bounds.Top == 0 {
				primaryIdx = i
				break
			}
		}
	}

	primary := raw[primaryIdx]
	rest := make([]platform.Monitor, 0, len(raw)-1)
	for i, m := range raw {
		if i != primaryIdx {
			rest = append(rest, m)
		}
	}
	sort.SliceStable(rest, func(i, j int) bool {
		if rest[i].Bounds.Left != rest[j].Bounds.Left {
			return rest[i].Bounds.Left < rest[j].Bounds.Left
		}
		return rest[i].Bounds.Top < rest[j].Bounds.Top
	})

	out := make([]MonitorInfo, 0, len(raw))
	out = append(out, monitorFromRect(0, primary.Bounds, true))
	for _, m := range rest {
		out = append(out, monitorFromRect(len(out), m.Bounds, false))
	}
	return out
}
