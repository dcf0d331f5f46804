package wallpaper

import (
	"errors"
	"sync"
	"time"

	"github.com/1broseidon/backdrop/internal/platform"
)

type fakeWindow struct {
	class    string
	title    string
	parent   platform.WindowHandle
	children []platform.WindowHandle
	style    uint32
	exStyle  uint32
	rect     platform.Rect
	visible  bool
}

// fakeDesktop is an in-memory window tree with just enough behavior to drive
// the embedding engine.
type fakeDesktop struct {
	mu       sync.Mutex
	windows  map[platform.WindowHandle]*fakeWindow
	topLevel []platform.WindowHandle
	next     platform.WindowHandle

	virtual     platform.Rect
	primary     platform.Rect
	primaryErr  error
	monitors    []platform.Monitor
	monitorsErr error

	triggerErr error
	triggers   int
	// Hooks run with mu held.
	// onTrigger runs when Progman receives the WorkerW spawn message.
	onTrigger func(d *fakeDesktop)
	// onHostLookup runs before each walk of the top-level WorkerW windows,
	// with the 1-based walk number.
	onHostLookup func(d *fakeDesktop, n int)
	hostLookups  int

	failSetStyle  error
	failSetParent error
	failPlace     error
	failStyleRead error
	mutations     int
}

func newFakeDesktop() *fakeDesktop {
	return &fakeDesktop{
		windows: make(map[platform.WindowHandle]*fakeWindow),
		next:    0x10000,
		virtual: platform.Rect{Left: 0, Top: 0, Right: 1920, Bottom: 1080},
		primary: platform.Rect{Left: 0, Top: 0, Right: 1920, Bottom: 1080},
	}
}

// newShellDesktop returns a desktop with Progman that creates the WorkerW
// pair when it receives the spawn message. A stray WorkerW without icons sits
// in front of them.
func newShellDesktop() *fakeDesktop {
	d := newFakeDesktop()
	d.addWindow("Progman", 0)
	d.onTrigger = func(d *fakeDesktop) {
		if d.findClass(0, "SHELLDLL_DefView") != 0 {
			return
		}
		d.addWindow("WorkerW", 0)
		icons := d.addWindow("WorkerW", 0)
		d.addWindow("SHELLDLL_DefView", icons)
		d.addWindow("WorkerW", 0)
	}
	return d
}

func (d *fakeDesktop) addWindow(class string, parent platform.WindowHandle) platform.WindowHandle {
	d.next += 0x10
	hwnd := d.next
	d.windows[hwnd] = &fakeWindow{class: class, parent: parent}
	if parent == 0 {
		d.topLevel = append(d.topLevel, hwnd)
	} else {
		p := d.windows[parent]
		p.children = append(p.children, hwnd)
	}
	return hwnd
}

// addAppWindow adds a decorated top-level application window.
func (d *fakeDesktop) addAppWindow(style, exStyle uint32, rect platform.Rect) platform.WindowHandle {
	hwnd := d.addWindow("Chrome_WidgetWin_1", 0)
	w := d.windows[hwnd]
	w.style = style
	w.exStyle = exStyle
	w.rect = rect
	w.visible = true
	return hwnd
}

// host returns the WorkerW that follows the icon-hosting one, or 0.
func (d *fakeDesktop) host() platform.WindowHandle {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, hwnd := range d.topLevel {
		w := d.windows[hwnd]
		if w.class == "WorkerW" && d.findClass(hwnd, "SHELLDLL_DefView") != 0 {
			for _, next := range d.topLevel[i+1:] {
				if d.windows[next].class == "WorkerW" {
					return next
				}
			}
		}
	}
	return 0
}

func (d *fakeDesktop) window(hwnd platform.WindowHandle) fakeWindow {
	d.mu.Lock()
	defer d.mu.Unlock()
	w := *d.windows[hwnd]
	w.children = append([]platform.WindowHandle(nil), w.children...)
	return w
}

func (d *fakeDesktop) mutationCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mutations
}

func (d *fakeDesktop) findClass(parent platform.WindowHandle, class string) platform.WindowHandle {
	for _, hwnd := range d.siblings(parent) {
		if d.windows[hwnd].class == class {
			return hwnd
		}
	}
	return 0
}

func (d *fakeDesktop) siblings(parent platform.WindowHandle) []platform.WindowHandle {
	if parent == 0 {
		return d.topLevel
	}
	if p, ok := d.windows[parent]; ok {
		return p.children
	}
	return nil
}

func (d *fakeDesktop) detach(hwnd platform.WindowHandle) {
	w := d.windows[hwnd]
	list := d.siblings(w.parent)
	out := make([]platform.WindowHandle, 0, len(list))
	for _, h := range list {
		if h != hwnd {
			out = append(out, h)
		}
	}
	if w.parent == 0 {
		d.topLevel = out
	} else {
		d.windows[w.parent].children = out
	}
}

func (d *fakeDesktop) Supported() bool { return true }

func (d *fakeDesktop) FindWindow(class string) platform.WindowHandle {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.findClass(0, class)
}

func (d *fakeDesktop) FindWindowEx(parent, after platform.WindowHandle, class string) platform.WindowHandle {
	d.mu.Lock()
	defer d.mu.Unlock()
	if parent == 0 && after == 0 && class == "WorkerW" {
		d.hostLookups++
		if d.onHostLookup != nil {
			d.onHostLookup(d, d.hostLookups)
		}
	}

	list := d.siblings(parent)
	start := 0
	if after != 0 {
		start = -1
		for i, h := range list {
			if h == after {
				start = i + 1
				break
			}
		}
		if start < 0 {
			return 0
		}
	}
	for _, h := range list[start:] {
		if d.windows[h].class == class {
			return h
		}
	}
	return 0
}

func (d *fakeDesktop) FindWindowByTitle(title string) platform.WindowHandle {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, h := range d.topLevel {
		if d.windows[h].title == title {
			return h
		}
	}
	return 0
}

func (d *fakeDesktop) ForegroundWindow() platform.WindowHandle { return 0 }

func (d *fakeDesktop) SendMessageTimeout(hwnd platform.WindowHandle, msg uint32, wParam, lParam uintptr, timeout time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.triggers++
	isSpawn := msg == spawnWorkerWMsg && wParam == spawnWorkerWWParam && lParam == spawnWorkerWLParam
	if isSpawn && d.onTrigger != nil {
		d.onTrigger(d)
	}
	return d.triggerErr
}

func (d *fakeDesktop) IsWindow(hwnd platform.WindowHandle) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.windows[hwnd]
	return ok
}

func (d *fakeDesktop) ClassName(hwnd platform.WindowHandle) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if w, ok := d.windows[hwnd]; ok {
		return w.class
	}
	return ""
}

func (d *fakeDesktop) Parent(hwnd platform.WindowHandle) platform.WindowHandle {
	d.mu.Lock()
	defer d.mu.Unlock()
	if w, ok := d.windows[hwnd]; ok {
		return w.parent
	}
	return 0
}

func (d *fakeDesktop) SetParent(hwnd, parent platform.WindowHandle) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mutations++
	if d.failSetParent != nil {
		return d.failSetParent
	}
	w, ok := d.windows[hwnd]
	if !ok {
		return errors.New("no such window")
	}
	d.detach(hwnd)
	w.parent = parent
	if parent == 0 {
		d.topLevel = append(d.topLevel, hwnd)
	} else {
		p := d.windows[parent]
		p.children = append(p.children, hwnd)
	}
	return nil
}

func (d *fakeDesktop) Style(hwnd platform.WindowHandle, kind platform.StyleKind) (uint32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failStyleRead != nil {
		return 0, d.failStyleRead
	}
	w, ok := d.windows[hwnd]
	if !ok {
		return 0, errors.New("no such window")
	}
	if kind == platform.StyleExtended {
		return w.exStyle, nil
	}
	return w.style, nil
}

func (d *fakeDesktop) SetStyle(hwnd platform.WindowHandle, kind platform.StyleKind, style uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mutations++
	if d.failSetStyle != nil {
		return d.failSetStyle
	}
	w, ok := d.windows[hwnd]
	if !ok {
		return errors.New("no such window")
	}
	if kind == platform.StyleExtended {
		w.exStyle = style
	} else {
		w.style = style
	}
	return nil
}

func (d *fakeDesktop) WindowRect(hwnd platform.WindowHandle) (platform.Rect, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	w, ok := d.windows[hwnd]
	if !ok {
		return platform.Rect{}, errors.New("no such window")
	}
	return w.rect, nil
}

func (d *fakeDesktop) Place(hwnd platform.WindowHandle, bounds platform.Rect) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mutations++
	if d.failPlace != nil {
		return d.failPlace
	}
	w, ok := d.windows[hwnd]
	if !ok {
		return errors.New("no such window")
	}
	w.rect = bounds
	w.visible = true
	return nil
}

func (d *fakeDesktop) VirtualScreen() platform.Rect {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.virtual
}

func (d *fakeDesktop) PrimaryMonitor() (platform.Rect, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.primary, d.primaryErr
}

func (d *fakeDesktop) Monitors() ([]platform.Monitor, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]platform.Monitor(nil), d.monitors...), d.monitorsErr
}

var _ platform.Desktop = (*fakeDesktop)(nil)
