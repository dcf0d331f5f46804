package wallpaper

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/1broseidon/backdrop/internal/platform"
)

// Shell window classes.
const (
	progmanClass = "Progman"
	workerWClass = "WorkerW"
	defViewClass = "SHELLDLL_DefView"
)

// spawnWorkerW is the undocumented Progman message that makes the shell
// create the WorkerW window behind the desktop icons.
const (
	spawnWorkerWMsg    = 0x052C
	spawnWorkerWWParam = 0xD
	spawnWorkerWLParam = 0x1
)

// LocatorOptions bound the search for the background host.
type LocatorOptions struct {
	// TriggerTimeout bounds the spawn message sent to Progman.
	TriggerTimeout time.Duration
	// SettleDelay is waited once after the trigger, before the first lookup.
	SettleDelay time.Duration
	// PollInterval separates lookups.
	PollInterval time.Duration
	// MaxWait caps the time spent polling after the first lookup.
	MaxWait time.Duration
}

// DefaultLocatorOptions match the default configuration.
func DefaultLocatorOptions() LocatorOptions {
	return LocatorOptions{
		TriggerTimeout: time.Second,
		PollInterval:   25 * time.Millisecond,
		MaxWait:        time.Second,
	}
}

// Locator finds the WorkerW window that renders the desktop background.
type Locator struct {
	desktop platform.Desktop
	opts    LocatorOptions
	logger  *zap.Logger
}

func NewLocator(desktop platform.Desktop, opts LocatorOptions, logger *zap.Logger) *Locator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultLocatorOptions().PollInterval
	}
	return &Locator{desktop: desktop, opts: opts, logger: logger}
}

// Locate returns the background host window. Progman is asked to create it
// first; the request is best effort and its outcome is only logged. The
// lookup is then retried until it succeeds or MaxWait elapses.
func (l *Locator) Locate(ctx context.Context) (platform.WindowHandle, error) {
	progman := l.desktop.FindWindow(progmanClass)
	if progman == 0 {
		return 0, ErrProgmanNotFound
	}

	if err := l.desktop.SendMessageTimeout(progman, spawnWorkerWMsg, spawnWorkerWWParam, spawnWorkerWLParam, l.opts.TriggerTimeout); err != nil {
		l.logger.Debug("WorkerW spawn message not acknowledged",
			zap.Stringer("progman", progman),
			zap.Error(err),
		)
	}

	if l.opts.SettleDelay > 0 {
		if err := sleepCtx(ctx, l.opts.SettleDelay); err != nil {
			return 0, err
		}
	}

	deadline := time.Now().Add(l.opts.MaxWait)
	attempts := 0
	for {
		attempts++
		if host := findBackgroundHost(l.desktop); host != 0 {
			l.logger.Debug("located background host",
				zap.Stringer("host", host),
				zap.Int("attempts", attempts),
			)
			return host, nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return 0, ErrWorkerWNotFound
		}
		if err := sleepCtx(ctx, min(l.opts.PollInterval, remaining)); err != nil {
			return 0, err
		}
	}
}

// findBackgroundHost walks the top-level WorkerW windows in z-order. The one
// hosting SHELLDLL_DefView draws the icons; the WorkerW right after it is the
// background host.
func findBackgroundHost(desktop platform.Desktop) platform.WindowHandle {
	var hwnd platform.WindowHandle
	for {
		hwnd = desktop.FindWindowEx(0, hwnd, workerWClass)
		if hwnd == 0 {
			return 0
		}
		if desktop.FindWindowEx(hwnd, 0, defViewClass) != 0 {
			return desktop.FindWindowEx(0, hwnd, workerWClass)
		}
	}
}

// isShellWindow reports whether hwnd belongs to the shell's desktop tree.
func isShellWindow(desktop platform.Desktop, hwnd platform.WindowHandle) bool {
	switch desktop.ClassName(hwnd) {
	case progmanClass, workerWClass, defViewClass:
		return true
	}
	return false
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
