package wallpaper

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/1broseidon/backdrop/internal/config"
	"github.com/1broseidon/backdrop/internal/platform"
)

const (
	decoratedStyle   uint32 = 0x00CF0000
	decoratedExStyle uint32 = 0x00000300
)

func platformRect(l, t, r, b int) platform.Rect {
	return platform.Rect{Left: l, Top: t, Right: r, Bottom: b}
}

func newTestSession(d *fakeDesktop) *Session {
	return NewSession(d, Options{Locator: fastLocatorOptions()})
}

func TestEmbedUnembedRoundTrip(t *testing.T) {
	d := newShellDesktop()
	d.virtual = platformRect(-1280, 0, 1920, 1080)
	app := d.addAppWindow(decoratedStyle, decoratedExStyle, platformRect(100, 100, 900, 700))
	s := newTestSession(d)

	require.NoError(t, s.Embed(context.Background(), app))
	assert.True(t, s.IsEmbedded())

	host := d.host()
	w := d.window(app)
	assert.Equal(t, host, w.parent)
	assert.Equal(t, platformRect(-1280, 0, 1920, 1080), w.rect)
	assert.Zero(t, w.style&chromeStyleMask, "frame bits cleared")
	assert.Zero(t, w.exStyle&chromeExStyleMask, "edge bits cleared")
	assert.Equal(t, decoratedStyle&^chromeStyleMask, w.style, "other bits untouched")
	assert.Equal(t, uint32(0x00000100), w.exStyle, "other extended bits untouched")
	assert.True(t, w.visible)

	st := s.Status()
	assert.Equal(t, Status{Embedded: true, Window: app, Host: host}, st)

	require.NoError(t, s.Unembed(app))
	assert.False(t, s.IsEmbedded())

	w = d.window(app)
	assert.Equal(t, platform.WindowHandle(0), w.parent)
	assert.Equal(t, decoratedStyle, w.style)
	assert.Equal(t, decoratedExStyle, w.exStyle)
	assert.Equal(t, platformRect(100, 100, 900, 700), w.rect)
	assert.Equal(t, Status{}, s.Status())
}

func TestEmbedRestoresToOriginalParent(t *testing.T) {
	d := newShellDesktop()
	owner := d.addAppWindow(decoratedStyle, 0, platformRect(0, 0, 500, 500))
	child := d.addWindow("Static", owner)
	d.windows[child].style = decoratedStyle
	d.windows[child].rect = platformRect(10, 10, 50, 50)
	s := newTestSession(d)

	require.NoError(t, s.Embed(context.Background(), child))
	assert.Equal(t, d.host(), d.window(child).parent)

	require.NoError(t, s.Unembed(child))
	assert.Equal(t, owner, d.window(child).parent)
	assert.Equal(t, platformRect(10, 10, 50, 50), d.window(child).rect)
}

func TestEmbedTwiceFails(t *testing.T) {
	d := newShellDesktop()
	first := d.addAppWindow(decoratedStyle, 0, platformRect(0, 0, 100, 100))
	second := d.addAppWindow(decoratedStyle, 0, platformRect(0, 0, 200, 200))
	s := newTestSession(d)

	require.NoError(t, s.Embed(context.Background(), first))
	mutations := d.mutationCount()

	for _, hwnd := range []platform.WindowHandle{first, second} {
		err := s.Embed(context.Background(), hwnd)
		assert.ErrorIs(t, err, ErrAlreadyEmbedded)
		assert.ErrorIs(t, err, ErrState)
	}
	assert.Equal(t, mutations, d.mutationCount(), "rejected embed changes nothing")
	assert.Equal(t, first, s.Status().Window)
	assert.Equal(t, decoratedStyle, d.window(second).style)
}

func TestUnembedWhenInactive(t *testing.T) {
	d := newShellDesktop()
	app := d.addAppWindow(decoratedStyle, 0, platformRect(0, 0, 100, 100))
	s := newTestSession(d)

	err := s.Unembed(app)
	assert.ErrorIs(t, err, ErrNotEmbedded)
	assert.ErrorIs(t, err, ErrState)
	assert.Zero(t, d.mutationCount())

	require.NoError(t, s.Embed(context.Background(), app))
	require.NoError(t, s.Unembed(app))
	assert.ErrorIs(t, s.Unembed(app), ErrNotEmbedded)
}

func TestEmbedLocateFailureLeavesWindowUntouched(t *testing.T) {
	tests := []struct {
		name    string
		desktop func() *fakeDesktop
		wantErr error
	}{
		{
			name: "no progman",
			desktop: func() *fakeDesktop {
				return newFakeDesktop()
			},
			wantErr: ErrProgmanNotFound,
		},
		{
			name: "no background host",
			desktop: func() *fakeDesktop {
				d := newFakeDesktop()
				d.addWindow("Progman", 0)
				return d
			},
			wantErr: ErrWorkerWNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.desktop()
			app := d.addAppWindow(decoratedStyle, decoratedExStyle, platformRect(100, 100, 900, 700))
			s := newTestSession(d)

			err := s.Embed(context.Background(), app)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrShellTopology)
			assert.False(t, s.IsEmbedded())
			assert.Zero(t, d.mutationCount())

			w := d.window(app)
			assert.Equal(t, decoratedStyle, w.style)
			assert.Equal(t, decoratedExStyle, w.exStyle)
			assert.Equal(t, platformRect(100, 100, 900, 700), w.rect)
			assert.Zero(t, w.parent)
		})
	}
}

func TestEmbedSnapshotFailureLeavesWindowUntouched(t *testing.T) {
	d := newShellDesktop()
	app := d.addAppWindow(decoratedStyle, 0, platformRect(0, 0, 100, 100))
	d.failStyleRead = errors.New("access denied")
	s := newTestSession(d)

	err := s.Embed(context.Background(), app)
	assert.ErrorIs(t, err, ErrInvalidHandle)
	assert.False(t, s.IsEmbedded())
	assert.Zero(t, d.mutationCount())
}

func TestEmbedInvalidHandle(t *testing.T) {
	d := newShellDesktop()
	d.onTrigger(d)
	s := newTestSession(d)

	tests := []struct {
		name string
		hwnd platform.WindowHandle
	}{
		{"null", 0},
		{"destroyed", 0xDEAD},
		{"progman", d.FindWindow("Progman")},
		{"background host", d.host()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Embed(context.Background(), tt.hwnd)
			assert.ErrorIs(t, err, ErrInvalidHandle)
			assert.Equal(t, "invalid_handle", Code(err))
			assert.False(t, errors.Is(err, ErrState))
			assert.False(t, s.IsEmbedded())
		})
	}
	assert.Zero(t, d.mutationCount())
}

func TestUnembedWrongHandle(t *testing.T) {
	d := newShellDesktop()
	app := d.addAppWindow(decoratedStyle, 0, platformRect(0, 0, 100, 100))
	other := d.addAppWindow(decoratedStyle, 0, platformRect(0, 0, 100, 100))
	s := newTestSession(d)
	require.NoError(t, s.Embed(context.Background(), app))

	assert.ErrorIs(t, s.Unembed(0), ErrInvalidHandle)
	assert.ErrorIs(t, s.Unembed(other), ErrInvalidHandle)
	assert.True(t, s.IsEmbedded())
	assert.Equal(t, d.host(), d.window(app).parent)
}

func TestMutationFailuresAreBestEffort(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	d := newShellDesktop()
	app := d.addAppWindow(decoratedStyle, decoratedExStyle, platformRect(100, 100, 900, 700))
	s := NewSession(d, Options{Locator: fastLocatorOptions(), Logger: zap.New(core)})

	d.failSetStyle = errors.New("style refused")
	d.failSetParent = errors.New("parent refused")
	d.failPlace = errors.New("move refused")

	require.NoError(t, s.Embed(context.Background(), app))
	assert.True(t, s.IsEmbedded())
	assert.Equal(t, 4, logs.Len(), "two styles, parent and position each warn once")

	require.NoError(t, s.Unembed(app))
	assert.False(t, s.IsEmbedded())
	assert.Equal(t, 8, logs.Len())
}

func TestReleaseRestoresEmbeddedWindow(t *testing.T) {
	d := newShellDesktop()
	app := d.addAppWindow(decoratedStyle, 0, platformRect(100, 100, 900, 700))
	s := newTestSession(d)

	assert.False(t, s.Release())

	require.NoError(t, s.Embed(context.Background(), app))
	assert.True(t, s.Release())
	assert.False(t, s.IsEmbedded())
	assert.Equal(t, platformRect(100, 100, 900, 700), d.window(app).rect)
	assert.False(t, s.Release())
}

func TestReembedAfterUnembed(t *testing.T) {
	d := newShellDesktop()
	first := d.addAppWindow(decoratedStyle, 0, platformRect(0, 0, 100, 100))
	second := d.addAppWindow(decoratedStyle, 0, platformRect(0, 0, 200, 200))
	s := newTestSession(d)

	require.NoError(t, s.Embed(context.Background(), first))
	require.NoError(t, s.Unembed(first))
	require.NoError(t, s.Embed(context.Background(), second))
	assert.Equal(t, second, s.Status().Window)
	assert.Equal(t, 2, d.triggers)
}

func TestIsEmbeddedIsPure(t *testing.T) {
	d := newShellDesktop()
	app := d.addAppWindow(decoratedStyle, 0, platformRect(0, 0, 100, 100))
	s := newTestSession(d)
	require.NoError(t, s.Embed(context.Background(), app))

	mutations := d.mutationCount()
	for i := 0; i < 3; i++ {
		assert.True(t, s.IsEmbedded())
	}
	assert.Equal(t, mutations, d.mutationCount())
}

func TestConcurrentEmbedAdmitsOne(t *testing.T) {
	d := newShellDesktop()
	var windows []platform.WindowHandle
	for i := 0; i < 8; i++ {
		windows = append(windows, d.addAppWindow(decoratedStyle, 0, platformRect(0, 0, 100+i, 100)))
	}
	s := newTestSession(d)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for _, hwnd := range windows {
		wg.Add(1)
		go func(hwnd platform.WindowHandle) {
			defer wg.Done()
			err := s.Embed(context.Background(), hwnd)
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, ErrAlreadyEmbedded)
		}(hwnd)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.True(t, s.IsEmbedded())
}

func TestUnsupportedPlatform(t *testing.T) {
	s := NewSession(platform.Unsupported(), Options{})

	assert.ErrorIs(t, s.Embed(context.Background(), 0x1234), ErrPlatformUnsupported)
	assert.ErrorIs(t, s.Unembed(0x1234), ErrPlatformUnsupported)
	assert.False(t, s.IsEmbedded())
	assert.False(t, s.Release())
	assert.Equal(t, Status{}, s.Status())
	assert.Empty(t, s.Monitors())
	assert.NotNil(t, s.Monitors())
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Locator.SettleDelayMs = 5
	cfg.Monitors.Mode = config.MonitorModeVirtual

	opts := OptionsFromConfig(cfg, nil)
	assert.Equal(t, "1s", opts.Locator.TriggerTimeout.String())
	assert.Equal(t, "5ms", opts.Locator.SettleDelay.String())
	assert.Equal(t, "25ms", opts.Locator.PollInterval.String())
	assert.Equal(t, "1s", opts.Locator.MaxWait.String())
	assert.Equal(t, config.MonitorModeVirtual, opts.MonitorMode)
}

func TestErrorCodes(t *testing.T) {
	for _, e := range sentinels {
		assert.Same(t, e, FromCode(e.Code))
		wrapped := fmt.Errorf("embed: %w", e)
		assert.Equal(t, e.Code, Code(wrapped))
		assert.ErrorIs(t, wrapped, e)
	}
	assert.Nil(t, FromCode("bogus"))
	assert.Empty(t, Code(errors.New("plain")))

	assert.ErrorIs(t, ErrProgmanNotFound, ErrShellTopology)
	assert.ErrorIs(t, ErrWorkerWNotFound, ErrShellTopology)
	assert.NotErrorIs(t, ErrProgmanNotFound, ErrState)
	assert.ErrorIs(t, ErrAlreadyEmbedded, ErrState)
	assert.ErrorIs(t, ErrNotEmbedded, ErrState)
	assert.NotErrorIs(t, ErrInvalidHandle, ErrState)
	assert.NotErrorIs(t, ErrInvalidHandle, ErrShellTopology)
}

func TestEmbedWithCancelledContextLeavesWindowAlone(t *testing.T) {
	tests := []struct {
		name string
		// cancelAt is the host lookup that cancels; 0 cancels before Embed.
		cancelAt int
	}{
		{name: "cancelled before embed"},
		{name: "cancelled while host is found", cancelAt: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newShellDesktop()
			// The WorkerW pair already exists, so the first lookup succeeds.
			d.onTrigger(d)
			app := d.addAppWindow(decoratedStyle, decoratedExStyle, platformRect(100, 100, 900, 700))
			s := newTestSession(d)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			if tt.cancelAt == 0 {
				cancel()
			} else {
				d.onHostLookup = func(_ *fakeDesktop, n int) {
					if n == tt.cancelAt {
						cancel()
					}
				}
			}

			err := s.Embed(ctx, app)
			assert.ErrorIs(t, err, context.Canceled)
			assert.False(t, s.IsEmbedded())
			assert.Zero(t, d.mutationCount())

			w := d.window(app)
			assert.Equal(t, platform.WindowHandle(0), w.parent)
			assert.Equal(t, decoratedStyle, w.style)
			assert.Equal(t, platformRect(100, 100, 900, 700), w.rect)

			require.NoError(t, s.Embed(context.Background(), app), "a later embed still works")
		})
	}
}

func TestNewSessionGeometry(t *testing.T) {
	d := newFakeDesktop()
	d.virtual = platformRect(-1920, 0, 1920, 1080)
	s := NewSession(d, Options{MonitorMode: config.MonitorModeVirtual})
	assert.Equal(t, platformRect(-1920, 0, 1920, 1080), s.Geometry().VirtualScreenBounds())
}
