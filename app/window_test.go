// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomui/loom/app/driver"
	"github.com/loomui/loom/io/event"
)

// stepLog records handler invocations from the main thread.
type stepLog struct {
	mu    sync.Mutex
	steps []string
}

func (t *stepLog) add(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.steps = append(t.steps, fmt.Sprintf(format, args...))
}

func (t *stepLog) reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.steps = nil
}

func (t *stepLog) get() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.steps...)
}

func TestCloseOneOfTwoWindows(t *testing.T) {
	h := newHarness(t, nil)
	a := h.createWindow("a")
	h.createWindow("b")

	require.NoError(t, a.Window.Close())
	h.wait(func() bool { return h.windowCount() == 1 }, "window a removed")
	assert.Len(t, windowEventsOf[CloseRequestedEvent](h, "a"), 1)
	assert.Len(t, windowEventsOf[DestroyedEvent](h, "a"), 1)
	assert.Zero(t, countEvents[ExitRequestedEvent](h, nil))
	assert.Equal(t, 1, h.liveWindows())
}

func TestCloseLastWindowExits(t *testing.T) {
	h := newHarness(t, nil)
	dw := h.createWindow("main")
	require.NoError(t, dw.Window.Close())
	assert.Equal(t, 0, h.waitExit())
	assert.Equal(t, 1, countEvents(h, func(e ExitRequestedEvent) bool { return !e.HasCode }))
	assert.Equal(t, 1, countEvents[ExitEvent](h, nil))
}

func TestListenerPreventsClose(t *testing.T) {
	h := newHarness(t, nil)
	dw := h.createWindow("main")
	_, err := dw.Window.OnWindowEvent(func(e WindowEvent) {
		if e, ok := e.(CloseRequestedEvent); ok {
			e.Prevent()
		}
	})
	require.NoError(t, err)

	require.NoError(t, dw.Window.Close())
	h.sync()
	assert.Equal(t, 1, h.windowCount())
	assert.Equal(t, 1, h.liveWindows())
	assert.Len(t, windowEventsOf[CloseRequestedEvent](h, "main"), 1)
	assert.Empty(t, windowEventsOf[DestroyedEvent](h, "main"))

	title, err := dw.Window.Title()
	require.NoError(t, err)
	assert.Empty(t, title)
}

func TestCallbackPreventsClose(t *testing.T) {
	h := newHarness(t, func(e RunEvent) {
		if e, ok := e.(WindowRunEvent); ok {
			if e, ok := e.Event.(CloseRequestedEvent); ok {
				e.Prevent()
			}
		}
	})
	h.createWindow("main")
	h.p.Windows()[0].RequestClose()
	h.sync()
	assert.Equal(t, 1, h.liveWindows())
	assert.Len(t, windowEventsOf[CloseRequestedEvent](h, "main"), 1)
}

func TestWindowEventOrder(t *testing.T) {
	var tr stepLog
	h := newHarness(t, func(e RunEvent) {
		if e, ok := e.(WindowRunEvent); ok {
			tr.add("callback %T", e.Event)
		}
	})
	dw := h.createWindow("main")
	for i := range 2 {
		_, err := dw.Window.OnWindowEvent(func(e WindowEvent) {
			switch e.(type) {
			case CloseRequestedEvent, ResizedEvent:
				tr.add("listener%d %T", i, e)
			}
		})
		require.NoError(t, err)
	}

	h.p.Windows()[0].Resize(image.Pt(640, 480))
	h.sync()
	assert.Equal(t, []string{
		"callback app.ResizedEvent",
		"listener0 app.ResizedEvent",
		"listener1 app.ResizedEvent",
	}, tr.get())

	tr.reset()
	require.NoError(t, dw.Window.Close())
	h.waitExit()
	assert.Equal(t, []string{
		"listener0 app.CloseRequestedEvent",
		"listener1 app.CloseRequestedEvent",
		"callback app.CloseRequestedEvent",
		"callback app.DestroyedEvent",
	}, tr.get())
}

func TestNativeCloseRequest(t *testing.T) {
	h := newHarness(t, nil)
	h.createWindow("main")
	h.p.Windows()[0].RequestClose()
	h.waitExit()
	assert.Len(t, windowEventsOf[CloseRequestedEvent](h, "main"), 1)
	assert.Len(t, windowEventsOf[DestroyedEvent](h, "main"), 1)
}

func TestDestroySkipsCloseRequest(t *testing.T) {
	h := newHarness(t, func(e RunEvent) {
		if e, ok := e.(ExitRequestedEvent); ok && !e.HasCode {
			e.Prevent()
		}
	})
	dw := h.createWindow("main")
	_, err := dw.Window.OnWindowEvent(func(e WindowEvent) {
		if e, ok := e.(CloseRequestedEvent); ok {
			e.Prevent()
		}
	})
	require.NoError(t, err)

	require.NoError(t, dw.Window.Destroy())
	h.wait(func() bool { return h.windowCount() == 0 }, "window destroyed")
	assert.Empty(t, windowEventsOf[CloseRequestedEvent](h, "main"))
	assert.Len(t, windowEventsOf[DestroyedEvent](h, "main"), 1)
	assert.Equal(t, 0, h.rt.ctx.windowIDs.len())
}

func TestWindowSettersAndGetters(t *testing.T) {
	h := newHarness(t, nil)
	dw := h.createWindow("main", Title("hello"), Size(400, 300))
	w := dw.Window

	title, err := w.Title()
	require.NoError(t, err)
	assert.Equal(t, "hello", title)
	size, err := w.InnerSize()
	require.NoError(t, err)
	assert.Equal(t, image.Pt(400, 300), size)

	require.NoError(t, w.SetSize(image.Pt(500, 250)))
	require.NoError(t, w.SetPosition(image.Pt(10, 20)))
	require.NoError(t, w.SetMinSize(image.Pt(100, 100)))
	require.NoError(t, w.Maximize())
	cnf, err := w.Config()
	require.NoError(t, err)
	assert.Equal(t, image.Pt(500, 250), cnf.Size)
	assert.Equal(t, image.Pt(10, 20), cnf.Position)
	assert.Equal(t, image.Pt(100, 100), cnf.MinSize)
	maximized, err := w.IsMaximized()
	require.NoError(t, err)
	assert.True(t, maximized)

	require.NoError(t, w.Unmaximize())
	maximized, err = w.IsMaximized()
	require.NoError(t, err)
	assert.False(t, maximized)

	require.NoError(t, w.SetFullscreen(true))
	fullscreen, err := w.IsFullscreen()
	require.NoError(t, err)
	assert.True(t, fullscreen)
	require.NoError(t, w.SetFullscreen(false))
	fullscreen, err = w.IsFullscreen()
	require.NoError(t, err)
	assert.False(t, fullscreen)

	require.NoError(t, w.Hide())
	visible, err := w.IsVisible()
	require.NoError(t, err)
	assert.False(t, visible)
	require.NoError(t, w.Show())
	visible, err = w.IsVisible()
	require.NoError(t, err)
	assert.True(t, visible)

	require.NoError(t, w.Option(Resizable(false), Closable(false)))
	resizable, err := w.IsResizable()
	require.NoError(t, err)
	assert.False(t, resizable)
	closable, err := w.IsClosable()
	require.NoError(t, err)
	assert.False(t, closable)

	theme, err := w.Theme()
	require.NoError(t, err)
	assert.Equal(t, driver.ThemeLight, theme)
	require.NoError(t, w.Option(ColorTheme(driver.ThemeDark)))
	theme, err = w.Theme()
	require.NoError(t, err)
	assert.Equal(t, driver.ThemeDark, theme)

	outer, err := w.OuterPosition()
	require.NoError(t, err)
	assert.Equal(t, image.Pt(10, 20), outer)
	scale, err := w.ScaleFactor()
	require.NoError(t, err)
	assert.Equal(t, 1.0, scale)
	logical, err := w.LogicalSize()
	require.NoError(t, err)
	assert.Equal(t, float32(500), logical.X)

	mon, err := w.CurrentMonitor()
	require.NoError(t, err)
	require.NotNil(t, mon)
	assert.Equal(t, "headless", mon.Name)
}

func TestWindowActions(t *testing.T) {
	h := newHarness(t, nil)
	dw := h.createWindow("main")
	w := dw.Window
	require.NoError(t, w.SetFocus())
	require.NoError(t, w.RequestUserAttention())
	require.NoError(t, w.StartDragging())
	require.NoError(t, w.SetCursorPosition(image.Pt(3, 4)))
	h.sync()
	nw := h.p.Windows()[0]
	assert.Equal(t, []driver.Action{
		driver.ActionRaise,
		driver.ActionRequestAttention,
		driver.ActionMove,
	}, nw.Actions())
	assert.Equal(t, image.Pt(3, 4), nw.CursorPosition())
}

func TestCenterOption(t *testing.T) {
	h := newHarness(t, nil)
	dw, err := h.h.CreateWindow(PendingWindow{Label: "main", Center: true, Options: []Option{Size(400, 200)}})
	require.NoError(t, err)
	pos, err := dw.Window.OuterPosition()
	require.NoError(t, err)
	assert.Equal(t, image.Pt(760, 440), pos)

	require.NoError(t, dw.Window.SetPosition(image.Pt(0, 0)))
	require.NoError(t, dw.Window.Center())
	pos, err = dw.Window.OuterPosition()
	require.NoError(t, err)
	assert.Equal(t, image.Pt(760, 440), pos)
}

func TestInvalidIconCreatesNothing(t *testing.T) {
	h := newHarness(t, nil)
	_, err := h.h.CreateWindow(PendingWindow{Label: "main", Icon: []byte("not an image")})
	assert.ErrorIs(t, err, ErrInvalidIcon)
	h.sync()
	assert.Equal(t, 0, h.windowCount())
	assert.Equal(t, 0, h.liveWindows())
	assert.Equal(t, 0, h.rt.ctx.windowIDs.len())
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestWindowIcon(t *testing.T) {
	h := newHarness(t, nil)
	dw, err := h.h.CreateWindow(PendingWindow{Label: "main", Icon: encodePNG(t, 16, 16)})
	require.NoError(t, err)
	cnf, err := dw.Window.Config()
	require.NoError(t, err)
	require.NotNil(t, cnf.Icon)
	assert.Equal(t, image.Rect(0, 0, 16, 16), cnf.Icon.Bounds())
	assert.Equal(t, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, cnf.Icon.At(3, 3))

	assert.ErrorIs(t, dw.Window.SetIcon([]byte{1, 2, 3}), ErrInvalidIcon)
	require.NoError(t, dw.Window.SetIcon(encodePNG(t, 32, 8)))
	cnf, err = dw.Window.Config()
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 32, 8), cnf.Icon.Bounds())
}

func TestCreateWindowFailure(t *testing.T) {
	h := newHarness(t, nil)
	h.p.FailWindows(assert.AnError)
	dw, err := h.h.CreateWindow(PendingWindow{Label: "main"})
	require.NoError(t, err)
	_, err = dw.Window.Title()
	assert.ErrorIs(t, err, ErrWindowNotFound)
	assert.Equal(t, 0, h.windowCount())
	assert.Zero(t, countEvents[ExitRequestedEvent](h, nil))

	h.p.FailWindows(nil)
	h.createWindow("second")
	assert.Equal(t, 1, h.windowCount())
}

func TestRemoveWindowListener(t *testing.T) {
	h := newHarness(t, nil)
	dw := h.createWindow("main")
	var mu sync.Mutex
	moves := 0
	id, err := dw.Window.OnWindowEvent(func(e WindowEvent) {
		if _, ok := e.(MovedEvent); ok {
			mu.Lock()
			moves++
			mu.Unlock()
		}
	})
	require.NoError(t, err)
	nw := h.p.Windows()[0]
	nw.Move(image.Pt(5, 5))
	h.sync()
	require.NoError(t, dw.Window.RemoveListener(id))
	nw.Move(image.Pt(6, 6))
	h.sync()
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, moves)
	assert.Len(t, windowEventsOf[MovedEvent](h, "main"), 2)
}

func TestListenerIDsAreUnique(t *testing.T) {
	h := newHarness(t, nil)
	a := h.createWindow("a")
	b := h.createWindow("b")
	ids := make(map[event.ID]bool)
	for _, w := range []*Window{a.Window, b.Window, a.Window} {
		id, err := w.OnWindowEvent(func(WindowEvent) {})
		require.NoError(t, err)
		assert.False(t, ids[id])
		ids[id] = true
	}
}

func TestNativeWindowEvents(t *testing.T) {
	h := newHarness(t, nil)
	dw := h.createWindow("main", Focused(false))
	nw := h.p.Windows()[0]

	require.NoError(t, dw.Window.SetPosition(image.Pt(30, 40)))
	require.NoError(t, dw.Window.SetFocus())
	nw.SetSystemTheme(driver.ThemeDark)
	nw.SetScaleFactor(2)
	h.sync()

	moved := windowEventsOf[MovedEvent](h, "main")
	require.Len(t, moved, 1)
	assert.Equal(t, image.Pt(30, 40), moved[0].Position)
	focused := windowEventsOf[FocusedEvent](h, "main")
	require.Len(t, focused, 1)
	assert.True(t, focused[0].Focused)
	themes := windowEventsOf[ThemeChangedEvent](h, "main")
	require.Len(t, themes, 1)
	assert.Equal(t, driver.ThemeDark, themes[0].Theme)
	scales := windowEventsOf[ScaleFactorChangedEvent](h, "main")
	require.Len(t, scales, 1)
	assert.Equal(t, 2.0, scales[0].ScaleFactor)
	assert.Equal(t, image.Pt(1600, 1200), scales[0].Size)

	scale, err := dw.Window.ScaleFactor()
	require.NoError(t, err)
	assert.Equal(t, 2.0, scale)
	logical, err := dw.Window.LogicalSize()
	require.NoError(t, err)
	assert.Equal(t, float32(800), logical.X)
}

func TestSetTheme(t *testing.T) {
	h := newHarness(t, nil)
	a := h.createWindow("a")
	b := h.createWindow("b")
	require.NoError(t, h.h.SetTheme(driver.ThemeDark))
	for _, w := range []*Window{a.Window, b.Window} {
		theme, err := w.Theme()
		require.NoError(t, err)
		assert.Equal(t, driver.ThemeDark, theme)
	}
	h.sync()
	assert.Len(t, windowEventsOf[ThemeChangedEvent](h, "a"), 1)
}

func TestMonitorQueries(t *testing.T) {
	h := newHarness(t, nil)
	mon, err := h.h.PrimaryMonitor()
	require.NoError(t, err)
	require.NotNil(t, mon)
	assert.Equal(t, image.Pt(1920, 1080), mon.Size)

	mons, err := h.h.AvailableMonitors()
	require.NoError(t, err)
	assert.Len(t, mons, 1)

	mon, err = h.h.MonitorFromPoint(image.Pt(100, 100))
	require.NoError(t, err)
	assert.NotNil(t, mon)
	mon, err = h.h.MonitorFromPoint(image.Pt(-100, 100))
	require.NoError(t, err)
	assert.Nil(t, mon)

	_, err = h.h.CursorPosition()
	assert.NoError(t, err)
}
