// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"image"
	"slices"

	"github.com/loomui/loom/app/driver"
	"github.com/loomui/loom/f32"
	"github.com/loomui/loom/io/event"
)

// Window is a handle to a window owned by the main thread. Its methods
// are safe for concurrent use. Requests from one goroutine are applied
// in the order they were made.
type Window struct {
	id    WindowID
	label string
	ctx   *dispatchContext
}

func newWindow(c *dispatchContext, id WindowID, label string) *Window {
	return &Window{id: id, label: label, ctx: c}
}

func (w *Window) ID() WindowID {
	return w.id
}

func (w *Window) Label() string {
	return w.label
}

func (w *Window) send(op windowOp) error {
	return w.ctx.send(windowMessage{id: w.id, op: op})
}

func (w *Window) command(name string, apply func(m *mainThreadContext, ww *windowWrapper) error) error {
	return w.send(windowCommand{name: name, apply: apply})
}

// configValue queries a value derived from the window configuration.
func configValue[T any](w *Window, name string, get func(cnf Config) T) (T, error) {
	return windowQueryOf(w.ctx, w.id, name, func(ww *windowWrapper) (T, error) {
		return get(ww.native.Config()), nil
	})
}

// OnWindowEvent registers f to receive the window events. Listeners run
// on the main thread in registration order.
func (w *Window) OnWindowEvent(f func(e WindowEvent)) (event.ID, error) {
	id := w.ctx.newWindowEventID()
	return id, w.send(addWindowListener{id: id, fn: f})
}

// RemoveListener unregisters a listener added by OnWindowEvent.
func (w *Window) RemoveListener(id event.ID) error {
	return w.send(removeWindowListener{id: id})
}

// RunOnMainThread runs f on the main thread without waiting for it.
func (w *Window) RunOnMainThread(f func()) error {
	return w.ctx.send(taskMessage{f: f})
}

// Option applies the options to the window.
func (w *Window) Option(opts ...Option) error {
	return w.command("configure", func(_ *mainThreadContext, ww *windowWrapper) error {
		cnf := ww.native.Config()
		metric := ww.metric()
		for _, o := range opts {
			o(metric, &cnf)
		}
		return ww.native.Configure(cnf)
	})
}

// Perform the actions on the window.
func (w *Window) Perform(actions driver.Action) error {
	return w.command("perform", func(_ *mainThreadContext, ww *windowWrapper) error {
		return ww.native.Perform(actions)
	})
}

func (w *Window) SetTitle(title string) error {
	return w.Option(Title(title))
}

// SetSize sets the size of the client area in pixels.
func (w *Window) SetSize(size image.Point) error {
	return w.configure("set_size", func(cnf *Config) {
		cnf.Mode = Windowed
		cnf.Size = size
	})
}

// SetMinSize sets the minimum client area size in pixels. The zero
// size removes the constraint.
func (w *Window) SetMinSize(size image.Point) error {
	return w.configure("set_min_size", func(cnf *Config) { cnf.MinSize = size })
}

// SetMaxSize sets the maximum client area size in pixels. The zero
// size removes the constraint.
func (w *Window) SetMaxSize(size image.Point) error {
	return w.configure("set_max_size", func(cnf *Config) { cnf.MaxSize = size })
}

// SetPosition sets the outer position of the window in pixels.
func (w *Window) SetPosition(pos image.Point) error {
	return w.configure("set_position", func(cnf *Config) { cnf.Position = pos })
}

func (w *Window) Maximize() error {
	return w.Option(Mode(Maximized))
}

func (w *Window) Unmaximize() error {
	return w.leaveMode("unmaximize", Maximized)
}

func (w *Window) Minimize() error {
	return w.Option(Mode(Minimized))
}

func (w *Window) Unminimize() error {
	return w.leaveMode("unminimize", Minimized)
}

func (w *Window) SetFullscreen(fullscreen bool) error {
	if fullscreen {
		return w.Option(Mode(Fullscreen))
	}
	return w.leaveMode("exit_fullscreen", Fullscreen)
}

func (w *Window) Show() error {
	return w.Option(Visible(true))
}

func (w *Window) Hide() error {
	return w.Option(Visible(false))
}

// SetFocus raises and focuses the window.
func (w *Window) SetFocus() error {
	return w.Perform(driver.ActionRaise)
}

// Center moves the window to the center of its monitor.
func (w *Window) Center() error {
	return w.Perform(driver.ActionCenter)
}

func (w *Window) RequestUserAttention() error {
	return w.Perform(driver.ActionRequestAttention)
}

// StartDragging starts moving the window with the cursor.
func (w *Window) StartDragging() error {
	return w.Perform(driver.ActionMove)
}

// StartResizeDragging starts resizing the window with the cursor.
func (w *Window) StartResizeDragging() error {
	return w.Perform(driver.ActionResize)
}

// SetIcon decodes data and sets it as the window icon. Decoding happens
// on the calling goroutine; invalid data fails with ErrInvalidIcon
// before anything is sent to the main thread.
func (w *Window) SetIcon(data []byte) error {
	icon, err := DecodeIcon(data)
	if err != nil {
		return err
	}
	return w.Option(Icon(icon))
}

// SetCursorPosition moves the cursor to p, relative to the client area.
func (w *Window) SetCursorPosition(p image.Point) error {
	return w.command("set_cursor_position", func(_ *mainThreadContext, ww *windowWrapper) error {
		return ww.native.SetCursorPosition(p)
	})
}

func (w *Window) configure(name string, f func(cnf *Config)) error {
	return w.command(name, func(_ *mainThreadContext, ww *windowWrapper) error {
		cnf := ww.native.Config()
		f(&cnf)
		return ww.native.Configure(cnf)
	})
}

func (w *Window) leaveMode(name string, mode WindowMode) error {
	return w.configure(name, func(cnf *Config) {
		if cnf.Mode == mode {
			cnf.Mode = Windowed
		}
	})
}

// Close asks the window to close. Listeners and the run callback
// receive a CloseRequestedEvent first and may prevent it. Close is
// always handled by the event loop, even on the main thread.
func (w *Window) Close() error {
	return w.send(closeWindow{})
}

// Destroy closes the window without asking.
func (w *Window) Destroy() error {
	return w.send(destroyWindow{})
}

// CreateWebview adds a child webview to the window. The webview is
// created asynchronously; requests made through the returned handle are
// applied after it exists.
func (w *Window) CreateWebview(pv PendingWebview) (*Webview, error) {
	return w.ctx.createWebview(w.id, pv)
}

// Webviews returns handles for the webviews in the window.
func (w *Window) Webviews() ([]*Webview, error) {
	return windowQueryOf(w.ctx, w.id, "webviews", func(ww *windowWrapper) ([]*Webview, error) {
		var vs []*Webview
		for _, v := range ww.webviews {
			vs = append(vs, newWebview(w.ctx, v.id, v.label, v.window))
		}
		return vs, nil
	})
}

// HasChildWebviews reports whether the window holds webviews other
// than the one created to fill it.
func (w *Window) HasChildWebviews() (bool, error) {
	return windowQueryOf(w.ctx, w.id, "hasChildWebviews", func(ww *windowWrapper) (bool, error) {
		return ww.hasChildren(), nil
	})
}

// Config returns the current window configuration.
func (w *Window) Config() (Config, error) {
	return configValue(w, "config", func(cnf Config) Config { return cnf })
}

func (w *Window) Title() (string, error) {
	return configValue(w, "title", func(cnf Config) string { return cnf.Title })
}

func (w *Window) ScaleFactor() (float64, error) {
	return windowQueryOf(w.ctx, w.id, "scale_factor", func(ww *windowWrapper) (float64, error) {
		return ww.native.ScaleFactor(), nil
	})
}

// InnerSize returns the size of the client area in pixels.
func (w *Window) InnerSize() (image.Point, error) {
	return configValue(w, "inner_size", func(cnf Config) image.Point { return cnf.Size })
}

// LogicalSize returns the size of the client area in dps.
func (w *Window) LogicalSize() (f32.Point, error) {
	return windowQueryOf(w.ctx, w.id, "logical_size", func(ww *windowWrapper) (f32.Point, error) {
		return ww.metric().Logical(ww.native.Config().Size), nil
	})
}

func (w *Window) OuterSize() (image.Point, error) {
	return windowQueryOf(w.ctx, w.id, "outer_size", func(ww *windowWrapper) (image.Point, error) {
		return ww.native.OuterSize(), nil
	})
}

func (w *Window) InnerPosition() (image.Point, error) {
	return windowQueryOf(w.ctx, w.id, "inner_position", func(ww *windowWrapper) (image.Point, error) {
		return ww.native.InnerPosition()
	})
}

func (w *Window) OuterPosition() (image.Point, error) {
	return configValue(w, "outer_position", func(cnf Config) image.Point { return cnf.Position })
}

func (w *Window) IsFullscreen() (bool, error) {
	return configValue(w, "is_fullscreen", func(cnf Config) bool { return cnf.Mode == Fullscreen })
}

func (w *Window) IsMinimized() (bool, error) {
	return configValue(w, "is_minimized", func(cnf Config) bool { return cnf.Mode == Minimized })
}

func (w *Window) IsMaximized() (bool, error) {
	return configValue(w, "is_maximized", func(cnf Config) bool { return cnf.Mode == Maximized })
}

func (w *Window) IsFocused() (bool, error) {
	return configValue(w, "is_focused", func(cnf Config) bool { return cnf.Focused })
}

func (w *Window) IsDecorated() (bool, error) {
	return configValue(w, "is_decorated", func(cnf Config) bool { return cnf.Decorated })
}

func (w *Window) IsResizable() (bool, error) {
	return configValue(w, "is_resizable", func(cnf Config) bool { return cnf.Resizable })
}

func (w *Window) IsMaximizable() (bool, error) {
	return configValue(w, "is_maximizable", func(cnf Config) bool { return cnf.Maximizable })
}

func (w *Window) IsMinimizable() (bool, error) {
	return configValue(w, "is_minimizable", func(cnf Config) bool { return cnf.Minimizable })
}

func (w *Window) IsClosable() (bool, error) {
	return configValue(w, "is_closable", func(cnf Config) bool { return cnf.Closable })
}

func (w *Window) IsVisible() (bool, error) {
	return configValue(w, "is_visible", func(cnf Config) bool { return cnf.Visible })
}

func (w *Window) IsEnabled() (bool, error) {
	return configValue(w, "is_enabled", func(cnf Config) bool { return cnf.Enabled })
}

func (w *Window) IsAlwaysOnTop() (bool, error) {
	return configValue(w, "is_always_on_top", func(cnf Config) bool { return cnf.AlwaysOnTop })
}

// Theme returns the effective theme of the window.
func (w *Window) Theme() (driver.Theme, error) {
	return configValue(w, "theme", func(cnf Config) driver.Theme {
		if cnf.Theme == driver.ThemeAuto {
			return driver.ThemeLight
		}
		return cnf.Theme
	})
}

// CurrentMonitor returns the monitor containing the window, or nil.
func (w *Window) CurrentMonitor() (*driver.Monitor, error) {
	return windowQueryOf(w.ctx, w.id, "current_monitor", func(ww *windowWrapper) (*driver.Monitor, error) {
		if m, ok := ww.native.Monitor(); ok {
			return &m, nil
		}
		return nil, nil
	})
}

func (w *Window) PrimaryMonitor() (*driver.Monitor, error) {
	return primaryMonitor(w.ctx)
}

func (w *Window) AvailableMonitors() ([]driver.Monitor, error) {
	return availableMonitors(w.ctx)
}

// MonitorFromPoint returns the monitor containing the point p in
// pixels, or nil.
func (w *Window) MonitorFromPoint(p image.Point) (*driver.Monitor, error) {
	return monitorFromPoint(w.ctx, p)
}

func primaryMonitor(c *dispatchContext) (*driver.Monitor, error) {
	return platformQueryOf(c, "primary_monitor", func(p driver.Platform) (*driver.Monitor, error) {
		if m, ok := p.PrimaryMonitor(); ok {
			return &m, nil
		}
		return nil, nil
	})
}

func availableMonitors(c *dispatchContext) ([]driver.Monitor, error) {
	return platformQueryOf(c, "available_monitors", func(p driver.Platform) ([]driver.Monitor, error) {
		return slices.Clone(p.Monitors()), nil
	})
}

func monitorFromPoint(c *dispatchContext, pt image.Point) (*driver.Monitor, error) {
	return platformQueryOf(c, "monitor_from_point", func(p driver.Platform) (*driver.Monitor, error) {
		for _, m := range p.Monitors() {
			if pt.In(m.Bounds()) {
				return &m, nil
			}
		}
		return nil, nil
	})
}
