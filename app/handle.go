// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"image"

	"goa.design/clue/log"

	"github.com/loomui/loom/app/driver"
)

// Handle is a handle to a Runtime, safe for concurrent use.
type Handle struct {
	ctx *dispatchContext
}

// CreateWindow requests a window from the main thread. The icon is
// decoded before the request is sent; the window itself is created
// asynchronously, and requests made through the returned handles are
// applied after it exists. Creation failures are logged.
func (h *Handle) CreateWindow(pw PendingWindow) (*DetachedWindow, error) {
	return h.ctx.createWindow(pw)
}

// CreateRawWindow creates a window without webviews and waits until it
// exists. It returns ErrMainThread when called from the main thread.
func (h *Handle) CreateRawWindow(label string, opts ...Option) (*Window, error) {
	return h.ctx.createRawWindow(label, opts...)
}

// CreateWebview adds a child webview to a window.
func (h *Handle) CreateWebview(window WindowID, pv PendingWebview) (*Webview, error) {
	return h.ctx.createWebview(window, pv)
}

// RequestExit asks the event loop to exit with code. The run callback
// receives an ExitRequestedEvent and may prevent it.
func (h *Handle) RequestExit(code int) error {
	return h.ctx.post(requestExitMessage{code: code})
}

// SendEvent delivers payload to the run callback as a UserEvent.
func (h *Handle) SendEvent(payload any) error {
	if h.ctx.exited.Load() {
		return ErrLoopClosed
	}
	return h.ctx.post(userEventMessage{payload: payload})
}

// RunOnMainThread runs f on the main thread. Called from the main
// thread, f runs before RunOnMainThread returns.
func (h *Handle) RunOnMainThread(f func()) error {
	return h.ctx.send(taskMessage{f: f})
}

// OnMainThread reports whether the caller runs on the main thread.
func (h *Handle) OnMainThread() bool {
	return h.ctx.onMainThread()
}

// Plugin registers p to observe native events.
func (h *Handle) Plugin(p Plugin) {
	h.ctx.plugins.add(p)
}

// SetTheme applies a theme to every window.
func (h *Handle) SetTheme(t driver.Theme) error {
	return h.ctx.send(taskMessage{f: func() {
		m := h.ctx.mainContext()
		for _, id := range m.windows.ids() {
			w, ok := m.windows.live(id)
			if !ok {
				continue
			}
			cnf := w.native.Config()
			cnf.Theme = t
			if err := w.native.Configure(cnf); err != nil {
				log.Error(m.ctx.log, err, log.KV{K: "msg", V: "set theme failed"}, log.KV{K: "window", V: w.label})
			}
		}
	}})
}

func (h *Handle) PrimaryMonitor() (*driver.Monitor, error) {
	return primaryMonitor(h.ctx)
}

func (h *Handle) AvailableMonitors() ([]driver.Monitor, error) {
	return availableMonitors(h.ctx)
}

func (h *Handle) MonitorFromPoint(p image.Point) (*driver.Monitor, error) {
	return monitorFromPoint(h.ctx, p)
}

// CursorPosition returns the cursor position in screen pixels.
func (h *Handle) CursorPosition() (image.Point, error) {
	return platformQueryOf(h.ctx, "cursor_position", func(p driver.Platform) (image.Point, error) {
		return p.CursorPosition()
	})
}
