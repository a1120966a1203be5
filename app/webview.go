// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"image"
	"image/color"
	"sync"

	"go.opentelemetry.io/otel/attribute"

	"github.com/loomui/loom/app/driver"
	"github.com/loomui/loom/io/event"
)

// Webview is a handle to a webview owned by the main thread. Its
// methods are safe for concurrent use.
type Webview struct {
	id    WebviewID
	label string
	ctx   *dispatchContext
	// window is shared with the webview state on the main thread, which
	// updates it after a successful reparent.
	window *windowRef
	// reparentMu serializes Reparent calls.
	reparentMu sync.Mutex
}

func newWebview(c *dispatchContext, id WebviewID, label string, ref *windowRef) *Webview {
	return &Webview{id: id, label: label, ctx: c, window: ref}
}

func (v *Webview) ID() WebviewID {
	return v.id
}

func (v *Webview) Label() string {
	return v.label
}

// WindowID returns the id of the window currently holding the webview.
func (v *Webview) WindowID() WindowID {
	return v.window.load()
}

func (v *Webview) send(op webviewOp) error {
	return v.ctx.send(webviewMessage{window: v.window.load(), webview: v.id, op: op})
}

func (v *Webview) command(name string, apply func(m *mainThreadContext, w *windowWrapper, vw *webviewWrapper) error) error {
	return v.send(webviewCommand{name: name, apply: apply})
}

func (v *Webview) native(name string, f func(n driver.Webview) error) error {
	return v.command(name, func(_ *mainThreadContext, _ *windowWrapper, vw *webviewWrapper) error {
		return f(vw.native)
	})
}

// OnWebviewEvent registers f to receive the webview events.
func (v *Webview) OnWebviewEvent(f func(e WebviewEvent)) (event.ID, error) {
	id := v.ctx.newWebviewEventID()
	return id, v.send(addWebviewListener{id: id, fn: f})
}

// RemoveListener unregisters a listener added by OnWebviewEvent.
func (v *Webview) RemoveListener(id event.ID) error {
	return v.send(removeWebviewListener{id: id})
}

// WithWebview runs f with the native webview on the main thread.
func (v *Webview) WithWebview(f func(n driver.Webview)) error {
	return v.native("with_webview", func(n driver.Webview) error {
		f(n)
		return nil
	})
}

func (v *Webview) Navigate(url string) error {
	return v.native("navigate", func(n driver.Webview) error {
		return n.Navigate(url)
	})
}

// Eval evaluates script in the webview. Failures are logged.
func (v *Webview) Eval(script string) error {
	return v.command("eval_script", func(m *mainThreadContext, _ *windowWrapper, vw *webviewWrapper) error {
		_, span := m.ctx.tel.start(m.ctx.log, "loom.webview.eval", attribute.String("webview", vw.label))
		defer span.End()
		err := vw.native.EvaluateScript(script)
		if err != nil {
			span.RecordError(err)
		}
		return err
	})
}

func (v *Webview) Print() error {
	return v.native("print", func(n driver.Webview) error { return n.Print() })
}

func (v *Webview) Show() error {
	return v.native("show", func(n driver.Webview) error { return n.SetVisible(true) })
}

func (v *Webview) Hide() error {
	return v.native("hide", func(n driver.Webview) error { return n.SetVisible(false) })
}

func (v *Webview) SetFocus() error {
	return v.native("set_focus", func(n driver.Webview) error { return n.Focus() })
}

func (v *Webview) SetZoom(scale float64) error {
	return v.native("set_zoom", func(n driver.Webview) error { return n.SetZoom(scale) })
}

func (v *Webview) SetBackground(c color.NRGBA) error {
	return v.native("set_background_color", func(n driver.Webview) error { return n.SetBackground(c) })
}

func (v *Webview) ClearBrowsingData() error {
	return v.native("clear_all_browsing_data", func(n driver.Webview) error { return n.ClearBrowsingData() })
}

func (v *Webview) OpenDevtools() error {
	return v.native("open_devtools", func(n driver.Webview) error {
		n.OpenDevtools()
		return nil
	})
}

func (v *Webview) CloseDevtools() error {
	return v.native("close_devtools", func(n driver.Webview) error {
		n.CloseDevtools()
		return nil
	})
}

func (v *Webview) IsDevtoolsOpen() (bool, error) {
	return webviewQueryOf(v.ctx, v.window.load(), v.id, "is_devtools_open", func(_ *windowWrapper, vw *webviewWrapper) (bool, error) {
		return vw.native.IsDevtoolsOpen(), nil
	})
}

func (v *Webview) URL() (string, error) {
	return webviewQueryOf(v.ctx, v.window.load(), v.id, "url", func(_ *windowWrapper, vw *webviewWrapper) (string, error) {
		return vw.native.URL()
	})
}

// Bounds returns the webview area relative to its window, in pixels.
func (v *Webview) Bounds() (image.Rectangle, error) {
	return webviewQueryOf(v.ctx, v.window.load(), v.id, "bounds", func(_ *windowWrapper, vw *webviewWrapper) (image.Rectangle, error) {
		return vw.native.Bounds()
	})
}

func (v *Webview) Position() (image.Point, error) {
	r, err := v.Bounds()
	return r.Min, err
}

func (v *Webview) Size() (image.Point, error) {
	r, err := v.Bounds()
	return r.Size(), err
}

// SetBounds moves and resizes the webview. Webviews following the
// window size keep the new bounds as proportions of the window.
func (v *Webview) SetBounds(r image.Rectangle) error {
	return v.command("set_bounds", func(_ *mainThreadContext, w *windowWrapper, vw *webviewWrapper) error {
		return setBounds(w, vw, r)
	})
}

func (v *Webview) SetPosition(p image.Point) error {
	return v.command("set_position", func(_ *mainThreadContext, w *windowWrapper, vw *webviewWrapper) error {
		r, err := vw.native.Bounds()
		if err != nil {
			return err
		}
		return setBounds(w, vw, r.Add(p.Sub(r.Min)))
	})
}

func (v *Webview) SetSize(size image.Point) error {
	return v.command("set_size", func(_ *mainThreadContext, w *windowWrapper, vw *webviewWrapper) error {
		r, err := vw.native.Bounds()
		if err != nil {
			return err
		}
		r.Max = r.Min.Add(size)
		return setBounds(w, vw, r)
	})
}

// SetAutoResize controls whether the webview keeps its bounds
// proportional to the window size.
func (v *Webview) SetAutoResize(enabled bool) error {
	return v.command("set_auto_resize", func(_ *mainThreadContext, w *windowWrapper, vw *webviewWrapper) error {
		if !enabled {
			vw.rates = nil
			return nil
		}
		r, err := vw.native.Bounds()
		if err != nil {
			return err
		}
		vw.rates = newBoundsRate(r, w.native.Config().Size, w.metric())
		return nil
	})
}

func setBounds(w *windowWrapper, vw *webviewWrapper, r image.Rectangle) error {
	if vw.rates != nil {
		vw.rates = newBoundsRate(r, w.native.Config().Size, w.metric())
	}
	return vw.native.SetBounds(r)
}

// Reparent moves the webview into the target window and waits for the
// outcome. If the native move fails, the webview is closed.
func (v *Webview) Reparent(target WindowID) error {
	v.reparentMu.Lock()
	defer v.reparentMu.Unlock()
	_, err := query(v.ctx, "reparent", func(r reply[struct{}]) message {
		return webviewMessage{window: v.window.load(), webview: v.id, op: reparentWebview{target: target, reply: r}}
	})
	return err
}

// Close closes the webview and releases its browser state when no
// other webview shares it.
func (v *Webview) Close() error {
	return v.send(closeWebview{})
}
