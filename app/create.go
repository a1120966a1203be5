// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"fmt"
	"image"
	"image/color"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"goa.design/clue/log"

	"github.com/loomui/loom/app/driver"
	"github.com/loomui/loom/io/event"
	"github.com/loomui/loom/unit"
)

// PendingWindow describes a window to be created.
type PendingWindow struct {
	// Label names the window. A random label is used if empty.
	Label   string
	Options []Option
	// Icon is an encoded icon, see DecodeIcon.
	Icon []byte
	// Center places the window in the middle of the primary monitor.
	Center bool
	// Webview, if set, is created to fill the window.
	Webview *PendingWebview
	// OnCreated is called on the main thread with the native window
	// right after it is created.
	OnCreated func(w driver.Window)
}

// PendingWebview describes a webview to be created.
type PendingWebview struct {
	// Label names the webview. A random label is used if empty.
	Label string
	URL   string
	// DataDir selects the browser state shared with other webviews. The
	// empty string selects the default state.
	DataDir string
	// Bounds of the webview within its window, in pixels. Webviews
	// filling their window, and child webviews with empty bounds,
	// follow the window size.
	Bounds image.Rectangle
	// AutoResize makes a child webview keep its bounds proportional to
	// the window size.
	AutoResize  bool
	Transparent bool
	Incognito   bool
	DevTools    bool
	Background  color.NRGBA
	UserAgent   string
	InitScripts []string
	// DragDrop enables drag and drop events.
	DragDrop     bool
	OnNavigation func(url string) bool
	OnPageLoad   func(p driver.PageLoad)
}

// DetachedWindow is the result of creating a window.
type DetachedWindow struct {
	ID     WindowID
	Label  string
	Window *Window
	// Webview is the webview filling the window, if any.
	Webview *Webview
}

type webviewKind uint8

const (
	// webviewContent fills its window; its events are window events.
	webviewContent webviewKind = iota
	webviewChild
)

func newLabel(l string) string {
	if l == "" {
		return uuid.NewString()
	}
	return l
}

// createWindow decodes the icon on the calling goroutine and requests
// the window from the main thread without waiting for it.
func (c *dispatchContext) createWindow(pw PendingWindow) (*DetachedWindow, error) {
	var icon image.Image
	if len(pw.Icon) > 0 {
		img, err := DecodeIcon(pw.Icon)
		if err != nil {
			return nil, err
		}
		icon = img
	}
	label := newLabel(pw.Label)
	id := c.newWindowID()
	dw := &DetachedWindow{ID: id, Label: label, Window: newWindow(c, id, label)}
	var pv PendingWebview
	var webviewID WebviewID
	ref := newWindowRef(id)
	if pw.Webview != nil {
		pv = *pw.Webview
		pv.Label = newLabel(pv.Label)
		webviewID = c.newWebviewID()
		dw.Webview = newWebview(c, webviewID, pv.Label, ref)
	}
	err := c.send(createWindowMessage{id: id, build: func(m *mainThreadContext) (*windowWrapper, error) {
		w, err := m.buildWindow(id, label, pw.Options, icon, pw.Center, pw.OnCreated)
		if err != nil {
			return nil, err
		}
		if dw.Webview != nil {
			v, err := m.buildWebview(w, webviewContent, webviewID, ref, pv)
			if err != nil {
				m.discardWindow(w)
				return nil, err
			}
			w.webviews = append(w.webviews, v)
		}
		return w, nil
	}})
	if err != nil {
		return nil, err
	}
	return dw, nil
}

// createRawWindow creates a window without webviews and waits for the
// outcome. It must not be called from the main thread.
func (c *dispatchContext) createRawWindow(label string, opts ...Option) (*Window, error) {
	if c.onMainThread() {
		return nil, ErrMainThread
	}
	label = newLabel(label)
	id := c.newWindowID()
	_, err := query(c, "create_window", func(r reply[struct{}]) message {
		return createRawWindowMessage{id: id, reply: r, build: func(m *mainThreadContext) (*windowWrapper, error) {
			return m.buildWindow(id, label, opts, nil, false, nil)
		}}
	})
	if err != nil {
		return nil, err
	}
	return newWindow(c, id, label), nil
}

// createWebview adds a child webview to a window without waiting for it.
func (c *dispatchContext) createWebview(window WindowID, pv PendingWebview) (*Webview, error) {
	pv.Label = newLabel(pv.Label)
	id := c.newWebviewID()
	ref := newWindowRef(window)
	err := c.send(createWebviewMessage{window: window, build: func(m *mainThreadContext, w *windowWrapper) (*webviewWrapper, error) {
		return m.buildWebview(w, webviewChild, id, ref, pv)
	}})
	if err != nil {
		return nil, err
	}
	return newWebview(c, id, pv.Label, ref), nil
}

func (m *mainThreadContext) buildWindow(id WindowID, label string, opts []Option, icon image.Image, center bool, created func(driver.Window)) (*windowWrapper, error) {
	ctx, span := m.ctx.tel.start(m.ctx.log, "loom.window.create", attribute.String("label", label))
	defer span.End()
	metric := m.primaryMetric()
	cnf := defaultConfig()
	for _, o := range opts {
		o(metric, &cnf)
	}
	if icon != nil {
		cnf.Icon = icon
	}
	if center {
		m.center(&cnf)
	}
	native, err := m.platform.NewWindow(cnf)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%w: %v", ErrCreateWindow, err)
	}
	m.ctx.windowIDs.insert(native.Key(), id)
	log.Debug(ctx, log.KV{K: "msg", V: "window created"}, log.KV{K: "window", V: label})
	if created != nil {
		created(native)
	}
	return newWindowWrapper(label, native), nil
}

func (m *mainThreadContext) buildWebview(w *windowWrapper, kind webviewKind, id WebviewID, ref *windowRef, pv PendingWebview) (*webviewWrapper, error) {
	ctx, span := m.ctx.tel.start(m.ctx.log, "loom.webview.create",
		attribute.String("label", pv.Label),
		attribute.String("url", pv.URL))
	defer span.End()
	fail := func(err error) (*webviewWrapper, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%w: %v", ErrCreateWebview, err)
	}
	wc, err := m.webContexts.acquire(m.platform, pv.DataDir, id)
	if err != nil {
		return fail(err)
	}
	pc := w.native.Config()
	bounds := pv.Bounds
	var rates *boundsRate
	switch {
	case kind == webviewContent, bounds.Empty():
		bounds = image.Rectangle{Max: pc.Size}
		r := fullRate
		rates = &r
	case pv.AutoResize:
		rates = newBoundsRate(bounds, pc.Size, w.metric())
	}
	cnf := driver.WebviewConfig{
		Label:        pv.Label,
		URL:          pv.URL,
		Bounds:       bounds,
		Transparent:  pv.Transparent,
		Incognito:    pv.Incognito,
		Focused:      pc.Focused,
		DevTools:     pv.DevTools,
		Background:   pv.Background,
		UserAgent:    pv.UserAgent,
		InitScripts:  pv.InitScripts,
		OnNavigation: pv.OnNavigation,
		OnPageLoad:   pv.OnPageLoad,
	}
	if pv.DragDrop {
		cnf.OnDragDrop = m.dragDropHandler(kind, id, ref)
	}
	native, err := m.platform.NewWebview(w.native, wc, cnf)
	if err != nil {
		m.webContexts.release(pv.DataDir, id)
		return fail(err)
	}
	log.Debug(ctx, log.KV{K: "msg", V: "webview created"}, log.KV{K: "webview", V: pv.Label})
	return &webviewWrapper{
		id:        id,
		kind:      kind,
		label:     pv.Label,
		native:    native,
		window:    ref,
		listeners: make(map[event.ID]func(WebviewEvent)),
		rates:     rates,
		dataDir:   pv.DataDir,
	}, nil
}

// dragDropHandler posts drag and drop activity back to the event loop.
// It may run on any goroutine.
func (m *mainThreadContext) dragDropHandler(kind webviewKind, id WebviewID, ref *windowRef) func(driver.DragDrop) {
	c := m.ctx
	return func(d driver.DragDrop) {
		var op webviewOp = webviewEvent{ev: DragDropEvent{d}}
		if kind == webviewContent {
			op = synthesizedWindowEvent{ev: DragDropEvent{d}}
		}
		if err := c.post(webviewMessage{window: ref.load(), webview: id, op: op}); err != nil {
			log.Debug(c.log, log.KV{K: "msg", V: "drag and drop event dropped"}, log.KV{K: "err", V: err})
		}
	}
}

func (m *mainThreadContext) primaryMetric() unit.Metric {
	if mon, ok := m.platform.PrimaryMonitor(); ok {
		return unit.ScaleFactor(mon.ScaleFactor)
	}
	return unit.ScaleFactor(1)
}

// center positions cnf in the middle of the primary monitor.
func (m *mainThreadContext) center(cnf *Config) {
	mon, ok := m.platform.PrimaryMonitor()
	if !ok {
		return
	}
	cnf.Position = mon.Position.Add(mon.Size.Sub(cnf.Size).Div(2))
}
