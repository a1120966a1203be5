// SPDX-License-Identifier: Unlicense OR MIT

// Package headless implements an in-memory windowing platform.
//
// Windows and webviews only record their state. Methods that simulate
// user and system activity, such as Window.Resize or
// Window.RequestClose, may be called from any goroutine; they deliver
// native events like a real toolkit would.
package headless

import (
	"errors"
	"image"
	"slices"
	"sort"
	"sync"

	"github.com/loomui/loom/app/driver"
	"github.com/loomui/loom/io/event"
)

var (
	errDestroyed = errors.New("headless: window destroyed")
	errClosed    = errors.New("headless: webview closed")
)

// Option configures a Platform.
type Option func(p *Platform)

// WithMonitors replaces the default monitor. The first monitor is the
// primary one.
func WithMonitors(ms ...driver.Monitor) Option {
	return func(p *Platform) {
		p.monitors = slices.Clone(ms)
	}
}

// WithCursor sets the initial cursor position.
func WithCursor(pos image.Point) Option {
	return func(p *Platform) {
		p.cursor = pos
	}
}

// Platform is an in-memory driver.Platform.
type Platform struct {
	mu       sync.Mutex
	sink     driver.Sink
	stopped  bool
	nextKey  driver.WindowKey
	windows  []*Window
	contexts []*WebContext
	monitors []driver.Monitor
	cursor   image.Point

	windowErr   error
	webviewErr  error
	reparentErr error
}

var _ driver.Platform = (*Platform)(nil)

// New returns a platform with a single 1920x1080 monitor of scale
// factor 1.
func New(opts ...Option) *Platform {
	p := &Platform{
		monitors: []driver.Monitor{{
			Name:        "headless",
			Size:        image.Pt(1920, 1080),
			ScaleFactor: 1,
		}},
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Platform) Start(s driver.Sink) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sink != nil {
		return errors.New("headless: platform already started")
	}
	p.sink = s
	return nil
}

func (p *Platform) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopped = true
}

// Stopped reports whether Stop was called.
func (p *Platform) Stopped() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopped
}

// post delivers e unless the platform is stopped. It must be called
// without p.mu held.
func (p *Platform) post(e event.Event) {
	p.mu.Lock()
	s, stopped := p.sink, p.stopped
	p.mu.Unlock()
	if s != nil && !stopped {
		s.Event(e)
	}
}

func (p *Platform) NewWindow(cnf driver.Config) (driver.Window, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.windowErr != nil {
		return nil, p.windowErr
	}
	p.nextKey++
	scale := 1.0
	if len(p.monitors) > 0 {
		scale = p.monitors[0].ScaleFactor
	}
	w := &Window{p: p, key: p.nextKey, cnf: cnf, scale: scale}
	p.windows = append(p.windows, w)
	return w, nil
}

func (p *Platform) NewWebContext(dir string) (driver.WebContext, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	c := &WebContext{p: p, dir: dir}
	p.contexts = append(p.contexts, c)
	return c, nil
}

func (p *Platform) NewWebview(parent driver.Window, ctx driver.WebContext, cnf driver.WebviewConfig) (driver.Webview, error) {
	w, ok := parent.(*Window)
	if !ok {
		return nil, errors.New("headless: foreign parent window")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.webviewErr != nil {
		return nil, p.webviewErr
	}
	if w.destroyed {
		return nil, errDestroyed
	}
	c, _ := ctx.(*WebContext)
	v := &Webview{
		p:        p,
		parent:   w,
		ctx:      c,
		cnf:      cnf,
		bounds:   cnf.Bounds,
		url:      cnf.URL,
		visible:  true,
		zoom:     1,
		devtools: false,
	}
	w.webviews = append(w.webviews, v)
	return v, nil
}

func (p *Platform) Monitors() []driver.Monitor {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.monitors)
}

func (p *Platform) PrimaryMonitor() (driver.Monitor, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.monitors) == 0 {
		return driver.Monitor{}, false
	}
	return p.monitors[0], true
}

func (p *Platform) CursorPosition() (image.Point, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor, nil
}

// FailWindows makes NewWindow fail with err until called with nil.
func (p *Platform) FailWindows(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.windowErr = err
}

// FailWebviews makes NewWebview fail with err until called with nil.
func (p *Platform) FailWebviews(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.webviewErr = err
}

// FailReparent makes Webview.Reparent fail with err until called with
// nil.
func (p *Platform) FailReparent(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reparentErr = err
}

// Windows returns the windows not yet destroyed, in creation order.
func (p *Platform) Windows() []*Window {
	p.mu.Lock()
	defer p.mu.Unlock()
	var ws []*Window
	for _, w := range p.windows {
		if !w.destroyed {
			ws = append(ws, w)
		}
	}
	return ws
}

// WebContexts returns the data directories of the contexts not yet
// released, sorted.
func (p *Platform) WebContexts() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var dirs []string
	for _, c := range p.contexts {
		if !c.released {
			dirs = append(dirs, c.dir)
		}
	}
	sort.Strings(dirs)
	return dirs
}

// Resume delivers a ResumedEvent.
func (p *Platform) Resume() {
	p.post(driver.ResumedEvent{})
}

// WebContext is an in-memory driver.WebContext.
type WebContext struct {
	p        *Platform
	dir      string
	released bool
}

func (c *WebContext) DataDir() string {
	return c.dir
}

func (c *WebContext) Release() {
	c.p.mu.Lock()
	defer c.p.mu.Unlock()
	c.released = true
}

// Released reports whether Release was called.
func (c *WebContext) Released() bool {
	c.p.mu.Lock()
	defer c.p.mu.Unlock()
	return c.released
}
