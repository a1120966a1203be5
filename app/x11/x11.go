// SPDX-License-Identifier: Unlicense OR MIT

//go:build (linux && !android) || freebsd || openbsd

// Package x11 implements a windowing platform for X11 servers. It talks
// the X protocol directly and needs no C libraries.
//
// Webviews are not supported; NewWebview reports
// driver.ErrNotSupported.
package x11

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xprop"
	"goa.design/clue/log"

	"github.com/loomui/loom/app/driver"
	"github.com/loomui/loom/io/event"
)

// Option configures a Platform.
type Option func(p *Platform)

// WithLogContext sets the context carrying the logger for protocol
// errors.
func WithLogContext(ctx context.Context) Option {
	return func(p *Platform) {
		p.log = ctx
	}
}

// WithClass sets the WM_CLASS of new windows.
func WithClass(instance, class string) Option {
	return func(p *Platform) {
		p.class = [2]string{instance, class}
	}
}

// Platform is a driver.Platform backed by an X server connection.
type Platform struct {
	xu    *xgbutil.XUtil
	log   context.Context
	class [2]string
	atoms atoms
	scale float64
	done  chan struct{}

	mu      sync.Mutex
	sink    driver.Sink
	stopped bool
	nextKey driver.WindowKey
	windows map[xproto.Window]*window
}

type atoms struct {
	protocols    xproto.Atom
	deleteWindow xproto.Atom
}

var _ driver.Platform = (*Platform)(nil)

// New connects to the X server named by the DISPLAY environment
// variable.
func New(opts ...Option) (*Platform, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("x11: cannot connect to the X server: %w", err)
	}
	p := &Platform{
		xu:      xu,
		log:     log.Context(context.Background()),
		class:   [2]string{"loom", "Loom"},
		done:    make(chan struct{}),
		windows: make(map[xproto.Window]*window),
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

func (p *Platform) Start(s driver.Sink) error {
	p.mu.Lock()
	if p.sink != nil {
		p.mu.Unlock()
		return errors.New("x11: platform already started")
	}
	p.sink = s
	p.mu.Unlock()

	var err error
	if p.atoms.protocols, err = xprop.Atm(p.xu, "WM_PROTOCOLS"); err != nil {
		return err
	}
	if p.atoms.deleteWindow, err = xprop.Atm(p.xu, "WM_DELETE_WINDOW"); err != nil {
		return err
	}
	if err := randr.Init(p.xu.Conn()); err != nil {
		log.Warn(p.log, log.KV{K: "msg", V: "randr unavailable"}, log.KV{K: "err", V: err})
	}
	p.scale = p.detectScale()
	go p.readEvents()
	return nil
}

func (p *Platform) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	started := p.sink != nil
	p.mu.Unlock()
	p.xu.Conn().Close()
	if started {
		<-p.done
	}
}

// readEvents forwards X events to the sink until the connection closes.
func (p *Platform) readEvents() {
	defer close(p.done)
	for {
		ev, xerr := p.xu.Conn().WaitForEvent()
		if ev == nil && xerr == nil {
			return
		}
		if xerr != nil {
			log.Debug(p.log, log.KV{K: "msg", V: "x11 protocol error"}, log.KV{K: "err", V: xerr})
			continue
		}
		p.post(p.translate(ev)...)
	}
}

func (p *Platform) post(evs ...event.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped || p.sink == nil {
		return
	}
	for _, e := range evs {
		p.sink.Event(e)
	}
}

// detectScale reports the UI scale configured through the Xft.dpi
// resource, or 1.
func (p *Platform) detectScale() float64 {
	res, err := xprop.PropValStr(xprop.GetProperty(p.xu, p.xu.RootWin(), "RESOURCE_MANAGER"))
	if err != nil {
		return 1
	}
	return scaleFromResources(res)
}

func (p *Platform) NewWebContext(dir string) (driver.WebContext, error) {
	return webContext(dir), nil
}

func (p *Platform) NewWebview(parent driver.Window, ctx driver.WebContext, cnf driver.WebviewConfig) (driver.Webview, error) {
	return nil, driver.ErrNotSupported
}

// Monitors lists the active RandR outputs. Without RandR the root
// window is the only monitor.
func (p *Platform) Monitors() []driver.Monitor {
	conn := p.xu.Conn()
	root := p.xu.RootWin()
	res, err := randr.GetScreenResources(conn, root).Reply()
	if err != nil {
		return []driver.Monitor{p.rootMonitor()}
	}
	var ms []driver.Monitor
	for i, crtc := range res.Crtcs {
		info, err := randr.GetCrtcInfo(conn, crtc, res.ConfigTimestamp).Reply()
		if err != nil || info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}
		name := fmt.Sprintf("Monitor%d", i)
		if out, err := randr.GetOutputInfo(conn, info.Outputs[0], res.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}
		ms = append(ms, driver.Monitor{
			Name:        name,
			Position:    image.Pt(int(info.X), int(info.Y)),
			Size:        image.Pt(int(info.Width), int(info.Height)),
			ScaleFactor: p.scale,
		})
	}
	if len(ms) == 0 {
		return []driver.Monitor{p.rootMonitor()}
	}
	return ms
}

func (p *Platform) rootMonitor() driver.Monitor {
	s := p.xu.Screen()
	return driver.Monitor{
		Name:        "root",
		Size:        image.Pt(int(s.WidthInPixels), int(s.HeightInPixels)),
		ScaleFactor: p.scale,
	}
}

// PrimaryMonitor returns the RandR primary output, or the first one.
func (p *Platform) PrimaryMonitor() (driver.Monitor, bool) {
	ms := p.Monitors()
	if len(ms) == 0 {
		return driver.Monitor{}, false
	}
	if prim, err := randr.GetOutputPrimary(p.xu.Conn(), p.xu.RootWin()).Reply(); err == nil && prim.Output != 0 {
		if out, err := randr.GetOutputInfo(p.xu.Conn(), prim.Output, 0).Reply(); err == nil {
			for _, m := range ms {
				if m.Name == string(out.Name) {
					return m, true
				}
			}
		}
	}
	return ms[0], true
}

func (p *Platform) CursorPosition() (image.Point, error) {
	ptr, err := xproto.QueryPointer(p.xu.Conn(), p.xu.RootWin()).Reply()
	if err != nil {
		return image.Point{}, err
	}
	return image.Pt(int(ptr.RootX), int(ptr.RootY)), nil
}

// webContext is the data directory of webviews. X11 has no browser
// engine of its own, so it carries no state.
type webContext string

func (c webContext) DataDir() string { return string(c) }
func (c webContext) Release()        {}
