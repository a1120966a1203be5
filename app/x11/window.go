// SPDX-License-Identifier: Unlicense OR MIT

//go:build (linux && !android) || freebsd || openbsd

package x11

import (
	"errors"
	"image"
	"image/draw"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/motif"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/loomui/loom/app/driver"
)

const eventMask = xproto.EventMaskStructureNotify |
	xproto.EventMaskFocusChange |
	xproto.EventMaskPropertyChange

type window struct {
	p   *Platform
	key driver.WindowKey
	win *xwindow.Window
	// cnf and framed are guarded by p.mu, since the event reader
	// updates them.
	cnf driver.Config
	// framed is set once a window manager reparented the window into a
	// frame.
	framed bool
}

var _ driver.Window = (*window)(nil)

func (p *Platform) NewWindow(cnf driver.Config) (driver.Window, error) {
	win, err := xwindow.Generate(p.xu)
	if err != nil {
		return nil, err
	}
	size := nonEmpty(cnf.Size)
	bg := p.xu.Screen().WhitePixel
	if cnf.Theme == driver.ThemeDark {
		bg = p.xu.Screen().BlackPixel
	}
	err = win.CreateChecked(p.xu.RootWin(),
		cnf.Position.X, cnf.Position.Y, size.X, size.Y,
		xproto.CwBackPixel|xproto.CwEventMask, bg, eventMask)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.nextKey++
	w := &window{p: p, key: p.nextKey, win: win}
	p.windows[win.Id] = w
	p.mu.Unlock()

	if err := icccm.WmProtocolsSet(p.xu, win.Id, []string{"WM_DELETE_WINDOW"}); err != nil {
		w.destroyNow()
		return nil, err
	}
	icccm.WmClassSet(p.xu, win.Id, &icccm.WmClass{Instance: p.class[0], Class: p.class[1]})
	// _NET_WM_STATE is set directly while the window is unmapped.
	ewmh.WmStateSet(p.xu, win.Id, netStates(cnf))
	initial := driver.Config{Size: cnf.Size, Position: cnf.Position, Mode: cnf.Mode}
	if err := w.apply(initial, cnf, true); err != nil {
		w.destroyNow()
		return nil, err
	}
	p.mu.Lock()
	w.cnf = cnf
	p.mu.Unlock()
	return w, nil
}

func nonEmpty(size image.Point) image.Point {
	return image.Pt(max(size.X, 1), max(size.Y, 1))
}

func (w *window) Key() driver.WindowKey {
	return w.key
}

func (w *window) Config() driver.Config {
	w.p.mu.Lock()
	defer w.p.mu.Unlock()
	return w.cnf
}

func (w *window) Configure(cnf driver.Config) error {
	old := w.Config()
	if err := w.apply(old, cnf, false); err != nil {
		return err
	}
	w.p.mu.Lock()
	w.cnf = cnf
	w.p.mu.Unlock()
	return nil
}

// apply sends the requests turning old into cnf. An initial apply
// sets every property, since the window has none yet.
func (w *window) apply(old, cnf driver.Config, initial bool) error {
	xu, id := w.p.xu, w.win.Id
	var errs []error
	if initial || old.Title != cnf.Title {
		errs = append(errs,
			icccm.WmNameSet(xu, id, cnf.Title),
			ewmh.WmNameSet(xu, id, cnf.Title))
	}
	if initial || old.Decorated != cnf.Decorated {
		errs = append(errs, motif.WmHintsSet(xu, id, decorations(cnf.Decorated)))
	}
	if initial || old.MinSize != cnf.MinSize || old.MaxSize != cnf.MaxSize || old.Resizable != cnf.Resizable || old.Size != cnf.Size {
		errs = append(errs, icccm.WmNormalHintsSet(xu, id, normalHints(cnf)))
	}
	if old.Icon != cnf.Icon && cnf.Icon != nil {
		errs = append(errs, ewmh.WmIconSet(xu, id, []ewmh.WmIcon{wmIcon(cnf.Icon)}))
	}
	if old.Size != cnf.Size && cnf.Mode == driver.Windowed {
		s := nonEmpty(cnf.Size)
		w.win.Resize(s.X, s.Y)
	}
	if old.Position != cnf.Position && cnf.Mode == driver.Windowed {
		w.win.Move(cnf.Position.X, cnf.Position.Y)
	}
	if old.Visible != cnf.Visible {
		if cnf.Visible {
			w.win.Map()
		} else {
			w.win.Unmap()
		}
	}
	if !initial {
		for _, c := range stateChanges(old, cnf) {
			errs = append(errs, ewmh.WmStateReq(xu, id, c.action, c.atom))
		}
	}
	if old.Mode != cnf.Mode && cnf.Mode == driver.Minimized {
		errs = append(errs, w.iconify())
	}
	if !old.Focused && cnf.Focused && cnf.Visible {
		errs = append(errs, ewmh.ActiveWindowReq(xu, id))
	}
	return errors.Join(errs...)
}

// iconify asks the window manager to minimize the window.
func (w *window) iconify() error {
	atom, err := xprop.Atm(w.p.xu, "WM_CHANGE_STATE")
	if err != nil {
		return err
	}
	const iconicState = 3
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: w.win.Id,
		Type:   atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{iconicState, 0, 0, 0, 0}),
	}
	return xproto.SendEventChecked(w.p.xu.Conn(), false, w.p.xu.RootWin(),
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes())).Check()
}

func (w *window) Perform(actions driver.Action) error {
	var errs []error
	actions.Each(func(a driver.Action) {
		switch a {
		case driver.ActionRaise:
			errs = append(errs, ewmh.ActiveWindowReq(w.p.xu, w.win.Id))
		case driver.ActionCenter:
			errs = append(errs, w.center())
		case driver.ActionRequestAttention:
			errs = append(errs, ewmh.WmStateReq(w.p.xu, w.win.Id, ewmh.StateAdd, "_NET_WM_STATE_DEMANDS_ATTENTION"))
		default:
			errs = append(errs, driver.ErrNotSupported)
		}
	})
	return errors.Join(errs...)
}

func (w *window) center() error {
	cnf := w.Config()
	if cnf.Mode == driver.Fullscreen {
		return nil
	}
	m, ok := w.Monitor()
	if !ok {
		return nil
	}
	cnf.Position = m.Position.Add(m.Size.Sub(cnf.Size).Div(2))
	return w.Configure(cnf)
}

func (w *window) ScaleFactor() float64 {
	return w.p.scale
}

func (w *window) InnerPosition() (image.Point, error) {
	r, err := xproto.TranslateCoordinates(w.p.xu.Conn(), w.win.Id, w.p.xu.RootWin(), 0, 0).Reply()
	if err != nil {
		return image.Point{}, err
	}
	return image.Pt(int(r.DstX), int(r.DstY)), nil
}

func (w *window) OuterSize() image.Point {
	g, err := w.win.DecorGeometry()
	if err != nil {
		return w.Config().Size
	}
	return image.Pt(g.Width(), g.Height())
}

// Monitor returns the monitor containing the center of the window.
func (w *window) Monitor() (driver.Monitor, bool) {
	cnf := w.Config()
	c := cnf.Position.Add(cnf.Size.Div(2))
	ms := w.p.Monitors()
	for _, m := range ms {
		if c.In(m.Bounds()) {
			return m, true
		}
	}
	if len(ms) > 0 {
		return ms[0], true
	}
	return driver.Monitor{}, false
}

func (w *window) SetCursorPosition(p image.Point) error {
	return xproto.WarpPointerChecked(w.p.xu.Conn(), 0, w.win.Id, 0, 0, 0, 0, int16(p.X), int16(p.Y)).Check()
}

// Destroy destroys the window. The server reports a DestroyNotify,
// which becomes the DestroyedEvent.
func (w *window) Destroy() {
	w.win.Destroy()
}

// destroyNow destroys a window that failed during creation, without
// reporting it.
func (w *window) destroyNow() {
	w.p.mu.Lock()
	delete(w.p.windows, w.win.Id)
	w.p.mu.Unlock()
	w.win.Destroy()
}

func decorations(on bool) *motif.Hints {
	h := &motif.Hints{Flags: motif.HintDecorations, Decoration: motif.DecorationNone}
	if on {
		h.Decoration = motif.DecorationAll
	}
	return h
}

func normalHints(cnf driver.Config) *icccm.NormalHints {
	h := &icccm.NormalHints{Flags: icccm.SizeHintUSPosition}
	minSize, maxSize := cnf.MinSize, cnf.MaxSize
	if !cnf.Resizable {
		minSize, maxSize = cnf.Size, cnf.Size
	}
	if minSize != (image.Point{}) {
		h.Flags |= icccm.SizeHintPMinSize
		h.MinWidth, h.MinHeight = uint(minSize.X), uint(minSize.Y)
	}
	if maxSize != (image.Point{}) {
		h.Flags |= icccm.SizeHintPMaxSize
		h.MaxWidth, h.MaxHeight = uint(maxSize.X), uint(maxSize.Y)
	}
	h.X, h.Y = cnf.Position.X, cnf.Position.Y
	return h
}

// wmIcon converts img to the ARGB words of _NET_WM_ICON.
func wmIcon(img image.Image) ewmh.WmIcon {
	b := img.Bounds()
	n := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(n, n.Bounds(), img, b.Min, draw.Src)
	data := make([]uint, 0, b.Dx()*b.Dy())
	for i := 0; i < len(n.Pix); i += 4 {
		r, g, bl, a := uint(n.Pix[i]), uint(n.Pix[i+1]), uint(n.Pix[i+2]), uint(n.Pix[i+3])
		data = append(data, a<<24|r<<16|g<<8|bl)
	}
	return ewmh.WmIcon{Width: uint(b.Dx()), Height: uint(b.Dy()), Data: data}
}
