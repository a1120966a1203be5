// SPDX-License-Identifier: Unlicense OR MIT

//go:build (linux && !android) || freebsd || openbsd

package x11

import (
	"image"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/loomui/loom/app/driver"
	"github.com/loomui/loom/io/event"
)

// translate converts an X event into native events and tracks the
// window state it reports.
func (p *Platform) translate(ev xgb.Event) []event.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch e := ev.(type) {
	case xproto.ClientMessageEvent:
		w := p.windows[e.Window]
		if w == nil || e.Type != p.atoms.protocols || e.Format != 32 {
			return nil
		}
		if d := e.Data.Data32; len(d) > 0 && xproto.Atom(d[0]) == p.atoms.deleteWindow {
			return []event.Event{driver.CloseRequestedEvent{Window: w.key}}
		}
	case xproto.ConfigureNotifyEvent:
		w := p.windows[e.Window]
		if w == nil {
			return nil
		}
		var evs []event.Event
		if size := image.Pt(int(e.Width), int(e.Height)); size != w.cnf.Size {
			w.cnf.Size = size
			evs = append(evs, driver.ResizedEvent{Window: w.key, Size: size})
		}
		// Coordinates of framed windows are relative to the frame.
		if pos := image.Pt(int(e.X), int(e.Y)); !w.framed && pos != w.cnf.Position {
			w.cnf.Position = pos
			evs = append(evs, driver.MovedEvent{Window: w.key, Position: pos})
		}
		return evs
	case xproto.ReparentNotifyEvent:
		if w := p.windows[e.Window]; w != nil {
			w.framed = e.Parent != p.root()
		}
	case xproto.FocusInEvent:
		return p.focus(e.Event, e.Mode, true)
	case xproto.FocusOutEvent:
		return p.focus(e.Event, e.Mode, false)
	case xproto.MapNotifyEvent:
		if w := p.windows[e.Window]; w != nil {
			w.cnf.Visible = true
		}
	case xproto.UnmapNotifyEvent:
		if w := p.windows[e.Window]; w != nil {
			w.cnf.Visible = false
		}
	case xproto.DestroyNotifyEvent:
		w := p.windows[e.Window]
		if w == nil {
			return nil
		}
		delete(p.windows, e.Window)
		return []event.Event{driver.DestroyedEvent{Window: w.key}}
	}
	return nil
}

func (p *Platform) focus(win xproto.Window, mode byte, focused bool) []event.Event {
	w := p.windows[win]
	if w == nil || mode == xproto.NotifyModeGrab || mode == xproto.NotifyModeUngrab {
		return nil
	}
	if w.cnf.Focused == focused {
		return nil
	}
	w.cnf.Focused = focused
	return []event.Event{driver.FocusedEvent{Window: w.key, Focused: focused}}
}

func (p *Platform) root() xproto.Window {
	if p.xu == nil {
		return 0
	}
	return p.xu.RootWin()
}
