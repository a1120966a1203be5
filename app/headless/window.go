// SPDX-License-Identifier: Unlicense OR MIT

package headless

import (
	"image"
	"slices"

	"github.com/loomui/loom/app/driver"
	"github.com/loomui/loom/io/event"
)

// Window is an in-memory driver.Window.
type Window struct {
	p         *Platform
	key       driver.WindowKey
	cnf       driver.Config
	scale     float64
	destroyed bool
	cursor    image.Point
	actions   []driver.Action
	webviews  []*Webview
}

var _ driver.Window = (*Window)(nil)

func (w *Window) Key() driver.WindowKey {
	return w.key
}

func (w *Window) Config() driver.Config {
	w.p.mu.Lock()
	defer w.p.mu.Unlock()
	return w.cnf
}

// Configure stores cnf and reports geometry and focus changes like a
// window manager would.
func (w *Window) Configure(cnf driver.Config) error {
	w.p.mu.Lock()
	if w.destroyed {
		w.p.mu.Unlock()
		return errDestroyed
	}
	old := w.cnf
	w.cnf = cnf
	w.p.mu.Unlock()
	w.p.postAll(w.changes(old, cnf)...)
	return nil
}

func (w *Window) changes(old, cnf driver.Config) []event.Event {
	var evs []event.Event
	if old.Size != cnf.Size {
		evs = append(evs, driver.ResizedEvent{Window: w.key, Size: cnf.Size})
	}
	if old.Position != cnf.Position {
		evs = append(evs, driver.MovedEvent{Window: w.key, Position: cnf.Position})
	}
	if old.Focused != cnf.Focused {
		evs = append(evs, driver.FocusedEvent{Window: w.key, Focused: cnf.Focused})
	}
	if old.Theme != cnf.Theme {
		evs = append(evs, driver.ThemeChangedEvent{Window: w.key, Theme: cnf.Theme})
	}
	return evs
}

func (p *Platform) postAll(evs ...event.Event) {
	for _, e := range evs {
		p.post(e)
	}
}

func (w *Window) Perform(actions driver.Action) error {
	w.p.mu.Lock()
	if w.destroyed {
		w.p.mu.Unlock()
		return errDestroyed
	}
	old := w.cnf
	actions.Each(func(a driver.Action) {
		w.actions = append(w.actions, a)
		switch a {
		case driver.ActionRaise:
			w.cnf.Focused = true
		case driver.ActionCenter:
			if w.cnf.Mode != driver.Fullscreen && len(w.p.monitors) > 0 {
				m := w.p.monitors[0]
				w.cnf.Position = m.Position.Add(m.Size.Sub(w.cnf.Size).Div(2))
			}
		}
	})
	cnf := w.cnf
	w.p.mu.Unlock()
	w.p.postAll(w.changes(old, cnf)...)
	return nil
}

func (w *Window) ScaleFactor() float64 {
	w.p.mu.Lock()
	defer w.p.mu.Unlock()
	return w.scale
}

func (w *Window) InnerPosition() (image.Point, error) {
	w.p.mu.Lock()
	defer w.p.mu.Unlock()
	return w.cnf.Position, nil
}

func (w *Window) OuterSize() image.Point {
	w.p.mu.Lock()
	defer w.p.mu.Unlock()
	return w.cnf.Size
}

func (w *Window) Monitor() (driver.Monitor, bool) {
	w.p.mu.Lock()
	defer w.p.mu.Unlock()
	for _, m := range w.p.monitors {
		if w.cnf.Position.In(m.Bounds()) {
			return m, true
		}
	}
	if len(w.p.monitors) > 0 {
		return w.p.monitors[0], true
	}
	return driver.Monitor{}, false
}

func (w *Window) SetCursorPosition(p image.Point) error {
	w.p.mu.Lock()
	defer w.p.mu.Unlock()
	if w.destroyed {
		return errDestroyed
	}
	w.cursor = p
	return nil
}

// Destroy marks the window destroyed, closes its webviews and delivers
// a DestroyedEvent.
func (w *Window) Destroy() {
	w.p.mu.Lock()
	if w.destroyed {
		w.p.mu.Unlock()
		return
	}
	w.destroyed = true
	for _, v := range w.webviews {
		v.closed = true
	}
	w.webviews = nil
	w.p.mu.Unlock()
	w.p.post(driver.DestroyedEvent{Window: w.key})
}

// Destroyed reports whether the window was destroyed.
func (w *Window) Destroyed() bool {
	w.p.mu.Lock()
	defer w.p.mu.Unlock()
	return w.destroyed
}

// Resize simulates the user resizing the window.
func (w *Window) Resize(size image.Point) {
	w.p.mu.Lock()
	w.cnf.Size = size
	w.p.mu.Unlock()
	w.p.post(driver.ResizedEvent{Window: w.key, Size: size})
}

// Move simulates the user moving the window.
func (w *Window) Move(pos image.Point) {
	w.p.mu.Lock()
	w.cnf.Position = pos
	w.p.mu.Unlock()
	w.p.post(driver.MovedEvent{Window: w.key, Position: pos})
}

// RequestClose simulates the user clicking the close button.
func (w *Window) RequestClose() {
	w.p.post(driver.CloseRequestedEvent{Window: w.key})
}

// SetScaleFactor simulates moving the window to a display with scale
// factor s. The client area keeps its logical size.
func (w *Window) SetScaleFactor(s float64) {
	w.p.mu.Lock()
	old := w.scale
	w.scale = s
	if old > 0 {
		w.cnf.Size = image.Pt(int(float64(w.cnf.Size.X)*s/old), int(float64(w.cnf.Size.Y)*s/old))
	}
	size := w.cnf.Size
	w.p.mu.Unlock()
	w.p.post(driver.ScaleFactorChangedEvent{Window: w.key, ScaleFactor: s, Size: size})
}

// SetSystemTheme simulates a change of the system theme.
func (w *Window) SetSystemTheme(t driver.Theme) {
	w.p.post(driver.ThemeChangedEvent{Window: w.key, Theme: t})
}

// Actions returns the actions performed on the window.
func (w *Window) Actions() []driver.Action {
	w.p.mu.Lock()
	defer w.p.mu.Unlock()
	return slices.Clone(w.actions)
}

// Webviews returns the webviews in the window.
func (w *Window) Webviews() []*Webview {
	w.p.mu.Lock()
	defer w.p.mu.Unlock()
	return slices.Clone(w.webviews)
}

// CursorPosition returns the last position set by SetCursorPosition.
func (w *Window) CursorPosition() image.Point {
	w.p.mu.Lock()
	defer w.p.mu.Unlock()
	return w.cursor
}
