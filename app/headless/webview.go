// SPDX-License-Identifier: Unlicense OR MIT

package headless

import (
	"errors"
	"image"
	"image/color"
	"slices"

	"github.com/loomui/loom/app/driver"
)

// Webview is an in-memory driver.Webview. Evaluated scripts are
// recorded instead of run.
type Webview struct {
	p          *Platform
	parent     *Window
	ctx        *WebContext
	cnf        driver.WebviewConfig
	bounds     image.Rectangle
	url        string
	visible    bool
	focused    bool
	zoom       float64
	background color.NRGBA
	devtools   bool
	scripts    []string
	prints     int
	clears     int
	closed     bool
}

var _ driver.Webview = (*Webview)(nil)

// do runs f with the platform locked, failing if the webview is closed.
func (v *Webview) do(f func()) error {
	v.p.mu.Lock()
	defer v.p.mu.Unlock()
	if v.closed {
		return errClosed
	}
	f()
	return nil
}

func (v *Webview) Bounds() (image.Rectangle, error) {
	var r image.Rectangle
	err := v.do(func() { r = v.bounds })
	return r, err
}

func (v *Webview) SetBounds(r image.Rectangle) error {
	return v.do(func() { v.bounds = r })
}

func (v *Webview) URL() (string, error) {
	var u string
	err := v.do(func() { u = v.url })
	return u, err
}

// Navigate consults OnNavigation, then reports the page load.
func (v *Webview) Navigate(url string) error {
	if v.Closed() {
		return errClosed
	}
	if f := v.cnf.OnNavigation; f != nil && !f(url) {
		return nil
	}
	if f := v.cnf.OnPageLoad; f != nil {
		f(driver.PageLoad{URL: url})
	}
	if err := v.do(func() { v.url = url }); err != nil {
		return err
	}
	if f := v.cnf.OnPageLoad; f != nil {
		f(driver.PageLoad{URL: url, Finished: true})
	}
	return nil
}

func (v *Webview) EvaluateScript(script string) error {
	return v.do(func() { v.scripts = append(v.scripts, script) })
}

func (v *Webview) SetVisible(visible bool) error {
	return v.do(func() { v.visible = visible })
}

func (v *Webview) Focus() error {
	return v.do(func() { v.focused = true })
}

func (v *Webview) SetZoom(scale float64) error {
	if scale <= 0 {
		return errors.New("headless: invalid zoom")
	}
	return v.do(func() { v.zoom = scale })
}

func (v *Webview) SetBackground(c color.NRGBA) error {
	return v.do(func() { v.background = c })
}

func (v *Webview) ClearBrowsingData() error {
	return v.do(func() { v.clears++ })
}

func (v *Webview) Print() error {
	return v.do(func() { v.prints++ })
}

func (v *Webview) OpenDevtools() {
	v.do(func() { v.devtools = true })
}

func (v *Webview) CloseDevtools() {
	v.do(func() { v.devtools = false })
}

func (v *Webview) IsDevtoolsOpen() bool {
	var open bool
	v.do(func() { open = v.devtools })
	return open
}

// Reparent moves the webview into parent.
func (v *Webview) Reparent(parent driver.Window) error {
	dst, ok := parent.(*Window)
	if !ok {
		return errors.New("headless: foreign parent window")
	}
	v.p.mu.Lock()
	defer v.p.mu.Unlock()
	switch {
	case v.closed:
		return errClosed
	case v.p.reparentErr != nil:
		return v.p.reparentErr
	case dst.destroyed:
		return errDestroyed
	}
	if i := slices.Index(v.parent.webviews, v); i >= 0 {
		v.parent.webviews = slices.Delete(v.parent.webviews, i, i+1)
	}
	dst.webviews = append(dst.webviews, v)
	v.parent = dst
	return nil
}

func (v *Webview) Close() {
	v.p.mu.Lock()
	defer v.p.mu.Unlock()
	v.closed = true
	if i := slices.Index(v.parent.webviews, v); i >= 0 {
		v.parent.webviews = slices.Delete(v.parent.webviews, i, i+1)
	}
}

// Label returns the label the webview was created with.
func (v *Webview) Label() string {
	return v.cnf.Label
}

// Closed reports whether the webview was closed.
func (v *Webview) Closed() bool {
	v.p.mu.Lock()
	defer v.p.mu.Unlock()
	return v.closed
}

// Parent returns the window holding the webview.
func (v *Webview) Parent() *Window {
	v.p.mu.Lock()
	defer v.p.mu.Unlock()
	return v.parent
}

// Context returns the web context of the webview.
func (v *Webview) Context() *WebContext {
	return v.ctx
}

// Scripts returns the evaluated scripts, oldest first.
func (v *Webview) Scripts() []string {
	v.p.mu.Lock()
	defer v.p.mu.Unlock()
	return slices.Clone(v.scripts)
}

// Zoom returns the zoom factor.
func (v *Webview) Zoom() float64 {
	v.p.mu.Lock()
	defer v.p.mu.Unlock()
	return v.zoom
}

// Visible reports whether the webview is shown.
func (v *Webview) Visible() bool {
	v.p.mu.Lock()
	defer v.p.mu.Unlock()
	return v.visible
}

// DragDrop simulates drag and drop activity over the webview. It
// returns false if drag and drop is not enabled.
func (v *Webview) DragDrop(d driver.DragDrop) bool {
	f := v.cnf.OnDragDrop
	if f == nil || v.Closed() {
		return false
	}
	f(d)
	return true
}
