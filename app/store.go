// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"image"
	"maps"
	"slices"
	"sync"

	"github.com/loomui/loom/app/driver"
	"github.com/loomui/loom/f32"
	"github.com/loomui/loom/io/event"
	"github.com/loomui/loom/unit"
)

// windowsStore owns the native windows. It is used on the main thread
// only.
type windowsStore struct {
	m map[WindowID]*windowWrapper
}

func newWindowsStore() *windowsStore {
	return &windowsStore{m: make(map[WindowID]*windowWrapper)}
}

func (s *windowsStore) get(id WindowID) (*windowWrapper, bool) {
	w, ok := s.m[id]
	return w, ok
}

// live returns the window if it exists and isn't closing.
func (s *windowsStore) live(id WindowID) (*windowWrapper, bool) {
	w, ok := s.m[id]
	if !ok || w.native == nil {
		return nil, false
	}
	return w, true
}

func (s *windowsStore) insert(id WindowID, w *windowWrapper) {
	s.m[id] = w
}

func (s *windowsStore) remove(id WindowID) (*windowWrapper, bool) {
	w, ok := s.m[id]
	delete(s.m, id)
	return w, ok
}

func (s *windowsStore) len() int {
	return len(s.m)
}

// ids returns the window ids in creation order.
func (s *windowsStore) ids() []WindowID {
	return slices.Sorted(maps.Keys(s.m))
}

type windowWrapper struct {
	label string
	// native is nil while the window is closing.
	native driver.Window
	webviews  []*webviewWrapper
	listeners map[event.ID]func(WindowEvent)
}

func newWindowWrapper(label string, native driver.Window) *windowWrapper {
	return &windowWrapper{
		label:     label,
		native:    native,
		listeners: make(map[event.ID]func(WindowEvent)),
	}
}

func (w *windowWrapper) metric() unit.Metric {
	return unit.ScaleFactor(w.native.ScaleFactor())
}

func (w *windowWrapper) webviewIndex(id WebviewID) int {
	return slices.IndexFunc(w.webviews, func(v *webviewWrapper) bool {
		return v.id == id
	})
}

func (w *windowWrapper) webview(id WebviewID) (*webviewWrapper, bool) {
	if i := w.webviewIndex(id); i >= 0 {
		return w.webviews[i], true
	}
	return nil, false
}

// hasChildren reports whether the window holds webviews besides the
// one filling it.
func (w *windowWrapper) hasChildren() bool {
	return slices.ContainsFunc(w.webviews, func(v *webviewWrapper) bool {
		return v.kind == webviewChild
	})
}

func (w *windowWrapper) removeWebview(i int) *webviewWrapper {
	v := w.webviews[i]
	w.webviews = slices.Delete(w.webviews, i, i+1)
	return v
}

// emit delivers e to the window listeners in registration order. The
// listener set is copied first, so listeners may register others.
func (w *windowWrapper) emit(e WindowEvent) {
	for _, id := range slices.Sorted(maps.Keys(w.listeners)) {
		if fn, ok := w.listeners[id]; ok {
			fn(e)
		}
	}
}

type webviewWrapper struct {
	id        WebviewID
	kind      webviewKind
	label     string
	native    driver.Webview
	window    *windowRef
	listeners map[event.ID]func(WebviewEvent)
	// rates is non-nil for webviews following the size of their window.
	rates   *boundsRate
	dataDir string
}

func (v *webviewWrapper) emit(e WebviewEvent) {
	for _, id := range slices.Sorted(maps.Keys(v.listeners)) {
		if fn, ok := v.listeners[id]; ok {
			fn(e)
		}
	}
}

// boundsRate is the webview area as fractions of the logical window
// size.
type boundsRate struct {
	pos, size f32.Point
}

// fullRate covers the entire window.
var fullRate = boundsRate{size: f32.Pt(1, 1)}

func newBoundsRate(bounds image.Rectangle, windowSize image.Point, m unit.Metric) *boundsRate {
	ws := m.Logical(windowSize)
	if ws.X <= 0 || ws.Y <= 0 {
		return nil
	}
	return &boundsRate{
		pos:  m.Logical(bounds.Min).Div(ws),
		size: m.Logical(bounds.Size()).Div(ws),
	}
}

// bounds returns the pixel area for a window of the given size.
func (r *boundsRate) bounds(windowSize image.Point, m unit.Metric) image.Rectangle {
	ws := m.Logical(windowSize)
	pos := m.Pt(r.pos.Scale(ws))
	size := m.Pt(r.size.Scale(ws))
	return image.Rectangle{Min: pos, Max: pos.Add(size)}
}

// webContextStore shares native web contexts among webviews with the
// same data directory.
type webContextStore struct {
	mu       sync.Mutex
	contexts map[string]*sharedWebContext
}

type sharedWebContext struct {
	native driver.WebContext
	users  map[WebviewID]struct{}
}

func newWebContextStore() *webContextStore {
	return &webContextStore{contexts: make(map[string]*sharedWebContext)}
}

// acquire returns the context for dir, creating it if needed, and
// records the webview as one of its users.
func (s *webContextStore) acquire(p driver.Platform, dir string, id WebviewID) (driver.WebContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contexts[dir]
	if !ok {
		native, err := p.NewWebContext(dir)
		if err != nil {
			return nil, err
		}
		c = &sharedWebContext{native: native, users: make(map[WebviewID]struct{})}
		s.contexts[dir] = c
	}
	c.users[id] = struct{}{}
	return c.native, nil
}

// release drops the webview from the users of the context for dir and
// releases the context when it has none left.
func (s *webContextStore) release(dir string, id WebviewID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contexts[dir]
	if !ok {
		return
	}
	delete(c.users, id)
	if len(c.users) == 0 {
		delete(s.contexts, dir)
		c.native.Release()
	}
}

func (s *webContextStore) releaseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for dir, c := range s.contexts {
		delete(s.contexts, dir)
		c.native.Release()
	}
}

func (s *webContextStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.contexts)
}
