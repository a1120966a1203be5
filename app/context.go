// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/loomui/loom/app/driver"
	"github.com/loomui/loom/app/internal/mailbox"
	"github.com/loomui/loom/app/internal/thread"
	"github.com/loomui/loom/io/event"
)

// WindowID identifies a window for the lifetime of a runtime. IDs are
// never reused.
type WindowID uint32

// WebviewID identifies a webview for the lifetime of a runtime.
type WebviewID uint32

// envelope is a mailbox entry: either a message or a native event.
type envelope struct {
	msg    message
	native event.Event
}

// dispatchContext is shared by the runtime and every handle. All its
// fields are safe for concurrent use, except main which is reachable
// through mainContext only.
type dispatchContext struct {
	log        context.Context
	tel        *telemetry
	mainThread thread.ID
	queue      *mailbox.Queue[envelope]
	windowIDs  *windowIDs
	plugins    *plugins
	exited     atomic.Bool

	nextWindow       atomic.Uint32
	nextWebview      atomic.Uint32
	nextWindowEvent  atomic.Uint32
	nextWebviewEvent atomic.Uint32

	main *mainThreadContext
}

func (c *dispatchContext) onMainThread() bool {
	return thread.Current() == c.mainThread
}

// mainContext returns the main thread state. It panics when called from
// any other thread.
func (c *dispatchContext) mainContext() *mainThreadContext {
	if !c.onMainThread() {
		panic("app: main thread state accessed from another thread")
	}
	return c.main
}

func (c *dispatchContext) newWindowID() WindowID {
	return WindowID(c.nextWindow.Add(1))
}

func (c *dispatchContext) newWebviewID() WebviewID {
	return WebviewID(c.nextWebview.Add(1))
}

func (c *dispatchContext) newWindowEventID() event.ID {
	return event.ID(c.nextWindowEvent.Add(1))
}

func (c *dispatchContext) newWebviewEventID() event.ID {
	return event.ID(c.nextWebviewEvent.Add(1))
}

// windowIDs maps native window keys to runtime window ids.
type windowIDs struct {
	mu  sync.Mutex
	ids map[driver.WindowKey]WindowID
}

func newWindowIDs() *windowIDs {
	return &windowIDs{ids: make(map[driver.WindowKey]WindowID)}
}

func (m *windowIDs) insert(k driver.WindowKey, id WindowID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids[k] = id
}

func (m *windowIDs) get(k driver.WindowKey) (WindowID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.ids[k]
	return id, ok
}

func (m *windowIDs) remove(k driver.WindowKey) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.ids, k)
}

func (m *windowIDs) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ids)
}

// windowRef is the id of the window currently owning a webview. It
// changes when the webview is reparented.
type windowRef struct {
	v atomic.Uint32
}

func newWindowRef(id WindowID) *windowRef {
	r := new(windowRef)
	r.v.Store(uint32(id))
	return r
}

func (r *windowRef) load() WindowID {
	return WindowID(r.v.Load())
}

func (r *windowRef) store(id WindowID) {
	r.v.Store(uint32(id))
}

// Plugin observes native events before the runtime handles them.
type Plugin interface {
	// Event is called on the main thread. Returning true prevents the
	// runtime from handling e.
	Event(e event.Event, h *Handle) bool
}

type plugins struct {
	mu   sync.Mutex
	list []Plugin
}

func (p *plugins) add(pl Plugin) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.list = append(p.list, pl)
}

func (p *plugins) snapshot() []Plugin {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.list)
}
