// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"goa.design/clue/log"

	"github.com/loomui/loom/app/driver"
	"github.com/loomui/loom/io/event"
)

// eventLoop drains the mailbox on the main thread and turns native
// events and loop-level messages into RunEvents.
type eventLoop struct {
	c        *dispatchContext
	m        *mainThreadContext
	handle   *Handle
	callback func(e RunEvent)

	started bool
	// exit is set once an exit was requested and not prevented.
	exit bool
	done bool
	code int
}

func (l *eventLoop) emit(e RunEvent) {
	if l.callback != nil {
		l.callback(e)
	}
}

// run processes the mailbox until the loop exits. If once is set, run
// returns after the mailbox is drained.
func (l *eventLoop) run(once bool) {
	if l.done {
		return
	}
	q := l.c.queue
	if !l.started {
		l.started = true
		l.emit(ReadyEvent{})
	}
	for !l.exit {
		processed := false
		for !l.exit {
			e, ok := q.Pop()
			if !ok {
				break
			}
			processed = true
			l.dispatch(e)
		}
		if l.exit {
			break
		}
		if processed || once {
			l.emit(MainEventsClearedEvent{})
		}
		if once {
			return
		}
		<-q.Ready()
	}
	l.shutdown()
}

func (l *eventLoop) shutdown() {
	l.done = true
	l.c.exited.Store(true)
	abandon(l.c.queue.Close())
	for _, id := range l.m.windows.ids() {
		w, _ := l.m.windows.remove(id)
		for _, v := range w.webviews {
			l.m.destroyWebview(v)
		}
		if w.native != nil {
			l.c.windowIDs.remove(w.native.Key())
			w.native.Destroy()
		}
	}
	l.m.webContexts.releaseAll()
	l.m.platform.Stop()
	log.Debug(l.c.log, log.KV{K: "msg", V: "event loop exited"}, log.KV{K: "code", V: l.code})
	l.emit(ExitEvent{})
}

func (l *eventLoop) dispatch(e envelope) {
	if e.native != nil {
		l.handleNative(e.native)
		return
	}
	switch msg := e.msg.(type) {
	case requestExitMessage:
		code := msg.code
		l.requestExit(&code)
		return
	case userEventMessage:
		l.emit(UserEvent{Payload: msg.payload})
		return
	case windowMessage:
		switch msg.op.(type) {
		case closeWindow:
			l.onCloseRequested(msg.id)
			return
		case destroyWindow:
			l.closeWindow(msg.id)
			return
		}
	case webviewMessage:
		switch op := msg.op.(type) {
		case webviewEvent:
			l.webviewEvent(msg.window, msg.webview, op.ev)
			return
		case synthesizedWindowEvent:
			if w, ok := l.m.windows.live(msg.window); ok {
				l.windowEvent(msg.window, w, op.ev)
			}
			return
		}
	}
	l.m.handleMessage(e.msg)
}

func (l *eventLoop) handleNative(e event.Event) {
	for _, p := range l.c.plugins.snapshot() {
		if p.Event(e, l.handle) {
			return
		}
	}
	var key driver.WindowKey
	var ev WindowEvent
	switch e := e.(type) {
	case driver.ResumedEvent:
		l.emit(ResumedEvent{})
		return
	case driver.CloseRequestedEvent:
		if id, ok := l.c.windowIDs.get(e.Window); ok {
			l.onCloseRequested(id)
		}
		return
	case driver.DestroyedEvent:
		l.onDestroyed(e.Window)
		return
	case driver.ResizedEvent:
		key = e.Window
	case driver.ScaleFactorChangedEvent:
		key = e.Window
		ev = ScaleFactorChangedEvent{ScaleFactor: e.ScaleFactor, Size: e.Size}
	case driver.MovedEvent:
		key, ev = e.Window, MovedEvent{Position: e.Position}
	case driver.FocusedEvent:
		key, ev = e.Window, FocusedEvent{Focused: e.Focused}
	case driver.ThemeChangedEvent:
		key, ev = e.Window, ThemeChangedEvent{Theme: e.Theme}
	default:
		log.Debug(l.c.log, log.KV{K: "msg", V: "unhandled native event"}, log.KV{K: "event", V: e})
		return
	}
	id, ok := l.c.windowIDs.get(key)
	if !ok {
		return
	}
	w, ok := l.m.windows.live(id)
	if !ok {
		return
	}
	switch ev.(type) {
	case nil:
		size := w.native.Config().Size
		l.m.fitWebviews(w, size)
		ev = ResizedEvent{Size: size}
	case ScaleFactorChangedEvent:
		l.m.fitWebviews(w, w.native.Config().Size)
	}
	l.windowEvent(id, w, ev)
}

// windowEvent delivers ev to the run callback, then to the window
// listeners.
func (l *eventLoop) windowEvent(id WindowID, w *windowWrapper, ev WindowEvent) {
	l.emit(WindowRunEvent{Window: id, Label: w.label, Event: ev})
	w.emit(ev)
}

func (l *eventLoop) webviewEvent(window WindowID, id WebviewID, ev WebviewEvent) {
	w, ok := l.m.windows.live(window)
	if !ok {
		return
	}
	v, ok := w.webview(id)
	if !ok {
		return
	}
	l.emit(WebviewRunEvent{Webview: id, Label: v.label, Event: ev})
	v.emit(ev)
}

// onCloseRequested asks the window listeners, then the run callback,
// whether the window may close.
func (l *eventLoop) onCloseRequested(id WindowID) {
	w, ok := l.m.windows.live(id)
	if !ok {
		return
	}
	sig := newSignal()
	ev := CloseRequestedEvent{signal: sig}
	w.emit(ev)
	l.emit(WindowRunEvent{Window: id, Label: w.label, Event: ev})
	if !sig.prevented() {
		l.closeWindow(id)
	}
}

// closeWindow destroys the native window. The window stays in the
// store, closing, until the platform reports it destroyed.
func (l *eventLoop) closeWindow(id WindowID) {
	w, ok := l.m.windows.live(id)
	if !ok {
		return
	}
	n := w.native
	w.native = nil
	n.Destroy()
}

func (l *eventLoop) onDestroyed(key driver.WindowKey) {
	id, ok := l.c.windowIDs.get(key)
	if !ok {
		return
	}
	l.c.windowIDs.remove(key)
	w, ok := l.m.windows.get(id)
	if !ok {
		return
	}
	ev := DestroyedEvent{}
	l.emit(WindowRunEvent{Window: id, Label: w.label, Event: ev})
	w.emit(ev)
	l.m.windows.remove(id)
	l.c.tel.windowDelta(l.c.log, -1)
	for _, v := range w.webviews {
		l.m.destroyWebview(v)
	}
	w.webviews = nil
	if l.m.windows.len() == 0 {
		l.requestExit(nil)
	}
}

// requestExit offers the run callback a chance to keep the loop
// running. A nil code means the last window closed.
func (l *eventLoop) requestExit(code *int) {
	sig := newSignal()
	ev := ExitRequestedEvent{signal: sig}
	if code != nil {
		ev.Code, ev.HasCode = *code, true
	}
	l.emit(ev)
	if sig.prevented() {
		return
	}
	l.exit = true
	if code != nil {
		l.code = *code
	}
}
