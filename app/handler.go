// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"fmt"
	"image"

	"goa.design/clue/log"

	"github.com/loomui/loom/app/driver"
)

// mainThreadContext is the state owned by the main thread.
type mainThreadContext struct {
	ctx         *dispatchContext
	platform    driver.Platform
	windows     *windowsStore
	webContexts *webContextStore
}

type platformAnswerer interface {
	answer(p driver.Platform)
}

// handleMessage applies m. Messages that re-enter the event loop are
// handled by the loop itself; receiving one here is a routing bug.
func (m *mainThreadContext) handleMessage(msg message) {
	switch msg := msg.(type) {
	case taskMessage:
		msg.f()
	case platformAnswerer:
		msg.answer(m.platform)
	case createWindowMessage:
		m.insertWindow(msg.id, msg.build)
	case createRawWindowMessage:
		msg.reply.send(struct{}{}, m.insertWindow(msg.id, msg.build))
	case createWebviewMessage:
		m.handleCreateWebview(msg)
	case windowMessage:
		m.handleWindowMessage(msg)
	case webviewMessage:
		m.handleWebviewMessage(msg)
	case requestExitMessage, userEventMessage:
		panic(fmt.Sprintf("app: %T must be handled by the event loop", msg))
	default:
		panic(fmt.Sprintf("app: unknown message %T", msg))
	}
}

func (m *mainThreadContext) insertWindow(id WindowID, build func(m *mainThreadContext) (*windowWrapper, error)) error {
	w, err := build(m)
	if err != nil {
		log.Error(m.ctx.log, err, log.KV{K: "msg", V: "window creation failed"}, log.KV{K: "window", V: id})
		return err
	}
	m.windows.insert(id, w)
	m.ctx.tel.windowDelta(m.ctx.log, 1)
	return nil
}

func (m *mainThreadContext) handleCreateWebview(msg createWebviewMessage) {
	w, ok := m.windows.live(msg.window)
	if !ok {
		log.Warn(m.ctx.log, log.KV{K: "msg", V: "webview parent not found"}, log.KV{K: "window", V: msg.window})
		return
	}
	v, err := msg.build(m, w)
	if err != nil {
		log.Error(m.ctx.log, err, log.KV{K: "msg", V: "webview creation failed"}, log.KV{K: "window", V: msg.window})
		return
	}
	w.webviews = append(w.webviews, v)
}

func (m *mainThreadContext) handleWindowMessage(msg windowMessage) {
	switch msg.op.(type) {
	case closeWindow, destroyWindow:
		panic("app: window close must be handled by the event loop")
	}
	w, ok := m.windows.live(msg.id)
	if !ok {
		msg.fail(ErrWindowNotFound)
		return
	}
	switch op := msg.op.(type) {
	case addWindowListener:
		w.listeners[op.id] = op.fn
	case removeWindowListener:
		delete(w.listeners, op.id)
	case windowCommand:
		if err := op.apply(m, w); err != nil {
			log.Error(m.ctx.log, err,
				log.KV{K: "msg", V: "window command failed"},
				log.KV{K: "command", V: op.name},
				log.KV{K: "window", V: w.label})
		}
	case windowAnswerer:
		op.answer(w)
	default:
		panic(fmt.Sprintf("app: unknown window operation %T", op))
	}
}

func (m *mainThreadContext) handleWebviewMessage(msg webviewMessage) {
	switch op := msg.op.(type) {
	case reparentWebview:
		m.reparent(msg.window, msg.webview, op)
		return
	case webviewEvent, synthesizedWindowEvent:
		panic("app: webview events must be handled by the event loop")
	}
	w, ok := m.windows.live(msg.window)
	if !ok {
		msg.fail(ErrWebviewNotFound)
		return
	}
	v, ok := w.webview(msg.webview)
	if !ok {
		msg.fail(ErrWebviewNotFound)
		return
	}
	switch op := msg.op.(type) {
	case addWebviewListener:
		v.listeners[op.id] = op.fn
	case removeWebviewListener:
		delete(v.listeners, op.id)
	case webviewCommand:
		if err := op.apply(m, w, v); err != nil {
			log.Error(m.ctx.log, err,
				log.KV{K: "msg", V: "webview command failed"},
				log.KV{K: "command", V: op.name},
				log.KV{K: "webview", V: v.label})
		}
	case webviewAnswerer:
		op.answer(w, v)
	case closeWebview:
		m.destroyWebview(w.removeWebview(w.webviewIndex(v.id)))
	default:
		panic(fmt.Sprintf("app: unknown webview operation %T", op))
	}
}

// reparent moves a webview between windows. The webview is detached
// before the native move; if the move fails it is destroyed, so it
// never ends up listed by two windows.
func (m *mainThreadContext) reparent(from WindowID, id WebviewID, op reparentWebview) {
	src, ok := m.windows.live(from)
	if !ok {
		op.fail(ErrWebviewNotFound)
		return
	}
	i := src.webviewIndex(id)
	if i < 0 {
		op.fail(ErrWebviewNotFound)
		return
	}
	if op.target == from {
		op.reply.send(struct{}{}, nil)
		return
	}
	dst, ok := m.windows.live(op.target)
	if !ok {
		op.fail(ErrWindowNotFound)
		return
	}
	v := src.removeWebview(i)
	if err := v.native.Reparent(dst.native); err != nil {
		log.Error(m.ctx.log, err, log.KV{K: "msg", V: "webview reparent failed"}, log.KV{K: "webview", V: v.label})
		m.destroyWebview(v)
		op.fail(fmt.Errorf("app: reparent webview %q: %w", v.label, err))
		return
	}
	dst.webviews = append(dst.webviews, v)
	v.window.store(op.target)
	op.reply.send(struct{}{}, nil)
}

func (m *mainThreadContext) destroyWebview(v *webviewWrapper) {
	v.native.Close()
	m.webContexts.release(v.dataDir, v.id)
}

// fitWebviews resizes the webviews following the size of w.
func (m *mainThreadContext) fitWebviews(w *windowWrapper, size image.Point) {
	metric := w.metric()
	for _, v := range w.webviews {
		if v.rates == nil {
			continue
		}
		if err := v.native.SetBounds(v.rates.bounds(size, metric)); err != nil {
			log.Error(m.ctx.log, err, log.KV{K: "msg", V: "webview resize failed"}, log.KV{K: "webview", V: v.label})
		}
	}
}

// discardWindow destroys a window that never made it into the store.
func (m *mainThreadContext) discardWindow(w *windowWrapper) {
	for _, v := range w.webviews {
		m.destroyWebview(v)
	}
	m.ctx.windowIDs.remove(w.native.Key())
	w.native.Destroy()
}
