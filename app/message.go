// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"github.com/loomui/loom/app/driver"
	"github.com/loomui/loom/io/event"
)

// dispatchMode selects how a message reaches the main thread.
type dispatchMode uint8

const (
	// modeInline messages run immediately when sent from the main
	// thread and are queued otherwise.
	modeInline dispatchMode = iota
	// modeQueued messages are always queued, because handling them
	// re-enters the event loop.
	modeQueued
)

type message interface {
	mode() dispatchMode
}

type result[T any] struct {
	v   T
	err error
}

// reply carries the answer to a query. It holds one result, so the
// handler never blocks on a requester that gave up waiting.
type reply[T any] chan result[T]

func newReply[T any]() reply[T] {
	return make(reply[T], 1)
}

func (r reply[T]) send(v T, err error) {
	select {
	case r <- result[T]{v: v, err: err}:
	default:
	}
}

// failer is implemented by messages that carry a reply.
type failer interface {
	fail(err error)
}

type (
	taskMessage struct {
		f func()
	}

	requestExitMessage struct {
		code int
	}

	userEventMessage struct {
		payload any
	}

	platformQuery[T any] struct {
		name  string
		get   func(p driver.Platform) (T, error)
		reply reply[T]
	}

	createWindowMessage struct {
		id    WindowID
		build func(m *mainThreadContext) (*windowWrapper, error)
	}

	// createRawWindowMessage creates a window without webviews and
	// reports the outcome to a waiting requester.
	createRawWindowMessage struct {
		id    WindowID
		build func(m *mainThreadContext) (*windowWrapper, error)
		reply reply[struct{}]
	}

	createWebviewMessage struct {
		window WindowID
		build  func(m *mainThreadContext, w *windowWrapper) (*webviewWrapper, error)
	}

	windowMessage struct {
		id WindowID
		op windowOp
	}

	webviewMessage struct {
		window  WindowID
		webview WebviewID
		op      webviewOp
	}
)

func (taskMessage) mode() dispatchMode            { return modeInline }
func (requestExitMessage) mode() dispatchMode     { return modeQueued }
func (userEventMessage) mode() dispatchMode       { return modeQueued }
func (platformQuery[T]) mode() dispatchMode       { return modeInline }
func (createWindowMessage) mode() dispatchMode    { return modeInline }
func (createRawWindowMessage) mode() dispatchMode { return modeQueued }
func (createWebviewMessage) mode() dispatchMode   { return modeInline }
func (m windowMessage) mode() dispatchMode        { return m.op.mode() }
func (m webviewMessage) mode() dispatchMode       { return m.op.mode() }

func (q platformQuery[T]) answer(p driver.Platform) {
	v, err := q.get(p)
	q.reply.send(v, err)
}

func (q platformQuery[T]) fail(err error) {
	var zero T
	q.reply.send(zero, err)
}

func (m createRawWindowMessage) fail(err error) {
	m.reply.send(struct{}{}, err)
}

func (m windowMessage) fail(err error) {
	if f, ok := m.op.(failer); ok {
		f.fail(err)
	}
}

func (m webviewMessage) fail(err error) {
	if f, ok := m.op.(failer); ok {
		f.fail(err)
	}
}

type windowOp interface {
	mode() dispatchMode
}

type (
	addWindowListener struct {
		id event.ID
		fn func(WindowEvent)
	}

	removeWindowListener struct {
		id event.ID
	}

	// windowCommand changes window state. Errors are logged, since
	// nobody waits for them.
	windowCommand struct {
		name  string
		apply func(m *mainThreadContext, w *windowWrapper) error
	}

	windowQuery[T any] struct {
		name  string
		get   func(w *windowWrapper) (T, error)
		reply reply[T]
	}

	closeWindow   struct{}
	destroyWindow struct{}
)

func (addWindowListener) mode() dispatchMode    { return modeInline }
func (removeWindowListener) mode() dispatchMode { return modeInline }
func (windowCommand) mode() dispatchMode        { return modeInline }
func (windowQuery[T]) mode() dispatchMode       { return modeInline }
func (closeWindow) mode() dispatchMode          { return modeQueued }
func (destroyWindow) mode() dispatchMode        { return modeQueued }

// windowAnswerer is implemented by window queries of any result type.
type windowAnswerer interface {
	answer(w *windowWrapper)
	failer
}

func (q windowQuery[T]) answer(w *windowWrapper) {
	v, err := q.get(w)
	q.reply.send(v, err)
}

func (q windowQuery[T]) fail(err error) {
	var zero T
	q.reply.send(zero, err)
}

type webviewOp interface {
	mode() dispatchMode
}

type (
	addWebviewListener struct {
		id event.ID
		fn func(WebviewEvent)
	}

	removeWebviewListener struct {
		id event.ID
	}

	webviewCommand struct {
		name  string
		apply func(m *mainThreadContext, w *windowWrapper, v *webviewWrapper) error
	}

	webviewQuery[T any] struct {
		name  string
		get   func(w *windowWrapper, v *webviewWrapper) (T, error)
		reply reply[T]
	}

	closeWebview struct{}

	reparentWebview struct {
		target WindowID
		reply  reply[struct{}]
	}

	// webviewEvent is a native webview event posted back to the loop.
	webviewEvent struct {
		ev WebviewEvent
	}

	// synthesizedWindowEvent is a window event raised by a webview that
	// fills its window.
	synthesizedWindowEvent struct {
		ev WindowEvent
	}
)

func (addWebviewListener) mode() dispatchMode     { return modeInline }
func (removeWebviewListener) mode() dispatchMode  { return modeInline }
func (webviewCommand) mode() dispatchMode         { return modeInline }
func (webviewQuery[T]) mode() dispatchMode        { return modeInline }
func (closeWebview) mode() dispatchMode           { return modeInline }
func (reparentWebview) mode() dispatchMode        { return modeInline }
func (webviewEvent) mode() dispatchMode           { return modeQueued }
func (synthesizedWindowEvent) mode() dispatchMode { return modeQueued }

type webviewAnswerer interface {
	answer(w *windowWrapper, v *webviewWrapper)
	failer
}

func (q webviewQuery[T]) answer(w *windowWrapper, v *webviewWrapper) {
	q.reply.send(q.get(w, v))
}

func (q webviewQuery[T]) fail(err error) {
	var zero T
	q.reply.send(zero, err)
}

func (r reparentWebview) fail(err error) {
	r.reply.send(struct{}{}, err)
}
