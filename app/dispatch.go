// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"time"

	"github.com/loomui/loom/app/driver"
)

// send routes m to the main thread. On the main thread, inline messages
// are handled before send returns; everything else is queued in the
// mailbox, preserving the order of messages from a single goroutine.
func (c *dispatchContext) send(m message) error {
	if c.exited.Load() {
		return ErrLoopClosed
	}
	if m.mode() == modeInline && c.onMainThread() {
		c.tel.routed(c.log, "inline")
		c.mainContext().handleMessage(m)
		return nil
	}
	return c.post(m)
}

// post queues m regardless of the calling thread.
func (c *dispatchContext) post(m message) error {
	if err := c.queue.Send(envelope{msg: m}); err != nil {
		return ErrLoopClosed
	}
	c.tel.routed(c.log, "queued")
	return nil
}

// query sends the message built around a fresh reply and waits for the
// answer. Queries pending when the event loop exits fail with
// ErrLoopClosed.
func query[T any](c *dispatchContext, name string, build func(r reply[T]) message) (T, error) {
	start := time.Now()
	r := newReply[T]()
	if err := c.send(build(r)); err != nil {
		var zero T
		return zero, err
	}
	res := <-r
	c.tel.answered(c.log, name, time.Since(start))
	return res.v, res.err
}

func windowQueryOf[T any](c *dispatchContext, id WindowID, name string, get func(w *windowWrapper) (T, error)) (T, error) {
	return query(c, name, func(r reply[T]) message {
		return windowMessage{id: id, op: windowQuery[T]{name: name, get: get, reply: r}}
	})
}

func webviewQueryOf[T any](c *dispatchContext, window WindowID, id WebviewID, name string, get func(w *windowWrapper, v *webviewWrapper) (T, error)) (T, error) {
	return query(c, name, func(r reply[T]) message {
		return webviewMessage{window: window, webview: id, op: webviewQuery[T]{name: name, get: get, reply: r}}
	})
}

func platformQueryOf[T any](c *dispatchContext, name string, get func(p driver.Platform) (T, error)) (T, error) {
	return query(c, name, func(r reply[T]) message {
		return platformQuery[T]{name: name, get: get, reply: r}
	})
}

// abandon fails the queries left in the mailbox when the loop exits.
func abandon(rest []envelope) {
	for _, e := range rest {
		if f, ok := e.msg.(failer); ok {
			f.fail(ErrLoopClosed)
		}
	}
}
