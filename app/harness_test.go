// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/loomui/loom/app/headless"
)

const waitTimeout = 5 * time.Second

// harness runs a Runtime on its own locked goroutine, so the test
// goroutine acts as a worker thread.
type harness struct {
	t  *testing.T
	p  *headless.Platform
	rt *Runtime
	h  *Handle

	mu     sync.Mutex
	events []RunEvent

	exited chan struct{}
	code   int
}

func newHarness(t *testing.T, callback func(e RunEvent), opts ...RuntimeOption) *harness {
	t.Helper()
	h := &harness{
		t:      t,
		p:      headless.New(),
		exited: make(chan struct{}),
	}
	ready := make(chan error, 1)
	go func() {
		rt, err := New(h.p, append([]RuntimeOption{WithLogOutput(io.Discard)}, opts...)...)
		if err != nil {
			ready <- err
			return
		}
		h.rt = rt
		h.h = rt.Handle()
		ready <- nil
		h.code = rt.Run(func(e RunEvent) {
			h.mu.Lock()
			h.events = append(h.events, e)
			h.mu.Unlock()
			if callback != nil {
				callback(e)
			}
		})
		close(h.exited)
	}()
	require.NoError(t, <-ready)
	t.Cleanup(func() {
		_ = h.h.RequestExit(0)
		select {
		case <-h.exited:
		case <-time.After(waitTimeout):
			t.Error("event loop did not exit")
		}
	})
	return h
}

// onMain runs f on the main thread and waits for it.
func (h *harness) onMain(f func(m *mainThreadContext)) {
	h.t.Helper()
	done := make(chan struct{})
	require.NoError(h.t, h.h.RunOnMainThread(func() {
		defer close(done)
		f(h.rt.ctx.mainContext())
	}))
	select {
	case <-done:
	case <-time.After(waitTimeout):
		h.t.Fatal("main thread did not respond")
	}
}

// sync waits until the messages sent so far by the caller are handled.
func (h *harness) sync() {
	h.t.Helper()
	h.onMain(func(*mainThreadContext) {})
}

func (h *harness) wait(cond func() bool, msg string) {
	h.t.Helper()
	require.Eventually(h.t, cond, waitTimeout, time.Millisecond, msg)
}

func (h *harness) waitExit() int {
	h.t.Helper()
	select {
	case <-h.exited:
		return h.code
	case <-time.After(waitTimeout):
		h.t.Fatal("event loop did not exit")
		return 0
	}
}

func (h *harness) recorded() []RunEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]RunEvent(nil), h.events...)
}

func countEvents[E RunEvent](h *harness, match func(e E) bool) int {
	n := 0
	for _, e := range h.recorded() {
		if e, ok := e.(E); ok && (match == nil || match(e)) {
			n++
		}
	}
	return n
}

func windowEventsOf[E WindowEvent](h *harness, label string) []E {
	var evs []E
	for _, e := range h.recorded() {
		we, ok := e.(WindowRunEvent)
		if !ok || we.Label != label {
			continue
		}
		if e, ok := we.Event.(E); ok {
			evs = append(evs, e)
		}
	}
	return evs
}

func (h *harness) createWindow(label string, opts ...Option) *DetachedWindow {
	h.t.Helper()
	dw, err := h.h.CreateWindow(PendingWindow{Label: label, Options: opts})
	require.NoError(h.t, err)
	h.sync()
	return dw
}

func (h *harness) windowCount() int {
	h.t.Helper()
	var n int
	h.onMain(func(m *mainThreadContext) { n = m.windows.len() })
	return n
}

func (h *harness) liveWindows() int {
	return len(h.p.Windows())
}
