// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"slices"
	"sync"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSenderOrder(t *testing.T) {
	h := newHarness(t, nil)
	properties := gopter.NewProperties(nil)
	properties.Property("requests from one goroutine apply in order", prop.ForAll(
		func(xs []int) bool {
			var applied []int // main thread only
			for _, x := range xs {
				if err := h.h.RunOnMainThread(func() { applied = append(applied, x) }); err != nil {
					return false
				}
			}
			var got []int
			h.onMain(func(*mainThreadContext) { got = slices.Clone(applied) })
			return slices.Equal(got, xs)
		},
		gen.SliceOf(gen.Int()),
	))
	properties.TestingRun(t)
}

func TestConcurrentSenders(t *testing.T) {
	const (
		senders = 4
		each    = 200
	)
	h := newHarness(t, nil)
	var applied [senders][]int // main thread only
	var wg sync.WaitGroup
	for s := 0; s < senders; s++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < each; i++ {
				assert.NoError(t, h.h.RunOnMainThread(func() { applied[s] = append(applied[s], i) }))
			}
		}()
	}
	wg.Wait()
	h.onMain(func(*mainThreadContext) {
		for s := range applied {
			assert.Len(t, applied[s], each)
			assert.True(t, slices.IsSorted(applied[s]), "sender %d out of order", s)
		}
	})
}

func TestWriteThenRead(t *testing.T) {
	h := newHarness(t, nil)
	dw := h.createWindow("main")
	properties := gopter.NewProperties(nil)
	properties.Property("a title query observes the preceding set", prop.ForAll(
		func(title string) bool {
			if err := dw.Window.SetTitle(title); err != nil {
				return false
			}
			got, err := dw.Window.Title()
			return err == nil && got == title
		},
		gen.AnyString(),
	))
	properties.TestingRun(t)
}

func TestQueryMissingWindow(t *testing.T) {
	h := newHarness(t, nil)
	ghost := newWindow(h.rt.ctx, 4242, "ghost")

	_, err := ghost.Title()
	assert.ErrorIs(t, err, ErrWindowNotFound)
	_, err = ghost.IsVisible()
	assert.ErrorIs(t, err, ErrWindowNotFound)
	_, err = ghost.Webviews()
	assert.ErrorIs(t, err, ErrWindowNotFound)
	assert.NoError(t, ghost.SetTitle("ignored"))
	assert.NoError(t, ghost.Close())

	v := newWebview(h.rt.ctx, 99, "ghost", newWindowRef(4242))
	_, err = v.URL()
	assert.ErrorIs(t, err, ErrWebviewNotFound)
	assert.ErrorIs(t, v.Reparent(1), ErrWebviewNotFound)
}

func TestQueryClosedWindow(t *testing.T) {
	h := newHarness(t, func(e RunEvent) {
		if e, ok := e.(ExitRequestedEvent); ok && !e.HasCode {
			e.Prevent()
		}
	})
	dw := h.createWindow("main")
	require.NoError(t, dw.Window.Close())
	h.wait(func() bool { return h.liveWindows() == 0 }, "window destroyed")
	_, err := dw.Window.Title()
	assert.ErrorIs(t, err, ErrWindowNotFound)
}

func TestInlineOnMainThread(t *testing.T) {
	h := newHarness(t, nil)
	dw := h.createWindow("main")
	h.onMain(func(m *mainThreadContext) {
		assert.NoError(t, dw.Window.SetTitle("inline"))
		title, err := dw.Window.Title()
		assert.NoError(t, err)
		assert.Equal(t, "inline", title)

		assert.NoError(t, dw.Window.Close())
		_, live := m.windows.live(dw.ID)
		assert.True(t, live, "close must not run inline")
	})
	h.wait(func() bool { return h.liveWindows() == 0 }, "queued close applied")
}

func TestQueuedOnlyMessagesPanicInline(t *testing.T) {
	h := newHarness(t, nil)
	dw := h.createWindow("main")
	h.onMain(func(m *mainThreadContext) {
		assert.Panics(t, func() { m.handleMessage(windowMessage{id: dw.ID, op: closeWindow{}}) })
		assert.Panics(t, func() { m.handleMessage(windowMessage{id: dw.ID, op: destroyWindow{}}) })
		assert.Panics(t, func() { m.handleMessage(requestExitMessage{code: 1}) })
		assert.Panics(t, func() { m.handleMessage(userEventMessage{}) })
	})
}

func TestDispatchModes(t *testing.T) {
	queued := []message{
		windowMessage{op: closeWindow{}},
		windowMessage{op: destroyWindow{}},
		requestExitMessage{},
		userEventMessage{},
		createRawWindowMessage{},
		webviewMessage{op: webviewEvent{}},
	}
	for _, m := range queued {
		assert.Equal(t, modeQueued, m.mode(), "%T", m)
	}
	inline := []message{
		taskMessage{},
		createWindowMessage{},
		createWebviewMessage{},
		windowMessage{op: windowCommand{}},
		windowMessage{op: windowQuery[string]{}},
		webviewMessage{op: reparentWebview{}},
		platformQuery[int]{},
	}
	for _, m := range inline {
		assert.Equal(t, modeInline, m.mode(), "%T", m)
	}
}

func TestCreateRawWindow(t *testing.T) {
	h := newHarness(t, nil)
	w, err := h.h.CreateRawWindow("raw", Title("raw window"))
	require.NoError(t, err)
	title, err := w.Title()
	require.NoError(t, err)
	assert.Equal(t, "raw window", title)

	h.onMain(func(*mainThreadContext) {
		_, err := h.h.CreateRawWindow("inline")
		assert.ErrorIs(t, err, ErrMainThread)
	})
}

func TestCreateRawWindowFailure(t *testing.T) {
	h := newHarness(t, nil)
	h.p.FailWindows(assert.AnError)
	_, err := h.h.CreateRawWindow("raw")
	assert.ErrorIs(t, err, ErrCreateWindow)
	assert.Equal(t, 0, h.windowCount())
	assert.Equal(t, 0, h.rt.ctx.windowIDs.len())
}
