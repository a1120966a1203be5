// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/loomui/loom/app/driver"
	applog "github.com/loomui/loom/app/internal/log"
	"github.com/loomui/loom/app/internal/mailbox"
	"github.com/loomui/loom/app/internal/thread"
	"github.com/loomui/loom/io/event"
)

// Runtime runs the event loop of a native platform. The goroutine
// calling New becomes the main thread: it is locked to its operating
// system thread and must be the one calling Run.
type Runtime struct {
	ctx    *dispatchContext
	handle *Handle
	loop   *eventLoop
}

// RuntimeOption configures a Runtime.
type RuntimeOption func(*runtimeConfig)

type runtimeConfig struct {
	log       context.Context
	logOutput io.Writer
	tracers   trace.TracerProvider
	meters    metric.MeterProvider
	plugins   []Plugin
}

// WithLogContext makes the runtime log through the logger carried by
// ctx. See goa.design/clue/log.
func WithLogContext(ctx context.Context) RuntimeOption {
	return func(c *runtimeConfig) {
		c.log = ctx
	}
}

// WithLogOutput directs the default logger to w.
func WithLogOutput(w io.Writer) RuntimeOption {
	return func(c *runtimeConfig) {
		c.logOutput = w
	}
}

// WithTracerProvider sets the provider of the runtime spans. The global
// provider is used by default.
func WithTracerProvider(tp trace.TracerProvider) RuntimeOption {
	return func(c *runtimeConfig) {
		c.tracers = tp
	}
}

// WithMeterProvider sets the provider of the runtime metrics. The
// global provider is used by default.
func WithMeterProvider(mp metric.MeterProvider) RuntimeOption {
	return func(c *runtimeConfig) {
		c.meters = mp
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p Plugin) RuntimeOption {
	return func(c *runtimeConfig) {
		c.plugins = append(c.plugins, p)
	}
}

// New creates a runtime for the platform p and makes the calling
// goroutine the main thread.
func New(p driver.Platform, opts ...RuntimeOption) (*Runtime, error) {
	runtime.LockOSThread()
	var cfg runtimeConfig
	for _, o := range opts {
		o(&cfg)
	}
	logCtx := cfg.log
	if logCtx == nil {
		logCtx = applog.New(cfg.logOutput)
	}
	c := &dispatchContext{
		log:        logCtx,
		tel:        newTelemetry(cfg.tracers, cfg.meters),
		mainThread: thread.Current(),
		queue:      mailbox.New[envelope](),
		windowIDs:  newWindowIDs(),
		plugins:    new(plugins),
	}
	c.main = &mainThreadContext{
		ctx:         c,
		platform:    p,
		windows:     newWindowsStore(),
		webContexts: newWebContextStore(),
	}
	for _, pl := range cfg.plugins {
		c.plugins.add(pl)
	}
	if err := p.Start(queueSink{q: c.queue}); err != nil {
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("app: start platform: %w", err)
	}
	h := &Handle{ctx: c}
	return &Runtime{
		ctx:    c,
		handle: h,
		loop:   &eventLoop{c: c, m: c.main, handle: h},
	}, nil
}

// Handle returns a handle to the runtime, safe for use from any
// goroutine.
func (r *Runtime) Handle() *Handle {
	return r.handle
}

// CreateWindow is shorthand for r.Handle().CreateWindow.
func (r *Runtime) CreateWindow(pw PendingWindow) (*DetachedWindow, error) {
	return r.handle.CreateWindow(pw)
}

// CreateWebview is shorthand for r.Handle().CreateWebview.
func (r *Runtime) CreateWebview(window WindowID, pv PendingWebview) (*Webview, error) {
	return r.handle.CreateWebview(window, pv)
}

// Run runs the event loop until it exits and returns the exit code.
// The callback receives a ReadyEvent first and an ExitEvent last. The
// loop exits when the last window is destroyed or an exit is requested,
// unless the callback prevents the ExitRequestedEvent.
//
// Run panics if called from a goroutine other than the one that called
// New.
func (r *Runtime) Run(callback func(e RunEvent)) int {
	r.mustOwnThread("Run")
	r.loop.callback = callback
	r.loop.run(false)
	return r.loop.code
}

// RunIteration processes the pending events and messages, then returns.
// It reports whether the event loop is still running.
func (r *Runtime) RunIteration(callback func(e RunEvent)) bool {
	r.mustOwnThread("RunIteration")
	r.loop.callback = callback
	r.loop.run(true)
	return !r.loop.done
}

// ExitCode returns the exit code of a finished run.
func (r *Runtime) ExitCode() int {
	return r.loop.code
}

func (r *Runtime) mustOwnThread(method string) {
	if !r.ctx.onMainThread() {
		panic("app: " + method + " called outside the goroutine that created the runtime")
	}
}

// queueSink posts native events to the mailbox. Events arriving after
// the loop exited are dropped.
type queueSink struct {
	q *mailbox.Queue[envelope]
}

func (s queueSink) Event(e event.Event) {
	_ = s.q.Send(envelope{native: e})
}
