// SPDX-License-Identifier: Unlicense OR MIT

// Package driver defines the interface between the dispatch runtime and
// a native windowing toolkit.
//
// Every method of Platform, Window, Webview and WebContext is called on
// the main thread only. Implementations deliver native events through
// the Sink passed to Platform.Start; a Sink is safe for concurrent use.
package driver

import (
	"errors"
	"image"
	"image/color"

	"github.com/loomui/loom/io/event"
)

// ErrNotSupported is returned by platforms for operations they don't
// implement.
var ErrNotSupported = errors.New("driver: operation not supported")

// WindowKey identifies a native window for its entire lifetime. Keys
// are allocated by the platform and never reused.
type WindowKey uint64

// Platform is a native windowing toolkit.
type Platform interface {
	// Start prepares the platform for delivering events to s. It is
	// called once, before any window is created.
	Start(s Sink) error
	// Stop releases the platform. No events are delivered after Stop
	// returns.
	Stop()
	NewWindow(cnf Config) (Window, error)
	// NewWebContext creates the shared browser state for the data
	// directory dir. The empty dir denotes the default context.
	NewWebContext(dir string) (WebContext, error)
	NewWebview(parent Window, ctx WebContext, cnf WebviewConfig) (Webview, error)
	Monitors() []Monitor
	PrimaryMonitor() (Monitor, bool)
	CursorPosition() (image.Point, error)
}

// Sink receives native events. It must not block.
type Sink interface {
	Event(e event.Event)
}

// Window is a native window.
type Window interface {
	Key() WindowKey
	// Config returns the current window configuration.
	Config() Config
	// Configure applies the differences between cnf and the current
	// configuration.
	Configure(cnf Config) error
	// Perform the actions specified as a bitwise combination of
	// Action values.
	Perform(a Action) error
	ScaleFactor() float64
	// InnerPosition returns the position of the client area in pixels.
	InnerPosition() (image.Point, error)
	// OuterSize returns the size of the window including decorations.
	OuterSize() image.Point
	// Monitor returns the monitor containing the window.
	Monitor() (Monitor, bool)
	SetCursorPosition(p image.Point) error
	// Destroy the window. The platform delivers a DestroyedEvent when
	// the window is gone.
	Destroy()
}

// WebContext is the browser state shared by webviews using the same
// data directory.
type WebContext interface {
	DataDir() string
	// Release the context. It is called once, after the last webview
	// using the context is gone.
	Release()
}

// Webview is a native webview embedded in a Window.
type Webview interface {
	// Bounds returns the webview area relative to its window, in pixels.
	Bounds() (image.Rectangle, error)
	SetBounds(r image.Rectangle) error
	URL() (string, error)
	Navigate(url string) error
	EvaluateScript(script string) error
	SetVisible(visible bool) error
	Focus() error
	SetZoom(scale float64) error
	SetBackground(c color.NRGBA) error
	ClearBrowsingData() error
	Print() error
	OpenDevtools()
	CloseDevtools()
	IsDevtoolsOpen() bool
	// Reparent moves the webview into the window parent.
	Reparent(parent Window) error
	Close()
}

// WebviewConfig describes a webview to be created.
type WebviewConfig struct {
	Label string
	URL   string
	// Bounds of the webview relative to its window, in pixels.
	Bounds      image.Rectangle
	Transparent bool
	Incognito   bool
	Focused     bool
	DevTools    bool
	Background  color.NRGBA
	UserAgent   string
	// InitScripts run before each page load.
	InitScripts []string
	// OnDragDrop, if set, is called for drag and drop activity over the
	// webview. It may be called from any goroutine.
	OnDragDrop func(d DragDrop)
	// OnNavigation, if set, decides whether a navigation proceeds.
	OnNavigation func(url string) bool
	// OnPageLoad, if set, is called when a page starts and finishes
	// loading.
	OnPageLoad func(p PageLoad)
}

// Monitor describes a display.
type Monitor struct {
	Name string
	// Position is the top left corner of the monitor in pixels.
	Position image.Point
	// Size in pixels.
	Size        image.Point
	ScaleFactor float64
}

// Bounds returns the area covered by m, in pixels.
func (m Monitor) Bounds() image.Rectangle {
	return image.Rectangle{Min: m.Position, Max: m.Position.Add(m.Size)}
}

// PageLoad describes a page load transition.
type PageLoad struct {
	URL      string
	Finished bool
}
