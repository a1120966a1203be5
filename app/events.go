// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"image"

	"github.com/loomui/loom/app/driver"
	"github.com/loomui/loom/io/event"
)

// WindowEvent is an event concerning a window.
type WindowEvent interface {
	event.Event
	implementsWindowEvent()
}

// WebviewEvent is an event concerning a webview.
type WebviewEvent interface {
	event.Event
	implementsWebviewEvent()
}

// RunEvent is an event delivered to the callback of Runtime.Run.
type RunEvent interface {
	implementsRunEvent()
}

// A ResizedEvent is sent after the client area of a window changed size.
// Webviews following the window size are already resized.
type ResizedEvent struct {
	// Size in pixels.
	Size image.Point
}

// A MovedEvent is sent after a window moved.
type MovedEvent struct {
	Position image.Point
}

// A CloseRequestedEvent is sent when a window is about to close. Calling
// Prevent from a listener or the run callback keeps the window open.
type CloseRequestedEvent struct {
	signal *Signal
}

// A DestroyedEvent is sent after a window is gone.
type DestroyedEvent struct{}

type FocusedEvent struct {
	Focused bool
}

type ScaleFactorChangedEvent struct {
	ScaleFactor float64
	// Size is the new client area size in pixels.
	Size image.Point
}

type ThemeChangedEvent struct {
	Theme driver.Theme
}

// A DragDropEvent describes drag and drop activity. It is a window event
// for webviews filling their window and a webview event otherwise.
type DragDropEvent struct {
	driver.DragDrop
}

// Prevent keeps the window open.
func (e CloseRequestedEvent) Prevent() {
	e.signal.Prevent()
}

// ReadyEvent is the first event of a run.
type ReadyEvent struct{}

// ResumedEvent is sent when the application resumes.
type ResumedEvent struct{}

// WindowRunEvent carries a window event to the run callback.
type WindowRunEvent struct {
	Window WindowID
	Label  string
	Event  WindowEvent
}

// WebviewRunEvent carries a webview event to the run callback.
type WebviewRunEvent struct {
	Webview WebviewID
	Label   string
	Event   WebviewEvent
}

// UserEvent carries a payload sent with Handle.SendEvent.
type UserEvent struct {
	Payload any
}

// ExitRequestedEvent is sent when the last window closed or an exit was
// requested. Calling Prevent keeps the event loop running.
type ExitRequestedEvent struct {
	// Code is the requested exit code. It is valid only if HasCode is
	// set; exits caused by closing the last window carry no code.
	Code    int
	HasCode bool
	signal  *Signal
}

// Prevent keeps the event loop running.
func (e ExitRequestedEvent) Prevent() {
	e.signal.Prevent()
}

// MainEventsClearedEvent is sent after the runtime processed all pending
// events and messages.
type MainEventsClearedEvent struct{}

// ExitEvent is the last event of a run.
type ExitEvent struct{}

// Signal collects vetoes from event handlers. It is safe for concurrent
// use, but vetoes only count while the event is being delivered.
type Signal struct {
	c chan struct{}
}

func newSignal() *Signal {
	return &Signal{c: make(chan struct{}, 1)}
}

// Prevent records a veto.
func (s *Signal) Prevent() {
	if s == nil {
		return
	}
	select {
	case s.c <- struct{}{}:
	default:
	}
}

func (s *Signal) prevented() bool {
	select {
	case <-s.c:
		return true
	default:
		return false
	}
}

func (ResizedEvent) ImplementsEvent()            {}
func (MovedEvent) ImplementsEvent()              {}
func (CloseRequestedEvent) ImplementsEvent()     {}
func (DestroyedEvent) ImplementsEvent()          {}
func (FocusedEvent) ImplementsEvent()            {}
func (ScaleFactorChangedEvent) ImplementsEvent() {}
func (ThemeChangedEvent) ImplementsEvent()       {}
func (DragDropEvent) ImplementsEvent()           {}

func (ResizedEvent) implementsWindowEvent()            {}
func (MovedEvent) implementsWindowEvent()              {}
func (CloseRequestedEvent) implementsWindowEvent()     {}
func (DestroyedEvent) implementsWindowEvent()          {}
func (FocusedEvent) implementsWindowEvent()            {}
func (ScaleFactorChangedEvent) implementsWindowEvent() {}
func (ThemeChangedEvent) implementsWindowEvent()       {}
func (DragDropEvent) implementsWindowEvent()           {}

func (DragDropEvent) implementsWebviewEvent() {}

func (ReadyEvent) implementsRunEvent()             {}
func (ResumedEvent) implementsRunEvent()           {}
func (WindowRunEvent) implementsRunEvent()         {}
func (WebviewRunEvent) implementsRunEvent()        {}
func (UserEvent) implementsRunEvent()              {}
func (ExitRequestedEvent) implementsRunEvent()     {}
func (MainEventsClearedEvent) implementsRunEvent() {}
func (ExitEvent) implementsRunEvent()              {}
