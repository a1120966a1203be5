// SPDX-License-Identifier: Unlicense OR MIT

package driver

import "image"

// CloseRequestedEvent is sent when the user asks to close a window.
type CloseRequestedEvent struct {
	Window WindowKey
}

// DestroyedEvent is sent after a native window is gone.
type DestroyedEvent struct {
	Window WindowKey
}

// ResizedEvent is sent when the client area of a window changes size.
type ResizedEvent struct {
	Window WindowKey
	Size   image.Point
}

// MovedEvent is sent when a window changes position.
type MovedEvent struct {
	Window   WindowKey
	Position image.Point
}

// FocusedEvent is sent when a window gains or loses focus.
type FocusedEvent struct {
	Window  WindowKey
	Focused bool
}

// ScaleFactorChangedEvent is sent when a window moves to a display with
// a different scale factor.
type ScaleFactorChangedEvent struct {
	Window      WindowKey
	ScaleFactor float64
	Size        image.Point
}

// ThemeChangedEvent is sent when the system theme of a window changes.
type ThemeChangedEvent struct {
	Window WindowKey
	Theme  Theme
}

// ResumedEvent is sent when the application is resumed.
type ResumedEvent struct{}

// DragDropKind is the phase of a drag and drop operation.
type DragDropKind uint8

const (
	DragEnter DragDropKind = iota
	DragOver
	Drop
	DragLeave
)

func (k DragDropKind) String() string {
	switch k {
	case DragEnter:
		return "enter"
	case DragOver:
		return "over"
	case Drop:
		return "drop"
	case DragLeave:
		return "leave"
	}
	return ""
}

// DragDrop describes drag and drop activity over a webview.
type DragDrop struct {
	Kind DragDropKind
	// Paths being dragged. Empty for DragOver and DragLeave.
	Paths    []string
	Position image.Point
}

func (CloseRequestedEvent) ImplementsEvent()     {}
func (DestroyedEvent) ImplementsEvent()          {}
func (ResizedEvent) ImplementsEvent()            {}
func (MovedEvent) ImplementsEvent()              {}
func (FocusedEvent) ImplementsEvent()            {}
func (ScaleFactorChangedEvent) ImplementsEvent() {}
func (ThemeChangedEvent) ImplementsEvent()       {}
func (ResumedEvent) ImplementsEvent()            {}
