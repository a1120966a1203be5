// SPDX-License-Identifier: Unlicense OR MIT

package driver

import (
	"image"
	"image/color"
	"strings"
)

// Config describes a Window configuration. Geometry is in pixels.
type Config struct {
	Title string
	// Position is the outer position of the window.
	Position image.Point
	// Size is the size of the client area.
	Size    image.Point
	MinSize image.Point
	MaxSize image.Point
	Mode    WindowMode
	// Decorated reports whether the window has native decorations.
	Decorated   bool
	Resizable   bool
	Maximizable bool
	Minimizable bool
	Closable    bool
	Visible     bool
	Focused     bool
	Enabled     bool

	AlwaysOnTop            bool
	AlwaysOnBottom         bool
	SkipTaskbar            bool
	ContentProtected       bool
	VisibleOnAllWorkspaces bool
	Shadow                 bool
	Transparent            bool

	// Theme is the requested theme. ThemeAuto follows the system.
	Theme Theme
	// Background color. A zero alpha leaves the native default.
	Background color.NRGBA
	// Icon is the window icon, or nil for the platform default.
	Icon   image.Image
	Cursor Cursor
	// ProgressBar state shown in the taskbar, where supported.
	Progress Progress
	// Badge is the count shown on the window's taskbar entry. Zero
	// hides it.
	Badge int
}

// Cursor describes the cursor state for a window.
type Cursor struct {
	Icon         CursorIcon
	Hidden       bool
	Grabbed      bool
	IgnoreEvents bool
}

// Progress describes a taskbar progress indicator.
type Progress struct {
	State ProgressState
	// Value in the range [0, 100].
	Value int
}

// WindowMode is the window mode (WindowMode.Option sets it).
type WindowMode uint8

const (
	// Windowed is the normal window mode with OS specific window decorations.
	Windowed WindowMode = iota
	// Fullscreen is the full screen window mode.
	Fullscreen
	// Minimized is for systems where the window can be minimized to an icon.
	Minimized
	// Maximized is for systems where the size of the window can be set to the
	// full screen size.
	Maximized
)

func (m WindowMode) String() string {
	switch m {
	case Windowed:
		return "windowed"
	case Fullscreen:
		return "fullscreen"
	case Minimized:
		return "minimized"
	case Maximized:
		return "maximized"
	}
	return ""
}

// Theme is a window color theme.
type Theme uint8

const (
	ThemeAuto Theme = iota
	ThemeLight
	ThemeDark
)

func (t Theme) String() string {
	switch t {
	case ThemeLight:
		return "light"
	case ThemeDark:
		return "dark"
	}
	return "auto"
}

// ParseTheme parses the names returned by Theme.String.
func ParseTheme(s string) (Theme, bool) {
	switch strings.ToLower(s) {
	case "", "auto":
		return ThemeAuto, true
	case "light":
		return ThemeLight, true
	case "dark":
		return ThemeDark, true
	}
	return ThemeAuto, false
}

// CursorIcon names a system cursor.
type CursorIcon uint8

const (
	CursorDefault CursorIcon = iota
	CursorCrosshair
	CursorPointer
	CursorText
	CursorWait
	CursorMove
	CursorNotAllowed
	CursorGrab
	CursorGrabbing
	CursorHelp
	CursorProgress
)

// ProgressState is the state of a taskbar progress indicator.
type ProgressState uint8

const (
	ProgressNone ProgressState = iota
	ProgressNormal
	ProgressIndeterminate
	ProgressPaused
	ProgressError
)
