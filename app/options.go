// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"image"
	"image/color"

	"github.com/loomui/loom/app/driver"
	"github.com/loomui/loom/unit"
)

// Option configures a window.
type Option func(unit.Metric, *Config)

// Config describes a window configuration.
type Config = driver.Config

// WindowMode is the window mode.
type WindowMode = driver.WindowMode

const (
	Windowed   = driver.Windowed
	Fullscreen = driver.Fullscreen
	Minimized  = driver.Minimized
	Maximized  = driver.Maximized
)

// defaultConfig is the configuration of windows created without
// options.
func defaultConfig() Config {
	return Config{
		Size:        image.Pt(800, 600),
		Decorated:   true,
		Resizable:   true,
		Maximizable: true,
		Minimizable: true,
		Closable:    true,
		Visible:     true,
		Focused:     true,
		Enabled:     true,
		Shadow:      true,
	}
}

// Title sets the title of the window.
func Title(t string) Option {
	return func(_ unit.Metric, cnf *Config) {
		cnf.Title = t
	}
}

// Size sets the size of the window. The mode will be changed to Windowed.
func Size(w, h unit.Dp) Option {
	if w <= 0 {
		panic("width must be larger than or equal to 0")
	}
	if h <= 0 {
		panic("height must be larger than or equal to 0")
	}
	return func(m unit.Metric, cnf *Config) {
		cnf.Mode = Windowed
		cnf.Size = image.Point{
			X: m.Dp(w),
			Y: m.Dp(h),
		}
	}
}

// MaxSize sets the maximum size of the window.
func MaxSize(w, h unit.Dp) Option {
	if w <= 0 {
		panic("width must be larger than or equal to 0")
	}
	if h <= 0 {
		panic("height must be larger than or equal to 0")
	}
	return func(m unit.Metric, cnf *Config) {
		cnf.MaxSize = image.Point{
			X: m.Dp(w),
			Y: m.Dp(h),
		}
	}
}

// MinSize sets the minimum size of the window.
func MinSize(w, h unit.Dp) Option {
	if w <= 0 {
		panic("width must be larger than or equal to 0")
	}
	if h <= 0 {
		panic("height must be larger than or equal to 0")
	}
	return func(m unit.Metric, cnf *Config) {
		cnf.MinSize = image.Point{
			X: m.Dp(w),
			Y: m.Dp(h),
		}
	}
}

// Position sets the outer position of the window.
func Position(x, y unit.Dp) Option {
	return func(m unit.Metric, cnf *Config) {
		cnf.Position = image.Point{
			X: m.Dp(x),
			Y: m.Dp(y),
		}
	}
}

// Mode sets the window mode.
func Mode(mode WindowMode) Option {
	return func(_ unit.Metric, cnf *Config) {
		cnf.Mode = mode
	}
}

// Decorated controls whether the platform draws window decorations.
func Decorated(enabled bool) Option {
	return func(_ unit.Metric, cnf *Config) {
		cnf.Decorated = enabled
	}
}

func Resizable(enabled bool) Option {
	return func(_ unit.Metric, cnf *Config) {
		cnf.Resizable = enabled
	}
}

func Maximizable(enabled bool) Option {
	return func(_ unit.Metric, cnf *Config) {
		cnf.Maximizable = enabled
	}
}

func Minimizable(enabled bool) Option {
	return func(_ unit.Metric, cnf *Config) {
		cnf.Minimizable = enabled
	}
}

func Closable(enabled bool) Option {
	return func(_ unit.Metric, cnf *Config) {
		cnf.Closable = enabled
	}
}

func Visible(visible bool) Option {
	return func(_ unit.Metric, cnf *Config) {
		cnf.Visible = visible
	}
}

// Focused requests keyboard focus for the window.
func Focused(focused bool) Option {
	return func(_ unit.Metric, cnf *Config) {
		cnf.Focused = focused
	}
}

// Enabled controls whether the window accepts input.
func Enabled(enabled bool) Option {
	return func(_ unit.Metric, cnf *Config) {
		cnf.Enabled = enabled
	}
}

// AlwaysOnTop keeps the window above other windows. It clears
// AlwaysOnBottom when set.
func AlwaysOnTop(on bool) Option {
	return func(_ unit.Metric, cnf *Config) {
		cnf.AlwaysOnTop = on
		if on {
			cnf.AlwaysOnBottom = false
		}
	}
}

// AlwaysOnBottom keeps the window below other windows. It clears
// AlwaysOnTop when set.
func AlwaysOnBottom(on bool) Option {
	return func(_ unit.Metric, cnf *Config) {
		cnf.AlwaysOnBottom = on
		if on {
			cnf.AlwaysOnTop = false
		}
	}
}

func SkipTaskbar(skip bool) Option {
	return func(_ unit.Metric, cnf *Config) {
		cnf.SkipTaskbar = skip
	}
}

// ContentProtected prevents the window contents from being captured.
func ContentProtected(protected bool) Option {
	return func(_ unit.Metric, cnf *Config) {
		cnf.ContentProtected = protected
	}
}

func VisibleOnAllWorkspaces(visible bool) Option {
	return func(_ unit.Metric, cnf *Config) {
		cnf.VisibleOnAllWorkspaces = visible
	}
}

func Shadow(enabled bool) Option {
	return func(_ unit.Metric, cnf *Config) {
		cnf.Shadow = enabled
	}
}

func Transparent(enabled bool) Option {
	return func(_ unit.Metric, cnf *Config) {
		cnf.Transparent = enabled
	}
}

// ColorTheme sets the window theme. ThemeAuto follows the system.
func ColorTheme(t driver.Theme) Option {
	return func(_ unit.Metric, cnf *Config) {
		cnf.Theme = t
	}
}

// Background sets the window background color.
func Background(c color.NRGBA) Option {
	return func(_ unit.Metric, cnf *Config) {
		cnf.Background = c
	}
}

// Icon sets the window icon from a decoded image. Use
// Window.SetIcon for encoded images.
func Icon(img image.Image) Option {
	return func(_ unit.Metric, cnf *Config) {
		cnf.Icon = img
	}
}

// CursorIcon sets the cursor shown over the window.
func CursorIcon(icon driver.CursorIcon) Option {
	return func(_ unit.Metric, cnf *Config) {
		cnf.Cursor.Icon = icon
	}
}

func CursorVisible(visible bool) Option {
	return func(_ unit.Metric, cnf *Config) {
		cnf.Cursor.Hidden = !visible
	}
}

// CursorGrab confines the cursor to the window.
func CursorGrab(grab bool) Option {
	return func(_ unit.Metric, cnf *Config) {
		cnf.Cursor.Grabbed = grab
	}
}

// IgnoreCursorEvents lets cursor events pass through the window.
func IgnoreCursorEvents(ignore bool) Option {
	return func(_ unit.Metric, cnf *Config) {
		cnf.Cursor.IgnoreEvents = ignore
	}
}

// ProgressBar sets the progress indicator of the window's taskbar
// entry.
func ProgressBar(p driver.Progress) Option {
	return func(_ unit.Metric, cnf *Config) {
		if p.Value < 0 {
			p.Value = 0
		}
		if p.Value > 100 {
			p.Value = 100
		}
		cnf.Progress = p
	}
}

// Badge sets the count shown on the window's taskbar entry.
func Badge(count int) Option {
	return func(_ unit.Metric, cnf *Config) {
		cnf.Badge = count
	}
}
