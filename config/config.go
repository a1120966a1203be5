// SPDX-License-Identifier: Unlicense OR MIT

// Package config loads window descriptions from YAML files.
//
// A file lists the windows an application opens at startup:
//
//	identifier: org.example.notes
//	windows:
//	  - label: main
//	    title: Notes
//	    url: https://example.com/
//	    width: 1024
//	    height: 768
//	    center: true
//
// Geometry is in dps. Flags that default to true, such as resizable or
// decorations, are only changed when present.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/loomui/loom/app/driver"
)

// Default window size in dps.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// Config is the contents of a configuration file.
type Config struct {
	// Identifier names the application; see app.ID.
	Identifier string   `yaml:"identifier"`
	Windows    []Window `yaml:"windows"`

	// dir is the directory of the file, for resolving relative paths.
	dir string
}

// Window describes a window and its optional content webview.
type Window struct {
	Label string `yaml:"label"`
	Title string `yaml:"title"`
	// URL, if set, is loaded in a webview filling the window.
	URL string `yaml:"url"`

	X         *float32 `yaml:"x"`
	Y         *float32 `yaml:"y"`
	Width     float32  `yaml:"width"`
	Height    float32  `yaml:"height"`
	MinWidth  float32  `yaml:"min_width"`
	MinHeight float32  `yaml:"min_height"`
	MaxWidth  float32  `yaml:"max_width"`
	MaxHeight float32  `yaml:"max_height"`
	Center    bool     `yaml:"center"`

	Resizable   *bool `yaml:"resizable"`
	Maximizable *bool `yaml:"maximizable"`
	Minimizable *bool `yaml:"minimizable"`
	Closable    *bool `yaml:"closable"`
	Decorations *bool `yaml:"decorations"`
	Visible     *bool `yaml:"visible"`
	Focus       *bool `yaml:"focus"`
	Shadow      *bool `yaml:"shadow"`

	Fullscreen             bool `yaml:"fullscreen"`
	Maximized              bool `yaml:"maximized"`
	Transparent            bool `yaml:"transparent"`
	AlwaysOnTop            bool `yaml:"always_on_top"`
	AlwaysOnBottom         bool `yaml:"always_on_bottom"`
	SkipTaskbar            bool `yaml:"skip_taskbar"`
	ContentProtected       bool `yaml:"content_protected"`
	VisibleOnAllWorkspaces bool `yaml:"visible_on_all_workspaces"`

	// Theme is "auto", "light" or "dark".
	Theme string `yaml:"theme"`
	// BackgroundColor is a #rgb, #rrggbb or #rrggbbaa color.
	BackgroundColor string `yaml:"background_color"`
	// Icon is the path of an icon file, relative to the configuration
	// file.
	Icon string `yaml:"icon"`

	DataDirectory string   `yaml:"data_directory"`
	Incognito     bool     `yaml:"incognito"`
	DevTools      bool     `yaml:"devtools"`
	DragDrop      *bool    `yaml:"drag_drop"`
	UserAgent     string   `yaml:"user_agent"`
	InitScripts   []string `yaml:"init_scripts"`
}

// Load decodes and validates a configuration. Unknown keys are errors.
// An empty document yields an empty configuration.
func Load(r io.Reader) (*Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	c := new(Config)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFile loads the configuration file at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	c, err := Load(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.dir = filepath.Dir(path)
	return c, nil
}

// Validate reports every invalid window description.
func (c *Config) Validate() error {
	var errs []error
	labels := make(map[string]int)
	for i, w := range c.Windows {
		if w.Label != "" {
			if j, dup := labels[w.Label]; dup {
				errs = append(errs, fmt.Errorf("config: windows[%d]: label %q already used by windows[%d]", i, w.Label, j))
			}
			labels[w.Label] = i
		}
		if err := w.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("config: windows[%d]: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// Validate checks the window description.
func (w *Window) Validate() error {
	var errs []error
	for _, d := range []struct {
		name string
		v    float32
	}{
		{"width", w.Width}, {"height", w.Height},
		{"min_width", w.MinWidth}, {"min_height", w.MinHeight},
		{"max_width", w.MaxWidth}, {"max_height", w.MaxHeight},
	} {
		if d.v < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %g", d.name, d.v))
		}
	}
	if w.MaxWidth > 0 && w.MinWidth > w.MaxWidth {
		errs = append(errs, fmt.Errorf("min_width %g exceeds max_width %g", w.MinWidth, w.MaxWidth))
	}
	if w.MaxHeight > 0 && w.MinHeight > w.MaxHeight {
		errs = append(errs, fmt.Errorf("min_height %g exceeds max_height %g", w.MinHeight, w.MaxHeight))
	}
	if (w.X == nil) != (w.Y == nil) {
		errs = append(errs, errors.New("x and y must be set together"))
	}
	if w.Fullscreen && w.Maximized {
		errs = append(errs, errors.New("fullscreen and maximized are exclusive"))
	}
	if _, ok := driver.ParseTheme(w.Theme); !ok {
		errs = append(errs, fmt.Errorf("unknown theme %q", w.Theme))
	}
	if w.BackgroundColor != "" {
		if _, err := ParseColor(w.BackgroundColor); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ParseColor parses a #rgb, #rrggbb or #rrggbbaa color.
func ParseColor(s string) (color.NRGBA, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return color.NRGBA{}, fmt.Errorf("color %q: missing #", s)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("color %q: invalid length", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
