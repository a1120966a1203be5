// SPDX-License-Identifier: Unlicense OR MIT

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/loomui/loom/app"
	"github.com/loomui/loom/app/driver"
	"github.com/loomui/loom/unit"
)

// Pending returns the window descriptions ready for creation.
func (c *Config) Pending() ([]app.PendingWindow, error) {
	pws := make([]app.PendingWindow, 0, len(c.Windows))
	for i, w := range c.Windows {
		pw, err := w.pending(c.dir)
		if err != nil {
			return nil, fmt.Errorf("config: windows[%d]: %w", i, err)
		}
		pws = append(pws, pw)
	}
	return pws, nil
}

// Pending returns w ready for creation. Relative paths are resolved
// against the working directory.
func (w *Window) Pending() (app.PendingWindow, error) {
	return w.pending("")
}

func (w *Window) pending(dir string) (app.PendingWindow, error) {
	pw := app.PendingWindow{
		Label:   w.Label,
		Options: w.Options(),
		Center:  w.Center,
	}
	if w.Icon != "" {
		path := w.Icon
		if !filepath.IsAbs(path) && dir != "" {
			path = filepath.Join(dir, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return app.PendingWindow{}, err
		}
		pw.Icon = data
	}
	if w.URL != "" {
		dataDir, err := app.WebviewDataDir(w.DataDirectory)
		if err != nil {
			return app.PendingWindow{}, err
		}
		pv := &app.PendingWebview{
			URL:         w.URL,
			DataDir:     dataDir,
			Transparent: w.Transparent,
			Incognito:   w.Incognito,
			DevTools:    w.DevTools,
			UserAgent:   w.UserAgent,
			InitScripts: w.InitScripts,
			DragDrop:    orTrue(w.DragDrop),
		}
		if w.BackgroundColor != "" {
			pv.Background, _ = ParseColor(w.BackgroundColor)
		}
		pw.Webview = pv
	}
	return pw, nil
}

// Options returns the window options described by w. w must be valid.
func (w *Window) Options() []app.Option {
	width, height := w.Width, w.Height
	if width == 0 {
		width = DefaultWidth
	}
	if height == 0 {
		height = DefaultHeight
	}
	opts := []app.Option{
		app.Title(w.Title),
		app.Size(unit.Dp(width), unit.Dp(height)),
		app.Resizable(orTrue(w.Resizable)),
		app.Maximizable(orTrue(w.Maximizable)),
		app.Minimizable(orTrue(w.Minimizable)),
		app.Closable(orTrue(w.Closable)),
		app.Decorated(orTrue(w.Decorations)),
		app.Visible(orTrue(w.Visible)),
		app.Focused(orTrue(w.Focus)),
		app.Shadow(orTrue(w.Shadow)),
		app.Transparent(w.Transparent),
		app.SkipTaskbar(w.SkipTaskbar),
		app.ContentProtected(w.ContentProtected),
		app.VisibleOnAllWorkspaces(w.VisibleOnAllWorkspaces),
	}
	if w.MinWidth > 0 && w.MinHeight > 0 {
		opts = append(opts, app.MinSize(unit.Dp(w.MinWidth), unit.Dp(w.MinHeight)))
	}
	if w.MaxWidth > 0 && w.MaxHeight > 0 {
		opts = append(opts, app.MaxSize(unit.Dp(w.MaxWidth), unit.Dp(w.MaxHeight)))
	}
	if w.X != nil && w.Y != nil {
		opts = append(opts, app.Position(unit.Dp(*w.X), unit.Dp(*w.Y)))
	}
	switch {
	case w.Fullscreen:
		opts = append(opts, app.Mode(app.Fullscreen))
	case w.Maximized:
		opts = append(opts, app.Mode(app.Maximized))
	}
	switch {
	case w.AlwaysOnTop:
		opts = append(opts, app.AlwaysOnTop(true))
	case w.AlwaysOnBottom:
		opts = append(opts, app.AlwaysOnBottom(true))
	}
	if t, ok := driver.ParseTheme(w.Theme); ok {
		opts = append(opts, app.ColorTheme(t))
	}
	if c, err := ParseColor(w.BackgroundColor); err == nil {
		opts = append(opts, app.Background(c))
	}
	return opts
}

func orTrue(b *bool) bool {
	return b == nil || *b
}
