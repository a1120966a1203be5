// SPDX-License-Identifier: Unlicense OR MIT

//go:build (linux && !android) || freebsd || openbsd

package x11

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/loomui/loom/app/driver"
)

// netState maps a configuration flag to a _NET_WM_STATE atom.
type netState struct {
	atom string
	set  func(cnf driver.Config) bool
}

var netStateTable = []netState{
	{"_NET_WM_STATE_FULLSCREEN", func(c driver.Config) bool { return c.Mode == driver.Fullscreen }},
	{"_NET_WM_STATE_MAXIMIZED_HORZ", func(c driver.Config) bool { return c.Mode == driver.Maximized }},
	{"_NET_WM_STATE_MAXIMIZED_VERT", func(c driver.Config) bool { return c.Mode == driver.Maximized }},
	{"_NET_WM_STATE_ABOVE", func(c driver.Config) bool { return c.AlwaysOnTop }},
	{"_NET_WM_STATE_BELOW", func(c driver.Config) bool { return c.AlwaysOnBottom && !c.AlwaysOnTop }},
	{"_NET_WM_STATE_SKIP_TASKBAR", func(c driver.Config) bool { return c.SkipTaskbar }},
	{"_NET_WM_STATE_STICKY", func(c driver.Config) bool { return c.VisibleOnAllWorkspaces }},
}

// netStates returns the _NET_WM_STATE atoms for cnf.
func netStates(cnf driver.Config) []string {
	var atoms []string
	for _, s := range netStateTable {
		if s.set(cnf) {
			atoms = append(atoms, s.atom)
		}
	}
	return atoms
}

type stateChange struct {
	action int
	atom   string
}

// stateChanges returns the _NET_WM_STATE requests turning old into cnf.
func stateChanges(old, cnf driver.Config) []stateChange {
	var cs []stateChange
	for _, s := range netStateTable {
		was, is := s.set(old), s.set(cnf)
		switch {
		case is && !was:
			cs = append(cs, stateChange{ewmh.StateAdd, s.atom})
		case was && !is:
			cs = append(cs, stateChange{ewmh.StateRemove, s.atom})
		}
	}
	return cs
}

// scaleFromResources derives the UI scale from the Xft.dpi entry of an
// X resource database string.
func scaleFromResources(res string) float64 {
	// Default DPI of most desktop toolkits.
	const defaultDPI = 96
	sc := bufio.NewScanner(strings.NewReader(res))
	for sc.Scan() {
		name, val, ok := strings.Cut(sc.Text(), ":")
		if !ok || strings.TrimSpace(name) != "Xft.dpi" {
			continue
		}
		dpi, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil || dpi <= 0 {
			return 1
		}
		return dpi / defaultDPI
	}
	return 1
}
