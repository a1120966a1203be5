// SPDX-License-Identifier: Unlicense OR MIT

package driver

import "strings"

// Action is a set of window actions.
type Action uint

const (
	// ActionRaise requests that the platform bring this window to the top
	// of all open windows and focus it. Some platforms only allow this
	// when a window from the same application already has focus.
	ActionRaise Action = 1 << iota
	// ActionCenter centers the window on its monitor.
	// It is ignored in Fullscreen mode.
	ActionCenter
	// ActionMove moves a window directed by the user.
	ActionMove
	// ActionResize resizes a window directed by the user, from the
	// bottom right corner.
	ActionResize
	// ActionRequestAttention flashes the window's taskbar entry.
	ActionRequestAttention
	// ActionPrint opens the print dialog for the window contents.
	ActionPrint
)

// Each calls f for every single action in a, in ascending order.
func (a Action) Each(f func(Action)) {
	for b := Action(1); a != 0; b <<= 1 {
		if a&b != 0 {
			f(b)
			a &^= b
		}
	}
}

func (a Action) String() string {
	var buf strings.Builder
	a.Each(func(b Action) {
		if buf.Len() > 0 {
			buf.WriteByte('|')
		}
		buf.WriteString(b.string())
	})
	return buf.String()
}

func (a Action) string() string {
	switch a {
	case ActionRaise:
		return "ActionRaise"
	case ActionCenter:
		return "ActionCenter"
	case ActionMove:
		return "ActionMove"
	case ActionResize:
		return "ActionResize"
	case ActionRequestAttention:
		return "ActionRequestAttention"
	case ActionPrint:
		return "ActionPrint"
	}
	return ""
}
