// SPDX-License-Identifier: Unlicense OR MIT

//go:build !linux && !windows
// +build !linux,!windows

package thread

import "github.com/petermattis/goid"

// current returns the goroutine id. A goroutine locked to its thread
// identifies that thread.
func current() ID {
	return ID(goid.Get())
}
