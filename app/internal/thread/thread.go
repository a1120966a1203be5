// SPDX-License-Identifier: Unlicense OR MIT

// Package thread identifies the operating system thread running the
// caller. Callers must lock their goroutine to its thread for the result
// to stay meaningful.
package thread

// ID identifies a thread.
type ID uint64

// Current returns the identifier of the calling thread.
func Current() ID {
	return current()
}
