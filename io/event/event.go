// SPDX-License-Identifier: Unlicense OR MIT

// Package event contains types for event handling.
package event

// Event is the marker interface for events.
type Event interface {
	ImplementsEvent()
}

// ID identifies a registered listener. IDs are allocated from
// monotonically increasing counters and never reused within a
// runtime.
type ID uint32

// Listener handles events of type E. Listeners run on the main thread.
type Listener[E Event] func(E)
