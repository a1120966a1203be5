// SPDX-License-Identifier: Unlicense OR MIT

package app

import "errors"

var (
	// ErrLoopClosed is returned for requests made after the event loop
	// exited, and for queries still pending when it exits.
	ErrLoopClosed = errors.New("app: event loop closed")
	// ErrWindowNotFound is returned for requests addressing a window
	// that does not exist or is closing.
	ErrWindowNotFound = errors.New("app: window not found")
	// ErrWebviewNotFound is returned for requests addressing a webview
	// that does not exist.
	ErrWebviewNotFound = errors.New("app: webview not found")
	// ErrCreateWindow wraps failures of the native toolkit to create a
	// window.
	ErrCreateWindow = errors.New("app: failed to create window")
	// ErrCreateWebview wraps failures of the native toolkit to create a
	// webview.
	ErrCreateWebview = errors.New("app: failed to create webview")
	// ErrInvalidIcon wraps icon decoding failures.
	ErrInvalidIcon = errors.New("app: invalid icon")
	// ErrMainThread is returned by blocking calls that must not be made
	// from the main thread.
	ErrMainThread = errors.New("app: call would block the main thread")
)
