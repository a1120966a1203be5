// SPDX-License-Identifier: Unlicense OR MIT

/*
Package app runs native windows and webviews from any goroutine.

Native windowing toolkits must be driven from a single thread. A Runtime
owns that thread and every native object; all other goroutines talk to
it through handles that route requests to it.

# Main Thread

The goroutine calling New becomes the main thread. New locks it to its
operating system thread, and Run must be called from the same goroutine.
Most programs call New and Run from the main function:

	func main() {
		rt, err := app.New(platform)
		if err != nil {
			log.Fatal(err)
		}
		go work(rt.Handle())
		os.Exit(rt.Run(func(e app.RunEvent) {}))
	}

# Handles

Window, Webview and Handle values are safe for concurrent use. A request
made on the main thread runs before the method returns. A request made
from any other goroutine is queued; requests from one goroutine are
applied in the order they were made. Methods returning values wait for
the answer and fail with ErrWindowNotFound or ErrWebviewNotFound if the
target is gone, and with ErrLoopClosed after the event loop exited.

Closing and destroying windows and requesting an exit re-enter the event
loop, so they are always queued, even on the main thread.

# Closing

Closing a window delivers a CloseRequestedEvent to the window listeners
and then to the run callback; either may prevent it. When the last
window is destroyed the callback receives an ExitRequestedEvent, and the
loop exits unless the callback prevents it.
*/
package app
