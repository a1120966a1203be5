// SPDX-License-Identifier: Unlicense OR MIT

package thread

import (
	"runtime"
	"testing"
)

func TestCurrent(t *testing.T) {
	ids := make(chan ID, 2)
	release := make(chan struct{})
	for i := 0; i < 2; i++ {
		go func() {
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()
			a := Current()
			runtime.Gosched()
			if b := Current(); a != b {
				t.Errorf("Current changed on a locked thread: %d != %d", a, b)
			}
			ids <- a
			<-release
		}()
	}
	a, b := <-ids, <-ids
	close(release)
	if a == b {
		t.Errorf("distinct locked threads share id %d", a)
	}
}
