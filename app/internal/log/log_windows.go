// SPDX-License-Identifier: Unlicense OR MIT

package log

import (
	"io"
	"os"
	"unsafe"

	syscall "golang.org/x/sys/windows"
)

// debugWriter writes to the debugger output, for programs linked
// without a console.
type debugWriter struct{}

var (
	kernel32           = syscall.NewLazySystemDLL("kernel32")
	outputDebugStringW = kernel32.NewProc("OutputDebugStringW")
)

func defaultOutput() io.Writer {
	if syscall.Stderr == 0 {
		return debugWriter{}
	}
	return os.Stderr
}

func (debugWriter) Write(buf []byte) (int, error) {
	p, err := syscall.UTF16PtrFromString(string(buf))
	if err != nil {
		return 0, err
	}
	outputDebugStringW.Call(uintptr(unsafe.Pointer(p)))
	return len(buf), nil
}
