// SPDX-License-Identifier: Unlicense OR MIT

//go:build !windows

package log

import (
	"io"
	"os"
)

func defaultOutput() io.Writer {
	return os.Stderr
}
