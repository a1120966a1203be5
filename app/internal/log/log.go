// SPDX-License-Identifier: Unlicense OR MIT

// Package log sets up the structured logger carried by runtime
// contexts.
package log

import (
	"context"
	"io"
	"os"
	"strings"

	"goa.design/clue/log"
	"golang.org/x/term"
)

// Environment variables consulted by New.
const (
	// EnvFormat selects the log format: "json", "text" or "terminal".
	EnvFormat = "LOOM_LOG_FORMAT"
	// EnvDebug enables debug logs when set to a non-empty value other
	// than "0".
	EnvDebug = "LOOM_DEBUG"
)

// New returns a context carrying a logger writing to w, or standard
// error if w is nil. On Windows programs without a console, the nil
// writer logs to the debugger instead. Format and verbosity follow the
// environment.
func New(w io.Writer) context.Context {
	if w == nil {
		w = defaultOutput()
	}
	opts := []log.LogOption{
		log.WithFormat(format(os.Getenv(EnvFormat), w)),
		log.WithOutput(w),
	}
	if d := os.Getenv(EnvDebug); d != "" && d != "0" {
		opts = append(opts, log.WithDebug())
	}
	return log.Context(context.Background(), opts...)
}

func format(name string, w io.Writer) log.FormatFunc {
	switch strings.ToLower(name) {
	case "json":
		return log.FormatJSON
	case "text":
		return log.FormatText
	case "terminal":
		return log.FormatTerminal
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return log.FormatTerminal
	}
	return log.FormatText
}
