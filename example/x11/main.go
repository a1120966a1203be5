// SPDX-License-Identifier: Unlicense OR MIT

//go:build (linux && !android) || freebsd || openbsd

// Command x11 opens the windows described by a YAML file on an X11
// display.
//
//	x11 -config windows.yaml
package main

import (
	"context"
	"flag"
	"os"

	"goa.design/clue/log"

	"github.com/loomui/loom/app"
	"github.com/loomui/loom/app/x11"
	"github.com/loomui/loom/config"
)

func main() {
	path := flag.String("config", "windows.yaml", "window configuration `file`")
	debug := flag.Bool("debug", false, "enable debug logs")
	flag.Parse()

	opts := []log.LogOption{log.WithFormat(log.FormatTerminal)}
	if *debug {
		opts = append(opts, log.WithDebug())
	}
	ctx := log.Context(context.Background(), opts...)

	cnf, err := config.LoadFile(*path)
	if err != nil {
		log.Fatal(ctx, err)
	}
	pws, err := cnf.Pending()
	if err != nil {
		log.Fatal(ctx, err)
	}
	instance := cnf.Identifier
	if instance == "" {
		instance = "loom"
	}
	p, err := x11.New(x11.WithLogContext(ctx), x11.WithClass(instance, "Loom"))
	if err != nil {
		log.Fatal(ctx, err)
	}
	rt, err := app.New(p, app.WithLogContext(ctx))
	if err != nil {
		log.Fatal(ctx, err)
	}
	for _, pw := range pws {
		if _, err := rt.CreateWindow(pw); err != nil {
			log.Fatal(ctx, err, log.KV{K: "window", V: pw.Label})
		}
	}
	os.Exit(rt.Run(func(e app.RunEvent) {
		if e, ok := e.(app.WindowRunEvent); ok {
			log.Debug(ctx, log.KV{K: "window", V: e.Label}, log.KV{K: "event", V: e.Event})
		}
	}))
}
