// SPDX-License-Identifier: Unlicense OR MIT

package main

// A window on the headless platform, resized and closed from a worker
// goroutine.

import (
	"context"
	"image"
	"os"

	"goa.design/clue/log"

	"github.com/loomui/loom/app"
	"github.com/loomui/loom/app/headless"
	"github.com/loomui/loom/unit"
)

func main() {
	ctx := log.Context(context.Background(), log.WithFormat(log.FormatTerminal))
	p := headless.New()
	rt, err := app.New(p, app.WithLogContext(ctx))
	if err != nil {
		log.Fatal(ctx, err)
	}
	go work(ctx, p, rt.Handle())
	os.Exit(rt.Run(func(e app.RunEvent) {
		switch e := e.(type) {
		case app.WindowRunEvent:
			log.Print(ctx, log.KV{K: "window", V: e.Label}, log.KV{K: "event", V: e.Event})
		case app.ExitRequestedEvent:
			log.Print(ctx, log.KV{K: "msg", V: "exit requested"}, log.KV{K: "code", V: e.Code})
		}
	}))
}

func work(ctx context.Context, p *headless.Platform, h *app.Handle) {
	dw, err := h.CreateWindow(app.PendingWindow{
		Label:   "hello",
		Options: []app.Option{app.Title("Hello, Loom"), app.Size(unit.Dp(640), unit.Dp(480))},
		Center:  true,
	})
	if err != nil {
		log.Fatal(ctx, err)
	}
	w := dw.Window
	if err := w.SetSize(image.Pt(800, 600)); err != nil {
		log.Error(ctx, err)
	}
	pos, err := w.OuterPosition()
	if err != nil {
		log.Error(ctx, err)
	}
	log.Print(ctx, log.KV{K: "msg", V: "window placed"}, log.KV{K: "x", V: pos.X}, log.KV{K: "y", V: pos.Y})
	for _, nw := range p.Windows() {
		nw.RequestClose()
	}
}
