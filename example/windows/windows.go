// SPDX-License-Identifier: Unlicense OR MIT

package main

// Multiple windows on the headless platform. Each window opens the
// next until there are five, then they close one by one.

import (
	"context"
	"fmt"
	"os"

	"goa.design/clue/log"

	"github.com/loomui/loom/app"
	"github.com/loomui/loom/app/headless"
)

const count = 5

type opener struct {
	ctx    context.Context
	h      *app.Handle
	opened int
}

func main() {
	ctx := log.Context(context.Background())
	p := headless.New()
	rt, err := app.New(p, app.WithLogContext(ctx))
	if err != nil {
		log.Fatal(ctx, err)
	}
	o := &opener{ctx: ctx, h: rt.Handle()}
	os.Exit(rt.Run(func(e app.RunEvent) {
		switch e := e.(type) {
		case app.ReadyEvent:
			o.open()
		case app.WindowRunEvent:
			if _, ok := e.Event.(app.DestroyedEvent); ok {
				log.Print(ctx, log.KV{K: "msg", V: "destroyed"}, log.KV{K: "window", V: e.Label})
			}
		case app.MainEventsClearedEvent:
			if o.opened < count {
				break
			}
			if ws := p.Windows(); len(ws) > 0 {
				ws[0].RequestClose()
			}
		}
	}))
}

func (o *opener) open() {
	o.opened++
	label := fmt.Sprintf("window-%d", o.opened)
	dw, err := o.h.CreateWindow(app.PendingWindow{
		Label:   label,
		Options: []app.Option{app.Title(label)},
	})
	if err != nil {
		log.Fatal(o.ctx, err)
	}
	if o.opened == count {
		return
	}
	if err := dw.Window.RunOnMainThread(o.open); err != nil {
		log.Error(o.ctx, err)
	}
}
