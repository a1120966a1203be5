// SPDX-License-Identifier: Unlicense OR MIT

package headless

import (
	"errors"
	"image"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomui/loom/app/driver"
	"github.com/loomui/loom/io/event"
)

type recorder struct {
	mu     sync.Mutex
	events []event.Event
}

func (r *recorder) Event(e event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) take() []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	evs := r.events
	r.events = nil
	return evs
}

func newTestPlatform(t *testing.T, opts ...Option) (*Platform, *recorder) {
	t.Helper()
	p := New(opts...)
	r := new(recorder)
	require.NoError(t, p.Start(r))
	return p, r
}

func TestConfigureReportsChanges(t *testing.T) {
	p, r := newTestPlatform(t)
	dw, err := p.NewWindow(driver.Config{Size: image.Pt(800, 600)})
	require.NoError(t, err)

	cnf := dw.Config()
	cnf.Title = "renamed"
	require.NoError(t, dw.Configure(cnf))
	assert.Empty(t, r.take(), "title changes are not reported")

	cnf.Size = image.Pt(1024, 768)
	cnf.Position = image.Pt(10, 20)
	require.NoError(t, dw.Configure(cnf))
	assert.Equal(t, []event.Event{
		driver.ResizedEvent{Window: dw.Key(), Size: image.Pt(1024, 768)},
		driver.MovedEvent{Window: dw.Key(), Position: image.Pt(10, 20)},
	}, r.take())
	assert.Equal(t, "renamed", dw.Config().Title)
}

func TestPerformCenter(t *testing.T) {
	p, r := newTestPlatform(t, WithMonitors(driver.Monitor{Size: image.Pt(1000, 800), ScaleFactor: 1}))
	dw, err := p.NewWindow(driver.Config{Size: image.Pt(400, 200)})
	require.NoError(t, err)

	require.NoError(t, dw.Perform(driver.ActionCenter|driver.ActionRaise))
	cnf := dw.Config()
	assert.Equal(t, image.Pt(300, 300), cnf.Position)
	assert.True(t, cnf.Focused)
	assert.Len(t, r.take(), 2)
	assert.Equal(t, []driver.Action{driver.ActionRaise, driver.ActionCenter}, dw.(*Window).Actions())
}

func TestDestroy(t *testing.T) {
	p, r := newTestPlatform(t)
	dw, err := p.NewWindow(driver.Config{})
	require.NoError(t, err)
	w := dw.(*Window)
	wc, err := p.NewWebContext("")
	require.NoError(t, err)
	dv, err := p.NewWebview(dw, wc, driver.WebviewConfig{Label: "v"})
	require.NoError(t, err)

	w.Destroy()
	w.Destroy()
	assert.Equal(t, []event.Event{driver.DestroyedEvent{Window: dw.Key()}}, r.take())
	assert.True(t, dv.(*Webview).Closed())
	assert.Empty(t, p.Windows())
	assert.Error(t, dw.Configure(driver.Config{}))
	assert.ErrorIs(t, dv.EvaluateScript("1"), errClosed)
}

func TestReparent(t *testing.T) {
	p, _ := newTestPlatform(t)
	a, _ := p.NewWindow(driver.Config{})
	b, _ := p.NewWindow(driver.Config{})
	wc, _ := p.NewWebContext("")
	dv, err := p.NewWebview(a, wc, driver.WebviewConfig{})
	require.NoError(t, err)
	v := dv.(*Webview)

	require.NoError(t, v.Reparent(b))
	assert.Empty(t, a.(*Window).Webviews())
	assert.Equal(t, []*Webview{v}, b.(*Window).Webviews())
	assert.Same(t, b.(*Window), v.Parent())

	boom := errors.New("boom")
	p.FailReparent(boom)
	assert.ErrorIs(t, v.Reparent(a), boom)
	assert.Same(t, b.(*Window), v.Parent())
}

func TestNavigate(t *testing.T) {
	p, _ := newTestPlatform(t)
	w, _ := p.NewWindow(driver.Config{})
	wc, _ := p.NewWebContext("")
	var loads []driver.PageLoad
	dv, err := p.NewWebview(w, wc, driver.WebviewConfig{
		URL:          "about:blank",
		OnNavigation: func(url string) bool { return url != "https://blocked.example" },
		OnPageLoad:   func(l driver.PageLoad) { loads = append(loads, l) },
	})
	require.NoError(t, err)

	require.NoError(t, dv.Navigate("https://blocked.example"))
	u, _ := dv.URL()
	assert.Equal(t, "about:blank", u)

	require.NoError(t, dv.Navigate("https://example.org"))
	u, _ = dv.URL()
	assert.Equal(t, "https://example.org", u)
	assert.Equal(t, []driver.PageLoad{
		{URL: "https://example.org"},
		{URL: "https://example.org", Finished: true},
	}, loads)
}

func TestFailures(t *testing.T) {
	p, _ := newTestPlatform(t)
	boom := errors.New("boom")
	p.FailWindows(boom)
	_, err := p.NewWindow(driver.Config{})
	assert.ErrorIs(t, err, boom)
	p.FailWindows(nil)
	w, err := p.NewWindow(driver.Config{})
	require.NoError(t, err)

	p.FailWebviews(boom)
	wc, _ := p.NewWebContext("data")
	_, err = p.NewWebview(w, wc, driver.WebviewConfig{})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"data"}, p.WebContexts())
	wc.Release()
	assert.Empty(t, p.WebContexts())
}
