// SPDX-License-Identifier: Unlicense OR MIT

//go:build (linux && !android) || freebsd || openbsd

package x11

import (
	"image"
	"image/color"
	"testing"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/motif"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomui/loom/app/driver"
	"github.com/loomui/loom/io/event"
)

const (
	protocolsAtom xproto.Atom = 100
	deleteAtom    xproto.Atom = 101
	testWin       xproto.Window = 7
)

func newTestPlatform() (*Platform, *window) {
	p := &Platform{
		atoms:   atoms{protocols: protocolsAtom, deleteWindow: deleteAtom},
		windows: make(map[xproto.Window]*window),
	}
	w := &window{p: p, key: 3, cnf: driver.Config{Size: image.Pt(800, 600)}}
	p.windows[testWin] = w
	return p, w
}

func TestTranslateCloseRequest(t *testing.T) {
	p, _ := newTestPlatform()
	msg := func(typ, data xproto.Atom) xproto.ClientMessageEvent {
		return xproto.ClientMessageEvent{
			Format: 32,
			Window: testWin,
			Type:   typ,
			Data:   xproto.ClientMessageDataUnionData32New([]uint32{uint32(data), 0, 0, 0, 0}),
		}
	}
	assert.Equal(t, []event.Event{driver.CloseRequestedEvent{Window: 3}}, p.translate(msg(protocolsAtom, deleteAtom)))
	assert.Empty(t, p.translate(msg(protocolsAtom, 5)))
	assert.Empty(t, p.translate(msg(5, deleteAtom)))
}

func TestTranslateConfigure(t *testing.T) {
	p, w := newTestPlatform()
	evs := p.translate(xproto.ConfigureNotifyEvent{Window: testWin, X: 10, Y: 20, Width: 640, Height: 480})
	assert.Equal(t, []event.Event{
		driver.ResizedEvent{Window: 3, Size: image.Pt(640, 480)},
		driver.MovedEvent{Window: 3, Position: image.Pt(10, 20)},
	}, evs)
	assert.Equal(t, image.Pt(640, 480), w.Config().Size)

	assert.Empty(t, p.translate(xproto.ConfigureNotifyEvent{Window: testWin, X: 10, Y: 20, Width: 640, Height: 480}))
	assert.Empty(t, p.translate(xproto.ConfigureNotifyEvent{Window: 99, Width: 1, Height: 1}))
}

func TestTranslateFramedConfigure(t *testing.T) {
	p, w := newTestPlatform()
	p.translate(xproto.ReparentNotifyEvent{Window: testWin, Parent: 55})
	evs := p.translate(xproto.ConfigureNotifyEvent{Window: testWin, X: 1, Y: 24, Width: 800, Height: 600})
	assert.Empty(t, evs)
	assert.Equal(t, image.Point{}, w.Config().Position)
}

func TestTranslateFocus(t *testing.T) {
	p, _ := newTestPlatform()
	assert.Equal(t, []event.Event{driver.FocusedEvent{Window: 3, Focused: true}},
		p.translate(xproto.FocusInEvent{Event: testWin, Mode: xproto.NotifyModeNormal}))
	assert.Empty(t, p.translate(xproto.FocusInEvent{Event: testWin, Mode: xproto.NotifyModeNormal}))
	assert.Empty(t, p.translate(xproto.FocusOutEvent{Event: testWin, Mode: xproto.NotifyModeGrab}))
	assert.Equal(t, []event.Event{driver.FocusedEvent{Window: 3, Focused: false}},
		p.translate(xproto.FocusOutEvent{Event: testWin, Mode: xproto.NotifyModeNormal}))
}

func TestTranslateMapAndDestroy(t *testing.T) {
	p, w := newTestPlatform()
	p.translate(xproto.MapNotifyEvent{Window: testWin})
	assert.True(t, w.Config().Visible)
	p.translate(xproto.UnmapNotifyEvent{Window: testWin})
	assert.False(t, w.Config().Visible)

	assert.Equal(t, []event.Event{driver.DestroyedEvent{Window: 3}}, p.translate(xproto.DestroyNotifyEvent{Window: testWin}))
	assert.Empty(t, p.windows)
	assert.Empty(t, p.translate(xproto.DestroyNotifyEvent{Window: testWin}))
}

func TestNetStates(t *testing.T) {
	cnf := driver.Config{Mode: driver.Maximized, AlwaysOnTop: true, AlwaysOnBottom: true}
	assert.Equal(t, []string{
		"_NET_WM_STATE_MAXIMIZED_HORZ",
		"_NET_WM_STATE_MAXIMIZED_VERT",
		"_NET_WM_STATE_ABOVE",
	}, netStates(cnf))
	assert.Empty(t, netStates(driver.Config{}))
}

func TestStateChanges(t *testing.T) {
	old := driver.Config{Mode: driver.Maximized, SkipTaskbar: true}
	cnf := driver.Config{Mode: driver.Fullscreen, SkipTaskbar: true, VisibleOnAllWorkspaces: true}
	assert.Equal(t, []stateChange{
		{ewmh.StateAdd, "_NET_WM_STATE_FULLSCREEN"},
		{ewmh.StateRemove, "_NET_WM_STATE_MAXIMIZED_HORZ"},
		{ewmh.StateRemove, "_NET_WM_STATE_MAXIMIZED_VERT"},
		{ewmh.StateAdd, "_NET_WM_STATE_STICKY"},
	}, stateChanges(old, cnf))
	assert.Empty(t, stateChanges(cnf, cnf))
}

func TestScaleFromResources(t *testing.T) {
	tests := []struct {
		res  string
		want float64
	}{
		{"", 1},
		{"Xft.dpi:\t192\nXft.antialias:\t1\n", 2},
		{"Xft.antialias: 1\nXft.dpi: 144", 1.5},
		{"Xft.dpi: bogus", 1},
		{"Xft.dpi: -10", 1},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, scaleFromResources(test.res), "%q", test.res)
	}
}

func TestNormalHints(t *testing.T) {
	h := normalHints(driver.Config{Size: image.Pt(300, 200), Resizable: false})
	assert.Equal(t, uint(icccm.SizeHintUSPosition|icccm.SizeHintPMinSize|icccm.SizeHintPMaxSize), h.Flags)
	assert.Equal(t, uint(300), h.MinWidth)
	assert.Equal(t, uint(200), h.MaxHeight)

	h = normalHints(driver.Config{Size: image.Pt(300, 200), Resizable: true, MinSize: image.Pt(10, 10)})
	assert.Equal(t, uint(icccm.SizeHintUSPosition|icccm.SizeHintPMinSize), h.Flags)
}

func TestDecorations(t *testing.T) {
	assert.Equal(t, uint(motif.DecorationAll), decorations(true).Decoration)
	assert.Equal(t, uint(motif.DecorationNone), decorations(false).Decoration)
}

func TestWMIcon(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 0x11, G: 0x22, B: 0x33, A: 0xff})
	img.SetNRGBA(1, 0, color.NRGBA{R: 0xaa, A: 0x80})
	icon := wmIcon(img)
	assert.Equal(t, uint(2), icon.Width)
	assert.Equal(t, uint(1), icon.Height)
	require.Len(t, icon.Data, 2)
	assert.Equal(t, uint(0xff112233), icon.Data[0])
	assert.Equal(t, uint(0x80aa0000), icon.Data[1])
}
