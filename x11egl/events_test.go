package x11egl

import (
	"testing"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/stretchr/testify/assert"

	"github.com/richinsley/glcontext/graphics"
)

func noDelete(xproto.ClientMessageEvent) bool { return false }

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		ev   xgb.Event
		win  xproto.Window
		want graphics.LifecycleEvent
	}{
		{"configure", xproto.ConfigureNotifyEvent{Window: 7, Width: 640, Height: 480}, 7, graphics.ResizeEvent(640, 480)},
		{"focus in", xproto.FocusInEvent{Event: 7, Mode: xproto.NotifyModeNormal}, 7, graphics.FocusEvent(true)},
		{"focus out", xproto.FocusOutEvent{Event: 7, Mode: xproto.NotifyModeWhileGrabbed}, 7, graphics.FocusEvent(false)},
		{"unmap", xproto.UnmapNotifyEvent{Window: 7}, 7, graphics.LifecycleEvent{Kind: graphics.Suspended}},
		{"map", xproto.MapNotifyEvent{Window: 7}, 7, graphics.LifecycleEvent{Kind: graphics.Resumed}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			win, le, ok := translate(tt.ev, noDelete)
			assert.True(t, ok)
			assert.Equal(t, tt.win, win)
			assert.Equal(t, tt.want, le)
		})
	}
}

func TestTranslateIgnoresGrabFocus(t *testing.T) {
	_, _, ok := translate(xproto.FocusInEvent{Event: 7, Mode: xproto.NotifyModeGrab}, noDelete)
	assert.False(t, ok)
	_, _, ok = translate(xproto.ExposeEvent{Window: 7}, noDelete)
	assert.False(t, ok)
}

func TestTranslateDelete(t *testing.T) {
	msg := xproto.ClientMessageEvent{Window: 9, Format: 32}
	_, _, ok := translate(msg, noDelete)
	assert.False(t, ok)

	win, le, ok := translate(msg, func(xproto.ClientMessageEvent) bool { return true })
	assert.True(t, ok)
	assert.Equal(t, xproto.Window(9), win)
	assert.Equal(t, graphics.CloseRequested, le.Kind)
}

func TestResizeTracker(t *testing.T) {
	r := resizeTracker{}
	assert.True(t, r.changed(1, 100, 100))
	assert.False(t, r.changed(1, 100, 100), "move only")
	assert.True(t, r.changed(1, 120, 100))
	assert.True(t, r.changed(2, 120, 100))
}
