// Package x11egl is the split model backend: windows come from the X server
// over the X11 protocol and contexts from EGL, which wraps the window by its
// XID.
package x11egl

import (
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/richinsley/glcontext/graphics"
)

// Name identifies the backend in logs and reports.
const Name = "x11egl"

const eventMask = xproto.EventMaskStructureNotify |
	xproto.EventMaskFocusChange |
	xproto.EventMaskExposure

// translate maps one X event to the window it concerns and a lifecycle
// event. isDelete reports whether a client message is WM_DELETE_WINDOW.
// Events without a lifecycle meaning report ok == false.
func translate(ev xgb.Event, isDelete func(xproto.ClientMessageEvent) bool) (win xproto.Window, le graphics.LifecycleEvent, ok bool) {
	switch ev := ev.(type) {
	case xproto.ConfigureNotifyEvent:
		return ev.Window, graphics.ResizeEvent(int(ev.Width), int(ev.Height)), true
	case xproto.FocusInEvent:
		if ev.Mode == xproto.NotifyModeGrab || ev.Mode == xproto.NotifyModeUngrab {
			return 0, le, false
		}
		return ev.Event, graphics.FocusEvent(true), true
	case xproto.FocusOutEvent:
		if ev.Mode == xproto.NotifyModeGrab || ev.Mode == xproto.NotifyModeUngrab {
			return 0, le, false
		}
		return ev.Event, graphics.FocusEvent(false), true
	case xproto.ClientMessageEvent:
		if isDelete(ev) {
			return ev.Window, graphics.LifecycleEvent{Kind: graphics.CloseRequested}, true
		}
	case xproto.UnmapNotifyEvent:
		return ev.Window, graphics.LifecycleEvent{Kind: graphics.Suspended}, true
	case xproto.MapNotifyEvent:
		return ev.Window, graphics.LifecycleEvent{Kind: graphics.Resumed}, true
	}
	return 0, le, false
}

// resizeTracker drops ConfigureNotify events that only move a window.
type resizeTracker map[xproto.Window][2]int

func (r resizeTracker) changed(win xproto.Window, w, h int) bool {
	if r[win] == [2]int{w, h} {
		return false
	}
	r[win] = [2]int{w, h}
	return true
}
