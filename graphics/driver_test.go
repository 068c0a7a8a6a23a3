package graphics_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/glcontext/graphics"
	"github.com/richinsley/glcontext/graphics/backendtest"
)

func TestResizeEventDeliveredOnPump(t *testing.T) {
	m := newManager(t, backendtest.New())
	d := graphics.NewDriver(m)
	w, err := m.CreateWindow(testWindow)
	require.NoError(t, err)

	require.NoError(t, m.Resize(w, 1024, 768))
	events := d.Pump()
	require.Len(t, events, 1)
	assert.Equal(t, graphics.LifecycleEvent{Kind: graphics.Resized, Window: w, Width: 1024, Height: 768}, events[0])
	assert.Empty(t, d.Pump(), "events are delivered once")
}

func TestPumpKeepsBackendOrder(t *testing.T) {
	b := backendtest.New()
	m := newManager(t, b)
	d := graphics.NewDriver(m)
	w, err := m.CreateWindow(testWindow)
	require.NoError(t, err)
	nw := b.Windows()[0]

	b.Emit(nw, graphics.FocusEvent(true))
	b.Emit(nw, graphics.LifecycleEvent{Kind: graphics.Suspended})
	b.Emit(nw, graphics.LifecycleEvent{Kind: graphics.Resumed})
	b.Emit(nw, graphics.LifecycleEvent{Kind: graphics.CloseRequested})

	var kinds []graphics.EventKind
	for _, ev := range d.Pump() {
		assert.Equal(t, w, ev.Window)
		kinds = append(kinds, ev.Kind)
	}
	assert.Equal(t, []graphics.EventKind{graphics.FocusChanged, graphics.Suspended, graphics.Resumed, graphics.CloseRequested}, kinds)
}

func TestCloseRequestedDoesNotDestroy(t *testing.T) {
	b := backendtest.New()
	m := newManager(t, b)
	d := graphics.NewDriver(m)
	w, err := m.CreateWindow(testWindow)
	require.NoError(t, err)

	b.Emit(b.Windows()[0], graphics.LifecycleEvent{Kind: graphics.CloseRequested})
	require.Len(t, d.Pump(), 1)
	_, _, err = m.WindowSize(w)
	assert.NoError(t, err)
	assert.False(t, b.Windows()[0].Destroyed())
}

func TestResizeCoalescingFollowsBackendPolicy(t *testing.T) {
	for _, coalesce := range []bool{true, false} {
		b := backendtest.New()
		b.Caps.CoalesceResize = coalesce
		m := newManager(t, b)
		d := graphics.NewDriver(m)
		_, err := m.CreateWindow(testWindow)
		require.NoError(t, err)
		nw := b.Windows()[0]

		b.Emit(nw, graphics.ResizeEvent(810, 600))
		b.Emit(nw, graphics.ResizeEvent(820, 600))
		b.Emit(nw, graphics.FocusEvent(false))
		b.Emit(nw, graphics.ResizeEvent(830, 600))

		events := d.Pump()
		if coalesce {
			require.Len(t, events, 3)
			assert.Equal(t, 820, events[0].Width)
			assert.Equal(t, graphics.FocusChanged, events[1].Kind)
			assert.Equal(t, 830, events[2].Width)
		} else {
			require.Len(t, events, 4)
			assert.Equal(t, 810, events[0].Width)
		}
	}
}

func TestEventsForDestroyedWindowsAreDropped(t *testing.T) {
	b := backendtest.New()
	m := newManager(t, b)
	d := graphics.NewDriver(m)
	w, err := m.CreateWindow(testWindow)
	require.NoError(t, err)
	nw := b.Windows()[0]
	m.DestroyWindow(w)

	b.Emit(nw, graphics.FocusEvent(true))
	assert.Empty(t, d.Pump())
}

func TestRunStopsOnCallbackOrContext(t *testing.T) {
	b := backendtest.New()
	m := newManager(t, b)
	d := graphics.NewDriver(m)
	_, err := m.CreateWindow(testWindow)
	require.NoError(t, err)
	b.Emit(b.Windows()[0], graphics.LifecycleEvent{Kind: graphics.CloseRequested})

	frames := 0
	err = d.Run(context.Background(), func(ev graphics.LifecycleEvent) bool {
		return ev.Kind != graphics.CloseRequested
	}, func() error { frames++; return nil })
	assert.NoError(t, err)
	assert.Zero(t, frames)

	ctx, cancel := context.WithCancel(context.Background())
	err = d.Run(ctx, func(graphics.LifecycleEvent) bool { return true }, func() error {
		frames++
		if frames == 3 {
			cancel()
		}
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, frames)

	boom := errors.New("boom")
	err = d.Run(context.Background(), func(graphics.LifecycleEvent) bool { return true }, func() error { return boom })
	assert.ErrorIs(t, err, boom)
}
