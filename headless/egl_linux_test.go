//go:build linux && !js

package headless_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/glcontext/conformance"
	"github.com/richinsley/glcontext/graphics"
	"github.com/richinsley/glcontext/headless"
)

func newManager(t *testing.T) *graphics.Manager {
	t.Helper()
	m, err := graphics.NewManager(headless.New(), nil)
	if err != nil {
		t.Skipf("EGL unavailable: %v", err)
	}
	t.Cleanup(m.Close)
	return m
}

func TestConformance(t *testing.T) {
	m := newManager(t)
	cfg := conformance.DefaultConfig(m.Capabilities())
	cfg.PumpInterval = 0
	r := conformance.Run(m, m.Owner(), cfg)
	if f, failed := r.Failure(); failed && f.Name == "ContextCreated" && graphics.KindOf(f.Err) == graphics.UnsupportedAttributes {
		t.Skipf("device lacks GL 3.3 core: %v", f.Err)
	}
	assert.True(t, r.OK(), "%+v", r.Results)
}

func TestResizeFollowsOnSwap(t *testing.T) {
	m := newManager(t)
	w, err := m.CreateWindow(graphics.WindowAttributes{Width: 64, Height: 64})
	require.NoError(t, err)
	c, err := m.CreateContext(w, graphics.ContextAttributes{Major: 3, Minor: 0, Profile: graphics.ProfileES})
	if graphics.KindOf(err) == graphics.UnsupportedAttributes {
		t.Skipf("device lacks ES 3.0: %v", err)
	}
	require.NoError(t, err)

	th := m.Owner()
	require.NoError(t, m.MakeCurrent(th, c))
	require.NoError(t, m.Resize(w, 128, 96))

	events := graphics.NewDriver(m).Pump()
	require.Len(t, events, 1)
	assert.Equal(t, graphics.ResizeEvent(128, 96).Kind, events[0].Kind)
	assert.Equal(t, 128, events[0].Width)

	require.NoError(t, m.SwapBuffers(th, c))
	info, err := m.Probe(th, c)
	require.NoError(t, err)
	assert.Equal(t, [2]int{128, 96}, info.Framebuffer)
}
