//go:build linux && !js

package x11egl_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/richinsley/glcontext/conformance"
	"github.com/richinsley/glcontext/graphics"
	"github.com/richinsley/glcontext/x11egl"
)

func TestConformance(t *testing.T) {
	if os.Getenv("DISPLAY") == "" {
		t.Skip("no X server")
	}
	r := (&conformance.Suite{}).Run(x11egl.New())[0]
	if f, failed := r.Failure(); failed && f.Name == "Init" {
		t.Skipf("X11 EGL unavailable: %v", f.Err)
	}
	assert.True(t, r.OK(), "%+v", r.Results)
}

func TestTransparentWindowNeedsARGBVisual(t *testing.T) {
	if os.Getenv("DISPLAY") == "" {
		t.Skip("no X server")
	}
	m, err := graphics.NewManager(x11egl.New(), nil)
	if err != nil {
		t.Skipf("X11 EGL unavailable: %v", err)
	}
	defer m.Close()
	_, err = m.CreateWindow(graphics.WindowAttributes{Width: 64, Height: 64, Transparent: true, Hidden: true})
	if err != nil {
		assert.ErrorIs(t, err, graphics.ErrWindowCreationFailed)
	}
}
