//go:build linux && !js && cgo

package egl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/glcontext/graphics"
)

func TestOpenDeviceAndTerminateTwice(t *testing.T) {
	d, err := OpenDevice()
	if err != nil {
		require.Equal(t, graphics.BackendUnavailable, graphics.KindOf(err))
		t.Skipf("no EGL device: %v", err)
	}
	assert.NotEqual(t, noDisplay, d.d)
	major, _ := d.Version()
	assert.GreaterOrEqual(t, major, 1)

	d.Terminate()
	assert.Equal(t, noDisplay, d.d)
	assert.NotPanics(t, d.Terminate)
}
