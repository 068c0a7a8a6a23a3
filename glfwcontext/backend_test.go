package glfwcontext_test

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/glcontext/glfwcontext"
	"github.com/richinsley/glcontext/graphics"
)

// newManager skips when no display is available. macOS only allows GLFW on
// the process main thread, which tests do not run on.
func newManager(t *testing.T) *graphics.Manager {
	t.Helper()
	if runtime.GOOS == "darwin" {
		t.Skip("GLFW requires the main thread on darwin")
	}
	m, err := graphics.NewManager(glfwcontext.New(), nil)
	if err != nil {
		t.Skipf("GLFW unavailable: %v", err)
	}
	t.Cleanup(m.Close)
	return m
}

func TestWindowAndContext(t *testing.T) {
	m := newManager(t)
	w, err := m.CreateWindow(graphics.WindowAttributes{Width: 320, Height: 240, Title: "glfwcontext", Hidden: true})
	require.NoError(t, err)

	c, err := m.CreateContext(w, graphics.ContextAttributes{Major: 3, Minor: 3, Profile: graphics.ProfileCore})
	if graphics.KindOf(err) == graphics.UnsupportedAttributes {
		t.Skipf("driver lacks GL 3.3 core: %v", err)
	}
	require.NoError(t, err)

	th := m.Owner()
	require.NoError(t, m.MakeCurrent(th, c))
	info, err := m.Probe(th, c)
	require.NoError(t, err)
	assert.False(t, info.Version.Less(graphics.Version{Major: 3, Minor: 3}))
	assert.NotEmpty(t, info.Renderer)
	require.NoError(t, m.SwapBuffers(th, c))

	width, height, err := m.WindowSize(w)
	require.NoError(t, err)
	assert.Equal(t, 320, width)
	assert.Equal(t, 240, height)

	m.DestroyWindow(w)
	assert.ErrorIs(t, m.SwapBuffers(th, c), graphics.ErrNotCurrent)
}
