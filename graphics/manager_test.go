package graphics_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/glcontext/graphics"
	"github.com/richinsley/glcontext/graphics/backendtest"
)

var (
	testWindow  = graphics.WindowAttributes{Width: 800, Height: 600, Title: "t", Resizable: true}
	testContext = graphics.ContextAttributes{Major: 3, Minor: 3, Profile: graphics.ProfileCore}
)

func newManager(t *testing.T, b *backendtest.Backend) *graphics.Manager {
	t.Helper()
	m, err := graphics.NewManager(b, nil)
	require.NoError(t, err)
	t.Cleanup(m.Close)
	return m
}

// newThread starts a thread that releases whatever m made current on it
// before stopping. Cleanups run in reverse, so this happens before m.Close.
func newThread(t *testing.T, m *graphics.Manager) *graphics.Thread {
	th := graphics.NewThread()
	t.Cleanup(func() {
		_ = m.ReleaseCurrent(th)
		th.Stop()
	})
	return th
}

func TestNewManagerInitFailure(t *testing.T) {
	b := backendtest.New()
	b.InitErr = errors.New("no display")
	_, err := graphics.NewManager(b, nil)
	assert.ErrorIs(t, err, graphics.ErrBackendUnavailable)
}

func TestCreateWindowReportsRequestedSize(t *testing.T) {
	m := newManager(t, backendtest.New())
	w, err := m.CreateWindow(testWindow)
	require.NoError(t, err)
	width, height, err := m.WindowSize(w)
	require.NoError(t, err)
	assert.Equal(t, 800, width)
	assert.Equal(t, 600, height)
}

func TestCreateWindowRejectsSizeMismatch(t *testing.T) {
	b := backendtest.New()
	b.SizeSkew = 3
	b.Caps.SizeTolerance = 2
	m := newManager(t, b)

	_, err := m.CreateWindow(testWindow)
	assert.ErrorIs(t, err, graphics.ErrWindowCreationFailed)
	require.Len(t, b.Windows(), 1)
	assert.True(t, b.Windows()[0].Destroyed(), "mismatched native window leaked")

	b.SizeSkew = 2
	_, err = m.CreateWindow(testWindow)
	assert.NoError(t, err, "within tolerance")
}

func TestCreateWindowInvalidAttributes(t *testing.T) {
	b := backendtest.New()
	m := newManager(t, b)
	_, err := m.CreateWindow(graphics.WindowAttributes{Width: 0, Height: 10})
	assert.ErrorIs(t, err, graphics.ErrWindowCreationFailed)
	assert.Empty(t, b.Windows())
}

func TestCreateWindowNativeFailureIsTranslated(t *testing.T) {
	b := backendtest.New()
	b.WindowErr = errors.New("X error BadAlloc")
	m := newManager(t, b)
	_, err := m.CreateWindow(testWindow)
	var gerr *graphics.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, graphics.WindowCreationFailed, gerr.Kind)
	assert.Equal(t, "backendtest", gerr.Backend)
	assert.Equal(t, "create_window", gerr.Op)
}

func TestUnsupportedAttributesKeepsWindowUsable(t *testing.T) {
	b := backendtest.New()
	m := newManager(t, b)
	w, err := m.CreateWindow(testWindow)
	require.NoError(t, err)

	_, err = m.CreateContext(w, graphics.ContextAttributes{Major: 9, Minor: 9})
	assert.ErrorIs(t, err, graphics.ErrUnsupportedAttributes)

	b.MaxVersion = graphics.Version{Major: 3, Minor: 3}
	_, err = m.CreateContext(w, graphics.ContextAttributes{Major: 4, Minor: 5})
	assert.ErrorIs(t, err, graphics.ErrUnsupportedAttributes, "backend limit is not downgraded")

	c, err := m.CreateContext(w, testContext)
	require.NoError(t, err)
	cw, ok := m.ContextWindow(c)
	require.True(t, ok)
	assert.Equal(t, w, cw)
}

func TestCreateContextUnsupportedProfile(t *testing.T) {
	b := backendtest.New()
	b.Caps.Profiles = []graphics.Profile{graphics.ProfileES}
	m := newManager(t, b)
	w, err := m.CreateWindow(testWindow)
	require.NoError(t, err)
	_, err = m.CreateContext(w, testContext)
	assert.ErrorIs(t, err, graphics.ErrUnsupportedAttributes)
}

func TestOneContextPerWindow(t *testing.T) {
	m := newManager(t, backendtest.New())
	w, err := m.CreateWindow(testWindow)
	require.NoError(t, err)
	c, err := m.CreateContext(w, testContext)
	require.NoError(t, err)

	_, err = m.CreateContext(w, testContext)
	assert.ErrorIs(t, err, graphics.ErrContextCreationFailed)

	m.DestroyContext(c)
	_, err = m.CreateContext(w, testContext)
	assert.NoError(t, err, "window accepts a new context once the old one is gone")
}

func TestCreateContextOnDestroyedWindow(t *testing.T) {
	m := newManager(t, backendtest.New())
	w, err := m.CreateWindow(testWindow)
	require.NoError(t, err)
	m.DestroyWindow(w)
	_, err = m.CreateContext(w, testContext)
	assert.ErrorIs(t, err, graphics.ErrContextCreationFailed)
}

func TestSwapBeforeMakeCurrent(t *testing.T) {
	m := newManager(t, backendtest.New())
	th := newThread(t, m)
	w, err := m.CreateWindow(testWindow)
	require.NoError(t, err)
	c, err := m.CreateContext(w, testContext)
	require.NoError(t, err)

	assert.ErrorIs(t, m.SwapBuffers(th, c), graphics.ErrNotCurrent)
}

func TestMakeCurrentIsIdempotent(t *testing.T) {
	b := backendtest.New()
	m := newManager(t, b)
	th := newThread(t, m)
	w, err := m.CreateWindow(testWindow)
	require.NoError(t, err)
	c, err := m.CreateContext(w, testContext)
	require.NoError(t, err)

	require.NoError(t, m.MakeCurrent(th, c))
	require.NoError(t, m.MakeCurrent(th, c))
	cur, ok := m.Current(th)
	require.True(t, ok)
	assert.Equal(t, c, cur)
	assert.True(t, b.Contexts()[0].Current())

	require.NoError(t, m.SwapBuffers(th, c))
	assert.Equal(t, 1, b.Contexts()[0].Swaps())
}

func TestMakeCurrentReplacesPrevious(t *testing.T) {
	m := newManager(t, backendtest.New())
	th, other := newThread(t, m), newThread(t, m)

	w1, err := m.CreateWindow(testWindow)
	require.NoError(t, err)
	w2, err := m.CreateWindow(testWindow)
	require.NoError(t, err)
	c1, err := m.CreateContext(w1, testContext)
	require.NoError(t, err)
	c2, err := m.CreateContext(w2, testContext)
	require.NoError(t, err)

	require.NoError(t, m.MakeCurrent(th, c1))
	require.NoError(t, m.MakeCurrent(th, c2))
	cur, _ := m.Current(th)
	assert.Equal(t, c2, cur)

	assert.ErrorIs(t, m.SwapBuffers(th, c1), graphics.ErrNotCurrent)
	// c1 was implicitly released and may move.
	assert.NoError(t, m.MakeCurrent(other, c1))
}

func TestAlreadyCurrentElsewhere(t *testing.T) {
	m := newManager(t, backendtest.New())
	t1, t2 := newThread(t, m), newThread(t, m)
	w, err := m.CreateWindow(testWindow)
	require.NoError(t, err)
	c, err := m.CreateContext(w, testContext)
	require.NoError(t, err)

	require.NoError(t, m.MakeCurrent(t1, c))
	assert.ErrorIs(t, m.MakeCurrent(t2, c), graphics.ErrAlreadyCurrentElsewhere)
	assert.ErrorIs(t, m.SwapBuffers(t2, c), graphics.ErrNotCurrent)

	require.NoError(t, m.ReleaseCurrent(t1))
	require.NoError(t, m.ReleaseCurrent(t1), "release with nothing current")
	require.NoError(t, m.MakeCurrent(t2, c))
	_, ok := m.Current(t1)
	assert.False(t, ok)
}

func TestMakeCurrentOffOwnerWithoutThreadTransfer(t *testing.T) {
	b := backendtest.New()
	b.Caps.ThreadTransfer = false
	m := newManager(t, b)
	w, err := m.CreateWindow(testWindow)
	require.NoError(t, err)
	c, err := m.CreateContext(w, testContext)
	require.NoError(t, err)

	assert.ErrorIs(t, m.MakeCurrent(newThread(t, m), c), graphics.ErrMakeCurrentFailed)
	assert.NoError(t, m.MakeCurrent(m.Owner(), c))
}

func TestCreateWindowNarrowsAdapterKind(t *testing.T) {
	b := backendtest.New()
	b.WindowErr = graphics.Errorf(graphics.UnsupportedAttributes, "no 32-bit TrueColor visual")
	m := newManager(t, b)

	_, err := m.CreateWindow(testWindow)
	assert.Equal(t, graphics.WindowCreationFailed, graphics.KindOf(err))
	assert.NotErrorIs(t, err, graphics.ErrUnsupportedAttributes)
	assert.Contains(t, err.Error(), "no 32-bit TrueColor visual")
}

func TestMakeCurrentNarrowsAdapterKind(t *testing.T) {
	b := backendtest.New()
	m := newManager(t, b)
	th := newThread(t, m)
	w, err := m.CreateWindow(testWindow)
	require.NoError(t, err)
	c, err := m.CreateContext(w, testContext)
	require.NoError(t, err)

	b.MakeCurrentErr = graphics.Errorf(graphics.SwapFailed, "EGL_CONTEXT_LOST")
	assert.Equal(t, graphics.MakeCurrentFailed, graphics.KindOf(m.MakeCurrent(th, c)))

	b.MakeCurrentErr = graphics.Errorf(graphics.BackendUnavailable, "display gone")
	assert.Equal(t, graphics.BackendUnavailable, graphics.KindOf(m.MakeCurrent(th, c)))
}

func TestNilThreadIsRejected(t *testing.T) {
	b := backendtest.New()
	m := newManager(t, b)
	w, err := m.CreateWindow(testWindow)
	require.NoError(t, err)
	c, err := m.CreateContext(w, testContext)
	require.NoError(t, err)

	assert.ErrorIs(t, m.MakeCurrent(nil, c), graphics.ErrMakeCurrentFailed)
	assert.False(t, b.Contexts()[0].Current())
	assert.ErrorIs(t, m.SwapBuffers(nil, c), graphics.ErrNotCurrent)
	_, err = m.Probe(nil, c)
	assert.ErrorIs(t, err, graphics.ErrNotCurrent)
	assert.Zero(t, b.Contexts()[0].Swaps())
}

func TestThreadCleanupReleasesContext(t *testing.T) {
	b := backendtest.New()
	m := newManager(t, b)
	w, err := m.CreateWindow(testWindow)
	require.NoError(t, err)
	c, err := m.CreateContext(w, testContext)
	require.NoError(t, err)

	var th *graphics.Thread
	t.Run("current", func(t *testing.T) {
		th = newThread(t, m)
		require.NoError(t, m.MakeCurrent(th, c))
	})
	_, ok := m.Current(th)
	assert.False(t, ok)
	assert.False(t, b.Contexts()[0].Current())
	assert.NoError(t, m.MakeCurrent(m.Owner(), c), "context is free for another thread")
}

func TestMakeCurrentNativeFailure(t *testing.T) {
	b := backendtest.New()
	m := newManager(t, b)
	th := newThread(t, m)
	w, err := m.CreateWindow(testWindow)
	require.NoError(t, err)
	c, err := m.CreateContext(w, testContext)
	require.NoError(t, err)

	b.MakeCurrentErr = errors.New("EGL_BAD_MATCH")
	assert.ErrorIs(t, m.MakeCurrent(th, c), graphics.ErrMakeCurrentFailed)
	_, ok := m.Current(th)
	assert.False(t, ok)
}

func TestSwapFailureIsSurfaced(t *testing.T) {
	b := backendtest.New()
	m := newManager(t, b)
	th := newThread(t, m)
	w, err := m.CreateWindow(testWindow)
	require.NoError(t, err)
	c, err := m.CreateContext(w, testContext)
	require.NoError(t, err)
	require.NoError(t, m.MakeCurrent(th, c))

	b.SwapErr = errors.New("surface lost")
	assert.ErrorIs(t, m.SwapBuffers(th, c), graphics.ErrSwapFailed)
}

func TestDestroyIsIdempotent(t *testing.T) {
	b := backendtest.New()
	m := newManager(t, b)
	th := newThread(t, m)
	w, err := m.CreateWindow(testWindow)
	require.NoError(t, err)
	c, err := m.CreateContext(w, testContext)
	require.NoError(t, err)
	require.NoError(t, m.MakeCurrent(th, c))

	m.DestroyContext(c)
	m.DestroyContext(c)
	m.DestroyWindow(w)
	m.DestroyWindow(w)

	assert.Equal(t, 1, b.Contexts()[0].DestroyCount())
	assert.Equal(t, 1, b.Windows()[0].DestroyCount())
	_, ok := m.Current(th)
	assert.False(t, ok, "destroying a current context releases it")
	assert.ErrorIs(t, m.SwapBuffers(th, c), graphics.ErrNotCurrent)
	assert.ErrorIs(t, m.MakeCurrent(th, c), graphics.ErrMakeCurrentFailed)
}

func TestDestroyWindowDestroysContextFirst(t *testing.T) {
	b := backendtest.New()
	m := newManager(t, b)
	w, err := m.CreateWindow(testWindow)
	require.NoError(t, err)
	c, err := m.CreateContext(w, testContext)
	require.NoError(t, err)

	m.DestroyWindow(w)
	assert.True(t, b.Contexts()[0].DestroyedBeforeWindow())
	_, ok := m.ContextWindow(c)
	assert.False(t, ok)
	windows, contexts := m.Live()
	assert.Zero(t, windows)
	assert.Zero(t, contexts)
}

func TestResize(t *testing.T) {
	b := backendtest.New()
	m := newManager(t, b)
	w, err := m.CreateWindow(testWindow)
	require.NoError(t, err)

	require.NoError(t, m.Resize(w, 1024, 768))
	width, height, err := m.WindowSize(w)
	require.NoError(t, err)
	assert.Equal(t, [2]int{1024, 768}, [2]int{width, height})

	assert.ErrorIs(t, m.Resize(w, 0, 768), graphics.ErrUnsupportedAttributes)
	b.ResizeErr = errors.New("BadValue")
	assert.ErrorIs(t, m.Resize(w, 10, 10), graphics.ErrWindowCreationFailed)
	b.ResizeErr = nil
	m.DestroyWindow(w)
	assert.ErrorIs(t, m.Resize(w, 10, 10), graphics.ErrInvalidHandle)
}

func TestProbe(t *testing.T) {
	m := newManager(t, backendtest.New())
	th := newThread(t, m)
	w, err := m.CreateWindow(testWindow)
	require.NoError(t, err)
	c, err := m.CreateContext(w, testContext)
	require.NoError(t, err)

	_, err = m.Probe(th, c)
	assert.ErrorIs(t, err, graphics.ErrNotCurrent)

	require.NoError(t, m.MakeCurrent(th, c))
	info, err := m.Probe(th, c)
	require.NoError(t, err)
	assert.Equal(t, graphics.Version{Major: 3, Minor: 3}, info.Version)
	assert.Equal(t, [4]int32{0, 0, 800, 600}, info.Viewport)
}

func TestCloseTearsDownEverything(t *testing.T) {
	b := backendtest.New()
	m, err := graphics.NewManager(b, nil)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		w, err := m.CreateWindow(testWindow)
		require.NoError(t, err)
		_, err = m.CreateContext(w, testContext)
		require.NoError(t, err)
	}

	m.Close()
	m.Close()
	assert.True(t, b.Terminated())
	for _, c := range b.Contexts() {
		assert.True(t, c.DestroyedBeforeWindow())
	}
	for _, w := range b.Windows() {
		assert.Equal(t, 1, w.DestroyCount())
	}
	_, err = m.CreateWindow(testWindow)
	assert.ErrorIs(t, err, graphics.ErrBackendUnavailable)
}

func TestUnavailableBackend(t *testing.T) {
	_, err := graphics.NewManager(graphics.Unavailable("nope", "not built for this platform"), nil)
	require.ErrorIs(t, err, graphics.ErrBackendUnavailable)
	assert.Contains(t, err.Error(), "not built for this platform")
}
