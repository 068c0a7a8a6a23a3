package egl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/glcontext/graphics"
)

// pairs turns a none-terminated attribute list into a map.
func pairs(t *testing.T, list []int32) map[int32]int32 {
	t.Helper()
	require.Equal(t, int32(none), list[len(list)-1], "list must end with EGL_NONE")
	require.Equal(t, 1, len(list)%2, "odd length including terminator")
	m := make(map[int32]int32)
	for i := 0; i+1 < len(list); i += 2 {
		m[list[i]] = list[i+1]
	}
	return m
}

func TestConfigAttribsDefaults(t *testing.T) {
	m := pairs(t, configAttribs(graphics.ContextAttributes{Major: 3, Minor: 3}, WindowSurface))
	assert.Equal(t, int32(windowBit), m[surfaceType])
	assert.Equal(t, int32(openGLBit), m[renderable])
	assert.Equal(t, int32(8), m[redSize])
	assert.Equal(t, int32(24), m[depthSize])
	assert.Equal(t, int32(0), m[stencilSize])
	_, ok := m[samples]
	assert.False(t, ok)
}

func TestConfigAttribsES(t *testing.T) {
	m := pairs(t, configAttribs(graphics.ContextAttributes{Major: 3, Profile: graphics.ProfileES, Samples: 4, ColorBits: 10}, PbufferSurface))
	assert.Equal(t, int32(pbufferBit), m[surfaceType])
	assert.Equal(t, int32(openGLES3Bit), m[renderable])
	assert.Equal(t, int32(10), m[blueSize])
	assert.Equal(t, int32(4), m[samples])
	assert.Equal(t, int32(1), m[sampleBuffer])

	m = pairs(t, configAttribs(graphics.ContextAttributes{Major: 2, Profile: graphics.ProfileES}, PbufferSurface))
	assert.Equal(t, int32(openGLES2Bit), m[renderable])
}

func TestVisualConfigAttribsLeavesAlphaToVisual(t *testing.T) {
	m := pairs(t, visualConfigAttribs(graphics.ContextAttributes{Major: 3, Minor: 3}))
	assert.Equal(t, int32(0), m[alphaSize])
	assert.Equal(t, int32(windowBit), m[surfaceType])

	m = pairs(t, visualConfigAttribs(graphics.ContextAttributes{Major: 3, Minor: 3, AlphaBits: 8}))
	assert.Equal(t, int32(8), m[alphaSize])
}

func TestContextAttribs(t *testing.T) {
	m := pairs(t, contextAttribs(graphics.ContextAttributes{Major: 4, Minor: 1, Profile: graphics.ProfileCore, Debug: true}))
	assert.Equal(t, int32(4), m[contextMajor])
	assert.Equal(t, int32(1), m[contextMinor])
	assert.Equal(t, int32(contextCoreBit), m[contextProfileMask])
	assert.Equal(t, int32(1), m[contextDebug])

	m = pairs(t, contextAttribs(graphics.ContextAttributes{Major: 3, Profile: graphics.ProfileES}))
	_, ok := m[contextProfileMask]
	assert.False(t, ok, "ES contexts carry no profile mask")
	assert.Equal(t, uint32(apiOpenGLES), api(graphics.ProfileES))
	assert.Equal(t, uint32(apiOpenGL), api(graphics.ProfileCompat))
}

func TestErrorTranslation(t *testing.T) {
	tests := []struct {
		code     int
		fallback graphics.Kind
		want     graphics.Kind
	}{
		{BadMatch, graphics.ContextCreationFailed, graphics.UnsupportedAttributes},
		{BadMatch, graphics.MakeCurrentFailed, graphics.MakeCurrentFailed},
		{BadAccess, graphics.MakeCurrentFailed, graphics.AlreadyCurrentElsewhere},
		{BadConfig, graphics.ContextCreationFailed, graphics.UnsupportedAttributes},
		{ContextLost, graphics.MakeCurrentFailed, graphics.MakeCurrentFailed},
		{ContextLost, graphics.SwapFailed, graphics.SwapFailed},
		{BadSurface, graphics.SwapFailed, graphics.SwapFailed},
		{BadDisplay, graphics.WindowCreationFailed, graphics.BackendUnavailable},
	}
	for _, tt := range tests {
		err := wrap("eglTest", tt.code, tt.fallback)
		assert.Equal(t, tt.want, graphics.KindOf(err), codeNames[tt.code])
	}

	err := wrap("eglSwapBuffers", BadSurface, graphics.SwapFailed)
	var eerr *Error
	require.ErrorAs(t, err, &eerr)
	assert.Equal(t, "eglSwapBuffers failed: EGL_BAD_SURFACE", eerr.Error())
	assert.Equal(t, "eglX failed: 0x1234", (&Error{Op: "eglX", Code: 0x1234}).Error())
}
