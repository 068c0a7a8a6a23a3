package web

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/glcontext/graphics"
)

func TestContextType(t *testing.T) {
	typ, v, err := contextType(graphics.ContextAttributes{Major: 3, Profile: graphics.ProfileES})
	require.NoError(t, err)
	assert.Equal(t, "webgl2", typ)
	assert.Equal(t, graphics.Version{Major: 3}, v)

	typ, _, err = contextType(graphics.ContextAttributes{Major: 2, Profile: graphics.ProfileES})
	require.NoError(t, err)
	assert.Equal(t, "webgl", typ)
}

func TestContextTypeUnsupported(t *testing.T) {
	for _, a := range []graphics.ContextAttributes{
		{Major: 3, Minor: 3, Profile: graphics.ProfileCore},
		{Major: 2, Minor: 1, Profile: graphics.ProfileCompat},
		{Major: 3, Minor: 1, Profile: graphics.ProfileES},
		{Major: 1, Minor: 1, Profile: graphics.ProfileES},
	} {
		_, _, err := contextType(a)
		assert.ErrorIs(t, err, graphics.ErrUnsupportedAttributes, "%+v", a)
	}
}

func TestContextOptions(t *testing.T) {
	o := contextOptions(graphics.ContextAttributes{Major: 3, Profile: graphics.ProfileES, VSync: true}, false)
	assert.Equal(t, false, o["alpha"])
	assert.Equal(t, true, o["depth"])
	assert.Equal(t, false, o["stencil"])
	assert.Equal(t, false, o["desynchronized"])

	o = contextOptions(graphics.ContextAttributes{Major: 3, Profile: graphics.ProfileES, StencilBits: 8, Samples: 4}, true)
	assert.Equal(t, true, o["alpha"])
	assert.Equal(t, true, o["stencil"])
	assert.Equal(t, true, o["antialias"])
	assert.Equal(t, true, o["desynchronized"])
}
