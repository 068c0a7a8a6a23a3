package glfwcontext

import (
	glfw "github.com/go-gl/glfw/v3.3/glfw"

	"github.com/richinsley/glcontext/graphics"
)

type hint struct {
	target glfw.Hint
	value  int
}

func boolHint(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}

// windowHints are shared by the context-less window and the window that is
// recreated with a context, so both look the same to the user.
func windowHints(a graphics.WindowAttributes) []hint {
	return []hint{
		{glfw.Resizable, boolHint(a.Resizable)},
		{glfw.Visible, glfw.False}, // shown after positioning
		{glfw.Focused, glfw.True},
		{glfw.TransparentFramebuffer, boolHint(a.Transparent)},
	}
}

// contextHints maps a context request to GLFW hints. Bits left at zero keep
// the GLFW defaults.
func contextHints(a graphics.ContextAttributes) []hint {
	var hs []hint
	if a.Profile == graphics.ProfileES {
		hs = append(hs, hint{glfw.ClientAPI, glfw.OpenGLESAPI})
	} else {
		hs = append(hs, hint{glfw.ClientAPI, glfw.OpenGLAPI})
	}
	hs = append(hs,
		hint{glfw.ContextVersionMajor, a.Major},
		hint{glfw.ContextVersionMinor, a.Minor},
	)
	switch a.Profile {
	case graphics.ProfileCore:
		hs = append(hs,
			hint{glfw.OpenGLProfile, glfw.OpenGLCoreProfile},
			hint{glfw.OpenGLForwardCompatible, glfw.True},
		)
	case graphics.ProfileCompat:
		if a.Version().Less(graphics.Version{Major: 3, Minor: 2}) {
			hs = append(hs, hint{glfw.OpenGLProfile, glfw.OpenGLAnyProfile})
		} else {
			hs = append(hs, hint{glfw.OpenGLProfile, glfw.OpenGLCompatProfile})
		}
	}
	if a.ColorBits > 0 {
		hs = append(hs,
			hint{glfw.RedBits, a.ColorBits},
			hint{glfw.GreenBits, a.ColorBits},
			hint{glfw.BlueBits, a.ColorBits},
		)
	}
	if a.AlphaBits > 0 {
		hs = append(hs, hint{glfw.AlphaBits, a.AlphaBits})
	}
	if a.DepthBits > 0 {
		hs = append(hs, hint{glfw.DepthBits, a.DepthBits})
	}
	if a.StencilBits > 0 {
		hs = append(hs, hint{glfw.StencilBits, a.StencilBits})
	}
	if a.Samples > 1 {
		hs = append(hs, hint{glfw.Samples, a.Samples})
	}
	hs = append(hs, hint{glfw.OpenGLDebugContext, boolHint(a.Debug)})
	return hs
}

func applyHints(hs []hint) {
	glfw.DefaultWindowHints()
	for _, h := range hs {
		glfw.WindowHint(h.target, h.value)
	}
}
