package egl

import (
	"fmt"

	"github.com/richinsley/glcontext/graphics"
)

// EGL enumerants used by this package. Values are fixed by the Khronos
// registry, so attribute lists can be built and tested without cgo.
const (
	none = 0x3038

	redSize      = 0x3024
	greenSize    = 0x3023
	blueSize     = 0x3022
	alphaSize    = 0x3021
	depthSize    = 0x3025
	stencilSize  = 0x3026
	surfaceType  = 0x3033
	renderable   = 0x3040
	sampleBuffer = 0x3032
	samples      = 0x3031
	nativeVisual = 0x302E

	pbufferBit = 0x0001
	windowBit  = 0x0004

	openGLES2Bit = 0x0004
	openGLES3Bit = 0x0040
	openGLBit    = 0x0008

	contextMajor         = 0x3098
	contextMinor         = 0x30FB
	contextProfileMask   = 0x30FD
	contextCoreBit       = 0x0001
	contextCompatBit     = 0x0002
	contextDebug         = 0x31B0
	contextForwardCompat = 0x31B1

	width  = 0x3057
	height = 0x3056

	apiOpenGL   = 0x30A2
	apiOpenGLES = 0x30A0
)

// SurfaceKind selects what a config must be able to render to.
type SurfaceKind int

const (
	WindowSurface SurfaceKind = iota
	PbufferSurface
)

func surfaceBit(k SurfaceKind) int32 {
	if k == PbufferSurface {
		return pbufferBit
	}
	return windowBit
}

func renderableBit(a graphics.ContextAttributes) int32 {
	if a.Profile != graphics.ProfileES {
		return openGLBit
	}
	if a.Major >= 3 {
		return openGLES3Bit
	}
	return openGLES2Bit
}

// api returns the client API to bind before creating or using a context.
func api(p graphics.Profile) uint32 {
	if p == graphics.ProfileES {
		return apiOpenGLES
	}
	return apiOpenGL
}

func orDefault(v, def int) int32 {
	if v == 0 {
		return int32(def)
	}
	return int32(v)
}

// configAttribs builds the eglChooseConfig list for a context request.
func configAttribs(a graphics.ContextAttributes, k SurfaceKind) []int32 {
	color := orDefault(a.ColorBits, 8)
	list := []int32{
		surfaceType, surfaceBit(k),
		renderable, renderableBit(a),
		redSize, color,
		greenSize, color,
		blueSize, color,
		alphaSize, orDefault(a.AlphaBits, 8),
		depthSize, orDefault(a.DepthBits, 24),
		stencilSize, int32(a.StencilBits),
	}
	if a.Samples > 1 {
		list = append(list, sampleBuffer, 1, samples, int32(a.Samples))
	}
	return append(list, none)
}

// visualConfigAttribs is configAttribs for window surfaces whose visual is
// already fixed. The visual decides the alpha channel, so only an explicit
// AlphaBits request constrains it.
func visualConfigAttribs(a graphics.ContextAttributes) []int32 {
	list := configAttribs(a, WindowSurface)
	for i := 0; i+1 < len(list); i += 2 {
		if list[i] == alphaSize {
			list[i+1] = int32(a.AlphaBits)
		}
	}
	return list
}

// contextAttribs builds the eglCreateContext list for a context request.
func contextAttribs(a graphics.ContextAttributes) []int32 {
	list := []int32{
		contextMajor, int32(a.Major),
		contextMinor, int32(a.Minor),
	}
	switch a.Profile {
	case graphics.ProfileCore:
		list = append(list, contextProfileMask, contextCoreBit, contextForwardCompat, 1)
	case graphics.ProfileCompat:
		list = append(list, contextProfileMask, contextCompatBit)
	}
	if a.Debug {
		list = append(list, contextDebug, 1)
	}
	return append(list, none)
}

func pbufferAttribs(w, h int) []int32 {
	return []int32{width, int32(w), height, int32(h), none}
}

// Error codes returned by eglGetError.
const (
	Success           = 0x3000
	NotInitialized    = 0x3001
	BadAccess         = 0x3002
	BadAlloc          = 0x3003
	BadAttribute      = 0x3004
	BadConfig         = 0x3005
	BadContext        = 0x3006
	BadCurrentSurface = 0x3007
	BadDisplay        = 0x3008
	BadMatch          = 0x3009
	BadNativePixmap   = 0x300A
	BadNativeWindow   = 0x300B
	BadParameter      = 0x300C
	BadSurface        = 0x300D
	ContextLost       = 0x300E
)

var codeNames = map[int]string{
	Success:           "EGL_SUCCESS",
	NotInitialized:    "EGL_NOT_INITIALIZED",
	BadAccess:         "EGL_BAD_ACCESS",
	BadAlloc:          "EGL_BAD_ALLOC",
	BadAttribute:      "EGL_BAD_ATTRIBUTE",
	BadConfig:         "EGL_BAD_CONFIG",
	BadContext:        "EGL_BAD_CONTEXT",
	BadCurrentSurface: "EGL_BAD_CURRENT_SURFACE",
	BadDisplay:        "EGL_BAD_DISPLAY",
	BadMatch:          "EGL_BAD_MATCH",
	BadNativePixmap:   "EGL_BAD_NATIVE_PIXMAP",
	BadNativeWindow:   "EGL_BAD_NATIVE_WINDOW",
	BadParameter:      "EGL_BAD_PARAMETER",
	BadSurface:        "EGL_BAD_SURFACE",
	ContextLost:       "EGL_CONTEXT_LOST",
}

// Error is a failed EGL call.
type Error struct {
	Op   string
	Code int
}

func (e *Error) Error() string {
	name, ok := codeNames[e.Code]
	if !ok {
		name = fmt.Sprintf("0x%x", e.Code)
	}
	return fmt.Sprintf("%s failed: %s", e.Op, name)
}

// kindFor translates an EGL error code. Codes without a fixed meaning map
// to fallback, the failure kind of the calling operation.
func kindFor(code int, fallback graphics.Kind) graphics.Kind {
	switch code {
	case BadAttribute, BadConfig:
		return graphics.UnsupportedAttributes
	case BadMatch:
		if fallback == graphics.ContextCreationFailed {
			return graphics.UnsupportedAttributes
		}
	case BadAccess:
		if fallback == graphics.MakeCurrentFailed {
			return graphics.AlreadyCurrentElsewhere
		}
	case NotInitialized, BadDisplay:
		return graphics.BackendUnavailable
	}
	return fallback
}

// wrap builds the taxonomy error for a failed EGL call.
func wrap(op string, code int, fallback graphics.Kind) error {
	return &graphics.Error{Kind: kindFor(code, fallback), Err: &Error{Op: op, Code: code}}
}
