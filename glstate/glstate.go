// Package glstate loads GL function pointers and reads state from whatever
// context is current on the calling thread. Every backend with a native GL
// driver shares it.
package glstate

import (
	"fmt"
	"sync"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"github.com/richinsley/glcontext/graphics"
)

var (
	initOnce sync.Once
	initErr  error
)

// Init loads GL function pointers once per process. A context must be
// current on the calling thread.
func Init() error {
	initOnce.Do(func() {
		initErr = gl.Init()
		if initErr == nil {
			graphics.Logger().Info("OpenGL initialized",
				"version", gl.GoStr(gl.GetString(gl.VERSION)),
				"renderer", gl.GoStr(gl.GetString(gl.RENDERER)))
		}
	})
	if initErr != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}
	return nil
}

// Probe reads the version, renderer and viewport of the current context.
// Framebuffer is left for the caller, which knows its surface.
func Probe() graphics.ProbeInfo {
	var info graphics.ProbeInfo
	var major, minor int32
	gl.GetIntegerv(gl.MAJOR_VERSION, &major)
	gl.GetIntegerv(gl.MINOR_VERSION, &minor)
	info.Version = graphics.Version{Major: int(major), Minor: int(minor)}
	info.Renderer = gl.GoStr(gl.GetString(gl.RENDERER))
	gl.GetIntegerv(gl.VIEWPORT, &info.Viewport[0])
	return info
}

var errorNames = map[uint32]string{
	gl.INVALID_ENUM:                  "GL_INVALID_ENUM",
	gl.INVALID_VALUE:                 "GL_INVALID_VALUE",
	gl.INVALID_OPERATION:             "GL_INVALID_OPERATION",
	gl.INVALID_FRAMEBUFFER_OPERATION: "GL_INVALID_FRAMEBUFFER_OPERATION",
	gl.OUT_OF_MEMORY:                 "GL_OUT_OF_MEMORY",
	gl.STACK_UNDERFLOW:               "GL_STACK_UNDERFLOW",
	gl.STACK_OVERFLOW:                "GL_STACK_OVERFLOW",
}

// ErrorName returns the GL name of an error code.
func ErrorName(code uint32) string {
	if name, ok := errorNames[code]; ok {
		return name
	}
	return fmt.Sprintf("0x%x", code)
}

// maxDrain bounds LogErrors, since a lost context can report errors forever.
const maxDrain = 16

// LogErrors drains the error queue of the current context and logs each
// error at warn level. Debug contexts call it after every swap. It returns
// the number of errors seen.
func LogErrors(backend string) int {
	return drain(gl.GetError, backend)
}

func drain(next func() uint32, backend string) int {
	n := 0
	for ; n < maxDrain; n++ {
		code := next()
		if code == gl.NO_ERROR {
			break
		}
		graphics.Logger().Warn("GL error", "backend", backend, "error", ErrorName(code))
	}
	return n
}
