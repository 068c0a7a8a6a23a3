//go:build !js && !(linux && (x11egl || glheadless))

package platform

import (
	"github.com/richinsley/glcontext/glfwcontext"
	"github.com/richinsley/glcontext/graphics"
)

// Name is the backend compiled into this build.
const Name = glfwcontext.Name

// NeedsMainThread reports whether the backend must be owned by the process
// main thread.
const NeedsMainThread = true

// Backend returns a new backend of the compiled kind.
func Backend() graphics.Backend {
	return glfwcontext.New()
}
