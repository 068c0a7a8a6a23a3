//go:build !linux || js

package x11egl

import "github.com/richinsley/glcontext/graphics"

// New returns a backend that reports itself unavailable.
func New() graphics.Backend {
	return graphics.Unavailable(Name, "X11 with EGL is only supported on Linux")
}
