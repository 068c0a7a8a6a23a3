//go:build !linux || js

package headless

import "github.com/richinsley/glcontext/graphics"

// New returns a backend that reports itself unavailable.
func New() graphics.Backend {
	return graphics.Unavailable(Name, "egl headless rendering is not supported on this platform")
}
