//go:build !js

package web

import "github.com/richinsley/glcontext/graphics"

// New returns a backend that reports itself unavailable.
func New() graphics.Backend {
	return graphics.Unavailable(Name, "WebGL requires a js/wasm build")
}
