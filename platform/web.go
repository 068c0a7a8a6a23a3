//go:build js

package platform

import (
	"github.com/richinsley/glcontext/graphics"
	"github.com/richinsley/glcontext/web"
)

// Name is the backend compiled into this build.
const Name = web.Name

// NeedsMainThread reports whether the backend must be owned by the process
// main thread.
const NeedsMainThread = false

// Backend returns a new backend of the compiled kind.
func Backend() graphics.Backend {
	return web.New()
}
