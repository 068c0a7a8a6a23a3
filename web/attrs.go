// Package web runs in the browser: a window is a canvas element and its
// context is WebGL, which only offers OpenGL ES. The browser presents a
// frame when control returns to it, and everything runs on one thread.
package web

import "github.com/richinsley/glcontext/graphics"

// Name identifies the backend in logs and reports.
const Name = "web"

// contextType picks the getContext type for an ES request and the version
// it provides. WebGL 2 is ES 3.0, WebGL 1 is ES 2.0.
func contextType(a graphics.ContextAttributes) (string, graphics.Version, error) {
	if a.Profile != graphics.ProfileES {
		return "", graphics.Version{}, graphics.Errorf(graphics.UnsupportedAttributes, "WebGL only provides OpenGL ES, not %s", a.Profile)
	}
	switch v := a.Version(); {
	case v == graphics.Version{Major: 2, Minor: 0}:
		return "webgl", v, nil
	case v == graphics.Version{Major: 3, Minor: 0}:
		return "webgl2", v, nil
	default:
		return "", graphics.Version{}, graphics.Errorf(graphics.UnsupportedAttributes, "WebGL has no ES %s", v)
	}
}

// contextOptions builds the WebGLContextAttributes dictionary.
func contextOptions(a graphics.ContextAttributes, transparent bool) map[string]interface{} {
	return map[string]interface{}{
		"alpha":                 transparent || a.AlphaBits > 0,
		"depth":                 true,
		"stencil":               a.StencilBits > 0,
		"antialias":             a.Samples > 1,
		"premultipliedAlpha":    true,
		"preserveDrawingBuffer": false,
		// Low latency rendering, which gives up vsync.
		"desynchronized": !a.VSync,
	}
}
