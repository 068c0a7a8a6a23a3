package glfwcontext

import (
	glfw "github.com/go-gl/glfw/v3.3/glfw"

	"github.com/richinsley/glcontext/glstate"
	"github.com/richinsley/glcontext/graphics"
)

// Context is the GL context of a GLFW window.
type Context struct {
	w      *Window
	native *glfw.Window
	attrs  graphics.ContextAttributes
	debug  *glstate.DebugOutput
	dead   bool
}

func (c *Context) MakeCurrent() (err error) {
	defer catch(&err, graphics.MakeCurrentFailed)
	if c.dead {
		return graphics.Errorf(graphics.MakeCurrentFailed, "context destroyed")
	}
	c.native.MakeContextCurrent()
	if err := glstate.Init(); err != nil {
		glfw.DetachCurrentContext()
		return graphics.Errorf(graphics.MakeCurrentFailed, "%w", err)
	}
	if c.attrs.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	c.debug.Attach()
	return nil
}

// ReleaseCurrent makes no context current on the calling thread.
func (c *Context) ReleaseCurrent() (err error) {
	defer catch(&err, graphics.MakeCurrentFailed)
	glfw.DetachCurrentContext()
	return nil
}

func (c *Context) SwapBuffers() (err error) {
	defer catch(&err, graphics.SwapFailed)
	if c.dead {
		return graphics.Errorf(graphics.SwapFailed, "context destroyed")
	}
	c.native.SwapBuffers()
	c.debug.AfterSwap()
	return nil
}

// Destroy retires the context. GLFW frees the native context together with
// its window, either when the window is destroyed or when the next context
// request replaces it.
func (c *Context) Destroy() {
	c.dead = true
}

func (c *Context) Probe() (graphics.ProbeInfo, error) {
	if glfw.GetCurrentContext() != c.native {
		return graphics.ProbeInfo{}, graphics.Errorf(graphics.NotCurrent, "context is not current on this thread")
	}
	info := glstate.Probe()
	info.Framebuffer[0], info.Framebuffer[1] = c.native.GetFramebufferSize()
	return info, nil
}
