//go:build linux && !js

package headless

import (
	"fmt"
	"sync"

	"github.com/richinsley/glcontext/egl"
	"github.com/richinsley/glcontext/glstate"
	"github.com/richinsley/glcontext/graphics"
)

// Backend owns one EGL device display.
type Backend struct {
	display *egl.Display

	mu      sync.Mutex
	pending []pending
}

type pending struct {
	w  *Window
	ev graphics.LifecycleEvent
}

// New returns an uninitialised headless backend.
func New() *Backend {
	return &Backend{}
}

func (b *Backend) Name() string { return Name }

func (b *Backend) Capabilities() graphics.Capabilities {
	return graphics.Capabilities{
		CoalesceResize: true,
		Profiles:       []graphics.Profile{graphics.ProfileCore, graphics.ProfileCompat, graphics.ProfileES},
		ThreadTransfer: true,
	}
}

func (b *Backend) Init() error {
	d, err := egl.OpenDevice()
	if err != nil {
		return err
	}
	b.display = d
	major, minor := d.Version()
	graphics.Logger().Info("EGL Initialized", "backend", Name, "version", fmt.Sprintf("%d.%d", major, minor))
	return nil
}

func (b *Backend) Terminate() {
	if b.display == nil {
		return
	}
	b.display.Terminate()
	b.display = nil
	b.mu.Lock()
	b.pending = nil
	b.mu.Unlock()
}

func (b *Backend) push(w *Window, ev graphics.LifecycleEvent) {
	b.mu.Lock()
	b.pending = append(b.pending, pending{w, ev})
	b.mu.Unlock()
}

func (b *Backend) PollEvents(emit func(graphics.NativeWindow, graphics.LifecycleEvent)) {
	b.mu.Lock()
	queue := b.pending
	b.pending = nil
	b.mu.Unlock()
	for _, p := range queue {
		emit(p.w, p.ev)
	}
}

// NewWindow records the size. The pbuffer is allocated with the context,
// once a config is known.
func (b *Backend) NewWindow(attrs graphics.WindowAttributes) (graphics.NativeWindow, error) {
	return &Window{b: b, width: attrs.Width, height: attrs.Height}, nil
}

func (b *Backend) NewContext(nw graphics.NativeWindow, attrs graphics.ContextAttributes) (graphics.NativeContext, error) {
	w, ok := nw.(*Window)
	if !ok || w.destroyed {
		return nil, graphics.Errorf(graphics.ContextCreationFailed, "window %T is not a live headless window", nw)
	}
	cfg, err := b.display.ChooseConfig(attrs, egl.PbufferSurface)
	if err != nil {
		return nil, err
	}
	width, height := w.Size()
	surface, err := b.display.CreatePbufferSurface(cfg, width, height)
	if err != nil {
		return nil, err
	}
	ctx, err := b.display.CreateContext(cfg, attrs)
	if err != nil {
		b.display.DestroySurface(surface)
		return nil, err
	}
	graphics.Logger().Debug("EGL context created", "backend", Name, "version", attrs.Version(), "profile", attrs.Profile,
		"width", width, "height", height)
	return &Context{d: b.display, w: w, cfg: cfg, surface: surface, width: width, height: height, ctx: ctx, attrs: attrs, debug: glstate.NewDebugOutput(Name, attrs)}, nil
}

// Window is a pbuffer-backed window. Its size is read by the context
// thread, so it is guarded.
type Window struct {
	b             *Backend
	mu            sync.Mutex
	width, height int
	destroyed     bool
}

func (w *Window) Size() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

// SetSize takes effect at once for Size. The context follows on its own
// thread at the next make-current or swap.
func (w *Window) SetSize(width, height int) error {
	w.mu.Lock()
	if w.destroyed {
		w.mu.Unlock()
		return graphics.Errorf(graphics.InvalidHandle, "window destroyed")
	}
	w.width, w.height = width, height
	w.mu.Unlock()
	w.b.push(w, graphics.ResizeEvent(width, height))
	return nil
}

func (w *Window) Destroy() {
	w.mu.Lock()
	w.destroyed = true
	w.mu.Unlock()
}

// Context renders into a pbuffer sized like its window.
type Context struct {
	d             *egl.Display
	w             *Window
	cfg           egl.Config
	surface       egl.Surface
	width, height int
	ctx           egl.Context
	attrs         graphics.ContextAttributes
	debug         *glstate.DebugOutput
}

func (c *Context) MakeCurrent() error {
	if err := c.follow(); err != nil {
		return err
	}
	if err := c.d.MakeCurrent(c.surface, c.ctx); err != nil {
		return err
	}
	if err := glstate.Init(); err != nil {
		c.d.ReleaseCurrent(c.ctx)
		return graphics.Errorf(graphics.MakeCurrentFailed, "%w", err)
	}
	c.debug.Attach()
	return nil
}

// follow replaces the pbuffer when the window was resized. It runs on the
// thread the context is, or is about to be, current on.
func (c *Context) follow() error {
	width, height := c.w.Size()
	if width == c.width && height == c.height {
		return nil
	}
	surface, err := c.d.CreatePbufferSurface(c.cfg, width, height)
	if err != nil {
		return err
	}
	old := c.surface
	c.surface, c.width, c.height = surface, width, height
	graphics.Logger().Debug("pbuffer resized", "backend", Name, "width", width, "height", height)
	if old != (egl.Surface{}) {
		c.d.DestroySurface(old)
	}
	return nil
}

func (c *Context) ReleaseCurrent() error {
	return c.d.ReleaseCurrent(c.ctx)
}

// SwapBuffers has nothing to present; it rebinds after a resize so the next
// frame renders at the new size.
func (c *Context) SwapBuffers() error {
	if err := c.d.SwapBuffers(c.surface); err != nil {
		return err
	}
	c.debug.AfterSwap()
	before := c.surface
	if err := c.follow(); err != nil {
		return graphics.Errorf(graphics.SwapFailed, "failed to resize pbuffer: %w", err)
	}
	if c.surface != before {
		return c.d.MakeCurrent(c.surface, c.ctx)
	}
	return nil
}

func (c *Context) Destroy() {
	c.d.DestroyContext(c.ctx)
	c.d.DestroySurface(c.surface)
	c.ctx, c.surface = egl.Context{}, egl.Surface{}
}

func (c *Context) Probe() (graphics.ProbeInfo, error) {
	info := glstate.Probe()
	info.Framebuffer[0], info.Framebuffer[1] = c.d.SurfaceSize(c.surface)
	return info, nil
}
