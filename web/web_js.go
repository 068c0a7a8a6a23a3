//go:build js

package web

import (
	"fmt"
	"sync"
	"syscall/js"

	"github.com/richinsley/glcontext/graphics"
)

// WebGL enumerants read by Probe.
const (
	glNoError  = 0
	glRenderer = 0x1F01
	glViewport = 0x0BA2
)

// Backend places canvases in the document body.
type Backend struct {
	document js.Value

	mu        sync.Mutex
	pending   []pending
	windows   map[*Window]struct{}
	listeners []listener
}

type listener struct {
	target js.Value
	event  string
	fn     js.Func
}

func (l listener) remove() {
	l.target.Call("removeEventListener", l.event, l.fn)
	l.fn.Release()
}

func listen(target js.Value, event string, f func(js.Value)) listener {
	fn := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		var ev js.Value
		if len(args) > 0 {
			ev = args[0]
		}
		f(ev)
		return nil
	})
	target.Call("addEventListener", event, fn)
	return listener{target, event, fn}
}

type pending struct {
	w  *Window
	ev graphics.LifecycleEvent
}

// New returns an uninitialised web backend.
func New() *Backend {
	return &Backend{}
}

func (b *Backend) Name() string { return Name }

func (b *Backend) Capabilities() graphics.Capabilities {
	return graphics.Capabilities{
		CoalesceResize: true,
		Profiles:       []graphics.Profile{graphics.ProfileES},
	}
}

func (b *Backend) Init() error {
	doc := js.Global().Get("document")
	if doc.IsUndefined() || doc.IsNull() {
		return graphics.Errorf(graphics.BackendUnavailable, "no document, not running in a browser")
	}
	b.document = doc
	b.windows = make(map[*Window]struct{})
	b.listeners = []listener{
		listen(js.Global(), "resize", func(js.Value) {
			b.each(func(w *Window) {
				if w.attrs.Fullscreen {
					w.fill()
				}
			})
		}),
		listen(doc, "visibilitychange", func(js.Value) {
			kind := graphics.Resumed
			if doc.Get("hidden").Bool() {
				kind = graphics.Suspended
			}
			b.each(func(w *Window) { b.push(w, graphics.LifecycleEvent{Kind: kind}) })
		}),
		listen(js.Global(), "beforeunload", func(js.Value) {
			b.each(func(w *Window) { b.push(w, graphics.LifecycleEvent{Kind: graphics.CloseRequested}) })
		}),
	}
	graphics.Logger().Info("web backend initialized", "userAgent", js.Global().Get("navigator").Get("userAgent").String())
	return nil
}

func (b *Backend) each(f func(*Window)) {
	b.mu.Lock()
	ws := make([]*Window, 0, len(b.windows))
	for w := range b.windows {
		ws = append(ws, w)
	}
	b.mu.Unlock()
	for _, w := range ws {
		f(w)
	}
}

func (b *Backend) Terminate() {
	b.each(func(w *Window) { w.Destroy() })
	for _, l := range b.listeners {
		l.remove()
	}
	b.listeners = nil
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

func (b *Backend) NewWindow(attrs graphics.WindowAttributes) (graphics.NativeWindow, error) {
	canvas := b.document.Call("createElement", "canvas")
	if canvas.IsNull() || canvas.IsUndefined() {
		return nil, graphics.Errorf(graphics.WindowCreationFailed, "failed to create canvas")
	}
	w := &Window{b: b, attrs: attrs, canvas: canvas}
	canvas.Set("tabIndex", 0)
	style := canvas.Get("style")
	style.Set("outline", "none")
	if attrs.Transparent {
		style.Set("background", "transparent")
	}
	if attrs.Hidden {
		style.Set("display", "none")
	}
	if attrs.Fullscreen {
		style.Set("position", "fixed")
		style.Set("left", "0")
		style.Set("top", "0")
	}
	w.setSize(attrs.Width, attrs.Height)
	if attrs.Title != "" {
		b.document.Set("title", attrs.Title)
	}

	w.listeners = []listener{
		listen(canvas, "focus", func(js.Value) { b.push(w, graphics.FocusEvent(true)) }),
		listen(canvas, "blur", func(js.Value) { b.push(w, graphics.FocusEvent(false)) }),
		listen(canvas, "webglcontextlost", func(ev js.Value) {
			// Ask the browser to restore the context.
			ev.Call("preventDefault")
			b.push(w, graphics.LifecycleEvent{Kind: graphics.Suspended})
		}),
		listen(canvas, "webglcontextrestored", func(js.Value) {
			b.push(w, graphics.LifecycleEvent{Kind: graphics.Resumed})
		}),
	}
	b.document.Get("body").Call("appendChild", canvas)

	b.mu.Lock()
	b.windows[w] = struct{}{}
	b.mu.Unlock()
	return w, nil
}

func (b *Backend) NewContext(nw graphics.NativeWindow, attrs graphics.ContextAttributes) (graphics.NativeContext, error) {
	w, ok := nw.(*Window)
	if !ok || w.destroyed {
		return nil, graphics.Errorf(graphics.ContextCreationFailed, "window %T is not a live canvas", nw)
	}
	typ, version, err := contextType(attrs)
	if err != nil {
		return nil, err
	}
	ctx := w.canvas.Call("getContext", typ, contextOptions(attrs, w.attrs.Transparent))
	if ctx.IsNull() || ctx.IsUndefined() {
		if typ == "webgl2" {
			return nil, graphics.Errorf(graphics.UnsupportedAttributes, "browser does not support %s", typ)
		}
		return nil, graphics.Errorf(graphics.ContextCreationFailed, "canvas.getContext(%q) failed", typ)
	}
	graphics.Logger().Debug("WebGL context created", "backend", Name, "type", typ)
	return &Context{w: w, gl: ctx, version: version, attrs: attrs}, nil
}

// Window is a canvas element.
type Window struct {
	b         *Backend
	attrs     graphics.WindowAttributes
	canvas    js.Value
	listeners []listener
	destroyed bool
}

func (w *Window) setSize(width, height int) {
	w.canvas.Set("width", width)
	w.canvas.Set("height", height)
	style := w.canvas.Get("style")
	style.Set("width", fmt.Sprintf("%dpx", width))
	style.Set("height", fmt.Sprintf("%dpx", height))
}

// fill resizes a fullscreen canvas to the page.
func (w *Window) fill() {
	width := js.Global().Get("innerWidth").Int()
	height := js.Global().Get("innerHeight").Int()
	if cw, ch := w.Size(); cw == width && ch == height {
		return
	}
	w.setSize(width, height)
	w.b.push(w, graphics.ResizeEvent(width, height))
}

func (w *Window) Size() (int, int) {
	if w.destroyed {
		return 0, 0
	}
	return w.canvas.Get("width").Int(), w.canvas.Get("height").Int()
}

func (w *Window) SetSize(width, height int) error {
	if w.destroyed {
		return graphics.Errorf(graphics.InvalidHandle, "canvas removed")
	}
	w.setSize(width, height)
	w.b.push(w, graphics.ResizeEvent(width, height))
	return nil
}

func (w *Window) Destroy() {
	if w.destroyed {
		return
	}
	w.destroyed = true
	for _, l := range w.listeners {
		l.remove()
	}
	w.listeners = nil
	w.canvas.Call("remove")
	w.b.mu.Lock()
	delete(w.b.windows, w)
	w.b.mu.Unlock()
}

// Context is a WebGL rendering context. The browser has no notion of a
// current context, so MakeCurrent and ReleaseCurrent only check liveness.
type Context struct {
	w       *Window
	gl      js.Value
	version graphics.Version
	attrs   graphics.ContextAttributes
	dead    bool
}

func (c *Context) MakeCurrent() error {
	if c.dead || c.w.destroyed {
		return graphics.Errorf(graphics.MakeCurrentFailed, "context destroyed")
	}
	return nil
}

func (c *Context) ReleaseCurrent() error { return nil }

// SwapBuffers reports a lost context. Presentation happens when the Go
// program yields to the browser.
func (c *Context) SwapBuffers() error {
	if c.gl.Call("isContextLost").Bool() {
		return graphics.Errorf(graphics.SwapFailed, "WebGL context lost")
	}
	if c.attrs.Debug {
		for i := 0; i < 16; i++ {
			code := c.gl.Call("getError").Int()
			if code == glNoError {
				break
			}
			graphics.Logger().Warn("GL error", "backend", Name, "error", fmt.Sprintf("0x%x", code))
		}
	}
	return nil
}

// Destroy retires the context. A canvas keeps its rendering context for
// life, so a later context request on the same window gets it back.
func (c *Context) Destroy() {
	c.dead = true
}

func (c *Context) Probe() (graphics.ProbeInfo, error) {
	info := graphics.ProbeInfo{
		Version:  c.version,
		Renderer: c.gl.Call("getParameter", glRenderer).String(),
	}
	vp := c.gl.Call("getParameter", glViewport)
	for i := range info.Viewport {
		info.Viewport[i] = int32(vp.Index(i).Int())
	}
	info.Framebuffer[0] = c.gl.Get("drawingBufferWidth").Int()
	info.Framebuffer[1] = c.gl.Get("drawingBufferHeight").Int()
	return info, nil
}
