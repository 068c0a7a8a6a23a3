// Package backendtest provides an in-memory graphics.Backend for tests of
// code built on the graphics package. Failures and capabilities are set on
// the Backend before use.
package backendtest

import (
	"errors"
	"sync"

	"github.com/richinsley/glcontext/graphics"
)

// Backend records every native call and answers from memory.
type Backend struct {
	BackendName string
	Caps        graphics.Capabilities
	MaxVersion  graphics.Version

	// Injected failures, returned by the matching native call when non-nil.
	InitErr        error
	WindowErr      error
	ContextErr     error
	MakeCurrentErr error
	SwapErr        error
	ResizeErr      error
	// SizeSkew is added to the width every new window reports.
	SizeSkew int
	// SilentResize stops SetSize from reporting Resized.
	SilentResize bool

	mu         sync.Mutex
	pending    []pendingEvent
	windows    []*Window
	contexts   []*Context
	inited     bool
	terminated bool
}

type pendingEvent struct {
	w  *Window
	ev graphics.LifecycleEvent
}

// New returns a Backend that supports every profile up to GL 4.6, tolerates
// no size difference, coalesces resizes and allows thread transfer.
func New() *Backend {
	return &Backend{
		BackendName: "backendtest",
		Caps: graphics.Capabilities{
			CoalesceResize: true,
			Profiles:       []graphics.Profile{graphics.ProfileCore, graphics.ProfileCompat, graphics.ProfileES},
			ThreadTransfer: true,
		},
		MaxVersion: graphics.Version{Major: 4, Minor: 6},
	}
}

func (b *Backend) Name() string                        { return b.BackendName }
func (b *Backend) Capabilities() graphics.Capabilities { return b.Caps }

func (b *Backend) Init() error {
	if b.InitErr != nil {
		return b.InitErr
	}
	b.mu.Lock()
	b.inited = true
	b.mu.Unlock()
	return nil
}

func (b *Backend) Terminate() {
	b.mu.Lock()
	b.terminated = true
	b.mu.Unlock()
}

// Inited reports whether Init succeeded.
func (b *Backend) Inited() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.inited
}

// Terminated reports whether Terminate ran.
func (b *Backend) Terminated() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.terminated
}

func (b *Backend) NewWindow(attrs graphics.WindowAttributes) (graphics.NativeWindow, error) {
	if b.WindowErr != nil {
		return nil, b.WindowErr
	}
	w := &Window{b: b, Attrs: attrs, width: attrs.Width + b.SizeSkew, height: attrs.Height}
	b.mu.Lock()
	b.windows = append(b.windows, w)
	b.mu.Unlock()
	return w, nil
}

func (b *Backend) NewContext(nw graphics.NativeWindow, attrs graphics.ContextAttributes) (graphics.NativeContext, error) {
	w, ok := nw.(*Window)
	if !ok {
		return nil, errors.New("foreign window")
	}
	if w.Destroyed() {
		return nil, errors.New("window destroyed")
	}
	if b.ContextErr != nil {
		return nil, b.ContextErr
	}
	if b.MaxVersion.Less(attrs.Version()) {
		return nil, graphics.Errorf(graphics.UnsupportedAttributes, "version %s above %s", attrs.Version(), b.MaxVersion)
	}
	c := &Context{b: b, Window: w, Attrs: attrs}
	b.mu.Lock()
	b.contexts = append(b.contexts, c)
	b.mu.Unlock()
	return c, nil
}

func (b *Backend) PollEvents(emit func(graphics.NativeWindow, graphics.LifecycleEvent)) {
	b.mu.Lock()
	pending := b.pending
	b.pending = nil
	b.mu.Unlock()
	for _, p := range pending {
		emit(p.w, p.ev)
	}
}

// Emit queues ev for w as if the native system reported it.
func (b *Backend) Emit(w *Window, ev graphics.LifecycleEvent) {
	b.mu.Lock()
	b.pending = append(b.pending, pendingEvent{w, ev})
	b.mu.Unlock()
}

// Windows returns every window created so far, destroyed or not.
func (b *Backend) Windows() []*Window {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*Window(nil), b.windows...)
}

// Contexts returns every context created so far.
func (b *Backend) Contexts() []*Context {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*Context(nil), b.contexts...)
}

// Window is the native window of Backend.
type Window struct {
	b             *Backend
	Attrs         graphics.WindowAttributes
	mu            sync.Mutex
	width, height int
	destroyed     int
}

func (w *Window) Size() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

func (w *Window) SetSize(width, height int) error {
	if w.Destroyed() {
		return errors.New("window destroyed")
	}
	if w.b.ResizeErr != nil {
		return w.b.ResizeErr
	}
	w.mu.Lock()
	w.width, w.height = width, height
	w.mu.Unlock()
	if !w.b.SilentResize {
		w.b.Emit(w, graphics.ResizeEvent(width, height))
	}
	return nil
}

func (w *Window) Destroy() {
	w.mu.Lock()
	w.destroyed++
	w.mu.Unlock()
}

// Destroyed reports whether Destroy ran at least once.
func (w *Window) Destroyed() bool { return w.DestroyCount() > 0 }

// DestroyCount reports how often Destroy ran. The Manager must call it once.
func (w *Window) DestroyCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.destroyed
}

// Context is the native context of Backend.
type Context struct {
	b      *Backend
	Window *Window
	Attrs  graphics.ContextAttributes

	mu        sync.Mutex
	current   bool
	swaps     int
	destroyed int
	// windowAliveAtDestroy records whether the window outlived the context.
	windowAliveAtDestroy bool
}

func (c *Context) MakeCurrent() error {
	if c.b.MakeCurrentErr != nil {
		return c.b.MakeCurrentErr
	}
	c.mu.Lock()
	c.current = true
	c.mu.Unlock()
	return nil
}

func (c *Context) ReleaseCurrent() error {
	c.mu.Lock()
	c.current = false
	c.mu.Unlock()
	return nil
}

func (c *Context) SwapBuffers() error {
	if c.b.SwapErr != nil {
		return c.b.SwapErr
	}
	c.mu.Lock()
	c.swaps++
	c.mu.Unlock()
	return nil
}

func (c *Context) Destroy() {
	c.mu.Lock()
	c.destroyed++
	c.windowAliveAtDestroy = !c.Window.Destroyed()
	c.mu.Unlock()
}

// Probe reports the requested version and a viewport covering the window.
func (c *Context) Probe() (graphics.ProbeInfo, error) {
	w, h := c.Window.Size()
	return graphics.ProbeInfo{
		Version:     c.Attrs.Version(),
		Renderer:    "backendtest",
		Viewport:    [4]int32{0, 0, int32(w), int32(h)},
		Framebuffer: [2]int{w, h},
	}, nil
}

// Current reports the native current flag.
func (c *Context) Current() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Swaps counts successful SwapBuffers calls.
func (c *Context) Swaps() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.swaps
}

// DestroyCount reports how often Destroy ran.
func (c *Context) DestroyCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.destroyed
}

// DestroyedBeforeWindow reports whether the context was destroyed while its
// window was still alive.
func (c *Context) DestroyedBeforeWindow() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.destroyed > 0 && c.windowAliveAtDestroy
}
