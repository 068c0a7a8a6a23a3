// Package glfwcontext binds GLFW, which creates windows and their GL
// contexts together, to the graphics.Backend contract.
package glfwcontext

import (
	"errors"
	"sync"

	glfw "github.com/go-gl/glfw/v3.3/glfw"

	"github.com/richinsley/glcontext/glstate"
	"github.com/richinsley/glcontext/graphics"
)

// Name identifies the backend in logs and reports.
const Name = "glfw"

type queued struct {
	w  *Window
	ev graphics.LifecycleEvent
}

// Backend is the GLFW adapter. GLFW ties each context to the window it was
// created with, so a window starts without a client API and is recreated
// with one when a context is requested.
type Backend struct {
	mu    sync.Mutex
	queue []queued
}

// New returns an uninitialised GLFW backend.
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

// Init initializes GLFW. It must run on the main thread.
func (b *Backend) Init() (err error) {
	defer catch(&err, graphics.BackendUnavailable)
	if err := glfw.Init(); err != nil {
		return translate(err, graphics.BackendUnavailable)
	}
	graphics.Logger().Info("GLFW Initialized", "version", glfw.GetVersionString())
	return nil
}

// Terminate shuts GLFW down. It must run on the main thread.
func (b *Backend) Terminate() {
	glfw.Terminate()
	b.mu.Lock()
	b.queue = nil
	b.mu.Unlock()
	graphics.Logger().Info("GLFW Terminated")
}

func (b *Backend) push(w *Window, ev graphics.LifecycleEvent) {
	b.mu.Lock()
	b.queue = append(b.queue, queued{w, ev})
	b.mu.Unlock()
}

// PollEvents runs glfw.PollEvents and reports what the callbacks queued.
func (b *Backend) PollEvents(emit func(graphics.NativeWindow, graphics.LifecycleEvent)) {
	glfw.PollEvents()
	b.mu.Lock()
	queue := b.queue
	b.queue = nil
	b.mu.Unlock()
	for _, q := range queue {
		emit(q.w, q.ev)
	}
}

func (b *Backend) createNative(wa graphics.WindowAttributes, hs []hint) (*glfw.Window, error) {
	applyHints(hs)
	var monitor *glfw.Monitor
	if wa.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
	}
	return glfw.CreateWindow(wa.Width, wa.Height, wa.Title, monitor, nil)
}

// NewWindow creates a window without a client API.
func (b *Backend) NewWindow(attrs graphics.WindowAttributes) (nw graphics.NativeWindow, err error) {
	defer catch(&err, graphics.WindowCreationFailed)
	hs := append(windowHints(attrs), hint{glfw.ClientAPI, glfw.NoAPI})
	win, err := b.createNative(attrs, hs)
	if err != nil {
		return nil, translate(err, graphics.WindowCreationFailed)
	}
	w := &Window{b: b, attrs: attrs}
	w.attach(win)
	if !attrs.Hidden {
		win.Show()
	}
	return w, nil
}

// NewContext recreates w's native window with the requested context. The
// old native window is only destroyed once the new one exists, so a
// rejected request leaves w as it was.
func (b *Backend) NewContext(nw graphics.NativeWindow, attrs graphics.ContextAttributes) (nc graphics.NativeContext, err error) {
	defer catch(&err, graphics.ContextCreationFailed)
	w, ok := nw.(*Window)
	if !ok {
		return nil, graphics.Errorf(graphics.ContextCreationFailed, "window %T is not a GLFW window", nw)
	}

	old := w.native
	wa := w.attrs
	wa.Width, wa.Height = old.GetSize()
	x, y := old.GetPos()

	win, err := b.createNative(wa, append(windowHints(wa), contextHints(attrs)...))
	if err != nil {
		return nil, translate(err, graphics.ContextCreationFailed)
	}
	got := graphics.Version{
		Major: win.GetAttrib(glfw.ContextVersionMajor),
		Minor: win.GetAttrib(glfw.ContextVersionMinor),
	}
	if got.Less(attrs.Version()) {
		win.Destroy()
		return nil, graphics.Errorf(graphics.UnsupportedAttributes, "requested GL %s, driver created %s", attrs.Version(), got)
	}

	if !wa.Fullscreen {
		setPos(win, x, y)
	}
	old.Destroy()
	w.attach(win)
	if !wa.Hidden {
		win.Show()
	}
	graphics.Logger().Debug("GLFW context created", "requested", attrs.Version(), "version", got, "profile", attrs.Profile)
	return &Context{w: w, native: win, attrs: attrs, debug: glstate.NewDebugOutput(Name, attrs)}, nil
}

// Window is a GLFW window. Its native window is swapped when a context is
// created for it.
type Window struct {
	b      *Backend
	attrs  graphics.WindowAttributes
	native *glfw.Window
}

func (w *Window) attach(win *glfw.Window) {
	w.native = win
	win.SetSizeCallback(func(_ *glfw.Window, width, height int) {
		w.b.push(w, graphics.ResizeEvent(width, height))
	})
	win.SetFocusCallback(func(_ *glfw.Window, focused bool) {
		w.b.push(w, graphics.FocusEvent(focused))
	})
	win.SetCloseCallback(func(gw *glfw.Window) {
		// The application decides whether to close.
		gw.SetShouldClose(false)
		w.b.push(w, graphics.LifecycleEvent{Kind: graphics.CloseRequested})
	})
	win.SetIconifyCallback(func(_ *glfw.Window, iconified bool) {
		kind := graphics.Resumed
		if iconified {
			kind = graphics.Suspended
		}
		w.b.push(w, graphics.LifecycleEvent{Kind: kind})
	})
}

// setPos keeps the recreated window where the old one was. Some platforms,
// Wayland among them, refuse to position windows; that is not an error here.
func setPos(win *glfw.Window, x, y int) {
	defer func() {
		if r := recover(); r != nil {
			graphics.Logger().Debug("GLFW window position not set", "err", r)
		}
	}()
	win.SetPos(x, y)
}

func (w *Window) Size() (int, int) {
	if w.native == nil {
		return 0, 0
	}
	return w.native.GetSize()
}

func (w *Window) SetSize(width, height int) (err error) {
	defer catch(&err, graphics.WindowCreationFailed)
	if w.native == nil {
		return errors.New("window destroyed")
	}
	w.native.SetSize(width, height)
	return nil
}

func (w *Window) Destroy() {
	if w.native == nil {
		return
	}
	w.native.Destroy()
	w.native = nil
}

// Window returns the underlying *glfw.Window. Callers must not destroy it.
func (w *Window) Window() *glfw.Window {
	return w.native
}
