package graphics

import (
	"errors"
	"fmt"
	"sync"
)

type windowEntry struct {
	native  NativeWindow
	attrs   WindowAttributes
	context ContextHandle
}

type contextEntry struct {
	native NativeContext
	window WindowHandle
	attrs  ContextAttributes
	thread *Thread // thread the context is current on, nil if none
}

// Manager implements Context over a single Backend. It owns every native
// window and context created through it and enforces the lifecycle rules
// backends are not trusted with: handle validity, destruction order and the
// per-thread current context.
//
// Window operations and event polling run on the owner thread. Manager
// methods must not be called from inside a Thread.Call on the owner or on the
// thread passed to them.
type Manager struct {
	backend  Backend
	caps     Capabilities
	owner    *Thread
	ownOwner bool

	mu       sync.Mutex
	windows  arena[*windowEntry]
	contexts arena[*contextEntry]
	current  map[*Thread]ContextHandle
	byNative map[NativeWindow]WindowHandle
	closed   bool
}

// NewManager initialises b on owner. A nil owner starts a dedicated thread
// that is stopped by Close; backends that need the process main thread must
// be given the Thread from Main.
func NewManager(b Backend, owner *Thread) (*Manager, error) {
	m := &Manager{
		backend:  b,
		caps:     b.Capabilities(),
		owner:    owner,
		current:  make(map[*Thread]ContextHandle),
		byNative: make(map[NativeWindow]WindowHandle),
	}
	if m.owner == nil {
		m.owner = NewThread()
		m.ownOwner = true
	}
	if err := m.owner.CallErr(b.Init); err != nil {
		if m.ownOwner {
			m.owner.Stop()
		}
		return nil, stamp(err, b.Name(), "init", BackendUnavailable)
	}
	Logger().Debug("backend initialized", "backend", b.Name())
	return m, nil
}

// Backend returns the backend name.
func (m *Manager) Backend() string { return m.backend.Name() }

// Capabilities returns what the backend reported at construction.
func (m *Manager) Capabilities() Capabilities { return m.caps }

// Owner returns the thread window operations run on.
func (m *Manager) Owner() *Thread { return m.owner }

func (m *Manager) fail(op string, kind Kind, err error) error {
	err = stamp(err, m.backend.Name(), op, kind)
	Logger().Warn("operation failed", "backend", m.backend.Name(), "op", op, "kind", KindOf(err), "err", err)
	return err
}

func (m *Manager) checkOpen(op string) error {
	if m.closed {
		return m.fail(op, BackendUnavailable, errors.New("manager closed"))
	}
	return nil
}

// CreateWindow creates a native window. The window must report the
// requested size, within the backend tolerance, or creation fails.
func (m *Manager) CreateWindow(attrs WindowAttributes) (WindowHandle, error) {
	const op = "create_window"
	if err := attrs.Validate(); err != nil {
		return WindowHandle{}, m.fail(op, WindowCreationFailed, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkOpen(op); err != nil {
		return WindowHandle{}, err
	}

	var nw NativeWindow
	err := m.owner.CallErr(func() error {
		var err error
		nw, err = m.backend.NewWindow(attrs)
		if err != nil {
			return err
		}
		w, h := nw.Size()
		if !withinTolerance(w, attrs.Width, m.caps.SizeTolerance) || !withinTolerance(h, attrs.Height, m.caps.SizeTolerance) {
			nw.Destroy()
			return Errorf(WindowCreationFailed, "backend created %dx%d, requested %dx%d", w, h, attrs.Width, attrs.Height)
		}
		return nil
	})
	if err != nil {
		return WindowHandle{}, m.fail(op, WindowCreationFailed, err)
	}

	wh := WindowHandle{m.windows.insert(&windowEntry{native: nw, attrs: attrs})}
	m.byNative[nw] = wh
	Logger().Debug("window created", "backend", m.backend.Name(), "window", wh, "width", attrs.Width, "height", attrs.Height)
	return wh, nil
}

func withinTolerance(got, want, tol int) bool {
	d := got - want
	if d < 0 {
		d = -d
	}
	return d <= tol
}

// CreateContext creates the GL context for w. A window carries at most one
// context. A failed call leaves w untouched and usable.
func (m *Manager) CreateContext(w WindowHandle, attrs ContextAttributes) (ContextHandle, error) {
	const op = "create_context"
	if err := attrs.Validate(); err != nil {
		return ContextHandle{}, m.fail(op, UnsupportedAttributes, err)
	}
	if !m.caps.Supports(attrs.Profile) {
		return ContextHandle{}, m.fail(op, UnsupportedAttributes, fmt.Errorf("%s profile not available", attrs.Profile))
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkOpen(op); err != nil {
		return ContextHandle{}, err
	}
	we, ok := m.windows.get(w.h)
	if !ok {
		return ContextHandle{}, m.fail(op, ContextCreationFailed, fmt.Errorf("unknown %v", w))
	}
	if _, alive := m.contexts.get(we.context.h); alive {
		return ContextHandle{}, m.fail(op, ContextCreationFailed, fmt.Errorf("%v already has %v", w, we.context))
	}

	var nc NativeContext
	err := m.owner.CallErr(func() error {
		var err error
		nc, err = m.backend.NewContext(we.native, attrs)
		return err
	})
	if err != nil {
		return ContextHandle{}, m.fail(op, ContextCreationFailed, err)
	}

	ch := ContextHandle{m.contexts.insert(&contextEntry{native: nc, window: w, attrs: attrs})}
	we.context = ch
	Logger().Debug("context created", "backend", m.backend.Name(), "context", ch, "window", w,
		"version", attrs.Version(), "profile", attrs.Profile)
	return ch, nil
}

// MakeCurrent makes c current on t. Repeating the call on the same thread is
// a no-op. A context current on another thread must be released there first.
func (m *Manager) MakeCurrent(t *Thread, c ContextHandle) error {
	const op = "make_current"
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkOpen(op); err != nil {
		return err
	}
	if t == nil {
		return m.fail(op, MakeCurrentFailed, errors.New("nil thread"))
	}
	ce, ok := m.contexts.get(c.h)
	if !ok {
		return m.fail(op, MakeCurrentFailed, fmt.Errorf("unknown %v", c))
	}
	switch {
	case ce.thread == t:
		return nil
	case ce.thread != nil:
		return m.fail(op, AlreadyCurrentElsewhere, fmt.Errorf("%v is current on thread %d", c, ce.thread.ID()))
	case t != m.owner && !m.caps.ThreadTransfer:
		return m.fail(op, MakeCurrentFailed, fmt.Errorf("backend cannot use contexts off thread %d", m.owner.ID()))
	}

	if err := t.CallErr(ce.native.MakeCurrent); err != nil {
		return m.fail(op, MakeCurrentFailed, err)
	}
	if prev, ok := m.current[t]; ok {
		if pe, ok := m.contexts.get(prev.h); ok {
			pe.thread = nil
		}
	}
	m.current[t] = c
	ce.thread = t
	Logger().Debug("context current", "backend", m.backend.Name(), "context", c, "thread", t.ID())
	return nil
}

// ReleaseCurrent leaves t without a current context.
func (m *Manager) ReleaseCurrent(t *Thread) error {
	const op = "release_current"
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkOpen(op); err != nil {
		return err
	}
	return m.releaseLocked(op, t)
}

func (m *Manager) releaseLocked(op string, t *Thread) error {
	c, ok := m.current[t]
	if !ok {
		return nil
	}
	ce, ok := m.contexts.get(c.h)
	if !ok {
		delete(m.current, t)
		return nil
	}
	if err := t.CallErr(ce.native.ReleaseCurrent); err != nil {
		return m.fail(op, MakeCurrentFailed, err)
	}
	delete(m.current, t)
	ce.thread = nil
	Logger().Debug("context released", "backend", m.backend.Name(), "context", c, "thread", t.ID())
	return nil
}

// Current returns the context current on t.
func (m *Manager) Current(t *Thread) (ContextHandle, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.current[t]
	return c, ok
}

// SwapBuffers presents c's back buffer. c must be current on t.
func (m *Manager) SwapBuffers(t *Thread, c ContextHandle) error {
	const op = "swap_buffers"
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkOpen(op); err != nil {
		return err
	}
	if t == nil {
		return m.fail(op, NotCurrent, errors.New("nil thread"))
	}
	ce, ok := m.contexts.get(c.h)
	if !ok {
		return m.fail(op, NotCurrent, fmt.Errorf("unknown %v", c))
	}
	if ce.thread != t {
		return m.fail(op, NotCurrent, fmt.Errorf("%v is not current on thread %d", c, t.ID()))
	}
	if err := t.CallErr(ce.native.SwapBuffers); err != nil {
		return m.fail(op, SwapFailed, err)
	}
	return nil
}

// Probe queries GL state of c, which must be current on t. Backends without
// a Prober return errors.ErrUnsupported.
func (m *Manager) Probe(t *Thread, c ContextHandle) (ProbeInfo, error) {
	const op = "probe"
	if t == nil {
		return ProbeInfo{}, m.fail(op, NotCurrent, errors.New("nil thread"))
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ce, ok := m.contexts.get(c.h)
	if !ok || ce.thread != t {
		return ProbeInfo{}, m.fail(op, NotCurrent, fmt.Errorf("%v is not current on thread %d", c, t.ID()))
	}
	p, ok := ce.native.(Prober)
	if !ok {
		return ProbeInfo{}, errors.ErrUnsupported
	}
	var info ProbeInfo
	err := t.CallErr(func() error {
		var err error
		info, err = p.Probe()
		return err
	})
	return info, err
}

// Resize asks the backend to change w's logical size.
func (m *Manager) Resize(w WindowHandle, width, height int) error {
	const op = "resize"
	if width <= 0 || height <= 0 {
		return m.fail(op, UnsupportedAttributes, fmt.Errorf("invalid size %dx%d", width, height))
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkOpen(op); err != nil {
		return err
	}
	we, ok := m.windows.get(w.h)
	if !ok {
		return m.fail(op, InvalidHandle, fmt.Errorf("unknown %v", w))
	}
	if err := m.owner.CallErr(func() error { return we.native.SetSize(width, height) }); err != nil {
		return m.fail(op, WindowCreationFailed, err)
	}
	Logger().Debug("window resized", "backend", m.backend.Name(), "window", w, "width", width, "height", height)
	return nil
}

// WindowSize returns the size w currently reports.
func (m *Manager) WindowSize(w WindowHandle) (width, height int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	we, ok := m.windows.get(w.h)
	if !ok {
		return 0, 0, m.fail("window_size", InvalidHandle, fmt.Errorf("unknown %v", w))
	}
	m.owner.Call(func() { width, height = we.native.Size() })
	return width, height, nil
}

// ContextWindow returns the window c was created for.
func (m *Manager) ContextWindow(c ContextHandle) (WindowHandle, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ce, ok := m.contexts.get(c.h)
	if !ok {
		return WindowHandle{}, false
	}
	return ce.window, true
}

// DestroyContext releases and destroys c. Unknown or already destroyed
// handles are ignored.
func (m *Manager) DestroyContext(c ContextHandle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.destroyContextLocked(c)
}

func (m *Manager) destroyContextLocked(c ContextHandle) {
	ce, ok := m.contexts.remove(c.h)
	if !ok {
		return
	}
	if t := ce.thread; t != nil {
		if err := t.CallErr(ce.native.ReleaseCurrent); err != nil {
			Logger().Warn("release before destroy failed", "backend", m.backend.Name(), "context", c, "err", err)
		}
		delete(m.current, t)
	}
	m.owner.Call(ce.native.Destroy)
	if we, ok := m.windows.get(ce.window.h); ok && we.context == c {
		we.context = ContextHandle{}
	}
	Logger().Debug("context destroyed", "backend", m.backend.Name(), "context", c)
}

// DestroyWindow destroys w, destroying its context first. Unknown or already
// destroyed handles are ignored.
func (m *Manager) DestroyWindow(w WindowHandle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.destroyWindowLocked(w)
}

func (m *Manager) destroyWindowLocked(w WindowHandle) {
	we, ok := m.windows.get(w.h)
	if !ok {
		return
	}
	m.destroyContextLocked(we.context)
	m.windows.remove(w.h)
	delete(m.byNative, we.native)
	m.owner.Call(we.native.Destroy)
	Logger().Debug("window destroyed", "backend", m.backend.Name(), "window", w)
}

// Close destroys every context and window and terminates the backend.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	var windows []WindowHandle
	m.windows.each(func(h handle, _ *windowEntry) { windows = append(windows, WindowHandle{h}) })
	for _, w := range windows {
		m.destroyWindowLocked(w)
	}
	m.owner.Call(m.backend.Terminate)
	m.closed = true
	if m.ownOwner {
		m.owner.Stop()
	}
	Logger().Debug("backend terminated", "backend", m.backend.Name())
}

// windowFor maps a native window reported by the backend to its handle.
func (m *Manager) windowFor(nw NativeWindow) (WindowHandle, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.byNative[nw]
	return h, ok
}

// Live returns the number of live windows and contexts.
func (m *Manager) Live() (windows, contexts int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.windows.len(), m.contexts.len()
}
