package graphics

// Capabilities describes what a backend supports and how it behaves where
// the abstraction leaves room for policy.
type Capabilities struct {
	// SizeTolerance is the per-axis difference in pixels tolerated between
	// a requested window size and the size the backend reports.
	SizeTolerance int
	// CoalesceResize collapses consecutive Resized events of one window
	// within a single Pump into the last one.
	CoalesceResize bool
	// Profiles lists the GL profiles the backend can create.
	Profiles []Profile
	// ThreadTransfer reports whether a context may be made current on a
	// thread other than the one that created it.
	ThreadTransfer bool
}

// Supports reports whether p is listed in Profiles.
func (c Capabilities) Supports(p Profile) bool {
	for _, q := range c.Profiles {
		if q == p {
			return true
		}
	}
	return false
}

// Backend is implemented by every adapter. All methods except Name and
// Capabilities are called on the Manager's owner thread; NativeContext
// methods run on the thread passed to the Manager.
type Backend interface {
	Name() string
	Capabilities() Capabilities
	Init() error
	Terminate()
	NewWindow(attrs WindowAttributes) (NativeWindow, error)
	NewContext(w NativeWindow, attrs ContextAttributes) (NativeContext, error)
	// PollEvents drains the native queue once and reports each event in
	// native order. It must not block.
	PollEvents(emit func(NativeWindow, LifecycleEvent))
}

// NativeWindow is an adapter-owned window. It never crosses the Context
// boundary; applications only see WindowHandle.
type NativeWindow interface {
	Size() (width, height int)
	SetSize(width, height int) error
	Destroy()
}

// NativeContext is an adapter-owned GL context bound to one NativeWindow.
type NativeContext interface {
	MakeCurrent() error
	ReleaseCurrent() error
	SwapBuffers() error
	Destroy()
}

// ProbeInfo is what a current context reports about itself.
type ProbeInfo struct {
	Version  Version
	Renderer string
	// Viewport is the GL viewport, which starts out covering Framebuffer.
	Viewport    [4]int32
	Framebuffer [2]int
}

// Prober is implemented by contexts that can query GL state while current.
type Prober interface {
	Probe() (ProbeInfo, error)
}

type unavailable struct {
	name   string
	reason string
}

// Unavailable returns a backend whose Init always fails with
// BackendUnavailable. Adapters return it on platforms they cannot build for.
func Unavailable(name, reason string) Backend {
	return unavailable{name, reason}
}

func (u unavailable) Name() string               { return u.name }
func (u unavailable) Capabilities() Capabilities { return Capabilities{} }
func (u unavailable) Init() error                { return Errorf(BackendUnavailable, "%s", u.reason) }
func (u unavailable) Terminate()                 {}
func (u unavailable) NewWindow(WindowAttributes) (NativeWindow, error) {
	return nil, Errorf(BackendUnavailable, "%s", u.reason)
}
func (u unavailable) NewContext(NativeWindow, ContextAttributes) (NativeContext, error) {
	return nil, Errorf(BackendUnavailable, "%s", u.reason)
}
func (u unavailable) PollEvents(func(NativeWindow, LifecycleEvent)) {}
