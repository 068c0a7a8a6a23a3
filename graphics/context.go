package graphics

// Context defines the backend independent window and GL context contract.
// *Manager implements it on top of any Backend.
type Context interface {
	CreateWindow(attrs WindowAttributes) (WindowHandle, error)
	CreateContext(w WindowHandle, attrs ContextAttributes) (ContextHandle, error)
	// MakeCurrent makes c current on t, releasing whatever was current on t.
	MakeCurrent(t *Thread, c ContextHandle) error
	ReleaseCurrent(t *Thread) error
	// SwapBuffers presents the back buffer. c must be current on t.
	SwapBuffers(t *Thread, c ContextHandle) error
	// Resize notifies the backend of a new logical size. The matching
	// Resized event is delivered by the Driver.
	Resize(w WindowHandle, width, height int) error
	DestroyContext(c ContextHandle)
	DestroyWindow(w WindowHandle)
}

var _ Context = (*Manager)(nil)
