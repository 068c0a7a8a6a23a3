//go:build linux && !js

package egl

/*
#cgo LDFLAGS: -lEGL
#define EGL_NO_X11
#include <stdlib.h>
#include <EGL/egl.h>
#include <EGL/eglext.h>

// Go doesn't have a great way to call function pointers from C,
// so we'll create simple wrappers for the extension functions.
static PFNEGLQUERYDEVICESEXTPROC eglQueryDevicesEXT_ptr = NULL;
static PFNEGLGETPLATFORMDISPLAYEXTPROC eglGetPlatformDisplayEXT_ptr = NULL;

static void initialize_egl_extension_pointers() {
    eglQueryDevicesEXT_ptr = (PFNEGLQUERYDEVICESEXTPROC) eglGetProcAddress("eglQueryDevicesEXT");
    eglGetPlatformDisplayEXT_ptr = (PFNEGLGETPLATFORMDISPLAYEXTPROC) eglGetProcAddress("eglGetPlatformDisplayEXT");
}

static EGLDisplay get_platform_display(EGLenum platform, void *native_display, const EGLint *attrib_list) {
    if (eglGetPlatformDisplayEXT_ptr) {
        return eglGetPlatformDisplayEXT_ptr(platform, native_display, attrib_list);
    }
    return EGL_NO_DISPLAY;
}

static EGLBoolean query_devices(EGLint max_devices, EGLDeviceEXT *devices, EGLint *num_devices) {
    if (eglQueryDevicesEXT_ptr) {
        return eglQueryDevicesEXT_ptr(max_devices, devices, num_devices);
    }
    return EGL_FALSE;
}

static EGLDisplay default_display() {
    return eglGetDisplay(EGL_DEFAULT_DISPLAY);
}

static EGLDisplay x11_display() {
    return get_platform_display(EGL_PLATFORM_X11_KHR, NULL, NULL);
}

static EGLSurface window_surface(EGLDisplay d, EGLConfig c, uintptr_t win) {
    return eglCreateWindowSurface(d, c, (EGLNativeWindowType)win, NULL);
}

static EGLBoolean release_current(EGLDisplay d) {
    return eglMakeCurrent(d, EGL_NO_SURFACE, EGL_NO_SURFACE, EGL_NO_CONTEXT);
}

static EGLContext create_context(EGLDisplay d, EGLConfig c, const EGLint *attribs) {
    return eglCreateContext(d, c, EGL_NO_CONTEXT, attribs);
}
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/richinsley/glcontext/graphics"
)

// EGLDisplay is a uintptr under cgo, never compare EGL handles to nil.
var (
	noDisplay = C.EGLDisplay(C.EGL_NO_DISPLAY)
	noSurface = C.EGLSurface(C.EGL_NO_SURFACE)
	noContext = C.EGLContext(C.EGL_NO_CONTEXT)
)

// Display is an initialised EGL display connection.
type Display struct {
	d            C.EGLDisplay
	major, minor int
}

// Config is a chosen framebuffer configuration.
type Config struct{ c C.EGLConfig }

// Surface is an EGL window or pbuffer surface.
type Surface struct{ s C.EGLSurface }

// Context is an EGL rendering context with the API it was created for.
type Context struct {
	c   C.EGLContext
	api uint32
}

func lastError(op string, fallback graphics.Kind) error {
	return wrap(op, int(C.eglGetError()), fallback)
}

func cattribs(list []int32) []C.EGLint {
	out := make([]C.EGLint, len(list))
	for i, v := range list {
		out[i] = C.EGLint(v)
	}
	return out
}

// getDeviceDisplay tries the robust device enumeration method first,
// falling back to the default display.
func getDeviceDisplay() (C.EGLDisplay, error) {
	C.initialize_egl_extension_pointers()

	var numDevices C.EGLint
	if C.query_devices(0, nil, &numDevices) == C.EGL_FALSE || numDevices == 0 {
		graphics.Logger().Warn("EGL_EXT_device_query not supported or no devices found, falling back to EGL_DEFAULT_DISPLAY")
		display := C.default_display()
		if display == noDisplay {
			return noDisplay, fmt.Errorf("fallback to eglGetDisplay(EGL_DEFAULT_DISPLAY) failed")
		}
		return display, nil
	}

	graphics.Logger().Debug("EGL devices found", "count", int(numDevices))
	devices := make([]C.EGLDeviceEXT, numDevices)
	if C.query_devices(numDevices, &devices[0], &numDevices) == C.EGL_FALSE {
		return noDisplay, fmt.Errorf("failed to query EGL devices")
	}

	// In an NVIDIA container the first usable device is the GPU.
	for i := 0; i < int(numDevices); i++ {
		display := C.get_platform_display(C.EGL_PLATFORM_DEVICE_EXT, unsafe.Pointer(devices[i]), nil)
		if display != noDisplay {
			graphics.Logger().Debug("EGL display from device", "device", i)
			return display, nil
		}
	}
	return noDisplay, fmt.Errorf("could not get a valid EGL display from any available device")
}

// OpenDevice opens a display on the first usable EGL device, without any
// window system.
func OpenDevice() (*Display, error) {
	d, err := getDeviceDisplay()
	if err != nil {
		return nil, graphics.Errorf(graphics.BackendUnavailable, "failed to get EGL display: %w", err)
	}
	return initialize(d)
}

// OpenX11 opens a display on the default X server ($DISPLAY). Window
// surfaces created from it accept X window IDs from any connection to that
// server.
func OpenX11() (*Display, error) {
	C.initialize_egl_extension_pointers()
	d := C.x11_display()
	if d == noDisplay {
		d = C.default_display()
	}
	if d == noDisplay {
		return nil, graphics.Errorf(graphics.BackendUnavailable, "no EGL display for X11")
	}
	return initialize(d)
}

func initialize(d C.EGLDisplay) (*Display, error) {
	var major, minor C.EGLint
	if C.eglInitialize(d, &major, &minor) == C.EGL_FALSE {
		return nil, lastError("eglInitialize", graphics.BackendUnavailable)
	}
	graphics.Logger().Debug("EGL initialized", "version", fmt.Sprintf("%d.%d", major, minor))
	return &Display{d: d, major: int(major), minor: int(minor)}, nil
}

// Version returns the EGL version reported by eglInitialize.
func (d *Display) Version() (major, minor int) { return d.major, d.minor }

// Terminate releases the display. Surfaces and contexts must be destroyed
// first.
func (d *Display) Terminate() {
	if d.d != noDisplay {
		C.release_current(d.d)
		C.eglTerminate(d.d)
		d.d = noDisplay
	}
}

// BindAPI binds the client API for p on the calling thread.
func (d *Display) BindAPI(p graphics.Profile) error {
	return bind(api(p))
}

func bind(a uint32) error {
	if C.eglBindAPI(C.EGLenum(a)) == C.EGL_FALSE {
		return lastError("eglBindAPI", graphics.UnsupportedAttributes)
	}
	return nil
}

// ChooseConfig returns the first config satisfying a for surfaces of kind k.
func (d *Display) ChooseConfig(a graphics.ContextAttributes, k SurfaceKind) (Config, error) {
	list := cattribs(configAttribs(a, k))
	var config C.EGLConfig
	var n C.EGLint
	if C.eglChooseConfig(d.d, &list[0], &config, 1, &n) == C.EGL_FALSE {
		return Config{}, lastError("eglChooseConfig", graphics.UnsupportedAttributes)
	}
	if n == 0 {
		return Config{}, graphics.Errorf(graphics.UnsupportedAttributes, "no EGL config matches %+v", a)
	}
	return Config{config}, nil
}

// ChooseConfigForVisual returns the first window config satisfying a whose
// native visual is visual. Window surfaces on X11 must match the visual the
// window was created with.
func (d *Display) ChooseConfigForVisual(a graphics.ContextAttributes, visual uint32) (Config, error) {
	list := cattribs(visualConfigAttribs(a))
	var n C.EGLint
	if C.eglChooseConfig(d.d, &list[0], nil, 0, &n) == C.EGL_FALSE {
		return Config{}, lastError("eglChooseConfig", graphics.UnsupportedAttributes)
	}
	if n == 0 {
		return Config{}, graphics.Errorf(graphics.UnsupportedAttributes, "no EGL config matches %+v", a)
	}
	configs := make([]C.EGLConfig, n)
	if C.eglChooseConfig(d.d, &list[0], &configs[0], n, &n) == C.EGL_FALSE {
		return Config{}, lastError("eglChooseConfig", graphics.UnsupportedAttributes)
	}
	for _, c := range configs[:n] {
		var id C.EGLint
		if C.eglGetConfigAttrib(d.d, c, nativeVisual, &id) == C.EGL_TRUE && uint32(id) == visual {
			return Config{c}, nil
		}
	}
	return Config{}, graphics.Errorf(graphics.UnsupportedAttributes, "no EGL config for visual 0x%x matches %+v", visual, a)
}

// CreateWindowSurface wraps a native window, an X window ID on X11.
func (d *Display) CreateWindowSurface(cfg Config, win uintptr) (Surface, error) {
	s := C.window_surface(d.d, cfg.c, C.uintptr_t(win))
	if s == noSurface {
		return Surface{}, lastError("eglCreateWindowSurface", graphics.ContextCreationFailed)
	}
	return Surface{s}, nil
}

// CreatePbufferSurface creates an offscreen surface of the given size.
func (d *Display) CreatePbufferSurface(cfg Config, w, h int) (Surface, error) {
	list := cattribs(pbufferAttribs(w, h))
	s := C.eglCreatePbufferSurface(d.d, cfg.c, &list[0])
	if s == noSurface {
		return Surface{}, lastError("eglCreatePbufferSurface", graphics.WindowCreationFailed)
	}
	return Surface{s}, nil
}

// SurfaceSize queries the current size of s.
func (d *Display) SurfaceSize(s Surface) (w, h int) {
	var cw, ch C.EGLint
	C.eglQuerySurface(d.d, s.s, C.EGL_WIDTH, &cw)
	C.eglQuerySurface(d.d, s.s, C.EGL_HEIGHT, &ch)
	return int(cw), int(ch)
}

// DestroySurface is a no-op for the zero Surface.
func (d *Display) DestroySurface(s Surface) {
	if s.s != noSurface {
		C.eglDestroySurface(d.d, s.s)
	}
}

// CreateContext binds the API for a on the calling thread and creates a
// context. The driver rejects versions and profiles it cannot provide.
func (d *Display) CreateContext(cfg Config, a graphics.ContextAttributes) (Context, error) {
	if err := bind(api(a.Profile)); err != nil {
		return Context{}, err
	}
	list := cattribs(contextAttribs(a))
	c := C.create_context(d.d, cfg.c, &list[0])
	if c == noContext {
		return Context{}, lastError("eglCreateContext", graphics.ContextCreationFailed)
	}
	return Context{c: c, api: api(a.Profile)}, nil
}

// DestroyContext is a no-op for the zero Context.
func (d *Display) DestroyContext(c Context) {
	if c.c != noContext {
		C.eglDestroyContext(d.d, c.c)
	}
}

// MakeCurrent binds c to s on the calling thread.
func (d *Display) MakeCurrent(s Surface, c Context) error {
	if err := bind(c.api); err != nil {
		return err
	}
	if C.eglMakeCurrent(d.d, s.s, s.s, c.c) == C.EGL_FALSE {
		return lastError("eglMakeCurrent", graphics.MakeCurrentFailed)
	}
	return nil
}

// ReleaseCurrent leaves the calling thread without a context for c's API.
func (d *Display) ReleaseCurrent(c Context) error {
	if err := bind(c.api); err != nil {
		return err
	}
	if C.release_current(d.d) == C.EGL_FALSE {
		return lastError("eglMakeCurrent", graphics.MakeCurrentFailed)
	}
	return nil
}

// SwapInterval sets the swap interval of the surface current on the calling
// thread.
func (d *Display) SwapInterval(n int) error {
	if C.eglSwapInterval(d.d, C.EGLint(n)) == C.EGL_FALSE {
		return lastError("eglSwapInterval", graphics.UnsupportedAttributes)
	}
	return nil
}

// SwapBuffers presents s.
func (d *Display) SwapBuffers(s Surface) error {
	if C.eglSwapBuffers(d.d, s.s) == C.EGL_FALSE {
		return lastError("eglSwapBuffers", graphics.SwapFailed)
	}
	return nil
}
