//go:build linux && !js

package x11egl

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/richinsley/glcontext/egl"
	"github.com/richinsley/glcontext/glstate"
	"github.com/richinsley/glcontext/graphics"
)

// Backend talks to the X server named by $DISPLAY. X11 and EGL each hold
// their own connection; they meet at the window XID.
type Backend struct {
	xu      *xgbutil.XUtil
	display *egl.Display
	windows map[xproto.Window]*Window
	sizes   resizeTracker
}

// New returns an unconnected X11 backend.
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
	xu, err := xgbutil.NewConn()
	if err != nil {
		return graphics.Errorf(graphics.BackendUnavailable, "failed to connect to X server: %w", err)
	}
	d, err := egl.OpenX11()
	if err != nil {
		xu.Conn().Close()
		return err
	}
	b.xu, b.display = xu, d
	b.windows = make(map[xproto.Window]*Window)
	b.sizes = resizeTracker{}
	major, minor := d.Version()
	graphics.Logger().Info("X11 EGL initialized", "egl", fmt.Sprintf("%d.%d", major, minor),
		"screen", fmt.Sprintf("%dx%d", b.xu.Screen().WidthInPixels, b.xu.Screen().HeightInPixels))
	return nil
}

func (b *Backend) Terminate() {
	if b.xu == nil {
		return
	}
	for _, w := range b.windows {
		w.Destroy()
	}
	b.display.Terminate()
	b.xu.Conn().Close()
	b.xu, b.display = nil, nil
	graphics.Logger().Info("X11 EGL terminated")
}

// argbVisual finds a 32-bit TrueColor visual for transparent windows.
func argbVisual(screen *xproto.ScreenInfo) (xproto.Visualid, bool) {
	for _, d := range screen.AllowedDepths {
		if d.Depth != 32 {
			continue
		}
		for _, v := range d.Visuals {
			if v.Class == xproto.VisualClassTrueColor {
				return v.VisualId, true
			}
		}
	}
	return 0, false
}

func (b *Backend) NewWindow(attrs graphics.WindowAttributes) (graphics.NativeWindow, error) {
	conn := b.xu.Conn()
	screen := b.xu.Screen()
	w := &Window{b: b, attrs: attrs, depth: screen.RootDepth, visual: screen.RootVisual}

	cmap := screen.DefaultColormap
	if attrs.Transparent {
		v, ok := argbVisual(screen)
		if !ok {
			return nil, graphics.Errorf(graphics.WindowCreationFailed, "no 32-bit TrueColor visual for a transparent window")
		}
		id, err := xproto.NewColormapId(conn)
		if err != nil {
			return nil, graphics.Errorf(graphics.WindowCreationFailed, "xproto.NewColormapId failed: %w", err)
		}
		if err := xproto.CreateColormapChecked(conn, xproto.ColormapAllocNone, id, screen.Root, v).Check(); err != nil {
			return nil, graphics.Errorf(graphics.WindowCreationFailed, "xproto.CreateColormap failed: %w", err)
		}
		cmap, w.colormap = id, id
		w.depth, w.visual = 32, v
	}

	xw, err := xproto.NewWindowId(conn)
	if err != nil {
		w.freeColormap()
		return nil, graphics.Errorf(graphics.WindowCreationFailed, "xproto.NewWindowId failed: %w", err)
	}
	err = xproto.CreateWindowChecked(conn, w.depth, xw, screen.Root,
		0, 0, uint16(attrs.Width), uint16(attrs.Height), 0,
		xproto.WindowClassInputOutput, w.visual,
		xproto.CwBackPixel|xproto.CwBorderPixel|xproto.CwEventMask|xproto.CwColormap,
		[]uint32{0, 0, eventMask, uint32(cmap)},
	).Check()
	if err != nil {
		w.freeColormap()
		return nil, graphics.Errorf(graphics.WindowCreationFailed, "xproto.CreateWindow failed: %w", err)
	}
	w.xw = xw
	w.width, w.height = attrs.Width, attrs.Height

	if err := w.setProperties(); err != nil {
		w.Destroy()
		return nil, graphics.Errorf(graphics.WindowCreationFailed, "failed to set window properties: %w", err)
	}
	if !attrs.Hidden {
		xproto.MapWindow(conn, xw)
	}
	b.xu.Sync()

	b.windows[xw] = w
	b.sizes.changed(xw, attrs.Width, attrs.Height)
	return w, nil
}

// PollEvents drains the X event queue without blocking.
func (b *Backend) PollEvents(emit func(graphics.NativeWindow, graphics.LifecycleEvent)) {
	conn := b.xu.Conn()
	for {
		ev, xerr := conn.PollForEvent()
		if ev == nil && xerr == nil {
			return
		}
		if xerr != nil {
			graphics.Logger().Debug("X error", "backend", Name, "err", xerr)
			continue
		}
		win, le, ok := translate(ev, b.isDelete)
		if !ok {
			continue
		}
		w, ok := b.windows[win]
		if !ok {
			continue
		}
		if le.Kind == graphics.Resized {
			if !b.sizes.changed(win, le.Width, le.Height) {
				continue
			}
			w.width, w.height = le.Width, le.Height
		}
		emit(w, le)
	}
}

func (b *Backend) isDelete(ev xproto.ClientMessageEvent) bool {
	return icccm.IsDeleteProtocol(b.xu, xevent.ClientMessageEvent{ClientMessageEvent: &ev})
}

// Window is an X window. Its context, when created, renders to it through
// an EGL window surface.
type Window struct {
	b             *Backend
	attrs         graphics.WindowAttributes
	xw            xproto.Window
	depth         byte
	visual        xproto.Visualid
	colormap      xproto.Colormap
	width, height int
}

func (w *Window) setProperties() error {
	xu := w.b.xu
	if err := icccm.WmNameSet(xu, w.xw, w.attrs.Title); err != nil {
		return err
	}
	if err := ewmh.WmNameSet(xu, w.xw, w.attrs.Title); err != nil {
		return err
	}
	if err := icccm.WmProtocolsSet(xu, w.xw, []string{"WM_DELETE_WINDOW"}); err != nil {
		return err
	}
	if err := w.setSizeHints(w.attrs.Width, w.attrs.Height); err != nil {
		return err
	}
	if w.attrs.Fullscreen {
		return ewmh.WmStateSet(xu, w.xw, []string{"_NET_WM_STATE_FULLSCREEN"})
	}
	return nil
}

// setSizeHints pins the size of windows the user may not resize.
func (w *Window) setSizeHints(width, height int) error {
	if w.attrs.Resizable {
		return nil
	}
	return icccm.WmNormalHintsSet(w.b.xu, w.xw, &icccm.NormalHints{
		Flags:     icccm.SizeHintPMinSize | icccm.SizeHintPMaxSize,
		MinWidth:  uint(width),
		MinHeight: uint(height),
		MaxWidth:  uint(width),
		MaxHeight: uint(height),
	})
}

// XID returns the X window ID.
func (w *Window) XID() xproto.Window { return w.xw }

// Size asks the server for the window geometry, falling back to the last
// configured size.
func (w *Window) Size() (int, int) {
	if w.xw == 0 {
		return 0, 0
	}
	g, err := xproto.GetGeometry(w.b.xu.Conn(), xproto.Drawable(w.xw)).Reply()
	if err != nil {
		return w.width, w.height
	}
	return int(g.Width), int(g.Height)
}

func (w *Window) SetSize(width, height int) error {
	if w.xw == 0 {
		return graphics.Errorf(graphics.InvalidHandle, "window destroyed")
	}
	if err := w.setSizeHints(width, height); err != nil {
		return err
	}
	return xproto.ConfigureWindowChecked(w.b.xu.Conn(), w.xw,
		xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(width), uint32(height)},
	).Check()
}

func (w *Window) freeColormap() {
	if w.colormap != 0 {
		xproto.FreeColormap(w.b.xu.Conn(), w.colormap)
		w.colormap = 0
	}
}

func (w *Window) Destroy() {
	if w.xw == 0 {
		return
	}
	xproto.DestroyWindow(w.b.xu.Conn(), w.xw)
	w.freeColormap()
	delete(w.b.windows, w.xw)
	delete(w.b.sizes, w.xw)
	w.b.xu.Sync()
	w.xw = 0
}

// NewContext chooses a config for the window visual and wraps the window in
// an EGL surface.
func (b *Backend) NewContext(nw graphics.NativeWindow, attrs graphics.ContextAttributes) (graphics.NativeContext, error) {
	w, ok := nw.(*Window)
	if !ok || w.xw == 0 {
		return nil, graphics.Errorf(graphics.ContextCreationFailed, "window %T is not a live X11 window", nw)
	}
	cfg, err := b.display.ChooseConfigForVisual(attrs, uint32(w.visual))
	if err != nil {
		return nil, err
	}
	surface, err := b.display.CreateWindowSurface(cfg, uintptr(w.xw))
	if err != nil {
		return nil, err
	}
	ctx, err := b.display.CreateContext(cfg, attrs)
	if err != nil {
		b.display.DestroySurface(surface)
		return nil, err
	}
	graphics.Logger().Debug("EGL context created", "backend", Name, "window", uint32(w.xw), "version", attrs.Version(), "profile", attrs.Profile)
	return &Context{d: b.display, w: w, surface: surface, ctx: ctx, attrs: attrs, debug: glstate.NewDebugOutput(Name, attrs)}, nil
}

// Context is an EGL context bound to a window surface.
type Context struct {
	d       *egl.Display
	w       *Window
	surface egl.Surface
	ctx     egl.Context
	attrs   graphics.ContextAttributes
	debug   *glstate.DebugOutput
}

func (c *Context) MakeCurrent() error {
	if err := c.d.MakeCurrent(c.surface, c.ctx); err != nil {
		return err
	}
	if err := glstate.Init(); err != nil {
		c.d.ReleaseCurrent(c.ctx)
		return graphics.Errorf(graphics.MakeCurrentFailed, "%w", err)
	}
	interval := 0
	if c.attrs.VSync {
		interval = 1
	}
	if err := c.d.SwapInterval(interval); err != nil {
		graphics.Logger().Debug("swap interval not set", "backend", Name, "err", err)
	}
	c.debug.Attach()
	return nil
}

func (c *Context) ReleaseCurrent() error {
	return c.d.ReleaseCurrent(c.ctx)
}

func (c *Context) SwapBuffers() error {
	if err := c.d.SwapBuffers(c.surface); err != nil {
		return err
	}
	c.debug.AfterSwap()
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
