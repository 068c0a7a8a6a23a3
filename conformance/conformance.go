package conformance

import (
	"errors"
	"fmt"
	"time"

	"github.com/richinsley/glcontext/graphics"
)

// Result is the outcome of one transition or property check.
type Result struct {
	Name    string
	Err     error
	Skipped string // reason, when the check does not apply to the backend
}

// Passed reports whether the step succeeded or was skipped.
func (r Result) Passed() bool { return r.Err == nil }

// Report collects the results for one backend.
type Report struct {
	Backend string
	Results []Result
	// Reached is the last state whose postcondition held.
	Reached State
}

// OK reports whether every step passed.
func (r *Report) OK() bool {
	for _, res := range r.Results {
		if !res.Passed() {
			return false
		}
	}
	return true
}

// Failure returns the first failed step.
func (r *Report) Failure() (Result, bool) {
	for _, res := range r.Results {
		if !res.Passed() {
			return res, true
		}
	}
	return Result{}, false
}

func (r *Report) add(name string, err error) bool {
	r.Results = append(r.Results, Result{Name: name, Err: err})
	if err != nil {
		graphics.Logger().Warn("conformance step failed", "backend", r.Backend, "step", name, "kind", graphics.KindOf(err), "err", err)
	} else {
		graphics.Logger().Debug("conformance step passed", "backend", r.Backend, "step", name)
	}
	return err == nil
}

func (r *Report) skip(name, reason string) {
	r.Results = append(r.Results, Result{Name: name, Skipped: reason})
	graphics.Logger().Debug("conformance step skipped", "backend", r.Backend, "step", name, "reason", reason)
}

// Run drives m through the scenario with t as the rendering thread, then
// runs the property checks if the scenario passed. m should have no live
// windows; Run leaves none behind.
func Run(m *graphics.Manager, t *graphics.Thread, cfg Config) *Report {
	r := &Report{Backend: m.Backend()}
	s := &scenario{m: m, t: t, cfg: cfg, r: r}
	if !s.run() {
		s.cleanup()
		return r
	}
	for _, c := range checks {
		name := c.name
		if reason := c.skip(m.Capabilities()); reason != "" {
			r.skip(name, reason)
			continue
		}
		r.add(name, c.run(m, t, cfg))
	}
	return r
}

type scenario struct {
	m   *graphics.Manager
	t   *graphics.Thread
	cfg Config
	r   *Report

	w graphics.WindowHandle
	c graphics.ContextHandle
}

func (s *scenario) run() bool {
	steps := []struct {
		state State
		f     func() error
	}{
		{WindowCreated, s.createWindow},
		{ContextCreated, s.createContext},
		{Current, s.makeCurrent},
		{Resized, s.resize},
		{BuffersSwapped, s.swap},
		{Destroyed, s.destroy},
	}
	for _, step := range steps {
		if !s.r.add(step.state.String(), step.f()) {
			return false
		}
		s.r.Reached = step.state
	}
	return true
}

// cleanup tears down whatever a failed scenario left behind.
func (s *scenario) cleanup() {
	s.m.ReleaseCurrent(s.t)
	s.m.DestroyContext(s.c)
	s.m.DestroyWindow(s.w)
}

func (s *scenario) createWindow() error {
	w, err := s.m.CreateWindow(s.cfg.Window)
	if err != nil {
		return err
	}
	s.w = w
	width, height, err := s.m.WindowSize(w)
	if err != nil {
		return err
	}
	if width != s.cfg.Window.Width || height != s.cfg.Window.Height {
		tol := s.m.Capabilities().SizeTolerance
		if abs(width-s.cfg.Window.Width) > tol || abs(height-s.cfg.Window.Height) > tol {
			return fmt.Errorf("window reports %dx%d, requested %dx%d", width, height, s.cfg.Window.Width, s.cfg.Window.Height)
		}
	}
	return nil
}

func (s *scenario) createContext() error {
	c, err := s.m.CreateContext(s.w, s.cfg.Context)
	if err != nil {
		return err
	}
	s.c = c
	if w, ok := s.m.ContextWindow(c); !ok || w != s.w {
		return fmt.Errorf("%v belongs to %v, want %v", c, w, s.w)
	}
	return nil
}

func (s *scenario) makeCurrent() error {
	if err := s.m.MakeCurrent(s.t, s.c); err != nil {
		return err
	}
	if cur, ok := s.m.Current(s.t); !ok || cur != s.c {
		return fmt.Errorf("current context is %v, want %v", cur, s.c)
	}
	info, err := s.m.Probe(s.t, s.c)
	if errors.Is(err, errors.ErrUnsupported) {
		return nil
	}
	if err != nil {
		return err
	}
	graphics.Logger().Info("context probed", "backend", s.r.Backend, "version", info.Version, "renderer", info.Renderer)
	return checkProbe(info, s.cfg.Context)
}

// checkProbe verifies the driver gave at least the requested version and
// that the initial viewport covers the framebuffer.
func checkProbe(info graphics.ProbeInfo, want graphics.ContextAttributes) error {
	if info.Version.Less(want.Version()) {
		return graphics.Errorf(graphics.UnsupportedAttributes, "driver reports GL %s, requested %s", info.Version, want.Version())
	}
	vp := info.Viewport
	fb := info.Framebuffer
	if vp[0] != 0 || vp[1] != 0 || int(vp[2]) != fb[0] || int(vp[3]) != fb[1] {
		return fmt.Errorf("viewport %v does not cover the %dx%d framebuffer", vp, fb[0], fb[1])
	}
	return nil
}

func (s *scenario) resize() error {
	width, height := s.cfg.ResizeWidth, s.cfg.ResizeHeight
	if err := s.m.Resize(s.w, width, height); err != nil {
		return err
	}
	return awaitResize(s.m, s.w, width, height, s.cfg)
}

// awaitResize pumps until a Resized event for w reports width x height.
func awaitResize(m *graphics.Manager, w graphics.WindowHandle, width, height int, cfg Config) error {
	d := graphics.NewDriver(m)
	var last *graphics.LifecycleEvent
	for i := 0; i < cfg.MaxPumps; i++ {
		for _, ev := range d.Pump() {
			if ev.Kind != graphics.Resized || ev.Window != w {
				continue
			}
			if ev.Width == width && ev.Height == height {
				return nil
			}
			ev := ev
			last = &ev
		}
		if cfg.PumpInterval > 0 {
			time.Sleep(cfg.PumpInterval)
		}
	}
	if last != nil {
		return fmt.Errorf("resized to %dx%d, requested %dx%d", last.Width, last.Height, width, height)
	}
	return fmt.Errorf("no Resized event for %v within %d pumps", w, cfg.MaxPumps)
}

func (s *scenario) swap() error {
	return s.m.SwapBuffers(s.t, s.c)
}

func (s *scenario) destroy() error {
	windows, contexts := s.m.Live()
	s.m.DestroyWindow(s.w)
	// Both must be no-ops now.
	s.m.DestroyWindow(s.w)
	s.m.DestroyContext(s.c)

	if err := s.m.SwapBuffers(s.t, s.c); err == nil {
		return errors.New("swap on a destroyed context succeeded")
	}
	if cur, ok := s.m.Current(s.t); ok {
		return fmt.Errorf("%v still current after its window was destroyed", cur)
	}
	if w, c := s.m.Live(); w != windows-1 || c != contexts-1 {
		return fmt.Errorf("%d windows and %d contexts live after destroy, want %d and %d", w, c, windows-1, contexts-1)
	}
	return nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
