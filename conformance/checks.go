package conformance

import (
	"fmt"

	"github.com/richinsley/glcontext/graphics"
)

// check is a property verified on a fresh window and context after the
// scenario passed.
type check struct {
	name string
	skip func(graphics.Capabilities) string
	run  func(m *graphics.Manager, t *graphics.Thread, cfg Config) error
}

func always(graphics.Capabilities) string { return "" }

var checks = []check{
	{"SwapBeforeCurrent", always, swapBeforeCurrent},
	{"MakeCurrentIdempotent", always, makeCurrentIdempotent},
	{"AlreadyCurrentElsewhere", needsThreads, alreadyCurrentElsewhere},
	{"UnsupportedThenRelaxed", always, unsupportedThenRelaxed},
}

func needsThreads(caps graphics.Capabilities) string {
	if !caps.ThreadTransfer {
		return "backend is single-threaded"
	}
	return ""
}

// withContext creates a window and context for f and destroys them after.
func withContext(m *graphics.Manager, cfg Config, f func(w graphics.WindowHandle, c graphics.ContextHandle) error) error {
	w, err := m.CreateWindow(cfg.Window)
	if err != nil {
		return err
	}
	defer m.DestroyWindow(w)
	c, err := m.CreateContext(w, cfg.Context)
	if err != nil {
		return err
	}
	return f(w, c)
}

func expectKind(err error, want graphics.Kind) error {
	if err == nil {
		return fmt.Errorf("succeeded, want %v", want)
	}
	if got := graphics.KindOf(err); got != want {
		return fmt.Errorf("failed with %v, want %v: %w", got, want, err)
	}
	return nil
}

func swapBeforeCurrent(m *graphics.Manager, t *graphics.Thread, cfg Config) error {
	return withContext(m, cfg, func(_ graphics.WindowHandle, c graphics.ContextHandle) error {
		return expectKind(m.SwapBuffers(t, c), graphics.NotCurrent)
	})
}

func makeCurrentIdempotent(m *graphics.Manager, t *graphics.Thread, cfg Config) error {
	return withContext(m, cfg, func(_ graphics.WindowHandle, c graphics.ContextHandle) error {
		if err := m.MakeCurrent(t, c); err != nil {
			return err
		}
		if err := m.MakeCurrent(t, c); err != nil {
			return fmt.Errorf("second make-current: %w", err)
		}
		if cur, ok := m.Current(t); !ok || cur != c {
			return fmt.Errorf("current context is %v, want %v", cur, c)
		}
		return m.SwapBuffers(t, c)
	})
}

func alreadyCurrentElsewhere(m *graphics.Manager, t *graphics.Thread, cfg Config) error {
	other := graphics.NewThread()
	defer other.Stop()
	return withContext(m, cfg, func(_ graphics.WindowHandle, c graphics.ContextHandle) error {
		if err := m.MakeCurrent(t, c); err != nil {
			return err
		}
		if err := expectKind(m.MakeCurrent(other, c), graphics.AlreadyCurrentElsewhere); err != nil {
			return err
		}
		// Released, the context moves.
		if err := m.ReleaseCurrent(t); err != nil {
			return err
		}
		if err := m.MakeCurrent(other, c); err != nil {
			return fmt.Errorf("make-current after release: %w", err)
		}
		if err := m.SwapBuffers(other, c); err != nil {
			return err
		}
		return m.ReleaseCurrent(other)
	})
}

func unsupportedThenRelaxed(m *graphics.Manager, t *graphics.Thread, cfg Config) error {
	w, err := m.CreateWindow(cfg.Window)
	if err != nil {
		return err
	}
	defer m.DestroyWindow(w)

	impossible := cfg.Context
	impossible.Major, impossible.Minor = 9, 9
	_, err = m.CreateContext(w, impossible)
	if err := expectKind(err, graphics.UnsupportedAttributes); err != nil {
		return err
	}
	c, err := m.CreateContext(w, cfg.Context)
	if err != nil {
		return fmt.Errorf("relaxed request on the same window: %w", err)
	}
	if err := m.MakeCurrent(t, c); err != nil {
		return err
	}
	if err := m.SwapBuffers(t, c); err != nil {
		return err
	}
	return m.ReleaseCurrent(t)
}
