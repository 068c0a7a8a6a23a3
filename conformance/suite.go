package conformance

import "github.com/richinsley/glcontext/graphics"

// Suite runs the scenario against several backends in turn. A backend that
// fails does not stop the ones after it.
type Suite struct {
	// Owner runs window operations. Backends that need the process main
	// thread require the Thread from graphics.Main; nil starts a thread per
	// backend.
	Owner *graphics.Thread
	// Configure returns the scenario config for a backend. Nil uses
	// DefaultConfig.
	Configure func(graphics.Capabilities) Config
}

// Run returns one report per backend, in order.
func (s *Suite) Run(backends ...graphics.Backend) []*Report {
	reports := make([]*Report, 0, len(backends))
	for _, b := range backends {
		reports = append(reports, s.runOne(b))
	}
	return reports
}

func (s *Suite) runOne(b graphics.Backend) *Report {
	m, err := graphics.NewManager(b, s.Owner)
	if err != nil {
		r := &Report{Backend: b.Name()}
		r.add("Init", err)
		return r
	}
	defer m.Close()

	cfg := DefaultConfig(m.Capabilities())
	if s.Configure != nil {
		cfg = s.Configure(m.Capabilities())
	}
	// The owner renders too, so backends without thread transfer work.
	return Run(m, m.Owner(), cfg)
}

// Failed reports whether any report failed.
func Failed(reports []*Report) bool {
	for _, r := range reports {
		if !r.OK() {
			return true
		}
	}
	return false
}
