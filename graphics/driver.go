package graphics

import "context"

// Driver turns native backend events into LifecycleEvents. It never blocks
// waiting for events: each Pump drains what the backend has queued and
// returns, so the caller paces frames.
type Driver struct {
	m     *Manager
	batch []LifecycleEvent
}

// NewDriver returns a Driver for the windows owned by m.
func NewDriver(m *Manager) *Driver {
	return &Driver{m: m}
}

// Pump polls the backend once on the owner thread and returns the resulting
// events in backend order. Events for windows the Manager does not know
// about (already destroyed, or not created through it) are dropped.
// The returned slice is reused by the next Pump.
func (d *Driver) Pump() []LifecycleEvent {
	type raw struct {
		nw NativeWindow
		ev LifecycleEvent
	}
	var natives []raw
	d.m.owner.Call(func() {
		d.m.backend.PollEvents(func(nw NativeWindow, ev LifecycleEvent) {
			natives = append(natives, raw{nw, ev})
		})
	})

	d.batch = d.batch[:0]
	for _, r := range natives {
		w, ok := d.m.windowFor(r.nw)
		if !ok {
			continue
		}
		ev := r.ev
		ev.Window = w
		if ev.Kind == Resized && d.m.caps.CoalesceResize {
			if n := len(d.batch); n > 0 && d.batch[n-1].Kind == Resized && d.batch[n-1].Window == w {
				d.batch[n-1] = ev
				continue
			}
		}
		d.batch = append(d.batch, ev)
	}
	for _, ev := range d.batch {
		Logger().Debug("lifecycle event", "backend", d.m.backend.Name(), "event", ev)
	}
	return d.batch
}

// Events returns the batch produced by the last Pump.
func (d *Driver) Events() []LifecycleEvent { return d.batch }

// Run pumps once per iteration and hands every event to f until ctx is done
// or f returns false. frame, when non-nil, is called after each pump and
// is where the caller renders and swaps.
func (d *Driver) Run(ctx context.Context, f func(LifecycleEvent) bool, frame func() error) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, ev := range d.Pump() {
			if !f(ev) {
				return nil
			}
		}
		if frame != nil {
			if err := frame(); err != nil {
				return err
			}
		}
	}
}
