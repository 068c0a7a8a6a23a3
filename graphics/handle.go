package graphics

import "fmt"

// handle indexes an arena slot. The zero handle never resolves because
// generations start at 1.
type handle struct {
	index      uint32
	generation uint32
}

func (h handle) valid() bool { return h.generation != 0 }

// WindowHandle identifies a live window owned by a Manager.
type WindowHandle struct{ h handle }

// ContextHandle identifies a live GL context owned by a Manager.
type ContextHandle struct{ h handle }

// IsZero reports whether w was never assigned.
func (w WindowHandle) IsZero() bool { return !w.h.valid() }

// IsZero reports whether c was never assigned.
func (c ContextHandle) IsZero() bool { return !c.h.valid() }

func (w WindowHandle) String() string { return fmt.Sprintf("window(%d:%d)", w.h.index, w.h.generation) }
func (c ContextHandle) String() string {
	return fmt.Sprintf("context(%d:%d)", c.h.index, c.h.generation)
}

type slot[V any] struct {
	value      V
	generation uint32
	live       bool
}

// arena stores values behind generational handles. Removing a value bumps
// the slot's generation, invalidating every handle issued for it.
type arena[V any] struct {
	slots []slot[V]
	free  []uint32
}

func (a *arena[V]) insert(v V) handle {
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[idx]
		s.value, s.live = v, true
		return handle{index: idx, generation: s.generation}
	}
	a.slots = append(a.slots, slot[V]{value: v, generation: 1, live: true})
	return handle{index: uint32(len(a.slots) - 1), generation: 1}
}

func (a *arena[V]) get(h handle) (V, bool) {
	var zero V
	if int(h.index) >= len(a.slots) {
		return zero, false
	}
	s := a.slots[h.index]
	if !s.live || s.generation != h.generation {
		return zero, false
	}
	return s.value, true
}

func (a *arena[V]) remove(h handle) (V, bool) {
	v, ok := a.get(h)
	if !ok {
		return v, false
	}
	var zero V
	s := &a.slots[h.index]
	s.value, s.live = zero, false
	s.generation++
	if s.generation == 0 {
		s.generation = 1
	}
	a.free = append(a.free, h.index)
	return v, true
}

func (a *arena[V]) len() int { return len(a.slots) - len(a.free) }

// each visits live entries in slot order.
func (a *arena[V]) each(f func(handle, V)) {
	for i, s := range a.slots {
		if s.live {
			f(handle{index: uint32(i), generation: s.generation}, s.value)
		}
	}
}
