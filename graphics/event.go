package graphics

import "fmt"

// EventKind tags a LifecycleEvent.
type EventKind int

const (
	Resized EventKind = iota + 1
	FocusChanged
	CloseRequested
	Suspended
	Resumed
)

func (k EventKind) String() string {
	switch k {
	case Resized:
		return "Resized"
	case FocusChanged:
		return "FocusChanged"
	case CloseRequested:
		return "CloseRequested"
	case Suspended:
		return "Suspended"
	case Resumed:
		return "Resumed"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// LifecycleEvent is what the Driver hands to the application. Width and
// Height are set for Resized, Focused for FocusChanged.
type LifecycleEvent struct {
	Kind    EventKind
	Window  WindowHandle
	Width   int
	Height  int
	Focused bool
}

func (e LifecycleEvent) String() string {
	switch e.Kind {
	case Resized:
		return fmt.Sprintf("Resized(%d,%d) %v", e.Width, e.Height, e.Window)
	case FocusChanged:
		return fmt.Sprintf("FocusChanged(%t) %v", e.Focused, e.Window)
	}
	return fmt.Sprintf("%v %v", e.Kind, e.Window)
}

// ResizeEvent is a helper for adapters reporting a size change.
func ResizeEvent(w, h int) LifecycleEvent {
	return LifecycleEvent{Kind: Resized, Width: w, Height: h}
}

// FocusEvent is a helper for adapters reporting a focus change.
func FocusEvent(focused bool) LifecycleEvent {
	return LifecycleEvent{Kind: FocusChanged, Focused: focused}
}
