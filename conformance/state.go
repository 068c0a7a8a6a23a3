// Package conformance drives a graphics.Manager through the lifecycle every
// backend must support and reports where it first breaks.
package conformance

import "fmt"

// State is a point in the scenario. Each transition into a state has a
// postcondition; the scenario stops at the first one that fails.
type State int

const (
	Uninitialized State = iota
	WindowCreated
	ContextCreated
	Current
	Resized
	BuffersSwapped
	Destroyed
)

var stateNames = [...]string{
	Uninitialized:  "Uninitialized",
	WindowCreated:  "WindowCreated",
	ContextCreated: "ContextCreated",
	Current:        "Current",
	Resized:        "Resized",
	BuffersSwapped: "BuffersSwapped",
	Destroyed:      "Destroyed",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}
