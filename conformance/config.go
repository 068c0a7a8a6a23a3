package conformance

import (
	"time"

	"github.com/richinsley/glcontext/graphics"
)

// Config is what the scenario asks of a backend.
type Config struct {
	Window  graphics.WindowAttributes
	Context graphics.ContextAttributes
	// ResizeWidth and ResizeHeight are the size requested in the Resized
	// transition.
	ResizeWidth, ResizeHeight int
	// MaxPumps bounds how long the Resized transition waits for its event.
	MaxPumps int
	// PumpInterval is slept between pumps, giving window systems that
	// answer asynchronously time to respond.
	PumpInterval time.Duration
}

// DefaultConfig returns a hidden 640x480 window with a GL 3.3 core context,
// or an ES 3.0 context when the backend has no core profile.
func DefaultConfig(caps graphics.Capabilities) Config {
	ctx := graphics.ContextAttributes{Major: 3, Minor: 3, Profile: graphics.ProfileCore, DepthBits: 24}
	if !caps.Supports(graphics.ProfileCore) {
		ctx = graphics.ContextAttributes{Major: 3, Minor: 0, Profile: graphics.ProfileES, DepthBits: 24}
	}
	return Config{
		Window: graphics.WindowAttributes{
			Width:     640,
			Height:    480,
			Title:     "glcontext conformance",
			Resizable: true,
			Hidden:    true,
		},
		Context:      ctx,
		ResizeWidth:  800,
		ResizeHeight: 600,
		MaxPumps:     60,
		PumpInterval: 16 * time.Millisecond,
	}
}
