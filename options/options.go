// Package options holds the conformance harness settings: command line
// flags, optionally layered over a TOML profile.
package options

import (
	"flag"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/richinsley/glcontext/conformance"
	"github.com/richinsley/glcontext/graphics"
)

type HarnessOptions struct {
	Config  *string // TOML profile, applied before any explicitly set flag
	Verbose *bool
	Help    *bool

	Width      *int
	Height     *int
	Visible    *bool // show windows; runs are hidden by default
	Fullscreen *bool

	Major   *int
	Minor   *int
	Profile *string // core, compat or es
	Samples *int
	VSync   *bool
	Debug   *bool

	ResizeWidth  *int
	ResizeHeight *int
	MaxPumps     *int
	PumpInterval *time.Duration

	fs *flag.FlagSet
}

// Register defines the harness flags on fs.
func Register(fs *flag.FlagSet) *HarnessOptions {
	return &HarnessOptions{
		Config:  fs.String("config", "", "TOML profile with window, context and resize settings"),
		Verbose: fs.Bool("v", false, "Log lifecycle transitions"),
		Help:    fs.Bool("help", false, "Show help message"),

		Width:      fs.Int("width", 640, "Window width"),
		Height:     fs.Int("height", 480, "Window height"),
		Visible:    fs.Bool("visible", false, "Show the windows under test"),
		Fullscreen: fs.Bool("fullscreen", false, "Create fullscreen windows"),

		Major:   fs.Int("major", 3, "Requested GL major version"),
		Minor:   fs.Int("minor", 3, "Requested GL minor version"),
		Profile: fs.String("profile", "core", "GL profile: core, compat or es"),
		Samples: fs.Int("samples", 0, "MSAA samples, 0 for none"),
		VSync:   fs.Bool("vsync", false, "Synchronize swaps with the display"),
		Debug:   fs.Bool("debug", false, "Request a debug context and log GL errors"),

		ResizeWidth:  fs.Int("resize-width", 800, "Width requested by the resize step"),
		ResizeHeight: fs.Int("resize-height", 600, "Height requested by the resize step"),
		MaxPumps:     fs.Int("max-pumps", 60, "Event pumps to wait for a resize"),
		PumpInterval: fs.Duration("pump-interval", 16*time.Millisecond, "Pause between event pumps"),

		fs: fs,
	}
}

// Configure builds the scenario config for a backend: defaults for its
// capabilities, then the profile, then flags given on the command line.
func (o *HarnessOptions) Configure(caps graphics.Capabilities) (conformance.Config, error) {
	cfg := conformance.DefaultConfig(caps)
	if *o.Config != "" {
		p, err := LoadProfile(*o.Config)
		if err != nil {
			return cfg, err
		}
		if err := p.Apply(&cfg); err != nil {
			return cfg, fmt.Errorf("profile %s: %w", *o.Config, err)
		}
	}

	var err error
	o.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.Window.Width = *o.Width
		case "height":
			cfg.Window.Height = *o.Height
		case "visible":
			cfg.Window.Hidden = !*o.Visible
		case "fullscreen":
			cfg.Window.Fullscreen = *o.Fullscreen
		case "major":
			cfg.Context.Major = *o.Major
		case "minor":
			cfg.Context.Minor = *o.Minor
		case "profile":
			var p graphics.Profile
			if p, err = graphics.ParseProfile(*o.Profile); err == nil {
				cfg.Context.Profile = p
			}
		case "samples":
			cfg.Context.Samples = *o.Samples
		case "vsync":
			cfg.Context.VSync = *o.VSync
		case "debug":
			cfg.Context.Debug = *o.Debug
		case "resize-width":
			cfg.ResizeWidth = *o.ResizeWidth
		case "resize-height":
			cfg.ResizeHeight = *o.ResizeHeight
		case "max-pumps":
			cfg.MaxPumps = *o.MaxPumps
		case "pump-interval":
			cfg.PumpInterval = *o.PumpInterval
		}
	})
	return cfg, err
}

// Profile is the TOML form of a harness run. Zero values keep the
// defaults.
type Profile struct {
	Window struct {
		Width       int
		Height      int
		Title       string
		Visible     bool
		Fullscreen  bool
		Transparent bool
	}
	Context struct {
		Major       int
		Minor       int
		Profile     string
		ColorBits   int `toml:"color_bits"`
		AlphaBits   int `toml:"alpha_bits"`
		DepthBits   int `toml:"depth_bits"`
		StencilBits int `toml:"stencil_bits"`
		Samples     int
		VSync       bool
		Debug       bool
	}
	Resize struct {
		Width        int
		Height       int
		MaxPumps     int    `toml:"max_pumps"`
		PumpInterval string `toml:"pump_interval"`
	}
}

// LoadProfile reads a profile and rejects keys it does not know.
func LoadProfile(path string) (*Profile, error) {
	var p Profile
	md, err := toml.DecodeFile(path, &p)
	if err != nil {
		return nil, fmt.Errorf("couldn't read profile: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown keys in profile %s: %v", path, undecoded)
	}
	return &p, nil
}

// Apply overrides cfg with every setting present in p.
func (p *Profile) Apply(cfg *conformance.Config) error {
	w := p.Window
	setInt(&cfg.Window.Width, w.Width)
	setInt(&cfg.Window.Height, w.Height)
	if w.Title != "" {
		cfg.Window.Title = w.Title
	}
	cfg.Window.Hidden = !w.Visible
	cfg.Window.Fullscreen = w.Fullscreen
	cfg.Window.Transparent = w.Transparent

	c := p.Context
	if c.Major != 0 {
		cfg.Context.Major, cfg.Context.Minor = c.Major, c.Minor
	}
	if c.Profile != "" {
		profile, err := graphics.ParseProfile(c.Profile)
		if err != nil {
			return err
		}
		cfg.Context.Profile = profile
	}
	setInt(&cfg.Context.ColorBits, c.ColorBits)
	setInt(&cfg.Context.AlphaBits, c.AlphaBits)
	setInt(&cfg.Context.DepthBits, c.DepthBits)
	setInt(&cfg.Context.StencilBits, c.StencilBits)
	setInt(&cfg.Context.Samples, c.Samples)
	cfg.Context.VSync = c.VSync
	cfg.Context.Debug = c.Debug

	r := p.Resize
	setInt(&cfg.ResizeWidth, r.Width)
	setInt(&cfg.ResizeHeight, r.Height)
	setInt(&cfg.MaxPumps, r.MaxPumps)
	if r.PumpInterval != "" {
		d, err := time.ParseDuration(r.PumpInterval)
		if err != nil {
			return fmt.Errorf("pump_interval: %w", err)
		}
		cfg.PumpInterval = d
	}
	return nil
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}
