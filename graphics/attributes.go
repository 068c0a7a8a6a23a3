package graphics

import "fmt"

// WindowAttributes is an immutable window request.
type WindowAttributes struct {
	Width       int
	Height      int
	Title       string
	Resizable   bool
	Fullscreen  bool
	Transparent bool
	// Hidden creates the window without mapping it. Useful for CI runs.
	Hidden bool
}

// Validate checks the request before it reaches a backend.
func (a WindowAttributes) Validate() error {
	if a.Width <= 0 || a.Height <= 0 {
		return Errorf(WindowCreationFailed, "invalid window size %dx%d", a.Width, a.Height)
	}
	return nil
}

// Profile selects the GL API flavour.
type Profile int

const (
	ProfileCore Profile = iota
	ProfileCompat
	ProfileES
)

func (p Profile) String() string {
	switch p {
	case ProfileCore:
		return "core"
	case ProfileCompat:
		return "compat"
	case ProfileES:
		return "es"
	}
	return fmt.Sprintf("Profile(%d)", int(p))
}

// ParseProfile maps "core", "compat" or "es" to a Profile.
func ParseProfile(s string) (Profile, error) {
	switch s {
	case "core", "":
		return ProfileCore, nil
	case "compat", "compatibility":
		return ProfileCompat, nil
	case "es", "gles":
		return ProfileES, nil
	}
	return 0, fmt.Errorf("unknown GL profile %q", s)
}

// Version is a GL major.minor pair.
type Version struct {
	Major, Minor int
}

func (v Version) String() string { return fmt.Sprintf("%d.%d", v.Major, v.Minor) }

// Less reports whether v is an older version than o.
func (v Version) Less(o Version) bool {
	if v.Major != o.Major {
		return v.Major < o.Major
	}
	return v.Minor < o.Minor
}

// known lists the highest minor of every published major version.
var (
	knownGL = map[int]int{1: 5, 2: 1, 3: 3, 4: 6}
	knownES = map[int]int{1: 1, 2: 0, 3: 2}
)

// Exists reports whether v names a published version of profile p.
func (v Version) Exists(p Profile) bool {
	known := knownGL
	if p == ProfileES {
		known = knownES
	}
	maxMinor, ok := known[v.Major]
	return ok && v.Minor >= 0 && v.Minor <= maxMinor
}

// ContextAttributes is an immutable GL context request.
type ContextAttributes struct {
	Major   int
	Minor   int
	Profile Profile

	ColorBits   int // per channel, 0 means backend default
	AlphaBits   int
	DepthBits   int
	StencilBits int

	VSync   bool
	Samples int
	// Debug requests a debug context. GL debug messages are logged.
	Debug bool
}

// Version returns the requested GL version.
func (a ContextAttributes) Version() Version { return Version{a.Major, a.Minor} }

// Validate rejects requests no backend could satisfy. Whether a backend can
// satisfy a valid request is decided by the backend itself.
func (a ContextAttributes) Validate() error {
	if !a.Version().Exists(a.Profile) {
		return Errorf(UnsupportedAttributes, "no such %s version %s", a.Profile, a.Version())
	}
	if a.Profile == ProfileCore && a.Version().Less(Version{3, 2}) {
		return Errorf(UnsupportedAttributes, "core profile requires 3.2 or newer, got %s", a.Version())
	}
	for name, bits := range map[string]int{
		"color": a.ColorBits, "alpha": a.AlphaBits, "depth": a.DepthBits, "stencil": a.StencilBits,
	} {
		if bits < 0 {
			return Errorf(UnsupportedAttributes, "negative %s bits %d", name, bits)
		}
	}
	if a.Samples < 0 || a.Samples&(a.Samples-1) != 0 {
		return Errorf(UnsupportedAttributes, "sample count %d is not a power of two", a.Samples)
	}
	return nil
}
