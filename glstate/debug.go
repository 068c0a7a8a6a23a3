package glstate

import (
	"context"
	"log/slog"
	"sync"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	gl43 "github.com/go-gl/gl/v4.3-core/gl"

	"github.com/richinsley/glcontext/graphics"
)

var (
	init43Once sync.Once
	init43Err  error
)

// Level maps a GL debug message severity to a log level.
func Level(severity uint32) slog.Level {
	switch severity {
	case gl43.DEBUG_SEVERITY_HIGH:
		return slog.LevelError
	case gl43.DEBUG_SEVERITY_MEDIUM:
		return slog.LevelWarn
	case gl43.DEBUG_SEVERITY_LOW:
		return slog.LevelInfo
	}
	return slog.LevelDebug
}

var sourceNames = map[uint32]string{
	gl43.DEBUG_SOURCE_API:             "api",
	gl43.DEBUG_SOURCE_SHADER_COMPILER: "shader compiler",
	gl43.DEBUG_SOURCE_WINDOW_SYSTEM:   "window system",
	gl43.DEBUG_SOURCE_APPLICATION:     "application",
	gl43.DEBUG_SOURCE_THIRD_PARTY:     "third party",
	gl43.DEBUG_SOURCE_OTHER:           "other",
}

var typeNames = map[uint32]string{
	gl43.DEBUG_TYPE_ERROR:               "error",
	gl43.DEBUG_TYPE_DEPRECATED_BEHAVIOR: "deprecated",
	gl43.DEBUG_TYPE_UNDEFINED_BEHAVIOR:  "undefined behavior",
	gl43.DEBUG_TYPE_PORTABILITY:         "portability",
	gl43.DEBUG_TYPE_PERFORMANCE:         "performance",
	gl43.DEBUG_TYPE_MARKER:              "marker",
	gl43.DEBUG_TYPE_OTHER:               "other",
}

func name(names map[uint32]string, v uint32) string {
	if n, ok := names[v]; ok {
		return n
	}
	return "unknown"
}

func logMessage(backend string, source, gltype, id, severity uint32, message string) {
	graphics.Logger().Log(context.Background(), Level(severity), "GL debug message",
		"backend", backend,
		"id", id,
		"type", name(typeNames, gltype),
		"source", name(sourceNames, source),
		"message", message)
}

// supportsDebugOutput reports whether a desktop context of version v with
// the given extensions has glDebugMessageCallback.
func supportsDebugOutput(v graphics.Version, extensions func() []string) bool {
	if !v.Less(graphics.Version{Major: 4, Minor: 3}) {
		return true
	}
	for _, ext := range extensions() {
		if ext == "GL_KHR_debug" || ext == "GL_ARB_debug_output" {
			return true
		}
	}
	return false
}

func extensions() []string {
	var n int32
	gl.GetIntegerv(gl.NUM_EXTENSIONS, &n)
	exts := make([]string, 0, n)
	for i := int32(0); i < n; i++ {
		exts = append(exts, gl.GoStr(gl.GetStringi(gl.EXTENSIONS, uint32(i))))
	}
	return exts
}

// enable installs the debug message callback on the current context. GL has
// one callback per context; go-gl keeps one per process, so the last backend
// to enable it names the messages.
func enable(backend string, p graphics.Profile) bool {
	if p == graphics.ProfileES {
		return false
	}
	if !supportsDebugOutput(Probe().Version, extensions) {
		return false
	}
	init43Once.Do(func() { init43Err = gl43.Init() })
	if init43Err != nil {
		graphics.Logger().Debug("GL debug output unavailable", "backend", backend, "err", init43Err)
		return false
	}
	gl43.Enable(gl43.DEBUG_OUTPUT)
	gl43.Enable(gl43.DEBUG_OUTPUT_SYNCHRONOUS)
	gl43.DebugMessageCallback(func(source, gltype, id, severity uint32, _ int32, message string, _ unsafe.Pointer) {
		logMessage(backend, source, gltype, id, severity, message)
	}, nil)
	return true
}

// DebugOutput reports the GL diagnostics of one debug context. Contexts that
// accept a debug message callback log driver messages as they arrive; the
// rest have their error queue drained after every swap.
type DebugOutput struct {
	backend  string
	profile  graphics.Profile
	attached bool
	callback bool
}

// NewDebugOutput returns nil unless a asks for a debug context.
func NewDebugOutput(backend string, a graphics.ContextAttributes) *DebugOutput {
	if !a.Debug {
		return nil
	}
	return &DebugOutput{backend: backend, profile: a.Profile}
}

// Attach runs once the context is current for the first time.
func (o *DebugOutput) Attach() {
	if o == nil || o.attached {
		return
	}
	o.attached = true
	o.callback = enable(o.backend, o.profile)
	graphics.Logger().Debug("GL debug output", "backend", o.backend, "callback", o.callback)
}

// AfterSwap drains glGetError when no callback is installed.
func (o *DebugOutput) AfterSwap() {
	if o == nil || o.callback {
		return
	}
	LogErrors(o.backend)
}
