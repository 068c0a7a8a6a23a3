package glfwcontext

import (
	"errors"
	"fmt"

	glfw "github.com/go-gl/glfw/v3.3/glfw"

	"github.com/richinsley/glcontext/graphics"
)

// translate maps a GLFW error to the graphics taxonomy. Codes that describe
// an unsatisfiable request become UnsupportedAttributes whatever the
// operation; the rest take the operation's failure kind.
func translate(err error, fallback graphics.Kind) error {
	if err == nil {
		return nil
	}
	var gerr *glfw.Error
	if !errors.As(err, &gerr) {
		return &graphics.Error{Kind: fallback, Err: err}
	}
	kind := fallback
	switch gerr.Code {
	case glfw.VersionUnavailable, glfw.APIUnavailable, glfw.FormatUnavailable:
		kind = graphics.UnsupportedAttributes
	case glfw.NotInitialized:
		kind = graphics.BackendUnavailable
	case glfw.NoCurrentContext:
		if fallback == graphics.SwapFailed {
			kind = graphics.NotCurrent
		}
	}
	return &graphics.Error{Kind: kind, Err: err}
}

// catch converts a GLFW panic into an error of the taxonomy. go-gl/glfw
// panics on errors a call does not declare.
func catch(err *error, fallback graphics.Kind) {
	r := recover()
	if r == nil {
		return
	}
	e, ok := r.(error)
	if !ok {
		e = fmt.Errorf("glfw: %v", r)
	}
	*err = translate(e, fallback)
}
