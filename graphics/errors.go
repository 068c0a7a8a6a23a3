package graphics

import (
	"errors"
	"fmt"
)

// Kind classifies every failure reported through the Context operations.
// Backends translate native errors into one of these kinds.
type Kind int

const (
	KindUnknown Kind = iota
	WindowCreationFailed
	ContextCreationFailed
	UnsupportedAttributes
	MakeCurrentFailed
	AlreadyCurrentElsewhere
	NotCurrent
	SwapFailed
	InvalidHandle
	BackendUnavailable
)

var kindNames = [...]string{
	KindUnknown:             "Unknown",
	WindowCreationFailed:    "WindowCreationFailed",
	ContextCreationFailed:   "ContextCreationFailed",
	UnsupportedAttributes:   "UnsupportedAttributes",
	MakeCurrentFailed:       "MakeCurrentFailed",
	AlreadyCurrentElsewhere: "AlreadyCurrentElsewhere",
	NotCurrent:              "NotCurrent",
	SwapFailed:              "SwapFailed",
	InvalidHandle:           "InvalidHandle",
	BackendUnavailable:      "BackendUnavailable",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Sentinels for errors.Is. An *Error matches the sentinel of its Kind.
var (
	ErrWindowCreationFailed    = &Error{Kind: WindowCreationFailed}
	ErrContextCreationFailed   = &Error{Kind: ContextCreationFailed}
	ErrUnsupportedAttributes   = &Error{Kind: UnsupportedAttributes}
	ErrMakeCurrentFailed       = &Error{Kind: MakeCurrentFailed}
	ErrAlreadyCurrentElsewhere = &Error{Kind: AlreadyCurrentElsewhere}
	ErrNotCurrent              = &Error{Kind: NotCurrent}
	ErrSwapFailed              = &Error{Kind: SwapFailed}
	ErrInvalidHandle           = &Error{Kind: InvalidHandle}
	ErrBackendUnavailable      = &Error{Kind: BackendUnavailable}
)

// Error is the only error type returned across the Context boundary.
type Error struct {
	Kind    Kind
	Backend string // name of the backend that failed, filled in by the Manager
	Op      string // operation, e.g. "make_current"
	Err     error  // translated native error, may be nil
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Backend != "" {
		msg = e.Backend + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Errorf builds an *Error of the given kind around a formatted native error.
// Adapters use it to translate failures from the library they wrap.
func Errorf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the Kind carried by err, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// opKinds lists the kinds each operation may fail with besides
// BackendUnavailable. Operations missing from the table keep any kind.
var opKinds = map[string][]Kind{
	"init":            {BackendUnavailable},
	"create_window":   {WindowCreationFailed},
	"create_context":  {ContextCreationFailed, UnsupportedAttributes},
	"make_current":    {MakeCurrentFailed, AlreadyCurrentElsewhere},
	"release_current": {MakeCurrentFailed},
	"swap_buffers":    {NotCurrent, SwapFailed},
	"resize":          {InvalidHandle, UnsupportedAttributes, WindowCreationFailed},
	"window_size":     {InvalidHandle},
}

func allowed(op string, k Kind) bool {
	kinds, ok := opKinds[op]
	if !ok || k == BackendUnavailable {
		return true
	}
	for _, a := range kinds {
		if a == k {
			return true
		}
	}
	return false
}

// stamp attributes err to a backend and operation. Errors outside the
// taxonomy, or carrying a kind op may not report, get the fallback kind so
// nothing backend specific leaks. The native error stays in the chain.
func stamp(err error, backend, op string, fallback Kind) error {
	if err == nil {
		return nil
	}
	var e *Error
	if !errors.As(err, &e) {
		return &Error{Kind: fallback, Backend: backend, Op: op, Err: err}
	}
	if !allowed(op, e.Kind) {
		inner := e.Err
		if inner == nil {
			inner = errors.New(e.Kind.String())
		} else {
			inner = fmt.Errorf("%s: %w", e.Kind, inner)
		}
		return &Error{Kind: fallback, Backend: backend, Op: op, Err: inner}
	}
	out := *e
	if out.Backend == "" {
		out.Backend = backend
	}
	if out.Op == "" {
		out.Op = op
	}
	return &out
}
