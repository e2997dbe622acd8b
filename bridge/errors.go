package bridge

import "fmt"

// ErrTargetUnavailable is returned when Call addresses a peer that is
// not registered (page closed, context torn down).
type ErrTargetUnavailable struct {
	Target string
}

func (e *ErrTargetUnavailable) Error() string {
	return fmt.Sprintf("bridge: target unavailable: %s", e.Target)
}

// ErrBusClosed is returned when the bus has been shut down.
type ErrBusClosed struct{}

func (e *ErrBusClosed) Error() string {
	return "bridge: bus closed"
}

// ErrHandlerFailed wraps a panic recovered at the handler boundary.
type ErrHandlerFailed struct {
	Target string
	Kind   Kind
	Cause  error
}

func (e *ErrHandlerFailed) Error() string {
	return fmt.Sprintf("bridge: handler %s/%s failed: %v", e.Target, e.Kind, e.Cause)
}

func (e *ErrHandlerFailed) Unwrap() error { return e.Cause }
