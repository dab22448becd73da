package scores

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies a StoreError.
type Kind int

const (
	// Unavailable means the backend could not be reached or opened.
	Unavailable Kind = iota
	// WriteFailure means the backend refused or failed a write.
	WriteFailure
	// Timeout means the operation ran past its deadline.
	Timeout
)

// Sentinels matched by errors.Is against any StoreError of the same Kind.
var (
	ErrUnavailable  = errors.New("store unavailable")
	ErrWriteFailure = errors.New("store write failed")
	ErrTimeout      = errors.New("store timed out")
)

func (k Kind) String() string {
	switch k {
	case Unavailable:
		return "unavailable"
	case WriteFailure:
		return "write failure"
	case Timeout:
		return "timeout"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case WriteFailure:
		return ErrWriteFailure
	case Timeout:
		return ErrTimeout
	default:
		return ErrUnavailable
	}
}

// StoreError is returned by Store implementations.
type StoreError struct {
	Kind Kind
	Op   string // e.g. "persist", "top scores"
	Err  error
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("scores: %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("scores: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrTimeout) and friends work.
func (e *StoreError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// Wrap turns err into a StoreError of the given kind. Deadline errors
// become Timeout regardless of kind, and an existing StoreError is
// returned unchanged.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return se
	}
	if errors.Is(err, context.DeadlineExceeded) {
		kind = Timeout
	}
	return &StoreError{Kind: kind, Op: op, Err: err}
}

// KindOf reports the Kind of err and whether err is a StoreError at all.
func KindOf(err error) (Kind, bool) {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return 0, false
}
