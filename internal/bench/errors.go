package bench

import (
	"errors"
	"fmt"
)

// Class groups fatal conditions by origin. None of them is retried.
type Class string

const (
	EnvironmentError  Class = "EnvironmentError"
	BuildError        Class = "BuildError"
	DispatchError     Class = "DispatchError"
	VerificationError Class = "VerificationError"
	ConfigError       Class = "ConfigError"
)

var (
	ErrNoPlatformAvailable     = errors.New("no platform available")
	ErrNoDeviceAvailable       = errors.New("no device available")
	ErrEmptyKernelSource       = errors.New("kernel source is empty")
	ErrKernelBuildFailed       = errors.New("kernel build failed")
	ErrInvalidKernelEntryPoint = errors.New("invalid kernel entry point")
	ErrArgumentMismatch        = errors.New("kernel argument mismatch")
	ErrInvalidWorkGroupSize    = errors.New("invalid work-group size")
	ErrLengthMismatch          = errors.New("result length mismatch")
	ErrValueMismatch           = errors.New("result value mismatch")
	ErrInvalidConfig           = errors.New("invalid configuration")
)

// Error is a classified pipeline failure. Err is the sentinel or driver error
// it wraps; Diagnostics carries the compiler output of a failed build.
type Error struct {
	Class       Class
	Op          string
	Err         error
	Diagnostics string
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s: %v", e.Class, e.Op, e.Err)
	if e.Diagnostics != "" {
		msg += "\n" + e.Diagnostics
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func newError(class Class, op string, err error) *Error {
	return &Error{Class: class, Op: op, Err: err}
}

// ClassOf returns the class of the first *Error in err's chain, or the empty
// class when err is not a pipeline error.
func ClassOf(err error) Class {
	var e *Error
	if errors.As(err, &e) {
		return e.Class
	}
	return ""
}

// MismatchError reports the first element that failed verification.
type MismatchError struct {
	Index    int
	Expected string
	Actual   string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("element %d: expected %s, got %s", e.Index, e.Expected, e.Actual)
}

func (e *MismatchError) Is(target error) bool {
	return target == ErrValueMismatch
}
