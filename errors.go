// Package framecap creates errors which carry a bounded snapshot of the call
// chain active at the moment of construction.
//
// Every error built through this package's entry points gets a stack attached,
// capped at the process-wide default depth:
//
//	err := framecap.New("boom")
//
// A single error can override the default with a per-error limit, committed at
// construction and frozen for the life of the error:
//
//	err := framecap.New("boom", framecap.WithStackLimit(framecap.Depth(5)))
//
// Untrusted limit values go through ParseLimit first, which either yields a
// valid Limit or fails before any error is constructed:
//
//	limit, err := framecap.ParseLimit(req.StackLimit)
//
// Errors are immutable.  All functions which add context return new errors.
package framecap

import (
	"errors"
	"fmt"

	"github.com/framecap/framecap/internal"
)

// New creates a new error, with a stack attached.  The equivalent of golang's errors.New()
func New(msg string, wrappers ...Wrapper) error {
	return WrapSkipping(errors.New(msg), 1, wrappers...)
}

// Errorf creates a new error with a formatted message and a stack.  The equivalent of golang's fmt.Errorf().
// args may contain either arguments to format, or Wrapper options, which will be applied to the error.
func Errorf(format string, args ...interface{}) error {
	var wrappers []Wrapper

	// pull out the args which are wrappers
	n := 0
	for _, arg := range args {
		if w, ok := arg.(Wrapper); ok {
			wrappers = append(wrappers, w)
		} else {
			args[n] = arg
			n++
		}
	}
	args = args[:n]

	return WrapSkipping(fmt.Errorf(format, args...), 1, wrappers...)
}

// Wrap adds context to errors by applying Wrappers.  See WithXXX() functions for Wrappers supplied
// by this package.
//
// If StackCaptureEnabled is true, a stack starting at the caller will be automatically captured
// and attached to the error, bounded by the error's committed limit override if one was applied,
// else by StackTraceLimit().  This behavior can be overridden with wrappers which either attach
// their own stacks, or suppress auto capture.
//
// If err is nil, returns nil.
func Wrap(err error, wrappers ...Wrapper) error {
	return WrapSkipping(err, 1, wrappers...)
}

// WrapSkipping is like Wrap, but the captured stacks will start `skip` frames
// further up the call stack.  If skip is 0, it behaves the same as Wrap.
//
// Hooks and wrappers are applied first, so a limit override committed by a
// wrapper is already on the chain when the capture at the end reads it.  The
// effective depth is resolved exactly once, inside that capture: later changes
// to the global default never touch this error.
func WrapSkipping(err error, skip int, wrappers ...Wrapper) error {
	if err == nil {
		return nil
	}

	for _, h := range hooks {
		err = h.Wrap(err, skip+1)
	}

	for _, w := range wrappers {
		err = w.Wrap(err, skip+1)
	}

	return captureStack(err, skip+1, false)
}

// Lookup returns the value for key, and whether it was found on the chain.
// If the same key was attached more than once, the most recently attached
// value wins.
func Lookup(err error, key interface{}) (interface{}, bool) {
	for err != nil {
		if e, ok := err.(*errLink); ok && e.key == key {
			return e.value, true
		}
		err = internal.Unwrap(err)
	}

	return nil, false
}

// Value returns the value for key, or nil if not set.
// If err is nil, returns nil.
func Value(err error, key interface{}) interface{} {
	v, _ := Lookup(err, key)
	return v
}

// Values returns a map of all values attached to the error
// If a key has been attached multiple times, the map will
// contain the last value mapped
// If err is nil, returns nil.
func Values(err error) map[interface{}]interface{} {
	var values map[interface{}]interface{}

	for err != nil {
		if e, ok := err.(*errLink); ok {
			if _, ok := values[e.key]; !ok {
				if values == nil {
					values = map[interface{}]interface{}{}
				}
				values[e.key] = e.value
			}
		}
		err = internal.Unwrap(err)
	}

	return values
}

// StackOf returns the stack attached to an error, or nil if one is not
// attached.  The returned Stack is immutable; it is never re-walked after
// construction.
// If err is nil, returns nil.
func StackOf(err error) *Stack {
	stack, _ := Value(err, errKeyStack).(*Stack)
	return stack
}

// StackLimit returns the limit override committed to the error at
// construction, or the unset Limit if the error carries none and deferred to
// the global default.
func StackLimit(err error) Limit {
	limit, _ := Value(err, errKeyLimit).(Limit)
	return limit
}

// HTTPCode converts an error to an http status code.  All errors
// map to 500, unless the error has an http code attached.
// If err is nil, returns 200.
func HTTPCode(err error) int {
	if err == nil {
		return 200
	}

	code, _ := Value(err, errKeyHTTPCode).(int)
	if code == 0 {
		return 500
	}

	return code
}

// UserMessage returns the end-user safe message.  Returns empty if not set.
// If err is nil, returns "".
func UserMessage(err error) string {
	msg, _ := Value(err, errKeyUserMessage).(string)
	return msg
}

// Cause returns the cause of the argument.  Causes attached with WithCause
// are found anywhere on the chain; foreign errors exposing a Cause() method
// (e.g. pkg/errors) are honored too.  If err is nil, or has no cause, nil is
// returned.
func Cause(err error) error {
	for err != nil {
		if e, ok := err.(*errLink); ok {
			if e.key == errKeyCause {
				if c, ok := e.value.(error); ok {
					return c
				}
			}
			err = e.err
			continue
		}
		if causer, ok := err.(interface{ Cause() error }); ok {
			return causer.Cause()
		}
		err = internal.Unwrap(err)
	}

	return nil
}

// captureStack: return an error with a stack attached.  Stack will skip
// specified frames.  skip = 0 will start at caller.
//
// The effective depth is resolved here and nowhere else: the error's
// committed limit override if present, else the global default, read once.
// If the err already has a stack, or auto-stack-capture is disabled globally,
// this is a no-op.  Use force to override and force a stack capture
// in all cases.
func captureStack(err error, skip int, force bool) error {
	if err == nil {
		return nil
	}
	if !force && (!StackCaptureEnabled() || HasStack(err)) {
		return err
	}

	limit := StackLimit(err)
	if limit.IsUnset() {
		limit = StackTraceLimit()
	}

	return Set(err, errKeyStack, capture(skip+1, limit))
}

// HasStack returns true if a stack is already attached to the err.
// If err == nil, returns false.
//
// If a stack capture was suppressed with WithNoCapture(), this will
// still return true, indicating that stack capture processing has already
// occurred on this error.
func HasStack(err error) bool {
	for err != nil {
		if e, ok := err.(*errLink); ok {
			if e.key == errKeyStack || e.key == errKeyFormattedStack {
				return true
			}
			err = e.err
			continue
		}
		err = internal.Unwrap(err)
	}
	return false
}
