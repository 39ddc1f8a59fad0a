package framecap

import "fmt"

// Wrapper knows how to wrap errors with context information.
type Wrapper interface {
	// Wrap returns a new error, wrapping the argument, and typically adding some context information.
	// skipCallers is how many callers to skip when capturing a stack to skip to the caller of the
	// package's API surface.  It's intended to make it possible to write wrappers which capture
	// stacktraces.  e.g.
	//
	//     func CaptureStack() Wrapper {
	//         return WrapperFunc(func(err error, skipCallers int) error {
	//             return Set(err, errKeyStack, capture(skipCallers+2, StackTraceLimit()))
	//         })
	//     }
	//
	// skipCallers is relative to the caller of WrapperFunc.Wrap, so a closure
	// adds 2 to account for itself and the Wrap method.
	Wrap(err error, skipCallers int) error
}

// WrapperFunc implements Wrapper.
type WrapperFunc func(error, int) error

// Wrap implements the Wrapper interface.
func (w WrapperFunc) Wrap(err error, callerDepth int) error {
	return w(err, callerDepth)
}

// WithValue associates a key/value pair with an error.
func WithValue(key, value interface{}) Wrapper {
	return WrapperFunc(func(err error, _ int) error {
		return Set(err, key, value)
	})
}

// WithMessage overrides the value returned by err.Error().
func WithMessage(msg string) Wrapper {
	return WithValue(errKeyMessage, msg)
}

// WithMessagef overrides the value returned by err.Error().
func WithMessagef(format string, args ...interface{}) Wrapper {
	return WrapperFunc(func(err error, _ int) error {
		if err == nil {
			return nil
		}
		return Set(err, errKeyMessage, fmt.Sprintf(format, args...))
	})
}

// PrependMessage prepends the value returned by err.Error() with "msg: ".
func PrependMessage(msg string) Wrapper {
	return WrapperFunc(func(err error, _ int) error {
		if err == nil || len(msg) == 0 {
			return err
		}
		return Set(err, errKeyMessage, msg+": "+err.Error())
	})
}

// PrependMessagef prepends the value returned by err.Error() with "formattedmsg: ".
func PrependMessagef(format string, args ...interface{}) Wrapper {
	return WrapperFunc(func(err error, _ int) error {
		if err == nil || len(format) == 0 {
			return err
		}
		return Set(err, errKeyMessage, fmt.Sprintf(format, args...)+": "+err.Error())
	})
}

// AppendMessage appends ": msg" to the value returned by err.Error().
func AppendMessage(msg string) Wrapper {
	return WrapperFunc(func(err error, _ int) error {
		if err == nil || len(msg) == 0 {
			return err
		}
		return Set(err, errKeyMessage, err.Error()+": "+msg)
	})
}

// AppendMessagef appends ": formattedmsg" to the value returned by err.Error().
func AppendMessagef(format string, args ...interface{}) Wrapper {
	return WrapperFunc(func(err error, _ int) error {
		if err == nil || len(format) == 0 {
			return err
		}
		return Set(err, errKeyMessage, err.Error()+": "+fmt.Sprintf(format, args...))
	})
}

// WithUserMessage associates an end-user message with an error.
func WithUserMessage(msg string) Wrapper {
	return WithValue(errKeyUserMessage, msg)
}

// WithUserMessagef associates a formatted end-user message with an error.
func WithUserMessagef(format string, args ...interface{}) Wrapper {
	return WrapperFunc(func(err error, _ int) error {
		if err == nil {
			return nil
		}
		return Set(err, errKeyUserMessage, fmt.Sprintf(format, args...))
	})
}

// WithHTTPCode associates an HTTP status code with an error.
func WithHTTPCode(statusCode int) Wrapper {
	return WithValue(errKeyHTTPCode, statusCode)
}

// WithStackLimit commits a per-error capture-depth override.  The override
// takes precedence over StackTraceLimit() for this error only, and is read
// exactly once, when the stack is captured at the end of construction.  It
// is not re-read afterward, so neither later changes to the global default
// nor overrides on other errors can affect this error's stack.
//
// Unset limits are a no-op: the error defers to the global default, exactly
// as if no override had been requested.  Limit values come from Depth,
// Unbounded, or ParseLimit, so the committed override can never be invalid.
func WithStackLimit(limit Limit) Wrapper {
	return WrapperFunc(func(err error, _ int) error {
		if err == nil || limit.IsUnset() {
			return err
		}
		return Set(err, errKeyLimit, limit)
	})
}

// WithStack associates an externally captured stack with an error, e.g.
// frames imported from another error library.  Generally, this package
// will automatically capture and attach a stack to errors which are created
// or wrapped by this package, but this allows the caller to supply one.
func WithStack(stack *Stack) Wrapper {
	return WithValue(errKeyStack, stack)
}

// WithFormattedStack associates a stack of pre-formatted strings describing frames of a
// stacktrace.  Generally, a formatted stack is generated from the raw Stack
// attached to the error, but a pre-formatted stack can be attached
// instead, and takes precedence over the raw stack.  This is useful if pre-formatted
// stack information is coming from some other source.
func WithFormattedStack(stack []string) Wrapper {
	return WithValue(errKeyFormattedStack, stack)
}

// WithNoCapture will suppress capturing a stack, even if StackCaptureEnabled() == true.
func WithNoCapture() Wrapper {
	return WithValue(errKeyStack, (*Stack)(nil))
}

// WithCaptureForced will force a stack capture, even if StackCaptureEnabled() == false,
// or if a stack is already attached to the error (the new stack will override the earlier
// stack).
func WithCaptureForced() Wrapper {
	return WrapperFunc(func(err error, callerDepth int) error {
		// +2: this closure and WrapperFunc.Wrap sit between here and the
		// frame callerDepth is relative to.
		return captureStack(err, callerDepth+2, true)
	})
}

// WithCapture will override an earlier stack with a stack captured from the current
// call site.  If StackCaptureEnabled() == false, this is a no-op.
func WithCapture() Wrapper {
	return WrapperFunc(func(err error, callerDepth int) error {
		return captureStack(err, callerDepth+2, StackCaptureEnabled())
	})
}

// WithCause sets one error as the cause of another error.  This is useful for associating errors
// from lower API levels with sentinel errors in higher API levels.  errors.Is() and errors.As()
// will traverse both the main chain of error wrappers, as well as down the chain of causes.
func WithCause(err error) Wrapper {
	return WithValue(errKeyCause, err)
}

// Set wraps an error with a key/value pair.  This is the simplest form of associating
// a value with an error.  It does not capture a stacktrace, invoke hooks, or do any
// other processing.  It is mainly intended as a primitive for writing Wrapper implementations.
//
// if err is nil, returns nil.
func Set(err error, key, value interface{}) error {
	if err == nil {
		return nil
	}
	return &errLink{
		err:   err,
		key:   key,
		value: value,
	}
}
