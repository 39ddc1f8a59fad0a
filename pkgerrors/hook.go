// Package pkgerrors provides a framecap hook to integrate pkg/errors stacktraces.
// The hook detects errors created with github.com/pkg/errors and translates
// their stacks into framecap stacks.
//
// Hooks run before wrappers, so a framecap.WithStackLimit passed in the same
// Wrap call does not trim the imported stack.  To bound an imported stack,
// commit the override first, then wrap again:
//
//	err = framecap.Wrap(err, framecap.WithStackLimit(framecap.Depth(5)))
//	err = framecap.Wrap(err)
package pkgerrors

import (
	errors2 "errors"

	"github.com/framecap/framecap"
	"github.com/pkg/errors"
)

// Install installs IntegrateStacks() as a framecap hook.
func Install() {
	framecap.AddHooks(IntegrateStacks())
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// IntegrateStacks searches the error chain for errors created by
// github.com/pkg/errors, which have a stack attached.  The stack is adopted
// into a framecap Stack, trimmed to the limit in effect when the hook runs:
// the error's committed override if it already carries one, else the global
// default.
func IntegrateStacks() framecap.Wrapper {
	return framecap.WrapperFunc(func(err error, depth int) error {
		var s stackTracer

		if err != nil && !framecap.HasStack(err) && errors2.As(err, &s) {
			if frames := s.StackTrace(); len(frames) > 0 {
				pcs := make([]uintptr, len(frames))
				for i := range frames {
					pcs[i] = uintptr(frames[i])
				}

				limit := framecap.StackLimit(err)
				if limit.IsUnset() {
					limit = framecap.StackTraceLimit()
				}

				stack := framecap.NewStack(pcs, false).Trim(limit)
				return framecap.WithStack(stack).Wrap(err, depth)
			}
		}

		return err
	})
}
