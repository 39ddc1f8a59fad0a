// Package goerrors provides a framecap hook to integrate go-errors stacktraces.
// The hook detects errors created with github.com/go-errors/errors and
// translates their stacks into framecap stacks.
//
// Hooks run before wrappers, so a framecap.WithStackLimit passed in the same
// Wrap call does not trim the imported stack.  To bound an imported stack,
// commit the override first, then wrap again:
//
//	err = framecap.Wrap(err, framecap.WithStackLimit(framecap.Depth(5)))
//	err = framecap.Wrap(err)
package goerrors

import (
	"github.com/framecap/framecap"
	"github.com/framecap/framecap/internal"
)

// Install installs IntegrateStacks as a framecap hook.
func Install() {
	framecap.AddHooks(IntegrateStacks())
}

type callerser interface {
	Callers() []uintptr
}

// IntegrateStacks searches the error chain for errors implementing
// callerser and returning a non-empty stack.  The stack is adopted into a
// framecap Stack, trimmed to the limit in effect when the hook runs: the
// error's committed override if it already carries one, else the global
// default.
func IntegrateStacks() framecap.Wrapper {
	return framecap.WrapperFunc(func(err error, depth int) error {
		if err == nil || framecap.HasStack(err) {
			return err
		}

		var c callerser

		if internal.As(err, &c) {
			if pcs := c.Callers(); len(pcs) > 0 {
				return framecap.WithStack(adopt(err, pcs)).Wrap(err, depth)
			}
		}

		return err
	})
}

func adopt(err error, pcs []uintptr) *framecap.Stack {
	limit := framecap.StackLimit(err)
	if limit.IsUnset() {
		limit = framecap.StackTraceLimit()
	}
	return framecap.NewStack(pcs, false).Trim(limit)
}
