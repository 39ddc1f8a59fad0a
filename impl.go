package framecap

import (
	"fmt"
	"io"
	"strings"

	"github.com/framecap/framecap/internal"
)

type errKey int

const (
	errKeyNone errKey = iota
	errKeyStack
	errKeyLimit
	errKeyMessage
	errKeyHTTPCode
	errKeyUserMessage
	errKeyCause
	errKeyFormattedStack
	errKeyValidation
	errKeyField
)

func (e errKey) String() string {
	switch e {
	case errKeyNone:
		return "none"
	case errKeyStack:
		return "stack"
	case errKeyLimit:
		return "stack limit"
	case errKeyMessage:
		return "message"
	case errKeyHTTPCode:
		return "http status code"
	case errKeyUserMessage:
		return "user message"
	case errKeyCause:
		return "cause"
	case errKeyFormattedStack:
		return "formatted stack"
	case errKeyValidation:
		return "validation"
	case errKeyField:
		return "field"
	default:
		return ""
	}
}

// errLink is one link in an error's key/value chain.  Every piece of context
// this package attaches to an error, including its captured stack and its
// committed limit override, is a link.
type errLink struct {
	err        error
	key, value interface{}
}

// Format implements fmt.Formatter
func (e *errLink) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			io.WriteString(s, Details(e))
			return
		}
		fallthrough
	case 's':
		io.WriteString(s, msgWithCauses(e))
	case 'q':
		fmt.Fprintf(s, "%q", e.Error())
	}
}

func msgWithCauses(err error) string {
	messages := make([]string, 0, 5)

	for err != nil {
		if ce := err.Error(); ce != "" {
			messages = append(messages, ce)
		}
		err = Cause(err)
	}

	return strings.Join(messages, ": ")
}

// Error implements golang's error interface
// returns the message value if set, otherwise
// delegates to inner error
func (e *errLink) Error() string {
	if e.key == errKeyMessage {
		if s, ok := e.value.(string); ok {
			return s
		}
	}
	return e.err.Error()
}

// String implements fmt.Stringer
func (e *errLink) String() string {
	return e.Error()
}

// Unwrap returns the next wrapped error.
func (e *errLink) Unwrap() error {
	return e.err
}

// Is implements the new go errors.Is function.  Returns
// true if is(cause, target)
func (e *errLink) Is(target error) bool {
	if e.key == errKeyCause {
		if c, ok := e.value.(error); ok {
			return internal.Is(c, target)
		}
	}
	return false
}

// As implements the new go errors.As function.  Returns
// true if as(cause, target)
func (e *errLink) As(target interface{}) bool {
	if e.key == errKeyCause {
		if c, ok := e.value.(error); ok {
			return internal.As(c, target)
		}
	}
	return false
}
