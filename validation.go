package framecap

import (
	"errors"
	"fmt"
	"net/http"
)

// NewValidation creates a validation error: an error classified as caused by
// bad input, with an HTTP 400 code attached.  It follows the same
// construction contract as New, including stack capture and WithStackLimit
// overrides.
func NewValidation(msg string, wrappers ...Wrapper) error {
	return WrapSkipping(errors.New(msg), 1, prependValidation(wrappers)...)
}

// Validationf creates a validation error with a formatted message.  Like
// Errorf, args may mix format arguments and Wrapper options.
func Validationf(format string, args ...interface{}) error {
	var wrappers []Wrapper

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

	return WrapSkipping(fmt.Errorf(format, args...), 1, prependValidation(wrappers)...)
}

// WithValidation classifies an existing error as a validation failure.
func WithValidation() Wrapper {
	return WrapperFunc(func(err error, _ int) error {
		if err == nil {
			return nil
		}
		return Set(Set(err, errKeyHTTPCode, http.StatusBadRequest), errKeyValidation, true)
	})
}

// WithField names the input field the validation error refers to.
func WithField(name string) Wrapper {
	return WithValue(errKeyField, name)
}

// Field returns the field name attached to a validation error, or "".
func Field(err error) string {
	name, _ := Value(err, errKeyField).(string)
	return name
}

// IsValidation returns true if err was classified as a validation failure.
func IsValidation(err error) bool {
	ok, _ := Value(err, errKeyValidation).(bool)
	return ok
}

// prepend the classification so explicit wrappers can override the code
func prependValidation(wrappers []Wrapper) []Wrapper {
	return append([]Wrapper{WithValidation()}, wrappers...)
}
