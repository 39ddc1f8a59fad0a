package framecap

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrLink_Error(t *testing.T) {
	// delegates to the wrapped error
	err := Set(errors.New("bang"), "color", "red")
	assert.EqualError(t, err, "bang")

	// a message value overrides
	err = Set(err, errKeyMessage, "boom")
	assert.EqualError(t, err, "boom")

	// non-string message values are ignored
	err = Set(errors.New("bang"), errKeyMessage, 5)
	assert.EqualError(t, err, "bang")
}

func TestErrLink_Unwrap(t *testing.T) {
	inner := errors.New("bang")
	err := Set(inner, "color", "red")
	assert.Equal(t, inner, errors.Unwrap(err))
}

func TestErrLink_IsAs(t *testing.T) {
	sentinel := errors.New("sentinel")

	// Is traverses causes
	err := New("outer", WithCause(sentinel))
	assert.True(t, errors.Is(err, sentinel))
	assert.False(t, errors.Is(err, errors.New("other")))

	// As traverses causes
	cause := New("cause", WithHTTPCode(404))
	err = New("outer", WithCause(cause))
	var link *errLink
	assert.True(t, errors.As(err, &link))
}

func TestErrLink_String(t *testing.T) {
	err := New("bang")
	assert.Equal(t, "bang", err.(*errLink).String())
}

func TestErrLink_FormatWithCause(t *testing.T) {
	err := New("outer", WithCause(errors.New("inner")))

	// %s joins the message with its causes
	assert.Equal(t, "outer: inner", fmt.Sprintf("%s", err))
	// Error() stays the bare message
	assert.EqualError(t, err, "outer")
}

func TestErrKey_String(t *testing.T) {
	// keys have readable names for Values() consumers
	assert.Equal(t, "stack", errKeyStack.String())
	assert.Equal(t, "stack limit", errKeyLimit.String())
	assert.Equal(t, "message", errKeyMessage.String())
}
