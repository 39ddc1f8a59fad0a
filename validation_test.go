package framecap

import (
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidation(t *testing.T) {
	_, _, rl, _ := runtime.Caller(0)
	err := NewValidation("email is required")
	assert.EqualError(t, err, "email is required")
	assert.True(t, IsValidation(err))
	assert.Equal(t, 400, HTTPCode(err))

	// stack starts at the construction site, like New
	f, l := Location(err)
	assert.Contains(t, f, "validation_test.go")
	assert.Equal(t, rl+1, l)

	// explicit wrappers can override the classification defaults
	err = NewValidation("nope", WithHTTPCode(422))
	assert.Equal(t, 422, HTTPCode(err))
	assert.True(t, IsValidation(err))
}

func TestValidationf(t *testing.T) {
	err := Validationf("field %s is required", "email", WithField("email"))
	assert.EqualError(t, err, "field email is required")
	assert.True(t, IsValidation(err))
	assert.Equal(t, "email", Field(err))
}

func TestValidation_limit(t *testing.T) {
	// identical capture contract to the simple error family
	var err error
	deepCall(10, func() {
		err = NewValidation("bad", WithStackLimit(Depth(2)))
	})

	s := StackOf(err)
	require.NotNil(t, s)
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Truncated())
}

func TestIsValidation(t *testing.T) {
	assert.False(t, IsValidation(nil))
	assert.False(t, IsValidation(errors.New("boom")))
	assert.False(t, IsValidation(New("boom")))

	// classification survives wrapping
	err := Wrap(NewValidation("bad"), WithUserMessage("calm"))
	assert.True(t, IsValidation(err))
}

func TestField(t *testing.T) {
	assert.Empty(t, Field(nil))
	assert.Empty(t, Field(New("boom")))
	assert.Equal(t, "age", Field(NewValidation("bad", WithField("age"))))
}
