package framecap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHooks(t *testing.T) {
	ClearHooks()
	defer ClearHooks()

	var appliedCount int
	hook := WrapperFunc(func(err error, i int) error {
		require.NotNil(t, err)
		appliedCount++
		return err
	})
	AddHooks(hook)

	err := Wrap(errors.New("boom"))
	assert.Equal(t, 1, appliedCount)

	Wrap(err)
	assert.Equal(t, 2, appliedCount)

	ClearHooks()
	appliedCount = 0

	Wrap(errors.New("boom"))
	assert.Zero(t, appliedCount)

	AddOnceHooks(hook)
	err = Wrap(errors.New("boom"))
	assert.Equal(t, 1, appliedCount)
	Wrap(errors.New("boom"))
	assert.Equal(t, 2, appliedCount)
	Wrap(err)
	assert.Equal(t, 2, appliedCount)
}

func TestHooks_runBeforeCapture(t *testing.T) {
	ClearHooks()
	defer ClearHooks()

	// a hook can commit a limit override; the capture at the end of
	// construction honors it
	AddHooks(WithStackLimit(Depth(1)))

	var err error
	deepCall(10, func() {
		err = New("boom")
	})
	assert.Equal(t, 1, StackOf(err).Len())
}
