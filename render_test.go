package framecap

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocation(t *testing.T) {
	// nil -> nil
	f, l := Location(nil)
	assert.Equal(t, "", f)
	assert.Equal(t, 0, l)

	// err with no stack
	f, l = Location(errors.New("hi"))
	assert.Equal(t, "", f)
	assert.Equal(t, 0, l)

	_, _, rl, _ := runtime.Caller(0)
	err := New("bang")
	f, l = Location(err)
	assert.Contains(t, f, "render_test.go")
	assert.Equal(t, rl+1, l)
}

func TestSourceLine(t *testing.T) {
	// nil -> empty
	line := SourceLine(nil)
	assert.Empty(t, line)

	// err with no stack
	line = SourceLine(errors.New("hi"))
	assert.Empty(t, line)

	_, _, rl, _ := runtime.Caller(0)
	err := New("bang")
	line = SourceLine(err)
	assert.Equal(t, fmt.Sprintf("github.com/framecap/framecap.TestSourceLine (render_test.go:%v)", rl+1), line)
}

func TestFormattedStack(t *testing.T) {
	// nil -> nil
	assert.Nil(t, FormattedStack(nil))

	// no stack attached -> nil
	assert.Nil(t, FormattedStack(errors.New("asdf")))

	// err with stack
	_, _, rl, _ := runtime.Caller(0)
	err := New("bang")
	lines := FormattedStack(err)
	assert.NotEmpty(t, lines)
	assert.Regexp(t, `github\.com/framecap/framecap\.TestFormattedStack\n\t.+render_test.go:`+strconv.Itoa(rl+1), lines[0])

	// formatted stack can be set explicitly
	fakeStack := []string{"blue", "red"}
	err = New("boom", WithFormattedStack(fakeStack))
	assert.Equal(t, fakeStack, FormattedStack(err))
}

func TestFormattedStack_truncated(t *testing.T) {
	var err error
	deepCall(10, func() {
		err = New("bang", WithStackLimit(Depth(2)))
	})

	lines := FormattedStack(err)
	// one line per frame, plus the ellipsis marker
	require.Len(t, lines, 3)
	assert.Equal(t, "\t...", lines[2])
}

func TestStacktrace(t *testing.T) {
	// nil -> empty
	assert.Empty(t, Stacktrace(nil))

	// no stack attached -> empty
	assert.Empty(t, Stacktrace(errors.New("hi")))

	// err with stack
	err := New("bang")
	lines := FormattedStack(err)
	assert.NotEmpty(t, lines)
	assert.Equal(t, strings.Join(lines, "\n"), Stacktrace(err))

	// formatted stack can be set explicitly
	err = New("boom", WithFormattedStack([]string{"blue", "red"}))
	assert.Equal(t, "blue\nred", Stacktrace(err))
}

func TestDetails(t *testing.T) {
	// nil -> empty
	assert.Empty(t, Details(nil))

	err := New("bang", WithUserMessage("stay calm"))
	deets := Details(err)
	t.Log(deets)
	lines := strings.Split(deets, "\n")
	assert.Equal(t, "bang", lines[0])
	assert.Contains(t, deets, Stacktrace(err))
	assert.Contains(t, deets, "User Message: stay calm")

	// an error with depth 0 still renders its header
	err = New("quiet", WithStackLimit(Depth(0)))
	assert.Equal(t, "quiet", Details(err))
}

func TestRuntimeStackRenderer(t *testing.T) {
	r := RuntimeStackRenderer{}

	// empty stacks are fine
	assert.Equal(t, "header", r.RenderStack("header", nil))
	assert.Equal(t, "header", r.RenderStack("header", &Stack{}))
	assert.Equal(t, "", r.RenderStack("", nil))

	err := New("bang")
	s := StackOf(err)

	// deterministic for identical inputs
	out := r.RenderStack("bang", s)
	assert.Equal(t, out, r.RenderStack("bang", s))
	assert.True(t, strings.HasPrefix(out, "bang\n"))

	// rendering borrows the stack, it never modifies it
	frames := s.Frames()
	r.RenderStack("bang", s)
	assert.Equal(t, frames, s.Frames())
}

func TestFormat(t *testing.T) {
	err := New("bang", WithUserMessage("calm"))

	assert.Equal(t, "bang", fmt.Sprintf("%s", err))
	assert.Equal(t, "bang", fmt.Sprintf("%v", err))
	assert.Equal(t, `"bang"`, fmt.Sprintf("%q", err))
	assert.Equal(t, Details(err), fmt.Sprintf("%+v", err))
}
