package framecap

import (
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"
)

// Format adapts an error to the fmt.Formatter conventions used by this
// package: %+v renders Details, %s and %v the message, %q the quoted message.
// Intended for foreign error types which wrap this package's errors and want
// consistent formatting.
func Format(s fmt.State, verb rune, err error) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			io.WriteString(s, Details(err))
			return
		}
		fallthrough
	case 's':
		io.WriteString(s, err.Error())
	case 'q':
		fmt.Fprintf(s, "%q", err.Error())
	}
}

// StackRenderer consumes a captured Stack and an error header and produces a
// display string.  Implementations must be deterministic given identical
// inputs, must not capture new frames, must not modify the Stack, and must
// handle an empty stack without failure.
type StackRenderer interface {
	RenderStack(header string, stack *Stack) string
}

// RuntimeStackRenderer renders frames in the style of the runtime package:
// the fully qualified function, then the file and line indented on the next
// line.  A truncated stack ends with an ellipsis line.
type RuntimeStackRenderer struct{}

// RenderStack implements StackRenderer.
func (RuntimeStackRenderer) RenderStack(header string, stack *Stack) string {
	lines := formatStack(stack)
	switch {
	case header == "":
		return strings.Join(lines, "\n")
	case len(lines) == 0:
		return header
	default:
		return header + "\n" + strings.Join(lines, "\n")
	}
}

// DefaultStackRenderer renders stacks for Details() and the %+v format verb.
var DefaultStackRenderer StackRenderer = RuntimeStackRenderer{}

// formatStack resolves the captured program counters through
// runtime.CallersFrames, which accounts for the inline-adjusted PCs
// runtime.Callers emits.  Resolving PCs individually with FuncForPC
// misattributes the innermost frame when the skip boundary lands inside
// inlined calls.
func formatStack(stack *Stack) []string {
	pcs := stack.Frames()
	if len(pcs) == 0 {
		return nil
	}

	lines := make([]string, 0, len(pcs)+1)
	frames := runtime.CallersFrames(pcs)
	for {
		fr, more := frames.Next()
		lines = append(lines, fmt.Sprintf("%s\n\t%s:%d", fr.Function, fr.File, fr.Line))
		if !more {
			break
		}
	}
	if stack.Truncated() {
		lines = append(lines, "\t...")
	}
	return lines
}

func innermostFrame(stack *Stack) (runtime.Frame, bool) {
	pcs := stack.Frames()
	if len(pcs) == 0 {
		return runtime.Frame{}, false
	}
	fr, _ := runtime.CallersFrames(pcs).Next()
	return fr, true
}

// Location returns the file and line of the innermost captured frame.
// Returns "" and 0 if err has no stack.
func Location(err error) (file string, line int) {
	if fr, ok := innermostFrame(StackOf(err)); ok {
		return fr.File, fr.Line
	}
	return "", 0
}

// SourceLine returns a one-line description of the innermost captured frame,
// like "pkg.FuncName (file.go:123)".  Returns empty if err has no stack.
func SourceLine(err error) string {
	if fr, ok := innermostFrame(StackOf(err)); ok {
		return fmt.Sprintf("%s (%s:%d)", fr.Function, filepath.Base(fr.File), fr.Line)
	}
	return ""
}

// FormattedStack returns the stack rendered as a slice of lines, one per
// frame, innermost first.  If a pre-formatted stack was attached with
// WithFormattedStack, it takes precedence over rendering the raw stack.
// If err has no stack, returns nil.
func FormattedStack(err error) []string {
	if lines, ok := Value(err, errKeyFormattedStack).([]string); ok && len(lines) > 0 {
		return lines
	}
	return formatStack(StackOf(err))
}

// Stacktrace returns the error's stacktrace as a string.
// If err has no stack, returns an empty string.
func Stacktrace(err error) string {
	return strings.Join(FormattedStack(err), "\n")
}

// Details returns err.Error(), the user message if one is set, and the
// stacktrace, rendered with DefaultStackRenderer.
// If err is nil, returns "".
func Details(err error) string {
	if err == nil {
		return ""
	}

	header := err.Error()
	if um := UserMessage(err); um != "" {
		header += "\nUser Message: " + um
	}

	var out string
	if lines, ok := Value(err, errKeyFormattedStack).([]string); ok && len(lines) > 0 {
		out = header + "\n" + strings.Join(lines, "\n")
	} else {
		out = DefaultStackRenderer.RenderStack(header, StackOf(err))
	}

	// group errors render each member in full
	for _, m := range GroupMembers(err) {
		out += "\n" + Details(m)
	}

	return out
}
