package framecap

import "runtime"

// Stack is an immutable snapshot of the call chain at the moment an error was
// created: program counters ordered innermost first, plus whether frames
// beyond the applied limit were discarded.  A Stack is never re-walked or
// modified after capture.
type Stack struct {
	frames    []uintptr
	truncated bool
}

// NewStack builds a Stack from externally captured program counters, e.g.
// frames imported from another error library.  The slice is copied.
func NewStack(frames []uintptr, truncated bool) *Stack {
	s := &Stack{
		frames:    make([]uintptr, len(frames)),
		truncated: truncated,
	}
	copy(s.frames, frames)
	return s
}

// Frames returns a copy of the captured program counters, innermost first.
func (s *Stack) Frames() []uintptr {
	if s == nil || len(s.frames) == 0 {
		return nil
	}
	frames := make([]uintptr, len(s.frames))
	copy(frames, s.frames)
	return frames
}

// Len returns the number of captured frames.
func (s *Stack) Len() int {
	if s == nil {
		return 0
	}
	return len(s.frames)
}

// Truncated returns true if the call chain held more frames than the limit
// applied at capture time.
func (s *Stack) Truncated() bool {
	return s != nil && s.truncated
}

// Trim returns a Stack bounded by limit.  If the stack already fits, it is
// returned as-is.  Used when adopting stacks captured outside this package.
func (s *Stack) Trim(limit Limit) *Stack {
	n, bounded := limit.Bound()
	if s == nil || !bounded || len(s.frames) <= n {
		return s
	}
	return &Stack{frames: s.frames[:n], truncated: true}
}

// capture walks the callers and returns a Stack bounded by limit.  skip is
// the number of frames to omit beyond capture itself: skip == 0 starts the
// stack at capture's caller.  The walk cannot fail; a chain shorter than the
// limit just yields fewer frames.
func capture(skip int, limit Limit) *Stack {
	// +2 skips runtime.Callers and capture.
	skip += 2

	depth, bounded := limit.Bound()
	if bounded && depth >= maxInt {
		// the +1 truncation probe would overflow, and no chain can reach
		// this many frames anyway
		bounded = false
	}
	if bounded && depth == 0 {
		// Probe a single frame so truncated still reports whether any
		// frames existed.
		var probe [1]uintptr
		return &Stack{truncated: runtime.Callers(skip, probe[:]) > 0}
	}

	// Ask for one frame beyond the limit so truncation is detectable,
	// growing the buffer until the runtime returns fewer PCs than requested.
	size := 64
	if bounded && depth+1 < size {
		size = depth + 1
	}
	pcs := make([]uintptr, size)
	for {
		n := runtime.Callers(skip, pcs)
		if n < len(pcs) {
			pcs = pcs[:n]
			break
		}
		if bounded && len(pcs) > depth {
			break
		}
		next := len(pcs) * 2
		if bounded && next > depth+1 {
			next = depth + 1
		}
		pcs = make([]uintptr, next)
	}

	s := &Stack{frames: pcs}
	if bounded && len(s.frames) > depth {
		s.frames = s.frames[:depth]
		s.truncated = true
	}
	return s
}
